// Package flash exposes the one-shot flash payload over HTTP and stores the
// draft of a rejected form for the client to restore.
package flash

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"typoteka/internal/domain/entity"
	"typoteka/internal/handler/http/respond"
	flashstore "typoteka/internal/infra/flash"
	"typoteka/internal/observability/logging"
	"typoteka/internal/observability/metrics"
)

// SessionHeader carries the client session id.
const SessionHeader = "X-Session-ID"

// Keep stores draft and the validation messages of err under the request's
// session id. It does nothing unless err is a validation failure and the
// request carries a session id. Storage failures are logged, never returned:
// the client still gets the validation response.
func Keep(store flashstore.Store, r *http.Request, draft any, err error) {
	if store == nil {
		return
	}
	sessionID := r.Header.Get(SessionHeader)
	if sessionID == "" {
		return
	}
	var violations entity.ValidationErrors
	if !errors.As(err, &violations) {
		return
	}

	logger := logging.FromContext(r.Context())
	raw, mErr := json.Marshal(draft)
	if mErr != nil {
		logger.Warn("flash: draft not encodable", slog.Any("error", mErr))
		return
	}
	payload := flashstore.Payload{Draft: raw, ValidationMessages: violations.Messages()}
	if pErr := store.Put(r.Context(), sessionID, payload); pErr != nil {
		metrics.RecordFlash("put", "error")
		logger.Warn("flash: put failed", slog.String("error", respond.SanitizeError(pErr)))
		return
	}
	metrics.RecordFlash("put", "stored")
}

// TakeHandler serves GET /flash: the stored payload once, then 204.
type TakeHandler struct {
	Store flashstore.Store
}

// @Summary      Take the flash payload
// @Description  Returns the draft and messages left by the last failed submission, once.
// @Tags         flash
// @Produce      json
// @Param        X-Session-ID header string true "Session ID"
// @Success      200 {object} flashstore.Payload
// @Success      204 "Nothing stored"
// @Failure      400 {object} respond.ErrorBody
// @Router       /flash [get]
func (h TakeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sessionID := r.Header.Get(SessionHeader)
	if err := flashstore.CheckSessionID(sessionID); err != nil {
		respond.Message(w, http.StatusBadRequest, SessionHeader+" header is required")
		return
	}

	payload, ok, err := h.Store.Take(r.Context(), sessionID)
	if err != nil {
		metrics.RecordFlash("take", "error")
		respond.SafeError(w, r, http.StatusInternalServerError, err)
		return
	}
	if !ok {
		metrics.RecordFlash("take", "miss")
		w.WriteHeader(http.StatusNoContent)
		return
	}
	metrics.RecordFlash("take", "hit")
	respond.JSON(w, http.StatusOK, payload)
}

// Register mounts GET /flash.
func Register(mux *http.ServeMux, store flashstore.Store) {
	mux.Handle("GET /flash", TakeHandler{Store: store})
}
