package auth

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"typoteka/internal/handler/http/respond"
	"typoteka/internal/observability/logging"
	authservice "typoteka/internal/service/auth"
)

// maxLoginBody bounds the login payload.
const maxLoginBody = 4 << 10

// LoginService exchanges credentials for a token.
type LoginService interface {
	Login(ctx context.Context, creds authservice.Credentials) (*authservice.AccessToken, error)
}

// TokenHandler authenticates {email, password} and answers with
// {accessToken, expiresAt}.
//
// @Summary      Log in
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        credentials body authservice.Credentials true "Email and password"
// @Success      200 {object} authservice.AccessToken
// @Failure      400 {object} respond.ErrorBody
// @Failure      401 {object} respond.ErrorBody
// @Failure      429 {object} respond.ErrorBody "Too many attempts"
// @Header       429 {integer} Retry-After "Seconds until the client should retry"
// @Router       /user/login [post]
func TokenHandler(svc LoginService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		logger := logging.FromContext(r.Context())

		var creds authservice.Credentials
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxLoginBody)).Decode(&creds); err != nil {
			logger.Warn("authentication failed", slog.String("reason", "invalid_request"))
			RecordLoginDuration("bad_request", time.Since(start).Seconds())
			respond.Message(w, http.StatusBadRequest, "invalid request body")
			return
		}

		token, err := svc.Login(r.Context(), creds)
		if err != nil {
			result := "failure"
			if respond.StatusFor(err) == http.StatusInternalServerError {
				result = "error"
			}
			RecordLoginDuration(result, time.Since(start).Seconds())
			respond.Error(w, r, err)
			return
		}

		logger.Info("authentication successful",
			slog.Int64("duration_ms", time.Since(start).Milliseconds()))
		RecordLoginDuration("success", time.Since(start).Seconds())
		respond.JSON(w, http.StatusOK, token)
	}
}
