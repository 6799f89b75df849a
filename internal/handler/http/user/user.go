// Package user provides registration and login endpoints.
package user

import (
	"encoding/json"
	"net/http"
	"time"

	"typoteka/internal/domain/entity"
	authhttp "typoteka/internal/handler/http/auth"
	"typoteka/internal/handler/http/respond"
	userUC "typoteka/internal/usecase/user"
)

// maxUserBody bounds the registration payload.
const maxUserBody = 16 << 10

// DTO is a user as returned by the API. The password hash never leaves the
// service.
type DTO struct {
	ID        int64     `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	Avatar    string    `json:"avatar,omitempty"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewDTO converts a user.
func NewDTO(u *entity.User) DTO {
	return DTO{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Avatar:    u.Avatar,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

// RegisterHandler serves POST /user.
type RegisterHandler struct{ Svc *userUC.Service }

// @Summary      Register a user
// @Description  The first registered user becomes the admin.
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        user body entity.UserInput true "Registration"
// @Success      201 {object} DTO
// @Failure      400 {object} respond.ValidationBody
// @Router       /user [post]
func (h RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var in entity.UserInput
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxUserBody)).Decode(&in); err != nil {
		respond.Message(w, http.StatusBadRequest, "invalid request body")
		return
	}
	user, err := h.Svc.Register(r.Context(), in)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusCreated, NewDTO(user))
}

// Register mounts POST /user and POST /user/login; login is wrapped in limit.
func Register(mux *http.ServeMux, svc *userUC.Service, limit func(http.Handler) http.Handler) {
	mux.Handle("POST /user", RegisterHandler{Svc: svc})
	mux.Handle("POST /user/login", limit(authhttp.TokenHandler(svc)))
}
