package auth

import (
	"net/http"

	"github.com/dodo-tasks/backend/internal/models"
	"github.com/dodo-tasks/backend/internal/respond"
)

// Handler holds auth-related HTTP handlers.
type Handler struct {
	svc *Service
	out *respond.Writer
}

func NewHandler(svc *Service, out *respond.Writer) *Handler {
	return &Handler{svc: svc, out: out}
}

// Register creates a new user.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := respond.Decode(r, &req); err != nil {
		h.out.Error(w, r, "register", err)
		return
	}

	user, err := h.svc.Register(r.Context(), req)
	if err != nil {
		h.out.Error(w, r, "register", err)
		return
	}

	h.out.Logger.InfoContext(r.Context(), "user registered", "user_id", user.ID, "user_name", user.UserName)
	respond.Message(w, http.StatusCreated, "User registered successfully")
}

// Login authenticates a user and returns a bearer token.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := respond.Decode(r, &req); err != nil {
		h.out.Error(w, r, "login", err)
		return
	}

	res, err := h.svc.Login(r.Context(), req)
	if err != nil {
		h.out.Error(w, r, "login", err)
		return
	}
	respond.JSON(w, http.StatusOK, res)
}
