package http

import (
	"net/http"

	"github.com/fjod/storefront/internal/auth"
)

type AuthHandler struct {
	auth    AuthService
	cookies auth.CookieFactory
}

func NewAuthHandler(a AuthService, cookies auth.CookieFactory) *AuthHandler {
	return &AuthHandler{auth: a, cookies: cookies}
}

type RegisterRequestDTO struct {
	Name     string `json:"name" validate:"max=100"`
	Email    string `json:"email" validate:"omitempty,email,max=254"`
	Password string `json:"password" validate:"max=72"`
}

type LoginRequestDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type MakeAdminRequestDTO struct {
	Email string `json:"email"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequestDTO
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	res, err := h.auth.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		handleError(w, r, err)
		return
	}

	respondOK(w, r, http.StatusCreated, res.Message, nil)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequestDTO
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	session, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		handleError(w, r, err)
		return
	}

	http.SetCookie(w, h.cookies.Session(session.Token, session.Expires))
	respondOK(w, r, http.StatusOK, session.Message, envelope{"isAdmin": session.User.IsAdmin})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, h.cookies.Cleared())
	respondOK(w, r, http.StatusOK, "Logout Successfull.", nil)
}

func (h *AuthHandler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.auth.CurrentUser(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		handleError(w, r, err)
		return
	}

	respondOK(w, r, http.StatusOK, "", envelope{"user": user})
}

func (h *AuthHandler) MakeAdmin(w http.ResponseWriter, r *http.Request) {
	var req MakeAdminRequestDTO
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	summary, err := h.auth.MakeAdmin(r.Context(), req.Email)
	if err != nil {
		handleError(w, r, err)
		return
	}

	respondOK(w, r, http.StatusOK, "User has been granted admin privileges.", envelope{"user": summary})
}
