package handlers

import (
	"errors"
	"net/http"

	"homehub/internal/security"
	"homehub/internal/service"
)

// AuthHandler handles authentication HTTP requests
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register handles account creation and logs the new user in
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid form data")
		return
	}

	username := r.FormValue("username")
	email := r.FormValue("email")
	password := r.FormValue("password")

	user, err := h.authService.Register(username, email, password)
	if err != nil {
		respondServiceError(w, "Registration failed", err)
		return
	}

	session, _, err := h.authService.Login(username, password)
	if err != nil {
		respondServiceError(w, "Post-registration login failed", err)
		return
	}
	http.SetCookie(w, security.CreateSessionCookie(r, session.ID, session.ExpiresAt))

	if isAJAX(r) {
		respondSuccess(w, http.StatusCreated, user)
		return
	}
	http.Redirect(w, r, "/families", http.StatusSeeOther)
}

// Login authenticates a user and sets the session cookie
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid form data")
		return
	}

	session, user, err := h.authService.Login(r.FormValue("username"), r.FormValue("password"))
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			respondError(w, http.StatusUnauthorized, "Invalid username or password")
			return
		}
		respondServiceError(w, "Login failed", err)
		return
	}
	http.SetCookie(w, security.CreateSessionCookie(r, session.ID, session.ExpiresAt))

	if isAJAX(r) {
		respondSuccess(w, http.StatusOK, user)
		return
	}
	http.Redirect(w, r, "/families", http.StatusSeeOther)
}

// Logout invalidates the session and clears the cookie
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(security.SessionCookieName); err == nil {
		if err := h.authService.Logout(cookie.Value); err != nil {
			respondServiceError(w, "Logout failed", err)
			return
		}
	}
	http.SetCookie(w, security.CreateDeleteCookie(r))

	if isAJAX(r) {
		respondSuccess(w, http.StatusOK, nil)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// Me returns the logged-in user
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, http.StatusOK, GetUserFromContext(r.Context()))
}

// ChangePassword updates the logged-in user's password
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid form data")
		return
	}
	user := GetUserFromContext(r.Context())

	err := h.authService.ChangePassword(user.ID, r.FormValue("current_password"), r.FormValue("new_password"))
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			respondError(w, http.StatusForbidden, "Current password is incorrect")
			return
		}
		respondServiceError(w, "Password change failed", err)
		return
	}
	respondSuccess(w, http.StatusOK, nil)
}
