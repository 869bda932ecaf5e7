package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/sbilibin2017/otp-auth/internal/jwt"
)

// LogoutResponse represents a successful logout response
// swagger:model LogoutResponse
type LogoutResponse struct {
	// Success flag
	// default: true
	Success bool `json:"success"`
}

// NewLogoutHandler returns an HTTP handler that clears the session cookie.
// @Summary Log out
// @Description Clears the session cookie by re-issuing it with Max-Age=0 and no value.
// @Tags auth
// @Produce json
// @Success 200 {object} handlers.LogoutResponse "Session cleared"
// @Router /logout [post]
func NewLogoutHandler(secureCookie bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, jwt.ExpiredSessionCookie(secureCookie))

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(LogoutResponse{
			Success: true,
		})
	}
}
