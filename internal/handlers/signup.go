package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"regexp"

	"github.com/sbilibin2017/otp-auth/internal/logger"
)

// Signuper defines the interface that the signup service must implement.
type Signuper interface {
	Signup(ctx context.Context, email, firstName, lastName, password string) error
}

var emailRegexp = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const minPasswordLen = 8

// SignupRequest represents the JSON body for user signup
// swagger:model SignupRequest
type SignupRequest struct {
	// Email
	// required: true
	// default: john@example.com
	Email string `json:"email"`

	// First name
	// required: true
	// default: John
	FirstName string `json:"firstName"`

	// Last name
	// required: true
	// default: Doe
	LastName string `json:"lastName"`

	// Password, at least 8 characters
	// required: true
	// default: secret123
	Password string `json:"password"`
}

// SignupResponse represents a successful signup response
// swagger:model SignupResponse
type SignupResponse struct {
	// Success flag
	// default: true
	Success bool `json:"success"`

	// Success message
	// default: OTP sent to your email. Please verify.
	Message string `json:"message"`

	// Email the OTP was sent to
	// default: john@example.com
	Email string `json:"email"`
}

// SignupErrorResponse represents an error response for signup
// swagger:model SignupErrorResponse
type SignupErrorResponse struct {
	// Error message
	// default: Invalid email format
	Error string `json:"error"`
}

// NewSignupHandler returns an HTTP handler for user signup.
// @Summary Sign up with email verification
// @Description Creates or refreshes a pending user, hashes the password and emails a 6-digit OTP. Repeating signup before verification overwrites the pending record.
// @Tags auth
// @Accept json
// @Produce json
// @Param signupRequest body handlers.SignupRequest true "User signup request"
// @Success 200 {object} handlers.SignupResponse "OTP dispatched"
// @Failure 400 {object} handlers.SignupErrorResponse "Missing fields / invalid email / short password"
// @Failure 500 {object} handlers.SignupErrorResponse "Store or mail dispatch failure"
// @Router /signup [post]
func NewSignupHandler(svc Signuper) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SignupRequest

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(SignupErrorResponse{
				Error: "invalid request body",
			})
			return
		}

		if req.Email == "" || req.FirstName == "" || req.LastName == "" || req.Password == "" {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(SignupErrorResponse{
				Error: "Missing required fields: email, firstName, lastName, password",
			})
			return
		}

		if !emailRegexp.MatchString(req.Email) {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(SignupErrorResponse{
				Error: "Invalid email format",
			})
			return
		}

		if len(req.Password) < minPasswordLen {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(SignupErrorResponse{
				Error: "Password must be at least 8 characters long",
			})
			return
		}

		if err := svc.Signup(r.Context(), req.Email, req.FirstName, req.LastName, req.Password); err != nil {
			logger.Log.Errorw("internal server error", "err", err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(SignupErrorResponse{
				Error: "Internal server error",
			})
			return
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(SignupResponse{
			Success: true,
			Message: "OTP sent to your email. Please verify.",
			Email:   req.Email,
		})
	}
}
