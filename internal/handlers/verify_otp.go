package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"regexp"

	"github.com/sbilibin2017/otp-auth/internal/logger"
	"github.com/sbilibin2017/otp-auth/internal/services"
)

// OTPVerifier defines the interface that the verification service must implement.
type OTPVerifier interface {
	VerifyOTP(ctx context.Context, email, code string) (string, error)
}

// SessionCookier builds the cookie carrying a freshly issued session token.
type SessionCookier interface {
	SessionCookie(token string, secure bool) *http.Cookie
}

var otpRegexp = regexp.MustCompile(`^\d{6}$`)

// VerifyOTPRequest represents the JSON body for OTP verification
// swagger:model VerifyOTPRequest
type VerifyOTPRequest struct {
	// Email
	// required: true
	// default: john@example.com
	Email string `json:"email"`

	// 6-digit code from the verification mail
	// required: true
	// default: 123456
	OTP string `json:"otp"`
}

// VerifyOTPResponse represents a successful verification response
// swagger:model VerifyOTPResponse
type VerifyOTPResponse struct {
	// Success flag
	// default: true
	Success bool `json:"success"`

	// Success message
	// default: Email verified successfully!
	Message string `json:"message"`

	// Verified email
	// default: john@example.com
	Email string `json:"email"`
}

// VerifyOTPErrorResponse represents an error response for OTP verification
// swagger:model VerifyOTPErrorResponse
type VerifyOTPErrorResponse struct {
	// Error message
	// default: Invalid OTP
	Error string `json:"error"`
}

// NewVerifyOTPHandler returns an HTTP handler for OTP verification.
// The format check runs before any store access; on success the user is
// logged in immediately via the session cookie.
// @Summary Verify email with OTP
// @Description Checks the submitted 6-digit code against the outstanding one, marks the email verified and sets a session cookie.
// @Tags auth
// @Accept json
// @Produce json
// @Param verifyOtpRequest body handlers.VerifyOTPRequest true "OTP verification request"
// @Success 200 {object} handlers.VerifyOTPResponse "Email verified, session cookie set"
// @Failure 400 {object} handlers.VerifyOTPErrorResponse "Missing/malformed/mismatched OTP"
// @Failure 404 {object} handlers.VerifyOTPErrorResponse "No such user"
// @Failure 500 {object} handlers.VerifyOTPErrorResponse "Store failure"
// @Router /verifyotp [post]
func NewVerifyOTPHandler(svc OTPVerifier, cookier SessionCookier, secureCookie bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req VerifyOTPRequest

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(VerifyOTPErrorResponse{
				Error: "invalid request body",
			})
			return
		}

		if req.Email == "" || req.OTP == "" {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(VerifyOTPErrorResponse{
				Error: "Email and OTP are required",
			})
			return
		}

		if !otpRegexp.MatchString(req.OTP) {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(VerifyOTPErrorResponse{
				Error: "OTP must be a 6-digit number",
			})
			return
		}

		token, err := svc.VerifyOTP(r.Context(), req.Email, req.OTP)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrUserDoesNotExist):
				w.WriteHeader(http.StatusNotFound)
				json.NewEncoder(w).Encode(VerifyOTPErrorResponse{
					Error: "User not found",
				})
			case errors.Is(err, services.ErrOTPMismatch):
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(VerifyOTPErrorResponse{
					Error: "Invalid OTP",
				})
			case errors.Is(err, services.ErrOTPExpired):
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(VerifyOTPErrorResponse{
					Error: "OTP expired",
				})
			default:
				logger.Log.Errorw("internal server error", "err", err)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(VerifyOTPErrorResponse{
					Error: "Internal server error",
				})
			}
			return
		}

		http.SetCookie(w, cookier.SessionCookie(token, secureCookie))

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(VerifyOTPResponse{
			Success: true,
			Message: "Email verified successfully!",
			Email:   req.Email,
		})
	}
}
