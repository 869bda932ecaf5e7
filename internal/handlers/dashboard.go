package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/sbilibin2017/otp-auth/internal/logger"
	"github.com/sbilibin2017/otp-auth/internal/middlewares"
	"github.com/sbilibin2017/otp-auth/internal/models"
	"github.com/sbilibin2017/otp-auth/internal/services"
)

// UserGetter defines the interface that the dashboard service must implement.
type UserGetter interface {
	GetUser(ctx context.Context, userID uuid.UUID) (*models.UserDB, error)
}

// DashboardResponse represents the authenticated user's dashboard payload
// swagger:model DashboardResponse
type DashboardResponse struct {
	// User id
	UserID string `json:"user_id"`

	// Email
	// default: john@example.com
	Email string `json:"email"`

	// First name
	// default: John
	FirstName string `json:"firstName"`

	// Last name
	// default: Doe
	LastName string `json:"lastName"`
}

// DashboardErrorResponse represents an error response for the dashboard
// swagger:model DashboardErrorResponse
type DashboardErrorResponse struct {
	// Error message
	// default: Internal server error
	Error string `json:"error"`
}

// NewDashboardHandler returns the protected placeholder dashboard. It relies
// on AuthMiddleware having decoded the session cookie into context claims.
// @Summary Dashboard
// @Description Returns the authenticated user's profile. Requires a valid session cookie.
// @Tags dashboard
// @Produce json
// @Success 200 {object} handlers.DashboardResponse "Authenticated user"
// @Failure 401 {object} handlers.DashboardErrorResponse "Missing or invalid session"
// @Failure 500 {object} handlers.DashboardErrorResponse "Store failure"
// @Router /dashboard [get]
func NewDashboardHandler(svc UserGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := middlewares.GetClaimsFromContext(r.Context())
		if claims == nil {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(DashboardErrorResponse{
				Error: "Unauthorized",
			})
			return
		}

		user, err := svc.GetUser(r.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, services.ErrUserDoesNotExist) {
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(DashboardErrorResponse{
					Error: "Unauthorized",
				})
				return
			}
			logger.Log.Errorw("internal server error", "err", err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(DashboardErrorResponse{
				Error: "Internal server error",
			})
			return
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(DashboardResponse{
			UserID:    user.UserID.String(),
			Email:     user.Email,
			FirstName: user.FirstName,
			LastName:  user.LastName,
		})
	}
}
