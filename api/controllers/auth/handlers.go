package auth

import (
	"net/http"

	"github.com/shophub-io/shophub-backend/api/middleware"
	"github.com/shophub-io/shophub-backend/api/responses"
	"github.com/shophub-io/shophub-backend/api/validators"
	"github.com/shophub-io/shophub-backend/internal/users"
	"github.com/shophub-io/shophub-backend/pkg/db/models"
	"github.com/shophub-io/shophub-backend/pkg/logger"
	"github.com/shophub-io/shophub-backend/pkg/session"
)

// UserResponse is the public account shape.
type UserResponse struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// NewUserResponse maps an account into its public shape.
func NewUserResponse(user *models.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}
}

// Register creates an account and logs the new user into the current session.
func Register(svc users.Service, store *session.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload RegisterRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := svc.Register(r.Context(), users.RegisterInput{
			Username:  payload.Username,
			Email:     payload.Email,
			Password:  payload.Password,
			FirstName: payload.FirstName,
			LastName:  payload.LastName,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sessionID := middleware.SessionIDFromContext(r.Context())
		if err := store.Put(r.Context(), sessionID, session.KeyUser, user.ID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, NewUserResponse(user))
	}
}

// Login verifies credentials and binds the user to the current session.
func Login(svc users.Service, store *session.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload LoginRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := svc.Authenticate(r.Context(), payload.Username, payload.Password)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sessionID := middleware.SessionIDFromContext(r.Context())
		if err := store.Put(r.Context(), sessionID, session.KeyUser, user.ID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, NewUserResponse(user))
	}
}

// Logout drops the session's user binding along with its basket and any
// in-flight chat order flow.
func Logout(store *session.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := middleware.SessionIDFromContext(r.Context())

		for _, name := range []string{session.KeyUser, session.KeyCart, session.KeyBot} {
			if err := store.Delete(r.Context(), sessionID, name); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}
		responses.WriteSuccess(w, map[string]bool{"logged_out": true})
	}
}
