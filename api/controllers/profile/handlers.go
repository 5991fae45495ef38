package profile

import (
	"net/http"

	"github.com/shophub-io/shophub-backend/api/controllers/auth"
	"github.com/shophub-io/shophub-backend/api/controllers/orders"
	"github.com/shophub-io/shophub-backend/api/middleware"
	"github.com/shophub-io/shophub-backend/api/responses"
	"github.com/shophub-io/shophub-backend/api/validators"
	"github.com/shophub-io/shophub-backend/internal/users"
	"github.com/shophub-io/shophub-backend/pkg/db/models"
	"github.com/shophub-io/shophub-backend/pkg/logger"
)

// Response is the account view returned to its owner.
type Response struct {
	User    auth.UserResponse       `json:"user"`
	Phone   string                  `json:"phone,omitempty"`
	Address *orders.AddressResponse `json:"address,omitempty"`
}

// UpdateRequest carries optional account and default-address changes; absent
// fields keep their current values.
type UpdateRequest struct {
	Email     *string `json:"email" validate:"omitempty,email"`
	FirstName *string `json:"first_name" validate:"omitempty,max=128"`
	LastName  *string `json:"last_name" validate:"omitempty,max=128"`
	Phone     *string `json:"phone" validate:"omitempty,max=32"`

	FullName   *string `json:"full_name" validate:"omitempty,min=1"`
	Line1      *string `json:"line1" validate:"omitempty,min=1"`
	Line2      *string `json:"line2"`
	City       *string `json:"city" validate:"omitempty,min=1"`
	State      *string `json:"state"`
	PostalCode *string `json:"postal_code" validate:"omitempty,min=1"`
	Country    *string `json:"country" validate:"omitempty,min=1"`
}

func newResponse(p *users.Profile) Response {
	resp := Response{User: auth.NewUserResponse(p.User)}
	if p.User.Phone != nil {
		resp.Phone = *p.User.Phone
	}
	resp.Address = addressResponse(p.Address)
	return resp
}

func addressResponse(addr *models.Address) *orders.AddressResponse {
	if addr == nil {
		return nil
	}
	return &orders.AddressResponse{
		FullName:   addr.FullName,
		Line1:      addr.Line1,
		Line2:      addr.Line2,
		City:       addr.City,
		State:      addr.State,
		PostalCode: addr.PostalCode,
		Country:    addr.Country,
	}
}

// Get returns the authenticated user's profile with their default address.
func Get(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserIDFromContext(r.Context())

		p, err := svc.GetProfile(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newResponse(p))
	}
}

// Update applies partial changes to the profile and its default address.
func Update(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserIDFromContext(r.Context())

		var payload UpdateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		p, err := svc.UpdateProfile(r.Context(), userID, users.ProfileUpdate{
			Email:      payload.Email,
			FirstName:  payload.FirstName,
			LastName:   payload.LastName,
			Phone:      payload.Phone,
			FullName:   payload.FullName,
			Line1:      payload.Line1,
			Line2:      payload.Line2,
			City:       payload.City,
			State:      payload.State,
			PostalCode: payload.PostalCode,
			Country:    payload.Country,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newResponse(p))
	}
}
