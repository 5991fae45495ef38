package checkout

import (
	"net/http"

	"github.com/shophub-io/shophub-backend/api/controllers/orders"
	"github.com/shophub-io/shophub-backend/api/middleware"
	"github.com/shophub-io/shophub-backend/api/responses"
	"github.com/shophub-io/shophub-backend/api/validators"
	cartsvc "github.com/shophub-io/shophub-backend/internal/cart"
	checkoutsvc "github.com/shophub-io/shophub-backend/internal/checkout"
	"github.com/shophub-io/shophub-backend/internal/payments"
	pkgerrors "github.com/shophub-io/shophub-backend/pkg/errors"
	"github.com/shophub-io/shophub-backend/pkg/logger"
)

// PlaceOrder turns the session basket into a cash-on-delivery order.
func PlaceOrder(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserIDFromContext(r.Context())
		sessionID := middleware.SessionIDFromContext(r.Context())

		var payload PlaceOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.PlaceOrder(r.Context(), userID, sessionID, payload.toAddress())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, orders.NewOrderResponse(order))
	}
}

// GatewayCharge creates an uncaptured gateway payment for the basket total
// and returns its opaque reference. The basket itself is untouched; capture
// and settlement happen on the gateway side.
func GatewayCharge(gateway *payments.Gateway, carts cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if gateway == nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeDependency, "payment gateway is not configured"))
			return
		}

		sessionID := middleware.SessionIDFromContext(r.Context())

		var payload GatewayChargeRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		doc, err := carts.Get(r.Context(), sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if doc.Len() == 0 {
			responses.WriteError(r.Context(), logg, w, checkoutsvc.ErrEmptyCart)
			return
		}

		ref, err := gateway.CreateOrderPayment(r.Context(), payments.ChargeParams{
			OrderID:  payload.OrderID,
			Total:    doc.Total(),
			SourceID: payload.SourceID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, ref)
	}
}
