package orders

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"

	"github.com/shophub-io/shophub-backend/api/middleware"
	"github.com/shophub-io/shophub-backend/api/responses"
	"github.com/shophub-io/shophub-backend/api/validators"
	"github.com/shophub-io/shophub-backend/internal/checkout"
	"github.com/shophub-io/shophub-backend/internal/mirror"
	"github.com/shophub-io/shophub-backend/pkg/db/models"
	pkgerrors "github.com/shophub-io/shophub-backend/pkg/errors"
	"github.com/shophub-io/shophub-backend/pkg/logger"
)

type orderLoader interface {
	FindByIDAndUser(ctx context.Context, id, userID int64) (*models.Order, error)
	ListByUser(ctx context.Context, userID int64) ([]models.Order, error)
}

type mirrorReader interface {
	GetOrder(ctx context.Context, orderID int64) *mirror.OrderDoc
}

// List returns the authenticated user's orders, newest first.
func List(repo orderLoader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserIDFromContext(r.Context())

		rows, err := repo.ListByUser(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders"))
			return
		}

		out := make([]OrderResponse, 0, len(rows))
		for i := range rows {
			out = append(out, NewOrderResponse(&rows[i]))
		}
		responses.WriteSuccess(w, out)
	}
}

// Get returns one order owned by the authenticated user. The mirror document
// is preferred when it exists and belongs to the caller; the system of record
// backs misses.
func Get(repo orderLoader, reader mirrorReader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserIDFromContext(r.Context())

		orderID, err := orderIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if doc := reader.GetOrder(r.Context(), orderID); doc != nil && doc.UserID == userID {
			responses.WriteSuccess(w, doc)
			return
		}

		order, err := repo.FindByIDAndUser(r.Context(), orderID, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "order not found"))
				return
			}
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order"))
			return
		}
		responses.WriteSuccess(w, NewOrderResponse(order))
	}
}

// Edit updates the address and item quantities of an unpaid order and
// recomputes its total.
func Edit(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserIDFromContext(r.Context())

		orderID, err := orderIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload EditOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.EditOrder(r.Context(), userID, orderID, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, NewOrderResponse(order))
	}
}

func orderIDParam(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "orderID")
	orderID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || orderID <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "invalid order id")
	}
	return orderID, nil
}
