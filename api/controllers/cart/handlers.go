package cart

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/shophub-io/shophub-backend/api/middleware"
	"github.com/shophub-io/shophub-backend/api/responses"
	"github.com/shophub-io/shophub-backend/api/validators"
	cartsvc "github.com/shophub-io/shophub-backend/internal/cart"
	"github.com/shophub-io/shophub-backend/internal/catalog"
	pkgerrors "github.com/shophub-io/shophub-backend/pkg/errors"
	"github.com/shophub-io/shophub-backend/pkg/logger"
)

// Fetch returns the session basket with catalog display fields joined in.
func Fetch(svc cartsvc.Service, catalogSvc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := middleware.SessionIDFromContext(r.Context())

		doc, err := svc.Get(r.Context(), sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartResponse(r.Context(), doc, catalogSvc))
	}
}

// AddItem puts a product into the basket, snapshotting the current catalog
// price on first add.
func AddItem(svc cartsvc.Service, catalogSvc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := middleware.SessionIDFromContext(r.Context())

		var payload AddItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := catalogSvc.GetProductByID(r.Context(), payload.ProductID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		doc, err := svc.Add(r.Context(), sessionID, product.ID, product.Price, payload.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartResponse(r.Context(), doc, catalogSvc))
	}
}

// RemoveItem drops a basket line.
func RemoveItem(svc cartsvc.Service, catalogSvc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := middleware.SessionIDFromContext(r.Context())

		productID, err := productIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		doc, err := svc.Remove(r.Context(), sessionID, productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartResponse(r.Context(), doc, catalogSvc))
	}
}

// Clear empties the basket.
func Clear(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := middleware.SessionIDFromContext(r.Context())

		if err := svc.Clear(r.Context(), sessionID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, CartResponse{Items: []ItemResponse{}})
	}
}

// UpdateQuantity adjusts one basket line with an inc/dec/set action and
// answers with the line's new quantity and the basket total.
func UpdateQuantity(svc cartsvc.Service, catalogSvc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := middleware.SessionIDFromContext(r.Context())

		productID, err := productIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload QuantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		doc, err := svc.Get(r.Context(), sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		target := 0
		current := doc.Quantity(productID)
		switch payload.Action {
		case "inc":
			target = current + 1
		case "dec":
			target = current - 1
			if target < 0 {
				target = 0
			}
		case "set":
			target = payload.Quantity
		default:
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid action"))
			return
		}

		doc, err = svc.SetQuantity(r.Context(), sessionID, productID, target)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		// The adjustment responds 404 for products missing from the record
		// even though the basket mutation itself is keyed on the line.
		if _, err := catalogSvc.GetProductByID(r.Context(), productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, QuantityResponse{
			Quantity: doc.Quantity(productID),
			Total:    doc.Total(),
		})
	}
}

func productIDParam(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "productID")
	productID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || productID <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "invalid product id")
	}
	return productID, nil
}
