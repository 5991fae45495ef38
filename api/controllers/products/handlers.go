package products

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/shophub-io/shophub-backend/api/responses"
	"github.com/shophub-io/shophub-backend/internal/catalog"
	"github.com/shophub-io/shophub-backend/internal/mirror"
	pkgerrors "github.com/shophub-io/shophub-backend/pkg/errors"
	"github.com/shophub-io/shophub-backend/pkg/logger"
)

// List serves the storefront catalog listing from the mirror.
func List(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		query := mirror.ListQuery{
			Search:   r.URL.Query().Get("q"),
			Category: r.URL.Query().Get("category"),
		}
		if raw := r.URL.Query().Get("limit"); raw != "" {
			limit, err := strconv.Atoi(raw)
			if err != nil || limit < 0 {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid limit"))
				return
			}
			query.Limit = limit
		}

		docs := svc.ListProducts(r.Context(), query)
		responses.WriteSuccess(w, docs)
	}
}

// Categories lists all browsing categories.
func Categories(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := svc.ListCategories(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]CategoryResponse, 0, len(rows))
		for _, row := range rows {
			out = append(out, CategoryResponse{ID: row.ID, Name: row.Name, Slug: row.Slug})
		}
		responses.WriteSuccess(w, out)
	}
}

// Detail serves the product detail page data, mirror first with a
// system-of-record fallback.
func Detail(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		slug := chi.URLParam(r, "slug")
		if slug == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "slug is required"))
			return
		}

		display, err := svc.GetProductDetail(r.Context(), slug)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, display)
	}
}
