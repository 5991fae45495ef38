package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	authctrl "github.com/shophub-io/shophub-backend/api/controllers/auth"
	cartctrl "github.com/shophub-io/shophub-backend/api/controllers/cart"
	chatbotctrl "github.com/shophub-io/shophub-backend/api/controllers/chatbot"
	checkoutctrl "github.com/shophub-io/shophub-backend/api/controllers/checkout"
	healthctrl "github.com/shophub-io/shophub-backend/api/controllers/health"
	ordersctrl "github.com/shophub-io/shophub-backend/api/controllers/orders"
	productsctrl "github.com/shophub-io/shophub-backend/api/controllers/products"
	profilectrl "github.com/shophub-io/shophub-backend/api/controllers/profile"
	"github.com/shophub-io/shophub-backend/api/middleware"
	cartsvc "github.com/shophub-io/shophub-backend/internal/cart"
	"github.com/shophub-io/shophub-backend/internal/catalog"
	chatbotsvc "github.com/shophub-io/shophub-backend/internal/chatbot"
	checkoutsvc "github.com/shophub-io/shophub-backend/internal/checkout"
	"github.com/shophub-io/shophub-backend/internal/mirror"
	"github.com/shophub-io/shophub-backend/internal/orders"
	"github.com/shophub-io/shophub-backend/internal/payments"
	"github.com/shophub-io/shophub-backend/internal/users"
	"github.com/shophub-io/shophub-backend/pkg/db"
	"github.com/shophub-io/shophub-backend/pkg/logger"
	"github.com/shophub-io/shophub-backend/pkg/metrics"
	"github.com/shophub-io/shophub-backend/pkg/redis"
	"github.com/shophub-io/shophub-backend/pkg/session"
)

// Deps carries everything the HTTP surface needs.
type Deps struct {
	Logg         *logger.Logger
	SessionStore *session.Store
	HTTPMetrics  *metrics.HTTPMetrics
	Registry     *prometheus.Registry

	DB    *db.Client
	Redis *redis.Client

	Catalog  catalog.Service
	Cart     cartsvc.Service
	Checkout checkoutsvc.Service
	Chatbot  chatbotsvc.Service
	Users    users.Service
	Orders   *orders.Repository
	Mirror   *mirror.Syncer
	Gateway  *payments.Gateway
}

// New wires the full route tree.
func New(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID(deps.Logg))
	r.Use(middleware.Logging(deps.Logg, deps.HTTPMetrics))
	r.Use(middleware.Recoverer(deps.Logg))
	r.Use(middleware.Session(deps.SessionStore, deps.Logg))

	r.Get("/health/live", healthctrl.Live())
	r.Get("/health/ready", healthctrl.Ready(deps.DB, deps.Redis, deps.Logg))

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics",
			promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", productsctrl.List(deps.Catalog, deps.Logg))
		r.Get("/products/{slug}", productsctrl.Detail(deps.Catalog, deps.Logg))
		r.Get("/categories", productsctrl.Categories(deps.Catalog, deps.Logg))

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authctrl.Register(deps.Users, deps.SessionStore, deps.Logg))
			r.Post("/login", authctrl.Login(deps.Users, deps.SessionStore, deps.Logg))
			r.Post("/logout", authctrl.Logout(deps.SessionStore, deps.Logg))
		})

		r.Post("/chatbot/message", chatbotctrl.Message(deps.Chatbot, deps.Logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireUser(deps.Logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", cartctrl.Fetch(deps.Cart, deps.Catalog, deps.Logg))
				r.Post("/clear", cartctrl.Clear(deps.Cart, deps.Logg))
				r.Post("/items", cartctrl.AddItem(deps.Cart, deps.Catalog, deps.Logg))
				r.Delete("/items/{productID}", cartctrl.RemoveItem(deps.Cart, deps.Catalog, deps.Logg))
				r.Post("/items/{productID}/quantity", cartctrl.UpdateQuantity(deps.Cart, deps.Catalog, deps.Logg))
			})

			r.Route("/checkout", func(r chi.Router) {
				r.Post("/", checkoutctrl.PlaceOrder(deps.Checkout, deps.Logg))
				r.Post("/gateway", checkoutctrl.GatewayCharge(deps.Gateway, deps.Cart, deps.Logg))
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", ordersctrl.List(deps.Orders, deps.Logg))
				r.Get("/{orderID}", ordersctrl.Get(deps.Orders, deps.Mirror, deps.Logg))
				r.Post("/{orderID}/edit", ordersctrl.Edit(deps.Checkout, deps.Logg))
			})

			r.Route("/profile", func(r chi.Router) {
				r.Get("/", profilectrl.Get(deps.Users, deps.Logg))
				r.Put("/", profilectrl.Update(deps.Users, deps.Logg))
			})
		})
	})

	return r
}
