package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/parfumelle/parfumelle-backend/api/controllers"
	"github.com/parfumelle/parfumelle-backend/api/middleware"
	authsvc "github.com/parfumelle/parfumelle-backend/internal/auth"
	cartsvc "github.com/parfumelle/parfumelle-backend/internal/cart"
	catalogsvc "github.com/parfumelle/parfumelle-backend/internal/catalog"
	checkoutsvc "github.com/parfumelle/parfumelle-backend/internal/checkout"
	discountsvc "github.com/parfumelle/parfumelle-backend/internal/discounts"
	ordersvc "github.com/parfumelle/parfumelle-backend/internal/orders"
	"github.com/parfumelle/parfumelle-backend/pkg/auth/session"
	"github.com/parfumelle/parfumelle-backend/pkg/config"
	"github.com/parfumelle/parfumelle-backend/pkg/db"
	"github.com/parfumelle/parfumelle-backend/pkg/enums"
	"github.com/parfumelle/parfumelle-backend/pkg/logger"
	"github.com/parfumelle/parfumelle-backend/pkg/redis"
)

// Services bundles everything the router wires into handlers.
type Services struct {
	Auth      authsvc.Service
	Catalog   catalogsvc.Service
	Cart      cartsvc.Service
	Checkout  checkoutsvc.Service
	Orders    ordersvc.Service
	Discounts discountsvc.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisP redis.Pinger,
	sessionChecker session.AccessSessionChecker,
	services Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/register", controllers.AuthRegister(services.Auth, logg))
		r.Post("/login", controllers.AuthLogin(services.Auth, logg))
		r.Post("/refresh", controllers.AuthRefresh(services.Auth, logg))
		r.Post("/logout", controllers.AuthLogout(services.Auth, cfg.JWT, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		// Public storefront: browsing and the session cart need no account.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Session(logg))

			r.Get("/products", controllers.ProductList(services.Catalog, logg))
			r.Get("/products/{productID}", controllers.ProductDetail(services.Catalog, logg))
			r.Get("/brands", controllers.BrandList(services.Catalog, logg))
			r.Get("/categories", controllers.CategoryList(services.Catalog, logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartView(services.Cart, logg))
				r.Post("/items/{productID}", controllers.CartAddItem(services.Cart, logg))
				r.Delete("/items/{productID}", controllers.CartRemoveItem(services.Cart, logg))
				r.Post("/promo", controllers.CartApplyPromo(services.Cart, logg))
			})
		})

		// Checkout and order history require an authenticated user.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, sessionChecker, logg))
			r.Use(middleware.Session(logg))

			r.Post("/checkout", controllers.Checkout(services.Checkout, logg))
			r.Get("/orders", controllers.OrderList(services.Orders, logg))
			r.Get("/orders/{orderID}", controllers.OrderDetail(services.Orders, logg))
		})

		// Seller back office.
		r.Route("/seller", func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, sessionChecker, logg))
			r.Use(middleware.RequireRole(string(enums.UserRoleSeller), logg))

			r.Get("/products", controllers.ProductList(services.Catalog, logg))
			r.Post("/products", controllers.SellerCreateProduct(services.Catalog, logg))
			r.Patch("/products/{productID}", controllers.SellerUpdateProduct(services.Catalog, logg))
			r.Post("/brands", controllers.SellerCreateBrand(services.Catalog, logg))
			r.Post("/categories", controllers.SellerCreateCategory(services.Catalog, logg))
			r.Get("/discounts", controllers.SellerListDiscounts(services.Discounts, logg))
			r.Post("/discounts", controllers.SellerCreateDiscount(services.Discounts, logg))
			r.Patch("/orders/{orderID}/status", controllers.SellerUpdateOrderStatus(services.Orders, logg))
		})
	})

	return r
}
