package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/plantnet-backend/api/controllers"
	"github.com/angelmondragon/plantnet-backend/api/middleware"
	"github.com/angelmondragon/plantnet-backend/internal/auth"
	"github.com/angelmondragon/plantnet-backend/internal/cart"
	"github.com/angelmondragon/plantnet-backend/internal/orders"
	"github.com/angelmondragon/plantnet-backend/internal/otp"
	"github.com/angelmondragon/plantnet-backend/internal/products"
	"github.com/angelmondragon/plantnet-backend/internal/users"
	"github.com/angelmondragon/plantnet-backend/internal/wishlist"
	"github.com/angelmondragon/plantnet-backend/pkg/config"
	"github.com/angelmondragon/plantnet-backend/pkg/db"
	"github.com/angelmondragon/plantnet-backend/pkg/enums"
	"github.com/angelmondragon/plantnet-backend/pkg/logger"
	"github.com/angelmondragon/plantnet-backend/pkg/metrics"
	"github.com/angelmondragon/plantnet-backend/pkg/redis"
)

// Services groups the domain services the router exposes.
type Services struct {
	Auth     auth.Service
	OTP      otp.Service
	Users    users.Service
	Products products.Service
	Cart     cart.Service
	Wishlist wishlist.Service
	Orders   orders.Service
}

// NewRouter wires every endpoint. redisClient and registry may be nil: without
// redis the rate limits are off, without a registry /metrics is not mounted.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	registry *prometheus.Registry,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()

	var limiter middleware.RateLimiter
	readiness := map[string]controllers.Pinger{"db": dbP}
	if redisClient != nil {
		limiter = redisClient
		readiness["redis"] = redisClient
	}

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(metrics.NewHTTPMetrics(registry)),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)

	tokenPolicy := middleware.NewRateLimitPolicy("jwt", cfg.RateLimit.TokenWindow, cfg.RateLimit.TokenIPLimit, 0)
	sendOTPPolicy := middleware.NewRateLimitPolicy(
		"send-otp",
		cfg.RateLimit.OTPSendWindow,
		cfg.RateLimit.OTPSendIPLimit,
		cfg.RateLimit.OTPSendEmail,
	)
	verifyOTPPolicy := middleware.NewRateLimitPolicy(
		"verify-otp",
		cfg.RateLimit.OTPVerifyWindow,
		cfg.RateLimit.OTPVerifyIP,
		cfg.RateLimit.OTPVerifyEmail,
	)

	requireAuth := middleware.Auth(cfg.JWT, cfg.Cookie, svcs.Auth, logg)
	requireAdmin := middleware.RequireRole(enums.UserRoleAdmin, logg)

	r.Get("/", controllers.Banner())
	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readiness))
	})
	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.With(middleware.RateLimit(tokenPolicy, limiter, logg)).Post("/jwt", controllers.IssueToken(svcs.Auth, cfg, logg))
	r.Get("/logout", controllers.Logout(cfg))
	r.With(middleware.RateLimit(sendOTPPolicy, limiter, logg)).Post("/send-otp", controllers.SendOTP(svcs.OTP, logg))
	r.With(middleware.RateLimit(verifyOTPPolicy, limiter, logg)).Post("/verify-otp", controllers.VerifyOTP(svcs.OTP, logg))

	r.Route("/users", func(r chi.Router) {
		r.Get("/", controllers.ListUsers(svcs.Users, logg))
		r.Post("/check-email", controllers.CheckEmail(svcs.Users, logg))
		r.Get("/role/{email}", controllers.UserRole(svcs.Users, logg))
		r.Post("/{email}", controllers.SaveUser(svcs.Users, logg))
	})

	r.Get("/all-products", controllers.SampleProducts(svcs.Products, logg))
	r.Get("/categories", controllers.Categories(svcs.Products, logg))
	r.Get("/popular-categories", controllers.PopularCategories(svcs.Products, logg))
	r.Route("/products", func(r chi.Router) {
		r.Get("/", controllers.ListProducts(svcs.Products, logg))
		r.Get("/search", controllers.SearchProducts(svcs.Products, logg))
		r.Get("/{id}", controllers.GetProduct(svcs.Products, logg))
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/", controllers.CreateProduct(svcs.Products, logg))
			r.Put("/{id}", controllers.UpdateProduct(svcs.Products, logg))
			r.Delete("/{id}", controllers.DeleteProduct(svcs.Products, logg))
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(requireAuth)

		r.Route("/carts", func(r chi.Router) {
			r.Post("/", controllers.CartAdd(svcs.Cart, logg))
			r.Get("/", controllers.CartList(svcs.Cart, logg))
			r.Patch("/{id}", controllers.CartUpdateQuantity(svcs.Cart, logg))
			r.Delete("/{id}", controllers.CartDelete(svcs.Cart, logg))
		})

		r.Route("/wishlists", func(r chi.Router) {
			r.Post("/", controllers.WishlistAdd(svcs.Wishlist, logg))
			r.Get("/", controllers.WishlistList(svcs.Wishlist, logg))
			r.Delete("/", controllers.WishlistRemove(svcs.Wishlist, logg))
		})

		r.Post("/orders", controllers.PlaceOrder(svcs.Orders, logg))
		r.Get("/customer-orders/{email}", controllers.CustomerOrders(svcs.Orders, logg))
		r.Group(func(r chi.Router) {
			r.Use(requireAdmin)
			r.Get("/orders", controllers.ListOrders(svcs.Orders, logg))
			r.Patch("/orders/{id}", controllers.UpdateOrderStatus(svcs.Orders, logg))
			r.Delete("/orders/{id}", controllers.DeleteOrder(svcs.Orders, logg))
		})
	})

	return r
}
