package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/utafrali/RestaurantGo/internal/domain"
	"github.com/utafrali/RestaurantGo/internal/service"
	"github.com/utafrali/RestaurantGo/pkg/health"
	"github.com/utafrali/RestaurantGo/pkg/middleware"
)

// menuMaxAge is how long a UI shell may cache menu responses, in seconds.
const menuMaxAge = 300

// Services are the stores the companion API drives.
type Services struct {
	Session       *service.SessionService
	Menu          *service.MenuService
	Cart          *service.CartService
	Favorites     *service.FavoritesService
	Cookies       *service.CookieConsentService
	Privacy       *service.PrivacyConsentService
	Language      *service.LanguageService
	Orders        *service.OrderService
	Tracking      *service.TrackingService
	Addresses     *service.AddressService
	Payments      *service.PaymentService
	Notifications *service.NotificationService
	Loyalty       *service.LoyaltyService
}

// RouterConfig holds the cross-cutting pieces of the router. Nil Metrics,
// Gatherer or RateLimiter leave the matching feature off.
type RouterConfig struct {
	Health      *health.Handler
	Metrics     *middleware.HTTPMetrics
	Gatherer    prometheus.Gatherer
	RateLimiter *middleware.RateLimiter
	CORS        middleware.CORSConfig
	Logger      *slog.Logger
}

// NewRouter creates a chi router with every companion route registered.
func NewRouter(svc Services, cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.RequestLogging(logger))
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Middleware)
	}
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware)
	}
	r.Use(middleware.Tracing())
	r.Use(middleware.Session(sessionPrincipal(svc.Session)))
	r.Use(middleware.RequestLogger(logger))

	// Health check endpoints
	if cfg.Health != nil {
		r.Get("/health/live", cfg.Health.LivenessHandler())
		r.Get("/health/ready", cfg.Health.ReadinessHandler())
	}
	if cfg.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}

	sessionHandler := NewSessionHandler(svc.Session, logger)
	menuHandler := NewMenuHandler(svc.Menu, logger)
	cartHandler := NewCartHandler(svc.Cart, svc.Menu, logger)
	favoritesHandler := NewFavoritesHandler(svc.Favorites, logger)
	consentHandler := NewConsentHandler(svc.Cookies, svc.Privacy, logger)
	languageHandler := NewLanguageHandler(svc.Language, logger)
	orderHandler := NewOrderHandler(svc.Orders, svc.Tracking, logger)
	accountHandler := NewAccountHandler(svc.Addresses, svc.Payments, logger)
	notificationHandler := NewNotificationHandler(svc.Notifications, logger)
	loyaltyHandler := NewLoyaltyHandler(svc.Loyalty, logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.CacheControl(menuMaxAge))

			r.Get("/menu", menuHandler.GetMenu)
			r.Get("/menu/items/{id}", menuHandler.GetItem)
			r.Get("/menu/items/{id}/modifiers", menuHandler.GetModifiers)
			r.Get("/settings/min-order-value", orderHandler.GetMinOrderValue)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.CacheControl(0))
			r.Use(chimw.Timeout(30 * time.Second))

			r.Route("/session", func(r chi.Router) {
				r.Get("/", sessionHandler.GetSession)
				r.Post("/login", sessionHandler.Login)
				r.Post("/register", sessionHandler.Register)
				r.Post("/google", sessionHandler.GoogleSignIn)
				r.Post("/refresh", sessionHandler.Refresh)
				r.Post("/logout", sessionHandler.Logout)
				r.Delete("/error", sessionHandler.ClearError)
				r.Post("/forgot-password", sessionHandler.ForgotPassword)
				r.Post("/reset-password", sessionHandler.ResetPassword)
				r.Get("/verify-email", sessionHandler.VerifyEmail)
			})

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", cartHandler.GetCart)
				r.Delete("/", cartHandler.ClearCart)
				r.Post("/items", cartHandler.AddItem)
				r.Patch("/items/{id}", cartHandler.UpdateQuantity)
				r.Delete("/items/{id}", cartHandler.RemoveItem)
			})

			r.Route("/favorites", func(r chi.Router) {
				r.Get("/", favoritesHandler.List)
				r.Post("/refresh", favoritesHandler.Refresh)
				r.Post("/{id}/toggle", favoritesHandler.Toggle)
			})

			r.Route("/consent", func(r chi.Router) {
				r.Get("/cookies", consentHandler.GetCookies)
				r.Put("/cookies", consentHandler.SaveCookies)
				r.Delete("/cookies", consentHandler.ResetCookies)
				r.Post("/cookies/accept-all", consentHandler.AcceptAll)
				r.Post("/cookies/reject-all", consentHandler.RejectAll)
				r.Get("/privacy", consentHandler.GetPrivacy)
				r.Put("/privacy", consentHandler.UpdatePrivacy)
			})

			r.Get("/language", languageHandler.Get)
			r.Put("/language", languageHandler.Change)

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", orderHandler.List)
				r.Post("/", orderHandler.Place)
				r.Get("/{id}", orderHandler.Get)
				r.Delete("/{id}", orderHandler.Cancel)
				r.Get("/{id}/tracking", orderHandler.Track)
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", notificationHandler.List)
				r.Patch("/{id}/opened", notificationHandler.MarkOpened)
			})

			r.Route("/loyalty", func(r chi.Router) {
				r.Post("/redeem", loyaltyHandler.Redeem)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireRole(string(domain.RoleAdmin)))
					r.Get("/tokens", loyaltyHandler.ListTokens)
					r.Post("/tokens", loyaltyHandler.CreateToken)
					r.Delete("/tokens/{id}", loyaltyHandler.DeleteToken)
				})
			})

			r.Route("/addresses", func(r chi.Router) {
				r.Get("/", accountHandler.ListAddresses)
				r.Post("/", accountHandler.CreateAddress)
				r.Put("/{id}", accountHandler.UpdateAddress)
				r.Delete("/{id}", accountHandler.DeleteAddress)
			})

			r.Route("/payment-methods", func(r chi.Router) {
				r.Get("/", accountHandler.ListPaymentMethods)
				r.Post("/", accountHandler.AddPaymentMethod)
				r.Delete("/{id}", accountHandler.DeletePaymentMethod)
			})
			r.Post("/payment-intents", accountHandler.CreatePaymentIntent)

			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.RequireRole(string(domain.RoleAdmin)))
				r.Get("/orders", orderHandler.ListAll)
				r.Patch("/orders/{id}/status", orderHandler.UpdateStatus)
			})
		})

		// The tracking stream outlives the request timeout of the other routes.
		r.With(middleware.CacheControl(0)).Get("/tracking/{id}/stream", orderHandler.StreamTracking)
	})

	return r
}

// sessionPrincipal adapts the session store to the Session middleware.
func sessionPrincipal(sessions *service.SessionService) middleware.PrincipalFunc {
	return func(context.Context) (middleware.Principal, bool) {
		snap := sessions.Snapshot()
		if !snap.Authenticated() || snap.User == nil {
			return middleware.Principal{}, false
		}
		return middleware.Principal{UserID: snap.User.ID.String(), Role: string(snap.User.Role)}, true
	}
}
