package main

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/sudo-init-do/gearhub/internal/admin"
	"github.com/sudo-init-do/gearhub/internal/marketplace"
	mware "github.com/sudo-init-do/gearhub/internal/middleware"
	"github.com/sudo-init-do/gearhub/internal/user"
)

// searchRateLimit is requests per second per client IP on public search.
const searchRateLimit = 20

// searchLimiter throttles public search per client IP.
func searchLimiter() echo.MiddlewareFunc {
	return middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(searchRateLimit))
}

func registerRoutes(e *echo.Echo, d routeDeps) {
	secret := []byte(d.cfg.JWTSecret)
	bookings := marketplace.NewPostgresBookings(d.pool)

	listingsH := marketplace.NewListingHandler(d.engine, d.store, d.cfg.Search.DefaultLimit, d.cfg.Search.MaxLimit)
	bookingsH := marketplace.NewBookingHandler(bookings, d.store, d.enq, d.hub, d.cfg.AppURL)
	reviewsH := marketplace.NewReviewHandler(bookings, d.store, d.enq)
	favoritesH := marketplace.NewFavoriteHandler(d.store)
	profilesH := user.NewProfileHandler(d.store)
	adminH := admin.NewHandler(d.store, bookings)

	// Health routes
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})
	e.GET("/ready", func(c echo.Context) error {
		if err := d.pool.Ping(c.Request().Context()); err != nil {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "not_ready", "error": "db unreachable"})
		}
		return c.JSON(http.StatusOK, echo.Map{"status": "ready"})
	})

	// Public routes; a token, when sent, enables the favorites facet
	e.GET("/listings/search", listingsH.Search, searchLimiter(), mware.OptionalJWT(secret))
	e.GET("/listings/facets", listingsH.Facets)
	e.GET("/owners/:id/profile", profilesH.GetPublicProfile)

	// Protected routes
	api := e.Group("")
	api.Use(mware.JWTMiddleware(secret))

	api.GET("/listings/me", listingsH.Mine)
	api.POST("/listings", listingsH.Create, mware.RequireRoles(mware.RoleOwner, mware.RoleAdmin))

	api.GET("/favorites", favoritesH.List)
	api.POST("/favorites/:id", favoritesH.Add)
	api.DELETE("/favorites/:id", favoritesH.Remove)

	api.POST("/bookings", bookingsH.Create)
	api.GET("/bookings/me", bookingsH.Mine)
	api.POST("/bookings/:id/accept", bookingsH.Accept)
	api.POST("/bookings/:id/decline", bookingsH.Decline)
	api.POST("/bookings/:id/cancel", bookingsH.Cancel)
	api.POST("/bookings/:id/complete", bookingsH.Complete)
	api.POST("/bookings/:id/review", reviewsH.Create)
	api.GET("/bookings/:id/ws", bookingsH.Stream)

	e.GET("/listings/:id", listingsH.Get)
	e.GET("/listings/:id/reviews", reviewsH.ForListing)
	e.GET("/listings/:id/quote", listingsH.Quote)

	// Admin routes
	adm := e.Group("/admin")
	adm.Use(mware.JWTMiddleware(secret))
	adm.Use(mware.AdminGuard)

	adm.GET("/stats", adminH.Stats)
	adm.GET("/bookings", adminH.ListBookings)
	adm.POST("/listings/:id/feature", adminH.FeatureListing)
	adm.POST("/listings/:id/unfeature", adminH.UnfeatureListing)
	adm.POST("/listings/:id/suspend", adminH.SuspendListing)
	adm.POST("/listings/:id/activate", adminH.ActivateListing)
}
