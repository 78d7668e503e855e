package api

import (
	"log"
	stdhttp "net/http"
	"time"

	"marocbus/internal/backend"
	"marocbus/internal/booking"
	"marocbus/internal/cities"
	intconfig "marocbus/internal/config"
	"marocbus/internal/dashboard"
	h "marocbus/internal/http/handlers"
	"marocbus/internal/http/middleware"
	"marocbus/internal/search"
	"marocbus/internal/session"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func NewRouter(env intconfig.Env) *gin.Engine {
	api := backend.New(env.BackendBaseURL, env.BackendTimeout)
	sessions := session.NewManager(env.SessionSecret, env.SessionTTL)

	authHandler := h.AuthHandler{API: api, Sessions: sessions, CookieSecure: env.CookieSecure}
	searchHandler := h.SearchHandler{
		Service: search.Service{API: api},
		Cities:  cities.NewDirectory(api),
	}
	bookingHandler := h.BookingHandler{
		Store: booking.NewStore(api, 30*time.Minute),
		API:   api,
	}
	dashboardHandler := h.DashboardHandler{
		Service: dashboard.Service{API: api},
	}
	adminHandler := h.AdminHandler{API: api}

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), corsMiddleware(env))

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route introuvable",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	root := r.Group("/api")
	{
		root.GET("/health", h.Health)

		// Auth
		auth := root.Group("/auth")
		auth.POST("/login", authHandler.Login)
		auth.POST("/register", authHandler.Register)
		auth.POST("/logout", authHandler.Logout)
		auth.GET("/me", middleware.RequireUser(sessions), authHandler.Me)

		// Cities & search (public)
		root.GET("/villes", searchHandler.Villes)
		root.POST("/search", searchHandler.SubmitForm)
		root.GET("/search/results", searchHandler.Results)

		// Booking wizard (clients only)
		bookings := root.Group("/bookings", middleware.RequireClient(sessions))
		bookings.POST("/wizard", bookingHandler.Create)
		bookings.GET("/wizard/:id", bookingHandler.Get)
		bookings.PUT("/wizard/:id/passagers", bookingHandler.SetPassagers)
		bookings.POST("/wizard/:id/sieges/toggle", bookingHandler.ToggleSeat)
		bookings.PUT("/wizard/:id/paiement", bookingHandler.SetPaiement)
		bookings.POST("/wizard/:id/advance", bookingHandler.Advance)
		bookings.POST("/wizard/:id/retreat", bookingHandler.Retreat)
		bookings.POST("/wizard/:id/submit", bookingHandler.Submit)

		// Client dashboard
		dash := root.Group("/dashboard", middleware.RequireClient(sessions))
		dash.GET("/reservations", dashboardHandler.Reservations)
		dash.PUT("/reservations/:id/cancel", dashboardHandler.CancelReservation)
		dash.GET("/reservations/:id/billet", dashboardHandler.Billet)
		dash.GET("/profile", dashboardHandler.Profile)
		dash.PUT("/profile", dashboardHandler.UpdateProfile)

		// Admin surface
		admin := root.Group("/admin", middleware.RequireAdmin(sessions))
		admin.GET("/trajets", adminHandler.Trajets)
		admin.POST("/trajets", adminHandler.CreateTrajet)
		admin.PUT("/trajets/:id", adminHandler.UpdateTrajet)
		admin.DELETE("/trajets/:id", adminHandler.DeleteTrajet)
		admin.POST("/villes", adminHandler.CreateVille)
		admin.PUT("/villes/:id", adminHandler.UpdateVille)
		admin.DELETE("/villes/:id", adminHandler.DeleteVille)
	}

	return r
}

func corsMiddleware(env intconfig.Env) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization", "Accept", "Origin"},
		AllowCredentials: true,
		MaxAge:           24 * time.Hour,
	}
	if len(env.CORSOrigins) > 0 {
		cfg.AllowOrigins = env.CORSOrigins
	} else {
		cfg.AllowOrigins = []string{
			"http://localhost:3000",
			"http://127.0.0.1:3000",
			"http://localhost:5173",
			"http://127.0.0.1:5173",
		}
	}
	return cors.New(cfg)
}
