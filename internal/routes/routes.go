package routes

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"

	"github.com/tmaenge-dot/mystore-admin/internal/cache"
	"github.com/tmaenge-dot/mystore-admin/internal/database"
	"github.com/tmaenge-dot/mystore-admin/internal/handlers"
	"github.com/tmaenge-dot/mystore-admin/internal/handlers/admin"
	"github.com/tmaenge-dot/mystore-admin/internal/middleware"
	"github.com/tmaenge-dot/mystore-admin/internal/services"
	"github.com/tmaenge-dot/mystore-admin/internal/utils"
)

// marge accordée aux champs du formulaire en plus du fichier
const formOverhead = 1 << 20

type Dependencies struct {
	Store       database.Store
	Images      *services.ImagePipeline
	Sessions    sessions.Store
	Credentials utils.AdminCredentials

	ProductConstraints services.UploadConstraints
	LogoConstraints    services.UploadConstraints

	// APILimiter borne les écritures publiques, LoginLimiter les tentatives de connexion
	APILimiter   cache.Limiter
	LoginLimiter cache.Limiter

	CORSOrigins []string
	// ImagesDir est servi sous /images quand les images sont stockées en local
	ImagesDir string
}

// NewEngine construit le moteur gin. Sans proxy de confiance, ClientIP ignore
// X-Forwarded-For : les limiteurs sont indexés sur l'adresse TCP réelle.
func NewEngine(trustedProxies []string) (*gin.Engine, error) {
	r := gin.New()
	if err := r.SetTrustedProxies(trustedProxies); err != nil {
		return nil, fmt.Errorf("proxys de confiance invalides : %w", err)
	}
	r.Use(gin.Recovery(), middleware.RequestLogger())
	return r, nil
}

func RegisterRoutes(r *gin.Engine, deps Dependencies) {
	r.SetHTMLTemplate(handlers.StorefrontTemplates(admin.Templates()))

	if deps.ImagesDir != "" {
		r.Static("/images", deps.ImagesDir)
	}

	h := handlers.New(deps.Store)

	// ✅ Vitrine rendue côté serveur
	r.GET("/", h.Home)
	r.GET("/stores/:id", h.StorefrontPage)
	r.GET("/stores/:id/cart", h.CartPage)
	r.GET("/stores/:id/orders/:orderId", h.OrderPage)

	// ✅ API publique
	api := r.Group("/api")
	api.Use(corsMiddleware(deps.CORSOrigins))
	{
		api.GET("/health", h.Health)
		api.GET("/stores", h.ListStores)
		api.GET("/stores/:id", h.GetStore)
		api.GET("/stores/:id/products", h.ListProducts)
		api.GET("/stores/:id/products/:productId", h.GetProduct)
		api.GET("/stores/:id/price", h.Price)
		api.GET("/stores/:id/promo", h.GetPromo)
		api.GET("/stores/:id/cart", h.GetCart)
		api.GET("/stores/:id/orders", h.ListOrders)
		api.GET("/stores/:id/orders/:orderId", h.GetOrder)
		// le middleware CORS ne s'exécute que sur une route existante
		api.OPTIONS("/*path", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	}

	writes := api.Group("")
	if deps.APILimiter != nil {
		writes.Use(middleware.RateLimit(deps.APILimiter, "api"))
	}
	{
		writes.POST("/stores/:id/cart", h.SaveCart)
		writes.POST("/stores/:id/orders", h.CreateOrder)
		writes.POST("/stores/:id/checkout", h.Checkout)
		writes.POST("/preferred-store", h.SetPreferredStore)
		writes.DELETE("/preferred-store", h.ClearPreferredStore)
	}

	// ✅ Panneau d'administration
	a := admin.New(admin.Options{
		Store:              deps.Store,
		Images:             deps.Images,
		Sessions:           deps.Sessions,
		Credentials:        deps.Credentials,
		ProductConstraints: deps.ProductConstraints,
		LogoConstraints:    deps.LogoConstraints,
	})

	maxBody := deps.ProductConstraints.MaxBytes
	if deps.LogoConstraints.MaxBytes > maxBody {
		maxBody = deps.LogoConstraints.MaxBytes
	}
	if maxBody <= 0 {
		maxBody = services.ProductImageConstraints.MaxBytes
	}

	adm := r.Group("/admin")
	adm.Use(middleware.LimitBody(maxBody+formOverhead), middleware.CSRF(deps.Sessions))
	{
		adm.GET("/login", a.LoginPage)
		if deps.LoginLimiter != nil {
			adm.POST("/login", middleware.RateLimit(deps.LoginLimiter, "login"), a.Login)
		} else {
			adm.POST("/login", a.Login)
		}
		adm.GET("/logout", a.Logout)
	}

	protected := adm.Group("")
	protected.Use(middleware.RequireAdmin(deps.Sessions))
	{
		protected.GET("", a.Dashboard)
		protected.GET("/audit", a.AuditPage)
		protected.GET("/stores/:id", a.StorePage)
		protected.POST("/stores/:id/upload", a.UploadImage)
		protected.POST("/stores/:id/images/:productId/delete", a.DeleteImage)
		protected.POST("/stores/:id/promo", a.SavePromo)
		protected.POST("/stores/:id/cart/delete", a.ClearCart)
		protected.POST("/stores/:id/orders/:orderId/delete", a.DeleteOrder)
		protected.GET("/stores/:id/branding", a.BrandingPage)
		protected.POST("/stores/:id/branding", a.SaveBranding)
	}
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	if len(origins) == 0 {
		return cors.Default()
	}
	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}
