package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/RaviKiran-incrivelsoft/SSRSS-backend/handlers"
	"github.com/RaviKiran-incrivelsoft/SSRSS-backend/middleware"
	"github.com/RaviKiran-incrivelsoft/SSRSS-backend/upload"
)

type Options struct {
	AllowedOrigins []string
	Authenticator  *middleware.Authenticator
	Handler        *handlers.Handler
	// Uploads, when set, serves stored images from this process.
	Uploads upload.Mounter
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders: []string{"Content-Length", "Content-Type"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
		cfg.AllowCredentials = true
	}
	return cfg
}

func SetupRouter(opts Options) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(log.With().Str("component", "http").Logger()))
	router.Use(cors.New(corsConfig(opts.AllowedOrigins)))
	router.MaxMultipartMemory = upload.MaxImageSize

	h := opts.Handler
	authn := opts.Authenticator

	router.GET("/health", h.Health)

	admin := router.Group("/admin")
	admin.POST("/register", h.RegisterAdmin)
	admin.POST("/login", h.LoginAdmin)

	adminOnly := admin.Group("", authn.Require(), middleware.AdminOnly())
	adminOnly.GET("/profile", h.AdminProfile)
	adminOnly.GET("/all", h.ListAdmins)
	adminOnly.GET("/:id", h.GetAdmin)
	adminOnly.PUT("/:id", h.UpdateAdmin)
	adminOnly.DELETE("/:id", h.DeleteAdmin)

	user := router.Group("/user")
	user.POST("/register", h.RegisterUser)
	user.POST("/login", h.LoginUser)

	signedIn := user.Group("", authn.Require())
	signedIn.GET("", h.ListUsers)
	signedIn.GET("/:id", h.GetUser)
	signedIn.PUT("/:id", h.UpdateUser)
	signedIn.DELETE("/:id", h.DeleteUser)

	blog := router.Group("/blog")
	blog.GET("", authn.Optional(), h.ListBlogs)
	blog.GET("/:id", h.GetBlog)
	blog.POST("/:id/like", authn.Require(), h.ToggleLike)
	blog.POST("/:id/comments", authn.Require(), h.AddComment)

	blogAdmin := blog.Group("", authn.Require(), middleware.AdminOnly())
	blogAdmin.POST("", h.CreateBlog)
	blogAdmin.PUT("/:id", h.UpdateBlog)
	blogAdmin.DELETE("/:id", h.DeleteBlog)

	if opts.Uploads != nil {
		opts.Uploads.Mount(router)
	}
	return router
}
