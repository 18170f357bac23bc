// Package app wires the HTTP surface of the gallery
package app

import (
	"context"
	"time"

	"bitwise74/gallery-api/app/admin"
	"bitwise74/gallery-api/app/auth"
	"bitwise74/gallery-api/app/contact"
	"bitwise74/gallery-api/app/media"
	"bitwise74/gallery-api/app/root"
	"bitwise74/gallery-api/internal"
	"bitwise74/gallery-api/pkg/middleware"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const jsonBodyLimit = 1 << 20

type RouterConfig struct {
	CORSOrigins []string
	// RateLimit is in requests per second per IP, 0 disables it
	RateLimit int
	// MaxUploadSize is in bytes
	MaxUploadSize int64
}

// NewRouter registers every route. ctx bounds the background work of the
// middleware.
func NewRouter(ctx context.Context, d *internal.Deps, cfg RouterConfig) *gin.Engine {
	router := gin.New()

	// cors refuses an empty origin list, without origins only same-origin
	// clients are served
	if len(cfg.CORSOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "TurnstileToken"},
			ExposeHeaders:    []string{"Content-Length", "Content-Disposition", "X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	router.Use(
		gin.Recovery(),
		middleware.NewRequestIDMiddleware(),
		ginzap.GinzapWithConfig(zap.L(), &ginzap.Config{
			TimeFormat: "15:04:05.000",
			UTC:        true,
			Skipper: func(c *gin.Context) bool {
				return c.Request.Method == "HEAD"
			},
			Context: func(c *gin.Context) []zapcore.Field {
				fields := []zapcore.Field{}

				if v := c.GetString("requestID"); v != "" {
					fields = append(fields, zap.String("request_id", v))
				}

				if v := c.GetString("userID"); v != "" {
					fields = append(fields, zap.String("userID", v))
				}

				return fields
			},
		}),
	)

	router.HandleMethodNotAllowed = true
	router.MaxMultipartMemory = 5 << 20

	jwt := middleware.NewJWTMiddleware(d.Tokens)
	optionalJWT := middleware.NewOptionalJWTMiddleware(d.Tokens)
	turnstile := middleware.NewTurnstileMiddleware()
	jsonLimit := middleware.BodySizeLimiter(jsonBodyLimit)

	var main *gin.RouterGroup
	if cfg.RateLimit > 0 {
		main = router.Group("/api", middleware.RateLimiterMiddleware(ctx, middleware.RateLimiterConfig{
			RequestsPerSecond: cfg.RateLimit,
			Burst:             cfg.RateLimit * 2,
		}))
	} else {
		main = router.Group("/api")
	}

	{
		// HEAD /api/heartbeat 		-> Used to check if the server is alive
		main.HEAD("/heartbeat", root.Heartbeat)
	}

	a := main.Group("/auth", jsonLimit)
	{
		// POST /api/auth/register		-> Creates an unverified account and mails an OTP
		a.POST("/register", turnstile, func(c *gin.Context) { auth.Register(c, d) })

		// POST /api/auth/verify-otp		-> Verifies the account and logs in
		a.POST("/verify-otp", func(c *gin.Context) { auth.VerifyOTP(c, d) })

		// POST /api/auth/login		-> Logs in with email and password
		a.POST("/login", func(c *gin.Context) { auth.Login(c, d) })

		// POST /api/auth/google		-> Logs in or signs up with a Google ID token
		a.POST("/google", func(c *gin.Context) { auth.Google(c, d) })

		// POST /api/auth/forgot-password	-> Mails a password reset OTP
		a.POST("/forgot-password", turnstile, func(c *gin.Context) { auth.ForgotPassword(c, d) })

		// POST /api/auth/reset-password	-> Sets a new password using an OTP
		a.POST("/reset-password", func(c *gin.Context) { auth.ResetPassword(c, d) })

		// GET /api/auth/me			-> Returns the logged in user
		a.GET("/me", jwt, func(c *gin.Context) { auth.Me(c, d) })
	}

	m := main.Group("/media", jwt)
	{
		// POST /api/media			-> Uploads an image
		m.POST("", middleware.BodySizeLimiter(cfg.MaxUploadSize+jsonBodyLimit), func(c *gin.Context) { media.Upload(c, d) })

		// GET /api/media			-> Lists visible media, supports ?search= and ?tags=
		m.GET("", func(c *gin.Context) { media.List(c, d) })

		// POST /api/media/download		-> Zips the requested media
		m.POST("/download", jsonLimit, func(c *gin.Context) { media.Download(c, d) })

		// GET /api/media/:id			-> Returns one media item
		m.GET("/:id", func(c *gin.Context) { media.Fetch(c, d) })

		// PUT /api/media/:id			-> Updates title, description, tags or sharing
		m.PUT("/:id", jsonLimit, func(c *gin.Context) { media.Edit(c, d) })

		// DELETE /api/media/:id		-> Deletes the media and its stored image
		m.DELETE("/:id", func(c *gin.Context) { media.Delete(c, d) })
	}

	ct := main.Group("/contact", jsonLimit)
	{
		// POST /api/contact			-> Submits a message, a token is optional
		ct.POST("", optionalJWT, turnstile, func(c *gin.Context) { contact.Submit(c, d) })

		// GET /api/contact/my-messages	-> Lists the caller's messages
		ct.GET("/my-messages", jwt, func(c *gin.Context) { contact.Mine(c, d) })

		// PUT /api/contact/:id		-> Edits a message
		ct.PUT("/:id", jwt, func(c *gin.Context) { contact.Update(c, d) })

		// DELETE /api/contact/:id		-> Deletes a message
		ct.DELETE("/:id", jwt, func(c *gin.Context) { contact.Delete(c, d) })
	}

	ad := main.Group("/admin", jwt, middleware.RequireAdmin(), jsonLimit)
	{
		// GET /api/admin/contact		-> Lists every message
		ad.GET("/contact", func(c *gin.Context) { admin.ContactList(c, d) })

		// DELETE /api/admin/contact/:id	-> Deletes any message
		ad.DELETE("/contact/:id", func(c *gin.Context) { admin.ContactDelete(c, d) })

		// GET /api/admin/users		-> Lists every user
		ad.GET("/users", func(c *gin.Context) { admin.UserList(c, d) })

		// GET /api/admin/users/:id		-> Returns one user
		ad.GET("/users/:id", func(c *gin.Context) { admin.UserFetch(c, d) })

		// PUT /api/admin/users/:id		-> Updates name, email, role or active state
		ad.PUT("/users/:id", func(c *gin.Context) { admin.UserEdit(c, d) })

		// DELETE /api/admin/users/:id		-> Deactivates a user
		ad.DELETE("/users/:id", func(c *gin.Context) { admin.UserDelete(c, d) })
	}

	return router
}
