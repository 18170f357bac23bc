package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bitwise74/gallery-api/app"
	"bitwise74/gallery-api/config"
	"bitwise74/gallery-api/db"
	"bitwise74/gallery-api/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func main() {
	gin.SetMode(gin.ReleaseMode)

	err := config.Setup()
	if err != nil {
		panic(err)
	}

	if err := config.MakeLogger(); err != nil {
		panic(err)
	}
	defer zap.L().Sync()

	database, err := db.New()
	if err != nil {
		zap.L().Fatal("Failed to open database", zap.Error(err))
	}
	defer db.Close(database)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if email := config.PromoteAdmin(); email != "" {
		u, err := service.NewUsers(database).Promote(ctx, email)
		if err != nil {
			zap.L().Fatal("Failed to promote user", zap.String("email", email), zap.Error(err))
		}

		zap.L().Info("User promoted to admin", zap.String("userID", u.ID), zap.String("email", u.Email))
		return
	}

	d, err := app.NewDeps(ctx, database)
	if err != nil {
		zap.L().Fatal("Failed to initialize dependencies", zap.Error(err))
	}

	service.OTPCleanup(ctx, viper.GetDuration("otp.cleanup_interval"), database)

	router := app.NewRouter(ctx, d, app.RouterConfig{
		CORSOrigins:   viper.GetStringSlice("host.cors"),
		RateLimit:     viper.GetInt("security.rate_limit"),
		MaxUploadSize: viper.GetInt64("upload.max_size"),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", viper.GetInt("host.port")),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zap.L().Info("Server starting", zap.String("addr", srv.Addr))

		var err error
		if viper.GetBool("host.ssl.enabled") {
			err = srv.ListenAndServeTLS(
				viper.GetString("host.ssl.certificate_path"),
				viper.GetString("host.ssl.certificate_key_path"),
			)
		} else {
			err = srv.ListenAndServe()
		}

		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.L().Fatal("Server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zap.L().Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zap.L().Error("Graceful shutdown failed", zap.Error(err))
	}
}
