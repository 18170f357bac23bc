package app

import (
	"context"
	"fmt"

	"bitwise74/gallery-api/aws"
	"bitwise74/gallery-api/cloudflare"
	"bitwise74/gallery-api/internal"
	"bitwise74/gallery-api/internal/service"
	"bitwise74/gallery-api/pkg/security"
	"bitwise74/gallery-api/pkg/validators"

	"github.com/chenyahui/gin-cache/persist"
	"github.com/go-redis/redis/v8"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// NewDeps wires every service on top of an open database using the loaded
// config
func NewDeps(ctx context.Context, db *gorm.DB) (*internal.Deps, error) {
	store, err := newObjectStore(ctx)
	if err != nil {
		return nil, err
	}

	cooldowns, err := newCooldownStore(ctx)
	if err != nil {
		return nil, err
	}

	argon := security.New()
	tokens := security.NewTokenIssuer(viper.GetString("jwt.secret"), viper.GetDuration("jwt.ttl"))

	d := &internal.Deps{
		DB:      db,
		Argon:   argon,
		Tokens:  tokens,
		Store:   store,
		Decoder: service.GoogleAssertionDecoder{ClientID: viper.GetString("oauth.google.client_id")},
		Auth: service.NewAuth(db, argon, tokens, service.NewMailer(), cooldowns, service.AuthConfig{
			OTPLength:      viper.GetInt("otp.length"),
			OTPTTL:         viper.GetDuration("otp.ttl"),
			ResendCooldown: viper.GetDuration("otp.resend_cooldown"),
		}),
		Media:    service.NewMedia(db, store, viper.GetString("storage.folder")),
		Contacts: service.NewContacts(db),
		Users:    service.NewUsers(db),
		Upload: validators.ImageOpts{
			MaxSize:      viper.GetInt64("upload.max_size"),
			AllowedTypes: viper.GetStringSlice("upload.allowed_types"),
		},
		SecureCookies: viper.GetBool("host.ssl.enabled"),
	}

	return d, nil
}

func newObjectStore(ctx context.Context) (service.ObjectStore, error) {
	switch viper.GetString("storage.type") {
	case "r2":
		r2, err := cloudflare.NewR2(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize R2 client, %w", err)
		}

		return r2, nil
	default:
		s3, err := aws.NewS3(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize S3 client, %w", err)
		}

		return s3, nil
	}
}

func newCooldownStore(ctx context.Context) (persist.CacheStore, error) {
	if viper.GetString("cache.type") != "redis" {
		return persist.NewMemoryStore(viper.GetDuration("otp.resend_cooldown")), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     viper.GetString("redis.addr"),
		Password: viper.GetString("redis.password"),
		DB:       viper.GetInt("redis.db"),
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to reach redis, %w", err)
	}

	zap.L().Debug("Using redis for cooldowns", zap.String("addr", viper.GetString("redis.addr")))

	return persist.NewRedisStore(client), nil
}
