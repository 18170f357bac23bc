package service

import (
	"context"
	"time"

	"bitwise74/gallery-api/internal/model"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// OTPCleanup periodically removes codes that can no longer be redeemed.
// It stops when ctx is cancelled.
func OTPCleanup(ctx context.Context, t time.Duration, db *gorm.DB) {
	ticker := time.NewTicker(t)

	zap.L().Debug("OTP cleanup attached", zap.Duration("tick_every", t))

	go func() {
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				n, err := PurgeExpiredOTPs(ctx, db, now)
				if err != nil {
					zap.L().Error("Failed to cleanup expired otps", zap.Error(err))
					continue
				}

				if n > 0 {
					zap.L().Debug("Cleaned up expired otps", zap.Int64("count", n))
				}
			}
		}
	}()
}

func PurgeExpiredOTPs(ctx context.Context, db *gorm.DB, now time.Time) (int64, error) {
	res := db.WithContext(ctx).
		Where("expires_at IS NOT NULL AND expires_at < ?", now).
		Delete(&model.OTP{})

	return res.RowsAffected, res.Error
}
