// Package service contains the use cases of the gallery. Handlers translate
// HTTP to calls into this package and back, nothing in here knows about gin.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"bitwise74/gallery-api/internal/apperr"
	"bitwise74/gallery-api/internal/model"
	"bitwise74/gallery-api/pkg/security"
	"bitwise74/gallery-api/pkg/validators"

	"github.com/chenyahui/gin-cache/persist"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type AuthConfig struct {
	OTPLength int
	// OTPTTL of 0 means codes never expire
	OTPTTL time.Duration
	// ResendCooldown is the minimum time between two forgot password
	// requests for the same email. 0 disables the check.
	ResendCooldown time.Duration
}

type Auth struct {
	DB        *gorm.DB
	Argon     *security.ArgonHash
	Tokens    *security.TokenIssuer
	Mailer    Mailer
	Cooldowns persist.CacheStore
	Config    AuthConfig

	now func() time.Time
}

// Session is returned by every operation that logs a user in
type Session struct {
	User  *model.User
	Token string
}

func NewAuth(db *gorm.DB, argon *security.ArgonHash, tokens *security.TokenIssuer, m Mailer, cooldowns persist.CacheStore, cfg AuthConfig) *Auth {
	if cfg.OTPLength <= 0 {
		cfg.OTPLength = 6
	}

	return &Auth{
		DB:        db,
		Argon:     argon,
		Tokens:    tokens,
		Mailer:    m,
		Cooldowns: cooldowns,
		Config:    cfg,
		now:       time.Now,
	}
}

// Register creates an unverified account and mails a verification code.
// A failed mail doesn't fail the registration, the code can be requested
// again through the forgot password flow.
func (s *Auth) Register(ctx context.Context, name, email, password string) (*model.User, error) {
	name = strings.TrimSpace(name)
	email = validators.NormalizeEmail(email)

	if err := validators.NameValidator(name); err != nil {
		return nil, apperr.New(apperr.Validation, err.Error())
	}

	if err := validators.EmailValidator(email); err != nil {
		return nil, apperr.New(apperr.Validation, err.Error())
	}

	if err := validators.PasswordValidator(password); err != nil {
		return nil, apperr.New(apperr.Validation, err.Error())
	}

	var count int64
	err := s.DB.WithContext(ctx).
		Model(&model.User{}).
		Where("email = ?", email).
		Count(&count).
		Error
	if err != nil {
		return nil, fmt.Errorf("failed to look up user, %w", err)
	}

	if count > 0 {
		return nil, apperr.ErrDuplicateEmail
	}

	hash, err := s.Argon.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password, %w", err)
	}

	id, err := model.NewID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate user id, %w", err)
	}

	user := &model.User{
		ID:           id,
		Name:         name,
		Email:        email,
		PasswordHash: &hash,
		Role:         model.RoleUser,
		IsActive:     true,
	}

	if err := s.DB.WithContext(ctx).Create(user).Error; err != nil {
		// Lost a race against another registration
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.ErrDuplicateEmail
		}

		return nil, fmt.Errorf("failed to create user, %w", err)
	}

	code, err := s.issueOTP(ctx, email)
	if err != nil {
		return nil, err
	}

	if err := s.Mailer.Send(email, "Verify your email", verifyBody(code)); err != nil {
		zap.L().Error("Failed to send verification mail",
			zap.String("userID", user.ID),
			zap.Error(err),
		)
	}

	return user, nil
}

// VerifyOTP marks the account as verified, consumes every outstanding code
// of that email and logs the user in
func (s *Auth) VerifyOTP(ctx context.Context, email, code string) (*Session, error) {
	email = validators.NormalizeEmail(email)

	if err := s.matchOTP(ctx, email, code); err != nil {
		return nil, err
	}

	var user model.User
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("email = ?", email).First(&user).Error; err != nil {
			return err
		}

		user.IsVerified = true
		if err := tx.Model(&user).Update("is_verified", true).Error; err != nil {
			return err
		}

		return tx.Where("email = ?", email).Delete(&model.OTP{}).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrUserNotFound
		}

		return nil, fmt.Errorf("failed to verify user, %w", err)
	}

	return s.session(&user)
}

// Login checks the password first so that the verification state of an
// account is never revealed to someone who doesn't know its password
func (s *Auth) Login(ctx context.Context, email, password string) (*Session, error) {
	email = validators.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, apperr.ErrInvalidCredentials
	}

	var user model.User
	err := s.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrInvalidCredentials
		}

		return nil, fmt.Errorf("failed to look up user, %w", err)
	}

	// OAuth accounts have no password until one is set through a reset
	if user.PasswordHash == nil {
		return nil, apperr.ErrInvalidCredentials
	}

	ok, err := s.Argon.Verify(password, *user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password, %w", err)
	}

	if !ok {
		return nil, apperr.ErrInvalidCredentials
	}

	if !user.IsVerified {
		return nil, apperr.ErrNotVerified
	}

	if !user.IsActive {
		return nil, apperr.ErrAccountDisabled
	}

	return s.session(&user)
}

// OAuthLogin logs in the account owning the identity's email, creating a
// verified account if there is none. The bool reports whether an account
// was created.
func (s *Auth) OAuthLogin(ctx context.Context, id *Identity) (*Session, bool, error) {
	email := validators.NormalizeEmail(id.Email)
	if err := validators.EmailValidator(email); err != nil {
		return nil, false, apperr.New(apperr.Validation, err.Error())
	}

	var user model.User
	err := s.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error
	switch {
	case err == nil:
		if !user.IsActive {
			return nil, false, apperr.ErrAccountDisabled
		}

		if user.OAuthID == nil && id.Subject != "" {
			sub := id.Subject
			if err := s.DB.WithContext(ctx).Model(&user).Update("oauth_id", sub).Error; err != nil {
				return nil, false, fmt.Errorf("failed to link oauth identity, %w", err)
			}
			user.OAuthID = &sub
		}

		sess, err := s.session(&user)
		return sess, false, err
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, false, fmt.Errorf("failed to look up user, %w", err)
	}

	uid, err := model.NewID()
	if err != nil {
		return nil, false, fmt.Errorf("failed to generate user id, %w", err)
	}

	name := strings.TrimSpace(id.Name)
	if name == "" {
		name, _, _ = strings.Cut(email, "@")
	}

	user = model.User{
		ID:         uid,
		Name:       name,
		Email:      email,
		Avatar:     id.Avatar,
		Role:       model.RoleUser,
		IsVerified: true,
		IsActive:   true,
	}

	if id.Subject != "" {
		sub := id.Subject
		user.OAuthID = &sub
	}

	if err := s.DB.WithContext(ctx).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, false, apperr.ErrDuplicateEmail
		}

		return nil, false, fmt.Errorf("failed to create user, %w", err)
	}

	sess, err := s.session(&user)
	return sess, true, err
}

// ForgotPassword mails a fresh code to an existing account. The same code
// also verifies an account so this doubles as "resend verification".
func (s *Auth) ForgotPassword(ctx context.Context, email string) error {
	email = validators.NormalizeEmail(email)
	if email == "" {
		return apperr.New(apperr.Validation, validators.ErrEmailEmpty.Error())
	}

	var count int64
	err := s.DB.WithContext(ctx).
		Model(&model.User{}).
		Where("email = ?", email).
		Count(&count).
		Error
	if err != nil {
		return fmt.Errorf("failed to look up user, %w", err)
	}

	if count == 0 {
		return apperr.ErrUserNotFound
	}

	key := "otp_cooldown:" + email
	if s.Cooldowns != nil && s.Config.ResendCooldown > 0 {
		var last int64
		err := s.Cooldowns.Get(key, &last)
		if err == nil {
			return apperr.ErrOTPCooldown
		}

		if !errors.Is(err, persist.ErrCacheMiss) {
			zap.L().Warn("Failed to read otp cooldown", zap.Error(err))
		}

		if err := s.Cooldowns.Set(key, s.now().Unix(), s.Config.ResendCooldown); err != nil {
			zap.L().Warn("Failed to store otp cooldown", zap.Error(err))
		}
	}

	code, err := s.issueOTP(ctx, email)
	if err != nil {
		return err
	}

	if err := s.Mailer.Send(email, "Reset Password OTP", resetBody(code)); err != nil {
		if s.Cooldowns != nil && s.Config.ResendCooldown > 0 {
			_ = s.Cooldowns.Delete(key)
		}

		return apperr.Upstream("Failed to send email", err)
	}

	return nil
}

// ResetPassword replaces the password and consumes every code of the email
func (s *Auth) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	email = validators.NormalizeEmail(email)

	if err := validators.PasswordValidator(newPassword); err != nil {
		return apperr.New(apperr.Validation, err.Error())
	}

	if err := s.matchOTP(ctx, email, code); err != nil {
		return err
	}

	hash, err := s.Argon.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password, %w", err)
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.User{}).Where("email = ?", email).Update("password_hash", hash)
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return tx.Where("email = ?", email).Delete(&model.OTP{}).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.ErrUserNotFound
		}

		return fmt.Errorf("failed to reset password, %w", err)
	}

	return nil
}

func (s *Auth) Me(ctx context.Context, userID string) (*model.User, error) {
	var user model.User

	err := s.DB.WithContext(ctx).Where("id = ?", userID).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrUserNotFound
		}

		return nil, fmt.Errorf("failed to look up user, %w", err)
	}

	return &user, nil
}

func (s *Auth) issueOTP(ctx context.Context, email string) (string, error) {
	code, err := security.GenerateOTP(s.Config.OTPLength)
	if err != nil {
		return "", fmt.Errorf("failed to generate otp, %w", err)
	}

	otp := &model.OTP{Email: email, Code: code}
	if s.Config.OTPTTL > 0 {
		exp := s.now().Add(s.Config.OTPTTL)
		otp.ExpiresAt = &exp
	}

	if err := s.DB.WithContext(ctx).Create(otp).Error; err != nil {
		return "", fmt.Errorf("failed to store otp, %w", err)
	}

	return code, nil
}

func (s *Auth) matchOTP(ctx context.Context, email, code string) error {
	code = strings.TrimSpace(code)
	if email == "" || code == "" {
		return apperr.ErrInvalidOTP
	}

	var count int64
	err := s.DB.WithContext(ctx).
		Model(&model.OTP{}).
		Where("email = ? AND code = ?", email, code).
		Where("expires_at IS NULL OR expires_at > ?", s.now()).
		Count(&count).
		Error
	if err != nil {
		return fmt.Errorf("failed to look up otp, %w", err)
	}

	if count == 0 {
		return apperr.ErrInvalidOTP
	}

	return nil
}

func (s *Auth) session(u *model.User) (*Session, error) {
	token, err := s.Tokens.Mint(u.ID, string(u.Role))
	if err != nil {
		return nil, fmt.Errorf("failed to mint token, %w", err)
	}

	return &Session{User: u, Token: token}, nil
}

func verifyBody(code string) string {
	return fmt.Sprintf("Your OTP is %s", code)
}

func resetBody(code string) string {
	return fmt.Sprintf("Your password reset OTP is %s", code)
}
