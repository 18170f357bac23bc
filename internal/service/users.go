package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"bitwise74/gallery-api/internal/apperr"
	"bitwise74/gallery-api/internal/model"
	"bitwise74/gallery-api/internal/policy"
	"bitwise74/gallery-api/pkg/validators"

	"gorm.io/gorm"
)

// Users is the admin side of account management
type Users struct {
	DB *gorm.DB
}

func NewUsers(db *gorm.DB) *Users {
	return &Users{DB: db}
}

func (s *Users) List(ctx context.Context, actor policy.Actor) ([]model.User, error) {
	if !policy.CanManageUsers(actor) {
		return nil, apperr.ErrAdminOnly
	}

	out := []model.User{}
	if err := s.DB.WithContext(ctx).Order("created_at desc").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to list users, %w", err)
	}

	return out, nil
}

func (s *Users) Get(ctx context.Context, actor policy.Actor, id string) (*model.User, error) {
	if !policy.CanManageUsers(actor) {
		return nil, apperr.ErrAdminOnly
	}

	return s.load(ctx, id)
}

// UserPatch holds the fields an admin may change. Nil keeps the stored
// value.
type UserPatch struct {
	Name     *string
	Email    *string
	Role     *string
	IsActive *bool
}

func (s *Users) Update(ctx context.Context, actor policy.Actor, id string, p UserPatch) (*model.User, error) {
	if !policy.CanManageUsers(actor) {
		return nil, apperr.ErrAdminOnly
	}

	u, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if p.Name != nil && strings.TrimSpace(*p.Name) != "" {
		name := strings.TrimSpace(*p.Name)
		if err := validators.NameValidator(name); err != nil {
			return nil, apperr.New(apperr.Validation, err.Error())
		}

		u.Name = name
	}

	if p.Email != nil && strings.TrimSpace(*p.Email) != "" {
		email := validators.NormalizeEmail(*p.Email)
		if err := validators.EmailValidator(email); err != nil {
			return nil, apperr.New(apperr.Validation, err.Error())
		}

		if email != u.Email {
			var count int64
			err := s.DB.WithContext(ctx).
				Model(&model.User{}).
				Where("email = ? AND id <> ?", email, u.ID).
				Count(&count).
				Error
			if err != nil {
				return nil, fmt.Errorf("failed to look up user, %w", err)
			}

			if count > 0 {
				return nil, apperr.ErrDuplicateEmail
			}

			u.Email = email
		}
	}

	if p.Role != nil {
		role, err := model.ParseRole(*p.Role)
		if err != nil {
			return nil, apperr.New(apperr.Validation, "Invalid role")
		}

		u.Role = role
	}

	if p.IsActive != nil {
		u.IsActive = *p.IsActive
	}

	err = s.DB.WithContext(ctx).
		Model(u).
		Select("name", "email", "role", "is_active").
		Updates(u).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.ErrDuplicateEmail
		}

		return nil, fmt.Errorf("failed to update user, %w", err)
	}

	return u, nil
}

// Deactivate is the soft delete of an account. The row and everything the
// user owns stay in place.
func (s *Users) Deactivate(ctx context.Context, actor policy.Actor, id string) error {
	if !policy.CanManageUsers(actor) {
		return apperr.ErrAdminOnly
	}

	u, err := s.load(ctx, id)
	if err != nil {
		return err
	}

	if err := s.DB.WithContext(ctx).Model(u).Update("is_active", false).Error; err != nil {
		return fmt.Errorf("failed to deactivate user, %w", err)
	}

	return nil
}

// Promote makes the account with the given email an admin. It's only
// reachable from the command line and bypasses the policy.
func (s *Users) Promote(ctx context.Context, email string) (*model.User, error) {
	email = validators.NormalizeEmail(email)

	var u model.User
	err := s.DB.WithContext(ctx).Where("email = ?", email).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrUserNotFound
		}

		return nil, fmt.Errorf("failed to look up user, %w", err)
	}

	if err := s.DB.WithContext(ctx).Model(&u).Update("role", model.RoleAdmin).Error; err != nil {
		return nil, fmt.Errorf("failed to promote user, %w", err)
	}
	u.Role = model.RoleAdmin

	return &u, nil
}

func (s *Users) load(ctx context.Context, id string) (*model.User, error) {
	if !model.ValidID(id) {
		return nil, apperr.ErrUserNotFound
	}

	var u model.User
	err := s.DB.WithContext(ctx).Where("id = ?", id).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrUserNotFound
		}

		return nil, fmt.Errorf("failed to look up user, %w", err)
	}

	return &u, nil
}
