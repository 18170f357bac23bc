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

type Contacts struct {
	DB *gorm.DB
}

func NewContacts(db *gorm.DB) *Contacts {
	return &Contacts{DB: db}
}

type ContactInput struct {
	Name    string
	Email   string
	Message string
}

// Submit stores a message. actor is nil for anonymous submissions, those
// can never be edited afterwards.
func (s *Contacts) Submit(ctx context.Context, actor *policy.Actor, in ContactInput) (*model.Contact, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = validators.NormalizeEmail(in.Email)
	in.Message = strings.TrimSpace(in.Message)

	if err := validators.NameValidator(in.Name); err != nil {
		return nil, apperr.New(apperr.Validation, err.Error())
	}

	if err := validators.EmailValidator(in.Email); err != nil {
		return nil, apperr.New(apperr.Validation, err.Error())
	}

	if err := validators.MessageValidator(in.Message); err != nil {
		return nil, apperr.New(apperr.Validation, err.Error())
	}

	id, err := model.NewID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate contact id, %w", err)
	}

	c := &model.Contact{
		ID:      id,
		Name:    in.Name,
		Email:   in.Email,
		Message: in.Message,
	}

	if actor != nil && actor.ID != "" {
		uid := actor.ID
		c.UserID = &uid
	}

	if err := s.DB.WithContext(ctx).Create(c).Error; err != nil {
		return nil, fmt.Errorf("failed to create contact, %w", err)
	}

	return s.load(ctx, id)
}

// List returns the messages inside scope, newest first
func (s *Contacts) List(ctx context.Context, scope policy.Scope) ([]model.Contact, error) {
	q := s.DB.WithContext(ctx).Preload("User")
	if !scope.All {
		q = q.Where("user_id = ?", scope.OwnerID)
	}

	out := []model.Contact{}
	if err := q.Order("created_at desc").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to list contacts, %w", err)
	}

	return out, nil
}

// Update replaces the message text. A blank message keeps the old one.
func (s *Contacts) Update(ctx context.Context, actor policy.Actor, id, message string) (*model.Contact, error) {
	c, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if !policy.CanContact(actor, c.UserID, policy.Update) {
		return nil, apperr.ErrNotAuthorized
	}

	if message = strings.TrimSpace(message); message != "" {
		if err := validators.MessageValidator(message); err != nil {
			return nil, apperr.New(apperr.Validation, err.Error())
		}

		c.Message = message
	}

	if err := s.DB.WithContext(ctx).Model(c).Update("message", c.Message).Error; err != nil {
		return nil, fmt.Errorf("failed to update contact, %w", err)
	}

	return c, nil
}

func (s *Contacts) Delete(ctx context.Context, actor policy.Actor, id string) error {
	c, err := s.load(ctx, id)
	if err != nil {
		return err
	}

	if !policy.CanContact(actor, c.UserID, policy.Delete) {
		return apperr.ErrNotAuthorized
	}

	return s.remove(ctx, c.ID)
}

// AdminDelete removes any message regardless of who submitted it
func (s *Contacts) AdminDelete(ctx context.Context, actor policy.Actor, id string) error {
	if !actor.IsAdmin() {
		return apperr.ErrAdminOnly
	}

	c, err := s.load(ctx, id)
	if err != nil {
		return err
	}

	return s.remove(ctx, c.ID)
}

func (s *Contacts) remove(ctx context.Context, id string) error {
	if err := s.DB.WithContext(ctx).Delete(&model.Contact{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete contact, %w", err)
	}

	return nil
}

func (s *Contacts) load(ctx context.Context, id string) (*model.Contact, error) {
	if !model.ValidID(id) {
		return nil, apperr.ErrContactNotFound
	}

	var c model.Contact
	err := s.DB.WithContext(ctx).Preload("User").Where("id = ?", id).First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrContactNotFound
		}

		return nil, fmt.Errorf("failed to look up contact, %w", err)
	}

	return &c, nil
}
