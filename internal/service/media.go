package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"
	"time"

	"bitwise74/gallery-api/internal/apperr"
	"bitwise74/gallery-api/internal/model"
	"bitwise74/gallery-api/internal/policy"
	"bitwise74/gallery-api/pkg/validators"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const maxListLimit = 250

type Media struct {
	DB    *gorm.DB
	Store ObjectStore
	// Folder is the key prefix every object is stored under
	Folder string
	// TempDir is where uploads are spooled before they're sent to the
	// store. Empty means os.TempDir().
	TempDir string
}

func NewMedia(db *gorm.DB, store ObjectStore, folder string) *Media {
	return &Media{DB: db, Store: store, Folder: folder}
}

type UploadInput struct {
	Body        io.Reader
	Filename    string
	ContentType string
	Title       string
	Description string
	Tags        model.StringSlice
	IsShared    bool
}

// Upload stores the content and then the record. If the record can't be
// committed the object is released again so nothing is left orphaned.
func (s *Media) Upload(ctx context.Context, actor policy.Actor, in UploadInput) (*model.Media, error) {
	in.Title = strings.TrimSpace(in.Title)
	if err := validators.TitleValidator(in.Title); err != nil {
		return nil, apperr.New(apperr.Validation, err.Error())
	}

	if in.Body == nil {
		return nil, apperr.New(apperr.Validation, validators.ErrNoFile.Error())
	}

	id, err := model.NewID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate media id, %w", err)
	}

	tmp, err := os.CreateTemp(s.TempDir, "upload-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file, %w", err)
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	size, err := io.Copy(tmp, in.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to spool upload, %w", err)
	}

	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to rewind temp file, %w", err)
	}

	key := path.Join(s.Folder, actor.ID, id+strings.ToLower(path.Ext(in.Filename)))

	url, err := s.Store.Put(ctx, tmp, size, in.ContentType, key)
	if err != nil {
		return nil, apperr.Upstream("Failed to upload image", err)
	}

	m := &model.Media{
		ID:          id,
		Title:       in.Title,
		TitleSearch: model.SearchKey(in.Title),
		Description: strings.TrimSpace(in.Description),
		Tags:        model.NormalizeTags(in.Tags),
		ImageURL:    url,
		StorageKey:  key,
		ContentType: in.ContentType,
		Size:        size,
		UserID:      actor.ID,
		IsShared:    in.IsShared,
	}

	if err := s.DB.WithContext(ctx).Create(m).Error; err != nil {
		// The request context may already be gone
		cctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if derr := s.Store.Delete(cctx, key); derr != nil {
			zap.L().Error("Failed to release object after failed insert",
				zap.String("key", key),
				zap.Error(derr),
			)
		}

		return nil, fmt.Errorf("failed to create media, %w", err)
	}

	return s.load(ctx, id)
}

type MediaFilter struct {
	Search string
	Tags   []string
	Page   int
	Limit  int
}

// List returns the media visible to actor, newest first
func (s *Media) List(ctx context.Context, actor policy.Actor, f MediaFilter) ([]model.Media, error) {
	q := applyScope(s.DB.WithContext(ctx).Preload("User"), policy.MediaScope(actor))

	if search := strings.TrimSpace(f.Search); search != "" {
		q = q.Where("title_search LIKE ? ESCAPE '\\'", "%"+escapeLike(model.SearchKey(search))+"%")
	}

	if tags := model.NormalizeTags(f.Tags); len(tags) > 0 {
		conds := make([]string, len(tags))
		args := make([]any, len(tags))

		for i, t := range tags {
			conds[i] = "(',' || tags || ',') LIKE ? ESCAPE '\\'"
			args[i] = "%," + escapeLike(t) + ",%"
		}

		q = q.Where("("+strings.Join(conds, " OR ")+")", args...)
	}

	if f.Limit > 0 {
		limit := min(f.Limit, maxListLimit)
		page := max(f.Page, 1)

		q = q.Limit(limit).Offset((page - 1) * limit)
	}

	out := []model.Media{}
	if err := q.Order("created_at desc").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to list media, %w", err)
	}

	return out, nil
}

func (s *Media) Get(ctx context.Context, actor policy.Actor, id string) (*model.Media, error) {
	m, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if !policy.CanMedia(actor, m.UserID, m.IsShared, policy.Read) {
		return nil, apperr.ErrNotAuthorized
	}

	return m, nil
}

// MediaPatch holds the fields an update may touch. Nil and blank values
// keep the stored value.
type MediaPatch struct {
	Title       *string
	Description *string
	Tags        *model.StringSlice
	IsShared    *bool
}

func (s *Media) Update(ctx context.Context, actor policy.Actor, id string, p MediaPatch) (*model.Media, error) {
	m, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if !policy.CanMedia(actor, m.UserID, m.IsShared, policy.Update) {
		return nil, apperr.ErrNotAuthorized
	}

	if p.Title != nil && strings.TrimSpace(*p.Title) != "" {
		title := strings.TrimSpace(*p.Title)
		if err := validators.TitleValidator(title); err != nil {
			return nil, apperr.New(apperr.Validation, err.Error())
		}

		m.Title = title
		m.TitleSearch = model.SearchKey(title)
	}

	if p.Description != nil && strings.TrimSpace(*p.Description) != "" {
		m.Description = strings.TrimSpace(*p.Description)
	}

	if p.Tags != nil {
		m.Tags = model.NormalizeTags(*p.Tags)
	}

	if p.IsShared != nil {
		m.IsShared = *p.IsShared
	}

	err = s.DB.WithContext(ctx).
		Model(m).
		Select("title", "title_search", "description", "tags", "is_shared").
		Updates(m).
		Error
	if err != nil {
		return nil, fmt.Errorf("failed to update media, %w", err)
	}

	return m, nil
}

// Delete releases the stored object before the record. If the store
// refuses, the record stays so the object can't be orphaned.
func (s *Media) Delete(ctx context.Context, actor policy.Actor, id string) error {
	m, err := s.load(ctx, id)
	if err != nil {
		return err
	}

	if !policy.CanMedia(actor, m.UserID, m.IsShared, policy.Delete) {
		return apperr.ErrNotAuthorized
	}

	if err := s.Store.Delete(ctx, m.StorageKey); err != nil {
		return apperr.Upstream("Failed to delete image", err)
	}

	if err := s.DB.WithContext(ctx).Delete(&model.Media{}, "id = ?", m.ID).Error; err != nil {
		return fmt.Errorf("object %s released but record not deleted, %w", m.StorageKey, err)
	}

	return nil
}

// ResolveVisible narrows ids to the media actor is allowed to see, using the
// same rule as List. Unknown and invisible ids are dropped silently.
func (s *Media) ResolveVisible(ctx context.Context, actor policy.Actor, ids []string) ([]model.Media, error) {
	if len(ids) == 0 {
		return nil, apperr.New(apperr.Validation, "Please select media to download")
	}

	valid := make([]string, 0, len(ids))
	for _, id := range ids {
		if model.ValidID(id) {
			valid = append(valid, id)
		}
	}

	if len(valid) == 0 {
		return nil, apperr.ErrNoMediaFound
	}

	out := []model.Media{}
	err := applyScope(s.DB.WithContext(ctx), policy.MediaScope(actor)).
		Where("id IN ?", valid).
		Order("created_at desc").
		Find(&out).
		Error
	if err != nil {
		return nil, fmt.Errorf("failed to resolve media, %w", err)
	}

	if len(out) == 0 {
		return nil, apperr.ErrNoMediaFound
	}

	return out, nil
}

// WriteArchive zips the content of items into w. Entries are named after
// the media title with the extension of the stored object.
func (s *Media) WriteArchive(ctx context.Context, items []model.Media, w io.Writer) error {
	a := NewArchive(w)

	for _, m := range items {
		if err := s.appendOne(ctx, a, m); err != nil {
			return err
		}
	}

	return a.Close()
}

func (s *Media) appendOne(ctx context.Context, a *Archive, m model.Media) error {
	rc, err := s.Store.Fetch(ctx, m.StorageKey)
	if err != nil {
		return apperr.Upstream("Failed to fetch image", err)
	}
	defer rc.Close()

	return a.Append(m.Title+path.Ext(m.StorageKey), rc)
}

func (s *Media) load(ctx context.Context, id string) (*model.Media, error) {
	if !model.ValidID(id) {
		return nil, apperr.ErrMediaNotFound
	}

	var m model.Media
	err := s.DB.WithContext(ctx).Preload("User").Where("id = ?", id).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrMediaNotFound
		}

		return nil, fmt.Errorf("failed to look up media, %w", err)
	}

	return &m, nil
}

func applyScope(q *gorm.DB, s policy.Scope) *gorm.DB {
	switch {
	case s.All:
		return q
	case s.IncludeShared:
		return q.Where("(user_id = ? OR is_shared = ?)", s.OwnerID, true)
	default:
		return q.Where("user_id = ?", s.OwnerID)
	}
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
