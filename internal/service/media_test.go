package service

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"testing"

	"bitwise74/gallery-api/internal/apperr"
	"bitwise74/gallery-api/internal/model"
	"bitwise74/gallery-api/internal/policy"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mediaFixture struct {
	media *Media
	store *fakeStore
	alice policy.Actor
	bob   policy.Actor
	admin policy.Actor
}

func newMediaFixture(t *testing.T) *mediaFixture {
	t.Helper()

	d := newTestDB(t)
	store := newFakeStore()

	m := NewMedia(d, store, "media-gallery")
	m.TempDir = t.TempDir()

	return &mediaFixture{
		media: m,
		store: store,
		alice: createUser(t, d, "alice@example.com", model.RoleUser),
		bob:   createUser(t, d, "bob@example.com", model.RoleUser),
		admin: createUser(t, d, "admin@example.com", model.RoleAdmin),
	}
}

func (f *mediaFixture) upload(t *testing.T, actor policy.Actor, title string, shared bool, tags ...string) *model.Media {
	t.Helper()

	m, err := f.media.Upload(context.Background(), actor, UploadInput{
		Body:        strings.NewReader("content of " + title),
		Filename:    "photo.JPG",
		ContentType: "image/jpeg",
		Title:       title,
		Tags:        tags,
		IsShared:    shared,
	})
	require.NoError(t, err)

	return m
}

func TestMedia_Upload(t *testing.T) {
	f := newMediaFixture(t)

	m := f.upload(t, f.alice, "Sunset", false, "beach", " sky ", "beach")

	assert.Equal(t, "Sunset", m.Title)
	assert.Equal(t, model.StringSlice{"beach", "sky"}, m.Tags)
	assert.True(t, strings.HasPrefix(m.StorageKey, "media-gallery/"+f.alice.ID+"/"))
	assert.True(t, strings.HasSuffix(m.StorageKey, ".jpg"))
	assert.Equal(t, "https://cdn.test/"+m.StorageKey, m.ImageURL)
	assert.EqualValues(t, len("content of Sunset"), m.Size)
	require.NotNil(t, m.User)
	assert.Equal(t, "alice@example.com", m.User.Email)

	assert.Contains(t, f.store.objects, m.StorageKey)

	// The spooled copy is gone
	left, err := os.ReadDir(f.media.TempDir)
	require.NoError(t, err)
	assert.Empty(t, left)
}

func TestMedia_Upload_Validation(t *testing.T) {
	f := newMediaFixture(t)

	_, err := f.media.Upload(context.Background(), f.alice, UploadInput{Body: strings.NewReader("x"), Filename: "a.png"})
	assert.Equal(t, 400, apperr.Status(err))

	_, err = f.media.Upload(context.Background(), f.alice, UploadInput{Title: "No body"})
	assert.Equal(t, 400, apperr.Status(err))

	assert.Empty(t, f.store.objects)
}

func TestMedia_Upload_StoreFailure(t *testing.T) {
	f := newMediaFixture(t)
	f.store.putErr = errors.New("bucket gone")

	_, err := f.media.Upload(context.Background(), f.alice, UploadInput{
		Body:     strings.NewReader("x"),
		Filename: "a.png",
		Title:    "A",
	})
	assert.Equal(t, 500, apperr.Status(err))

	var count int64
	require.NoError(t, f.media.DB.Model(&model.Media{}).Count(&count).Error)
	assert.Zero(t, count)

	left, err := os.ReadDir(f.media.TempDir)
	require.NoError(t, err)
	assert.Empty(t, left)
}

func TestMedia_Upload_ReleasesObjectWhenInsertFails(t *testing.T) {
	f := newMediaFixture(t)
	require.NoError(t, f.media.DB.Migrator().DropTable(&model.Media{}))

	_, err := f.media.Upload(context.Background(), f.alice, UploadInput{
		Body:     strings.NewReader("x"),
		Filename: "a.png",
		Title:    "A",
	})
	require.Error(t, err)

	assert.Empty(t, f.store.objects)
	assert.Len(t, f.store.deleted, 1)
}

func TestMedia_ListVisibility(t *testing.T) {
	f := newMediaFixture(t)

	private := f.upload(t, f.alice, "Alice private", false)
	shared := f.upload(t, f.alice, "Alice shared", true)
	bobs := f.upload(t, f.bob, "Bob private", false)

	titles := func(actor policy.Actor) []string {
		items, err := f.media.List(context.Background(), actor, MediaFilter{})
		require.NoError(t, err)

		out := make([]string, len(items))
		for i, m := range items {
			out[i] = m.ID
		}

		return out
	}

	assert.ElementsMatch(t, []string{private.ID, shared.ID}, titles(f.alice))
	assert.ElementsMatch(t, []string{shared.ID, bobs.ID}, titles(f.bob))
	assert.ElementsMatch(t, []string{private.ID, shared.ID, bobs.ID}, titles(f.admin))
}

func TestMedia_ListFilters(t *testing.T) {
	f := newMediaFixture(t)

	f.upload(t, f.alice, "Beach Day", false, "summer", "sea")
	f.upload(t, f.alice, "Mountains", false, "summer_trip")
	f.upload(t, f.alice, "100% cotton", false, "winter")
	f.upload(t, f.alice, "Élan Café", false)

	tests := []struct {
		name   string
		filter MediaFilter
		want   []string
	}{
		{"search is case insensitive", MediaFilter{Search: "beach"}, []string{"Beach Day"}},
		{"percent is literal", MediaFilter{Search: "100%"}, []string{"100% cotton"}},
		{"underscore is literal", MediaFilter{Tags: []string{"summer_trip"}}, []string{"Mountains"}},
		{"tag matches whole tags only", MediaFilter{Tags: []string{"summer"}}, []string{"Beach Day"}},
		{"tags are ORed", MediaFilter{Tags: []string{"sea", "winter"}}, []string{"Beach Day", "100% cotton"}},
		{"search and tags combine", MediaFilter{Search: "mount", Tags: []string{"winter"}}, []string{}},
		{"no match", MediaFilter{Search: "desert"}, []string{}},
		{"non-ascii lower query", MediaFilter{Search: "élan"}, []string{"Élan Café"}},
		{"non-ascii exact case", MediaFilter{Search: "Élan"}, []string{"Élan Café"}},
		{"non-ascii upper query", MediaFilter{Search: "CAFÉ"}, []string{"Élan Café"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := f.media.List(context.Background(), f.alice, tt.filter)
			require.NoError(t, err)

			got := []string{}
			for _, m := range items {
				got = append(got, m.Title)
			}

			assert.ElementsMatch(t, tt.want, got)
		})
	}
}

func TestMedia_ListPagination(t *testing.T) {
	f := newMediaFixture(t)

	for _, title := range []string{"a", "b", "c"} {
		f.upload(t, f.alice, title, false)
	}

	page1, err := f.media.List(context.Background(), f.alice, MediaFilter{Page: 1, Limit: 2})
	require.NoError(t, err)
	page2, err := f.media.List(context.Background(), f.alice, MediaFilter{Page: 2, Limit: 2})
	require.NoError(t, err)

	assert.Len(t, page1, 2)
	assert.Len(t, page2, 1)
}

func TestMedia_Get(t *testing.T) {
	f := newMediaFixture(t)
	ctx := context.Background()

	private := f.upload(t, f.alice, "Private", false)
	shared := f.upload(t, f.alice, "Shared", true)

	_, err := f.media.Get(ctx, f.bob, private.ID)
	assert.ErrorIs(t, err, apperr.ErrNotAuthorized)
	assert.Equal(t, 401, apperr.Status(err))

	_, err = f.media.Get(ctx, f.bob, shared.ID)
	assert.NoError(t, err)

	_, err = f.media.Get(ctx, f.admin, private.ID)
	assert.NoError(t, err)

	_, err = f.media.Get(ctx, f.alice, "doesnotexist0000")
	assert.ErrorIs(t, err, apperr.ErrMediaNotFound)

	_, err = f.media.Get(ctx, f.alice, "../etc")
	assert.ErrorIs(t, err, apperr.ErrMediaNotFound)
}

func TestMedia_Update(t *testing.T) {
	f := newMediaFixture(t)
	ctx := context.Background()

	m := f.upload(t, f.alice, "Old", true, "a")

	blank := ""
	shared := false
	tags := model.StringSlice{"b", "c"}

	_, err := f.media.Update(ctx, f.bob, m.ID, MediaPatch{IsShared: &shared})
	assert.ErrorIs(t, err, apperr.ErrNotAuthorized)

	updated, err := f.media.Update(ctx, f.alice, m.ID, MediaPatch{Title: &blank, Tags: &tags, IsShared: &shared})
	require.NoError(t, err)
	assert.Equal(t, "Old", updated.Title)
	assert.Equal(t, tags, updated.Tags)
	assert.False(t, updated.IsShared)

	title := "New"
	updated, err = f.media.Update(ctx, f.admin, m.ID, MediaPatch{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "New", updated.Title)

	stored, err := f.media.Get(ctx, f.alice, m.ID)
	require.NoError(t, err)
	assert.Equal(t, "New", stored.Title)
	assert.False(t, stored.IsShared)
	assert.Equal(t, tags, stored.Tags)

	renamed := "Über Alles"
	_, err = f.media.Update(ctx, f.alice, m.ID, MediaPatch{Title: &renamed})
	require.NoError(t, err)

	found, err := f.media.List(ctx, f.alice, MediaFilter{Search: "über"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, m.ID, found[0].ID)

	found, err = f.media.List(ctx, f.alice, MediaFilter{Search: "new"})
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestMedia_Delete(t *testing.T) {
	f := newMediaFixture(t)
	ctx := context.Background()

	m := f.upload(t, f.alice, "Doomed", true)

	err := f.media.Delete(ctx, f.bob, m.ID)
	assert.ErrorIs(t, err, apperr.ErrNotAuthorized)

	require.NoError(t, f.media.Delete(ctx, f.admin, m.ID))
	assert.Equal(t, []string{m.StorageKey}, f.store.deleted)

	_, err = f.media.Get(ctx, f.alice, m.ID)
	assert.ErrorIs(t, err, apperr.ErrMediaNotFound)
}

func TestMedia_Delete_StoreFailureKeepsRecord(t *testing.T) {
	f := newMediaFixture(t)
	ctx := context.Background()

	m := f.upload(t, f.alice, "Sticky", false)
	f.store.delErr = errors.New("store down")

	err := f.media.Delete(ctx, f.alice, m.ID)
	assert.Equal(t, 500, apperr.Status(err))

	_, err = f.media.Get(ctx, f.alice, m.ID)
	assert.NoError(t, err)
}

func TestMedia_ResolveVisible(t *testing.T) {
	f := newMediaFixture(t)
	ctx := context.Background()

	private := f.upload(t, f.alice, "Private", false)
	shared := f.upload(t, f.alice, "Shared", true)

	items, err := f.media.ResolveVisible(ctx, f.bob, []string{private.ID, shared.ID, "unknown", private.ID})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, shared.ID, items[0].ID)

	items, err = f.media.ResolveVisible(ctx, f.admin, []string{private.ID, shared.ID})
	require.NoError(t, err)
	assert.Len(t, items, 2)

	_, err = f.media.ResolveVisible(ctx, f.bob, []string{private.ID})
	assert.ErrorIs(t, err, apperr.ErrNoMediaFound)

	_, err = f.media.ResolveVisible(ctx, f.bob, nil)
	assert.Equal(t, 400, apperr.Status(err))
}

func TestMedia_WriteArchive(t *testing.T) {
	f := newMediaFixture(t)
	ctx := context.Background()

	a := f.upload(t, f.alice, "Cat", false)
	b := f.upload(t, f.alice, "Cat", false)

	var buf bytes.Buffer
	require.NoError(t, f.media.WriteArchive(ctx, []model.Media{*a, *b}, &buf))

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	require.Len(t, zr.File, 2)

	names := []string{zr.File[0].Name, zr.File[1].Name}
	assert.ElementsMatch(t, []string{"Cat.jpg", "Cat (2).jpg"}, names)

	rc, err := zr.File[0].Open()
	require.NoError(t, err)
	defer rc.Close()

	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "content of Cat", string(body))
}

func TestMedia_WriteArchive_FetchFailure(t *testing.T) {
	f := newMediaFixture(t)

	m := f.upload(t, f.alice, "Cat", false)
	f.store.fetchErr = errors.New("store down")

	err := f.media.WriteArchive(context.Background(), []model.Media{*m}, io.Discard)
	assert.Equal(t, 500, apperr.Status(err))
}
