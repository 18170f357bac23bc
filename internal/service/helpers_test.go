package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"

	"bitwise74/gallery-api/db"
	"bitwise74/gallery-api/internal/model"
	"bitwise74/gallery-api/internal/policy"
	"bitwise74/gallery-api/pkg/security"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name, err := gonanoid.New()
	require.NoError(t, err)

	d, err := db.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)))
	require.NoError(t, err)

	sqlDB, err := d.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	t.Cleanup(func() { sqlDB.Close() })

	return d
}

func testArgon() *security.ArgonHash {
	return &security.ArgonHash{
		Memory:      1024,
		Iterations:  1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	}
}

type sentMail struct {
	To, Subject, Body string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (m *fakeMailer) Send(to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return m.err
	}

	m.sent = append(m.sent, sentMail{to, subject, body})
	return nil
}

// lastCode pulls the trailing code out of the last mail sent
func (m *fakeMailer) lastCode(t *testing.T) string {
	t.Helper()

	m.mu.Lock()
	defer m.mu.Unlock()

	require.NotEmpty(t, m.sent)
	body := m.sent[len(m.sent)-1].Body

	return body[len(body)-6:]
}

type fakeStore struct {
	mu       sync.Mutex
	objects  map[string][]byte
	deleted  []string
	putErr   error
	delErr   error
	fetchErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: make(map[string][]byte)}
}

func (s *fakeStore) Put(_ context.Context, body io.Reader, _ int64, _, key string) (string, error) {
	if s.putErr != nil {
		return "", s.putErr
	}

	b, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = b

	return "https://cdn.test/" + key, nil
}

func (s *fakeStore) Delete(_ context.Context, key string) error {
	if s.delErr != nil {
		return s.delErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	s.deleted = append(s.deleted, key)

	return nil
}

func (s *fakeStore) Fetch(_ context.Context, key string) (io.ReadCloser, error) {
	if s.fetchErr != nil {
		return nil, s.fetchErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.objects[key]
	if !ok {
		return nil, errors.New("no such key")
	}

	return io.NopCloser(bytes.NewReader(b)), nil
}

func createUser(t *testing.T, d *gorm.DB, email string, role model.Role) policy.Actor {
	t.Helper()

	id, err := model.NewID()
	require.NoError(t, err)

	require.NoError(t, d.Create(&model.User{
		ID:         id,
		Name:       "user " + email,
		Email:      email,
		Role:       role,
		IsVerified: true,
		IsActive:   true,
	}).Error)

	return policy.Actor{ID: id, Role: role}
}
