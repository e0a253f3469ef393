package services

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"givemap/internal/auth"
	"givemap/internal/config"
	"givemap/internal/events"
	"givemap/internal/models"
	"givemap/internal/notify"
)

type memMailer struct {
	mu   sync.Mutex
	sent []notify.Message
}

func (m *memMailer) Send(_ context.Context, msg notify.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return nil
}

func (m *memMailer) messages() []notify.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]notify.Message(nil), m.sent...)
}

type eventLog struct {
	mu  sync.Mutex
	got []events.Event
}

func (l *eventLog) Publish(e events.Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.got = append(l.got, e)
}

func (l *eventLog) types() []events.Type {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []events.Type
	for _, e := range l.got {
		out = append(out, e.Type)
	}
	return out
}

type testEnv struct {
	db        *gorm.DB
	mailer    *memMailer
	mail      *notify.Dispatcher
	events    *eventLog
	auth      *AuthService
	locations *LocationService
	feedback  *FeedbackService
	reports   *ReportService
	users     *UserService
}

func setup(t *testing.T) *testEnv {
	t.Helper()
	db, err := config.OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)

	mailer := &memMailer{}
	mail := notify.NewDispatcher(db, mailer, 3)
	t.Cleanup(mail.Wait)
	log := &eventLog{}
	tokens := auth.NewTokenManager("test-secret", "givemap", "web", 7*24*time.Hour)

	return &testEnv{
		db:        db,
		mailer:    mailer,
		mail:      mail,
		events:    log,
		auth:      NewAuthService(db, tokens, mail, "http://app.test"),
		locations: NewLocationService(db, log, mail),
		feedback:  NewFeedbackService(db),
		reports:   NewReportService(db, nil),
		users:     NewUserService(db),
	}
}

func (e *testEnv) user(t *testing.T, email string) *models.User {
	t.Helper()
	u, err := e.auth.Register(context.Background(), email, "password123", "")
	require.NoError(t, err)
	return u
}

func (e *testEnv) location(t *testing.T, owner uint, name, description, category string) *models.Location {
	t.Helper()
	loc, err := e.locations.AddLocation(context.Background(), LocationInput{
		Latitude: 16.0544, Longitude: 108.2022,
		Name: name, Description: description, Category: category,
	}, owner)
	require.NoError(t, err)
	return loc
}
