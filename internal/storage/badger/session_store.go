package badger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/timshannon/badgerhold/v4"

	"github.com/dataforte10/saham/internal/common"
	"github.com/dataforte10/saham/internal/interfaces"
)

// SessionField is one named field of the interactive session.
type SessionField struct {
	Field     string `badgerhold:"key"`
	Value     string
	SessionID string
	UpdatedAt time.Time
}

// sessionStore implements interfaces.SessionStore over BadgerHold. Every
// store carries a session ID minted at open; records written by it are
// stamped with that ID.
type sessionStore struct {
	store     *Store
	sessionID string
	logger    *common.Logger
}

// NewSessionStore creates a session store backed by the given BadgerHold store.
func NewSessionStore(store *Store, logger *common.Logger) interfaces.SessionStore {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	id := uuid.NewString()
	logger.Debug().Str("session_id", id).Msg("Session store opened")
	return &sessionStore{store: store, sessionID: id, logger: logger}
}

// Get retrieves a named field. An absent field reads as empty, not an error.
func (s *sessionStore) Get(_ context.Context, field string) (string, error) {
	var record SessionField
	err := s.store.db.Get(field, &record)
	if err != nil {
		if err == badgerhold.ErrNotFound {
			return "", nil
		}
		return "", fmt.Errorf("failed to get session field '%s': %w", field, err)
	}
	return record.Value, nil
}

// Set stores a named field, replacing any prior value.
func (s *sessionStore) Set(_ context.Context, field, value string) error {
	record := SessionField{
		Field:     field,
		Value:     value,
		SessionID: s.sessionID,
		UpdatedAt: time.Now(),
	}
	if err := s.store.db.Upsert(field, &record); err != nil {
		return fmt.Errorf("failed to set session field '%s': %w", field, err)
	}
	return nil
}

// Delete removes a named field. Deleting an absent field is a no-op.
func (s *sessionStore) Delete(_ context.Context, field string) error {
	err := s.store.db.Delete(field, SessionField{})
	if err != nil && err != badgerhold.ErrNotFound {
		return fmt.Errorf("failed to delete session field '%s': %w", field, err)
	}
	return nil
}

// Clear removes every field for the session.
func (s *sessionStore) Clear(_ context.Context) error {
	if err := s.store.db.DeleteMatching(SessionField{}, nil); err != nil {
		return fmt.Errorf("failed to clear session fields: %w", err)
	}
	s.logger.Debug().Str("session_id", s.sessionID).Msg("Session store cleared")
	return nil
}

// Close releases the backing store.
func (s *sessionStore) Close() error {
	return s.store.Close()
}

// Ensure sessionStore implements SessionStore
var _ interfaces.SessionStore = (*sessionStore)(nil)
