// Package session holds the per-session analysis cache.
package session

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dataforte10/saham/internal/common"
	"github.com/dataforte10/saham/internal/interfaces"
	"github.com/dataforte10/saham/internal/models"
)

// entryField is the session store field holding the serialized cache entry.
const entryField = "cache_entry"

// Cache is the session's two-state analysis cache: Empty, or Populated with
// exactly one query and everything derived from it. Transitions:
//
//	Empty → Populated        Replace on the first successful query
//	Populated → Populated    Replace wholesale on a new query
//	Populated → Empty        Clear
//
// Follow-up answers and chat turns mutate fields within the current entry
// without a full replace. There is no partial invalidation.
type Cache struct {
	store  interfaces.SessionStore
	logger *common.Logger
}

// NewCache creates a session cache over the given backing store
func NewCache(store interfaces.SessionStore, logger *common.Logger) *Cache {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Cache{store: store, logger: logger}
}

// Current returns the cached entry, or nil when the session is Empty.
// Reading in Empty state is never an error.
func (c *Cache) Current(ctx context.Context) (*models.CacheEntry, error) {
	raw, err := c.store.Get(ctx, entryField)
	if err != nil {
		return nil, fmt.Errorf("read session cache: %w", err)
	}
	if raw == "" {
		return nil, nil
	}

	var entry models.CacheEntry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		return nil, fmt.Errorf("decode session cache: %w", err)
	}
	return &entry, nil
}

// Replace discards any existing entry and installs the new one wholesale.
func (c *Cache) Replace(ctx context.Context, entry *models.CacheEntry) error {
	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode session cache: %w", err)
	}
	if err := c.store.Set(ctx, entryField, string(raw)); err != nil {
		return fmt.Errorf("write session cache: %w", err)
	}

	c.logger.Debug().Str("symbol", entry.Query.Symbol).Str("key", entry.Query.Key()).Msg("Session cache replaced")
	return nil
}

// Clear transitions Populated → Empty. Clearing an Empty session is a no-op.
func (c *Cache) Clear(ctx context.Context) error {
	if err := c.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear session cache: %w", err)
	}
	c.logger.Debug().Msg("Session cache cleared")
	return nil
}

// SetFollowUpAnswer records the follow-up answer within the current entry.
// A no-op when the session is Empty.
func (c *Cache) SetFollowUpAnswer(ctx context.Context, answer string) error {
	return c.mutate(ctx, func(entry *models.CacheEntry) {
		entry.Analysis.FollowUpAnswer = answer
	})
}

// AppendChatTurn appends one chat turn to the current entry's log.
// A no-op when the session is Empty.
func (c *Cache) AppendChatTurn(ctx context.Context, turn models.ChatTurn) error {
	return c.mutate(ctx, func(entry *models.CacheEntry) {
		entry.ChatLog = append(entry.ChatLog, turn)
	})
}

// mutate applies an in-place change to the current entry and writes it back.
func (c *Cache) mutate(ctx context.Context, apply func(*models.CacheEntry)) error {
	entry, err := c.Current(ctx)
	if err != nil {
		return err
	}
	if entry == nil {
		return nil
	}
	apply(entry)
	return c.Replace(ctx, entry)
}
