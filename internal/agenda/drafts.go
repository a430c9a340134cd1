package agenda

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const draftKeyPrefix = "agenda:draft:"

// DraftStore holds confirmation drafts in Redis with a TTL, so an abandoned
// selection expires on its own.
type DraftStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewDraftStore creates a draft store. A zero ttl defaults to ten minutes.
func NewDraftStore(client *redis.Client, ttl time.Duration) *DraftStore {
	if client == nil {
		panic("agenda: redis client required")
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &DraftStore{client: client, ttl: ttl}
}

// Save stores the draft under its id, refreshing the TTL.
func (s *DraftStore) Save(ctx context.Context, draft *ConfirmationDraft) error {
	data, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("agenda: marshal draft: %w", err)
	}
	if err := s.client.Set(ctx, draftKeyPrefix+draft.ID, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("agenda: save draft: %w", err)
	}
	return nil
}

// Get loads a draft by id. Expired and unknown ids return ErrDraftNotFound.
func (s *DraftStore) Get(ctx context.Context, id string) (*ConfirmationDraft, error) {
	data, err := s.client.Get(ctx, draftKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrDraftNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("agenda: load draft: %w", err)
	}
	var draft ConfirmationDraft
	if err := json.Unmarshal(data, &draft); err != nil {
		return nil, fmt.Errorf("agenda: unmarshal draft: %w", err)
	}
	return &draft, nil
}

// Delete removes a draft after a successful confirmation or an explicit
// cancel. Deleting an unknown id is not an error.
func (s *DraftStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, draftKeyPrefix+id).Err(); err != nil {
		return fmt.Errorf("agenda: delete draft: %w", err)
	}
	return nil
}
