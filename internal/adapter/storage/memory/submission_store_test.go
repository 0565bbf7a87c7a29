package memory

import (
	"testing"
	"time"

	"github.com/Devour6/agent-staking-api-sub000/internal/core/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSubmission() *domain.TrackedSubmission {
	return &domain.TrackedSubmission{
		ID:           uuid.New(),
		Signature:    "5VERv8NMvzbJMEkV8xnrLkEaWRtSz9CosKDYjCJjBRnbJLgp8uirBgmQpjKhoR4tjF3ZpRzrFmBV6UjKdiSZkQUW",
		StakeAccount: "stake111",
		Owner:        "owner111",
		Validator:    "vote111",
		Lamports:     2_000_000_000,
		Status:       domain.SubmissionStatusPending,
		CreatedAt:    time.Now().UTC(),
	}
}

func TestSubmissionStore_PutGetDelete(t *testing.T) {
	store := NewSubmissionStore()
	sub := newSubmission()

	_, ok := store.Get(sub.ID)
	assert.False(t, ok)

	store.Put(sub)
	assert.Equal(t, 1, store.Len())

	got, ok := store.Get(sub.ID)
	require.True(t, ok)
	assert.Equal(t, sub.ID, got.ID)
	assert.Equal(t, sub.Signature, got.Signature)

	store.Delete(sub.ID)
	assert.Zero(t, store.Len())
	_, ok = store.Get(sub.ID)
	assert.False(t, ok)
}

func TestSubmissionStore_GetReturnsCopy(t *testing.T) {
	store := NewSubmissionStore()
	sub := newSubmission()
	store.Put(sub)

	got, ok := store.Get(sub.ID)
	require.True(t, ok)
	got.Status = domain.SubmissionStatusFailed

	again, ok := store.Get(sub.ID)
	require.True(t, ok)
	assert.Equal(t, domain.SubmissionStatusPending, again.Status,
		"mutating a returned copy must not touch the stored entry")
}

func TestSubmissionStore_Snapshot(t *testing.T) {
	store := NewSubmissionStore()
	a := newSubmission()
	b := newSubmission()
	store.Put(a)
	store.Put(b)

	snap := store.Snapshot()
	require.Len(t, snap, 2)

	ids := []uuid.UUID{snap[0].ID, snap[1].ID}
	assert.Contains(t, ids, a.ID)
	assert.Contains(t, ids, b.ID)

	snap[0].Status = domain.SubmissionStatusFailed
	got, ok := store.Get(snap[0].ID)
	require.True(t, ok)
	assert.Equal(t, domain.SubmissionStatusPending, got.Status)
}
