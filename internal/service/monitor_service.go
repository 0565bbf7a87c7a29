package service

import (
	"context"
	"regexp"
	"sync"
	"time"

	"github.com/Devour6/agent-staking-api-sub000/config"
	"github.com/Devour6/agent-staking-api-sub000/internal/core/domain"
	"github.com/Devour6/agent-staking-api-sub000/internal/core/ports"
	"github.com/Devour6/agent-staking-api-sub000/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Solana transaction signatures are base58-encoded 64-byte values,
// 86 to 88 characters.
var txSignatureRe = regexp.MustCompile(`^[1-9A-HJ-NP-Za-km-z]{86,88}$`)

// MonitorServiceImpl implements ports.MonitorService. It owns the active set
// of tracked submissions and walks each one through
// PENDING -> CONFIRMED -> ACTIVATED, emitting events at every transition.
type MonitorServiceImpl struct {
	store ports.SubmissionStore
	rpc   ports.RPCProvider
	sink  ports.EventSink
	cfg   config.MonitorConfig
	log   zerolog.Logger
	now   func() time.Time
}

// NewMonitorService creates a new MonitorServiceImpl.
func NewMonitorService(
	store ports.SubmissionStore,
	rpc ports.RPCProvider,
	sink ports.EventSink,
	cfg config.MonitorConfig,
	log zerolog.Logger,
) *MonitorServiceImpl {
	return &MonitorServiceImpl{
		store: store,
		rpc:   rpc,
		sink:  sink,
		cfg:   cfg,
		log:   log.With().Str("component", "monitor").Logger(),
		now:   time.Now,
	}
}

// Track registers a submitted stake transaction for monitoring. Submissions
// are not deduplicated by signature: re-tracking an already watched
// transaction yields a second independent entry.
func (m *MonitorServiceImpl) Track(ctx context.Context, req ports.TrackRequest) (uuid.UUID, error) {
	if !txSignatureRe.MatchString(req.Signature) {
		return uuid.Nil, apperror.ErrInvalidTxSignature()
	}
	if req.Lamports == 0 {
		return uuid.Nil, apperror.ErrInvalidLamports()
	}

	sub := &domain.TrackedSubmission{
		ID:           uuid.New(),
		Signature:    req.Signature,
		StakeAccount: req.StakeAccount,
		Owner:        req.Owner,
		Validator:    req.Validator,
		Lamports:     req.Lamports,
		Status:       domain.SubmissionStatusPending,
		CreatedAt:    m.now().UTC(),
	}
	m.store.Put(sub)

	m.log.Info().
		Str("submission_id", sub.ID.String()).
		Str("signature", sub.Signature).
		Str("stake_account", sub.StakeAccount).
		Msg("submission tracked")

	return sub.ID, nil
}

// GetSubmission returns one tracked submission by id.
func (m *MonitorServiceImpl) GetSubmission(id uuid.UUID) (*domain.TrackedSubmission, error) {
	sub, ok := m.store.Get(id)
	if !ok {
		return nil, apperror.ErrSubmissionNotFound()
	}
	return sub, nil
}

// Status returns a point-in-time view of the active set.
func (m *MonitorServiceImpl) Status() ports.MonitorStatus {
	return ports.MonitorStatus{
		Active:      m.store.Len(),
		Submissions: m.store.Snapshot(),
	}
}

// RunQueueOnce polls every active submission in sequential batches.
// Members of a batch run concurrently.
func (m *MonitorServiceImpl) RunQueueOnce(ctx context.Context) {
	subs := m.store.Snapshot()
	if len(subs) == 0 {
		return
	}

	batchSize := m.cfg.PollBatchSize
	if batchSize <= 0 {
		batchSize = 1
	}

	for start := 0; start < len(subs); start += batchSize {
		if ctx.Err() != nil {
			return
		}
		end := start + batchSize
		if end > len(subs) {
			end = len(subs)
		}

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(sub domain.TrackedSubmission) {
				defer wg.Done()
				m.pollOne(ctx, sub)
			}(subs[i])
		}
		wg.Wait()
	}
}

// pollOne advances one submission. It works on the snapshot copy and writes
// the result back; terminal submissions leave the active set.
func (m *MonitorServiceImpl) pollOne(ctx context.Context, sub domain.TrackedSubmission) {
	now := m.now().UTC()
	sub.LastCheckedAt = &now

	switch sub.Status {
	case domain.SubmissionStatusPending:
		m.pollPending(ctx, &sub, now)
	case domain.SubmissionStatusConfirmed:
		m.pollConfirmed(ctx, &sub, now)
	}

	if sub.IsTerminal() {
		m.store.Delete(sub.ID)
		return
	}

	// Submissions stuck without an outcome are abandoned after a cutoff.
	if now.Sub(sub.CreatedAt) > m.cfg.MaxPendingAge {
		m.log.Warn().
			Str("submission_id", sub.ID.String()).
			Str("signature", sub.Signature).
			Dur("age", now.Sub(sub.CreatedAt)).
			Msg("submission abandoned, no outcome before cutoff")
		m.store.Delete(sub.ID)
		return
	}

	m.store.Put(&sub)
}

func (m *MonitorServiceImpl) pollPending(ctx context.Context, sub *domain.TrackedSubmission, now time.Time) {
	status, err := m.rpc.Client().GetSignatureStatus(ctx, sub.Signature)
	if err != nil {
		m.log.Warn().Err(err).Str("submission_id", sub.ID.String()).Msg("signature status poll failed")
		return
	}
	if status == nil {
		// Cluster has no record yet; keep waiting.
		return
	}

	if status.Err != nil {
		m.log.Info().
			Str("submission_id", sub.ID.String()).
			Str("signature", sub.Signature).
			Interface("tx_err", status.Err).
			Msg("transaction failed on chain")
		sub.Status = domain.SubmissionStatusFailed
		return
	}

	if status.ConfirmationStatus != "confirmed" && status.ConfirmationStatus != "finalized" {
		return
	}

	sub.Status = domain.SubmissionStatusConfirmed
	sub.ConfirmedAt = &now

	m.sink.Deliver(domain.Event{
		Type: domain.EventStakeConfirmed,
		Data: domain.StakeConfirmedData{
			Signature:    sub.Signature,
			StakeAccount: sub.StakeAccount,
			Owner:        sub.Owner,
			Validator:    sub.Validator,
			Lamports:     sub.Lamports,
			ConfirmedAt:  now,
		},
		OccurredAt: now,
	})

	m.log.Info().
		Str("submission_id", sub.ID.String()).
		Str("signature", sub.Signature).
		Str("confirmation", status.ConfirmationStatus).
		Msg("stake transaction confirmed")
}

func (m *MonitorServiceImpl) pollConfirmed(ctx context.Context, sub *domain.TrackedSubmission, now time.Time) {
	info, err := m.rpc.Client().GetAccountInfo(ctx, sub.StakeAccount)
	if err != nil {
		m.log.Warn().Err(err).Str("submission_id", sub.ID.String()).Msg("stake account poll failed")
		return
	}
	if info == nil {
		m.log.Warn().
			Str("submission_id", sub.ID.String()).
			Str("stake_account", sub.StakeAccount).
			Msg("stake account not found")
		return
	}

	// An initialized stake account carries the full StakeStateV2 layout.
	if len(info.Data) < m.cfg.ActivationDataLen {
		return
	}

	sub.Status = domain.SubmissionStatusActivated
	sub.ActivatedAt = &now

	m.sink.Deliver(domain.Event{
		Type: domain.EventStakeActivated,
		Data: domain.StakeActivatedData{
			Signature:    sub.Signature,
			StakeAccount: sub.StakeAccount,
			Owner:        sub.Owner,
			Validator:    sub.Validator,
			Lamports:     sub.Lamports,
			ActivatedAt:  now,
		},
		OccurredAt: now,
	})

	m.log.Info().
		Str("submission_id", sub.ID.String()).
		Str("stake_account", sub.StakeAccount).
		Msg("stake activated")
}

// CheckValidatorsOnce emits validator_delinquent for every tracked submission
// whose validator appears in the cluster's delinquent set. It never mutates
// submission status.
func (m *MonitorServiceImpl) CheckValidatorsOnce(ctx context.Context) {
	subs := m.store.Snapshot()
	if len(subs) == 0 {
		return
	}

	voteAccounts, err := m.rpc.Client().GetVoteAccounts(ctx)
	if err != nil {
		m.log.Warn().Err(err).Msg("vote accounts fetch failed")
		return
	}
	if len(voteAccounts.Delinquent) == 0 {
		return
	}

	epochInfo, err := m.rpc.Client().GetEpochInfo(ctx)
	if err != nil {
		m.log.Warn().Err(err).Msg("epoch info fetch failed")
		return
	}

	delinquent := make(map[string]ports.VoteAccount, len(voteAccounts.Delinquent))
	for _, va := range voteAccounts.Delinquent {
		delinquent[va.VotePubkey] = va
	}

	now := m.now().UTC()
	for _, sub := range subs {
		va, ok := delinquent[sub.Validator]
		if !ok {
			continue
		}

		m.sink.Deliver(domain.Event{
			Type: domain.EventValidatorDelinquent,
			Data: domain.ValidatorDelinquentData{
				Validator:        sub.Validator,
				StakeAccount:     sub.StakeAccount,
				Owner:            sub.Owner,
				DelinquentEpochs: delinquentEpochs(epochInfo, va.LastVote),
			},
			OccurredAt: now,
		})

		m.log.Warn().
			Str("submission_id", sub.ID.String()).
			Str("validator", sub.Validator).
			Msg("validator delinquent")
	}
}

// delinquentEpochs estimates how many epochs a validator has been silent,
// from its last vote slot and the current epoch geometry.
func delinquentEpochs(info *ports.EpochInfo, lastVoteSlot uint64) uint64 {
	if info.SlotsInEpoch == 0 {
		return 0
	}
	lastVoteEpoch := lastVoteSlot / info.SlotsInEpoch
	if lastVoteEpoch >= info.Epoch {
		return 0
	}
	return info.Epoch - lastVoteEpoch
}
