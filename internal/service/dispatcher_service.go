package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/Devour6/agent-staking-api-sub000/config"
	"github.com/Devour6/agent-staking-api-sub000/internal/core/domain"
	"github.com/Devour6/agent-staking-api-sub000/internal/core/ports"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// HTTPClient interface for testability.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// webhookEnvelope is the canonical delivery body. The exact bytes sent are
// the bytes signed, and they are persisted on the delivery record so retries
// resend an identical payload.
type webhookEnvelope struct {
	Event   string          `json:"event"`
	Data    json.RawMessage `json:"data"`
	Webhook webhookMeta     `json:"webhook"`
}

type webhookMeta struct {
	ID        string `json:"id"` // subscription id, mirrored in X-Webhook-ID
	Timestamp string `json:"timestamp"`
}

// DispatcherService fans domain events out to matching webhook subscriptions.
// Events arrive over a bounded channel so producers never block; a sweep loop
// retries failed deliveries with exponential backoff.
type DispatcherService struct {
	subRepo      ports.SubscriptionRepository
	deliveryRepo ports.DeliveryRepository
	transactor   ports.DBTransactor
	encSvc       ports.EncryptionService
	sigSvc       ports.SignatureService
	httpClient   HTTPClient
	cfg          config.WebhookConfig
	log          zerolog.Logger

	events chan domain.Event
	now    func() time.Time

	started  bool
	stopOnce sync.Once
	cancel   context.CancelFunc
	done     chan struct{}
}

// NewDispatcherService creates a new DispatcherService. Start must be called
// to begin consuming events.
func NewDispatcherService(
	subRepo ports.SubscriptionRepository,
	deliveryRepo ports.DeliveryRepository,
	transactor ports.DBTransactor,
	encSvc ports.EncryptionService,
	sigSvc ports.SignatureService,
	httpClient HTTPClient,
	cfg config.WebhookConfig,
	log zerolog.Logger,
) *DispatcherService {
	return &DispatcherService{
		subRepo:      subRepo,
		deliveryRepo: deliveryRepo,
		transactor:   transactor,
		encSvc:       encSvc,
		sigSvc:       sigSvc,
		httpClient:   httpClient,
		cfg:          cfg,
		log:          log.With().Str("component", "dispatcher").Logger(),
		events:       make(chan domain.Event, cfg.EventBufferSize),
		now:          time.Now,
		done:         make(chan struct{}),
	}
}

// Deliver implements ports.EventSink. It never blocks: when the buffer is
// full the event is dropped and logged.
func (d *DispatcherService) Deliver(event domain.Event) {
	select {
	case d.events <- event:
	default:
		d.log.Error().
			Str("event_type", string(event.Type)).
			Msg("event buffer full, event dropped")
	}
}

// Start launches the consumer goroutine.
func (d *DispatcherService) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	d.cancel = cancel
	d.started = true
	go d.consume(ctx)
	d.log.Info().Int("buffer", cap(d.events)).Msg("dispatcher started")
}

// Stop halts the consumer. Buffered events that were not yet dispatched are
// discarded. Safe to call more than once, and a no-op before Start.
func (d *DispatcherService) Stop() {
	if !d.started {
		return
	}
	d.stopOnce.Do(func() {
		d.cancel()
	})
	<-d.done
	d.log.Info().Msg("dispatcher stopped")
}

func (d *DispatcherService) consume(ctx context.Context) {
	defer close(d.done)
	for {
		select {
		case <-ctx.Done():
			return
		case event := <-d.events:
			d.dispatch(ctx, event)
		}
	}
}

// dispatch sends one event to every active matching subscription, in
// concurrent batches. Each subscription gets its own delivery record and
// exactly one immediate attempt.
func (d *DispatcherService) dispatch(ctx context.Context, event domain.Event) {
	subs, err := d.subRepo.ListActiveByEventType(ctx, event.Type)
	if err != nil {
		d.log.Error().Err(err).Str("event_type", string(event.Type)).Msg("subscription lookup failed")
		return
	}
	if len(subs) == 0 {
		return
	}

	data, err := event.MarshalData()
	if err != nil {
		d.log.Error().Err(err).Str("event_type", string(event.Type)).Msg("event payload rejected")
		return
	}

	batchSize := d.cfg.DispatchBatchSize
	if batchSize <= 0 {
		batchSize = 1
	}

	for start := 0; start < len(subs); start += batchSize {
		end := start + batchSize
		if end > len(subs) {
			end = len(subs)
		}

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(sub domain.Subscription) {
				defer wg.Done()
				d.deliverNew(ctx, &sub, event.Type, data)
			}(subs[i])
		}
		wg.Wait()
	}
}

// deliverNew creates the delivery record for one subscription and performs
// the immediate first attempt.
func (d *DispatcherService) deliverNew(ctx context.Context, sub *domain.Subscription, eventType domain.EventType, data json.RawMessage) {
	now := d.now().UTC()
	rec := &domain.DeliveryAttempt{
		ID:             uuid.New(),
		SubscriptionID: sub.ID,
		EventType:      eventType,
		Status:         domain.DeliveryStatusPending,
		CreatedAt:      now,
	}

	body, err := json.Marshal(webhookEnvelope{
		Event: string(eventType),
		Data:  data,
		Webhook: webhookMeta{
			ID:        sub.ID.String(),
			Timestamp: now.Format(time.RFC3339),
		},
	})
	if err != nil {
		d.log.Error().Err(err).Str("subscription_id", sub.ID.String()).Msg("envelope marshal failed")
		return
	}
	rec.Payload = body

	if err := d.deliveryRepo.Create(ctx, rec); err != nil {
		d.log.Error().Err(err).Str("subscription_id", sub.ID.String()).Msg("delivery record create failed")
		return
	}

	d.attempt(ctx, sub, rec)
}

// attempt performs one send and persists the outcome. The delivery update
// and the subscription's failure-streak update commit in one transaction.
func (d *DispatcherService) attempt(ctx context.Context, sub *domain.Subscription, rec *domain.DeliveryAttempt) {
	httpStatus, sendErr := d.send(ctx, sub, rec)

	now := d.now().UTC()
	rec.Attempt++
	success := sendErr == nil

	if httpStatus != 0 {
		rec.HTTPStatus = &httpStatus
	}

	if success {
		rec.Status = domain.DeliveryStatusSuccess
		rec.DeliveredAt = &now
		rec.LastError = nil
		rec.NextRetryAt = nil
	} else {
		msg := sendErr.Error()
		rec.LastError = &msg
		if rec.Attempt >= d.cfg.MaxRetries {
			rec.Status = domain.DeliveryStatusMaxRetries
			rec.NextRetryAt = nil
		} else {
			rec.Status = domain.DeliveryStatusFailed
			retryAt := now.Add(d.backoff(rec.Attempt))
			rec.NextRetryAt = &retryAt
		}
	}

	if err := d.persistOutcome(ctx, sub.ID, rec, success, now); err != nil {
		d.log.Error().Err(err).
			Str("delivery_id", rec.ID.String()).
			Str("subscription_id", sub.ID.String()).
			Msg("delivery outcome persist failed")
		return
	}

	evt := d.log.Info()
	if !success {
		evt = d.log.Warn().Err(sendErr)
	}
	evt.
		Str("delivery_id", rec.ID.String()).
		Str("subscription_id", sub.ID.String()).
		Str("event_type", string(rec.EventType)).
		Int("attempt", rec.Attempt).
		Str("status", string(rec.Status)).
		Msg("webhook delivery attempt")
}

// send posts the signed payload to the subscription target. A nil error
// means a 2xx response.
func (d *DispatcherService) send(ctx context.Context, sub *domain.Subscription, rec *domain.DeliveryAttempt) (int, error) {
	secret, err := d.encSvc.Decrypt(sub.SecretEnc)
	if err != nil {
		return 0, fmt.Errorf("decrypt signing secret: %w", err)
	}
	signature := d.sigSvc.Sign(secret, string(rec.Payload))

	sendCtx, cancel := context.WithTimeout(ctx, d.cfg.DeliveryTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(sendCtx, http.MethodPost, sub.TargetURL, bytes.NewReader(rec.Payload))
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Webhook-Signature-256", "sha256="+signature)
	req.Header.Set("X-Webhook-ID", sub.ID.String())
	req.Header.Set("X-Webhook-Event", string(rec.EventType))

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp.StatusCode, fmt.Errorf("non-2xx response: %d", resp.StatusCode)
	}
	return resp.StatusCode, nil
}

// persistOutcome commits the delivery update and the subscription streak
// update atomically.
func (d *DispatcherService) persistOutcome(ctx context.Context, subID uuid.UUID, rec *domain.DeliveryAttempt, success bool, at time.Time) error {
	tx, err := d.transactor.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := d.deliveryRepo.Update(ctx, tx, rec); err != nil {
		return err
	}
	if err := d.subRepo.RecordDeliveryResult(ctx, tx, subID, success, d.cfg.DeactivateThreshold, at); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// SweepOnce retries one batch of due failed deliveries. Called on a fixed
// interval by the scheduler.
func (d *DispatcherService) SweepOnce(ctx context.Context) {
	due, err := d.deliveryRepo.ListDue(ctx, d.now().UTC(), d.cfg.SweepBatchSize)
	if err != nil {
		d.log.Error().Err(err).Msg("due delivery lookup failed")
		return
	}
	if len(due) == 0 {
		return
	}

	var wg sync.WaitGroup
	for i := range due {
		wg.Add(1)
		go func(rec domain.DeliveryAttempt) {
			defer wg.Done()
			d.retry(ctx, &rec)
		}(due[i])
	}
	wg.Wait()
}

// retry re-sends one failed delivery with its original payload bytes.
func (d *DispatcherService) retry(ctx context.Context, rec *domain.DeliveryAttempt) {
	sub, err := d.subRepo.GetByID(ctx, rec.SubscriptionID)
	if err != nil {
		d.log.Error().Err(err).Str("delivery_id", rec.ID.String()).Msg("subscription lookup failed")
		return
	}
	if sub == nil || !sub.Active {
		// Deactivated or deleted subscriptions keep their records for audit,
		// but pending retries stop.
		rec.NextRetryAt = nil
		if err := d.deliveryRepo.Update(ctx, nil, rec); err != nil {
			d.log.Error().Err(err).Str("delivery_id", rec.ID.String()).Msg("retry cancel persist failed")
		}
		return
	}

	d.attempt(ctx, sub, rec)
}

// backoff returns the delay before retry n+1: exponential from the initial
// delay, capped, with up to 10% jitter.
func (d *DispatcherService) backoff(attempt int) time.Duration {
	delay := d.cfg.InitialRetryDelay
	for i := 1; i < attempt; i++ {
		delay *= 2
		if delay >= d.cfg.MaxRetryDelay {
			delay = d.cfg.MaxRetryDelay
			break
		}
	}
	jitter := time.Duration(rand.Int63n(int64(delay)/10 + 1))
	return delay + jitter
}
