package solana

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Devour6/agent-staking-api-sub000/config"
	"github.com/Devour6/agent-staking-api-sub000/internal/core/domain"
	"github.com/Devour6/agent-staking-api-sub000/internal/core/ports"
	"github.com/Devour6/agent-staking-api-sub000/pkg/apperror"
)

type endpoint struct {
	client *Client
	health domain.EndpointHealth
}

// EndpointManager routes RPC calls across a primary and a backup endpoint
// pool. Probes drive health state; traffic prefers the primary pool until
// every primary endpoint is unhealthy and a backup one is not, and a single
// successful primary probe fails traffic back. Individual calls still fall
// through to the other pool when the whole active pool errors.
type EndpointManager struct {
	cfg    config.SolanaConfig
	cache  ports.BlockhashCache
	logger zerolog.Logger

	mu         sync.RWMutex
	primary    []*endpoint
	backup     []*endpoint
	failedOver bool
	rrNext     int

	now func() time.Time
}

var _ ports.RPCProvider = (*EndpointManager)(nil)
var _ ports.SolanaClient = (*EndpointManager)(nil)

func NewEndpointManager(cfg config.SolanaConfig, cache ports.BlockhashCache, logger zerolog.Logger) *EndpointManager {
	m := &EndpointManager{
		cfg:    cfg,
		cache:  cache,
		logger: logger.With().Str("component", "endpoint_manager").Logger(),
		now:    time.Now,
	}
	for _, url := range cfg.PrimaryEndpoints {
		m.primary = append(m.primary, newEndpoint(url, cfg.ProbeTimeout, logger))
	}
	for _, url := range cfg.BackupEndpoints {
		m.backup = append(m.backup, newEndpoint(url, cfg.ProbeTimeout, logger))
	}
	return m
}

func newEndpoint(url string, timeout time.Duration, logger zerolog.Logger) *endpoint {
	return &endpoint{
		client: NewClient(url, timeout, logger),
		health: domain.EndpointHealth{URL: url, Healthy: true},
	}
}

// Client returns the failover-aware client. The manager itself implements
// the RPC surface by routing each call.
func (m *EndpointManager) Client() ports.SolanaClient {
	return m
}

// FailedOver reports whether traffic is currently served by the backup pool.
func (m *EndpointManager) FailedOver() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.failedOver
}

// Snapshot returns a copy of every endpoint's health, primaries first.
func (m *EndpointManager) Snapshot() []domain.EndpointHealth {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]domain.EndpointHealth, 0, len(m.primary)+len(m.backup))
	for _, ep := range m.primary {
		out = append(out, ep.health)
	}
	for _, ep := range m.backup {
		out = append(out, ep.health)
	}
	return out
}

// ProbeOnce runs one health probe pass over both pools and re-evaluates
// the failover state. Called on a fixed interval by the scheduler.
func (m *EndpointManager) ProbeOnce(ctx context.Context) {
	m.mu.RLock()
	all := make([]*endpoint, 0, len(m.primary)+len(m.backup))
	all = append(all, m.primary...)
	all = append(all, m.backup...)
	m.mu.RUnlock()

	type probeResult struct {
		ep      *endpoint
		err     error
		latency time.Duration
	}

	results := make([]probeResult, 0, len(all))
	for _, ep := range all {
		probeCtx, cancel := context.WithTimeout(ctx, m.cfg.ProbeTimeout)
		start := m.now()
		err := ep.client.GetHealth(probeCtx)
		cancel()
		results = append(results, probeResult{ep: ep, err: err, latency: m.now().Sub(start)})
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	for _, r := range results {
		wasHealthy := r.ep.health.Healthy
		if r.err != nil {
			r.ep.health.RecordFailure(r.err, m.cfg.FailureThreshold, now)
			if wasHealthy && !r.ep.health.Healthy {
				m.logger.Warn().
					Str("endpoint", r.ep.health.URL).
					Int("consecutive_failures", r.ep.health.ConsecutiveFailures).
					Err(r.err).
					Msg("endpoint marked unhealthy")
			}
			continue
		}
		r.ep.health.RecordSuccess(r.latency, now)
		if !wasHealthy {
			m.logger.Info().Str("endpoint", r.ep.health.URL).Msg("endpoint recovered")
		}
	}

	primaryUp := anyHealthy(m.primary)
	backupUp := anyHealthy(m.backup)

	switch {
	case m.failedOver && primaryUp:
		m.failedOver = false
		m.logger.Info().Msg("failing back to primary endpoint pool")
	case !m.failedOver && !primaryUp && backupUp:
		m.failedOver = true
		m.logger.Warn().Msg("primary endpoint pool down, failing over to backup")
	case !primaryUp && !backupUp:
		m.logger.Error().Msg("no healthy rpc endpoints in any pool")
	}
}

func anyHealthy(pool []*endpoint) bool {
	for _, ep := range pool {
		if ep.health.Healthy {
			return true
		}
	}
	return false
}

// candidates returns clients in try order: the active pool first (healthy
// endpoints round-robin, then unhealthy ones), followed by the other pool.
// A live-call failure can therefore cross pools even before probes have
// flipped the failover state; a call fails only when every endpoint does.
func (m *EndpointManager) candidates() []*Client {
	m.mu.Lock()
	defer m.mu.Unlock()

	active, fallback := m.primary, m.backup
	if m.failedOver {
		active, fallback = m.backup, m.primary
	}

	offset := m.rrNext
	m.rrNext++

	out := poolOrder(active, offset)
	return append(out, poolOrder(fallback, offset)...)
}

// poolOrder sorts one pool for trying: healthy endpoints first starting at
// the round-robin offset, unhealthy ones after.
func poolOrder(pool []*endpoint, offset int) []*Client {
	if len(pool) == 0 {
		return nil
	}

	var healthy, unhealthy []*Client
	for i := range pool {
		ep := pool[(offset+i)%len(pool)]
		if ep.health.Healthy {
			healthy = append(healthy, ep.client)
		} else {
			unhealthy = append(unhealthy, ep.client)
		}
	}
	return append(healthy, unhealthy...)
}

// route tries each candidate endpoint in order until one answers.
func route[T any](ctx context.Context, m *EndpointManager, fn func(context.Context, *Client) (T, error)) (T, error) {
	var zero T
	clients := m.candidates()
	if len(clients) == 0 {
		return zero, apperror.ErrUpstreamUnavailable(errors.New("no rpc endpoints configured"))
	}

	var lastErr error
	for _, c := range clients {
		result, err := fn(ctx, c)
		if err == nil {
			return result, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
		m.logger.Debug().Str("endpoint", c.URL()).Err(err).Msg("rpc call failed, trying next endpoint")
	}
	return zero, apperror.ErrUpstreamUnavailable(lastErr)
}

func (m *EndpointManager) GetHealth(ctx context.Context) error {
	_, err := route(ctx, m, func(ctx context.Context, c *Client) (struct{}, error) {
		return struct{}{}, c.GetHealth(ctx)
	})
	return err
}

func (m *EndpointManager) GetSignatureStatus(ctx context.Context, signature string) (*ports.SignatureStatus, error) {
	return route(ctx, m, func(ctx context.Context, c *Client) (*ports.SignatureStatus, error) {
		return c.GetSignatureStatus(ctx, signature)
	})
}

func (m *EndpointManager) GetAccountInfo(ctx context.Context, address string) (*ports.AccountInfo, error) {
	return route(ctx, m, func(ctx context.Context, c *Client) (*ports.AccountInfo, error) {
		return c.GetAccountInfo(ctx, address)
	})
}

func (m *EndpointManager) GetVoteAccounts(ctx context.Context) (*ports.VoteAccounts, error) {
	return route(ctx, m, func(ctx context.Context, c *Client) (*ports.VoteAccounts, error) {
		return c.GetVoteAccounts(ctx)
	})
}

func (m *EndpointManager) GetLatestBlockhash(ctx context.Context) (string, error) {
	return route(ctx, m, func(ctx context.Context, c *Client) (string, error) {
		return c.GetLatestBlockhash(ctx)
	})
}

func (m *EndpointManager) GetEpochInfo(ctx context.Context) (*ports.EpochInfo, error) {
	return route(ctx, m, func(ctx context.Context, c *Client) (*ports.EpochInfo, error) {
		return c.GetEpochInfo(ctx)
	})
}

// RecentBlockhash serves the short-TTL cached blockhash, refreshing it from
// the active pool on a miss. Cache failures are non-fatal.
func (m *EndpointManager) RecentBlockhash(ctx context.Context) (string, error) {
	if hash, err := m.cache.Get(ctx); err != nil {
		m.logger.Warn().Err(err).Msg("blockhash cache read failed")
	} else if hash != "" {
		return hash, nil
	}

	hash, err := m.GetLatestBlockhash(ctx)
	if err != nil {
		return "", err
	}

	if err := m.cache.Set(ctx, hash, m.cfg.BlockhashTTL); err != nil {
		m.logger.Warn().Err(err).Msg("blockhash cache write failed")
	}
	return hash, nil
}
