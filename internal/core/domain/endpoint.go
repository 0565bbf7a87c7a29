package domain

import "time"

// EndpointHealth is the observed status of one upstream RPC endpoint.
// One instance exists per configured endpoint for the lifetime of the process.
type EndpointHealth struct {
	URL                 string     `json:"url"`
	Healthy             bool       `json:"healthy"`
	ConsecutiveFailures int        `json:"consecutive_failures"`
	AvgLatencyMs        float64    `json:"avg_latency_ms"`
	LastCheckedAt       *time.Time `json:"last_checked_at,omitempty"`
	LastError           *string    `json:"last_error,omitempty"`
}

// RecordSuccess applies a successful probe. A single good probe restores
// health. Latency feeds a coarse moving average: new = (old+sample)/2.
func (e *EndpointHealth) RecordSuccess(latency time.Duration, now time.Time) {
	sample := float64(latency.Milliseconds())
	if e.AvgLatencyMs == 0 {
		e.AvgLatencyMs = sample
	} else {
		e.AvgLatencyMs = (e.AvgLatencyMs + sample) / 2
	}
	e.ConsecutiveFailures = 0
	e.Healthy = true
	e.LastCheckedAt = &now
	e.LastError = nil
}

// RecordFailure applies a failed probe. The endpoint turns unhealthy only
// after ConsecutiveFailures reaches threshold.
func (e *EndpointHealth) RecordFailure(err error, threshold int, now time.Time) {
	e.ConsecutiveFailures++
	if e.ConsecutiveFailures >= threshold {
		e.Healthy = false
	}
	e.LastCheckedAt = &now
	msg := err.Error()
	e.LastError = &msg
}
