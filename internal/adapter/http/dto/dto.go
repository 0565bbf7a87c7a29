package dto

// TrackStakeRequest is the request body for submitting a stake transaction
// for lifecycle tracking.
type TrackStakeRequest struct {
	TxSignature  string `json:"tx_signature" binding:"required,solana_sig"`
	StakeAccount string `json:"stake_account" binding:"required,base58_key"`
	Owner        string `json:"owner" binding:"required,base58_key"`
	Validator    string `json:"validator" binding:"required,base58_key"`
	Lamports     uint64 `json:"lamports" binding:"required"`
}

// TrackStakeResponse is the response body for a newly tracked submission.
type TrackStakeResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// SubmissionResponse is the response body for a tracked submission lookup.
type SubmissionResponse struct {
	ID            string  `json:"id"`
	TxSignature   string  `json:"tx_signature"`
	StakeAccount  string  `json:"stake_account"`
	Owner         string  `json:"owner"`
	Validator     string  `json:"validator"`
	Lamports      uint64  `json:"lamports"`
	Status        string  `json:"status"`
	CreatedAt     string  `json:"created_at"`
	ConfirmedAt   *string `json:"confirmed_at,omitempty"`
	ActivatedAt   *string `json:"activated_at,omitempty"`
	LastCheckedAt *string `json:"last_checked_at,omitempty"`
}

// RegisterWebhookRequest is the request body for webhook subscription
// registration. Target URL validation beyond the https scheme happens in
// the service layer.
type RegisterWebhookRequest struct {
	TargetURL  string   `json:"target_url" binding:"required,max=2048"`
	EventTypes []string `json:"event_types" binding:"required,min=1"`
}

// RegisterWebhookResponse carries the signing secret. It is shown exactly
// once; only an encrypted copy is stored.
type RegisterWebhookResponse struct {
	ID     string `json:"id"`
	Secret string `json:"secret"`
}

// WebhookResponse is the response body for subscription listings.
type WebhookResponse struct {
	ID                  string   `json:"id"`
	TargetURL           string   `json:"target_url"`
	EventTypes          []string `json:"event_types"`
	Active              bool     `json:"active"`
	ConsecutiveFailures int      `json:"consecutive_failures"`
	LastDeliveryAt      *string  `json:"last_delivery_at,omitempty"`
	CreatedAt           string   `json:"created_at"`
}

// DeliveryResponse is the response body for delivery history entries.
type DeliveryResponse struct {
	ID          string  `json:"id"`
	EventType   string  `json:"event_type"`
	Attempt     int     `json:"attempt"`
	Status      string  `json:"status"`
	HTTPStatus  *int    `json:"http_status,omitempty"`
	LastError   *string `json:"last_error,omitempty"`
	CreatedAt   string  `json:"created_at"`
	DeliveredAt *string `json:"delivered_at,omitempty"`
	NextRetryAt *string `json:"next_retry_at,omitempty"`
}

// LoginRequest is the request body for operator login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse is the response body for successful login.
type LoginResponse struct {
	Token  string `json:"token"`
	Expiry int64  `json:"expiry"` // Unix timestamp
}
