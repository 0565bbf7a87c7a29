package ports

import "context"

// SignatureStatus is the confirmation state of one transaction signature.
type SignatureStatus struct {
	Slot               uint64
	Confirmations      *uint64
	ConfirmationStatus string // "processed", "confirmed", "finalized"
	Err                any    // non-nil when the transaction failed on chain
}

// AccountInfo is the subset of account state the monitor inspects.
type AccountInfo struct {
	Lamports uint64
	Owner    string
	Data     []byte
}

// VoteAccount describes one validator vote account.
type VoteAccount struct {
	VotePubkey     string
	NodePubkey     string
	ActivatedStake uint64
	LastVote       uint64
	Commission     int
}

// VoteAccounts splits validators into current and delinquent sets.
type VoteAccounts struct {
	Current    []VoteAccount
	Delinquent []VoteAccount
}

// EpochInfo is the subset of epoch state used for delinquency estimation.
type EpochInfo struct {
	Epoch        uint64
	SlotIndex    uint64
	SlotsInEpoch uint64
	AbsoluteSlot uint64
}

// SolanaClient abstracts the JSON-RPC surface the monitor and endpoint
// manager depend on.
type SolanaClient interface {
	GetHealth(ctx context.Context) error
	GetSignatureStatus(ctx context.Context, signature string) (*SignatureStatus, error)
	GetAccountInfo(ctx context.Context, address string) (*AccountInfo, error)
	GetVoteAccounts(ctx context.Context) (*VoteAccounts, error)
	GetLatestBlockhash(ctx context.Context) (string, error)
	GetEpochInfo(ctx context.Context) (*EpochInfo, error)
}

// RPCProvider hands out a usable client, transparently failing over between
// endpoint pools. GetLatestBlockhash consults a short-TTL cache first.
type RPCProvider interface {
	ConnectionProvider
	Client() SolanaClient
	RecentBlockhash(ctx context.Context) (string, error)
}
