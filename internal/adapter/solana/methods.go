package solana

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Devour6/agent-staking-api-sub000/internal/core/ports"
)

// GetHealth reports whether the node considers itself healthy. A healthy
// node answers the literal string "ok"; anything else is an error.
func (c *Client) GetHealth(ctx context.Context) error {
	result, err := c.call(ctx, "getHealth", nil)
	if err != nil {
		return fmt.Errorf("getHealth: %w", err)
	}

	var status string
	if err := json.Unmarshal(result, &status); err != nil {
		return fmt.Errorf("unmarshal health: %w", err)
	}
	if status != "ok" {
		return fmt.Errorf("getHealth: node reported %q", status)
	}
	return nil
}

// GetSignatureStatus returns the confirmation state of one signature, or
// nil when the cluster has no record of it yet.
func (c *Client) GetSignatureStatus(ctx context.Context, signature string) (*ports.SignatureStatus, error) {
	params := []any{
		[]string{signature},
		map[string]bool{"searchTransactionHistory": true},
	}
	result, err := c.call(ctx, "getSignatureStatuses", params)
	if err != nil {
		return nil, fmt.Errorf("getSignatureStatuses: %w", err)
	}

	var envelope rpcEnvelope
	if err := json.Unmarshal(result, &envelope); err != nil {
		return nil, fmt.Errorf("unmarshal envelope: %w", err)
	}

	var values []*signatureStatusValue
	if err := json.Unmarshal(envelope.Value, &values); err != nil {
		return nil, fmt.Errorf("unmarshal statuses: %w", err)
	}
	if len(values) == 0 || values[0] == nil {
		return nil, nil
	}

	v := values[0]
	return &ports.SignatureStatus{
		Slot:               v.Slot,
		Confirmations:      v.Confirmations,
		ConfirmationStatus: v.ConfirmationStatus,
		Err:                v.Err,
	}, nil
}

// GetAccountInfo fetches an account with base64-encoded data, or nil when
// the account does not exist.
func (c *Client) GetAccountInfo(ctx context.Context, address string) (*ports.AccountInfo, error) {
	params := []any{
		address,
		map[string]string{"encoding": "base64"},
	}
	result, err := c.call(ctx, "getAccountInfo", params)
	if err != nil {
		return nil, fmt.Errorf("getAccountInfo(%s): %w", address, err)
	}

	var envelope rpcEnvelope
	if err := json.Unmarshal(result, &envelope); err != nil {
		return nil, fmt.Errorf("unmarshal envelope: %w", err)
	}
	if string(envelope.Value) == "null" || len(envelope.Value) == 0 {
		return nil, nil
	}

	var v accountInfoValue
	if err := json.Unmarshal(envelope.Value, &v); err != nil {
		return nil, fmt.Errorf("unmarshal account: %w", err)
	}

	var data []byte
	if len(v.Data) > 0 && v.Data[0] != "" {
		data, err = base64.StdEncoding.DecodeString(v.Data[0])
		if err != nil {
			return nil, fmt.Errorf("decode account data: %w", err)
		}
	}

	return &ports.AccountInfo{
		Lamports: v.Lamports,
		Owner:    v.Owner,
		Data:     data,
	}, nil
}

// GetVoteAccounts returns the current and delinquent validator sets.
func (c *Client) GetVoteAccounts(ctx context.Context) (*ports.VoteAccounts, error) {
	result, err := c.call(ctx, "getVoteAccounts", nil)
	if err != nil {
		return nil, fmt.Errorf("getVoteAccounts: %w", err)
	}

	var raw voteAccountsResult
	if err := json.Unmarshal(result, &raw); err != nil {
		return nil, fmt.Errorf("unmarshal vote accounts: %w", err)
	}

	return &ports.VoteAccounts{
		Current:    convertVoteAccounts(raw.Current),
		Delinquent: convertVoteAccounts(raw.Delinquent),
	}, nil
}

func convertVoteAccounts(entries []voteAccountEntry) []ports.VoteAccount {
	out := make([]ports.VoteAccount, len(entries))
	for i, e := range entries {
		out[i] = ports.VoteAccount{
			VotePubkey:     e.VotePubkey,
			NodePubkey:     e.NodePubkey,
			ActivatedStake: e.ActivatedStake,
			LastVote:       e.LastVote,
			Commission:     e.Commission,
		}
	}
	return out
}

// GetLatestBlockhash returns a fresh blockhash under finalized commitment.
func (c *Client) GetLatestBlockhash(ctx context.Context) (string, error) {
	params := []any{
		map[string]string{"commitment": "finalized"},
	}
	result, err := c.call(ctx, "getLatestBlockhash", params)
	if err != nil {
		return "", fmt.Errorf("getLatestBlockhash: %w", err)
	}

	var envelope rpcEnvelope
	if err := json.Unmarshal(result, &envelope); err != nil {
		return "", fmt.Errorf("unmarshal envelope: %w", err)
	}

	var v latestBlockhashValue
	if err := json.Unmarshal(envelope.Value, &v); err != nil {
		return "", fmt.Errorf("unmarshal blockhash: %w", err)
	}
	if v.Blockhash == "" {
		return "", errors.New("getLatestBlockhash: empty blockhash")
	}
	return v.Blockhash, nil
}

// GetEpochInfo returns the cluster's current epoch progress.
func (c *Client) GetEpochInfo(ctx context.Context) (*ports.EpochInfo, error) {
	result, err := c.call(ctx, "getEpochInfo", nil)
	if err != nil {
		return nil, fmt.Errorf("getEpochInfo: %w", err)
	}

	var raw epochInfoResult
	if err := json.Unmarshal(result, &raw); err != nil {
		return nil, fmt.Errorf("unmarshal epoch info: %w", err)
	}

	return &ports.EpochInfo{
		Epoch:        raw.Epoch,
		SlotIndex:    raw.SlotIndex,
		SlotsInEpoch: raw.SlotsInEpoch,
		AbsoluteSlot: raw.AbsoluteSlot,
	}, nil
}
