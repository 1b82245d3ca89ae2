package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// TokenService is the value-transfer capability the ledger delegates all
// fund movement to. Implementations must report failure synchronously;
// the engine treats any error as "no funds moved".
type TokenService interface {
	// TransferInto pulls amount from the holder's balance into ledger
	// custody. Requires prior authorization by the holder on the token
	// side.
	TransferInto(ctx context.Context, from string, amount uint64) error
	// TransferOut pushes amount from ledger custody to the recipient.
	TransferOut(ctx context.Context, to string, amount uint64) error
	// BalanceOf is a read-only query. The engine never bases decisions
	// on it; it exists for observers and tests.
	BalanceOf(ctx context.Context, address string) (uint64, error)
	// CanisterID identifies the bound token instance.
	CanisterID() string
}

// TokenClient talks to the fungible token canister over its HTTP call
// interface.
type TokenClient struct {
	client   *http.Client
	endpoint string
	canister string
}

func NewTokenClient(host, canisterID string) *TokenClient {
	return &TokenClient{
		client:   &http.Client{},
		endpoint: host,
		canister: canisterID,
	}
}

func (s *TokenClient) CanisterID() string {
	return s.canister
}

func (s *TokenClient) TransferInto(ctx context.Context, from string, amount uint64) error {
	payload := map[string]interface{}{
		"method": "transfer_from",
		"args": map[string]interface{}{
			"from":   from,
			"amount": amount,
		},
	}

	_, err := s.callCanister(ctx, payload)
	return err
}

func (s *TokenClient) TransferOut(ctx context.Context, to string, amount uint64) error {
	payload := map[string]interface{}{
		"method": "transfer",
		"args": map[string]interface{}{
			"to":     to,
			"amount": amount,
		},
	}

	_, err := s.callCanister(ctx, payload)
	return err
}

func (s *TokenClient) BalanceOf(ctx context.Context, address string) (uint64, error) {
	payload := map[string]interface{}{
		"method": "balance_of",
		"args": map[string]interface{}{
			"address": address,
		},
	}

	body, err := s.callCanister(ctx, payload)
	if err != nil {
		return 0, err
	}

	var result struct {
		Balance uint64 `json:"balance"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return 0, fmt.Errorf("failed to decode balance response: %w", err)
	}

	return result.Balance, nil
}

func (s *TokenClient) callCanister(ctx context.Context, payload map[string]interface{}) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	url := fmt.Sprintf("%s/api/v2/canister/%s/call", s.endpoint, s.canister)

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("canister call failed with status: %d", resp.StatusCode)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	return buf.Bytes(), nil
}
