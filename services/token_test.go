package services_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"earlywage/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type canisterCall struct {
	Method string                 `json:"method"`
	Args   map[string]interface{} `json:"args"`
}

func TestTokenClientTransfers(t *testing.T) {
	var lastCall canisterCall
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v2/canister/token-1/call", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&lastCall))
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := services.NewTokenClient(server.URL, "token-1")
	assert.Equal(t, "token-1", client.CanisterID())

	t.Run("TransferInto", func(t *testing.T) {
		err := client.TransferInto(context.Background(), "0xacme", 500)
		require.NoError(t, err)
		assert.Equal(t, "transfer_from", lastCall.Method)
		assert.Equal(t, "0xacme", lastCall.Args["from"])
		assert.Equal(t, float64(500), lastCall.Args["amount"])
	})

	t.Run("TransferOut", func(t *testing.T) {
		err := client.TransferOut(context.Background(), "0xalice", 49)
		require.NoError(t, err)
		assert.Equal(t, "transfer", lastCall.Method)
		assert.Equal(t, "0xalice", lastCall.Args["to"])
	})
}

func TestTokenClientBalanceOf(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var call canisterCall
		require.NoError(t, json.NewDecoder(r.Body).Decode(&call))
		assert.Equal(t, "balance_of", call.Method)
		w.Write([]byte(`{"balance": 1234}`))
	}))
	defer server.Close()

	client := services.NewTokenClient(server.URL, "token-1")
	balance, err := client.BalanceOf(context.Background(), "0xacme")
	require.NoError(t, err)
	assert.Equal(t, uint64(1234), balance)
}

func TestTokenClientRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "insufficient allowance", http.StatusConflict)
	}))
	defer server.Close()

	client := services.NewTokenClient(server.URL, "token-1")
	err := client.TransferInto(context.Background(), "0xacme", 500)
	assert.Error(t, err)

	_, err = client.BalanceOf(context.Background(), "0xacme")
	assert.Error(t, err)
}
