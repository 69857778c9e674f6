package wallet_test

import (
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/scribe/internal/adapters/wallet"
	"go.trai.ch/scribe/internal/core/domain"
)

type received struct {
	ID       string         `json:"id"`
	Contract string         `json:"contract"`
	Method   string         `json:"method"`
	Args     map[string]any `json:"args"`
	Deposit  string         `json:"deposit"`
}

// fakeWallet answers each sign request with the reply built by answer.
func fakeWallet(t *testing.T, answer func(received) []map[string]any) string {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer func() { _ = conn.Close() }()

		var req received
		if err := conn.ReadJSON(&req); err != nil {
			return
		}
		for _, msg := range answer(req) {
			if err := conn.WriteJSON(msg); err != nil {
				return
			}
		}
		// Hold the connection until the client hangs up.
		_, _, _ = conn.ReadMessage()
	}))
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestBridge_Submit(t *testing.T) {
	requests := make(chan received, 1)
	url := fakeWallet(t, func(req received) []map[string]any {
		requests <- req
		return []map[string]any{
			{"id": "someone-else", "tx_hash": "ignored"},
			{"id": req.ID, "tx_hash": "9xQ"},
		}
	})

	payload := domain.Tree{"alice.near": domain.Tree{"widget": domain.Tree{"Counter": domain.Tree{"": "return 1;"}}}}
	res, err := wallet.NewBridge(url, "social.near").Submit(t.Context(), payload, big.NewInt(5000))
	require.NoError(t, err)

	assert.Equal(t, "9xQ", res.Hash)
	got := <-requests
	assert.NotEmpty(t, got.ID)
	assert.Equal(t, "social.near", got.Contract)
	assert.Equal(t, "set", got.Method)
	assert.Equal(t, "5000", got.Deposit)
	assert.Equal(t, map[string]any{"alice.near": map[string]any{"widget": map[string]any{"Counter": map[string]any{"": "return 1;"}}}}, got.Args["data"])
}

func TestBridge_Rejected(t *testing.T) {
	url := fakeWallet(t, func(req received) []map[string]any {
		return []map[string]any{{"id": req.ID, "error": "user denied"}}
	})

	_, err := wallet.NewBridge(url, "social.near").Submit(t.Context(), domain.Tree{}, nil)
	require.ErrorContains(t, err, domain.ErrWalletRejected.Error())
}

func TestBridge_Unavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	srv.Close()

	_, err := wallet.NewBridge(url, "social.near").Submit(t.Context(), domain.Tree{}, big.NewInt(0))
	require.ErrorContains(t, err, domain.ErrWalletUnavailable.Error())
}

func TestBridge_ApprovalTimeout(t *testing.T) {
	url := fakeWallet(t, func(received) []map[string]any { return nil })

	bridge := wallet.NewBridge(url, "social.near").WithApprovalTimeout(50 * time.Millisecond)
	_, err := bridge.Submit(t.Context(), domain.Tree{}, big.NewInt(0))
	require.ErrorContains(t, err, domain.ErrWalletUnavailable.Error())
}
