// Package wallet submits commit transactions through a local wallet signing bridge.
package wallet

import (
	"context"
	"errors"
	"math/big"
	"time"

	"github.com/gorilla/websocket"
	"github.com/oklog/ulid/v2"
	"go.trai.ch/scribe/internal/core/domain"
	"go.trai.ch/scribe/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	// DefaultApprovalTimeout bounds how long the author may take to approve a transaction.
	DefaultApprovalTimeout = 5 * time.Minute

	handshakeTimeout = 10 * time.Second
	writeTimeout     = 10 * time.Second
)

var _ ports.TransactionSubmitter = (*Bridge)(nil)

// Bridge implements ports.TransactionSubmitter over a websocket to a wallet
// that signs and broadcasts the registry "set" call.
type Bridge struct {
	url             string
	contract        string
	dialer          *websocket.Dialer
	approvalTimeout time.Duration
}

// NewBridge creates a bridge for the wallet listening at url.
func NewBridge(url, contract string) *Bridge {
	return &Bridge{
		url:             url,
		contract:        contract,
		dialer:          &websocket.Dialer{HandshakeTimeout: handshakeTimeout},
		approvalTimeout: DefaultApprovalTimeout,
	}
}

// WithApprovalTimeout overrides the approval timeout.
func (b *Bridge) WithApprovalTimeout(d time.Duration) *Bridge {
	b.approvalTimeout = d
	return b
}

type signRequest struct {
	ID       string         `json:"id"`
	Contract string         `json:"contract"`
	Method   string         `json:"method"`
	Args     map[string]any `json:"args"`
	Deposit  string         `json:"deposit"`
}

type signResponse struct {
	ID     string `json:"id"`
	TxHash string `json:"tx_hash"`
	Error  string `json:"error"`
}

// Submit implements ports.TransactionSubmitter. It blocks until the wallet
// answers, the approval timeout elapses or ctx is done.
func (b *Bridge) Submit(ctx context.Context, payload domain.Tree, deposit *big.Int) (domain.TransactionResult, error) {
	if deposit == nil {
		deposit = new(big.Int)
	}

	ctx, cancel := context.WithTimeout(ctx, b.approvalTimeout)
	defer cancel()

	conn, _, err := b.dialer.DialContext(ctx, b.url, nil)
	if err != nil {
		return domain.TransactionResult{}, zerr.With(zerr.Wrap(err, domain.ErrWalletUnavailable.Error()), "url", b.url)
	}
	defer func() { _ = conn.Close() }()

	// Closing the connection unblocks the pending read.
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	req := signRequest{
		ID:       ulid.Make().String(),
		Contract: b.contract,
		Method:   "set",
		Args:     map[string]any{"data": payload},
		Deposit:  deposit.String(),
	}

	_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := conn.WriteJSON(req); err != nil {
		return domain.TransactionResult{}, zerr.Wrap(err, domain.ErrWalletUnavailable.Error())
	}

	for {
		var resp signResponse
		if err := conn.ReadJSON(&resp); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				err = errors.Join(ctxErr, err)
			}
			return domain.TransactionResult{}, zerr.Wrap(err, domain.ErrWalletUnavailable.Error())
		}
		if resp.ID != req.ID {
			continue
		}
		if resp.Error != "" {
			return domain.TransactionResult{}, zerr.With(domain.ErrWalletRejected, "reason", resp.Error)
		}
		return domain.TransactionResult{Hash: resp.TxHash}, nil
	}
}
