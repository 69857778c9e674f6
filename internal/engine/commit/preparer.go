// Package commit prepares registry writes and drives them through
// confirmation, submission and settlement.
package commit

import (
	"context"
	"math/big"
	"strconv"
	"sync"

	"go.trai.ch/scribe/internal/core/domain"
	"go.trai.ch/scribe/internal/core/ports"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// Preparer diffs a desired artifact value against remote state and sizes
// the deposit. It never writes to the remote registry.
type Preparer struct {
	remote      ports.RemoteReader
	costPerByte *big.Int

	group singleflight.Group

	mu   sync.Mutex
	memo map[string]domain.PreparedCommit
}

// NewPreparer creates a preparer reading through remote.
func NewPreparer(remote ports.RemoteReader, costPerByte *big.Int) *Preparer {
	if costPerByte == nil {
		costPerByte = domain.DefaultCostPerByte()
	}
	return &Preparer{
		remote:      remote,
		costPerByte: costPerByte,
		memo:        make(map[string]domain.PreparedCommit),
	}
}

// CostPerByte returns the storage price used for deposits.
func (p *Preparer) CostPerByte() *big.Int {
	return new(big.Int).Set(p.costPerByte)
}

// Prepare computes the commit needed to make key hold value.
// Unless force is set, a value identical to the last one prepared for key
// is answered from memory without contacting the remote registry.
func (p *Preparer) Prepare(
	ctx context.Context,
	key domain.RemoteKey,
	value domain.ArtifactValue,
	force bool,
) (domain.PreparedCommit, error) {
	desired := value.Tree()
	fp, err := domain.Fingerprint(desired)
	if err != nil {
		return domain.PreparedCommit{}, err
	}

	if !force {
		if prev, ok := p.memoized(key, fp); ok {
			return prev, nil
		}
	}

	flightKey := key.String() + "#" + strconv.FormatUint(fp, 16)
	v, err, _ := p.group.Do(flightKey, func() (any, error) {
		return p.prepare(ctx, key, desired, fp)
	})
	if err != nil {
		return domain.PreparedCommit{}, err
	}
	prepared, _ := v.(domain.PreparedCommit)

	p.mu.Lock()
	p.memo[key.String()] = prepared
	p.mu.Unlock()
	return prepared, nil
}

// Forget drops the memoized preparation for key.
func (p *Preparer) Forget(key domain.RemoteKey) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.memo, key.String())
}

func (p *Preparer) memoized(key domain.RemoteKey, fp uint64) (domain.PreparedCommit, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	prev, ok := p.memo[key.String()]
	if !ok || prev.Fingerprint != fp {
		return domain.PreparedCommit{}, false
	}
	prev.Memoized = true
	return prev, true
}

func (p *Preparer) prepare(
	ctx context.Context,
	key domain.RemoteKey,
	desired domain.Tree,
	fp uint64,
) (domain.PreparedCommit, error) {
	var (
		current domain.Tree
		funded  int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		tree, _, err := p.remote.FetchValue(gctx, key)
		current = tree
		return err
	})
	g.Go(func() error {
		n, err := p.remote.FetchBalance(gctx, key.Account)
		funded = n
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.PreparedCommit{}, err
	}

	prepared := domain.PreparedCommit{
		Key:             key,
		FundedBytes:     funded,
		RequiredDeposit: new(big.Int),
		Fingerprint:     fp,
	}

	diff := domain.Diff(current, desired)
	if diff == nil {
		prepared.IsNoop = true
		return prepared, nil
	}

	prepared.Payload = key.Document(diff)
	size, err := domain.ByteSize(prepared.Payload)
	if err != nil {
		return domain.PreparedCommit{}, err
	}
	prepared.PayloadBytes = size
	prepared.RequiredDeposit = domain.RequiredDeposit(size, funded, p.costPerByte)
	return prepared, nil
}
