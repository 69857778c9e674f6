// Package rpc reads the remote registry through a NEAR JSON-RPC node.
package rpc

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"go.trai.ch/scribe/internal/core/domain"
	"go.trai.ch/scribe/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/singleflight"
)

const (
	defaultTimeout = 15 * time.Second
	maxBodyBytes   = 8 << 20
)

var (
	_ ports.RemoteReader     = (*Client)(nil)
	_ ports.CacheInvalidator = (*Client)(nil)
)

// Client implements ports.RemoteReader against the registry contract.
// Artifact reads are cached until invalidated and concurrent reads of the same
// key share one request.
type Client struct {
	url      string
	contract string
	http     *http.Client

	group singleflight.Group

	mu    sync.RWMutex
	cache map[domain.RemoteKey]cachedValue
}

type cachedValue struct {
	tree  domain.Tree
	found bool
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client used for requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New creates a client for the node at url reading the given registry contract.
func New(url, contract string, opts ...Option) *Client {
	c := &Client{
		url:      url,
		contract: contract,
		http:     &http.Client{Timeout: defaultTimeout},
		cache:    make(map[domain.RemoteKey]cachedValue),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchValue implements ports.RemoteReader.
func (c *Client) FetchValue(ctx context.Context, key domain.RemoteKey) (domain.Tree, bool, error) {
	c.mu.RLock()
	cached, ok := c.cache[key]
	c.mu.RUnlock()
	if ok {
		return cached.tree, cached.found, nil
	}

	v, err, _ := c.group.Do("value:"+key.String(), func() (any, error) {
		var doc domain.Tree
		args := map[string]any{"keys": []string{key.String() + "/**"}}
		if err := c.view(ctx, "get", args, &doc); err != nil {
			return nil, err
		}
		cv := extract(doc, key)

		c.mu.Lock()
		c.cache[key] = cv
		c.mu.Unlock()
		return cv, nil
	})
	if err != nil {
		return nil, false, err
	}
	cv := v.(cachedValue)
	return cv.tree, cv.found, nil
}

// FetchBalance implements ports.RemoteReader. It returns the storage bytes the
// account has paid for and not yet used.
func (c *Client) FetchBalance(ctx context.Context, account string) (int64, error) {
	v, err, _ := c.group.Do("balance:"+account, func() (any, error) {
		var storage *struct {
			UsedBytes      int64 `json:"used_bytes"`
			AvailableBytes int64 `json:"available_bytes"`
		}
		if err := c.view(ctx, "get_account_storage", map[string]any{"account_id": account}, &storage); err != nil {
			return nil, err
		}
		if storage == nil {
			return int64(0), nil
		}
		return storage.AvailableBytes, nil
	})
	if err != nil {
		return 0, err
	}
	return v.(int64), nil
}

// Invalidate implements ports.CacheInvalidator.
func (c *Client) Invalidate(key domain.RemoteKey) {
	c.mu.Lock()
	delete(c.cache, key)
	c.mu.Unlock()
	c.group.Forget("value:" + key.String())
}

func extract(doc domain.Tree, key domain.RemoteKey) cachedValue {
	var node any = doc
	for _, part := range []string{key.Account, string(key.Kind), key.Name} {
		m, ok := node.(map[string]any)
		if !ok {
			return cachedValue{}
		}
		if node, ok = m[part]; !ok {
			return cachedValue{}
		}
	}
	switch v := node.(type) {
	case map[string]any:
		return cachedValue{tree: v, found: true}
	case string:
		return cachedValue{tree: domain.Tree{"": v}, found: true}
	default:
		return cachedValue{}
	}
}

type request struct {
	JSONRPC string         `json:"jsonrpc"`
	ID      string         `json:"id"`
	Method  string         `json:"method"`
	Params  map[string]any `json:"params"`
}

type response struct {
	Result *struct {
		// Result is the raw contract return value as a byte array.
		Result []int  `json:"result"`
		Error  string `json:"error"`
	} `json:"result"`
	Error *struct {
		Name    string `json:"name"`
		Message string `json:"message"`
		Data    any    `json:"data"`
	} `json:"error"`
}

// view calls a read-only contract method and decodes its JSON result into out.
func (c *Client) view(ctx context.Context, method string, args any, out any) error {
	rawArgs, err := json.Marshal(args)
	if err != nil {
		return zerr.Wrap(err, domain.ErrRemoteRequestFailed.Error())
	}
	body, err := json.Marshal(request{
		JSONRPC: "2.0",
		ID:      "scribe",
		Method:  "query",
		Params: map[string]any{
			"request_type": "call_function",
			"finality":     "final",
			"account_id":   c.contract,
			"method_name":  method,
			"args_base64":  base64.StdEncoding.EncodeToString(rawArgs),
		},
	})
	if err != nil {
		return zerr.Wrap(err, domain.ErrRemoteRequestFailed.Error())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return zerr.Wrap(err, domain.ErrRemoteRequestFailed.Error())
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrRemoteRequestFailed.Error()), "method", method)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("unexpected status %s", resp.Status)
		return zerr.With(zerr.Wrap(err, domain.ErrRemoteRequestFailed.Error()), "method", method)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return zerr.Wrap(err, domain.ErrRemoteRequestFailed.Error())
	}

	var r response
	if err := json.Unmarshal(data, &r); err != nil {
		return zerr.Wrap(err, domain.ErrRemoteParseFailed.Error())
	}
	switch {
	case r.Error != nil:
		err := fmt.Errorf("%s: %s", r.Error.Name, r.Error.Message)
		return zerr.With(zerr.Wrap(err, domain.ErrRemoteRequestFailed.Error()), "method", method)
	case r.Result == nil:
		return zerr.With(domain.ErrRemoteParseFailed, "method", method)
	case r.Result.Error != "":
		err := fmt.Errorf("%s", r.Result.Error)
		return zerr.With(zerr.Wrap(err, domain.ErrRemoteRequestFailed.Error()), "method", method)
	}

	raw := make([]byte, len(r.Result.Result))
	for i, b := range r.Result.Result {
		raw[i] = byte(b)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrRemoteParseFailed.Error()), "method", method)
	}
	return nil
}
