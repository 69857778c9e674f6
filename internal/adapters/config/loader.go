// Package config loads scribe.yaml.
package config

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"slices"

	"go.trai.ch/scribe/internal/core/domain"
	"go.trai.ch/scribe/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

type pathKey struct{}

// WithPath returns a context carrying an explicit config file path.
func WithPath(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, pathKey{}, path)
}

// ResolvePath returns the config path from ctx, then SCRIBE_CONFIG, then scribe.yaml.
func ResolvePath(ctx context.Context) string {
	if p, ok := ctx.Value(pathKey{}).(string); ok && p != "" {
		return p
	}
	if p := os.Getenv(domain.ConfigEnvVar); p != "" {
		return p
	}
	return domain.ConfigFileName
}

// Loader implements ports.ConfigLoader.
type Loader struct {
	logger ports.Logger
}

// NewLoader creates a new configuration loader.
func NewLoader(log ports.Logger) *Loader {
	return &Loader{logger: log}
}

// Load reads the configuration at path. A missing file yields the defaults.
func (l *Loader) Load(path string) (*domain.Config, error) {
	cfg := domain.DefaultConfig()

	data, err := os.ReadFile(path) //nolint:gosec // path is provided by the user
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", path)
	}

	file, err := l.decode(path, data)
	if err != nil {
		return nil, err
	}
	if err := apply(cfg, file); err != nil {
		return nil, zerr.With(err, "path", path)
	}
	return cfg, nil
}

// decode parses data strictly and falls back to a lenient parse with a
// warning when the file only has unknown keys.
func (l *Loader) decode(path string, data []byte) (*Scribefile, error) {
	var file Scribefile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	err := dec.Decode(&file)
	if err == nil || errors.Is(err, io.EOF) {
		return &file, nil
	}

	var lenient Scribefile
	if lerr := yaml.Unmarshal(data, &lenient); lerr != nil {
		return nil, zerr.With(zerr.Wrap(lerr, domain.ErrConfigParseFailed.Error()), "path", path)
	}
	l.logger.Warn(path + ": " + err.Error())
	return &lenient, nil
}

func apply(cfg *domain.Config, f *Scribefile) error {
	setString(&cfg.RPCURL, f.Network.RPC)
	setString(&cfg.Contract, f.Network.Contract)
	setString(&cfg.WalletURL, f.Wallet.Bridge)
	setString(&cfg.TokenEnv, f.Identity.TokenEnv)
	setString(&cfg.TokenFile, f.Identity.TokenFile)
	setString(&cfg.StateDir, f.Store.Dir)
	setString(&cfg.MetricsAddr, f.Metrics.Addr)
	cfg.JSONLogs = f.Log.JSON

	switch f.Store.Backend {
	case "":
	case domain.BackendSQLite, domain.BackendFiles:
		cfg.StoreBackend = f.Store.Backend
	default:
		return zerr.With(domain.ErrConfigParseFailed, "store.backend", f.Store.Backend)
	}

	if f.Deposit.CostPerByte != "" {
		cost, err := domain.ParseCostPerByte(f.Deposit.CostPerByte)
		if err != nil {
			return err
		}
		cfg.CostPerByte = cost
	}

	if len(f.Deposit.ExtraStorage) > 0 {
		menu := slices.Clone(f.Deposit.ExtraStorage)
		slices.Sort(menu)
		if menu[0] < 0 {
			return zerr.With(domain.ErrInvalidExtraStorage, "bytes", menu[0])
		}
		if menu[0] != 0 {
			menu = append([]int64{0}, menu...)
		}
		cfg.ExtraStorageOptions = slices.Compact(menu)
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
