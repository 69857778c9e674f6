// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/scribe/internal/adapters/config"
	_ "go.trai.ch/scribe/internal/adapters/identity"
	_ "go.trai.ch/scribe/internal/adapters/logger"
	_ "go.trai.ch/scribe/internal/adapters/metrics"
	_ "go.trai.ch/scribe/internal/adapters/persistence"
	_ "go.trai.ch/scribe/internal/adapters/rpc"
	_ "go.trai.ch/scribe/internal/adapters/telemetry"
	_ "go.trai.ch/scribe/internal/adapters/wallet"
	_ "go.trai.ch/scribe/internal/adapters/watcher"
	// Register app and engine nodes.
	_ "go.trai.ch/scribe/internal/app"
	_ "go.trai.ch/scribe/internal/engine/commit"
	_ "go.trai.ch/scribe/internal/engine/drafts"
	_ "go.trai.ch/scribe/internal/engine/registry"
)
