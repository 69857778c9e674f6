package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/scribe/internal/adapters/config"
	"go.trai.ch/scribe/internal/adapters/logger"
	"go.trai.ch/scribe/internal/adapters/telemetry"
	"go.trai.ch/scribe/internal/app"
	"go.trai.ch/scribe/internal/core/domain"
	"go.trai.ch/scribe/internal/core/ports/mocks"
	"go.trai.ch/scribe/internal/engine/commit"
	"go.trai.ch/scribe/internal/engine/drafts"
	"go.trai.ch/scribe/internal/engine/registry"
	"go.uber.org/mock/gomock"
)

// newApp builds an App on an in-memory draft store.
func newApp(ctrl *gomock.Controller, log *mocks.MockLogger) *app.App {
	ident := mocks.NewMockIdentityProvider(ctrl)
	ident.EXPECT().AccountID().Return("", false).AnyTimes()
	remote := mocks.NewMockRemoteReader(ctrl)

	store := drafts.NewStore(nil, log)
	exec := commit.NewExecutor(
		commit.NewPreparer(remote, domain.DefaultCostPerByte()),
		mocks.NewMockTransactionSubmitter(ctrl),
		ident,
		store,
		commit.NewPermissionSet(),
		telemetry.NewNoOpTracer(),
		mocks.NewMockCommitMetrics(ctrl),
		log,
	)
	return app.New(store, registry.New(store), exec, remote, ident, mocks.NewMockSourceWatcher(ctrl), log)
}

// TestRun_Success verifies that the run function returns 0 when the command succeeds.
func TestRun_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)

	cleaned := false
	provider := func(_ context.Context) (*app.Components, func(), error) {
		return &app.Components{
			App:    newApp(ctrl, mockLogger),
			Logger: mockLogger,
		}, func() { cleaned = true }, nil
	}

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, stderr, provider)
	assert.Equal(t, 0, exitCode)
	assert.True(t, cleaned)
}

// TestRun_InitializationError verifies that run returns 1 when component initialization fails.
func TestRun_InitializationError(t *testing.T) {
	provider := func(_ context.Context) (*app.Components, func(), error) {
		return nil, nil, errors.New("init failed")
	}

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, stderr, provider)

	assert.Equal(t, 1, exitCode)
	assert.Contains(t, stderr.String(), "Error: init failed")
}

// TestRun_ExecutionError verifies that run returns 1 and logs when the command fails.
func TestRun_ExecutionError(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Info(gomock.Any()).AnyTimes()
	mockLogger.EXPECT().Warn(gomock.Any()).AnyTimes()
	mockLogger.EXPECT().Error(gomock.Any()).Times(1)

	provider := func(_ context.Context) (*app.Components, func(), error) {
		return &app.Components{
			App:    newApp(ctrl, mockLogger),
			Logger: mockLogger,
		}, func() {}, nil
	}

	exitCode := run(context.Background(), []string{"close", "Missing"}, new(bytes.Buffer), provider)
	assert.Equal(t, 1, exitCode)
}

func TestWithGlobalFlags(t *testing.T) {
	t.Setenv(domain.ConfigEnvVar, "")

	ctx := withGlobalFlags(context.Background(), []string{"commit", "x", "--kind", "module", "--config", "ci.yaml", "--json", "--yes"})
	assert.Equal(t, "ci.yaml", config.ResolvePath(ctx))
	assert.True(t, logger.JSONFromContext(ctx))

	ctx = withGlobalFlags(context.Background(), []string{"ls"})
	assert.Equal(t, domain.ConfigFileName, config.ResolvePath(ctx))
	assert.False(t, logger.JSONFromContext(ctx))
}
