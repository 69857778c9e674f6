package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/scribe/internal/adapters/logger"
	"go.trai.ch/scribe/internal/core/domain"
	"go.trai.ch/zerr"
)

func newLogger(t *testing.T) (*logger.Logger, *bytes.Buffer) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")
	buf := &bytes.Buffer{}
	lg := logger.New()
	lg.SetOutput(buf)
	return lg, buf
}

func TestLogger_Levels(t *testing.T) {
	lg, buf := newLogger(t)

	lg.Info("opened widget/Feed")
	lg.Warn("draft store is running in memory only")

	assert.Equal(t, "opened widget/Feed\n! draft store is running in memory only\n", buf.String())
}

func TestLogger_ErrorChain(t *testing.T) {
	lg, buf := newLogger(t)

	err := zerr.Wrap(errors.New("connection refused"), domain.ErrRemoteRequestFailed.Error())
	lg.Error(err)

	want := "✗ Error: failed to query remote node\n\n  Caused by:\n    → connection refused\n"
	assert.Equal(t, want, buf.String())
}

func TestLogger_ErrorNil(t *testing.T) {
	lg, buf := newLogger(t)
	lg.Error(nil)
	assert.Empty(t, buf.String())
}

func TestLogger_JSON(t *testing.T) {
	lg, buf := newLogger(t)
	lg.SetJSON(true)

	lg.Error(zerr.Wrap(errors.New("boom"), "outer"))

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "ERROR", rec["level"])
	assert.Equal(t, "outer: boom", rec["error"])
}

func TestFormatError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "plain",
			err:  errors.New("boom"),
			want: "Error: boom",
		},
		{
			name: "sentinel with metadata",
			err:  zerr.With(domain.ErrPathNotOpen, "path", "widget/x"),
			want: "Error: file is not open",
		},
		{
			name: "multi-line cause",
			err:  zerr.Wrap(errors.New("line one\nline two"), "outer"),
			want: "Error: outer\n\n  Caused by:\n    → line one\n      line two",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, logger.FormatError(tt.err))
		})
	}
}

func TestJSONFromContext(t *testing.T) {
	assert.False(t, logger.JSONFromContext(context.Background()))
	assert.True(t, logger.JSONFromContext(logger.WithJSON(context.Background(), true)))
}
