package pkmgo

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/pkmgo/config"
	"github.com/hupe1980/pkmgo/knn"
	"github.com/hupe1980/pkmgo/knn/dense"
	"github.com/hupe1980/pkmgo/mat32"
)

func TestProbeBackendDenseForced(t *testing.T) {
	cfg := config.Default()
	cfg.Backend = config.BackendDense

	backend := probeBackend(&cfg, NoopLogger())
	require.NotNil(t, backend)
	assert.Equal(t, "DenseMatrixTopK", backend.Name())
}

func TestProbeBackendAuto(t *testing.T) {
	cfg := config.Default()

	// Whatever the probe finds, the result must be usable.
	backend := probeBackend(&cfg, NoopLogger())
	require.NotNil(t, backend)
	assert.NotEmpty(t, backend.Name())
}

func TestLogBackendSelectFallback(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(slog.NewTextHandler(&buf, nil))

	logger.LogBackendSelect("DenseMatrixTopK", true)
	assert.Contains(t, buf.String(), "unavailable")

	buf.Reset()
	logger.LogBackendSelect("DenseMatrixTopK", false)
	assert.NotContains(t, buf.String(), "unavailable")
}

func TestRetrieveLogsCarryHeadAndBackend(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	r, err := New(8, 4,
		WithSeed(1),
		WithBackend(dense.New()),
		WithLogger(logger),
	)
	require.NoError(t, err)

	queries, err := mat32.New(1, 8)
	require.NoError(t, err)
	_, err = r.Retrieve(context.Background(), queries, 2, 2, 2, knn.DistanceDotProduct)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "head=0")
	assert.Contains(t, out, "backend=DenseMatrixTopK")
	assert.Contains(t, out, "retrieve completed")
}

func TestLoggerFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.LogFormat = "json"
	cfg.LogLevel = "debug"

	logger := LoggerFromConfig(&cfg)
	require.NotNil(t, logger)
	assert.True(t, logger.Enabled(nil, slog.LevelDebug))
}
