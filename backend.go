package pkmgo

import (
	"sync"

	"github.com/hupe1980/pkmgo/config"
	"github.com/hupe1980/pkmgo/knn"
	"github.com/hupe1980/pkmgo/knn/dense"
	"github.com/hupe1980/pkmgo/knn/native"
)

// Backend selection is a process-wide, one-time decision: the capability
// probe runs at first use and the chosen variant is never revisited.
var (
	selectOnce      sync.Once
	selectedBackend knn.Backend
)

// SelectBackend chooses the search backend once per process. With
// config.BackendAuto (or BackendNative) it probes for the native library and
// an accelerator; absence is not an error, it selects the dense fallback and
// emits a single diagnostic line. The native variant is returned wrapped in
// knn.Serialized because its shared device resources permit only one
// in-flight call.
//
// The first call fixes the choice; later calls return the same backend
// regardless of their arguments.
func SelectBackend(cfg *config.Config, logger *Logger) knn.Backend {
	selectOnce.Do(func() {
		if cfg == nil {
			defaults := config.Default()
			cfg = &defaults
		}
		if logger == nil {
			logger = NewLogger(nil)
		}
		selectedBackend = probeBackend(cfg, logger)
	})
	return selectedBackend
}

// DefaultBackend returns the process-wide backend selected with default
// configuration.
func DefaultBackend() knn.Backend {
	return SelectBackend(nil, nil)
}

func probeBackend(cfg *config.Config, logger *Logger) knn.Backend {
	if cfg.Backend == config.BackendDense {
		logger.LogBackendSelect("DenseMatrixTopK", false)
		return dense.New()
	}

	nb := native.New(
		native.WithLibraryPath(cfg.NativeLibrary),
		native.WithTempMemory(cfg.TempMemoryBytes),
	)
	if err := nb.Available(); err != nil {
		logger.LogBackendSelect("DenseMatrixTopK", true)
		return dense.New()
	}
	logger.LogBackendSelect(nb.Name(), false)
	return knn.Serialized(nb)
}
