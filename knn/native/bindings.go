// Package native provides the accelerator-resident brute-force search
// backend. It binds the FAISS C API via purego (no cgo) and marshals key and
// query buffers across the interop boundary without copying.
package native

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/ebitengine/purego"
)

// ErrUnavailable is returned by Available when the native library or an
// accelerator is missing. It is not a failure: callers select the portable
// fallback instead.
var ErrUnavailable = errors.New("native: backend unavailable")

// Function pointers loaded via purego. The C API reports failures through
// non-zero int return codes; faiss_get_last_error carries the message.
var (
	faissGetNumGpus                func() int32
	faissGetLastError              func() *byte
	faissGpuResourcesNew           func(res *uintptr) int32
	faissGpuResourcesSetTempMem    func(res uintptr, size uintptr) int32
	faissGpuResourcesSetNullStream func(res uintptr) int32
	faissBfKnn                     func(res uintptr, params *gpuDistanceParams) int32
)

var (
	initOnce  sync.Once
	initErr   error
	libHandle uintptr
)

// initialize loads the FAISS C library at most once per process. The chosen
// library (or its absence) is fixed for the process lifetime.
func initialize(libPath string) error {
	initOnce.Do(func() {
		initErr = loadLibrary(libPath)
	})
	return initErr
}

func loadLibrary(libPath string) error {
	if libPath == "" {
		libPath = findLibrary()
	}
	if libPath == "" {
		return fmt.Errorf("%w: FAISS library not found", ErrUnavailable)
	}

	handle, err := purego.Dlopen(libPath, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrUnavailable, libPath, err)
	}
	libHandle = handle

	purego.RegisterLibFunc(&faissGetNumGpus, libHandle, "faiss_get_num_gpus")
	purego.RegisterLibFunc(&faissGetLastError, libHandle, "faiss_get_last_error")
	purego.RegisterLibFunc(&faissGpuResourcesNew, libHandle, "faiss_StandardGpuResources_new")
	purego.RegisterLibFunc(&faissGpuResourcesSetTempMem, libHandle, "faiss_StandardGpuResources_setTempMemory")
	purego.RegisterLibFunc(&faissGpuResourcesSetNullStream, libHandle, "faiss_StandardGpuResources_setDefaultNullStreamAllDevices")
	purego.RegisterLibFunc(&faissBfKnn, libHandle, "faiss_bfKnn")
	return nil
}

func findLibrary() string {
	for _, path := range searchPaths() {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

func searchPaths() []string {
	var paths []string
	for _, name := range libraryNames() {
		paths = append(paths,
			filepath.Join("/usr/local/lib", name),
			filepath.Join("/usr/lib", name),
		)
		if runtime.GOOS == "linux" {
			paths = append(paths,
				filepath.Join("/usr/lib/x86_64-linux-gnu", name),
				filepath.Join("/usr/lib/aarch64-linux-gnu", name),
			)
		}
		if runtime.GOOS == "darwin" {
			paths = append(paths, filepath.Join("/opt/homebrew/lib", name))
		}
	}
	return paths
}

func libraryNames() []string {
	// The GPU-enabled build exports the brute-force entry points; prefer it.
	switch runtime.GOOS {
	case "darwin":
		return []string{"libgpufaiss_c.dylib", "libfaiss_c.dylib"}
	case "windows":
		return []string{"gpufaiss_c.dll", "faiss_c.dll"}
	default:
		return []string{"libgpufaiss_c.so", "libfaiss_c.so"}
	}
}

// lastError returns the library's last error message, if any.
func lastError() string {
	if faissGetLastError == nil {
		return ""
	}
	ptr := faissGetLastError()
	if ptr == nil {
		return ""
	}
	return goString(ptr)
}
