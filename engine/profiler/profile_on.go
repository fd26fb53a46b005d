//go:build profile

package profiler

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// Enabled reports whether the build records scopes.
const Enabled = true

var global *Recorder

// Init must be called once, before the first Start, with the number of
// events to retain.
func Init(capacity int) { global = NewRecorder(capacity) }

// Start opens a scope on the global recorder; defer the returned func.
func Start(name string) func() {
	if global == nil {
		return nop
	}
	return global.Start(name)
}

// OpenGraph writes the global recording to the temp dir and opens it with
// the speedscope CLI. The path is returned even if the viewer fails to start.
func OpenGraph() (string, error) {
	if global == nil {
		return "", ErrNoEvents
	}
	path := filepath.Join(os.TempDir(), "es2.speedscope.json")
	if err := global.WriteFile(path); err != nil {
		return "", err
	}
	cmd := exec.Command("speedscope", path)
	cmd.SysProcAttr = sysProcAttr()
	if err := cmd.Start(); err != nil {
		return path, fmt.Errorf("profiler: launch speedscope: %w", err)
	}
	return path, nil
}

func nop() {}
