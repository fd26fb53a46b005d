//go:build profile && windows

package profiler

import "syscall"

// sysProcAttr keeps the viewer from opening a console window.
func sysProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{HideWindow: true}
}
