//go:build !profile

package profiler

import "errors"

// Enabled reports whether the build records scopes.
const Enabled = false

// ErrDisabled is returned by OpenGraph in builds without the "profile" tag.
var ErrDisabled = errors.New("profiler: built without the profile tag")

func Init(capacity int) {}

func Start(name string) func() { return nop }

func OpenGraph() (string, error) { return "", ErrDisabled }

func nop() {}
