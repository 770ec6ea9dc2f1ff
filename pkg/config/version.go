package config

import (
	"runtime/debug"
	"sync"
)

// Version is overridden at link time with -X.
var Version = "dev"

// Commit is the VCS revision embedded by the Go toolchain, when there is one.
var Commit = sync.OnceValue(func() string {
	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range bi.Settings {
			if setting.Key == "vcs.revision" {
				return setting.Value
			}
		}
	}

	return "unknown"
})
