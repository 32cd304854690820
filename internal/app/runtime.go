package app

import (
	"os"
	"sync"
	"sync/atomic"
)

const testModeEnv = "GAZETTE_TEST_MODE"

var (
	testModeFlag atomic.Bool
	testModeOnce sync.Once
)

// InTestMode reports whether the application should skip runtime side effects.
// The GAZETTE_TEST_MODE flag is read once and cached for the process lifetime.
func InTestMode() bool {
	testModeOnce.Do(func() {
		testModeFlag.Store(os.Getenv(testModeEnv) == "1")
	})
	return testModeFlag.Load()
}
