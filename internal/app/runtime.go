package app

import (
	"os"
	"strconv"
	"sync"
)

// TestModeEnv, when true, makes the binaries return before opening Redis or
// listening.
const TestModeEnv = "CATALOGVIEW_TEST_MODE"

var inTestMode = sync.OnceValue(func() bool {
	on, _ := strconv.ParseBool(os.Getenv(TestModeEnv))
	return on
})

// InTestMode reports whether TestModeEnv was set when first checked.
func InTestMode() bool {
	return inTestMode()
}
