package app

import (
	"os"
	"testing"

	"github.com/specialistvlad/sagegrid/internal/pipeline"
	"github.com/specialistvlad/sagegrid/internal/testutil"
)

// SetupAppTest creates a new app instance for system testing. Logs go to
// the returned buffer at debug level.
func SetupAppTest(t *testing.T, cfg *Config, modules ...pipeline.Module) (*App, *testutil.SafeBuffer) {
	t.Helper()

	logBuffer := &testutil.SafeBuffer{}
	cfg.LogLevel = "debug"
	testApp := NewApp(logBuffer, cfg, modules...)

	t.Cleanup(func() {
		if os.Getenv("SAGEGRID_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
		}
	})

	return testApp, logBuffer
}
