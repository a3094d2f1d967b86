package app

import (
	"bytes"
	"os"
	"sync"
	"testing"

	"github.com/vk/dgrun/internal/config"
	"github.com/vk/dgrun/internal/registry"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// SetupAppTest creates a new app instance for system testing. Logging is
// forced to debug; set DGRUN_TEST_LOGS=true to print it after the test.
func SetupAppTest(t *testing.T, appConfig *Config, loader config.Loader, modules ...registry.Module) (*App, *SafeBuffer) {
	t.Helper()

	logBuffer := &SafeBuffer{}
	appConfig.Verbose = "debug"
	testApp, err := NewApp(logBuffer, appConfig, loader, modules...)
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}

	t.Cleanup(func() {
		_ = testApp.Close()
		if os.Getenv("DGRUN_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
		}
	})

	return testApp, logBuffer
}
