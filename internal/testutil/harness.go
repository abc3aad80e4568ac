package testutil

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/graphforge/internal/app"
	"github.com/vk/graphforge/internal/ctxlog"
	"github.com/vk/graphforge/internal/engine"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// Harness holds a fully assembled application plus the context and log
// capture an integration test drives it through.
type Harness struct {
	App       *app.App
	Engine    *engine.Engine
	Ctx       context.Context
	LogOutput *SafeBuffer
}

// NewHarness assembles an App for a test. The manifests map holds optional
// .hcl type manifests written to a temporary types directory before the
// registry loads; a nil map runs on builtins only.
func NewHarness(t *testing.T, document string, manifests map[string]string) *Harness {
	t.Helper()

	typesPath := ""
	if len(manifests) > 0 {
		typesPath = t.TempDir()
		for name, content := range manifests {
			filePath := filepath.Join(typesPath, name)
			require.NoError(t, os.MkdirAll(filepath.Dir(filePath), 0755))
			require.NoError(t, os.WriteFile(filePath, []byte(content), 0644))
		}
	}

	cfg, err := app.NewConfig(app.Config{
		Document:  document,
		TypesPath: typesPath,
		LogFormat: "text",
		LogLevel:  "debug",
	})
	require.NoError(t, err)

	logBuf := &SafeBuffer{}
	a := app.NewApp(logBuf, cfg)

	logger := slog.New(slog.NewTextHandler(logBuf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return &Harness{
		App:       a,
		Engine:    a.Engine(),
		Ctx:       ctxlog.WithLogger(context.Background(), logger),
		LogOutput: logBuf,
	}
}

// RequireSuccess fails the test with the result's error payload when a
// command did not succeed.
func RequireSuccess(t *testing.T, res engine.Result) engine.Result {
	t.Helper()
	if !res.Success {
		require.NotNil(t, res.Error)
		t.Fatalf("command failed: [%s] %s\n%s", res.Error.Kind, res.Error.Message, res.Error.Diagnostics)
	}
	return res
}
