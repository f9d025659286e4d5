package service_test

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dune-ce/cets/internal/config"
	"github.com/stretchr/testify/require"
)

// decline refuses every confirmation, like an operator answering "no".
type decline struct{}

func (decline) Confirm(string) (bool, error) { return false, nil }

func testConfig(t *testing.T, options ...config.AppConfigOption) config.AppConfig {
	t.Helper()
	base := []config.AppConfigOption{
		config.WithDataDir(t.TempDir()),
		config.WithWatermarkDir(filepath.Join(t.TempDir(), "watermarks")),
	}
	return config.NewAppConfigWithOptions(append(base, options...)...)
}

func writeReport(t *testing.T, root, relPath, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(relPath))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// touchInFuture bumps a report file's mtime past any watermark written
// during the test.
func touchInFuture(t *testing.T, root, relPath string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(relPath))
	future := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(path, future, future))
}

func mustTime(t *testing.T, value string) time.Time {
	t.Helper()
	ts, err := time.ParseInLocation("2006-01-02 15:04:05", value, time.UTC)
	require.NoError(t, err)
	return ts
}

var discard io.Writer = io.Discard
