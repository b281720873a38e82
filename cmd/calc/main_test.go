package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"go-chi-calculator/internal/cli"
	"go-chi-calculator/internal/observability"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/calc", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"operation":"multiply","x":6,"y":7,"result":42}`))
	})
	mux.HandleFunc("/operations", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"operations":["add","subtract","multiply","divide"]}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	oldLogger := observability.Logger
	t.Cleanup(func() { observability.Logger = oldLogger })

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestEvalCommandPrintsResult(t *testing.T) {
	srv := newService(t)

	out, err := execute(t, "eval", "multiply", "6", "7", "--server", srv.URL, "-o", "text")

	require.NoError(t, err)
	assert.Equal(t, "6 × 7 =\n42\n", out)
}

func TestOpsCommandListsOperations(t *testing.T) {
	srv := newService(t)

	out, err := execute(t, "ops", "--server", srv.URL)

	require.NoError(t, err)
	assert.Equal(t, "add\nsubtract\nmultiply\ndivide\n", out)
}

func TestEvalCommandLogsTransportFailureToStderrByDefault(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	stderr, err := os.CreateTemp(t.TempDir(), "stderr")
	require.NoError(t, err)
	oldStderr := os.Stderr
	os.Stderr = stderr
	t.Cleanup(func() { os.Stderr = oldStderr })

	out, err := execute(t, "eval", "add", "1", "2", "--server", url, "-o", "text")

	require.ErrorIs(t, err, cli.ErrNoResult)
	assert.Equal(t, "Network error: Could not connect to server\n", out)

	data, err := os.ReadFile(stderr.Name())
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"calculation request failed"`)
	assert.Contains(t, string(data), "connection refused")
}

func TestDefaultLogPaths(t *testing.T) {
	cache := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", cache)

	assert.Equal(t, []string{"stderr"}, defaultLogPaths(evalCmd))
	assert.Equal(t, []string{filepath.Join(cache, "calc", "calc.log")}, defaultLogPaths(rootCmd))
	assert.DirExists(t, filepath.Join(cache, "calc"))
}
