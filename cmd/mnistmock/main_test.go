package main

import (
	"bytes"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/draganm/mnistmock/internal/csvio"
	"github.com/draganm/mnistmock/internal/server"
)

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	app := newApp()
	app.Writer = &stdout
	app.ErrWriter = &stderr
	err := app.Run(append([]string{"mnistmock"}, args...))
	return stdout.String(), err
}

func TestGenerateAndVerify(t *testing.T) {
	dir := t.TempDir()
	train := filepath.Join(dir, "train.csv")
	test := filepath.Join(dir, "test.csv")

	out, err := runApp(t, "generate", "--train-path", train, "--test-path", test, "--seed", "11")
	require.NoError(t, err)
	assert.Equal(t, "Mock training and test files created:\n- "+train+"\n- "+test+"\n", out)

	ds, header, err := csvio.ReadFile(train, true)
	require.NoError(t, err)
	assert.Len(t, ds, 10)
	assert.Len(t, header, 785)

	out, err = runApp(t, "verify", train, test)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "ok rows=10 columns=785 labeled=true")
	assert.Contains(t, lines[1], "ok rows=10 columns=784 labeled=false")
}

func TestGenerateWithoutHeader(t *testing.T) {
	dir := t.TempDir()
	train := filepath.Join(dir, "train.csv")
	test := filepath.Join(dir, "test.csv")

	_, err := runApp(t, "generate", "--train-path", train, "--test-path", test, "--no-header", "--train-rows", "3", "--test-rows", "4")
	require.NoError(t, err)

	out, err := runApp(t, "verify", "--no-header", "--labeled", "false", test)
	require.NoError(t, err)
	assert.Contains(t, out, "ok rows=4 columns=784 labeled=false")
}

func TestGenerateEmptyWithHeaderFails(t *testing.T) {
	dir := t.TempDir()
	train := filepath.Join(dir, "train.csv")
	test := filepath.Join(dir, "test.csv")

	out, err := runApp(t, "generate", "--train-path", train, "--test-path", test, "--train-rows", "0")
	require.ErrorIs(t, err, csvio.ErrEmptyDataset)
	assert.Empty(t, out)
	assert.NoFileExists(t, train)
	assert.NoFileExists(t, test)
}

func TestGenerateFromConfigFile(t *testing.T) {
	dir := t.TempDir()
	train := filepath.Join(dir, "train.csv")
	test := filepath.Join(dir, "test.csv")
	metricsFile := filepath.Join(dir, "metrics.prom")

	cfg := "train-path: " + train + "\n" +
		"test-path: " + test + "\n" +
		"train-rows: 2\n" +
		"test-rows: 5\n" +
		"seed: 99\n" +
		"metrics-file: " + metricsFile + "\n"
	cfgPath := filepath.Join(dir, "mnistmock.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o644))

	_, err := runApp(t, "generate", "--config", cfgPath)
	require.NoError(t, err)

	ds, _, err := csvio.ReadFile(train, true)
	require.NoError(t, err)
	assert.Len(t, ds, 2)

	ds, _, err = csvio.ReadFile(test, true)
	require.NoError(t, err)
	assert.Len(t, ds, 5)

	prom, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(prom), "mnistmock_rows_generated_total")
}

func TestVerifyRejectsBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.csv")
	require.NoError(t, os.WriteFile(path, []byte("1,2,3\n"), 0o644))

	_, err := runApp(t, "verify", "--no-header", path)
	require.Error(t, err)
	assert.ErrorIs(t, err, csvio.ErrUnsupportedWidth)

	_, err = runApp(t, "verify")
	assert.Error(t, err)
}

func TestFetch(t *testing.T) {
	s, err := server.New(&server.Config{MaxRows: 50})
	require.NoError(t, err)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	out := filepath.Join(t.TempDir(), "fetched.csv")
	stdout, err := runApp(t, "fetch", "--server-url", srv.URL, "--kind", "test", "--rows", "7", "--seed", "5", "-o", out)
	require.NoError(t, err)
	assert.Contains(t, stdout, out+" sha256=")

	ds, header, err := csvio.ReadFile(out, true)
	require.NoError(t, err)
	assert.Len(t, ds, 7)
	assert.Equal(t, "pixel0", header[0])
	assert.NoError(t, csvio.Check(ds, false))
}

func TestFetchRejectsUnknownKind(t *testing.T) {
	out := filepath.Join(t.TempDir(), "fetched.csv")
	_, err := runApp(t, "fetch", "--kind", "validation", "-o", out)
	require.Error(t, err)
	assert.NoFileExists(t, out)
}

func TestParseLogLevel(t *testing.T) {
	for _, s := range []string{"debug", "info", "warn", "error", ""} {
		_, err := parseLogLevel(s)
		assert.NoError(t, err, s)
	}
	_, err := parseLogLevel("loud")
	assert.Error(t, err)
}
