package cli

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docgraph/internal/app"
)

// setupTestApp injects services backed by a store under t.TempDir().
func setupTestApp(t *testing.T) *app.App {
	t.Helper()
	dir := t.TempDir()
	a, err := app.Open(filepath.Join(dir, "data"), filepath.Join(dir, "blobs"))
	require.NoError(t, err)
	SetApp(a)
	t.Cleanup(func() {
		SetApp(nil)
		_ = a.Close()
	})
	return a
}

// execute runs the root command with args and returns its output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		documentJSON, collectionJSON, registryJSON, indexJSON, statusJSON = false, false, false, false, false
		documentCollection, watchCollection = 0, 0
		watchRate, watchOnce = 0, false
		registryMeta, registryType, hashText = "", "", ""
		chunkSize, chunkOverlap = 1000, 200
		configDir, dataDirFlag, blobDirFlag, logFileFlag = "", "", "", ""
		verboseFlag = false
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}

func TestRootCmd_HasSubcommands(t *testing.T) {
	names := make([]string, 0)
	for _, cmd := range rootCmd.Commands() {
		names = append(names, cmd.Name())
	}

	for _, want := range []string{"document", "collection", "index", "registry", "status", "hash", "mcp", "version"} {
		assert.Contains(t, names, want)
	}
}

func TestRequireApp_NotConfigured(t *testing.T) {
	SetApp(nil)
	_, err := requireApp()
	assert.Error(t, err)
}

func TestSetup_OpensStoresFromFlags(t *testing.T) {
	dir := t.TempDir()

	out, err := execute(t, "status",
		"--config-dir", filepath.Join(dir, "config"),
		"--data-dir", filepath.Join(dir, "data"),
		"--blob-dir", filepath.Join(dir, "blobs"))
	require.NoError(t, err)

	assert.Contains(t, out, filepath.Join(dir, "data", "docgraph.db"))
	assert.Contains(t, out, "documents")
	assert.FileExists(t, filepath.Join(dir, "data", "docgraph.db"))
	assert.Nil(t, application, "stores opened by the command are closed after it")
}

func TestSetup_EnvOverridesConfig(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DOCGRAPH_DATA_DIR", filepath.Join(dir, "envdata"))

	_, err := execute(t, "status",
		"--config-dir", filepath.Join(dir, "config"),
		"--blob-dir", filepath.Join(dir, "blobs"))
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "envdata", "docgraph.db"))
}

func TestParseIDs(t *testing.T) {
	ids, err := parseIDs([]string{"1", "22"})
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 22}, ids)

	_, err = parseIDs([]string{"1", "x"})
	assert.Error(t, err)

	_, err = parseID("0")
	assert.Error(t, err)
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "a b", preview("a\nb", 10))
	assert.Equal(t, "héll...", preview("héllo", 4))
}
