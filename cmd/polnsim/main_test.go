package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PolnSim/internal/export"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetArgs(append(args, "--log-level", "error"))
	err := cmd.Execute()
	return out.String(), err
}

func TestRunCmd_WritesCSVAndSummary(t *testing.T) {
	dir := t.TempDir()
	out, err := execute(t, "run", "--config", "../../configs/simple.json", "--out", dir, "--years", "1,2")
	require.NoError(t, err)

	assert.Contains(t, out, "Interpretation after 1 years")
	assert.Contains(t, out, "Interpretation after 2 years")

	rows, err := export.ReadFile(filepath.Join(dir, "poln_2y.csv"))
	require.NoError(t, err)
	assert.Len(t, rows, 25)
	assert.Equal(t, export.Columns, rows[0])
}

func TestRunCmd_JSONCompressedWithDB(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "runs.db")
	out, err := execute(t, "run", "--config", "../../configs/config.yaml",
		"--out", dir, "--years", "1", "--compress", "--json", "--db", db, "--seed", "7")
	require.NoError(t, err)

	var docs []horizonJSON
	require.NoError(t, json.Unmarshal([]byte(out), &docs))
	require.Len(t, docs, 1)
	assert.Equal(t, 1, docs[0].Years)
	assert.Equal(t, "extended", docs[0].Variant)
	assert.Equal(t, uint64(7), docs[0].Seed)
	assert.Len(t, docs[0].Records, 12)

	assert.FileExists(t, filepath.Join(dir, "poln_1y.csv.zst"))
	assert.FileExists(t, db)
}

func TestRunCmd_SameSeedSameOutput(t *testing.T) {
	run := func() []byte {
		dir := t.TempDir()
		_, err := execute(t, "run", "--config", "../../configs/simple.json", "--out", dir, "--years", "3")
		require.NoError(t, err)
		b, err := os.ReadFile(filepath.Join(dir, "poln_3y.csv"))
		require.NoError(t, err)
		return b
	}
	assert.Equal(t, run(), run())
}

func TestValidateCmd(t *testing.T) {
	out, err := execute(t, "validate", "--config", "../../configs/config.yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "config OK: variant=extended")
	assert.Contains(t, out, "price_cap=0.2")

	_, err = execute(t, "validate", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestRunCmd_RejectsBadOverrides(t *testing.T) {
	_, err := execute(t, "run", "--config", "../../configs/simple.json", "--out", t.TempDir(), "--years", "0")
	assert.ErrorContains(t, err, "simulation_years")
}

func TestWatchCmd_BadCron(t *testing.T) {
	_, err := execute(t, "watch", "--config", "../../configs/simple.json", "--out", t.TempDir(), "--cron", "bogus")
	assert.Error(t, err)
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "polnsim version "+version+"\n", out)

	out, err = execute(t, "version", "--json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":"`+version+`"}`, out)
}

func TestInvalidLogLevel(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetArgs([]string{"version", "--log-level", "loud"})
	assert.Error(t, cmd.Execute())
}
