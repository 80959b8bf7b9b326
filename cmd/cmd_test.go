package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCommand(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestParsersCommandListsRegistry(t *testing.T) {
	out, err := runCommand(t, newParsersCmd())
	require.NoError(t, err)
	assert.Contains(t, out, "sarif")
	assert.Contains(t, out, "bandit")
	assert.Contains(t, out, "parsers registered")
}

func TestParsersCommandCategoryFilter(t *testing.T) {
	out, err := runCommand(t, newParsersCmd(), "--category", "network")
	require.NoError(t, err)
	assert.Contains(t, out, "nmap")
	assert.NotContains(t, out, "bandit")

	_, err = runCommand(t, newParsersCmd(), "--category", "bogus")
	assert.Error(t, err)
}

func TestParseCommand(t *testing.T) {
	report := filepath.Join(t.TempDir(), "bandit.json")
	content := `{
		"generated_at": "2026-03-01T12:00:00Z",
		"results": [{
			"test_id": "B602",
			"test_name": "subprocess_popen_with_shell_equals_true",
			"issue_severity": "HIGH",
			"issue_text": "subprocess call with shell=True identified.",
			"filename": "app/tasks.py",
			"line_number": 42
		}]
	}`
	require.NoError(t, os.WriteFile(report, []byte(content), 0o600))

	out, err := runCommand(t, newParseCmd(), report, "--parser", "bandit")
	require.NoError(t, err)
	assert.Contains(t, out, `"count": 1`)
	assert.Contains(t, out, "B602")
}

func TestParseCommandMissingFile(t *testing.T) {
	_, err := runCommand(t, newParseCmd(), "does-not-exist.json")
	assert.Error(t, err)
}
