package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/RollCut/internal/model"
	"github.com/piwi3910/RollCut/internal/project"
)

type runResult struct {
	stdout, stderr string
	err            error
}

// run executes the CLI with an isolated home directory and config file.
func run(t *testing.T, stdin string, args ...string) runResult {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return runIn(t, filepath.Join(home, "config.json"), stdin, args...)
}

func runIn(t *testing.T, configPath, stdin string, args ...string) runResult {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := NewRootCommand(strings.NewReader(stdin), &stdout, &stderr)
	root.SetArgs(append([]string{"--config", configPath}, args...))
	err := root.ExecuteContext(context.Background())
	return runResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func TestPlan_Pieces(t *testing.T) {
	res := run(t, "", "plan", "--roll-width", "1000", "--piece", "600x200:A", "--piece", "400x250:B")
	require.NoError(t, res.err, res.stderr)

	assert.Contains(t, res.stdout, "CUTTING PLAN: Untitled")
	assert.Contains(t, res.stdout, "ROW 1")
	assert.NotContains(t, res.stdout, "ROW 2")
	assert.Contains(t, res.stdout, "2 pieces in 1 rows")
}

func TestPlan_NoPieces(t *testing.T) {
	res := run(t, "", "plan")
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "no pieces")
}

func TestPlan_InvalidJob(t *testing.T) {
	res := run(t, "", "plan", "--roll-width", "500", "--piece", "600x700")
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "not valid")
	assert.Contains(t, res.stderr, "does not fit a 500 mm roll")
}

func TestPlan_TOMLJobFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "shop.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
name = "Shop"

[roll]
width = 1000

[[piece]]
label = "Shelf"
width = 1000
height = 300
quantity = 2
`), 0644))

	res := run(t, "", "plan", path, "--name", "Renamed")
	require.NoError(t, res.err, res.stderr)
	assert.Contains(t, res.stdout, "CUTTING PLAN: Renamed")
	assert.Contains(t, res.stdout, "ROW 2")
}

func TestPlan_CSVCutList(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cutlist.csv")
	require.NoError(t, os.WriteFile(path, []byte("Label,Width,Height,Quantity\nDoor,500,300,2\n"), 0644))

	res := run(t, "", "plan", path, "--quiet")
	require.NoError(t, res.err, res.stderr)
	assert.Empty(t, res.stdout)
}

func TestPlan_ExportsAndSave(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	out := t.TempDir()
	configPath := filepath.Join(home, "config.json")
	files := map[string]string{
		"--txt":   filepath.Join(out, "plan.txt"),
		"--xlsx":  filepath.Join(out, "plan.xlsx"),
		"--chart": filepath.Join(out, "plan.html"),
		"--gcode": filepath.Join(out, "plan.nc"),
		"--save":  filepath.Join(out, "plan.rollcut"),
	}
	args := []string{"plan", "--quiet", "--piece", "600x400x2", "--piece", "450x300"}
	for flag, path := range files {
		args = append(args, flag, path)
	}

	res := runIn(t, configPath, "", args...)
	require.NoError(t, res.err, res.stderr)

	for flag, path := range files {
		info, err := os.Stat(path)
		require.NoError(t, err, "%s output missing", flag)
		assert.NotZero(t, info.Size(), "%s output empty", flag)
	}

	program, err := os.ReadFile(files["--gcode"])
	require.NoError(t, err)
	assert.Contains(t, string(program), "; Profile: Generic")

	saved, err := project.LoadJob(files["--save"])
	require.NoError(t, err)
	require.NotNil(t, saved.Result)
	assert.Equal(t, 3, saved.Result.PieceCount())

	cfg, err := project.LoadAppConfig(configPath)
	require.NoError(t, err)
	assert.Equal(t, []string{files["--save"]}, cfg.RecentJobs)
}

func TestPlan_Interactive(t *testing.T) {
	res := run(t, "1000\n\n600\n200\n1\nA\n400\n250\n1\nB\n\n", "plan", "--interactive")
	require.NoError(t, res.err, res.stderr)
	assert.Contains(t, res.stdout, "Roll width (mm) [1050]")
	assert.Contains(t, res.stdout, "ROW 1")
	assert.Contains(t, res.stdout, "2 pieces in 1 rows")
}

func TestCompare(t *testing.T) {
	res := run(t, "", "compare", "--roll-width", "1000", "--piece", "600x200", "--piece", "400x250", "--piece", "300x300")
	require.NoError(t, res.err, res.stderr)
	for _, want := range []string{"Current Settings", "Policy set-aside", "Max 5 pieces per row", "Max 7 pieces per row", "★"} {
		assert.Contains(t, res.stdout, want)
	}
}

func TestEstimate(t *testing.T) {
	res := run(t, "", "estimate", "--roll-width", "1000", "--roll-length", "2000", "--piece", "1000x3000", "--price", "12.5")
	require.NoError(t, res.err, res.stderr)
	assert.Contains(t, res.stdout, "3.0 m")
	assert.Contains(t, res.stdout, "3.3 m")
	assert.Contains(t, res.stdout, "41.25")
	assert.Contains(t, res.stdout, "2 (2 without waste)")
}

func TestConfigInitShowAndBackup(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	configPath := filepath.Join(home, "cfg", "config.json")

	res := runIn(t, configPath, "", "config", "init")
	require.NoError(t, res.err, res.stderr)
	_, err := os.Stat(configPath)
	require.NoError(t, err)

	res = runIn(t, configPath, "", "config", "init")
	require.Error(t, res.err, "init must not overwrite without --force")

	res = runIn(t, configPath, "", "config", "show")
	require.NoError(t, res.err)
	var cfg model.AppConfig
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &cfg))
	assert.Equal(t, model.DefaultRollWidth, cfg.DefaultRollWidth)

	backup := filepath.Join(home, "backup.json")
	res = runIn(t, configPath, "", "config", "export", backup)
	require.NoError(t, res.err, res.stderr)

	other := filepath.Join(home, "other.json")
	res = runIn(t, other, "", "config", "import", backup)
	require.NoError(t, res.err, res.stderr)
	restored, err := project.LoadAppConfig(other)
	require.NoError(t, err)
	assert.Equal(t, cfg.DefaultRollWidth, restored.DefaultRollWidth)
}

func TestBestResult(t *testing.T) {
	assert.Equal(t, -1, bestResult(nil))
}
