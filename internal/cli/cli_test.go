package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/ep_plotter_go/internal/config"
	"github.com/user/ep_plotter_go/internal/parser"
)

func writeData(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
}

func sampleData(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeData(t, dir, map[string]string{
		"EP1_N2.dat": "0 0\n1/4 1/2\n1/2 3/4\n1 1/2\n",
		"EP2_N2.dat": "0 0.1\n0.5 0.6\n1 0.2\n",
	})
	return dir
}

// run executes the root command with args and returns stdout and stderr.
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCmd()
	stdout, stderr := new(bytes.Buffer), new(bytes.Buffer)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRootCommand_RendersByDefault(t *testing.T) {
	dir := sampleData(t)
	output := filepath.Join(t.TempDir(), "EP_summary.svg")

	stdout, _, err := run(t, "--data-dir", dir, "--sizes", "2", "--output", output)
	require.NoError(t, err)
	assert.Equal(t, "Figure written to: "+output+"\n", stdout)

	b, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(b), "<svg")
	assert.Contains(t, string(b), "Case 2")
}

func TestRenderCommand(t *testing.T) {
	dir := sampleData(t)
	output := filepath.Join(t.TempDir(), "fig.png")

	stdout, _, err := run(t, "render", "--data-dir", dir, "--sizes", "2", "--output", output, "--style", "scatter")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Figure written to: "+output)

	b, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(b, []byte("\x89PNG")))
}

func TestRenderCommand_MissingTable(t *testing.T) {
	dir := sampleData(t)
	output := filepath.Join(t.TempDir(), "fig.svg")

	_, _, err := run(t, "render", "--data-dir", dir, "--sizes", "2,4", "--output", output)
	require.Error(t, err)
	assert.ErrorIs(t, err, parser.ErrResourceNotFound)
	assert.NoFileExists(t, output)
}

func TestRenderCommand_SkipMissing(t *testing.T) {
	dir := sampleData(t)
	output := filepath.Join(t.TempDir(), "fig.svg")

	stdout, stderr, err := run(t, "render", "--data-dir", dir, "--sizes", "2,4", "--output", output, "--skip-missing")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Figure written to:")
	assert.Contains(t, stderr, "skipping N=4 in Case 1")
	assert.Contains(t, stderr, "skipping N=4 in Case 2")
}

func TestRenderCommand_BadToken(t *testing.T) {
	dir := t.TempDir()
	writeData(t, dir, map[string]string{
		"EP1_N2.dat": "0 0\n1 abc\n",
		"EP2_N2.dat": "0 0\n",
	})

	_, _, err := run(t, "render", "--data-dir", dir, "--sizes", "2", "--output", filepath.Join(t.TempDir(), "fig.svg"))
	require.Error(t, err)
	assert.ErrorIs(t, err, parser.ErrParse)
	assert.Contains(t, err.Error(), "abc")
}

func TestRenderCommand_InvalidFlagValue(t *testing.T) {
	_, _, err := run(t, "render", "--style", "bars")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "style")
}

func TestReportCommand(t *testing.T) {
	dir := sampleData(t)
	pdfPath := filepath.Join(t.TempDir(), "summary.pdf")

	stdout, _, err := run(t, "report", "--data-dir", dir, "--sizes", "2", "--pdf", pdfPath)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Report written to: "+pdfPath)

	b, err := os.ReadFile(pdfPath)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(b, []byte("%PDF")))
}

func TestInspectCommand(t *testing.T) {
	dir := t.TempDir()
	writeData(t, dir, map[string]string{
		"rect.dat":   "1 2\n3/4 5\n",
		"ragged.dat": "1 2 3\n4 5\n",
	})
	rect := filepath.Join(dir, "rect.dat")
	ragged := filepath.Join(dir, "ragged.dat")

	stdout, _, err := run(t, "inspect", rect, ragged, "--rows", "2")
	require.NoError(t, err)
	assert.Contains(t, stdout, "File")
	assert.Contains(t, stdout, rect)
	assert.Contains(t, stdout, ragged)
	assert.Contains(t, stdout, "2-3")
	assert.Contains(t, stdout, "c0 [0.75, 1] c1 [2, 5]")
	assert.Contains(t, stdout, "0.75")

	_, _, err = run(t, "inspect", ragged, "--strict-shape")
	require.Error(t, err)
	assert.ErrorIs(t, err, parser.ErrRaggedRow)

	_, _, err = run(t, "inspect", filepath.Join(dir, "nope.dat"))
	assert.ErrorIs(t, err, parser.ErrResourceNotFound)

	_, _, err = run(t, "inspect")
	assert.Error(t, err)
}

func TestInitCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ep_plotter.yaml")

	stdout, _, err := run(t, "init", path)
	require.NoError(t, err)
	assert.Equal(t, "Config written to: "+path+"\n", stdout)

	loaded, err := config.Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultSizes, loaded.Sizes)

	_, _, err = run(t, "init", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, _, err = run(t, "init", path, "--force")
	assert.NoError(t, err)
}

func TestVersionCommand(t *testing.T) {
	stdout, _, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "ep_plotter v"+Version+"\n", stdout)

	cmd := newVersionCommand("test")
	assert.Equal(t, "version", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)
}

// syncBuffer is a bytes.Buffer safe for the watch goroutine and the test.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestWatch_RerendersOnChange(t *testing.T) {
	dir := sampleData(t)
	cfg := config.Default()
	cfg.DataDir = dir
	cfg.Sizes = []int{2}
	cfg.Output = filepath.Join(t.TempDir(), "fig.svg")

	out := &syncBuffer{}
	app := NewApp(cfg, nil, out)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errc := make(chan error, 1)
	go func() { errc <- app.Watch(ctx) }()

	// each poll rewrites an input; the interval outlasts the debounce
	require.Eventually(t, func() bool {
		_ = os.WriteFile(filepath.Join(dir, "EP1_N2.dat"), []byte("0 0\n1 1\n"), 0o644)
		return strings.Count(out.String(), "Figure written to:") >= 2
	}, 10*time.Second, 3*watchDebounce)

	cancel()
	select {
	case err := <-errc:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}

func TestApp_InputNames(t *testing.T) {
	cfg := config.Default()
	cfg.DataDir = "data"
	cfg.Sizes = []int{2, 4}

	names := NewApp(cfg, nil, nil).inputNames()
	assert.Equal(t, map[string]bool{
		"EP1_N2.dat": true, "EP1_N4.dat": true,
		"EP2_N2.dat": true, "EP2_N4.dat": true,
	}, names)
}
