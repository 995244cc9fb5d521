package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tideman/pkg/ballot"
	pkgio "github.com/matzehuels/tideman/pkg/io"
)

// captureStdout redirects the package's stdout to a buffer for the test.
func captureStdout(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	old := stdout
	stdout = &buf
	t.Cleanup(func() { stdout = old })
	return &buf
}

// isolateXDG points the config and cache directories at a temp dir.
func isolateXDG(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	return dir
}

// writeBallots writes set to dir/name in the format given by its extension.
func writeBallots(t *testing.T, dir, name string, set ballot.Set) string {
	t.Helper()
	format, err := pkgio.FormatFromPath(name)
	if err != nil {
		t.Fatal(err)
	}
	data, err := pkgio.MarshalBallots(set, format)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// execute runs the root command with args and returns what cobra wrote.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, logs bytes.Buffer
	c := New(&logs, log.InfoLevel)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&out)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCommand_Subcommands(t *testing.T) {
	root := New(&bytes.Buffer{}, log.InfoLevel).RootCommand()

	want := []string{"tally", "render", "play", "example", "serve", "cache", "completion"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestRootCommand_Tally(t *testing.T) {
	dir := isolateXDG(t)
	path := writeBallots(t, dir, "tennessee.toml", ballot.Tennessee())
	out := captureStdout(t)

	if _, err := execute(t, "tally", "--no-cache", path); err != nil {
		t.Fatalf("tally error: %v", err)
	}

	got := out.String()
	for _, want := range []string{"Tennessee capital", "Winner", "Nashville", "Pairwise matrix", "Lock sequence (6 locked, 0 skipped)", "Ranking"} {
		if !strings.Contains(got, want) {
			t.Errorf("tally output missing %q\n%s", want, got)
		}
	}
}

func TestRootCommand_TallyJSON(t *testing.T) {
	dir := isolateXDG(t)
	path := writeBallots(t, dir, "tennessee.yaml", ballot.Tennessee())
	out := captureStdout(t)

	if _, err := execute(t, "tally", "--json", path); err != nil {
		t.Fatalf("tally --json error: %v", err)
	}
	res, err := pkgio.ReadResult(out)
	if err != nil {
		t.Fatalf("tally --json output is not a result: %v", err)
	}
	if res.Winner != 1 {
		t.Errorf("winner = %d, want 1", res.Winner)
	}

	// The file cache now holds the result.
	entries, _ := os.ReadDir(filepath.Join(dir, "cache", appName))
	if len(entries) == 0 {
		t.Error("tally without --no-cache should populate the cache")
	}
}

func TestRootCommand_BadConfig(t *testing.T) {
	dir := isolateXDG(t)
	cfg := filepath.Join(dir, "bad.toml")
	if err := os.WriteFile(cfg, []byte("[cache]\nbackend = \"memcached\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	path := writeBallots(t, dir, "tennessee.json", ballot.Tennessee())
	captureStdout(t)

	_, err := execute(t, "--config", cfg, "tally", path)
	if err == nil || !strings.Contains(err.Error(), "invalid cache backend") {
		t.Errorf("tally with bad config error = %v, want invalid cache backend", err)
	}

	_, err = execute(t, "--config", filepath.Join(dir, "missing.toml"), "tally", path)
	if err == nil {
		t.Error("an explicit --config that does not exist should fail")
	}
}

func TestExampleCommand(t *testing.T) {
	isolateXDG(t)

	for _, format := range []string{"toml", "json", "yaml"} {
		t.Run(format, func(t *testing.T) {
			out, err := execute(t, "example", "-f", format)
			if err != nil {
				t.Fatalf("example -f %s error: %v", format, err)
			}
			set, err := pkgio.ReadBallots(strings.NewReader(out), pkgio.Format(format))
			if err != nil {
				t.Fatalf("example output does not parse: %v\n%s", err, out)
			}
			if set.N() != 4 || set.Title != "Tennessee capital" {
				t.Errorf("example output = %+v, want the Tennessee election", set)
			}
		})
	}

	if _, err := execute(t, "example", "-f", "hcl"); err == nil {
		t.Error("example -f hcl should fail")
	}
}

func TestCompletionCommand(t *testing.T) {
	isolateXDG(t)

	out, err := execute(t, "completion", "bash")
	if err != nil {
		t.Fatalf("completion bash error: %v", err)
	}
	if !strings.Contains(out, "tideman") {
		t.Error("bash completion should mention the binary name")
	}
	if _, err := execute(t, "completion", "tcsh"); err == nil {
		t.Error("completion for an unknown shell should fail")
	}
}
