package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	kerrors "github.com/matzehuels/kintree/pkg/errors"
	"github.com/matzehuels/kintree/pkg/graph"
)

// captureStdout redirects command output into a buffer for the rest of the test.
func captureStdout(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := stdout
	stdout = &buf
	t.Cleanup(func() { stdout = prev })
	return &buf
}

// testEnv is a temp directory with a config that keeps the cache and the
// store inside it.
type testEnv struct {
	dir    string
	config string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	cfg := fmt.Sprintf("[cache]\ndir = '%s'\n\n[storage]\ndir = '%s'\n",
		filepath.Join(dir, "cache"), filepath.Join(dir, "trees"))
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}
	stderr = io.Discard
	t.Cleanup(func() { stderr = os.Stderr })
	return &testEnv{dir: dir, config: path}
}

func (e *testEnv) path(name string) string { return filepath.Join(e.dir, name) }

// run executes the CLI with args and returns what it printed.
func (e *testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return e.runContext(t, context.Background(), args...)
}

func (e *testEnv) runContext(t *testing.T, ctx context.Context, args ...string) (string, error) {
	t.Helper()
	out := captureStdout(t)
	c := New(io.Discard, log.InfoLevel)
	root := c.RootCommand()
	root.SetArgs(append([]string{"--config", e.config}, args...))
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	err := root.ExecuteContext(ctx)
	return out.String(), err
}

func (e *testEnv) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := e.run(t, args...)
	if err != nil {
		t.Fatalf("%s: %v", strings.Join(args, " "), err)
	}
	return out
}

// seed creates ada with children ben and cleo in smith.json.
func (e *testEnv) seed(t *testing.T) string {
	t.Helper()
	file := e.path("smith.json")
	e.mustRun(t, "person", "add", "-f", file, "--id", "ada", "--name", "Ada Smith", "--gender", "female", "--birth", "1950")
	e.mustRun(t, "person", "add", "-f", file, "--id", "ben", "--name", "Ben Smith", "--gender", "male", "--birth", "1975")
	e.mustRun(t, "person", "add", "-f", file, "--id", "cleo", "--name", "Cleo Smith", "--gender", "female", "--birth", "1978")
	e.mustRun(t, "relate", "-f", file, "ada", "ben")
	e.mustRun(t, "relate", "-f", file, "ada", "cleo")
	return file
}

func TestPersonAndRelateOnFile(t *testing.T) {
	env := newTestEnv(t)
	file := env.seed(t)

	tr, err := graph.ReadTreeFile(file)
	if err != nil {
		t.Fatal(err)
	}
	if tr.Len() != 3 {
		t.Errorf("people = %d, want 3", tr.Len())
	}
	if got := tr.ChildrenOf("ada"); !slices.Equal(got, []string{"ben", "cleo"}) {
		t.Errorf("children of ada = %v", got)
	}
}

func TestPersonAddGeneratesID(t *testing.T) {
	env := newTestEnv(t)
	file := env.path("t.json")
	out := env.mustRun(t, "person", "add", "-f", file, "--name", "Dora", "--gender", "female", "--birth", "1990")

	tr, err := graph.ReadTreeFile(file)
	if err != nil {
		t.Fatal(err)
	}
	ids := tr.IDs()
	if len(ids) != 1 || ids[0] == "" {
		t.Fatalf("ids = %v", ids)
	}
	if !strings.Contains(out, ids[0]) {
		t.Errorf("output %q does not show the new id %s", out, ids[0])
	}
}

func TestPersonUpdateChangesOnlyGivenFields(t *testing.T) {
	env := newTestEnv(t)
	file := env.seed(t)

	env.mustRun(t, "person", "update", "-f", file, "ben", "--occupation", "Carpenter", "--death", "2020")

	tr, err := graph.ReadTreeFile(file)
	if err != nil {
		t.Fatal(err)
	}
	ben, _ := tr.Person("ben")
	if ben.Name != "Ben Smith" || ben.BirthYear != 1975 {
		t.Errorf("untouched fields changed: %+v", ben)
	}
	if ben.Occupation != "Carpenter" || ben.DeathYear != 2020 {
		t.Errorf("update not applied: %+v", ben)
	}
	if got := tr.ParentsOf("ben"); !slices.Equal(got, []string{"ada"}) {
		t.Errorf("relationships lost: parents = %v", got)
	}

	_, err = env.run(t, "person", "update", "-f", file, "nobody", "--name", "X")
	if !kerrors.Is(err, kerrors.ErrCodePersonNotFound) {
		t.Errorf("update unknown person error = %v", err)
	}
}

func TestPersonRemove(t *testing.T) {
	env := newTestEnv(t)
	file := env.seed(t)

	_, err := env.run(t, "person", "remove", "-f", file, "ada")
	if !kerrors.Is(err, kerrors.ErrCodeOrphanWouldResult) {
		t.Fatalf("remove without cascade error = %v", err)
	}

	out := env.mustRun(t, "person", "remove", "-f", file, "ada", "--cascade")
	if !strings.Contains(out, "2 relationships removed") || !strings.Contains(out, "ben has no parents left") {
		t.Errorf("output = %q", out)
	}
	tr, err := graph.ReadTreeFile(file)
	if err != nil {
		t.Fatal(err)
	}
	if tr.Has("ada") || tr.Len() != 2 {
		t.Errorf("people after remove = %v", tr.IDs())
	}
}

func TestRelateErrors(t *testing.T) {
	env := newTestEnv(t)
	file := env.seed(t)

	tests := []struct {
		name string
		args []string
		code kerrors.Code
	}{
		{"unknown type", []string{"relate", "-f", file, "ben", "cleo", "--type", "cousin"}, kerrors.ErrCodeInvalidInput},
		{"cycle", []string{"relate", "-f", file, "ben", "ada"}, kerrors.ErrCodeInvalidRelationship},
		{"duplicate", []string{"relate", "-f", file, "ada", "ben"}, kerrors.ErrCodeDuplicateRelationship},
		{"unknown person", []string{"relate", "-f", file, "ada", "zed"}, kerrors.ErrCodePersonNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.run(t, tt.args...)
			if !kerrors.Is(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestUnrelate(t *testing.T) {
	env := newTestEnv(t)
	file := env.seed(t)

	env.mustRun(t, "relate", "-f", file, "ben", "cleo", "--type", "sibling")
	out := env.mustRun(t, "unrelate", "-f", file, "cleo", "ben", "--type", "sibling")
	if !strings.Contains(out, "Removed sibling relationship") {
		t.Errorf("output = %q", out)
	}

	out = env.mustRun(t, "unrelate", "-f", file, "ben", "cleo", "--type", "spouse")
	if !strings.Contains(out, "No spouse relationship") {
		t.Errorf("output = %q", out)
	}
}

func TestTreeFlags(t *testing.T) {
	env := newTestEnv(t)

	if _, err := env.run(t, "relate", "a", "b"); err == nil {
		t.Error("missing --file/--tree should fail")
	}
	if _, err := env.run(t, "relate", "-f", "x.json", "-t", "x", "a", "b"); err == nil {
		t.Error("--file with --tree should fail")
	}
	_, err := env.run(t, "layout", "-t", "missing")
	if !kerrors.Is(err, kerrors.ErrCodeNotFound) {
		t.Errorf("unknown stored tree error = %v", err)
	}
}

func TestStoredTreeAndList(t *testing.T) {
	env := newTestEnv(t)

	out := env.mustRun(t, "list")
	if !strings.Contains(out, "No stored trees") {
		t.Errorf("empty list output = %q", out)
	}

	env.mustRun(t, "person", "add", "-t", "smith", "--id", "ada", "--name", "Ada", "--gender", "female", "--birth", "1950")
	env.mustRun(t, "person", "add", "-t", "smith", "--id", "ben", "--name", "Ben", "--gender", "male", "--birth", "1975")
	env.mustRun(t, "relate", "-t", "smith", "ada", "ben")

	if _, err := os.Stat(filepath.Join(env.dir, "trees", "smith.json")); err != nil {
		t.Errorf("stored tree not written: %v", err)
	}
	out = env.mustRun(t, "list")
	if !strings.Contains(out, "smith") || !strings.Contains(out, "2") {
		t.Errorf("list output = %q", out)
	}

	if _, err := env.run(t, "person", "add", "-t", "Bad Name", "--name", "X", "--gender", "male", "--birth", "1900"); !kerrors.Is(err, kerrors.ErrCodeInvalidInput) {
		t.Errorf("invalid tree name error = %v", err)
	}
}

func TestLayout(t *testing.T) {
	env := newTestEnv(t)
	file := env.seed(t)

	out := env.mustRun(t, "layout", "-f", file)
	want := env.path("smith.layout.json")
	if !strings.Contains(out, want) || !strings.Contains(out, iconFresh) {
		t.Errorf("first layout output = %q", out)
	}
	l, err := graph.ReadLayoutFile(want)
	if err != nil {
		t.Fatal(err)
	}
	if len(l.Nodes) != 3 || len(l.Links) == 0 {
		t.Errorf("layout has %d nodes, %d links", len(l.Nodes), len(l.Links))
	}

	out = env.mustRun(t, "layout", "-f", file)
	if !strings.Contains(out, iconCached) {
		t.Errorf("second layout should hit the cache: %q", out)
	}
	out = env.mustRun(t, "layout", "-f", file, "--refresh")
	if !strings.Contains(out, iconFresh) {
		t.Errorf("--refresh should recompute: %q", out)
	}
}

func TestLayoutInterrupted(t *testing.T) {
	env := newTestEnv(t)
	file := env.seed(t)
	env.mustRun(t, "layout", "-f", file)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	tests := []struct {
		name   string
		output string
		extra  []string
	}{
		{"cache hit", env.path("hit.json"), nil},
		{"fresh", env.path("fresh.json"), []string{"--no-cache"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"layout", "-f", file, "-o", tt.output}, tt.extra...)
			_, err := env.runContext(t, ctx, args...)
			if !errors.Is(err, context.Canceled) {
				t.Errorf("err = %v, want context.Canceled", err)
			}
			if _, err := os.Stat(tt.output); err == nil {
				t.Errorf("layout written despite the interrupt")
			}
		})
	}
}

func TestLayoutOptions(t *testing.T) {
	env := newTestEnv(t)
	file := env.seed(t)
	output := env.path("out.json")

	env.mustRun(t, "layout", "-f", file, "-o", output, "--orientation", "horizontal", "--focus", "ben", "--no-cache")

	l, err := graph.ReadLayoutFile(output)
	if err != nil {
		t.Fatal(err)
	}
	if l.Settings.Direction != "left-to-right" {
		t.Errorf("direction = %q, want the horizontal default", l.Settings.Direction)
	}
	if l.FocusID != "ben" || len(l.Placeholders) == 0 {
		t.Errorf("focus = %q, placeholders = %d", l.FocusID, len(l.Placeholders))
	}

	_, err = env.run(t, "layout", "-f", file, "-o", output, "--orientation", "vertical", "--direction", "left-to-right")
	if !kerrors.Is(err, kerrors.ErrCodeInvalidSettings) {
		t.Errorf("mismatched direction error = %v", err)
	}
}

func TestSuggest(t *testing.T) {
	env := newTestEnv(t)
	file := env.seed(t)

	out := env.mustRun(t, "suggest", "-f", file)
	if !strings.Contains(out, "no parents recorded") || !strings.Contains(out, "3 suggestions") {
		t.Errorf("suggest output = %q", out)
	}

	out = env.mustRun(t, "suggest", "-f", file, "--person", "ben")
	if !strings.Contains(out, "only one parent recorded") || !strings.Contains(out, "1 suggestions") {
		t.Errorf("suggest --person output = %q", out)
	}

	if _, err := env.run(t, "suggest", "-f", file, "--person", "zed"); !kerrors.Is(err, kerrors.ErrCodePersonNotFound) {
		t.Errorf("unknown person error = %v", err)
	}
}

func TestPlaceholders(t *testing.T) {
	env := newTestEnv(t)
	file := env.seed(t)

	out := env.mustRun(t, "placeholders", "-f", file, "--focus", "ben")
	for _, kind := range []string{"parent", "spouse", "child"} {
		if !strings.Contains(out, kind) {
			t.Errorf("placeholders output missing %s slot: %q", kind, out)
		}
	}

	if _, err := env.run(t, "placeholders", "-f", file); err == nil {
		t.Error("--focus should be required")
	}
	if _, err := env.run(t, "placeholders", "-f", file, "--focus", "zed"); !kerrors.Is(err, kerrors.ErrCodePersonNotFound) {
		t.Errorf("unknown focus error = %v", err)
	}
}

func TestCacheCommands(t *testing.T) {
	env := newTestEnv(t)
	file := env.seed(t)
	env.mustRun(t, "layout", "-f", file)

	out := env.mustRun(t, "cache", "path")
	if strings.TrimSpace(out) != env.path("cache") {
		t.Errorf("cache path = %q", out)
	}

	out = env.mustRun(t, "cache", "clear")
	if !strings.Contains(out, "Cleared 1 cached entries") {
		t.Errorf("cache clear output = %q", out)
	}
	out = env.mustRun(t, "layout", "-f", file)
	if !strings.Contains(out, iconFresh) {
		t.Errorf("layout after clear should recompute: %q", out)
	}
}

func TestInvalidConfig(t *testing.T) {
	env := newTestEnv(t)
	if err := os.WriteFile(env.config, []byte("[layout]\ncard_widht = 10\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := env.run(t, "list")
	if !kerrors.Is(err, kerrors.ErrCodeInvalidSettings) {
		t.Errorf("unknown config key error = %v", err)
	}
}

func TestCompletion(t *testing.T) {
	env := newTestEnv(t)
	out := env.mustRun(t, "completion", "bash")
	if !strings.Contains(out, "kintree") {
		t.Error("bash completion should mention the command name")
	}
}

func TestPrintError(t *testing.T) {
	var buf bytes.Buffer
	err := kerrors.New(kerrors.ErrCodeInvalidRelationship, "would create a cycle").WithIDs("ben", "ada")
	PrintError(&buf, err)

	out := buf.String()
	if !strings.Contains(out, "would create a cycle") || !strings.Contains(out, "ben, ada") {
		t.Errorf("PrintError = %q", out)
	}
	if strings.Contains(out, string(kerrors.ErrCodeInvalidRelationship)) {
		t.Errorf("PrintError should hide the code: %q", out)
	}
}

func TestFormatRelativeTime(t *testing.T) {
	now := time.Now()
	tests := []struct {
		in   time.Time
		want string
	}{
		{time.Time{}, "—"},
		{now.Add(-10 * time.Second), "just now"},
		{now.Add(-5 * time.Minute), "5m ago"},
		{now.Add(-3 * time.Hour), "3h ago"},
		{now.Add(-50 * time.Hour), "2d ago"},
		{time.Date(2020, 3, 1, 0, 0, 0, 0, time.UTC), "Mar 1, 2020"},
	}
	for _, tt := range tests {
		if got := formatRelativeTime(tt.in); got != tt.want {
			t.Errorf("formatRelativeTime(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
