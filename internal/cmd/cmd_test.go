package cmd

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/quantmind-br/emplace/internal/config"
	"github.com/quantmind-br/emplace/internal/helpers"
	"github.com/quantmind-br/emplace/internal/manager"
	"github.com/quantmind-br/emplace/internal/migrate"
	"github.com/quantmind-br/emplace/internal/packages"
	"github.com/quantmind-br/emplace/internal/paths"
	"github.com/quantmind-br/emplace/internal/shell"
)

const testRepoDir = "/data/emplace"

type fakePrompter struct {
	confirm  bool
	input    string
	inputErr error
	// pick chooses indices; nil keeps every item
	pick func(items []string) []int

	confirms []string
	selects  [][]string
}

func (f *fakePrompter) Confirm(label string) (bool, error) {
	f.confirms = append(f.confirms, label)
	return f.confirm, nil
}

func (f *fakePrompter) Input(_, _ string, validate func(string) error) (string, error) {
	if f.inputErr != nil {
		return "", f.inputErr
	}
	if validate != nil {
		if err := validate(f.input); err != nil {
			return "", err
		}
	}
	return f.input, nil
}

func (f *fakePrompter) MultiSelect(_ string, items []string) ([]int, error) {
	f.selects = append(f.selects, items)
	if f.pick != nil {
		return f.pick(items), nil
	}
	all := make([]int, len(items))
	for i := range items {
		all[i] = i
	}
	return all, nil
}

type fakeChecker struct {
	available map[manager.Manager]bool
	installed map[string]bool
}

func (f *fakeChecker) IsAvailable(m manager.Manager) bool {
	return f.available[m]
}

func (f *fakeChecker) IsInstalled(_ context.Context, p packages.Package) (bool, error) {
	return f.installed[p.Name], nil
}

type testEnv struct {
	t        *testing.T
	dir      string
	cfg      *config.Config
	fs       afero.Fs
	git      *helpers.MockCommandRunner
	shell    *shell.MockRunner
	prompter *fakePrompter
	checker  *fakeChecker
	log      zerolog.Logger
}

// newTestEnv returns a configured environment with a cloned, empty mirror
// repository on an in-memory filesystem.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dir := t.TempDir()
	cfg, err := config.LoadFile(filepath.Join(dir, "config", "emplace.toml"))
	require.NoError(t, err)
	cfg.RepoDirectory = testRepoDir
	cfg.Repo.URL = "https://github.com/me/dotfiles.git"
	cfg.Paths.JournalFile = filepath.Join(dir, "state", "journal.db")
	require.NoError(t, cfg.Save())

	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll(filepath.Join(testRepoDir, ".git"), 0755))

	return &testEnv{
		t:        t,
		dir:      dir,
		cfg:      cfg,
		fs:       fs,
		git:      &helpers.MockCommandRunner{},
		shell:    &shell.MockRunner{},
		prompter: &fakePrompter{confirm: true},
		checker:  &fakeChecker{available: map[manager.Manager]bool{}, installed: map[string]bool{}},
		log:      zerolog.New(io.Discard),
	}
}

func (e *testEnv) deps() Deps {
	return Deps{
		FS:       e.fs,
		Commands: e.git,
		Shell:    e.shell,
		Prompter: e.prompter,
		Checker:  e.checker,
		Resolver: paths.NewResolverWithHome(e.cfg, e.dir),
	}.WithPlatform(manager.PlatformUnix)
}

// run executes the root command with args and returns what it wrote to its
// output stream.
func (e *testEnv) run(args ...string) (string, error) {
	e.t.Helper()

	root := NewRootCmdWithDeps(e.cfg, &e.log, "test", e.deps())
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)

	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func (e *testEnv) writeMirror(set packages.Set) {
	e.t.Helper()
	data, err := migrate.Encode(set)
	require.NoError(e.t, err)
	require.NoError(e.t, afero.WriteFile(e.fs, e.cfg.FullFilePath(), data, 0644))
}

func (e *testEnv) readMirror() packages.Set {
	e.t.Helper()
	data, err := afero.ReadFile(e.fs, e.cfg.FullFilePath())
	require.NoError(e.t, err)
	set, _, err := migrate.Decode(data)
	require.NoError(e.t, err)
	return set
}

// gitCalls returns the git invocations that start with sub.
func (e *testEnv) gitCalls(sub string) []string {
	var calls []string
	for _, c := range e.git.Calls() {
		if strings.HasPrefix(c, "git "+sub) {
			calls = append(calls, c)
		}
	}
	return calls
}

func pkg(source manager.Manager, name string, flags ...string) packages.Package {
	return packages.New(source, name, flags)
}
