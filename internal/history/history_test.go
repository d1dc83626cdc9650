package history

import (
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantmind-br/emplace/internal/manager"
	"github.com/quantmind-br/emplace/internal/packages"
	"github.com/quantmind-br/emplace/internal/recognizer"
)

const bashHistory = `sudo apt install linux-perf-5.6
cargo flamegraph --example basic
sudo nvim /etc/sysctl.conf
fg
`

const bashTimestampedHistory = `#1610989542
sudo apt install   curl
#1610989543
sudo apt install curl
#1610989544
ls
`

const fishHistory = `- cmd: sudo apt install fzf
  when: 1575643236
- cmd: git commit -am "Commit message"
  when: 1575643236
- cmd: sudo apt -qq install meld
  when: 1575643236
`

// The second entry is not valid YAML.
const brokenFishHistory = `- cmd: sudo apt install fzf
  when: 1575643236
- cmd: echo key: value: other
  when: 1575643236
- cmd: npm install -g typescript
  when: 1575643236
`

const zshHistory = `: 1610989542:0;ls
: 1610989544:0;echo $HISTFILE
: 1610989549:0;cat  $HISTFILE
: 1610989572:0;sudo apt install test
: 1610989577:0;cargo install test
: 1610989583:0;cat  $HISTFILE
: 1610989600:0;nvim .zsh_history
`

func TestDetect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data string
		want Format
	}{
		{"bash", bashHistory, FormatBash},
		{"bash timestamps", bashTimestampedHistory, FormatBash},
		{"fish", fishHistory, FormatFish},
		{"zsh", zshHistory, FormatZsh},
		{"empty", "", FormatBash},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Detect([]byte(tt.data)))
		})
	}
}

func TestFormat_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "bash", FormatBash.String())
	assert.Equal(t, "zsh", FormatZsh.String())
	assert.Equal(t, "fish", FormatFish.String())
}

func TestLines(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data string
		want []string
	}{
		{
			name: "zsh strips metadata and dedupes",
			data: zshHistory,
			want: []string{
				"cargo install test",
				"cat $HISTFILE",
				"echo $HISTFILE",
				"ls",
				"nvim .zsh_history",
				"sudo apt install test",
			},
		},
		{
			name: "bash drops timestamps",
			data: bashTimestampedHistory,
			want: []string{"ls", "sudo apt install curl"},
		},
		{
			name: "fish yaml",
			data: fishHistory,
			want: []string{
				`git commit -am "Commit message"`,
				"sudo apt -qq install meld",
				"sudo apt install fzf",
			},
		},
		{
			name: "fish fallback",
			data: brokenFishHistory,
			want: []string{
				"echo key: value: other",
				"npm install -g typescript",
				"sudo apt install fzf",
			},
		},
		{
			name: "blank lines",
			data: "\n   \n\t\n",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Lines(strings.NewReader(tt.data))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPackages(t *testing.T) {
	t.Parallel()

	rec := recognizer.New(manager.PlatformUnix)

	tests := []struct {
		name  string
		data  string
		count int
	}{
		{"bash", bashHistory, 1},
		{"fish", fishHistory, 2},
		{"zsh", zshHistory, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines, err := Lines(strings.NewReader(tt.data))
			require.NoError(t, err)
			assert.Len(t, Packages(rec, lines), tt.count)
		})
	}
}

func TestPackages_SplitsChainedCommands(t *testing.T) {
	t.Parallel()

	rec := recognizer.New(manager.PlatformUnix)
	got := Packages(rec, []string{"sudo apt install curl && npm install -g typescript"})

	assert.Equal(t, packages.Set{
		packages.New(manager.Apt, "curl", nil),
		packages.New(manager.Npm, "typescript", nil),
	}, got)
}

func TestLines_LongLines(t *testing.T) {
	t.Parallel()

	long := "echo " + strings.Repeat("x", 2<<20)
	rec := recognizer.New(manager.PlatformUnix)

	tests := []struct {
		name   string
		data   string
		format Format
	}{
		{"bash", "sudo apt install early\n" + long + "\nsudo apt install curl\n", FormatBash},
		{"zsh", long + "\n: 1610989542:0;sudo apt install early\n: 1610989543:0;sudo apt install curl\n", FormatZsh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.format, Detect([]byte(tt.data)))

			lines, err := Lines(strings.NewReader(tt.data))
			require.NoError(t, err)
			assert.Equal(t, packages.Set{
				packages.New(manager.Apt, "curl", nil),
				packages.New(manager.Apt, "early", nil),
			}, Packages(rec, lines))
		})
	}
}

func TestReadFile(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/home/me/.zsh_history", []byte(zshHistory), 0600))

	lines, err := ReadFile(fs, "/home/me/.zsh_history")
	require.NoError(t, err)
	assert.Contains(t, lines, "cargo install test")

	_, err = ReadFile(fs, "/home/me/.missing")
	assert.Error(t, err)
}
