package security

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestValidatePackageToken(t *testing.T) {
	tests := []struct {
		name    string
		token   string
		wantErr bool
	}{
		{name: "simple", token: "ripgrep"},
		{name: "version pin", token: "test@1.2.3"},
		{name: "url", token: "https://test.com/test.git"},
		{name: "go module", token: "golang.org/x/tools/gopls@latest"},
		{name: "nix attribute", token: "nixos.test"},
		{name: "pip extras", token: "requests[socks]"},
		{name: "empty", token: "", wantErr: true},
		{name: "command separator", token: "x;rm", wantErr: true},
		{name: "substitution", token: "$(id)", wantErr: true},
		{name: "backtick", token: "`id`", wantErr: true},
		{name: "quote", token: "x'y", wantErr: true},
		{name: "space", token: "a b", wantErr: true},
		{name: "null byte", token: "app\x00bad", wantErr: true},
		{name: "very long", token: strings.Repeat("a", 2000), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePackageToken(tt.token)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePackageToken(%q) error = %v, wantErr %v", tt.token, err, tt.wantErr)
			}
		})
	}
}

func TestValidateCommandArg(t *testing.T) {
	tests := []struct {
		arg     string
		wantErr bool
	}{
		{arg: "master"},
		{arg: "feature/x"},
		{arg: "--upload-pack=evil", wantErr: true},
		{arg: "a;b", wantErr: true},
		{arg: "a\nb", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			err := ValidateCommandArg(tt.arg)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateCommandArg(%q) error = %v, wantErr %v", tt.arg, err, tt.wantErr)
			}
		})
	}
}

func TestValidateRepoURL(t *testing.T) {
	tests := []struct {
		url     string
		wantErr bool
	}{
		{url: "https://github.com/me/mirror.git"},
		{url: "ssh://git@example.com/me/mirror.git"},
		{url: "git@github.com:me/mirror.git"},
		{url: "file:///srv/git/mirror.git"},
		{url: "", wantErr: true},
		{url: "   ", wantErr: true},
		{url: "https://", wantErr: true},
		{url: "ftp://example.com/x.git", wantErr: true},
		{url: "-oProxyCommand=evil", wantErr: true},
		{url: "https://example.com/$(id)", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			err := ValidateRepoURL(tt.url)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRepoURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			}
		})
	}
}

func TestValidateRepoPath(t *testing.T) {
	repo := t.TempDir()

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{name: "file", path: "bashrc"},
		{name: "nested", path: "config/nvim/init.lua"},
		{name: "dot file", path: ".gitconfig"},
		{name: "cleaned inside", path: "a/../b"},
		{name: "empty", path: "", wantErr: true},
		{name: "traversal", path: "../outside", wantErr: true},
		{name: "absolute", path: filepath.Join(repo, "x"), wantErr: true},
		{name: "repo itself", path: ".", wantErr: true},
		{name: "git dir", path: ".git/config", wantErr: true},
		{name: "null byte", path: "a\x00b", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRepoPath(repo, tt.path)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRepoPath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
		})
	}
}

func TestIsPathWithinDirectory(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		directory  string
		wantResult bool
		wantErr    bool
	}{
		{
			name:       "file within directory",
			path:       "/home/user/app/file.txt",
			directory:  "/home/user/app",
			wantResult: true,
		},
		{
			name:       "file is the directory itself",
			path:       "/home/user/app",
			directory:  "/home/user/app",
			wantResult: true,
		},
		{
			name:       "file outside directory",
			path:       "/home/user/other/file.txt",
			directory:  "/home/user/app",
			wantResult: false,
		},
		{
			name:       "path traversal attempt",
			path:       "/home/user/app/../other/file.txt",
			directory:  "/home/user/app",
			wantResult: false,
		},
		{
			name:       "name starting with dots stays inside",
			path:       "/home/user/app/..hidden",
			directory:  "/home/user/app",
			wantResult: true,
		},
		{
			name:       "relative path within",
			path:       "subdir/file.txt",
			directory:  "/home/user/app",
			wantResult: false, // relative paths not supported
			wantErr:    true,
		},
		{
			name:       "sibling directory",
			path:       "/home/user/other",
			directory:  "/home/user/app",
			wantResult: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := IsPathWithinDirectory(tt.path, tt.directory)
			if (err != nil) != tt.wantErr {
				t.Errorf("IsPathWithinDirectory() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && result != tt.wantResult {
				t.Errorf("IsPathWithinDirectory() = %v, want %v", result, tt.wantResult)
			}
		})
	}
}
