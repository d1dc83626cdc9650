package security

import (
	"fmt"
	"net/url"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	// scpLikeURLRegex matches git remotes such as git@github.com:me/dotfiles.git
	scpLikeURLRegex = regexp.MustCompile(`^[A-Za-z0-9._-]+@[A-Za-z0-9.-]+:[A-Za-z0-9._~/-]+$`)

	// shellMetaChars are never valid inside a package token substituted into a script
	shellMetaChars = []string{
		";", "&", "|", "`", "$", "(", ")", "<", ">", "'", "\"", "\\", "\n", "\r", "\t", " ",
	}
)

// ValidatePackageToken validates a recognized package token before it is
// substituted into an installed-check script. Tokens may be URLs or carry
// version pins, so only shell metacharacters are rejected.
func ValidatePackageToken(token string) error {
	if token == "" {
		return fmt.Errorf("package name cannot be empty")
	}

	if len(token) > 1024 {
		return fmt.Errorf("package name too long (max 1024 characters)")
	}

	if strings.Contains(token, "\x00") {
		return fmt.Errorf("package name contains null byte")
	}

	for _, char := range shellMetaChars {
		if strings.Contains(token, char) {
			return fmt.Errorf("package name contains dangerous character: %q", char)
		}
	}

	return nil
}

// ValidateCommandArg validates a command-line argument for safety
func ValidateCommandArg(arg string) error {
	if strings.Contains(arg, "\x00") {
		return fmt.Errorf("argument contains null byte")
	}

	// Check for command injection patterns
	dangerousChars := []string{
		";", "&", "|", "`", "$", "(", ")", "<", ">", "\n", "\r",
	}

	for _, char := range dangerousChars {
		if strings.Contains(arg, char) {
			return fmt.Errorf("argument contains dangerous character: %s", char)
		}
	}

	if strings.HasPrefix(arg, "-") {
		return fmt.Errorf("argument must not start with a dash: %s", arg)
	}

	return nil
}

// ValidateRepoURL validates the URL of the mirror repository
func ValidateRepoURL(raw string) error {
	// 1. Rejeitar string vazia
	if strings.TrimSpace(raw) == "" {
		return fmt.Errorf("repository URL cannot be empty")
	}

	// 2. Argumentos perigosos para o git
	if err := ValidateCommandArg(raw); err != nil {
		return fmt.Errorf("invalid repository URL: %w", err)
	}

	// 3. Formato scp do git (user@host:path)
	if scpLikeURLRegex.MatchString(raw) {
		return nil
	}

	// 4. URLs com esquema
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid repository URL: %w", err)
	}
	switch u.Scheme {
	case "https", "http", "ssh", "git":
		if u.Host == "" {
			return fmt.Errorf("invalid repository URL: missing host")
		}
		return nil
	case "file":
		return nil
	default:
		return fmt.Errorf("unsupported repository URL scheme: %q", u.Scheme)
	}
}

// ValidateRepoPath prevents a path inside the mirror repository from
// escaping it. relPath must be relative.
func ValidateRepoPath(repoDir, relPath string) error {
	if relPath == "" {
		return fmt.Errorf("repository path cannot be empty")
	}

	if strings.Contains(relPath, "\x00") {
		return fmt.Errorf("repository path contains null byte")
	}

	cleanPath := filepath.Clean(relPath)
	if filepath.IsAbs(cleanPath) {
		return fmt.Errorf("absolute path not allowed: %s", relPath)
	}

	// .git belongs to git
	first := strings.Split(filepath.ToSlash(cleanPath), "/")[0]
	if first == ".git" {
		return fmt.Errorf("path inside .git not allowed: %s", relPath)
	}

	absRepo, err := filepath.Abs(repoDir)
	if err != nil {
		return fmt.Errorf("failed to resolve repository directory: %w", err)
	}

	within, err := IsPathWithinDirectory(filepath.Join(absRepo, cleanPath), absRepo)
	if err != nil {
		return err
	}
	if !within || filepath.Join(absRepo, cleanPath) == absRepo {
		return fmt.Errorf("path escapes repository: %s", relPath)
	}

	return nil
}

// IsPathWithinDirectory checks if a target path is within a given base directory
// Parameters:
//   - targetPath: the file/directory path to check (e.g., "/home/user/app/file.txt")
//   - basePath: the base directory to check against (e.g., "/home/user/app")
//
// Returns:
//   - bool: true if targetPath is within basePath
//   - error: non-nil if paths cannot be resolved or if relative paths are used
func IsPathWithinDirectory(targetPath, basePath string) (bool, error) {
	// 1. Validar que ambos os caminhos são absolutos
	if !filepath.IsAbs(targetPath) {
		return false, fmt.Errorf("target path must be absolute, got relative path: %s", targetPath)
	}
	if !filepath.IsAbs(basePath) {
		return false, fmt.Errorf("base path must be absolute, got relative path: %s", basePath)
	}

	// 2. Limpar e normalizar ambos os caminhos
	cleanBase := filepath.Clean(basePath)
	cleanTarget := filepath.Clean(targetPath)

	// 3. Verificar se target começa com base
	rel, err := filepath.Rel(cleanBase, cleanTarget)
	if err != nil {
		return false, fmt.Errorf("failed to compute relative path: %w", err)
	}

	// 4. Se rel começa com "..", o target está fora do base
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return false, nil
	}

	// 5. Se rel é ".", o target é exatamente o base (considerado "dentro")
	return true, nil
}
