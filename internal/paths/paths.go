package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/quantmind-br/emplace/internal/config"
)

// Resolver centraliza caminhos padrão do emplace.
// Ele calcula diretórios base a partir de HOME e da configuração.
type Resolver struct {
	homeDir string
	cfg     *config.Config
}

// NewResolver cria um Resolver usando o HOME do usuário atual.
func NewResolver(cfg *config.Config) *Resolver {
	homeDir, _ := os.UserHomeDir()
	return &Resolver{
		homeDir: homeDir,
		cfg:     cfg,
	}
}

// NewResolverWithHome cria um Resolver com homeDir explícito (útil para testes).
func NewResolverWithHome(cfg *config.Config, homeDir string) *Resolver {
	return &Resolver{
		homeDir: homeDir,
		cfg:     cfg,
	}
}

// ExpandHome substitui um ~ inicial pelo HOME do Resolver.
func (r *Resolver) ExpandHome(path string) string {
	if path == "~" {
		return r.homeDir
	}
	if strings.HasPrefix(path, "~/") || strings.HasPrefix(path, `~\`) {
		return filepath.Join(r.homeDir, path[2:])
	}
	return path
}

// CollapseHome é o inverso de ExpandHome, usado ao gravar caminhos na configuração.
func (r *Resolver) CollapseHome(path string) string {
	if r.homeDir == "" {
		return path
	}
	rel, err := filepath.Rel(r.homeDir, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	if rel == "." {
		return "~"
	}
	return "~/" + filepath.ToSlash(rel)
}

// GetRepoDir retorna o diretório do repositório espelho.
// Por padrão: ~/.local/share/emplace, respeitando cfg.RepoDirectory se definido.
func (r *Resolver) GetRepoDir() string {
	if r.cfg != nil && r.cfg.RepoDirectory != "" {
		return r.ExpandHome(r.cfg.RepoDirectory)
	}
	return filepath.Join(r.homeDir, ".local", "share", "emplace")
}

// GetMirrorFile retorna o caminho do arquivo de pacotes dentro do repositório.
func (r *Resolver) GetMirrorFile() string {
	file := config.DefaultFile
	if r.cfg != nil && r.cfg.Repo.File != "" {
		file = r.cfg.Repo.File
	}
	return filepath.Join(r.GetRepoDir(), file)
}

// GetJournalFile retorna o banco de dados do histórico de eventos.
func (r *Resolver) GetJournalFile() string {
	if r.cfg != nil && r.cfg.Paths.JournalFile != "" {
		return r.ExpandHome(r.cfg.Paths.JournalFile)
	}
	return filepath.Join(r.stateDir(), "journal.db")
}

// GetLogFile retorna o arquivo de log.
func (r *Resolver) GetLogFile() string {
	if r.cfg != nil && r.cfg.Paths.LogFile != "" {
		return r.ExpandHome(r.cfg.Paths.LogFile)
	}
	return filepath.Join(r.stateDir(), "emplace.log")
}

// stateDir fica fora do repositório para não sujar a árvore de trabalho do git.
func (r *Resolver) stateDir() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "emplace")
	}
	return filepath.Join(r.homeDir, ".local", "state", "emplace")
}

// GetHistoryFiles retorna os históricos de shell conhecidos, na ordem bash, zsh, fish.
func (r *Resolver) GetHistoryFiles() []string {
	files := []string{
		filepath.Join(r.homeDir, ".bash_history"),
		filepath.Join(r.homeDir, ".zsh_history"),
	}
	if histFile := os.Getenv("HISTFILE"); histFile != "" {
		files = append([]string{r.ExpandHome(histFile)}, files...)
	}

	fishDir := filepath.Join(r.homeDir, ".local", "share")
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		fishDir = xdg
	}
	return append(files, filepath.Join(fishDir, "fish", "fish_history"))
}
