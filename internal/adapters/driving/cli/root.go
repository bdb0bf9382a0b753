// Package cli implements the kbcat command-line interface.
package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/reliefkit/kbcat/internal/adapters/driven/catalog/csvfile"
	configfile "github.com/reliefkit/kbcat/internal/adapters/driven/config/file"
	"github.com/reliefkit/kbcat/internal/adapters/driven/extract"
	"github.com/reliefkit/kbcat/internal/adapters/driven/extract/docx"
	"github.com/reliefkit/kbcat/internal/adapters/driven/extract/pdf"
	journalsqlite "github.com/reliefkit/kbcat/internal/adapters/driven/journal/sqlite"
	"github.com/reliefkit/kbcat/internal/adapters/driven/llm/ollama"
	"github.com/reliefkit/kbcat/internal/core/ports/driven"
	"github.com/reliefkit/kbcat/internal/core/services"
	"github.com/reliefkit/kbcat/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// DefaultCatalogPath is the catalog location relative to the
// knowledge-base root.
const DefaultCatalogPath = "00_Governance/kb_catalog.csv"

// Global flags.
var (
	flagKBRoot  string
	flagCatalog string
	flagConfig  string
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:   "kbcat",
	Short: "Catalog a humanitarian knowledge base",
	Long: `kbcat keeps a CSV catalog synchronised with a directory tree of
documents, resolving descriptive metadata through a local Ollama model
with deterministic filename heuristics as a fallback.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(flagVerbose)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagKBRoot, "kb", "", "knowledge-base root directory (default: configured or current directory)")
	rootCmd.PersistentFlags().StringVar(&flagCatalog, "catalog", "", "catalog CSV path (default: <kb>/"+DefaultCatalogPath+")")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file path (default: ~/.kbcat/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable verbose diagnostics")
}

// Execute runs the CLI with the given build version.
func Execute(buildVersion string) error {
	if buildVersion != "" {
		version = buildVersion
	}
	return rootCmd.Execute()
}

// app bundles the wired collaborators for one command invocation.
type app struct {
	root         string
	config       driven.ConfigStore
	llm          driven.LLMService
	synchroniser *services.Synchroniser
	journal      driven.RunJournal
}

// newApp wires the services from flags and configuration.
// withJournal controls whether the SQLite journal is opened; read-only
// commands such as "changes" skip it.
func newApp(withJournal bool) (*app, error) {
	cfg, err := configfile.NewConfigStore(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	root := flagKBRoot
	if root == "" {
		root = cfg.GetString(configfile.KeyKBRoot)
	}
	if root == "" {
		if root, err = os.Getwd(); err != nil {
			return nil, err
		}
	}
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("knowledge base %s is not a directory", root)
	}

	catalogPath := flagCatalog
	if catalogPath == "" {
		catalogPath = cfg.GetString(configfile.KeyCatalogPath)
	}
	if catalogPath == "" {
		catalogPath = filepath.Join(root, filepath.FromSlash(DefaultCatalogPath))
	}

	timeout := time.Duration(cfg.GetInt(configfile.KeyOllamaTimeout)) * time.Second
	llm := ollama.New(ollama.Config{
		BaseURL: cfg.GetString(configfile.KeyOllamaURL),
		Model:   cfg.GetString(configfile.KeyOllamaModel),
		Timeout: timeout,
	})

	prompts, err := configfile.NewPromptStore("")
	if err != nil {
		return nil, err
	}

	catalog := csvfile.New(catalogPath)

	// The catalog lives inside the tree it describes; keep it out of
	// the eligible set.
	var exclude []string
	if rel, err := filepath.Rel(root, catalogPath); err == nil {
		exclude = append(exclude, filepath.ToSlash(rel))
	}
	detector := services.NewChangeDetector(root, cfg.GetStringSlice(configfile.KeyExtensions), exclude...)

	resolver := services.NewMetadataResolver(llm, prompts,
		cfg.GetInt(configfile.KeyMaxRetries),
		0)

	var journal driven.RunJournal
	if withJournal {
		store, err := journalsqlite.NewStore("")
		if err != nil {
			logger.Warn("journal unavailable: %v", err)
		} else {
			journal = store
		}
	}

	synchroniser := services.NewSynchroniser(services.SynchroniserConfig{
		Root:      root,
		Detector:  detector,
		Extractor: extract.NewRegistry(pdf.New(), docx.New()),
		Resolver:  resolver,
		Catalog:   catalog,
		Journal:   journal,
		TextLimit: cfg.GetInt(configfile.KeyTextLimit),
	})

	return &app{
		root:         root,
		config:       cfg,
		llm:          llm,
		synchroniser: synchroniser,
		journal:      journal,
	}, nil
}

// close releases the app's resources.
func (a *app) close() {
	if a.llm != nil {
		_ = a.llm.Close()
	}
	if a.journal != nil {
		_ = a.journal.Close()
	}
}
