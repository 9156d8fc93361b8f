// Package cli implements the workalloc console commands.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"workalloc/internal/config"
	"workalloc/internal/embedding"
	"workalloc/internal/explain"
	"workalloc/internal/logx"
	"workalloc/internal/pipeline"
	"workalloc/internal/semantic"
	"workalloc/internal/store"
)

var (
	dbPath   string
	cfgFile  string
	logLevel string
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "workalloc",
	Short: "Staffing and allocation console",
	Long:  "Assigns incoming work items to the best-available resource by specialty, availability, workload and priority. SQLite-backed, single binary.",
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Database path (default: $WORKALLOC_DB or ~/.workalloc/workalloc.db)")
	RootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Config file path (YAML)")
	RootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log verbosity (debug, info, warn, error, none)")
}

func loadConfig() *config.Config {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		exitErr("load config", err)
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	logx.Configure(cfg.LogLevel)
	return cfg
}

func openStore(cfg *config.Config) *store.SQLiteStore {
	s, err := store.NewSQLiteStore(cfg.DBPath)
	if err != nil {
		exitErr("open store", err)
	}
	return s
}

// newPipeline wires the pipeline with the configured collaborators.
func newPipeline(cfg *config.Config, s *store.SQLiteStore) *pipeline.Pipeline {
	var searcher semantic.Searcher
	if ix := semantic.NewIndex(s, embedding.New(cfg.Embedding)); ix != nil {
		searcher = ix
	}
	return pipeline.New(s, searcher, explain.New(cfg.Explainer))
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
