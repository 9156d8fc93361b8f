package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"workalloc/internal/embedding"
	"workalloc/internal/semantic"
)

func init() {
	cmd := &cobra.Command{
		Use:   "reindex",
		Short: "Rebuild the semantic candidate index",
		Long:  "Embed every resource profile and persist the vectors used for semantic candidate expansion. Requires an embedding provider in the config.",
		Run:   runReindex,
	}

	RootCmd.AddCommand(cmd)
}

func runReindex(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	s := openStore(cfg)
	defer s.Close()

	ix := semantic.NewIndex(s, embedding.New(cfg.Embedding))
	if ix == nil {
		exitErr("reindex", fmt.Errorf("no embedding provider configured"))
	}

	n, err := ix.Reindex(cmd.Context())
	if err != nil {
		exitErr("reindex", err)
	}

	fmt.Printf(`{"ok":true,"indexed":%d}`+"\n", n)
}
