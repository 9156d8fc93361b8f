package cli

import (
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"workalloc/internal/httpapi"
)

func init() {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Run:   runServe,
	}

	cmd.Flags().IntP("port", "p", 0, "Listen port (default from config, 8080)")

	RootCmd.AddCommand(cmd)
}

func runServe(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	if port, _ := cmd.Flags().GetInt("port"); port != 0 {
		cfg.Port = port
	}

	s := openStore(cfg)
	defer s.Close()

	handler := httpapi.New(newPipeline(cfg, s), s, cfg.AllowedOrigins)
	addr := fmt.Sprintf(":%d", cfg.Port)

	log.Info().Str("addr", addr).Str("db", cfg.DBPath).Msg("workalloc API listening")
	if err := http.ListenAndServe(addr, handler); err != nil {
		exitErr("serve", err)
	}
}
