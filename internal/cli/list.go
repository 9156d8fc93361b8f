package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List work items",
		Run:   runList,
	}

	cmd.Flags().IntP("limit", "l", 25, "Max results")
	cmd.Flags().StringP("status", "s", "", "Filter by status (pending or assigned)")

	RootCmd.AddCommand(cmd)
}

func runList(cmd *cobra.Command, args []string) {
	limit, _ := cmd.Flags().GetInt("limit")
	status, _ := cmd.Flags().GetString("status")

	cfg := loadConfig()
	s := openStore(cfg)
	defer s.Close()

	items, err := newPipeline(cfg, s).List(cmd.Context(), limit, status)
	if err != nil {
		exitErr("list", err)
	}

	b, _ := json.MarshalIndent(items, "", "  ")
	fmt.Println(string(b))
}
