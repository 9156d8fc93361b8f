package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "status <work-id>",
		Short: "Show a work item",
		Args:  cobra.ExactArgs(1),
		Run:   runStatus,
	}

	RootCmd.AddCommand(cmd)
}

func runStatus(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	s := openStore(cfg)
	defer s.Close()

	item, err := newPipeline(cfg, s).Status(cmd.Context(), args[0])
	if err != nil {
		exitErr("status", err)
	}
	if item == nil {
		exitErr("status", fmt.Errorf("work item not found: %s", args[0]))
	}

	b, _ := json.MarshalIndent(item, "", "  ")
	fmt.Println(string(b))
}
