package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "assign <work-id>",
		Short: "Run the allocation pipeline and commit the best candidate",
		Args:  cobra.ExactArgs(1),
		Run:   runAssign,
	}

	cmd.Flags().Bool("verbose", false, "Include intermediate pipeline stages in the output")

	RootCmd.AddCommand(cmd)
}

func runAssign(cmd *cobra.Command, args []string) {
	verbose, _ := cmd.Flags().GetBool("verbose")

	cfg := loadConfig()
	s := openStore(cfg)
	defer s.Close()
	p := newPipeline(cfg, s)

	var out interface{}
	var err error
	if verbose {
		out, err = p.AssignVerbose(cmd.Context(), args[0])
	} else {
		out, err = p.Assign(cmd.Context(), args[0])
	}
	if err != nil {
		exitErr("assign", err)
	}

	b, _ := json.MarshalIndent(out, "", "  ")
	fmt.Println(string(b))
}
