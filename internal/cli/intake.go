package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"workalloc/internal/pipeline"
)

func init() {
	cmd := &cobra.Command{
		Use:   "intake",
		Short: "Create a new work item",
		Run:   runIntake,
	}

	cmd.Flags().StringP("type", "t", "", "Work type, e.g. MRI_Brain (required)")
	cmd.Flags().String("description", "", "Free-text description (required)")
	cmd.Flags().IntP("priority", "p", 0, "Priority 1-5 (required)")
	cmd.Flags().String("date", "", "Scheduled date, YYYY-MM-DD (required)")
	cmd.Flags().String("time", "", "Scheduled time, HH:MM or HH:MM:SS (required)")

	RootCmd.AddCommand(cmd)
}

func runIntake(cmd *cobra.Command, args []string) {
	workType, _ := cmd.Flags().GetString("type")
	description, _ := cmd.Flags().GetString("description")
	priority, _ := cmd.Flags().GetInt("priority")
	date, _ := cmd.Flags().GetString("date")
	clock, _ := cmd.Flags().GetString("time")

	cfg := loadConfig()
	s := openStore(cfg)
	defer s.Close()

	item, err := newPipeline(cfg, s).Intake(cmd.Context(), pipeline.IntakeParams{
		WorkType:    workType,
		Description: description,
		Priority:    priority,
		Date:        date,
		Time:        clock,
	})
	if err != nil {
		exitErr("intake", err)
	}

	b, _ := json.MarshalIndent(item, "", "  ")
	fmt.Println(string(b))
}
