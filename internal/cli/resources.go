package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"workalloc/internal/model"
	"workalloc/internal/timeutil"
)

func init() {
	resourcesCmd := &cobra.Command{
		Use:   "resources",
		Short: "List the resource roster",
		Run:   runResources,
	}
	RootCmd.AddCommand(resourcesCmd)

	onDutyCmd := &cobra.Command{
		Use:   "on-duty",
		Short: "Show resources on duty for a date",
		Run:   runOnDuty,
	}
	onDutyCmd.Flags().String("date", "", "Date to inspect, YYYY-MM-DD (required)")
	onDutyCmd.Flags().String("time", "", "Optional time filter, HH:MM")
	onDutyCmd.MarkFlagRequired("date")
	RootCmd.AddCommand(onDutyCmd)
}

func runResources(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	s := openStore(cfg)
	defer s.Close()

	resources, err := s.ListResources(cmd.Context())
	if err != nil {
		exitErr("resources", err)
	}

	b, _ := json.MarshalIndent(resources, "", "  ")
	fmt.Println(string(b))
}

func runOnDuty(cmd *cobra.Command, args []string) {
	date, _ := cmd.Flags().GetString("date")
	clock, _ := cmd.Flags().GetString("time")

	if _, err := timeutil.ParseDate(date); err != nil {
		exitErr("on-duty", err)
	}

	cfg := loadConfig()
	s := openStore(cfg)
	defer s.Close()

	entries, err := s.GetOnDuty(cmd.Context(), date)
	if err != nil {
		exitErr("on-duty", err)
	}

	if clock != "" {
		at, err := timeutil.ParseClock(clock)
		if err != nil {
			exitErr("on-duty", err)
		}
		var filtered []model.OnDutyEntry
		for _, e := range entries {
			inside, err := timeutil.WithinWindow(e.AvailableFrom, e.AvailableTo, at)
			if err == nil && inside {
				filtered = append(filtered, e)
			}
		}
		entries = filtered
	}

	b, _ := json.MarshalIndent(entries, "", "  ")
	fmt.Println(string(b))
}
