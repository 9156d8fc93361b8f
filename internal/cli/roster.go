package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"workalloc/internal/store"
)

func init() {
	importCmd := &cobra.Command{
		Use:   "import-roster [file]",
		Short: "Import resources, calendar slots and specialty mappings",
		Long:  "Import a roster bundle from a JSON file or stdin. Expects the format produced by export-roster.",
		Args:  cobra.MaximumNArgs(1),
		Run:   runImportRoster,
	}
	RootCmd.AddCommand(importCmd)

	exportCmd := &cobra.Command{
		Use:   "export-roster",
		Short: "Export the roster as JSON",
		Run:   runExportRoster,
	}
	RootCmd.AddCommand(exportCmd)
}

func runImportRoster(cmd *cobra.Command, args []string) {
	var data []byte
	var err error
	if len(args) == 1 {
		data, err = os.ReadFile(args[0])
	} else {
		data, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		exitErr("read roster", err)
	}

	var bundle store.RosterBundle
	if err := json.Unmarshal(data, &bundle); err != nil {
		exitErr("parse json", err)
	}

	cfg := loadConfig()
	s := openStore(cfg)
	defer s.Close()

	resources, slots, mappings, err := s.ImportRoster(cmd.Context(), bundle)
	if err != nil {
		exitErr("import roster", err)
	}

	fmt.Printf(`{"ok":true,"resources":%d,"calendar_slots":%d,"mappings":%d}`+"\n",
		resources, slots, mappings)
}

func runExportRoster(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	s := openStore(cfg)
	defer s.Close()

	bundle, err := s.ExportRoster(cmd.Context())
	if err != nil {
		exitErr("export roster", err)
	}

	b, _ := json.MarshalIndent(bundle, "", "  ")
	fmt.Println(string(b))
}
