package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/webtailor/contactkit/pkg/audit"
	"github.com/webtailor/contactkit/pkg/config"
	"github.com/webtailor/contactkit/svc/contact"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Inspect the contact submission log",
}

var (
	tailLines  int
	tailFile   string
	tailPretty bool
)

var auditTailCmd = &cobra.Command{
	Use:   "tail",
	Short: "Print the most recent submissions",
	RunE: func(cmd *cobra.Command, _ []string) error {
		path := tailFile
		if path == "" {
			var cfg contact.Config
			if err := config.Load(&cfg); err != nil {
				return err
			}
			path = cfg.AuditLogPath
		}

		records, err := audit.NewJournal[contact.AuditRecord](path).Tail(cmd.Context(), tailLines)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetEscapeHTML(false)
		if tailPretty {
			enc.SetIndent("", "  ")
		}
		for _, rec := range records {
			if err := enc.Encode(rec); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	auditTailCmd.Flags().IntVarP(&tailLines, "lines", "n", 10, "number of records to print")
	auditTailCmd.Flags().StringVarP(&tailFile, "file", "f", "", "journal path (default CONTACT_AUDIT_LOG_PATH)")
	auditTailCmd.Flags().BoolVar(&tailPretty, "pretty", false, "indent output")
}
