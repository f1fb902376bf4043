// Command contactd serves the contact form backend.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/webtailor/contactkit/pkg/config"
)

const serviceName = "contactd"

var envFiles []string

var rootCmd = &cobra.Command{
	Use:   serviceName,
	Short: "Contact form backend",
	Long: `contactd receives contact form posts, validates them, mails the site
owner and the submitter, and keeps an append-only log of every submission.

Configuration is read from the environment and optional .env files.`,
	SilenceUsage: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		if len(envFiles) == 0 {
			return nil
		}
		return config.LoadEnvFiles(envFiles...)
	},
}

func init() {
	rootCmd.PersistentFlags().StringSliceVar(&envFiles, "env-file", nil, "dotenv files to load before reading the environment")
	rootCmd.AddCommand(serveCmd, auditCmd)
	auditCmd.AddCommand(auditTailCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
