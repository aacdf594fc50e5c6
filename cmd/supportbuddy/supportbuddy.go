// Package supportbuddycmder
package supportbuddycmder

import (
	servecmder "github.com/supportbuddyx/supportbuddy/cmd/supportbuddy/serve"
	"github.com/spf13/cobra"
)

const supportbuddyLongDesc string = `SupportBuddy answers customer questions from your docs.

Run services using:
  supportbuddy serve    Run the HTTP API server

Point it at your documentation with POST /addUrl or /addSiteMap, then
ask questions with POST /askQuestion.`

const supportbuddyShortDesc string = "SupportBuddy - Docs Q&A Service"

func NewSupportBuddyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "supportbuddy",
		Short: supportbuddyShortDesc,
		Long:  supportbuddyLongDesc,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")

	// Add subcommands
	cmd.AddCommand(servecmder.NewServeCmd())

	return cmd
}
