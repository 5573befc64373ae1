package cmd

import (
	"github.com/spf13/cobra"

	"github.com/campushq/analytics/internal/version"
)

func NewVersion() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Check the version info",
		RunE: func(cmd *cobra.Command, args []string) error {
			info := version.GetVersionInfo()
			cmd.Printf("analytics %s\n", info.Version)
			cmd.Printf("- commit: %s\n", info.CommitSHA)
			cmd.Printf("- os/type: %s\n", info.Os)
			cmd.Printf("- os/arch: %s\n", info.Arch)
			cmd.Printf("- go/version: %s\n", info.GoVersion)
			return nil
		},
	}
}
