package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KSingh1980/ico-contracts/version"
)

var Version = &cobra.Command{
	Use:   "version",
	Short: "Show the engine version",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(version.Version)
		return nil
	},
}
