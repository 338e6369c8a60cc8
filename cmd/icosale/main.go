package main

import (
	"github.com/KSingh1980/ico-contracts/cmd/icosale/cmd"
	"github.com/KSingh1980/ico-contracts/cmd/utils"
)

func main() {
	rootCmd := cmd.RootCmd
	rootCmd.PersistentFlags().StringVar(&utils.IcosaleHome, "home-dir", "", "base dir (default is $HOME/.icosale)")
	rootCmd.PersistentFlags().StringVar(&utils.IcosaleConfig, "config", "", "path to config.toml")

	rootCmd.AddCommand(
		cmd.RunSale,
		cmd.Version)

	if err := cmd.RootCmd.Execute(); err != nil {
		panic(err)
	}
}
