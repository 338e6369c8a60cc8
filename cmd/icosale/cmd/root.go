package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/KSingh1980/ico-contracts/cmd/utils"
	"github.com/KSingh1980/ico-contracts/config"
)

var cfg *config.Config

var RootCmd = &cobra.Command{
	Use:   "icosale",
	Short: "Phased capital-commitment engine",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		v := viper.New()
		v.SetConfigFile(utils.GetIcosaleConfigPath())
		cfg = config.DefaultConfig()

		if err := v.ReadInConfig(); err != nil {
			panic(err)
		}

		if err := v.Unmarshal(cfg); err != nil {
			panic(err)
		}

		if err := cfg.Validate(); err != nil {
			panic(err)
		}
	},
}
