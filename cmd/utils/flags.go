package utils

import (
	"os"
	"path/filepath"
)

var (
	IcosaleHome   string
	IcosaleConfig string
)

func GetIcosaleHome() string {
	if IcosaleHome != "" {
		return IcosaleHome
	}

	home := os.Getenv("ICOSALEHOME")

	if home != "" {
		return home
	}

	return os.ExpandEnv(filepath.Join("$HOME", ".icosale"))
}

func GetIcosaleConfigPath() string {
	if IcosaleConfig != "" {
		return IcosaleConfig
	}

	return GetIcosaleHome() + "/config/config.toml"
}
