package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// configName is the dotfile kept in the user's home directory. Viper
// resolves the extension, so ".crowdwatch-cli.yaml" on disk.
const configName = ".crowdwatch-cli"

// InitConfig wires viper to the config file and matching environment
// variables. A missing file is fine: every setting has a flag or a
// default, and `connect` creates the file on first use.
func InitConfig(cfgFile string) {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(configName)
	}

	viper.AutomaticEnv()
	_ = viper.ReadInConfig()
}

// SaveServer persists the backend base URL so subsequent commands know
// where to connect. When no config file exists yet, one is created at
// the default home-directory path.
func SaveServer(baseURL string) error {
	viper.Set("base_url", baseURL)

	err := viper.WriteConfig()
	if err == nil {
		return nil
	}

	var notFound viper.ConfigFileNotFoundError
	if !errors.As(err, &notFound) {
		return err
	}

	if err := viper.SafeWriteConfig(); err == nil {
		return nil
	}

	// SafeWriteConfig needs a search path; when InitConfig could not
	// resolve the home directory earlier there is none, so name the
	// target file explicitly.
	home, err := os.UserHomeDir()
	if err != nil {
		return err
	}
	return viper.WriteConfigAs(filepath.Join(home, configName+".yaml"))
}
