package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"crowdwatch-cli/internal/client"
	"crowdwatch-cli/internal/config"
)

var cfgFile string
var jsonOutput bool
var serverURL string
var verbose bool

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "crowdwatch-cli",
	Short: "A CLI for the crowd-safety surveillance backend",
	Long: `Manage cameras, review safety alerts, and submit recorded footage
for asynchronous analysis against a CrowdWatch backend.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(func() {
		config.InitConfig(cfgFile)

		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
		if verbose {
			zerolog.SetGlobalLevel(zerolog.DebugLevel)
		} else {
			zerolog.SetGlobalLevel(zerolog.WarnLevel)
		}
	})

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.crowdwatch-cli.yaml)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output results as JSON")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "API base URL (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

// apiClient builds a client from the --server flag, the saved config, or
// the local default, in that order.
func apiClient() *client.Client {
	base := serverURL
	if base == "" {
		base = viper.GetString("base_url")
	}
	if base == "" {
		base = client.DefaultBaseURL
	}
	return client.New(client.ClientConfig{BaseURL: base})
}
