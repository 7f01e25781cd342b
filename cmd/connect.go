package cmd

import (
	"fmt"
	"log"
	"strings"

	"github.com/spf13/cobra"

	"crowdwatch-cli/internal/client"
	"crowdwatch-cli/internal/config"
)

var connectHost string

// connectCmd verifies a backend is reachable and persists its address.
var connectCmd = &cobra.Command{
	Use:   "connect",
	Short: "Point the CLI at a CrowdWatch backend",
	Long: `Checks the backend health endpoint and saves the base URL locally
so subsequent commands know where to connect.

Example:
  crowdwatch-cli connect --host "http://10.0.0.5:8001/api"`,
	Run: func(cmd *cobra.Command, args []string) {
		host := strings.TrimRight(connectHost, "/")

		fmt.Printf("Checking backend at %s...\n", host)

		api := client.New(client.ClientConfig{BaseURL: host})
		health, err := api.Health()
		if err != nil {
			log.Fatalf("Fatal: Backend unreachable: %v", err)
		}

		fmt.Printf("Backend healthy: %s\n", health)
		fmt.Println("Saving configuration...")

		if err := config.SaveServer(host); err != nil {
			log.Fatalf("Failed to save configuration file: %v", err)
		}

		fmt.Println("Server saved. You can now run commands like './crowdwatch-cli cameras list'.")
	},
}

func init() {
	rootCmd.AddCommand(connectCmd)

	connectCmd.Flags().StringVar(&connectHost, "host", client.DefaultBaseURL, "API Base URL (e.g. http://192.168.1.50:8001/api)")
}
