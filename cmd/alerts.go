package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"crowdwatch-cli/internal/client"
	"crowdwatch-cli/pkg/models"
)

var (
	alertID        int
	alertType      string
	alertCameraID  int
	alertUnacked   bool
	alertLimit     int
	alertStatsDays int
)

var alertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "Review safety alerts",
	Long:  `List, acknowledge, and delete alerts raised by the detection backend.`,
}

// buildAlertFilter translates the list flags into a filter. "all" (the
// flag default) means no type predicate; unacked narrows to
// acknowledged=false only when actually requested.
func buildAlertFilter(alertType string, cameraID int, unacked bool, limit int) client.AlertFilter {
	filter := client.AlertFilter{
		CameraID: cameraID,
		Limit:    limit,
	}
	if alertType != "" && alertType != "all" {
		filter.Type = models.AlertType(alertType)
	}
	if unacked {
		acked := false
		filter.Acknowledged = &acked
	}
	return filter
}

var alertsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List alerts",
	Example: `  crowdwatch-cli alerts list --type fall
  crowdwatch-cli alerts list --camera 3 --unacked`,
	Run: func(cmd *cobra.Command, args []string) {
		api := apiClient()

		alerts, err := api.ListAlerts(buildAlertFilter(alertType, alertCameraID, alertUnacked, alertLimit))
		if err != nil {
			fmt.Printf("Error fetching alerts: %v\n", err)
			os.Exit(1)
		}

		if jsonOutput {
			printJSON(alerts)
			return
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "ID\tTYPE\tCONFIDENCE\tCAMERA\tTIME\tACKED")
		fmt.Fprintln(w, "--\t----\t----------\t------\t----\t-----")

		for _, a := range alerts {
			cameraName := fmt.Sprintf("#%d", a.CameraID)
			if a.Camera != nil {
				cameraName = a.Camera.Name
			}
			fmt.Fprintf(w, "%d\t%s\t%.2f\t%s\t%s\t%t\n",
				a.ID,
				a.AlertType,
				a.Confidence,
				cameraName,
				a.CreatedAt.Format("2006-01-02 15:04:05"),
				a.Acknowledged,
			)
		}
		w.Flush()
	},
}

var alertsGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Show one alert",
	Run: func(cmd *cobra.Command, args []string) {
		api := apiClient()

		alert, err := api.GetAlert(alertID)
		if err != nil {
			fmt.Printf("Error fetching alert: %v\n", err)
			os.Exit(1)
		}

		if jsonOutput {
			printJSON(alert)
			return
		}

		fmt.Printf("Alert %d: %s (confidence %.2f)\n", alert.ID, alert.AlertType, alert.Confidence)
		if alert.Camera != nil {
			fmt.Printf("  Camera:       %s (%s)\n", alert.Camera.Name, alert.Camera.Location)
		}
		fmt.Printf("  Raised:       %s\n", alert.CreatedAt.Format("2006-01-02 15:04:05"))
		fmt.Printf("  Acknowledged: %t\n", alert.Acknowledged)
		if alert.ImagePath != "" {
			fmt.Printf("  Image:        %s\n", alert.ImagePath)
		}
	},
}

var alertsAckCmd = &cobra.Command{
	Use:   "ack",
	Short: "Acknowledge an alert",
	Long:  `Marks an alert acknowledged. Acknowledging an already-acknowledged alert is a no-op.`,
	Run: func(cmd *cobra.Command, args []string) {
		api := apiClient()

		if err := api.AcknowledgeAlert(alertID); err != nil {
			fmt.Printf("Error acknowledging alert: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Alert %d acknowledged.\n", alertID)
	},
}

var alertsDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete an alert",
	Run: func(cmd *cobra.Command, args []string) {
		api := apiClient()

		if err := api.DeleteAlert(alertID); err != nil {
			fmt.Printf("Error deleting alert: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Alert %d deleted.\n", alertID)
	},
}

var alertsStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show alert statistics",
	Run: func(cmd *cobra.Command, args []string) {
		api := apiClient()

		stats, err := api.GetAlertStats(alertStatsDays)
		if err != nil {
			fmt.Printf("Error fetching stats: %v\n", err)
			os.Exit(1)
		}

		if jsonOutput {
			printJSON(stats)
			return
		}

		fmt.Printf("Alerts over the past %d days\n", stats.PeriodDays)
		fmt.Printf("  Total: %d    Today: %d\n\n", stats.TotalAlerts, stats.TodayAlerts)

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "TYPE\tCOUNT")
		fmt.Fprintln(w, "----\t-----")
		for _, t := range models.AlertTypes {
			fmt.Fprintf(w, "%s\t%d\n", t, stats.AlertsByType[string(t)])
		}
		w.Flush()

		if len(stats.AlertsByCamera) > 0 {
			fmt.Println()
			w = tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "CAMERA\tCOUNT")
			fmt.Fprintln(w, "------\t-----")
			for _, c := range stats.AlertsByCamera {
				fmt.Fprintf(w, "%s\t%d\n", c.Camera, c.Count)
			}
			w.Flush()
		}
	},
}

func init() {
	rootCmd.AddCommand(alertsCmd)

	alertsCmd.AddCommand(alertsListCmd)
	alertsCmd.AddCommand(alertsGetCmd)
	alertsCmd.AddCommand(alertsAckCmd)
	alertsCmd.AddCommand(alertsDeleteCmd)
	alertsCmd.AddCommand(alertsStatsCmd)

	alertsListCmd.Flags().StringVar(&alertType, "type", "all", "Filter by type: fall, lying, pushing, crowd, or all")
	alertsListCmd.Flags().IntVar(&alertCameraID, "camera", 0, "Filter by camera ID")
	alertsListCmd.Flags().BoolVar(&alertUnacked, "unacked", false, "Show only unacknowledged alerts")
	alertsListCmd.Flags().IntVar(&alertLimit, "limit", 0, "Maximum number of alerts to fetch")

	for _, c := range []*cobra.Command{alertsGetCmd, alertsAckCmd, alertsDeleteCmd} {
		c.Flags().IntVar(&alertID, "id", 0, "ID of the alert")
		_ = c.MarkFlagRequired("id")
	}

	alertsStatsCmd.Flags().IntVar(&alertStatsDays, "days", 7, "Stats window in days")
}
