package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"crowdwatch-cli/internal/poll"
	"crowdwatch-cli/internal/view"
	"crowdwatch-cli/pkg/models"
)

// dashboardCmd renders a live fleet overview, refreshed by three
// independent pollers. Cameras and aggregate stats refresh on the slow
// cadence, the job list on the fast one; all three stop on interrupt.
var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Live fleet overview",
	Run: func(cmd *cobra.Command, args []string) {
		api := apiClient()

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		cameras := view.NewCameraBoard()
		jobs := view.NewJobBoard()

		var mu sync.Mutex
		var stats *models.AlertStats

		render := func() {
			mu.Lock()
			defer mu.Unlock()

			fmt.Print("\033[H\033[2J")
			fmt.Println("CrowdWatch Dashboard")
			fmt.Println()

			counts := cameras.CountsByStatus()
			fmt.Printf("Cameras: %d active, %d connecting, %d inactive, %d error\n",
				counts[models.CameraActive],
				counts[models.CameraConnecting],
				counts[models.CameraInactive],
				counts[models.CameraError],
			)

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tLOCATION\tSTATUS")
			for _, cam := range cameras.Cameras() {
				status := string(cam.EffectiveStatus())
				if cam.PendingStatus != "" {
					status += " (pending)"
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", cam.ID, cam.Name, cam.Location, status)
			}
			w.Flush()

			if stats != nil {
				fmt.Printf("\nAlerts (%dd): %d total, %d today — ", stats.PeriodDays, stats.TotalAlerts, stats.TodayAlerts)
				for i, t := range models.AlertTypes {
					if i > 0 {
						fmt.Print(", ")
					}
					fmt.Printf("%s: %d", t, stats.AlertsByType[string(t)])
				}
				fmt.Println()
			}

			jobCounts := jobs.CountsByStatus()
			fmt.Printf("\nAnalyses: %d processing, %d pending, %d completed, %d error\n",
				jobCounts[models.AnalysisProcessing],
				jobCounts[models.AnalysisPending],
				jobCounts[models.AnalysisCompleted],
				jobCounts[models.AnalysisError],
			)

			fmt.Println("\nPress Ctrl-C to stop.")
		}

		cameraHandle := poll.Start(poll.StatsInterval, func(ctx context.Context) ([]models.Camera, error) {
			return api.ListCameras()
		}, func(list []models.Camera) {
			cameras.Merge(list)
			render()
		})
		defer cameraHandle.Stop()

		statsHandle := poll.Start(poll.StatsInterval, func(ctx context.Context) (*models.AlertStats, error) {
			return api.GetAlertStats(0)
		}, func(s *models.AlertStats) {
			mu.Lock()
			stats = s
			mu.Unlock()
			render()
		})
		defer statsHandle.Stop()

		jobHandle := poll.Start(poll.ListInterval, func(ctx context.Context) ([]models.Analysis, error) {
			return api.ListAnalyses()
		}, func(list []models.Analysis) {
			jobs.Merge(list)
			render()
		})
		defer jobHandle.Stop()

		<-ctx.Done()
	},
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}
