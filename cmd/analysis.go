package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"crowdwatch-cli/internal/poll"
	"crowdwatch-cli/internal/upload"
	"crowdwatch-cli/internal/view"
	"crowdwatch-cli/pkg/models"
)

var (
	anFile      string
	anID        string
	anThreshold int
	anFrameSkip int
	anWatch     bool
)

var analysisCmd = &cobra.Command{
	Use:   "analysis",
	Short: "Submit and inspect video analyses",
	Long:  `Upload recorded footage for asynchronous analysis and inspect the results.`,
}

var analysisUploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Upload a video for analysis",
	Example: `  crowdwatch-cli analysis upload --file footage.mp4
  crowdwatch-cli analysis upload --file footage.mp4 --threshold 15 --frame-skip 5 --watch`,
	Run: func(cmd *cobra.Command, args []string) {
		api := apiClient()

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		orchestrator := upload.New(api)
		events := orchestrator.Run(ctx, anFile, upload.Options{
			CrowdThreshold: anThreshold,
			FrameSkip:      anFrameSkip,
			OnAccepted: func(resp models.UploadResponse) {
				fmt.Printf("\nJob accepted: %s\n", resp.AnalysisID)
			},
		})

		for ev := range events {
			switch ev.State {
			case upload.Uploading:
				fmt.Printf("\rUploading... %3d%%", ev.Percent)
			case upload.Idle:
				fmt.Printf("\nUpload failed: %v\n", ev.Err)
				os.Exit(1)
			case upload.Queued:
				if !anWatch {
					fmt.Println("Run 'analysis list' to follow progress.")
					return
				}
				fmt.Println("Waiting for processing...")
			case upload.Processing:
				fmt.Println("Processing...")
			case upload.Completed:
				fmt.Printf("Analysis completed: %s (%d detections)\n", ev.Job.AnalysisID, ev.Job.TotalDetections)
				return
			case upload.Errored:
				fmt.Printf("Analysis failed server-side: %s\n", ev.Job.AnalysisID)
				os.Exit(1)
			}
		}
	},
}

var analysisListCmd = &cobra.Command{
	Use:   "list",
	Short: "List analysis jobs",
	Run: func(cmd *cobra.Command, args []string) {
		api := apiClient()

		analyses, err := api.ListAnalyses()
		if err != nil {
			fmt.Printf("Error fetching analyses: %v\n", err)
			os.Exit(1)
		}

		if jsonOutput {
			printJSON(analyses)
			return
		}

		printAnalysisTable(analyses)
	},
}

var analysisResultsCmd = &cobra.Command{
	Use:   "results",
	Short: "Show the raw results document for a job",
	Run: func(cmd *cobra.Command, args []string) {
		api := apiClient()

		results, err := api.GetAnalysisResults(anID)
		if err != nil {
			fmt.Printf("Error fetching results: %v\n", err)
			os.Exit(1)
		}

		printJSON(results)
	},
}

var analysisStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show summarized statistics for a completed job",
	Run: func(cmd *cobra.Command, args []string) {
		api := apiClient()

		stats, err := api.GetAnalysisStatistics(anID)
		if err != nil {
			fmt.Printf("Error fetching statistics: %v\n", err)
			os.Exit(1)
		}

		if jsonOutput {
			printJSON(stats)
			return
		}

		if stats.Status != models.AnalysisCompleted {
			fmt.Printf("Job %s is %s; statistics are incomplete until it completes.\n", stats.AnalysisID, stats.Status)
		}

		info := stats.VideoInfo
		fmt.Printf("Video: %s (%.1fs, %s @ %.1f fps)\n", info.Filename, info.Duration, info.Resolution, info.FPS)
		fmt.Printf("Frames processed: %d   Max people in frame: %d\n\n",
			stats.Statistics.FramesProcessed, stats.Statistics.MaxPeopleDetected)

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "TYPE\tDETECTIONS")
		fmt.Fprintln(w, "----\t----------")
		fmt.Fprintf(w, "fall\t%d\n", stats.Statistics.TotalFallDetections)
		fmt.Fprintf(w, "lying\t%d\n", stats.Statistics.TotalLyingDetections)
		fmt.Fprintf(w, "pushing\t%d\n", stats.Statistics.TotalPushingDetections)
		fmt.Fprintf(w, "crowd\t%d\n", stats.Statistics.TotalCrowdDetections)
		w.Flush()

		fmt.Printf("\nTimeline (%d incidents", stats.TotalIncidents)
		if stats.TotalIncidents > len(stats.Timeline) {
			fmt.Printf(", showing first %d", len(stats.Timeline))
		}
		fmt.Println("):")

		w = tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "OFFSET\tTYPE\tCONFIDENCE\tPEOPLE")
		for _, entry := range stats.Timeline {
			fmt.Fprintf(w, "%.1fs\t%s\t%.2f\t%d\n",
				entry.Timestamp, entry.Type, entry.Confidence, entry.PersonCount)
		}
		w.Flush()
	},
}

var analysisDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete an analysis",
	Run: func(cmd *cobra.Command, args []string) {
		api := apiClient()

		if err := api.DeleteAnalysis(anID); err != nil {
			fmt.Printf("Error deleting analysis: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Analysis %s deleted.\n", anID)
	},
}

var analysisWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow the analysis list until interrupted",
	Run: func(cmd *cobra.Command, args []string) {
		api := apiClient()

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		board := view.NewJobBoard()
		handle := poll.Start(poll.ListInterval, func(ctx context.Context) ([]models.Analysis, error) {
			return api.ListAnalyses()
		}, func(jobs []models.Analysis) {
			board.Merge(jobs)
			fmt.Print("\033[H\033[2J")
			printAnalysisTable(board.Jobs())
			fmt.Println("\nPress Ctrl-C to stop.")
		})
		defer handle.Stop()

		<-ctx.Done()
	},
}

func printAnalysisTable(analyses []models.Analysis) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tFILE\tSTATUS\tDURATION\tDETECTIONS\tCREATED")
	fmt.Fprintln(w, "--\t----\t------\t--------\t----------\t-------")
	for _, a := range analyses {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.1fs\t%d\t%s\n",
			a.AnalysisID,
			a.Filename,
			a.Status,
			a.Duration,
			a.TotalDetections,
			a.CreatedAt,
		)
	}
	w.Flush()
}

func init() {
	rootCmd.AddCommand(analysisCmd)

	analysisCmd.AddCommand(analysisUploadCmd)
	analysisCmd.AddCommand(analysisListCmd)
	analysisCmd.AddCommand(analysisResultsCmd)
	analysisCmd.AddCommand(analysisStatsCmd)
	analysisCmd.AddCommand(analysisDeleteCmd)
	analysisCmd.AddCommand(analysisWatchCmd)

	analysisUploadCmd.Flags().StringVar(&anFile, "file", "", "Video file to upload")
	analysisUploadCmd.Flags().IntVar(&anThreshold, "threshold", 0, "Crowd-size threshold (default 10)")
	analysisUploadCmd.Flags().IntVar(&anFrameSkip, "frame-skip", 0, "Process every Nth frame (default 3)")
	analysisUploadCmd.Flags().BoolVar(&anWatch, "watch", false, "Wait for the job to finish")
	_ = analysisUploadCmd.MarkFlagRequired("file")

	for _, c := range []*cobra.Command{analysisResultsCmd, analysisStatsCmd, analysisDeleteCmd} {
		c.Flags().StringVar(&anID, "id", "", "Analysis ID")
		_ = c.MarkFlagRequired("id")
	}
}
