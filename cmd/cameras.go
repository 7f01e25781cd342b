package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"crowdwatch-cli/internal/client"
	"crowdwatch-cli/internal/poll"
	"crowdwatch-cli/internal/view"
	"crowdwatch-cli/pkg/models"
)

// Variables to hold flag values
var (
	camID         int
	camName       string
	camLocation   string
	camIP         string
	camRTSP       string
	camUser       string
	camPass       string
	camThreshold  int
	camDisabled   bool
	camSnapOutput string
	camWait       bool
)

// waitForCameraStatus tracks a camera after a start/stop request: the
// optimistic guess is shown immediately, then polls merge confirmed
// snapshots until the server reports the wanted status, an error status,
// or the timeout passes.
func waitForCameraStatus(api *client.Client, id int, guess, want models.CameraStatus, interval, timeout time.Duration) {
	board := view.NewCameraBoard()
	if cam, err := api.GetCamera(id); err == nil {
		board.Merge([]models.Camera{*cam})
	}
	board.MarkPending(id, guess)
	if e, ok := board.Get(id); ok {
		fmt.Printf("Status: %s (awaiting confirmation)\n", e.EffectiveStatus())
	}

	updates := make(chan models.CameraStatus, 8)
	handle := poll.Start(interval, func(ctx context.Context) ([]models.Camera, error) {
		return api.ListCameras()
	}, func(list []models.Camera) {
		board.Merge(list)
		if e, ok := board.Get(id); ok {
			select {
			case updates <- e.Status:
			default:
			}
		}
	})
	defer handle.Stop()

	deadline := time.After(timeout)
	var last models.CameraStatus
	for {
		select {
		case status := <-updates:
			if status != last {
				fmt.Printf("Status: %s\n", status)
				last = status
			}
			if status == want || status == models.CameraError {
				return
			}
		case <-deadline:
			fmt.Println("Timed out waiting for confirmation; check 'cameras get' later.")
			return
		}
	}
}

// Parent Command
var camerasCmd = &cobra.Command{
	Use:   "cameras",
	Short: "Manage cameras",
	Long:  `List, register, update, and control surveillance cameras.`,
}

var camerasListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all cameras",
	Run: func(cmd *cobra.Command, args []string) {
		api := apiClient()

		cameras, err := api.ListCameras()
		if err != nil {
			fmt.Printf("Error fetching cameras: %v\n", err)
			os.Exit(1)
		}

		if jsonOutput {
			printJSON(cameras)
			return
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tLOCATION\tSTATUS\tIP\tENABLED")
		fmt.Fprintln(w, "--\t----\t--------\t------\t--\t-------")

		for _, cam := range cameras {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%t\n",
				cam.ID,
				cam.Name,
				cam.Location,
				cam.Status,
				cam.IPAddress,
				cam.Enabled,
			)
		}
		w.Flush()
	},
}

var camerasGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Show one camera",
	Run: func(cmd *cobra.Command, args []string) {
		api := apiClient()

		cam, err := api.GetCamera(camID)
		if err != nil {
			fmt.Printf("Error fetching camera: %v\n", err)
			os.Exit(1)
		}

		if jsonOutput {
			printJSON(cam)
			return
		}

		fmt.Printf("Camera %d: %s\n", cam.ID, cam.Name)
		fmt.Printf("  Location:        %s\n", cam.Location)
		fmt.Printf("  IP Address:      %s\n", cam.IPAddress)
		fmt.Printf("  RTSP URL:        %s\n", cam.RTSPURL)
		fmt.Printf("  Crowd Threshold: %d\n", cam.CrowdThreshold)
		fmt.Printf("  Status:          %s\n", cam.Status)
		fmt.Printf("  Enabled:         %t\n", cam.Enabled)
	},
}

var camerasCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Register a new camera",
	Example: `  crowdwatch-cli cameras create --name "Entrance" --ip 10.0.0.20 \
    --rtsp "rtsp://10.0.0.20:554/stream" --location "North gate"`,
	Run: func(cmd *cobra.Command, args []string) {
		api := apiClient()

		enabled := !camDisabled
		cam, err := api.CreateCamera(models.CameraRequest{
			Name:           camName,
			Location:       camLocation,
			IPAddress:      camIP,
			RTSPURL:        camRTSP,
			Username:       camUser,
			Password:       camPass,
			CrowdThreshold: camThreshold,
			Enabled:        &enabled,
		})
		if err != nil {
			fmt.Printf("Error creating camera: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Camera created: %s (ID: %d)\n", cam.Name, cam.ID)
	},
}

var camerasUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update a camera",
	Long:  `Update a camera. Only the flags you set are sent to the server.`,
	Run: func(cmd *cobra.Command, args []string) {
		api := apiClient()

		req := models.CameraRequest{
			Name:           camName,
			Location:       camLocation,
			IPAddress:      camIP,
			RTSPURL:        camRTSP,
			Username:       camUser,
			Password:       camPass,
			CrowdThreshold: camThreshold,
		}
		if cmd.Flags().Changed("disabled") {
			enabled := !camDisabled
			req.Enabled = &enabled
		}

		cam, err := api.UpdateCamera(camID, req)
		if err != nil {
			fmt.Printf("Error updating camera: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Camera updated: %s (ID: %d)\n", cam.Name, cam.ID)
	},
}

var camerasDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete a camera",
	Run: func(cmd *cobra.Command, args []string) {
		api := apiClient()

		if err := api.DeleteCamera(camID); err != nil {
			fmt.Printf("Error deleting camera: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Camera %d deleted.\n", camID)
	},
}

var camerasStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start a camera stream",
	Long: `Requests a stream start. The call returns as soon as the server
accepts the transition; check 'cameras get' to observe the eventual status.`,
	Run: func(cmd *cobra.Command, args []string) {
		api := apiClient()

		result, err := api.StartCamera(camID)
		if err != nil {
			fmt.Printf("Error starting camera: %v\n", err)
			os.Exit(1)
		}

		fmt.Println(result.Message)

		if camWait {
			waitForCameraStatus(api, camID, models.CameraConnecting, models.CameraActive,
				2*time.Second, time.Minute)
		}
	},
}

var camerasStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop a camera stream",
	Run: func(cmd *cobra.Command, args []string) {
		api := apiClient()

		result, err := api.StopCamera(camID)
		if err != nil {
			fmt.Printf("Error stopping camera: %v\n", err)
			os.Exit(1)
		}

		fmt.Println(result.Message)

		if camWait {
			waitForCameraStatus(api, camID, models.CameraInactive, models.CameraInactive,
				2*time.Second, time.Minute)
		}
	},
}

var camerasSnapshotCmd = &cobra.Command{
	Use:     "snapshot",
	Short:   "Take a JPEG snapshot from a camera",
	Example: `  crowdwatch-cli cameras snapshot --id 3 --output "image.jpg"`,
	Run: func(cmd *cobra.Command, args []string) {
		api := apiClient()

		fmt.Printf("Requesting snapshot for camera %d...\n", camID)

		imgData, err := api.GetSnapshot(camID)
		if err != nil {
			fmt.Printf("Error getting snapshot: %v\n", err)
			os.Exit(1)
		}

		if err := os.WriteFile(camSnapOutput, imgData, 0644); err != nil {
			fmt.Printf("Error writing file: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Snapshot saved to %s\n", camSnapOutput)
	},
}

// printJSON writes v to stdout as indented JSON.
func printJSON(v interface{}) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Printf("Error encoding JSON: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(camerasCmd)

	camerasCmd.AddCommand(camerasListCmd)
	camerasCmd.AddCommand(camerasGetCmd)
	camerasCmd.AddCommand(camerasCreateCmd)
	camerasCmd.AddCommand(camerasUpdateCmd)
	camerasCmd.AddCommand(camerasDeleteCmd)
	camerasCmd.AddCommand(camerasStartCmd)
	camerasCmd.AddCommand(camerasStopCmd)
	camerasCmd.AddCommand(camerasSnapshotCmd)

	for _, c := range []*cobra.Command{camerasGetCmd, camerasUpdateCmd, camerasDeleteCmd, camerasStartCmd, camerasStopCmd, camerasSnapshotCmd} {
		c.Flags().IntVar(&camID, "id", 0, "ID of the camera")
		_ = c.MarkFlagRequired("id")
	}

	for _, c := range []*cobra.Command{camerasCreateCmd, camerasUpdateCmd} {
		c.Flags().StringVar(&camName, "name", "", "Display name")
		c.Flags().StringVar(&camLocation, "location", "", "Physical location")
		c.Flags().StringVar(&camIP, "ip", "", "Network address")
		c.Flags().StringVar(&camRTSP, "rtsp", "", "RTSP stream URL")
		c.Flags().StringVar(&camUser, "username", "", "Stream username")
		c.Flags().StringVar(&camPass, "password", "", "Stream password")
		c.Flags().IntVar(&camThreshold, "threshold", 0, "Crowd-size threshold (default 10)")
		c.Flags().BoolVar(&camDisabled, "disabled", false, "Register the camera disabled")
	}
	_ = camerasCreateCmd.MarkFlagRequired("name")
	_ = camerasCreateCmd.MarkFlagRequired("ip")
	_ = camerasCreateCmd.MarkFlagRequired("rtsp")

	for _, c := range []*cobra.Command{camerasStartCmd, camerasStopCmd} {
		c.Flags().BoolVar(&camWait, "wait", false, "Poll until the server confirms the transition")
	}

	camerasSnapshotCmd.Flags().StringVar(&camSnapOutput, "output", "snapshot.jpg", "Output filename")
}
