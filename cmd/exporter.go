package cmd

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/kardianos/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"crowdwatch-cli/internal/client"
	"crowdwatch-cli/pkg/models"
)

// Variables to hold flag values
var (
	expServer     string
	expPort       string
	expWindowDays int
	serviceAction string
)

// --- SERVICE WRAPPER ---

// program implements the kardianos/service interface
type program struct {
	exit   chan struct{}
	server *http.Server
	api    *client.Client
}

func (p *program) Start(s service.Service) error {
	// Start should not block. Do the actual work async.
	p.exit = make(chan struct{})
	go p.run()
	return nil
}

func (p *program) run() {
	registry := prometheus.NewRegistry()
	collector := &fleetCollector{api: p.api, windowDays: expWindowDays}
	registry.MustRegister(collector)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	mux := http.NewServeMux()
	mux.Handle("/metrics", handler)

	addr := fmt.Sprintf(":%s", expPort)
	p.server = &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	log.Info().Str("addr", addr).Msg("CrowdWatch exporter listening")

	if err := p.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error().Err(err).Msg("HTTP server error")
	}
}

func (p *program) Stop(s service.Service) error {
	// Stop should not block. Signal the app to stop.
	log.Info().Msg("Stopping service...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if p.server != nil {
		if err := p.server.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("Server forced to shutdown")
		}
	}
	close(p.exit)
	return nil
}

// --- COLLECTOR ---

type fleetCollector struct {
	api        *client.Client
	windowDays int
	mu         sync.Mutex
}

var (
	upDesc = prometheus.NewDesc(
		"crowdwatch_up", "Was the last scrape successful.", nil, nil,
	)
	scrapeDurationDesc = prometheus.NewDesc(
		"crowdwatch_scrape_duration_seconds", "Time taken to scrape the API.", nil, nil,
	)
	cameraUpDesc = prometheus.NewDesc(
		"crowdwatch_camera_up", "Camera is streaming (status=active).", []string{"id", "name", "location"}, nil,
	)
	cameraCountDesc = prometheus.NewDesc(
		"crowdwatch_cameras_total", "Total cameras grouped by status.", []string{"status"}, nil,
	)
	alertsTotalDesc = prometheus.NewDesc(
		"crowdwatch_alerts_total", "Alerts in the stats window grouped by type.", []string{"type"}, nil,
	)
	alertsTodayDesc = prometheus.NewDesc(
		"crowdwatch_alerts_today", "Alerts raised today.", nil, nil,
	)
	analysesCountDesc = prometheus.NewDesc(
		"crowdwatch_analyses_total", "Analysis jobs grouped by status.", []string{"status"}, nil,
	)
)

func (c *fleetCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- upDesc
	ch <- scrapeDurationDesc
	ch <- cameraUpDesc
	ch <- cameraCountDesc
	ch <- alertsTotalDesc
	ch <- alertsTodayDesc
	ch <- analysesCountDesc
}

func (c *fleetCollector) Collect(ch chan<- prometheus.Metric) {
	c.mu.Lock()
	defer c.mu.Unlock()
	start := time.Now()
	success := 1.0

	// 1. Cameras
	if cams, err := c.api.ListCameras(); err == nil {
		statusCounts := make(map[string]float64)
		for _, cam := range cams {
			isUp := 0.0
			if cam.Status == models.CameraActive {
				isUp = 1.0
			}
			location := cam.Location
			if location == "" {
				location = "unknown"
			}
			ch <- prometheus.MustNewConstMetric(cameraUpDesc, prometheus.GaugeValue, isUp,
				fmt.Sprintf("%d", cam.ID), cam.Name, location)

			st := string(cam.Status)
			if st == "" {
				st = "unknown"
			}
			statusCounts[st]++
		}
		for st, cnt := range statusCounts {
			ch <- prometheus.MustNewConstMetric(cameraCountDesc, prometheus.GaugeValue, cnt, st)
		}
	} else {
		success = 0.0
		log.Error().Err(err).Msg("Error scraping cameras")
	}

	// 2. Alert stats
	if stats, err := c.api.GetAlertStats(c.windowDays); err == nil {
		for alertType, count := range stats.AlertsByType {
			ch <- prometheus.MustNewConstMetric(alertsTotalDesc, prometheus.GaugeValue, float64(count), alertType)
		}
		ch <- prometheus.MustNewConstMetric(alertsTodayDesc, prometheus.GaugeValue, float64(stats.TodayAlerts))
	} else {
		success = 0.0
		log.Error().Err(err).Msg("Error scraping alert stats")
	}

	// 3. Analyses
	if analyses, err := c.api.ListAnalyses(); err == nil {
		statusCounts := make(map[string]float64)
		for _, a := range analyses {
			st := string(a.Status)
			if st == "" {
				st = "unknown"
			}
			statusCounts[st]++
		}
		for st, cnt := range statusCounts {
			ch <- prometheus.MustNewConstMetric(analysesCountDesc, prometheus.GaugeValue, cnt, st)
		}
	} else {
		success = 0.0
		log.Error().Err(err).Msg("Error scraping analyses")
	}

	ch <- prometheus.MustNewConstMetric(upDesc, prometheus.GaugeValue, success)
	ch <- prometheus.MustNewConstMetric(scrapeDurationDesc, prometheus.GaugeValue, time.Since(start).Seconds())
}

// --- COMMAND ---

var exporterCmd = &cobra.Command{
	Use:   "exporter",
	Short: "Start Prometheus exporter service",
	Long: `Starts a long-running HTTP server that exposes fleet metrics.
Can be installed as a system service.`,
	Run: func(cmd *cobra.Command, args []string) {
		base := strings.TrimRight(expServer, "/")
		if base == "" {
			base = client.DefaultBaseURL
		}

		svcConfig := &service.Config{
			Name:        "crowdwatch-exporter",
			DisplayName: "CrowdWatch Prometheus Exporter",
			Description: "Exposes CrowdWatch fleet metrics to Prometheus",
			Arguments: []string{
				"exporter",
				"--api", base,
				"--port", expPort,
			},
		}

		prg := &program{
			api: client.New(client.ClientConfig{BaseURL: base}),
		}

		s, err := service.New(prg, svcConfig)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create service")
		}

		// Handle service control actions (install, start, stop, uninstall)
		if serviceAction != "" {
			if err := service.Control(s, serviceAction); err != nil {
				log.Fatal().Err(err).Str("action", serviceAction).Msg("Service control failed")
			}
			fmt.Printf("Service action '%s' completed successfully.\n", serviceAction)
			return
		}

		// Run the service (blocking). This happens when the service
		// manager starts the binary, or when run interactively.
		if err = s.Run(); err != nil {
			log.Error().Err(err).Msg("Service exited with error")
		}
	},
}

func init() {
	rootCmd.AddCommand(exporterCmd)
	exporterCmd.Flags().StringVar(&expServer, "api", "", "API base URL")
	exporterCmd.Flags().StringVar(&expPort, "port", "9170", "Port to listen on")
	exporterCmd.Flags().IntVar(&expWindowDays, "days", 7, "Alert stats window in days")
	exporterCmd.Flags().StringVar(&serviceAction, "service", "", "Service action: install, uninstall, start, stop")
}
