package client

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crowdwatch-cli/pkg/models"
)

func writeTempVideo(t *testing.T, size int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "footage.mp4")
	require.NoError(t, os.WriteFile(path, make([]byte, size), 0644))
	return path
}

func TestUploadVideoMultipart(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/analysis/upload", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, r.ParseMultipartForm(1<<20))

		assert.Equal(t, "10", r.FormValue("crowd_threshold"))
		assert.Equal(t, "3", r.FormValue("frame_skip"))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "footage.mp4", header.Filename)

		body, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.Len(t, body, 4096)

		writeJSON(w, http.StatusOK, models.UploadResponse{
			Message:    "Video uploaded successfully. Analysis started.",
			AnalysisID: "job-1",
			Filename:   header.Filename,
			Status:     models.AnalysisProcessing,
		})
	})

	c := newTestClient(t, mux)
	path := writeTempVideo(t, 4096)

	var progress []int
	// Defaults requested by passing zero values.
	resp, err := c.UploadVideo(path, 0, 0, func(percent int) {
		progress = append(progress, percent)
	})
	require.NoError(t, err)
	assert.Equal(t, "job-1", resp.AnalysisID)

	require.NotEmpty(t, progress)
	for i := 1; i < len(progress); i++ {
		assert.GreaterOrEqual(t, progress[i], progress[i-1], "progress regressed at event %d", i)
	}
	assert.Equal(t, 100, progress[len(progress)-1])
}

func TestUploadVideoRejectsUnsupportedExtension(t *testing.T) {
	// No server: the check happens before any request.
	c := New(ClientConfig{BaseURL: "http://127.0.0.1:1/api"})

	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("nope"), 0644))

	_, err := c.UploadVideo(path, 10, 3, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported video extension")
}

func TestUploadVideoPassesExplicitParams(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/analysis/upload", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "15", r.FormValue("crowd_threshold"))
		assert.Equal(t, "5", r.FormValue("frame_skip"))
		writeJSON(w, http.StatusOK, models.UploadResponse{AnalysisID: "job-2"})
	})

	c := newTestClient(t, mux)

	_, err := c.UploadVideo(writeTempVideo(t, 128), 15, 5, nil)
	require.NoError(t, err)
}

func TestListAnalyses(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/analysis/list", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, models.AnalysisListResponse{
			Total: 2,
			Analyses: []models.Analysis{
				{AnalysisID: "a", Status: models.AnalysisCompleted, TotalDetections: 4},
				{AnalysisID: "b", Status: models.AnalysisProcessing},
			},
		})
	})

	c := newTestClient(t, mux)

	analyses, err := c.ListAnalyses()
	require.NoError(t, err)
	require.Len(t, analyses, 2)
	assert.Equal(t, models.AnalysisCompleted, analyses[0].Status)
}

func TestGetAnalysisStatisticsTimelineCap(t *testing.T) {
	// The server returns at most 50 timeline entries but reports the
	// true incident count separately.
	timeline := make([]models.TimelineEntry, 50)
	for i := range timeline {
		timeline[i] = models.TimelineEntry{
			Type:      models.AlertFall,
			Timestamp: float64(i),
			Frame:     i * 3,
		}
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/analysis/statistics/job-1", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, models.AnalysisStatistics{
			AnalysisID: "job-1",
			Status:     models.AnalysisCompleted,
			VideoInfo: models.VideoInfo{
				Filename: "footage.mp4", Duration: 120.5, FPS: 30, TotalFrames: 3615, Resolution: "1920x1080",
			},
			Statistics:     models.DetectionStats{TotalFallDetections: 120},
			Timeline:       timeline,
			TotalIncidents: 120,
		})
	})

	c := newTestClient(t, mux)

	stats, err := c.GetAnalysisStatistics("job-1")
	require.NoError(t, err)
	assert.Len(t, stats.Timeline, 50)
	assert.Equal(t, 120, stats.TotalIncidents)
	assert.Greater(t, stats.TotalIncidents, len(stats.Timeline), "caller can detect truncation")

	for i := 1; i < len(stats.Timeline); i++ {
		assert.LessOrEqual(t, stats.Timeline[i-1].Timestamp, stats.Timeline[i].Timestamp)
	}
}

func TestDeleteAnalysis(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/analysis/job-1", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		writeJSON(w, http.StatusOK, models.AnalysisActionResponse{Message: "Analysis deleted successfully", AnalysisID: "job-1"})
	})

	c := newTestClient(t, mux)
	require.NoError(t, c.DeleteAnalysis("job-1"))
}
