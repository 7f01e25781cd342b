package client

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"crowdwatch-cli/pkg/models"
)

// DefaultFrameSkip processes every 3rd frame, the backend default.
const DefaultFrameSkip = 3

// allowedVideoExts mirrors the backend's upload allowlist. Checking here
// saves shipping a rejected file over the wire; the server stays the
// authority on codecs.
var allowedVideoExts = map[string]bool{
	".mp4": true,
	".avi": true,
	".mov": true,
	".mkv": true,
	".flv": true,
	".wmv": true,
}

// ValidVideoExt reports whether the filename carries an accepted video
// container extension.
func ValidVideoExt(filename string) bool {
	return allowedVideoExts[strings.ToLower(filepath.Ext(filename))]
}

// ProgressFunc receives upload progress as a percentage in [0,100].
// Values are monotonically non-decreasing for a single upload.
type ProgressFunc func(percent int)

// progressReader counts bytes pulled from the wrapped reader and reports
// whole-percent steps. Repeated or regressing values are suppressed.
type progressReader struct {
	r     io.Reader
	total int64
	read  int64
	fn    ProgressFunc
	last  int
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	p.read += int64(n)
	if p.fn != nil && p.total > 0 {
		pct := int(p.read * 100 / p.total)
		if pct > 100 {
			pct = 100
		}
		if pct > p.last {
			p.last = pct
			p.fn(pct)
		}
	}
	return n, err
}

// UploadVideo submits a recorded video for asynchronous analysis and
// returns the server's accept response. The job's subsequent lifecycle
// (pending -> processing -> completed|error) is observed by polling
// ListAnalyses, never by this call.
func (c *Client) UploadVideo(path string, crowdThreshold, frameSkip int, progress ProgressFunc) (*models.UploadResponse, error) {
	if !ValidVideoExt(path) {
		return nil, fmt.Errorf("unsupported video extension %q", filepath.Ext(path))
	}
	if crowdThreshold < 1 {
		crowdThreshold = DefaultCrowdThreshold
	}
	if frameSkip < 1 {
		frameSkip = DefaultFrameSkip
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}

	reader := &progressReader{r: f, total: info.Size(), fn: progress}

	var result models.UploadResponse

	resp, err := c.HTTP.R().
		SetFileReader("file", filepath.Base(path), reader).
		SetFormData(map[string]string{
			"crowd_threshold": strconv.Itoa(crowdThreshold),
			"frame_skip":      strconv.Itoa(frameSkip),
		}).
		SetResult(&result).
		Post("/analysis/upload")

	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}

	return &result, nil
}

// ListAnalyses fetches every known analysis job.
func (c *Client) ListAnalyses() ([]models.Analysis, error) {
	var result models.AnalysisListResponse

	resp, err := c.HTTP.R().
		SetResult(&result).
		Get("/analysis/list")

	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}

	return result.Analyses, nil
}

// GetAnalysisResults fetches the raw stored analysis document.
func (c *Client) GetAnalysisResults(id string) (*models.AnalysisResults, error) {
	var results models.AnalysisResults

	resp, err := c.HTTP.R().
		SetResult(&results).
		Get("/analysis/results/" + id)

	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}

	return &results, nil
}

// GetAnalysisStatistics fetches the summarized result of a completed job:
// video metadata, per-type totals and the incident timeline. The server
// caps the timeline at 50 entries; TotalIncidents carries the full count.
// Meaningful only once the job reports completed.
func (c *Client) GetAnalysisStatistics(id string) (*models.AnalysisStatistics, error) {
	var stats models.AnalysisStatistics

	resp, err := c.HTTP.R().
		SetResult(&stats).
		Get("/analysis/statistics/" + id)

	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}

	return &stats, nil
}

// DeleteAnalysis removes a stored analysis.
func (c *Client) DeleteAnalysis(id string) error {
	resp, err := c.HTTP.R().
		Delete("/analysis/" + id)

	if err != nil {
		return err
	}
	if resp.IsError() {
		return apiError(resp)
	}

	return nil
}
