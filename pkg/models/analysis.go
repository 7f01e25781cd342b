package models

// AnalysisStatus enumerates the lifecycle of a server-side analysis job.
// It only ever advances: pending -> processing -> completed|error.
type AnalysisStatus string

const (
	AnalysisPending    AnalysisStatus = "pending"
	AnalysisProcessing AnalysisStatus = "processing"
	AnalysisCompleted  AnalysisStatus = "completed"
	AnalysisError      AnalysisStatus = "error"
)

// Terminal reports whether no further status transition is expected.
func (s AnalysisStatus) Terminal() bool {
	return s == AnalysisCompleted || s == AnalysisError
}

// Rank orders statuses along the lifecycle so reconciliation can reject
// regressions from stale poll responses.
func (s AnalysisStatus) Rank() int {
	switch s {
	case AnalysisPending:
		return 0
	case AnalysisProcessing:
		return 1
	case AnalysisCompleted, AnalysisError:
		return 2
	}
	return -1
}

// UploadResponse is the accept payload of POST /analysis/upload.
type UploadResponse struct {
	Message    string         `json:"message"`
	AnalysisID string         `json:"analysis_id"`
	Filename   string         `json:"filename"`
	Status     AnalysisStatus `json:"status"`
}

// Analysis is one row of GET /analysis/list.
type Analysis struct {
	AnalysisID      string         `json:"analysis_id"`
	Filename        string         `json:"filename"`
	Duration        float64        `json:"duration"`
	Status          AnalysisStatus `json:"status"`
	CreatedAt       string         `json:"created_at"`
	TotalDetections int            `json:"total_detections"`
}

// AnalysisListResponse wraps GET /analysis/list.
type AnalysisListResponse struct {
	Total    int        `json:"total"`
	Analyses []Analysis `json:"analyses"`
}

// VideoInfo describes the source video of an analysis.
type VideoInfo struct {
	Filename    string  `json:"filename"`
	Duration    float64 `json:"duration"`
	FPS         float64 `json:"fps"`
	TotalFrames int     `json:"total_frames"`
	Resolution  string  `json:"resolution"`
}

// DetectionStats aggregates detection totals for one analysis.
type DetectionStats struct {
	TotalFallDetections    int `json:"total_fall_detections"`
	TotalLyingDetections   int `json:"total_lying_detections"`
	TotalPushingDetections int `json:"total_pushing_detections"`
	TotalCrowdDetections   int `json:"total_crowd_detections"`
	MaxPeopleDetected      int `json:"max_people_detected"`
	FramesProcessed        int `json:"frames_processed"`
}

// TimelineEntry is one detection event, offset from the start of the video.
type TimelineEntry struct {
	Type        AlertType `json:"type"`
	Timestamp   float64   `json:"timestamp"`
	Frame       int       `json:"frame"`
	Confidence  float64   `json:"confidence,omitempty"`
	PersonCount int       `json:"person_count,omitempty"`
}

// AnalysisStatistics is GET /analysis/statistics/{id}. The server caps
// Timeline at the first 50 incidents; TotalIncidents carries the true
// count so callers can indicate truncation.
type AnalysisStatistics struct {
	AnalysisID     string          `json:"analysis_id"`
	Status         AnalysisStatus  `json:"status"`
	VideoInfo      VideoInfo       `json:"video_info"`
	Statistics     DetectionStats  `json:"statistics"`
	Timeline       []TimelineEntry `json:"timeline"`
	TotalIncidents int             `json:"total_incidents"`
}

// AnalysisResults is GET /analysis/results/{id}: the raw stored document,
// detections keyed by type.
type AnalysisResults struct {
	AnalysisID  string                     `json:"analysis_id"`
	VideoInfo   VideoInfo                  `json:"video_info"`
	Detections  map[string][]TimelineEntry `json:"detections"`
	Statistics  DetectionStats             `json:"statistics"`
	Status      AnalysisStatus             `json:"status"`
	Progress    int                        `json:"progress"`
	CreatedAt   string                     `json:"created_at"`
	CompletedAt string                     `json:"completed_at,omitempty"`
}

// AnalysisActionResponse wraps DELETE /analysis/{id}.
type AnalysisActionResponse struct {
	Message    string `json:"message"`
	AnalysisID string `json:"analysis_id"`
}
