package models

import "time"

// AlertType enumerates the detection categories raised by the backend.
type AlertType string

const (
	AlertFall    AlertType = "fall"
	AlertLying   AlertType = "lying"
	AlertPushing AlertType = "pushing"
	AlertCrowd   AlertType = "crowd"
)

// AlertTypes lists every filterable type, in display order.
var AlertTypes = []AlertType{AlertFall, AlertLying, AlertPushing, AlertCrowd}

// Alert is one derived safety alert. The embedded Camera is a snapshot
// taken at alert time, not a live link.
type Alert struct {
	ID                int       `json:"id"`
	CameraID          int       `json:"camera_id"`
	AlertType         AlertType `json:"alert_type"`
	Confidence        float64   `json:"confidence"`
	DetectionMetadata string    `json:"detection_metadata,omitempty"`
	ImagePath         string    `json:"image_path,omitempty"`
	VideoPath         string    `json:"video_path,omitempty"`
	Acknowledged      bool      `json:"acknowledged"`
	EmailSent         bool      `json:"email_sent"`
	CreatedAt         time.Time `json:"created_at"`
	Camera            *Camera   `json:"camera,omitempty"`
}

// AlertActionResponse wraps acknowledge/delete responses.
type AlertActionResponse struct {
	Message string `json:"message"`
	AlertID int    `json:"alert_id"`
}

// CameraAlertCount is one entry of the per-camera breakdown in the
// stats summary.
type CameraAlertCount struct {
	Camera string `json:"camera"`
	Count  int    `json:"count"`
}

// AlertStats is GET /alerts/stats/summary for the past N days.
type AlertStats struct {
	TotalAlerts    int                `json:"total_alerts"`
	TodayAlerts    int                `json:"today_alerts"`
	AlertsByType   map[string]int     `json:"alerts_by_type"`
	AlertsByCamera []CameraAlertCount `json:"alerts_by_camera"`
	PeriodDays     int                `json:"period_days"`
}
