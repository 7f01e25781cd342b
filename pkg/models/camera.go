package models

// CameraStatus is server-authoritative. The client never writes it directly;
// start/stop only request a transition and the next poll reports the truth.
type CameraStatus string

const (
	CameraInactive   CameraStatus = "inactive"
	CameraConnecting CameraStatus = "connecting"
	CameraActive     CameraStatus = "active"
	CameraError      CameraStatus = "error"
)

// Camera represents a single surveillance source as returned by the API.
type Camera struct {
	ID             int          `json:"id"`
	Name           string       `json:"name"`
	Location       string       `json:"location,omitempty"`
	IPAddress      string       `json:"ip_address"`
	RTSPURL        string       `json:"rtsp_url"`
	Username       string       `json:"username,omitempty"`
	Password       string       `json:"password,omitempty"`
	CrowdThreshold int          `json:"crowd_threshold"`
	Enabled        bool         `json:"enabled"`
	Status         CameraStatus `json:"status"`
	CreatedAt      string       `json:"created_at"`
	UpdatedAt      string       `json:"updated_at"`
}

// CameraRequest is the body for POST /cameras/ and PUT /cameras/{id}.
// Enabled is a pointer so a PUT can leave it unset without forcing false.
type CameraRequest struct {
	Name           string `json:"name,omitempty"`
	Location       string `json:"location,omitempty"`
	IPAddress      string `json:"ip_address,omitempty"`
	RTSPURL        string `json:"rtsp_url,omitempty"`
	Username       string `json:"username,omitempty"`
	Password       string `json:"password,omitempty"`
	CrowdThreshold int    `json:"crowd_threshold,omitempty"`
	Enabled        *bool  `json:"enabled,omitempty"`
}

// CameraActionResponse wraps POST /cameras/{id}/start and /stop.
type CameraActionResponse struct {
	Message  string `json:"message"`
	CameraID int    `json:"camera_id"`
}
