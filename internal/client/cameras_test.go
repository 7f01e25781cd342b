package client

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crowdwatch-cli/pkg/models"
)

func newTestClient(t *testing.T, mux *http.ServeMux) *Client {
	t.Helper()
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return New(ClientConfig{BaseURL: ts.URL + "/api"})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestListCameras(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/cameras/", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		writeJSON(w, http.StatusOK, []models.Camera{
			{ID: 1, Name: "gate", Status: models.CameraActive},
			{ID: 2, Name: "hall", Status: models.CameraInactive},
		})
	})

	c := newTestClient(t, mux)

	cameras, err := c.ListCameras()
	require.NoError(t, err)
	require.Len(t, cameras, 2)
	assert.Equal(t, "gate", cameras[0].Name)
	assert.Equal(t, models.CameraInactive, cameras[1].Status)
}

func TestCreateCameraAppliesThresholdDefault(t *testing.T) {
	var received models.CameraRequest

	mux := http.NewServeMux()
	mux.HandleFunc("/api/cameras/", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		writeJSON(w, http.StatusCreated, models.Camera{ID: 7, Name: received.Name})
	})

	c := newTestClient(t, mux)

	cam, err := c.CreateCamera(models.CameraRequest{
		Name:      "gate",
		IPAddress: "10.0.0.20",
		RTSPURL:   "rtsp://10.0.0.20:554/stream",
		// CrowdThreshold deliberately unset
	})
	require.NoError(t, err)
	assert.Equal(t, 7, cam.ID)
	assert.Equal(t, DefaultCrowdThreshold, received.CrowdThreshold)
}

func TestStartStopCamera(t *testing.T) {
	var gotStart, gotStop bool

	mux := http.NewServeMux()
	mux.HandleFunc("/api/cameras/5/start", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		gotStart = true
		writeJSON(w, http.StatusOK, models.CameraActionResponse{Message: "Camera gate starting", CameraID: 5})
	})
	mux.HandleFunc("/api/cameras/5/stop", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		gotStop = true
		writeJSON(w, http.StatusOK, models.CameraActionResponse{Message: "Camera gate stopped", CameraID: 5})
	})

	c := newTestClient(t, mux)

	start, err := c.StartCamera(5)
	require.NoError(t, err)
	assert.Equal(t, 5, start.CameraID)

	stop, err := c.StopCamera(5)
	require.NoError(t, err)
	assert.Equal(t, "Camera gate stopped", stop.Message)

	assert.True(t, gotStart)
	assert.True(t, gotStop)
}

func TestDeleteCamera(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/cameras/3", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNoContent)
	})

	c := newTestClient(t, mux)
	require.NoError(t, c.DeleteCamera(3))
}

func TestAPIErrorCarriesServerDetail(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/cameras/9", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Camera with id 9 not found"})
	})

	c := newTestClient(t, mux)

	_, err := c.GetCamera(9)
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "Camera with id 9 not found", apiErr.Detail)
}

func TestAPIErrorWithoutDetailBody(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/cameras/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	c := newTestClient(t, mux)

	_, err := c.ListCameras()
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
}
