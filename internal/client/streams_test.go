package client

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreamURLDerivation(t *testing.T) {
	c := New(ClientConfig{BaseURL: "http://localhost:8001/api"})

	assert.Equal(t, "http://localhost:8001/api/streams/3/mjpeg", c.MJPEGURL(3))
	assert.Equal(t, "http://localhost:8001/api/streams/3/snapshot", c.SnapshotURL(3))
	// The live channel is mounted at /ws/live under the API prefix.
	assert.Equal(t, "ws://localhost:8001/api/ws/live", c.LiveEventURL())
}

func TestLiveEventURLOverTLS(t *testing.T) {
	c := New(ClientConfig{BaseURL: "https://cams.example.com/api"})

	assert.Equal(t, "wss://cams.example.com/api/ws/live", c.LiveEventURL())
}

func TestGetSnapshot(t *testing.T) {
	jpeg := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/streams/3/snapshot", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write(jpeg)
	})

	c := newTestClient(t, mux)

	img, err := c.GetSnapshot(3)
	require.NoError(t, err)
	assert.Equal(t, jpeg, img)
}

func TestGetSnapshotNotFound(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/streams/9/snapshot", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Camera with id 9 not found"})
	})

	c := newTestClient(t, mux)

	_, err := c.GetSnapshot(9)
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
}

func TestGetSnapshotEmptyBody(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/streams/3/snapshot", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	c := newTestClient(t, mux)

	_, err := c.GetSnapshot(3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "response body is empty")
}
