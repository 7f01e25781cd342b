package client

import (
	"errors"
	"fmt"
	"strings"
)

// MJPEGURL returns the live MJPEG stream address for a camera. The stream
// itself is consumed by external players, not this client.
func (c *Client) MJPEGURL(cameraID int) string {
	return fmt.Sprintf("%s/streams/%d/mjpeg", c.Config.BaseURL, cameraID)
}

// SnapshotURL returns the single-frame snapshot address for a camera.
func (c *Client) SnapshotURL(cameraID int) string {
	return fmt.Sprintf("%s/streams/%d/snapshot", c.Config.BaseURL, cameraID)
}

// LiveEventURL derives the WebSocket address of the live event channel,
// mounted at /ws/live under the API prefix. The message protocol on that
// channel is a separate concern.
func (c *Client) LiveEventURL() string {
	ws := strings.Replace(c.Config.BaseURL, "http", "ws", 1)
	return ws + "/ws/live"
}

// GetSnapshot downloads a JPEG snapshot for the given camera.
// Returns the raw image bytes.
func (c *Client) GetSnapshot(cameraID int) ([]byte, error) {
	resp, err := c.HTTP.R().
		Get(fmt.Sprintf("/streams/%d/snapshot", cameraID))

	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}
	if len(resp.Body()) == 0 {
		return nil, errors.New("response body is empty")
	}

	return resp.Body(), nil
}
