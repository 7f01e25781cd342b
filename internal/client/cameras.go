package client

import (
	"fmt"

	"crowdwatch-cli/pkg/models"
)

// DefaultCrowdThreshold is applied when a camera is created or updated
// without a usable threshold. Matches the backend default.
const DefaultCrowdThreshold = 10

// ListCameras fetches every registered camera.
func (c *Client) ListCameras() ([]models.Camera, error) {
	var cameras []models.Camera

	resp, err := c.HTTP.R().
		SetResult(&cameras).
		Get("/cameras/")

	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}

	return cameras, nil
}

// GetCamera fetches a single camera by ID.
func (c *Client) GetCamera(id int) (*models.Camera, error) {
	var camera models.Camera

	resp, err := c.HTTP.R().
		SetResult(&camera).
		Get(fmt.Sprintf("/cameras/%d", id))

	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}

	return &camera, nil
}

// CreateCamera registers a new camera. Server-side validation errors come
// back with the backend's detail message; the only local coercion is the
// crowd threshold default.
func (c *Client) CreateCamera(req models.CameraRequest) (*models.Camera, error) {
	if req.CrowdThreshold < 1 {
		req.CrowdThreshold = DefaultCrowdThreshold
	}

	var camera models.Camera

	resp, err := c.HTTP.R().
		SetBody(req).
		SetResult(&camera).
		Post("/cameras/")

	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}

	return &camera, nil
}

// UpdateCamera applies a partial update. Zero-valued fields are omitted
// from the body and left untouched server-side.
func (c *Client) UpdateCamera(id int, req models.CameraRequest) (*models.Camera, error) {
	var camera models.Camera

	resp, err := c.HTTP.R().
		SetBody(req).
		SetResult(&camera).
		Put(fmt.Sprintf("/cameras/%d", id))

	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}

	return &camera, nil
}

// DeleteCamera removes a camera. After a successful return the caller must
// drop any local copy.
func (c *Client) DeleteCamera(id int) error {
	resp, err := c.HTTP.R().
		Delete(fmt.Sprintf("/cameras/%d", id))

	if err != nil {
		return err
	}
	if resp.IsError() {
		return apiError(resp)
	}

	return nil
}

// StartCamera asks the server to bring a camera stream up. The call returns
// as soon as the transition is requested; the camera typically reports
// "connecting" until a later poll observes "active" or "error".
func (c *Client) StartCamera(id int) (*models.CameraActionResponse, error) {
	return c.cameraAction(id, "start")
}

// StopCamera asks the server to bring a camera stream down. Like
// StartCamera, the eventual status is observed via polling, not returned.
func (c *Client) StopCamera(id int) (*models.CameraActionResponse, error) {
	return c.cameraAction(id, "stop")
}

func (c *Client) cameraAction(id int, action string) (*models.CameraActionResponse, error) {
	var result models.CameraActionResponse

	resp, err := c.HTTP.R().
		SetResult(&result).
		Post(fmt.Sprintf("/cameras/%d/%s", id, action))

	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}

	return &result, nil
}
