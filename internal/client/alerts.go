package client

import (
	"fmt"
	"strconv"

	"crowdwatch-cli/pkg/models"
)

// DefaultStatsWindowDays is the stats summary window when the caller does
// not give one.
const DefaultStatsWindowDays = 7

// AlertFilter narrows GET /alerts/. The zero value means no filtering.
type AlertFilter struct {
	Type         models.AlertType // "" = all types
	CameraID     int              // 0 = all cameras
	Acknowledged *bool            // nil = both
	Skip         int
	Limit        int
}

// ListAlerts fetches alerts matching the filter, in the order the server
// returns them (most recent first). Ordering beyond that is a presentation
// concern.
func (c *Client) ListAlerts(filter AlertFilter) ([]models.Alert, error) {
	var alerts []models.Alert

	req := c.HTTP.R().SetResult(&alerts)

	if filter.Type != "" {
		req.SetQueryParam("alert_type", string(filter.Type))
	}
	if filter.CameraID > 0 {
		req.SetQueryParam("camera_id", strconv.Itoa(filter.CameraID))
	}
	if filter.Acknowledged != nil {
		req.SetQueryParam("acknowledged", strconv.FormatBool(*filter.Acknowledged))
	}
	if filter.Skip > 0 {
		req.SetQueryParam("skip", strconv.Itoa(filter.Skip))
	}
	if filter.Limit > 0 {
		req.SetQueryParam("limit", strconv.Itoa(filter.Limit))
	}

	resp, err := req.Get("/alerts/")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}

	return alerts, nil
}

// GetAlert fetches a single alert by ID.
func (c *Client) GetAlert(id int) (*models.Alert, error) {
	var alert models.Alert

	resp, err := c.HTTP.R().
		SetResult(&alert).
		Get(fmt.Sprintf("/alerts/%d", id))

	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}

	return &alert, nil
}

// AcknowledgeAlert marks an alert acknowledged. The transition is one-way
// and idempotent: acknowledging twice succeeds and leaves the flag true.
func (c *Client) AcknowledgeAlert(id int) error {
	resp, err := c.HTTP.R().
		Put(fmt.Sprintf("/alerts/%d/acknowledge", id))

	if err != nil {
		return err
	}
	if resp.IsError() {
		return apiError(resp)
	}

	return nil
}

// DeleteAlert removes an alert.
func (c *Client) DeleteAlert(id int) error {
	resp, err := c.HTTP.R().
		Delete(fmt.Sprintf("/alerts/%d", id))

	if err != nil {
		return err
	}
	if resp.IsError() {
		return apiError(resp)
	}

	return nil
}

// GetAlertStats fetches the alert summary over the past `days` days.
// Non-positive values fall back to the server default window.
func (c *Client) GetAlertStats(days int) (*models.AlertStats, error) {
	if days < 1 {
		days = DefaultStatsWindowDays
	}

	var stats models.AlertStats

	resp, err := c.HTTP.R().
		SetQueryParam("days", strconv.Itoa(days)).
		SetResult(&stats).
		Get("/alerts/stats/summary")

	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}

	return &stats, nil
}
