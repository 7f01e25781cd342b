package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crowdwatch-cli/pkg/models"
)

func TestBuildAlertFilter(t *testing.T) {
	filter := buildAlertFilter("fall", 3, true, 25)

	assert.Equal(t, models.AlertFall, filter.Type)
	assert.Equal(t, 3, filter.CameraID)
	assert.Equal(t, 25, filter.Limit)
	require.NotNil(t, filter.Acknowledged)
	assert.False(t, *filter.Acknowledged)
}

func TestBuildAlertFilterAllIsUnfiltered(t *testing.T) {
	filter := buildAlertFilter("all", 0, false, 0)

	assert.Empty(t, filter.Type)
	assert.Nil(t, filter.Acknowledged, "unacked left at its default must not filter")
}

func TestBuildAlertFilterUnackedFalse(t *testing.T) {
	// An explicit --unacked=false behaves the same as omitting the flag:
	// both acknowledged and unacknowledged alerts are returned.
	filter := buildAlertFilter("", 0, false, 0)

	assert.Nil(t, filter.Acknowledged)
}
