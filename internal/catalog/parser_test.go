package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRecordingPath_ValidSegment(t *testing.T) {
	parsed, err := ParseRecordingPath("porch/2024-06-01/14-05-30_600s.mp4")
	require.NoError(t, err)

	assert.Equal(t, "porch", parsed.CameraName)
	assert.Equal(t, time.Date(2024, 6, 1, 14, 5, 30, 0, time.UTC), parsed.StartTime)
	assert.Equal(t, time.Date(2024, 6, 1, 14, 15, 30, 0, time.UTC), parsed.EndTime)
}

func TestParseRecordingPath_WindowsSeparators(t *testing.T) {
	parsed, err := ParseRecordingPath(`porch\2024-06-01\00-00-00_60s.mkv`)
	if err != nil {
		// filepath.ToSlash only rewrites the OS separator; on non-Windows
		// hosts a backslash path is simply not the library layout.
		assert.ErrorIs(t, err, ErrUnrecognizedLayout)
		return
	}
	assert.Equal(t, "porch", parsed.CameraName)
}

func TestParseRecordingPath_Invalid(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{"too shallow", "2024-06-01/14-05-30_600s.mp4"},
		{"too deep", "site/porch/2024-06-01/14-05-30_600s.mp4"},
		{"bad date", "porch/june-1st/14-05-30_600s.mp4"},
		{"bad filename", "porch/2024-06-01/recording.mp4"},
		{"hour out of range", "porch/2024-06-01/25-00-00_600s.mp4"},
		{"minute out of range", "porch/2024-06-01/10-61-00_600s.mp4"},
		{"zero duration", "porch/2024-06-01/14-05-30_0s.mp4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRecordingPath(tt.path)
			assert.ErrorIs(t, err, ErrUnrecognizedLayout)
		})
	}
}

func TestParseRecordingPath_SegmentMayCrossMidnight(t *testing.T) {
	// A segment starting late in the day keeps its full duration; clipping
	// to the day is the index's concern, not the parser's.
	parsed, err := ParseRecordingPath("porch/2024-06-01/23-55-00_600s.mp4")
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 6, 2, 0, 5, 0, 0, time.UTC), parsed.EndTime)
}
