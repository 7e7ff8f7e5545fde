package models

import (
	"time"

	"github.com/google/uuid"
)

// Segment represents one physical recording file's time window for a camera
type Segment struct {
	ID        uuid.UUID `json:"id" gorm:"type:text;primaryKey;column:id"`
	CameraID  uuid.UUID `json:"camera_id" gorm:"type:text;not null;index:idx_segments_camera_start;column:camera_id" validate:"required"`
	FilePath  string    `json:"file_path" gorm:"type:text;not null;uniqueIndex;column:file_path" validate:"required"`
	StartTime time.Time `json:"start_time" gorm:"type:datetime;not null;index:idx_segments_camera_start;column:start_time"`
	EndTime   time.Time `json:"end_time" gorm:"type:datetime;not null;column:end_time"`
	CreatedAt time.Time `json:"created_at" gorm:"type:datetime;default:CURRENT_TIMESTAMP;column:created_at"`
}

// NewSegment creates a new Segment with generated UUID and timestamp
func NewSegment(cameraID uuid.UUID, filePath string, start, end time.Time) *Segment {
	return &Segment{
		ID:        uuid.New(),
		CameraID:  cameraID,
		FilePath:  filePath,
		StartTime: start.UTC(),
		EndTime:   end.UTC(),
		CreatedAt: time.Now().UTC(),
	}
}

// Duration returns the recorded length of the segment in seconds
func (s *Segment) Duration() float64 {
	return s.EndTime.Sub(s.StartTime).Seconds()
}
