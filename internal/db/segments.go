package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mkessler/rewind/internal/models"
)

// SegmentRepository handles database operations for recording segments
type SegmentRepository struct {
	db *DB
}

// NewSegmentRepository creates a new segment repository
func NewSegmentRepository(db *DB) *SegmentRepository {
	return &SegmentRepository{db: db}
}

// Create inserts a new segment into the database
func (r *SegmentRepository) Create(ctx context.Context, segment *models.Segment) error {
	result := r.db.WithContext(ctx).Create(segment)
	if result.Error != nil {
		return fmt.Errorf("failed to create segment: %w", MapGormError(result.Error))
	}
	return nil
}

// GetByPath retrieves a segment by its file path (for duplicate checking during scans)
func (r *SegmentRepository) GetByPath(ctx context.Context, path string) (*models.Segment, error) {
	var segment models.Segment
	result := r.db.WithContext(ctx).Where("file_path = ?", path).First(&segment)
	if result.Error != nil {
		return nil, MapGormError(result.Error)
	}
	return &segment, nil
}

// ListOverlapping retrieves segments for a camera whose windows intersect
// [from, to), ordered ascending by start time.
func (r *SegmentRepository) ListOverlapping(ctx context.Context, cameraID uuid.UUID, from, to time.Time) ([]*models.Segment, error) {
	var segments []*models.Segment
	result := r.db.WithContext(ctx).
		Where("camera_id = ? AND start_time < ? AND end_time > ?", cameraID.String(), to, from).
		Order("start_time ASC").
		Find(&segments)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list segments: %w", MapGormError(result.Error))
	}
	return segments, nil
}

// Count returns the total number of segments
func (r *SegmentRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.Segment{}).Count(&count)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to count segments: %w", MapGormError(result.Error))
	}
	return count, nil
}

// Delete deletes a segment by its UUID
func (r *SegmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id.String()).Delete(&models.Segment{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete segment: %w", MapGormError(result.Error))
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
