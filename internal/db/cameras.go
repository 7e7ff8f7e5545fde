package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/mkessler/rewind/internal/models"
)

// CameraRepository handles database operations for cameras
type CameraRepository struct {
	db *DB
}

// NewCameraRepository creates a new camera repository
func NewCameraRepository(db *DB) *CameraRepository {
	return &CameraRepository{db: db}
}

// Create inserts a new camera into the database
func (r *CameraRepository) Create(ctx context.Context, camera *models.Camera) error {
	result := r.db.WithContext(ctx).Create(camera)
	if result.Error != nil {
		return fmt.Errorf("failed to create camera: %w", MapGormError(result.Error))
	}
	return nil
}

// GetByID retrieves a camera by its UUID
func (r *CameraRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Camera, error) {
	var camera models.Camera
	result := r.db.WithContext(ctx).Where("id = ?", id.String()).First(&camera)
	if result.Error != nil {
		return nil, MapGormError(result.Error)
	}
	return &camera, nil
}

// GetByName retrieves a camera by its unique name
func (r *CameraRepository) GetByName(ctx context.Context, name string) (*models.Camera, error) {
	var camera models.Camera
	result := r.db.WithContext(ctx).Where("name = ?", name).First(&camera)
	if result.Error != nil {
		return nil, MapGormError(result.Error)
	}
	return &camera, nil
}

// List retrieves all cameras ordered by name
func (r *CameraRepository) List(ctx context.Context) ([]*models.Camera, error) {
	var cameras []*models.Camera
	result := r.db.WithContext(ctx).Order("name ASC").Find(&cameras)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list cameras: %w", MapGormError(result.Error))
	}
	return cameras, nil
}

// GetOrCreate returns the camera with the given name, creating it when missing
func (r *CameraRepository) GetOrCreate(ctx context.Context, name string) (*models.Camera, error) {
	camera, err := r.GetByName(ctx, name)
	if err == nil {
		return camera, nil
	}
	if !IsNotFound(err) {
		return nil, err
	}

	camera = models.NewCamera(name)
	if err := r.Create(ctx, camera); err != nil {
		// Another scanner pass may have won the race on the unique name
		if IsDuplicate(err) {
			return r.GetByName(ctx, name)
		}
		return nil, err
	}
	return camera, nil
}
