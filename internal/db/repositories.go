package db

// Repositories provides access to all database repositories
type Repositories struct {
	Cameras  *CameraRepository
	Segments *SegmentRepository
}

// NewRepositories creates a new repository collection
func NewRepositories(db *DB) *Repositories {
	return &Repositories{
		Cameras:  NewCameraRepository(db),
		Segments: NewSegmentRepository(db),
	}
}
