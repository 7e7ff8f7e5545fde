package index

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	rewinddb "github.com/mkessler/rewind/internal/db"
	"github.com/mkessler/rewind/internal/models"
)

func dayKeyForTest(t *testing.T) models.DateKey {
	t.Helper()
	key, err := models.ParseDateKey("2024-06-01")
	require.NoError(t, err)
	return key
}

// setupTestDB opens an isolated in-memory database with the schema applied
func setupTestDB(t *testing.T) *rewinddb.DB {
	t.Helper()

	gormDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, gormDB.AutoMigrate(&models.Camera{}, &models.Segment{}))

	return &rewinddb.DB{DB: gormDB}
}

func seedCamera(t *testing.T, repos *rewinddb.Repositories, name string) *models.Camera {
	t.Helper()
	camera := models.NewCamera(name)
	require.NoError(t, repos.Cameras.Create(context.Background(), camera))
	return camera
}

func seedSegment(t *testing.T, repos *rewinddb.Repositories, cameraID uuid.UUID, path string, day models.DateKey, startSec, endSec int) *models.Segment {
	t.Helper()
	segment := models.NewSegment(
		cameraID,
		path,
		day.Start().Add(time.Duration(startSec)*time.Second),
		day.Start().Add(time.Duration(endSec)*time.Second),
	)
	require.NoError(t, repos.Segments.Create(context.Background(), segment))
	return segment
}

func TestDaySegments_UnknownCamera(t *testing.T) {
	repos := rewinddb.NewRepositories(setupTestDB(t))
	svc := NewService(repos)

	_, err := svc.DaySegments(context.Background(), uuid.New(), dayKeyForTest(t))
	assert.ErrorIs(t, err, ErrCameraNotFound)
}

func TestDaySegments_EmptyDayIsValid(t *testing.T) {
	repos := rewinddb.NewRepositories(setupTestDB(t))
	svc := NewService(repos)
	camera := seedCamera(t, repos, "porch")

	windows, err := svc.DaySegments(context.Background(), camera.ID, dayKeyForTest(t))
	require.NoError(t, err)
	assert.Empty(t, windows)
}

func TestDaySegments_OrderedWithDayOffsets(t *testing.T) {
	repos := rewinddb.NewRepositories(setupTestDB(t))
	svc := NewService(repos)
	camera := seedCamera(t, repos, "porch")
	day := dayKeyForTest(t)

	// Insert out of order; the query must sort ascending by start
	seedSegment(t, repos, camera.ID, "b.mp4", day, 7200, 7800)
	seedSegment(t, repos, camera.ID, "a.mp4", day, 3600, 4200)

	windows, err := svc.DaySegments(context.Background(), camera.ID, day)
	require.NoError(t, err)
	require.Len(t, windows, 2)

	assert.Equal(t, "a.mp4", windows[0].Segment.FilePath)
	assert.Equal(t, 3600.0, windows[0].DayStart)
	assert.Equal(t, 4200.0, windows[0].DayEnd)
	assert.Equal(t, "b.mp4", windows[1].Segment.FilePath)
}

func TestDaySegments_MidnightSpanningSegmentClipped(t *testing.T) {
	repos := rewinddb.NewRepositories(setupTestDB(t))
	svc := NewService(repos)
	camera := seedCamera(t, repos, "porch")
	day := dayKeyForTest(t)

	// Starts an hour before midnight, ends an hour into the selected day
	seedSegment(t, repos, camera.ID, "overnight.mp4", day, -3600, 3600)

	windows, err := svc.DaySegments(context.Background(), camera.ID, day)
	require.NoError(t, err)
	require.Len(t, windows, 1)

	assert.Equal(t, 0.0, windows[0].DayStart, "pre-midnight portion clips to day start")
	assert.Equal(t, 3600.0, windows[0].DayEnd)
}

func TestDaySegments_ExcludesOtherCameras(t *testing.T) {
	repos := rewinddb.NewRepositories(setupTestDB(t))
	svc := NewService(repos)
	day := dayKeyForTest(t)
	porch := seedCamera(t, repos, "porch")
	garage := seedCamera(t, repos, "garage")

	seedSegment(t, repos, porch.ID, "porch.mp4", day, 0, 600)
	seedSegment(t, repos, garage.ID, "garage.mp4", day, 0, 600)

	windows, err := svc.DaySegments(context.Background(), porch.ID, day)
	require.NoError(t, err)
	require.Len(t, windows, 1)
	assert.Equal(t, "porch.mp4", windows[0].Segment.FilePath)
}

func TestAvailableRanges_CoalescesContiguousSegments(t *testing.T) {
	repos := rewinddb.NewRepositories(setupTestDB(t))
	svc := NewService(repos)
	camera := seedCamera(t, repos, "porch")
	day := dayKeyForTest(t)

	seedSegment(t, repos, camera.ID, "1.mp4", day, 0, 60)
	seedSegment(t, repos, camera.ID, "2.mp4", day, 60, 120)
	seedSegment(t, repos, camera.ID, "3.mp4", day, 200, 260)

	ranges, err := svc.AvailableRanges(context.Background(), camera.ID, day)
	require.NoError(t, err)
	require.Len(t, ranges, 2)

	assert.Equal(t, day.Start(), ranges[0].Start)
	assert.Equal(t, day.Start().Add(120*time.Second), ranges[0].End)
	assert.Equal(t, day.Start().Add(200*time.Second), ranges[1].Start)
	assert.Equal(t, day.Start().Add(260*time.Second), ranges[1].End)
}

func TestResolveAt_FindsContainingSegment(t *testing.T) {
	repos := rewinddb.NewRepositories(setupTestDB(t))
	svc := NewService(repos)
	camera := seedCamera(t, repos, "porch")
	day := dayKeyForTest(t)

	seedSegment(t, repos, camera.ID, "a.mp4", day, 100, 200)
	seedSegment(t, repos, camera.ID, "b.mp4", day, 200, 300)

	w, err := svc.ResolveAt(context.Background(), camera.ID, day, 150)
	require.NoError(t, err)
	assert.Equal(t, "a.mp4", w.Segment.FilePath)

	// Boundary belongs to the following segment
	w, err = svc.ResolveAt(context.Background(), camera.ID, day, 200)
	require.NoError(t, err)
	assert.Equal(t, "b.mp4", w.Segment.FilePath)
}

func TestResolveAt_GapYieldsNoSegment(t *testing.T) {
	repos := rewinddb.NewRepositories(setupTestDB(t))
	svc := NewService(repos)
	camera := seedCamera(t, repos, "porch")
	day := dayKeyForTest(t)

	seedSegment(t, repos, camera.ID, "a.mp4", day, 100, 200)

	_, err := svc.ResolveAt(context.Background(), camera.ID, day, 500)
	assert.ErrorIs(t, err, ErrNoSegment)
	assert.True(t, IsNoSegment(err))
}
