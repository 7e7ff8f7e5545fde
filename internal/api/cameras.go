// Package api implements the HTTP surface of the review service: camera
// and recording queries plus the review-session endpoints the browser
// chrome drives.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mkessler/rewind/internal/db"
	"github.com/mkessler/rewind/internal/index"
	"github.com/mkessler/rewind/internal/logger"
	"github.com/mkessler/rewind/internal/models"
)

const queryTimeout = 5 * time.Second

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// CameraListResponse represents the camera inventory
type CameraListResponse struct {
	Cameras []*models.Camera `json:"cameras"`
	Total   int              `json:"total"`
}

// DaySegmentsResponse represents the segments of one camera/day
type DaySegmentsResponse struct {
	CameraID uuid.UUID      `json:"camera_id"`
	Day      models.DateKey `json:"day"`
	Segments []index.Window `json:"segments"`
}

// RangesResponse represents the coalesced availability bands of one
// camera/day.
type RangesResponse struct {
	CameraID uuid.UUID      `json:"camera_id"`
	Day      models.DateKey `json:"day"`
	Ranges   []index.Range  `json:"ranges"`
}

// CameraHandler handles camera and recording-index requests
type CameraHandler struct {
	repos *db.Repositories
	index *index.Service
}

// NewCameraHandler creates a new camera handler instance
func NewCameraHandler(repos *db.Repositories, idx *index.Service) *CameraHandler {
	return &CameraHandler{repos: repos, index: idx}
}

// ListCameras handles GET /api/cameras
func (h *CameraHandler) ListCameras(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), queryTimeout)
	defer cancel()

	cameras, err := h.repos.Cameras.List(ctx)
	if err != nil {
		logger.Log.Error().Err(err).Msg("Failed to list cameras")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "query_failed",
			Message: "Failed to list cameras",
		})
		return
	}

	c.JSON(http.StatusOK, CameraListResponse{
		Cameras: cameras,
		Total:   len(cameras),
	})
}

// GetDaySegments handles GET /api/cameras/:id/days/:date/segments
func (h *CameraHandler) GetDaySegments(c *gin.Context) {
	cameraID, day, ok := h.parseCameraDay(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), queryTimeout)
	defer cancel()

	windows, err := h.index.DaySegments(ctx, cameraID, day)
	if err != nil {
		h.writeIndexError(c, cameraID, day, err)
		return
	}

	c.JSON(http.StatusOK, DaySegmentsResponse{
		CameraID: cameraID,
		Day:      day,
		Segments: windows,
	})
}

// GetRanges handles GET /api/cameras/:id/days/:date/ranges
func (h *CameraHandler) GetRanges(c *gin.Context) {
	cameraID, day, ok := h.parseCameraDay(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), queryTimeout)
	defer cancel()

	ranges, err := h.index.AvailableRanges(ctx, cameraID, day)
	if err != nil {
		h.writeIndexError(c, cameraID, day, err)
		return
	}

	c.JSON(http.StatusOK, RangesResponse{
		CameraID: cameraID,
		Day:      day,
		Ranges:   ranges,
	})
}

// parseCameraDay extracts and validates the :id and :date path parameters.
// On failure the error response has already been written.
func (h *CameraHandler) parseCameraDay(c *gin.Context) (uuid.UUID, models.DateKey, bool) {
	cameraID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_id",
			Message: "Invalid camera ID format",
		})
		return uuid.Nil, models.DateKey{}, false
	}

	day, err := models.ParseDateKey(c.Param("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_date",
			Message: "Date must be formatted as YYYY-MM-DD",
		})
		return uuid.Nil, models.DateKey{}, false
	}

	return cameraID, day, true
}

func (h *CameraHandler) writeIndexError(c *gin.Context, cameraID uuid.UUID, day models.DateKey, err error) {
	if errors.Is(err, index.ErrCameraNotFound) {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "camera_not_found",
			Message: "Camera not found",
		})
		return
	}

	logger.Log.Error().
		Err(err).
		Str("camera_id", cameraID.String()).
		Str("day", day.String()).
		Msg("Failed to query recording index")

	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Error:   "query_failed",
		Message: "Failed to query recording index",
	})
}

// SetupCameraRoutes registers camera and recording-index routes
func SetupCameraRoutes(apiGroup *gin.RouterGroup, repos *db.Repositories, idx *index.Service) {
	handler := NewCameraHandler(repos, idx)

	apiGroup.GET("/cameras", handler.ListCameras)
	apiGroup.GET("/cameras/:id/days/:date/segments", handler.GetDaySegments)
	apiGroup.GET("/cameras/:id/days/:date/ranges", handler.GetRanges)
}
