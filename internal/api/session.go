package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mkessler/rewind/internal/index"
	"github.com/mkessler/rewind/internal/logger"
	"github.com/mkessler/rewind/internal/models"
	"github.com/mkessler/rewind/internal/player"
	"github.com/mkessler/rewind/internal/playhead"
	"github.com/mkessler/rewind/internal/review"
	"github.com/mkessler/rewind/internal/timeline"
)

// Request/Response DTOs

// SelectRequest represents a request to switch the reviewed camera/day
type SelectRequest struct {
	CameraID uuid.UUID `json:"camera_id" binding:"required"`
	Day      string    `json:"day" binding:"required"`
}

// SeekRequest represents a direct playhead move in seconds-of-day
type SeekRequest struct {
	Seconds float64 `json:"seconds"`
}

// ClickSeekRequest represents a timeline click at a viewport-relative
// pixel position.
type ClickSeekRequest struct {
	ClickX float64 `json:"click_x"`
}

// PlaybackRequest represents a play/pause command
type PlaybackRequest struct {
	State playhead.Playback `json:"state" binding:"required"`
}

// ZoomRequest represents an absolute zoom change around an anchor time
type ZoomRequest struct {
	Zoom          float64 `json:"zoom" binding:"required"`
	AnchorSeconds float64 `json:"anchor_seconds"`
}

// ZoomStepRequest represents one wheel notch or keyboard zoom step
type ZoomStepRequest struct {
	In bool `json:"in"`
}

// PanRequest represents a drag pan by a pixel delta
type PanRequest struct {
	DeltaPixels float64 `json:"delta_pixels"`
}

// PanStepRequest represents one keyboard pan step
type PanStepRequest struct {
	Right bool `json:"right"`
}

// ResizeRequest reports the client's viewport width
type ResizeRequest struct {
	ViewportWidth float64 `json:"viewport_width" binding:"required"`
}

// SessionStateResponse is the full synchronized session state
type SessionStateResponse struct {
	Selection    *review.Selection `json:"selection,omitempty"`
	Playhead     playhead.Position `json:"playhead"`
	Playback     playhead.Playback `json:"playback"`
	View         timeline.View     `json:"view"`
	PlayerState  player.State      `json:"player_state"`
	LastFrameRef string            `json:"last_frame_ref,omitempty"`
}

// SelectResponse is the state returned after a camera/day switch
type SelectResponse struct {
	Selection review.Selection  `json:"selection"`
	Ranges    []index.Range     `json:"ranges"`
	Playhead  playhead.Position `json:"playhead"`
}

// PlayheadResponse wraps a playhead sample
type PlayheadResponse struct {
	Playhead playhead.Position `json:"playhead"`
	Playback playhead.Playback `json:"playback"`
}

// TicksResponse lists the tick marks for the current view
type TicksResponse struct {
	Ticks []timeline.Tick `json:"ticks"`
	View  timeline.View   `json:"view"`
}

// SessionHandler handles review-session requests
type SessionHandler struct {
	session *review.Session
}

// NewSessionHandler creates a new session handler instance
func NewSessionHandler(session *review.Session) *SessionHandler {
	return &SessionHandler{session: session}
}

// GetState handles GET /api/session
func (h *SessionHandler) GetState(c *gin.Context) {
	resp := SessionStateResponse{
		Playhead: h.session.Playhead(),
		Playback: h.session.Playback(),
		View:     h.session.View(),
	}
	resp.PlayerState, resp.LastFrameRef = h.session.PlayerState()

	if sel, ok := h.session.Selection(); ok {
		resp.Selection = &sel
	}

	c.JSON(http.StatusOK, resp)
}

// Select handles POST /api/session/select
func (h *SessionHandler) Select(c *gin.Context) {
	var req SelectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "camera_id and day are required",
		})
		return
	}

	day, err := models.ParseDateKey(req.Day)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_date",
			Message: "Date must be formatted as YYYY-MM-DD",
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), queryTimeout)
	defer cancel()

	ranges, err := h.session.Select(ctx, req.CameraID, day)
	if err != nil {
		if errors.Is(err, index.ErrCameraNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "camera_not_found",
				Message: "Camera not found",
			})
			return
		}

		logger.Log.Error().
			Err(err).
			Str("camera_id", req.CameraID.String()).
			Str("day", day.String()).
			Msg("Failed to switch review selection")

		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "select_failed",
			Message: "Failed to switch camera/day",
		})
		return
	}

	c.JSON(http.StatusOK, SelectResponse{
		Selection: review.Selection{CameraID: req.CameraID, Day: day},
		Ranges:    ranges,
		Playhead:  h.session.Playhead(),
	})
}

// GetRanges handles GET /api/session/ranges
func (h *SessionHandler) GetRanges(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), queryTimeout)
	defer cancel()

	ranges, err := h.session.Ranges(ctx)
	if err != nil {
		if errors.Is(err, review.ErrNoSelection) {
			c.JSON(http.StatusConflict, ErrorResponse{
				Error:   "no_selection",
				Message: "Select a camera and day first",
			})
			return
		}

		logger.Log.Error().Err(err).Msg("Failed to query availability bands")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "query_failed",
			Message: "Failed to query availability bands",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ranges": ranges})
}

// GetPlayhead handles GET /api/session/playhead
func (h *SessionHandler) GetPlayhead(c *gin.Context) {
	c.JSON(http.StatusOK, PlayheadResponse{
		Playhead: h.session.Playhead(),
		Playback: h.session.Playback(),
	})
}

// Seek handles PUT /api/session/playhead
func (h *SessionHandler) Seek(c *gin.Context) {
	var req SeekRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body",
		})
		return
	}

	h.session.Seek(req.Seconds)
	c.JSON(http.StatusOK, PlayheadResponse{
		Playhead: h.session.Playhead(),
		Playback: h.session.Playback(),
	})
}

// ClickSeek handles POST /api/session/click-seek
func (h *SessionHandler) ClickSeek(c *gin.Context) {
	var req ClickSeekRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body",
		})
		return
	}

	h.session.ClickSeek(req.ClickX)
	c.JSON(http.StatusOK, PlayheadResponse{
		Playhead: h.session.Playhead(),
		Playback: h.session.Playback(),
	})
}

// SetPlayback handles PUT /api/session/playback
func (h *SessionHandler) SetPlayback(c *gin.Context) {
	var req PlaybackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "state is required",
		})
		return
	}

	if req.State != playhead.PlaybackPlaying && req.State != playhead.PlaybackPaused {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_state",
			Message: "state must be \"playing\" or \"paused\"",
		})
		return
	}

	h.session.SetPlayback(req.State)
	c.JSON(http.StatusOK, PlayheadResponse{
		Playhead: h.session.Playhead(),
		Playback: h.session.Playback(),
	})
}

// GetView handles GET /api/session/view
func (h *SessionHandler) GetView(c *gin.Context) {
	c.JSON(http.StatusOK, h.session.View())
}

// Zoom handles POST /api/session/view/zoom
func (h *SessionHandler) Zoom(c *gin.Context) {
	var req ZoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "zoom is required",
		})
		return
	}

	c.JSON(http.StatusOK, h.session.ZoomTo(req.Zoom, req.AnchorSeconds))
}

// ZoomStep handles POST /api/session/view/zoom-step
func (h *SessionHandler) ZoomStep(c *gin.Context) {
	var req ZoomStepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body",
		})
		return
	}

	c.JSON(http.StatusOK, h.session.ZoomStep(req.In))
}

// Pan handles POST /api/session/view/pan
func (h *SessionHandler) Pan(c *gin.Context) {
	var req PanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body",
		})
		return
	}

	c.JSON(http.StatusOK, h.session.PanBy(req.DeltaPixels))
}

// PanStep handles POST /api/session/view/pan-step
func (h *SessionHandler) PanStep(c *gin.Context) {
	var req PanStepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body",
		})
		return
	}

	c.JSON(http.StatusOK, h.session.PanStep(req.Right))
}

// Resize handles POST /api/session/view/resize
func (h *SessionHandler) Resize(c *gin.Context) {
	var req ResizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "viewport_width is required",
		})
		return
	}

	if req.ViewportWidth <= 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_viewport",
			Message: "viewport_width must be > 0",
		})
		return
	}

	c.JSON(http.StatusOK, h.session.Resize(req.ViewportWidth))
}

// GetTicks handles GET /api/session/ticks
func (h *SessionHandler) GetTicks(c *gin.Context) {
	c.JSON(http.StatusOK, TicksResponse{
		Ticks: h.session.Ticks(),
		View:  h.session.View(),
	})
}

// SetupSessionRoutes registers review-session routes
func SetupSessionRoutes(apiGroup *gin.RouterGroup, session *review.Session) {
	handler := NewSessionHandler(session)

	apiGroup.GET("/session", handler.GetState)
	apiGroup.POST("/session/select", handler.Select)
	apiGroup.GET("/session/ranges", handler.GetRanges)

	apiGroup.GET("/session/playhead", handler.GetPlayhead)
	apiGroup.PUT("/session/playhead", handler.Seek)
	apiGroup.POST("/session/click-seek", handler.ClickSeek)
	apiGroup.PUT("/session/playback", handler.SetPlayback)

	apiGroup.GET("/session/view", handler.GetView)
	apiGroup.POST("/session/view/zoom", handler.Zoom)
	apiGroup.POST("/session/view/zoom-step", handler.ZoomStep)
	apiGroup.POST("/session/view/pan", handler.Pan)
	apiGroup.POST("/session/view/pan-step", handler.PanStep)
	apiGroup.POST("/session/view/resize", handler.Resize)
	apiGroup.GET("/session/ticks", handler.GetTicks)
}
