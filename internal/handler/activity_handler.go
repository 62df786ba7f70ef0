package handler

import (
	"database/sql"
	"errors"
	"io"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/fitness-backend-go/internal/decoder"
	"github.com/jengzang/fitness-backend-go/internal/middleware"
	"github.com/jengzang/fitness-backend-go/internal/models"
	"github.com/jengzang/fitness-backend-go/internal/service"
	"github.com/jengzang/fitness-backend-go/pkg/response"
)

// ActivityHandler handles HTTP requests for activities
type ActivityHandler struct {
	activityService *service.ActivityService
	maxUploadBytes  int64
}

// NewActivityHandler creates a new activity handler
func NewActivityHandler(activityService *service.ActivityService, maxUploadBytes int64) *ActivityHandler {
	return &ActivityHandler{
		activityService: activityService,
		maxUploadBytes:  maxUploadBytes,
	}
}

// Upload handles POST /api/v1/activities/upload
func (h *ActivityHandler) Upload(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		response.BadRequest(c, "Missing activity file")
		return
	}
	defer file.Close()

	if header.Size > h.maxUploadBytes {
		response.BadRequest(c, "Activity file too large")
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, h.maxUploadBytes))
	if err != nil {
		response.InternalError(c, "Failed to read activity file")
		return
	}

	activities, err := h.activityService.Import(c.Request.Context(), middleware.UserID(c), header.Filename, data)
	if err != nil {
		switch {
		case errors.Is(err, decoder.ErrUnsupportedExtension):
			response.BadRequest(c, "Unsupported file type, expected .fit or .gpx")
		case errors.Is(err, decoder.ErrCorruptFile):
			response.BadRequest(c, "Activity file could not be decoded")
		default:
			response.InternalError(c, err.Error())
		}
		return
	}

	response.Created(c, gin.H{
		"data":  activities,
		"count": len(activities),
	})
}

// GetActivities handles GET /api/v1/activities
func (h *ActivityHandler) GetActivities(c *gin.Context) {
	var filter models.ActivityFilter

	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}
	filter.UserID = middleware.UserID(c)

	result, err := h.activityService.GetActivities(filter)
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, result)
}

// GetActivityByID handles GET /api/v1/activities/:id
func (h *ActivityHandler) GetActivityByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "Invalid activity ID")
		return
	}

	activity, err := h.activityService.GetByID(id, middleware.UserID(c))
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}
	if activity == nil {
		response.NotFound(c, "Activity not found")
		return
	}

	response.Success(c, activity)
}

// GetStreams handles GET /api/v1/activities/:id/streams
func (h *ActivityHandler) GetStreams(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "Invalid activity ID")
		return
	}

	streams, err := h.activityService.GetStreams(id, middleware.UserID(c))
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}
	if streams == nil {
		response.NotFound(c, "Activity not found")
		return
	}

	response.Success(c, streams)
}

// GetHeartRateZones handles GET /api/v1/activities/:id/hr-zones
func (h *ActivityHandler) GetHeartRateZones(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "Invalid activity ID")
		return
	}

	maxHRStr := c.DefaultQuery("maxHeartRate", "0")
	maxHR, err := strconv.ParseFloat(maxHRStr, 64)
	if err != nil {
		response.BadRequest(c, "Invalid maxHeartRate parameter")
		return
	}

	zones, err := h.activityService.GetHeartRateZones(id, middleware.UserID(c), maxHR)
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}
	if zones == nil {
		response.NotFound(c, "No heart rate data for activity")
		return
	}

	response.Success(c, zones)
}

// DeleteActivity handles DELETE /api/v1/activities/:id
func (h *ActivityHandler) DeleteActivity(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "Invalid activity ID")
		return
	}

	if err := h.activityService.Delete(id, middleware.UserID(c)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			response.NotFound(c, "Activity not found")
			return
		}
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, gin.H{"deleted": id})
}
