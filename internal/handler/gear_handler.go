package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/jengzang/fitness-backend-go/internal/middleware"
	"github.com/jengzang/fitness-backend-go/internal/models"
	"github.com/jengzang/fitness-backend-go/internal/repository"
	"github.com/jengzang/fitness-backend-go/pkg/response"
)

// GearHandler handles HTTP requests for gear
type GearHandler struct {
	gearRepo *repository.GearRepository
}

// NewGearHandler creates a new gear handler
func NewGearHandler(gearRepo *repository.GearRepository) *GearHandler {
	return &GearHandler{gearRepo: gearRepo}
}

// createGearRequest is the JSON body for gear creation
type createGearRequest struct {
	Name         string `json:"name" binding:"required"`
	ActivityType string `json:"activity_type" binding:"required"`
	IsDefault    bool   `json:"is_default"`
}

// CreateGear handles POST /api/v1/gear
func (h *GearHandler) CreateGear(c *gin.Context) {
	var req createGearRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	gear := &models.Gear{
		UserID:       middleware.UserID(c),
		Name:         req.Name,
		ActivityType: models.ClassifyActivityType(req.ActivityType),
		IsDefault:    req.IsDefault,
	}
	if err := h.gearRepo.Create(gear); err != nil {
		response.InternalError(c, err.Error())
		return
	}

	response.Created(c, gear)
}

// GetGear handles GET /api/v1/gear
func (h *GearHandler) GetGear(c *gin.Context) {
	items, err := h.gearRepo.GetByUser(middleware.UserID(c))
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, gin.H{
		"data":  items,
		"count": len(items),
	})
}
