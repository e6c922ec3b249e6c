package handlers

import (
	"net/http"

	"github.com/DriveRegistry/DriveRegistry/internal/common/logger"
	"github.com/DriveRegistry/DriveRegistry/internal/vehicle"
	"github.com/gin-gonic/gin"
)

type VehicleTypeHandler struct {
	Service *vehicle.Service
	Log     logger.Logger
}

// List GET /vehicle-types 枚举全部车辆类型（公开）。
func (h *VehicleTypeHandler) List(c *gin.Context) {
	types, err := h.Service.ListTypes(c.Request.Context())
	if err != nil {
		if h.Log != nil {
			h.Log.Errorf("list vehicle types: %v", err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Error retrieving vehicle types",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    types,
	})
}
