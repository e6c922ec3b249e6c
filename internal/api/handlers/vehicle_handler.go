package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/DriveRegistry/DriveRegistry/internal/common/logger"
	"github.com/DriveRegistry/DriveRegistry/internal/common/middleware"
	"github.com/DriveRegistry/DriveRegistry/internal/vehicle"
	"github.com/gin-gonic/gin"
)

// adminRole JWT roles claim 中代表管理员的角色名。
const adminRole = "admin"

type VehicleHandler struct {
	Service *vehicle.Service
	Log     logger.Logger
}

// vehiclePayload 创建/更新车辆的请求体。
// 数值字段用指针区分“未提供”；类型可通过 vehicle_type_id 或
// vehicle_type（名称或 ID）二选一提供。
type vehiclePayload struct {
	RegistrationNumber string   `json:"registration_number"`
	Manufacturer       string   `json:"manufacturer"`
	Model              string   `json:"model"`
	EngineCapacity     *float64 `json:"engine_capacity"`
	Seats              *int     `json:"seats"`
	VehicleTypeID      string   `json:"vehicle_type_id"`
	VehicleType        string   `json:"vehicle_type"`
	SeatHeight         *float64 `json:"seat_height"`
	CargoCapacity      *float64 `json:"cargo_capacity"`
	Tonnage            *float64 `json:"tonnage"`
}

func (p vehiclePayload) toInput() vehicle.Input {
	in := vehicle.Input{
		RegistrationNumber: p.RegistrationNumber,
		Manufacturer:       p.Manufacturer,
		Model:              p.Model,
		EngineCapacity:     p.EngineCapacity,
		Seats:              p.Seats,
		SeatHeight:         p.SeatHeight,
		CargoCapacity:      p.CargoCapacity,
		Tonnage:            p.Tonnage,
	}
	switch {
	case p.VehicleTypeID != "":
		in.Type = vehicle.TypeByID(p.VehicleTypeID)
	case p.VehicleType != "":
		in.Type = vehicle.TypeByName(p.VehicleType)
	}
	return in
}

// expectedFields 公共校验失败时随响应返回的字段说明。
var expectedFields = gin.H{
	"registration_number": "A unique vehicle registration/license number",
	"manufacturer":        "Vehicle manufacturer name",
	"model":               "Vehicle model name",
	"engine_capacity":     "Engine capacity in liters",
	"seats":               "Number of seats",
	"vehicle_type":        "Vehicle type name (Motorcycle, Car, Pickup Truck) or ID",
}

// actorFromContext 将中间件注入的用户信息转换为领域操作者；匿名返回 nil。
func actorFromContext(c *gin.Context) *vehicle.Actor {
	ai, ok := middleware.AuthFromContext(c)
	if !ok || ai.Subject == "" {
		return nil
	}
	return &vehicle.Actor{ID: ai.Subject, Admin: ai.HasRole(adminRole)}
}

// writeError 把领域错误映射为 HTTP 响应。
func (h *VehicleHandler) writeError(c *gin.Context, err error) {
	var ve *vehicle.ValidationError
	var te *vehicle.InvalidTypeError

	switch {
	case errors.As(err, &ve):
		if len(ve.Common) > 0 {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"message":         "Validation failed",
				"errors":          ve.Common,
				"expected_fields": expectedFields,
			})
			return
		}
		requiredFields := make([]string, 0, len(ve.TypeSpecific))
		for field := range ve.TypeSpecific {
			requiredFields = append(requiredFields, field)
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"message":         "Vehicle type-specific validation failed",
			"errors":          ve.TypeSpecific,
			"vehicle_type":    ve.TypeName,
			"required_fields": requiredFields,
		})
	case errors.As(err, &te):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"message":     "Invalid vehicle type",
			"valid_types": te.ValidTypes,
			"usage":       `Provide either "vehicle_type_id" or "vehicle_type" field`,
		})
	case errors.Is(err, vehicle.ErrUnauthorized):
		c.JSON(http.StatusForbidden, gin.H{"message": "Unauthorized"})
	case errors.Is(err, vehicle.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Vehicle not found"})
	default:
		if h.Log != nil {
			h.Log.Errorf("vehicle handler: %v", err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// listFilter 从 query 参数构造列表条件（可见范围由 service 决定）。
func listFilter(c *gin.Context) vehicle.ListFilter {
	page, _ := strconv.Atoi(c.Query("page"))
	perPage, _ := strconv.Atoi(c.Query("per_page"))
	return vehicle.ListFilter{
		TypeID:  c.Query("vehicle_type_id"),
		Search:  c.Query("search"),
		SortBy:  c.DefaultQuery("sort_by", "created_at"),
		SortDir: c.DefaultQuery("sort_direction", "desc"),
		Page:    page,
		PerPage: perPage,
	}
}

// List GET /vehicles
func (h *VehicleHandler) List(c *gin.Context) {
	f := listFilter(c)
	vehicles, total, err := h.Service.List(c.Request.Context(), actorFromContext(c), f)
	if err != nil {
		h.writeError(c, err)
		return
	}
	page, perPage := f.Page, f.PerPage
	if page < 1 {
		page = 1
	}
	if perPage <= 0 {
		perPage = 10
	}
	c.JSON(http.StatusOK, gin.H{
		"data":     vehicles,
		"total":    total,
		"page":     page,
		"per_page": perPage,
	})
}

// Unapproved GET /vehicles/unapproved
func (h *VehicleHandler) Unapproved(c *gin.Context) {
	actor := actorFromContext(c)
	if actor == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "missing authorization"})
		return
	}
	f := listFilter(c)
	vehicles, total, err := h.Service.ListUnapproved(c.Request.Context(), actor, f)
	if err != nil {
		h.writeError(c, err)
		return
	}
	page, perPage := f.Page, f.PerPage
	if page < 1 {
		page = 1
	}
	if perPage <= 0 {
		perPage = 10
	}
	c.JSON(http.StatusOK, gin.H{
		"data":     vehicles,
		"total":    total,
		"page":     page,
		"per_page": perPage,
	})
}

// Show GET /vehicles/:id
func (h *VehicleHandler) Show(c *gin.Context) {
	v, err := h.Service.Get(c.Request.Context(), actorFromContext(c), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"vehicle": v})
}

// Create POST /vehicles
func (h *VehicleHandler) Create(c *gin.Context) {
	var payload vehiclePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	actor := actorFromContext(c)
	if actor == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "missing authorization"})
		return
	}

	v, err := h.Service.Create(c.Request.Context(), actor, payload.toInput())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Vehicle created successfully",
		"vehicle": v,
	})
}

// Update PUT /vehicles/:id
func (h *VehicleHandler) Update(c *gin.Context) {
	var payload vehiclePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	v, err := h.Service.Update(c.Request.Context(), actorFromContext(c), c.Param("id"), payload.toInput())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":         "Vehicle updated successfully. The vehicle will need to be approved by an administrator before it appears in the public listing.",
		"vehicle":         v,
		"approval_status": "pending",
	})
}

// Delete DELETE /vehicles/:id
func (h *VehicleHandler) Delete(c *gin.Context) {
	if err := h.Service.Delete(c.Request.Context(), actorFromContext(c), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Vehicle deleted successfully"})
}

// Approve PATCH /vehicles/:id/approve
func (h *VehicleHandler) Approve(c *gin.Context) {
	v, err := h.Service.Approve(c.Request.Context(), actorFromContext(c), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Vehicle approved successfully",
		"vehicle": v,
	})
}
