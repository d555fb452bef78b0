package handlers

import (
	"net/http"
	"strconv"

	"smartbin"
	"smartbin/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	errInvalidBinID    = "invalid bin id"
	errInvalidBodyPref = "invalid body: "
)

// Request DTO for bin creation.
type createBinRequest struct {
	BinID    int    `json:"binId" binding:"required"`
	Location string `json:"location" binding:"required"`
	Capacity int    `json:"capacity,omitempty"`
}

// CreateBinRequest is an exported model for Swagger docs of the createBin payload.
type CreateBinRequest struct {
	// Unique positive identifier of the bin
	BinID int `json:"binId" example:"7"`
	// Physical placement of the bin
	Location string `json:"location" example:"Main Building - Lobby"`
	// Capacity in liters; defaults to 100
	Capacity int `json:"capacity,omitempty" example:"100"`
}

// binIDParam parses the :id path segment. Writes a 400 and returns false on
// malformed input.
func (h *Handler) binIDParam(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBinID})
		return 0, false
	}
	return id, true
}

// @Summary      List bins
// @Tags         bins
// @Produce      json
// @Success      200  {array}   smartbin.Bin
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/bins [get]
func (h *Handler) listBins(c *gin.Context) {
	bins, err := h.services.Bins.List(c.Request.Context())
	if err != nil {
		h.respondError(c, "bins_list_failed", err)
		return
	}
	c.JSON(http.StatusOK, bins)
}

// @Summary      Get one bin
// @Tags         bins
// @Produce      json
// @Param        id   path      int  true  "Bin ID"
// @Success      200  {object}  smartbin.Bin
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/bins/{id} [get]
func (h *Handler) getBin(c *gin.Context) {
	id, ok := h.binIDParam(c)
	if !ok {
		return
	}
	bin, err := h.services.Bins.Get(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, "bins_get_failed", err, "binId", id)
		return
	}
	c.JSON(http.StatusOK, bin)
}

// @Summary      Create bin
// @Description  fillLevel, batteryLevel, and sensorStatus start at their defaults
// @Tags         bins
// @Accept       json
// @Produce      json
// @Param        body  body      CreateBinRequest  true  "Creation payload"
// @Success      201   {object}  map[string]interface{}  "message, bin"
// @Failure      400   {object}  map[string]string
// @Router       /api/v1/bins [post]
func (h *Handler) createBin(c *gin.Context) {
	var req createBinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}

	bin, err := h.services.Bins.Create(c.Request.Context(), service.CreateBinParams{
		BinID:    req.BinID,
		Location: req.Location,
		Capacity: req.Capacity,
	})
	if err != nil {
		h.respondError(c, "bins_create_failed", err, "binId", req.BinID)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Bin created successfully", "bin": bin})
}

// @Summary      Update bin
// @Description  Partial update; absent fields are left untouched. lastUpdated is always set.
// @Tags         bins
// @Accept       json
// @Produce      json
// @Param        id    path      int                 true  "Bin ID"
// @Param        body  body      smartbin.BinUpdate  true  "Fields to change"
// @Success      200   {object}  map[string]interface{}  "message, bin"
// @Failure      404   {object}  map[string]string
// @Router       /api/v1/bins/{id} [put]
func (h *Handler) updateBin(c *gin.Context) {
	id, ok := h.binIDParam(c)
	if !ok {
		return
	}

	var upd smartbin.BinUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}

	bin, err := h.services.Bins.Update(c.Request.Context(), id, upd)
	if err != nil {
		h.respondError(c, "bins_update_failed", err, "binId", id)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Bin updated successfully", "bin": bin})
}

// @Summary      Delete bin
// @Tags         bins
// @Produce      json
// @Param        id   path      int  true  "Bin ID"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/bins/{id} [delete]
func (h *Handler) deleteBin(c *gin.Context) {
	id, ok := h.binIDParam(c)
	if !ok {
		return
	}
	if err := h.services.Bins.Delete(c.Request.Context(), id); err != nil {
		h.respondError(c, "bins_delete_failed", err, "binId", id)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Bin deleted successfully"})
}
