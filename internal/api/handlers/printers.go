package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/covxx/paleta/internal/db"
	"github.com/covxx/paleta/internal/printer"
)

type CreatePrinterRequest struct {
	Name          string  `json:"name" binding:"required"`
	IPAddress     string  `json:"ip_address" binding:"required,ip_addr"`
	Port          int     `json:"port"`
	DPI           int     `json:"dpi"`
	LabelWidthIn  float64 `json:"label_width_in" binding:"omitempty,gt=0"`
	LabelHeightIn float64 `json:"label_height_in" binding:"omitempty,gt=0"`
}

type UpdatePrinterRequest struct {
	Name          string  `json:"name"`
	IPAddress     string  `json:"ip_address" binding:"omitempty,ip_addr"`
	Port          int     `json:"port"`
	DPI           int     `json:"dpi"`
	LabelWidthIn  float64 `json:"label_width_in" binding:"omitempty,gt=0"`
	LabelHeightIn float64 `json:"label_height_in" binding:"omitempty,gt=0"`
}

type TestPrinterResponse struct {
	ID        int64     `json:"id"`
	Status    string    `json:"status"`
	IsOnline  bool      `json:"is_online"`
	CheckedAt time.Time `json:"checked_at"`
}

type PrinterHandler struct {
	store  *db.Store
	client *printer.Client
}

func NewPrinterHandler(store *db.Store, client *printer.Client) *PrinterHandler {
	return &PrinterHandler{
		store:  store,
		client: client,
	}
}

func (h *PrinterHandler) ListPrinters(c *gin.Context) {
	printers, err := h.store.ListPrinters(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "database_error",
			Message: "Failed to retrieve printers",
		})
		return
	}

	c.JSON(http.StatusOK, printers)
}

func (h *PrinterHandler) CreatePrinter(c *gin.Context) {
	var req CreatePrinterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	port := req.Port
	if port == 0 {
		port = 9100
	}
	dpi := req.DPI
	if dpi == 0 {
		dpi = 203
	}
	width := req.LabelWidthIn
	if width == 0 {
		width = 4
	}
	height := req.LabelHeightIn
	if height == 0 {
		height = 2
	}

	p := &db.Printer{
		Name:          req.Name,
		IPAddress:     req.IPAddress,
		Port:          port,
		DPI:           dpi,
		LabelWidthIn:  width,
		LabelHeightIn: height,
		Status:        "unknown",
	}

	if err := h.store.CreatePrinter(c.Request.Context(), p); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "database_error",
			Message: "Failed to create printer",
		})
		return
	}

	c.JSON(http.StatusCreated, p)
}

func (h *PrinterHandler) GetPrinter(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_id",
			Message: "Invalid printer ID",
		})
		return
	}

	p, err := h.store.GetPrinterByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "not_found",
				Message: "Printer not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "database_error",
			Message: "Failed to retrieve printer",
		})
		return
	}

	c.JSON(http.StatusOK, p)
}

func (h *PrinterHandler) UpdatePrinter(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_id",
			Message: "Invalid printer ID",
		})
		return
	}

	var req UpdatePrinterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	p, err := h.store.GetPrinterByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "not_found",
				Message: "Printer not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "database_error",
			Message: "Failed to retrieve printer",
		})
		return
	}

	if req.Name != "" {
		p.Name = req.Name
	}
	if req.IPAddress != "" {
		p.IPAddress = req.IPAddress
	}
	if req.Port != 0 {
		p.Port = req.Port
	}
	if req.DPI != 0 {
		p.DPI = req.DPI
	}
	if req.LabelWidthIn != 0 {
		p.LabelWidthIn = req.LabelWidthIn
	}
	if req.LabelHeightIn != 0 {
		p.LabelHeightIn = req.LabelHeightIn
	}

	if err := h.store.UpdatePrinter(c.Request.Context(), p); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "database_error",
			Message: "Failed to update printer",
		})
		return
	}

	c.JSON(http.StatusOK, p)
}

func (h *PrinterHandler) DeletePrinter(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_id",
			Message: "Invalid printer ID",
		})
		return
	}

	if err := h.store.DeletePrinter(c.Request.Context(), id); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "not_found",
				Message: "Printer not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "database_error",
			Message: "Failed to delete printer",
		})
		return
	}

	c.Status(http.StatusNoContent)
}

// TestPrinter probes the printer socket and records the result. The probe
// only proves the port accepts connections, not that the printer has media.
func (h *PrinterHandler) TestPrinter(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_id",
			Message: "Invalid printer ID",
		})
		return
	}

	target, err := h.store.GetPrinterTarget(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "not_found",
				Message: "Printer not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "database_error",
			Message: "Failed to retrieve printer",
		})
		return
	}

	status := "online"
	isOnline := true
	if err := h.client.Probe(c.Request.Context(), target); err != nil {
		status = "offline"
		isOnline = false
	}

	if err := h.store.UpdatePrinterStatus(c.Request.Context(), id, status); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "database_error",
			Message: "Failed to record printer status",
		})
		return
	}

	c.JSON(http.StatusOK, TestPrinterResponse{
		ID:        id,
		Status:    status,
		IsOnline:  isOnline,
		CheckedAt: time.Now(),
	})
}

func parseID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, fmt.Errorf("invalid ID")
	}
	return id, nil
}
