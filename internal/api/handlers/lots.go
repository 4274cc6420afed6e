package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/covxx/paleta/internal/db"
)

type CreateItemRequest struct {
	Code        string `json:"code" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	GTIN        string `json:"gtin" binding:"required,len=14,numeric"`
	UnitLabel   string `json:"unit_label"`
	Vendor      string `json:"vendor"`
}

type CreateLotRequest struct {
	LotCode    string     `json:"lot_code" binding:"required"`
	ItemID     int64      `json:"item_id" binding:"required,gt=0"`
	Quantity   float64    `json:"quantity" binding:"gte=0"`
	PackDate   *time.Time `json:"pack_date"`
	ExpiryDate *time.Time `json:"expiry_date"`
}

type LotHandler struct {
	store *db.Store
}

func NewLotHandler(store *db.Store) *LotHandler {
	return &LotHandler{store: store}
}

func (h *LotHandler) CreateItem(c *gin.Context) {
	var req CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	unitLabel := req.UnitLabel
	if unitLabel == "" {
		unitLabel = "cases"
	}

	it := &db.Item{
		Code:        req.Code,
		Name:        req.Name,
		Description: req.Description,
		GTIN:        req.GTIN,
		UnitLabel:   unitLabel,
		Vendor:      req.Vendor,
	}

	if err := h.store.CreateItem(c.Request.Context(), it); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "database_error",
			Message: "Failed to create item",
		})
		return
	}

	c.JSON(http.StatusCreated, it)
}

func (h *LotHandler) ListItems(c *gin.Context) {
	items, err := h.store.ListItems(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "database_error",
			Message: "Failed to retrieve items",
		})
		return
	}

	c.JSON(http.StatusOK, items)
}

func (h *LotHandler) CreateLot(c *gin.Context) {
	var req CreateLotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	if _, err := h.store.GetItemByID(c.Request.Context(), req.ItemID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "item_not_found",
				Message: "Referenced item does not exist",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "database_error",
			Message: "Failed to retrieve item",
		})
		return
	}

	l := &db.Lot{
		LotCode:    req.LotCode,
		ItemID:     req.ItemID,
		Quantity:   req.Quantity,
		PackDate:   req.PackDate,
		ExpiryDate: req.ExpiryDate,
	}

	if err := h.store.CreateLot(c.Request.Context(), l); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "database_error",
			Message: "Failed to create lot",
		})
		return
	}

	c.JSON(http.StatusCreated, l)
}

func (h *LotHandler) ListLots(c *gin.Context) {
	limit, offset := parsePage(c)

	lots, err := h.store.ListLots(c.Request.Context(), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "database_error",
			Message: "Failed to retrieve lots",
		})
		return
	}

	c.JSON(http.StatusOK, lots)
}

func (h *LotHandler) GetLot(c *gin.Context) {
	code := c.Param("code")

	lot, err := h.store.GetLotByCode(c.Request.Context(), code)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "not_found",
				Message: "Lot not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "database_error",
			Message: "Failed to retrieve lot",
		})
		return
	}

	c.JSON(http.StatusOK, lot)
}

func parsePage(c *gin.Context) (limit, offset int) {
	limit = 100
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 && v <= 500 {
		limit = v
	}
	if v, err := strconv.Atoi(c.Query("offset")); err == nil && v >= 0 {
		offset = v
	}
	return limit, offset
}
