package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/covxx/paleta/internal/db"
	"github.com/covxx/paleta/internal/label"
	"github.com/covxx/paleta/internal/printer"
	"github.com/covxx/paleta/internal/printjob"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type PrintRequest struct {
	LotCode   string               `json:"lot_code" binding:"required"`
	PrinterID int64                `json:"printer_id" binding:"required,gt=0"`
	Profile   string               `json:"profile"`
	Copies    int                  `json:"copies"`
	Custom    *CustomFieldsRequest `json:"custom"`
}

type BatchPrintRequest struct {
	LotCodes  []string             `json:"lot_codes" binding:"required"`
	PrinterID int64                `json:"printer_id" binding:"required,gt=0"`
	Profile   string               `json:"profile"`
	Copies    int                  `json:"copies"`
	Custom    *CustomFieldsRequest `json:"custom"`
}

type PreviewRequest struct {
	LotCode string               `json:"lot_code" binding:"required"`
	Profile string               `json:"profile"`
	Custom  *CustomFieldsRequest `json:"custom"`
}

// CustomFieldsRequest carries the free-form overrides for the custom label
// profile; ignored by the fixed profiles.
type CustomFieldsRequest struct {
	ProductName  string     `json:"product_name"`
	PackDate     *time.Time `json:"pack_date"`
	UseByDate    *time.Time `json:"use_by_date"`
	NetWeight    string     `json:"net_weight"`
	GrossWeight  string     `json:"gross_weight"`
	Ingredients  string     `json:"ingredients"`
	Manufacturer string     `json:"manufacturer"`
}

func (r *CustomFieldsRequest) toFields() *label.CustomFields {
	if r == nil {
		return nil
	}
	return &label.CustomFields{
		ProductName:  r.ProductName,
		PackDate:     r.PackDate,
		UseByDate:    r.UseByDate,
		NetWeight:    r.NetWeight,
		GrossWeight:  r.GrossWeight,
		Ingredients:  r.Ingredients,
		Manufacturer: r.Manufacturer,
	}
}

type OutcomeResponse struct {
	Status    string `json:"status"`
	Succeeded int    `json:"succeeded"`
	Requested int    `json:"requested"`
	Reason    string `json:"reason,omitempty"`
}

type BatchItemResponse struct {
	LotCode string          `json:"lot_code"`
	Outcome OutcomeResponse `json:"outcome"`
}

type BatchOutcomeResponse struct {
	BatchID    string              `json:"batch_id"`
	Items      []BatchItemResponse `json:"items"`
	Successful int                 `json:"successful"`
	Failed     int                 `json:"failed"`
	Overall    string              `json:"overall"`
}

type PrintHandler struct {
	orchestrator *printjob.Orchestrator
	engine       *label.Engine
	store        *db.Store
}

func NewPrintHandler(orchestrator *printjob.Orchestrator, engine *label.Engine, store *db.Store) *PrintHandler {
	return &PrintHandler{
		orchestrator: orchestrator,
		engine:       engine,
		store:        store,
	}
}

func (h *PrintHandler) Print(c *gin.Context) {
	var req PrintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	profile, err := label.ParseProfile(req.Profile)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_profile",
			Message: err.Error(),
		})
		return
	}

	outcome := h.orchestrator.PrintOne(c.Request.Context(), req.LotCode, req.PrinterID, profile, req.Copies, req.Custom.toFields())
	c.JSON(http.StatusOK, outcomeToResponse(outcome))
}

func (h *PrintHandler) PrintBatch(c *gin.Context) {
	var req BatchPrintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	profile, err := label.ParseProfile(req.Profile)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_profile",
			Message: err.Error(),
		})
		return
	}

	batch, err := h.orchestrator.PrintBatch(c.Request.Context(), req.LotCodes, req.PrinterID, profile, req.Copies, req.Custom.toFields())
	if err != nil {
		if errors.Is(err, printjob.ErrNoLotCodes) || errors.Is(err, printjob.ErrPrinterNotFound) {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "batch_rejected",
				Message: err.Error(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "print_error",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, batchToResponse(batch))
}

func (h *PrintHandler) Preview(c *gin.Context) {
	var req PreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	profile, err := label.ParseProfile(req.Profile)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_profile",
			Message: err.Error(),
		})
		return
	}

	rec, err := h.store.GetLotRecordByCode(c.Request.Context(), req.LotCode)
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

	if req.Custom != nil {
		rec.Custom = req.Custom.toFields()
	}

	preview, err := h.engine.RenderPreview(rec, profile)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "render_error",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"preview": preview})
}

// Sheet streams a paginated PDF of labels, one grid cell per copy. Lot codes
// arrive comma-separated in the query so the URL works as a download link.
// An optional printer_id scales the cells from that printer's stored label
// dimensions; without one the standard 4x2 stock applies.
func (h *PrintHandler) Sheet(c *gin.Context) {
	codes := splitCodes(c.Query("lot_codes"))
	if len(codes) == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "lot_codes query parameter is required",
		})
		return
	}

	profile, err := label.ParseProfile(c.Query("profile"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_profile",
			Message: err.Error(),
		})
		return
	}

	target := printerTargetDefault()
	if idStr := c.Query("printer_id"); idStr != "" {
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil || id <= 0 {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "invalid_id",
				Message: "Invalid printer ID",
			})
			return
		}
		target, err = h.store.GetPrinterTarget(c.Request.Context(), id)
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
	}

	records := make([]label.TraceabilityRecord, 0, len(codes))
	for _, code := range codes {
		rec, err := h.store.GetLotRecordByCode(c.Request.Context(), code)
		if err != nil {
			if errors.Is(err, db.ErrNotFound) {
				c.JSON(http.StatusNotFound, ErrorResponse{
					Error:   "not_found",
					Message: "Lot not found: " + code,
				})
				return
			}
			c.JSON(http.StatusInternalServerError, ErrorResponse{
				Error:   "database_error",
				Message: "Failed to retrieve lot",
			})
			return
		}
		records = append(records, rec)
	}

	copies := 1
	if v, err := strconv.Atoi(c.Query("copies")); err == nil && v > 0 {
		copies = v
	}

	pdf, err := h.engine.RenderSheet(records, target, profile, copies)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "render_error",
			Message: err.Error(),
		})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="labels.pdf"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}

func splitCodes(raw string) []string {
	var codes []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			codes = append(codes, part)
		}
	}
	return codes
}

// printerTargetDefault supplies the stock dimensions used when rendering a
// sheet without a concrete printer, matching the standard 4x2 inch label.
func printerTargetDefault() printer.Target {
	return printer.Target{DPI: 203, LabelWidthIn: 4, LabelHeightIn: 2}
}

func outcomeToResponse(o printjob.Outcome) OutcomeResponse {
	var status string
	switch o.Kind {
	case printjob.OutcomeSuccess:
		status = "success"
	case printjob.OutcomePartial:
		status = "partial_success"
	default:
		status = "failure"
	}
	return OutcomeResponse{
		Status:    status,
		Succeeded: o.Succeeded,
		Requested: o.Requested,
		Reason:    o.Reason,
	}
}

func batchToResponse(b printjob.BatchOutcome) BatchOutcomeResponse {
	items := make([]BatchItemResponse, 0, len(b.Items))
	for _, it := range b.Items {
		items = append(items, BatchItemResponse{
			LotCode: it.LotCode,
			Outcome: outcomeToResponse(it.Outcome),
		})
	}
	overall := "success"
	if !b.OverallSuccess() {
		if b.Successful > 0 {
			overall = "partial_success"
		} else {
			overall = "failure"
		}
	}
	return BatchOutcomeResponse{
		BatchID:    b.BatchID,
		Items:      items,
		Successful: b.Successful,
		Failed:     b.Failed,
		Overall:    overall,
	}
}
