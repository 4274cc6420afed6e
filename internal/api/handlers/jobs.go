package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/covxx/paleta/internal/db"
)

type JobHandler struct {
	store *db.Store
}

func NewJobHandler(store *db.Store) *JobHandler {
	return &JobHandler{store: store}
}

func (h *JobHandler) ListJobs(c *gin.Context) {
	status := c.Query("status")
	switch status {
	case "", db.JobStatusPending, db.JobStatusPrinting, db.JobStatusCompleted, db.JobStatusFailed:
	default:
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_status",
			Message: "Unknown job status filter",
		})
		return
	}

	limit, offset := parsePage(c)

	jobs, err := h.store.ListJobs(c.Request.Context(), status, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "database_error",
			Message: "Failed to retrieve jobs",
		})
		return
	}

	c.JSON(http.StatusOK, jobs)
}

func (h *JobHandler) GetJob(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_id",
			Message: "Invalid job ID",
		})
		return
	}

	job, err := h.store.GetJobByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "not_found",
				Message: "Job not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "database_error",
			Message: "Failed to retrieve job",
		})
		return
	}

	c.JSON(http.StatusOK, job)
}
