package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/janezhang99/SEW-v5-sub002/internal/apperrors"
	"github.com/janezhang99/SEW-v5-sub002/internal/core/domain"
	portssvc "github.com/janezhang99/SEW-v5-sub002/internal/core/ports/services"
	"github.com/janezhang99/SEW-v5-sub002/internal/dto"
	"github.com/janezhang99/SEW-v5-sub002/internal/middleware"
)

const (
	maxImportBytes = 10 << 20
	streamBuffer   = 32
)

// recordHandler serves the CRUD, summary, import and stream endpoints of one record kind.
type recordHandler[F, C, U, S any] struct {
	kind    domain.Kind
	service portssvc.RecordSvcFacade[F, C, U, S]
}

// RegisterRecordRoutes registers the endpoints of kind under rg.
func RegisterRecordRoutes[F, C, U, S any](rg *gin.RouterGroup, kind domain.Kind, svc portssvc.RecordSvcFacade[F, C, U, S]) {
	h := &recordHandler[F, C, U, S]{kind: kind, service: svc}

	records := rg.Group("/" + string(kind))
	{
		records.POST("", h.createRecord)
		records.GET("", h.listRecords)
		records.GET("/summary", h.getSummary)
		records.GET("/stream", h.streamChanges)
		records.POST("/import", h.importRecords)
		records.GET("/:id", h.getRecord)
		records.PUT("/:id", h.updateRecord)
		records.PATCH("/:id/status", h.updateStatus)
		records.DELETE("/:id", h.deleteRecord)
	}
}

func (h *recordHandler[F, C, U, S]) logger(c *gin.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("kind", string(h.kind)))
}

// createRecord godoc
// @Summary Create a record
// @Description Creates a record of the given kind. An omitted status takes the catalog default.
// @Tags records
// @Accept  json
// @Produce  json
// @Param   kind path string true "Record kind" Enums(expenses, projects, events, tasks)
// @Param   record body object true "Kind-specific create request"
// @Success 201 {object} object "The created record"
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /{kind} [post]
func (h *recordHandler[F, C, U, S]) createRecord(c *gin.Context) {
	logger := h.logger(c)
	var req C
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for create", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	rec, err := h.service.CreateRecord(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, logger, err, "create record")
		return
	}
	c.JSON(http.StatusCreated, dto.ToRecordResponse(*rec))
}

// listRecords godoc
// @Summary List records
// @Description Lists records in insertion order with optional filters and cursor pagination.
// @Tags records
// @Produce  json
// @Param   kind path string true "Record kind" Enums(expenses, projects, events, tasks)
// @Param   status query []string false "Statuses (repeated or comma separated)"
// @Param   category query string false "Category (priority for tasks)"
// @Param   from query string false "Inclusive start date (YYYY-MM-DD)"
// @Param   to query string false "Inclusive end date (YYYY-MM-DD)"
// @Param   q query string false "Case-insensitive text search"
// @Param   limit query int false "Page size" default(50)
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} object "Page of records"
// @Failure 400 {object} map[string]string "Invalid filters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /{kind} [get]
func (h *recordHandler[F, C, U, S]) listRecords(c *gin.Context) {
	logger := h.logger(c)
	var params dto.ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind list query", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	records, next, err := h.service.ListRecords(c.Request.Context(), params)
	if err != nil {
		respondError(c, logger, err, "list records")
		return
	}

	resp := dto.ListRecordsResponse[F]{Items: dto.ToListRecordResponse(records)}
	if next != "" {
		resp.NextToken = &next
	}
	c.JSON(http.StatusOK, resp)
}

// getRecord godoc
// @Summary Get a record by ID
// @Tags records
// @Produce  json
// @Param   kind path string true "Record kind" Enums(expenses, projects, events, tasks)
// @Param   id path string true "Record ID"
// @Success 200 {object} object "The record"
// @Failure 404 {object} map[string]string "Record not found"
// @Security BearerAuth
// @Router /{kind}/{id} [get]
func (h *recordHandler[F, C, U, S]) getRecord(c *gin.Context) {
	logger := h.logger(c).With(slog.String("id", c.Param("id")))

	rec, err := h.service.GetRecordByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, logger, err, "retrieve record")
		return
	}
	c.JSON(http.StatusOK, dto.ToRecordResponse(*rec))
}

// updateRecord godoc
// @Summary Update a record
// @Description Merges the provided fields into the record. Omitted fields stay untouched.
// @Tags records
// @Accept  json
// @Produce  json
// @Param   kind path string true "Record kind" Enums(expenses, projects, events, tasks)
// @Param   id path string true "Record ID"
// @Param   record body object true "Kind-specific update request"
// @Success 200 {object} object "The updated record"
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 404 {object} map[string]string "Record not found"
// @Security BearerAuth
// @Router /{kind}/{id} [put]
func (h *recordHandler[F, C, U, S]) updateRecord(c *gin.Context) {
	logger := h.logger(c).With(slog.String("id", c.Param("id")))
	var req U
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for update", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	rec, err := h.service.UpdateRecord(c.Request.Context(), c.Param("id"), req, userID)
	if err != nil {
		respondError(c, logger, err, "update record")
		return
	}
	c.JSON(http.StatusOK, dto.ToRecordResponse(*rec))
}

// updateStatus godoc
// @Summary Change the status of a record
// @Tags records
// @Accept  json
// @Produce  json
// @Param   kind path string true "Record kind" Enums(expenses, projects, events, tasks)
// @Param   id path string true "Record ID"
// @Param   status body dto.UpdateStatusRequest true "New status"
// @Success 200 {object} object "The updated record"
// @Failure 400 {object} map[string]string "Unknown status or transition not allowed"
// @Failure 404 {object} map[string]string "Record not found"
// @Security BearerAuth
// @Router /{kind}/{id}/status [patch]
func (h *recordHandler[F, C, U, S]) updateStatus(c *gin.Context) {
	logger := h.logger(c).With(slog.String("id", c.Param("id")))
	var req dto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for status change", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	rec, err := h.service.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status, userID)
	if err != nil {
		respondError(c, logger, err, "change status")
		return
	}
	c.JSON(http.StatusOK, dto.ToRecordResponse(*rec))
}

// deleteRecord godoc
// @Summary Delete a record
// @Description Deleting a missing record also succeeds.
// @Tags records
// @Param   kind path string true "Record kind" Enums(expenses, projects, events, tasks)
// @Param   id path string true "Record ID"
// @Success 204 "No Content"
// @Security BearerAuth
// @Router /{kind}/{id} [delete]
func (h *recordHandler[F, C, U, S]) deleteRecord(c *gin.Context) {
	logger := h.logger(c).With(slog.String("id", c.Param("id")))

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.service.DeleteRecord(c.Request.Context(), c.Param("id"), userID); err != nil {
		respondError(c, logger, err, "delete record")
		return
	}
	c.Status(http.StatusNoContent)
}

// getSummary godoc
// @Summary Summarize records
// @Description Aggregates the records matching the list filters.
// @Tags records
// @Produce  json
// @Param   kind path string true "Record kind" Enums(expenses, projects, events, tasks)
// @Param   status query []string false "Statuses"
// @Param   category query string false "Category"
// @Param   from query string false "Inclusive start date (YYYY-MM-DD)"
// @Param   to query string false "Inclusive end date (YYYY-MM-DD)"
// @Param   q query string false "Text search"
// @Success 200 {object} object "Kind-specific summary"
// @Failure 400 {object} map[string]string "Invalid filters"
// @Security BearerAuth
// @Router /{kind}/summary [get]
func (h *recordHandler[F, C, U, S]) getSummary(c *gin.Context) {
	logger := h.logger(c)
	var params dto.ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind summary query", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	summary, err := h.service.Summary(c.Request.Context(), params)
	if err != nil {
		respondError(c, logger, err, "compute summary")
		return
	}
	c.JSON(http.StatusOK, summary)
}

// importRecords godoc
// @Summary Import records from CSV
// @Description Accepts a CSV document as the request body (text/csv) or as the "file" field of a multipart form.
// @Description Valid rows are created; invalid rows are reported with their line number.
// @Tags records
// @Accept  text/csv,multipart/form-data
// @Produce  json
// @Param   kind path string true "Record kind" Enums(expenses, projects, events, tasks)
// @Success 200 {object} dto.ImportResponse
// @Failure 400 {object} map[string]string "Unreadable CSV or missing columns"
// @Security BearerAuth
// @Router /{kind}/import [post]
func (h *recordHandler[F, C, U, S]) importRecords(c *gin.Context) {
	logger := h.logger(c)

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImportBytes)
	var body io.Reader = c.Request.Body
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		fh, err := c.FormFile("file")
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(c, logger, err, "import records")
			return
		}
		if err != nil {
			respondError(c, logger, apperrors.Validationf("multipart import needs a \"file\" field"), "import records")
			return
		}
		f, err := fh.Open()
		if err != nil {
			respondError(c, logger, err, "import records")
			return
		}
		defer f.Close()
		body = f
	}

	resp, err := h.service.ImportCSV(c.Request.Context(), body, userID)
	if err != nil {
		respondError(c, logger, err, "import records")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// streamChanges godoc
// @Summary Stream record changes
// @Description Server-sent events, one per created, updated or deleted record. Slow clients may miss events.
// @Tags records
// @Produce  text/event-stream
// @Param   kind path string true "Record kind" Enums(expenses, projects, events, tasks)
// @Success 200 {string} string "event stream"
// @Security BearerAuth
// @Router /{kind}/stream [get]
func (h *recordHandler[F, C, U, S]) streamChanges(c *gin.Context) {
	logger := h.logger(c)
	changes := h.service.Watch(c.Request.Context(), streamBuffer)
	logger.Info("Change stream opened")

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.Stream(func(w io.Writer) bool {
		change, open := <-changes
		if !open {
			return false
		}
		c.SSEvent(string(change.Type), change)
		return true
	})
	logger.Info("Change stream closed")
}
