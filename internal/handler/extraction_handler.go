package handler

import (
	"bytes"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"medbill/internal/middleware"
	"medbill/internal/port"
	"medbill/internal/xlsxexport"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExtractRequest is the body of an extraction request.
type ExtractRequest struct {
	Document string `json:"document" binding:"required"`
}

// ExtractionHandler serves bill extraction endpoints.
type ExtractionHandler struct {
	extractor port.BillExtractor
}

// NewExtractionHandler creates a new ExtractionHandler.
func NewExtractionHandler(extractor port.BillExtractor) *ExtractionHandler {
	return &ExtractionHandler{extractor: extractor}
}

// Home handles GET /
func (h *ExtractionHandler) Home(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "running", "usage": "/extract-bill-data"})
}

// Extract handles POST /extract-bill-data
func (h *ExtractionHandler) Extract(c *gin.Context) {
	var req ExtractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "body must be {\"document\": \"<url>\"}")
		return
	}

	log.Printf("[%s] handler.ExtractionHandler: extracting %s", middleware.GetRequestID(c), req.Document)
	result, err := h.extractor.Extract(c.Request.Context(), req.Document)
	if err != nil {
		HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ExportXLSX handles POST /api/v1/extract-bill-data/xlsx
func (h *ExtractionHandler) ExportXLSX(c *gin.Context) {
	var req ExtractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "body must be {\"document\": \"<url>\"}")
		return
	}

	result, err := h.extractor.Extract(c.Request.Context(), req.Document)
	if err != nil {
		HandleError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := xlsxexport.Write(&buf, result); err != nil {
		HandleError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="bill-extraction.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
