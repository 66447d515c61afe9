package handler

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/gstbill-api/internal/application/service"
	"github.com/sangkips/gstbill-api/internal/presentation/http/dto/request"
	"github.com/sangkips/gstbill-api/internal/presentation/http/dto/response"
	"github.com/sangkips/gstbill-api/pkg/logger"
	"github.com/sangkips/gstbill-api/pkg/pagination"
	"github.com/sangkips/gstbill-api/pkg/validation"
	"go.uber.org/zap"
)

// BillHandler handles bill-related HTTP requests
type BillHandler struct {
	billService *service.BillService
	log         *zap.Logger
}

// NewBillHandler creates a new bill handler
func NewBillHandler(billService *service.BillService, log *zap.Logger) *BillHandler {
	return &BillHandler{billService: billService, log: log}
}

// List handles listing bills newest first
// @Summary List bills
// @Tags bills
// @Security BearerAuth
// @Param search query string false "Bill number or receiver name"
// @Param page query int false "Page"
// @Param per_page query int false "Page size"
// @Success 200 {object} response.APIResponse
// @Router /bills [get]
func (h *BillHandler) List(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var filter request.BillFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.Error(c, validation.Translate(err))
		return
	}

	result, err := h.billService.ListBills(c.Request.Context(), userID, pagination.Params{
		Page:    filter.Page,
		PerPage: filter.PerPage,
	}, filter.Search)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, "Bills retrieved successfully", result)
}

// Create handles issuing a bill. The response carries the computed totals
// and the reference of the rendered PDF.
// @Summary Create bill
// @Tags bills
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body request.BillRequest true "Bill"
// @Success 201 {object} response.APIResponse
// @Failure 409 {object} response.APIResponse
// @Failure 422 {object} response.APIResponse
// @Router /bills [post]
func (h *BillHandler) Create(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	input, ok := bindBill(c, userID)
	if !ok {
		return
	}

	bill, err := h.billService.CreateBill(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Bill created successfully", bill)
}

// NextNumber suggests the next free bill number
// @Summary Next bill number
// @Tags bills
// @Security BearerAuth
// @Success 200 {object} response.APIResponse
// @Router /bills/next-number [get]
func (h *BillHandler) NextNumber(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	next, err := h.billService.NextBillNumber(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Next bill number", gin.H{"bill_number": next})
}

// Get handles fetching a bill with its company and receiver
// @Summary Get bill
// @Tags bills
// @Security BearerAuth
// @Param id path string true "Bill ID"
// @Success 200 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /bills/{id} [get]
func (h *BillHandler) Get(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	bill, err := h.billService.GetBill(c.Request.Context(), userID, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Bill retrieved successfully", bill)
}

// Update handles replacing a bill's content and document
// @Summary Update bill
// @Tags bills
// @Security BearerAuth
// @Accept json
// @Param id path string true "Bill ID"
// @Param request body request.BillRequest true "Bill"
// @Success 200 {object} response.APIResponse
// @Router /bills/{id} [put]
func (h *BillHandler) Update(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	input, ok := bindBill(c, userID)
	if !ok {
		return
	}

	bill, err := h.billService.UpdateBill(c.Request.Context(), id, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Bill updated successfully", bill)
}

// Delete handles deleting a bill and its document
// @Summary Delete bill
// @Tags bills
// @Security BearerAuth
// @Param id path string true "Bill ID"
// @Success 200 {object} response.APIResponse
// @Router /bills/{id} [delete]
func (h *BillHandler) Delete(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.billService.DeleteBill(c.Request.Context(), userID, id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Bill deleted successfully", nil)
}

// Download streams the rendered invoice
// @Summary Download bill PDF
// @Tags bills
// @Security BearerAuth
// @Produce application/pdf
// @Param id path string true "Bill ID"
// @Success 200 {file} binary
// @Router /bills/{id}/pdf [get]
func (h *BillHandler) Download(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	h.streamDocument(c, userID, id)
}

// DownloadStored serves a bill PDF at the reference stored in pdf_url,
// e.g. /bills/<bill-id>.pdf. Only the owner of the bill can fetch it.
func (h *BillHandler) DownloadStored(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	name, found := strings.CutSuffix(c.Param("file"), ".pdf")
	id, err := uuid.Parse(name)
	if !found || err != nil {
		response.NotFound(c, "Bill document not found")
		return
	}

	h.streamDocument(c, userID, id)
}

func (h *BillHandler) streamDocument(c *gin.Context, userID, id uuid.UUID) {
	doc, bill, err := h.billService.Document(c.Request.Context(), userID, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer doc.Close()

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", fmt.Sprintf(`inline; filename="bill-%d.pdf"`, bill.BillNumber))
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, doc); err != nil {
		logger.WithContext(c.Request.Context(), h.log).Warn("bill download interrupted",
			zap.String("bill_id", bill.ID.String()),
			zap.Error(err),
		)
	}
}

func bindBill(c *gin.Context, userID uuid.UUID) (*service.BillInput, bool) {
	var req request.BillRequest
	if !bindJSON(c, &req) {
		return nil, false
	}

	date, err := parseDate(req.Date)
	if err != nil {
		response.Error(c, err)
		return nil, false
	}

	items := make([]service.BillItemInput, len(req.Items))
	for i, it := range req.Items {
		items[i] = service.BillItemInput{
			Description: it.Description,
			HSNCode:     it.HSNCode,
			Quantity:    it.Quantity,
			Rate:        it.Rate,
		}
	}

	return &service.BillInput{
		UserID:     userID,
		ReceiverID: req.ReceiverID,
		BillNumber: req.BillNumber,
		Date:       date,
		Items:      items,
		CGSTRate:   req.CGSTRate,
		SGSTRate:   req.SGSTRate,
	}, true
}
