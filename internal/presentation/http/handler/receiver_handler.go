package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/gstbill-api/internal/application/service"
	"github.com/sangkips/gstbill-api/internal/presentation/http/dto/request"
	"github.com/sangkips/gstbill-api/internal/presentation/http/dto/response"
)

// ReceiverHandler handles receiver-related HTTP requests
type ReceiverHandler struct {
	receiverService *service.ReceiverService
}

// NewReceiverHandler creates a new receiver handler
func NewReceiverHandler(receiverService *service.ReceiverService) *ReceiverHandler {
	return &ReceiverHandler{receiverService: receiverService}
}

// List handles listing receivers, optionally filtered by ?search=
func (h *ReceiverHandler) List(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	receivers, err := h.receiverService.ListReceivers(c.Request.Context(), userID, c.Query("search"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Receivers retrieved successfully", receivers)
}

// Create handles creating a receiver
func (h *ReceiverHandler) Create(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req request.ReceiverRequest
	if !bindJSON(c, &req) {
		return
	}

	receiver, err := h.receiverService.CreateReceiver(c.Request.Context(), receiverInput(userID, &req))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Receiver created successfully", receiver)
}

// Get handles fetching a receiver
func (h *ReceiverHandler) Get(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	receiver, err := h.receiverService.GetReceiver(c.Request.Context(), userID, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Receiver retrieved successfully", receiver)
}

// Update handles replacing a receiver's details
func (h *ReceiverHandler) Update(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req request.ReceiverRequest
	if !bindJSON(c, &req) {
		return
	}

	receiver, err := h.receiverService.UpdateReceiver(c.Request.Context(), id, receiverInput(userID, &req))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Receiver updated successfully", receiver)
}

// Delete handles deleting a receiver no bill refers to
func (h *ReceiverHandler) Delete(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.receiverService.DeleteReceiver(c.Request.Context(), userID, id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Receiver deleted successfully", nil)
}

func receiverInput(userID uuid.UUID, req *request.ReceiverRequest) *service.ReceiverInput {
	return &service.ReceiverInput{
		UserID:    userID,
		Name:      req.Name,
		Address:   req.Address,
		Phone:     req.Phone,
		Email:     req.Email,
		GSTNumber: req.GSTNumber,
	}
}
