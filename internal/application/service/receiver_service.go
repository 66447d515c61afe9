package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/gstbill-api/internal/domain/entity"
	"github.com/sangkips/gstbill-api/internal/domain/repository"
	"github.com/sangkips/gstbill-api/pkg/apperror"
)

// ReceiverService handles receiver-related operations
type ReceiverService struct {
	receiverRepo repository.ReceiverRepository
	billRepo     repository.BillRepository
}

// NewReceiverService creates a new receiver service
func NewReceiverService(receiverRepo repository.ReceiverRepository, billRepo repository.BillRepository) *ReceiverService {
	return &ReceiverService{receiverRepo: receiverRepo, billRepo: billRepo}
}

// ReceiverInput represents the create and update receiver input
type ReceiverInput struct {
	UserID    uuid.UUID
	Name      string
	Address   string
	Phone     *string
	Email     *string
	GSTNumber *string
}

// CreateReceiver creates a new receiver
func (s *ReceiverService) CreateReceiver(ctx context.Context, input *ReceiverInput) (*entity.Receiver, error) {
	receiver := &entity.Receiver{
		UserID:    input.UserID,
		Name:      input.Name,
		Address:   input.Address,
		Phone:     input.Phone,
		Email:     input.Email,
		GSTNumber: input.GSTNumber,
	}

	if err := s.receiverRepo.Create(ctx, receiver); err != nil {
		return nil, err
	}

	return receiver, nil
}

// GetReceiver retrieves a receiver by ID
func (s *ReceiverService) GetReceiver(ctx context.Context, userID, id uuid.UUID) (*entity.Receiver, error) {
	receiver, err := s.receiverRepo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if receiver == nil {
		return nil, apperror.NewNotFoundError("Receiver")
	}
	return receiver, nil
}

// ListReceivers lists the owner's receivers, optionally filtered by name
func (s *ReceiverService) ListReceivers(ctx context.Context, userID uuid.UUID, search string) ([]entity.Receiver, error) {
	return s.receiverRepo.List(ctx, userID, search)
}

// UpdateReceiver replaces a receiver's details
func (s *ReceiverService) UpdateReceiver(ctx context.Context, id uuid.UUID, input *ReceiverInput) (*entity.Receiver, error) {
	receiver, err := s.GetReceiver(ctx, input.UserID, id)
	if err != nil {
		return nil, err
	}

	receiver.Name = input.Name
	receiver.Address = input.Address
	receiver.Phone = input.Phone
	receiver.Email = input.Email
	receiver.GSTNumber = input.GSTNumber

	if err := s.receiverRepo.Update(ctx, receiver); err != nil {
		if isNotFound(err) {
			return nil, apperror.NewNotFoundError("Receiver")
		}
		return nil, err
	}

	return receiver, nil
}

// DeleteReceiver deletes a receiver that no bill refers to
func (s *ReceiverService) DeleteReceiver(ctx context.Context, userID, id uuid.UUID) error {
	if _, err := s.GetReceiver(ctx, userID, id); err != nil {
		return err
	}

	count, err := s.billRepo.CountByReceiver(ctx, userID, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return apperror.NewConflictError("Receiver is used by existing bills")
	}

	return s.receiverRepo.Delete(ctx, userID, id)
}
