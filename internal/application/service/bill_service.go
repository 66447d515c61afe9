package service

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/gstbill-api/internal/domain/entity"
	"github.com/sangkips/gstbill-api/internal/domain/repository"
	"github.com/sangkips/gstbill-api/internal/domain/tax"
	"github.com/sangkips/gstbill-api/internal/infrastructure/render"
	"github.com/sangkips/gstbill-api/pkg/apperror"
	"github.com/sangkips/gstbill-api/pkg/docstore"
	"github.com/sangkips/gstbill-api/pkg/logger"
	"github.com/sangkips/gstbill-api/pkg/pagination"
	"github.com/sangkips/gstbill-api/pkg/validation"
	"go.uber.org/zap"
)

// InvoiceRenderer turns a resolved bill into a PDF document
type InvoiceRenderer interface {
	Render(ctx context.Context, inv *render.Invoice) (*render.Document, error)
}

// BillService runs the bill lifecycle: every create and update recomputes
// tax, renders the invoice and persists the record together with its
// document, so a bill never exists without its PDF.
type BillService struct {
	billRepo     repository.BillRepository
	receiverRepo repository.ReceiverRepository
	companyRepo  repository.CompanyRepository
	settings     *SettingsService
	renderer     InvoiceRenderer
	store        docstore.Store
	validator    *validation.Validator
	log          *zap.Logger
}

// NewBillService creates a new bill service
func NewBillService(
	billRepo repository.BillRepository,
	receiverRepo repository.ReceiverRepository,
	companyRepo repository.CompanyRepository,
	settings *SettingsService,
	renderer InvoiceRenderer,
	store docstore.Store,
	validator *validation.Validator,
	log *zap.Logger,
) *BillService {
	return &BillService{
		billRepo:     billRepo,
		receiverRepo: receiverRepo,
		companyRepo:  companyRepo,
		settings:     settings,
		renderer:     renderer,
		store:        store,
		validator:    validator,
		log:          log,
	}
}

// BillItemInput is one submitted line item. Amount is always computed.
type BillItemInput struct {
	Description string  `json:"description" validate:"required,max=500"`
	HSNCode     string  `json:"hsn_code" validate:"max=20"`
	Quantity    float64 `json:"quantity" validate:"gt=0"`
	Rate        float64 `json:"rate" validate:"gte=0"`
}

// BillInput is the full content of a bill, used for both create and update.
// Nil rates fall back to the owner's settings.
type BillInput struct {
	UserID     uuid.UUID       `json:"-"`
	ReceiverID uuid.UUID       `json:"receiver_id" validate:"required"`
	BillNumber int64           `json:"bill_number" validate:"gt=0"`
	Date       time.Time       `json:"date" validate:"required"`
	Items      []BillItemInput `json:"items" validate:"dive"`
	CGSTRate   *float64        `json:"cgst_rate" validate:"omitempty,gte=0,lte=100"`
	SGSTRate   *float64        `json:"sgst_rate" validate:"omitempty,gte=0,lte=100"`
}

// CreateBill validates, computes, renders and stores a new bill
func (s *BillService) CreateBill(ctx context.Context, input *BillInput) (*entity.Bill, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, err
	}
	if err := s.ensureNumberFree(ctx, input.UserID, input.BillNumber, uuid.Nil); err != nil {
		return nil, err
	}

	bill := &entity.Bill{ID: uuid.New(), UserID: input.UserID}
	inv, err := s.assemble(ctx, bill, input)
	if err != nil {
		return nil, err
	}

	if err := s.publish(ctx, inv, s.billRepo.Create); err != nil {
		return nil, err
	}

	logger.WithContext(ctx, s.log).Info("bill created",
		zap.String("bill_id", bill.ID.String()),
		zap.Int64("bill_number", bill.BillNumber),
		zap.Float64("total", bill.Tax.TotalAfterTax),
	)
	return bill, nil
}

// UpdateBill fully replaces a bill's content. The stored document is
// replaced only together with the record.
func (s *BillService) UpdateBill(ctx context.Context, id uuid.UUID, input *BillInput) (*entity.Bill, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, err
	}

	bill, err := s.billRepo.GetByID(ctx, input.UserID, id)
	if err != nil {
		return nil, err
	}
	if bill == nil {
		return nil, apperror.NewNotFoundError("Bill")
	}
	if err := s.ensureNumberFree(ctx, input.UserID, input.BillNumber, bill.ID); err != nil {
		return nil, err
	}

	inv, err := s.assemble(ctx, bill, input)
	if err != nil {
		return nil, err
	}

	if err := s.publish(ctx, inv, s.billRepo.Update); err != nil {
		return nil, err
	}

	logger.WithContext(ctx, s.log).Info("bill updated",
		zap.String("bill_id", bill.ID.String()),
		zap.Int64("bill_number", bill.BillNumber),
		zap.Float64("total", bill.Tax.TotalAfterTax),
	)
	return bill, nil
}

// DeleteBill removes the bill and its stored document
func (s *BillService) DeleteBill(ctx context.Context, userID, id uuid.UUID) error {
	bill, err := s.GetBill(ctx, userID, id)
	if err != nil {
		return err
	}

	if err := s.billRepo.Delete(ctx, userID, id); err != nil {
		return err
	}

	if err := s.store.Remove(bill.DocumentKey()); err != nil {
		logger.WithContext(ctx, s.log).Warn("failed to remove bill document",
			zap.String("bill_id", bill.ID.String()),
			zap.Error(err),
		)
	}
	return nil
}

// GetBill retrieves a bill with its company and receiver
func (s *BillService) GetBill(ctx context.Context, userID, id uuid.UUID) (*entity.Bill, error) {
	bill, err := s.billRepo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if bill == nil {
		return nil, apperror.NewNotFoundError("Bill")
	}
	return bill, nil
}

// ListBills lists bills newest first, searchable by number or receiver name
func (s *BillService) ListBills(ctx context.Context, userID uuid.UUID, params pagination.Params, search string) (*pagination.Page[entity.Bill], error) {
	params = params.Normalize()

	bills, total, err := s.billRepo.List(ctx, userID, &repository.BillFilterParams{
		Search:     search,
		Pagination: params,
	})
	if err != nil {
		return nil, err
	}

	return pagination.NewPage(bills, params, total), nil
}

// NextBillNumber suggests the number following the owner's highest bill
func (s *BillService) NextBillNumber(ctx context.Context, userID uuid.UUID) (int64, error) {
	highest, err := s.billRepo.MaxBillNumber(ctx, userID)
	if err != nil {
		return 0, err
	}
	return highest + 1, nil
}

// Document opens the stored PDF of a bill. The caller closes the reader.
func (s *BillService) Document(ctx context.Context, userID, id uuid.UUID) (io.ReadCloser, *entity.Bill, error) {
	bill, err := s.GetBill(ctx, userID, id)
	if err != nil {
		return nil, nil, err
	}

	rc, err := s.store.Open(bill.DocumentKey())
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, nil, apperror.NewNotFoundError("Bill document")
	}
	if err != nil {
		return nil, nil, apperror.NewInternalError(err)
	}
	return rc, bill, nil
}

func (s *BillService) ensureNumberFree(ctx context.Context, userID uuid.UUID, number int64, self uuid.UUID) error {
	existing, err := s.billRepo.GetByNumber(ctx, userID, number)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != self {
		return apperror.NewConflictError("Bill number already exists")
	}
	return nil
}

// assemble resolves the parties, computes tax and fills every derived field
// of bill from input.
func (s *BillService) assemble(ctx context.Context, bill *entity.Bill, input *BillInput) (*render.Invoice, error) {
	receiver, err := s.receiverRepo.GetByID(ctx, input.UserID, input.ReceiverID)
	if err != nil {
		return nil, err
	}
	if receiver == nil {
		return nil, apperror.NewNotFoundError("Receiver")
	}

	company, err := s.companyRepo.GetByOwner(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, apperror.NewNotFoundError("Company profile")
	}

	rates, err := s.resolveRates(ctx, input)
	if err != nil {
		return nil, err
	}

	items := make([]tax.LineItem, len(input.Items))
	for i, it := range input.Items {
		items[i] = tax.LineItem{
			Description: it.Description,
			HSNCode:     it.HSNCode,
			Quantity:    it.Quantity,
			Rate:        it.Rate,
		}
	}

	breakdown, computed, err := tax.Calculate(items, rates)
	if err != nil {
		return nil, apperror.NewFieldError("items", err.Error())
	}

	bill.CompanyID = company.ID
	bill.ReceiverID = receiver.ID
	bill.BillNumber = input.BillNumber
	bill.Date = input.Date
	bill.Items = computed
	bill.CGSTRate = rates.CGSTPercent
	bill.SGSTRate = rates.SGSTPercent
	bill.Tax = breakdown
	bill.Company = company
	bill.Receiver = receiver

	payload, err := render.NewQRPayload(bill.BillNumber, bill.Date, breakdown.TotalAfterTax, company.CompanyName, receiver.Name)
	if err != nil {
		return nil, apperror.NewRenderError(err)
	}
	bill.QRPayload = payload
	bill.PDFURL = s.store.Reference(bill.DocumentKey())

	return &render.Invoice{
		Bill:      bill,
		Company:   company,
		Receiver:  receiver,
		QRPayload: payload,
	}, nil
}

func (s *BillService) resolveRates(ctx context.Context, input *BillInput) (tax.Rates, error) {
	if input.CGSTRate != nil && input.SGSTRate != nil {
		return tax.Rates{CGSTPercent: *input.CGSTRate, SGSTPercent: *input.SGSTRate}, nil
	}

	rates, err := s.settings.Rates(ctx, input.UserID)
	if err != nil {
		return tax.Rates{}, err
	}
	if input.CGSTRate != nil {
		rates.CGSTPercent = *input.CGSTRate
	}
	if input.SGSTRate != nil {
		rates.SGSTPercent = *input.SGSTRate
	}
	return rates, nil
}

// publish renders the invoice, stages the PDF and hands the bill to save
// with the staged commit as its final step. Whatever fails, the staged file
// is discarded and no record is written.
func (s *BillService) publish(ctx context.Context, inv *render.Invoice, save func(context.Context, *entity.Bill, repository.PublishFunc) error) error {
	log := logger.WithContext(ctx, s.log).With(zap.String("bill_id", inv.Bill.ID.String()))

	doc, err := s.renderer.Render(ctx, inv)
	if err != nil {
		log.Error("failed to render bill", zap.Error(err))
		return apperror.NewRenderError(err)
	}

	staged, err := s.store.Stage(inv.Bill.DocumentKey(), doc.Content)
	if err != nil {
		log.Error("failed to stage bill document", zap.Error(err))
		return apperror.NewInternalError(err)
	}
	defer func() {
		if err := staged.Discard(); err != nil {
			log.Warn("failed to discard staged document", zap.Error(err))
		}
	}()

	if err := save(ctx, inv.Bill, staged.Commit); err != nil {
		switch {
		case isDuplicate(err):
			return apperror.NewConflictError("Bill number already exists")
		case isNotFound(err):
			return apperror.NewNotFoundError("Bill")
		}
		log.Error("failed to save bill", zap.Error(err))
		return apperror.NewInternalError(err)
	}

	log.Debug("bill document published", zap.Int("pages", doc.Pages), zap.Int("bytes", len(doc.Content)))
	return nil
}
