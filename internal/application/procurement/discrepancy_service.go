package procurement

import (
	"context"

	"github.com/google/uuid"

	"github.com/praxis/backend/internal/domain/procurement"
	"github.com/praxis/backend/internal/domain/shared"
)

// DiscrepancyService handles the operator workflow on logged discrepancies
type DiscrepancyService struct {
	discrepancyRepo procurement.DiscrepancyRepository
}

// NewDiscrepancyService creates a new DiscrepancyService
func NewDiscrepancyService(discrepancyRepo procurement.DiscrepancyRepository) *DiscrepancyService {
	return &DiscrepancyService{
		discrepancyRepo: discrepancyRepo,
	}
}

// GetByID retrieves a discrepancy record by ID
func (s *DiscrepancyService) GetByID(ctx context.Context, practiceID, recordID uuid.UUID) (*DiscrepancyResponse, error) {
	record, err := s.discrepancyRepo.FindByIDForPractice(ctx, practiceID, recordID)
	if err != nil {
		return nil, err
	}
	response := ToDiscrepancyResponse(record)
	return &response, nil
}

// List retrieves discrepancy records with filtering and pagination
func (s *DiscrepancyService) List(ctx context.Context, practiceID uuid.UUID, filter DiscrepancyListFilter) ([]DiscrepancyResponse, int64, error) {
	domainFilter := buildDiscrepancyFilter(filter)

	var records []procurement.DiscrepancyRecord
	var err error
	if filter.OpenOnly {
		records, err = s.discrepancyRepo.FindOpenForPractice(ctx, practiceID, domainFilter)
	} else {
		records, err = s.discrepancyRepo.FindAllForPractice(ctx, practiceID, domainFilter)
	}
	if err != nil {
		return nil, 0, err
	}

	total, err := s.discrepancyRepo.CountForPractice(ctx, practiceID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]DiscrepancyResponse, len(records))
	for i := range records {
		responses[i] = ToDiscrepancyResponse(&records[i])
	}
	return responses, total, nil
}

// ListByReceipt retrieves the discrepancy records logged against a receipt
func (s *DiscrepancyService) ListByReceipt(ctx context.Context, practiceID, receiptID uuid.UUID) ([]DiscrepancyResponse, error) {
	records, err := s.discrepancyRepo.FindByReceipt(ctx, practiceID, receiptID)
	if err != nil {
		return nil, err
	}

	responses := make([]DiscrepancyResponse, len(records))
	for i := range records {
		responses[i] = ToDiscrepancyResponse(&records[i])
	}
	return responses, nil
}

// Resolve closes a discrepancy record with a resolution note
func (s *DiscrepancyService) Resolve(ctx context.Context, practiceID, recordID uuid.UUID, req ResolveDiscrepancyRequest) (*DiscrepancyResponse, error) {
	record, err := s.discrepancyRepo.FindByIDForPractice(ctx, practiceID, recordID)
	if err != nil {
		return nil, err
	}

	if err := record.Resolve(req.Note); err != nil {
		return nil, err
	}

	if err := s.discrepancyRepo.Save(ctx, record); err != nil {
		return nil, err
	}

	response := ToDiscrepancyResponse(record)
	return &response, nil
}

// RequireSupplierCorrection escalates an open record to the supplier
func (s *DiscrepancyService) RequireSupplierCorrection(ctx context.Context, practiceID, recordID uuid.UUID, req RequireSupplierCorrectionRequest) (*DiscrepancyResponse, error) {
	record, err := s.discrepancyRepo.FindByIDForPractice(ctx, practiceID, recordID)
	if err != nil {
		return nil, err
	}

	if err := record.RequireSupplierCorrection(req.Note); err != nil {
		return nil, err
	}

	if err := s.discrepancyRepo.Save(ctx, record); err != nil {
		return nil, err
	}

	response := ToDiscrepancyResponse(record)
	return &response, nil
}

// AppendNote appends a timestamped progress note to a record
func (s *DiscrepancyService) AppendNote(ctx context.Context, practiceID, recordID uuid.UUID, req AppendDiscrepancyNoteRequest) (*DiscrepancyResponse, error) {
	record, err := s.discrepancyRepo.FindByIDForPractice(ctx, practiceID, recordID)
	if err != nil {
		return nil, err
	}

	if err := record.AppendNote(req.Note); err != nil {
		return nil, err
	}

	if err := s.discrepancyRepo.Save(ctx, record); err != nil {
		return nil, err
	}

	response := ToDiscrepancyResponse(record)
	return &response, nil
}

// buildDiscrepancyFilter converts the API filter into a domain filter
func buildDiscrepancyFilter(filter DiscrepancyListFilter) shared.Filter {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Filters:  make(map[string]interface{}),
	}

	if filter.ReceiptID != nil {
		domainFilter.Filters["receipt_id"] = *filter.ReceiptID
	}
	if filter.OrderID != nil {
		domainFilter.Filters["order_id"] = *filter.OrderID
	}
	if filter.Type != nil {
		domainFilter.Filters["type"] = string(*filter.Type)
	}
	if filter.Status != nil {
		domainFilter.Filters["status"] = string(*filter.Status)
	}

	return domainFilter
}
