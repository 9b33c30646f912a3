package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/epicevents/crm-api/internal/auth"
	"github.com/epicevents/crm-api/internal/domain"
	"github.com/epicevents/crm-api/internal/mapper"
	"github.com/epicevents/crm-api/internal/repository"
)

type ContractService struct {
	contractRepo *repository.ContractRepository
	clientRepo   *repository.ClientRepository
	userRepo     *repository.UserRepository
	logger       *zap.Logger
}

func NewContractService(
	contractRepo *repository.ContractRepository,
	clientRepo *repository.ClientRepository,
	userRepo *repository.UserRepository,
	logger *zap.Logger,
) *ContractService {
	return &ContractService{
		contractRepo: contractRepo,
		clientRepo:   clientRepo,
		userRepo:     userRepo,
		logger:       logger,
	}
}

func (s *ContractService) List(ctx context.Context, filters repository.ContractFilters) ([]domain.ContractDTO, error) {
	if _, err := authorize(ctx, auth.CapContractsList, nil); err != nil {
		return nil, err
	}

	contracts, err := s.contractRepo.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list contracts: %w", err)
	}

	dtos := make([]domain.ContractDTO, 0, len(contracts))
	for i := range contracts {
		dtos = append(dtos, mapper.ToContractDTO(&contracts[i]))
	}
	return dtos, nil
}

func (s *ContractService) GetByID(ctx context.Context, id uint) (*domain.ContractDTO, error) {
	if _, err := authorize(ctx, auth.CapContractsGet, nil); err != nil {
		return nil, err
	}

	contract, err := s.contractRepo.GetByID(ctx, id)
	if err != nil {
		return nil, wrapNotFound(err, "contract")
	}

	dto := mapper.ToContractDTO(contract)
	return &dto, nil
}

// Create registers a new contract. The remaining amount defaults to the
// total when not supplied and is set only here; later edits to the total
// never touch it.
func (s *ContractService) Create(ctx context.Context, req *domain.CreateContractRequest) (*domain.ContractDTO, error) {
	p, err := authorize(ctx, auth.CapContractsCreate, nil)
	if err != nil {
		return nil, err
	}

	if _, err := s.clientRepo.GetByID(ctx, req.ClientID); err != nil {
		return nil, wrapNotFound(err, "client")
	}

	salesContact, err := s.userRepo.GetByID(ctx, req.SalesContactID)
	if err != nil {
		return nil, wrapNotFound(err, "sales contact")
	}
	if salesContact.Role != domain.RoleSales {
		return nil, fmt.Errorf("%w: sales contact must have the sales role", ErrInvalidInput)
	}

	contract := &domain.Contract{
		ClientID:       req.ClientID,
		SalesContactID: req.SalesContactID,
		TotalAmount:    req.TotalAmount,
		Status:         domain.ContractStatusPending,
	}
	ApplyContractAmounts(contract, req.RemainingAmount)

	if err := s.contractRepo.Create(ctx, contract); err != nil {
		return nil, fmt.Errorf("failed to create contract: %w", err)
	}

	s.logger.Info("contract created",
		zap.Uint("contract_id", contract.ID),
		zap.Uint("client_id", contract.ClientID),
		zap.Float64("total_amount", contract.TotalAmount),
		zap.Uint("created_by", p.UserID),
	)

	created, err := s.contractRepo.GetByID(ctx, contract.ID)
	if err != nil {
		return nil, wrapNotFound(err, "contract")
	}
	dto := mapper.ToContractDTO(created)
	return &dto, nil
}

// Update edits contract amounts and status. Status moves freely between
// pending and signed; unsigning a contract does not touch its events.
func (s *ContractService) Update(ctx context.Context, id uint, req *domain.UpdateContractRequest) (*domain.ContractDTO, error) {
	contract, err := s.contractRepo.GetByID(ctx, id)
	if err != nil {
		return nil, wrapNotFound(err, "contract")
	}

	p, err := authorize(ctx, auth.CapContractsUpdate, contract)
	if err != nil {
		return nil, err
	}

	if req.TotalAmount != nil {
		contract.TotalAmount = *req.TotalAmount
	}
	if req.RemainingAmount != nil {
		contract.RemainingAmount = *req.RemainingAmount
	}
	if req.Status != nil {
		if !req.Status.IsValid() {
			return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, *req.Status)
		}
		contract.Status = *req.Status
	}

	if err := s.contractRepo.Update(ctx, contract); err != nil {
		return nil, fmt.Errorf("failed to update contract: %w", err)
	}

	s.logger.Info("contract updated",
		zap.Uint("contract_id", contract.ID),
		zap.String("status", string(contract.Status)),
		zap.Uint("updated_by", p.UserID),
	)

	dto := mapper.ToContractDTO(contract)
	return &dto, nil
}

// Delete removes a contract without events. Contracts that already have
// events cannot be deleted.
func (s *ContractService) Delete(ctx context.Context, id uint) error {
	contract, err := s.contractRepo.GetByID(ctx, id)
	if err != nil {
		return wrapNotFound(err, "contract")
	}

	p, err := authorize(ctx, auth.CapContractsDelete, contract)
	if err != nil {
		return err
	}

	eventCount, err := s.contractRepo.CountEvents(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to count contract events: %w", err)
	}
	if eventCount > 0 {
		return fmt.Errorf("%w: contract %d has events", ErrPreconditionFailed, id)
	}

	if err := s.contractRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete contract: %w", err)
	}

	s.logger.Info("contract deleted",
		zap.Uint("contract_id", id),
		zap.Uint("deleted_by", p.UserID),
	)
	return nil
}
