package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/epicevents/crm-api/internal/domain"
)

// ContractFilters narrows contract listings. Zero values mean no filter.
type ContractFilters struct {
	Status domain.ContractStatus
	// Owing selects contracts with a positive remaining amount
	Owing bool
}

type ContractRepository struct {
	db *gorm.DB
}

func NewContractRepository(db *gorm.DB) *ContractRepository {
	return &ContractRepository{db: db}
}

func (r *ContractRepository) Create(ctx context.Context, contract *domain.Contract) error {
	return r.db.WithContext(ctx).Create(contract).Error
}

func (r *ContractRepository) GetByID(ctx context.Context, id uint) (*domain.Contract, error) {
	var contract domain.Contract
	err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("SalesContact").
		First(&contract, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &contract, nil
}

func (r *ContractRepository) Update(ctx context.Context, contract *domain.Contract) error {
	return r.db.WithContext(ctx).Save(contract).Error
}

func (r *ContractRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&domain.Contract{}, "id = ?", id).Error
}

func (r *ContractRepository) List(ctx context.Context, filters ContractFilters) ([]domain.Contract, error) {
	var contracts []domain.Contract
	query := r.db.WithContext(ctx).
		Preload("Client").
		Preload("SalesContact")

	if filters.Status != "" {
		query = query.Where("status = ?", filters.Status)
	}
	if filters.Owing {
		query = query.Where("remaining_amount > 0")
	}

	err := query.Order("id").Find(&contracts).Error
	return contracts, err
}

// CountEvents reports how many events hang off a contract
func (r *ContractRepository) CountEvents(ctx context.Context, contractID uint) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Event{}).
		Where("contract_id = ?", contractID).
		Count(&count).Error
	return int(count), err
}
