package repository

import (
	"context"
	"errors"

	"github.com/kursadbilgin/alert-dispatcher/internal/domain"
	"gorm.io/gorm"
)

const (
	defaultPageSize = 50
	maxPageSize     = 100
)

type ListParams struct {
	Page     int
	PageSize int
}

type DestinationRepository interface {
	Create(ctx context.Context, d *domain.AlertDestination) error
	GetByID(ctx context.Context, id string) (*domain.AlertDestination, error)
	List(ctx context.Context, params ListParams) ([]domain.AlertDestination, int64, error)
	Update(ctx context.Context, d *domain.AlertDestination) error
	Delete(ctx context.Context, id string) error
}

type GormDestinationRepo struct {
	db *gorm.DB
}

var _ DestinationRepository = (*GormDestinationRepo)(nil)

func NewGormDestinationRepo(db *gorm.DB) *GormDestinationRepo {
	return &GormDestinationRepo{db: db}
}

func (r *GormDestinationRepo) Create(ctx context.Context, d *domain.AlertDestination) error {
	model := destinationModelFromDomain(d)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrConflict
		}
		return err
	}
	if d != nil {
		*d = *destinationModelToDomain(model)
	}
	return nil
}

func (r *GormDestinationRepo) GetByID(ctx context.Context, id string) (*domain.AlertDestination, error) {
	var model DestinationModel
	err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return destinationModelToDomain(&model), nil
}

func (r *GormDestinationRepo) List(ctx context.Context, params ListParams) ([]domain.AlertDestination, int64, error) {
	query := r.db.WithContext(ctx).Model(&DestinationModel{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, pageSize := normalizePage(params)

	var models []DestinationModel
	err := query.
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&models).Error
	if err != nil {
		return nil, 0, err
	}

	destinations := make([]domain.AlertDestination, 0, len(models))
	for i := range models {
		destinations = append(destinations, *destinationModelToDomain(&models[i]))
	}

	return destinations, total, nil
}

func (r *GormDestinationRepo) Update(ctx context.Context, d *domain.AlertDestination) error {
	if d == nil {
		return domain.ErrNotFound
	}

	model := destinationModelFromDomain(d)
	result := r.db.WithContext(ctx).
		Model(&DestinationModel{}).
		Where("id = ?", d.ID).
		Updates(map[string]any{
			"name":          model.Name,
			"base_url":      model.BaseURL,
			"token":         model.Token,
			"secret_enable": model.SecretEnable,
			"secret_token":  model.SecretToken,
			"contacts":      model.Contacts,
			"is_at_all":     model.IsAtAll,
		})
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return domain.ErrConflict
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *GormDestinationRepo) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&DestinationModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func normalizePage(params ListParams) (int, int) {
	page := max(params.Page, 1)
	pageSize := params.PageSize
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	return page, min(pageSize, maxPageSize)
}
