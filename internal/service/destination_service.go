package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/kursadbilgin/alert-dispatcher/internal/domain"
	"github.com/kursadbilgin/alert-dispatcher/internal/repository"
	"go.uber.org/zap"
)

type DestinationService struct {
	destinations repository.DestinationRepository
	logger       *zap.Logger
}

func NewDestinationService(destinations repository.DestinationRepository, logger *zap.Logger) (*DestinationService, error) {
	if destinations == nil {
		return nil, fmt.Errorf("destination repository is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &DestinationService{
		destinations: destinations,
		logger:       logger,
	}, nil
}

func (s *DestinationService) Create(ctx context.Context, d *domain.AlertDestination) (*domain.AlertDestination, error) {
	if err := prepareDestination(d); err != nil {
		return nil, err
	}
	d.ID = uuid.NewString()

	if err := s.destinations.Create(ctx, d); err != nil {
		return nil, err
	}

	s.logger.Info("alert destination created",
		zap.String("destinationId", d.ID),
		zap.String("name", d.Name),
		zap.Bool("secured", d.DingTalk.SecretEnable),
	)
	return d, nil
}

func (s *DestinationService) GetByID(ctx context.Context, id string) (*domain.AlertDestination, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("%w: destination id is required", domain.ErrValidation)
	}
	return s.destinations.GetByID(ctx, id)
}

func (s *DestinationService) List(ctx context.Context, params repository.ListParams) ([]domain.AlertDestination, int64, error) {
	return s.destinations.List(ctx, params)
}

func (s *DestinationService) Update(ctx context.Context, d *domain.AlertDestination) (*domain.AlertDestination, error) {
	if d == nil {
		return nil, fmt.Errorf("%w: destination is required", domain.ErrValidation)
	}
	d.ID = strings.TrimSpace(d.ID)
	if d.ID == "" {
		return nil, fmt.Errorf("%w: destination id is required", domain.ErrValidation)
	}
	if err := prepareDestination(d); err != nil {
		return nil, err
	}

	if err := s.destinations.Update(ctx, d); err != nil {
		return nil, err
	}

	s.logger.Info("alert destination updated", zap.String("destinationId", d.ID))
	return s.destinations.GetByID(ctx, d.ID)
}

func (s *DestinationService) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("%w: destination id is required", domain.ErrValidation)
	}
	if err := s.destinations.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("alert destination deleted", zap.String("destinationId", id))
	return nil
}

func prepareDestination(d *domain.AlertDestination) error {
	if d == nil {
		return fmt.Errorf("%w: destination is required", domain.ErrValidation)
	}

	d.Name = strings.TrimSpace(d.Name)
	d.DingTalk.BaseURL = strings.TrimSpace(d.DingTalk.BaseURL)
	d.DingTalk.Token = strings.TrimSpace(d.DingTalk.Token)
	d.DingTalk.Contacts = strings.TrimSpace(d.DingTalk.Contacts)
	if !d.DingTalk.SecretEnable {
		d.DingTalk.SecretToken = ""
	}

	return d.Validate()
}
