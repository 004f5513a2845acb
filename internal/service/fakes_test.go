package service

import (
	"context"

	"github.com/kursadbilgin/alert-dispatcher/internal/domain"
	"github.com/kursadbilgin/alert-dispatcher/internal/provider"
	"github.com/kursadbilgin/alert-dispatcher/internal/repository"
)

type fakeDestinationRepo struct {
	createFn  func(ctx context.Context, d *domain.AlertDestination) error
	getByIDFn func(ctx context.Context, id string) (*domain.AlertDestination, error)
	listFn    func(ctx context.Context, params repository.ListParams) ([]domain.AlertDestination, int64, error)
	updateFn  func(ctx context.Context, d *domain.AlertDestination) error
	deleteFn  func(ctx context.Context, id string) error
}

func (f *fakeDestinationRepo) Create(ctx context.Context, d *domain.AlertDestination) error {
	if f.createFn != nil {
		return f.createFn(ctx, d)
	}
	return nil
}

func (f *fakeDestinationRepo) GetByID(ctx context.Context, id string) (*domain.AlertDestination, error) {
	if f.getByIDFn != nil {
		return f.getByIDFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (f *fakeDestinationRepo) List(ctx context.Context, params repository.ListParams) ([]domain.AlertDestination, int64, error) {
	if f.listFn != nil {
		return f.listFn(ctx, params)
	}
	return nil, 0, nil
}

func (f *fakeDestinationRepo) Update(ctx context.Context, d *domain.AlertDestination) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, d)
	}
	return nil
}

func (f *fakeDestinationRepo) Delete(ctx context.Context, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}

type fakeNotifier struct {
	dispatchFn func(ctx context.Context, params domain.DingTalkParams, alert domain.AlertContent) bool
}

func (f *fakeNotifier) Send(ctx context.Context, params domain.DingTalkParams, alert domain.AlertContent) (*provider.RobotResponse, error) {
	if f.Dispatch(ctx, params, alert) {
		return &provider.RobotResponse{}, nil
	}
	return nil, provider.ErrProvider
}

func (f *fakeNotifier) Dispatch(ctx context.Context, params domain.DingTalkParams, alert domain.AlertContent) bool {
	if f.dispatchFn != nil {
		return f.dispatchFn(ctx, params, alert)
	}
	return true
}
