package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kursadbilgin/alert-dispatcher/internal/domain"
	"github.com/kursadbilgin/alert-dispatcher/internal/observability"
	"github.com/kursadbilgin/alert-dispatcher/internal/provider"
	"github.com/kursadbilgin/alert-dispatcher/internal/repository"
	"go.uber.org/zap"
)

const testAlertTitle = "Alert test"

type AlertService struct {
	destinations repository.DestinationRepository
	notifier     provider.Notifier
	logger       *zap.Logger
	now          func() time.Time
}

func NewAlertService(
	destinations repository.DestinationRepository,
	notifier provider.Notifier,
	logger *zap.Logger,
) (*AlertService, error) {
	if destinations == nil {
		return nil, fmt.Errorf("destination repository is required")
	}
	if notifier == nil {
		return nil, fmt.Errorf("notifier is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &AlertService{
		destinations: destinations,
		notifier:     notifier,
		logger:       logger,
		now:          time.Now,
	}, nil
}

// SendToDestination delivers alert to a stored destination. The error is
// non-nil only when the destination cannot be loaded; delivery failures are
// reported through the boolean.
func (s *AlertService) SendToDestination(ctx context.Context, destinationID string, alert domain.AlertContent) (bool, error) {
	destination, err := s.lookup(ctx, destinationID)
	if err != nil {
		return false, err
	}

	ctx = observability.WithDestinationID(ctx, destination.ID)
	return s.notifier.Dispatch(ctx, destination.DingTalk, alert), nil
}

// SendInline delivers alert using caller-supplied robot settings.
func (s *AlertService) SendInline(ctx context.Context, params domain.DingTalkParams, alert domain.AlertContent) bool {
	return s.notifier.Dispatch(ctx, params, alert)
}

// SendTest delivers a canned alert so operators can check a destination's
// token, secret and contacts.
func (s *AlertService) SendTest(ctx context.Context, destinationID string) (bool, error) {
	destination, err := s.lookup(ctx, destinationID)
	if err != nil {
		return false, err
	}

	now := s.now().UTC()
	alert := domain.AlertContent{
		Title:     testAlertTitle,
		Subject:   fmt.Sprintf("Test message for destination %q", destination.Name),
		Severity:  domain.SeverityInfo,
		Status:    "TEST",
		StartTime: now,
		Message:   "If you can read this, the destination is configured correctly.",
	}

	ctx = observability.WithDestinationID(ctx, destination.ID)
	delivered := s.notifier.Dispatch(ctx, destination.DingTalk, alert)

	observability.WithContextLogger(s.logger, ctx).Info("test alert dispatched",
		zap.Bool("delivered", delivered),
	)
	return delivered, nil
}

func (s *AlertService) lookup(ctx context.Context, destinationID string) (*domain.AlertDestination, error) {
	id := strings.TrimSpace(destinationID)
	if id == "" {
		return nil, fmt.Errorf("%w: destination id is required", domain.ErrValidation)
	}
	return s.destinations.GetByID(ctx, id)
}
