package handler

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/kursadbilgin/alert-dispatcher/internal/domain"
	"github.com/kursadbilgin/alert-dispatcher/internal/observability"
)

type dingTalkRequest struct {
	BaseURL      string `json:"baseUrl"`
	Token        string `json:"token"`
	SecretEnable bool   `json:"secretEnable"`
	SecretToken  string `json:"secretToken"`
	Contacts     string `json:"contacts"`
	IsAtAll      *bool  `json:"isAtAll"`
}

type alertRequest struct {
	Title        string     `json:"title"`
	Subject      string     `json:"subject"`
	JobName      string     `json:"jobName"`
	Status       string     `json:"status"`
	Type         string     `json:"type"`
	Severity     string     `json:"severity"`
	StartTime    *time.Time `json:"startTime"`
	EndTime      *time.Time `json:"endTime"`
	Duration     string     `json:"duration"`
	Link         string     `json:"link"`
	Message      string     `json:"message"`
	RestartIndex int        `json:"restartIndex"`
	TotalRestart int        `json:"totalRestart"`
}

type deliveryResponse struct {
	Delivered bool `json:"delivered"`
}

func (r dingTalkRequest) toDomain() domain.DingTalkParams {
	return domain.DingTalkParams{
		BaseURL:      strings.TrimSpace(r.BaseURL),
		Token:        strings.TrimSpace(r.Token),
		SecretEnable: r.SecretEnable,
		SecretToken:  r.SecretToken,
		Contacts:     strings.TrimSpace(r.Contacts),
		IsAtAll:      r.IsAtAll,
	}
}

func (r alertRequest) toDomain() (domain.AlertContent, error) {
	alert := domain.AlertContent{
		Title:        strings.TrimSpace(r.Title),
		Subject:      r.Subject,
		JobName:      r.JobName,
		Status:       r.Status,
		Type:         r.Type,
		Duration:     r.Duration,
		Link:         strings.TrimSpace(r.Link),
		Message:      r.Message,
		RestartIndex: r.RestartIndex,
		TotalRestart: r.TotalRestart,
	}

	if strings.TrimSpace(r.Severity) != "" {
		severity, err := domain.ParseSeverityFromString(r.Severity)
		if err != nil {
			return domain.AlertContent{}, err
		}
		alert.Severity = severity
	}
	if r.StartTime != nil {
		alert.StartTime = *r.StartTime
	}
	if r.EndTime != nil {
		alert.EndTime = *r.EndTime
	}

	if err := alert.Validate(); err != nil {
		return domain.AlertContent{}, err
	}
	return alert, nil
}

func requestCorrelationID(c *fiber.Ctx) string {
	if value := strings.TrimSpace(c.Get(fiber.HeaderXRequestID)); value != "" {
		return value
	}
	if value, ok := c.Locals("requestid").(string); ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return uuid.NewString()
}

// requestContext returns the request's user context carrying a correlation id.
func requestContext(c *fiber.Ctx) context.Context {
	return observability.WithCorrelationID(c.UserContext(), requestCorrelationID(c))
}

func toHTTPError(err error) error {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrConflict):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	default:
		return err
	}
}
