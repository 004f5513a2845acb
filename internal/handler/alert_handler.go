package handler

import (
	"context"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/kursadbilgin/alert-dispatcher/internal/domain"
)

type AlertService interface {
	SendToDestination(ctx context.Context, destinationID string, alert domain.AlertContent) (bool, error)
	SendInline(ctx context.Context, params domain.DingTalkParams, alert domain.AlertContent) bool
	SendTest(ctx context.Context, destinationID string) (bool, error)
}

type AlertHandler struct {
	service AlertService
}

func NewAlertHandler(service AlertService) (*AlertHandler, error) {
	if service == nil {
		return nil, fmt.Errorf("alert service is required")
	}
	return &AlertHandler{service: service}, nil
}

func RegisterAlertRoutes(router fiber.Router, service AlertService) error {
	h, err := NewAlertHandler(service)
	if err != nil {
		return err
	}

	v1 := router.Group("/v1")
	v1.Post("/alerts", h.SendInline)
	v1.Post("/destinations/:id/alerts", h.SendToDestination)
	v1.Post("/destinations/:id/test", h.SendTest)

	return nil
}

type inlineAlertRequest struct {
	DingTalk dingTalkRequest `json:"dingtalk"`
	Alert    alertRequest    `json:"alert"`
}

// SendToDestination answers 200 with delivered=false when DingTalk rejects
// the message; only lookup and input errors produce error statuses.
func (h *AlertHandler) SendToDestination(c *fiber.Ctx) error {
	var req alertRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	alert, err := req.toDomain()
	if err != nil {
		return toHTTPError(err)
	}

	delivered, err := h.service.SendToDestination(requestContext(c), strings.TrimSpace(c.Params("id")), alert)
	if err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusOK).JSON(deliveryResponse{Delivered: delivered})
}

func (h *AlertHandler) SendInline(c *fiber.Ctx) error {
	var req inlineAlertRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	alert, err := req.Alert.toDomain()
	if err != nil {
		return toHTTPError(err)
	}

	delivered := h.service.SendInline(requestContext(c), req.DingTalk.toDomain(), alert)
	return c.Status(fiber.StatusOK).JSON(deliveryResponse{Delivered: delivered})
}

func (h *AlertHandler) SendTest(c *fiber.Ctx) error {
	delivered, err := h.service.SendTest(requestContext(c), strings.TrimSpace(c.Params("id")))
	if err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusOK).JSON(deliveryResponse{Delivered: delivered})
}
