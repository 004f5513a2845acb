package handler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/kursadbilgin/alert-dispatcher/internal/domain"
	"github.com/kursadbilgin/alert-dispatcher/internal/repository"
)

const (
	defaultPage     = 1
	defaultPageSize = 50
	maxPageSize     = 100
)

type DestinationService interface {
	Create(ctx context.Context, d *domain.AlertDestination) (*domain.AlertDestination, error)
	GetByID(ctx context.Context, id string) (*domain.AlertDestination, error)
	List(ctx context.Context, params repository.ListParams) ([]domain.AlertDestination, int64, error)
	Update(ctx context.Context, d *domain.AlertDestination) (*domain.AlertDestination, error)
	Delete(ctx context.Context, id string) error
}

type DestinationHandler struct {
	service DestinationService
}

func NewDestinationHandler(service DestinationService) (*DestinationHandler, error) {
	if service == nil {
		return nil, fmt.Errorf("destination service is required")
	}
	return &DestinationHandler{service: service}, nil
}

func RegisterDestinationRoutes(router fiber.Router, service DestinationService) error {
	h, err := NewDestinationHandler(service)
	if err != nil {
		return err
	}

	v1 := router.Group("/v1")
	v1.Post("/destinations", h.CreateDestination)
	v1.Get("/destinations", h.ListDestinations)
	v1.Get("/destinations/:id", h.GetDestination)
	v1.Put("/destinations/:id", h.UpdateDestination)
	v1.Delete("/destinations/:id", h.DeleteDestination)

	return nil
}

type destinationRequest struct {
	Name     string          `json:"name"`
	DingTalk dingTalkRequest `json:"dingtalk"`
}

type destinationResponse struct {
	ID        string                   `json:"id"`
	Name      string                   `json:"name"`
	DingTalk  dingTalkSettingsResponse `json:"dingtalk"`
	CreatedAt time.Time                `json:"createdAt,omitempty"`
	UpdatedAt time.Time                `json:"updatedAt,omitempty"`
}

// dingTalkSettingsResponse never carries the signing secret and only shows
// the tail of the access token.
type dingTalkSettingsResponse struct {
	BaseURL      string `json:"baseUrl,omitempty"`
	Token        string `json:"token"`
	SecretEnable bool   `json:"secretEnable"`
	Contacts     string `json:"contacts"`
	IsAtAll      bool   `json:"isAtAll"`
}

type listDestinationsResponse struct {
	Data []destinationResponse `json:"data"`
	Meta listMeta              `json:"meta"`
}

type listMeta struct {
	Page     int   `json:"page"`
	PageSize int   `json:"pageSize"`
	Total    int64 `json:"total"`
}

func (h *DestinationHandler) CreateDestination(c *fiber.Ctx) error {
	var req destinationRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	created, err := h.service.Create(requestContext(c), req.toDomain(""))
	if err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(toDestinationResponse(created))
}

func (h *DestinationHandler) GetDestination(c *fiber.Ctx) error {
	destination, err := h.service.GetByID(requestContext(c), strings.TrimSpace(c.Params("id")))
	if err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusOK).JSON(toDestinationResponse(destination))
}

func (h *DestinationHandler) ListDestinations(c *fiber.Ctx) error {
	params, err := parseListParams(c)
	if err != nil {
		return toHTTPError(err)
	}

	destinations, total, err := h.service.List(requestContext(c), params)
	if err != nil {
		return toHTTPError(err)
	}

	data := make([]destinationResponse, 0, len(destinations))
	for i := range destinations {
		data = append(data, toDestinationResponse(&destinations[i]))
	}

	return c.Status(fiber.StatusOK).JSON(listDestinationsResponse{
		Data: data,
		Meta: listMeta{
			Page:     params.Page,
			PageSize: params.PageSize,
			Total:    total,
		},
	})
}

func (h *DestinationHandler) UpdateDestination(c *fiber.Ctx) error {
	var req destinationRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	updated, err := h.service.Update(requestContext(c), req.toDomain(strings.TrimSpace(c.Params("id"))))
	if err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusOK).JSON(toDestinationResponse(updated))
}

func (h *DestinationHandler) DeleteDestination(c *fiber.Ctx) error {
	if err := h.service.Delete(requestContext(c), strings.TrimSpace(c.Params("id"))); err != nil {
		return toHTTPError(err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func parseListParams(c *fiber.Ctx) (repository.ListParams, error) {
	params := repository.ListParams{
		Page:     c.QueryInt("page", defaultPage),
		PageSize: c.QueryInt("pageSize", defaultPageSize),
	}

	if params.Page < 1 {
		return repository.ListParams{}, fmt.Errorf("%w: page must be >= 1", domain.ErrValidation)
	}
	if params.PageSize < 1 || params.PageSize > maxPageSize {
		return repository.ListParams{}, fmt.Errorf("%w: pageSize must be between 1 and %d", domain.ErrValidation, maxPageSize)
	}

	return params, nil
}

func (r destinationRequest) toDomain(id string) *domain.AlertDestination {
	return &domain.AlertDestination{
		ID:       id,
		Name:     strings.TrimSpace(r.Name),
		DingTalk: r.DingTalk.toDomain(),
	}
}

func toDestinationResponse(d *domain.AlertDestination) destinationResponse {
	if d == nil {
		return destinationResponse{}
	}

	return destinationResponse{
		ID:   d.ID,
		Name: d.Name,
		DingTalk: dingTalkSettingsResponse{
			BaseURL:      d.DingTalk.BaseURL,
			Token:        maskToken(d.DingTalk.Token),
			SecretEnable: d.DingTalk.SecretEnable,
			Contacts:     d.DingTalk.Contacts,
			IsAtAll:      d.DingTalk.AtAll(),
		},
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func maskToken(token string) string {
	const visible = 4
	if len(token) <= visible {
		return strings.Repeat("*", len(token))
	}
	return strings.Repeat("*", len(token)-visible) + token[len(token)-visible:]
}
