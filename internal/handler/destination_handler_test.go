package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/kursadbilgin/alert-dispatcher/internal/domain"
	"github.com/kursadbilgin/alert-dispatcher/internal/observability"
	"github.com/kursadbilgin/alert-dispatcher/internal/repository"
)

func TestDestinationIntegration_Create(t *testing.T) {
	t.Parallel()

	svc := &stubDestinationService{
		createFn: func(ctx context.Context, d *domain.AlertDestination) (*domain.AlertDestination, error) {
			if _, ok := observability.CorrelationIDFromContext(ctx); !ok {
				t.Error("correlation id should be set on the request context")
			}
			if err := d.Validate(); err != nil {
				return nil, err
			}
			d.ID = "dest-1"
			return d, nil
		},
	}
	app := newTestApp(t, svc, nil)

	validBody := `{"name":"ops","dingtalk":{"token":"abcdef123456","secretEnable":true,"secretToken":"SEC","contacts":"13800000000,13900000000","isAtAll":true}}`
	resp, body := performRequest(t, app, http.MethodPost, "/v1/destinations", validBody)
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("status = %d, want 201, body=%s", resp.StatusCode, string(body))
	}

	var created destinationResponse
	if err := json.Unmarshal(body, &created); err != nil {
		t.Fatalf("json unmarshal error = %v", err)
	}
	if created.ID != "dest-1" {
		t.Fatalf("id = %q, want dest-1", created.ID)
	}
	if created.DingTalk.Token != "********3456" {
		t.Fatalf("token = %q, want masked token", created.DingTalk.Token)
	}
	if !created.DingTalk.SecretEnable || !created.DingTalk.IsAtAll {
		t.Fatalf("dingtalk settings = %+v", created.DingTalk)
	}
	if strings.Contains(string(body), "SEC") {
		t.Fatalf("response leaks the signing secret: %s", string(body))
	}

	missingToken := `{"name":"ops","dingtalk":{"token":""}}`
	resp, _ = performRequest(t, app, http.MethodPost, "/v1/destinations", missingToken)
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("status = %d, want 400 for missing token", resp.StatusCode)
	}

	resp, _ = performRequest(t, app, http.MethodPost, "/v1/destinations", `{"name":`)
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("status = %d, want 400 for malformed body", resp.StatusCode)
	}
}

func TestDestinationIntegration_CreateConflict(t *testing.T) {
	t.Parallel()

	svc := &stubDestinationService{
		createFn: func(ctx context.Context, d *domain.AlertDestination) (*domain.AlertDestination, error) {
			return nil, fmt.Errorf("%w: destination name already exists", domain.ErrConflict)
		},
	}
	app := newTestApp(t, svc, nil)

	resp, _ := performRequest(t, app, http.MethodPost, "/v1/destinations", `{"name":"ops","dingtalk":{"token":"T"}}`)
	if resp.StatusCode != fiber.StatusConflict {
		t.Fatalf("status = %d, want 409", resp.StatusCode)
	}
}

func TestDestinationIntegration_GetUpdateDelete(t *testing.T) {
	t.Parallel()

	svc := &stubDestinationService{
		getByIDFn: func(ctx context.Context, id string) (*domain.AlertDestination, error) {
			if id == "dest-1" {
				return &domain.AlertDestination{ID: id, Name: "ops", DingTalk: domain.DingTalkParams{Token: "T"}}, nil
			}
			return nil, domain.ErrNotFound
		},
		updateFn: func(ctx context.Context, d *domain.AlertDestination) (*domain.AlertDestination, error) {
			if d.ID != "dest-1" {
				return nil, domain.ErrNotFound
			}
			return d, nil
		},
		deleteFn: func(ctx context.Context, id string) error {
			if id != "dest-1" {
				return domain.ErrNotFound
			}
			return nil
		},
	}
	app := newTestApp(t, svc, nil)

	resp, body := performRequest(t, app, http.MethodGet, "/v1/destinations/dest-1", "")
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("GET status = %d, want 200, body=%s", resp.StatusCode, string(body))
	}
	resp, _ = performRequest(t, app, http.MethodGet, "/v1/destinations/missing", "")
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("GET status = %d, want 404", resp.StatusCode)
	}

	resp, body = performRequest(t, app, http.MethodPut, "/v1/destinations/dest-1", `{"name":"ops-renamed","dingtalk":{"token":"T2"}}`)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("PUT status = %d, want 200, body=%s", resp.StatusCode, string(body))
	}
	var updated destinationResponse
	if err := json.Unmarshal(body, &updated); err != nil {
		t.Fatalf("json unmarshal error = %v", err)
	}
	if updated.Name != "ops-renamed" {
		t.Fatalf("name = %q, want ops-renamed", updated.Name)
	}

	resp, _ = performRequest(t, app, http.MethodDelete, "/v1/destinations/dest-1", "")
	if resp.StatusCode != fiber.StatusNoContent {
		t.Fatalf("DELETE status = %d, want 204", resp.StatusCode)
	}
	resp, _ = performRequest(t, app, http.MethodDelete, "/v1/destinations/missing", "")
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("DELETE status = %d, want 404", resp.StatusCode)
	}
}

func TestDestinationIntegration_ListPagination(t *testing.T) {
	t.Parallel()

	var gotParams repository.ListParams
	svc := &stubDestinationService{
		listFn: func(ctx context.Context, params repository.ListParams) ([]domain.AlertDestination, int64, error) {
			gotParams = params
			return []domain.AlertDestination{
				{ID: "dest-1", Name: "ops", DingTalk: domain.DingTalkParams{Token: "T"}},
				{ID: "dest-2", Name: "dba", DingTalk: domain.DingTalkParams{Token: "T"}},
			}, 12, nil
		},
	}
	app := newTestApp(t, svc, nil)

	resp, body := performRequest(t, app, http.MethodGet, "/v1/destinations?page=2&pageSize=2", "")
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200, body=%s", resp.StatusCode, string(body))
	}
	if gotParams.Page != 2 || gotParams.PageSize != 2 {
		t.Fatalf("params = %+v, want page=2 pageSize=2", gotParams)
	}

	var parsed listDestinationsResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		t.Fatalf("json unmarshal error = %v", err)
	}
	if len(parsed.Data) != 2 || parsed.Meta.Total != 12 {
		t.Fatalf("parsed = %+v, want 2 items and total 12", parsed)
	}

	testCases := []string{
		"/v1/destinations?page=0",
		"/v1/destinations?pageSize=0",
		fmt.Sprintf("/v1/destinations?pageSize=%d", maxPageSize+1),
	}
	for _, path := range testCases {
		resp, _ := performRequest(t, app, http.MethodGet, path, "")
		if resp.StatusCode != fiber.StatusBadRequest {
			t.Fatalf("%s: status = %d, want 400", path, resp.StatusCode)
		}
	}
}

func TestMaskToken(t *testing.T) {
	t.Parallel()

	testCases := map[string]string{
		"":         "",
		"abc":      "***",
		"abcd":     "****",
		"abcdefgh": "****efgh",
	}
	for in, want := range testCases {
		if got := maskToken(in); got != want {
			t.Fatalf("maskToken(%q) = %q, want %q", in, got, want)
		}
	}
}
