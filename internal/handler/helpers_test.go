package handler

import (
	"bytes"
	"context"
	"database/sql/driver"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/kursadbilgin/alert-dispatcher/internal/domain"
	"github.com/kursadbilgin/alert-dispatcher/internal/repository"
	"github.com/kursadbilgin/alert-dispatcher/internal/transport"
	"go.uber.org/zap"
)

func newTestApp(t *testing.T, destinations DestinationService, alerts AlertService) *fiber.App {
	t.Helper()

	app := fiber.New(fiber.Config{
		ErrorHandler: transport.ErrorHandler(zap.NewNop()),
	})

	if destinations != nil {
		if err := RegisterDestinationRoutes(app, destinations); err != nil {
			t.Fatalf("RegisterDestinationRoutes() error = %v", err)
		}
	}
	if alerts != nil {
		if err := RegisterAlertRoutes(app, alerts); err != nil {
			t.Fatalf("RegisterAlertRoutes() error = %v", err)
		}
	}

	return app
}

func performRequest(t *testing.T, app *fiber.App, method string, path string, body string) (*http.Response, []byte) {
	t.Helper()

	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}
	_ = resp.Body.Close()

	return resp, respBody
}

type stubDestinationService struct {
	createFn  func(ctx context.Context, d *domain.AlertDestination) (*domain.AlertDestination, error)
	getByIDFn func(ctx context.Context, id string) (*domain.AlertDestination, error)
	listFn    func(ctx context.Context, params repository.ListParams) ([]domain.AlertDestination, int64, error)
	updateFn  func(ctx context.Context, d *domain.AlertDestination) (*domain.AlertDestination, error)
	deleteFn  func(ctx context.Context, id string) error
}

func (s *stubDestinationService) Create(ctx context.Context, d *domain.AlertDestination) (*domain.AlertDestination, error) {
	if s.createFn != nil {
		return s.createFn(ctx, d)
	}
	return d, nil
}

func (s *stubDestinationService) GetByID(ctx context.Context, id string) (*domain.AlertDestination, error) {
	if s.getByIDFn != nil {
		return s.getByIDFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (s *stubDestinationService) List(ctx context.Context, params repository.ListParams) ([]domain.AlertDestination, int64, error) {
	if s.listFn != nil {
		return s.listFn(ctx, params)
	}
	return nil, 0, nil
}

func (s *stubDestinationService) Update(ctx context.Context, d *domain.AlertDestination) (*domain.AlertDestination, error) {
	if s.updateFn != nil {
		return s.updateFn(ctx, d)
	}
	return d, nil
}

func (s *stubDestinationService) Delete(ctx context.Context, id string) error {
	if s.deleteFn != nil {
		return s.deleteFn(ctx, id)
	}
	return nil
}

type stubAlertService struct {
	sendToDestinationFn func(ctx context.Context, destinationID string, alert domain.AlertContent) (bool, error)
	sendInlineFn        func(ctx context.Context, params domain.DingTalkParams, alert domain.AlertContent) bool
	sendTestFn          func(ctx context.Context, destinationID string) (bool, error)
}

func (s *stubAlertService) SendToDestination(ctx context.Context, destinationID string, alert domain.AlertContent) (bool, error) {
	if s.sendToDestinationFn != nil {
		return s.sendToDestinationFn(ctx, destinationID, alert)
	}
	return true, nil
}

func (s *stubAlertService) SendInline(ctx context.Context, params domain.DingTalkParams, alert domain.AlertContent) bool {
	if s.sendInlineFn != nil {
		return s.sendInlineFn(ctx, params, alert)
	}
	return true
}

func (s *stubAlertService) SendTest(ctx context.Context, destinationID string) (bool, error) {
	if s.sendTestFn != nil {
		return s.sendTestFn(ctx, destinationID)
	}
	return true, nil
}

type stubConnector struct {
	pingErr error
}

func (c stubConnector) Connect(context.Context) (driver.Conn, error) {
	return stubConn(c), nil
}

func (c stubConnector) Driver() driver.Driver {
	return stubDriver(c)
}

type stubDriver struct {
	pingErr error
}

func (d stubDriver) Open(string) (driver.Conn, error) {
	return stubConn(d), nil
}

type stubConn struct {
	pingErr error
}

func (c stubConn) Prepare(string) (driver.Stmt, error) { return nil, errors.New("not implemented") }
func (c stubConn) Close() error                        { return nil }
func (c stubConn) Begin() (driver.Tx, error)           { return nil, errors.New("not implemented") }
func (c stubConn) Ping(context.Context) error          { return c.pingErr }
