package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/kursadbilgin/alert-dispatcher/internal/domain"
	"github.com/kursadbilgin/alert-dispatcher/internal/observability"
	"go.uber.org/zap"
)

const (
	defaultWebhookTimeout = 10 * time.Second
	channelDingTalk       = "dingtalk"
)

// DingTalkNotifier delivers alerts to DingTalk robots. It is safe for
// concurrent use.
type DingTalkNotifier struct {
	client   *resty.Client
	renderer Renderer
	resolver *WebhookResolver
	logger   *zap.Logger
	metrics  *observability.Metrics
	now      func() time.Time
}

var _ Notifier = (*DingTalkNotifier)(nil)

// NotifierOption customises a DingTalkNotifier.
type NotifierOption func(*DingTalkNotifier)

// WithBaseURL replaces the default robot endpoint for destinations that do
// not set their own.
func WithBaseURL(baseURL string) NotifierOption {
	return func(n *DingTalkNotifier) {
		n.resolver = newWebhookResolver(baseURL, n.now)
	}
}

func WithTimeout(timeout time.Duration) NotifierOption {
	return func(n *DingTalkNotifier) {
		if timeout > 0 {
			n.client.SetTimeout(timeout)
		}
	}
}

func WithMetrics(metrics *observability.Metrics) NotifierOption {
	return func(n *DingTalkNotifier) {
		n.metrics = metrics
	}
}

func withClock(nowFn func() time.Time) NotifierOption {
	return func(n *DingTalkNotifier) {
		n.now = nowFn
		n.resolver = newWebhookResolver(n.resolver.baseURL, nowFn)
	}
}

func NewDingTalkNotifier(renderer Renderer, logger *zap.Logger, opts ...NotifierOption) (*DingTalkNotifier, error) {
	client := resty.New()
	client.SetTimeout(defaultWebhookTimeout)

	return NewDingTalkNotifierWithClient(renderer, client, logger, opts...)
}

// NewDingTalkNotifierWithClient uses client as given and configures it in
// place: retries are disabled, and a client without a timeout gets the 10s
// default. Do not share client with callers that rely on resty retries.
func NewDingTalkNotifierWithClient(
	renderer Renderer,
	client *resty.Client,
	logger *zap.Logger,
	opts ...NotifierOption,
) (*DingTalkNotifier, error) {
	if renderer == nil {
		return nil, fmt.Errorf("template renderer is required")
	}
	if client == nil {
		return nil, fmt.Errorf("resty client is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	if client.GetClient().Timeout == 0 {
		client.SetTimeout(defaultWebhookTimeout)
	}
	client.SetRetryCount(0)

	n := &DingTalkNotifier{
		client:   client,
		renderer: renderer,
		logger:   logger.Named("dingtalk"),
		now:      time.Now,
	}
	n.resolver = newWebhookResolver(DefaultBaseURL, n.now)

	for _, opt := range opts {
		if opt != nil {
			opt(n)
		}
	}

	return n, nil
}

// Dispatch sends the alert and reports whether the robot accepted it.
// Failures are logged and never returned.
func (n *DingTalkNotifier) Dispatch(ctx context.Context, params domain.DingTalkParams, alert domain.AlertContent) bool {
	if n == nil {
		return false
	}

	logger := observability.WithContextLogger(n.logger, ctx)
	start := n.now()

	_, err := n.Send(ctx, params, alert)
	n.metrics.ObserveAlertSendDuration(channelDingTalk, n.now().Sub(start))

	if err != nil {
		kind := KindOf(err)
		fields := []zap.Field{
			zap.String("title", alert.Title),
			zap.String("kind", kind.String()),
			zap.Error(err),
		}
		var deliveryErr *DeliveryError
		if errors.As(err, &deliveryErr) && deliveryErr.URL != "" {
			fields = append(fields, zap.String("url", deliveryErr.URL))
		}
		logger.Error("failed to send dingtalk alert", fields...)
		n.metrics.IncAlertFailed(channelDingTalk, kind.String())
		return false
	}

	logger.Info("dingtalk alert sent", zap.String("title", alert.Title))
	n.metrics.IncAlertSent(channelDingTalk)
	return true
}

// Send performs a single delivery and returns a *DeliveryError on failure.
func (n *DingTalkNotifier) Send(ctx context.Context, params domain.DingTalkParams, alert domain.AlertContent) (*RobotResponse, error) {
	if n == nil || n.client == nil {
		return nil, fmt.Errorf("notifier is not initialized")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	if err := params.Validate(); err != nil {
		return nil, &DeliveryError{Kind: KindValidation, Message: "invalid dingtalk params", Cause: err}
	}

	msg, err := ComposeMessage(n.renderer, params, alert)
	if err != nil {
		return nil, err
	}

	webhookURL, err := n.resolver.Resolve(params)
	if err != nil {
		return nil, err
	}
	redactedURL := RedactURL(webhookURL)

	n.logger.Debug("resolved dingtalk webhook", zap.String("url", redactedURL))

	response, err := n.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(msg).
		Post(webhookURL)
	if err != nil {
		return nil, &DeliveryError{
			Kind:    KindTransport,
			URL:     redactedURL,
			Message: "dingtalk request failed",
			Cause:   err,
		}
	}
	statusCode := response.StatusCode()
	if statusCode < http.StatusOK || statusCode >= http.StatusMultipleChoices {
		return nil, &DeliveryError{
			Kind:    KindTransport,
			URL:     redactedURL,
			Code:    statusCode,
			Message: fmt.Sprintf("dingtalk returned http status %d", statusCode),
		}
	}

	return parseRobotResponse(response.Body(), redactedURL)
}

func parseRobotResponse(body []byte, redactedURL string) (*RobotResponse, error) {
	if strings.TrimSpace(string(body)) == "" {
		return nil, &DeliveryError{Kind: KindEmptyResponse, URL: redactedURL, Message: "dingtalk returned empty body"}
	}

	var robotResp *RobotResponse
	if err := json.Unmarshal(body, &robotResp); err != nil {
		return nil, &DeliveryError{
			Kind:    KindTransport,
			URL:     redactedURL,
			Message: "failed to decode dingtalk response",
			Cause:   err,
		}
	}
	if robotResp == nil {
		return nil, &DeliveryError{Kind: KindEmptyResponse, URL: redactedURL, Message: "dingtalk returned null body"}
	}

	if robotResp.ErrCode != 0 {
		return nil, &DeliveryError{
			Kind:    KindProvider,
			URL:     redactedURL,
			Code:    robotResp.ErrCode,
			Message: robotResp.ErrMsg,
		}
	}

	return robotResp, nil
}
