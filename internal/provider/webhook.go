package provider

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/kursadbilgin/alert-dispatcher/internal/domain"
)

// DefaultBaseURL is the public DingTalk robot endpoint.
const DefaultBaseURL = "https://oapi.dingtalk.com/robot/send?access_token="

const (
	paramAccessToken = "access_token"
	paramTimestamp   = "timestamp"
	paramSign        = "sign"
)

// WebhookResolver builds the robot URL for a destination, signing it when
// the destination has signing enabled.
type WebhookResolver struct {
	baseURL string
	now     func() time.Time
}

func NewWebhookResolver(baseURL string) *WebhookResolver {
	return newWebhookResolver(baseURL, time.Now)
}

func newWebhookResolver(baseURL string, nowFn func() time.Time) *WebhookResolver {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	if nowFn == nil {
		nowFn = time.Now
	}
	return &WebhookResolver{
		baseURL: strings.TrimSpace(baseURL),
		now:     nowFn,
	}
}

// Resolve returns the URL to POST to. Query parameters are appended in the
// order access_token, timestamp, sign.
func (r *WebhookResolver) Resolve(params domain.DingTalkParams) (string, error) {
	base := r.baseURL
	if override := strings.TrimSpace(params.BaseURL); override != "" {
		base = override
	}

	u, err := url.Parse(base)
	if err != nil {
		return "", &DeliveryError{
			Kind:    KindValidation,
			Message: "invalid webhook base url",
			Cause:   err,
		}
	}

	query := make([]string, 0, 4)
	if kept := stripRobotParams(u.RawQuery); kept != "" {
		query = append(query, kept)
	}
	query = append(query, paramAccessToken+"="+url.QueryEscape(params.Token))

	if params.SecretEnable {
		timestamp := r.now().UnixMilli()
		sign, err := Sign(params.Secret(), timestamp)
		if err != nil {
			return "", err
		}
		query = append(query,
			paramTimestamp+"="+strconv.FormatInt(timestamp, 10),
			paramSign+"="+sign,
		)
	}

	u.RawQuery = strings.Join(query, "&")
	return u.String(), nil
}

// stripRobotParams drops the parameters Resolve sets itself, keeping any
// others in their existing encoding and order.
func stripRobotParams(rawQuery string) string {
	if rawQuery == "" {
		return ""
	}

	kept := make([]string, 0)
	for _, pair := range strings.Split(rawQuery, "&") {
		if pair == "" {
			continue
		}
		key := pair
		if i := strings.IndexByte(pair, '='); i >= 0 {
			key = pair[:i]
		}
		if unescaped, err := url.QueryUnescape(key); err == nil {
			key = unescaped
		}
		switch key {
		case paramAccessToken, paramTimestamp, paramSign:
			continue
		}
		kept = append(kept, pair)
	}
	return strings.Join(kept, "&")
}

// RedactURL masks credential query values so the URL can be logged.
func RedactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "<invalid url>"
	}

	pairs := strings.Split(u.RawQuery, "&")
	for i, pair := range pairs {
		key, _, found := strings.Cut(pair, "=")
		if !found {
			continue
		}
		if key == paramAccessToken || key == paramSign {
			pairs[i] = key + "=REDACTED"
		}
	}
	u.RawQuery = strings.Join(pairs, "&")
	u.User = nil

	return u.String()
}
