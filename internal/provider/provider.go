package provider

import (
	"context"

	"github.com/kursadbilgin/alert-dispatcher/internal/domain"
)

// Renderer renders a named template against data.
type Renderer interface {
	Render(name string, data any) (string, error)
}

// Notifier is the outbound alert delivery port.
type Notifier interface {
	Send(ctx context.Context, params domain.DingTalkParams, alert domain.AlertContent) (*RobotResponse, error)
	Dispatch(ctx context.Context, params domain.DingTalkParams, alert domain.AlertContent) bool
}

// RobotResponse is the JSON body returned by the DingTalk robot API.
type RobotResponse struct {
	ErrCode int    `json:"errcode"`
	ErrMsg  string `json:"errmsg"`
}
