package provider

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies why a delivery did not succeed.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindValidation
	KindRender
	KindSigning
	KindTransport
	KindEmptyResponse
	KindProvider
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindRender:
		return "render"
	case KindSigning:
		return "signing"
	case KindTransport:
		return "transport"
	case KindEmptyResponse:
		return "empty_response"
	case KindProvider:
		return "provider"
	}
	return "unknown"
}

// Sentinels for errors.Is; they match any DeliveryError of the same kind.
var (
	ErrInvalidParams = &DeliveryError{Kind: KindValidation}
	ErrRender        = &DeliveryError{Kind: KindRender}
	ErrSigning       = &DeliveryError{Kind: KindSigning}
	ErrTransport     = &DeliveryError{Kind: KindTransport}
	ErrEmptyResponse = &DeliveryError{Kind: KindEmptyResponse}
	ErrProvider      = &DeliveryError{Kind: KindProvider}
)

// DeliveryError describes a failed DingTalk delivery. Code and Message carry
// the robot's errcode/errmsg for KindProvider and the HTTP status for
// KindTransport when one was received.
type DeliveryError struct {
	Kind    ErrorKind
	URL     string
	Code    int
	Message string
	Cause   error
}

func (e *DeliveryError) Error() string {
	if e == nil {
		return "<nil>"
	}

	parts := make([]string, 0, 5)
	parts = append(parts, e.Kind.String()+" error")

	if e.URL != "" {
		parts = append(parts, "url="+e.URL)
	}
	if e.Kind == KindProvider || e.Code != 0 {
		parts = append(parts, fmt.Sprintf("code=%d", e.Code))
	}
	if msg := strings.TrimSpace(e.Message); msg != "" {
		parts = append(parts, msg)
	}
	if e.Cause != nil {
		parts = append(parts, e.Cause.Error())
	}

	return strings.Join(parts, ": ")
}

func (e *DeliveryError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func (e *DeliveryError) Is(target error) bool {
	t, ok := target.(*DeliveryError)
	if !ok || e == nil || t == nil {
		return false
	}
	return e.Kind == t.Kind
}

// KindOf returns the kind of the first DeliveryError in err's chain.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindUnknown
	}

	var deliveryErr *DeliveryError
	if errors.As(err, &deliveryErr) {
		return deliveryErr.Kind
	}
	return KindUnknown
}
