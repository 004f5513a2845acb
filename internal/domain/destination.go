package domain

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

const MaxDestinationName = 128

// DingTalkParams is the configuration of one DingTalk robot.
type DingTalkParams struct {
	BaseURL      string
	Token        string
	SecretEnable bool
	SecretToken  string
	Contacts     string
	IsAtAll      *bool
}

// AtAll reports the at-all flag, treating an unset value as false.
func (p DingTalkParams) AtAll() bool {
	return p.IsAtAll != nil && *p.IsAtAll
}

// Secret returns the signing secret, or "" when signing is disabled.
func (p DingTalkParams) Secret() string {
	if !p.SecretEnable {
		return ""
	}
	return p.SecretToken
}

func (p DingTalkParams) Validate() error {
	if strings.TrimSpace(p.Token) == "" {
		return fmt.Errorf("%w: access token is required", ErrValidation)
	}
	if p.SecretEnable && p.SecretToken == "" {
		return fmt.Errorf("%w: secret token is required when signing is enabled", ErrValidation)
	}

	if base := strings.TrimSpace(p.BaseURL); base != "" {
		u, err := url.Parse(base)
		if err != nil {
			return fmt.Errorf("%w: invalid base url: %v", ErrValidation, err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("%w: base url must use http or https, got %q", ErrValidation, u.Scheme)
		}
		if u.Host == "" {
			return fmt.Errorf("%w: base url must include a host", ErrValidation)
		}
	}

	return nil
}

// AlertDestination is a named, stored DingTalk robot configuration.
type AlertDestination struct {
	ID        string
	Name      string
	DingTalk  DingTalkParams
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (d *AlertDestination) Validate() error {
	name := strings.TrimSpace(d.Name)
	if name == "" {
		return fmt.Errorf("%w: destination name is required", ErrValidation)
	}
	if nameLen := len([]rune(name)); nameLen > MaxDestinationName {
		return fmt.Errorf("%w: destination name exceeds %d characters (got %d)", ErrValidation, MaxDestinationName, nameLen)
	}
	return d.DingTalk.Validate()
}
