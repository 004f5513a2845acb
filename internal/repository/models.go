package repository

import (
	"time"

	"github.com/kursadbilgin/alert-dispatcher/internal/domain"
)

// DestinationModel is the persistence model for the alert_destinations table.
type DestinationModel struct {
	ID           string `gorm:"type:uuid;primaryKey"`
	Name         string `gorm:"type:varchar(128);not null"`
	BaseURL      string `gorm:"type:varchar(512);not null;default:''"`
	Token        string `gorm:"type:varchar(255);not null"`
	SecretEnable bool   `gorm:"not null;default:false"`
	SecretToken  string `gorm:"type:varchar(255);not null;default:''"`
	Contacts     string `gorm:"type:text;not null;default:''"`
	IsAtAll      *bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (DestinationModel) TableName() string {
	return "alert_destinations"
}

func destinationModelFromDomain(d *domain.AlertDestination) *DestinationModel {
	if d == nil {
		return nil
	}

	return &DestinationModel{
		ID:           d.ID,
		Name:         d.Name,
		BaseURL:      d.DingTalk.BaseURL,
		Token:        d.DingTalk.Token,
		SecretEnable: d.DingTalk.SecretEnable,
		SecretToken:  d.DingTalk.SecretToken,
		Contacts:     d.DingTalk.Contacts,
		IsAtAll:      d.DingTalk.IsAtAll,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

func destinationModelToDomain(m *DestinationModel) *domain.AlertDestination {
	if m == nil {
		return nil
	}

	return &domain.AlertDestination{
		ID:   m.ID,
		Name: m.Name,
		DingTalk: domain.DingTalkParams{
			BaseURL:      m.BaseURL,
			Token:        m.Token,
			SecretEnable: m.SecretEnable,
			SecretToken:  m.SecretToken,
			Contacts:     m.Contacts,
			IsAtAll:      m.IsAtAll,
		},
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
