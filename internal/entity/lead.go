package entity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrStageNotFound = errors.New("stage not found")
	ErrLeadNotFound  = errors.New("lead not found")
)

type Lead struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Email    string    `json:"email,omitempty"`
	Company  string    `json:"company,omitempty"`
	WhatsApp string    `json:"whatsapp,omitempty"`
	Notes    string    `json:"notes,omitempty"`
	Value    MoneyText `json:"value"`

	// StageID pode apontar para uma linha canônica ou absorvida no banco;
	// na leitura é sempre reescrito para o id canônico.
	StageID  string `json:"stage_id"`
	Position int    `json:"position"`

	TenantID  string    `json:"tenant_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewLead(name, email, company, whatsapp, notes, value, stageID, tenantID string) (*Lead, error) {
	lead := &Lead{
		ID:        uuid.New().String(),
		Name:      name,
		Email:     email,
		Company:   company,
		WhatsApp:  whatsapp,
		Notes:     notes,
		Value:     ParseMoney(value),
		StageID:   stageID,
		Position:  0,
		TenantID:  tenantID,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := lead.Validate(); err != nil {
		return nil, err
	}

	return lead, nil
}

func (l *Lead) Validate() error {
	if l.Name == "" {
		return errors.New("name is required")
	}
	if l.StageID == "" {
		return errors.New("stage_id is required")
	}
	return nil
}

type LeadRepositoryInterface interface {
	List(ctx context.Context) ([]*Lead, error)
	FindByID(ctx context.Context, id string) (*Lead, error)
	Insert(ctx context.Context, lead *Lead) error
	Update(ctx context.Context, lead *Lead) error
	Delete(ctx context.Context, id string) error
}
