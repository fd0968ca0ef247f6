package database

import (
	"context"
	"database/sql"
	"errors"
	"log"

	"github.com/drtrafego/mvp-dashboard-sub000/internal/entity"
)

type LeadRepository struct {
	DB *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

const leadColumns = `id, name, email, company, whatsapp, notes, value, stage_id, position, tenant_id, created_at, updated_at`

// List devolve todos os leads, de todos os tenants. A ordenação fina por
// coluna (position asc, created_at desc) acontece na projeção do quadro.
func (r *LeadRepository) List(ctx context.Context) ([]*entity.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads ORDER BY position ASC, created_at DESC`

	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		log.Printf("Erro crítico no banco: %v", err)
		return nil, err
	}
	defer rows.Close()

	leads := []*entity.Lead{}
	for rows.Next() {
		lead, err := scanLead(rows.Scan)
		if err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}

	return leads, rows.Err()
}

func (r *LeadRepository) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE id = $1`

	lead, err := scanLead(r.DB.QueryRowContext(ctx, query, id).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrLeadNotFound
		}
		return nil, err
	}
	return lead, nil
}

func (r *LeadRepository) Insert(ctx context.Context, lead *entity.Lead) error {
	query := `
		INSERT INTO leads (` + leadColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.DB.ExecContext(ctx, query,
		lead.ID,
		lead.Name,
		lead.Email,
		lead.Company,
		lead.WhatsApp,
		lead.Notes,
		lead.Value,
		lead.StageID,
		lead.Position,
		lead.TenantID,
		lead.CreatedAt,
		lead.UpdatedAt,
	)
	if err != nil {
		log.Printf("Erro crítico no banco: %v", err)
	}
	return err
}

func (r *LeadRepository) Update(ctx context.Context, lead *entity.Lead) error {
	query := `
		UPDATE leads
		SET name = $2, email = $3, company = $4, whatsapp = $5, notes = $6,
		    value = $7, stage_id = $8, position = $9, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.DB.ExecContext(ctx, query,
		lead.ID,
		lead.Name,
		lead.Email,
		lead.Company,
		lead.WhatsApp,
		lead.Notes,
		lead.Value,
		lead.StageID,
		lead.Position,
	)
	if err != nil {
		return err
	}

	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return entity.ErrLeadNotFound
	}
	return nil
}

func (r *LeadRepository) Delete(ctx context.Context, id string) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM leads WHERE id = $1`, id)
	if err != nil {
		return err
	}

	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return entity.ErrLeadNotFound
	}
	return nil
}

// scanLead centraliza o Scan — o parse do valor monetário acontece aqui, uma
// única vez, dentro do Scan de MoneyText.
func scanLead(scan func(dest ...any) error) (*entity.Lead, error) {
	var lead entity.Lead
	err := scan(
		&lead.ID,
		&lead.Name,
		&lead.Email,
		&lead.Company,
		&lead.WhatsApp,
		&lead.Notes,
		&lead.Value,
		&lead.StageID,
		&lead.Position,
		&lead.TenantID,
		&lead.CreatedAt,
		&lead.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &lead, nil
}
