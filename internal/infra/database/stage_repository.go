package database

import (
	"context"
	"database/sql"
	"log"

	"github.com/drtrafego/mvp-dashboard-sub000/internal/entity"
)

type StageRepository struct {
	DB *sql.DB
}

func NewStageRepository(db *sql.DB) *StageRepository {
	return &StageRepository{DB: db}
}

// List devolve TODAS as linhas, de todos os tenants, em ordem ascendente de
// sort_order (empate pelo id) — a canonicalização depende dessa iteração.
func (r *StageRepository) List(ctx context.Context) ([]*entity.Stage, error) {
	query := `
		SELECT id, title, sort_order, tenant_id, kind
		FROM pipeline_stages
		ORDER BY sort_order ASC, id ASC
	`

	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		log.Printf("Erro crítico no banco: %v", err)
		return nil, err
	}
	defer rows.Close()

	stages := []*entity.Stage{}
	for rows.Next() {
		var stage entity.Stage
		var kind string
		if err := rows.Scan(&stage.ID, &stage.Title, &stage.Order, &stage.TenantID, &kind); err != nil {
			return nil, err
		}
		stage.Kind = entity.StageKind(kind)
		stages = append(stages, &stage)
	}

	return stages, rows.Err()
}

func (r *StageRepository) Insert(ctx context.Context, stage *entity.Stage) error {
	query := `
		INSERT INTO pipeline_stages (id, title, sort_order, tenant_id, kind)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.DB.ExecContext(ctx, query,
		stage.ID,
		stage.Title,
		stage.Order,
		stage.TenantID,
		string(stage.Kind),
	)
	if err != nil {
		log.Printf("Erro crítico no banco: %v", err)
	}
	return err
}

func (r *StageRepository) Update(ctx context.Context, stage *entity.Stage) error {
	query := `
		UPDATE pipeline_stages
		SET title = $2, sort_order = $3, kind = $4
		WHERE id = $1
	`

	result, err := r.DB.ExecContext(ctx, query,
		stage.ID,
		stage.Title,
		stage.Order,
		string(stage.Kind),
	)
	if err != nil {
		return err
	}

	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return entity.ErrStageNotFound
	}
	return nil
}

func (r *StageRepository) Delete(ctx context.Context, id string) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM pipeline_stages WHERE id = $1`, id)
	if err != nil {
		return err
	}

	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return entity.ErrStageNotFound
	}
	return nil
}
