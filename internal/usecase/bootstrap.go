package usecase

import (
	"context"
	"log"

	"github.com/drtrafego/mvp-dashboard-sub000/internal/entity"
)

// BootstrapUseCase garante o contrato de primeiro uso: store de etapas vazio
// recebe exatamente os títulos padrão, na ordem, antes de qualquer outra
// operação. Roda no startup e defensivamente nas leituras.
type BootstrapUseCase struct {
	StageRepo entity.StageRepositoryInterface
	TenantID  string
}

func NewBootstrapUseCase(stageRepo entity.StageRepositoryInterface, tenantID string) *BootstrapUseCase {
	return &BootstrapUseCase{StageRepo: stageRepo, TenantID: tenantID}
}

func (uc *BootstrapUseCase) Execute(ctx context.Context) error {
	_, err := ensureDefaultStages(ctx, uc.StageRepo, uc.TenantID)
	return err
}

// ensureDefaultStages lista as etapas e, se o store estiver vazio, cria as
// seis padrão com Order 0..5 e Kind já semeado. Devolve a lista resultante.
func ensureDefaultStages(ctx context.Context, repo entity.StageRepositoryInterface, tenantID string) ([]*entity.Stage, error) {
	stages, err := repo.List(ctx)
	if err != nil {
		return nil, NewTechnicalError("STAGE_LIST_FAILED", err)
	}
	if len(stages) > 0 {
		return stages, nil
	}

	log.Printf("🏗️ Funil vazio: criando as %d etapas padrão", len(entity.DefaultStageTitles))

	for i, title := range entity.DefaultStageTitles {
		stage := entity.NewStage(title, i, tenantID)
		if err := repo.Insert(ctx, stage); err != nil {
			return nil, NewTechnicalError("STAGE_BOOTSTRAP_FAILED", err)
		}
		stages = append(stages, stage)
	}

	return stages, nil
}
