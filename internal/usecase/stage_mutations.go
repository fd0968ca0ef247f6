package usecase

import (
	"context"
	"log"
	"strings"

	"github.com/drtrafego/mvp-dashboard-sub000/internal/entity"
	"github.com/drtrafego/mvp-dashboard-sub000/internal/infra/queue"
)

// StageUseCase concentra as mutações de etapa do funil. Os callers só
// enxergam ids canônicos, então toda operação endereçada por id resolve
// contra a derivação canônica do momento.
type StageUseCase struct {
	StageRepo entity.StageRepositoryInterface
	LeadRepo  entity.LeadRepositoryInterface
	Events    PipelineEventPublisher // opcional
}

func NewStageUseCase(
	stageRepo entity.StageRepositoryInterface,
	leadRepo entity.LeadRepositoryInterface,
	events PipelineEventPublisher,
) *StageUseCase {
	return &StageUseCase{
		StageRepo: stageRepo,
		LeadRepo:  leadRepo,
		Events:    events,
	}
}

type CreateStageInput struct {
	Title    string `json:"title"`
	TenantID string `json:"tenant_id"`
}

// CreateStage anexa a etapa no fim do quadro: Order = quantidade atual de
// etapas canônicas (não de linhas cruas — duplicatas absorvidas não contam).
func (uc *StageUseCase) CreateStage(ctx context.Context, input CreateStageInput) (*entity.Stage, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, NewDomainError("STAGE_TITLE_REQUIRED", "title is required")
	}

	stages, err := uc.StageRepo.List(ctx)
	if err != nil {
		return nil, NewTechnicalError("STAGE_LIST_FAILED", err)
	}
	canonical, _ := Canonicalize(stages)

	stage := entity.NewStage(input.Title, len(canonical), input.TenantID)
	if err := uc.StageRepo.Insert(ctx, stage); err != nil {
		return nil, NewTechnicalError("STAGE_INSERT_FAILED", err)
	}

	return stage, nil
}

// RenameStage troca o título da linha crua endereçada (pelo id canônico, já
// que é o único que o caller conhece). O Kind gravado NÃO é reclassificado:
// renomear não pode mudar o que contava como "ganho" no histórico.
func (uc *StageUseCase) RenameStage(ctx context.Context, id, title string) (*entity.Stage, error) {
	if strings.TrimSpace(title) == "" {
		return nil, NewDomainError("STAGE_TITLE_REQUIRED", "title is required")
	}

	stages, err := uc.StageRepo.List(ctx)
	if err != nil {
		return nil, NewTechnicalError("STAGE_LIST_FAILED", err)
	}

	var target *entity.Stage
	for _, stage := range stages {
		if stage.ID == id {
			target = stage
			break
		}
	}
	if target == nil {
		return nil, NewDomainError("STAGE_NOT_FOUND", "stage %s not found", id)
	}

	target.Title = title
	if err := uc.StageRepo.Update(ctx, target); err != nil {
		return nil, NewTechnicalError("STAGE_UPDATE_FAILED", err)
	}

	return target, nil
}

// ReorderStages recebe a lista completa de ids na nova ordem e grava
// Order = índice em uma passada. Id que não bate com nenhuma etapa é pulado
// com warning — não derruba o reorder inteiro.
func (uc *StageUseCase) ReorderStages(ctx context.Context, ids []string) error {
	stages, err := uc.StageRepo.List(ctx)
	if err != nil {
		return NewTechnicalError("STAGE_LIST_FAILED", err)
	}

	byID := make(map[string]*entity.Stage, len(stages))
	for _, stage := range stages {
		byID[stage.ID] = stage
	}

	for index, id := range ids {
		stage, ok := byID[id]
		if !ok {
			log.Printf("⚠️ Reorder: etapa %s não existe mais, ignorando", id)
			continue
		}

		stage.Order = index
		if err := uc.StageRepo.Update(ctx, stage); err != nil {
			return NewTechnicalError("STAGE_UPDATE_FAILED", err)
		}
	}

	return nil
}

type DeleteStageOutput struct {
	DeletedStageID  string `json:"deleted_stage_id"`
	FallbackStageID string `json:"fallback_stage_id,omitempty"`
	LeadsRerouted   int    `json:"leads_rerouted"`
	LeadsDeleted    int    `json:"leads_deleted"`
}

// DeleteStage remove a etapa canônica alvo, antes redirecionando os leads
// órfãos para o destino de fallback: predecessora mais próxima por Order,
// senão sucessora mais próxima, senão qualquer canônica restante. Sem
// nenhuma outra etapa, os leads da etapa são excluídos — e isso volta
// explícito em LeadsDeleted, nunca engolido.
func (uc *StageUseCase) DeleteStage(ctx context.Context, id string) (*DeleteStageOutput, error) {
	stages, err := uc.StageRepo.List(ctx)
	if err != nil {
		return nil, NewTechnicalError("STAGE_LIST_FAILED", err)
	}
	canonical, _ := Canonicalize(stages)

	var target *entity.Stage
	for _, stage := range canonical {
		if stage.ID == id {
			target = stage
			break
		}
	}
	if target == nil {
		return nil, NewDomainError("STAGE_NOT_FOUND", "stage %s not found", id)
	}

	fallback := fallbackStage(canonical, target)

	leads, err := uc.LeadRepo.List(ctx)
	if err != nil {
		return nil, NewTechnicalError("LEAD_LIST_FAILED", err)
	}

	// Só o id CRU conta aqui: linhas absorvidas com o mesmo título continuam
	// existindo depois do delete e viram canônicas na próxima leitura.
	var orphans []*entity.Lead
	for _, lead := range leads {
		if lead.StageID == id {
			orphans = append(orphans, lead)
		}
	}

	out := &DeleteStageOutput{DeletedStageID: id}

	tx := NewTransaction()

	if fallback != nil {
		out.FallbackStageID = fallback.ID
		out.LeadsRerouted = len(orphans)

		for _, lead := range orphans {
			lead := lead
			tx.AddOperation("repoint-lead-"+lead.ID, func(ctx context.Context) error {
				lead.StageID = fallback.ID
				return uc.LeadRepo.Update(ctx, lead)
			})
			tx.AddCompensation("restore-lead-"+lead.ID, func(ctx context.Context) error {
				lead.StageID = id
				return uc.LeadRepo.Update(ctx, lead)
			})
		}
	} else if len(orphans) > 0 {
		// Última etapa do funil: não existe destino. Perda de dados
		// documentada — melhor que leads pendurados em etapa nenhuma.
		log.Printf("⚠️ Etapa %q é a última do funil: %d lead(s) serão excluídos junto", target.Title, len(orphans))
		out.LeadsDeleted = len(orphans)

		for _, lead := range orphans {
			lead := lead
			tx.AddOperation("delete-lead-"+lead.ID, func(ctx context.Context) error {
				return uc.LeadRepo.Delete(ctx, lead.ID)
			})
			tx.AddCompensation("restore-lead-"+lead.ID, func(ctx context.Context) error {
				return uc.LeadRepo.Insert(ctx, lead)
			})
		}
	}

	tx.AddOperation("delete-stage-"+id, func(ctx context.Context) error {
		return uc.StageRepo.Delete(ctx, id)
	})

	if err := tx.Execute(ctx); err != nil {
		return nil, NewTechnicalError("STAGE_DELETE_FAILED", err)
	}

	uc.publishStageDeleted(ctx, target, out)

	return out, nil
}

// fallbackStage escolhe o destino dos leads órfãos entre as canônicas
// restantes: (1) predecessora mais próxima, (2) sucessora mais próxima,
// (3) qualquer outra (empate de Order com o alvo). Nil quando a etapa era a
// única.
func fallbackStage(canonical []*entity.Stage, target *entity.Stage) *entity.Stage {
	var prev, next, other *entity.Stage

	for _, stage := range canonical {
		if stage.ID == target.ID {
			continue
		}
		switch {
		case stage.Order < target.Order && (prev == nil || stage.Order > prev.Order):
			prev = stage
		case stage.Order > target.Order && (next == nil || stage.Order < next.Order):
			next = stage
		default:
			if other == nil && stage.Order == target.Order {
				other = stage
			}
		}
	}

	if prev != nil {
		return prev
	}
	if next != nil {
		return next
	}
	return other
}

func (uc *StageUseCase) publishStageDeleted(ctx context.Context, stage *entity.Stage, out *DeleteStageOutput) {
	if uc.Events == nil {
		return
	}

	event := queue.PipelineEvent{
		Type:          queue.EventStageDeleted,
		StageID:       stage.ID,
		StageTitle:    stage.Title,
		LeadsRerouted: out.LeadsRerouted,
		LeadsDeleted:  out.LeadsDeleted,
		Origin:        "stage-delete",
	}

	if err := uc.Events.PublishPipelineEvent(ctx, event); err != nil {
		log.Printf("⚠️ Etapa excluída no banco, mas falha na fila: %v", err)
	}
}
