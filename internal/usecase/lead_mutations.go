package usecase

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/drtrafego/mvp-dashboard-sub000/internal/entity"
	"github.com/drtrafego/mvp-dashboard-sub000/internal/infra/queue"
)

// LeadUseCase concentra as mutações de lead: criação, drag-and-drop entre
// etapas, edição de campos e exclusão.
type LeadUseCase struct {
	StageRepo entity.StageRepositoryInterface
	LeadRepo  entity.LeadRepositoryInterface
	Events    PipelineEventPublisher // opcional
}

func NewLeadUseCase(
	stageRepo entity.StageRepositoryInterface,
	leadRepo entity.LeadRepositoryInterface,
	events PipelineEventPublisher,
) *LeadUseCase {
	return &LeadUseCase{
		StageRepo: stageRepo,
		LeadRepo:  leadRepo,
		Events:    events,
	}
}

type CreateLeadInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Company  string `json:"company"`
	WhatsApp string `json:"whatsapp"`
	Notes    string `json:"notes"`
	Value    string `json:"value"`
	TenantID string `json:"tenant_id"`
}

// CreateLead coloca o lead novo na primeira etapa canônica, posição 0.
func (uc *LeadUseCase) CreateLead(ctx context.Context, input CreateLeadInput) (*entity.Lead, error) {
	if errs := ValidateCreateLeadInput(input); len(errs) > 0 {
		return nil, NewDomainError("LEAD_VALIDATION_FAILED", "%s", errs[0].Error())
	}

	stages, err := ensureDefaultStages(ctx, uc.StageRepo, input.TenantID)
	if err != nil {
		return nil, err
	}
	canonical, _ := Canonicalize(stages)

	lead, err := entity.NewLead(
		input.Name, input.Email, input.Company, input.WhatsApp,
		input.Notes, input.Value, canonical[0].ID, input.TenantID,
	)
	if err != nil {
		return nil, NewDomainError("LEAD_VALIDATION_FAILED", "%s", err.Error())
	}

	if err := uc.LeadRepo.Insert(ctx, lead); err != nil {
		return nil, NewTechnicalError("LEAD_INSERT_FAILED", err)
	}

	return lead, nil
}

type MoveLeadInput struct {
	LeadID   string `json:"lead_id"`
	StageID  string `json:"stage_id"`
	Position int    `json:"position"`
}

type MoveLeadOutput struct {
	Lead *entity.Lead `json:"lead"`
	Won  bool         `json:"won"`
}

// MoveLead grava a etapa e a posição alvo do drag-and-drop. O id de etapa
// recebido pode ser cru ou canônico: passa pelo mapa canônico antes da
// escrita, então um cliente segurando um id absorvido obsoleto é corrigido
// em silêncio.
func (uc *LeadUseCase) MoveLead(ctx context.Context, input MoveLeadInput) (*MoveLeadOutput, error) {
	stages, err := uc.StageRepo.List(ctx)
	if err != nil {
		return nil, NewTechnicalError("STAGE_LIST_FAILED", err)
	}
	canonical, idMap := Canonicalize(stages)

	targetID, ok := idMap[input.StageID]
	if !ok {
		return nil, NewDomainError("STAGE_NOT_FOUND", "stage %s not found", input.StageID)
	}

	var target *entity.Stage
	for _, stage := range canonical {
		if stage.ID == targetID {
			target = stage
			break
		}
	}

	lead, err := uc.findLead(ctx, input.LeadID)
	if err != nil {
		return nil, err
	}

	lead.StageID = targetID
	lead.Position = input.Position
	lead.UpdatedAt = time.Now()

	if err := uc.LeadRepo.Update(ctx, lead); err != nil {
		return nil, NewTechnicalError("LEAD_UPDATE_FAILED", err)
	}

	out := &MoveLeadOutput{
		Lead: lead,
		Won:  target != nil && target.EffectiveKind() == entity.KindWon,
	}

	uc.publishMove(ctx, lead, target, out.Won)

	return out, nil
}

type UpdateLeadInput struct {
	LeadID   string  `json:"lead_id"`
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Company  *string `json:"company,omitempty"`
	WhatsApp *string `json:"whatsapp,omitempty"`
	Notes    *string `json:"notes,omitempty"`
	Value    *string `json:"value,omitempty"`

	// StageID/Position fora da whitelist: só entram quando o caller mandou
	// explicitamente. O diálogo de edição pode estar com um snapshot velho
	// enquanto um drag acabou de mover o lead — campos omitidos vêm da linha
	// atual, relida do store logo antes da escrita.
	StageID  *string `json:"stage_id,omitempty"`
	Position *int    `json:"position,omitempty"`
}

// UpdateLead aplica a edição genérica de campos sobre a linha ATUAL do
// store, nunca sobre o snapshot do caller.
func (uc *LeadUseCase) UpdateLead(ctx context.Context, input UpdateLeadInput) (*entity.Lead, error) {
	if errs := ValidateUpdateLeadInput(input); len(errs) > 0 {
		return nil, NewDomainError("LEAD_VALIDATION_FAILED", "%s", errs[0].Error())
	}

	lead, err := uc.findLead(ctx, input.LeadID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		lead.Name = *input.Name
	}
	if input.Email != nil {
		lead.Email = *input.Email
	}
	if input.Company != nil {
		lead.Company = *input.Company
	}
	if input.WhatsApp != nil {
		lead.WhatsApp = *input.WhatsApp
	}
	if input.Notes != nil {
		lead.Notes = *input.Notes
	}
	if input.Value != nil {
		lead.Value = entity.ParseMoney(*input.Value)
	}

	if input.StageID != nil {
		stages, err := uc.StageRepo.List(ctx)
		if err != nil {
			return nil, NewTechnicalError("STAGE_LIST_FAILED", err)
		}
		_, idMap := Canonicalize(stages)

		targetID, ok := idMap[*input.StageID]
		if !ok {
			return nil, NewDomainError("STAGE_NOT_FOUND", "stage %s not found", *input.StageID)
		}
		lead.StageID = targetID
	}
	if input.Position != nil {
		lead.Position = *input.Position
	}

	lead.UpdatedAt = time.Now()

	if err := uc.LeadRepo.Update(ctx, lead); err != nil {
		return nil, NewTechnicalError("LEAD_UPDATE_FAILED", err)
	}

	return lead, nil
}

func (uc *LeadUseCase) DeleteLead(ctx context.Context, id string) error {
	if _, err := uc.findLead(ctx, id); err != nil {
		return err
	}
	if err := uc.LeadRepo.Delete(ctx, id); err != nil {
		return NewTechnicalError("LEAD_DELETE_FAILED", err)
	}
	return nil
}

func (uc *LeadUseCase) findLead(ctx context.Context, id string) (*entity.Lead, error) {
	lead, err := uc.LeadRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, entity.ErrLeadNotFound) {
			return nil, NewDomainError("LEAD_NOT_FOUND", "lead %s not found", id)
		}
		return nil, NewTechnicalError("LEAD_FIND_FAILED", err)
	}
	return lead, nil
}

func (uc *LeadUseCase) publishMove(ctx context.Context, lead *entity.Lead, target *entity.Stage, won bool) {
	if uc.Events == nil || target == nil {
		return
	}

	event := queue.PipelineEvent{
		Type:       queue.EventLeadMoved,
		LeadID:     lead.ID,
		LeadName:   lead.Name,
		LeadEmail:  lead.Email,
		Value:      lead.Value.Raw,
		Amount:     lead.Value.Amount,
		StageID:    target.ID,
		StageTitle: target.Title,
		Origin:     "drag-and-drop",
	}
	if won {
		event.Type = queue.EventLeadWon
	}

	if err := uc.Events.PublishPipelineEvent(ctx, event); err != nil {
		log.Printf("⚠️ Lead movido no banco, mas falha na fila: %v", err)
	}
}
