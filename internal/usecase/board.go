package usecase

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/drtrafego/mvp-dashboard-sub000/internal/entity"
)

// LeadFilter é o recorte que o consumidor aplica antes da agregação. Campo
// zero = sem filtro (o default de 30 dias é aplicado na borda HTTP, não
// aqui). TenantID só tem efeito em ScopeIsolated.
type LeadFilter struct {
	Search   string
	From     time.Time
	To       time.Time
	TenantID string
}

// BoardUseCase projeta o quadro que o front renderiza: etapas canônicas +
// leads remapeados + agregados de receita.
type BoardUseCase struct {
	StageRepo entity.StageRepositoryInterface
	LeadRepo  entity.LeadRepositoryInterface
	Scope     entity.TenantScope
	TenantID  string
}

func NewBoardUseCase(stageRepo entity.StageRepositoryInterface, leadRepo entity.LeadRepositoryInterface, scope entity.TenantScope, tenantID string) *BoardUseCase {
	return &BoardUseCase{StageRepo: stageRepo, LeadRepo: leadRepo, Scope: scope, TenantID: tenantID}
}

type BoardOutput struct {
	Stages       []*entity.Stage           `json:"stages"`
	LeadsByStage map[string][]*entity.Lead `json:"leads_by_stage"`
}

type Aggregates struct {
	TotalLeads       int     `json:"total_leads"`
	NewLeadsCount    int     `json:"new_leads_count"`
	WonLeadsCount    int     `json:"won_leads_count"`
	LostLeadsCount   int     `json:"lost_leads_count"`
	ActiveLeadsCount int     `json:"active_leads_count"`
	WonValue         float64 `json:"won_value"`
	PotentialValue   float64 `json:"potential_value"`
}

// GetBoard devolve as etapas canônicas e os leads filtrados agrupados por
// etapa, ordenados por Position asc com empate em CreatedAt desc (mais novo
// primeiro).
func (uc *BoardUseCase) GetBoard(ctx context.Context, filter LeadFilter) (*BoardOutput, error) {
	canonical, leads, err := uc.load(ctx, filter)
	if err != nil {
		return nil, err
	}

	byStage := make(map[string][]*entity.Lead, len(canonical))
	for _, stage := range canonical {
		byStage[stage.ID] = []*entity.Lead{}
	}
	for _, lead := range leads {
		if _, ok := byStage[lead.StageID]; ok {
			byStage[lead.StageID] = append(byStage[lead.StageID], lead)
		}
		// Órfão (etapa sumiu do store): fica fora do quadro, mas continua
		// contando nos agregados.
	}

	for id := range byStage {
		column := byStage[id]
		sort.SliceStable(column, func(i, j int) bool {
			if column[i].Position != column[j].Position {
				return column[i].Position < column[j].Position
			}
			return column[i].CreatedAt.After(column[j].CreatedAt)
		})
		byStage[id] = column
	}

	return &BoardOutput{Stages: canonical, LeadsByStage: byStage}, nil
}

// GetAggregates calcula os números do dashboard sobre o conjunto filtrado.
// wonValue soma o valor parseado dos leads em etapa Won; potentialValue usa
// um filtro lexical independente ("proposta"/"enviada") — é o valor em
// negociação de uma etapa nomeada, não o balde genérico Active.
func (uc *BoardUseCase) GetAggregates(ctx context.Context, filter LeadFilter) (*Aggregates, error) {
	canonical, leads, err := uc.load(ctx, filter)
	if err != nil {
		return nil, err
	}

	stageByID := make(map[string]*entity.Stage, len(canonical))
	for _, stage := range canonical {
		stageByID[stage.ID] = stage
	}

	agg := &Aggregates{TotalLeads: len(leads)}

	for _, lead := range leads {
		stage := stageByID[lead.StageID]

		kind := entity.KindActive // lead órfão cai no balde Active
		if stage != nil {
			kind = stage.EffectiveKind()
		}

		switch kind {
		case entity.KindNew:
			agg.NewLeadsCount++
		case entity.KindWon:
			agg.WonLeadsCount++
			agg.WonValue += lead.Value.Amount
		case entity.KindLost:
			agg.LostLeadsCount++
		default:
			agg.ActiveLeadsCount++
		}

		if stage != nil && isProposalStage(stage.Title) {
			agg.PotentialValue += lead.Value.Amount
		}
	}

	return agg, nil
}

// Heurística lexical preservada da versão original: o valor "em proposta"
// segue o NOME da etapa, não a classificação. Renomear a etapa faz o número
// derivar silenciosamente — fragilidade conhecida, não corrigir aqui.
func isProposalStage(title string) bool {
	t := strings.ToLower(strings.TrimSpace(title))
	return strings.Contains(t, "proposta") || strings.Contains(t, "enviada")
}

// load executa o pipeline de leitura compartilhado: bootstrap defensivo,
// recorte de tenant, canonicalização, remap e filtros.
func (uc *BoardUseCase) load(ctx context.Context, filter LeadFilter) ([]*entity.Stage, []*entity.Lead, error) {
	stages, err := ensureDefaultStages(ctx, uc.StageRepo, uc.tenantFor(filter))
	if err != nil {
		return nil, nil, err
	}

	leads, err := uc.LeadRepo.List(ctx)
	if err != nil {
		return nil, nil, NewTechnicalError("LEAD_LIST_FAILED", err)
	}

	if uc.Scope == entity.ScopeIsolated {
		stages = filterStagesByTenant(stages, uc.tenantFor(filter))
		leads = filterLeadsByTenant(leads, uc.tenantFor(filter))
	}

	canonical, idMap := Canonicalize(stages)
	RemapLeads(leads, idMap)

	return canonical, filterLeads(leads, filter), nil
}

func (uc *BoardUseCase) tenantFor(filter LeadFilter) string {
	if filter.TenantID != "" {
		return filter.TenantID
	}
	return uc.TenantID
}

func filterStagesByTenant(stages []*entity.Stage, tenantID string) []*entity.Stage {
	out := stages[:0:0]
	for _, stage := range stages {
		if stage.TenantID == tenantID {
			out = append(out, stage)
		}
	}
	return out
}

func filterLeadsByTenant(leads []*entity.Lead, tenantID string) []*entity.Lead {
	out := leads[:0:0]
	for _, lead := range leads {
		if lead.TenantID == tenantID {
			out = append(out, lead)
		}
	}
	return out
}

// filterLeads compõe os dois filtros opcionais: busca livre (substring,
// case-insensitive, sobre nome/email/empresa/whatsapp) e janela inclusiva de
// CreatedAt.
func filterLeads(leads []*entity.Lead, filter LeadFilter) []*entity.Lead {
	search := strings.ToLower(strings.TrimSpace(filter.Search))

	out := leads[:0:0]
	for _, lead := range leads {
		if search != "" && !leadMatchesSearch(lead, search) {
			continue
		}
		if !filter.From.IsZero() && lead.CreatedAt.Before(filter.From) {
			continue
		}
		if !filter.To.IsZero() && lead.CreatedAt.After(filter.To) {
			continue
		}
		out = append(out, lead)
	}
	return out
}

func leadMatchesSearch(lead *entity.Lead, search string) bool {
	for _, field := range []string{lead.Name, lead.Email, lead.Company, lead.WhatsApp} {
		if strings.Contains(strings.ToLower(field), search) {
			return true
		}
	}
	return false
}
