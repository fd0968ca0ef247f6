package entity

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

// StageKind é o atributo explícito de classificação da etapa.
// Vazio significa "ainda não semeado" — o leitor cai na heurística de título.
type StageKind string

const (
	KindUnset  StageKind = ""
	KindNew    StageKind = "NEW"
	KindActive StageKind = "ACTIVE"
	KindWon    StageKind = "WON"
	KindLost   StageKind = "LOST"
)

// TenantScope controla se o quadro agrega todos os tenants (configuração
// implantada) ou isola por tenant.
type TenantScope string

const (
	ScopePooled   TenantScope = "POOLED"
	ScopeIsolated TenantScope = "ISOLATED"
)

func ParseTenantScope(s string) TenantScope {
	if strings.EqualFold(strings.TrimSpace(s), string(ScopeIsolated)) {
		return ScopeIsolated
	}
	return ScopePooled
}

// Stage é uma coluna do funil de vendas.
type Stage struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Order    int       `json:"order"`
	TenantID string    `json:"tenant_id,omitempty"`
	Kind     StageKind `json:"kind,omitempty"`
}

// DefaultStageTitles é o funil criado no primeiro acesso, nessa ordem.
var DefaultStageTitles = []string{
	"New Leads",
	"Contacted",
	"No Response",
	"Proposal Sent",
	"Won",
	"Lost",
}

// ClassifyStage aplica a heurística de título usada como semente do Kind e
// como fallback para linhas antigas sem Kind gravado. A ordem dos casos
// importa: Won antes de Lost, Lost antes de New.
func ClassifyStage(title string, order int) StageKind {
	t := strings.ToLower(strings.TrimSpace(title))
	switch {
	case strings.Contains(t, "ganho") || strings.Contains(t, "won") || strings.Contains(t, "fechado"):
		return KindWon
	// Fallback posicional: a 5ª coluna do funil convencional de 6 etapas é
	// "Won" mesmo quando o tenant renomeou e perdeu a palavra-chave.
	case order == 4 && !strings.Contains(t, "perdido") && !strings.Contains(t, "lost"):
		return KindWon
	case strings.Contains(t, "perdido") || strings.Contains(t, "lost"):
		return KindLost
	case strings.Contains(t, "novos") || order == 0:
		return KindNew
	default:
		return KindActive
	}
}

// EffectiveKind devolve o Kind gravado, ou a classificação por título quando
// a linha ainda não foi semeada.
func (s *Stage) EffectiveKind() StageKind {
	if s.Kind != KindUnset {
		return s.Kind
	}
	return ClassifyStage(s.Title, s.Order)
}

// NewStage cria uma etapa já com o Kind semeado pela heurística.
func NewStage(title string, order int, tenantID string) *Stage {
	return &Stage{
		ID:       uuid.New().String(),
		Title:    title,
		Order:    order,
		TenantID: tenantID,
		Kind:     ClassifyStage(title, order),
	}
}

type StageRepositoryInterface interface {
	List(ctx context.Context) ([]*Stage, error)
	Insert(ctx context.Context, stage *Stage) error
	Update(ctx context.Context, stage *Stage) error
	Delete(ctx context.Context, id string) error
}
