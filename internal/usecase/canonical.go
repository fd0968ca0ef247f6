package usecase

import (
	"sort"

	"github.com/drtrafego/mvp-dashboard-sub000/internal/entity"
)

// Canonicalize deduplica as etapas criadas por tenants diferentes: a primeira
// etapa encontrada (iteração em ordem ascendente de Order, empate pelo id)
// para um dado título vira a canônica; toda outra linha com o mesmo título é
// "absorvida" — o id dela nunca aparece para o caller, só é mapeado.
//
// Garantias: todo id cru tem entrada no idMap; os ids canônicos são um
// subconjunto dos crus; os títulos canônicos são únicos. Recalculado a cada
// leitura (sem cache) — correção acima de latência, o funil tem dezenas de
// linhas no máximo.
func Canonicalize(stages []*entity.Stage) ([]*entity.Stage, map[string]string) {
	sorted := make([]*entity.Stage, len(stages))
	copy(sorted, stages)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Order != sorted[j].Order {
			return sorted[i].Order < sorted[j].Order
		}
		return sorted[i].ID < sorted[j].ID
	})

	canonicalByTitle := make(map[string]*entity.Stage, len(sorted))
	idMap := make(map[string]string, len(sorted))
	canonical := make([]*entity.Stage, 0, len(sorted))

	for _, stage := range sorted {
		rep, seen := canonicalByTitle[stage.Title]
		if !seen {
			canonicalByTitle[stage.Title] = stage
			canonical = append(canonical, stage)
			rep = stage
		}
		idMap[stage.ID] = rep.ID
	}

	// A iteração já foi ascendente, mas a ordem exibida é a das linhas
	// canônicas em si, reordenada após a seleção.
	sort.SliceStable(canonical, func(i, j int) bool {
		if canonical[i].Order != canonical[j].Order {
			return canonical[i].Order < canonical[j].Order
		}
		return canonical[i].ID < canonical[j].ID
	})

	return canonical, idMap
}

// RemapLeads reescreve o StageID de cada lead para o id canônico. Leads já
// canônicos ou apontando para uma etapa inexistente (órfãos) passam
// inalterados — depois do remap nenhum lead carrega id absorvido.
func RemapLeads(leads []*entity.Lead, idMap map[string]string) {
	for _, lead := range leads {
		if canonical, ok := idMap[lead.StageID]; ok {
			lead.StageID = canonical
		}
	}
}
