package handlers

import (
	"net/http"
	"time"

	"github.com/drtrafego/mvp-dashboard-sub000/internal/entity"
	"github.com/drtrafego/mvp-dashboard-sub000/internal/infra/http/middleware"
	"github.com/drtrafego/mvp-dashboard-sub000/internal/usecase"
)

type BoardHandler struct {
	BoardUC *usecase.BoardUseCase
}

func NewBoardHandler(uc *usecase.BoardUseCase) *BoardHandler {
	return &BoardHandler{BoardUC: uc}
}

func (h *BoardHandler) HandleGetBoard(w http.ResponseWriter, r *http.Request) {
	board, err := h.BoardUC.GetBoard(r.Context(), parseLeadFilter(r))
	if err != nil {
		respondError(w, err)
		return
	}

	middleware.RecordBoardRequest()
	respondJSON(w, http.StatusOK, board)
}

type AggregatesResponse struct {
	*usecase.Aggregates
	WonValueFormatted       string `json:"won_value_formatted"`
	PotentialValueFormatted string `json:"potential_value_formatted"`
}

func (h *BoardHandler) HandleGetAggregates(w http.ResponseWriter, r *http.Request) {
	agg, err := h.BoardUC.GetAggregates(r.Context(), parseLeadFilter(r))
	if err != nil {
		respondError(w, err)
		return
	}

	// Formatação de moeda é responsabilidade da borda, sempre em pt-BR.
	respondJSON(w, http.StatusOK, AggregatesResponse{
		Aggregates:              agg,
		WonValueFormatted:       entity.FormatBRL(agg.WonValue),
		PotentialValueFormatted: entity.FormatBRL(agg.PotentialValue),
	})
}

// parseLeadFilter monta o recorte a partir da query string. Sem from/to o
// dashboard usa a janela padrão dos últimos 30 dias; "all=true" derruba a
// janela e devolve o conjunto completo.
func parseLeadFilter(r *http.Request) usecase.LeadFilter {
	q := r.URL.Query()

	filter := usecase.LeadFilter{
		Search:   q.Get("q"),
		TenantID: q.Get("tenant"),
	}

	from, fromOK := parseDate(q.Get("from"), false)
	to, toOK := parseDate(q.Get("to"), true)

	switch {
	case fromOK || toOK:
		filter.From = from
		filter.To = to
	case q.Get("all") != "true":
		now := time.Now()
		filter.From = now.AddDate(0, 0, -30)
		filter.To = now
	}

	return filter
}

// parseDate aceita "2006-01-02" ou RFC3339. Datas puras no campo "to" são
// deslocadas para o fim do dia — a janela é inclusiva nas duas pontas.
func parseDate(s string, endOfDay bool) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}

	if t, err := time.Parse("2006-01-02", s); err == nil {
		if endOfDay {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		return t, true
	}

	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}

	return time.Time{}, false
}
