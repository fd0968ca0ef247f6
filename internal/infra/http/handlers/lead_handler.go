package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/drtrafego/mvp-dashboard-sub000/internal/infra/http/middleware"
	"github.com/drtrafego/mvp-dashboard-sub000/internal/usecase"
)

type LeadHandler struct {
	LeadUC *usecase.LeadUseCase
}

func NewLeadHandler(uc *usecase.LeadUseCase) *LeadHandler {
	return &LeadHandler{LeadUC: uc}
}

func (h *LeadHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var input usecase.CreateLeadInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondJSON(w, http.StatusBadRequest, ErrorResponse{Error: "JSON inválido: " + err.Error()})
		return
	}

	lead, err := h.LeadUC.CreateLead(r.Context(), input)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, lead)
}

type MoveLeadRequest struct {
	StageID  string `json:"stage_id"`
	Position int    `json:"position"`
}

func (h *LeadHandler) HandleMove(w http.ResponseWriter, r *http.Request) {
	var req MoveLeadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, ErrorResponse{Error: "JSON inválido: " + err.Error()})
		return
	}

	out, err := h.LeadUC.MoveLead(r.Context(), usecase.MoveLeadInput{
		LeadID:   chi.URLParam(r, "id"),
		StageID:  req.StageID,
		Position: req.Position,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	middleware.RecordLeadMove(out.Won)
	respondJSON(w, http.StatusOK, out)
}

func (h *LeadHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var input usecase.UpdateLeadInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondJSON(w, http.StatusBadRequest, ErrorResponse{Error: "JSON inválido: " + err.Error()})
		return
	}
	input.LeadID = chi.URLParam(r, "id")

	lead, err := h.LeadUC.UpdateLead(r.Context(), input)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, lead)
}

func (h *LeadHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.LeadUC.DeleteLead(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
