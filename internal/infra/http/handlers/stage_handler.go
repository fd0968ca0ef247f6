package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/drtrafego/mvp-dashboard-sub000/internal/infra/http/middleware"
	"github.com/drtrafego/mvp-dashboard-sub000/internal/usecase"
)

type StageHandler struct {
	StageUC *usecase.StageUseCase
}

func NewStageHandler(uc *usecase.StageUseCase) *StageHandler {
	return &StageHandler{StageUC: uc}
}

func (h *StageHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var input usecase.CreateStageInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondJSON(w, http.StatusBadRequest, ErrorResponse{Error: "JSON inválido: " + err.Error()})
		return
	}

	stage, err := h.StageUC.CreateStage(r.Context(), input)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, stage)
}

type RenameStageRequest struct {
	Title string `json:"title"`
}

func (h *StageHandler) HandleRename(w http.ResponseWriter, r *http.Request) {
	var req RenameStageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, ErrorResponse{Error: "JSON inválido: " + err.Error()})
		return
	}

	stage, err := h.StageUC.RenameStage(r.Context(), chi.URLParam(r, "id"), req.Title)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, stage)
}

type ReorderStagesRequest struct {
	IDs []string `json:"ids"`
}

func (h *StageHandler) HandleReorder(w http.ResponseWriter, r *http.Request) {
	var req ReorderStagesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, ErrorResponse{Error: "JSON inválido: " + err.Error()})
		return
	}

	if err := h.StageUC.ReorderStages(r.Context(), req.IDs); err != nil {
		respondError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *StageHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	out, err := h.StageUC.DeleteStage(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}

	middleware.RecordStageDelete(out.LeadsRerouted, out.LeadsDeleted)

	// LeadsDeleted > 0 significa perda de dados assumida (última etapa do
	// funil) — o front decide como avisar, mas o número sempre volta.
	respondJSON(w, http.StatusOK, out)
}
