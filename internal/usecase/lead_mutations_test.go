package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/drtrafego/mvp-dashboard-sub000/internal/entity"
	"github.com/drtrafego/mvp-dashboard-sub000/internal/infra/queue"
	"github.com/drtrafego/mvp-dashboard-sub000/internal/usecase"
)

// TestCreateLeadGoesToFirstCanonicalStage - lead novo entra na primeira
// etapa canônica, posição 0
func TestCreateLeadGoesToFirstCanonicalStage(t *testing.T) {
	ctx := context.Background()

	stages := []*entity.Stage{
		stage("s-contato", "Contato", 1, "t1"),
		stage("s-novos", "Novos", 0, "t1"),
	}

	mockStageRepo := new(MockStageRepository)
	mockLeadRepo := new(MockLeadRepository)
	mockStageRepo.On("List", ctx).Return(stages, nil)

	var inserted *entity.Lead
	mockLeadRepo.On("Insert", ctx, mock.Anything).Run(func(args mock.Arguments) {
		inserted = args.Get(1).(*entity.Lead)
	}).Return(nil)

	uc := usecase.NewLeadUseCase(mockStageRepo, mockLeadRepo, nil)

	created, err := uc.CreateLead(ctx, usecase.CreateLeadInput{
		Name:     "Padaria do Zé",
		Value:    "R$ 1.200,00",
		TenantID: "t1",
	})

	assert.NoError(t, err)
	assert.Equal(t, "s-novos", created.StageID)
	assert.Equal(t, 0, created.Position)
	assert.Equal(t, 1200.0, created.Value.Amount)
	assert.Equal(t, inserted, created)
}

// TestCreateLeadBootstrapsEmptyFunnel - tenant sem etapa nenhuma ganha o
// funil padrão antes do insert
func TestCreateLeadBootstrapsEmptyFunnel(t *testing.T) {
	ctx := context.Background()

	mockStageRepo := new(MockStageRepository)
	mockLeadRepo := new(MockLeadRepository)
	mockStageRepo.On("List", ctx).Return([]*entity.Stage{}, nil)
	mockStageRepo.On("Insert", ctx, mock.Anything).Return(nil)
	mockLeadRepo.On("Insert", ctx, mock.Anything).Return(nil)

	uc := usecase.NewLeadUseCase(mockStageRepo, mockLeadRepo, nil)

	created, err := uc.CreateLead(ctx, usecase.CreateLeadInput{Name: "Ana", TenantID: "t1"})

	assert.NoError(t, err)
	assert.NotEmpty(t, created.StageID)
	mockStageRepo.AssertNumberOfCalls(t, "Insert", len(entity.DefaultStageTitles))
}

func TestCreateLeadRejectsInvalidInput(t *testing.T) {
	uc := usecase.NewLeadUseCase(new(MockStageRepository), new(MockLeadRepository), nil)

	_, err := uc.CreateLead(context.Background(), usecase.CreateLeadInput{Name: ""})

	assert.True(t, usecase.IsDomainError(err))
}

// TestMoveLeadCorrectsStaleAbsorbedID - cliente segurando o id de uma linha
// absorvida: o move passa pelo mapa canônico e grava o id vencedor
func TestMoveLeadCorrectsStaleAbsorbedID(t *testing.T) {
	ctx := context.Background()

	stages := []*entity.Stage{
		stage("s-novos", "Novos", 0, "t1"),
		stage("s-ganho-a", "Ganho", 4, "t1"),
		stage("s-ganho-b", "Ganho", 7, "t2"),
	}
	moved := lead("l1", "Ana", "s-novos", 0, time.Now())
	moved.Value = entity.ParseMoney("2500")

	mockStageRepo := new(MockStageRepository)
	mockLeadRepo := new(MockLeadRepository)
	mockEvents := new(MockEventPublisher)
	mockStageRepo.On("List", ctx).Return(stages, nil)
	mockLeadRepo.On("FindByID", ctx, "l1").Return(moved, nil)
	mockLeadRepo.On("Update", ctx, mock.Anything).Return(nil)
	mockEvents.On("PublishPipelineEvent", ctx, mock.MatchedBy(func(e queue.PipelineEvent) bool {
		return e.Type == queue.EventLeadWon && e.StageID == "s-ganho-a"
	})).Return(nil)

	uc := usecase.NewLeadUseCase(mockStageRepo, mockLeadRepo, mockEvents)

	out, err := uc.MoveLead(ctx, usecase.MoveLeadInput{
		LeadID:   "l1",
		StageID:  "s-ganho-b", // id absorvido
		Position: 2,
	})

	assert.NoError(t, err)
	assert.Equal(t, "s-ganho-a", out.Lead.StageID)
	assert.Equal(t, 2, out.Lead.Position)
	assert.True(t, out.Won)
	mockEvents.AssertExpectations(t)
}

func TestMoveLeadToUnknownStage(t *testing.T) {
	ctx := context.Background()

	mockStageRepo := new(MockStageRepository)
	mockStageRepo.On("List", ctx).Return([]*entity.Stage{stage("a", "Novos", 0, "t1")}, nil)

	uc := usecase.NewLeadUseCase(mockStageRepo, new(MockLeadRepository), nil)

	_, err := uc.MoveLead(ctx, usecase.MoveLeadInput{LeadID: "l1", StageID: "fantasma"})

	assert.True(t, usecase.IsDomainError(err))
}

func TestMoveLeadNotWonForActiveStage(t *testing.T) {
	ctx := context.Background()

	stages := []*entity.Stage{
		stage("s-novos", "Novos", 0, "t1"),
		stage("s-contato", "Contato", 1, "t1"),
	}
	moved := lead("l1", "Ana", "s-novos", 0, time.Now())

	mockStageRepo := new(MockStageRepository)
	mockLeadRepo := new(MockLeadRepository)
	mockEvents := new(MockEventPublisher)
	mockStageRepo.On("List", ctx).Return(stages, nil)
	mockLeadRepo.On("FindByID", ctx, "l1").Return(moved, nil)
	mockLeadRepo.On("Update", ctx, mock.Anything).Return(nil)
	mockEvents.On("PublishPipelineEvent", ctx, mock.MatchedBy(func(e queue.PipelineEvent) bool {
		return e.Type == queue.EventLeadMoved
	})).Return(nil)

	uc := usecase.NewLeadUseCase(mockStageRepo, mockLeadRepo, mockEvents)

	out, err := uc.MoveLead(ctx, usecase.MoveLeadInput{LeadID: "l1", StageID: "s-contato"})

	assert.NoError(t, err)
	assert.False(t, out.Won)
	mockEvents.AssertExpectations(t)
}

// TestUpdateLeadPreservesDragPosition - o cenário edição-vs-drag: o diálogo
// de edição abre, um drag move o lead, o diálogo salva. Os campos de etapa
// omitidos vêm da linha ATUAL, não do snapshot velho do diálogo.
func TestUpdateLeadPreservesDragPosition(t *testing.T) {
	ctx := context.Background()

	// linha atual no store: o drag já levou o lead para s-proposta
	current := lead("l1", "Ana", "s-proposta", 3, time.Now())
	current.Email = "ana@acme.com"

	mockStageRepo := new(MockStageRepository)
	mockLeadRepo := new(MockLeadRepository)
	mockLeadRepo.On("FindByID", ctx, "l1").Return(current, nil)
	mockLeadRepo.On("Update", ctx, mock.Anything).Return(nil)

	uc := usecase.NewLeadUseCase(mockStageRepo, mockLeadRepo, nil)

	newName := "Ana Souza"
	newValue := "3.000,00"
	updated, err := uc.UpdateLead(ctx, usecase.UpdateLeadInput{
		LeadID: "l1",
		Name:   &newName,
		Value:  &newValue,
		// StageID/Position omitidos de propósito
	})

	assert.NoError(t, err)
	assert.Equal(t, "Ana Souza", updated.Name)
	assert.Equal(t, 3000.0, updated.Value.Amount)
	assert.Equal(t, "ana@acme.com", updated.Email) // campo omitido intacto
	assert.Equal(t, "s-proposta", updated.StageID)
	assert.Equal(t, 3, updated.Position)
	mockStageRepo.AssertNotCalled(t, "List")
}

// TestUpdateLeadAppliesExplicitStage - quando o caller manda StageID, ele é
// remapeado e gravado
func TestUpdateLeadAppliesExplicitStage(t *testing.T) {
	ctx := context.Background()

	stages := []*entity.Stage{
		stage("s-novos", "Novos", 0, "t1"),
		stage("s-ganho-a", "Ganho", 4, "t1"),
		stage("s-ganho-b", "Ganho", 7, "t2"),
	}
	current := lead("l1", "Ana", "s-novos", 0, time.Now())

	mockStageRepo := new(MockStageRepository)
	mockLeadRepo := new(MockLeadRepository)
	mockStageRepo.On("List", ctx).Return(stages, nil)
	mockLeadRepo.On("FindByID", ctx, "l1").Return(current, nil)
	mockLeadRepo.On("Update", ctx, mock.Anything).Return(nil)

	uc := usecase.NewLeadUseCase(mockStageRepo, mockLeadRepo, nil)

	stageID := "s-ganho-b"
	position := 1
	updated, err := uc.UpdateLead(ctx, usecase.UpdateLeadInput{
		LeadID:   "l1",
		StageID:  &stageID,
		Position: &position,
	})

	assert.NoError(t, err)
	assert.Equal(t, "s-ganho-a", updated.StageID)
	assert.Equal(t, 1, updated.Position)
}

func TestUpdateLeadNotFound(t *testing.T) {
	ctx := context.Background()

	mockLeadRepo := new(MockLeadRepository)
	mockLeadRepo.On("FindByID", ctx, "fantasma").Return(nil, entity.ErrLeadNotFound)

	uc := usecase.NewLeadUseCase(new(MockStageRepository), mockLeadRepo, nil)

	_, err := uc.UpdateLead(ctx, usecase.UpdateLeadInput{LeadID: "fantasma"})

	assert.True(t, usecase.IsDomainError(err))
}

func TestDeleteLead(t *testing.T) {
	ctx := context.Background()

	mockLeadRepo := new(MockLeadRepository)
	mockLeadRepo.On("FindByID", ctx, "l1").Return(lead("l1", "Ana", "s0", 0, time.Now()), nil)
	mockLeadRepo.On("Delete", ctx, "l1").Return(nil)

	uc := usecase.NewLeadUseCase(new(MockStageRepository), mockLeadRepo, nil)

	err := uc.DeleteLead(ctx, "l1")

	assert.NoError(t, err)
	mockLeadRepo.AssertCalled(t, "Delete", ctx, "l1")
}
