package usecase

import (
	"context"

	"github.com/drtrafego/mvp-dashboard-sub000/internal/infra/queue"
)

// PipelineEventPublisher publica os eventos do funil (lead.moved, lead.won,
// stage.deleted) para o worker de notificações. A correção do engine nunca
// depende do bus: falha de publicação é logada e engolida.
type PipelineEventPublisher interface {
	PublishPipelineEvent(ctx context.Context, event queue.PipelineEvent) error
}
