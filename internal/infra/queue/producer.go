package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	EventLeadMoved    = "lead.moved"
	EventLeadWon      = "lead.won"
	EventStageDeleted = "stage.deleted"
)

// PipelineEvent é o payload publicado a cada mutação relevante do funil.
// O worker de notificações consome; o engine nunca espera resposta.
type PipelineEvent struct {
	Type string `json:"type"`

	LeadID    string  `json:"lead_id,omitempty"`
	LeadName  string  `json:"lead_name,omitempty"`
	LeadEmail string  `json:"lead_email,omitempty"`
	Value     string  `json:"value,omitempty"`  // texto original do usuário
	Amount    float64 `json:"amount,omitempty"` // valor já parseado

	StageID    string `json:"stage_id,omitempty"`
	StageTitle string `json:"stage_title,omitempty"`

	LeadsRerouted int `json:"leads_rerouted,omitempty"`
	LeadsDeleted  int `json:"leads_deleted,omitempty"`

	Origin string `json:"origin,omitempty"`
}

type RabbitMQProducer struct {
	Conn *amqp.Connection
	Ch   *amqp.Channel
}

func NewProducer(conn *amqp.Connection, ch *amqp.Channel) *RabbitMQProducer {
	return &RabbitMQProducer{
		Conn: conn,
		Ch:   ch,
	}
}

func (p *RabbitMQProducer) PublishPipelineEvent(ctx context.Context, event PipelineEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("erro ao converter evento: %w", err)
	}

	return p.Ch.PublishWithContext(ctx,
		ExchangeName,
		RoutingKey,
		false, // Mandatory
		false, // Immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent, // Salva no disco (Durável)
		},
	)
}
