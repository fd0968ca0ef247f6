package queue

import (
	"encoding/json"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"
)

// WonLeadNotifier é o colaborador externo que compõe e envia o alerta de
// negócio fechado (email hoje; o canal é detalhe do outro lado).
type WonLeadNotifier interface {
	SendWonLeadAlert(leadName, stageTitle, formattedValue string) error
}

// Worker consome os eventos do funil. Só lead.won dispara notificação; os
// demais tipos são registrados e confirmados.
type Worker struct {
	Channel  *amqp.Channel
	Notifier WonLeadNotifier
}

func NewWorker(ch *amqp.Channel, notifier WonLeadNotifier) *Worker {
	return &Worker{
		Channel:  ch,
		Notifier: notifier,
	}
}

func (w *Worker) Start(queueName string) {
	msgs, err := w.Channel.Consume(
		queueName, // fila
		"",        // consumer
		false,     // auto-ack (manual é mais seguro)
		false,     // exclusive
		false,     // no-local
		false,     // no-wait
		nil,       // args
	)
	if err != nil {
		log.Fatalf("❌ Falha ao registrar consumidor RabbitMQ: %s", err)
	}

	forever := make(chan bool)

	go func() {
		for d := range msgs {
			var event PipelineEvent
			if err := json.Unmarshal(d.Body, &event); err != nil {
				log.Printf("❌ [WORKER] JSON inválido: %s", err)
				// Mensagem podre (malformada). Rejeita sem requeue para não travar a fila.
				d.Nack(false, false)
				continue
			}

			if err := w.processEvent(event); err != nil {
				log.Printf("❌ [WORKER] Erro ao processar %s: %s", event.Type, err)
				d.Nack(false, false)
			} else {
				d.Ack(false)
			}
		}
	}()

	log.Printf(" [*] Worker rodando e aguardando na fila '%s'", queueName)
	<-forever
}

func (w *Worker) processEvent(event PipelineEvent) error {
	switch event.Type {
	case EventLeadWon:
		log.Printf("🏆 [WORKER] Lead ganho: %s (%s)", event.LeadName, event.Value)
		return w.Notifier.SendWonLeadAlert(event.LeadName, event.StageTitle, event.Value)

	case EventLeadMoved:
		log.Printf("📦 [WORKER] Lead %s movido para %q", event.LeadName, event.StageTitle)
		return nil

	case EventStageDeleted:
		log.Printf("🗑️ [WORKER] Etapa %q excluída (%d redirecionados, %d excluídos)",
			event.StageTitle, event.LeadsRerouted, event.LeadsDeleted)
		return nil

	default:
		log.Printf("⚠️ Evento desconhecido: %s. Apenas logando.", event.Type)
		// ACK mesmo assim — não sabemos tratar, segurar na fila não ajuda.
		return nil
	}
}
