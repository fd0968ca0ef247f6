package usecase

import (
	"context"
	"fmt"
	"log"
)

// Transaction é a saga de múltiplas escritas de linha: o store não dá
// transação entre linhas, então cada operação carrega uma compensação
// best-effort que roda em ordem reversa quando uma escrita posterior falha.
// Usada pelo delete de etapa (repoint dos leads e depois o delete da linha).
type Transaction struct {
	operations    []Operation
	compensations []Compensation
}

type Operation struct {
	Name string
	Fn   func(context.Context) error
}

type Compensation struct {
	Name string
	Fn   func(context.Context) error
}

func NewTransaction() *Transaction {
	return &Transaction{
		operations:    []Operation{},
		compensations: []Compensation{},
	}
}

func (t *Transaction) AddOperation(name string, fn func(context.Context) error) {
	t.operations = append(t.operations, Operation{name, fn})
}

func (t *Transaction) AddCompensation(name string, fn func(context.Context) error) {
	t.compensations = append(t.compensations, Compensation{name, fn})
}

// Execute roda as operações na ordem registrada. Na primeira falha, desfaz o
// que já foi escrito e devolve o erro original anotado com o progresso — o
// caller consegue distinguir "nada mudou" de "parcialmente aplicado".
func (t *Transaction) Execute(ctx context.Context) error {
	for i, op := range t.operations {
		if err := op.Fn(ctx); err != nil {
			t.rollback(ctx, i)
			return fmt.Errorf("operation '%s' failed: %w (rolled back %d operations)", op.Name, err, i)
		}
	}
	return nil
}

func (t *Transaction) rollback(ctx context.Context, failedAtIndex int) {
	for i := failedAtIndex - 1; i >= 0; i-- {
		if i >= len(t.compensations) {
			continue
		}
		comp := t.compensations[i]
		if err := comp.Fn(ctx); err != nil {
			// Compensação falhou: linha possivelmente inconsistente no banco.
			log.Printf("⚠️ WARNING: Compensation '%s' failed: %v (inconsistency risk!)", comp.Name, err)
		}
	}
}
