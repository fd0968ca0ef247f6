package usecase

import "fmt"

// DomainError: o caller pediu algo inválido (etapa inexistente, input ruim).
// Não é falha de infraestrutura — o handler traduz para 4xx.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func NewDomainError(code, format string, args ...any) *DomainError {
	return &DomainError{Code: code, Message: fmt.Sprintf(format, args...)}
}

func IsDomainError(err error) bool {
	_, ok := err.(*DomainError)
	return ok
}

// TechnicalError: falha de I/O do store ou da fila. Propaga sem retry e sem
// rollback além das compensações best-effort da Transaction — cada escrita de
// linha é sua própria unidade.
type TechnicalError struct {
	Code    string
	Message string
	Err     error
}

func (e *TechnicalError) Error() string {
	return e.Message
}

func (e *TechnicalError) Unwrap() error {
	return e.Err
}

func NewTechnicalError(code string, err error) *TechnicalError {
	return &TechnicalError{Code: code, Message: err.Error(), Err: err}
}

func IsTechnicalError(err error) bool {
	_, ok := err.(*TechnicalError)
	return ok
}
