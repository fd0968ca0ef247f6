package entity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// MoneyText carrega o texto monetário livre digitado pelo usuário junto com o
// resultado do parse. O parse acontece UMA vez, na borda do banco/JSON; todos
// os agregados consomem Amount — nunca reimplementam a heurística (fonte
// clássica de double-counting quando dois caminhos discordam).
type MoneyText struct {
	Raw    string
	Amount float64
	Valid  bool // false quando vazio ou ilegível (Amount fica 0, nunca erro)
}

// Formato já normalizado pela máquina: ponto como separador decimal.
var normalizedMoneyRe = regexp.MustCompile(`^-?\d+(\.\d+)?$`)

// keepMoneyRunes remove tudo que não é dígito, vírgula ou sinal de menos.
var keepMoneyRunes = regexp.MustCompile(`[^0-9,\-]`)

// ParseMoney tolera tanto "1500.00" quanto "R$ 1.200,00". Se o texto já casa
// com o formato normalizado, usa direto; senão limpa a string e troca a
// vírgula por ponto. Qualquer coisa ilegível resolve para 0.
func ParseMoney(raw string) MoneyText {
	m := MoneyText{Raw: raw}

	s := strings.TrimSpace(raw)
	if s == "" {
		return m
	}

	if !normalizedMoneyRe.MatchString(s) {
		s = keepMoneyRunes.ReplaceAllString(s, "")
		s = strings.ReplaceAll(s, ",", ".")
	}

	amount, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return m
	}

	m.Amount = amount
	m.Valid = true
	return m
}

var brlPrinter = message.NewPrinter(language.BrazilianPortuguese)

// FormatBRL formata um valor para exibição em Real brasileiro
// ("R$ 1.234,56"). Só a EXIBIÇÃO é fixa em pt-BR; o parse acima continua
// aceitando os dois formatos independentemente do locale de saída.
func FormatBRL(amount float64) string {
	return brlPrinter.Sprintf("R$ %v",
		number.Decimal(amount, number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}

func (m MoneyText) BRL() string {
	return FormatBRL(m.Amount)
}

// Scan lê a coluna TEXT do banco e já resolve o parse.
func (m *MoneyText) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*m = MoneyText{}
	case string:
		*m = ParseMoney(v)
	case []byte:
		*m = ParseMoney(string(v))
	default:
		return fmt.Errorf("moneytext: tipo inesperado %T", src)
	}
	return nil
}

// Value grava o texto original, preservando o que o usuário digitou.
func (m MoneyText) Value() (driver.Value, error) {
	return m.Raw, nil
}

// No JSON o campo continua sendo o texto livre original, como o front espera.
func (m MoneyText) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.Raw)
}

func (m *MoneyText) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*m = ParseMoney(raw)
	return nil
}
