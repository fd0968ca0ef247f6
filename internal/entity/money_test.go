package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestParseMoneyNormalizedFormat - formato já normalizado pela máquina
func TestParseMoneyNormalizedFormat(t *testing.T) {
	m := ParseMoney("1500.00")

	assert.True(t, m.Valid)
	assert.Equal(t, 1500.0, m.Amount)
	assert.Equal(t, "1500.00", m.Raw)
}

// TestParseMoneyBrazilianFormat - formato humano brasileiro com símbolo
func TestParseMoneyBrazilianFormat(t *testing.T) {
	m := ParseMoney("R$ 1.200,00")

	assert.True(t, m.Valid)
	assert.Equal(t, 1200.0, m.Amount)
	assert.Equal(t, "R$ 1.200,00", m.Raw)
}

func TestParseMoneyThousandsSeparator(t *testing.T) {
	m := ParseMoney("50.000,00")

	assert.True(t, m.Valid)
	assert.Equal(t, 50000.0, m.Amount)
}

func TestParseMoneyNegative(t *testing.T) {
	assert.Equal(t, -300.5, ParseMoney("-300.5").Amount)
	assert.Equal(t, -300.5, ParseMoney("R$ -300,50").Amount)
}

// TestParseMoneyUnparseable - ilegível ou vazio resolve para 0, nunca erro
func TestParseMoneyUnparseable(t *testing.T) {
	for _, raw := range []string{"", "   ", "a combinar", "1,2,3"} {
		m := ParseMoney(raw)
		assert.False(t, m.Valid, "raw=%q", raw)
		assert.Equal(t, 0.0, m.Amount, "raw=%q", raw)
	}
}

// TestMoneyTextScan - o parse acontece uma vez só, na borda do banco
func TestMoneyTextScan(t *testing.T) {
	var m MoneyText

	assert.NoError(t, m.Scan("R$ 2.500,00"))
	assert.Equal(t, 2500.0, m.Amount)

	assert.NoError(t, m.Scan(nil))
	assert.Equal(t, 0.0, m.Amount)
	assert.False(t, m.Valid)
}

func TestMoneyTextValuePreservesRaw(t *testing.T) {
	m := ParseMoney("R$ 1.200,00")

	v, err := m.Value()
	assert.NoError(t, err)
	assert.Equal(t, "R$ 1.200,00", v)
}

func TestMoneyTextJSON(t *testing.T) {
	var lead struct {
		Value MoneyText `json:"value"`
	}

	assert.NoError(t, json.Unmarshal([]byte(`{"value":"R$ 1.200,00"}`), &lead))
	assert.Equal(t, 1200.0, lead.Value.Amount)

	out, err := json.Marshal(lead)
	assert.NoError(t, err)
	assert.JSONEq(t, `{"value":"R$ 1.200,00"}`, string(out))
}

func TestFormatBRL(t *testing.T) {
	assert.Equal(t, "R$ 1.234,56", FormatBRL(1234.56))
	assert.Equal(t, "R$ 0,00", FormatBRL(0))
}
