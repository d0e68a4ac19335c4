package importer

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/josh-kwaku/loan-servicing/internal/domain"
)

func row(values map[string]string) Row {
	normalized := make(map[string]string, len(values))
	for k, v := range values {
		normalized[normalizeHeader(k)] = v
	}
	return Row{Number: 2, Values: normalized}
}

func TestParseContractRow(t *testing.T) {
	t.Run("valid row", func(t *testing.T) {
		got, err := ParseContractRow(row(map[string]string{
			"Nome do Cliente":     "Maria Silva",
			"Telefone":            "(11) 98765-4321",
			"Valor do Empréstimo": "R$ 5.000,00",
			"Taxa de Juros":       "5%",
			"Data do Empréstimo":  "15/01/2026",
			"Dia de Pagamento":    "15",
		}))
		require.NoError(t, err)

		assert.Equal(t, "Maria Silva", got.ClientName)
		assert.True(t, decimal.NewFromInt(5000).Equal(got.LoanAmount))
		assert.True(t, decimal.NewFromInt(5).Equal(got.InterestRate))
		assert.Equal(t, time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC), got.LoanDate)
		assert.Equal(t, 15, got.PaymentDay)
	})

	t.Run("reports every problem on the line", func(t *testing.T) {
		_, err := ParseContractRow(row(map[string]string{
			"Valor do Empréstimo": "0",
			"Taxa de Juros":       "-1",
			"Data do Empréstimo":  "ontem",
			"Dia de Pagamento":    "40",
		}))
		require.Error(t, err)

		msg := err.Error()
		assert.Contains(t, msg, "line 2")
		assert.Contains(t, msg, "client name is required")
		assert.Contains(t, msg, "loan amount must be greater than zero")
		assert.Contains(t, msg, "interest rate must not be negative")
		assert.Contains(t, msg, "loan date")
		assert.Contains(t, msg, "out of range")
	})
}

func TestParseReceiptRow(t *testing.T) {
	t.Run("valid row", func(t *testing.T) {
		got, err := ParseReceiptRow(row(map[string]string{
			"ID do Contrato":      "CONT-1736899200000",
			"Valor":               "500,00",
			"Data do Recebimento": "2026-02-15",
			"Método de Pagamento": "Transferência",
		}))
		require.NoError(t, err)

		assert.Equal(t, "CONT-1736899200000", got.ContractRef)
		assert.True(t, decimal.NewFromInt(500).Equal(got.Amount))
		assert.Equal(t, domain.PaymentMethodTransfer, got.PaymentMethod)
	})

	t.Run("needs a contract or client", func(t *testing.T) {
		_, err := ParseReceiptRow(row(map[string]string{
			"Valor":               "100",
			"Data do Recebimento": "2026-02-15",
		}))
		require.ErrorContains(t, err, "contract id or client name is required")
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		_, err := ParseReceiptRow(row(map[string]string{
			"Nome do Cliente":     "Maria",
			"Valor":               "-10",
			"Data do Recebimento": "2026-02-15",
		}))
		require.ErrorContains(t, err, "amount must be greater than zero")
	})
}

func TestParsePaymentMethod(t *testing.T) {
	tests := map[string]domain.PaymentMethod{
		"":         domain.PaymentMethodPix,
		"PIX":      domain.PaymentMethodPix,
		"TED":      domain.PaymentMethodTransfer,
		"dinheiro": domain.PaymentMethodCash,
		"Cartão":   domain.PaymentMethodCard,
		"boleto":   domain.PaymentMethodBoleto,
		"cheque":   domain.PaymentMethodOther,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParsePaymentMethod(in), in)
	}
}

func TestWriteTemplate_ReadsBackAsImport(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTemplate(&buf, TemplateContracts))

	rows, err := ReadRows(&buf, FormatXLSX)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	got, err := ParseContractRow(rows[0])
	require.NoError(t, err)
	assert.Equal(t, "Maria Silva", got.ClientName)
	assert.True(t, decimal.NewFromInt(5000).Equal(got.LoanAmount))
	assert.Equal(t, 15, got.PaymentDay)
}

func TestWriteTemplate_UnknownKind(t *testing.T) {
	var buf bytes.Buffer
	err := WriteTemplate(&buf, "invoices")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestWritePayments(t *testing.T) {
	desc := "parcela"
	payments := []domain.Payment{{
		ReceiptNumber:       "REC-2026-000001",
		ContractNumber:      "CONT-1",
		ClientName:          "Maria",
		Amount:              decimal.NewFromInt(300),
		PaymentDate:         time.Date(2026, time.February, 15, 0, 0, 0, 0, time.UTC),
		PaymentMethod:       domain.PaymentMethodPix,
		Description:         &desc,
		InterestPortion:     decimal.NewFromInt(100),
		PrincipalPortion:    decimal.NewFromInt(200),
		BalanceBefore:       decimal.NewFromInt(1000),
		BalanceAfterPayment: decimal.NewFromInt(800),
	}}

	var buf bytes.Buffer
	require.NoError(t, WritePayments(&buf, payments))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Recebimentos")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Recibo", rows[0][0])
	assert.Equal(t, "REC-2026-000001", rows[1][0])
	assert.Equal(t, "15/02/2026", rows[1][3])
	assert.Equal(t, "800", rows[1][8])
	assert.Equal(t, "parcela", rows[1][10])
}
