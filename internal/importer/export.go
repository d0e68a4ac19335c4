package importer

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/josh-kwaku/loan-servicing/internal/domain"
)

var paymentExportHeaders = []string{
	"Recibo", "Contrato", "Cliente", "Data do Recebimento", "Valor", "Juros",
	"Principal", "Saldo Anterior", "Saldo Após Pagamento", "Método de Pagamento", "Descrição",
}

// WritePayments writes the receipts as a single-sheet workbook.
func WritePayments(w io.Writer, payments []domain.Payment) error {
	const sheet = "Recebimentos"

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("WritePayments: %w", err)
	}
	if err := writeHeader(f, sheet, paymentExportHeaders); err != nil {
		return fmt.Errorf("WritePayments: %w", err)
	}

	for i, p := range payments {
		desc := ""
		if p.Description != nil {
			desc = *p.Description
		}
		row := []any{
			p.ReceiptNumber,
			p.ContractNumber,
			p.ClientName,
			p.PaymentDate.Format("02/01/2006"),
			p.Amount.InexactFloat64(),
			p.InterestPortion.InexactFloat64(),
			p.PrincipalPortion.InexactFloat64(),
			p.BalanceBefore.InexactFloat64(),
			p.BalanceAfterPayment.InexactFloat64(),
			string(p.PaymentMethod),
			desc,
		}
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return fmt.Errorf("WritePayments: row %d: %w", i+2, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("WritePayments: %w", err)
	}
	return nil
}
