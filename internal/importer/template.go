package importer

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/josh-kwaku/loan-servicing/internal/domain"
)

type TemplateKind string

const (
	TemplateContracts TemplateKind = "contracts"
	TemplateReceipts  TemplateKind = "receipts"
)

type template struct {
	sheet        string
	headers      []string
	example      []any
	instructions []string
}

var templates = map[TemplateKind]template{
	TemplateContracts: {
		sheet: "Contratos",
		headers: []string{
			"Nome do Cliente", "Telefone", "Email", "Valor do Empréstimo",
			"Taxa de Juros", "Data do Empréstimo", "Dia de Pagamento", "Observações",
		},
		example: []any{
			"Maria Silva", "(11) 98765-4321", "maria@email.com", 5000, 5, "15/01/2026", 15, "Empréstimo pessoal",
		},
		instructions: []string{
			"Nome do Cliente: obrigatório. Clientes inexistentes são criados automaticamente.",
			"Valor do Empréstimo: obrigatório, maior que zero.",
			"Taxa de Juros: percentual mensal, ex: 5 para 5%.",
			"Data do Empréstimo: DD/MM/AAAA ou AAAA-MM-DD.",
			"Dia de Pagamento: de 1 a 31.",
		},
	},
	TemplateReceipts: {
		sheet: "Recebimentos",
		headers: []string{
			"ID do Contrato", "Nome do Cliente", "Valor", "Data do Recebimento",
			"Método de Pagamento", "Descrição",
		},
		example: []any{
			"CONT-1736899200000", "Maria Silva", 500, "15/02/2026", "pix", "Parcela de fevereiro",
		},
		instructions: []string{
			"ID do Contrato: número (CONT-...) ou id do contrato. Se vazio, o cliente deve ter um único contrato em aberto.",
			"Valor: obrigatório, maior que zero. Juros do período são abatidos primeiro.",
			"Data do Recebimento: DD/MM/AAAA ou AAAA-MM-DD.",
			"Método de Pagamento: pix, transferência, dinheiro, cartão, boleto ou outro.",
		},
	},
}

// WriteTemplate writes a blank import workbook with one example row and an
// instructions sheet.
func WriteTemplate(w io.Writer, kind TemplateKind) error {
	tpl, ok := templates[kind]
	if !ok {
		return fmt.Errorf("WriteTemplate: %q: %w", kind, domain.ErrNotFound)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", tpl.sheet); err != nil {
		return fmt.Errorf("WriteTemplate: %w", err)
	}
	if err := writeHeader(f, tpl.sheet, tpl.headers); err != nil {
		return fmt.Errorf("WriteTemplate: %w", err)
	}
	if err := f.SetSheetRow(tpl.sheet, "A2", &tpl.example); err != nil {
		return fmt.Errorf("WriteTemplate: example: %w", err)
	}

	if _, err := f.NewSheet("Instruções"); err != nil {
		return fmt.Errorf("WriteTemplate: %w", err)
	}
	for i, line := range tpl.instructions {
		if err := f.SetCellValue("Instruções", fmt.Sprintf("A%d", i+1), line); err != nil {
			return fmt.Errorf("WriteTemplate: instructions: %w", err)
		}
	}
	if err := f.SetColWidth("Instruções", "A", "A", 100); err != nil {
		return fmt.Errorf("WriteTemplate: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("WriteTemplate: %w", err)
	}
	return nil
}

func writeHeader(f *excelize.File, sheet string, headers []string) error {
	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}

	row := make([]any, len(headers))
	for i, h := range headers {
		row[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &row); err != nil {
		return fmt.Errorf("header: %w", err)
	}

	last, err := excelize.ColumnNumberToName(len(headers))
	if err != nil {
		return fmt.Errorf("header: %w", err)
	}
	if err := f.SetCellStyle(sheet, "A1", last+"1", style); err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	if err := f.SetColWidth(sheet, "A", last, 22); err != nil {
		return fmt.Errorf("column width: %w", err)
	}
	return nil
}
