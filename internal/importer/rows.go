package importer

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/josh-kwaku/loan-servicing/internal/domain"
)

// Header names as they appear in the templates, with English aliases.
var (
	colClientName   = []string{"Nome do Cliente", "client_name", "client"}
	colPhone        = []string{"Telefone", "phone"}
	colEmail        = []string{"Email", "E-mail"}
	colLoanAmount   = []string{"Valor do Empréstimo", "Valor do Emprestimo", "loan_amount", "principal_amount"}
	colInterestRate = []string{"Taxa de Juros", "Taxa de Juros (%)", "interest_rate"}
	colLoanDate     = []string{"Data do Empréstimo", "Data do Emprestimo", "loan_date"}
	colPaymentDay   = []string{"Dia de Pagamento", "payment_day"}
	colNotes        = []string{"Observações", "Observacoes", "notes"}

	colContractRef = []string{"ID do Contrato", "Contrato", "contract_id", "contract_number"}
	colAmount      = []string{"Valor", "Valor Recebido", "amount"}
	colReceiptDate = []string{"Data do Recebimento", "Data do Pagamento", "payment_date"}
	colMethod      = []string{"Método de Pagamento", "Metodo de Pagamento", "payment_method"}
	colDescription = []string{"Descrição", "Descricao", "description"}
)

type ContractRow struct {
	Line         int
	ClientName   string
	Phone        string
	Email        string
	LoanAmount   decimal.Decimal
	InterestRate decimal.Decimal
	LoanDate     time.Time
	PaymentDay   int
	Notes        string
}

type ReceiptRow struct {
	Line          int
	ContractRef   string
	ClientName    string
	Amount        decimal.Decimal
	PaymentDate   time.Time
	PaymentMethod domain.PaymentMethod
	Description   string
}

// ParseContractRow validates one contract line. All problems on the line are
// joined into a single error.
func ParseContractRow(r Row) (ContractRow, error) {
	out := ContractRow{
		Line:       r.Number,
		ClientName: r.Get(colClientName...),
		Phone:      r.Get(colPhone...),
		Email:      r.Get(colEmail...),
		Notes:      r.Get(colNotes...),
	}

	var errs []error
	if out.ClientName == "" {
		errs = append(errs, errors.New("client name is required"))
	}

	amount, err := ParseAmount(r.Get(colLoanAmount...))
	switch {
	case err != nil:
		errs = append(errs, fmt.Errorf("loan amount: %w", err))
	case !amount.IsPositive():
		errs = append(errs, errors.New("loan amount must be greater than zero"))
	}
	out.LoanAmount = amount

	rate, err := ParseAmount(r.Get(colInterestRate...))
	switch {
	case err != nil:
		errs = append(errs, fmt.Errorf("interest rate: %w", err))
	case rate.IsNegative():
		errs = append(errs, errors.New("interest rate must not be negative"))
	}
	out.InterestRate = rate

	loanDate, err := ParseDate(r.Get(colLoanDate...))
	if err != nil {
		errs = append(errs, fmt.Errorf("loan date: %w", err))
	}
	out.LoanDate = loanDate

	day, err := parseDay(r.Get(colPaymentDay...))
	if err != nil {
		errs = append(errs, err)
	}
	out.PaymentDay = day

	if len(errs) > 0 {
		return ContractRow{}, fmt.Errorf("line %d: %w", r.Number, errors.Join(errs...))
	}
	return out, nil
}

func ParseReceiptRow(r Row) (ReceiptRow, error) {
	out := ReceiptRow{
		Line:          r.Number,
		ContractRef:   r.Get(colContractRef...),
		ClientName:    r.Get(colClientName...),
		PaymentMethod: ParsePaymentMethod(r.Get(colMethod...)),
		Description:   r.Get(colDescription...),
	}

	var errs []error
	if out.ContractRef == "" && out.ClientName == "" {
		errs = append(errs, errors.New("contract id or client name is required"))
	}

	amount, err := ParseAmount(r.Get(colAmount...))
	switch {
	case err != nil:
		errs = append(errs, fmt.Errorf("amount: %w", err))
	case !amount.IsPositive():
		errs = append(errs, errors.New("amount must be greater than zero"))
	}
	out.Amount = amount

	date, err := ParseDate(r.Get(colReceiptDate...))
	if err != nil {
		errs = append(errs, fmt.Errorf("payment date: %w", err))
	}
	out.PaymentDate = date

	if len(errs) > 0 {
		return ReceiptRow{}, fmt.Errorf("line %d: %w", r.Number, errors.Join(errs...))
	}
	return out, nil
}

// ParsePaymentMethod maps free-text method names to the closed set, defaulting
// to pix when empty and other when unknown.
func ParsePaymentMethod(s string) domain.PaymentMethod {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "pix":
		return domain.PaymentMethodPix
	case "transferência", "transferencia", "transfer", "ted", "doc":
		return domain.PaymentMethodTransfer
	case "dinheiro", "cash", "espécie", "especie":
		return domain.PaymentMethodCash
	case "cartão", "cartao", "card", "cartão de crédito", "cartao de credito", "cartão de débito", "cartao de debito":
		return domain.PaymentMethodCard
	case "boleto":
		return domain.PaymentMethodBoleto
	default:
		return domain.PaymentMethodOther
	}
}
