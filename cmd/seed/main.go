// Command seed loads a demo lender with a small portfolio: clients, contracts
// and a few months of receipts recorded through the payment service.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	env "github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/josh-kwaku/loan-servicing/internal/domain"
	"github.com/josh-kwaku/loan-servicing/internal/logging"
	"github.com/josh-kwaku/loan-servicing/internal/repository"
	"github.com/josh-kwaku/loan-servicing/internal/service"
	"github.com/josh-kwaku/loan-servicing/internal/service/payment"
)

type seedConfig struct {
	DatabaseURL string `env:"DATABASE_URL,required,notEmpty"`
	Email       string `env:"SEED_EMAIL" envDefault:"demo@loans.local"`
	Password    string `env:"SEED_PASSWORD" envDefault:"demo-password"`
	AppEnv      string `env:"APP_ENV" envDefault:"development"`
}

type demoLoan struct {
	client    string
	phone     string
	principal string
	rate      string
	monthsAgo int
	payDay    int
	payments  []string
}

var portfolio = []demoLoan{
	{client: "Maria Oliveira", phone: "(11) 98765-4321", principal: "5000", rate: "10", monthsAgo: 4, payDay: 5, payments: []string{"500", "500", "800"}},
	{client: "João Santos", phone: "(21) 99876-5432", principal: "12000", rate: "8", monthsAgo: 6, payDay: 10, payments: []string{"960", "2000", "960", "1500"}},
	{client: "Ana Costa", phone: "(31) 97654-3210", principal: "1000", rate: "10", monthsAgo: 2, payDay: 15, payments: []string{"1100"}},
	{client: "Pedro Lima", phone: "(41) 96543-2109", principal: "2000", rate: "5", monthsAgo: 3, payDay: 20, payments: nil},
	{client: "Carla Souza", phone: "(51) 95432-1098", principal: "8000", rate: "7.5", monthsAgo: 1, payDay: 25, payments: []string{"300"}},
}

func main() {
	if err := run(context.Background()); err != nil {
		slog.Error("seed failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	_ = godotenv.Load()
	cfg, err := env.ParseAs[seedConfig]()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	logger := logging.Init("loan-seed", "info", cfg.AppEnv)

	db, err := repository.NewPostgresDB(ctx, cfg.DatabaseURL, repository.PoolConfig{
		MaxOpenConns: 5, MaxIdleConns: 2, ConnMaxLifetimeS: 60, ConnMaxIdleTimeS: 30,
	}, 10)
	if err != nil {
		return err
	}
	defer db.Close()

	users := repository.NewUserRepository(db)
	clients := repository.NewClientRepository(db)
	contracts := repository.NewContractRepository(db)
	events := repository.NewContractEventRepository(db)

	if _, err := users.GetByEmail(ctx, cfg.Email); err == nil {
		logger.Info("demo lender already seeded", "email", cfg.Email)
		return nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return err
	}

	userSvc := service.NewUserService(users, "unused", time.Hour)
	clientSvc := service.NewClientService(clients, nil)
	contractSvc := service.NewContractService(contracts, clients, events, nil, nil, db)
	paymentSvc := payment.NewService(contracts, repository.NewPaymentRepository(db), events, clients, nil, nil, db)

	company := "Demo Crédito"
	lender, err := userSvc.Register(ctx, service.RegisterRequest{
		Name:     "Demo Lender",
		Email:    cfg.Email,
		Password: cfg.Password,
		Company:  &company,
		Plan:     domain.UserPlanPremium,
	})
	if err != nil {
		return err
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	for _, loan := range portfolio {
		client, err := clientSvc.CreateClient(ctx, lender.ID, service.ClientInput{Name: loan.client, Phone: loan.phone})
		if err != nil {
			return fmt.Errorf("client %s: %w", loan.client, err)
		}

		loanDate := today.AddDate(0, -loan.monthsAgo, 0)
		contract, err := contractSvc.CreateContract(ctx, service.CreateContractRequest{
			UserID:          lender.ID,
			ClientID:        client.ID,
			PrincipalAmount: decimal.RequireFromString(loan.principal),
			InterestRate:    decimal.RequireFromString(loan.rate),
			LoanDate:        loanDate,
			PaymentDay:      loan.payDay,
			LateFeePct:      decimal.NewFromInt(2),
			DailyPenaltyPct: decimal.RequireFromString("0.033"),
		})
		if err != nil {
			return fmt.Errorf("contract for %s: %w", loan.client, err)
		}

		for i, amount := range loan.payments {
			res, err := paymentSvc.RecordPayment(ctx, payment.RecordPaymentRequest{
				UserID:      lender.ID,
				ContractID:  contract.ID,
				Amount:      decimal.RequireFromString(amount),
				PaymentDate: loanDate.AddDate(0, i+1, 0),
				Method:      domain.PaymentMethodPix,
			})
			if err != nil {
				return fmt.Errorf("payment %d on %s: %w", i+1, contract.ContractNumber, err)
			}
			logger.Info("receipt seeded",
				"contract_number", contract.ContractNumber,
				"receipt_number", res.Payment.ReceiptNumber,
				"new_balance", res.NewBalance,
			)
		}
	}

	logger.Info("demo portfolio seeded", "email", cfg.Email, "contracts", len(portfolio))
	return nil
}
