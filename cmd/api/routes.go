package main

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/josh-kwaku/loan-servicing/api"
	"github.com/josh-kwaku/loan-servicing/internal/handler"
	"github.com/josh-kwaku/loan-servicing/internal/middleware"
	"github.com/josh-kwaku/loan-servicing/internal/repository"
)

type routes struct {
	auth        *handler.AuthHandler
	clients     *handler.ClientHandler
	contracts   *handler.ContractHandler
	payments    *handler.PaymentHandler
	dashboard   *handler.DashboardHandler
	imports     *handler.ImportHandler
	health      *handler.HealthHandler
	idempotency *repository.IdempotencyRepository
	jwtSecret   string
}

func newRouter(rt routes) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", rt.health.Liveness)
	mux.HandleFunc("GET /health/ready", rt.health.Readiness)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /docs/openapi.yaml", handler.ServeSpec(api.OpenAPI))
	mux.HandleFunc("GET /docs", handler.ServeDocs("/docs/openapi.yaml"))

	mux.HandleFunc("POST /api/v1/auth/register", rt.auth.Register)
	mux.HandleFunc("POST /api/v1/auth/login", rt.auth.Login)

	authed := middleware.Auth(rt.jwtSecret)
	protect := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, authed(h))
	}

	protect("GET /api/v1/me", rt.auth.Me)

	protect("POST /api/v1/clients", rt.clients.Create)
	protect("GET /api/v1/clients", rt.clients.List)
	protect("GET /api/v1/clients/{id}", rt.clients.Get)
	protect("PUT /api/v1/clients/{id}", rt.clients.Update)
	protect("DELETE /api/v1/clients/{id}", rt.clients.Delete)

	protect("POST /api/v1/contracts", rt.contracts.Create)
	protect("GET /api/v1/contracts", rt.contracts.List)
	protect("GET /api/v1/contracts/{id}", rt.contracts.Get)
	protect("PUT /api/v1/contracts/{id}", rt.contracts.Update)
	protect("PATCH /api/v1/contracts/{id}/status", rt.contracts.UpdateStatus)
	protect("DELETE /api/v1/contracts/{id}", rt.contracts.Delete)
	protect("GET /api/v1/contracts/{id}/payments", rt.contracts.Payments)
	protect("GET /api/v1/contracts/{id}/audit", rt.contracts.Audit)
	protect("GET /api/v1/contracts/{id}/overdue-fees", rt.contracts.OverdueFees)

	recordPayment := middleware.Idempotency(rt.idempotency)(http.HandlerFunc(rt.payments.Create))
	mux.Handle("POST /api/v1/payments", authed(recordPayment))
	protect("GET /api/v1/payments", rt.payments.List)
	protect("GET /api/v1/payments/export", rt.payments.Export)
	protect("GET /api/v1/payments/{id}", rt.payments.Get)

	protect("POST /api/v1/imports/contracts", rt.imports.Contracts)
	protect("POST /api/v1/imports/receipts", rt.imports.Receipts)
	protect("GET /api/v1/imports/templates/{kind}", rt.imports.Template)

	protect("GET /api/v1/dashboard/metrics", rt.dashboard.Metrics)
	protect("GET /api/v1/dashboard/recent-contracts", rt.dashboard.RecentContracts)
	protect("GET /api/v1/dashboard/upcoming-payments", rt.dashboard.UpcomingPayments)
	protect("GET /api/v1/dashboard/monthly-payments", rt.dashboard.MonthlyPayments)
	protect("GET /api/v1/dashboard/late-payments", rt.dashboard.LatePayments)
	protect("GET /api/v1/reports", rt.dashboard.Report)

	return mux
}
