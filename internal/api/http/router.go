package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"microfinance-backend/internal/domain"
	"microfinance-backend/internal/maintenance"
	"microfinance-backend/internal/security"
)

// Handlers bundles every HTTP handler wired into the router.
type Handlers struct {
	Auth       *AuthHandler
	Customer   *CustomerHandler
	Loan       *LoanHandler
	Payment    *PaymentHandler
	Collection *CollectionHandler
	Audit      *AuditHandler
	Dashboard  *DashboardHandler
	User       *UserHandler
	Backup     *BackupHandler
}

// NewRouter builds the full route table. The maintenance gate wraps
// everything; health and maintenance endpoints are exempt inside the
// middleware itself.
func NewRouter(h Handlers, tokens security.TokenManager, state *maintenance.State, retryAfterSeconds int) *mux.Router {
	r := mux.NewRouter()
	r.Use(MaintenanceMiddleware(state, retryAfterSeconds))

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	// Public endpoints
	r.HandleFunc("/api/v1/auth/login", h.Auth.Login).Methods(http.MethodPost)
	r.HandleFunc("/api/v1/auth/refresh", h.Auth.Refresh).Methods(http.MethodPost)
	r.HandleFunc("/api/v1/maintenance", h.Backup.MaintenanceStatus).Methods(http.MethodGet)

	// Authenticated endpoints
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(AuthMiddleware(tokens))

	admin := RequireRole(domain.RoleAdmin)
	adminOrSeller := RequireRole(domain.RoleAdmin, domain.RoleSeller)
	adminOrCollector := RequireRole(domain.RoleAdmin, domain.RoleCollector)

	// Customers
	api.Handle("/customers", adminOrSeller(http.HandlerFunc(h.Customer.Create))).Methods(http.MethodPost)
	api.HandleFunc("/customers", h.Customer.List).Methods(http.MethodGet)
	api.HandleFunc("/customers/{id:[0-9]+}", h.Customer.Get).Methods(http.MethodGet)
	api.Handle("/customers/{id:[0-9]+}", adminOrSeller(http.HandlerFunc(h.Customer.Update))).Methods(http.MethodPut)
	api.Handle("/customers/{id:[0-9]+}", admin(http.HandlerFunc(h.Customer.Delete))).Methods(http.MethodDelete)
	api.Handle("/customers/{id:[0-9]+}/restore", admin(http.HandlerFunc(h.Customer.Restore))).Methods(http.MethodPost)

	// Loans
	api.Handle("/loans", adminOrSeller(http.HandlerFunc(h.Loan.Originate))).Methods(http.MethodPost)
	api.HandleFunc("/loans", h.Loan.List).Methods(http.MethodGet)
	api.HandleFunc("/loans/{id:[0-9]+}", h.Loan.Get).Methods(http.MethodGet)
	api.HandleFunc("/loans/{id:[0-9]+}/installments", h.Loan.ListInstallments).Methods(http.MethodGet)
	api.HandleFunc("/loans/{id:[0-9]+}/payments", h.Loan.ListPayments).Methods(http.MethodGet)
	api.HandleFunc("/loans/{id:[0-9]+}/visits", h.Loan.ListVisits).Methods(http.MethodGet)
	api.Handle("/loans/{id:[0-9]+}/cancel", admin(http.HandlerFunc(h.Loan.Cancel))).Methods(http.MethodPost)
	api.Handle("/loans/{id:[0-9]+}", admin(http.HandlerFunc(h.Loan.Delete))).Methods(http.MethodDelete)

	// Installments
	api.HandleFunc("/installments/{id:[0-9]+}", h.Loan.GetInstallment).Methods(http.MethodGet)
	api.Handle("/installments/{id:[0-9]+}", admin(http.HandlerFunc(h.Loan.RescheduleInstallment))).Methods(http.MethodPut)
	api.Handle("/installments/{id:[0-9]+}", admin(http.HandlerFunc(h.Loan.DeleteInstallment))).Methods(http.MethodDelete)

	// Payments
	api.Handle("/payments", adminOrCollector(http.HandlerFunc(h.Payment.Register))).Methods(http.MethodPost)
	api.HandleFunc("/payments", h.Payment.ListByCollector).Methods(http.MethodGet)
	api.HandleFunc("/payments/{id:[0-9]+}", h.Payment.Get).Methods(http.MethodGet)
	api.Handle("/payments/{id:[0-9]+}", admin(http.HandlerFunc(h.Payment.Void))).Methods(http.MethodDelete)

	// Collection visits
	api.Handle("/visits", adminOrCollector(http.HandlerFunc(h.Collection.RecordVisit))).Methods(http.MethodPost)
	api.Handle("/visits/{id:[0-9]+}", adminOrCollector(http.HandlerFunc(h.Collection.UpdateVisit))).Methods(http.MethodPut)

	// Dashboard and reports
	api.HandleFunc("/dashboard", h.Dashboard.Summary).Methods(http.MethodGet)
	api.HandleFunc("/reports/collections", h.Dashboard.CollectionsReport).Methods(http.MethodGet)
	api.HandleFunc("/reports/portfolio", h.Dashboard.PortfolioReport).Methods(http.MethodGet)

	// Audit log
	api.Handle("/audit", admin(http.HandlerFunc(h.Audit.List))).Methods(http.MethodGet)

	// Users
	api.Handle("/users", admin(http.HandlerFunc(h.User.Create))).Methods(http.MethodPost)
	api.Handle("/users", admin(http.HandlerFunc(h.User.List))).Methods(http.MethodGet)
	api.Handle("/users/{id:[0-9]+}", admin(http.HandlerFunc(h.User.Get))).Methods(http.MethodGet)
	api.Handle("/users/{id:[0-9]+}", admin(http.HandlerFunc(h.User.Update))).Methods(http.MethodPut)

	// Backups and the maintenance gate
	api.Handle("/admin/backups", admin(http.HandlerFunc(h.Backup.StartBackup))).Methods(http.MethodPost)
	api.Handle("/admin/backups", admin(http.HandlerFunc(h.Backup.ListBackups))).Methods(http.MethodGet)
	api.Handle("/admin/restore", admin(http.HandlerFunc(h.Backup.StartRestore))).Methods(http.MethodPost)
	api.Handle("/maintenance/clear", admin(http.HandlerFunc(h.Backup.ClearMaintenance))).Methods(http.MethodPost)

	return r
}
