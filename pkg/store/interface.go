package store

import "github.com/patelfin/lendbook/pkg/models"

// Storage defines the persistence operations the ledger depends on. Reads
// return records newest-created-first. History is append-only, so no update
// or delete is exposed for it.
type Storage interface {
	GetCustomers() ([]*models.Customer, error)
	GetLoans() ([]*models.Loan, error)
	GetRepayments() ([]*models.Repayment, error)
	GetFundTransactions() ([]*models.FundTransaction, error)
	GetHistory() ([]*models.HistoryItem, error)

	CreateCustomer(c *models.Customer) error
	UpdateCustomer(c *models.Customer) error
	DeleteCustomer(id string) error

	CreateLoan(l *models.Loan) error
	UpdateLoan(l *models.Loan) error
	DeleteLoan(id string) error

	CreateRepayment(r *models.Repayment) error
	UpdateRepayment(r *models.Repayment) error
	DeleteRepayment(id string) error

	CreateFundTransaction(t *models.FundTransaction) error

	CreateHistory(h *models.HistoryItem) error

	// Atomic runs fn against a store whose writes either all persist or all
	// roll back. Compound operations (entity + history) go through this so a
	// failure partway through never leaves the persisted state inconsistent.
	Atomic(fn func(Storage) error) error

	Close() error
}
