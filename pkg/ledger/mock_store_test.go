package ledger

import (
	"errors"

	"github.com/patelfin/lendbook/pkg/models"
	"github.com/patelfin/lendbook/pkg/store"
)

// MockStore is a simple in-memory implementation of the Storage interface for
// testing. Reads return copies newest-first, mirroring the real store, so the
// recalculation never mutates persisted state. Atomic restores the previous
// contents when the callback fails.
type MockStore struct {
	customers        []*models.Customer
	loans            []*models.Loan
	repayments       []*models.Repayment
	fundTransactions []*models.FundTransaction
	history          []*models.HistoryItem

	failHistory bool // next CreateHistory returns an error
	failReads   bool // all Get* calls return an error
}

var errMockFailure = errors.New("mock store failure")

func NewMockStore() *MockStore {
	return &MockStore{}
}

func (m *MockStore) GetCustomers() ([]*models.Customer, error) {
	if m.failReads {
		return nil, errMockFailure
	}
	out := make([]*models.Customer, 0, len(m.customers))
	for i := len(m.customers) - 1; i >= 0; i-- {
		c := *m.customers[i]
		out = append(out, &c)
	}
	return out, nil
}

func (m *MockStore) GetLoans() ([]*models.Loan, error) {
	if m.failReads {
		return nil, errMockFailure
	}
	out := make([]*models.Loan, 0, len(m.loans))
	for i := len(m.loans) - 1; i >= 0; i-- {
		l := *m.loans[i]
		out = append(out, &l)
	}
	return out, nil
}

func (m *MockStore) GetRepayments() ([]*models.Repayment, error) {
	if m.failReads {
		return nil, errMockFailure
	}
	out := make([]*models.Repayment, 0, len(m.repayments))
	for i := len(m.repayments) - 1; i >= 0; i-- {
		r := *m.repayments[i]
		out = append(out, &r)
	}
	return out, nil
}

func (m *MockStore) GetFundTransactions() ([]*models.FundTransaction, error) {
	if m.failReads {
		return nil, errMockFailure
	}
	out := make([]*models.FundTransaction, 0, len(m.fundTransactions))
	for i := len(m.fundTransactions) - 1; i >= 0; i-- {
		t := *m.fundTransactions[i]
		out = append(out, &t)
	}
	return out, nil
}

func (m *MockStore) GetHistory() ([]*models.HistoryItem, error) {
	if m.failReads {
		return nil, errMockFailure
	}
	out := make([]*models.HistoryItem, 0, len(m.history))
	for i := len(m.history) - 1; i >= 0; i-- {
		h := *m.history[i]
		out = append(out, &h)
	}
	return out, nil
}

func (m *MockStore) CreateCustomer(c *models.Customer) error {
	copied := *c
	m.customers = append(m.customers, &copied)
	return nil
}

func (m *MockStore) UpdateCustomer(c *models.Customer) error {
	for i, existing := range m.customers {
		if existing.ID == c.ID {
			copied := *c
			m.customers[i] = &copied
			return nil
		}
	}
	return errors.New("customer not found")
}

func (m *MockStore) DeleteCustomer(id string) error {
	for i, c := range m.customers {
		if c.ID == id {
			m.customers = append(m.customers[:i], m.customers[i+1:]...)
			return nil
		}
	}
	return errors.New("customer not found")
}

func (m *MockStore) CreateLoan(l *models.Loan) error {
	copied := *l
	m.loans = append(m.loans, &copied)
	return nil
}

func (m *MockStore) UpdateLoan(l *models.Loan) error {
	for i, existing := range m.loans {
		if existing.ID == l.ID {
			copied := *l
			m.loans[i] = &copied
			return nil
		}
	}
	return errors.New("loan not found")
}

func (m *MockStore) DeleteLoan(id string) error {
	for i, l := range m.loans {
		if l.ID == id {
			m.loans = append(m.loans[:i], m.loans[i+1:]...)
			return nil
		}
	}
	return errors.New("loan not found")
}

func (m *MockStore) CreateRepayment(r *models.Repayment) error {
	copied := *r
	m.repayments = append(m.repayments, &copied)
	return nil
}

func (m *MockStore) UpdateRepayment(r *models.Repayment) error {
	for i, existing := range m.repayments {
		if existing.ID == r.ID {
			copied := *r
			m.repayments[i] = &copied
			return nil
		}
	}
	return errors.New("repayment not found")
}

func (m *MockStore) DeleteRepayment(id string) error {
	for i, r := range m.repayments {
		if r.ID == id {
			m.repayments = append(m.repayments[:i], m.repayments[i+1:]...)
			return nil
		}
	}
	return errors.New("repayment not found")
}

func (m *MockStore) CreateFundTransaction(t *models.FundTransaction) error {
	copied := *t
	m.fundTransactions = append(m.fundTransactions, &copied)
	return nil
}

func (m *MockStore) CreateHistory(h *models.HistoryItem) error {
	if m.failHistory {
		return errMockFailure
	}
	copied := *h
	m.history = append(m.history, &copied)
	return nil
}

func (m *MockStore) Atomic(fn func(store.Storage) error) error {
	customers := append([]*models.Customer(nil), m.customers...)
	loans := append([]*models.Loan(nil), m.loans...)
	repayments := append([]*models.Repayment(nil), m.repayments...)
	fundTransactions := append([]*models.FundTransaction(nil), m.fundTransactions...)
	history := append([]*models.HistoryItem(nil), m.history...)

	if err := fn(m); err != nil {
		m.customers = customers
		m.loans = loans
		m.repayments = repayments
		m.fundTransactions = fundTransactions
		m.history = history
		return err
	}
	return nil
}

func (m *MockStore) Close() error {
	return nil
}
