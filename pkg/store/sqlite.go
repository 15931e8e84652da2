package store

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/patelfin/lendbook/pkg/models"
)

// querier is satisfied by both *sql.DB and *sql.Tx so the same statement code
// serves plain and transactional stores.
type querier interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

// SQLiteStore manages the database connection and operations for SQLite.
type SQLiteStore struct {
	db *sql.DB
	q  querier
}

// NewSQLiteStore creates a new SQLiteStore and initializes the database.
func NewSQLiteStore(dataSourceName string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("could not open database: %w", err)
	}

	// Manually enable foreign keys and WAL mode
	if _, err := db.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL;"); err != nil {
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("could not connect to database: %w", err)
	}

	s := &SQLiteStore{db: db, q: db}
	if err := s.initSchema(); err != nil {
		return nil, fmt.Errorf("could not initialize schema: %w", err)
	}
	return s, nil
}

// initSchema creates the database tables if they don't already exist.
// We use TEXT for decimal fields in SQLite to ensure no precision is lost.
func (s *SQLiteStore) initSchema() error {
	const schema = `
	CREATE TABLE IF NOT EXISTS customers (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		city TEXT NOT NULL,
		mobile TEXT NOT NULL,
		first_loan_date DATETIME NOT NULL,
		total_loan_amount TEXT NOT NULL DEFAULT '0',
		total_interest TEXT NOT NULL DEFAULT '0',
		loan_item TEXT NOT NULL DEFAULT '',
		notes TEXT NOT NULL DEFAULT '',
		interest_rate TEXT NOT NULL DEFAULT '0',
		paid_amount TEXT NOT NULL DEFAULT '0',
		remaining_amount TEXT NOT NULL DEFAULT '0',
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	CREATE TABLE IF NOT EXISTS loans (
		id TEXT PRIMARY KEY,
		customer_id TEXT NOT NULL,
		customer_name TEXT NOT NULL,
		amount TEXT NOT NULL,
		interest_rate TEXT NOT NULL DEFAULT '0',
		start_date DATETIME NOT NULL,
		status TEXT NOT NULL,
		total_interest TEXT NOT NULL DEFAULT '0',
		paid_amount TEXT NOT NULL DEFAULT '0',
		remaining_amount TEXT NOT NULL DEFAULT '0',
		loan_item TEXT NOT NULL DEFAULT '',
		notes TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	CREATE TABLE IF NOT EXISTS repayments (
		id TEXT PRIMARY KEY,
		customer_id TEXT NOT NULL,
		customer_name TEXT NOT NULL,
		amount TEXT NOT NULL,
		interest_info TEXT NOT NULL DEFAULT '0',
		discount_given TEXT NOT NULL DEFAULT '0',
		payment_date DATETIME NOT NULL,
		receipt_id TEXT NOT NULL,
		notes TEXT NOT NULL DEFAULT '',
		verification_images TEXT NOT NULL DEFAULT '[]',
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	CREATE TABLE IF NOT EXISTS fund_transactions (
		id TEXT PRIMARY KEY,
		transaction_type TEXT NOT NULL,
		amount TEXT NOT NULL,
		reason TEXT NOT NULL DEFAULT '',
		transaction_date DATETIME NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	CREATE TABLE IF NOT EXISTS history (
		id TEXT PRIMARY KEY,
		activity_type TEXT NOT NULL,
		customer_id TEXT NOT NULL DEFAULT '',
		customer_name TEXT NOT NULL DEFAULT '',
		amount TEXT NOT NULL,
		activity_date DATETIME NOT NULL,
		status TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Atomic runs fn against a transaction-backed copy of the store. All writes
// issued through that copy either commit together or roll back together.
// A nested call joins the transaction already in progress.
func (s *SQLiteStore) Atomic(fn func(Storage) error) error {
	if _, ok := s.q.(*sql.Tx); ok {
		return fn(s)
	}
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&SQLiteStore{db: s.db, q: tx}); err != nil {
		return err
	}
	return tx.Commit()
}

// CreateCustomer inserts a new customer into the database.
func (s *SQLiteStore) CreateCustomer(c *models.Customer) error {
	rec := NewCustomerRecord(c)
	_, err := s.q.Exec(
		`INSERT INTO customers (id, name, city, mobile, first_loan_date, total_loan_amount, total_interest, loan_item, notes, interest_rate, paid_amount, remaining_amount)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Name, rec.City, rec.Mobile, rec.FirstLoanDate, rec.TotalLoanAmount, rec.TotalInterest, rec.LoanItem, rec.Notes, rec.InterestRate, rec.PaidAmount, rec.RemainingAmount,
	)
	if err != nil {
		return fmt.Errorf("failed to create customer: %w", err)
	}
	return nil
}

// UpdateCustomer updates an existing customer in the database.
func (s *SQLiteStore) UpdateCustomer(c *models.Customer) error {
	rec := NewCustomerRecord(c)
	result, err := s.q.Exec(
		`UPDATE customers SET name = ?, city = ?, mobile = ?, first_loan_date = ?, total_loan_amount = ?, total_interest = ?, loan_item = ?, notes = ?, interest_rate = ?, paid_amount = ?, remaining_amount = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		rec.Name, rec.City, rec.Mobile, rec.FirstLoanDate, rec.TotalLoanAmount, rec.TotalInterest, rec.LoanItem, rec.Notes, rec.InterestRate, rec.PaidAmount, rec.RemainingAmount, rec.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update customer: %w", err)
	}
	return requireRow(result, "customer")
}

// DeleteCustomer removes a customer. Loans and repayments are intentionally
// left in place; the ledger filters by customer id and ignores orphans.
func (s *SQLiteStore) DeleteCustomer(id string) error {
	result, err := s.q.Exec(`DELETE FROM customers WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete customer: %w", err)
	}
	return requireRow(result, "customer")
}

// GetCustomers retrieves all customers, newest created first.
func (s *SQLiteStore) GetCustomers() ([]*models.Customer, error) {
	rows, err := s.q.Query(`SELECT id, name, city, mobile, first_loan_date, total_loan_amount, total_interest, loan_item, notes, interest_rate, paid_amount, remaining_amount FROM customers ORDER BY created_at DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to get customers: %w", err)
	}
	defer rows.Close()

	var customers []*models.Customer
	for rows.Next() {
		var rec CustomerRecord
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.City, &rec.Mobile, &rec.FirstLoanDate, &rec.TotalLoanAmount, &rec.TotalInterest, &rec.LoanItem, &rec.Notes, &rec.InterestRate, &rec.PaidAmount, &rec.RemainingAmount); err != nil {
			return nil, fmt.Errorf("failed to scan customer row: %w", err)
		}
		c, err := rec.Model()
		if err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rows iteration: %w", err)
	}
	return customers, nil
}

// CreateLoan inserts a new loan into the database.
func (s *SQLiteStore) CreateLoan(l *models.Loan) error {
	rec := NewLoanRecord(l)
	_, err := s.q.Exec(
		`INSERT INTO loans (id, customer_id, customer_name, amount, interest_rate, start_date, status, total_interest, paid_amount, remaining_amount, loan_item, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.CustomerID, rec.CustomerName, rec.Amount, rec.InterestRate, rec.StartDate, rec.Status, rec.TotalInterest, rec.PaidAmount, rec.RemainingAmount, rec.LoanItem, rec.Notes,
	)
	if err != nil {
		return fmt.Errorf("failed to create loan: %w", err)
	}
	return nil
}

// UpdateLoan updates an existing loan in the database.
func (s *SQLiteStore) UpdateLoan(l *models.Loan) error {
	rec := NewLoanRecord(l)
	result, err := s.q.Exec(
		`UPDATE loans SET customer_id = ?, customer_name = ?, amount = ?, interest_rate = ?, start_date = ?, status = ?, total_interest = ?, paid_amount = ?, remaining_amount = ?, loan_item = ?, notes = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		rec.CustomerID, rec.CustomerName, rec.Amount, rec.InterestRate, rec.StartDate, rec.Status, rec.TotalInterest, rec.PaidAmount, rec.RemainingAmount, rec.LoanItem, rec.Notes, rec.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update loan: %w", err)
	}
	return requireRow(result, "loan")
}

// DeleteLoan removes a loan from the database.
func (s *SQLiteStore) DeleteLoan(id string) error {
	result, err := s.q.Exec(`DELETE FROM loans WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete loan: %w", err)
	}
	return requireRow(result, "loan")
}

// GetLoans retrieves all loans, newest created first.
func (s *SQLiteStore) GetLoans() ([]*models.Loan, error) {
	rows, err := s.q.Query(`SELECT id, customer_id, customer_name, amount, interest_rate, start_date, status, total_interest, paid_amount, remaining_amount, loan_item, notes FROM loans ORDER BY created_at DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to get loans: %w", err)
	}
	defer rows.Close()

	var loans []*models.Loan
	for rows.Next() {
		var rec LoanRecord
		if err := rows.Scan(&rec.ID, &rec.CustomerID, &rec.CustomerName, &rec.Amount, &rec.InterestRate, &rec.StartDate, &rec.Status, &rec.TotalInterest, &rec.PaidAmount, &rec.RemainingAmount, &rec.LoanItem, &rec.Notes); err != nil {
			return nil, fmt.Errorf("failed to scan loan row: %w", err)
		}
		l, err := rec.Model()
		if err != nil {
			return nil, err
		}
		loans = append(loans, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rows iteration: %w", err)
	}
	return loans, nil
}

// CreateRepayment inserts a new repayment into the database.
func (s *SQLiteStore) CreateRepayment(r *models.Repayment) error {
	rec, err := NewRepaymentRecord(r)
	if err != nil {
		return err
	}
	_, err = s.q.Exec(
		`INSERT INTO repayments (id, customer_id, customer_name, amount, interest_info, discount_given, payment_date, receipt_id, notes, verification_images)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.CustomerID, rec.CustomerName, rec.Amount, rec.InterestInfo, rec.DiscountGiven, rec.PaymentDate, rec.ReceiptID, rec.Notes, rec.VerificationImages,
	)
	if err != nil {
		return fmt.Errorf("failed to create repayment: %w", err)
	}
	return nil
}

// UpdateRepayment updates an existing repayment in the database.
func (s *SQLiteStore) UpdateRepayment(r *models.Repayment) error {
	rec, err := NewRepaymentRecord(r)
	if err != nil {
		return err
	}
	result, err := s.q.Exec(
		`UPDATE repayments SET customer_id = ?, customer_name = ?, amount = ?, interest_info = ?, discount_given = ?, payment_date = ?, receipt_id = ?, notes = ?, verification_images = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		rec.CustomerID, rec.CustomerName, rec.Amount, rec.InterestInfo, rec.DiscountGiven, rec.PaymentDate, rec.ReceiptID, rec.Notes, rec.VerificationImages, rec.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update repayment: %w", err)
	}
	return requireRow(result, "repayment")
}

// DeleteRepayment removes a repayment from the database.
func (s *SQLiteStore) DeleteRepayment(id string) error {
	result, err := s.q.Exec(`DELETE FROM repayments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete repayment: %w", err)
	}
	return requireRow(result, "repayment")
}

// GetRepayments retrieves all repayments, newest created first.
func (s *SQLiteStore) GetRepayments() ([]*models.Repayment, error) {
	rows, err := s.q.Query(`SELECT id, customer_id, customer_name, amount, interest_info, discount_given, payment_date, receipt_id, notes, verification_images FROM repayments ORDER BY created_at DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to get repayments: %w", err)
	}
	defer rows.Close()

	var repayments []*models.Repayment
	for rows.Next() {
		var rec RepaymentRecord
		if err := rows.Scan(&rec.ID, &rec.CustomerID, &rec.CustomerName, &rec.Amount, &rec.InterestInfo, &rec.DiscountGiven, &rec.PaymentDate, &rec.ReceiptID, &rec.Notes, &rec.VerificationImages); err != nil {
			return nil, fmt.Errorf("failed to scan repayment row: %w", err)
		}
		r, err := rec.Model()
		if err != nil {
			return nil, err
		}
		repayments = append(repayments, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rows iteration: %w", err)
	}
	return repayments, nil
}

// CreateFundTransaction inserts a new fund transaction into the database.
func (s *SQLiteStore) CreateFundTransaction(t *models.FundTransaction) error {
	rec := NewFundTransactionRecord(t)
	_, err := s.q.Exec(
		`INSERT INTO fund_transactions (id, transaction_type, amount, reason, transaction_date)
		VALUES (?, ?, ?, ?, ?)`,
		rec.ID, rec.TransactionType, rec.Amount, rec.Reason, rec.TransactionDate,
	)
	if err != nil {
		return fmt.Errorf("failed to create fund transaction: %w", err)
	}
	return nil
}

// GetFundTransactions retrieves all fund transactions, newest created first.
func (s *SQLiteStore) GetFundTransactions() ([]*models.FundTransaction, error) {
	rows, err := s.q.Query(`SELECT id, transaction_type, amount, reason, transaction_date FROM fund_transactions ORDER BY created_at DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to get fund transactions: %w", err)
	}
	defer rows.Close()

	var transactions []*models.FundTransaction
	for rows.Next() {
		var rec FundTransactionRecord
		if err := rows.Scan(&rec.ID, &rec.TransactionType, &rec.Amount, &rec.Reason, &rec.TransactionDate); err != nil {
			return nil, fmt.Errorf("failed to scan fund transaction row: %w", err)
		}
		t, err := rec.Model()
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rows iteration: %w", err)
	}
	return transactions, nil
}

// CreateHistory appends an item to the audit trail. History rows are never
// updated or deleted.
func (s *SQLiteStore) CreateHistory(h *models.HistoryItem) error {
	rec := NewHistoryRecord(h)
	_, err := s.q.Exec(
		`INSERT INTO history (id, activity_type, customer_id, customer_name, amount, activity_date, status, description)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.ActivityType, rec.CustomerID, rec.CustomerName, rec.Amount, rec.ActivityDate, rec.Status, rec.Description,
	)
	if err != nil {
		return fmt.Errorf("failed to create history item: %w", err)
	}
	return nil
}

// GetHistory retrieves the audit trail, newest created first.
func (s *SQLiteStore) GetHistory() ([]*models.HistoryItem, error) {
	rows, err := s.q.Query(`SELECT id, activity_type, customer_id, customer_name, amount, activity_date, status, description FROM history ORDER BY created_at DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to get history: %w", err)
	}
	defer rows.Close()

	var items []*models.HistoryItem
	for rows.Next() {
		var rec HistoryRecord
		if err := rows.Scan(&rec.ID, &rec.ActivityType, &rec.CustomerID, &rec.CustomerName, &rec.Amount, &rec.ActivityDate, &rec.Status, &rec.Description); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		h, err := rec.Model()
		if err != nil {
			return nil, err
		}
		items = append(items, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rows iteration: %w", err)
	}
	return items, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

var ErrRowNotFound = fmt.Errorf("record not found")

func requireRow(result sql.Result, entity string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", entity, ErrRowNotFound)
	}
	return nil
}
