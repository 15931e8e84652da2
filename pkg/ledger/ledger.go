package ledger

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/patelfin/lendbook/pkg/models"
	"github.com/patelfin/lendbook/pkg/store"
)

var (
	ErrCustomerNotFound       = errors.New("customer not found")
	ErrLoanNotFound           = errors.New("loan not found")
	ErrRepaymentNotFound      = errors.New("repayment not found")
	ErrLoanAlreadyCompleted   = errors.New("loan already completed")
	ErrInvalidAmount          = errors.New("amount must not be negative")
	ErrInvalidTransactionType = errors.New("invalid fund transaction type")
)

// Ledger owns the in-memory snapshot and the business rules for mutating it.
// Every mutating operation persists through the Storage, then reloads the
// full dataset and reruns the recalculation, so stored derived fields are
// only ever caches. All mutations serialize on one mutex; identifier
// generation therefore always sees an exclusive snapshot.
type Ledger struct {
	mu             sync.Mutex
	storage        store.Storage
	log            *zap.Logger
	now            func() time.Time
	initialCapital decimal.Decimal

	customers        []*models.Customer
	loans            []*models.Loan
	repayments       []*models.Repayment
	fundTransactions []*models.FundTransaction
	history          []*models.HistoryItem
}

// NewLedger creates a Ledger over the given Storage.
func NewLedger(s store.Storage, logger *zap.Logger) *Ledger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ledger{
		storage:        s,
		log:            logger,
		now:            time.Now,
		initialCapital: DefaultInitialCapital,
	}
}

// SetClock overrides the time source. Tests use this to pin accrual results.
func (l *Ledger) SetClock(now func() time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.now = now
}

// SetInitialCapital overrides the starting capital used for fund balances.
func (l *Ledger) SetInitialCapital(c decimal.Decimal) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.initialCapital = c
}

// Reload refetches every collection and recalculates all derived fields.
func (l *Ledger) Reload() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.reload()
}

// reload swaps the snapshot only after every fetch succeeded, so a failed
// reload leaves the previous consistent snapshot in place.
func (l *Ledger) reload() error {
	customers, err := l.storage.GetCustomers()
	if err != nil {
		return fmt.Errorf("reloading customers: %w", err)
	}
	loans, err := l.storage.GetLoans()
	if err != nil {
		return fmt.Errorf("reloading loans: %w", err)
	}
	repayments, err := l.storage.GetRepayments()
	if err != nil {
		return fmt.Errorf("reloading repayments: %w", err)
	}
	fundTransactions, err := l.storage.GetFundTransactions()
	if err != nil {
		return fmt.Errorf("reloading fund transactions: %w", err)
	}
	history, err := l.storage.GetHistory()
	if err != nil {
		return fmt.Errorf("reloading history: %w", err)
	}

	Recalculate(customers, loans, repayments, l.now())

	l.customers = customers
	l.loans = loans
	l.repayments = repayments
	l.fundTransactions = fundTransactions
	l.history = history
	return nil
}

// Revalue reruns the recalculation over the current snapshot without touching
// storage. Accrued interest moves with the clock, so this keeps displayed
// balances fresh between mutations.
func (l *Ledger) Revalue() {
	l.mu.Lock()
	defer l.mu.Unlock()
	Recalculate(l.customers, l.loans, l.repayments, l.now())
}

// CustomerInput carries the entered fields for a new customer and their
// first loan.
type CustomerInput struct {
	Name            string
	City            string
	Mobile          string
	FirstLoanDate   time.Time
	TotalLoanAmount decimal.Decimal
	InterestRate    decimal.Decimal
	LoanItem        string
	Notes           string
}

// AddCustomer creates the customer, their first loan, and the audit record in
// one atomic write, then reloads.
func (l *Ledger) AddCustomer(in CustomerInput) (*models.Customer, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if in.TotalLoanAmount.IsNegative() {
		return nil, fmt.Errorf("loan amount %s: %w", in.TotalLoanAmount, ErrInvalidAmount)
	}

	customerID := NextID(CustomerIDPrefix, customerIDs(l.customers))
	interest := Accrue(in.TotalLoanAmount, in.InterestRate, in.FirstLoanDate, l.now())

	customer := &models.Customer{
		ID:              customerID,
		Name:            in.Name,
		City:            in.City,
		Mobile:          in.Mobile,
		FirstLoanDate:   in.FirstLoanDate,
		TotalLoanAmount: in.TotalLoanAmount,
		TotalInterest:   interest,
		LoanItem:        in.LoanItem,
		Notes:           in.Notes,
		InterestRate:    in.InterestRate,
		PaidAmount:      decimal.Zero,
		RemainingAmount: in.TotalLoanAmount.Add(interest),
	}

	loan := &models.Loan{
		ID:              NextID(LoanIDPrefix, loanIDs(l.loans)),
		CustomerID:      customerID,
		CustomerName:    in.Name,
		Amount:          in.TotalLoanAmount,
		InterestRate:    in.InterestRate,
		StartDate:       in.FirstLoanDate,
		Status:          models.LoanStatusActive,
		TotalInterest:   interest,
		PaidAmount:      decimal.Zero,
		RemainingAmount: in.TotalLoanAmount.Add(interest),
		LoanItem:        in.LoanItem,
		Notes:           in.Notes,
	}

	item := l.newHistory(models.HistoryLoanGiven, customerID, in.Name, in.TotalLoanAmount, in.FirstLoanDate, string(models.LoanStatusActive), "new customer and loan")

	err := l.storage.Atomic(func(tx store.Storage) error {
		if err := tx.CreateCustomer(customer); err != nil {
			return err
		}
		if err := tx.CreateLoan(loan); err != nil {
			return err
		}
		return tx.CreateHistory(item)
	})
	if err != nil {
		l.log.Error("failed to add customer", zap.Error(err))
		return nil, err
	}
	l.log.Info("customer added", zap.String("customer_id", customerID), zap.String("loan_id", loan.ID))

	if err := l.reload(); err != nil {
		return nil, err
	}
	return l.findCustomer(customerID)
}

// CustomerUpdate holds partial changes; nil fields stay untouched.
type CustomerUpdate struct {
	Name            *string
	City            *string
	Mobile          *string
	FirstLoanDate   *time.Time
	TotalLoanAmount *decimal.Decimal
	InterestRate    *decimal.Decimal
	LoanItem        *string
	Notes           *string
}

// UpdateCustomer merges the partial input into the stored customer. When the
// origination terms change, the customer's interest and remaining amounts are
// re-derived; a rate change also cascades to every loan of the customer.
func (l *Ledger) UpdateCustomer(id string, upd CustomerUpdate) (*models.Customer, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	existing, err := l.findCustomer(id)
	if err != nil {
		return nil, err
	}
	if upd.TotalLoanAmount != nil && upd.TotalLoanAmount.IsNegative() {
		return nil, fmt.Errorf("loan amount %s: %w", upd.TotalLoanAmount, ErrInvalidAmount)
	}

	merged := *existing
	if upd.Name != nil {
		merged.Name = *upd.Name
	}
	if upd.City != nil {
		merged.City = *upd.City
	}
	if upd.Mobile != nil {
		merged.Mobile = *upd.Mobile
	}
	if upd.FirstLoanDate != nil {
		merged.FirstLoanDate = *upd.FirstLoanDate
	}
	if upd.TotalLoanAmount != nil {
		merged.TotalLoanAmount = *upd.TotalLoanAmount
	}
	if upd.InterestRate != nil {
		merged.InterestRate = *upd.InterestRate
	}
	if upd.LoanItem != nil {
		merged.LoanItem = *upd.LoanItem
	}
	if upd.Notes != nil {
		merged.Notes = *upd.Notes
	}

	if upd.FirstLoanDate != nil || upd.TotalLoanAmount != nil || upd.InterestRate != nil {
		merged.TotalInterest = Accrue(merged.TotalLoanAmount, merged.InterestRate, merged.FirstLoanDate, l.now())
		merged.RemainingAmount = merged.TotalLoanAmount.Add(merged.TotalInterest).Sub(merged.PaidAmount)
	}

	err = l.storage.Atomic(func(tx store.Storage) error {
		if err := tx.UpdateCustomer(&merged); err != nil {
			return err
		}
		if upd.InterestRate == nil {
			return nil
		}
		for _, loan := range l.loans {
			if loan.CustomerID != id {
				continue
			}
			updated := *loan
			updated.InterestRate = *upd.InterestRate
			updated.TotalInterest = Accrue(loan.Amount, *upd.InterestRate, loan.StartDate, l.now())
			updated.RemainingAmount = loan.Amount.Add(updated.TotalInterest).Sub(loan.PaidAmount)
			if err := tx.UpdateLoan(&updated); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		l.log.Error("failed to update customer", zap.String("customer_id", id), zap.Error(err))
		return nil, err
	}

	if err := l.reload(); err != nil {
		return nil, err
	}
	return l.findCustomer(id)
}

// DeleteCustomer removes the customer record only. Their loans and repayments
// are left behind and drop out of every calculation as orphans.
func (l *Ledger) DeleteCustomer(id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, err := l.findCustomer(id); err != nil {
		return err
	}
	if err := l.storage.DeleteCustomer(id); err != nil {
		l.log.Error("failed to delete customer", zap.String("customer_id", id), zap.Error(err))
		return err
	}
	return l.reload()
}

// LoanInput carries the entered fields for a further loan to an existing
// customer.
type LoanInput struct {
	CustomerID   string
	Amount       decimal.Decimal
	InterestRate decimal.Decimal
	StartDate    time.Time
	LoanItem     string
	Notes        string
}

// AddLoan issues a new loan to an existing customer.
func (l *Ledger) AddLoan(in LoanInput) (*models.Loan, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	customer, err := l.findCustomer(in.CustomerID)
	if err != nil {
		return nil, err
	}
	if in.Amount.IsNegative() {
		return nil, fmt.Errorf("loan amount %s: %w", in.Amount, ErrInvalidAmount)
	}

	interest := Accrue(in.Amount, in.InterestRate, in.StartDate, l.now())
	loan := &models.Loan{
		ID:              NextID(LoanIDPrefix, loanIDs(l.loans)),
		CustomerID:      in.CustomerID,
		CustomerName:    customer.Name,
		Amount:          in.Amount,
		InterestRate:    in.InterestRate,
		StartDate:       in.StartDate,
		Status:          models.LoanStatusActive,
		TotalInterest:   interest,
		PaidAmount:      decimal.Zero,
		RemainingAmount: in.Amount.Add(interest),
		LoanItem:        in.LoanItem,
		Notes:           in.Notes,
	}

	item := l.newHistory(models.HistoryLoanGiven, in.CustomerID, customer.Name, in.Amount, in.StartDate, string(models.LoanStatusActive), "new loan")

	err = l.storage.Atomic(func(tx store.Storage) error {
		if err := tx.CreateLoan(loan); err != nil {
			return err
		}
		return tx.CreateHistory(item)
	})
	if err != nil {
		l.log.Error("failed to add loan", zap.String("customer_id", in.CustomerID), zap.Error(err))
		return nil, err
	}
	l.log.Info("loan added", zap.String("loan_id", loan.ID), zap.String("customer_id", in.CustomerID))

	if err := l.reload(); err != nil {
		return nil, err
	}
	return l.findLoan(loan.ID)
}

// LoanUpdate holds partial changes; nil fields stay untouched.
type LoanUpdate struct {
	Amount       *decimal.Decimal
	InterestRate *decimal.Decimal
	StartDate    *time.Time
	LoanItem     *string
	Notes        *string
}

// UpdateLoan merges the partial input; changed terms re-derive the loan's
// interest and remaining amounts.
func (l *Ledger) UpdateLoan(id string, upd LoanUpdate) (*models.Loan, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	existing, err := l.findLoan(id)
	if err != nil {
		return nil, err
	}
	if upd.Amount != nil && upd.Amount.IsNegative() {
		return nil, fmt.Errorf("loan amount %s: %w", upd.Amount, ErrInvalidAmount)
	}

	merged := *existing
	if upd.Amount != nil {
		merged.Amount = *upd.Amount
	}
	if upd.InterestRate != nil {
		merged.InterestRate = *upd.InterestRate
	}
	if upd.StartDate != nil {
		merged.StartDate = *upd.StartDate
	}
	if upd.LoanItem != nil {
		merged.LoanItem = *upd.LoanItem
	}
	if upd.Notes != nil {
		merged.Notes = *upd.Notes
	}

	if upd.Amount != nil || upd.InterestRate != nil || upd.StartDate != nil {
		merged.TotalInterest = Accrue(merged.Amount, merged.InterestRate, merged.StartDate, l.now())
		merged.RemainingAmount = merged.Amount.Add(merged.TotalInterest).Sub(merged.PaidAmount)
	}

	if err := l.storage.UpdateLoan(&merged); err != nil {
		l.log.Error("failed to update loan", zap.String("loan_id", id), zap.Error(err))
		return nil, err
	}

	if err := l.reload(); err != nil {
		return nil, err
	}
	return l.findLoan(id)
}

// DeleteLoan removes a loan.
func (l *Ledger) DeleteLoan(id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, err := l.findLoan(id); err != nil {
		return err
	}
	if err := l.storage.DeleteLoan(id); err != nil {
		l.log.Error("failed to delete loan", zap.String("loan_id", id), zap.Error(err))
		return err
	}
	return l.reload()
}

// CompleteLoan freezes a loan: zero interest, zero remaining, principal
// marked fully paid. Completion is sticky; later recalculations never
// re-accrue interest for it.
func (l *Ledger) CompleteLoan(id string) (*models.Loan, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	existing, err := l.findLoan(id)
	if err != nil {
		return nil, err
	}
	if existing.Status == models.LoanStatusCompleted {
		return nil, fmt.Errorf("loan %s: %w", id, ErrLoanAlreadyCompleted)
	}

	completed := *existing
	completed.Status = models.LoanStatusCompleted
	completed.TotalInterest = decimal.Zero
	completed.RemainingAmount = decimal.Zero
	completed.PaidAmount = existing.Amount

	item := l.newHistory(models.HistoryLoanGiven, existing.CustomerID, existing.CustomerName, existing.Amount, l.now(), string(models.LoanStatusCompleted), "loan completed")

	err = l.storage.Atomic(func(tx store.Storage) error {
		if err := tx.UpdateLoan(&completed); err != nil {
			return err
		}
		return tx.CreateHistory(item)
	})
	if err != nil {
		l.log.Error("failed to complete loan", zap.String("loan_id", id), zap.Error(err))
		return nil, err
	}
	l.log.Info("loan completed", zap.String("loan_id", id))

	if err := l.reload(); err != nil {
		return nil, err
	}
	return l.findLoan(id)
}

// RepaymentInput carries the entered fields for a repayment against a
// customer's outstanding loans.
type RepaymentInput struct {
	CustomerID         string
	Amount             decimal.Decimal
	DiscountGiven      decimal.Decimal
	Date               time.Time
	Notes              string
	VerificationImages []string
}

// AddRepayment records cash received (plus any discount forgiven) and
// allocates its effective value against the customer's outstanding interest.
func (l *Ledger) AddRepayment(in RepaymentInput) (*models.Repayment, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	customer, err := l.findCustomer(in.CustomerID)
	if err != nil {
		return nil, err
	}
	if in.Amount.IsNegative() {
		return nil, fmt.Errorf("repayment amount %s: %w", in.Amount, ErrInvalidAmount)
	}
	if in.DiscountGiven.IsNegative() {
		return nil, fmt.Errorf("discount %s: %w", in.DiscountGiven, ErrInvalidAmount)
	}

	// Interest accrued across all the customer's loans as last recalculated;
	// completed loans already carry zero there.
	accrued := decimal.Zero
	for _, loan := range l.loans {
		if loan.CustomerID == in.CustomerID {
			accrued = accrued.Add(loan.TotalInterest)
		}
	}
	collected := decimal.Zero
	for _, r := range l.repayments {
		if r.CustomerID == in.CustomerID {
			collected = collected.Add(r.InterestInfo)
		}
	}

	repayment := &models.Repayment{
		ID:                 NextID(RepaymentIDPrefix, repaymentIDs(l.repayments)),
		CustomerID:         in.CustomerID,
		CustomerName:       customer.Name,
		Amount:             in.Amount,
		InterestInfo:       AllocateInterest(accrued, collected, in.Amount, in.DiscountGiven),
		DiscountGiven:      in.DiscountGiven,
		Date:               in.Date,
		ReceiptID:          NextID(ReceiptIDPrefix, receiptIDs(l.repayments)),
		Notes:              in.Notes,
		VerificationImages: in.VerificationImages,
	}

	description := "loan repayment"
	if in.DiscountGiven.IsPositive() {
		description = fmt.Sprintf("loan repayment (discount: %s)", in.DiscountGiven)
	}
	item := l.newHistory(models.HistoryPaymentReceived, in.CustomerID, customer.Name, in.Amount, in.Date, string(models.LoanStatusCompleted), description)

	err = l.storage.Atomic(func(tx store.Storage) error {
		if err := tx.CreateRepayment(repayment); err != nil {
			return err
		}
		return tx.CreateHistory(item)
	})
	if err != nil {
		l.log.Error("failed to add repayment", zap.String("customer_id", in.CustomerID), zap.Error(err))
		return nil, err
	}
	l.log.Info("repayment added", zap.String("repayment_id", repayment.ID), zap.String("receipt_id", repayment.ReceiptID))

	if err := l.reload(); err != nil {
		return nil, err
	}
	return l.findRepayment(repayment.ID)
}

// RepaymentUpdate holds partial changes; nil fields stay untouched.
type RepaymentUpdate struct {
	Amount             *decimal.Decimal
	DiscountGiven      *decimal.Decimal
	Date               *time.Time
	Notes              *string
	VerificationImages []string
}

// UpdateRepayment merges the partial input. When the cash amount or discount
// changes, the interest portion is re-allocated with "already collected"
// summed over every other repayment of the customer, excluding this one.
func (l *Ledger) UpdateRepayment(id string, upd RepaymentUpdate) (*models.Repayment, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	existing, err := l.findRepayment(id)
	if err != nil {
		return nil, err
	}
	if upd.Amount != nil && upd.Amount.IsNegative() {
		return nil, fmt.Errorf("repayment amount %s: %w", upd.Amount, ErrInvalidAmount)
	}
	if upd.DiscountGiven != nil && upd.DiscountGiven.IsNegative() {
		return nil, fmt.Errorf("discount %s: %w", upd.DiscountGiven, ErrInvalidAmount)
	}

	merged := *existing
	if upd.Amount != nil {
		merged.Amount = *upd.Amount
	}
	if upd.DiscountGiven != nil {
		merged.DiscountGiven = *upd.DiscountGiven
	}
	if upd.Date != nil {
		merged.Date = *upd.Date
	}
	if upd.Notes != nil {
		merged.Notes = *upd.Notes
	}
	if upd.VerificationImages != nil {
		merged.VerificationImages = upd.VerificationImages
	}

	if upd.Amount != nil || upd.DiscountGiven != nil {
		accrued := decimal.Zero
		for _, loan := range l.loans {
			if loan.CustomerID == merged.CustomerID {
				accrued = accrued.Add(Accrue(loan.Amount, loan.InterestRate, loan.StartDate, l.now()))
			}
		}
		collected := decimal.Zero
		for _, r := range l.repayments {
			if r.CustomerID == merged.CustomerID && r.ID != id {
				collected = collected.Add(r.InterestInfo)
			}
		}
		merged.InterestInfo = AllocateInterest(accrued, collected, merged.Amount, merged.DiscountGiven)
	}

	if err := l.storage.UpdateRepayment(&merged); err != nil {
		l.log.Error("failed to update repayment", zap.String("repayment_id", id), zap.Error(err))
		return nil, err
	}

	if err := l.reload(); err != nil {
		return nil, err
	}
	return l.findRepayment(id)
}

// DeleteRepayment removes a repayment.
func (l *Ledger) DeleteRepayment(id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, err := l.findRepayment(id); err != nil {
		return err
	}
	if err := l.storage.DeleteRepayment(id); err != nil {
		l.log.Error("failed to delete repayment", zap.String("repayment_id", id), zap.Error(err))
		return err
	}
	return l.reload()
}

// FundTransactionInput carries a manual capital movement.
type FundTransactionInput struct {
	Type   models.FundTransactionType
	Amount decimal.Decimal
	Reason string
	Date   time.Time
}

// AddFundTransaction appends a manual fund add/remove to the capital ledger.
func (l *Ledger) AddFundTransaction(in FundTransactionInput) (*models.FundTransaction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if in.Type != models.FundTransactionAdd && in.Type != models.FundTransactionRemove {
		return nil, fmt.Errorf("type %q: %w", in.Type, ErrInvalidTransactionType)
	}
	if in.Amount.IsNegative() {
		return nil, fmt.Errorf("fund amount %s: %w", in.Amount, ErrInvalidAmount)
	}

	transaction := &models.FundTransaction{
		ID:     NextID(FundTransactionIDPrefix, fundTransactionIDs(l.fundTransactions)),
		Type:   in.Type,
		Amount: in.Amount,
		Reason: in.Reason,
		Date:   in.Date,
	}

	historyType := models.HistoryFundAdded
	if in.Type == models.FundTransactionRemove {
		historyType = models.HistoryFundRemoved
	}
	item := l.newHistory(historyType, "", "", in.Amount, in.Date, string(models.LoanStatusCompleted), in.Reason)

	err := l.storage.Atomic(func(tx store.Storage) error {
		if err := tx.CreateFundTransaction(transaction); err != nil {
			return err
		}
		return tx.CreateHistory(item)
	})
	if err != nil {
		l.log.Error("failed to add fund transaction", zap.Error(err))
		return nil, err
	}
	l.log.Info("fund transaction added", zap.String("fund_id", transaction.ID), zap.String("type", string(in.Type)))

	if err := l.reload(); err != nil {
		return nil, err
	}
	return transaction, nil
}

// The accessors return detached copies. Revalue rewrites the snapshot's
// derived fields in place, so handing out the snapshot's own pointers would
// let callers read records mid-recalculation, outside the mutex.

// Customers returns the recalculated customer snapshot.
func (l *Ledger) Customers() []*models.Customer {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]*models.Customer, len(l.customers))
	for i, c := range l.customers {
		out[i] = copyCustomer(c)
	}
	return out
}

// Loans returns the recalculated loan snapshot.
func (l *Ledger) Loans() []*models.Loan {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]*models.Loan, len(l.loans))
	for i, loan := range l.loans {
		out[i] = copyLoan(loan)
	}
	return out
}

// Repayments returns the repayment snapshot.
func (l *Ledger) Repayments() []*models.Repayment {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]*models.Repayment, len(l.repayments))
	for i, r := range l.repayments {
		out[i] = copyRepayment(r)
	}
	return out
}

// FundTransactions returns the manual capital movement snapshot.
func (l *Ledger) FundTransactions() []*models.FundTransaction {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]*models.FundTransaction, len(l.fundTransactions))
	for i, t := range l.fundTransactions {
		copied := *t
		out[i] = &copied
	}
	return out
}

// History returns the audit trail snapshot.
func (l *Ledger) History() []*models.HistoryItem {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]*models.HistoryItem, len(l.history))
	for i, h := range l.history {
		copied := *h
		out[i] = &copied
	}
	return out
}

// Funds recomputes the available-funds figure from the current snapshot.
func (l *Ledger) Funds() decimal.Decimal {
	l.mu.Lock()
	defer l.mu.Unlock()
	return AvailableFunds(l.initialCapital, l.fundTransactions, l.loans, l.repayments)
}

func (l *Ledger) newHistory(t models.HistoryType, customerID, customerName string, amount decimal.Decimal, date time.Time, status, description string) *models.HistoryItem {
	return &models.HistoryItem{
		ID:           NextID(HistoryIDPrefix, historyIDs(l.history)),
		Type:         t,
		CustomerID:   customerID,
		CustomerName: customerName,
		Amount:       amount,
		Date:         date,
		Status:       status,
		Description:  description,
	}
}

func copyCustomer(c *models.Customer) *models.Customer {
	copied := *c
	return &copied
}

func copyLoan(loan *models.Loan) *models.Loan {
	copied := *loan
	return &copied
}

func copyRepayment(r *models.Repayment) *models.Repayment {
	copied := *r
	copied.VerificationImages = append([]string(nil), r.VerificationImages...)
	return &copied
}

// The find helpers also copy: operations return their result straight from
// these, and that result is encoded after the mutex is released.

func (l *Ledger) findCustomer(id string) (*models.Customer, error) {
	for _, c := range l.customers {
		if c.ID == id {
			return copyCustomer(c), nil
		}
	}
	return nil, fmt.Errorf("%s: %w", id, ErrCustomerNotFound)
}

func (l *Ledger) findLoan(id string) (*models.Loan, error) {
	for _, loan := range l.loans {
		if loan.ID == id {
			return copyLoan(loan), nil
		}
	}
	return nil, fmt.Errorf("%s: %w", id, ErrLoanNotFound)
}

func (l *Ledger) findRepayment(id string) (*models.Repayment, error) {
	for _, r := range l.repayments {
		if r.ID == id {
			return copyRepayment(r), nil
		}
	}
	return nil, fmt.Errorf("%s: %w", id, ErrRepaymentNotFound)
}

func customerIDs(customers []*models.Customer) []string {
	ids := make([]string, 0, len(customers))
	for _, c := range customers {
		ids = append(ids, c.ID)
	}
	return ids
}

func loanIDs(loans []*models.Loan) []string {
	ids := make([]string, 0, len(loans))
	for _, l := range loans {
		ids = append(ids, l.ID)
	}
	return ids
}

func repaymentIDs(repayments []*models.Repayment) []string {
	ids := make([]string, 0, len(repayments))
	for _, r := range repayments {
		ids = append(ids, r.ID)
	}
	return ids
}

func receiptIDs(repayments []*models.Repayment) []string {
	ids := make([]string, 0, len(repayments))
	for _, r := range repayments {
		ids = append(ids, r.ReceiptID)
	}
	return ids
}

func historyIDs(history []*models.HistoryItem) []string {
	ids := make([]string, 0, len(history))
	for _, h := range history {
		ids = append(ids, h.ID)
	}
	return ids
}

func fundTransactionIDs(transactions []*models.FundTransaction) []string {
	ids := make([]string, 0, len(transactions))
	for _, t := range transactions {
		ids = append(ids, t.ID)
	}
	return ids
}
