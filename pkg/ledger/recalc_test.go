package ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/patelfin/lendbook/pkg/models"
)

var recalcStart = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func yearLater() time.Time {
	return recalcStart.Add(365 * 24 * time.Hour)
}

func testCustomer(id string) *models.Customer {
	return &models.Customer{
		ID:            id,
		Name:          "Test Customer",
		FirstLoanDate: recalcStart,
		InterestRate:  decimal.NewFromInt(12),
	}
}

func testLoan(id, customerID string, amount int64) *models.Loan {
	return &models.Loan{
		ID:           id,
		CustomerID:   customerID,
		Amount:       decimal.NewFromInt(amount),
		InterestRate: decimal.NewFromInt(12),
		StartDate:    recalcStart,
		Status:       models.LoanStatusActive,
	}
}

func TestRecalculateCustomerTotals(t *testing.T) {
	customer := testCustomer("CID001")
	loan := testLoan("L001", "CID001", 10000)
	repayment := &models.Repayment{
		ID:            "R001",
		CustomerID:    "CID001",
		Amount:        decimal.NewFromInt(500),
		DiscountGiven: decimal.NewFromInt(100),
		InterestInfo:  decimal.NewFromInt(600),
	}

	Recalculate([]*models.Customer{customer}, []*models.Loan{loan}, []*models.Repayment{repayment}, yearLater())

	if !customer.TotalLoanAmount.Equal(decimal.NewFromInt(10000)) {
		t.Errorf("Expected total loan amount 10000, got %s", customer.TotalLoanAmount)
	}
	if !customer.TotalInterest.Equal(decimal.NewFromInt(1200)) {
		t.Errorf("Expected total interest 1200, got %s", customer.TotalInterest)
	}
	if !customer.PaidAmount.Equal(decimal.NewFromInt(500)) {
		t.Errorf("Expected paid amount 500, got %s", customer.PaidAmount)
	}
	// 10000 + 1200 - (500 + 100)
	if !customer.RemainingAmount.Equal(decimal.NewFromInt(10600)) {
		t.Errorf("Expected remaining 10600, got %s", customer.RemainingAmount)
	}
}

func TestRecalculateRepaymentReducesInterestBeforePrincipal(t *testing.T) {
	customer := testCustomer("CID001")
	loan := testLoan("L001", "CID001", 10000)

	Recalculate([]*models.Customer{customer}, []*models.Loan{loan}, nil, yearLater())
	before := customer.RemainingAmount

	repayment := &models.Repayment{
		ID:            "R001",
		CustomerID:    "CID001",
		Amount:        decimal.NewFromInt(500),
		DiscountGiven: decimal.NewFromInt(100),
		InterestInfo:  decimal.NewFromInt(600),
	}
	Recalculate([]*models.Customer{customer}, []*models.Loan{loan}, []*models.Repayment{repayment}, yearLater())

	if !before.Sub(customer.RemainingAmount).Equal(decimal.NewFromInt(600)) {
		t.Errorf("Expected remaining to drop by 600, dropped by %s", before.Sub(customer.RemainingAmount))
	}
	// Principal untouched: the effective value did not exceed outstanding interest.
	if !customer.TotalLoanAmount.Equal(decimal.NewFromInt(10000)) {
		t.Errorf("Expected principal 10000, got %s", customer.TotalLoanAmount)
	}
}

func TestRecalculateCompletedLoanFrozen(t *testing.T) {
	customer := testCustomer("CID001")
	loan := testLoan("L001", "CID001", 10000)
	loan.Status = models.LoanStatusCompleted

	Recalculate([]*models.Customer{customer}, []*models.Loan{loan}, nil, yearLater())

	if !loan.TotalInterest.Equal(decimal.Zero) {
		t.Errorf("Expected completed loan interest 0, got %s", loan.TotalInterest)
	}
	if !loan.RemainingAmount.Equal(decimal.Zero) {
		t.Errorf("Expected completed loan remaining 0, got %s", loan.RemainingAmount)
	}
	if loan.Status != models.LoanStatusCompleted {
		t.Errorf("Expected status to stay completed, got %s", loan.Status)
	}
	// The customer's accrual also skips the completed loan.
	if !customer.TotalInterest.Equal(decimal.Zero) {
		t.Errorf("Expected customer interest 0, got %s", customer.TotalInterest)
	}
}

func TestRecalculateAutoCompletesPaidOffLoan(t *testing.T) {
	customer := testCustomer("CID001")
	loan := testLoan("L001", "CID001", 10000)
	repayment := &models.Repayment{
		ID:         "R001",
		CustomerID: "CID001",
		Amount:     decimal.NewFromInt(11200),
	}

	Recalculate([]*models.Customer{customer}, []*models.Loan{loan}, []*models.Repayment{repayment}, yearLater())

	if loan.Status != models.LoanStatusCompleted {
		t.Errorf("Expected fully paid loan to auto-complete, got %s", loan.Status)
	}
}

func TestRecalculateOverpaymentGoesNegative(t *testing.T) {
	customer := testCustomer("CID001")
	loan := testLoan("L001", "CID001", 10000)
	repayment := &models.Repayment{
		ID:         "R001",
		CustomerID: "CID001",
		Amount:     decimal.NewFromInt(15000),
	}

	Recalculate([]*models.Customer{customer}, []*models.Loan{loan}, []*models.Repayment{repayment}, yearLater())

	// 10000 + 1200 - 15000: no clamping at zero.
	if !customer.RemainingAmount.Equal(decimal.NewFromInt(-3800)) {
		t.Errorf("Expected remaining -3800, got %s", customer.RemainingAmount)
	}
}

func TestRecalculateSharedRepaymentPoolPerLoan(t *testing.T) {
	// Two loans of one customer are each measured against the customer's
	// whole repayment stream.
	customer := testCustomer("CID001")
	loanA := testLoan("L001", "CID001", 10000)
	loanB := testLoan("L002", "CID001", 20000)
	repayment := &models.Repayment{
		ID:         "R001",
		CustomerID: "CID001",
		Amount:     decimal.NewFromInt(3000),
	}

	Recalculate([]*models.Customer{customer}, []*models.Loan{loanA, loanB}, []*models.Repayment{repayment}, yearLater())

	if !loanA.PaidAmount.Equal(decimal.NewFromInt(3000)) {
		t.Errorf("Expected loan A to see the full pool 3000, got %s", loanA.PaidAmount)
	}
	if !loanB.PaidAmount.Equal(decimal.NewFromInt(3000)) {
		t.Errorf("Expected loan B to see the full pool 3000, got %s", loanB.PaidAmount)
	}
	// The customer-level paid amount counts the repayment once.
	if !customer.PaidAmount.Equal(decimal.NewFromInt(3000)) {
		t.Errorf("Expected customer paid 3000, got %s", customer.PaidAmount)
	}
}

func TestRecalculateIgnoresOrphanRecords(t *testing.T) {
	customer := testCustomer("CID001")
	orphanLoan := testLoan("L009", "CID999", 5000)
	orphanRepayment := &models.Repayment{
		ID:         "R009",
		CustomerID: "CID999",
		Amount:     decimal.NewFromInt(700),
	}

	Recalculate([]*models.Customer{customer}, []*models.Loan{orphanLoan}, []*models.Repayment{orphanRepayment}, yearLater())

	if !customer.TotalLoanAmount.Equal(decimal.Zero) {
		t.Errorf("Expected orphan loan to be ignored, got total %s", customer.TotalLoanAmount)
	}
	if !customer.PaidAmount.Equal(decimal.Zero) {
		t.Errorf("Expected orphan repayment to be ignored, got paid %s", customer.PaidAmount)
	}
}
