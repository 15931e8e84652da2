package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type LoanStatus string

const (
	LoanStatusActive    LoanStatus = "active"
	LoanStatusCompleted LoanStatus = "completed"
)

// Customer carries both the entered terms and the derived running totals.
// The derived fields (TotalLoanAmount, TotalInterest, PaidAmount,
// RemainingAmount) are caches rebuilt by the ledger on every reload.
type Customer struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	City            string          `json:"city"`
	Mobile          string          `json:"mobile"`
	FirstLoanDate   time.Time       `json:"first_loan_date"`
	TotalLoanAmount decimal.Decimal `json:"total_loan_amount"`
	TotalInterest   decimal.Decimal `json:"total_interest"`
	LoanItem        string          `json:"loan_item"`
	Notes           string          `json:"notes"`
	InterestRate    decimal.Decimal `json:"interest_rate"` // annual percent
	PaidAmount      decimal.Decimal `json:"paid_amount"`
	RemainingAmount decimal.Decimal `json:"remaining_amount"`
}

type Loan struct {
	ID              string          `json:"id"`
	CustomerID      string          `json:"customer_id"`
	CustomerName    string          `json:"customer_name"`
	Amount          decimal.Decimal `json:"amount"`
	InterestRate    decimal.Decimal `json:"interest_rate"` // annual percent
	StartDate       time.Time       `json:"start_date"`
	Status          LoanStatus      `json:"status"`
	TotalInterest   decimal.Decimal `json:"total_interest"`
	PaidAmount      decimal.Decimal `json:"paid_amount"`
	RemainingAmount decimal.Decimal `json:"remaining_amount"`
	LoanItem        string          `json:"loan_item"`
	Notes           string          `json:"notes"`
}

// Repayment is linked to a customer, not a specific loan: a customer's loans
// share one repayment stream.
type Repayment struct {
	ID                 string          `json:"id"`
	CustomerID         string          `json:"customer_id"`
	CustomerName       string          `json:"customer_name"`
	Amount             decimal.Decimal `json:"amount"`         // cash actually received
	InterestInfo       decimal.Decimal `json:"interest_info"`  // portion allocated to interest
	DiscountGiven      decimal.Decimal `json:"discount_given"` // value forgiven, not cash
	Date               time.Time       `json:"date"`
	ReceiptID          string          `json:"receipt_id"`
	Notes              string          `json:"notes"`
	VerificationImages []string        `json:"verification_images,omitempty"`
}

type FundTransactionType string

const (
	FundTransactionAdd    FundTransactionType = "add"
	FundTransactionRemove FundTransactionType = "remove"
)

type FundTransaction struct {
	ID     string              `json:"id"`
	Type   FundTransactionType `json:"type"`
	Amount decimal.Decimal     `json:"amount"`
	Reason string              `json:"reason"`
	Date   time.Time           `json:"date"`
}

type HistoryType string

const (
	HistoryLoanGiven       HistoryType = "loan_given"
	HistoryPaymentReceived HistoryType = "payment_received"
	HistoryFundAdded       HistoryType = "fund_added"
	HistoryFundRemoved     HistoryType = "fund_removed"
)

// HistoryItem is an append-only audit record; the ledger writes one for every
// mutating operation and never updates or deletes them.
type HistoryItem struct {
	ID           string          `json:"id"`
	Type         HistoryType     `json:"type"`
	CustomerID   string          `json:"customer_id,omitempty"`
	CustomerName string          `json:"customer_name,omitempty"`
	Amount       decimal.Decimal `json:"amount"`
	Date         time.Time       `json:"date"`
	Status       string          `json:"status"`
	Description  string          `json:"description"`
}
