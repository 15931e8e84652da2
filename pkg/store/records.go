package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/patelfin/lendbook/pkg/models"
)

// Storage records mirror the database row shape: snake_case names and TEXT
// columns for decimal fields so no precision is lost. Each entity has a
// constructor from its model and a Model method back; the pair round-trips
// every field.

type CustomerRecord struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	City            string    `json:"city"`
	Mobile          string    `json:"mobile"`
	FirstLoanDate   time.Time `json:"first_loan_date"`
	TotalLoanAmount string    `json:"total_loan_amount"`
	TotalInterest   string    `json:"total_interest"`
	LoanItem        string    `json:"loan_item"`
	Notes           string    `json:"notes"`
	InterestRate    string    `json:"interest_rate"`
	PaidAmount      string    `json:"paid_amount"`
	RemainingAmount string    `json:"remaining_amount"`
}

func NewCustomerRecord(c *models.Customer) CustomerRecord {
	return CustomerRecord{
		ID:              c.ID,
		Name:            c.Name,
		City:            c.City,
		Mobile:          c.Mobile,
		FirstLoanDate:   c.FirstLoanDate,
		TotalLoanAmount: c.TotalLoanAmount.String(),
		TotalInterest:   c.TotalInterest.String(),
		LoanItem:        c.LoanItem,
		Notes:           c.Notes,
		InterestRate:    c.InterestRate.String(),
		PaidAmount:      c.PaidAmount.String(),
		RemainingAmount: c.RemainingAmount.String(),
	}
}

func (r CustomerRecord) Model() (*models.Customer, error) {
	amounts, err := parseDecimals(r.TotalLoanAmount, r.TotalInterest, r.InterestRate, r.PaidAmount, r.RemainingAmount)
	if err != nil {
		return nil, fmt.Errorf("customer %s: %w", r.ID, err)
	}
	return &models.Customer{
		ID:              r.ID,
		Name:            r.Name,
		City:            r.City,
		Mobile:          r.Mobile,
		FirstLoanDate:   r.FirstLoanDate,
		TotalLoanAmount: amounts[0],
		TotalInterest:   amounts[1],
		LoanItem:        r.LoanItem,
		Notes:           r.Notes,
		InterestRate:    amounts[2],
		PaidAmount:      amounts[3],
		RemainingAmount: amounts[4],
	}, nil
}

type LoanRecord struct {
	ID              string    `json:"id"`
	CustomerID      string    `json:"customer_id"`
	CustomerName    string    `json:"customer_name"`
	Amount          string    `json:"amount"`
	InterestRate    string    `json:"interest_rate"`
	StartDate       time.Time `json:"start_date"`
	Status          string    `json:"status"`
	TotalInterest   string    `json:"total_interest"`
	PaidAmount      string    `json:"paid_amount"`
	RemainingAmount string    `json:"remaining_amount"`
	LoanItem        string    `json:"loan_item"`
	Notes           string    `json:"notes"`
}

func NewLoanRecord(l *models.Loan) LoanRecord {
	return LoanRecord{
		ID:              l.ID,
		CustomerID:      l.CustomerID,
		CustomerName:    l.CustomerName,
		Amount:          l.Amount.String(),
		InterestRate:    l.InterestRate.String(),
		StartDate:       l.StartDate,
		Status:          string(l.Status),
		TotalInterest:   l.TotalInterest.String(),
		PaidAmount:      l.PaidAmount.String(),
		RemainingAmount: l.RemainingAmount.String(),
		LoanItem:        l.LoanItem,
		Notes:           l.Notes,
	}
}

func (r LoanRecord) Model() (*models.Loan, error) {
	amounts, err := parseDecimals(r.Amount, r.InterestRate, r.TotalInterest, r.PaidAmount, r.RemainingAmount)
	if err != nil {
		return nil, fmt.Errorf("loan %s: %w", r.ID, err)
	}
	return &models.Loan{
		ID:              r.ID,
		CustomerID:      r.CustomerID,
		CustomerName:    r.CustomerName,
		Amount:          amounts[0],
		InterestRate:    amounts[1],
		StartDate:       r.StartDate,
		Status:          models.LoanStatus(r.Status),
		TotalInterest:   amounts[2],
		PaidAmount:      amounts[3],
		RemainingAmount: amounts[4],
		LoanItem:        r.LoanItem,
		Notes:           r.Notes,
	}, nil
}

type RepaymentRecord struct {
	ID                 string    `json:"id"`
	CustomerID         string    `json:"customer_id"`
	CustomerName       string    `json:"customer_name"`
	Amount             string    `json:"amount"`
	InterestInfo       string    `json:"interest_info"`
	DiscountGiven      string    `json:"discount_given"`
	PaymentDate        time.Time `json:"payment_date"`
	ReceiptID          string    `json:"receipt_id"`
	Notes              string    `json:"notes"`
	VerificationImages string    `json:"verification_images"` // JSON-encoded list
}

func NewRepaymentRecord(r *models.Repayment) (RepaymentRecord, error) {
	images, err := encodeImages(r.VerificationImages)
	if err != nil {
		return RepaymentRecord{}, fmt.Errorf("repayment %s: %w", r.ID, err)
	}
	return RepaymentRecord{
		ID:                 r.ID,
		CustomerID:         r.CustomerID,
		CustomerName:       r.CustomerName,
		Amount:             r.Amount.String(),
		InterestInfo:       r.InterestInfo.String(),
		DiscountGiven:      r.DiscountGiven.String(),
		PaymentDate:        r.Date,
		ReceiptID:          r.ReceiptID,
		Notes:              r.Notes,
		VerificationImages: images,
	}, nil
}

func (r RepaymentRecord) Model() (*models.Repayment, error) {
	amounts, err := parseDecimals(r.Amount, r.InterestInfo, r.DiscountGiven)
	if err != nil {
		return nil, fmt.Errorf("repayment %s: %w", r.ID, err)
	}
	images, err := decodeImages(r.VerificationImages)
	if err != nil {
		return nil, fmt.Errorf("repayment %s: %w", r.ID, err)
	}
	return &models.Repayment{
		ID:                 r.ID,
		CustomerID:         r.CustomerID,
		CustomerName:       r.CustomerName,
		Amount:             amounts[0],
		InterestInfo:       amounts[1],
		DiscountGiven:      amounts[2],
		Date:               r.PaymentDate,
		ReceiptID:          r.ReceiptID,
		Notes:              r.Notes,
		VerificationImages: images,
	}, nil
}

type FundTransactionRecord struct {
	ID              string    `json:"id"`
	TransactionType string    `json:"transaction_type"`
	Amount          string    `json:"amount"`
	Reason          string    `json:"reason"`
	TransactionDate time.Time `json:"transaction_date"`
}

func NewFundTransactionRecord(t *models.FundTransaction) FundTransactionRecord {
	return FundTransactionRecord{
		ID:              t.ID,
		TransactionType: string(t.Type),
		Amount:          t.Amount.String(),
		Reason:          t.Reason,
		TransactionDate: t.Date,
	}
}

func (r FundTransactionRecord) Model() (*models.FundTransaction, error) {
	amount, err := decimal.NewFromString(r.Amount)
	if err != nil {
		return nil, fmt.Errorf("fund transaction %s: %w", r.ID, err)
	}
	return &models.FundTransaction{
		ID:     r.ID,
		Type:   models.FundTransactionType(r.TransactionType),
		Amount: amount,
		Reason: r.Reason,
		Date:   r.TransactionDate,
	}, nil
}

type HistoryRecord struct {
	ID           string    `json:"id"`
	ActivityType string    `json:"activity_type"`
	CustomerID   string    `json:"customer_id"`
	CustomerName string    `json:"customer_name"`
	Amount       string    `json:"amount"`
	ActivityDate time.Time `json:"activity_date"`
	Status       string    `json:"status"`
	Description  string    `json:"description"`
}

func NewHistoryRecord(h *models.HistoryItem) HistoryRecord {
	return HistoryRecord{
		ID:           h.ID,
		ActivityType: string(h.Type),
		CustomerID:   h.CustomerID,
		CustomerName: h.CustomerName,
		Amount:       h.Amount.String(),
		ActivityDate: h.Date,
		Status:       h.Status,
		Description:  h.Description,
	}
}

func (r HistoryRecord) Model() (*models.HistoryItem, error) {
	amount, err := decimal.NewFromString(r.Amount)
	if err != nil {
		return nil, fmt.Errorf("history item %s: %w", r.ID, err)
	}
	return &models.HistoryItem{
		ID:           r.ID,
		Type:         models.HistoryType(r.ActivityType),
		CustomerID:   r.CustomerID,
		CustomerName: r.CustomerName,
		Amount:       amount,
		Date:         r.ActivityDate,
		Status:       r.Status,
		Description:  r.Description,
	}, nil
}

func parseDecimals(values ...string) ([]decimal.Decimal, error) {
	out := make([]decimal.Decimal, len(values))
	for i, v := range values {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return nil, fmt.Errorf("bad decimal %q: %w", v, err)
		}
		out[i] = d
	}
	return out, nil
}

func encodeImages(images []string) (string, error) {
	if len(images) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(images)
	if err != nil {
		return "", fmt.Errorf("encoding verification images: %w", err)
	}
	return string(b), nil
}

func decodeImages(raw string) ([]string, error) {
	if raw == "" || raw == "[]" {
		return nil, nil
	}
	var images []string
	if err := json.Unmarshal([]byte(raw), &images); err != nil {
		return nil, fmt.Errorf("decoding verification images: %w", err)
	}
	return images, nil
}
