package store

import (
	"reflect"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/patelfin/lendbook/pkg/models"
)

var recordDate = time.Date(2024, 6, 15, 10, 30, 0, 0, time.UTC)

func TestCustomerRecordRoundTrip(t *testing.T) {
	customer := &models.Customer{
		ID:              "CID001",
		Name:            "Ramesh",
		City:            "Rajkot",
		Mobile:          "9800000001",
		FirstLoanDate:   recordDate,
		TotalLoanAmount: decimal.NewFromInt(10000),
		TotalInterest:   decimal.NewFromInt(1200),
		LoanItem:        "gold ring",
		Notes:           "regular customer",
		InterestRate:    decimal.RequireFromString("12.5"),
		PaidAmount:      decimal.NewFromInt(600),
		RemainingAmount: decimal.NewFromInt(10600),
	}

	got, err := NewCustomerRecord(customer).Model()
	if err != nil {
		t.Fatalf("Failed to convert record back: %v", err)
	}
	if !reflect.DeepEqual(got, customer) {
		t.Errorf("Round trip changed customer:\n got %+v\nwant %+v", got, customer)
	}
}

func TestCustomerRecordBadDecimal(t *testing.T) {
	r := NewCustomerRecord(&models.Customer{ID: "CID001"})
	r.TotalLoanAmount = "not a number"
	if _, err := r.Model(); err == nil {
		t.Error("Expected error for unparseable amount")
	}
}

func TestLoanRecordRoundTrip(t *testing.T) {
	loan := &models.Loan{
		ID:              "L001",
		CustomerID:      "CID001",
		CustomerName:    "Ramesh",
		Amount:          decimal.NewFromInt(10000),
		InterestRate:    decimal.NewFromInt(12),
		StartDate:       recordDate,
		Status:          models.LoanStatusCompleted,
		TotalInterest:   decimal.NewFromInt(0),
		PaidAmount:      decimal.NewFromInt(10000),
		RemainingAmount: decimal.NewFromInt(0),
		LoanItem:        "silver chain",
	}

	got, err := NewLoanRecord(loan).Model()
	if err != nil {
		t.Fatalf("Failed to convert record back: %v", err)
	}
	if !reflect.DeepEqual(got, loan) {
		t.Errorf("Round trip changed loan:\n got %+v\nwant %+v", got, loan)
	}
}

func TestRepaymentRecordRoundTrip(t *testing.T) {
	repayment := &models.Repayment{
		ID:                 "R001",
		CustomerID:         "CID001",
		CustomerName:       "Ramesh",
		Amount:             decimal.NewFromInt(500),
		InterestInfo:       decimal.NewFromInt(500),
		DiscountGiven:      decimal.NewFromInt(100),
		Date:               recordDate,
		ReceiptID:          "RCP001",
		Notes:              "partial payment",
		VerificationImages: []string{"img-1.jpg", "img-2.jpg"},
	}

	record, err := NewRepaymentRecord(repayment)
	if err != nil {
		t.Fatalf("Failed to build record: %v", err)
	}
	if record.VerificationImages != `["img-1.jpg","img-2.jpg"]` {
		t.Errorf("Unexpected image encoding %q", record.VerificationImages)
	}

	got, err := record.Model()
	if err != nil {
		t.Fatalf("Failed to convert record back: %v", err)
	}
	if !reflect.DeepEqual(got, repayment) {
		t.Errorf("Round trip changed repayment:\n got %+v\nwant %+v", got, repayment)
	}
}

func TestRepaymentRecordNoImages(t *testing.T) {
	repayment := &models.Repayment{
		ID:            "R002",
		Amount:        decimal.NewFromInt(200),
		InterestInfo:  decimal.Zero,
		DiscountGiven: decimal.Zero,
		Date:          recordDate,
	}

	record, err := NewRepaymentRecord(repayment)
	if err != nil {
		t.Fatalf("Failed to build record: %v", err)
	}
	if record.VerificationImages != "[]" {
		t.Errorf("Expected empty list encoding, got %q", record.VerificationImages)
	}

	got, err := record.Model()
	if err != nil {
		t.Fatalf("Failed to convert record back: %v", err)
	}
	if got.VerificationImages != nil {
		t.Errorf("Expected nil images, got %v", got.VerificationImages)
	}
}

func TestFundTransactionRecordRoundTrip(t *testing.T) {
	transaction := &models.FundTransaction{
		ID:     "F001",
		Type:   models.FundTransactionRemove,
		Amount: decimal.NewFromInt(20000),
		Reason: "owner draw",
		Date:   recordDate,
	}

	got, err := NewFundTransactionRecord(transaction).Model()
	if err != nil {
		t.Fatalf("Failed to convert record back: %v", err)
	}
	if !reflect.DeepEqual(got, transaction) {
		t.Errorf("Round trip changed fund transaction:\n got %+v\nwant %+v", got, transaction)
	}
}

func TestHistoryRecordRoundTrip(t *testing.T) {
	item := &models.HistoryItem{
		ID:           "H001",
		Type:         models.HistoryPaymentReceived,
		CustomerID:   "CID001",
		CustomerName: "Ramesh",
		Amount:       decimal.NewFromInt(500),
		Date:         recordDate,
		Status:       "completed",
		Description:  "loan repayment",
	}

	got, err := NewHistoryRecord(item).Model()
	if err != nil {
		t.Fatalf("Failed to convert record back: %v", err)
	}
	if !reflect.DeepEqual(got, item) {
		t.Errorf("Round trip changed history item:\n got %+v\nwant %+v", got, item)
	}
}
