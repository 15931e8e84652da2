package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/patelfin/lendbook/pkg/ledger"
	"github.com/patelfin/lendbook/pkg/models"
	"github.com/patelfin/lendbook/pkg/store"
)

// Server holds the ledger instance.
type Server struct {
	ledger  *ledger.Ledger
	storage store.Storage // Keep a reference to the storage to close it
	log     *zap.Logger
}

func NewServer(s store.Storage, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		ledger:  ledger.NewLedger(s, logger.Named("ledger")),
		storage: s,
		log:     logger,
	}
}

func (s *Server) routes() *mux.Router {
	router := mux.NewRouter()
	router.Use(s.requestLogMiddleware)

	router.HandleFunc("/customers", s.listCustomersHandler).Methods("GET")
	router.HandleFunc("/customers", s.addCustomerHandler).Methods("POST")
	router.HandleFunc("/customers/{id}", s.updateCustomerHandler).Methods("PUT")
	router.HandleFunc("/customers/{id}", s.deleteCustomerHandler).Methods("DELETE")

	router.HandleFunc("/loans", s.listLoansHandler).Methods("GET")
	router.HandleFunc("/loans", s.addLoanHandler).Methods("POST")
	router.HandleFunc("/loans/{id}", s.updateLoanHandler).Methods("PUT")
	router.HandleFunc("/loans/{id}", s.deleteLoanHandler).Methods("DELETE")
	router.HandleFunc("/loans/{id}/complete", s.completeLoanHandler).Methods("POST")

	router.HandleFunc("/repayments", s.listRepaymentsHandler).Methods("GET")
	router.HandleFunc("/repayments", s.addRepaymentHandler).Methods("POST")
	router.HandleFunc("/repayments/{id}", s.updateRepaymentHandler).Methods("PUT")
	router.HandleFunc("/repayments/{id}", s.deleteRepaymentHandler).Methods("DELETE")

	router.HandleFunc("/funds", s.fundsHandler).Methods("GET")
	router.HandleFunc("/funds", s.addFundTransactionHandler).Methods("POST")

	router.HandleFunc("/history", s.historyHandler).Methods("GET")

	return router
}

// statusRecorder captures the response code for the request log.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) requestLogMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.New().String()
		w.Header().Set("X-Request-ID", requestID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)

		s.log.Info("request",
			zap.String("request_id", requestID),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ledger.ErrCustomerNotFound),
		errors.Is(err, ledger.ErrLoanNotFound),
		errors.Is(err, ledger.ErrRepaymentNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, ledger.ErrInvalidTransactionType),
		errors.Is(err, ledger.ErrLoanAlreadyCompleted):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// parseDate accepts a plain date or a full RFC 3339 timestamp.
func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", value)
	}
	return t, nil
}

func parseOptionalDate(value *string) (*time.Time, error) {
	if value == nil {
		return nil, nil
	}
	t, err := parseDate(*value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *Server) listCustomersHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.ledger.Customers())
}

func (s *Server) addCustomerHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name            string          `json:"name"`
		City            string          `json:"city"`
		Mobile          string          `json:"mobile"`
		FirstLoanDate   string          `json:"first_loan_date"`
		TotalLoanAmount decimal.Decimal `json:"total_loan_amount"`
		InterestRate    decimal.Decimal `json:"interest_rate"`
		LoanItem        string          `json:"loan_item"`
		Notes           string          `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	firstLoanDate, err := parseDate(req.FirstLoanDate)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	customer, err := s.ledger.AddCustomer(ledger.CustomerInput{
		Name:            req.Name,
		City:            req.City,
		Mobile:          req.Mobile,
		FirstLoanDate:   firstLoanDate,
		TotalLoanAmount: req.TotalLoanAmount,
		InterestRate:    req.InterestRate,
		LoanItem:        req.LoanItem,
		Notes:           req.Notes,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, customer)
}

func (s *Server) updateCustomerHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name            *string          `json:"name"`
		City            *string          `json:"city"`
		Mobile          *string          `json:"mobile"`
		FirstLoanDate   *string          `json:"first_loan_date"`
		TotalLoanAmount *decimal.Decimal `json:"total_loan_amount"`
		InterestRate    *decimal.Decimal `json:"interest_rate"`
		LoanItem        *string          `json:"loan_item"`
		Notes           *string          `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	firstLoanDate, err := parseOptionalDate(req.FirstLoanDate)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	customer, err := s.ledger.UpdateCustomer(mux.Vars(r)["id"], ledger.CustomerUpdate{
		Name:            req.Name,
		City:            req.City,
		Mobile:          req.Mobile,
		FirstLoanDate:   firstLoanDate,
		TotalLoanAmount: req.TotalLoanAmount,
		InterestRate:    req.InterestRate,
		LoanItem:        req.LoanItem,
		Notes:           req.Notes,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, customer)
}

func (s *Server) deleteCustomerHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.ledger.DeleteCustomer(mux.Vars(r)["id"]); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listLoansHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.ledger.Loans())
}

func (s *Server) addLoanHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CustomerID   string          `json:"customer_id"`
		Amount       decimal.Decimal `json:"amount"`
		InterestRate decimal.Decimal `json:"interest_rate"`
		StartDate    string          `json:"start_date"`
		LoanItem     string          `json:"loan_item"`
		Notes        string          `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	startDate, err := parseDate(req.StartDate)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	loan, err := s.ledger.AddLoan(ledger.LoanInput{
		CustomerID:   req.CustomerID,
		Amount:       req.Amount,
		InterestRate: req.InterestRate,
		StartDate:    startDate,
		LoanItem:     req.LoanItem,
		Notes:        req.Notes,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, loan)
}

func (s *Server) updateLoanHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount       *decimal.Decimal `json:"amount"`
		InterestRate *decimal.Decimal `json:"interest_rate"`
		StartDate    *string          `json:"start_date"`
		LoanItem     *string          `json:"loan_item"`
		Notes        *string          `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	startDate, err := parseOptionalDate(req.StartDate)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	loan, err := s.ledger.UpdateLoan(mux.Vars(r)["id"], ledger.LoanUpdate{
		Amount:       req.Amount,
		InterestRate: req.InterestRate,
		StartDate:    startDate,
		LoanItem:     req.LoanItem,
		Notes:        req.Notes,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, loan)
}

func (s *Server) deleteLoanHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.ledger.DeleteLoan(mux.Vars(r)["id"]); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) completeLoanHandler(w http.ResponseWriter, r *http.Request) {
	loan, err := s.ledger.CompleteLoan(mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, loan)
}

func (s *Server) listRepaymentsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.ledger.Repayments())
}

func (s *Server) addRepaymentHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CustomerID         string          `json:"customer_id"`
		Amount             decimal.Decimal `json:"amount"`
		DiscountGiven      decimal.Decimal `json:"discount_given"`
		Date               string          `json:"date"`
		Notes              string          `json:"notes"`
		VerificationImages []string        `json:"verification_images"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	repayment, err := s.ledger.AddRepayment(ledger.RepaymentInput{
		CustomerID:         req.CustomerID,
		Amount:             req.Amount,
		DiscountGiven:      req.DiscountGiven,
		Date:               date,
		Notes:              req.Notes,
		VerificationImages: req.VerificationImages,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, repayment)
}

func (s *Server) updateRepaymentHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount             *decimal.Decimal `json:"amount"`
		DiscountGiven      *decimal.Decimal `json:"discount_given"`
		Date               *string          `json:"date"`
		Notes              *string          `json:"notes"`
		VerificationImages []string         `json:"verification_images"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	date, err := parseOptionalDate(req.Date)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	repayment, err := s.ledger.UpdateRepayment(mux.Vars(r)["id"], ledger.RepaymentUpdate{
		Amount:             req.Amount,
		DiscountGiven:      req.DiscountGiven,
		Date:               date,
		Notes:              req.Notes,
		VerificationImages: req.VerificationImages,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, repayment)
}

func (s *Server) deleteRepaymentHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.ledger.DeleteRepayment(mux.Vars(r)["id"]); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) fundsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		AvailableFunds decimal.Decimal           `json:"available_funds"`
		Transactions   []*models.FundTransaction `json:"transactions"`
	}{
		AvailableFunds: s.ledger.Funds(),
		Transactions:   s.ledger.FundTransactions(),
	})
}

func (s *Server) addFundTransactionHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Type   string          `json:"type"`
		Amount decimal.Decimal `json:"amount"`
		Reason string          `json:"reason"`
		Date   string          `json:"date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	transaction, err := s.ledger.AddFundTransaction(ledger.FundTransactionInput{
		Type:   models.FundTransactionType(req.Type),
		Amount: req.Amount,
		Reason: req.Reason,
		Date:   date,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, transaction)
}

func (s *Server) historyHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.ledger.History())
}
