package dto

import (
	"time"

	"github.com/iho/memledger/internal/domain"
	"github.com/iho/memledger/internal/usecase"
)

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	AccountID string    `json:"accountId"`
	Balance   string    `json:"balance"`
	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AccountFromDomain converts a domain account to response.
func AccountFromDomain(a *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID: a.ID,
		Balance:   a.Balance.String(),
		Version:   a.Version,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

// AccountsFromDomain converts domain accounts to responses.
func AccountsFromDomain(accounts []*domain.Account) []AccountResponse {
	result := make([]AccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = AccountFromDomain(a)
	}

	return result
}

// ListAccountsResponse represents a page of accounts.
type ListAccountsResponse struct {
	Accounts []AccountResponse `json:"accounts"`
	Limit    int               `json:"limit"`
	Offset   int               `json:"offset"`
}

// TransferResponse represents the outcome of a transfer request.
type TransferResponse struct {
	TransferID        string    `json:"transferId"`
	SenderAccountID   string    `json:"senderAccountId"`
	ReceiverAccountID string    `json:"receiverAccountId"`
	TransferAmount    string    `json:"transferAmount"`
	Status            string    `json:"status"`
	Message           string    `json:"message"`
	CreatedAt         time.Time `json:"createdAt"`
}

// TransferFromDomain converts a transfer result to response.
func TransferFromDomain(t *domain.TransferResult) TransferResponse {
	return TransferResponse{
		TransferID:        t.ID,
		SenderAccountID:   t.SenderAccountID,
		ReceiverAccountID: t.ReceiverAccountID,
		TransferAmount:    t.Amount.String(),
		Status:            string(t.Status),
		Message:           t.Message(),
		CreatedAt:         t.CreatedAt,
	}
}

// ConsistencyResponse represents a ledger consistency report.
type ConsistencyResponse struct {
	Status           string `json:"status"`
	TotalBalance     string `json:"totalBalance"`
	TotalFunded      string `json:"totalFunded"`
	NegativeAccounts int    `json:"negativeAccounts"`
}

// ConsistencyFromReport converts a consistency report to response.
func ConsistencyFromReport(r *usecase.ConsistencyReport) ConsistencyResponse {
	status := "consistent"
	if !r.Consistent {
		status = "inconsistent"
	}

	return ConsistencyResponse{
		Status:           status,
		TotalBalance:     r.TotalBalance.String(),
		TotalFunded:      r.TotalFunded.String(),
		NegativeAccounts: r.NegativeAccounts,
	}
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
