package dto

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestCreateTransferRequest_Decode(t *testing.T) {
	body := `{"senderAccountId":"123","receiverAccountId":"456","transferAmount":200.50,"note":"ignored"}`

	var req CreateTransferRequest
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	if err := req.Validate(); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}

	input := req.ToUseCaseInput()
	if input.SenderAccountID != "123" || input.ReceiverAccountID != "456" {
		t.Fatalf("unexpected ids: %+v", input)
	}
	if !input.Amount.Equal(decimal.RequireFromString("200.5")) {
		t.Fatalf("unexpected amount %s", input.Amount)
	}
}

func TestCreateTransferRequest_Validate(t *testing.T) {
	amount := decimal.NewFromInt(10)
	zero := decimal.Zero
	negative := decimal.NewFromInt(-1)
	fractional := decimal.RequireFromString("0.001")
	huge := decimal.RequireFromString("1000000000000.01")

	tests := []struct {
		name    string
		request CreateTransferRequest
		wantMsg string
	}{
		{
			name:    "missing sender",
			request: CreateTransferRequest{ReceiverAccountID: "456", TransferAmount: &amount},
			wantMsg: "senderAccountId is required",
		},
		{
			name:    "missing receiver",
			request: CreateTransferRequest{SenderAccountID: "123", TransferAmount: &amount},
			wantMsg: "receiverAccountId is required",
		},
		{
			name:    "missing amount",
			request: CreateTransferRequest{SenderAccountID: "123", ReceiverAccountID: "456"},
			wantMsg: "transferAmount is required",
		},
		{
			name:    "same account",
			request: CreateTransferRequest{SenderAccountID: "123", ReceiverAccountID: "123", TransferAmount: &amount},
			wantMsg: "receiverAccountId must differ from senderAccountId",
		},
		{
			name:    "zero amount",
			request: CreateTransferRequest{SenderAccountID: "123", ReceiverAccountID: "456", TransferAmount: &zero},
			wantMsg: "transferAmount must be greater than zero",
		},
		{
			name:    "negative amount",
			request: CreateTransferRequest{SenderAccountID: "123", ReceiverAccountID: "456", TransferAmount: &negative},
			wantMsg: "transferAmount must be greater than zero",
		},
		{
			name:    "too many decimal places",
			request: CreateTransferRequest{SenderAccountID: "123", ReceiverAccountID: "456", TransferAmount: &fractional},
			wantMsg: "transferAmount must have at most 2 decimal places",
		},
		{
			name:    "above maximum",
			request: CreateTransferRequest{SenderAccountID: "123", ReceiverAccountID: "456", TransferAmount: &huge},
			wantMsg: "transferAmount must be at most 1000000000000",
		},
		{
			name: "id too long",
			request: CreateTransferRequest{
				SenderAccountID:   strings.Repeat("a", 256),
				ReceiverAccountID: "456",
				TransferAmount:    &amount,
			},
			wantMsg: "senderAccountId must be at most 255 characters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Fatalf("expected %q in %q", tt.wantMsg, err.Error())
			}
		})
	}
}

func TestCreateAccountRequest_Validate(t *testing.T) {
	balance := decimal.NewFromInt(1000)

	valid := CreateAccountRequest{AccountID: "123", Balance: &balance}
	if err := valid.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	input := valid.ToUseCaseInput()
	if input.ID != "123" || !input.Balance.Equal(balance) {
		t.Fatalf("unexpected input %+v", input)
	}

	missingBalance := CreateAccountRequest{AccountID: "123"}
	if err := missingBalance.Validate(); err == nil || !strings.Contains(err.Error(), "balance is required") {
		t.Fatalf("expected missing balance error, got %v", err)
	}

	missingID := CreateAccountRequest{Balance: &balance}
	if err := missingID.Validate(); err == nil || !strings.Contains(err.Error(), "accountId is required") {
		t.Fatalf("expected missing id error, got %v", err)
	}
}
