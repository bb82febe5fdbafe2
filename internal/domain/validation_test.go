package domain

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestValidateAccountID(t *testing.T) {
	t.Parallel()

	t.Run("valid id", func(t *testing.T) {
		if err := ValidateAccountID("Id-123"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})

	t.Run("empty id rejected", func(t *testing.T) {
		err := ValidateAccountID("   ")
		if !errors.Is(err, ErrInvalidAccountID) {
			t.Fatalf("expected ErrInvalidAccountID, got %v", err)
		}
	})

	t.Run("id too long", func(t *testing.T) {
		err := ValidateAccountID(strings.Repeat("a", MaxAccountIDLength+1))
		if !errors.Is(err, ErrInvalidAccountID) {
			t.Fatalf("expected ErrInvalidAccountID, got %v", err)
		}
	})

	t.Run("id with whitespace", func(t *testing.T) {
		err := ValidateAccountID("Id 123")
		if !errors.Is(err, ErrInvalidAccountID) {
			t.Fatalf("expected ErrInvalidAccountID, got %v", err)
		}
	})
}

func TestValidateOpeningBalance(t *testing.T) {
	t.Parallel()

	if err := ValidateOpeningBalance(decimal.Zero); err != nil {
		t.Fatalf("expected zero balance to be valid, got %v", err)
	}

	if err := ValidateOpeningBalance(decimal.RequireFromString("1000.50")); err != nil {
		t.Fatalf("expected 1000.50 to be valid, got %v", err)
	}

	if err := ValidateOpeningBalance(decimal.NewFromInt(-1)); !errors.Is(err, ErrNegativeBalance) {
		t.Fatalf("expected ErrNegativeBalance, got %v", err)
	}

	if err := ValidateOpeningBalance(decimal.RequireFromString("1.001")); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected scale error, got %v", err)
	}
}

func TestValidateAmount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		amount  string
		wantErr bool
	}{
		{"minimum unit", "0.01", false},
		{"integer", "200", false},
		{"trailing zeros", "1.500", false},
		{"zero", "0", true},
		{"negative", "-1", true},
		{"too many decimals", "0.001", true},
		{"above maximum", "1000000000000.01", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAmount(decimal.RequireFromString(tt.amount))
			if tt.wantErr && !errors.Is(err, ErrInvalidAmount) {
				t.Fatalf("expected ErrInvalidAmount for %s, got %v", tt.amount, err)
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error for %s: %v", tt.amount, err)
			}
		})
	}
}

func TestValidatePagination(t *testing.T) {
	t.Parallel()

	limit, offset := ValidatePagination(0, -5)
	if limit != 20 || offset != 0 {
		t.Fatalf("expected defaults 20/0, got %d/%d", limit, offset)
	}

	limit, _ = ValidatePagination(1000, 0)
	if limit != 100 {
		t.Fatalf("expected limit capped at 100, got %d", limit)
	}
}

func TestTransferNotifications(t *testing.T) {
	t.Parallel()

	sender := Account{ID: "123"}
	receiver := Account{ID: "456"}

	msgs := TransferNotifications("tx-1", sender, receiver, decimal.NewFromInt(200))
	if len(msgs) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(msgs))
	}

	if msgs[0].Account.ID != "123" || !strings.Contains(msgs[0].Message, "200.00$") || !strings.Contains(msgs[0].Message, "debited") {
		t.Fatalf("unexpected sender notification: %+v", msgs[0])
	}

	if msgs[1].Account.ID != "456" || !strings.Contains(msgs[1].Message, "200.00$") || !strings.Contains(msgs[1].Message, "credited") {
		t.Fatalf("unexpected receiver notification: %+v", msgs[1])
	}

	if msgs[0].TransferID != "tx-1" || msgs[1].TransferID != "tx-1" {
		t.Fatal("expected transfer id on both notifications")
	}
}
