package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Notification is a single textual message addressed to one account holder.
type Notification struct {
	TransferID string
	Account    Account
	Message    string
}

// TransferNotifications builds the debit and credit messages for a completed transfer.
func TransferNotifications(transferID string, sender, receiver Account, amount decimal.Decimal) []Notification {
	return []Notification{
		{
			TransferID: transferID,
			Account:    sender,
			Message:    fmt.Sprintf("%s$ has been debited from your account towards %s", amount.StringFixed(MoneyScale), receiver.ID),
		},
		{
			TransferID: transferID,
			Account:    receiver,
			Message:    fmt.Sprintf("%s$ has been credited to your account from %s", amount.StringFixed(MoneyScale), sender.ID),
		},
	}
}
