package cash

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Instruction is everything the customer needs to complete a manual
// peer-to-peer transfer. Memo must be sent verbatim: it is the only way
// the operator can match the incoming payment to the order.
type Instruction struct {
	RecipientTag string   `json:"recipientTag"`
	Amount       string   `json:"amount"`
	Memo         string   `json:"memo"`
	Steps        []string `json:"steps"`
	Rendered     string   `json:"rendered"`
}

// Render builds the instruction set for one order. The rendered string is
// persisted on the order row so back-office reconciliation sees exactly
// what the customer was told.
func Render(recipientTag string, totalCents int64, orderCode string) Instruction {
	amount := decimal.New(totalCents, -2).StringFixed(2)
	steps := []string{
		"Open your payment app",
		fmt.Sprintf("Copy the recipient tag %s", recipientTag),
		fmt.Sprintf("Copy the exact amount %s", amount),
		fmt.Sprintf("Copy the required memo %s", orderCode),
		"Confirm and send the payment",
	}
	rendered := fmt.Sprintf("Send %s to %s with memo %s", amount, recipientTag, orderCode)
	return Instruction{
		RecipientTag: recipientTag,
		Amount:       amount,
		Memo:         orderCode,
		Steps:        steps,
		Rendered:     rendered,
	}
}
