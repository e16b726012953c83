package domain

import "testing"

func TestCustomerInfoValidate(t *testing.T) {
	valid := CustomerInfo{Name: "Ada Lovelace", Email: "ada@example.com", Phone: "555-0100"}
	if err := valid.Validate(false); err != nil {
		t.Fatalf("valid info rejected: %v", err)
	}

	cases := []struct {
		name string
		info CustomerInfo
	}{
		{"missing name", CustomerInfo{Email: "ada@example.com", Phone: "555-0100"}},
		{"blank name", CustomerInfo{Name: "   ", Email: "ada@example.com", Phone: "555-0100"}},
		{"missing email", CustomerInfo{Name: "Ada", Phone: "555-0100"}},
		{"malformed email", CustomerInfo{Name: "Ada", Email: "not-an-email", Phone: "555-0100"}},
		{"email without tld", CustomerInfo{Name: "Ada", Email: "ada@example", Phone: "555-0100"}},
		{"missing phone", CustomerInfo{Name: "Ada", Email: "ada@example.com"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.info.Validate(false); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestCustomerInfoValidateShipping(t *testing.T) {
	info := CustomerInfo{Name: "Ada", Email: "ada@example.com", Phone: "555-0100"}

	// Address fields are optional when shipping is not collected.
	if err := info.Validate(false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := info.Validate(true); err == nil {
		t.Fatal("expected error when shipping fields are required but missing")
	}

	info.Address = "1 Main St"
	info.City = "Springfield"
	info.State = "IL"
	info.Zip = "62701"
	if err := info.Validate(true); err != nil {
		t.Fatalf("complete shipping info rejected: %v", err)
	}
}

func TestCanTransitionTo(t *testing.T) {
	allowed := []struct{ from, to CheckoutState }{
		{CheckoutStateCollectingInfo, CheckoutStateSelectingPayment},
		{CheckoutStateSelectingPayment, CheckoutStateExecutingPayment},
		{CheckoutStateSelectingPayment, CheckoutStateCollectingInfo},
		{CheckoutStateExecutingPayment, CheckoutStateSelectingPayment},
		{CheckoutStateExecutingPayment, CheckoutStateComplete},
	}
	for _, tc := range allowed {
		if !CanTransitionTo(tc.from, tc.to) {
			t.Errorf("%s -> %s should be allowed", tc.from, tc.to)
		}
	}

	denied := []struct{ from, to CheckoutState }{
		{CheckoutStateCollectingInfo, CheckoutStateExecutingPayment},
		{CheckoutStateCollectingInfo, CheckoutStateComplete},
		{CheckoutStateComplete, CheckoutStateExecutingPayment},
		{CheckoutStateComplete, CheckoutStateCollectingInfo},
		{CheckoutStateExecutingPayment, CheckoutStateCollectingInfo},
	}
	for _, tc := range denied {
		if CanTransitionTo(tc.from, tc.to) {
			t.Errorf("%s -> %s should be denied", tc.from, tc.to)
		}
	}

	if !CheckoutStateComplete.IsTerminal() {
		t.Error("complete must be terminal")
	}
	if CheckoutStateCollectingInfo.IsTerminal() {
		t.Error("collecting_info is not terminal")
	}
}

func TestPaymentMethodValid(t *testing.T) {
	for _, m := range []PaymentMethod{PaymentMethodCard, PaymentMethodBitcoin, PaymentMethodCash} {
		if !m.Valid() {
			t.Errorf("%s should be valid", m)
		}
	}
	for _, m := range []PaymentMethod{"", "paypal", "CARD"} {
		if m.Valid() {
			t.Errorf("%q should be invalid", m)
		}
	}
}

func TestEffectivePriceCents(t *testing.T) {
	sale := int64(3000)
	item := CartItem{UnitPriceCents: 4000}
	if item.EffectivePriceCents() != 4000 {
		t.Fatalf("expected list price, got %d", item.EffectivePriceCents())
	}
	item.SalePriceCents = &sale
	if item.EffectivePriceCents() != 3000 {
		t.Fatalf("expected sale price, got %d", item.EffectivePriceCents())
	}
}
