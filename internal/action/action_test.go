package action

import (
	"errors"
	"testing"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		got  string
		want string
	}{
		{QR(3, 123456789), "qr_3_123456789"},
		{Paid(3, 42), "paid_3_42"},
		{CannotPay(12, 7), "cannot_pay_12_7"},
		{ConfirmSingle(55), "confirm_single_55"},
		{RejectSingle(56), "reject_single_56"},
		{ConfirmAll(), "confirm_all"},
		{RejectAll(), "reject_all"},
		{BackToPayments(), "back_to_payments"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("got %q, want %q", tt.got, tt.want)
		}
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		payload string
		want    Action
	}{
		{"qr_3_123456789", Action{Kind: KindQR, CollectionID: 3, ParentID: 123456789}},
		{"paid_3_42", Action{Kind: KindPaid, CollectionID: 3, ParentID: 42}},
		{"cannot_pay_12_7", Action{Kind: KindCannotPay, CollectionID: 12, ParentID: 7}},
		{"confirm_single_55", Action{Kind: KindConfirmSingle, PaymentID: 55}},
		{"reject_single_56", Action{Kind: KindRejectSingle, PaymentID: 56}},
		{"confirm_all", Action{Kind: KindConfirmAll}},
		{"reject_all", Action{Kind: KindRejectAll}},
		{"back_to_payments", Action{Kind: KindBackToPayments}},
	}
	for _, tt := range tests {
		t.Run(tt.payload, func(t *testing.T) {
			got, err := Parse(tt.payload)
			if err != nil {
				t.Fatalf("Parse(%q): %v", tt.payload, err)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.payload, got, tt.want)
			}
			if s := got.String(); s != tt.payload {
				t.Errorf("String() = %q, want %q", s, tt.payload)
			}
		})
	}
}

func TestParseRejects(t *testing.T) {
	for _, payload := range []string{
		"",
		"qr_",
		"qr_1",
		"qr_1_",
		"qr_1_2_3",
		"qr_01_2",
		"qr_+1_2",
		"paid_-1_2",
		"cannot_pay_x_2",
		"confirm_single_",
		"confirm_single_1_2",
		"confirm_all_",
		"Confirm_all",
		"back",
	} {
		if _, err := Parse(payload); !errors.Is(err, ErrUnknown) {
			t.Errorf("Parse(%q) error = %v, want ErrUnknown", payload, err)
		}
	}
}
