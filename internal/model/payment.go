package model

import "time"

type PaymentStatus string

const (
	StatusPending   PaymentStatus = "pending"
	StatusPaid      PaymentStatus = "paid"
	StatusConfirmed PaymentStatus = "confirmed"
	StatusRejected  PaymentStatus = "rejected"
	StatusCannotPay PaymentStatus = "cannot_pay"
)

var transitions = map[PaymentStatus][]PaymentStatus{
	StatusPending: {StatusPaid, StatusCannotPay},
	StatusPaid:    {StatusConfirmed, StatusRejected},
}

// CanTransition reports whether a payment may move from s to next.
func (s PaymentStatus) CanTransition(next PaymentStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type Payment struct {
	ID           int64         `json:"id"`
	CollectionID int64         `json:"collection_id"`
	ParentID     int64         `json:"parent_id"`
	ParentName   string        `json:"parent_name"`
	Amount       int64         `json:"amount"`
	CommentCode  string        `json:"comment_code"`
	Status       PaymentStatus `json:"status"`
	PaidAt       *time.Time    `json:"paid_at,omitempty"`
	ConfirmedBy  int64         `json:"confirmed_by,omitempty"`
	ConfirmedAt  *time.Time    `json:"confirmed_at,omitempty"`
	Notes        string        `json:"notes,omitempty"`
	RemindedAt   *time.Time    `json:"reminded_at,omitempty"`
}

// PaymentView is a payment joined with the fields of its collection that
// listings and notifications need.
type PaymentView struct {
	Payment
	CollectionTitle string     `json:"collection_title"`
	CollectionOwner int64      `json:"collection_owner"`
	Phone           string     `json:"phone"`
	PurposeCode     string     `json:"purpose_code"`
	Deadline        *time.Time `json:"deadline,omitempty"`
}
