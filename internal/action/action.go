// Package action encodes and parses the payloads carried by inline buttons.
package action

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

type Kind int

const (
	KindQR Kind = iota + 1
	KindPaid
	KindCannotPay
	KindConfirmSingle
	KindRejectSingle
	KindConfirmAll
	KindRejectAll
	KindBackToPayments
)

// ErrUnknown is returned for payloads this package did not produce.
var ErrUnknown = errors.New("unknown action")

// Action is a parsed payload. CollectionID and ParentID are set for the
// parent actions, PaymentID for the single confirm/reject actions.
type Action struct {
	Kind         Kind
	CollectionID int64
	ParentID     int64
	PaymentID    int64
}

const (
	confirmAll     = "confirm_all"
	rejectAll      = "reject_all"
	backToPayments = "back_to_payments"
)

var pairPrefixes = []struct {
	prefix string
	kind   Kind
}{
	{"cannot_pay_", KindCannotPay},
	{"paid_", KindPaid},
	{"qr_", KindQR},
}

var singlePrefixes = []struct {
	prefix string
	kind   Kind
}{
	{"confirm_single_", KindConfirmSingle},
	{"reject_single_", KindRejectSingle},
}

func QR(collectionID, parentID int64) string {
	return fmt.Sprintf("qr_%d_%d", collectionID, parentID)
}

func Paid(collectionID, parentID int64) string {
	return fmt.Sprintf("paid_%d_%d", collectionID, parentID)
}

func CannotPay(collectionID, parentID int64) string {
	return fmt.Sprintf("cannot_pay_%d_%d", collectionID, parentID)
}

func ConfirmSingle(paymentID int64) string {
	return fmt.Sprintf("confirm_single_%d", paymentID)
}

func RejectSingle(paymentID int64) string {
	return fmt.Sprintf("reject_single_%d", paymentID)
}

func ConfirmAll() string     { return confirmAll }
func RejectAll() string      { return rejectAll }
func BackToPayments() string { return backToPayments }

// Parse decodes a payload. Only the exact forms produced by the encoders
// above are accepted.
func Parse(payload string) (Action, error) {
	switch payload {
	case confirmAll:
		return Action{Kind: KindConfirmAll}, nil
	case rejectAll:
		return Action{Kind: KindRejectAll}, nil
	case backToPayments:
		return Action{Kind: KindBackToPayments}, nil
	}

	for _, p := range pairPrefixes {
		rest, ok := strings.CutPrefix(payload, p.prefix)
		if !ok {
			continue
		}
		a, b, ok := strings.Cut(rest, "_")
		if !ok {
			return Action{}, ErrUnknown
		}
		cid, err1 := parseID(a)
		pid, err2 := parseID(b)
		if err1 != nil || err2 != nil {
			return Action{}, ErrUnknown
		}
		return Action{Kind: p.kind, CollectionID: cid, ParentID: pid}, nil
	}

	for _, p := range singlePrefixes {
		rest, ok := strings.CutPrefix(payload, p.prefix)
		if !ok {
			continue
		}
		id, err := parseID(rest)
		if err != nil {
			return Action{}, ErrUnknown
		}
		return Action{Kind: p.kind, PaymentID: id}, nil
	}

	return Action{}, ErrUnknown
}

// parseID accepts canonical non-negative decimals only, so that a parsed
// payload always re-encodes to the same string.
func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id < 0 || strconv.FormatInt(id, 10) != s {
		return 0, ErrUnknown
	}
	return id, nil
}

// String re-encodes the action.
func (a Action) String() string {
	switch a.Kind {
	case KindQR:
		return QR(a.CollectionID, a.ParentID)
	case KindPaid:
		return Paid(a.CollectionID, a.ParentID)
	case KindCannotPay:
		return CannotPay(a.CollectionID, a.ParentID)
	case KindConfirmSingle:
		return ConfirmSingle(a.PaymentID)
	case KindRejectSingle:
		return RejectSingle(a.PaymentID)
	case KindConfirmAll:
		return confirmAll
	case KindRejectAll:
		return rejectAll
	case KindBackToPayments:
		return backToPayments
	}
	return ""
}
