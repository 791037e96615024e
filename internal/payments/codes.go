package payments

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

var ErrInvalidPhone = errors.New("invalid phone number")

// NormalizePhone reduces a Russian mobile number to +7XXXXXXXXXX. Every
// non-digit is dropped first. An 11-digit number must start with 7 or 8;
// a 10-digit number gets the 7 prefix.
func NormalizePhone(raw string) (string, error) {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()

	switch {
	case len(digits) == 11 && digits[0] == '8':
		return "+7" + digits[1:], nil
	case len(digits) == 11 && digits[0] == '7':
		return "+" + digits, nil
	case len(digits) == 10:
		return "+7" + digits, nil
	}
	return "", ErrInvalidPhone
}

// CommentCode is the transfer comment a parent must attach to a payment.
// The parent id is written in base 36 after a separator so that codes stay
// unique for any pair of ids.
func CommentCode(collectionID, parentID int64) string {
	return fmt.Sprintf("SB%03d-%s", collectionID, strings.ToUpper(strconv.FormatInt(parentID, 36)))
}

// PurposeCode stamps a collection with its creation minute.
func PurposeCode(t time.Time) string {
	return "SB" + t.Format("01021504")
}

// SBPLink builds the fast payment system link encoded into QR images.
// phone must already be normalized.
func SBPLink(phone string, amount int64, purpose, comment string) string {
	q := url.Values{}
	q.Set("amount", strconv.FormatInt(amount, 10))
	q.Set("purpose", purpose)
	q.Set("comment", comment)
	return "https://qr.nspk.ru/AD10006M/" + strings.TrimPrefix(phone, "+") + "?" + q.Encode()
}

var ErrInvalidAmount = errors.New("amount must be a positive whole number")

// ParseAmount accepts a positive whole number of rubles. Spaces used as
// thousands separators are ignored.
func ParseAmount(text string) (int64, error) {
	s := strings.Join(strings.Fields(text), "")
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return 0, ErrInvalidAmount
	}
	return n, nil
}
