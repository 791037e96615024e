package model

import (
	"fmt"
	"time"
)

type Role string

const (
	RolePending   Role = "pending"
	RoleParent    Role = "parent"
	RoleTeacher   Role = "teacher"
	RoleDeveloper Role = "developer"
)

type Participant struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Name         string    `json:"name"`
	Role         Role      `json:"role"`
	RegisteredAt time.Time `json:"registered_at"`
}

// DisplayName falls back to the username and then to the numeric id.
func (p Participant) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	if p.Username != "" {
		return p.Username
	}
	return fmt.Sprintf("ID%d", p.ID)
}

type Collection struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Amount      int64      `json:"amount"`
	Phone       string     `json:"phone"`
	PurposeCode string     `json:"purpose_code"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	Active      bool       `json:"active"`
	CreatedBy   int64      `json:"created_by"`
	CreatedAt   time.Time  `json:"created_at"`
}

type CollectionStatus struct {
	CollectionID int64  `json:"collection_id"`
	Title        string `json:"title"`
	Amount       int64  `json:"amount"`
	Confirmed    int    `json:"confirmed"`
	Paid         int    `json:"paid"`
	CannotPay    int    `json:"cannot_pay"`
	Total        int    `json:"total"`
	Collected    int64  `json:"collected"`
}

// NotResponded counts payments still pending or rejected.
func (s CollectionStatus) NotResponded() int {
	return s.Total - s.Confirmed - s.Paid - s.CannotPay
}

type PaymentSettings struct {
	TeacherID int64     `json:"teacher_id"`
	Phone     string    `json:"phone"`
	Notify    bool      `json:"notify"`
	UpdatedAt time.Time `json:"updated_at"`
}
