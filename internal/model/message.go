package model

import "time"

type BroadcastKind string

const (
	KindAnnouncement BroadcastKind = "announcement"
	KindHomework     BroadcastKind = "homework"
	KindForward      BroadcastKind = "forward"
)

type Broadcast struct {
	ID             int64         `json:"id"`
	Kind           BroadcastKind `json:"kind"`
	SenderID       int64         `json:"sender_id"`
	SenderName     string        `json:"sender_name"`
	Body           string        `json:"body"`
	SentAt         time.Time     `json:"sent_at"`
	RecipientCount int           `json:"recipient_count"`
}

type Direction string

const (
	ToTeacher Direction = "to_teacher"
	ToParent  Direction = "to_parent"
)

// ThreadMessage is one message of a parent/teacher conversation.
// RecipientID 0 on a ToTeacher message addresses every teacher.
type ThreadMessage struct {
	ID          int64     `json:"id"`
	Direction   Direction `json:"direction"`
	SenderID    int64     `json:"sender_id"`
	SenderName  string    `json:"sender_name"`
	RecipientID int64     `json:"recipient_id"`
	Body        string    `json:"body"`
	SentAt      time.Time `json:"sent_at"`
}

// Delivery records the outcome of sending one message to one recipient.
type Delivery struct {
	MessageType string    `json:"message_type"`
	MessageID   int64     `json:"message_id"`
	RecipientID int64     `json:"recipient_id"`
	Delivered   bool      `json:"delivered"`
	Reason      string    `json:"reason,omitempty"`
	SentAt      time.Time `json:"sent_at"`
}
