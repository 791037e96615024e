package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/susu3304/classbot/internal/model"
)

func (db *DB) CreateBroadcast(ctx context.Context, b *model.Broadcast) error {
	err := db.queryRow(ctx,
		`INSERT INTO broadcasts (kind, sender_id, sender_name, body, sent_at, recipient_count)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		string(b.Kind), b.SenderID, b.SenderName, b.Body, b.SentAt, b.RecipientCount,
	).Scan(&b.ID)
	if err != nil {
		return fmt.Errorf("failed to insert broadcast: %w", err)
	}
	return nil
}

// RecentBroadcasts returns the latest broadcasts of one kind, newest first.
func (db *DB) RecentBroadcasts(ctx context.Context, kind model.BroadcastKind, limit int) ([]model.Broadcast, error) {
	rows, err := db.query(ctx,
		`SELECT id, kind, sender_id, sender_name, body, sent_at, recipient_count
		 FROM broadcasts WHERE kind = $1
		 ORDER BY sent_at DESC, id DESC LIMIT $2`,
		string(kind), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list broadcasts: %w", err)
	}
	defer rows.Close()

	var out []model.Broadcast
	for rows.Next() {
		var b model.Broadcast
		var k string
		if err := rows.Scan(&b.ID, &k, &b.SenderID, &b.SenderName, &b.Body, &b.SentAt, &b.RecipientCount); err != nil {
			return nil, err
		}
		b.Kind = model.BroadcastKind(k)
		b.SentAt = b.SentAt.UTC()
		out = append(out, b)
	}
	return out, rows.Err()
}

func (db *DB) CreateThreadMessage(ctx context.Context, m *model.ThreadMessage) error {
	err := db.queryRow(ctx,
		`INSERT INTO thread_messages (direction, sender_id, sender_name, recipient_id, body, sent_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		string(m.Direction), m.SenderID, m.SenderName, m.RecipientID, m.Body, m.SentAt,
	).Scan(&m.ID)
	if err != nil {
		return fmt.Errorf("failed to insert thread message: %w", err)
	}
	return nil
}

const threadColumns = "id, direction, sender_id, sender_name, recipient_id, body, sent_at"

func scanThreadMessage(row interface{ Scan(...any) error }) (*model.ThreadMessage, error) {
	var m model.ThreadMessage
	var dir string
	if err := row.Scan(&m.ID, &dir, &m.SenderID, &m.SenderName, &m.RecipientID, &m.Body, &m.SentAt); err != nil {
		return nil, err
	}
	m.Direction = model.Direction(dir)
	m.SentAt = m.SentAt.UTC()
	return &m, nil
}

func (db *DB) GetThreadMessage(ctx context.Context, id int64) (*model.ThreadMessage, error) {
	m, err := scanThreadMessage(db.queryRow(ctx,
		"SELECT "+threadColumns+" FROM thread_messages WHERE id = $1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get thread message %d: %w", id, err)
	}
	return m, nil
}

// Inbox lists messages in one direction addressed to recipientID. For
// ToTeacher it also includes messages addressed to every teacher.
func (db *DB) Inbox(ctx context.Context, dir model.Direction, recipientID int64, limit int) ([]model.ThreadMessage, error) {
	query := "SELECT " + threadColumns + " FROM thread_messages WHERE direction = $1 AND recipient_id = $2"
	if dir == model.ToTeacher {
		query = "SELECT " + threadColumns + " FROM thread_messages WHERE direction = $1 AND (recipient_id = $2 OR recipient_id = 0)"
	}
	rows, err := db.query(ctx, query+" ORDER BY sent_at DESC, id DESC LIMIT $3", string(dir), recipientID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list inbox: %w", err)
	}
	defer rows.Close()

	var out []model.ThreadMessage
	for rows.Next() {
		m, err := scanThreadMessage(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	return out, rows.Err()
}

// RecordDeliveries appends all delivery rows in one transaction.
func (db *DB) RecordDeliveries(ctx context.Context, deliveries []model.Delivery) error {
	if len(deliveries) == 0 {
		return nil
	}
	t, err := db.begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = t.Rollback() }()

	for _, d := range deliveries {
		if _, err := t.exec(ctx,
			`INSERT INTO deliveries (message_type, message_id, recipient_id, delivered, reason, sent_at)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			d.MessageType, d.MessageID, d.RecipientID, d.Delivered, d.Reason, d.SentAt,
		); err != nil {
			return fmt.Errorf("failed to record delivery to %d: %w", d.RecipientID, err)
		}
	}
	return t.Commit()
}

func (db *DB) Deliveries(ctx context.Context, messageType string, messageID int64) ([]model.Delivery, error) {
	rows, err := db.query(ctx,
		`SELECT message_type, message_id, recipient_id, delivered, reason, sent_at
		 FROM deliveries WHERE message_type = $1 AND message_id = $2
		 ORDER BY recipient_id`,
		messageType, messageID)
	if err != nil {
		return nil, fmt.Errorf("failed to list deliveries: %w", err)
	}
	defer rows.Close()

	var out []model.Delivery
	for rows.Next() {
		var d model.Delivery
		if err := rows.Scan(&d.MessageType, &d.MessageID, &d.RecipientID, &d.Delivered, &d.Reason, &d.SentAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// SetRecipientCount stores how many recipients a broadcast was delivered to.
func (db *DB) SetRecipientCount(ctx context.Context, broadcastID int64, n int) error {
	_, err := db.exec(ctx, "UPDATE broadcasts SET recipient_count = $2 WHERE id = $1", broadcastID, n)
	return err
}
