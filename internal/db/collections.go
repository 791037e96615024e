package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/susu3304/classbot/internal/model"
)

const collectionColumns = "id, title, description, amount, phone, purpose_code, deadline, active, created_by, created_at"

func scanCollection(row interface{ Scan(...any) error }) (*model.Collection, error) {
	var c model.Collection
	var desc sql.NullString
	var deadline sql.NullTime
	if err := row.Scan(&c.ID, &c.Title, &desc, &c.Amount, &c.Phone, &c.PurposeCode,
		&deadline, &c.Active, &c.CreatedBy, &c.CreatedAt); err != nil {
		return nil, err
	}
	c.Description = desc.String
	c.Deadline = timePtr(deadline)
	c.CreatedAt = c.CreatedAt.UTC()
	return &c, nil
}

// CreateCollection inserts c and one pending payment per parent in a single
// transaction. code derives each payment's comment code from the new
// collection id and the parent id. c.ID and c.Active are filled in.
func (db *DB) CreateCollection(ctx context.Context, c *model.Collection, parents []model.Participant, code func(collectionID, parentID int64) string) ([]model.Payment, error) {
	t, err := db.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = t.Rollback() }()

	if err := t.queryRow(ctx,
		`INSERT INTO collections (title, description, amount, phone, purpose_code, deadline, active, created_by, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, TRUE, $7, $8)
		 RETURNING id`,
		c.Title, nullString(c.Description), c.Amount, c.Phone, c.PurposeCode, nullTime(c.Deadline), c.CreatedBy, c.CreatedAt,
	).Scan(&c.ID); err != nil {
		return nil, fmt.Errorf("failed to insert collection: %w", err)
	}
	c.Active = true

	payments := make([]model.Payment, 0, len(parents))
	for _, parent := range parents {
		p := model.Payment{
			CollectionID: c.ID,
			ParentID:     parent.ID,
			ParentName:   parent.DisplayName(),
			Amount:       c.Amount,
			CommentCode:  code(c.ID, parent.ID),
			Status:       model.StatusPending,
		}
		if err := t.queryRow(ctx,
			`INSERT INTO payments (collection_id, parent_id, parent_name, amount, comment_code, status)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 RETURNING id`,
			p.CollectionID, p.ParentID, p.ParentName, p.Amount, p.CommentCode, string(p.Status),
		).Scan(&p.ID); err != nil {
			return nil, fmt.Errorf("failed to insert payment for parent %d: %w", parent.ID, err)
		}
		payments = append(payments, p)
	}

	if err := t.Commit(); err != nil {
		return nil, err
	}
	return payments, nil
}

// ActiveCollections lists the active collections created by teacherID, newest first.
func (db *DB) ActiveCollections(ctx context.Context, teacherID int64) ([]model.Collection, error) {
	rows, err := db.query(ctx,
		"SELECT "+collectionColumns+` FROM collections
		 WHERE active = TRUE AND created_by = $1
		 ORDER BY created_at DESC, id DESC`, teacherID)
	if err != nil {
		return nil, fmt.Errorf("failed to list collections: %w", err)
	}
	defer rows.Close()

	var out []model.Collection
	for rows.Next() {
		c, err := scanCollection(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

// CollectionStatuses aggregates payment statuses for each active collection
// created by teacherID.
func (db *DB) CollectionStatuses(ctx context.Context, teacherID int64) ([]model.CollectionStatus, error) {
	rows, err := db.query(ctx, `
		SELECT c.id, c.title, c.amount,
			COUNT(CASE WHEN p.status = 'confirmed' THEN 1 END),
			COUNT(CASE WHEN p.status = 'paid' THEN 1 END),
			COUNT(CASE WHEN p.status = 'cannot_pay' THEN 1 END),
			COUNT(p.id),
			CAST(COALESCE(SUM(CASE WHEN p.status = 'confirmed' THEN p.amount ELSE 0 END), 0) AS BIGINT)
		FROM collections c
		LEFT JOIN payments p ON p.collection_id = c.id
		WHERE c.active = TRUE AND c.created_by = $1
		GROUP BY c.id, c.title, c.amount, c.created_at
		ORDER BY c.created_at DESC, c.id DESC`, teacherID)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate collection statuses: %w", err)
	}
	defer rows.Close()

	var out []model.CollectionStatus
	for rows.Next() {
		var s model.CollectionStatus
		if err := rows.Scan(&s.CollectionID, &s.Title, &s.Amount,
			&s.Confirmed, &s.Paid, &s.CannotPay, &s.Total, &s.Collected); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

const paymentViewSelect = `
	SELECT p.id, p.collection_id, p.parent_id, p.parent_name, p.amount, p.comment_code, p.status,
		p.paid_at, p.confirmed_by, p.confirmed_at, p.notes, p.reminded_at,
		c.title, c.created_by, c.phone, c.purpose_code, c.deadline
	FROM payments p
	JOIN collections c ON c.id = p.collection_id`

func scanPaymentView(row interface{ Scan(...any) error }) (*model.PaymentView, error) {
	var v model.PaymentView
	var status string
	var paidAt, confirmedAt, remindedAt, deadline sql.NullTime
	var confirmedBy sql.NullInt64
	if err := row.Scan(&v.ID, &v.CollectionID, &v.ParentID, &v.ParentName, &v.Amount, &v.CommentCode, &status,
		&paidAt, &confirmedBy, &confirmedAt, &v.Notes, &remindedAt,
		&v.CollectionTitle, &v.CollectionOwner, &v.Phone, &v.PurposeCode, &deadline); err != nil {
		return nil, err
	}
	v.Status = model.PaymentStatus(status)
	v.PaidAt = timePtr(paidAt)
	v.ConfirmedBy = confirmedBy.Int64
	v.ConfirmedAt = timePtr(confirmedAt)
	v.RemindedAt = timePtr(remindedAt)
	v.Deadline = timePtr(deadline)
	return &v, nil
}

func (db *DB) listPaymentViews(ctx context.Context, query string, args ...any) ([]model.PaymentView, error) {
	rows, err := db.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	var out []model.PaymentView
	for rows.Next() {
		v, err := scanPaymentView(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *v)
	}
	return out, rows.Err()
}

func (db *DB) getPaymentView(ctx context.Context, query string, args ...any) (*model.PaymentView, error) {
	v, err := scanPaymentView(db.queryRow(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	return v, nil
}

func (db *DB) GetPayment(ctx context.Context, paymentID int64) (*model.PaymentView, error) {
	return db.getPaymentView(ctx, paymentViewSelect+" WHERE p.id = $1", paymentID)
}

func (db *DB) GetPaymentFor(ctx context.Context, collectionID, parentID int64) (*model.PaymentView, error) {
	return db.getPaymentView(ctx, paymentViewSelect+" WHERE p.collection_id = $1 AND p.parent_id = $2",
		collectionID, parentID)
}

// CollectionPayments lists every payment of one collection ordered by parent name.
func (db *DB) CollectionPayments(ctx context.Context, collectionID int64) ([]model.PaymentView, error) {
	return db.listPaymentViews(ctx, paymentViewSelect+" WHERE p.collection_id = $1 ORDER BY p.parent_name, p.id", collectionID)
}

// ParentPayments lists a parent's payments in active collections, newest
// collection first. An empty statuses slice means every status.
func (db *DB) ParentPayments(ctx context.Context, parentID int64, statuses []model.PaymentStatus) ([]model.PaymentView, error) {
	args := []any{parentID}
	where := " WHERE p.parent_id = $1 AND c.active = TRUE"
	if len(statuses) > 0 {
		placeholders := make([]string, len(statuses))
		for i, s := range statuses {
			args = append(args, string(s))
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		where += " AND p.status IN (" + strings.Join(placeholders, ", ") + ")"
	}
	return db.listPaymentViews(ctx, paymentViewSelect+where+" ORDER BY c.created_at DESC, c.id DESC", args...)
}

// TeacherPayments lists payments with the given status under collections
// created by teacherID. Resolved payments come latest resolution first.
// limit <= 0 means no limit.
func (db *DB) TeacherPayments(ctx context.Context, teacherID int64, status model.PaymentStatus, limit int) ([]model.PaymentView, error) {
	order := " ORDER BY c.created_at DESC, c.id DESC, p.id DESC"
	if status == model.StatusRejected || status == model.StatusConfirmed {
		order = " ORDER BY p.confirmed_at DESC, p.id DESC"
	}
	query := paymentViewSelect + `
		WHERE c.created_by = $1 AND p.status = $2` + order
	args := []any{teacherID, string(status)}
	if limit > 0 {
		query += " LIMIT $3"
		args = append(args, limit)
	}
	return db.listPaymentViews(ctx, query, args...)
}

// MarkPaid moves a pending payment to paid.
func (db *DB) MarkPaid(ctx context.Context, collectionID, parentID int64, at time.Time) error {
	return db.guardedUpdate(ctx,
		`UPDATE payments SET status = 'paid', paid_at = $3
		 WHERE collection_id = $1 AND parent_id = $2 AND status = 'pending'`,
		collectionID, parentID, at)
}

// MarkCannotPay moves a pending payment to cannot_pay with a note.
func (db *DB) MarkCannotPay(ctx context.Context, collectionID, parentID int64, note string) error {
	return db.guardedUpdate(ctx,
		`UPDATE payments SET status = 'cannot_pay', notes = $3
		 WHERE collection_id = $1 AND parent_id = $2 AND status = 'pending'`,
		collectionID, parentID, note)
}

// ResolvePayment confirms or rejects one paid payment belonging to one of
// teacherID's collections. An empty note keeps the existing one.
func (db *DB) ResolvePayment(ctx context.Context, teacherID, paymentID int64, status model.PaymentStatus, at time.Time, note string) error {
	if !model.StatusPaid.CanTransition(status) {
		return fmt.Errorf("invalid resolution status %q", status)
	}
	return db.guardedUpdate(ctx,
		`UPDATE payments SET status = $3, confirmed_by = $2, confirmed_at = $4, notes = COALESCE(NULLIF($5, ''), notes)
		 WHERE id = $1 AND status = 'paid'
		 AND collection_id IN (SELECT id FROM collections WHERE created_by = $2)`,
		paymentID, teacherID, string(status), at, note)
}

// ResolveAllPaid confirms or rejects every paid payment of teacherID's
// collections and returns how many rows changed.
func (db *DB) ResolveAllPaid(ctx context.Context, teacherID int64, status model.PaymentStatus, at time.Time, note string) (int64, error) {
	if !model.StatusPaid.CanTransition(status) {
		return 0, fmt.Errorf("invalid resolution status %q", status)
	}
	res, err := db.exec(ctx,
		`UPDATE payments SET status = $2, confirmed_by = $1, confirmed_at = $3, notes = COALESCE(NULLIF($4, ''), notes)
		 WHERE status = 'paid'
		 AND collection_id IN (SELECT id FROM collections WHERE created_by = $1)`,
		teacherID, string(status), at, note)
	if err != nil {
		return 0, fmt.Errorf("failed to resolve paid payments: %w", err)
	}
	return res.RowsAffected()
}

// DueReminders lists pending payments of active collections that were never
// reminded and were created before the cutoff, or were last reminded before it.
func (db *DB) DueReminders(ctx context.Context, before time.Time) ([]model.PaymentView, error) {
	return db.listPaymentViews(ctx, paymentViewSelect+`
		WHERE p.status = 'pending' AND c.active = TRUE
		AND ((p.reminded_at IS NULL AND c.created_at <= $1) OR p.reminded_at <= $1)
		ORDER BY p.parent_id, p.id`, before)
}

func (db *DB) MarkReminded(ctx context.Context, paymentID int64, at time.Time) error {
	return db.guardedUpdate(ctx, "UPDATE payments SET reminded_at = $2 WHERE id = $1", paymentID, at)
}

func (db *DB) guardedUpdate(ctx context.Context, query string, args ...any) error {
	res, err := db.exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update payment: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
