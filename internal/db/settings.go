package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/susu3304/classbot/internal/model"
)

func (db *DB) GetPaymentSettings(ctx context.Context, teacherID int64) (*model.PaymentSettings, error) {
	var s model.PaymentSettings
	err := db.queryRow(ctx,
		"SELECT teacher_id, phone, notify, updated_at FROM payment_settings WHERE teacher_id = $1",
		teacherID,
	).Scan(&s.TeacherID, &s.Phone, &s.Notify, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get payment settings: %w", err)
	}
	s.UpdatedAt = s.UpdatedAt.UTC()
	return &s, nil
}

// SavePaymentSettings reads the teacher's row and then updates or inserts it
// inside one transaction. The last write wins.
func (db *DB) SavePaymentSettings(ctx context.Context, s *model.PaymentSettings) error {
	t, err := db.begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = t.Rollback() }()

	var existing int64
	err = t.queryRow(ctx, "SELECT teacher_id FROM payment_settings WHERE teacher_id = $1", s.TeacherID).Scan(&existing)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		_, err = t.exec(ctx,
			"INSERT INTO payment_settings (teacher_id, phone, notify, updated_at) VALUES ($1, $2, $3, $4)",
			s.TeacherID, s.Phone, s.Notify, s.UpdatedAt)
	case err == nil:
		_, err = t.exec(ctx,
			"UPDATE payment_settings SET phone = $2, notify = $3, updated_at = $4 WHERE teacher_id = $1",
			s.TeacherID, s.Phone, s.Notify, s.UpdatedAt)
	}
	if err != nil {
		return fmt.Errorf("failed to save payment settings: %w", err)
	}

	return t.Commit()
}
