package db

import (
	"context"
	"fmt"
	"strings"
)

const schema = `
CREATE TABLE IF NOT EXISTS participants (
	id BIGINT PRIMARY KEY,
	username TEXT NOT NULL DEFAULT '',
	name TEXT NOT NULL DEFAULT '',
	role TEXT NOT NULL DEFAULT 'pending',
	registered_at {{ts}} NOT NULL
);

CREATE TABLE IF NOT EXISTS payment_settings (
	teacher_id BIGINT PRIMARY KEY REFERENCES participants(id),
	phone TEXT NOT NULL,
	notify BOOLEAN NOT NULL DEFAULT TRUE,
	updated_at {{ts}} NOT NULL
);

CREATE TABLE IF NOT EXISTS collections (
	id {{pk}},
	title TEXT NOT NULL,
	description TEXT,
	amount BIGINT NOT NULL CHECK (amount > 0),
	phone TEXT NOT NULL,
	purpose_code TEXT NOT NULL,
	deadline DATE,
	active BOOLEAN NOT NULL DEFAULT TRUE,
	created_by BIGINT NOT NULL REFERENCES participants(id),
	created_at {{ts}} NOT NULL
);

CREATE TABLE IF NOT EXISTS payments (
	id {{pk}},
	collection_id BIGINT NOT NULL REFERENCES collections(id),
	parent_id BIGINT NOT NULL REFERENCES participants(id),
	parent_name TEXT NOT NULL,
	amount BIGINT NOT NULL,
	comment_code TEXT NOT NULL,
	status TEXT NOT NULL DEFAULT 'pending',
	paid_at {{ts}},
	confirmed_by BIGINT,
	confirmed_at {{ts}},
	notes TEXT NOT NULL DEFAULT '',
	reminded_at {{ts}},
	UNIQUE (collection_id, parent_id)
);

CREATE INDEX IF NOT EXISTS idx_payments_status ON payments(status);
CREATE INDEX IF NOT EXISTS idx_payments_parent ON payments(parent_id);

CREATE TABLE IF NOT EXISTS broadcasts (
	id {{pk}},
	kind TEXT NOT NULL,
	sender_id BIGINT NOT NULL,
	sender_name TEXT NOT NULL,
	body TEXT NOT NULL,
	sent_at {{ts}} NOT NULL,
	recipient_count INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS thread_messages (
	id {{pk}},
	direction TEXT NOT NULL,
	sender_id BIGINT NOT NULL,
	sender_name TEXT NOT NULL,
	recipient_id BIGINT NOT NULL DEFAULT 0,
	body TEXT NOT NULL,
	sent_at {{ts}} NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_thread_messages_recipient ON thread_messages(direction, recipient_id);

CREATE TABLE IF NOT EXISTS deliveries (
	id {{pk}},
	message_type TEXT NOT NULL,
	message_id BIGINT NOT NULL,
	recipient_id BIGINT NOT NULL,
	delivered BOOLEAN NOT NULL,
	reason TEXT NOT NULL DEFAULT '',
	sent_at {{ts}} NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_deliveries_message ON deliveries(message_type, message_id);
`

// RunMigrations creates the schema if it does not exist yet.
func (db *DB) RunMigrations(ctx context.Context) error {
	r := strings.NewReplacer("{{pk}}", "BIGSERIAL PRIMARY KEY", "{{ts}}", "TIMESTAMPTZ")
	if db.dialect == dialectSQLite {
		r = strings.NewReplacer("{{pk}}", "INTEGER PRIMARY KEY AUTOINCREMENT", "{{ts}}", "TIMESTAMP")
	}

	for _, stmt := range strings.Split(r.Replace(schema), ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to run migration: %w", err)
		}
	}
	return nil
}
