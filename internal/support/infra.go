package support

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/Vovarama1992/intickets-support/internal/dialog"
)

const schema = `
CREATE TABLE IF NOT EXISTS clients (
	id          BIGINT PRIMARY KEY,
	first_name  TEXT NOT NULL DEFAULT '',
	last_name   TEXT NOT NULL DEFAULT '',
	username    TEXT NOT NULL DEFAULT '',
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS chats (
	id          BIGINT PRIMARY KEY,
	client_id   BIGINT NOT NULL REFERENCES clients(id),
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS messages (
	id          BIGSERIAL PRIMARY KEY,
	chat_id     BIGINT NOT NULL REFERENCES chats(id),
	sender      TEXT NOT NULL,
	text        TEXT NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS messages_chat_created_idx ON messages (chat_id, created_at);

CREATE TABLE IF NOT EXISTS support_requests (
	id             UUID PRIMARY KEY,
	kind           TEXT NOT NULL,
	user_id        BIGINT NOT NULL,
	order_number   TEXT NOT NULL DEFAULT '',
	ticket_number  TEXT NOT NULL DEFAULT '',
	reason         TEXT NOT NULL DEFAULT '',
	phone          TEXT NOT NULL DEFAULT '',
	email          TEXT NOT NULL DEFAULT '',
	created_at     TIMESTAMPTZ NOT NULL
);
`

type repo struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) Repo {
	return &repo{db: db}
}

func (r *repo) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

func (r *repo) SaveClient(ctx context.Context, c Client, chatID int64) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO clients (id, first_name, last_name, username)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE
		SET first_name = EXCLUDED.first_name,
		    last_name = EXCLUDED.last_name,
		    username = EXCLUDED.username,
		    updated_at = now()
	`, c.ID, c.FirstName, c.LastName, c.Username)
	if err != nil {
		return fmt.Errorf("save client %d: %w", c.ID, err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO chats (id, client_id)
		VALUES ($1, $2)
		ON CONFLICT (id) DO NOTHING
	`, chatID, c.ID)
	if err != nil {
		return fmt.Errorf("save chat %d: %w", chatID, err)
	}
	return nil
}

func (r *repo) SaveMessage(ctx context.Context, msg *Message) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO messages (chat_id, sender, text)
		VALUES ($1, $2, $3)
	`,
		msg.ChatID,
		string(msg.Sender),
		msg.Text,
	)
	return err
}

func (r *repo) GetHistory(ctx context.Context, chatID int64, limit int) ([]Message, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, chat_id, sender, text, created_at FROM (
			SELECT id, chat_id, sender, text, created_at
			FROM messages
			WHERE chat_id = $1
			ORDER BY created_at DESC, id DESC
			LIMIT $2
		) last
		ORDER BY created_at ASC, id ASC
	`, chatID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Message
	for rows.Next() {
		var m Message
		var sender string
		if err := rows.Scan(
			&m.ID,
			&m.ChatID,
			&sender,
			&m.Text,
			&m.CreatedAt,
		); err != nil {
			return nil, err
		}
		m.Sender = Sender(sender)
		out = append(out, m)
	}

	return out, rows.Err()
}

func (r *repo) SaveRequest(ctx context.Context, req dialog.Request) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO support_requests
			(id, kind, user_id, order_number, ticket_number, reason, phone, email, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO NOTHING
	`,
		req.ID,
		string(req.Kind),
		req.UserID,
		req.OrderNumber,
		req.TicketNumber,
		req.Reason,
		req.Phone,
		req.Email,
		req.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("save request %s: %w", req.ID, err)
	}
	return nil
}

// nopRepo: без DATABASE_URL бот работает без журнала.
type nopRepo struct{}

func NewNopRepo() Repo {
	log.Println("[store] DATABASE_URL is empty, message log disabled")
	return nopRepo{}
}

func (nopRepo) EnsureSchema(context.Context) error                        { return nil }
func (nopRepo) SaveClient(context.Context, Client, int64) error           { return nil }
func (nopRepo) SaveMessage(context.Context, *Message) error               { return nil }
func (nopRepo) GetHistory(context.Context, int64, int) ([]Message, error) { return nil, nil }
func (nopRepo) SaveRequest(context.Context, dialog.Request) error         { return nil }
