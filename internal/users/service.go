// Package users tracks the people interacting with the assistant,
// keyed by their chat identifier.
package users

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// User is one known chat participant.
type User struct {
	ChatID      int64     `json:"chat_id"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Username    string    `json:"username"`
	PhoneNumber string    `json:"phone_number"`
	CreatedAt   time.Time `json:"created_at"`
}

// DB is the subset of the pgx pool the service needs.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Service manages the user registry.
type Service struct {
	db     DB
	logger *slog.Logger
}

// NewService creates a new user service.
func NewService(log *slog.Logger, db DB) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		db:     db,
		logger: log.With(slog.String("service", "users")),
	}
}

// EnsureUser registers a user if not already known. It reports whether a
// new row was created; re-registering is a no-op.
func (s *Service) EnsureUser(ctx context.Context, chatID int64, firstName, lastName, username string) (bool, error) {
	const q = `INSERT INTO users (chat_id, first_name, last_name, username, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (chat_id) DO NOTHING`
	tag, err := s.db.Exec(ctx, q, chatID, firstName, lastName, username, time.Now().UTC())
	if err != nil {
		return false, fmt.Errorf("insert user: %w", err)
	}
	created := tag.RowsAffected() > 0
	if created {
		s.logger.Info("registered user", slog.Int64("chat_id", chatID), slog.String("username", username))
	}
	return created, nil
}

// SetPhoneNumber attaches a phone number to a known user. It reports
// whether a matching user existed.
func (s *Service) SetPhoneNumber(ctx context.Context, chatID int64, phoneNumber string) (bool, error) {
	const q = `UPDATE users SET phone_number = $2 WHERE chat_id = $1`
	tag, err := s.db.Exec(ctx, q, chatID, phoneNumber)
	if err != nil {
		return false, fmt.Errorf("update phone number: %w", err)
	}
	updated := tag.RowsAffected() > 0
	if updated {
		s.logger.Info("stored phone number", slog.Int64("chat_id", chatID))
	}
	return updated, nil
}

// Get returns a user by chat identifier, or pgx.ErrNoRows when unknown.
func (s *Service) Get(ctx context.Context, chatID int64) (User, error) {
	const q = `SELECT chat_id, first_name, last_name, username, COALESCE(phone_number, ''), created_at
		FROM users WHERE chat_id = $1`
	var u User
	err := s.db.QueryRow(ctx, q, chatID).Scan(&u.ChatID, &u.FirstName, &u.LastName, &u.Username, &u.PhoneNumber, &u.CreatedAt)
	if err != nil {
		return User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}
