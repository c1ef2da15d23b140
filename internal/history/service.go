// Package history persists per-chat interaction records so every
// handled command leaves an auditable trail.
package history

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the subset of the pgx pool the service needs. *pgxpool.Pool
// satisfies it.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Service records and retrieves interaction history.
type Service struct {
	db     DB
	logger *slog.Logger
}

// NewService creates a new history service.
func NewService(log *slog.Logger, db DB) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		db:     db,
		logger: log.With(slog.String("service", "history")),
	}
}

// RecordChatTurn stores one prompt/response exchange.
func (s *Service) RecordChatTurn(ctx context.Context, chatID int64, query, response, sentiment string) error {
	const q = `INSERT INTO chat_turns (id, chat_id, user_query, bot_response, sentiment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := s.db.Exec(ctx, q, uuid.NewString(), chatID, query, response, sentiment, time.Now().UTC()); err != nil {
		return fmt.Errorf("insert chat turn: %w", err)
	}
	s.logger.Debug("recorded chat turn", slog.Int64("chat_id", chatID), slog.String("sentiment", sentiment))
	return nil
}

// RecordFileAnalysis stores one analyzed attachment.
func (s *Service) RecordFileAnalysis(ctx context.Context, chatID int64, fileName, fileType, description string) error {
	const q = `INSERT INTO file_analyses (id, chat_id, file_name, file_type, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := s.db.Exec(ctx, q, uuid.NewString(), chatID, fileName, fileType, description, time.Now().UTC()); err != nil {
		return fmt.Errorf("insert file analysis: %w", err)
	}
	s.logger.Debug("recorded file analysis", slog.Int64("chat_id", chatID), slog.String("file_name", fileName))
	return nil
}

// RecordSearchTurn stores one web search and its composed response.
func (s *Service) RecordSearchTurn(ctx context.Context, chatID int64, query, response, sentiment string) error {
	const q = `INSERT INTO search_turns (id, chat_id, user_query, bot_response, sentiment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := s.db.Exec(ctx, q, uuid.NewString(), chatID, query, response, sentiment, time.Now().UTC()); err != nil {
		return fmt.Errorf("insert search turn: %w", err)
	}
	s.logger.Debug("recorded search turn", slog.Int64("chat_id", chatID))
	return nil
}

// RecordSentimentQuery stores one sentiment classification.
func (s *Service) RecordSentimentQuery(ctx context.Context, chatID int64, query, sentiment string) error {
	const q = `INSERT INTO sentiment_queries (id, chat_id, user_query, sentiment, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	if _, err := s.db.Exec(ctx, q, uuid.NewString(), chatID, query, sentiment, time.Now().UTC()); err != nil {
		return fmt.Errorf("insert sentiment query: %w", err)
	}
	s.logger.Debug("recorded sentiment query", slog.Int64("chat_id", chatID), slog.String("sentiment", sentiment))
	return nil
}

// RecentChatTurns returns the newest chat turns for a chat, newest first.
func (s *Service) RecentChatTurns(ctx context.Context, chatID int64, limit int) ([]ChatTurn, error) {
	const q = `SELECT id, chat_id, user_query, bot_response, sentiment, created_at
		FROM chat_turns WHERE chat_id = $1 ORDER BY created_at DESC LIMIT $2`
	rows, err := s.db.Query(ctx, q, chatID, limit)
	if err != nil {
		return nil, fmt.Errorf("query chat turns: %w", err)
	}
	defer rows.Close()

	var turns []ChatTurn
	for rows.Next() {
		var t ChatTurn
		if err := rows.Scan(&t.ID, &t.ChatID, &t.Query, &t.Response, &t.Sentiment, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan chat turn: %w", err)
		}
		turns = append(turns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chat turns: %w", err)
	}
	return turns, nil
}

// RecentFileAnalyses returns the newest file analyses for a chat, newest first.
func (s *Service) RecentFileAnalyses(ctx context.Context, chatID int64, limit int) ([]FileAnalysis, error) {
	const q = `SELECT id, chat_id, file_name, file_type, description, created_at
		FROM file_analyses WHERE chat_id = $1 ORDER BY created_at DESC LIMIT $2`
	rows, err := s.db.Query(ctx, q, chatID, limit)
	if err != nil {
		return nil, fmt.Errorf("query file analyses: %w", err)
	}
	defer rows.Close()

	var analyses []FileAnalysis
	for rows.Next() {
		var a FileAnalysis
		if err := rows.Scan(&a.ID, &a.ChatID, &a.FileName, &a.FileType, &a.Description, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan file analysis: %w", err)
		}
		analyses = append(analyses, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate file analyses: %w", err)
	}
	return analyses, nil
}

// RecentSearchTurns returns the newest search turns for a chat, newest first.
func (s *Service) RecentSearchTurns(ctx context.Context, chatID int64, limit int) ([]SearchTurn, error) {
	const q = `SELECT id, chat_id, user_query, bot_response, sentiment, created_at
		FROM search_turns WHERE chat_id = $1 ORDER BY created_at DESC LIMIT $2`
	rows, err := s.db.Query(ctx, q, chatID, limit)
	if err != nil {
		return nil, fmt.Errorf("query search turns: %w", err)
	}
	defer rows.Close()

	var turns []SearchTurn
	for rows.Next() {
		var t SearchTurn
		if err := rows.Scan(&t.ID, &t.ChatID, &t.Query, &t.Response, &t.Sentiment, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan search turn: %w", err)
		}
		turns = append(turns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate search turns: %w", err)
	}
	return turns, nil
}

// RecentSentimentQueries returns the newest sentiment queries for a chat,
// newest first.
func (s *Service) RecentSentimentQueries(ctx context.Context, chatID int64, limit int) ([]SentimentQuery, error) {
	const q = `SELECT id, chat_id, user_query, sentiment, created_at
		FROM sentiment_queries WHERE chat_id = $1 ORDER BY created_at DESC LIMIT $2`
	rows, err := s.db.Query(ctx, q, chatID, limit)
	if err != nil {
		return nil, fmt.Errorf("query sentiment queries: %w", err)
	}
	defer rows.Close()

	var queries []SentimentQuery
	for rows.Next() {
		var sq SentimentQuery
		if err := rows.Scan(&sq.ID, &sq.ChatID, &sq.Query, &sq.Sentiment, &sq.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan sentiment query: %w", err)
		}
		queries = append(queries, sq)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sentiment queries: %w", err)
	}
	return queries, nil
}
