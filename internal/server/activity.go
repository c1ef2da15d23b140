package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"

	"github.com/nimbusbot/nimbus/internal/history"
	"github.com/nimbusbot/nimbus/internal/users"
)

// recentActivityLimit caps each collection in an activity response.
const recentActivityLimit = 20

// ActivityReader lists recent interaction records per chat.
type ActivityReader interface {
	RecentChatTurns(ctx context.Context, chatID int64, limit int) ([]history.ChatTurn, error)
	RecentFileAnalyses(ctx context.Context, chatID int64, limit int) ([]history.FileAnalysis, error)
	RecentSearchTurns(ctx context.Context, chatID int64, limit int) ([]history.SearchTurn, error)
	RecentSentimentQueries(ctx context.Context, chatID int64, limit int) ([]history.SentimentQuery, error)
}

// UserRegistry resolves a chat id to its registered user.
type UserRegistry interface {
	Get(ctx context.Context, chatID int64) (users.User, error)
}

type activityHandler struct {
	activity ActivityReader
	users    UserRegistry
	logger   *slog.Logger
}

type activityResponse struct {
	User             users.User               `json:"user"`
	ChatTurns        []history.ChatTurn       `json:"chat_turns"`
	FileAnalyses     []history.FileAnalysis   `json:"file_analyses"`
	SearchTurns      []history.SearchTurn     `json:"search_turns"`
	SentimentQueries []history.SentimentQuery `json:"sentiment_queries"`
}

func (h *activityHandler) register(e *echo.Echo) {
	e.GET("/chats/:chat_id/activity", h.recent)
}

// recent returns the registered user and their newest records across all
// four collections.
func (h *activityHandler) recent(c echo.Context) error {
	chatID, err := strconv.ParseInt(c.Param("chat_id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid chat id"})
	}
	ctx := c.Request().Context()

	user, err := h.users.Get(ctx, chatID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "unknown chat"})
		}
		h.logger.Error("load user failed", slog.Int64("chat_id", chatID), slog.Any("error", err))
		return err
	}

	resp := activityResponse{User: user}
	if resp.ChatTurns, err = h.activity.RecentChatTurns(ctx, chatID, recentActivityLimit); err != nil {
		return err
	}
	if resp.FileAnalyses, err = h.activity.RecentFileAnalyses(ctx, chatID, recentActivityLimit); err != nil {
		return err
	}
	if resp.SearchTurns, err = h.activity.RecentSearchTurns(ctx, chatID, recentActivityLimit); err != nil {
		return err
	}
	if resp.SentimentQueries, err = h.activity.RecentSentimentQueries(ctx, chatID, recentActivityLimit); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}
