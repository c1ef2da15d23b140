package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nimbusbot/nimbus/internal/history"
	"github.com/nimbusbot/nimbus/internal/users"
)

type fakeActivity struct {
	chatTurns        []history.ChatTurn
	fileAnalyses     []history.FileAnalysis
	searchTurns      []history.SearchTurn
	sentimentQueries []history.SentimentQuery
}

func (f *fakeActivity) RecentChatTurns(context.Context, int64, int) ([]history.ChatTurn, error) {
	return f.chatTurns, nil
}

func (f *fakeActivity) RecentFileAnalyses(context.Context, int64, int) ([]history.FileAnalysis, error) {
	return f.fileAnalyses, nil
}

func (f *fakeActivity) RecentSearchTurns(context.Context, int64, int) ([]history.SearchTurn, error) {
	return f.searchTurns, nil
}

func (f *fakeActivity) RecentSentimentQueries(context.Context, int64, int) ([]history.SentimentQuery, error) {
	return f.sentimentQueries, nil
}

type fakeRegistry struct {
	user users.User
	err  error
}

func (f *fakeRegistry) Get(context.Context, int64) (users.User, error) {
	return f.user, f.err
}

func newActivityContext(t *testing.T, chatID string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/chats/:chat_id/activity")
	c.SetParamNames("chat_id")
	c.SetParamValues(chatID)
	return c, rec
}

func TestRecentActivity(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	h := &activityHandler{
		activity: &fakeActivity{
			chatTurns: []history.ChatTurn{
				{ID: "ct-1", ChatID: 42, Query: "hi", Response: "hello", Sentiment: "neutral", CreatedAt: now},
			},
			sentimentQueries: []history.SentimentQuery{
				{ID: "sq-1", ChatID: 42, Query: "nice", Sentiment: "positive", CreatedAt: now},
			},
		},
		users:  &fakeRegistry{user: users.User{ChatID: 42, FirstName: "Ada", Username: "ada"}},
		logger: slog.New(slog.DiscardHandler),
	}

	c, rec := newActivityContext(t, "42")
	require.NoError(t, h.recent(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp activityResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(42), resp.User.ChatID)
	require.Len(t, resp.ChatTurns, 1)
	assert.Equal(t, "hello", resp.ChatTurns[0].Response)
	require.Len(t, resp.SentimentQueries, 1)
	assert.Equal(t, "positive", resp.SentimentQueries[0].Sentiment)
	assert.Empty(t, resp.FileAnalyses)
	assert.Empty(t, resp.SearchTurns)
}

func TestRecentActivityBadChatID(t *testing.T) {
	t.Parallel()

	h := &activityHandler{
		activity: &fakeActivity{},
		users:    &fakeRegistry{},
		logger:   slog.New(slog.DiscardHandler),
	}

	c, rec := newActivityContext(t, "not-a-number")
	require.NoError(t, h.recent(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRecentActivityUnknownChat(t *testing.T) {
	t.Parallel()

	h := &activityHandler{
		activity: &fakeActivity{},
		users:    &fakeRegistry{err: pgx.ErrNoRows},
		logger:   slog.New(slog.DiscardHandler),
	}

	c, rec := newActivityContext(t, "99")
	require.NoError(t, h.recent(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
