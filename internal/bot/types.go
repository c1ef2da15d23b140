package bot

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/nimbusbot/nimbus/internal/ai"
	"github.com/nimbusbot/nimbus/internal/search"
	"github.com/nimbusbot/nimbus/internal/sentiment"
)

// apiClient is the subset of *tgbotapi.BotAPI the pipeline uses. Kept
// narrow so handlers are testable with a fake.
type apiClient interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetFileDirectURL(fileID string) (string, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// ActivityLog appends one record per handled interaction.
type ActivityLog interface {
	RecordChatTurn(ctx context.Context, chatID int64, query, response, sentiment string) error
	RecordFileAnalysis(ctx context.Context, chatID int64, fileName, fileType, description string) error
	RecordSearchTurn(ctx context.Context, chatID int64, query, response, sentiment string) error
	RecordSentimentQuery(ctx context.Context, chatID int64, query, sentiment string) error
}

// UserRegistry stores chat participant identity and phone numbers.
type UserRegistry interface {
	EnsureUser(ctx context.Context, chatID int64, firstName, lastName, username string) (bool, error)
	SetPhoneNumber(ctx context.Context, chatID int64, phoneNumber string) (bool, error)
}

// Classifier labels text polarity.
type Classifier func(text string) sentiment.Label

// Deps bundles the collaborators a Bot needs.
type Deps struct {
	AI       ai.Gateway
	Search   search.Gateway
	Activity ActivityLog
	Users    UserRegistry
	Classify Classifier
}
