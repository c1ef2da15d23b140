package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/nimbusbot/nimbus/internal/extract"
)

// handleStart registers the sender and prompts first-timers for a phone
// number via a contact-share keyboard. Repeat visits just get greeted.
func (b *Bot) handleStart(ctx context.Context, msg *tgbotapi.Message) error {
	from := msg.From
	created, err := b.deps.Users.EnsureUser(ctx, from.ID, from.FirstName, from.LastName, from.UserName)
	if err != nil {
		return fmt.Errorf("register user: %w", err)
	}
	if !created {
		b.reply(msg.Chat.ID, "Welcome back!")
		return nil
	}

	message := tgbotapi.NewMessage(msg.Chat.ID, "Welcome! Please share your phone number.")
	message.ReplyMarkup = tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButtonContact("Share Phone Number")),
	)
	if _, err := b.api.Send(message); err != nil {
		b.logger.Error("send welcome failed", slog.Int64("chat_id", msg.Chat.ID), slog.Any("error", err))
	}
	return nil
}

// handleContact stores a shared phone number. A contact from an identity
// with no prior record is logged and otherwise ignored.
func (b *Bot) handleContact(ctx context.Context, msg *tgbotapi.Message) error {
	updated, err := b.deps.Users.SetPhoneNumber(ctx, msg.From.ID, msg.Contact.PhoneNumber)
	if err != nil {
		return fmt.Errorf("store phone number: %w", err)
	}
	if !updated {
		b.logger.Warn("contact share from unknown user", slog.Int64("user_id", msg.From.ID))
		return nil
	}
	b.reply(msg.Chat.ID, "✅ Your phone number has been saved successfully!")
	return nil
}

func (b *Bot) handleHelp(msg *tgbotapi.Message) {
	b.reply(msg.Chat.ID, helpText)
}

// handleText generates a model response for the prompt after /text.
func (b *Bot) handleText(ctx context.Context, msg *tgbotapi.Message) error {
	cleanup := b.sendStatus(msg.Chat.ID, statusGenerating)
	defer cleanup()

	_, prompt := messageCommand(msg)
	if len(strings.TrimSpace(messageText(msg))) <= 5 || prompt == "" {
		b.reply(msg.Chat.ID, usageText)
		return nil
	}

	response, err := b.deps.AI.Generate(ctx, prompt)
	if err != nil {
		b.reply(msg.Chat.ID, fmt.Sprintf("**An error occurred: %s**", err))
		return nil
	}

	label := b.deps.Classify(prompt)
	if err := b.deps.Activity.RecordChatTurn(ctx, msg.From.ID, prompt, response, string(label)); err != nil {
		return err
	}

	b.reply(msg.Chat.ID, chatBanners[label]+"\n\n"+response)
	return nil
}

// handleImg describes the attached photo. The caption after /img is the
// prompt; absent a caption a stock prompt is used.
func (b *Bot) handleImg(ctx context.Context, msg *tgbotapi.Message) error {
	if len(msg.Photo) == 0 {
		b.reply(msg.Chat.ID, usageImg)
		return nil
	}

	cleanup := b.sendStatus(msg.Chat.ID, statusImage)
	defer cleanup()

	photo := pickPhoto(msg.Photo)
	data, err := b.downloadFile(ctx, photo.FileID)
	if err != nil {
		b.reply(msg.Chat.ID, fmt.Sprintf("❌ Error analyzing image: %s", err))
		return nil
	}

	_, prompt := messageCommand(msg)
	if prompt == "" {
		prompt = defaultImagePrompt
	}

	description, err := b.deps.AI.Describe(ctx, prompt, data, "image/jpeg")
	if err != nil {
		b.reply(msg.Chat.ID, fmt.Sprintf("❌ Error analyzing image: %s", err))
		return nil
	}

	if err := b.deps.Activity.RecordFileAnalysis(ctx, msg.From.ID, "photo.jpg", "image", description); err != nil {
		return err
	}

	b.reply(msg.Chat.ID, "🖼 **Image Analysis:**\n"+description)
	return nil
}

// handleFile summarizes the attached document. Extracted text is capped
// before it goes into the prompt so provider limits hold.
func (b *Bot) handleFile(ctx context.Context, msg *tgbotapi.Message) error {
	doc := msg.Document
	if doc == nil {
		b.reply(msg.Chat.ID, usageFile)
		return nil
	}

	cleanup := b.sendStatus(msg.Chat.ID, statusFile)
	defer cleanup()

	data, err := b.downloadFile(ctx, doc.FileID)
	if err != nil {
		b.reply(msg.Chat.ID, fmt.Sprintf("❌ Error analyzing file: %s", err))
		return nil
	}

	text, err := extract.Extract(data, doc.MimeType)
	if err != nil {
		b.reply(msg.Chat.ID, fmt.Sprintf("❌ Error analyzing file: %s", err))
		return nil
	}

	_, prompt := messageCommand(msg)
	if prompt == "" {
		prompt = defaultFilePrompt
	}

	response, err := b.deps.AI.Generate(ctx, prompt+"\n\n"+excerpt(text, replyLimit))
	if err != nil {
		b.reply(msg.Chat.ID, fmt.Sprintf("❌ Error analyzing file: %s", err))
		return nil
	}

	if err := b.deps.Activity.RecordFileAnalysis(ctx, msg.From.ID, doc.FileName, doc.MimeType, response); err != nil {
		return err
	}

	b.reply(msg.Chat.ID, "📂 **File Analysis:**\n"+response)
	return nil
}

// handleSentiment labels the text after /sentiment.
func (b *Bot) handleSentiment(ctx context.Context, msg *tgbotapi.Message) error {
	_, text := messageCommand(msg)
	if text == "" {
		b.reply(msg.Chat.ID, usageSentiment)
		return nil
	}

	label := b.deps.Classify(text)
	if err := b.deps.Activity.RecordSentimentQuery(ctx, msg.From.ID, text, string(label)); err != nil {
		return err
	}

	b.reply(msg.Chat.ID, fmt.Sprintf("📊 **Sentiment Analysis:**\n%s\n\nResult: %s", text, sentimentDisplay[label]))
	return nil
}

// handleWebSearch fetches top results for the query, has the model
// summarize them, and replies with both. The banner is keyed on the
// sentiment of the query itself.
func (b *Bot) handleWebSearch(ctx context.Context, msg *tgbotapi.Message) error {
	_, query := messageCommand(msg)
	if query == "" {
		b.reply(msg.Chat.ID, usageWebSearch)
		return nil
	}

	cleanup := b.sendStatus(msg.Chat.ID, statusSearching)
	defer cleanup()

	label := b.deps.Classify(query)

	results, err := b.deps.Search.Search(ctx, query)
	if err != nil {
		b.reply(msg.Chat.ID, fmt.Sprintf("⚠️ Error: %s", err))
		return nil
	}
	if len(results) == 0 {
		b.reply(msg.Chat.ID, noResultsReply)
		return nil
	}

	block := formatSearchResults(results)
	summary, err := b.deps.AI.Generate(ctx, "Summarize the following web search results:\n"+block)
	if err != nil {
		b.reply(msg.Chat.ID, fmt.Sprintf("⚠️ Error: %s", err))
		return nil
	}

	composed := fmt.Sprintf("🌍 **Top Search Results:**\n\n%s\n\n**AI Summary:**\n%s", block, summary)
	if err := b.deps.Activity.RecordSearchTurn(ctx, msg.From.ID, query, composed, string(label)); err != nil {
		return err
	}

	b.reply(msg.Chat.ID, fmt.Sprintf("%s\n\n%s\n\n**AI Summary:**\n%s", searchBanners[label], block, summary))
	return nil
}
