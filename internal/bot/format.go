package bot

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/nimbusbot/nimbus/internal/search"
	"github.com/nimbusbot/nimbus/internal/sentiment"
)

// replyLimit bounds outbound reply text. Telegram allows 4096 bytes per
// message; the limit stays under that so the ellipsis and markup fit.
const replyLimit = 4000

const helpText = `🤖 **Bot Commands:**

🚀 **/start** - Start the bot and register yourself.
💬 **/text <prompt>** - Generate AI-powered responses for any query.
🖼 **/img** - Analyze and describe images using AI.
📄 **/file** - Upload a document to get a summarized version.
📊 **/sentiment <text>** - Analyze the sentiment of the given text.
🌍 **/websearch <query>** - Search the web and get top results instantly.
ℹ️ **/help** - View this command list anytime.`

// chatBanners prefix /text replies, keyed by the sentiment of the query.
var chatBanners = map[sentiment.Label]string{
	sentiment.Positive: "😊 Great! Here's what I came up with:",
	sentiment.Negative: "😞 I sense that things might be tough. Here's something that might help:",
	sentiment.Neutral:  "🤔 Here's the information you requested:",
}

// searchBanners prefix /websearch replies, keyed by the sentiment of the query.
var searchBanners = map[sentiment.Label]string{
	sentiment.Positive: "🌟 Great! Here are some useful links:",
	sentiment.Negative: "😟 It seems like you have concerns. These results might help:",
	sentiment.Neutral:  "🔍 Here are the search results you requested:",
}

// sentimentDisplay is the user-facing form of each label.
var sentimentDisplay = map[sentiment.Label]string{
	sentiment.Positive: "😊 Positive",
	sentiment.Negative: "😞 Negative",
	sentiment.Neutral:  "😐 Neutral",
}

const (
	usageText      = "**Provide a prompt after the command.**"
	usageImg       = "🖼 **Usage:** send /img as the caption of a photo."
	usageFile      = "📄 **Usage:** send /file as the caption of a document."
	usageSentiment = "🔍 **Usage:** /sentiment <text>"
	usageWebSearch = "🔍 **Usage:** /websearch your_query"

	statusGenerating = "**Generating response, please wait...**"
	statusImage      = "🖼 **Analyzing image, please wait...**"
	statusFile       = "📂 **Analyzing file, please wait...**"
	statusSearching  = "🔎 Searching the web..."

	noResultsReply = "❌ No results found."

	defaultImagePrompt = "Describe this image."
	defaultFilePrompt  = "Summarize the contents of this file."
)

// truncateReply hard-truncates text to replyLimit on a valid UTF-8 rune
// boundary, appending "..." when truncation occurs.
func truncateReply(text string) string {
	if len(text) <= replyLimit {
		return text
	}
	limit := replyLimit
	// Walk backwards to a rune boundary.
	for limit > 0 && !utf8.RuneStart(text[limit]) {
		limit--
	}
	return text[:limit] + "..."
}

// excerpt returns the first limit bytes of text on a rune boundary, with
// no ellipsis. Used for prompt material rather than outbound replies.
func excerpt(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	for limit > 0 && !utf8.RuneStart(text[limit]) {
		limit--
	}
	return text[:limit]
}

// formatSearchResults renders provider hits as a markdown link list.
func formatSearchResults(results []search.Result) string {
	lines := make([]string, 0, len(results))
	for _, r := range results {
		lines = append(lines, fmt.Sprintf("🔹 [%s](%s)\n%s", r.Title, r.Link, r.Snippet))
	}
	return strings.Join(lines, "\n")
}
