package history

import "time"

// ChatTurn is one prompt/response exchange with the model.
type ChatTurn struct {
	ID        string    `json:"id"`
	ChatID    int64     `json:"chat_id"`
	Query     string    `json:"user_query"`
	Response  string    `json:"bot_response"`
	Sentiment string    `json:"sentiment"`
	CreatedAt time.Time `json:"created_at"`
}

// FileAnalysis is one analyzed attachment and the model's description of it.
type FileAnalysis struct {
	ID          string    `json:"id"`
	ChatID      int64     `json:"chat_id"`
	FileName    string    `json:"file_name"`
	FileType    string    `json:"file_type"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// SearchTurn is one web search query and its composed response.
type SearchTurn struct {
	ID        string    `json:"id"`
	ChatID    int64     `json:"chat_id"`
	Query     string    `json:"user_query"`
	Response  string    `json:"bot_response"`
	Sentiment string    `json:"sentiment"`
	CreatedAt time.Time `json:"created_at"`
}

// SentimentQuery is one sentiment classification request and its label.
type SentimentQuery struct {
	ID        string    `json:"id"`
	ChatID    int64     `json:"chat_id"`
	Query     string    `json:"user_query"`
	Sentiment string    `json:"sentiment"`
	CreatedAt time.Time `json:"created_at"`
}
