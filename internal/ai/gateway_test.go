package ai

import (
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
)

func TestResponseText(t *testing.T) {
	t.Parallel()

	t.Run("nil response", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "", responseText(nil))
	})

	t.Run("no candidates", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "", responseText(&genai.GenerateContentResponse{}))
	})

	t.Run("joins text parts", func(t *testing.T) {
		t.Parallel()
		resp := &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{
				{
					Content: &genai.Content{
						Parts: []genai.Part{genai.Text("hello "), genai.Text("world")},
					},
				},
			},
		}
		assert.Equal(t, "hello world", responseText(resp))
	})

	t.Run("trims whitespace", func(t *testing.T) {
		t.Parallel()
		resp := &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{
				{
					Content: &genai.Content{
						Parts: []genai.Part{genai.Text("  answer\n")},
					},
				},
			},
		}
		assert.Equal(t, "answer", responseText(resp))
	})
}

func TestImageFormat(t *testing.T) {
	t.Parallel()

	cases := []struct {
		mediaType string
		want      string
	}{
		{"image/jpeg", "jpeg"},
		{"image/png", "png"},
		{"IMAGE/WEBP", "webp"},
		{"image/", "jpeg"},
		{"application/pdf", "jpeg"},
		{"", "jpeg"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, imageFormat(tc.mediaType), "media type %q", tc.mediaType)
	}
}
