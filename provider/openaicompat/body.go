package openaicompat

import (
	"encoding/base64"
	"fmt"

	"github.com/nevindra/scribe"
)

// BuildBody converts scribe ChatMessages and a model name into an
// OpenAI-format ChatRequest. System messages are kept in the messages array
// as role:"system". Options configure generation parameters (temperature,
// top_p, etc.).
func BuildBody(messages []scribe.ChatMessage, model string, opts ...Option) ChatRequest {
	var msgs []Message

	for _, m := range messages {
		if len(m.Attachments) == 0 {
			msgs = append(msgs, Message{
				Role:    m.Role,
				Content: m.Content,
			})
			continue
		}

		// Multimodal: build content blocks. Inline attachments become
		// base64 data URIs.
		var blocks []ContentBlock
		if m.Content != "" {
			blocks = append(blocks, ContentBlock{
				Type: "text",
				Text: m.Content,
			})
		}
		for _, att := range m.Attachments {
			url := att.URL
			if url == "" {
				url = fmt.Sprintf("data:%s;base64,%s",
					att.MimeType, base64.StdEncoding.EncodeToString(att.InlineData()))
			}
			blocks = append(blocks, ContentBlock{
				Type:     "image_url",
				ImageURL: &ImageURL{URL: url},
			})
		}
		msgs = append(msgs, Message{
			Role:    m.Role,
			Content: blocks,
		})
	}

	req := ChatRequest{
		Model:    model,
		Messages: msgs,
	}

	for _, opt := range opts {
		opt(&req)
	}

	return req
}
