package openaicompat

import "github.com/nevindra/scribe"

// ParseResponse converts an OpenAI-format ChatResponse to a scribe
// ChatResponse. It extracts content and usage from choices[0].
func ParseResponse(resp ChatResponse) (scribe.ChatResponse, error) {
	var out scribe.ChatResponse

	if len(resp.Choices) == 0 {
		return out, nil
	}

	choice := resp.Choices[0]
	if choice.Message != nil {
		out.Content = choice.Message.Content
	}

	if resp.Usage != nil {
		out.Usage = scribe.Usage{
			InputTokens:  resp.Usage.PromptTokens,
			OutputTokens: resp.Usage.CompletionTokens,
		}
	}

	return out, nil
}
