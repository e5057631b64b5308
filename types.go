package scribe

// --- LLM protocol types ---

type ChatMessage struct {
	Role        string       `json:"role"` // "system", "user", "assistant"
	Content     string       `json:"content"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

// Attachment is a file sent alongside a message. Either URL references a
// file already known to the backend (e.g. a Files API upload) or Data
// carries the raw bytes for inline transmission.
type Attachment struct {
	MimeType string `json:"mime_type"`
	URL      string `json:"url,omitempty"`
	Data     []byte `json:"-"`
}

// InlineData returns the raw bytes of the attachment.
// Empty when the attachment is referenced by URL.
func (a Attachment) InlineData() []byte { return a.Data }

type ChatRequest struct {
	Messages []ChatMessage `json:"messages"`
}

type ChatResponse struct {
	Content string `json:"content"`
	Usage   Usage  `json:"usage"`
}

type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// --- Pipeline types ---

// Page is one rasterized PDF page on disk.
type Page struct {
	Number int    `json:"number"` // 1-based
	Path   string `json:"path"`
}

// ProcessResult pairs an uploaded filename with either its artifact path
// or the error that stopped its processing.
type ProcessResult struct {
	File   string `json:"file"`
	Output string `json:"output,omitempty"`
	Error  string `json:"error,omitempty"`
}

// --- ChatMessage constructors ---

func UserMessage(text string) ChatMessage {
	return ChatMessage{Role: "user", Content: text}
}

func SystemMessage(text string) ChatMessage {
	return ChatMessage{Role: "system", Content: text}
}

func AssistantMessage(text string) ChatMessage {
	return ChatMessage{Role: "assistant", Content: text}
}
