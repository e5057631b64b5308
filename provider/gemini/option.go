package gemini

import "net/http"

// Option configures a Gemini provider.
type Option func(*Gemini)

// WithTemperature sets the sampling temperature (default 0.1).
func WithTemperature(t float64) Option {
	return func(g *Gemini) { g.temperature = t }
}

// WithTopP sets nucleus sampling top-p (default 0.95).
func WithTopP(p float64) Option {
	return func(g *Gemini) { g.topP = p }
}

// WithTopK sets top-k sampling (default 40).
func WithTopK(k int) Option {
	return func(g *Gemini) { g.topK = k }
}

// WithMaxOutputTokens sets the output token budget (default 8192).
func WithMaxOutputTokens(n int) Option {
	return func(g *Gemini) { g.maxOutputTokens = n }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(g *Gemini) { g.httpClient = c }
}
