package embedder

import "context"

// Embedder turns text into a fixed-dimension vector. Implementations are
// safe for concurrent use.
type Embedder interface {
	Embed(ctx context.Context, text string, opts ...EmbedOption) ([]float32, error)
}
