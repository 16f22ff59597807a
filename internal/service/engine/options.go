package engine

import "time"

type Option func(*Options)

// Options carry the retrieval policy. Thresholds belong to the engine and
// are passed to the store on every search; the store applies no policy of
// its own.
type Options struct {
	// DefaultThreshold is the similarity bar for a first-attempt query.
	// Precision over recall: no match beats a weak suggestion.
	DefaultThreshold float64

	// ExpandThreshold is the looser bar used when draining the backlog. The
	// user has already signaled non-satisfaction, so recall wins.
	ExpandThreshold float64

	// RandomCount is how many records a random draw surfaces.
	RandomCount int

	// Timeout bounds every external call (embedding, store).
	Timeout time.Duration
}

func WithDefaultThreshold(threshold float64) Option {
	return func(o *Options) {
		o.DefaultThreshold = threshold
	}
}

func WithExpandThreshold(threshold float64) Option {
	return func(o *Options) {
		o.ExpandThreshold = threshold
	}
}

func WithRandomCount(count int) Option {
	return func(o *Options) {
		o.RandomCount = count
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(o *Options) {
		o.Timeout = timeout
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		DefaultThreshold: 0.5,
		ExpandThreshold:  0.3,
		RandomCount:      3,
		Timeout:          15 * time.Second,
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
