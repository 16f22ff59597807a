package backlog

import (
	"context"
	"time"
)

type Option func(*Options)

type Options struct {
	TTL     time.Duration
	Context context.Context
}

func WithTTL(ttl time.Duration) Option {
	return func(o *Options) {
		o.TTL = ttl
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		TTL:     24 * time.Hour,
		Context: context.Background(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
