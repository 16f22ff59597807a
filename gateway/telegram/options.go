package telegram

import "context"

type Option func(*Options)

type Options struct {
	Token       string
	PollTimeout int
	Context     context.Context
}

func WithToken(token string) Option {
	return func(o *Options) {
		o.Token = token
	}
}

func WithPollTimeout(seconds int) Option {
	return func(o *Options) {
		o.PollTimeout = seconds
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		PollTimeout: 60,
		Context:     context.Background(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
