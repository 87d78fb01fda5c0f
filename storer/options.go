package storer

import (
	"context"
	"time"
)

type Option func(*Options)

type Options struct {
	Location   string
	ApiKey     string
	Collection string
	Namespace  string
	Timeout    time.Duration
	Context    context.Context
}

// WithLocation sets the service address: a qdrant base URL or a postgres DSN.
func WithLocation(loc string) Option {
	return func(o *Options) {
		o.Location = loc
	}
}

func WithApiKey(apiKey string) Option {
	return func(o *Options) {
		o.ApiKey = apiKey
	}
}

// WithCollection names the index, collection, or table holding the vectors.
func WithCollection(name string) Option {
	return func(o *Options) {
		o.Collection = name
	}
}

func WithNamespace(ns string) Option {
	return func(o *Options) {
		o.Namespace = ns
	}
}

func WithTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.Timeout = d
	}
}

func WithContext(ctx context.Context) Option {
	return func(o *Options) {
		o.Context = ctx
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		Timeout: 15 * time.Second,
		Context: context.Background(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
