package server

import (
	"context"
	"time"
)

type Option func(*Options)

type Options struct {
	Name        string
	Address     string
	ReadTimeout time.Duration
	IdleTimeout time.Duration
	Context     context.Context
}

func WithName(name string) Option {
	return func(o *Options) {
		o.Name = name
	}
}

func WithAddress(addr string) Option {
	return func(o *Options) {
		o.Address = addr
	}
}

func WithReadTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.ReadTimeout = d
	}
}

func WithIdleTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.IdleTimeout = d
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		Name:        "ratemyprof",
		Address:     ":3000",
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 120 * time.Second,
		Context:     context.Background(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
