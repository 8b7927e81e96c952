package main

import (
	"context"
	"io"
	"os"

	"github.com/alnah/go-mdtheme"
)

// converter is the subset of *mdtheme.Converter the CLI drives.
type converter interface {
	Convert(ctx context.Context, cmd mdtheme.Command, job mdtheme.Job) (*mdtheme.Result, error)
	Probe(ctx context.Context) error
	Engine() string
	Close() error
}

// Environment holds injectable dependencies for testability.
type Environment struct {
	Stdout       io.Writer
	Stderr       io.Writer
	NewConverter func(opts ...mdtheme.Option) (converter, error)
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		NewConverter: func(opts ...mdtheme.Option) (converter, error) {
			return mdtheme.NewConverter(opts...)
		},
	}
}
