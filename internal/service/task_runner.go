package service

import (
	"github.com/rs/zerolog/log"
)

// TaskRunner decouples post-commit work from the request goroutine. The
// grading response must never wait on aggregation, and a panicking step must
// never take the process down.
type TaskRunner interface {
	Go(name string, fn func())
}

type asyncTaskRunner struct{}

func NewAsyncTaskRunner() TaskRunner {
	return &asyncTaskRunner{}
}

func (r *asyncTaskRunner) Go(name string, fn func()) {
	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error().Interface("panic", rec).Str("task", name).Msg("Background task panicked")
			}
		}()
		fn()
	}()
}
