package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"context-gateway/internal/orchestrator"
)

// wrap lays fragments out in the context block. Blank fragments are
// dropped; with none left the no-memories sentence is returned instead.
func wrap(fragments []string) string {
	kept := make([]string, 0, len(fragments))
	for _, f := range fragments {
		if f = strings.TrimSpace(f); f != "" {
			kept = append(kept, f)
		}
	}
	if len(kept) == 0 {
		return orchestrator.NoMemoriesMessage
	}

	var b strings.Builder
	b.WriteString(orchestrator.ContextDelim)
	b.WriteString("\n")
	b.WriteString(orchestrator.ContextHeader)
	b.WriteString("\n")
	b.WriteString(strings.Join(kept, orchestrator.FragmentDivider))
	b.WriteString("\n")
	b.WriteString(orchestrator.ContextDelim)
	return b.String()
}

type callResult[T any] struct {
	v   T
	err error
}

// callWithTimeout bounds fn by d even when fn ignores its context.
func callWithTimeout[T any](ctx context.Context, d time.Duration, fn func(context.Context) (T, error)) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()

	done := make(chan callResult[T], 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- callResult[T]{err: fmt.Errorf("recovered panic: %v", r)}
			}
		}()
		v, err := fn(ctx)
		done <- callResult[T]{v: v, err: err}
	}()

	select {
	case r := <-done:
		return r.v, r.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
