// internal/analytics/section.go
package analytics

import (
	"context"

	"github.com/rs/zerolog/log"
)

// SectionState discriminates how a report section was produced.
type SectionState string

const (
	// SectionOk holds fresh data from the upstream service.
	SectionOk SectionState = "ok"
	// SectionDegraded holds a zero-valued fallback after a non-critical
	// fetch failure; the rest of the report still renders.
	SectionDegraded SectionState = "degraded"
	// SectionFailed holds no usable data; reserved for critical sections.
	SectionFailed SectionState = "failed"
)

// Section is a discriminated fetch result. Degradation is carried in the
// type rather than implied by nil checks at every call site.
type Section[T any] struct {
	State SectionState `json:"state"`
	Value T            `json:"value"`
	Err   error        `json:"-"`
}

func Ok[T any](value T) Section[T] {
	return Section[T]{State: SectionOk, Value: value}
}

func Degraded[T any](fallback T, err error) Section[T] {
	return Section[T]{State: SectionDegraded, Value: fallback, Err: err}
}

func Failed[T any](err error) Section[T] {
	return Section[T]{State: SectionFailed, Err: err}
}

// FetchWithFallback runs one upstream fetch and swallows its failure into a
// typed degraded section. This replaces scattering the log-and-default
// pattern across every non-critical call site.
func FetchWithFallback[T any](ctx context.Context, name string, fallback T, fetch func(context.Context) (T, error)) Section[T] {
	value, err := fetch(ctx)
	if err != nil {
		log.Warn().Err(err).Str("section", name).Msg("report section degraded to fallback")
		return Degraded(fallback, err)
	}
	return Ok(value)
}
