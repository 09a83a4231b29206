// Package probe provides the ordered best-effort fallback combinator shared
// by the metadata and mint-origin resolvers.
package probe

import "context"

// Func attempts to produce a value from one provider. ok reports whether the
// value is usable; failures of any kind (network, timeout, malformed
// payload) are reported as !ok, never as an error.
type Func[T any] func(ctx context.Context) (T, bool)

// First runs probes strictly in order and returns the first usable value.
// Returns the zero value and false when every probe misses or the context is
// done before a hit.
func First[T any](ctx context.Context, probes ...Func[T]) (T, bool) {
	for _, p := range probes {
		if ctx.Err() != nil {
			break
		}
		if v, ok := p(ctx); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}
