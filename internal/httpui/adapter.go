package httpui

import "context"

// searchFunc adapts any func(ctx, query) ([]retriever.Result-shaped, error)
// into a Searcher without httpui needing to import internal/retriever or
// internal/lifecycle directly.
type searchFunc func(ctx context.Context, query string) ([]Result, error)

func (f searchFunc) Search(ctx context.Context, query string) ([]Result, error) {
	return f(ctx, query)
}

// Adapt wraps a Lifecycle-shaped search method, converting each result via
// toResult, into a Searcher NewRouter can use. T is typically
// retriever.Result.
func Adapt[T any](search func(ctx context.Context, query string) ([]T, error), toResult func(T) Result) Searcher {
	return searchFunc(func(ctx context.Context, query string) ([]Result, error) {
		raw, err := search(ctx, query)
		if err != nil {
			return nil, err
		}
		out := make([]Result, len(raw))
		for i, r := range raw {
			out[i] = toResult(r)
		}
		return out, nil
	})
}
