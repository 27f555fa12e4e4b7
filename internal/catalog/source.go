package catalog

import "context"

// Row is one raw record as returned by the datastore.
type Row struct {
	ID     string
	Fields map[string]interface{}
}

// Source fetches the raw catalog rows. Implementations make a single attempt;
// a non-nil error means the whole retrieval failed.
type Source interface {
	Fetch(ctx context.Context) ([]Row, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context) ([]Row, error)

func (f SourceFunc) Fetch(ctx context.Context) ([]Row, error) {
	return f(ctx)
}
