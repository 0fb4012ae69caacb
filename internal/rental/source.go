package rental

import "context"

// Source abstracts where the daily dataset comes from (local file, HTTP endpoint).
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]byte, error)
}

// Store is the contract the in-memory table store must satisfy.
type Store interface {
	Save(t *Table)
	Current() (*Table, error)
	History() []LoadInfo
}
