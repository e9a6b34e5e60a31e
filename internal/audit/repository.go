package audit

import "context"

// Repository persists audit entries. Each call appends a row.
type Repository interface {
	Save(ctx context.Context, entry *Entry) error
}
