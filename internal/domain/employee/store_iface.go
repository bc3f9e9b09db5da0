package employee

import "context"

type StoreAPI interface {
	Create(ctx context.Context, input Input) (*Employee, error)
	Get(ctx context.Context, id int64) (*Employee, error)
	Update(ctx context.Context, id int64, input Input) (*Employee, error)
	// SetStatus writes status, or flips Active/Inactive when status is empty.
	SetStatus(ctx context.Context, id int64, status string) (*Employee, error)
	List(ctx context.Context, filter Filter) ([]Employee, error)
	Count(ctx context.Context, filter Filter) (int, error)
	Delete(ctx context.Context, id int64) error
}
