package ports

import (
	"context"
	"time"
)

// BoardSnapshot is the published state of the delivery board.
type BoardSnapshot struct {
	Active    int
	Completed int
	UpdatedAt time.Time
}

// BoardCache keeps the latest board snapshot where other processes can read it.
type BoardCache interface {
	Store(ctx context.Context, snapshot BoardSnapshot) error

	// Load returns errs.ObjectNotFoundError when nothing was stored yet.
	Load(ctx context.Context) (BoardSnapshot, error)
}
