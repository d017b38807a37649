package commands

import (
	"context"
	"fmt"

	"rxdelivery/internal/core/domain/services"
)

// TransitionJournal persists every transition the lifecycle manager applies. It runs as a
// services.TransitionCommitter, so a failed write keeps the transition from happening.
//
// A registration inserts the order, any other transition updates it; in both cases the
// status change is appended to the history within the same transaction.
type TransitionJournal struct {
	uowFactory UoWFactory
}

func NewTransitionJournal(uowFactory UoWFactory) TransitionJournal {
	return TransitionJournal{uowFactory: uowFactory}
}

var _ services.TransitionCommitter = TransitionJournal{}

func (j TransitionJournal) CommitTransition(ctx context.Context, transition services.Transition) error {
	uow := j.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	if transition.IsRegistration() {
		if err := orderRepo.Add(ctx, transition.Order); err != nil {
			return fmt.Errorf("add order: %w", err)
		}
	} else {
		if err := orderRepo.Update(ctx, transition.Order); err != nil {
			return fmt.Errorf("update order: %w", err)
		}
	}

	if err := uow.TransitionRepository().Add(ctx, transition.StatusChange); err != nil {
		return fmt.Errorf("append history: %w", err)
	}

	return uow.Commit(ctx)
}
