package services

import (
	"context"
	"fmt"

	"adsbot/domain"
	"adsbot/domain/entities"
	"adsbot/domain/interfaces"
)

// taskService credits one-time task completions. Duplicate detection reads
// prior task credit events for the account, keyed by task id in the metadata.
type taskService struct {
	accountRepo interfaces.AccountRepository
	eventRepo   interfaces.LedgerEventRepository
	ledger      interfaces.LedgerService
}

// NewTaskService creates a new task service
func NewTaskService(
	accountRepo interfaces.AccountRepository,
	eventRepo interfaces.LedgerEventRepository,
	ledger interfaces.LedgerService,
) interfaces.TaskService {
	return &taskService{
		accountRepo: accountRepo,
		eventRepo:   eventRepo,
		ledger:      ledger,
	}
}

// CompleteTask credits the task reward once per (account, task) pair
func (s *taskService) CompleteTask(ctx context.Context, accountID int64, taskID string) (int64, error) {
	if taskID == "" || len(taskID) > 64 {
		return 0, domain.NewValidationError("task_id", "must be 1-64 characters")
	}

	// Lock first so two completions of the same task serialize
	account, err := s.accountRepo.GetByIDForUpdate(ctx, accountID)
	if err != nil {
		return 0, fmt.Errorf("failed to lock account %d: %w", accountID, err)
	}
	if account == nil {
		return 0, domain.ErrNotFound
	}

	done, err := s.eventRepo.HasTaskCredit(ctx, accountID, taskID)
	if err != nil {
		return 0, fmt.Errorf("failed to check task completion: %w", err)
	}
	if done {
		return 0, domain.ErrTaskAlreadyCompleted
	}

	newBalance, err := s.ledger.Credit(ctx, accountID, TaskPoints, entities.EventKindTaskCredit, map[string]any{
		"task_id": taskID,
	})
	if err != nil {
		return 0, err
	}

	return newBalance, nil
}
