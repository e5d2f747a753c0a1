// internal/repository/ent_task_repository.go
package repository

import (
	"context"
	"fmt"
	"time"

	ent "github.com/labflow/labflow/ent/generated"
	"github.com/labflow/labflow/ent/generated/predicate"
	"github.com/labflow/labflow/ent/generated/task"
)

type EntTaskRepository struct {
	client *ent.Client
}

func NewEntTaskRepository(client *ent.Client) *EntTaskRepository {
	return &EntTaskRepository{
		client: client,
	}
}

// Create persists a new task. created_at is set once here;
// updated_at stays absent until the first mutation.
func (r *EntTaskRepository) Create(ctx context.Context, input *TaskInput) (*ent.Task, error) {
	return r.client.Task.
		Create().
		SetTitle(input.Title).
		SetNillableDescription(input.Description).
		SetPriority(task.Priority(input.Priority)).
		SetStatus(task.Status(input.Status)).
		SetNillableDueDate(input.DueDate).
		SetIsDeleted(false).
		SetCreatedAt(time.Now().UTC()).
		Save(ctx)
}

// GetByID returns the row regardless of its soft-delete state.
// Callers decide whether deleted rows are visible.
func (r *EntTaskRepository) GetByID(ctx context.Context, id int) (*ent.Task, error) {
	return r.client.Task.
		Query().
		Where(task.ID(id)).
		Only(ctx)
}

// GetActiveByID returns the row only when it is not soft-deleted.
func (r *EntTaskRepository) GetActiveByID(ctx context.Context, id int) (*ent.Task, error) {
	return r.client.Task.
		Query().
		Where(task.ID(id), task.IsDeleted(false)).
		Only(ctx)
}

// List applies the filter, counts the matching rows before
// pagination, then returns one page in the requested order.
func (r *EntTaskRepository) List(ctx context.Context, filter ListFilter) ([]*ent.Task, int, error) {
	query := r.client.Task.Query()

	// Apply filters; soft-deleted rows are always hidden from listings.
	predicates := []predicate.Task{task.IsDeleted(false)}

	if filter.Status != nil {
		predicates = append(predicates, task.StatusEQ(task.Status(*filter.Status)))
	}

	if filter.Priority != nil {
		predicates = append(predicates, task.PriorityEQ(task.Priority(*filter.Priority)))
	}

	if filter.Search != "" {
		// Search in title and description
		predicates = append(predicates, task.Or(
			task.TitleContainsFold(filter.Search),
			task.DescriptionContainsFold(filter.Search),
		))
	}

	// Due-date bounds are inclusive; rows without a due date never match.
	if filter.DueFrom != nil {
		predicates = append(predicates,
			task.DueDateNotNil(),
			task.DueDateGTE(*filter.DueFrom),
		)
	}

	if filter.DueTo != nil {
		predicates = append(predicates,
			task.DueDateNotNil(),
			task.DueDateLTE(*filter.DueTo),
		)
	}

	if filter.Overdue {
		today := time.Now().UTC().Truncate(24 * time.Hour)
		predicates = append(predicates,
			task.DueDateNotNil(),
			task.DueDateLT(today),
			task.StatusNEQ(task.StatusDone),
		)
	}

	query = query.Where(predicates...)

	// Get total count before pagination
	totalCount, err := query.Clone().Count(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("count tasks: %w", err)
	}

	// Apply sorting. Priority and status order lexicographically on the
	// canonical label (Done < InProgress < Todo, High < Low < Medium).
	// Id ascending breaks ties so pages stay stable across requests.
	order := ent.Asc
	if !filter.Ascending {
		order = ent.Desc
	}

	switch filter.SortBy {
	case SortByDueDate:
		query = query.Order(order(task.FieldDueDate), ent.Asc(task.FieldID))
	case SortByPriority:
		query = query.Order(order(task.FieldPriority), ent.Asc(task.FieldID))
	case SortByStatus:
		query = query.Order(order(task.FieldStatus), ent.Asc(task.FieldID))
	default:
		query = query.Order(order(task.FieldCreatedAt), ent.Asc(task.FieldID))
	}

	// Apply pagination
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	// Execute query
	tasks, err := query.All(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("query tasks: %w", err)
	}

	return tasks, totalCount, nil
}

// Update replaces every mutable field of an active row and refreshes
// updated_at. Soft-deleted rows update like missing rows: not found.
func (r *EntTaskRepository) Update(ctx context.Context, id int, input *TaskInput) (*ent.Task, error) {
	current, err := r.GetActiveByID(ctx, id)
	if err != nil {
		return nil, err
	}

	update := current.Update().
		SetTitle(input.Title).
		SetPriority(task.Priority(input.Priority)).
		SetStatus(task.Status(input.Status)).
		SetUpdatedAt(time.Now().UTC())

	if input.Description != nil {
		update = update.SetDescription(*input.Description)
	} else {
		update = update.ClearDescription()
	}

	if input.DueDate != nil {
		update = update.SetDueDate(*input.DueDate)
	} else {
		update = update.ClearDueDate()
	}

	return update.Save(ctx)
}

// SoftDelete hides the row from listings. Deleting a row that is
// already hidden reports not found, same as a missing id.
func (r *EntTaskRepository) SoftDelete(ctx context.Context, id int) error {
	current, err := r.GetActiveByID(ctx, id)
	if err != nil {
		return err
	}

	_, err = current.Update().
		SetIsDeleted(true).
		SetUpdatedAt(time.Now().UTC()).
		Save(ctx)
	return err
}

// Restore clears the soft-delete flag. Restoring a row that is not
// deleted succeeds and only advances updated_at.
func (r *EntTaskRepository) Restore(ctx context.Context, id int) (*ent.Task, error) {
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return current.Update().
		SetIsDeleted(false).
		SetUpdatedAt(time.Now().UTC()).
		Save(ctx)
}

// Types for repository input

// TaskInput carries validated, canonical field values. Title is
// trimmed and non-empty; Priority and Status hold canonical labels;
// DueDate is truncated to UTC midnight.
type TaskInput struct {
	Title       string
	Description *string
	Priority    string
	Status      string
	DueDate     *time.Time
}

// Sort keys accepted by List. Anything else falls back to created_at.
const (
	SortByCreatedAt = "createdAt"
	SortByDueDate   = "dueDate"
	SortByPriority  = "priority"
	SortByStatus    = "status"
)

// ListFilter composes optional filters with AND. Nil pointers mean
// the filter is off. Offset and Limit are computed by the caller.
type ListFilter struct {
	Status    *string
	Priority  *string
	Search    string
	DueFrom   *time.Time
	DueTo     *time.Time
	Overdue   bool
	SortBy    string
	Ascending bool
	Limit     int
	Offset    int
}
