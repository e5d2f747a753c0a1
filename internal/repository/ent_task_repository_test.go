// internal/repository/ent_task_repository_test.go
package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ent "github.com/labflow/labflow/ent/generated"
	"github.com/labflow/labflow/ent/generated/enttest"
	"github.com/labflow/labflow/internal/taskfield"

	_ "github.com/mattn/go-sqlite3"
)

// Test helpers
func setupTestDB(t *testing.T) *ent.Client {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_fk=1", t.Name())
	return enttest.Open(t, "sqlite3", dsn)
}

func mustCreate(t *testing.T, repo *EntTaskRepository, input *TaskInput) *ent.Task {
	created, err := repo.Create(context.Background(), input)
	require.NoError(t, err)
	return created
}

func strPtr(s string) *string { return &s }

func datePtr(t time.Time) *time.Time {
	d := t.UTC().Truncate(24 * time.Hour)
	return &d
}

func TestCreate_SetsLifecycleDefaults(t *testing.T) {
	client := setupTestDB(t)
	defer client.Close()
	repo := NewEntTaskRepository(client)

	created := mustCreate(t, repo, &TaskInput{
		Title:    "Write spec",
		Priority: taskfield.PriorityHigh,
		Status:   taskfield.StatusTodo,
	})

	assert.Greater(t, created.ID, 0)
	assert.False(t, created.IsDeleted)
	assert.False(t, created.CreatedAt.IsZero())
	assert.Nil(t, created.UpdatedAt)
	assert.Nil(t, created.Description)
	assert.Nil(t, created.DueDate)
}

func TestList_FiltersCompose(t *testing.T) {
	client := setupTestDB(t)
	defer client.Close()
	repo := NewEntTaskRepository(client)
	ctx := context.Background()

	mustCreate(t, repo, &TaskInput{Title: "high todo", Priority: taskfield.PriorityHigh, Status: taskfield.StatusTodo})
	mustCreate(t, repo, &TaskInput{Title: "high done", Priority: taskfield.PriorityHigh, Status: taskfield.StatusDone})
	mustCreate(t, repo, &TaskInput{Title: "low todo", Priority: taskfield.PriorityLow, Status: taskfield.StatusTodo})

	tasks, total, err := repo.List(ctx, ListFilter{
		Status:   strPtr(taskfield.StatusTodo),
		Priority: strPtr(taskfield.PriorityHigh),
		Limit:    20,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, tasks, 1)
	assert.Equal(t, "high todo", tasks[0].Title)
}

func TestList_SearchMatchesTitleOrDescription(t *testing.T) {
	client := setupTestDB(t)
	defer client.Close()
	repo := NewEntTaskRepository(client)
	ctx := context.Background()

	mustCreate(t, repo, &TaskInput{Title: "Calibrate spectrometer", Priority: taskfield.PriorityMedium, Status: taskfield.StatusTodo})
	mustCreate(t, repo, &TaskInput{
		Title:       "Weekly report",
		Description: strPtr("include spectrometer readings"),
		Priority:    taskfield.PriorityMedium,
		Status:      taskfield.StatusTodo,
	})
	mustCreate(t, repo, &TaskInput{Title: "Order reagents", Priority: taskfield.PriorityMedium, Status: taskfield.StatusTodo})

	tasks, total, err := repo.List(ctx, ListFilter{Search: "SPECTRO", Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, tasks, 2)
}

func TestList_DueDateBoundsInclusive(t *testing.T) {
	client := setupTestDB(t)
	defer client.Close()
	repo := NewEntTaskRepository(client)
	ctx := context.Background()

	day := func(offset int) *time.Time {
		return datePtr(time.Now().UTC().AddDate(0, 0, offset))
	}

	mustCreate(t, repo, &TaskInput{Title: "due yesterday", Priority: taskfield.PriorityMedium, Status: taskfield.StatusTodo, DueDate: day(-1)})
	mustCreate(t, repo, &TaskInput{Title: "due today", Priority: taskfield.PriorityMedium, Status: taskfield.StatusTodo, DueDate: day(0)})
	mustCreate(t, repo, &TaskInput{Title: "due next week", Priority: taskfield.PriorityMedium, Status: taskfield.StatusTodo, DueDate: day(7)})
	mustCreate(t, repo, &TaskInput{Title: "no due date", Priority: taskfield.PriorityMedium, Status: taskfield.StatusTodo})

	// Inclusive bounds: yesterday through today.
	tasks, total, err := repo.List(ctx, ListFilter{DueFrom: day(-1), DueTo: day(0), Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	for _, task := range tasks {
		require.NotNil(t, task.DueDate)
	}

	// A record without a due date matches neither bound on its own.
	_, total, err = repo.List(ctx, ListFilter{DueFrom: day(-30), Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
}

func TestList_Overdue(t *testing.T) {
	client := setupTestDB(t)
	defer client.Close()
	repo := NewEntTaskRepository(client)
	ctx := context.Background()

	yesterday := datePtr(time.Now().UTC().AddDate(0, 0, -1))
	tomorrow := datePtr(time.Now().UTC().AddDate(0, 0, 1))

	late := mustCreate(t, repo, &TaskInput{Title: "late todo", Priority: taskfield.PriorityMedium, Status: taskfield.StatusTodo, DueDate: yesterday})
	mustCreate(t, repo, &TaskInput{Title: "late but done", Priority: taskfield.PriorityMedium, Status: taskfield.StatusDone, DueDate: yesterday})
	mustCreate(t, repo, &TaskInput{Title: "not yet due", Priority: taskfield.PriorityMedium, Status: taskfield.StatusTodo, DueDate: tomorrow})
	mustCreate(t, repo, &TaskInput{Title: "undated", Priority: taskfield.PriorityMedium, Status: taskfield.StatusTodo})

	tasks, total, err := repo.List(ctx, ListFilter{Overdue: true, Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, tasks, 1)
	assert.Equal(t, late.ID, tasks[0].ID)

	// Due today is not overdue; the cutoff is strictly before today.
	mustCreate(t, repo, &TaskInput{Title: "due today", Priority: taskfield.PriorityMedium, Status: taskfield.StatusTodo, DueDate: datePtr(time.Now().UTC())})
	_, total, err = repo.List(ctx, ListFilter{Overdue: true, Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}

func TestList_LexicographicSortWithIDTiebreak(t *testing.T) {
	client := setupTestDB(t)
	defer client.Close()
	repo := NewEntTaskRepository(client)
	ctx := context.Background()

	a := mustCreate(t, repo, &TaskInput{Title: "a", Priority: taskfield.PriorityMedium, Status: taskfield.StatusTodo})
	b := mustCreate(t, repo, &TaskInput{Title: "b", Priority: taskfield.PriorityHigh, Status: taskfield.StatusDone})
	c := mustCreate(t, repo, &TaskInput{Title: "c", Priority: taskfield.PriorityLow, Status: taskfield.StatusInProgress})
	d := mustCreate(t, repo, &TaskInput{Title: "d", Priority: taskfield.PriorityHigh, Status: taskfield.StatusTodo})

	// Priority ascending is alphabetical on the label: High < Low < Medium.
	// Equal labels fall back to id ascending.
	tasks, _, err := repo.List(ctx, ListFilter{SortBy: SortByPriority, Ascending: true, Limit: 20})
	require.NoError(t, err)
	require.Len(t, tasks, 4)
	assert.Equal(t, []int{b.ID, d.ID, c.ID, a.ID}, ids(tasks))

	// Status ascending: Done < InProgress < Todo.
	tasks, _, err = repo.List(ctx, ListFilter{SortBy: SortByStatus, Ascending: true, Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, []int{b.ID, c.ID, a.ID, d.ID}, ids(tasks))
}

func TestList_PaginationIsStableAcrossPages(t *testing.T) {
	client := setupTestDB(t)
	defer client.Close()
	repo := NewEntTaskRepository(client)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		mustCreate(t, repo, &TaskInput{
			Title:    fmt.Sprintf("task %d", i),
			Priority: taskfield.PriorityMedium,
			Status:   taskfield.StatusTodo,
		})
	}

	var seen []int
	for page := 1; page <= 3; page++ {
		tasks, total, err := repo.List(ctx, ListFilter{
			SortBy:    SortByPriority, // all equal, ordered by the id tiebreak
			Ascending: true,
			Limit:     2,
			Offset:    (page - 1) * 2,
		})
		require.NoError(t, err)
		assert.Equal(t, 5, total)
		seen = append(seen, ids(tasks)...)
	}

	require.Len(t, seen, 5)
	for i := 1; i < len(seen); i++ {
		assert.Greater(t, seen[i], seen[i-1], "no duplicate or missing rows across pages")
	}
}

func TestList_ExcludesSoftDeleted(t *testing.T) {
	client := setupTestDB(t)
	defer client.Close()
	repo := NewEntTaskRepository(client)
	ctx := context.Background()

	kept := mustCreate(t, repo, &TaskInput{Title: "kept", Priority: taskfield.PriorityMedium, Status: taskfield.StatusTodo})
	gone := mustCreate(t, repo, &TaskInput{Title: "gone", Priority: taskfield.PriorityMedium, Status: taskfield.StatusTodo})

	require.NoError(t, repo.SoftDelete(ctx, gone.ID))

	tasks, total, err := repo.List(ctx, ListFilter{Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, tasks, 1)
	assert.Equal(t, kept.ID, tasks[0].ID)

	// Still reachable by direct id lookup.
	found, err := repo.GetByID(ctx, gone.ID)
	require.NoError(t, err)
	assert.True(t, found.IsDeleted)

	// But not through the active-only lookup.
	_, err = repo.GetActiveByID(ctx, gone.ID)
	assert.True(t, ent.IsNotFound(err))
}

func TestSoftDeleteRestore_RoundTrip(t *testing.T) {
	client := setupTestDB(t)
	defer client.Close()
	repo := NewEntTaskRepository(client)
	ctx := context.Background()

	created := mustCreate(t, repo, &TaskInput{
		Title:       "Inventory check",
		Description: strPtr("cold storage"),
		Priority:    taskfield.PriorityLow,
		Status:      taskfield.StatusInProgress,
		DueDate:     datePtr(time.Now().UTC().AddDate(0, 0, 3)),
	})

	time.Sleep(time.Millisecond)
	require.NoError(t, repo.SoftDelete(ctx, created.ID))

	deleted, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, deleted.UpdatedAt)

	time.Sleep(time.Millisecond)
	restored, err := repo.Restore(ctx, created.ID)
	require.NoError(t, err)

	// Identical to the pre-delete state except updated_at advanced.
	assert.Equal(t, created.Title, restored.Title)
	assert.Equal(t, created.Description, restored.Description)
	assert.Equal(t, created.Priority, restored.Priority)
	assert.Equal(t, created.Status, restored.Status)
	require.NotNil(t, restored.DueDate)
	assert.True(t, created.DueDate.Equal(*restored.DueDate))
	assert.True(t, created.CreatedAt.Equal(restored.CreatedAt))
	assert.False(t, restored.IsDeleted)
	require.NotNil(t, restored.UpdatedAt)
	assert.True(t, restored.UpdatedAt.After(*deleted.UpdatedAt))
}

func TestSoftDelete_AlreadyDeletedNotFound(t *testing.T) {
	client := setupTestDB(t)
	defer client.Close()
	repo := NewEntTaskRepository(client)
	ctx := context.Background()

	created := mustCreate(t, repo, &TaskInput{Title: "once", Priority: taskfield.PriorityMedium, Status: taskfield.StatusTodo})

	require.NoError(t, repo.SoftDelete(ctx, created.ID))
	err := repo.SoftDelete(ctx, created.ID)
	assert.True(t, ent.IsNotFound(err))
}

func TestRestore_ActiveRowIsNoOpSuccess(t *testing.T) {
	client := setupTestDB(t)
	defer client.Close()
	repo := NewEntTaskRepository(client)
	ctx := context.Background()

	created := mustCreate(t, repo, &TaskInput{Title: "active", Priority: taskfield.PriorityMedium, Status: taskfield.StatusTodo})

	time.Sleep(time.Millisecond)
	first, err := repo.Restore(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, first.UpdatedAt)

	time.Sleep(time.Millisecond)
	second, err := repo.Restore(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, second.UpdatedAt)

	assert.Equal(t, first.Title, second.Title)
	assert.False(t, second.IsDeleted)
	assert.True(t, second.UpdatedAt.After(*first.UpdatedAt))

	_, err = repo.Restore(ctx, created.ID+1000)
	assert.True(t, ent.IsNotFound(err))
}

func TestUpdate_ReplacesAllMutableFields(t *testing.T) {
	client := setupTestDB(t)
	defer client.Close()
	repo := NewEntTaskRepository(client)
	ctx := context.Background()

	created := mustCreate(t, repo, &TaskInput{
		Title:       "before",
		Description: strPtr("old notes"),
		Priority:    taskfield.PriorityLow,
		Status:      taskfield.StatusTodo,
		DueDate:     datePtr(time.Now().UTC().AddDate(0, 0, 1)),
	})

	time.Sleep(time.Millisecond)
	updated, err := repo.Update(ctx, created.ID, &TaskInput{
		Title:    "after",
		Priority: taskfield.PriorityHigh,
		Status:   taskfield.StatusDone,
	})
	require.NoError(t, err)

	assert.Equal(t, "after", updated.Title)
	assert.Equal(t, "High", string(updated.Priority))
	assert.Equal(t, "Done", string(updated.Status))
	// Absent fields clear on full replacement.
	assert.Nil(t, updated.Description)
	assert.Nil(t, updated.DueDate)
	assert.True(t, created.CreatedAt.Equal(updated.CreatedAt))
	require.NotNil(t, updated.UpdatedAt)
	assert.True(t, updated.UpdatedAt.After(created.CreatedAt))
}

func TestUpdate_SoftDeletedIsNotFound(t *testing.T) {
	client := setupTestDB(t)
	defer client.Close()
	repo := NewEntTaskRepository(client)
	ctx := context.Background()

	created := mustCreate(t, repo, &TaskInput{Title: "hidden", Priority: taskfield.PriorityMedium, Status: taskfield.StatusTodo})
	require.NoError(t, repo.SoftDelete(ctx, created.ID))

	_, err := repo.Update(ctx, created.ID, &TaskInput{
		Title:    "should fail",
		Priority: taskfield.PriorityMedium,
		Status:   taskfield.StatusTodo,
	})
	assert.True(t, ent.IsNotFound(err))
}

func ids(tasks []*ent.Task) []int {
	out := make([]int, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}
