// internal/service/task_service_test.go
package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/timestamppb"

	taskv1 "github.com/labflow/labflow/api/proto/task/v1/generated"
	ent "github.com/labflow/labflow/ent/generated"
	"github.com/labflow/labflow/ent/generated/enttest"
	"github.com/labflow/labflow/internal/repository"

	_ "github.com/mattn/go-sqlite3"
)

// Test helpers
func setupTestDB(t *testing.T) *ent.Client {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_fk=1", t.Name())
	return enttest.Open(t, "sqlite3", dsn)
}

func newTestService(t *testing.T) (*TaskService, func()) {
	client := setupTestDB(t)
	svc := NewTaskService(repository.NewEntTaskRepository(client))
	return svc, func() { client.Close() }
}

func createTask(t *testing.T, svc *TaskService, req *taskv1.CreateTaskRequest) *taskv1.Task {
	resp, err := svc.CreateTask(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, resp.Task)
	return resp.Task
}

func daysFromNow(offset int) *timestamppb.Timestamp {
	return timestamppb.New(time.Now().UTC().AddDate(0, 0, offset))
}

func TestCreateTask_NormalizesFields(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()

	created := createTask(t, svc, &taskv1.CreateTaskRequest{
		Title:       "  Write spec  ",
		Description: "   ",
		Priority:    "high",
		Status:      "todo",
	})

	assert.Greater(t, created.Id, int64(0))
	assert.Equal(t, "Write spec", created.Title)
	assert.Equal(t, "High", created.Priority)
	assert.Equal(t, "Todo", created.Status)
	assert.Empty(t, created.Description)
	require.NotNil(t, created.CreatedAt)
	assert.Nil(t, created.UpdatedAt)
	assert.Nil(t, created.DueDate)
}

func TestCreateTask_Validation(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	tests := []struct {
		name string
		req  *taskv1.CreateTaskRequest
	}{
		{"empty title", &taskv1.CreateTaskRequest{Title: "", Priority: "low", Status: "todo"}},
		{"whitespace title", &taskv1.CreateTaskRequest{Title: "   ", Priority: "low", Status: "todo"}},
		{"title too long", &taskv1.CreateTaskRequest{Title: strings.Repeat("x", 201), Priority: "low", Status: "todo"}},
		{"unknown priority", &taskv1.CreateTaskRequest{Title: "ok", Priority: "critical", Status: "todo"}},
		{"unknown status", &taskv1.CreateTaskRequest{Title: "ok", Priority: "low", Status: "cancelled"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateTask(ctx, tt.req)
			require.Error(t, err)
			assert.Equal(t, codes.InvalidArgument, status.Code(err))
		})
	}

	// The boundary value passes.
	created := createTask(t, svc, &taskv1.CreateTaskRequest{
		Title:    strings.Repeat("x", 200),
		Priority: "low",
		Status:   "todo",
	})
	assert.Len(t, created.Title, 200)
}

func TestListTasks_ClampsPaging(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	tests := []struct {
		name         string
		page         int32
		pageSize     int32
		wantPage     int32
		wantPageSize int32
	}{
		{"defaults", 0, 0, 1, 20},
		{"negative page", -1, 10, 1, 10},
		{"zero page size", 1, 0, 1, 20},
		{"oversized page size", 1, 500, 1, 20},
		{"negative page size", 1, -5, 1, 20},
		{"upper bound kept", 1, 100, 1, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := svc.ListTasks(ctx, &taskv1.ListTasksRequest{Page: tt.page, PageSize: tt.pageSize})
			require.NoError(t, err)
			assert.Equal(t, tt.wantPage, resp.Page)
			assert.Equal(t, tt.wantPageSize, resp.PageSize)
		})
	}
}

func TestListTasks_FilterByPriority(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	created := createTask(t, svc, &taskv1.CreateTaskRequest{Title: "Write spec", Priority: "high", Status: "todo"})

	resp, err := svc.ListTasks(ctx, &taskv1.ListTasksRequest{Priority: "High"})
	require.NoError(t, err)
	require.Len(t, resp.Tasks, 1)
	assert.Equal(t, created.Id, resp.Tasks[0].Id)
	assert.Equal(t, int32(1), resp.TotalCount)

	resp, err = svc.ListTasks(ctx, &taskv1.ListTasksRequest{Priority: "Low"})
	require.NoError(t, err)
	assert.Empty(t, resp.Tasks)
	assert.Equal(t, int32(0), resp.TotalCount)

	// Filter values normalize case-insensitively rather than erroring.
	resp, err = svc.ListTasks(ctx, &taskv1.ListTasksRequest{Priority: "HIGH"})
	require.NoError(t, err)
	assert.Len(t, resp.Tasks, 1)

	// An unrecognized filter value falls back to the default label.
	resp, err = svc.ListTasks(ctx, &taskv1.ListTasksRequest{Priority: "urgent"})
	require.NoError(t, err)
	assert.Empty(t, resp.Tasks)
}

func TestListTasks_OverdueTracksStatusChanges(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	created := createTask(t, svc, &taskv1.CreateTaskRequest{
		Title:    "Overdue report",
		Priority: "medium",
		Status:   "todo",
		DueDate:  daysFromNow(-1),
	})

	resp, err := svc.ListTasks(ctx, &taskv1.ListTasksRequest{Overdue: true})
	require.NoError(t, err)
	require.Len(t, resp.Tasks, 1)
	assert.Equal(t, created.Id, resp.Tasks[0].Id)

	// Finishing the task removes it from the overdue view.
	_, err = svc.UpdateTask(ctx, &taskv1.UpdateTaskRequest{
		Id:       created.Id,
		Title:    created.Title,
		Priority: "medium",
		Status:   "done",
		DueDate:  daysFromNow(-1),
	})
	require.NoError(t, err)

	resp, err = svc.ListTasks(ctx, &taskv1.ListTasksRequest{Overdue: true})
	require.NoError(t, err)
	assert.Empty(t, resp.Tasks)
}

func TestListTasks_SearchAndSort(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	createTask(t, svc, &taskv1.CreateTaskRequest{Title: "Alpha run", Description: "first batch", Priority: "low", Status: "todo"})
	createTask(t, svc, &taskv1.CreateTaskRequest{Title: "Beta run", Description: "second batch", Priority: "high", Status: "todo"})
	createTask(t, svc, &taskv1.CreateTaskRequest{Title: "Cleanup", Priority: "medium", Status: "todo"})

	resp, err := svc.ListTasks(ctx, &taskv1.ListTasksRequest{Q: "  batch "})
	require.NoError(t, err)
	assert.Equal(t, int32(2), resp.TotalCount)

	// Lexicographic priority sort: High < Low < Medium.
	resp, err = svc.ListTasks(ctx, &taskv1.ListTasksRequest{SortBy: "priority", SortDir: "asc"})
	require.NoError(t, err)
	require.Len(t, resp.Tasks, 3)
	assert.Equal(t, "High", resp.Tasks[0].Priority)
	assert.Equal(t, "Low", resp.Tasks[1].Priority)
	assert.Equal(t, "Medium", resp.Tasks[2].Priority)

	// Unrecognized sort key falls back to creation time, no error.
	resp, err = svc.ListTasks(ctx, &taskv1.ListTasksRequest{SortBy: "severity"})
	require.NoError(t, err)
	assert.Len(t, resp.Tasks, 3)
}

func TestGetTask_DirectLookupSeesSoftDeleted(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	created := createTask(t, svc, &taskv1.CreateTaskRequest{Title: "short lived", Priority: "low", Status: "todo"})

	_, err := svc.GetTask(ctx, &taskv1.GetTaskRequest{Id: created.Id + 1000})
	assert.Equal(t, codes.NotFound, status.Code(err))

	_, err = svc.DeleteTask(ctx, &taskv1.DeleteTaskRequest{Id: created.Id})
	require.NoError(t, err)

	// Hidden from listings, but still reachable by id.
	resp, err := svc.GetTask(ctx, &taskv1.GetTaskRequest{Id: created.Id})
	require.NoError(t, err)
	assert.True(t, resp.Task.IsDeleted)
	assert.Equal(t, created.Title, resp.Task.Title)
}

func TestDeleteRestore_RoundTrip(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	created := createTask(t, svc, &taskv1.CreateTaskRequest{
		Title:       "Cycle me",
		Description: "keep these notes",
		Priority:    "high",
		Status:      "inprogress",
		DueDate:     daysFromNow(5),
	})

	time.Sleep(time.Millisecond)
	_, err := svc.DeleteTask(ctx, &taskv1.DeleteTaskRequest{Id: created.Id})
	require.NoError(t, err)

	// Hidden from listings while deleted.
	list, err := svc.ListTasks(ctx, &taskv1.ListTasksRequest{})
	require.NoError(t, err)
	assert.Empty(t, list.Tasks)

	// Deleting again reads as not found.
	_, err = svc.DeleteTask(ctx, &taskv1.DeleteTaskRequest{Id: created.Id})
	assert.Equal(t, codes.NotFound, status.Code(err))

	time.Sleep(time.Millisecond)
	restoredResp, err := svc.RestoreTask(ctx, &taskv1.RestoreTaskRequest{Id: created.Id})
	require.NoError(t, err)
	restored := restoredResp.Task

	assert.Equal(t, created.Title, restored.Title)
	assert.Equal(t, created.Description, restored.Description)
	assert.Equal(t, created.Priority, restored.Priority)
	assert.Equal(t, created.Status, restored.Status)
	require.NotNil(t, restored.UpdatedAt)

	// Back in the default listing.
	list, err = svc.ListTasks(ctx, &taskv1.ListTasksRequest{})
	require.NoError(t, err)
	require.Len(t, list.Tasks, 1)
	assert.Equal(t, created.Id, list.Tasks[0].Id)
}

func TestRestoreTask_IdempotentOnActive(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	created := createTask(t, svc, &taskv1.CreateTaskRequest{Title: "never deleted", Priority: "low", Status: "todo"})

	time.Sleep(time.Millisecond)
	first, err := svc.RestoreTask(ctx, &taskv1.RestoreTaskRequest{Id: created.Id})
	require.NoError(t, err)
	require.NotNil(t, first.Task.UpdatedAt)

	time.Sleep(time.Millisecond)
	second, err := svc.RestoreTask(ctx, &taskv1.RestoreTaskRequest{Id: created.Id})
	require.NoError(t, err)
	require.NotNil(t, second.Task.UpdatedAt)

	assert.Equal(t, first.Task.Title, second.Task.Title)
	assert.Equal(t, first.Task.Priority, second.Task.Priority)
	assert.Equal(t, first.Task.Status, second.Task.Status)
	assert.True(t, second.Task.UpdatedAt.AsTime().After(first.Task.UpdatedAt.AsTime()))

	_, err = svc.RestoreTask(ctx, &taskv1.RestoreTaskRequest{Id: created.Id + 1000})
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestUpdateTask_Errors(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	_, err := svc.UpdateTask(ctx, &taskv1.UpdateTaskRequest{Id: 12345, Title: "x", Priority: "low", Status: "todo"})
	assert.Equal(t, codes.NotFound, status.Code(err))

	created := createTask(t, svc, &taskv1.CreateTaskRequest{Title: "present", Priority: "low", Status: "todo"})

	_, err = svc.UpdateTask(ctx, &taskv1.UpdateTaskRequest{Id: created.Id, Title: "", Priority: "low", Status: "todo"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = svc.UpdateTask(ctx, &taskv1.UpdateTaskRequest{Id: created.Id, Title: "ok", Priority: "low", Status: "paused"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}
