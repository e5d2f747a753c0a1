// internal/service/task_service.go
package service

import (
	"context"
	"strings"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/timestamppb"

	taskv1 "github.com/labflow/labflow/api/proto/task/v1/generated"
	ent "github.com/labflow/labflow/ent/generated"
	"github.com/labflow/labflow/internal/repository"
	"github.com/labflow/labflow/internal/taskfield"
)

// Paging defaults. Out-of-range page sizes reset to the default
// instead of erroring.
const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type TaskService struct {
	taskv1.UnimplementedTaskServiceServer
	repo *repository.EntTaskRepository
}

func NewTaskService(repo *repository.EntTaskRepository) *TaskService {
	return &TaskService{
		repo: repo,
	}
}

// CreateTask validates and normalizes the body, then persists a new task.
// The id is always store-assigned; client-sent ids have nowhere to go.
func (s *TaskService) CreateTask(ctx context.Context, req *taskv1.CreateTaskRequest) (*taskv1.CreateTaskResponse, error) {
	input, err := buildTaskInput(req.Title, req.Description, req.Priority, req.Status, req.DueDate)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, input)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to create task: %v", err)
	}

	return &taskv1.CreateTaskResponse{
		Task: convertEntTaskToProto(created),
	}, nil
}

// GetTask retrieves a task by ID. Direct lookup sees soft-deleted
// rows; only listings hide them.
func (s *TaskService) GetTask(ctx context.Context, req *taskv1.GetTaskRequest) (*taskv1.GetTaskResponse, error) {
	if req.Id <= 0 {
		return nil, status.Error(codes.InvalidArgument, "id is required")
	}

	found, err := s.repo.GetByID(ctx, int(req.Id))
	if err != nil {
		if ent.IsNotFound(err) {
			return nil, status.Error(codes.NotFound, "task not found")
		}
		return nil, status.Errorf(codes.Internal, "failed to get task: %v", err)
	}

	return &taskv1.GetTaskResponse{
		Task: convertEntTaskToProto(found),
	}, nil
}

// ListTasks returns one page of tasks matching the AND-composed
// filters, plus the pre-pagination total for page-count math.
func (s *TaskService) ListTasks(ctx context.Context, req *taskv1.ListTasksRequest) (*taskv1.ListTasksResponse, error) {
	// Clamp paging input. Bad values reset rather than error.
	page := int(req.Page)
	if page < 1 {
		page = 1
	}
	pageSize := int(req.PageSize)
	if pageSize < 1 || pageSize > maxPageSize {
		pageSize = defaultPageSize
	}

	// Build filter. Enum-valued filters are normalized leniently:
	// an unrecognized status filters on Todo, not on an error.
	filter := repository.ListFilter{
		Overdue:   req.Overdue,
		SortBy:    sortKey(req.SortBy),
		Ascending: strings.EqualFold(req.SortDir, "asc"),
		Limit:     pageSize,
		Offset:    (page - 1) * pageSize,
	}

	if req.Status != "" {
		st := taskfield.NormalizeStatus(req.Status)
		filter.Status = &st
	}

	if req.Priority != "" {
		pr := taskfield.NormalizePriority(req.Priority)
		filter.Priority = &pr
	}

	if q := strings.TrimSpace(req.Q); q != "" {
		filter.Search = q
	}

	if req.DueFrom != nil {
		from := dateOnly(req.DueFrom.AsTime())
		filter.DueFrom = &from
	}

	if req.DueTo != nil {
		to := dateOnly(req.DueTo.AsTime())
		filter.DueTo = &to
	}

	tasks, totalCount, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to list tasks: %v", err)
	}

	protoTasks := make([]*taskv1.Task, len(tasks))
	for i, t := range tasks {
		protoTasks[i] = convertEntTaskToProto(t)
	}

	return &taskv1.ListTasksResponse{
		Page:       int32(page),
		PageSize:   int32(pageSize),
		TotalCount: int32(totalCount),
		Tasks:      protoTasks,
	}, nil
}

// UpdateTask replaces every mutable field of an existing task.
func (s *TaskService) UpdateTask(ctx context.Context, req *taskv1.UpdateTaskRequest) (*taskv1.UpdateTaskResponse, error) {
	if req.Id <= 0 {
		return nil, status.Error(codes.InvalidArgument, "id is required")
	}

	input, err := buildTaskInput(req.Title, req.Description, req.Priority, req.Status, req.DueDate)
	if err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, int(req.Id), input)
	if err != nil {
		if ent.IsNotFound(err) {
			return nil, status.Error(codes.NotFound, "task not found")
		}
		return nil, status.Errorf(codes.Internal, "failed to update task: %v", err)
	}

	return &taskv1.UpdateTaskResponse{
		Task: convertEntTaskToProto(updated),
	}, nil
}

// DeleteTask soft-deletes a task: the row stays in the store, hidden
// from listings until restored.
func (s *TaskService) DeleteTask(ctx context.Context, req *taskv1.DeleteTaskRequest) (*emptypb.Empty, error) {
	if req.Id <= 0 {
		return nil, status.Error(codes.InvalidArgument, "id is required")
	}

	if err := s.repo.SoftDelete(ctx, int(req.Id)); err != nil {
		if ent.IsNotFound(err) {
			return nil, status.Error(codes.NotFound, "task not found")
		}
		return nil, status.Errorf(codes.Internal, "failed to delete task: %v", err)
	}

	return &emptypb.Empty{}, nil
}

// RestoreTask reverses a soft delete. Restoring an active task is a
// no-op success; only a missing id is not found.
func (s *TaskService) RestoreTask(ctx context.Context, req *taskv1.RestoreTaskRequest) (*taskv1.RestoreTaskResponse, error) {
	if req.Id <= 0 {
		return nil, status.Error(codes.InvalidArgument, "id is required")
	}

	restored, err := s.repo.Restore(ctx, int(req.Id))
	if err != nil {
		if ent.IsNotFound(err) {
			return nil, status.Error(codes.NotFound, "task not found")
		}
		return nil, status.Errorf(codes.Internal, "failed to restore task: %v", err)
	}

	return &taskv1.RestoreTaskResponse{
		Task: convertEntTaskToProto(restored),
	}, nil
}

// Helper functions

// buildTaskInput applies the strict validation rules for create and
// update bodies, first failure wins, then normalizes the rest.
func buildTaskInput(title, description, priority, statusRaw string, dueDate *timestamppb.Timestamp) (*repository.TaskInput, error) {
	validTitle, err := taskfield.ValidateTitle(title)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	validPriority, err := taskfield.ValidatePriority(priority)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	validStatus, err := taskfield.ValidateStatus(statusRaw)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	input := &repository.TaskInput{
		Title:       validTitle,
		Description: taskfield.NormalizeDescription(description),
		Priority:    validPriority,
		Status:      validStatus,
	}

	if dueDate != nil {
		due := dateOnly(dueDate.AsTime())
		input.DueDate = &due
	}

	return input, nil
}

func convertEntTaskToProto(t *ent.Task) *taskv1.Task {
	proto := &taskv1.Task{
		Id:        int64(t.ID),
		Title:     t.Title,
		Priority:  string(t.Priority),
		Status:    string(t.Status),
		IsDeleted: t.IsDeleted,
		CreatedAt: timestamppb.New(t.CreatedAt),
	}

	if t.Description != nil {
		proto.Description = *t.Description
	}

	if t.DueDate != nil {
		proto.DueDate = timestamppb.New(*t.DueDate)
	}

	if t.UpdatedAt != nil {
		proto.UpdatedAt = timestamppb.New(*t.UpdatedAt)
	}

	return proto
}

func sortKey(raw string) string {
	switch strings.ToLower(raw) {
	case "duedate":
		return repository.SortByDueDate
	case "priority":
		return repository.SortByPriority
	case "status":
		return repository.SortByStatus
	default:
		// Unrecognized sort keys fall back to creation time.
		return repository.SortByCreatedAt
	}
}

// dateOnly drops the time of day; due dates compare by calendar date.
func dateOnly(t time.Time) time.Time {
	return t.UTC().Truncate(24 * time.Hour)
}
