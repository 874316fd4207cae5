package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/taskmanager/internal/common"
	"github.com/dmitrijs2005/taskmanager/internal/logging"
	"github.com/dmitrijs2005/taskmanager/internal/server/models"
	"github.com/dmitrijs2005/taskmanager/internal/server/repositories/repomanager"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/google/uuid"
)

// TaskInput is the create payload. The owner is never taken from input.
type TaskInput struct {
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}

// TaskService exposes task CRUD scoped to the authenticated owner. A task
// that exists but belongs to someone else is reported as not found.
type TaskService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
}

func NewTaskService(db *sql.DB, m repomanager.RepositoryManager, l logging.Logger) *TaskService {
	return &TaskService{
		db:          db,
		repomanager: m,
		logger:      l.With("module", "tasks"),
	}
}

func (s *TaskService) Create(ctx context.Context, ownerID string, in TaskInput) (*models.Task, error) {
	in.Description = strings.TrimSpace(in.Description)
	if err := fromValidation(validation.ValidateStruct(&in,
		validation.Field(&in.Description, validation.Required),
	)); err != nil {
		return nil, err
	}

	t, err := s.repomanager.Tasks(s.db).Create(ctx, &models.Task{
		Description: in.Description,
		Completed:   in.Completed,
		OwnerID:     ownerID,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating task: %w", err)
	}
	return t, nil
}

func (s *TaskService) List(ctx context.Context, ownerID string, q models.TaskQuery) ([]*models.Task, error) {
	return s.repomanager.Tasks(s.db).List(ctx, ownerID, q)
}

func (s *TaskService) Get(ctx context.Context, ownerID, taskID string) (*models.Task, error) {
	if !validTaskID(taskID) {
		return nil, common.ErrorNotFound
	}
	return s.repomanager.Tasks(s.db).Get(ctx, ownerID, taskID)
}

// Update applies patch to the owner's task. Only description and completed
// may be changed.
func (s *TaskService) Update(ctx context.Context, ownerID, taskID string, patch map[string]any) (*models.Task, error) {
	if err := checkPatchKeys(patch, "description", "completed"); err != nil {
		return nil, err
	}
	if !validTaskID(taskID) {
		return nil, common.ErrorNotFound
	}

	repo := s.repomanager.Tasks(s.db)
	t, err := repo.Get(ctx, ownerID, taskID)
	if err != nil {
		return nil, err
	}

	if v, ok, err := patchString(patch, "description"); err != nil {
		return nil, err
	} else if ok {
		t.Description = strings.TrimSpace(v)
		if err := validation.Validate(t.Description, validation.Required); err != nil {
			return nil, common.NewFieldError("description", err.Error())
		}
	}

	if v, ok, err := patchBool(patch, "completed"); err != nil {
		return nil, err
	} else if ok {
		t.Completed = v
	}

	if err := repo.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Delete removes the owner's task and returns it.
func (s *TaskService) Delete(ctx context.Context, ownerID, taskID string) (*models.Task, error) {
	if !validTaskID(taskID) {
		return nil, common.ErrorNotFound
	}
	return s.repomanager.Tasks(s.db).Delete(ctx, ownerID, taskID)
}

func validTaskID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
