package repository

import (
	"context"
	"errors"

	"github.com/sun1tar/MIREA-TIP-Practice-22/todo-store/services/todos/internal/models"
)

var (
	ErrTodoNotFound = errors.New("todo not found")
	ErrTodoExists   = errors.New("todo already exists")
)

type TodoRepository interface {
	Create(ctx context.Context, todo *models.Todo) error
	GetByID(ctx context.Context, id string) (*models.Todo, error)
	List(ctx context.Context, filter models.ListFilter) ([]*models.Todo, error)
	Update(ctx context.Context, id string, patch models.TodoPatch) (*models.Todo, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}
