package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/sun1tar/MIREA-TIP-Practice-22/todo-store/services/todos/internal/models"
	"github.com/sun1tar/MIREA-TIP-Practice-22/todo-store/services/todos/internal/repository"
)

var ErrTitleRequired = errors.New("title is required")

type TodoService struct {
	repo  repository.TodoRepository
	newID func() string
}

func NewTodoService(repo repository.TodoRepository) *TodoService {
	return &TodoService{
		repo:  repo,
		newID: func() string { return uuid.New().String() },
	}
}

func (s *TodoService) Create(ctx context.Context, title string) (*models.Todo, error) {
	if strings.TrimSpace(title) == "" {
		return nil, ErrTitleRequired
	}

	todo := &models.Todo{
		ID:        s.newID(),
		Title:     title,
		Completed: false,
	}
	if err := s.repo.Create(ctx, todo); err != nil {
		return nil, err
	}
	return todo, nil
}

func (s *TodoService) Get(ctx context.Context, id string) (*models.Todo, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *TodoService) List(ctx context.Context, filter models.ListFilter) ([]*models.Todo, error) {
	return s.repo.List(ctx, filter)
}

// Search ищет задачи по подстроке в заголовке без учёта регистра
func (s *TodoService) Search(ctx context.Context, title string) ([]*models.Todo, error) {
	return s.repo.List(ctx, models.ListFilter{TitleContains: title})
}

// Update меняет только переданные поля; проверка и запись выполняются
// одной операцией репозитория, поэтому частичное обновление не видно
func (s *TodoService) Update(ctx context.Context, id string, patch models.TodoPatch) (*models.Todo, error) {
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return nil, ErrTitleRequired
	}
	return s.repo.Update(ctx, id, patch)
}

func (s *TodoService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// Count используется метрикой todos_stored
func (s *TodoService) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}
