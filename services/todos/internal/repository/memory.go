package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sun1tar/MIREA-TIP-Practice-22/todo-store/services/todos/internal/models"
)

// MemoryTodoRepository хранит задачи в map под одним мьютексом.
// Мьютекс держится только на время одной операции с map; наружу
// всегда отдаются копии, поэтому кодирование JSON идёт без блокировки.
type MemoryTodoRepository struct {
	mu      sync.Mutex
	todos   map[string]*entry
	nextSeq uint64
	now     func() time.Time
}

// entry хранит порядковый номер вставки для стабильной сортировки списка
type entry struct {
	todo models.Todo
	seq  uint64
}

func NewMemoryTodoRepository() *MemoryTodoRepository {
	return &MemoryTodoRepository{
		todos: make(map[string]*entry),
		now:   time.Now,
	}
}

var _ TodoRepository = (*MemoryTodoRepository)(nil)

func (r *MemoryTodoRepository) Create(ctx context.Context, todo *models.Todo) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	stored := *todo
	now := r.now()
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.todos[stored.ID]; ok {
		return fmt.Errorf("%w: %s", ErrTodoExists, stored.ID)
	}
	r.nextSeq++
	r.todos[stored.ID] = &entry{todo: stored, seq: r.nextSeq}
	todo.CreatedAt, todo.UpdatedAt = stored.CreatedAt, stored.UpdatedAt
	return nil
}

func (r *MemoryTodoRepository) GetByID(ctx context.Context, id string) (*models.Todo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.todos[id]
	if !ok {
		return nil, ErrTodoNotFound
	}
	copied := e.todo
	return &copied, nil
}

// List возвращает задачи в порядке создания
func (r *MemoryTodoRepository) List(ctx context.Context, filter models.ListFilter) ([]*models.Todo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Снимок под блокировкой, фильтрация и сортировка уже без неё
	r.mu.Lock()
	snapshot := make([]entry, 0, len(r.todos))
	for _, e := range r.todos {
		snapshot = append(snapshot, *e)
	}
	r.mu.Unlock()

	sort.Slice(snapshot, func(i, j int) bool {
		return snapshot[i].seq < snapshot[j].seq
	})

	needle := strings.ToLower(filter.TitleContains)
	todos := make([]*models.Todo, 0, len(snapshot))
	for i := range snapshot {
		todo := &snapshot[i].todo
		if filter.Completed != nil && todo.Completed != *filter.Completed {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(todo.Title), needle) {
			continue
		}
		todos = append(todos, todo)
	}
	return todos, nil
}

// Update применяет патч атомарно: либо все переданные поля, либо ничего
func (r *MemoryTodoRepository) Update(ctx context.Context, id string, patch models.TodoPatch) (*models.Todo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	now := r.now()

	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.todos[id]
	if !ok {
		return nil, ErrTodoNotFound
	}
	patch.Apply(&e.todo)
	if !patch.IsEmpty() {
		e.todo.UpdatedAt = now
	}
	copied := e.todo
	return &copied, nil
}

func (r *MemoryTodoRepository) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.todos[id]; !ok {
		return ErrTodoNotFound
	}
	delete(r.todos, id)
	return nil
}

func (r *MemoryTodoRepository) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.todos), nil
}
