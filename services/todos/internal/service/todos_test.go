package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sun1tar/MIREA-TIP-Practice-22/todo-store/services/todos/internal/models"
	"github.com/sun1tar/MIREA-TIP-Practice-22/todo-store/services/todos/internal/repository"
)

func ptr[T any](v T) *T { return &v }

func TestTodoService_Create(t *testing.T) {
	ctx := context.Background()
	svc := NewTodoService(repository.NewMemoryTodoRepository())

	todo, err := svc.Create(ctx, "Buy milk")
	require.NoError(t, err)
	assert.NotEmpty(t, todo.ID)
	assert.Equal(t, "Buy milk", todo.Title)
	assert.False(t, todo.Completed)

	list, err := svc.List(ctx, models.ListFilter{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, todo.ID, list[0].ID)
	assert.Equal(t, "Buy milk", list[0].Title)
}

func TestTodoService_CreateRejectsBlankTitle(t *testing.T) {
	ctx := context.Background()
	svc := NewTodoService(repository.NewMemoryTodoRepository())

	for _, title := range []string{"", "   ", "\t\n"} {
		_, err := svc.Create(ctx, title)
		assert.ErrorIs(t, err, ErrTitleRequired, "title %q", title)
	}

	count, err := svc.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestTodoService_UniqueIDs(t *testing.T) {
	ctx := context.Background()
	svc := NewTodoService(repository.NewMemoryTodoRepository())

	first, err := svc.Create(ctx, "one")
	require.NoError(t, err)
	second, err := svc.Create(ctx, "two")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestTodoService_ConcurrentCreates(t *testing.T) {
	ctx := context.Background()
	svc := NewTodoService(repository.NewMemoryTodoRepository())

	const n = 100
	ids := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			todo, err := svc.Create(ctx, "parallel")
			if assert.NoError(t, err) {
				ids <- todo.ID
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]struct{}, n)
	for id := range ids {
		seen[id] = struct{}{}
	}
	assert.Len(t, seen, n)

	list, err := svc.List(ctx, models.ListFilter{})
	require.NoError(t, err)
	assert.Len(t, list, n)
}

func TestTodoService_Update(t *testing.T) {
	ctx := context.Background()
	svc := NewTodoService(repository.NewMemoryTodoRepository())
	todo, err := svc.Create(ctx, "Buy milk")
	require.NoError(t, err)

	updated, err := svc.Update(ctx, todo.ID, models.TodoPatch{Completed: ptr(true)})
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", updated.Title)
	assert.True(t, updated.Completed)

	_, err = svc.Update(ctx, todo.ID, models.TodoPatch{Title: ptr(" ")})
	assert.ErrorIs(t, err, ErrTitleRequired)

	got, err := svc.Get(ctx, todo.ID)
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", got.Title)

	_, err = svc.Update(ctx, "unknown", models.TodoPatch{Completed: ptr(true)})
	assert.ErrorIs(t, err, repository.ErrTodoNotFound)
}

func TestTodoService_DeleteTwice(t *testing.T) {
	ctx := context.Background()
	svc := NewTodoService(repository.NewMemoryTodoRepository())
	todo, err := svc.Create(ctx, "Buy milk")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, todo.ID))
	assert.ErrorIs(t, svc.Delete(ctx, todo.ID), repository.ErrTodoNotFound)

	_, err = svc.Get(ctx, todo.ID)
	assert.ErrorIs(t, err, repository.ErrTodoNotFound)
}

func TestTodoService_Search(t *testing.T) {
	ctx := context.Background()
	svc := NewTodoService(repository.NewMemoryTodoRepository())
	for _, title := range []string{"Buy milk", "Walk the dog", "MILKSHAKE"} {
		_, err := svc.Create(ctx, title)
		require.NoError(t, err)
	}

	found, err := svc.Search(ctx, "milk")
	require.NoError(t, err)
	assert.Len(t, found, 2)
}

type failingRepository struct {
	repository.TodoRepository
	err error
}

func (f failingRepository) Create(context.Context, *models.Todo) error { return f.err }

func TestTodoService_CreatePropagatesRepositoryError(t *testing.T) {
	boom := errors.New("boom")
	svc := NewTodoService(failingRepository{err: boom})

	_, err := svc.Create(context.Background(), "Buy milk")
	assert.ErrorIs(t, err, boom)
}
