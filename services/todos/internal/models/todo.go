package models

import "time"

type Todo struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// TodoPatch описывает частичное обновление: nil означает "поле не передано"
type TodoPatch struct {
	Title     *string
	Completed *bool
}

// Apply переносит переданные поля в задачу
func (p TodoPatch) Apply(t *Todo) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
}

// IsEmpty сообщает, что в патче нет ни одного поля
func (p TodoPatch) IsEmpty() bool {
	return p.Title == nil && p.Completed == nil
}

// ListFilter - необязательные условия выборки, нулевое значение = без фильтра
type ListFilter struct {
	Completed     *bool
	TitleContains string
}
