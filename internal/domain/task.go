package domain

import "time"

// Maximum field lengths, matching the column sizes of the tasks table.
const (
	MaxTitleLength       = 80
	MaxDescriptionLength = 255
)

// Task is a single to-do item. ID and CreatedAt are assigned by the store
// when the task is created and never change afterwards.
type Task struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// TaskFields carries the mutable fields of a task. A nil field means
// "not supplied": on update it leaves the stored value untouched.
type TaskFields struct {
	Title       *string
	Description *string
}

// IsEmpty reports whether no field was supplied.
func (f TaskFields) IsEmpty() bool {
	return f.Title == nil && f.Description == nil
}

// Apply copies the supplied fields onto t.
func (f TaskFields) Apply(t *Task) {
	if f.Title != nil {
		t.Title = *f.Title
	}
	if f.Description != nil {
		t.Description = *f.Description
	}
}
