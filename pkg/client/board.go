package client

import (
	"context"
	"fmt"
)

// Notifier receives the toast-style feedback the board emits after a
// mutation settles.
type Notifier interface {
	Success(message string)
	Error(message string)
}

type nopNotifier struct{}

func (nopNotifier) Success(string) {}
func (nopNotifier) Error(string)   {}

// Board holds the kanban view of a user's todos grouped by status, and
// applies mutations optimistically: local state changes first, then the
// server call runs, and a failure restores the pre-mutation snapshot
// verbatim. Failed mutations are not retried; the user drags again.
type Board struct {
	client   *Client
	notifier Notifier
	todos    []Todo
}

func NewBoard(c *Client, notifier Notifier) *Board {
	if notifier == nil {
		notifier = nopNotifier{}
	}

	return &Board{
		client:   c,
		notifier: notifier,
	}
}

// Load replaces the board contents with a fresh fetch.
func (b *Board) Load(ctx context.Context) error {
	todos, err := b.client.ListTodos(ctx, nil)

	if err != nil {
		return err
	}

	b.todos = todos
	return nil
}

func (b *Board) Todos() []Todo {
	return cloneTodos(b.todos)
}

// Column returns the todos currently shown under one status column.
func (b *Board) Column(status string) []Todo {
	var column []Todo

	for _, todo := range b.todos {
		if todo.Status == status {
			column = append(column, todo)
		}
	}

	return column
}

// Command is one optimistic mutation: the forward action applied to local
// state immediately, the persist call that makes it durable, and the
// messages reported either way. The pre-mutation snapshot is taken by Apply,
// and restoring it is the inverse action.
type Command struct {
	Forward        func(todos []Todo) []Todo
	Persist        func(ctx context.Context) error
	SuccessMessage string
	ErrorMessage   string
}

// Apply runs cmd optimistically. The rollback is all-or-nothing: on failure
// the entire pre-command state comes back, and the error is returned for
// callers that need more than the notification.
func (b *Board) Apply(ctx context.Context, cmd Command) error {
	snapshot := cloneTodos(b.todos)

	b.todos = cmd.Forward(cloneTodos(b.todos))

	if err := cmd.Persist(ctx); err != nil {
		b.todos = snapshot
		b.notifier.Error(cmd.ErrorMessage)
		return err
	}

	b.notifier.Success(cmd.SuccessMessage)
	return nil
}

// MoveTodo is the drop handler: it moves a todo to the column for
// targetStatus. Dropping a todo onto its own column is a no-op. Unsaved
// client-side tag markers (id 0) are stripped from the payload before the
// change is persisted.
func (b *Board) MoveTodo(ctx context.Context, todoID uint, targetStatus string) error {
	var current *Todo

	for i := range b.todos {
		if b.todos[i].ID == todoID {
			current = &b.todos[i]
			break
		}
	}

	if current == nil {
		return fmt.Errorf("client: todo %d not on board", todoID)
	}

	if current.Status == targetStatus {
		return nil
	}

	request := UpdateTodoRequest{Status: &targetStatus}

	if tagIDs, stripped := persistedTagIDs(current.Tags); stripped {
		request.Tags = &tagIDs
	}

	return b.Apply(ctx, Command{
		Forward: func(todos []Todo) []Todo {
			for i := range todos {
				if todos[i].ID == todoID {
					todos[i].Status = targetStatus
					todos[i].Completed = targetStatus == StatusCompleted
				}
			}
			return todos
		},
		Persist: func(ctx context.Context) error {
			_, err := b.client.UpdateTodo(ctx, todoID, request)
			return err
		},
		SuccessMessage: "Todo updated",
		ErrorMessage:   "Failed to update todo",
	})
}

// persistedTagIDs filters out transient tags that only exist client-side
// and reports whether anything was stripped.
func persistedTagIDs(tags []Tag) ([]uint, bool) {
	ids := make([]uint, 0, len(tags))
	stripped := false

	for _, tag := range tags {
		if tag.ID == 0 {
			stripped = true
			continue
		}

		ids = append(ids, tag.ID)
	}

	return ids, stripped
}

func cloneTodos(todos []Todo) []Todo {
	cloned := make([]Todo, len(todos))
	copy(cloned, todos)

	for i := range cloned {
		cloned[i].Tags = append([]Tag(nil), todos[i].Tags...)
		cloned[i].Subtasks = append([]Subtask(nil), todos[i].Subtasks...)
	}

	return cloned
}
