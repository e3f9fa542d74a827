package tarefa

import (
	"context"

	"agendafacil/internal/model"
)

// Gateway is the narrow surface the store uses to talk to the remote
// authority. Implementations own transport concerns (credentials, timeouts,
// retry policy) and report remote failures as errors; auth failures satisfy
// errors.Is(err, ErrUnauthorized). The gateway holds no task state.
type Gateway interface {
	List(ctx context.Context) ([]model.Tarefa, error)
	Create(ctx context.Context, req model.TaskCreate) (model.Tarefa, error)
	Update(ctx context.Context, id model.TaskID, t model.Tarefa) (model.Tarefa, error)
	Delete(ctx context.Context, id model.TaskID) error

	// CreateRecorrente ships a normalized recurrence template to the
	// authority's batch endpoint, which expands and date-anchors it.
	CreateRecorrente(ctx context.Context, spec model.RecurrenceSpec) ([]model.Tarefa, error)

	// ToggleChecklistItem flips one nested item on the authority's side.
	ToggleChecklistItem(ctx context.Context, taskID model.TaskID, itemID int64) (model.Tarefa, error)
}
