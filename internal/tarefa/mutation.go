package tarefa

import "agendafacil/internal/model"

// Optimistic mutations move pending -> committed | rolled back. The store
// records every transition so the rollback contract is checkable instead of
// a convention.

type MutationKind string

const (
	MutationDelete          MutationKind = "delete"
	MutationToggleStatus    MutationKind = "toggle_status"
	MutationToggleChecklist MutationKind = "toggle_checklist"
)

type MutationState string

const (
	MutationPending    MutationState = "pending"
	MutationCommitted  MutationState = "committed"
	MutationRolledBack MutationState = "rolled_back"

	// MutationAborted means the remote call failed but no rollback reload
	// happened (terminated session, or the reload itself failed); the
	// optimistic value stays in place until the next successful load.
	MutationAborted MutationState = "aborted"
)

type Mutation struct {
	Kind   MutationKind
	TaskID model.TaskID
	ItemID int64 // checklist toggles only
	State  MutationState
}
