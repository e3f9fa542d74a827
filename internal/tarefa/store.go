// Package tarefa holds the client's view of the task collection and keeps it
// consistent with the remote authority under optimistic mutation: local
// state changes first, then is confirmed, rolled back by reload, or
// re-synced depending on the remote outcome.
package tarefa

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"agendafacil/internal/model"
	"agendafacil/internal/recurrence"
)

type Store struct {
	gw     Gateway
	logger *logrus.Logger

	// batchRecorrente ships the normalized template in a single call
	// instead of one create per weekday.
	batchRecorrente bool

	mu        sync.Mutex
	tarefas   []model.Tarefa
	loaded    bool
	mutations []Mutation

	onChange []func()
}

type Option func(*Store)

func WithLogger(logger *logrus.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

func WithBatchRecorrente(on bool) Option {
	return func(s *Store) { s.batchRecorrente = on }
}

func New(gw Gateway, opts ...Option) *Store {
	s := &Store{gw: gw, logger: logrus.StandardLogger()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// OnChange registers a hook fired after every confirmed collection
// transition: load, optimistic apply, rollback reload. Hooks run outside
// the store lock.
func (s *Store) OnChange(fn func()) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	s.onChange = append(s.onChange, fn)
	s.mu.Unlock()
}

// Tarefas returns a snapshot copy of the collection.
func (s *Store) Tarefas() []model.Tarefa {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Tarefa, len(s.tarefas))
	for i, t := range s.tarefas {
		out[i] = t.Clone()
	}
	return out
}

func (s *Store) Get(id model.TaskID) (model.Tarefa, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.tarefas {
		if t.ID == id {
			return t.Clone(), true
		}
	}
	return model.Tarefa{}, false
}

// Loaded reports whether at least one Load has succeeded.
func (s *Store) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

// Mutations returns the recorded optimistic mutation transitions, oldest
// first.
func (s *Store) Mutations() []Mutation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Mutation(nil), s.mutations...)
}

// Load replaces the collection with the authority's current list. On
// failure the prior state stays untouched, so a transient error never
// flashes an empty view.
func (s *Store) Load(ctx context.Context) error {
	list, err := s.gw.List(ctx)
	if err != nil {
		return fmt.Errorf("load tarefas: %w", err)
	}
	s.replace(list)
	s.notify()
	return nil
}

// SaveInput is raw form input before the dispatch rule is applied.
type SaveInput struct {
	Tarefa model.Tarefa

	// Non-empty weekday selection on a not-yet-persisted tarefa routes
	// the input through recurrence expansion.
	DiasDaSemana  []model.Weekday
	HorarioInicio string // "HH:MM", recurring path only
	HorarioFim    string
}

// Submit applies the dispatch rule: a non-empty weekday selection that is
// not an edit of an existing record becomes a recurring creation; anything
// else is a single create or a full update.
func (s *Store) Submit(ctx context.Context, in SaveInput) error {
	if len(in.DiasDaSemana) > 0 && !in.Tarefa.ID.Persisted() {
		return s.CreateRecorrente(ctx, model.RecurrenceSpec{
			Nome:          in.Tarefa.Nome,
			Descricao:     in.Tarefa.Descricao,
			DiasDaSemana:  in.DiasDaSemana,
			HorarioInicio: in.HorarioInicio,
			HorarioFim:    in.HorarioFim,
		})
	}
	return s.Save(ctx, in.Tarefa)
}

// Save creates or fully updates one tarefa. Neither path mutates the
// collection optimistically: on success the whole list is reloaded so
// server-assigned fields are never merged by hand, on failure the
// collection is untouched.
func (s *Store) Save(ctx context.Context, t model.Tarefa) error {
	if err := model.ValidateTarefa(t); err != nil {
		return &ValidationError{Reason: "nome is required", Err: err}
	}
	if t.Status == "" {
		t.Status = model.StatusPendente
	}

	var err error
	if t.ID.Persisted() {
		_, err = s.gw.Update(ctx, t.ID, t)
	} else {
		_, err = s.gw.Create(ctx, createRequest(t))
	}
	if err != nil {
		return fmt.Errorf("save tarefa: %w", err)
	}
	return s.Load(ctx)
}

// CreateRecorrente expands the template and persists one instance per
// selected weekday, then reloads. With batch mode on, the normalized
// template goes to the authority's batch endpoint in a single call.
func (s *Store) CreateRecorrente(ctx context.Context, spec model.RecurrenceSpec) error {
	if err := model.ValidateRecurrenceSpec(spec); err != nil {
		return &ValidationError{Reason: "invalid recurrence template", Err: err}
	}

	if s.batchRecorrente {
		if _, err := s.gw.CreateRecorrente(ctx, recurrence.Normalize(spec)); err != nil {
			return fmt.Errorf("create recorrente: %w", err)
		}
		return s.Load(ctx)
	}

	for _, req := range recurrence.Expand(spec) {
		if _, err := s.gw.Create(ctx, req); err != nil {
			return fmt.Errorf("create recorrente (%s): %w", req.Dia, err)
		}
	}
	return s.Load(ctx)
}

// Delete removes the tarefa locally first, then remotely. A remote failure
// re-syncs by reload instead of re-inserting the cached copy, so a record
// that changed concurrently is never resurrected stale.
func (s *Store) Delete(ctx context.Context, id model.TaskID) error {
	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return ErrNotFound
	}
	s.tarefas = append(s.tarefas[:idx], s.tarefas[idx+1:]...)
	mut := s.beginMutation(Mutation{Kind: MutationDelete, TaskID: id})
	s.mu.Unlock()
	s.notify()

	if err := s.gw.Delete(ctx, id); err != nil {
		return s.rollback(ctx, mut, fmt.Errorf("delete tarefa %d: %w", id, err))
	}
	s.commit(mut)
	return nil
}

// ToggleStatus flips Concluída <-> Pendente locally, then persists via a
// full update. A remote failure reloads to discard the optimistic flip.
func (s *Store) ToggleStatus(ctx context.Context, id model.TaskID) error {
	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return ErrNotFound
	}
	s.tarefas[idx].Status = s.tarefas[idx].Status.Toggled()
	updated := s.tarefas[idx].Clone()
	mut := s.beginMutation(Mutation{Kind: MutationToggleStatus, TaskID: id})
	s.mu.Unlock()
	s.notify()

	if _, err := s.gw.Update(ctx, id, updated); err != nil {
		return s.rollback(ctx, mut, fmt.Errorf("toggle status %d: %w", id, err))
	}
	s.commit(mut)
	return nil
}

// ToggleChecklistItem flips one nested item locally, then persists through
// the dedicated remote toggle. An unknown task or item id is a silent
// no-op: the view may be stale, that is not an error.
func (s *Store) ToggleChecklistItem(ctx context.Context, taskID model.TaskID, itemID int64) error {
	s.mu.Lock()
	idx := s.indexOf(taskID)
	if idx < 0 {
		s.mu.Unlock()
		return nil
	}
	item := s.tarefas[idx].ChecklistItem(itemID)
	if item == nil {
		s.mu.Unlock()
		return nil
	}
	item.Concluido = !item.Concluido
	mut := s.beginMutation(Mutation{Kind: MutationToggleChecklist, TaskID: taskID, ItemID: itemID})
	s.mu.Unlock()
	s.notify()

	if _, err := s.gw.ToggleChecklistItem(ctx, taskID, itemID); err != nil {
		return s.rollback(ctx, mut, fmt.Errorf("toggle checklist %d/%d: %w", taskID, itemID, err))
	}
	s.commit(mut)
	return nil
}

// rollback discards the optimistic value by reloading from the authority.
// Last reload wins: whatever the authority lists replaces the collection.
// A mutation is only marked rolled back once that reload succeeds; when the
// reload is skipped or fails, the mutation ends aborted and the collection
// keeps the optimistic value until the next successful load.
func (s *Store) rollback(ctx context.Context, mut int, cause error) error {
	if IsAuthError(cause) {
		// Session already terminated by the gateway; a reload would just
		// fail with the same auth error.
		s.setMutationState(mut, MutationAborted)
		return cause
	}
	if err := s.Load(ctx); err != nil {
		s.setMutationState(mut, MutationAborted)
		s.logger.WithError(err).Warn("rollback reload failed")
		return fmt.Errorf("%w (rollback reload: %v)", cause, err)
	}
	s.setMutationState(mut, MutationRolledBack)
	return cause
}

func (s *Store) commit(mut int) {
	s.setMutationState(mut, MutationCommitted)
}

// beginMutation records a pending optimistic mutation; the caller holds the
// lock. Returns the mutation index.
func (s *Store) beginMutation(m Mutation) int {
	m.State = MutationPending
	s.mutations = append(s.mutations, m)
	return len(s.mutations) - 1
}

func (s *Store) setMutationState(idx int, state MutationState) {
	s.mu.Lock()
	if idx >= 0 && idx < len(s.mutations) {
		s.mutations[idx].State = state
	}
	s.mu.Unlock()
}

func (s *Store) indexOf(id model.TaskID) int {
	for i := range s.tarefas {
		if s.tarefas[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) replace(list []model.Tarefa) {
	s.mu.Lock()
	s.tarefas = list
	s.loaded = true
	s.mu.Unlock()
}

func (s *Store) notify() {
	s.mu.Lock()
	hooks := append([]func(){}, s.onChange...)
	s.mu.Unlock()
	for _, fn := range hooks {
		fn()
	}
}

// createRequest maps a not-yet-persisted tarefa onto the authority's
// creation shape; timestamps travel as RFC 3339.
func createRequest(t model.Tarefa) model.TaskCreate {
	req := model.TaskCreate{
		Nome:      t.Nome,
		Descricao: t.Descricao,
		Status:    t.Status,
	}
	if t.HorarioInicio != nil {
		req.HorarioInicio = t.HorarioInicio.Format(time.RFC3339)
	}
	if t.HorarioFim != nil {
		req.HorarioFim = t.HorarioFim.Format(time.RFC3339)
	}
	return req
}
