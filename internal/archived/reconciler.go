package archived

import (
	"context"
	"fmt"
	"sync"

	"github.com/alexanderramin/curator/internal/curation"
	"github.com/alexanderramin/curator/internal/domain"
	"github.com/alexanderramin/curator/internal/repository"
)

// Reconciler binds Reconcile to one alert namespace and its persisted
// dismissal ledger. The ledger is read once per Refresh; reconciliation on
// store changes uses the cached ledger and does no I/O.
type Reconciler struct {
	ns   Namespace
	repo repository.DismissalRepo

	mu     sync.Mutex
	ledger Ledger
	last   Result
	sets   []domain.HighlightSet
}

func NewReconciler(ns Namespace, repo repository.DismissalRepo) *Reconciler {
	return &Reconciler{
		ns:     ns,
		repo:   repo,
		ledger: Ledger{},
		last:   Result{Undismissed: map[string][]string{}},
	}
}

func (r *Reconciler) Namespace() Namespace { return r.ns }

// Refresh loads the ledger entries for sets and reconciles against them.
func (r *Reconciler) Refresh(ctx context.Context, sets []domain.HighlightSet) (Result, error) {
	keys := make([]string, 0, len(sets))
	for _, s := range sets {
		keys = append(keys, DismissalStorageKey(r.ns, s.UUID))
	}
	stored, err := r.repo.Load(ctx, keys)
	if err != nil {
		return Result{}, fmt.Errorf("loading %s dismissals: %w", r.ns, err)
	}

	ledger := make(Ledger, len(stored))
	for _, s := range sets {
		if dismissed, ok := stored[DismissalStorageKey(r.ns, s.UUID)]; ok {
			ledger[s.UUID] = dismissed
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.ledger = ledger
	r.sets = cloneSets(sets)
	r.last = Reconcile(r.sets, r.ledger)
	return r.last, nil
}

// Update reconciles sets against the cached ledger.
func (r *Reconciler) Update(sets []domain.HighlightSet) Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sets = cloneSets(sets)
	r.last = Reconcile(r.sets, r.ledger)
	return r.last
}

// Watch re-runs Update on every highlight-set change in store. The returned
// func stops watching.
func (r *Reconciler) Watch(store *curation.Store) func() {
	return store.Subscribe(func(sets []domain.HighlightSet) {
		r.Update(sets)
	})
}

// Result returns the most recent reconciliation.
func (r *Reconciler) Result() Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}

// Acknowledge persists every undismissed key from the last pass, one entry per
// affected set merged with what that set already dismissed, and clears the
// new-archived flag.
func (r *Reconciler) Acknowledge(ctx context.Context) error {
	r.mu.Lock()
	setUUIDs := make([]string, 0, len(r.last.Undismissed))
	for setUUID := range r.last.Undismissed {
		setUUIDs = append(setUUIDs, setUUID)
	}
	r.mu.Unlock()
	return r.acknowledge(ctx, setUUIDs)
}

// AcknowledgeSet persists the undismissed keys of one set only. Other sets
// keep their pending alerts.
func (r *Reconciler) AcknowledgeSet(ctx context.Context, setUUID string) error {
	return r.acknowledge(ctx, []string{setUUID})
}

func (r *Reconciler) acknowledge(ctx context.Context, setUUIDs []string) error {
	r.mu.Lock()
	entries := make([]repository.DismissalEntry, 0, len(setUUIDs))
	merged := make(Ledger, len(setUUIDs))
	for _, setUUID := range setUUIDs {
		keys, ok := r.last.Undismissed[setUUID]
		if !ok {
			continue
		}
		all := append(append([]string(nil), r.ledger[setUUID]...), keys...)
		entries = append(entries, repository.DismissalEntry{
			Namespace:   string(r.ns),
			SetUUID:     setUUID,
			ContentKeys: all,
		})
		merged[setUUID] = all
	}
	r.mu.Unlock()

	if len(entries) == 0 {
		return nil
	}
	if err := r.repo.Save(ctx, entries); err != nil {
		return fmt.Errorf("saving %s dismissals: %w", r.ns, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for setUUID, keys := range merged {
		r.ledger[setUUID] = keys
	}
	r.last = Reconcile(r.sets, r.ledger)
	return nil
}

// Forget drops the ledger entry for a deleted set.
func (r *Reconciler) Forget(ctx context.Context, setUUID string) error {
	if err := r.repo.DeleteBySet(ctx, setUUID); err != nil {
		return fmt.Errorf("forgetting %s dismissals: %w", r.ns, err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.ledger, setUUID)
	return nil
}

func cloneSets(sets []domain.HighlightSet) []domain.HighlightSet {
	out := make([]domain.HighlightSet, len(sets))
	for i, s := range sets {
		out[i] = s.Clone()
	}
	return out
}
