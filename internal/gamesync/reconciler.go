// Package gamesync reconciles an admin's combined game edit with the core
// platform: subcategory rows are created, updated and deleted first, then the
// input-field references are re-pointed at the assigned ids, and only then is
// the game itself saved.
package gamesync

import (
	"context"
	"fmt"

	"github.com/donateraid/storefront-api/internal/domain"
	"github.com/donateraid/storefront-api/internal/logger"
)

// SubcategoryAPI is the slice of the platform client the reconciler needs.
type SubcategoryAPI interface {
	ListSubcategories(ctx context.Context, token string, gameID int) ([]domain.Subcategory, error)
	CreateSubcategory(ctx context.Context, token string, gameID int, sub domain.Subcategory) (*domain.Subcategory, error)
	UpdateSubcategory(ctx context.Context, token string, gameID int, sub domain.Subcategory) error
	DeleteSubcategory(ctx context.Context, token string, subcategoryID int) error
	UpdateGame(ctx context.Context, token string, game *domain.Game) error
}

// ItemError is one per-subcategory failure collected during a save. These do
// not abort the batch; the final game update decides the overall outcome.
type ItemError struct {
	Op    string // "create", "update" or "delete"
	ID    int    // persisted id, zero for drafts
	Index int    // position in the submitted list, -1 for deletes
	Err   error
}

func (e ItemError) Error() string {
	return fmt.Sprintf("subcategory %s (id=%d index=%d): %v", e.Op, e.ID, e.Index, e.Err)
}

// Report is the per-item outcome of one save.
type Report struct {
	DeletedIDs  []int
	AssignedIDs map[int]int // draft list position -> backend-assigned id
	ItemErrors  []ItemError
}

type Reconciler struct {
	api SubcategoryAPI
}

func NewReconciler(api SubcategoryAPI) *Reconciler {
	return &Reconciler{api: api}
}

// SaveGame persists the whole edit. The passed game is mutated as drafts
// receive their backend ids and field references are resolved, so a retry
// after a partial failure updates rows instead of creating duplicates.
//
// The save is reported failed only when the final game update fails;
// subcategory failures are collected in the report.
func (r *Reconciler) SaveGame(ctx context.Context, token string, game *domain.Game) (*Report, error) {
	report := &Report{AssignedIDs: make(map[int]int)}
	log := logger.FromContext(ctx)

	persisted, err := r.api.ListSubcategories(ctx, token, game.ID)
	if err != nil {
		return report, fmt.Errorf("list persisted subcategories: %w", err)
	}

	// Remember where each pre-existing id sat, so a field referencing a
	// deleted-and-recreated subcategory can follow it to the new id.
	oldPosition := make(map[int]int, len(persisted))
	for i, sub := range persisted {
		oldPosition[sub.ID] = i
	}

	r.deleteRemoved(ctx, token, persisted, game.Subcategories, report)

	for i := range game.Subcategories {
		sub := game.Subcategories[i]
		if sub.Persisted() {
			if err := r.api.UpdateSubcategory(ctx, token, game.ID, sub); err != nil {
				log.Warn("subcategory update failed", "subcategory_id", sub.ID, "error", err)
				report.ItemErrors = append(report.ItemErrors, ItemError{Op: "update", ID: sub.ID, Index: i, Err: err})
			}
			continue
		}

		created, err := r.api.CreateSubcategory(ctx, token, game.ID, sub)
		if err != nil {
			log.Warn("subcategory create failed", "name", sub.Name, "error", err)
			report.ItemErrors = append(report.ItemErrors, ItemError{Op: "create", Index: i, Err: err})
			continue
		}
		game.Subcategories[i].ID = created.ID
		report.AssignedIDs[i] = created.ID
	}

	resolveFieldRefs(game, report.AssignedIDs, oldPosition)

	if err := r.api.UpdateGame(ctx, token, game); err != nil {
		return report, fmt.Errorf("update game %d: %w", game.ID, err)
	}

	log.Info("game saved",
		"game_id", game.ID,
		"created", len(report.AssignedIDs),
		"deleted", len(report.DeletedIDs),
		"item_errors", len(report.ItemErrors))
	return report, nil
}

// deleteRemoved removes persisted subcategories absent from the submitted
// list. Delete failures are tolerated; the row just lingers until the next
// save.
func (r *Reconciler) deleteRemoved(ctx context.Context, token string, persisted, current []domain.Subcategory, report *Report) {
	keep := make(map[int]bool, len(current))
	for _, sub := range current {
		if sub.Persisted() {
			keep[sub.ID] = true
		}
	}
	for _, sub := range persisted {
		if keep[sub.ID] {
			continue
		}
		if err := r.api.DeleteSubcategory(ctx, token, sub.ID); err != nil {
			logger.FromContext(ctx).Warn("subcategory delete failed", "subcategory_id", sub.ID, "error", err)
			report.ItemErrors = append(report.ItemErrors, ItemError{Op: "delete", ID: sub.ID, Index: -1, Err: err})
			continue
		}
		report.DeletedIDs = append(report.DeletedIDs, sub.ID)
	}
}

// resolveFieldRefs re-points every input field at a real subcategory id.
// Draft references resolve through the position mapping; references to an id
// that no longer exists follow the id's original position when a new
// subcategory was created there, and otherwise degrade to "applies to all"
// instead of failing the save.
func resolveFieldRefs(game *domain.Game, assigned map[int]int, oldPosition map[int]int) {
	valid := make(map[int]bool, len(game.Subcategories))
	for _, sub := range game.Subcategories {
		if sub.Persisted() {
			valid[sub.ID] = true
		}
	}

	for i := range game.InputFields {
		ref := game.InputFields[i].Subcategory
		switch {
		case ref.IsZero():
			// applies to all, nothing to resolve
		case refIsDraft(ref):
			idx, _ := ref.DraftIndex()
			if id, ok := assigned[idx]; ok {
				game.InputFields[i].Subcategory = domain.PersistedRef(id)
			} else {
				game.InputFields[i].Subcategory = domain.NoRef()
			}
		default:
			id, _ := ref.PersistedID()
			if valid[id] {
				continue
			}
			if pos, ok := oldPosition[id]; ok {
				if newID, ok := assigned[pos]; ok {
					game.InputFields[i].Subcategory = domain.PersistedRef(newID)
					continue
				}
			}
			game.InputFields[i].Subcategory = domain.NoRef()
		}
	}
}

func refIsDraft(ref domain.SubcategoryRef) bool {
	_, ok := ref.DraftIndex()
	return ok
}
