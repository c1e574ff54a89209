package handler

import (
	"net/http"

	"github.com/donateraid/storefront-api/internal/domain"
	"github.com/donateraid/storefront-api/internal/gamesync"
	"github.com/donateraid/storefront-api/internal/metrics"
)

// SaveGameResponse reports the reconciliation outcome of an admin save.
type SaveGameResponse struct {
	Game       *domain.Game   `json:"game"`
	DeletedIDs []int          `json:"deleted_subcategory_ids,omitempty"`
	Assigned   map[int]int    `json:"assigned_subcategory_ids,omitempty"`
	ItemErrors []ReportedItem `json:"item_errors,omitempty"`
}

// ReportedItem is one tolerated per-subcategory failure.
type ReportedItem struct {
	Op    string `json:"op"`
	ID    int    `json:"id,omitempty"`
	Index int    `json:"index,omitempty"`
	Error string `json:"error"`
}

// HandleSaveGame persists an admin's combined game edit: subcategory rows
// first, then the input fields re-pointed at the assigned ids, then the game
// itself. Requires an authenticated session; the platform enforces the admin
// role.
func (h *Handler) HandleSaveGame(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r.Context())
	if !session.Authenticated() {
		respondServiceError(w, r, "Save game", domain.ErrNotAuthenticated)
		return
	}

	gameID, ok := pathInt(w, r, "id")
	if !ok {
		return
	}

	var game domain.Game
	if err := h.decodeAndValidate(w, r, &game, "Save game"); err != nil {
		return
	}
	game.ID = gameID

	report, err := h.reconciler.SaveGame(r.Context(), session.AccessToken, &game)
	if err != nil {
		metrics.GameSaves.WithLabelValues("failed").Inc()
		respondServiceError(w, r, "Save game", err)
		return
	}

	h.catalog.Invalidate(gameID)
	metrics.GameSaves.WithLabelValues("success").Inc()

	respondJSON(w, http.StatusOK, SaveGameResponse{
		Game:       &game,
		DeletedIDs: report.DeletedIDs,
		Assigned:   report.AssignedIDs,
		ItemErrors: reportedItems(report),
	})
}

// HandleGetAdminGame returns the editable form of a game.
func (h *Handler) HandleGetAdminGame(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r.Context())
	if !session.Authenticated() {
		respondServiceError(w, r, "Get admin game", domain.ErrNotAuthenticated)
		return
	}

	gameID, ok := pathInt(w, r, "id")
	if !ok {
		return
	}

	game, err := h.adminGames.GetAdminGame(r.Context(), session.AccessToken, gameID)
	if err != nil {
		respondServiceError(w, r, "Get admin game", err)
		return
	}
	respondJSON(w, http.StatusOK, game)
}

func reportedItems(report *gamesync.Report) []ReportedItem {
	if len(report.ItemErrors) == 0 {
		return nil
	}
	items := make([]ReportedItem, len(report.ItemErrors))
	for i, itemErr := range report.ItemErrors {
		items[i] = ReportedItem{
			Op:    itemErr.Op,
			ID:    itemErr.ID,
			Index: itemErr.Index,
			Error: itemErr.Err.Error(),
		}
	}
	return items
}
