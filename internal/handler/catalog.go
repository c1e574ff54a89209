package handler

import (
	"net/http"

	"github.com/donateraid/storefront-api/internal/domain"
)

// HandleListGames returns the catalog, filtered by the optional q parameter.
func (h *Handler) HandleListGames(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	games, err := h.catalog.List(r.Context(), query)
	if err != nil {
		respondServiceError(w, r, "List games", err)
		return
	}
	if games == nil {
		games = []domain.Game{}
	}
	respondJSON(w, http.StatusOK, games)
}

// HandleGetGame returns one game with its subcategories and input fields.
func (h *Handler) HandleGetGame(w http.ResponseWriter, r *http.Request) {
	gameID, ok := pathInt(w, r, "id")
	if !ok {
		return
	}

	game, err := h.catalog.Get(r.Context(), gameID)
	if err != nil {
		respondServiceError(w, r, "Get game", err)
		return
	}
	respondJSON(w, http.StatusOK, game)
}
