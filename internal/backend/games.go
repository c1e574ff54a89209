package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/donateraid/storefront-api/internal/domain"
)

// ListGames fetches the public catalog, optionally filtered by a search query.
func (c *Client) ListGames(ctx context.Context, query string) ([]domain.Game, error) {
	path := "/games"
	if query != "" {
		path += "?q=" + url.QueryEscape(query)
	}
	var games []domain.Game
	if err := c.do(ctx, http.MethodGet, path, "", nil, &games); err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	return games, nil
}

// GetGame fetches one catalog entry with its products, subcategories and
// input fields.
func (c *Client) GetGame(ctx context.Context, gameID int) (*domain.Game, error) {
	var game domain.Game
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/games/%d", gameID), "", nil, &game); err != nil {
		return nil, fmt.Errorf("get game %d: %w", gameID, err)
	}
	return &game, nil
}

// GetAdminGame fetches the editable form of a game.
func (c *Client) GetAdminGame(ctx context.Context, token string, gameID int) (*domain.Game, error) {
	var game domain.Game
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/admin/games/%d", gameID), token, nil, &game); err != nil {
		return nil, fmt.Errorf("get admin game %d: %w", gameID, err)
	}
	return &game, nil
}

// UpdateGame saves the game's own fields, input fields included. Subcategory
// rows are managed through the dedicated subcategory endpoints.
func (c *Client) UpdateGame(ctx context.Context, token string, game *domain.Game) error {
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/admin/games/%d", game.ID), token, game, nil); err != nil {
		return fmt.Errorf("update game %d: %w", game.ID, err)
	}
	return nil
}

// ListSubcategories fetches the persisted subcategories of a game.
func (c *Client) ListSubcategories(ctx context.Context, token string, gameID int) ([]domain.Subcategory, error) {
	var subs []domain.Subcategory
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/admin/subcategories/game/%d", gameID), token, nil, &subs); err != nil {
		return nil, fmt.Errorf("list subcategories for game %d: %w", gameID, err)
	}
	return subs, nil
}

type subcategoryPayload struct {
	GameID      int    `json:"game_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	SortOrder   int    `json:"sort_order"`
	Enabled     bool   `json:"enabled"`
}

// CreateSubcategory persists a draft subcategory and returns it with the
// backend-assigned id.
func (c *Client) CreateSubcategory(ctx context.Context, token string, gameID int, sub domain.Subcategory) (*domain.Subcategory, error) {
	payload := subcategoryPayload{
		GameID:      gameID,
		Name:        sub.Name,
		Description: sub.Description,
		SortOrder:   sub.SortOrder,
		Enabled:     sub.Enabled,
	}
	var created domain.Subcategory
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/admin/subcategories/game/%d", gameID), token, payload, &created); err != nil {
		return nil, fmt.Errorf("create subcategory %q: %w", sub.Name, err)
	}
	return &created, nil
}

// UpdateSubcategory saves changes to a persisted subcategory.
func (c *Client) UpdateSubcategory(ctx context.Context, token string, gameID int, sub domain.Subcategory) error {
	payload := subcategoryPayload{
		GameID:      gameID,
		Name:        sub.Name,
		Description: sub.Description,
		SortOrder:   sub.SortOrder,
		Enabled:     sub.Enabled,
	}
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/admin/subcategories/%d", sub.ID), token, payload, nil); err != nil {
		return fmt.Errorf("update subcategory %d: %w", sub.ID, err)
	}
	return nil
}

// DeleteSubcategory removes a persisted subcategory.
func (c *Client) DeleteSubcategory(ctx context.Context, token string, subcategoryID int) error {
	if err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/admin/subcategories/%d", subcategoryID), token, nil, nil); err != nil {
		return fmt.Errorf("delete subcategory %d: %w", subcategoryID, err)
	}
	return nil
}
