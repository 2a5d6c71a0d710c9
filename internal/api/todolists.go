package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sinanfen/to-dogether-web-sub000/internal/domain"
)

// TodoLists fetches the authenticated user's own lists
func (c *Client) TodoLists(ctx context.Context) ([]domain.TodoList, error) {
	return do[[]domain.TodoList](ctx, c, http.MethodGet, "/todolists", nil)
}

// TodoList fetches a single list including its items
func (c *Client) TodoList(ctx context.Context, listID int64) (*domain.TodoList, error) {
	list, err := do[domain.TodoList](ctx, c, http.MethodGet, fmt.Sprintf("/todolists/%d", listID), nil)
	if err != nil {
		return nil, err
	}
	return &list, nil
}

// CreateTodoList creates a new list
func (c *Client) CreateTodoList(ctx context.Context, req domain.CreateTodoListRequest) (*domain.TodoList, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	list, err := do[domain.TodoList](ctx, c, http.MethodPost, "/todolists", req)
	if err != nil {
		return nil, err
	}
	return &list, nil
}

// UpdateTodoList updates a list's title, description or color
func (c *Client) UpdateTodoList(ctx context.Context, listID int64, req domain.CreateTodoListRequest) (*domain.TodoList, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	list, err := do[domain.TodoList](ctx, c, http.MethodPut, fmt.Sprintf("/todolists/%d", listID), req)
	if err != nil {
		return nil, err
	}
	return &list, nil
}

// DeleteTodoList deletes a list and its items
func (c *Client) DeleteTodoList(ctx context.Context, listID int64) error {
	_, err := do[struct{}](ctx, c, http.MethodDelete, fmt.Sprintf("/todolists/%d", listID), nil)
	return err
}

// TodoItems fetches the items of a list
func (c *Client) TodoItems(ctx context.Context, listID int64) ([]domain.TodoItem, error) {
	return do[[]domain.TodoItem](ctx, c, http.MethodGet, fmt.Sprintf("/todolists/%d/items", listID), nil)
}

// CreateTodoItem adds an item to a list
func (c *Client) CreateTodoItem(ctx context.Context, listID int64, req domain.CreateTodoItemRequest) (*domain.TodoItem, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	item, err := do[domain.TodoItem](ctx, c, http.MethodPost, fmt.Sprintf("/todolists/%d/items", listID), req)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateTodoItem updates an item's fields
func (c *Client) UpdateTodoItem(ctx context.Context, listID, itemID int64, req domain.CreateTodoItemRequest) (*domain.TodoItem, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	item, err := do[domain.TodoItem](ctx, c, http.MethodPut, fmt.Sprintf("/todolists/%d/items/%d", listID, itemID), req)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// ToggleTodoItem flips an item between pending and done
func (c *Client) ToggleTodoItem(ctx context.Context, listID, itemID int64) (*domain.TodoItem, error) {
	item, err := do[domain.TodoItem](ctx, c, http.MethodPost, fmt.Sprintf("/todolists/%d/items/%d/toggle", listID, itemID), nil)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// DeleteTodoItem removes an item from a list
func (c *Client) DeleteTodoItem(ctx context.Context, listID, itemID int64) error {
	_, err := do[struct{}](ctx, c, http.MethodDelete, fmt.Sprintf("/todolists/%d/items/%d", listID, itemID), nil)
	return err
}

// RecentActivities fetches the couple's recent-activity feed.
// A non-positive limit lets the backend apply its default page size.
func (c *Client) RecentActivities(ctx context.Context, limit int) ([]domain.Activity, error) {
	path := "/activities/recent"
	if limit > 0 {
		path = fmt.Sprintf("%s?limit=%d", path, limit)
	}
	return do[[]domain.Activity](ctx, c, http.MethodGet, path, nil)
}
