package api

import (
	"context"
	"fmt"
	"net/http"

	"schooldesk/models"
)

type ClassInput struct {
	Name       string `json:"name"`
	Section    string `json:"section"`
	RoomNumber string `json:"room_number,omitempty"`
}

func (c *Client) Classes(ctx context.Context, search string) ([]models.Class, error) {
	var classes []models.Class
	err := c.do(ctx, http.MethodGet, "/classes/", "", searchQuery(search), nil, &classes)
	return classes, err
}

func (c *Client) Class(ctx context.Context, id int) (*models.Class, error) {
	var class models.Class
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/classes/%d", id), "", nil, nil, &class); err != nil {
		return nil, err
	}
	return &class, nil
}

func (c *Client) CreateClass(ctx context.Context, in ClassInput) (*models.Class, error) {
	var class models.Class
	if err := c.do(ctx, http.MethodPost, "/classes/", "", nil, in, &class); err != nil {
		return nil, err
	}
	return &class, nil
}

func (c *Client) UpdateClass(ctx context.Context, id int, in ClassInput) (*models.Class, error) {
	var class models.Class
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/classes/%d", id), "", nil, in, &class); err != nil {
		return nil, err
	}
	return &class, nil
}

func (c *Client) DeleteClass(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/classes/%d", id), "", nil, nil, nil)
}
