package api

import (
	"context"
	"fmt"
	"net/http"

	"schooldesk/models"
)

type SubjectInput struct {
	Name      string `json:"name"`
	Code      string `json:"code"`
	TeacherID *int   `json:"teacher_id,omitempty"`
	ClassID   *int   `json:"class_id,omitempty"`
}

func (c *Client) Subjects(ctx context.Context, search string) ([]models.Subject, error) {
	var subjects []models.Subject
	err := c.do(ctx, http.MethodGet, "/subjects/", "", searchQuery(search), nil, &subjects)
	return subjects, err
}

func (c *Client) Subject(ctx context.Context, id int) (*models.Subject, error) {
	var subject models.Subject
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/subjects/%d", id), "", nil, nil, &subject); err != nil {
		return nil, err
	}
	return &subject, nil
}

func (c *Client) CreateSubject(ctx context.Context, in SubjectInput) (*models.Subject, error) {
	var subject models.Subject
	if err := c.do(ctx, http.MethodPost, "/subjects/", "", nil, in, &subject); err != nil {
		return nil, err
	}
	return &subject, nil
}

func (c *Client) UpdateSubject(ctx context.Context, id int, in SubjectInput) (*models.Subject, error) {
	var subject models.Subject
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/subjects/%d", id), "", nil, in, &subject); err != nil {
		return nil, err
	}
	return &subject, nil
}

func (c *Client) DeleteSubject(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/subjects/%d", id), "", nil, nil, nil)
}
