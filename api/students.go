package api

import (
	"context"
	"fmt"
	"net/http"

	"schooldesk/models"
)

// StudentInput is the writable subset of a student record.
type StudentInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	ClassID *int   `json:"class_id,omitempty"`
}

// Students lists students, optionally filtered by a server-side
// case-insensitive substring match on the name.
func (c *Client) Students(ctx context.Context, search string) ([]models.Student, error) {
	var students []models.Student
	err := c.do(ctx, http.MethodGet, "/students/", "", searchQuery(search), nil, &students)
	return students, err
}

func (c *Client) Student(ctx context.Context, id int) (*models.Student, error) {
	var student models.Student
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/students/%d", id), "", nil, nil, &student); err != nil {
		return nil, err
	}
	return &student, nil
}

func (c *Client) CreateStudent(ctx context.Context, in StudentInput) (*models.Student, error) {
	var student models.Student
	if err := c.do(ctx, http.MethodPost, "/students/", "", nil, in, &student); err != nil {
		return nil, err
	}
	return &student, nil
}

func (c *Client) UpdateStudent(ctx context.Context, id int, in StudentInput) (*models.Student, error) {
	var student models.Student
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/students/%d", id), "", nil, in, &student); err != nil {
		return nil, err
	}
	return &student, nil
}

func (c *Client) DeleteStudent(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/students/%d", id), "", nil, nil, nil)
}
