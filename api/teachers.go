package api

import (
	"context"
	"fmt"
	"net/http"

	"schooldesk/models"
)

type TeacherInput struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone,omitempty"`
	Department string `json:"department,omitempty"`
}

func (c *Client) Teachers(ctx context.Context, search string) ([]models.Teacher, error) {
	var teachers []models.Teacher
	err := c.do(ctx, http.MethodGet, "/teachers/", "", searchQuery(search), nil, &teachers)
	return teachers, err
}

func (c *Client) Teacher(ctx context.Context, id int) (*models.Teacher, error) {
	var teacher models.Teacher
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/teachers/%d", id), "", nil, nil, &teacher); err != nil {
		return nil, err
	}
	return &teacher, nil
}

func (c *Client) CreateTeacher(ctx context.Context, in TeacherInput) (*models.Teacher, error) {
	var teacher models.Teacher
	if err := c.do(ctx, http.MethodPost, "/teachers/", "", nil, in, &teacher); err != nil {
		return nil, err
	}
	return &teacher, nil
}

func (c *Client) UpdateTeacher(ctx context.Context, id int, in TeacherInput) (*models.Teacher, error) {
	var teacher models.Teacher
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/teachers/%d", id), "", nil, in, &teacher); err != nil {
		return nil, err
	}
	return &teacher, nil
}

func (c *Client) DeleteTeacher(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/teachers/%d", id), "", nil, nil, nil)
}
