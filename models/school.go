package models

// User is the authenticated account profile returned by the auth endpoints.
type User struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

type Student struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	ClassID   *int   `json:"class_id,omitempty"`
	ClassName string `json:"class_name,omitempty"`
}

type Teacher struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone,omitempty"`
	Department string `json:"department,omitempty"`
}

type Class struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Section    string `json:"section"`
	RoomNumber string `json:"room_number,omitempty"`
}

type Subject struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Code      string `json:"code"`
	TeacherID *int   `json:"teacher_id,omitempty"`
	ClassID   *int   `json:"class_id,omitempty"`
}
