package console

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"text/tabwriter"

	"schooldesk/api"
	"schooldesk/session"
)

func (c *Console) dashboardScreen(ctx context.Context) {
	students, err := c.client.Students(ctx, "")
	if err != nil {
		c.printAPIError(err)
		return
	}
	teachers, err := c.client.Teachers(ctx, "")
	if err != nil {
		c.printAPIError(err)
		return
	}
	classes, err := c.client.Classes(ctx, "")
	if err != nil {
		c.printAPIError(err)
		return
	}
	subjects, err := c.client.Subjects(ctx, "")
	if err != nil {
		c.printAPIError(err)
		return
	}

	w := c.table()
	fmt.Fprintln(w, "STUDENTS\tTEACHERS\tCLASSES\tSUBJECTS")
	fmt.Fprintf(w, "%d\t%d\t%d\t%d\n", len(students), len(teachers), len(classes), len(subjects))
	w.Flush()
}

func (c *Console) listScreen(ctx context.Context, entity, search string) {
	w := c.table()
	defer w.Flush()

	switch entity {
	case "students":
		students, err := c.client.Students(ctx, search)
		if err != nil {
			c.printAPIError(err)
			return
		}
		fmt.Fprintln(w, "ID\tNAME\tEMAIL\tPHONE\tCLASS")
		for _, s := range students {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", s.ID, s.Name, s.Email, s.Phone, s.ClassName)
		}
	case "teachers":
		teachers, err := c.client.Teachers(ctx, search)
		if err != nil {
			c.printAPIError(err)
			return
		}
		fmt.Fprintln(w, "ID\tNAME\tEMAIL\tPHONE\tDEPARTMENT")
		for _, t := range teachers {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", t.ID, t.Name, t.Email, t.Phone, t.Department)
		}
	case "classes":
		classes, err := c.client.Classes(ctx, search)
		if err != nil {
			c.printAPIError(err)
			return
		}
		fmt.Fprintln(w, "ID\tNAME\tSECTION\tROOM")
		for _, cl := range classes {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", cl.ID, cl.Name, cl.Section, cl.RoomNumber)
		}
	case "subjects":
		subjects, err := c.client.Subjects(ctx, search)
		if err != nil {
			c.printAPIError(err)
			return
		}
		fmt.Fprintln(w, "ID\tNAME\tCODE\tTEACHER\tCLASS")
		for _, s := range subjects {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", s.ID, s.Name, s.Code, optInt(s.TeacherID), optInt(s.ClassID))
		}
	}
}

func (c *Console) mutateScreen(ctx context.Context, verb string, args []string) {
	if len(args) == 0 {
		fmt.Fprintf(c.out, "Usage: %s student|teacher|class|subject", verb)
		if verb != "add" {
			fmt.Fprint(c.out, " <id>")
		}
		fmt.Fprintln(c.out)
		return
	}
	entity := args[0]

	var id int
	if verb != "add" {
		if len(args) < 2 {
			fmt.Fprintf(c.out, "Usage: %s %s <id>\n", verb, entity)
			return
		}
		var err error
		if id, err = strconv.Atoi(args[1]); err != nil {
			fmt.Fprintln(c.out, "The id must be a number.")
			return
		}
	}

	switch entity {
	case "student":
		c.studentForm(ctx, verb, id)
	case "teacher":
		c.teacherForm(ctx, verb, id)
	case "class":
		c.classForm(ctx, verb, id)
	case "subject":
		c.subjectForm(ctx, verb, id)
	default:
		fmt.Fprintf(c.out, "Unknown entity %q.\n", entity)
	}
}

func (c *Console) studentForm(ctx context.Context, verb string, id int) {
	if verb == "delete" {
		c.report(c.client.DeleteStudent(ctx, id), "Student deleted.")
		return
	}

	in := api.StudentInput{}
	if verb == "edit" {
		current, err := c.client.Student(ctx, id)
		if err != nil {
			c.printAPIError(err)
			return
		}
		in = api.StudentInput{Name: current.Name, Email: current.Email, Phone: current.Phone, ClassID: current.ClassID}
	}

	in.Name = c.promptDefault("Name", in.Name)
	in.Email = c.promptDefault("Email", in.Email)
	in.Phone = c.promptDefault("Phone", in.Phone)
	in.ClassID = c.promptOptionalInt("Class id", in.ClassID)

	if in.Name == "" || in.Email == "" {
		fmt.Fprintln(c.out, "Name and email are required.")
		return
	}

	if verb == "add" {
		_, err := c.client.CreateStudent(ctx, in)
		c.report(err, "Student created.")
		return
	}
	_, err := c.client.UpdateStudent(ctx, id, in)
	c.report(err, "Student updated.")
}

func (c *Console) teacherForm(ctx context.Context, verb string, id int) {
	if verb == "delete" {
		c.report(c.client.DeleteTeacher(ctx, id), "Teacher deleted.")
		return
	}

	in := api.TeacherInput{}
	if verb == "edit" {
		current, err := c.client.Teacher(ctx, id)
		if err != nil {
			c.printAPIError(err)
			return
		}
		in = api.TeacherInput{Name: current.Name, Email: current.Email, Phone: current.Phone, Department: current.Department}
	}

	in.Name = c.promptDefault("Name", in.Name)
	in.Email = c.promptDefault("Email", in.Email)
	in.Phone = c.promptDefault("Phone", in.Phone)
	in.Department = c.promptDefault("Department", in.Department)

	if in.Name == "" || in.Email == "" {
		fmt.Fprintln(c.out, "Name and email are required.")
		return
	}

	if verb == "add" {
		_, err := c.client.CreateTeacher(ctx, in)
		c.report(err, "Teacher created.")
		return
	}
	_, err := c.client.UpdateTeacher(ctx, id, in)
	c.report(err, "Teacher updated.")
}

func (c *Console) classForm(ctx context.Context, verb string, id int) {
	if verb == "delete" {
		c.report(c.client.DeleteClass(ctx, id), "Class deleted.")
		return
	}

	in := api.ClassInput{}
	if verb == "edit" {
		current, err := c.client.Class(ctx, id)
		if err != nil {
			c.printAPIError(err)
			return
		}
		in = api.ClassInput{Name: current.Name, Section: current.Section, RoomNumber: current.RoomNumber}
	}

	in.Name = c.promptDefault("Name", in.Name)
	in.Section = c.promptDefault("Section", in.Section)
	in.RoomNumber = c.promptDefault("Room number", in.RoomNumber)

	if in.Name == "" || in.Section == "" {
		fmt.Fprintln(c.out, "Name and section are required.")
		return
	}

	if verb == "add" {
		_, err := c.client.CreateClass(ctx, in)
		c.report(err, "Class created.")
		return
	}
	_, err := c.client.UpdateClass(ctx, id, in)
	c.report(err, "Class updated.")
}

func (c *Console) subjectForm(ctx context.Context, verb string, id int) {
	if verb == "delete" {
		c.report(c.client.DeleteSubject(ctx, id), "Subject deleted.")
		return
	}

	in := api.SubjectInput{}
	if verb == "edit" {
		current, err := c.client.Subject(ctx, id)
		if err != nil {
			c.printAPIError(err)
			return
		}
		in = api.SubjectInput{Name: current.Name, Code: current.Code, TeacherID: current.TeacherID, ClassID: current.ClassID}
	}

	in.Name = c.promptDefault("Name", in.Name)
	in.Code = c.promptDefault("Code", in.Code)
	in.TeacherID = c.promptOptionalInt("Teacher id", in.TeacherID)
	in.ClassID = c.promptOptionalInt("Class id", in.ClassID)

	if in.Name == "" || in.Code == "" {
		fmt.Fprintln(c.out, "Name and code are required.")
		return
	}

	if verb == "add" {
		_, err := c.client.CreateSubject(ctx, in)
		c.report(err, "Subject created.")
		return
	}
	_, err := c.client.UpdateSubject(ctx, id, in)
	c.report(err, "Subject updated.")
}

// promptDefault asks for a value; an empty answer keeps the current one.
func (c *Console) promptDefault(label, current string) string {
	if current != "" {
		label = fmt.Sprintf("%s [%s]", label, current)
	}
	answer := c.prompt(label + ": ")
	if answer == "" {
		return current
	}
	return answer
}

func (c *Console) promptOptionalInt(label string, current *int) *int {
	if current != nil {
		label = fmt.Sprintf("%s [%d]", label, *current)
	}
	answer := c.prompt(label + ": ")
	if answer == "" {
		return current
	}
	if answer == "-" {
		return nil
	}
	n, err := strconv.Atoi(answer)
	if err != nil {
		fmt.Fprintln(c.out, "Not a number, keeping the previous value.")
		return current
	}
	return &n
}

func (c *Console) report(err error, success string) {
	if err != nil {
		c.printAPIError(err)
		return
	}
	fmt.Fprintln(c.out, success)
}

func (c *Console) printAPIError(err error) {
	if errors.Is(err, session.ErrRejected) {
		fmt.Fprintln(c.out, err.Error())
		return
	}
	c.logger.Debug("api call failed", "error", err)
	fmt.Fprintln(c.out, "Request failed. Is the backend reachable?")
}

func (c *Console) table() *tabwriter.Writer {
	return tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
}

func optInt(v *int) string {
	if v == nil {
		return "-"
	}
	return strconv.Itoa(*v)
}
