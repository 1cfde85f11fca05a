// Package console is the interactive admin console: a thin, line-based
// front end over the session manager and the API client. It only ever reads
// session state; the credential store stays private to the manager.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"schooldesk/api"
	"schooldesk/session"
)

type Console struct {
	session *session.Manager
	client  *api.Client
	logger  *slog.Logger
	in      *bufio.Scanner
	out     io.Writer
}

func New(sess *session.Manager, client *api.Client, in io.Reader, out io.Writer, logger *slog.Logger) *Console {
	if logger == nil {
		logger = slog.Default()
	}
	return &Console{
		session: sess,
		client:  client,
		logger:  logger,
		in:      bufio.NewScanner(in),
		out:     out,
	}
}

func (c *Console) Run(ctx context.Context) error {
	fmt.Fprintln(c.out, "schooldesk - school records console. Type 'help' for commands.")

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		fmt.Fprintf(c.out, "%s> ", c.promptName())
		line, ok := c.readLine()
		if !ok {
			return nil
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		if done := c.dispatch(ctx, fields[0], fields[1:]); done {
			return nil
		}
	}
}

func (c *Console) promptName() string {
	if user := c.session.User(); user != nil {
		return user.Username
	}
	return "signed-out"
}

// dispatch runs one command; a true result exits the console.
func (c *Console) dispatch(ctx context.Context, cmd string, args []string) bool {
	switch cmd {
	case "exit", "quit":
		return true
	case "help":
		c.printHelp()
	case "login":
		c.loginScreen(ctx)
	case "signup":
		c.signupScreen(ctx)
	case "logout":
		c.session.Logout(ctx)
		fmt.Fprintln(c.out, "Signed out.")
	case "whoami":
		c.whoamiScreen()
	case "passwd":
		c.requireAuth(func() { c.changePasswordScreen(ctx) })
	case "dashboard":
		c.requireAuth(func() { c.dashboardScreen(ctx) })
	case "students", "teachers", "classes", "subjects":
		c.requireAuth(func() { c.listScreen(ctx, cmd, strings.Join(args, " ")) })
	case "add", "edit", "delete":
		c.requireAuth(func() { c.mutateScreen(ctx, cmd, args) })
	default:
		fmt.Fprintf(c.out, "Unknown command %q. Type 'help' for commands.\n", cmd)
	}
	return false
}

// requireAuth gates protected screens on the session state.
func (c *Console) requireAuth(screen func()) {
	if c.session.State() != session.Authenticated {
		fmt.Fprintln(c.out, "Sign in first ('login' or 'signup').")
		return
	}
	screen()
}

func (c *Console) printHelp() {
	if c.session.State() != session.Authenticated {
		fmt.Fprintln(c.out, `Commands:
  login       sign in
  signup      create an account
  exit        leave the console`)
		return
	}
	fmt.Fprintln(c.out, `Commands:
  dashboard                     record counts
  students|teachers|classes|subjects [search]
                                list records, optionally filtered
  add <entity>                  create a record
  edit <entity> <id>            update a record
  delete <entity> <id>          remove a record
  whoami                        show the signed-in account
  passwd                        change password
  logout                        sign out
  exit                          leave the console`)
}

func (c *Console) loginScreen(ctx context.Context) {
	username := c.prompt("Username or email: ")
	password := c.prompt("Password: ")

	if err := c.session.Login(ctx, username, password); err != nil {
		fmt.Fprintln(c.out, c.session.LastError())
		return
	}
	user := c.session.User()
	fmt.Fprintf(c.out, "Welcome, %s.\n", user.FullName)
}

func (c *Console) signupScreen(ctx context.Context) {
	reg := session.Registration{
		Username: c.prompt("Username: "),
		Email:    c.prompt("Email: "),
		FullName: c.prompt("Full name: "),
		Password: c.prompt("Password (min 6 characters): "),
	}
	confirm := c.prompt("Confirm password: ")

	if err := c.session.Register(ctx, reg, confirm); err != nil {
		fmt.Fprintln(c.out, c.session.LastError())
		return
	}
	fmt.Fprintf(c.out, "Account created. Welcome, %s.\n", c.session.User().FullName)
}

func (c *Console) whoamiScreen() {
	user := c.session.User()
	if user == nil {
		fmt.Fprintln(c.out, "Not signed in.")
		return
	}
	fmt.Fprintf(c.out, "%s <%s> (%s)\n", user.FullName, user.Email, user.Role)
}

func (c *Console) changePasswordScreen(ctx context.Context) {
	current := c.prompt("Current password: ")
	newPassword := c.prompt("New password (min 6 characters): ")
	confirm := c.prompt("Confirm new password: ")

	if err := c.session.ChangePassword(ctx, current, newPassword, confirm); err != nil {
		fmt.Fprintln(c.out, c.session.LastError())
		return
	}
	fmt.Fprintln(c.out, "Password updated.")
}

func (c *Console) prompt(label string) string {
	fmt.Fprint(c.out, label)
	line, _ := c.readLine()
	return strings.TrimSpace(line)
}

func (c *Console) readLine() (string, bool) {
	if !c.in.Scan() {
		return "", false
	}
	return c.in.Text(), true
}
