package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// execIface is the command surface the REPL dispatches to. The real App
// satisfies it; tests provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	report(err error)

	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error

	Dashboard(ctx context.Context) error
	Library(ctx context.Context) error
	Category(ctx context.Context, args []string) error
	Search(ctx context.Context, args []string) error
	Filter(ctx context.Context, args []string) error
	Sort(ctx context.Context, args []string) error
	Upload(ctx context.Context) error
	Edit(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	Read(ctx context.Context, args []string) error
	Refresh(ctx context.Context) error
	Theme(ctx context.Context, args []string) error

	Admin(ctx context.Context, args []string) error
	AddCategory(ctx context.Context) error
	RenameCategory(ctx context.Context, args []string) error
	DeleteCategory(ctx context.Context, args []string) error
	AddSubcategory(ctx context.Context, args []string) error
	RenameSubcategory(ctx context.Context, args []string) error
	DeleteSubcategory(ctx context.Context, args []string) error
}

const (
	helpSignedOut = "Available commands: register, login, theme, exit"
	helpSignedIn  = "Workspace: dashboard, library, category <id>, search [term], filter <all|id>, " +
		"sort <recent|alphabetical>, upload, edit <id>, delete <id>, read <id>, refresh, theme [light|dark]\n" +
		"Admin: admin [dashboard|documents|taxonomy|users|settings], addcat, renamecat <id>, delcat <id>, " +
		"addsub <categoryId>, renamesub <id>, delsub <id>\n" +
		"Session: logout, exit"
	msgSignInFirst = "Please log in first."
)

// runREPL reads a command per line from in and dispatches it to a. The loop
// ends on EOF, "exit" or "quit". Handler errors are reported through
// a.report and never stop the loop.
//
// Commands that need a session are refused while signed out.
func runREPL(ctx context.Context, a execIface, statusFn func() string, in *bufio.Reader, w io.Writer) {
	for {
		if ctx.Err() != nil {
			return
		}
		fmt.Fprintf(w, "dv%s> ", prefix(statusFn()))
		line, err := readLine(in)
		if err != nil {
			fmt.Fprintln(w)
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Fprintln(w, helpSignedIn)
			} else {
				fmt.Fprintln(w, helpSignedOut)
			}
			continue
		case "exit", "quit":
			fmt.Fprintln(w, "Bye!")
			return
		case "register":
			a.report(a.Register(ctx))
			continue
		case "login":
			a.report(a.Login(ctx))
			continue
		case "theme":
			a.report(a.Theme(ctx, args))
			continue
		}

		run, ok := signedInCommand(a, cmd)
		if !ok {
			fmt.Fprintln(w, "Unknown command:", cmd)
			continue
		}
		if !a.isLoggedIn() {
			fmt.Fprintln(w, msgSignInFirst)
			continue
		}
		a.report(run(ctx, args))
	}
}

func prefix(status string) string {
	if status == "" {
		return ""
	}
	return " " + status
}

// signedInCommand resolves the handlers that need a session.
func signedInCommand(a execIface, cmd string) (func(context.Context, []string) error, bool) {
	noArgs := func(fn func(context.Context) error) func(context.Context, []string) error {
		return func(ctx context.Context, _ []string) error { return fn(ctx) }
	}

	switch cmd {
	case "logout":
		return noArgs(a.Logout), true
	case "dashboard":
		return noArgs(a.Dashboard), true
	case "library", "l":
		return noArgs(a.Library), true
	case "category":
		return a.Category, true
	case "search":
		return a.Search, true
	case "filter":
		return a.Filter, true
	case "sort":
		return a.Sort, true
	case "upload":
		return noArgs(a.Upload), true
	case "edit":
		return a.Edit, true
	case "delete":
		return a.Delete, true
	case "read":
		return a.Read, true
	case "refresh":
		return noArgs(a.Refresh), true
	case "admin":
		return a.Admin, true
	case "addcat":
		return noArgs(a.AddCategory), true
	case "renamecat":
		return a.RenameCategory, true
	case "delcat":
		return a.DeleteCategory, true
	case "addsub":
		return a.AddSubcategory, true
	case "renamesub":
		return a.RenameSubcategory, true
	case "delsub":
		return a.DeleteSubcategory, true
	}
	return nil, false
}
