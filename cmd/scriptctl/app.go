package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/unityscripts/script-library/internal/client"
)

const defaultServer = "http://localhost:8080"

const usage = `usage: scriptctl [-server URL] [-session-file PATH] [-timeout D] <command> [args]

commands:
  login [-username NAME]          open an admin session (password is prompted)
  logout                          end the session
  whoami                          show the logged-in user
  list [query]                    list scripts, optionally filtered
  show <id>                       print one script
  add -name N -description D (-code C | -code-file F)
                                  store a new script
  delete <id>                     delete a script
`

type app struct {
	term   *terminal
	api    *client.Client
	tokens *tokenFile
}

// run executes one command and returns the process exit code.
func run(ctx context.Context, args []string, term *terminal) int {
	fs := flag.NewFlagSet("scriptctl", flag.ContinueOnError)
	fs.SetOutput(term.errOut)
	fs.Usage = func() { fmt.Fprint(term.errOut, usage) }

	server := fs.String("server", envOr("SCRIPTLIB_SERVER", defaultServer), "API base URL")
	sessionFile := fs.String("session-file", "", "where the session token is kept")
	timeout := fs.Duration("timeout", 10*time.Second, "per-request timeout")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	tokens, err := openTokenFile(*sessionFile)
	if err != nil {
		fmt.Fprintln(term.errOut, "error:", err)
		return 1
	}
	api, err := client.New(*server, client.WithTimeout(*timeout))
	if err != nil {
		fmt.Fprintln(term.errOut, "error:", err)
		return 1
	}

	a := &app{term: term, api: api, tokens: tokens}
	if err := a.dispatch(ctx, fs.Arg(0), fs.Args()[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 2
		}
		fmt.Fprintln(term.errOut, "error:", describe(err))
		return 1
	}
	return 0
}

func (a *app) dispatch(ctx context.Context, cmd string, args []string) error {
	token, err := a.tokens.Load()
	if err != nil {
		return err
	}
	a.api.SetSessionToken(token)

	switch cmd {
	case "login":
		return a.login(ctx, args)
	case "logout":
		return a.logout(ctx)
	case "whoami":
		return a.whoami(ctx)
	case "list":
		return a.list(ctx, strings.Join(args, " "))
	case "show":
		return a.show(ctx, args)
	case "add":
		return a.add(ctx, args)
	case "delete":
		return a.remove(ctx, args)
	default:
		fmt.Fprint(a.term.errOut, usage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	fs.SetOutput(a.term.errOut)
	username := fs.String("username", "admin", "ignored by the server, kept for the record")
	if err := fs.Parse(args); err != nil {
		return err
	}

	password, err := a.term.Password("Password: ")
	if err != nil {
		return err
	}

	user, err := a.api.Login(ctx, *username, password)
	if err != nil {
		return err
	}
	if err := a.tokens.Save(a.api.SessionToken()); err != nil {
		return err
	}
	fmt.Fprintf(a.term.out, "Logged in as %s\n", user.Username)
	return nil
}

func (a *app) logout(ctx context.Context) error {
	if err := a.api.Logout(ctx); err != nil {
		return err
	}
	if err := a.tokens.Clear(); err != nil {
		return err
	}
	fmt.Fprintln(a.term.out, "Logged out")
	return nil
}

func (a *app) whoami(ctx context.Context) error {
	user, err := a.api.CurrentUser(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.term.out, "%s (id %d)\n", user.Username, user.ID)
	return nil
}

func (a *app) list(ctx context.Context, query string) error {
	scripts, err := a.api.ListScripts(ctx)
	if err != nil {
		return err
	}
	scripts = client.FilterScripts(scripts, query)
	if len(scripts) == 0 {
		fmt.Fprintln(a.term.out, "No scripts found")
		return nil
	}

	tw := tabwriter.NewWriter(a.term.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tDESCRIPTION")
	for _, s := range scripts {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", s.ID, s.Name, oneLine(s.Description, 60))
	}
	return tw.Flush()
}

func (a *app) show(ctx context.Context, args []string) error {
	id, err := idArg(args)
	if err != nil {
		return err
	}
	s, err := a.api.GetScript(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.term.out, "#%d %s\n%s\n\n%s\n", s.ID, s.Name, s.Description, s.Code)
	return nil
}

func (a *app) add(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	fs.SetOutput(a.term.errOut)
	name := fs.String("name", "", "script name")
	description := fs.String("description", "", "what the script does")
	code := fs.String("code", "", "script source")
	codeFile := fs.String("code-file", "", "read the source from this file (- for stdin)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	src := *code
	if *codeFile != "" {
		b, err := a.readSource(*codeFile)
		if err != nil {
			return err
		}
		src = string(b)
	}

	s, err := a.api.CreateScript(ctx, client.NewScript{
		Name:        strings.TrimSpace(*name),
		Description: strings.TrimSpace(*description),
		Code:        src,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.term.out, "Created script %d (%s)\n", s.ID, s.Name)
	return nil
}

func (a *app) readSource(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(a.term.in)
	}
	return os.ReadFile(path)
}

func (a *app) remove(ctx context.Context, args []string) error {
	id, err := idArg(args)
	if err != nil {
		return err
	}
	if err := a.api.DeleteScript(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(a.term.out, "Deleted script %d\n", id)
	return nil
}

func idArg(args []string) (int64, error) {
	if len(args) != 1 {
		return 0, errors.New("expected exactly one script id")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid script id %q", args[0])
	}
	return id, nil
}

// describe turns API errors into something a person can act on.
func describe(err error) string {
	var apiErr *client.APIError
	if !errors.As(err, &apiErr) {
		return err.Error()
	}
	if apiErr.StatusCode == http.StatusUnauthorized && apiErr.Message == "Unauthorized" {
		return "not logged in (run: scriptctl login)"
	}
	if apiErr.Message != "" {
		return apiErr.Message
	}
	return http.StatusText(apiErr.StatusCode)
}

func oneLine(s string, limit int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit-3]) + "..."
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
