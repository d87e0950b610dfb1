package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/alecthomas/kong"
	"github.com/rawen554/userdir/internal/directory"
	"github.com/rawen554/userdir/internal/models"
	"github.com/rawen554/userdir/internal/prompt"
)

var errUnterminatedQuote = errors.New("unterminated quote")

type session struct {
	dir     *directory.UserDirectory
	confirm directory.Confirmer
	out     io.Writer
	quit    bool
}

type shell struct {
	Search searchCmd `cmd:"" help:"List users whose name or username contains the keyword."`
	Show   showCmd   `cmd:"" help:"Show one user."`
	Add    addCmd    `cmd:"" help:"Add a user."`
	Edit   editCmd   `cmd:"" help:"Edit a user: edit <id> field=value..."`
	Remove removeCmd `cmd:"" help:"Remove a user after confirmation."`
	Status statusCmd `cmd:"" help:"Show directory status."`
	Quit   quitCmd   `cmd:"" aliases:"exit" help:"Leave the shell."`
}

type searchCmd struct {
	Keyword string `arg:"" optional:"" help:"Case-insensitive keyword."`
}

func (c *searchCmd) Run(s *session) error {
	tw := tabwriter.NewWriter(s.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tUSERNAME\tEMAIL\tCITY\tPHONE\tWEBSITE")
	n := 0
	for u := range s.dir.Search(c.Keyword) {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			u.ID, u.Name, u.Username, u.Email, u.Address.City, u.Phone, u.Website)
		n++
	}
	if n == 0 {
		fmt.Fprintln(s.out, "no users found")
		return nil
	}
	return tw.Flush()
}

type showCmd struct {
	ID int `arg:"" help:"User id."`
}

func (c *showCmd) Run(s *session) error {
	u, err := s.dir.Get(c.ID)
	if err != nil {
		return err
	}
	printUser(s.out, u)
	return nil
}

type addCmd struct {
	Name     string `help:"Full name." required:""`
	Username string `help:"Username." required:""`
	Email    string `help:"Email."`
	Phone    string `help:"Phone."`
	Website  string `help:"Website."`
	Street   string `help:"Street."`
	Suite    string `help:"Suite."`
	City     string `help:"City."`
}

func (c *addCmd) Run(s *session) error {
	draft := directory.NewDraft()
	values := map[string]string{
		directory.FieldName:     c.Name,
		directory.FieldUsername: c.Username,
		directory.FieldEmail:    c.Email,
		directory.FieldPhone:    c.Phone,
		directory.FieldWebsite:  c.Website,
		directory.FieldStreet:   c.Street,
		directory.FieldSuite:    c.Suite,
		directory.FieldCity:     c.City,
	}
	for _, field := range directory.Fields {
		var err error
		if draft, err = directory.SetField(draft, field, values[field]); err != nil {
			return err
		}
	}

	u, err := s.dir.Create(draft)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "added user %d\n", u.ID)
	return nil
}

type editCmd struct {
	ID          int      `arg:"" help:"User id."`
	Assignments []string `arg:"" help:"field=value pairs."`
}

func (c *editCmd) Run(s *session) error {
	draft, err := s.dir.BeginEdit(c.ID)
	if err != nil {
		return err
	}

	for _, a := range c.Assignments {
		field, value, ok := strings.Cut(a, "=")
		if !ok {
			return fmt.Errorf("expected field=value, got %q", a)
		}
		if draft, err = directory.SetField(draft, field, value); err != nil {
			return err
		}
	}

	updated, err := s.dir.CommitEdit(draft)
	if err != nil {
		return err
	}
	if !updated {
		return fmt.Errorf("%w: %d", directory.ErrNotFound, c.ID)
	}
	fmt.Fprintf(s.out, "updated user %d\n", c.ID)
	return nil
}

type removeCmd struct {
	ID int `arg:"" help:"User id."`
}

func (c *removeCmd) Run(s *session) error {
	removed, err := s.dir.Remove(c.ID, s.confirm)
	if err != nil {
		return err
	}
	if removed {
		fmt.Fprintf(s.out, "removed user %d\n", c.ID)
	} else {
		fmt.Fprintln(s.out, "nothing removed")
	}
	return nil
}

type statusCmd struct{}

func (c *statusCmd) Run(s *session) error {
	st := s.dir.Status()
	fmt.Fprintf(s.out, "state: %s\nusers: %d\n", st.State, st.Users)
	if st.LastError != "" {
		fmt.Fprintf(s.out, "last error: %s\n", st.LastError)
	}
	return nil
}

type quitCmd struct{}

func (c *quitCmd) Run(s *session) error {
	s.quit = true
	return nil
}

func printUser(w io.Writer, u models.User) {
	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)
	fmt.Fprintf(tw, "id:\t%d\n", u.ID)
	fmt.Fprintf(tw, "name:\t%s\n", u.Name)
	fmt.Fprintf(tw, "username:\t%s\n", u.Username)
	fmt.Fprintf(tw, "email:\t%s\n", u.Email)
	fmt.Fprintf(tw, "phone:\t%s\n", u.Phone)
	fmt.Fprintf(tw, "website:\t%s\n", u.Website)
	fmt.Fprintf(tw, "address:\t%s, %s, %s\n", u.Address.Street, u.Address.Suite, u.Address.City)
	_ = tw.Flush()
}

// splitArgs splits a line on spaces, keeping double-quoted parts together.
func splitArgs(line string) ([]string, error) {
	var (
		args    []string
		current strings.Builder
		quoted  bool
		started bool
	)
	for _, r := range line {
		switch {
		case r == '"':
			quoted = !quoted
			started = true
		case (r == ' ' || r == '\t') && !quoted:
			if started {
				args = append(args, current.String())
				current.Reset()
				started = false
			}
		default:
			current.WriteRune(r)
			started = true
		}
	}
	if quoted {
		return nil, errUnterminatedQuote
	}
	if started {
		args = append(args, current.String())
	}
	return args, nil
}

func newParser(out io.Writer, errOut io.Writer) (*kong.Kong, error) {
	return kong.New(&shell{},
		kong.Name(""),
		kong.Description("Manage the in-memory user directory."),
		kong.Writers(out, errOut),
		kong.Exit(func(int) {}),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
	)
}

// runShell reads commands until quit or end of input.
func runShell(s *session, in *prompt.Terminal, errOut io.Writer) error {
	parser, err := newParser(s.out, errOut)
	if err != nil {
		return fmt.Errorf("error building command parser: %w", err)
	}

	for !s.quit {
		if in.Interactive() {
			fmt.Fprint(s.out, "> ")
		}
		line, err := in.ReadLine()
		if errors.Is(err, io.EOF) {
			return nil
		} else if err != nil {
			return fmt.Errorf("error reading command: %w", err)
		}

		args, err := splitArgs(line)
		if err != nil {
			fmt.Fprintln(errOut, err)
			continue
		}
		if len(args) == 0 {
			continue
		}

		kctx, err := parser.Parse(args)
		if err != nil {
			fmt.Fprintln(errOut, err)
			continue
		}
		if err := kctx.Run(s); err != nil {
			fmt.Fprintln(errOut, describe(err))
		}
	}
	return nil
}

func describe(err error) string {
	var vErr *directory.ValidationError
	if errors.As(err, &vErr) {
		return "missing required fields: " + strings.Join(vErr.Missing, ", ")
	}
	return err.Error()
}
