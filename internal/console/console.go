package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"text/template"

	"github.com/google/uuid"
	"github.com/pixil98/go-rts/internal"
	"github.com/pixil98/go-rts/internal/display"
	"github.com/pixil98/go-rts/internal/game"
	"github.com/pixil98/go-rts/internal/room"
)

const (
	prompt        = "rts> "
	roomPrompt    = "Room name: "
	roomNameTries = 3
)

var errQuit = errors.New("quit")

// Rooms is the read-only room view the console reports on.
type Rooms interface {
	Rooms() []room.RoomInfo
	Roster(name string) ([]game.UnitStatus, error)
}

type command struct {
	Usage       string
	Description string
	run         func(c *Console, s *session, args []string) error
}

// session is the per-connection state of a console. p is nil when commands
// run without an interactive connection.
type session struct {
	w     io.Writer
	p     *internal.Prompter
	width int
}

// Console is a line-oriented admin shell over the room directory.
type Console struct {
	rooms    Rooms
	commands map[string]*command
	order    []string
}

func New(rooms Rooms) *Console {
	c := &Console{rooms: rooms, commands: map[string]*command{}}

	c.register("rooms", "rooms", "list running rooms", (*Console).listRooms)
	c.register("room", "room <name>", "show the units in a room", (*Console).showRoom)
	c.register("width", "width <n>", "set the wrap width of this session", (*Console).setWidth)
	c.register("help", "help", "show this list", (*Console).help)
	c.register("quit", "quit", "close the session", func(*Console, *session, []string) error { return errQuit })

	return c
}

func (c *Console) register(name, usage, desc string, run func(*Console, *session, []string) error) {
	c.commands[name] = &command{Usage: usage, Description: desc, run: run}
	c.order = append(c.order, name)
}

// Run serves one console session until quit, EOF or ctx is done.
func (c *Console) Run(ctx context.Context, rw io.ReadWriter) error {
	id := uuid.NewString()
	slog.InfoContext(ctx, "console session started", "session", id)
	defer slog.InfoContext(ctx, "console session ended", "session", id)

	s := &session{w: rw, p: internal.NewPrompter(rw), width: display.DefaultWidth}

	banner, err := display.ExpandTemplate(bannerTemplate, c.rooms.Rooms())
	if err != nil {
		return err
	}
	if _, err := io.WriteString(rw, display.Wrap(banner, s.width)+"\n"); err != nil {
		return err
	}

	for {
		if ctx.Err() != nil {
			return nil
		}

		line, err := s.p.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading command: %w", err)
		}

		err = c.exec(s, line)
		if errors.Is(err, errQuit) {
			_, _ = io.WriteString(rw, "Goodbye.\n")
			return nil
		}
		if errors.Is(err, io.EOF) {
			return nil
		}

		var userErr *UserError
		if errors.As(err, &userErr) {
			if _, err := io.WriteString(rw, display.Wrap(userErr.Message, s.width)+"\n"); err != nil {
				return err
			}
			continue
		}
		if err != nil {
			slog.ErrorContext(ctx, "console command", "session", id, "line", line, "error", err)
			return err
		}
	}
}

// Exec runs a single command line outside an interactive session.
func (c *Console) Exec(w io.Writer, line string) error {
	return c.exec(&session{w: w, width: display.DefaultWidth}, line)
}

func (c *Console) exec(s *session, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}

	cmd, ok := c.commands[strings.ToLower(fields[0])]
	if !ok {
		return NewUserError(fmt.Sprintf("%s: unknown command, try help.", display.Capitalize(fields[0])))
	}
	return cmd.run(c, s, fields[1:])
}

func (c *Console) listRooms(s *session, _ []string) error {
	return render(s.w, roomsTmpl, c.rooms.Rooms())
}

func (c *Console) showRoom(s *session, args []string) error {
	var name string
	switch {
	case len(args) == 1:
		name = args[0]
	case len(args) == 0 && s.p != nil:
		n, err := s.p.Prompt(roomPrompt,
			internal.WithValidator(validRoomName),
			internal.WithMaxTries(roomNameTries),
		)
		if errors.Is(err, internal.ErrTooManyTries) {
			return NewUserError("No room name given.")
		}
		if err != nil {
			return err
		}
		name = n
	default:
		return NewUserError("Usage: room <name>")
	}

	units, err := c.rooms.Roster(name)
	if errors.Is(err, room.ErrRoomNotFound) {
		return NewUserError(fmt.Sprintf("No room named %q.", name))
	}
	if err != nil {
		return err
	}

	return render(s.w, rosterTmpl, struct {
		Name  string
		Units []game.UnitStatus
	}{Name: name, Units: units})
}

func validRoomName(name string) (bool, string) {
	if room.ValidName(name) {
		return true, ""
	}
	return false, "Room names are 1 to 32 letters, digits, '-' or '_'.\n"
}

func (c *Console) setWidth(s *session, args []string) error {
	if len(args) != 1 {
		return NewUserError("Usage: width <n>")
	}
	w, err := strconv.Atoi(args[0])
	if err != nil || !display.ValidWidth(w) {
		return NewUserError(fmt.Sprintf("Width must be a number from %d to %d.", display.MinWidth, display.MaxWidth))
	}
	s.width = w
	_, err = fmt.Fprintf(s.w, "Wrapping at %d columns.\n", w)
	return err
}

func (c *Console) help(s *session, _ []string) error {
	cmds := make([]*command, 0, len(c.order))
	for _, name := range c.order {
		cmds = append(cmds, c.commands[name])
	}
	return render(s.w, helpTmpl, cmds)
}

func render(w io.Writer, tmpl *template.Template, data any) error {
	out, err := display.Execute(tmpl, data)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}
