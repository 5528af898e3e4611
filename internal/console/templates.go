package console

import (
	"text/template"

	"github.com/pixil98/go-rts/internal/display"
)

const bannerTemplate = `Connected to the rts admin console. {{ len . }} {{ len . | plural "room" "rooms" }} running. Type help for commands.`

const roomsTemplate = `{{- if not . -}}
No rooms are running.
{{ else -}}
{{ printf "%-32s %-9s %-6s %s" "ROOM" "PLAYERS" "UNITS" "TICKS" }}
{{ range . -}}
{{ printf "%-32s %-9s %-6d %d" .Name (printf "%d/%d" .Players .Slots) .Units .Ticks }}
{{ end -}}
{{ end -}}`

const rosterTemplate = `Room {{ .Name }}: {{ len .Units }} units
{{ range .Units -}}
{{ printf "%5d p%-2d %-12s %-5s" .ID .Client (.Key | trunc 12) (.State | upper) }} {{ printf "(%.1f, %.1f)" .Pos.X .Pos.Y }} hp {{ printf "%.0f/%.0f" .HP .MaxHP }}{{ if .Summoning }} summoning {{ .Summoning }}{{ end }}{{ if .Dead }} DEAD{{ end }}
{{ end -}}`

const helpTemplate = `Commands:
{{ range . -}}
{{ printf "  %-12s %s" .Usage .Description }}
{{ end -}}`

var (
	roomsTmpl  = template.Must(display.ParseTemplate("rooms", roomsTemplate))
	rosterTmpl = template.Must(display.ParseTemplate("roster", rosterTemplate))
	helpTmpl   = template.Must(display.ParseTemplate("help", helpTemplate))
)
