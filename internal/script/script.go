// Package script replays line based drawing scripts on a display.
//
// Every line holds one command followed by its arguments, split with shell
// quoting rules:
//
//	fill 0,0,0
//	box 10 10 40 20 255,0,0
//	text 4 40 2 white black "Hello"
//
// Colours are "r,g,b" tuples or one of the names in Colours. Malformed tuples
// are drawn black and logged.
package script

import (
	"bufio"
	"errors"
	"fmt"
	"image/color"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/shlex"
	"github.com/sirupsen/logrus"

	"github.com/BeatGlow/tft/pixel"
)

// Errors
var (
	ErrUnknownCommand = errors.New("script: unknown command")
	ErrArguments      = errors.New("script: invalid arguments")
)

// Target is the display a script draws on.
type Target interface {
	Clear() error
	FillDisplay(c color.Color) error
	DrawPixel(x, y int, c color.Color) error
	DrawLine(x1, y1, x2, y2 int, c color.Color) error
	DrawRect(x, y, w, h int, c color.Color) error
	FillRect(x, y, w, h int, c color.Color) error
	DrawCircle(cx, cy, r int, c color.Color) error
	FillCircle(cx, cy, r int, c color.Color) error
	Print(text string, x, y int, fg, bg color.Color, size int) error
	On() error
	Off() error
	SetBacklight(level uint8) error
	Invert(invert bool) error
	Sleep(asleep bool) error
}

// Colours are the colour names a script may use instead of a tuple.
var Colours = map[string][]int{
	"black":   {0x00, 0x00, 0x00},
	"white":   {0xFF, 0xFF, 0xFF},
	"red":     {0xFF, 0x00, 0x00},
	"green":   {0x00, 0xFF, 0x00},
	"blue":    {0x00, 0x00, 0xFF},
	"yellow":  {0xFF, 0xFF, 0x00},
	"cyan":    {0x00, 0xFF, 0xFF},
	"magenta": {0xFF, 0x00, 0xFF},
	"orange":  {0xFF, 0x80, 0x00},
	"gray":    {0x80, 0x80, 0x80},
}

// Error is a failed script line.
type Error struct {
	Line int
	Err  error
}

func (err *Error) Error() string {
	return fmt.Sprintf("script: line %d: %v", err.Line, err.Err)
}

func (err *Error) Unwrap() error {
	return err.Err
}

// Runner executes scripts against a Target.
type Runner struct {
	// Target receives the drawing calls.
	Target Target

	// Log receives warnings about degraded colours.
	Log logrus.FieldLogger

	// Wait implements the wait command.
	Wait func(time.Duration)
}

// New returns a runner for target.
func New(target Target) *Runner {
	return &Runner{
		Target: target,
		Log:    logrus.WithField("component", "script"),
		Wait:   time.Sleep,
	}
}

// Run executes every line read from r. It stops at the first failing line.
func (r *Runner) Run(in io.Reader) error {
	var (
		s    = bufio.NewScanner(in)
		line int
	)
	for s.Scan() {
		line++
		if err := r.Exec(s.Text()); err != nil {
			return &Error{Line: line, Err: err}
		}
	}
	return s.Err()
}

// Exec executes a single line. Empty lines and comments are ignored.
func (r *Runner) Exec(line string) error {
	words, err := shlex.Split(line)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrArguments, err)
	}
	if len(words) == 0 {
		return nil
	}

	name, args := strings.ToLower(words[0]), words[1:]
	cmd, ok := commands[name]
	if !ok {
		return fmt.Errorf("%w %q", ErrUnknownCommand, name)
	}
	if len(args) != len(cmd.args) {
		return fmt.Errorf("%w: usage: %s %s", ErrArguments, name, strings.Join(cmd.args, " "))
	}
	if r.Log != nil {
		r.Log.WithField("command", name).Debug(strings.Join(args, " "))
	}
	return cmd.run(r, &parser{r: r, args: args})
}

// Commands returns the usage line of every command, sorted by name.
func Commands() []string {
	names := make([]string, 0, len(commands))
	for name, cmd := range commands {
		names = append(names, strings.TrimSpace(name+" "+strings.Join(cmd.args, " ")))
	}
	sort.Strings(names)
	return names
}

type command struct {
	args []string
	run  func(*Runner, *parser) error
}

var commands = map[string]command{
	"clear": {nil, func(r *Runner, p *parser) error {
		return r.Target.Clear()
	}},
	"fill": {[]string{"colour"}, func(r *Runner, p *parser) error {
		c := p.colour()
		if p.err != nil {
			return p.err
		}
		return r.Target.FillDisplay(c)
	}},
	"pixel": {[]string{"x", "y", "colour"}, func(r *Runner, p *parser) error {
		x, y, c := p.integer(), p.integer(), p.colour()
		if p.err != nil {
			return p.err
		}
		return r.Target.DrawPixel(x, y, c)
	}},
	"line": {[]string{"x1", "y1", "x2", "y2", "colour"}, func(r *Runner, p *parser) error {
		x1, y1, x2, y2, c := p.integer(), p.integer(), p.integer(), p.integer(), p.colour()
		if p.err != nil {
			return p.err
		}
		return r.Target.DrawLine(x1, y1, x2, y2, c)
	}},
	"rect": {[]string{"x", "y", "w", "h", "colour"}, func(r *Runner, p *parser) error {
		x, y, w, h, c := p.integer(), p.integer(), p.integer(), p.integer(), p.colour()
		if p.err != nil {
			return p.err
		}
		return r.Target.DrawRect(x, y, w, h, c)
	}},
	"box": {[]string{"x", "y", "w", "h", "colour"}, func(r *Runner, p *parser) error {
		x, y, w, h, c := p.integer(), p.integer(), p.integer(), p.integer(), p.colour()
		if p.err != nil {
			return p.err
		}
		return r.Target.FillRect(x, y, w, h, c)
	}},
	"circle": {[]string{"cx", "cy", "r", "colour"}, func(r *Runner, p *parser) error {
		cx, cy, radius, c := p.integer(), p.integer(), p.integer(), p.colour()
		if p.err != nil {
			return p.err
		}
		return r.Target.DrawCircle(cx, cy, radius, c)
	}},
	"disc": {[]string{"cx", "cy", "r", "colour"}, func(r *Runner, p *parser) error {
		cx, cy, radius, c := p.integer(), p.integer(), p.integer(), p.colour()
		if p.err != nil {
			return p.err
		}
		return r.Target.FillCircle(cx, cy, radius, c)
	}},
	"text": {[]string{"x", "y", "size", "fg", "bg", "text"}, func(r *Runner, p *parser) error {
		x, y, size, fg, bg, text := p.integer(), p.integer(), p.integer(), p.colour(), p.colour(), p.next()
		if p.err != nil {
			return p.err
		}
		return r.Target.Print(text, x, y, fg, bg, size)
	}},
	"on": {nil, func(r *Runner, p *parser) error {
		return r.Target.On()
	}},
	"off": {nil, func(r *Runner, p *parser) error {
		return r.Target.Off()
	}},
	"backlight": {[]string{"level"}, func(r *Runner, p *parser) error {
		level := p.integer()
		if p.err != nil {
			return p.err
		}
		if level < 0 || level > 0xFF {
			return fmt.Errorf("%w: backlight level %d out of range", ErrArguments, level)
		}
		return r.Target.SetBacklight(uint8(level))
	}},
	"invert": {[]string{"on|off"}, func(r *Runner, p *parser) error {
		on := p.flag()
		if p.err != nil {
			return p.err
		}
		return r.Target.Invert(on)
	}},
	"sleep": {[]string{"on|off"}, func(r *Runner, p *parser) error {
		on := p.flag()
		if p.err != nil {
			return p.err
		}
		return r.Target.Sleep(on)
	}},
	"wait": {[]string{"duration"}, func(r *Runner, p *parser) error {
		d := p.duration()
		if p.err != nil {
			return p.err
		}
		if r.Wait != nil {
			r.Wait(d)
		}
		return nil
	}},
}

// parser consumes arguments, keeping the first error.
type parser struct {
	r    *Runner
	args []string
	err  error
}

func (p *parser) next() string {
	if len(p.args) == 0 {
		return ""
	}
	arg := p.args[0]
	p.args = p.args[1:]
	return arg
}

func (p *parser) fail(format string, v ...any) {
	if p.err == nil {
		p.err = fmt.Errorf("%w: "+format, append([]any{ErrArguments}, v...)...)
	}
}

func (p *parser) integer() int {
	arg := p.next()
	v, err := strconv.Atoi(arg)
	if err != nil {
		p.fail("%q is not an integer", arg)
	}
	return v
}

func (p *parser) flag() bool {
	switch arg := strings.ToLower(p.next()); arg {
	case "on", "true", "yes", "1":
		return true
	case "off", "false", "no", "0":
		return false
	default:
		p.fail("%q is not on or off", arg)
		return false
	}
}

func (p *parser) duration() time.Duration {
	arg := p.next()
	d, err := time.ParseDuration(arg)
	if err != nil {
		p.fail("%q is not a duration", arg)
	}
	return d
}

// colour parses a colour name or an "r,g,b" tuple. Tuples that don't hold
// three channels in [0,255] are drawn black.
func (p *parser) colour() color.Color {
	arg := strings.ToLower(p.next())
	tuple, ok := Colours[arg]
	if !ok {
		parts := strings.Split(arg, ",")
		tuple = make([]int, len(parts))
		for i, part := range parts {
			v, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil {
				v = -1
			}
			tuple[i] = v
		}
	}

	conv := pixel.Convert(tuple, pixel.RGB)
	if !conv.OK && p.r.Log != nil {
		p.r.Log.WithField("colour", arg).Warn("invalid colour, using black")
	}
	return pixel.CRGB16{V: conv.Value}
}
