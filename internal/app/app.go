package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/tidwall/sjson"

	"github.com/dshills/cartstore/internal/config"
	"github.com/dshills/cartstore/internal/dispatcher"
	"github.com/dshills/cartstore/internal/engine/history"
	"github.com/dshills/cartstore/internal/event"
	"github.com/dshills/cartstore/internal/plugin/lua"
	"github.com/dshills/cartstore/internal/state"
)

// Application owns the dispatcher and the optional Lua listener.
type Application struct {
	config     config.Config
	logger     *slog.Logger
	dispatcher *dispatcher.Dispatcher
	script     *lua.Listener
}

// Options configures the application.
type Options struct {
	// Config holds the resolved settings.
	Config config.Config

	// LogOutput is where logs are written. Defaults to os.Stderr.
	LogOutput io.Writer

	// InitialState seeds the store. Defaults to the empty, logged-out state.
	InitialState *state.State
}

// New creates a new Application with the given options.
func New(opts Options) (*Application, error) {
	cfg := opts.Config
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInitialization, err)
	}

	a := &Application{
		config: cfg,
		logger: NewLogger(opts.LogOutput, cfg),
	}

	dcfg := dispatcher.DefaultConfig().
		WithHistoryLimit(cfg.HistoryLimit).
		WithListenerTimeout(cfg.ListenerTimeout)
	dcfg.WarnUnknownEvents = cfg.WarnUnknownEvents

	dopts := []dispatcher.Option{
		dispatcher.WithLogger(a.logger),
		dispatcher.WithListener(LogListener(a.logger)),
	}
	if opts.InitialState != nil {
		dopts = append(dopts, dispatcher.WithInitialState(*opts.InitialState))
	}
	if cfg.RequireLogin {
		dopts = append(dopts, dispatcher.WithPreDispatchHook(dispatcher.RequireLogin()))
	}

	if cfg.ListenerScript != "" {
		script, err := lua.LoadListener(cfg.ListenerScript, a.logger.With("listener", cfg.ListenerScript))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInitialization, err)
		}
		a.script = script
		dopts = append(dopts, dispatcher.WithListener(script))
	}

	a.dispatcher = dispatcher.New(dcfg, dopts...)
	return a, nil
}

// Dispatcher returns the application's dispatcher.
func (a *Application) Dispatcher() *dispatcher.Dispatcher {
	return a.dispatcher
}

// Logger returns the application logger.
func (a *Application) Logger() *slog.Logger {
	return a.logger
}

// Close releases the Lua listener, if any.
func (a *Application) Close() error {
	if a.script != nil {
		return a.script.Close()
	}
	return nil
}

// Run reads line commands from in until EOF, "quit" or cancellation and
// writes one JSON document per command to out. Failed commands are logged
// and the loop continues. Cancellation is noticed even while in is idle.
func (a *Application) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel() // releases the reader after quit or a write error
	lines, scanErr := readLines(ctx, in)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		var line string
		select {
		case <-ctx.Done():
			return ctx.Err()
		case raw, ok := <-lines:
			if !ok {
				if err := ctx.Err(); err != nil {
					return err
				}
				return <-scanErr
			}
			line = strings.TrimSpace(raw)
		}
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		doc, err := a.Execute(ctx, line)
		if errors.Is(err, ErrQuit) {
			return nil
		}
		if err != nil {
			a.logger.Warn("command failed", "line", line, "error", err)
			doc, _ = sjson.Set("", "error", err.Error())
		}
		if _, err := fmt.Fprintln(out, doc); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
	}
}

// readLines scans in on its own goroutine. lines is closed at EOF, on a
// read error, or once ctx is done; scanErr receives the scanner error in
// the first two cases.
func readLines(ctx context.Context, in io.Reader) (lines <-chan string, scanErr <-chan error) {
	out := make(chan string)
	errc := make(chan error, 1)

	go func() {
		defer close(out)

		scanner := bufio.NewScanner(in)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			select {
			case out <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		errc <- scanner.Err()
	}()

	return out, errc
}

// Execute runs a single line command and returns its JSON result.
//
// Commands: undo, redo, state, history, reset, quit. A line starting with
// "{" is parsed as an event and dispatched.
func (a *Application) Execute(ctx context.Context, line string) (string, error) {
	d := a.dispatcher

	switch strings.ToLower(line) {
	case "undo":
		s, ok := d.Undo()
		if !ok {
			a.logger.Debug("nothing to undo")
		}
		return s.String(), nil
	case "redo":
		s, ok := d.Redo()
		if !ok {
			a.logger.Debug("nothing to redo")
		}
		return s.String(), nil
	case "state":
		return d.State().String(), nil
	case "history":
		return historyJSON(d.History(), d.HistoryStatus())
	case "reset":
		return d.Reset().String(), nil
	case "quit", "exit":
		return "", ErrQuit
	}

	if !strings.HasPrefix(line, "{") {
		return "", fmt.Errorf("%w: %q", ErrUnknownCommand, line)
	}
	ev, err := event.Parse([]byte(line))
	if err != nil {
		return "", err
	}
	s, err := d.Dispatch(ctx, ev)
	if err != nil {
		return "", err
	}
	return s.String(), nil
}

// historyJSON renders
//
//	{"undo":1,"redo":0,"limit":0,"entries":[{"index":0,"label":"initial",...}]}
func historyJSON(entries []history.EntryInfo, status dispatcher.HistoryStatus) (string, error) {
	out := `{"entries":[]}`
	var err error
	for _, kv := range []struct {
		path  string
		value int
	}{
		{"undo", status.UndoCount},
		{"redo", status.RedoCount},
		{"limit", status.Limit},
	} {
		if out, err = sjson.Set(out, kv.path, kv.value); err != nil {
			return "", err
		}
	}

	for _, e := range entries {
		item, err := sjson.Set("", "index", e.Index)
		if err != nil {
			return "", err
		}
		if item, err = sjson.Set(item, "label", e.Label); err != nil {
			return "", err
		}
		if item, err = sjson.Set(item, "time", e.Timestamp.UTC().Format(time.RFC3339Nano)); err != nil {
			return "", err
		}
		if item, err = sjson.Set(item, "current", e.Current); err != nil {
			return "", err
		}
		if out, err = sjson.SetRaw(out, "entries.-1", item); err != nil {
			return "", err
		}
	}
	return out, nil
}
