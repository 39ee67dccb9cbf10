package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dshills/spanbuf/internal/config"
	"github.com/dshills/spanbuf/internal/engine/geometry"
	"github.com/dshills/spanbuf/internal/engine/marker"
	"github.com/dshills/spanbuf/internal/engine/selection"
	"github.com/dshills/spanbuf/internal/inspect"
	"github.com/dshills/spanbuf/internal/logging"
	"github.com/dshills/spanbuf/internal/script"
)

// app wires a fresh buffer, selection and script host per run.
type app struct {
	cfg     *config.Config
	log     *logging.Logger
	text    string
	dump    bool
	timeout time.Duration
	out     io.Writer
	errOut  io.Writer
}

// session is one buffer with its overlay and Lua host.
type session struct {
	buf  *marker.Buffer
	sel  *selection.Selection
	host *script.Host
}

func (a *app) newSession() (*session, error) {
	buf := marker.New(a.text, a.cfg.BufferOptions(a.log)...)
	geom := geometry.New(buf, a.cfg.GeometryOptions()...)
	sel, err := selection.New(buf, geom)
	if err != nil {
		return nil, err
	}
	host, err := script.New(buf, sel, geom,
		script.WithOutput(a.out),
		script.WithLogger(a.log),
		script.WithTimeout(a.timeout),
	)
	if err != nil {
		return nil, err
	}
	return &session{buf: buf, sel: sel, host: host}, nil
}

// closeSession releases s, logging failures at Warn.
func (a *app) closeSession(s *session) {
	if err := s.host.Close(); err != nil {
		a.log.Warn("closing script host: %v", err)
	}
	if err := s.sel.Close(); err != nil {
		a.log.Warn("closing selection: %v", err)
	}
}

// runScript runs path against a fresh buffer.
func (a *app) runScript(ctx context.Context, path string) error {
	s, err := a.newSession()
	if err != nil {
		return err
	}
	defer a.closeSession(s)

	start := time.Now()
	if err := s.host.RunFile(ctx, path); err != nil {
		return err
	}
	a.log.WithField("revision", s.buf.Revision()).Info("ran %s in %s", path, time.Since(start))
	if a.dump {
		return a.writeDump(s)
	}
	return nil
}

// repl reads Lua chunks line by line. Lines starting with ':' are
// commands: :dump prints the state, :quit exits.
func (a *app) repl(ctx context.Context, in io.Reader, interactive bool) error {
	s, err := a.newSession()
	if err != nil {
		return err
	}
	defer a.closeSession(s)

	prompt := func() {
		if interactive {
			fmt.Fprint(a.out, "> ")
		}
	}

	scanner := bufio.NewScanner(in)
	prompt()
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
		case line == ":quit" || line == ":q":
			return nil
		case line == ":dump":
			if err := a.writeDump(s); err != nil {
				fmt.Fprintf(a.errOut, "Error: %v\n", err)
			}
		case strings.HasPrefix(line, ":"):
			fmt.Fprintf(a.errOut, "Error: unknown command %s\n", line)
		default:
			if err := s.host.Run(ctx, line); err != nil {
				fmt.Fprintf(a.errOut, "Error: %v\n", err)
			}
		}
		prompt()
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	if a.dump {
		return a.writeDump(s)
	}
	return nil
}

func (a *app) writeDump(s *session) error {
	out, err := inspect.Dump(s.buf, s.sel, inspect.Options{Pretty: true})
	if err != nil {
		return err
	}
	_, err = a.out.Write(out)
	return err
}
