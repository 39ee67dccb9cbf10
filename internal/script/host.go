package script

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/spanbuf/internal/engine/marker"
	"github.com/dshills/spanbuf/internal/engine/selection"
	"github.com/dshills/spanbuf/internal/engine/tag"
	"github.com/dshills/spanbuf/internal/logging"
)

// ErrClosed is returned when running code on a closed host.
var ErrClosed = errors.New("script host is closed")

// Host owns a Lua state bound to one buffer.
//
// gopher-lua states are not goroutine-safe. The mutex serialises Run calls;
// observer callbacks run on the goroutine that edited the buffer.
type Host struct {
	L  *lua.LState
	mu sync.Mutex

	buf  *marker.Buffer
	sel  *selection.Selection
	geom selection.Geometry

	out     io.Writer
	log     *logging.Logger
	timeout time.Duration

	names     map[string]tag.Tag
	byTag     map[tag.Tag]string
	observers map[int]tag.Tag
	nextObs   int
	failures  int

	closed bool
}

// Option configures a Host.
type Option func(*Host)

// WithOutput redirects Lua's print. The default is os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(h *Host) {
		h.out = w
	}
}

// WithLogger sets the host logger.
func WithLogger(l *logging.Logger) Option {
	return func(h *Host) {
		h.log = logging.OrNop(l).WithComponent("script")
	}
}

// WithTimeout bounds every Run. Zero disables the limit.
func WithTimeout(d time.Duration) Option {
	return func(h *Host) {
		h.timeout = d
	}
}

// New creates a host for buf. sel and geom may be nil, in which case the
// sel and geom modules are not installed.
func New(buf *marker.Buffer, sel *selection.Selection, geom selection.Geometry, opts ...Option) (*Host, error) {
	if buf == nil {
		return nil, errors.New("script: nil buffer")
	}
	h := &Host{
		buf:       buf,
		sel:       sel,
		geom:      geom,
		out:       os.Stdout,
		log:       logging.Nop(),
		names:     make(map[string]tag.Tag),
		byTag:     make(map[tag.Tag]string),
		observers: make(map[int]tag.Tag),
	}
	for _, opt := range opts {
		opt(h)
	}

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibraries(L)
	h.L = L

	L.SetGlobal("print", L.NewFunction(h.print))
	h.registerBuffer(L)
	if sel != nil {
		h.registerSelection(L)
	}
	if geom != nil {
		h.registerGeometry(L)
	}
	return h, nil
}

// openSafeLibraries opens only the libraries that cannot reach the host.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
}

// Run executes a Lua chunk.
func (h *Host) Run(ctx context.Context, code string) error {
	return h.do(ctx, func() error {
		return h.L.DoString(code)
	})
}

// RunFile executes a Lua file.
func (h *Host) RunFile(ctx context.Context, path string) error {
	return h.do(ctx, func() error {
		return h.L.DoFile(path)
	})
}

func (h *Host) do(ctx context.Context, fn func() error) (err error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return ErrClosed
	}
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}
	h.L.SetContext(ctx)
	defer h.L.RemoveContext()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()
	if err := fn(); err != nil {
		return fmt.Errorf("script: %w", err)
	}
	return nil
}

// Failures returns how many observer callbacks raised an error.
func (h *Host) Failures() int {
	return h.failures
}

// Close unregisters the Lua observers and releases the Lua state.
func (h *Host) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil
	}
	var errs []error
	for id, t := range h.observers {
		if err := h.buf.Unregister(t); err != nil {
			errs = append(errs, err)
		}
		delete(h.observers, id)
	}
	h.L.Close()
	h.closed = true
	return errors.Join(errs...)
}

// print writes its arguments tab-separated to the host output.
func (h *Host) print(L *lua.LState) int {
	n := L.GetTop()
	parts := make([]string, n)
	for i := 1; i <= n; i++ {
		parts[i-1] = L.ToStringMeta(L.Get(i)).String()
	}
	fmt.Fprintln(h.out, strings.Join(parts, "\t"))
	return 0
}

// tagFor returns the tag registered under name, creating it when create
// is set.
func (h *Host) tagFor(name string, create bool) (tag.Tag, bool) {
	if t, ok := h.names[name]; ok {
		return t, true
	}
	if !create {
		return tag.Tag{}, false
	}
	kind, _, _ := strings.Cut(name, ":")
	t := tag.New(tag.Kind(kind))
	h.names[name] = t
	h.byTag[t] = name
	return t, true
}

// nameOf returns the Lua name of t. Tags created outside Lua use their
// String form.
func (h *Host) nameOf(t tag.Tag) string {
	if name, ok := h.byTag[t]; ok {
		return name
	}
	return t.String()
}
