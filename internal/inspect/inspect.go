// Package inspect renders buffer state as JSON for debugging and tooling.
package inspect

import (
	"fmt"

	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/dshills/spanbuf/internal/engine/marker"
	"github.com/dshills/spanbuf/internal/engine/selection"
)

// Options selects what Dump includes.
type Options struct {
	// OmitText leaves out the text field. Large buffers dump faster.
	OmitText bool
	// Pretty indents the output.
	Pretty bool
}

// Dump returns a JSON document describing buf and, when non-nil, sel:
//
//	{
//	  "len": 11, "revision": 3, "depth": 0, "text": "...",
//	  "observers": 1, "delivered": 12, "panicked": 0,
//	  "markers": [{"tag": "bold#1b4e28ba", "kind": "bold",
//	               "start": 0, "end": 5, "policy": "INCLUSIVE_EXCLUSIVE"}],
//	  "selection": {"state": "range", "anchor": 2, "cursor": 6}
//	}
func Dump(buf *marker.Buffer, sel *selection.Selection, opts Options) ([]byte, error) {
	doc := []byte(`{}`)
	var firstErr error
	set := func(path string, v any) {
		if firstErr != nil {
			return
		}
		out, err := sjson.SetBytes(doc, path, v)
		if err != nil {
			firstErr = fmt.Errorf("inspect: set %s: %w", path, err)
			return
		}
		doc = out
	}

	stats := buf.DispatchStats()
	set("len", buf.Len())
	set("revision", buf.Revision())
	set("depth", buf.Depth())
	if !opts.OmitText {
		set("text", buf.Text())
	}
	set("observers", stats.Observers)
	set("delivered", stats.Delivered)
	set("panicked", stats.Panicked)

	set("markers", []any{})
	for i, m := range buf.Markers() {
		prefix := fmt.Sprintf("markers.%d.", i)
		set(prefix+"tag", m.Tag.String())
		set(prefix+"kind", string(m.Tag.Kind()))
		set(prefix+"start", m.Start)
		set(prefix+"end", m.End)
		set(prefix+"policy", m.Policy.String())
	}

	if sel != nil {
		set("selection.state", sel.State().String())
		if sel.State() != selection.None {
			set("selection.anchor", sel.Anchor())
			set("selection.cursor", sel.Cursor())
		}
	}

	if firstErr != nil {
		return nil, firstErr
	}
	if opts.Pretty {
		doc = pretty.Pretty(doc)
	}
	return doc, nil
}
