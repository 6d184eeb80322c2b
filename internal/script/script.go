// Package script loads action scripts: a list of store actions, in JSON or
// YAML, that can be replayed through the reducer without a terminal.
package script

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/idilsaglam/tada/internal/store"
)

//go:embed schema.json
var schemaJSON []byte

const schemaURL = "tada-script.schema.json"

// MaxRepeat bounds Step.Repeat. The schema enforces the same limit.
const MaxRepeat = 100000

// Format is the on-disk encoding of a script.
type Format int

const (
	JSON Format = iota
	YAML
)

// Script is a decoded action script.
type Script struct {
	Variant string `json:"variant,omitempty"`
	Limit   int    `json:"limit,omitempty"`
	Steps   []Step `json:"actions"`
}

// Step is one scripted action. Repeat applies it that many times.
type Step struct {
	Type   string `json:"type"`
	Text   string `json:"text,omitempty"`
	ID     int64  `json:"id,omitempty"`
	From   int    `json:"from,omitempty"`
	To     int    `json:"to,omitempty"`
	Repeat int    `json:"repeat,omitempty"`
}

// ValidationError lists every schema violation found in a script.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid script: " + strings.Join(e.Problems, "; ")
}

// FormatFor picks the format from a file extension.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML
	}
	return JSON
}

// Load reads a script from path, or from stdin when path is "-".
func Load(path string, stdin io.Reader) (*Script, error) {
	var (
		b   []byte
		err error
	)
	if path == "-" {
		b, err = io.ReadAll(stdin)
	} else {
		b, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	format := FormatFor(path)
	if path == "-" && looksLikeYAML(b) {
		format = YAML
	}
	return Parse(b, format)
}

// Parse decodes and validates a script.
func Parse(b []byte, format Format) (*Script, error) {
	canonical, err := toJSON(b, format)
	if err != nil {
		return nil, err
	}
	if err := validate(canonical); err != nil {
		return nil, err
	}
	var s Script
	if err := json.Unmarshal(canonical, &s); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}
	return &s, nil
}

// Options returns reducer options for the script's own settings.
func (s *Script) Options() ([]store.Option, error) {
	var opts []store.Option
	if s.Variant != "" {
		v, err := store.ParseVariant(s.Variant)
		if err != nil {
			return nil, err
		}
		opts = append(opts, store.WithVariant(v))
	}
	if s.Limit > 0 {
		opts = append(opts, store.WithTimeLimit(s.Limit))
	}
	return opts, nil
}

// Replay folds the steps through r starting from st. A repeated step is
// applied Times() times in a loop. each, if set, sees every application.
// It returns the final state and the number of actions applied.
func (s *Script) Replay(r *store.Reducer, st store.State, each func(n int, a store.Action, next store.State)) (store.State, int) {
	n := 0
	for _, step := range s.Steps {
		a := step.Action()
		if a == nil {
			continue
		}
		for range step.Times() {
			st = r.Apply(st, a)
			n++
			if each != nil {
				each(n, a, st)
			}
		}
	}
	return st, n
}

// Times reports how many times the step applies: Repeat clamped to
// [1, MaxRepeat].
func (st Step) Times() int {
	return min(max(st.Repeat, 1), MaxRepeat)
}

// Action converts a step to its store action, or nil for an unknown type.
func (st Step) Action() store.Action {
	switch store.Kind(st.Type) {
	case store.KindSetDraft:
		return store.SetDraft{Text: st.Text}
	case store.KindAdd:
		return store.AddItem{}
	case store.KindDelete:
		return store.DeleteItem{ID: st.ID}
	case store.KindEdit:
		return store.EditItem{ID: st.ID, Text: st.Text}
	case store.KindMove:
		return store.MoveItem{From: st.From, To: st.To}
	case store.KindTick:
		return store.Tick{}
	}
	return nil
}

func looksLikeYAML(b []byte) bool {
	t := bytes.TrimSpace(b)
	return len(t) > 0 && t[0] != '{'
}

// toJSON normalizes either encoding to JSON bytes.
func toJSON(b []byte, format Format) ([]byte, error) {
	if format == JSON {
		if !json.Valid(b) {
			var v any
			err := json.Unmarshal(b, &v)
			return nil, fmt.Errorf("json unmarshal: %w", err)
		}
		return b, nil
	}
	var v any
	if err := yaml.Unmarshal(b, &v); err != nil {
		return nil, fmt.Errorf("yaml unmarshal: %w", err)
	}
	if v == nil {
		return nil, errors.New("yaml unmarshal: empty document")
	}
	out, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("yaml to json: %w", err)
	}
	return out, nil
}

var schema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	c := jsonschema.NewCompiler()
	if err := c.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	sch, err := c.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return sch, nil
})

func validate(canonical []byte) error {
	sch, err := schema()
	if err != nil {
		return err
	}
	dec := json.NewDecoder(bytes.NewReader(canonical))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("json decode: %w", err)
	}
	err = sch.Validate(doc)
	if err == nil {
		return nil
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err
	}
	verr := &ValidationError{}
	collect(verr, ve)
	return verr
}

func collect(dst *ValidationError, ve *jsonschema.ValidationError) {
	if len(ve.Causes) == 0 {
		loc := ve.InstanceLocation
		if loc == "" {
			loc = "/"
		}
		dst.Problems = append(dst.Problems, fmt.Sprintf("%s: %s", loc, ve.Message))
		return
	}
	for _, c := range ve.Causes {
		collect(dst, c)
	}
}
