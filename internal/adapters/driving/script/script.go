// Package script applies YAML op scripts to a layout builder.
//
// A script names the restaurant and lists operations:
//
//	restaurant: spice-route
//	ops:
//	  - op: add
//	    kind: hero
//	  - op: edit
//	    id: $1
//	    config:
//	      title: "Welcome"
//	  - op: move
//	    id: $1
//	    target: section_header-1
//
// "$N" stands for the id of the Nth component added by the script.
package script

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/tablesite/internal/core/domain"
	"github.com/custodia-labs/tablesite/internal/core/ports/driving"
)

// Op names.
const (
	OpAdd    = "add"
	OpMove   = "move"
	OpDelete = "delete"
	OpEdit   = "edit"
	OpShow   = "show"
	OpHide   = "hide"
	OpUndo   = "undo"
	OpRedo   = "redo"
)

// Script is a parsed op script.
type Script struct {
	Restaurant string `yaml:"restaurant"`
	Ops        []Op   `yaml:"ops"`
}

// Op is one builder operation.
type Op struct {
	Op     string         `yaml:"op"`
	Kind   string         `yaml:"kind,omitempty"`
	ID     string         `yaml:"id,omitempty"`
	Target string         `yaml:"target,omitempty"`
	Config map[string]any `yaml:"config,omitempty"`
}

// Step records what one op did.
type Step struct {
	Index  int
	Op     string
	Detail string
}

// Result summarises an applied script.
type Result struct {
	Steps []Step
	// Added holds the ids of added components, in order; Added[0] is "$1".
	Added []string
}

// ParseFile reads and parses a script file.
func ParseFile(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading script: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a script. Unknown fields are rejected.
func Parse(data []byte) (*Script, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var s Script
	if err := dec.Decode(&s); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: script is empty", domain.ErrInvalidInput)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	for i, op := range s.Ops {
		if err := op.validate(); err != nil {
			return nil, fmt.Errorf("%w: op %d: %v", domain.ErrInvalidInput, i+1, err)
		}
	}
	return &s, nil
}

func (o Op) validate() error {
	switch o.Op {
	case OpAdd:
		if _, err := domain.ParseKind(o.Kind); err != nil {
			return err
		}
	case OpMove:
		if o.ID == "" || o.Target == "" {
			return errors.New("move needs id and target")
		}
	case OpDelete, OpShow, OpHide:
		if o.ID == "" {
			return fmt.Errorf("%s needs id", o.Op)
		}
	case OpEdit:
		if o.ID == "" {
			return errors.New("edit needs id")
		}
		if len(o.Config) == 0 {
			return errors.New("edit needs config")
		}
	case OpUndo, OpRedo:
	case "":
		return errors.New("missing op")
	default:
		return fmt.Errorf("unknown op %q", o.Op)
	}
	return nil
}

// Apply runs every op against b in order and stops at the first failure.
// The returned result covers the ops that ran.
func Apply(b driving.BuilderService, s *Script) (*Result, error) {
	res := &Result{}
	for i, op := range s.Ops {
		detail, err := res.apply(b, op)
		if err != nil {
			return res, fmt.Errorf("op %d (%s): %w", i+1, op.Op, err)
		}
		res.Steps = append(res.Steps, Step{Index: i + 1, Op: op.Op, Detail: detail})
	}
	return res, nil
}

func (r *Result) apply(b driving.BuilderService, op Op) (string, error) {
	switch op.Op {
	case OpAdd:
		kind, err := domain.ParseKind(op.Kind)
		if err != nil {
			return "", err
		}
		c, err := b.AddComponent(kind)
		if err != nil {
			return "", err
		}
		r.Added = append(r.Added, c.ID)
		return fmt.Sprintf("added %s as %s ($%d)", kind, c.ID, len(r.Added)), nil

	case OpMove:
		id, err := r.resolve(op.ID)
		if err != nil {
			return "", err
		}
		target, err := r.resolve(op.Target)
		if err != nil {
			return "", err
		}
		if err := b.MoveComponent(id, target); err != nil {
			return "", err
		}
		return fmt.Sprintf("moved %s to %s", id, target), nil

	case OpDelete:
		id, err := r.resolve(op.ID)
		if err != nil {
			return "", err
		}
		if err := b.DeleteComponent(id); err != nil {
			return "", err
		}
		return "deleted " + id, nil

	case OpEdit:
		id, err := r.resolve(op.ID)
		if err != nil {
			return "", err
		}
		res, err := b.EditComponent(id, domain.Patch{Config: op.Config})
		if err != nil {
			return "", err
		}
		if !res.Changed {
			return "edited " + id + " (no change)", nil
		}
		return "edited " + id, nil

	case OpShow, OpHide:
		id, err := r.resolve(op.ID)
		if err != nil {
			return "", err
		}
		if err := b.SetVisibility(id, op.Op == OpShow); err != nil {
			return "", err
		}
		return op.Op + " " + id, nil

	case OpUndo:
		if !b.Undo() {
			return "nothing to undo", nil
		}
		return "undone", nil

	case OpRedo:
		if !b.Redo() {
			return "nothing to redo", nil
		}
		return "redone", nil
	}
	return "", fmt.Errorf("%w: unknown op %q", domain.ErrInvalidInput, op.Op)
}

// resolve expands "$N" to the id of the Nth added component.
func (r *Result) resolve(ref string) (string, error) {
	if !strings.HasPrefix(ref, "$") {
		return ref, nil
	}
	n, err := strconv.Atoi(ref[1:])
	if err != nil || n < 1 || n > len(r.Added) {
		return "", fmt.Errorf("%w: %s does not name an added component", domain.ErrInvalidInput, ref)
	}
	return r.Added[n-1], nil
}
