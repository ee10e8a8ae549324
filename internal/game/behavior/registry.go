package behavior

import (
	"errors"
	"fmt"

	"github.com/cory-johannsen/inferno/internal/game/unit"
)

// ErrUnknownBehavior is returned for a template naming an unregistered behavior.
var ErrUnknownBehavior = errors.New("unknown behavior")

// Constructor builds a behavior instance for one mob of template t.
type Constructor func(t *unit.Template) (unit.Behavior, error)

// Registry indexes behavior constructors by name.
//
// Invariant: each name is registered at most once.
type Registry struct {
	ctors map[string]Constructor
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{ctors: make(map[string]Constructor)}
}

// Register stores ctor under name.
//
// Postcondition: returns error on name collision.
func (r *Registry) Register(name string, ctor Constructor) error {
	if _, exists := r.ctors[name]; exists {
		return fmt.Errorf("behavior.Registry: %q already registered", name)
	}
	r.ctors[name] = ctor
	return nil
}

// Build resolves t's behavior. A template with no behavior but with a script
// is treated as "scripted"; one with neither gets nil.
func (r *Registry) Build(t *unit.Template) (unit.Behavior, error) {
	name := t.Behavior
	if name == "" && t.Script != "" {
		name = NameScripted
	}
	if name == "" {
		return nil, nil
	}
	ctor, ok := r.ctors[name]
	if !ok {
		return nil, fmt.Errorf("template %q: %w: %q", t.ID, ErrUnknownBehavior, name)
	}
	return ctor(t)
}

// Names of the built-in behaviors.
const (
	NameDig      = "dig"
	NameScripted = "scripted"
)

// Defaults returns a Registry with the built-in behaviors. Inline template
// scripts are loaded into host's manager under the template ID with instLimit
// as their per-call instruction budget; templates without one fall back to the
// manager's global scripts.
func Defaults(host *Host, loader ScriptLoader, instLimit int) *Registry {
	r := NewRegistry()
	_ = r.Register(NameDig, func(*unit.Template) (unit.Behavior, error) {
		return Dig{}, nil
	})
	_ = r.Register(NameScripted, func(t *unit.Template) (unit.Behavior, error) {
		if t.Script != "" {
			if err := loader.LoadScript(t.ID, t.Script, instLimit); err != nil {
				return nil, fmt.Errorf("template %q: %w", t.ID, err)
			}
		}
		return NewScripted(host, t.ID), nil
	})
	return r
}

// ScriptLoader compiles inline script source into a VM keyed by id.
type ScriptLoader interface {
	LoadScript(id, src string, instLimit int) error
}
