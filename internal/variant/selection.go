package variant

import (
	"github.com/dukerupert/vitrine/internal/domain"
)

// Resolution is the outcome of resolving a selection.
// Variant is nil when the selection matches nothing.
type Resolution struct {
	Selection Selection
	Variant   *domain.Variant
}

// Found reports whether the selection resolved to a variant.
func (r Resolution) Found() bool {
	return r.Variant != nil
}

// Observer is notified after every resolve.
type Observer interface {
	OnResolve(Resolution)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Resolution)

// OnResolve calls f(r).
func (f ObserverFunc) OnResolve(r Resolution) { f(r) }

// Control is one choosable option dimension.
type Control struct {
	Name   string         `json:"name"`
	Values []ControlValue `json:"values"`
}

// ControlValue is one radio choice within a Control.
type ControlValue struct {
	Value   string `json:"value"`
	Checked bool   `json:"checked"`
}

// Selector holds the shopper's current choice for every option and
// re-resolves the active variant after each change.
//
// A Selector belongs to a single page view and is not safe for concurrent use.
type Selector struct {
	idx       *Index
	state     Selection
	active    Resolution
	observers []Observer
}

// NewSelector seeds the selection from the first variant, or from the first
// value of each option when there are no variants, then resolves and
// publishes the initial state.
func NewSelector(idx *Index, observers ...Observer) *Selector {
	s := &Selector{
		idx:       idx,
		state:     make(Selection, len(idx.options)),
		observers: observers,
	}

	if len(idx.variants) > 0 {
		first := idx.variants[0]
		for _, o := range idx.options {
			s.state[o.Name] = first.SelectedOptions[o.Name]
		}
	} else {
		for _, o := range idx.options {
			s.state[o.Name] = o.Values[0]
		}
	}

	s.resolve()
	return s
}

// Subscribe adds an observer for subsequent transitions.
func (s *Selector) Subscribe(o Observer) {
	s.observers = append(s.observers, o)
}

// SetOption selects value for the option called name. The option must be
// declared and the value permitted; otherwise the state is left untouched.
func (s *Selector) SetOption(name, value string) error {
	const op = "variant.select"

	o, ok := s.idx.Option(name)
	if !ok {
		return domain.Errorf(domain.EINVALID, op, "Unknown option %q", name)
	}
	if !o.HasValue(value) {
		return domain.Errorf(domain.EINVALID, op, "%q is not a valid %s", value, name)
	}

	s.state[name] = value
	s.resolve()
	return nil
}

// SetOptions applies each choice as its own transition, in declared option
// order. It stops at the first rejected choice.
func (s *Selector) SetOptions(choices map[string]string) error {
	for name := range choices {
		if _, ok := s.idx.Option(name); !ok {
			return domain.Errorf(domain.EINVALID, "variant.select", "Unknown option %q", name)
		}
	}
	for _, o := range s.idx.options {
		value, ok := choices[o.Name]
		if !ok {
			continue
		}
		if err := s.SetOption(o.Name, value); err != nil {
			return err
		}
	}
	return nil
}

// Selection returns a copy of the current choices.
func (s *Selector) Selection() Selection {
	return s.state.Clone()
}

// Active returns the most recent resolution.
func (s *Selector) Active() Resolution {
	return s.active
}

// Controls returns one control per option that has more than one value.
// Single-valued options still take part in resolution but offer no choice.
func (s *Selector) Controls() []Control {
	var controls []Control
	for _, o := range s.idx.options {
		if len(o.Values) == 1 {
			continue
		}
		c := Control{Name: o.Name, Values: make([]ControlValue, len(o.Values))}
		for i, v := range o.Values {
			c.Values[i] = ControlValue{Value: v, Checked: s.state[o.Name] == v}
		}
		controls = append(controls, c)
	}
	return controls
}

func (s *Selector) resolve() {
	res := Resolution{Selection: s.state.Clone()}
	if v, err := s.idx.Resolve(s.state); err == nil {
		res.Variant = &v
	}
	s.active = res

	for _, o := range s.observers {
		o.OnResolve(res)
	}
}
