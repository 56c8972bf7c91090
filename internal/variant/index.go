// Package variant resolves which product variant a set of option choices
// refers to and tracks the shopper's current choices.
package variant

import (
	"fmt"
	"strings"

	"github.com/dukerupert/vitrine/internal/domain"
)

// ErrNotFound is returned by Resolve when no enumerated variant carries the
// selected combination. It is an expected outcome of user recombination.
var ErrNotFound = &domain.Error{
	Code:    domain.ENOTFOUND,
	Op:      "variant.resolve",
	Message: "No variant matches the selected options",
}

// Selection maps option name to the chosen value.
type Selection map[string]string

// Clone returns an independent copy of s.
func (s Selection) Clone() Selection {
	out := make(Selection, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Index looks up variants by their full option-value combination.
// It is immutable after construction and safe to share between selectors.
type Index struct {
	options  []domain.Option
	variants []domain.Variant
	byKey    map[string]int
}

// NewIndex validates the product's options and variants and builds the lookup.
// Malformed upstream data is rejected with an EINTEGRITY error rather than
// indexed partially, since a partial key would break variant uniqueness.
func NewIndex(options []domain.Option, variants []domain.Variant) (*Index, error) {
	const op = "variant.index"

	declared := make(map[string]domain.Option, len(options))
	for _, o := range options {
		if o.Name == "" {
			return nil, domain.Integrity(op, "option with empty name")
		}
		if len(o.Values) == 0 {
			return nil, domain.Integrity(op, fmt.Sprintf("option %q has no values", o.Name))
		}
		if _, dup := declared[o.Name]; dup {
			return nil, domain.Integrity(op, fmt.Sprintf("option %q declared twice", o.Name))
		}
		declared[o.Name] = o
	}

	idx := &Index{
		options:  cloneOptions(options),
		variants: make([]domain.Variant, len(variants)),
		byKey:    make(map[string]int, len(variants)),
	}
	copy(idx.variants, variants)

	for i, v := range variants {
		for name, value := range v.SelectedOptions {
			o, ok := declared[name]
			if !ok {
				return nil, domain.Integrity(op, fmt.Sprintf("variant %s has undeclared option %q", v.ID, name))
			}
			if !o.HasValue(value) {
				return nil, domain.Integrity(op, fmt.Sprintf("variant %s has value %q not permitted for option %q", v.ID, value, name))
			}
		}
		for _, o := range options {
			if _, ok := v.SelectedOptions[o.Name]; !ok {
				return nil, domain.Integrity(op, fmt.Sprintf("variant %s is missing a value for option %q", v.ID, o.Name))
			}
		}

		key := idx.key(Selection(v.SelectedOptions))
		if prev, dup := idx.byKey[key]; dup {
			return nil, domain.Integrity(op, fmt.Sprintf("variants %s and %s share the same options", variants[prev].ID, v.ID))
		}
		idx.byKey[key] = i
	}

	return idx, nil
}

// Options returns the declared options in order.
func (idx *Index) Options() []domain.Option {
	return cloneOptions(idx.options)
}

// Variants returns the indexed variants in upstream order.
func (idx *Index) Variants() []domain.Variant {
	out := make([]domain.Variant, len(idx.variants))
	copy(out, idx.variants)
	return out
}

// Option returns the declared option called name.
func (idx *Index) Option(name string) (domain.Option, bool) {
	for _, o := range idx.options {
		if o.Name == name {
			return o, true
		}
	}
	return domain.Option{}, false
}

// Resolve returns the variant whose recorded value equals the selection's
// value for every declared option, or ErrNotFound.
func (idx *Index) Resolve(sel Selection) (domain.Variant, error) {
	for _, o := range idx.options {
		if _, ok := sel[o.Name]; !ok {
			return domain.Variant{}, ErrNotFound
		}
	}

	i, ok := idx.byKey[idx.key(sel)]
	if !ok {
		return domain.Variant{}, ErrNotFound
	}
	return idx.variants[i], nil
}

// key concatenates name and value for each option in declared order.
// Unit and record separators keep "a"+"bc" distinct from "ab"+"c".
func (idx *Index) key(sel Selection) string {
	var b strings.Builder
	for _, o := range idx.options {
		b.WriteString(o.Name)
		b.WriteByte(0x1f)
		b.WriteString(sel[o.Name])
		b.WriteByte(0x1e)
	}
	return b.String()
}

func cloneOptions(options []domain.Option) []domain.Option {
	out := make([]domain.Option, len(options))
	for i, o := range options {
		out[i] = domain.Option{Name: o.Name, Values: append([]string(nil), o.Values...)}
	}
	return out
}
