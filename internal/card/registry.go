package card

import (
	"fmt"
	"sort"
	"strings"
)

// DefaultTolerance is the relative tolerance under which two real field
// values compare equal. It is non-zero because the same physical value
// rounds differently under 8- and 16-character encoding: an 8-character
// field holds roughly six significant digits, so anything tighter than
// 1e-6 reports format-forced precision loss as a model change.
const DefaultTolerance = 1e-6

// Spec describes how one entry type is keyed and checked.
type Spec struct {
	// Name is the canonical spelling of the entry type.
	Name string
	// IDFields lists the field positions forming the identifier tuple.
	// Most types key on field 0 alone; some need extra fields to be
	// unique (SPC keys on set ID and grid, DMIG on name and indices).
	IDFields []int
	// NoID marks types that carry no stable identifier; their cards are
	// matched as a multiset per type.
	NoID bool
	// Arity is the expected field count when known, 0 when not.
	Arity int
}

// Registry is the immutable lookup data injected into the card parser
// and the canonicalizer: per-type key positions, entry-type synonym
// groups, and the numeric tolerance. Built once per run, read-only
// afterwards, safe to share between concurrently assembled decks.
type Registry struct {
	tolerance float64
	specs     map[string]Spec
	synonyms  map[string]string // alias -> canonical
}

// NewRegistry returns an empty registry with the default tolerance.
func NewRegistry() *Registry {
	return &Registry{
		tolerance: DefaultTolerance,
		specs:     make(map[string]Spec),
		synonyms:  make(map[string]string),
	}
}

// DefaultRegistry carries the built-in knowledge: identifier tuples for
// the entry types whose first field alone is not unique. The synonym
// table ships empty: alias groups are solver-specific domain data and
// belong in a registry file, not in code.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, spec := range []Spec{
		{Name: "GRID", Arity: 8},
		{Name: "PLOAD4", IDFields: []int{0, 1}},
		{Name: "FORCE", IDFields: []int{0, 1}},
		{Name: "SPC", IDFields: []int{0, 1}},
		{Name: "SPC1", IDFields: []int{0, 2}},
		{Name: "TEMP", IDFields: []int{0, 1}},
		{Name: "MPC", IDFields: []int{0, 1}},
		{Name: "DMIG", IDFields: []int{0, 1, 2}},
	} {
		r.Register(spec)
	}
	return r
}

// Tolerance returns the relative tolerance for real-field equality.
func (r *Registry) Tolerance() float64 {
	return r.tolerance
}

// SetTolerance overrides the tolerance; zero or negative values are
// rejected so identical values re-encoded at different widths never
// show up as modifications.
func (r *Registry) SetTolerance(tol float64) error {
	if tol <= 0 {
		return fmt.Errorf("tolerance must be positive, got %g", tol)
	}
	r.tolerance = tol
	return nil
}

// Register adds or replaces the spec for one entry type. Defaults are
// normalized: a nil IDFields means field 0.
func (r *Registry) Register(spec Spec) {
	spec.Name = strings.ToUpper(strings.TrimSpace(spec.Name))
	if !spec.NoID && len(spec.IDFields) == 0 {
		spec.IDFields = []int{0}
	}
	r.specs[spec.Name] = spec
}

// AddSynonyms declares that every name in aliases is an alternate
// spelling of canonical. The canonical member must be registered first;
// re-aliasing an existing canonical name is rejected.
func (r *Registry) AddSynonyms(canonical string, aliases ...string) error {
	canonical = strings.ToUpper(strings.TrimSpace(canonical))
	for _, alias := range aliases {
		alias = strings.ToUpper(strings.TrimSpace(alias))
		if alias == canonical {
			continue
		}
		if _, exists := r.specs[alias]; exists {
			return fmt.Errorf("cannot alias %s to %s: %s is a registered type of its own", alias, canonical, alias)
		}
		r.synonyms[alias] = canonical
	}
	return nil
}

// Canonical resolves case and synonyms to one spelling.
func (r *Registry) Canonical(name string) string {
	name = strings.ToUpper(strings.TrimSpace(name))
	if canonical, ok := r.synonyms[name]; ok {
		return canonical
	}
	return name
}

// Lookup returns the spec for a (possibly aliased, any-case) type name.
func (r *Registry) Lookup(name string) (Spec, bool) {
	spec, ok := r.specs[r.Canonical(name)]
	return spec, ok
}

// Types returns the registered canonical type names, sorted.
func (r *Registry) Types() []string {
	out := make([]string, 0, len(r.specs))
	for name := range r.specs {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
