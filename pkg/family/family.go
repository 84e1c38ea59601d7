// Package family holds the genealogical record shown by kv: a grandfather with
// his wives and children, and his siblings with their own households.
//
// A Record is built once (from the embedded YAML or an external file) and is
// never mutated afterwards. Every traversal in this package walks the record in
// the same fixed order, so Flatten, Walk and the exporters always agree on
// where a name sits.
package family

// Relation is the label shown next to a person's name on a card.
type Relation string

const (
	RelationGrandfather Relation = "Grandfather"
	RelationWife        Relation = "Wife"
	RelationChild       Relation = "Child"
	RelationSibling     Relation = "Grandfather's Sibling"
)

// Wife is a spouse entry: a name plus her children in order.
type Wife struct {
	Name     string
	Children []string
}

// Grandfather is the root person of the record.
type Grandfather struct {
	Name  string
	Wives []Wife
}

// Household is the family attached to one of the grandfather's siblings.
// It is one of Spouse, Wives or Children; a sibling with no recorded
// family has a nil Household.
type Household interface {
	household()
}

// Spouse is a single wife, optionally with children listed directly under
// the sibling.
type Spouse struct {
	Name     string
	Children []string
}

// Wives is a list of wives, each with her own children.
type Wives []Wife

// Children is a list of children recorded without a spouse.
type Children []string

func (Spouse) household()   {}
func (Wives) household()    {}
func (Children) household() {}

// Sibling is one of the grandfather's siblings.
type Sibling struct {
	Name      string
	Household Household
}

// Record is the full family: the grandfather and his siblings in order.
type Record struct {
	Grandfather Grandfather
	Siblings    []Sibling
}

// Entry is one person visited by Walk.
type Entry struct {
	Name     string
	Relation Relation
	// Parent is the card this person is listed under: the husband for a wife,
	// the mother for a child of a wife, the sibling for a sibling's spouse or
	// direct children. Empty for the grandfather and his siblings.
	Parent string
}

// Walk visits every person in the record in flatten order: the grandfather,
// each of his wives followed by her children, then each sibling followed by
// the sibling's household.
func Walk(r *Record, fn func(Entry)) {
	if r == nil {
		return
	}
	gf := r.Grandfather
	fn(Entry{Name: gf.Name, Relation: RelationGrandfather})
	walkWives(gf.Name, gf.Wives, fn)

	for _, s := range r.Siblings {
		fn(Entry{Name: s.Name, Relation: RelationSibling})
		walkHousehold(s, fn)
	}
}

func walkHousehold(s Sibling, fn func(Entry)) {
	switch h := s.Household.(type) {
	case Spouse:
		fn(Entry{Name: h.Name, Relation: RelationWife, Parent: s.Name})
		for _, c := range h.Children {
			fn(Entry{Name: c, Relation: RelationChild, Parent: s.Name})
		}
	case Wives:
		walkWives(s.Name, h, fn)
	case Children:
		for _, c := range h {
			fn(Entry{Name: c, Relation: RelationChild, Parent: s.Name})
		}
	}
}

func walkWives(husband string, wives []Wife, fn func(Entry)) {
	for _, w := range wives {
		fn(Entry{Name: w.Name, Relation: RelationWife, Parent: husband})
		for _, c := range w.Children {
			fn(Entry{Name: c, Relation: RelationChild, Parent: w.Name})
		}
	}
}

// Flatten returns every name in the record in traversal order. Duplicates are
// kept and nothing is sorted.
func Flatten(r *Record) []string {
	var names []string
	Walk(r, func(e Entry) {
		names = append(names, e.Name)
	})
	return names
}

// Entries returns every person in traversal order with their relation.
func Entries(r *Record) []Entry {
	var out []Entry
	Walk(r, func(e Entry) {
		out = append(out, e)
	})
	return out
}

// Names is a shorthand for Flatten(r).
func (r *Record) Names() []string {
	return Flatten(r)
}

// ChildCount returns the total number of children across all wives.
func (w Wives) ChildCount() int {
	n := 0
	for _, wife := range w {
		n += len(wife.Children)
	}
	return n
}

// WivesOf returns the sibling's wife list, or nil when the household is not
// a Wives value.
func (s Sibling) WivesOf() Wives {
	if w, ok := s.Household.(Wives); ok {
		return w
	}
	return nil
}
