package family

import (
	"errors"
	"fmt"
)

// Household kinds as stored in tabular exports.
const (
	KindNone     = ""
	KindSpouse   = "spouse"
	KindWives    = "wives"
	KindChildren = "children"
)

// ErrBadRows is returned by FromRows when rows do not describe a record.
var ErrBadRows = errors.New("rows do not form a family record")

// Row is one person in tabular form. Rows in Position order rebuild the
// record exactly.
type Row struct {
	Position int
	Name     string
	Relation Relation
	Parent   string
	// Branch is 0 for the grandfather's family and i+1 for sibling i.
	Branch int
	// Household is set on sibling rows only.
	Household string
}

// HouseholdKind names the variant of h.
func HouseholdKind(h Household) string {
	switch h.(type) {
	case Spouse:
		return KindSpouse
	case Wives:
		return KindWives
	case Children:
		return KindChildren
	default:
		return KindNone
	}
}

// Rows flattens r into rows in traversal order.
func Rows(r *Record) []Row {
	if r == nil {
		return nil
	}
	var rows []Row
	add := func(e Entry, branch int, kind string) {
		rows = append(rows, Row{
			Position:  len(rows),
			Name:      e.Name,
			Relation:  e.Relation,
			Parent:    e.Parent,
			Branch:    branch,
			Household: kind,
		})
	}

	gf := r.Grandfather
	add(Entry{Name: gf.Name, Relation: RelationGrandfather}, 0, KindNone)
	walkWives(gf.Name, gf.Wives, func(e Entry) { add(e, 0, KindNone) })

	for i, s := range r.Siblings {
		branch := i + 1
		add(Entry{Name: s.Name, Relation: RelationSibling}, branch, HouseholdKind(s.Household))
		walkHousehold(s, func(e Entry) { add(e, branch, KindNone) })
	}
	return rows
}

// FromRows rebuilds a record from rows sorted by Position.
func FromRows(rows []Row) (*Record, error) {
	if len(rows) == 0 || rows[0].Relation != RelationGrandfather {
		return nil, ErrNoGrandfather
	}
	r := &Record{Grandfather: Grandfather{Name: rows[0].Name}}

	var (
		sib  *Sibling
		kind string
	)
	for _, row := range rows[1:] {
		switch row.Relation {
		case RelationSibling:
			if sib != nil {
				r.Siblings = append(r.Siblings, *sib)
			}
			sib = &Sibling{Name: row.Name}
			kind = row.Household
			switch kind {
			case KindWives:
				sib.Household = Wives{}
			case KindChildren:
				sib.Household = Children{}
			case KindSpouse, KindNone:
			default:
				return nil, fmt.Errorf("%w: unknown household %q at %d", ErrBadRows, kind, row.Position)
			}
		case RelationWife:
			if err := addWife(r, sib, kind, row); err != nil {
				return nil, err
			}
		case RelationChild:
			if err := addChild(r, sib, kind, row); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("%w: relation %q at %d", ErrBadRows, row.Relation, row.Position)
		}
	}
	if sib != nil {
		r.Siblings = append(r.Siblings, *sib)
	}
	if len(r.Grandfather.Wives) == 0 {
		return nil, ErrNoWives
	}
	return r, nil
}

func addWife(r *Record, sib *Sibling, kind string, row Row) error {
	if sib == nil {
		r.Grandfather.Wives = append(r.Grandfather.Wives, Wife{Name: row.Name})
		return nil
	}
	switch kind {
	case KindSpouse:
		if _, set := sib.Household.(Spouse); set {
			return fmt.Errorf("%w: second spouse for %s", ErrBadRows, sib.Name)
		}
		sib.Household = Spouse{Name: row.Name}
	case KindWives:
		sib.Household = append(sib.Household.(Wives), Wife{Name: row.Name})
	default:
		return fmt.Errorf("%w: wife under %s household of %s", ErrBadRows, kind, sib.Name)
	}
	return nil
}

func addChild(r *Record, sib *Sibling, kind string, row Row) error {
	if sib == nil {
		wives := r.Grandfather.Wives
		if len(wives) == 0 {
			return fmt.Errorf("%w: child %s before any wife", ErrBadRows, row.Name)
		}
		last := &wives[len(wives)-1]
		last.Children = append(last.Children, row.Name)
		return nil
	}
	switch h := sib.Household.(type) {
	case Spouse:
		h.Children = append(h.Children, row.Name)
		sib.Household = h
	case Wives:
		if len(h) == 0 {
			return fmt.Errorf("%w: child %s before any wife of %s", ErrBadRows, row.Name, sib.Name)
		}
		h[len(h)-1].Children = append(h[len(h)-1].Children, row.Name)
	case Children:
		sib.Household = append(h, row.Name)
	default:
		return fmt.Errorf("%w: child %s under %q household of %s", ErrBadRows, row.Name, kind, sib.Name)
	}
	return nil
}
