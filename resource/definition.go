// Package resource maps declaratively described database tables to plain
// records and exposes find, create, modify and delete operations on them.
//
// A resource is described by a Definition: its attributes (plain columns or
// computed expressions), the primary key, which attributes may be written,
// references to other resources that can be eager loaded, a default order
// and optional row filters. Definitions are checked once by New or
// Registry.Register; operations run through a Handle obtained from Bind.
package resource

import (
	"fmt"
	"strings"

	"github.com/stuck-lehnert/cloud/query/builder"
	"github.com/stuck-lehnert/cloud/query/sqlgen"
	"github.com/stuck-lehnert/cloud/validator"
)

// Record is a single resource instance keyed by attribute name. Included
// references are stored under the reference name.
type Record = map[string]any

// Expr renders a computed SQL expression. ref is the quoted reference of
// the table the expression is evaluated against, for example `"main"`;
// scope is the value passed to Bind.
type Expr func(ref string, scope any) sqlgen.Fragment

// Attribute is either a Static column or a Dynamic expression.
type Attribute interface {
	valueType() validator.Validator
	isAttribute()
}

// Static is an attribute backed by a table column. Column defaults to the
// attribute name.
type Static struct {
	Type   validator.Validator
	Column string
}

// Dynamic is an attribute computed by an SQL expression. Dynamic attributes
// are read-only and cannot be filtered on.
type Dynamic struct {
	Type validator.Validator
	Expr Expr
}

func (s Static) valueType() validator.Validator  { return s.Type }
func (d Dynamic) valueType() validator.Validator { return d.Type }

func (Static) isAttribute()  {}
func (Dynamic) isAttribute() {}

// Cardinality is the number of records a reference resolves to.
type Cardinality int

const (
	// OptionalSingle resolves to one record or nil.
	OptionalSingle Cardinality = iota
	// RequiredSingle resolves to exactly one record.
	RequiredSingle
	// Many resolves to a list of records, possibly empty.
	Many
)

func (c Cardinality) String() string {
	switch c {
	case OptionalSingle:
		return "optional-single"
	case RequiredSingle:
		return "required-single"
	case Many:
		return "many"
	default:
		return fmt.Sprintf("cardinality(%d)", int(c))
	}
}

// Reference links a resource to another one by name. It is joined either
// directly through Join or across JunctionTable through Junction, which
// returns the conditions joining the junction and then the target.
type Reference struct {
	Resource    string
	Cardinality Cardinality

	Join func(lhs, rhs string) sqlgen.Fragment

	JunctionTable string
	Junction      func(lhs, junc, rhs string) [2]sqlgen.Fragment
}

// Order is one term of the default order: either an attribute or an
// expression.
type Order struct {
	Attribute string
	Expr      Expr
	Direction builder.Direction
}

// Definition describes a resource.
type Definition struct {
	Name       string
	Table      string
	Attributes map[string]Attribute
	PrimaryKey []string
	CreateOnly []string
	Modifiable []string
	References map[string]Reference
	OrderBy    []Order

	// BaseFilter restricts every find. UpdateFilter and DeleteFilter
	// restrict Modify and Delete.
	BaseFilter   Expr
	UpdateFilter Expr
	DeleteFilter Expr
}

func invalidDefinition(name, format string, args ...any) error {
	return fmt.Errorf("resource %q: %w: %s", name, ErrInvalidDefinition, fmt.Sprintf(format, args...))
}

// check validates def and fills in defaulted columns.
func (def *Definition) check() error {
	if def.Name == "" {
		return fmt.Errorf("%w: name must not be empty", ErrInvalidDefinition)
	}
	if def.Table == "" {
		return invalidDefinition(def.Name, "table must not be empty")
	}
	if err := sqlgen.CheckIdentifiers(def.Name, def.Table); err != nil {
		return err
	}
	if len(def.Attributes) == 0 {
		return invalidDefinition(def.Name, "at least one attribute is required")
	}
	if len(def.PrimaryKey) == 0 {
		return invalidDefinition(def.Name, "at least one primary key attribute is required")
	}

	attrs := make(map[string]Attribute, len(def.Attributes))
	for name, attr := range def.Attributes {
		if err := sqlgen.CheckIdentifier(name); err != nil {
			return err
		}
		if strings.HasPrefix(name, "__") {
			return invalidDefinition(def.Name, "attribute %q must not start with __", name)
		}

		switch a := attr.(type) {
		case Static:
			if a.Type == nil {
				return invalidDefinition(def.Name, "attribute %q has no type", name)
			}
			if a.Column == "" {
				a.Column = name
			}
			if err := sqlgen.CheckIdentifier(a.Column); err != nil {
				return err
			}
			attrs[name] = a
		case Dynamic:
			if a.Type == nil {
				return invalidDefinition(def.Name, "attribute %q has no type", name)
			}
			if a.Expr == nil {
				return invalidDefinition(def.Name, "dynamic attribute %q has no expression", name)
			}
			attrs[name] = a
		default:
			return invalidDefinition(def.Name, "attribute %q has unsupported kind %T", name, attr)
		}
	}
	def.Attributes = attrs

	staticSet := func(set string, names []string) error {
		seen := make(map[string]bool, len(names))
		for _, name := range names {
			if seen[name] {
				return invalidDefinition(def.Name, "%s lists %q twice", set, name)
			}
			seen[name] = true
			if _, ok := attrs[name].(Static); !ok {
				return invalidDefinition(def.Name, "%s references %q, which is not a static attribute", set, name)
			}
		}
		return nil
	}
	if err := staticSet("primary key", def.PrimaryKey); err != nil {
		return err
	}
	if err := staticSet("create-only set", def.CreateOnly); err != nil {
		return err
	}
	if err := staticSet("modifiable set", def.Modifiable); err != nil {
		return err
	}
	for _, name := range def.CreateOnly {
		for _, m := range def.Modifiable {
			if name == m {
				return invalidDefinition(def.Name, "attribute %q is both create-only and modifiable", name)
			}
		}
	}

	for name, ref := range def.References {
		if err := sqlgen.CheckIdentifier(name); err != nil {
			return err
		}
		if _, clash := attrs[name]; clash {
			return invalidDefinition(def.Name, "reference %q shadows an attribute", name)
		}
		if ref.Resource == "" {
			return invalidDefinition(def.Name, "reference %q names no resource", name)
		}
		if ref.Cardinality < OptionalSingle || ref.Cardinality > Many {
			return invalidDefinition(def.Name, "reference %q has unknown %v", name, ref.Cardinality)
		}

		junction := ref.JunctionTable != "" || ref.Junction != nil
		switch {
		case ref.Join == nil && !junction:
			return invalidDefinition(def.Name, "reference %q defines neither a join nor a junction", name)
		case ref.Join != nil && junction:
			return invalidDefinition(def.Name, "reference %q defines both a join and a junction", name)
		case junction && (ref.JunctionTable == "" || ref.Junction == nil):
			return invalidDefinition(def.Name, "reference %q needs both a junction table and junction conditions", name)
		}
		if junction {
			if err := sqlgen.CheckIdentifier(ref.JunctionTable); err != nil {
				return err
			}
		}
	}

	for i, o := range def.OrderBy {
		switch {
		case o.Attribute != "" && o.Expr != nil:
			return invalidDefinition(def.Name, "order term %d names an attribute and an expression", i)
		case o.Expr != nil:
		case o.Attribute == "":
			return invalidDefinition(def.Name, "order term %d is empty", i)
		default:
			if _, ok := attrs[o.Attribute]; !ok {
				return invalidDefinition(def.Name, "order term %d references unknown attribute %q", i, o.Attribute)
			}
		}
		if o.Direction != "" && o.Direction != builder.Asc && o.Direction != builder.Desc {
			return invalidDefinition(def.Name, "order term %d has direction %q", i, o.Direction)
		}
	}

	return nil
}
