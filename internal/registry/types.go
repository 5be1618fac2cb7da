// Package registry holds the commands, namespaces and enums the console can
// call, and answers completion queries over them.
package registry

import (
	"context"
	"errors"
	"fmt"
	"strconv"
)

// ItemType classifies a completion item.
type ItemType string

const (
	TypeFunction  ItemType = "function"
	TypeClass     ItemType = "class"
	TypeProperty  ItemType = "property"
	TypeNamespace ItemType = "namespace"
	TypeEnum      ItemType = "enum"
)

// Completion is one candidate offered to the autocomplete list.
type Completion struct {
	Name        string
	Description string
	Type        ItemType
	// MatchedIndexes are offsets into Name that matched the query.
	MatchedIndexes []int
}

// ParamType is the declared type of a function parameter.
type ParamType string

const (
	ParamString  ParamType = "string"
	ParamNumber  ParamType = "number"
	ParamBoolean ParamType = "boolean"
	ParamAny     ParamType = "any"
)

// IsValid reports whether t is a known parameter type.
func (t ParamType) IsValid() bool {
	switch t {
	case ParamString, ParamNumber, ParamBoolean, ParamAny:
		return true
	default:
		return false
	}
}

// Validate reports whether v is acceptable for t. Enum items satisfy string
// parameters.
func (t ParamType) Validate(v any) bool {
	switch t {
	case ParamAny:
		return true
	case ParamString:
		switch v.(type) {
		case string, EnumItem:
			return true
		}
	case ParamNumber:
		_, ok := v.(float64)
		return ok
	case ParamBoolean:
		_, ok := v.(bool)
		return ok
	}
	return false
}

// Validator narrows what a parameter accepts beyond its ParamType. TypeName
// stands in for the param type in signatures and argument errors.
type Validator interface {
	TypeName() string
	Validate(v any) bool
}

// ValidatorFunc adapts a named predicate to Validator.
type ValidatorFunc struct {
	Name string
	Fn   func(v any) bool
}

func (f ValidatorFunc) TypeName() string { return f.Name }
func (f ValidatorFunc) Validate(v any) bool { return f.Fn(v) }

// Param describes one function parameter.
type Param struct {
	Name     string
	Type     ParamType
	Optional bool
	// Validator, when set, must also accept the argument.
	Validator Validator
}

// TypeName is the name shown for the parameter's accepted values.
func (p Param) TypeName() string {
	if p.Validator != nil {
		return p.Validator.TypeName()
	}
	return string(p.Type)
}

// Accepts reports whether v satisfies both the type and the validator.
func (p Param) Accepts(v any) bool {
	if !p.Type.Validate(v) {
		return false
	}
	return p.Validator == nil || p.Validator.Validate(v)
}

// Handler runs a function with validated arguments. Arguments are string,
// float64, bool, EnumItem or nil for undefined.
type Handler func(ctx context.Context, args []any) (any, error)

// Function is a callable command.
type Function struct {
	Name        string
	Description string
	Params      []Param
	// Variadic accepts any number of trailing arguments of the last param's type.
	Variadic bool
	Handler  Handler
}

// Signature renders the function as name(a: string, b?: number).
func (f Function) Signature() string {
	s := f.Name + "("
	for i, p := range f.Params {
		if i > 0 {
			s += ", "
		}
		if f.Variadic && i == len(f.Params)-1 {
			s += "..."
		}
		s += p.Name
		if p.Optional {
			s += "?"
		}
		s += ": " + p.TypeName()
	}
	return s + ")"
}

// Namespace groups functions under a dotted prefix.
type Namespace struct {
	Name        string
	Description string
	Functions   []Function
}

// Enum is a closed set of named members.
type Enum struct {
	Name        string
	Description string
	Members     []string
}

// EnumItem is an enum member passed as an argument.
type EnumItem struct {
	Enum string
	Name string
}

func (e EnumItem) String() string {
	return e.Enum + "." + e.Name
}

// Group is a permission group. Groups are configuration data; the console
// checks CanAccessConsole for the local user.
type Group struct {
	Name             string
	Rank             int
	ID               int
	CanAccessConsole bool
}

// Registry errors
var (
	ErrUnknownCommand       = errors.New("unknown command")
	ErrInvalidArgument      = errors.New("invalid argument")
	ErrUnsupportedStatement = errors.New("unsupported statement")
	ErrSyntax               = errors.New("syntax error")
	ErrEmptyName            = errors.New("name cannot be empty")
	ErrDuplicateName        = errors.New("duplicate name")
	ErrNilHandler           = errors.New("function handler cannot be nil")
	ErrInvalidParamType     = errors.New("parameter type must be string, number, boolean, or any")
)

// UnknownCommandError carries suggestions for a name that did not resolve.
type UnknownCommandError struct {
	Name        string
	Suggestions []string
}

func (e *UnknownCommandError) Error() string {
	if len(e.Suggestions) == 0 {
		return fmt.Sprintf("%s: %s", ErrUnknownCommand, e.Name)
	}
	return fmt.Sprintf("%s: %s (did you mean %s?)", ErrUnknownCommand, e.Name, quoteList(e.Suggestions))
}

func (e *UnknownCommandError) Unwrap() error {
	return ErrUnknownCommand
}

func quoteList(names []string) string {
	s := ""
	for i, n := range names {
		switch {
		case i == 0:
		case i == len(names)-1:
			s += " or "
		default:
			s += ", "
		}
		s += strconv.Quote(n)
	}
	return s
}
