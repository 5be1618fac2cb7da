package registry

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"unicode"
)

// Builder accumulates registrations. Each Add returns the builder so calls
// chain; problems are reported together by Build.
type Builder struct {
	functions  []Function
	namespaces []Namespace
	enums      []Enum
	groups     []Group
	errs       []error
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// AddFunction registers a top-level function.
func (b *Builder) AddFunction(fn Function) *Builder {
	if err := validateFunction(fn); err != nil {
		b.errs = append(b.errs, err)
		return b
	}
	b.functions = append(b.functions, fn)
	return b
}

// AddNamespace registers a namespace and its functions.
func (b *Builder) AddNamespace(ns Namespace) *Builder {
	if err := validateName("namespace", ns.Name); err != nil {
		b.errs = append(b.errs, err)
		return b
	}
	seen := make(map[string]bool, len(ns.Functions))
	for _, fn := range ns.Functions {
		if err := validateFunction(fn); err != nil {
			b.errs = append(b.errs, fmt.Errorf("namespace %s: %w", ns.Name, err))
			return b
		}
		if seen[fn.Name] {
			b.errs = append(b.errs, fmt.Errorf("namespace %s: function %s: %w", ns.Name, fn.Name, ErrDuplicateName))
			return b
		}
		seen[fn.Name] = true
	}
	b.namespaces = append(b.namespaces, ns)
	return b
}

// AddEnum registers an enum.
func (b *Builder) AddEnum(e Enum) *Builder {
	if err := validateName("enum", e.Name); err != nil {
		b.errs = append(b.errs, err)
		return b
	}
	for _, m := range e.Members {
		if err := validateName("enum member", m); err != nil {
			b.errs = append(b.errs, fmt.Errorf("enum %s: %w", e.Name, err))
			return b
		}
	}
	b.enums = append(b.enums, e)
	return b
}

// AddGroup registers a permission group.
func (b *Builder) AddGroup(g Group) *Builder {
	if strings.TrimSpace(g.Name) == "" {
		b.errs = append(b.errs, fmt.Errorf("group: %w", ErrEmptyName))
		return b
	}
	b.groups = append(b.groups, g)
	return b
}

// AddDefaultAdminGroup registers the "creator" group at rank.
func (b *Builder) AddDefaultAdminGroup(rank, id int) *Builder {
	return b.AddGroup(Group{Name: "creator", Rank: rank, ID: id, CanAccessConsole: true})
}

// AddDefaultUserGroup registers the "user" group.
func (b *Builder) AddDefaultUserGroup(canAccessConsole bool) *Builder {
	return b.AddGroup(Group{Name: "user", CanAccessConsole: canAccessConsole})
}

// Build validates that top-level names are unique and returns the registry.
func (b *Builder) Build() (*Registry, error) {
	errs := slices.Clone(b.errs)

	seen := make(map[string]string)
	claim := func(kind, name string) {
		if prev, ok := seen[name]; ok {
			errs = append(errs, fmt.Errorf("%s %s conflicts with %s: %w", kind, name, prev, ErrDuplicateName))
			return
		}
		seen[name] = kind
	}
	for _, fn := range b.functions {
		claim("function", fn.Name)
	}
	for _, ns := range b.namespaces {
		claim("namespace", ns.Name)
	}
	for _, e := range b.enums {
		claim("enum", e.Name)
	}
	groups := make(map[string]bool)
	for _, g := range b.groups {
		if groups[g.Name] {
			errs = append(errs, fmt.Errorf("group %s: %w", g.Name, ErrDuplicateName))
		}
		groups[g.Name] = true
	}

	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("build registry: %w", err)
	}
	return newRegistry(b.functions, b.namespaces, b.enums, b.groups), nil
}

func validateFunction(fn Function) error {
	if err := validateName("function", fn.Name); err != nil {
		return err
	}
	if fn.Handler == nil {
		return fmt.Errorf("function %s: %w", fn.Name, ErrNilHandler)
	}
	if fn.Variadic && len(fn.Params) == 0 {
		return fmt.Errorf("function %s: variadic function needs a param: %w", fn.Name, ErrInvalidArgument)
	}
	optional := false
	for _, p := range fn.Params {
		if !p.Type.IsValid() {
			return fmt.Errorf("function %s: param %s: %w", fn.Name, p.Name, ErrInvalidParamType)
		}
		if optional && !p.Optional {
			return fmt.Errorf("function %s: required param %s follows an optional one: %w", fn.Name, p.Name, ErrInvalidArgument)
		}
		optional = optional || p.Optional
	}
	return nil
}

// validateName requires an identifier: a letter or underscore followed by
// letters, digits or underscores.
func validateName(kind, name string) error {
	if name == "" {
		return fmt.Errorf("%s: %w", kind, ErrEmptyName)
	}
	for i, r := range name {
		if r == '_' || unicode.IsLetter(r) || (i > 0 && unicode.IsDigit(r)) {
			continue
		}
		return fmt.Errorf("%s %q: not an identifier: %w", kind, name, ErrInvalidArgument)
	}
	return nil
}
