package presentation

import (
	"time"

	"github.com/zirconconsole/zircon/internal/history"
	"github.com/zirconconsole/zircon/internal/registry"
)

// CommandDTO represents a callable function for presentation
type CommandDTO struct {
	Name        string     `json:"name"`
	Namespace   string     `json:"namespace,omitempty"`
	Signature   string     `json:"signature"`
	Description string     `json:"description,omitempty"`
	Params      []ParamDTO `json:"params"`
	Variadic    bool       `json:"variadic,omitempty"`
}

// ParamDTO represents one function parameter
type ParamDTO struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Optional bool   `json:"optional,omitempty"`
}

// EnumDTO represents an enum and its members
type EnumDTO struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Members     []string `json:"members"`
}

// CatalogDTO is everything a registry can call
type CatalogDTO struct {
	Commands []CommandDTO `json:"commands"`
	Enums    []EnumDTO    `json:"enums"`
}

// HistoryEntryDTO represents a stored history entry
type HistoryEntryDTO struct {
	ID        int64     `json:"id"`
	SessionID string    `json:"session_id"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
}

// ResultDTO represents the outcome of a non-interactive execution
type ResultDTO struct {
	Source  string   `json:"source"`
	Outputs []string `json:"outputs"`
	Error   string   `json:"error,omitempty"`
	TraceID string   `json:"trace_id,omitempty"`
}

// FromFunction converts a registry function to a DTO. namespace is empty
// for top-level functions.
func FromFunction(fn registry.Function, namespace string) CommandDTO {
	name := fn.Name
	if namespace != "" {
		name = namespace + "." + fn.Name
	}
	params := make([]ParamDTO, len(fn.Params))
	for i, p := range fn.Params {
		params[i] = ParamDTO{Name: p.Name, Type: string(p.Type), Optional: p.Optional}
	}
	return CommandDTO{
		Name:        name,
		Namespace:   namespace,
		Signature:   fn.Signature(),
		Description: fn.Description,
		Params:      params,
		Variadic:    fn.Variadic,
	}
}

// FromRegistry lists every function and enum in r in completion order.
// A non-empty namespace keeps only that namespace's functions.
func FromRegistry(r *registry.Registry, namespace string) CatalogDTO {
	catalog := CatalogDTO{Commands: make([]CommandDTO, 0), Enums: make([]EnumDTO, 0)}
	for _, item := range r.Items() {
		switch item.Type {
		case registry.TypeFunction:
			if namespace != "" {
				continue
			}
			if fn, ok := r.Function(item.Name); ok {
				catalog.Commands = append(catalog.Commands, FromFunction(fn, ""))
			}
		case registry.TypeNamespace:
			if namespace != "" && namespace != item.Name {
				continue
			}
			ns, _ := r.Namespace(item.Name)
			for _, fn := range ns.Functions {
				catalog.Commands = append(catalog.Commands, FromFunction(fn, ns.Name))
			}
		case registry.TypeEnum:
			if namespace != "" {
				continue
			}
			e, _ := r.Enum(item.Name)
			catalog.Enums = append(catalog.Enums, EnumDTO{Name: e.Name, Description: e.Description, Members: e.Members})
		}
	}
	return catalog
}

// FromHistoryEntries converts stored entries to DTOs
func FromHistoryEntries(entries []history.Entry) []HistoryEntryDTO {
	dtos := make([]HistoryEntryDTO, len(entries))
	for i, e := range entries {
		dtos[i] = HistoryEntryDTO{ID: e.ID, SessionID: e.SessionID, Source: e.Source, CreatedAt: e.CreatedAt}
	}
	return dtos
}
