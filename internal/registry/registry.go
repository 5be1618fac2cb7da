package registry

import (
	"slices"
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"
)

// Registry is a built, read-only set of registrations.
type Registry struct {
	functions  map[string]Function
	namespaces map[string]Namespace
	enums      map[string]Enum
	groups     []Group
	middleware []Middleware

	// items are the top-level completions sorted by name.
	items []Completion
}

func newRegistry(functions []Function, namespaces []Namespace, enums []Enum, groups []Group) *Registry {
	r := &Registry{
		functions:  make(map[string]Function, len(functions)),
		namespaces: make(map[string]Namespace, len(namespaces)),
		enums:      make(map[string]Enum, len(enums)),
		groups:     groups,
	}
	for _, fn := range functions {
		r.functions[fn.Name] = fn
		r.items = append(r.items, Completion{Name: fn.Name, Description: fn.Description, Type: TypeFunction})
	}
	for _, ns := range namespaces {
		r.namespaces[ns.Name] = ns
		r.items = append(r.items, Completion{Name: ns.Name, Description: ns.Description, Type: TypeNamespace})
	}
	for _, e := range enums {
		r.enums[e.Name] = e
		r.items = append(r.items, Completion{Name: e.Name, Description: e.Description, Type: TypeEnum})
	}
	sortCompletions(r.items)
	return r
}

// Middleware wraps a handler. name is the resolved call name, such as
// "print" or "log.info".
type Middleware func(name string, next Handler) Handler

// WithMiddleware returns a registry sharing r's registrations whose Execute
// runs every handler through mw, outermost first.
func (r *Registry) WithMiddleware(mw ...Middleware) *Registry {
	clone := *r
	clone.middleware = append(slices.Clone(r.middleware), mw...)
	return &clone
}

// Function resolves name or ns.name.
func (r *Registry) Function(name string) (Function, bool) {
	nsName, fnName, dotted := strings.Cut(name, ".")
	if !dotted {
		fn, ok := r.functions[name]
		return fn, ok
	}
	ns, ok := r.namespaces[nsName]
	if !ok {
		return Function{}, false
	}
	for _, fn := range ns.Functions {
		if fn.Name == fnName {
			return fn, true
		}
	}
	return Function{}, false
}

// Namespace returns the namespace called name.
func (r *Registry) Namespace(name string) (Namespace, bool) {
	ns, ok := r.namespaces[name]
	return ns, ok
}

// Enum returns the enum called name.
func (r *Registry) Enum(name string) (Enum, bool) {
	e, ok := r.enums[name]
	return e, ok
}

// Groups returns the registered permission groups in registration order.
func (r *Registry) Groups() []Group {
	return r.groups
}

// Group returns the group called name.
func (r *Registry) Group(name string) (Group, bool) {
	for _, g := range r.groups {
		if g.Name == name {
			return g, true
		}
	}
	return Group{}, false
}

// Items returns every top-level completion sorted by name.
func (r *Registry) Items() []Completion {
	return r.items
}

// Complete returns completions for the word being typed. A dotted query
// lists members of the namespace or enum before the last dot. Results are
// ranked by fuzzy score; an empty query returns every candidate in name
// order. limit <= 0 means no limit.
func (r *Registry) Complete(query string, limit int) []Completion {
	candidates := r.items
	prefix := ""
	pattern := query

	if i := strings.LastIndexByte(query, '.'); i >= 0 {
		prefix = query[:i+1]
		pattern = query[i+1:]
		candidates = r.members(query[:i])
	}

	var out []Completion
	if pattern == "" {
		out = make([]Completion, len(candidates))
		copy(out, candidates)
	} else {
		names := make([]string, len(candidates))
		for i, c := range candidates {
			names[i] = strings.TrimPrefix(c.Name, prefix)
		}
		for _, m := range fuzzy.Find(pattern, names) {
			c := candidates[m.Index]
			c.MatchedIndexes = make([]int, len(m.MatchedIndexes))
			for i, idx := range m.MatchedIndexes {
				c.MatchedIndexes[i] = idx + len(prefix)
			}
			out = append(out, c)
		}
	}

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// members lists a namespace's functions or an enum's members with fully
// qualified names.
func (r *Registry) members(owner string) []Completion {
	var out []Completion
	if ns, ok := r.namespaces[owner]; ok {
		for _, fn := range ns.Functions {
			out = append(out, Completion{Name: owner + "." + fn.Name, Description: fn.Description, Type: TypeFunction})
		}
	}
	if e, ok := r.enums[owner]; ok {
		for _, m := range e.Members {
			out = append(out, Completion{Name: owner + "." + m, Type: TypeProperty})
		}
	}
	sortCompletions(out)
	return out
}

// Suggest returns up to n callable names similar to name.
func (r *Registry) Suggest(name string, n int) []string {
	var names []string
	for fnName := range r.functions {
		names = append(names, fnName)
	}
	for nsName, ns := range r.namespaces {
		for _, fn := range ns.Functions {
			names = append(names, nsName+"."+fn.Name)
		}
	}
	sort.Strings(names)

	matches := fuzzy.Find(name, names)
	if len(matches) > n {
		matches = matches[:n]
	}
	suggestions := make([]string, 0, len(matches))
	for _, m := range matches {
		suggestions = append(suggestions, names[m.Index])
	}
	return suggestions
}

func sortCompletions(items []Completion) {
	sort.SliceStable(items, func(i, j int) bool {
		return strings.ToLower(items[i].Name) < strings.ToLower(items[j].Name)
	})
}
