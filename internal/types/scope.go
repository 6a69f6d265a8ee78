package types

// ScopeID indexes a scope record inside an Arena. Typed-tree nodes
// refer to their owning scope by id only, which keeps them cheap to
// copy and free of ownership cycles.
type ScopeID int

// NoScope marks the absence of a parent.
const NoScope ScopeID = -1

// Arena owns every scope created during one compilation. Scopes form
// a parent-linked tree; lookup walks innermost-to-outermost and the
// first hit wins.
type Arena struct {
	scopes []scopeRecord
}

type scopeRecord struct {
	parent  ScopeID
	symbols map[string]Type
}

// NewArena creates an empty scope arena.
func NewArena() *Arena {
	return &Arena{}
}

// NewScope allocates a scope with the given parent (NoScope for the
// root) and returns its id.
func (a *Arena) NewScope(parent ScopeID) ScopeID {
	a.scopes = append(a.scopes, scopeRecord{
		parent:  parent,
		symbols: make(map[string]Type),
	})
	return ScopeID(len(a.scopes) - 1)
}

// Insert adds a name to the scope. It returns false when the name is
// already declared in this same scope; shadowing an outer scope is
// allowed.
func (a *Arena) Insert(id ScopeID, name string, t Type) bool {
	rec := &a.scopes[id]
	if _, exists := rec.symbols[name]; exists {
		return false
	}
	rec.symbols[name] = t
	return true
}

// Lookup resolves a name starting at the given scope and walking the
// parent chain.
func (a *Arena) Lookup(id ScopeID, name string) (Type, bool) {
	for id != NoScope {
		rec := &a.scopes[id]
		if t, ok := rec.symbols[name]; ok {
			return t, true
		}
		id = rec.parent
	}
	return nil, false
}

// Parent returns the parent id of a scope.
func (a *Arena) Parent(id ScopeID) ScopeID {
	return a.scopes[id].parent
}

// Len returns the number of scopes allocated so far.
func (a *Arena) Len() int {
	return len(a.scopes)
}
