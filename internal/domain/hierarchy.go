package domain

import "fmt"

// MaxHierarchyDepth bounds how many parent links are followed when walking a
// type-structure or structure tree.
const MaxHierarchyDepth = 32

// Node is an entity that may point to a parent of the same kind.
type Node interface {
	NodeID() int64
	NodeParentID() *int64
}

// NodeID implements Node.
func (t TypeStructure) NodeID() int64 { return t.ID }

// NodeParentID implements Node.
func (t TypeStructure) NodeParentID() *int64 { return t.ParentID }

// NodeID implements Node.
func (s Structure) NodeID() int64 { return s.ID }

// NodeParentID implements Node.
func (s Structure) NodeParentID() *int64 { return s.ParentID }

// Ancestors returns start followed by its ancestors, nearest first. load
// fetches a node by id. A revisited id or a chain longer than
// MaxHierarchyDepth yields ErrHierarchyCycle.
func Ancestors[T Node](start T, load func(id int64) (T, error)) ([]T, error) {
	chain := []T{start}
	seen := map[int64]struct{}{start.NodeID(): {}}
	current := start
	for {
		parentID := current.NodeParentID()
		if parentID == nil {
			return chain, nil
		}
		if _, dup := seen[*parentID]; dup {
			return nil, fmt.Errorf("%w: id %d revisited", ErrHierarchyCycle, *parentID)
		}
		if len(chain) >= MaxHierarchyDepth {
			return nil, fmt.Errorf("%w: deeper than %d levels", ErrHierarchyCycle, MaxHierarchyDepth)
		}
		parent, err := load(*parentID)
		if err != nil {
			return nil, err
		}
		seen[*parentID] = struct{}{}
		chain = append(chain, parent)
		current = parent
	}
}

// CheckParent returns ErrHierarchyCycle if giving the node id the parent
// parentID would make it its own ancestor. A nil parentID is always allowed.
func CheckParent[T Node](id int64, parentID *int64, load func(id int64) (T, error)) error {
	if parentID == nil {
		return nil
	}
	if *parentID == id {
		return fmt.Errorf("%w: %d cannot be its own parent", ErrHierarchyCycle, id)
	}
	parent, err := load(*parentID)
	if err != nil {
		return err
	}
	chain, err := Ancestors(parent, load)
	if err != nil {
		return err
	}
	for _, n := range chain {
		if n.NodeID() == id {
			return fmt.Errorf("%w: %d is an ancestor of %d", ErrHierarchyCycle, id, *parentID)
		}
	}
	return nil
}
