package transaction

import (
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/STARIONGROUP/COMET-BatchEditor-Community-Edition/internal/model"
	"github.com/STARIONGROUP/COMET-BatchEditor-Community-Edition/pkg/types"
)

// Attribute names the node attribute a command changes.
type Attribute string

// Attributes compared by RecordUpdate.
const (
	AttrOwner         Attribute = "owner"
	AttrScale         Attribute = "scale"
	AttrValueSwitch   Attribute = "value_switch"
	AttrSubscriptions Attribute = "subscriptions"
)

// Builder creates transactions against a read-only snapshot.
type Builder struct {
	snapshot model.Lookup
	newID    func() string
}

// NewBuilder returns a builder reading pre-change state from snapshot.
func NewBuilder(snapshot model.Lookup) *Builder {
	return &Builder{snapshot: snapshot, newID: NewID}
}

// NewID returns a fresh time-ordered identity.
func NewID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// NewTransaction returns an empty transaction labelled with context.
func (b *Builder) NewTransaction(context string) *Transaction {
	return newTransaction(b.newID(), context)
}

// Edit returns the working copy of thing inside tx. If tx already holds a
// post-change copy it is returned, so successive edits accumulate;
// otherwise a clone of the snapshot node is returned. The clone is only
// recorded by RecordUpdate.
func (b *Builder) Edit(tx *Transaction, thing types.Thing) (types.Thing, error) {
	if tx.sealed {
		return nil, ErrSealed
	}
	id := thing.ThingID()
	if t, ok := tx.UpdatedThing[id]; ok {
		return t, nil
	}
	if t, ok := tx.AddedThing[id]; ok {
		return t, nil
	}
	orig, ok := b.snapshot.Thing(id)
	if !ok {
		return nil, fmt.Errorf("edit %s %s: %w", thing.ThingKind(), id, ErrUnknownThing)
	}
	return orig.Clone(), nil
}

// RecordUpdate records node as updated in tx when attr differs from the
// snapshot. It reports whether the node was recorded. When tx already holds
// a different copy of the node, only attr is copied onto the held entry, so
// earlier changes to other attributes survive. Nodes already recorded as
// added are left in AddedThing.
func (b *Builder) RecordUpdate(tx *Transaction, node types.Thing, attr Attribute) (bool, error) {
	if tx.sealed {
		return false, ErrSealed
	}
	id := node.ThingID()
	if _, ok := tx.AddedThing[id]; ok {
		tx.AddedThing[id] = node
		return true, nil
	}
	orig, ok := b.snapshot.Thing(id)
	if !ok {
		return false, fmt.Errorf("update %s %s: %w", node.ThingKind(), id, ErrUnknownThing)
	}
	before, err := attributeOf(orig, attr)
	if err != nil {
		return false, err
	}
	after, err := attributeOf(node, attr)
	if err != nil {
		return false, err
	}

	held, isHeld := tx.UpdatedThing[id]
	if !isHeld {
		if slices.Equal(before, after) {
			return false, nil
		}
		tx.UpdatedThing[id] = node
		tx.updateOrder = append(tx.updateOrder, id)
		return true, nil
	}
	if held == node {
		return true, nil
	}

	// Another copy of a held node: only attr is merged into the held entry.
	current, err := attributeOf(held, attr)
	if err != nil {
		return false, err
	}
	if slices.Equal(current, after) {
		return false, nil
	}
	if err := copyAttribute(held, node, attr); err != nil {
		return false, err
	}
	return true, nil
}

// RecordAdd records node as a new node of tx.
func (b *Builder) RecordAdd(tx *Transaction, node types.Thing) error {
	if tx.sealed {
		return ErrSealed
	}
	id := node.ThingID()
	if _, ok := tx.UpdatedThing[id]; ok {
		return fmt.Errorf("add %s %s already updated in transaction %s: %w",
			node.ThingKind(), id, tx.ID, ErrInvariantViolation)
	}
	if _, ok := b.snapshot.Thing(id); ok {
		return fmt.Errorf("add %s %s already present in snapshot: %w",
			node.ThingKind(), id, ErrInvariantViolation)
	}
	if _, ok := tx.AddedThing[id]; !ok {
		tx.addOrder = append(tx.addOrder, id)
	}
	tx.AddedThing[id] = node
	return nil
}

func attributeOf(t types.Thing, attr Attribute) ([]string, error) {
	switch attr {
	case AttrOwner:
		if o, ok := t.(types.HasOwner); ok {
			return []string{o.OwnerID()}, nil
		}
	case AttrScale:
		if s, ok := t.(types.HasScale); ok {
			return []string{s.ScaleID()}, nil
		}
	case AttrValueSwitch:
		if s, ok := t.(*types.ParameterSubscription); ok {
			return []string{s.ValueSwitch}, nil
		}
	case AttrSubscriptions:
		if p, ok := t.(*types.Parameter); ok {
			return p.Subscriptions, nil
		}
	}
	return nil, fmt.Errorf("%s has no attribute %q: %w", t.ThingKind(), attr, ErrInvariantViolation)
}

// copyAttribute sets attr of dst to its value in src.
func copyAttribute(dst, src types.Thing, attr Attribute) error {
	switch attr {
	case AttrOwner:
		d, dok := dst.(types.HasOwner)
		s, sok := src.(types.HasOwner)
		if dok && sok {
			d.SetOwner(s.OwnerID())
			return nil
		}
	case AttrScale:
		d, dok := dst.(types.HasScale)
		s, sok := src.(types.HasScale)
		if dok && sok {
			d.SetScale(s.ScaleID())
			return nil
		}
	case AttrValueSwitch:
		d, dok := dst.(*types.ParameterSubscription)
		s, sok := src.(*types.ParameterSubscription)
		if dok && sok {
			d.ValueSwitch = s.ValueSwitch
			return nil
		}
	case AttrSubscriptions:
		d, dok := dst.(*types.Parameter)
		s, sok := src.(*types.Parameter)
		if dok && sok {
			d.Subscriptions = slices.Clone(s.Subscriptions)
			return nil
		}
	}
	return fmt.Errorf("%s has no attribute %q: %w", dst.ThingKind(), attr, ErrInvariantViolation)
}
