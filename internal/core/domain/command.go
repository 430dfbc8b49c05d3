package domain

import "fmt"

// CommandKind identifies the mutation a Command performs.
type CommandKind string

// Command kinds.
const (
	CommandAdd    CommandKind = "add"
	CommandRemove CommandKind = "remove"
	CommandModify CommandKind = "modify"
)

// Command is the undo/redo unit: a reversible description of one mutation.
//
// Add carries only After, Remove only Before, Modify both. Before and After
// are private copies; they never alias live annotations in a Document.
type Command struct {
	Kind         CommandKind
	PageIndex    int
	AnnotationID AnnotationID
	Before       *Annotation
	After        *Annotation
}

// AddCommand builds a command placing a on a page.
func AddCommand(pageIndex int, a Annotation) Command {
	after := a.Clone()
	return Command{Kind: CommandAdd, PageIndex: pageIndex, AnnotationID: a.ID, After: &after}
}

// RemoveCommand builds a command deleting the annotation a from a page.
func RemoveCommand(pageIndex int, a Annotation) Command {
	before := a.Clone()
	return Command{Kind: CommandRemove, PageIndex: pageIndex, AnnotationID: a.ID, Before: &before}
}

// ModifyCommand builds a command replacing before with after.
func ModifyCommand(pageIndex int, before, after Annotation) Command {
	b, a := before.Clone(), after.Clone()
	return Command{Kind: CommandModify, PageIndex: pageIndex, AnnotationID: before.ID, Before: &b, After: &a}
}

// Validate checks the before/after shape required by the kind.
func (c Command) Validate() error {
	switch c.Kind {
	case CommandAdd:
		if c.Before != nil || c.After == nil {
			return fmt.Errorf("%w: add command needs only an after state", ErrInvalidInput)
		}
	case CommandRemove:
		if c.Before == nil || c.After != nil {
			return fmt.Errorf("%w: remove command needs only a before state", ErrInvalidInput)
		}
	case CommandModify:
		if c.Before == nil || c.After == nil {
			return fmt.Errorf("%w: modify command needs before and after states", ErrInvalidInput)
		}
		if c.Before.ID != c.After.ID {
			return fmt.Errorf("%w: modify command changes annotation id", ErrInvalidInput)
		}
	default:
		return fmt.Errorf("%w: unknown command kind %q", ErrInvalidInput, c.Kind)
	}
	return nil
}

// Inverse returns the command that undoes c.
func (c Command) Inverse() Command {
	inv := Command{PageIndex: c.PageIndex, AnnotationID: c.AnnotationID, Before: c.After, After: c.Before}
	switch c.Kind {
	case CommandAdd:
		inv.Kind = CommandRemove
	case CommandRemove:
		inv.Kind = CommandAdd
	case CommandModify:
		inv.Kind = CommandModify
	}
	return inv
}
