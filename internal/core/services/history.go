package services

import (
	"errors"

	"github.com/custodia-labs/margin/internal/core/domain"
	"github.com/custodia-labs/margin/internal/logger"
)

var historyLog = logger.For("history")

// HistoryListener is told the undo/redo affordances after every change.
type HistoryListener func(undoEnabled, redoEnabled bool)

// History is the undo/redo engine for one document.
//
// It records reversible commands against the document it was created for.
// Commands are stored as private copies of before/after state, never as
// references into the document. History is not safe for concurrent use;
// it is driven from a single timeline.
type History struct {
	doc       *domain.Document
	undoStack []domain.Command
	redoStack []domain.Command
	listeners []HistoryListener
}

// NewHistory creates an empty history over doc.
func NewHistory(doc *domain.Document) *History {
	return &History{doc: doc}
}

// OnChange registers a listener invoked after every apply, undo, redo and clear.
func (h *History) OnChange(fn HistoryListener) {
	h.listeners = append(h.listeners, fn)
}

// Apply executes cmd against the document and records it.
// Any previously undone commands are discarded.
//
// If the command does not resolve (domain.ErrInvalidReference) or is
// malformed, the document and both stacks are left untouched.
func (h *History) Apply(cmd domain.Command) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	done, err := h.execute(cloneCommand(cmd))
	if err != nil {
		return err
	}
	h.undoStack = append(h.undoStack, done)
	h.redoStack = nil
	h.notify()
	return nil
}

// Undo reverts the most recent command.
// It returns false if there was nothing to undo or the inverse could not be applied.
func (h *History) Undo() bool {
	if len(h.undoStack) == 0 {
		return false
	}
	top := h.undoStack[len(h.undoStack)-1]
	if _, err := h.execute(top.Inverse()); err != nil {
		historyLog.Warn("undo of %s %s dropped: %v", top.Kind, top.AnnotationID, err)
		return false
	}
	h.undoStack = h.undoStack[:len(h.undoStack)-1]
	h.redoStack = append(h.redoStack, top)
	h.notify()
	return true
}

// Redo re-applies the most recently undone command.
// It returns false if there was nothing to redo or the command could not be applied.
func (h *History) Redo() bool {
	if len(h.redoStack) == 0 {
		return false
	}
	top := h.redoStack[len(h.redoStack)-1]
	if _, err := h.execute(top); err != nil {
		historyLog.Warn("redo of %s %s dropped: %v", top.Kind, top.AnnotationID, err)
		return false
	}
	h.redoStack = h.redoStack[:len(h.redoStack)-1]
	h.undoStack = append(h.undoStack, top)
	h.notify()
	return true
}

// Clear empties both stacks. The document is not touched, so edits made
// through the cleared commands stay applied.
func (h *History) Clear() {
	h.undoStack = nil
	h.redoStack = nil
	h.notify()
}

// UndoEnabled reports whether Undo has anything to revert.
func (h *History) UndoEnabled() bool {
	return len(h.undoStack) > 0
}

// RedoEnabled reports whether Redo has anything to re-apply.
func (h *History) RedoEnabled() bool {
	return len(h.redoStack) > 0
}

// UndoDepth returns the number of undoable commands.
func (h *History) UndoDepth() int {
	return len(h.undoStack)
}

// RedoDepth returns the number of redoable commands.
func (h *History) RedoDepth() int {
	return len(h.redoStack)
}

func (h *History) notify() {
	undo, redo := h.UndoEnabled(), h.RedoEnabled()
	for _, fn := range h.listeners {
		fn(undo, redo)
	}
}

// execute performs cmd's forward semantics and returns it completed with
// the ids and stacking positions the document assigned, so that replaying
// it later reproduces exactly the same state.
func (h *History) execute(cmd domain.Command) (domain.Command, error) {
	switch cmd.Kind {
	case domain.CommandAdd:
		id, err := h.doc.AddAnnotation(cmd.PageIndex, *cmd.After)
		if err != nil {
			return cmd, err
		}
		placed, err := h.doc.Annotation(cmd.PageIndex, id)
		if err != nil {
			return cmd, err
		}
		cmd.AnnotationID = id
		cmd.After = &placed
	case domain.CommandRemove:
		id := cmd.AnnotationID
		if id == "" {
			id = cmd.Before.ID
		}
		removed, err := h.doc.RemoveAnnotation(cmd.PageIndex, id)
		if err != nil {
			return cmd, err
		}
		cmd.AnnotationID = id
		cmd.Before = &removed
	case domain.CommandModify:
		if err := h.doc.ReplaceAnnotation(cmd.PageIndex, *cmd.After); err != nil {
			return cmd, err
		}
		cmd.AnnotationID = cmd.After.ID
	default:
		return cmd, errors.New("unknown command kind")
	}
	return cmd, nil
}

func cloneCommand(cmd domain.Command) domain.Command {
	if cmd.Before != nil {
		b := cmd.Before.Clone()
		cmd.Before = &b
	}
	if cmd.After != nil {
		a := cmd.After.Clone()
		cmd.After = &a
	}
	return cmd
}
