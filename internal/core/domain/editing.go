package domain

// EditingMode is the interaction mode of an editing session.
type EditingMode string

// Editing modes.
const (
	// ModeView is pure viewing. Autosave is not active.
	ModeView EditingMode = "view"

	// ModePen routes pointer drags to stroke capture.
	ModePen EditingMode = "pen"

	// ModeText places text notes on tap.
	ModeText EditingMode = "text"

	// ModeComment places comment markers and form widgets on tap.
	ModeComment EditingMode = "comment"
)

// IsValid returns true if the mode is recognised.
func (m EditingMode) IsValid() bool {
	switch m {
	case ModeView, ModePen, ModeText, ModeComment:
		return true
	default:
		return false
	}
}

// Edits reports whether the mode can change the document.
func (m EditingMode) Edits() bool {
	return m != ModeView && m.IsValid()
}

// String returns the string representation.
func (m EditingMode) String() string {
	return string(m)
}

// Placement defaults for tap-created annotations, in page units.
const (
	TextNoteWidth      = 120.0
	TextNoteHeight     = 30.0
	TextNoteFontSize   = 18.0
	CommentMarkerSize  = 30.0
	ClearButtonWidth   = 106.0
	ClearButtonHeight  = 32.0
	ClearButtonField   = "clearButton"
	ClearButtonCaption = "Clear"
	CommentContents    = "Comment"
	DefaultFontName    = "system"
)

// ClearButtonResetFields are the form fields excluded from the clear
// button's reset action.
var ClearButtonResetFields = []string{"colaPrice", "rrPrice"}
