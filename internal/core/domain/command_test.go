package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandConstructors(t *testing.T) {
	a := Annotation{ID: "n1", Kind: KindText, Text: &TextNote{Content: "x"}}
	b := a.Clone()
	b.Bounds.X = 10

	add := AddCommand(2, a)
	assert.Equal(t, CommandAdd, add.Kind)
	assert.Equal(t, 2, add.PageIndex)
	assert.Nil(t, add.Before)
	require.NotNil(t, add.After)
	require.NoError(t, add.Validate())

	remove := RemoveCommand(0, a)
	assert.Equal(t, AnnotationID("n1"), remove.AnnotationID)
	assert.Nil(t, remove.After)
	require.NoError(t, remove.Validate())

	modify := ModifyCommand(0, a, b)
	require.NoError(t, modify.Validate())
	assert.Equal(t, 10.0, modify.After.Bounds.X)

	// Constructors copy their inputs.
	a.Text.Content = "changed"
	assert.Equal(t, "x", add.After.Text.Content)
}

func TestCommand_Validate(t *testing.T) {
	a := Annotation{ID: "n1", Kind: KindText, Text: &TextNote{}}
	other := Annotation{ID: "n2", Kind: KindText, Text: &TextNote{}}

	tests := []struct {
		name string
		cmd  Command
	}{
		{"unknown kind", Command{Kind: "move"}},
		{"add without after", Command{Kind: CommandAdd}},
		{"add with before", Command{Kind: CommandAdd, Before: &a, After: &a}},
		{"remove without before", Command{Kind: CommandRemove}},
		{"modify missing after", Command{Kind: CommandModify, Before: &a}},
		{"modify changes id", Command{Kind: CommandModify, Before: &a, After: &other}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.cmd.Validate(), ErrInvalidInput)
		})
	}
}

func TestCommand_Inverse(t *testing.T) {
	a := Annotation{ID: "n1", Kind: KindText, Text: &TextNote{}}
	b := a.Clone()
	b.Bounds.Y = 5

	tests := []struct {
		name string
		cmd  Command
		want CommandKind
	}{
		{"add", AddCommand(1, a), CommandRemove},
		{"remove", RemoveCommand(1, a), CommandAdd},
		{"modify", ModifyCommand(1, a, b), CommandModify},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := tt.cmd.Inverse()
			assert.Equal(t, tt.want, inv.Kind)
			assert.Equal(t, tt.cmd.PageIndex, inv.PageIndex)
			assert.Equal(t, tt.cmd.Before, inv.After)
			assert.Equal(t, tt.cmd.After, inv.Before)
			assert.NoError(t, inv.Validate())
			assert.Equal(t, tt.cmd, inv.Inverse())
		})
	}
}
