package tui

import (
	"slices"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/flapper/internal/core"
)

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

var spaceKey = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}

func TestMapKey(t *testing.T) {
	km := NewKeyMapper()

	tests := []struct {
		name string
		msg  tea.KeyMsg
		want []core.Action
	}{
		{"space flaps and restarts", spaceKey, []core.Action{core.ActionFlap, core.ActionRestart}},
		{"up flaps", tea.KeyMsg{Type: tea.KeyUp}, []core.Action{core.ActionFlap}},
		{"w flaps", runeKey('w'), []core.Action{core.ActionFlap}},
		{"r restarts", runeKey('r'), []core.Action{core.ActionRestart}},
		{"p pauses", runeKey('p'), []core.Action{core.ActionPause}},
		{"esc goes back", tea.KeyMsg{Type: tea.KeyEsc}, []core.Action{core.ActionBack}},
		{"b goes back", runeKey('b'), []core.Action{core.ActionBack}},
		{"q quits", runeKey('q'), []core.Action{core.ActionQuit}},
		{"ctrl+c quits", tea.KeyMsg{Type: tea.KeyCtrlC}, []core.Action{core.ActionQuit}},
		{"unbound", runeKey('x'), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := km.MapKey(tt.msg)
			if !slices.Equal(got, tt.want) {
				t.Errorf("MapKey(%q) = %v, want %v", tt.msg.String(), got, tt.want)
			}
		})
	}
}

func TestMapKeyToFrame(t *testing.T) {
	km := NewKeyMapper()

	var frame core.InputFrame
	if km.MapKeyToFrame(spaceKey, &frame) {
		t.Fatal("space reported as quit")
	}
	if !frame.Has(core.ActionFlap) || !frame.Has(core.ActionRestart) {
		t.Errorf("frame = %v, want Flap and Restart", frame.List())
	}

	frame = core.NewInputFrame()
	if !km.MapKeyToFrame(runeKey('q'), &frame) {
		t.Error("q not reported as quit")
	}
	if !frame.Empty() {
		t.Errorf("quit left actions in frame: %v", frame.List())
	}
}

func TestMapKeyToMenuAction(t *testing.T) {
	km := NewKeyMapper()

	tests := []struct {
		msg  tea.KeyMsg
		want MenuAction
	}{
		{tea.KeyMsg{Type: tea.KeyUp}, MenuActionUp},
		{runeKey('k'), MenuActionUp},
		{tea.KeyMsg{Type: tea.KeyDown}, MenuActionDown},
		{runeKey('j'), MenuActionDown},
		{tea.KeyMsg{Type: tea.KeyEnter}, MenuActionSelect},
		{spaceKey, MenuActionSelect},
		{tea.KeyMsg{Type: tea.KeyEsc}, MenuActionBack},
		{runeKey('q'), MenuActionQuit},
		{runeKey('x'), MenuActionNone},
	}

	for _, tt := range tests {
		t.Run(tt.msg.String(), func(t *testing.T) {
			if got := km.MapKeyToMenuAction(tt.msg); got != tt.want {
				t.Errorf("MapKeyToMenuAction(%q) = %d, want %d", tt.msg.String(), got, tt.want)
			}
		})
	}
}
