package input

import (
	"github.com/gdamore/tcell/v2"
	"github.com/lixenwraith/softbody/physics"
)

// Machine parses tcell events into Intents
// Tracks the mode bound to the primary button
type Machine struct {
	primary physics.EffectorMode
	held    bool
}

// NewMachine creates a machine whose primary button uses mode
func NewMachine(primary physics.EffectorMode) *Machine {
	return &Machine{primary: primary}
}

// Primary returns the mode bound to the primary button
func (m *Machine) Primary() physics.EffectorMode {
	return m.primary
}

// Process parses a terminal event and returns an Intent
// Returns nil for events that carry no action
func (m *Machine) Process(ev tcell.Event) *Intent {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		return &Intent{Type: IntentResize}
	case *tcell.EventKey:
		return m.processKey(ev)
	case *tcell.EventMouse:
		return m.processMouse(ev)
	}
	return nil
}

func (m *Machine) processKey(ev *tcell.EventKey) *Intent {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return &Intent{Type: IntentQuit}
	case tcell.KeyRune:
	default:
		return nil
	}

	switch ev.Rune() {
	case 'q', 'Q':
		return &Intent{Type: IntentQuit}
	case ' ':
		return &Intent{Type: IntentPause}
	case 'r', 'R':
		return &Intent{Type: IntentReset}
	case '1':
		return m.selectMode(physics.ModePull)
	case '2':
		return m.selectMode(physics.ModePush)
	case '3':
		return m.selectMode(physics.ModeDisplace)
	}
	return nil
}

func (m *Machine) selectMode(mode physics.EffectorMode) *Intent {
	m.primary = mode
	return &Intent{Type: IntentSelectMode, Mode: mode}
}

// processMouse maps buttons to modes; primary follows the selected mode,
// secondary always pushes, middle always displaces
func (m *Machine) processMouse(ev *tcell.EventMouse) *Intent {
	col, row := ev.Position()
	buttons := ev.Buttons()

	var mode physics.EffectorMode
	switch {
	case buttons&tcell.ButtonPrimary != 0:
		mode = m.primary
	case buttons&tcell.ButtonSecondary != 0:
		mode = physics.ModePush
	case buttons&tcell.ButtonMiddle != 0:
		mode = physics.ModeDisplace
	default:
		// Motion with no buttons only matters as the end of a drag
		if !m.held {
			return nil
		}
		m.held = false
		return &Intent{Type: IntentRelease, Col: col, Row: row}
	}

	m.held = true
	return &Intent{Type: IntentPress, Mode: mode, Col: col, Row: row}
}
