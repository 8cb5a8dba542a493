package input

import "github.com/lixenwraith/softbody/physics"

// IntentType discriminates semantic actions
type IntentType uint8

const (
	IntentNone IntentType = iota

	// System-level intents
	IntentQuit   // q, Esc, Ctrl+C
	IntentResize // Terminal resize event
	IntentPause  // Space
	IntentReset  // r

	// Effector
	IntentSelectMode // 1/2/3 choose the primary button mode
	IntentPress      // Button held: engage effector at cell
	IntentRelease    // Buttons released: disengage
)

// Intent is a parsed terminal event
type Intent struct {
	Type IntentType
	Mode physics.EffectorMode // IntentSelectMode, IntentPress
	Col  int                  // IntentPress, IntentRelease
	Row  int
}
