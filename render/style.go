package render

import "github.com/gdamore/tcell/v2"

var (
	RgbBackground = tcell.NewRGBColor(26, 27, 38)
	RgbBorder     = tcell.NewRGBColor(65, 72, 104)
	RgbEffector   = tcell.NewRGBColor(224, 175, 104)
	RgbPinned     = tcell.NewRGBColor(247, 118, 142)
	RgbStatusText = tcell.NewRGBColor(192, 202, 245)
	RgbStatusDim  = tcell.NewRGBColor(86, 95, 137)
	RgbPausedBg   = tcell.NewRGBColor(187, 154, 247)

	// Body colors cycle by body index
	BodyPalette = []tcell.Color{
		tcell.NewRGBColor(122, 162, 247),
		tcell.NewRGBColor(158, 206, 106),
		tcell.NewRGBColor(125, 207, 255),
		tcell.NewRGBColor(255, 158, 100),
	}
)

// bodyColor returns the palette color for body i
func bodyColor(i int) tcell.Color {
	return BodyPalette[i%len(BodyPalette)]
}
