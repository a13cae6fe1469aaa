package placement

import "strings"

// Position names a printable region of a product mockup.
type Position uint8

const (
	Front       Position = iota // chest / front face (default)
	Back                        // back face
	LeftSleeve                  // left sleeve
	RightSleeve                 // right sleeve
)

var positionNames = [...]string{
	Front:       "front",
	Back:        "back",
	LeftSleeve:  "left sleeve",
	RightSleeve: "right sleeve",
}

// Positions lists every position in display order.
func Positions() []Position {
	return []Position{Front, Back, LeftSleeve, RightSleeve}
}

// String returns the human-readable position name.
func (p Position) String() string {
	if int(p) < len(positionNames) {
		return positionNames[p]
	}
	return positionNames[Front]
}

// ParsePosition maps a position name to a Position. Underscores, hyphens and
// case are ignored ("left_sleeve", "Left-Sleeve" and "left sleeve" are the
// same). Unknown names fall back to Front, matching how the guide is drawn.
func ParsePosition(name string) Position {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.NewReplacer("_", " ", "-", " ").Replace(n)
	for i, s := range positionNames {
		if s == n {
			return Position(i)
		}
	}
	return Front
}

// MarshalText implements encoding.TextMarshaler.
func (p Position) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Position) UnmarshalText(b []byte) error {
	*p = ParsePosition(string(b))
	return nil
}

// PrintArea is a guide region expressed as fractions of the container. The
// region is centred on (Left, Top), so Left/Top name the centre point, not
// the corner. It is drawn as a dashed guide and never constrains the
// transform.
type PrintArea struct {
	Position Position
	Top      float64
	Left     float64
	Width    float64
	Height   float64
}

var printAreas = [...]PrintArea{
	Front:       {Position: Front, Top: 0.30, Left: 0.50, Width: 0.40, Height: 0.40},
	Back:        {Position: Back, Top: 0.30, Left: 0.50, Width: 0.40, Height: 0.40},
	LeftSleeve:  {Position: LeftSleeve, Top: 0.30, Left: 0.25, Width: 0.20, Height: 0.20},
	RightSleeve: {Position: RightSleeve, Top: 0.30, Left: 0.75, Width: 0.20, Height: 0.20},
}

// PrintAreaFor returns the guide region for p.
func PrintAreaFor(p Position) PrintArea {
	if int(p) < len(printAreas) {
		return printAreas[p]
	}
	return printAreas[Front]
}

// Rect resolves the fractional area against a container size.
func (a PrintArea) Rect(container Size) Rect {
	w := a.Width * container.Width
	h := a.Height * container.Height
	return Rect{
		X:      a.Left*container.Width - w/2,
		Y:      a.Top*container.Height - h/2,
		Width:  w,
		Height: h,
	}
}
