package layout

// Box is an axis-aligned rectangle in PDF user space: points, origin at the
// bottom-left corner of the page, y growing upwards.
type Box struct {
	Left   float64 `json:"left"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Top    float64 `json:"top"`
}

// BoxAt builds a box from its top-left corner and size.
func BoxAt(left, top, width, height float64) Box {
	return Box{Left: left, Right: left + width, Bottom: top - height, Top: top}
}

// Width returns the horizontal span of the box.
func (b Box) Width() float64 { return b.Right - b.Left }

// Height returns the vertical span of the box.
func (b Box) Height() float64 { return b.Top - b.Bottom }

// CenterX returns the horizontal center point of the box.
func (b Box) CenterX() float64 { return (b.Left + b.Right) / 2 }

// CenterY returns the vertical center point of the box.
func (b Box) CenterY() float64 { return (b.Bottom + b.Top) / 2 }
