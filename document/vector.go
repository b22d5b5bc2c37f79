package document

// VectorKind identifies the shape a Vector draws.
type VectorKind int

const (
	VectorLine VectorKind = iota
	VectorRect
	VectorEllipse
	VectorPolyline
)

// Vector is a canvas primitive positioned during layout. Coordinates
// are mutated as the writer offsets the vector onto a page; the
// original, pre-layout coordinates are kept separately so a later
// layout attempt can restore them.
type Vector struct {
	Kind VectorKind

	X, Y   float64 // rect/ellipse origin or center
	X1, Y1 float64 // line start
	X2, Y2 float64 // line end
	W, H   float64 // rect extent
	R1, R2 float64 // ellipse radii

	Points []Point // polyline

	LineWidth float64
	LineColor string // stroke
	Color     string // fill

	origSaved bool
	orig      [6]float64
	origPts   []Point
}

// SaveOrigin captures the vector's pre-layout coordinates once.
func (v *Vector) SaveOrigin() {
	if v.origSaved {
		return
	}
	v.origSaved = true
	v.orig = [6]float64{v.X, v.Y, v.X1, v.Y1, v.X2, v.Y2}
	if len(v.Points) > 0 {
		v.origPts = append([]Point(nil), v.Points...)
	}
}

// ResetXY restores the coordinates captured by SaveOrigin.
func (v *Vector) ResetXY() {
	if !v.origSaved {
		return
	}
	v.X, v.Y = v.orig[0], v.orig[1]
	v.X1, v.Y1 = v.orig[2], v.orig[3]
	v.X2, v.Y2 = v.orig[4], v.orig[5]
	if v.origPts != nil {
		copy(v.Points, v.origPts)
	}
}

// Offset shifts every coordinate of the vector by (dx, dy).
func (v *Vector) Offset(dx, dy float64) {
	v.X += dx
	v.Y += dy
	v.X1 += dx
	v.Y1 += dy
	v.X2 += dx
	v.Y2 += dy
	for i := range v.Points {
		v.Points[i].X += dx
		v.Points[i].Y += dy
	}
}

// Bounds returns the vector's bounding box as (minX, minY, maxX, maxY).
func (v *Vector) Bounds() (minX, minY, maxX, maxY float64) {
	switch v.Kind {
	case VectorLine:
		minX, maxX = min(v.X1, v.X2), max(v.X1, v.X2)
		minY, maxY = min(v.Y1, v.Y2), max(v.Y1, v.Y2)
	case VectorRect:
		minX, minY = v.X, v.Y
		maxX, maxY = v.X+v.W, v.Y+v.H
	case VectorEllipse:
		minX, minY = v.X-v.R1, v.Y-v.R2
		maxX, maxY = v.X+v.R1, v.Y+v.R2
	case VectorPolyline:
		for i, p := range v.Points {
			if i == 0 {
				minX, maxX, minY, maxY = p.X, p.X, p.Y, p.Y
				continue
			}
			minX, maxX = min(minX, p.X), max(maxX, p.X)
			minY, maxY = min(minY, p.Y), max(maxY, p.Y)
		}
	}
	return minX, minY, maxX, maxY
}

// Clone returns a deep copy of the vector, excluding layout state.
func (v *Vector) Clone() *Vector {
	c := *v
	c.origSaved = false
	c.orig = [6]float64{}
	c.origPts = nil
	if len(v.Points) > 0 {
		c.Points = append([]Point(nil), v.Points...)
	}
	return &c
}
