package models

// Point is a position in world (simulation) coordinates.
type Point struct {
	X, Y float64
}

// Bounds is the visible world rectangle.
type Bounds struct {
	XMin, XMax, YMin, YMax float64
}

// Width returns the horizontal world extent.
func (b Bounds) Width() float64 { return b.XMax - b.XMin }

// Height returns the vertical world extent.
func (b Bounds) Height() float64 { return b.YMax - b.YMin }

// ShapeKind discriminates the drawable primitives.
type ShapeKind int

const (
	// A filled circle whose radius is in world units.
	CircleShape ShapeKind = iota
	// A line between From and To, stroked Width pixels wide.
	SegmentShape
	// A filled dot of Size pixels, independent of world scale.
	MarkerShape
)

func (kind ShapeKind) String() string {
	switch kind {
	case CircleShape:
		return "circle"
	case SegmentShape:
		return "segment"
	case MarkerShape:
		return "marker"
	}
	return "unknown"
}

// Shape is a single mutable drawable. Which fields matter depends on Kind:
// circles use From and Radius, segments use From, To and Width, markers use From and Size.
type Shape struct {
	ID     string
	Kind   ShapeKind
	From   Point
	To     Point
	Radius float64
	Width  float64
	Size   float64
	// Color is a css color name or hex value, understood by both svg and the rasterizer.
	Color string
}

// Scene is the fixed collection of shapes that playback moves around.
// Shapes are created once and only their positions change per frame.
type Scene struct {
	Title  string
	Bounds Bounds
	shapes []*Shape
	byID   map[string]*Shape
}

// NewScene returns an empty scene.
func NewScene(title string, bounds Bounds) *Scene {
	return &Scene{
		Title:  title,
		Bounds: bounds,
		byID:   map[string]*Shape{},
	}
}

// Add appends a shape; shapes are drawn in the order they were added.
// Adding an id twice replaces the earlier shape's entry in the index but not its draw slot.
func (sc *Scene) Add(shape *Shape) *Shape {
	sc.shapes = append(sc.shapes, shape)
	sc.byID[shape.ID] = shape
	return shape
}

// Shape returns the shape with @id, or nil.
func (sc *Scene) Shape(id string) *Shape {
	return sc.byID[id]
}

// Shapes returns the shapes in draw order.
func (sc *Scene) Shapes() []*Shape {
	return sc.shapes
}

// Clone returns a deep copy of the scene, so that a frame handed to a sink
// is not mutated by subsequent renders.
func (sc *Scene) Clone() *Scene {
	clone := NewScene(sc.Title, sc.Bounds)
	for _, shape := range sc.shapes {
		copied := *shape
		clone.Add(&copied)
	}
	return clone
}

// Field is a named scalar unpacked from a state vector, for captions and diagnostics.
type Field struct {
	Name  string
	Value float64
}

// Frame is one rendered snapshot of the scene, corresponding to one trace record.
type Frame struct {
	Index  int
	Total  int
	Fields []Field
	Scene  *Scene
}
