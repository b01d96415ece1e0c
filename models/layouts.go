package models

// Layout maps the fields of a state vector onto the shapes of a scene.
// Each simulated system has its own field order and its own shapes.
type Layout interface {
	// Name identifies the layout, e.g. in config files.
	Name() string
	// Title is the caption shown above the animation.
	Title() string
	// FieldNames lists the state vector fields in record order; its length is the arity.
	FieldNames() []string
	// NewScene creates the shapes in their initial positions.
	NewScene() *Scene
	// Apply writes the fields of @vec into the shapes of @scene and returns the unpacked fields.
	Apply(scene *Scene, vec StateVector) []Field
}

// Layout names.
const (
	AgentLayoutName  = "agents"
	PaddleLayoutName = "pong"
)

// Flying agents world and shape sizes.
const (
	GameDimension        = 100.0
	AgentRadius          = 5.0
	TargetLocationRadius = 2.0
)

// Shape ids of the flying agents scene.
const (
	AgentID  = "agent"
	TargetID = "target"
)

// AgentLayout is the flying agents system:
// [agentX, agentY, agentVelX, agentVelY, targetLocationX, targetLocationY].
type AgentLayout struct{}

func (AgentLayout) Name() string  { return AgentLayoutName }
func (AgentLayout) Title() string { return "Genetic Algorithm: Flying Agents Visualization" }

func (AgentLayout) FieldNames() []string {
	return []string{"agentX", "agentY", "agentVelX", "agentVelY", "targetLocationX", "targetLocationY"}
}

func (layout AgentLayout) NewScene() *Scene {
	scene := NewScene(layout.Title(), Bounds{
		XMin: -GameDimension, XMax: GameDimension,
		YMin: -GameDimension, YMax: GameDimension,
	})
	scene.Add(&Shape{ID: AgentID, Kind: CircleShape, Radius: AgentRadius, Color: "black"})
	scene.Add(&Shape{ID: TargetID, Kind: CircleShape, Radius: TargetLocationRadius, Color: "red"})
	return scene
}

func (layout AgentLayout) Apply(scene *Scene, vec StateVector) []Field {
	agentX, agentY := vec[0], vec[1]
	targetLocationX, targetLocationY := vec[4], vec[5]

	scene.Shape(AgentID).From = Point{X: agentX, Y: agentY}
	scene.Shape(TargetID).From = Point{X: targetLocationX, Y: targetLocationY}
	return namedFields(layout.FieldNames(), vec)
}

// Pong world and paddle sizes. A paddle extends PaddleSize above and below its position.
const (
	GameXDimension = 1.0
	GameYDimension = 0.5
	PaddleSize     = 0.2
	// Margin around the court, as a fraction of each dimension.
	courtMargin = 1.1
)

// Shape ids of the pong scene.
const (
	BallID    = "ball"
	Paddle0ID = "paddle0"
	Paddle1ID = "paddle1"
)

// PaddleLayout is the pong system:
// [ballX, ballY, ballXVelocity, ballYVelocity, paddle0Position, paddle1Position].
// Paddle 0 sits at x = -GameXDimension and paddle 1 at x = +GameXDimension.
type PaddleLayout struct{}

func (PaddleLayout) Name() string  { return PaddleLayoutName }
func (PaddleLayout) Title() string { return "Genetic Algorithm: Pong Visualization" }

func (PaddleLayout) FieldNames() []string {
	return []string{"ballX", "ballY", "ballXVelocity", "ballYVelocity", "paddle0Position", "paddle1Position"}
}

func (layout PaddleLayout) NewScene() *Scene {
	scene := NewScene(layout.Title(), Bounds{
		XMin: -courtMargin * GameXDimension, XMax: courtMargin * GameXDimension,
		YMin: -courtMargin * GameYDimension, YMax: courtMargin * GameYDimension,
	})
	scene.Add(&Shape{
		ID:    Paddle0ID,
		Kind:  SegmentShape,
		From:  Point{X: -GameXDimension, Y: -PaddleSize},
		To:    Point{X: -GameXDimension, Y: PaddleSize},
		Width: 5,
		Color: "#1f77b4",
	})
	scene.Add(&Shape{
		ID:    Paddle1ID,
		Kind:  SegmentShape,
		From:  Point{X: GameXDimension, Y: -PaddleSize},
		To:    Point{X: GameXDimension, Y: PaddleSize},
		Width: 5,
		Color: "#ff7f0e",
	})
	scene.Add(&Shape{ID: BallID, Kind: MarkerShape, Size: 10, Color: "#2ca02c"})
	return scene
}

func (layout PaddleLayout) Apply(scene *Scene, vec StateVector) []Field {
	ballX, ballY := vec[0], vec[1]
	paddle0Position, paddle1Position := vec[4], vec[5]

	scene.Shape(BallID).From = Point{X: ballX, Y: ballY}
	setPaddle(scene.Shape(Paddle0ID), -GameXDimension, paddle0Position)
	setPaddle(scene.Shape(Paddle1ID), GameXDimension, paddle1Position)
	return namedFields(layout.FieldNames(), vec)
}

// setPaddle makes @paddle a vertical segment at @x centered on @position.
func setPaddle(paddle *Shape, x, position float64) {
	paddle.From = Point{X: x, Y: position - PaddleSize}
	paddle.To = Point{X: x, Y: position + PaddleSize}
}

func namedFields(names []string, vec StateVector) (fields []Field) {
	fields = make([]Field, len(names))
	for i, name := range names {
		fields[i] = Field{Name: name, Value: vec[i]}
	}
	return
}

// LayoutByName returns the layout registered under @name.
func LayoutByName(name string) (Layout, bool) {
	switch name {
	case AgentLayoutName:
		return AgentLayout{}, true
	case PaddleLayoutName:
		return PaddleLayout{}, true
	}
	return nil, false
}
