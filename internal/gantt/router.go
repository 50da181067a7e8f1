package gantt

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/ganttline/internal/domain"
)

const (
	// ConnectorStub is the horizontal run out of the predecessor's end.
	ConnectorStub = 10.0
	// ArrowGap stops the final segment short of the successor for the arrowhead.
	ArrowGap = 5.0
)

// Point is a pixel coordinate.
type Point struct {
	X float64
	Y float64
}

// Connector is the routed orthogonal path of one dependency edge.
type Connector struct {
	PredecessorID string
	SuccessorID   string
	Type          domain.DependencyType
	LagDays       int
	Critical      bool
	Points        []Point
}

// Path renders the connector as an SVG path string ("M x y H x V y H x").
func (c Connector) Path() string {
	if len(c.Points) != 4 {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "M %s %s", fmtPx(c.Points[0].X), fmtPx(c.Points[0].Y))
	fmt.Fprintf(&b, " H %s", fmtPx(c.Points[1].X))
	fmt.Fprintf(&b, " V %s", fmtPx(c.Points[2].Y))
	fmt.Fprintf(&b, " H %s", fmtPx(c.Points[3].X))
	return b.String()
}

// MarkerGeometry is the single arrowhead shape reused by every connector.
type MarkerGeometry struct {
	ID      string
	Width   float64
	Height  float64
	RefX    float64
	RefY    float64
	Polygon string
}

// ArrowMarker is the shared arrowhead definition.
var ArrowMarker = MarkerGeometry{
	ID:      "gantt-arrow",
	Width:   6,
	Height:  6,
	RefX:    0,
	RefY:    3,
	Polygon: "0 0, 6 3, 0 6",
}

// RouteDependencies routes every edge whose endpoints both have a bar.
// Edges touching a hidden, missing or undated task are skipped, as are
// self-edges.
func RouteDependencies(edges []domain.DependencyEdge, bars []TaskBar) []Connector {
	byID := make(map[string]TaskBar, len(bars))
	for _, b := range bars {
		byID[b.TaskID] = b
	}

	connectors := make([]Connector, 0, len(edges))
	for _, e := range edges {
		if e.PredecessorID == e.SuccessorID {
			continue
		}
		pred, ok := byID[e.PredecessorID]
		if !ok {
			continue
		}
		succ, ok := byID[e.SuccessorID]
		if !ok {
			continue
		}
		connectors = append(connectors, route(e, pred, succ))
	}
	return connectors
}

func route(e domain.DependencyEdge, pred, succ TaskBar) Connector {
	startX := pred.Right()
	startY := pred.MidY()
	elbowX := startX + ConnectorStub
	endY := succ.MidY()
	endX := succ.Left - ArrowGap

	return Connector{
		PredecessorID: e.PredecessorID,
		SuccessorID:   e.SuccessorID,
		Type:          e.Type,
		LagDays:       e.LagDays,
		Critical:      pred.Critical && succ.Critical,
		Points: []Point{
			{X: startX, Y: startY},
			{X: elbowX, Y: startY},
			{X: elbowX, Y: endY},
			{X: endX, Y: endY},
		},
	}
}

// fmtPx formats a pixel value without trailing zeros.
func fmtPx(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
