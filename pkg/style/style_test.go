package style

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestParamApplicability(t *testing.T) {
	tests := []struct {
		param     Param
		forNodes  bool
		forEdges  bool
		wantNode  NodeFeatures
		wantEdges EdgeFeatures
	}{
		{ParamHandleLength, true, true, NodeHandleLength, EdgeHandleLength},
		{ParamCrossingDistance, true, true, NodeCrossingDistance, EdgeCrossingDistance},
		{ParamCuspAngle, true, false, NodeCuspAngle, 0},
		{ParamCuspDistance, true, false, NodeCuspDistance, 0},
		{ParamEdgeSlide, false, true, 0, EdgeSlideOffset},
	}

	for _, tt := range tests {
		t.Run(tt.param.String(), func(t *testing.T) {
			if got := tt.param.ForNodes(); got != tt.forNodes {
				t.Errorf("ForNodes() = %v, want %v", got, tt.forNodes)
			}
			if got := tt.param.ForEdges(); got != tt.forEdges {
				t.Errorf("ForEdges() = %v, want %v", got, tt.forEdges)
			}
			if got := tt.param.NodeFeature(); got != tt.wantNode {
				t.Errorf("NodeFeature() = %v, want %v", got, tt.wantNode)
			}
			if got := tt.param.EdgeFeature(); got != tt.wantEdges {
				t.Errorf("EdgeFeature() = %v, want %v", got, tt.wantEdges)
			}
		})
	}
}

func TestParseParam(t *testing.T) {
	for _, p := range Params() {
		got, err := ParseParam(p.String())
		if err != nil || got != p {
			t.Errorf("ParseParam(%q) = %v, %v", p.String(), got, err)
		}
	}

	if got, err := ParseParam("cusp_angle"); err != nil || got != ParamCuspAngle {
		t.Errorf("ParseParam(cusp_angle) = %v, %v", got, err)
	}

	if _, err := ParseParam("width"); !errors.Is(err, ErrUnknownParam) {
		t.Errorf("ParseParam(width) error = %v, want ErrUnknownParam", err)
	}
}

func TestNodeStyleGetSet(t *testing.T) {
	var s NodeStyle
	for i, p := range Params() {
		s.Set(p, float64(i+1))
	}

	if s.HandleLength != 1 || s.CrossingDistance != 2 || s.CuspAngle != 3 || s.CuspDistance != 4 {
		t.Errorf("unexpected style after Set: %+v", s)
	}
	if got := s.Get(ParamEdgeSlide); got != 0 {
		t.Errorf("Get(edge-slide) = %v, want 0", got)
	}
}

func TestEdgeStyleGetSet(t *testing.T) {
	var s EdgeStyle
	s.Set(ParamEdgeSlide, 0.25)
	s.Set(ParamCuspAngle, 90)

	if s.EdgeSlide != 0.25 {
		t.Errorf("EdgeSlide = %v, want 0.25", s.EdgeSlide)
	}
	if got := s.Get(ParamCuspAngle); got != 0 {
		t.Errorf("Get(cusp-angle) = %v, want 0", got)
	}
}

func TestNodeStyleResolve(t *testing.T) {
	def := DefaultNodeStyle()
	s := NodeStyle{CuspAngle: 180, CuspShape: CuspOgee, HandleLength: 99, Enabled: NodeCuspAngle | NodeShape}

	got := s.Resolve(def)

	if got.CuspAngle != 180 {
		t.Errorf("CuspAngle = %v, want 180", got.CuspAngle)
	}
	if got.CuspShape != CuspOgee {
		t.Errorf("CuspShape = %v, want ogee", got.CuspShape)
	}
	if got.HandleLength != def.HandleLength {
		t.Errorf("HandleLength = %v, want inherited %v", got.HandleLength, def.HandleLength)
	}
	if got.Enabled != NodeAll {
		t.Errorf("Enabled = %v, want all", got.Enabled)
	}
}

func TestEdgeStyleResolve(t *testing.T) {
	def := DefaultEdgeStyle()
	s := EdgeStyle{Type: EdgeWall, EdgeSlide: 0.1}

	if got := s.Resolve(def); got != def {
		t.Errorf("Resolve() with nothing enabled = %+v, want defaults", got)
	}

	s.Enabled = EdgeKind
	if got := s.Resolve(def); got.Type != EdgeWall || got.EdgeSlide != def.EdgeSlide {
		t.Errorf("Resolve() = %+v, want wall type with default slide", got)
	}
}

func TestFeatureStrings(t *testing.T) {
	if got := NodeNothing.String(); got != "none" {
		t.Errorf("NodeNothing.String() = %q", got)
	}
	if got := (NodeCuspAngle | NodeShape).String(); got != "cusp-angle|cusp-shape" {
		t.Errorf("String() = %q", got)
	}
	if got := (EdgeKind).String(); got != "edge-type" {
		t.Errorf("String() = %q", got)
	}
}

func TestVariantText(t *testing.T) {
	type doc struct {
		Shape CuspShape  `json:"shape"`
		Type  EdgeType   `json:"type"`
		Join  JoinStyle  `json:"join"`
		Brush BrushStyle `json:"brush"`
	}

	in := doc{Shape: CuspPolygonal, Type: EdgeHole, Join: JoinRound, Brush: BrushDiagCross}
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := `{"shape":"polygonal","type":"hole","join":"round","brush":"diagcross"}`
	if string(data) != want {
		t.Errorf("Marshal = %s, want %s", data, want)
	}

	var out doc
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if out != in {
		t.Errorf("Unmarshal = %+v, want %+v", out, in)
	}
}

func TestParseEdgeTypeAlias(t *testing.T) {
	got, err := ParseEdgeType("Normal")
	if err != nil || got != EdgeRegular {
		t.Errorf("ParseEdgeType(Normal) = %v, %v", got, err)
	}
	if _, err := ParseEdgeType("bridge"); !errors.Is(err, ErrUnknownVariant) {
		t.Errorf("ParseEdgeType(bridge) error = %v, want ErrUnknownVariant", err)
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    Color
		wantErr bool
	}{
		{in: "#000000", want: Color{A: 255}},
		{in: "ff8000", want: Color{R: 255, G: 128, A: 255}},
		{in: "#11223344", want: Color{R: 0x11, G: 0x22, B: 0x33, A: 0x44}},
		{in: "#123", wantErr: true},
		{in: "#zzzzzz", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseColor() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseColor() = %+v, want %+v", got, tt.want)
			}
		})
	}

	if got := (Color{R: 255, A: 255}).String(); got != "#ff0000" {
		t.Errorf("String() = %q", got)
	}
	if got := (Color{R: 255, A: 16}).String(); got != "#ff000010" {
		t.Errorf("String() = %q", got)
	}
}

func TestDisplayCloneEqual(t *testing.T) {
	d := DefaultDisplay()
	d.Borders = []Border{{Color: Black, Width: 2}}

	c := d.Clone()
	if !c.Equal(d) {
		t.Fatal("clone should equal original")
	}

	c.Colors[0] = Color{R: 1, A: 255}
	if d.Colors[0] != Black {
		t.Error("clone shares color storage with original")
	}
	if c.Equal(d) {
		t.Error("modified clone should not equal original")
	}
}

func TestStrandColor(t *testing.T) {
	red := Color{R: 255, A: 255}
	d := Display{Colors: []Color{Black, red}}

	if got := d.StrandColor(1); got != Black {
		t.Errorf("StrandColor(1) without custom colors = %v, want black", got)
	}
	d.CustomColors = true
	if got := d.StrandColor(3); got != red {
		t.Errorf("StrandColor(3) = %v, want red", got)
	}
	if got := (Display{}).StrandColor(0); got != Black {
		t.Errorf("StrandColor on empty display = %v, want black", got)
	}
}
