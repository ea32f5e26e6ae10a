// Package style defines the value types describing how a knot diagram looks.
//
// # Overview
//
// Every node and edge of a knot graph carries a style, and the graph itself
// carries a pair of default styles plus a [Display] describing how the knot
// strokes are painted. All of these are plain values: they are copied, never
// shared, which is what lets undo commands keep exact before/after snapshots.
//
// # Inheritance
//
// [NodeStyle] and [EdgeStyle] carry an enabled-feature bitmask. A parameter
// whose bit is unset is not authoritative and inherits the diagram default:
//
//	eff := node.Style.Resolve(g.NodeStyle)
//
// # Parameters
//
// The numeric parameters are enumerated by [Param]. Commands that change one
// parameter over a selection use [NodeStyle.Get] and [NodeStyle.Set] (and the
// edge counterparts) instead of one accessor per field:
//
//	v := s.Get(style.ParamCuspAngle)
//	s.Set(style.ParamCuspAngle, v+15)
//
// # Closed Variants
//
// Cusp shapes, edge types, pen join styles and brush styles are small closed
// enumerations. They marshal to and from lower-case names so configuration
// files and documents stay readable.
package style
