// Package io provides JSON and YAML import and export for knot diagrams.
//
// # Overview
//
// A [Document] is the serialized form of a [graph.Graph]: the diagram
// defaults, the display options, and the nodes and edges with their style
// overrides. Documents are what files, the document stores and the HTTP API
// exchange. The editor turns a document into a graph with
// editor.Editor.Load, which records the whole load as one undoable step.
//
// # JSON Format
//
//	{
//	  "version": 1,
//	  "node_style": {"handle_length": 24, ...},
//	  "edge_style": {"edge_slide": 0.5, "type": "regular", ...},
//	  "display": {"colors": ["#000000"], "width": 5, ...},
//	  "nodes": [
//	    {"id": "1", "x": 0, "y": 0},
//	    {"id": "2", "x": 40, "y": 0, "style": {"cusp_angle": 180, "enabled": 4}}
//	  ],
//	  "edges": [
//	    {"from": "1", "to": "2", "style": {"type": "wall", "enabled": 8}}
//	  ]
//	}
//
// Node IDs are arbitrary non-empty strings unique within the document.
// Edges reference them by ID. The YAML format uses the same field names.
//
// # Import and Export
//
// Use [Import] and [Export] for files; the codec is chosen by extension
// (.json, .yaml, .yml). [ReadJSON], [WriteJSON], [ReadYAML] and [WriteYAML]
// work on any reader or writer.
//
//	doc, err := io.Import("trefoil.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	err = io.Export(doc, "trefoil.json")
//
// Decoding validates the document: duplicate node IDs, edges with unknown
// endpoints and edges joining a node to itself are rejected with an error
// naming the offending entry.
package io
