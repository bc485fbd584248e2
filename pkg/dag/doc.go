// Package dag provides the directed graph used to export resolved
// dependency sets.
//
// # Overview
//
// Each node is a concrete package version ("name@version") and each edge
// points from a requester to the version it pulled in. A virtual root node
// stands for the user's input list. Graphs built from npm data may contain
// cycles between versions, so nothing here assumes acyclicity; call
// [DAG.HasCycle] when it matters.
//
// # Basic Usage
//
//	g := dag.New(nil)
//	g.AddNode(dag.Node{ID: "app@1.0.0"})
//	g.AddNode(dag.Node{ID: "lib@2.1.0"})
//	g.AddEdge(dag.Edge{From: "app@1.0.0", To: "lib@2.1.0"})
//	g.AssignRows()
//
// Query the graph structure with [DAG.Children], [DAG.Parents],
// [DAG.NodesInRow], and related methods. Nodes and edges are returned in
// insertion order so output derived from a graph is deterministic.
//
// # Rows
//
// [DAG.AssignRows] sets each node's Row to its shortest distance from a
// source. Renderers use rows to rank nodes of equal depth together.
//
// # Metadata
//
// Both nodes and the graph itself support arbitrary metadata via [Metadata]
// maps, e.g. "version", "install_script" or "virtual". Metadata maps are
// never nil after creation.
//
// # Concurrency
//
// DAG instances are not safe for concurrent use. Build the graph from a
// finished resolution, then read it from as many goroutines as needed.
package dag
