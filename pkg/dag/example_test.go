package dag_test

import (
	"fmt"

	"github.com/matzehuels/offpack/pkg/dag"
)

func ExampleDAG_basic() {
	// A simple chain: app → lib → core
	g := dag.New(nil)
	_ = g.AddNode(dag.Node{ID: "app"})
	_ = g.AddNode(dag.Node{ID: "lib"})
	_ = g.AddNode(dag.Node{ID: "core"})
	_ = g.AddEdge(dag.Edge{From: "app", To: "lib"})
	_ = g.AddEdge(dag.Edge{From: "lib", To: "core"})
	g.AssignRows()

	fmt.Println("Nodes:", g.NodeCount())
	fmt.Println("Edges:", g.EdgeCount())
	fmt.Println("Rows:", g.RowIDs())
	// Output:
	// Nodes: 3
	// Edges: 2
	// Rows: [0 1 2]
}

func ExampleDAG_traversal() {
	// Fan-out: app depends on auth and cache
	g := dag.New(nil)
	_ = g.AddNode(dag.Node{ID: "app"})
	_ = g.AddNode(dag.Node{ID: "auth"})
	_ = g.AddNode(dag.Node{ID: "cache"})
	_ = g.AddEdge(dag.Edge{From: "app", To: "auth"})
	_ = g.AddEdge(dag.Edge{From: "app", To: "cache"})

	fmt.Println("Children of app:", g.Children("app"))
	fmt.Println("Sources:", len(g.Sources()))
	// Output:
	// Children of app: [auth cache]
	// Sources: 1
}

func ExampleDAG_HasCycle() {
	// npm allows versions to depend on each other
	g := dag.New(nil)
	_ = g.AddNode(dag.Node{ID: "a@1.0.0"})
	_ = g.AddNode(dag.Node{ID: "b@1.0.0"})
	_ = g.AddEdge(dag.Edge{From: "a@1.0.0", To: "b@1.0.0"})
	fmt.Println(g.HasCycle())

	_ = g.AddEdge(dag.Edge{From: "b@1.0.0", To: "a@1.0.0"})
	fmt.Println(g.HasCycle())
	// Output:
	// false
	// true
}
