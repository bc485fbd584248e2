package deps

import (
	"github.com/matzehuels/offpack/pkg/dag"
)

// RootNodeID is the graph node standing for the root requester.
const RootNodeID = "root"

// Graph exports the resolved versions in c as a graph: one node per
// visited (name, version) pair, a virtual root node, and an edge from every
// requester to each version it pulled in. Rows hold the shortest distance
// from the root. The graph metadata records whether versions depend on
// each other in a cycle.
func Graph(c *Cache) *dag.DAG {
	g := dag.New(dag.Metadata{"packages": c.Len()})
	_ = g.AddNode(dag.Node{ID: RootNodeID, Kind: dag.NodeKindVirtual})

	visited := c.Visited()
	for _, pv := range visited {
		e, _ := c.Entry(pv.Name)
		meta := dag.Metadata{"name": pv.Name, "version": pv.Version}
		if info := e.Metadata().Versions[pv.Version]; info != nil && info.HasInstallScript {
			meta["install_script"] = true
		}
		_ = g.AddNode(dag.Node{ID: pv.String(), Meta: meta})
	}

	for _, pv := range visited {
		e, _ := c.Entry(pv.Name)
		for _, r := range e.DependedBy(pv.Version) {
			_ = g.AddEdge(dag.Edge{From: requesterNodeID(r), To: pv.String()})
		}
	}

	g.AssignRows()
	g.Meta()["cycles"] = g.HasCycle()
	return g
}

func requesterNodeID(r Requester) string {
	if pv, ok := r.Package(); ok {
		return pv.String()
	}
	return RootNodeID
}
