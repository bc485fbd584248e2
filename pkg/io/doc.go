// Package io writes resolution results as JSON.
//
// # Graph
//
// [WriteJSON] serializes a [dag.DAG], typically the one built by
// deps.Graph:
//
//	{
//	  "meta": {"packages": 1, "cycles": false},
//	  "nodes": [
//	    {"id": "root", "row": 0, "kind": "virtual"},
//	    {"id": "express@4.18.2", "row": 1, "meta": {"name": "express", "version": "4.18.2"}}
//	  ],
//	  "edges": [
//	    {"from": "root", "to": "express@4.18.2"}
//	  ]
//	}
//
// # Report
//
// [NewReport] and [WriteReport] produce the summary printed by
// "offpack resolve --format json": every visited version with its
// requesters, optional dependencies, install scripts, and the requests
// that failed with a stable error code from [Classify].
package io
