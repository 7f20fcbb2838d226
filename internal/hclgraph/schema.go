// Package hclgraph parses a declarative grid file into a runnable graph:
// module vertices, the edges between them, and the respawn policy to run
// them under.
package hclgraph

// gridConfig is the root of a grid file: zero or more module vertices,
// zero or more edges between them, and an optional respawn policy.
type gridConfig struct {
	Modules []moduleBlock `hcl:"module,block"`
	Edges   []edgeBlock   `hcl:"edge,block"`
	Respawn *respawnBlock `hcl:"respawn,block"`
}

// moduleBlock declares one vertex: `module "<name>" "<type>" { ... }`.
type moduleBlock struct {
	Name   string `hcl:"name,label"`
	Type   string `hcl:"type,label"`
	Strand string `hcl:"strand,optional"`
}

// edgeBlock declares a directed edge: `edge "<from>" "<to>" { capacity = N }`.
type edgeBlock struct {
	From     string `hcl:"from,label"`
	To       string `hcl:"to,label"`
	Capacity int    `hcl:"capacity,optional"`
}

// respawnBlock declares the pool-wide respawn policy. Calls == 0 means
// "run forever"; a grid with no respawn block at all fires each vertex
// once (respawn.Bounded(1)).
type respawnBlock struct {
	Calls uint64 `hcl:"calls,optional"`
}
