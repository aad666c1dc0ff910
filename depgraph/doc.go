// Package depgraph is the dependency graph collaborator (spec §4.4): an
// arena-with-indices directed graph recording which variables and which
// sentinel kind-roots a cluster depends on, and which methods consumed which
// clusters to produce which others. Package solver consults it to find
// candidate inputs for a rewrite rule and to cascade removal when a variable
// or cluster is retracted.
//
// The locking discipline — one RWMutex guarding the vertex catalog, a second
// guarding edges and adjacency — is carried over from the graph library the
// rest of this module's dependency bookkeeping is grounded on, even though
// the solver itself drives this graph synchronously (spec §5).
package depgraph
