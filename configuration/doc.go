// Package configuration implements the numeric "configuration collaborator"
// spec §6 describes: a mapping from a cluster's point variables to 2-D
// coordinates, together with the three algebraic operations the method
// executors in package method rely on — rigid alignment (Merge2D),
// similarity alignment (MergeScale2D), and restriction (Select) — plus
// Copy for the structural clone every merge executor starts from.
package configuration
