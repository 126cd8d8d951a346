// Package dag builds the stage dependency graph for one pipeline run,
// detects cycles, and partitions the stages into execution levels: ordered
// groups whose members only depend on stages in earlier groups.
package dag
