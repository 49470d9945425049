// Package types defines the engineering-model node types, the capability
// interfaces shared by owned and scaled nodes, the command arguments and
// filter criteria, and the standard error values of the batch editor.
//
// Nodes reference each other by identity only. The graph that holds them
// lives in internal/model.
package types
