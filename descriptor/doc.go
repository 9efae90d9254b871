// Package descriptor reads the agent descriptors a graph is built from.
//
// The line format groups records by three: the agent type, a comma separated
// list of subscription topics and a comma separated list of publication
// topics. Either list may be empty:
//
//	PlusAgent
//	A,B
//	C
//	IncAgent
//	C
//	D
//
// The JSON format carries the same information as an array of objects, see
// Schema.
package descriptor
