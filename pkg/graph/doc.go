// Package graph defines the hardware design graph for pixelcard.
//
// The graph is an arena of nodes addressed by NodeID. Modules, interfaces,
// parameters and nets form a strict ownership tree with ordered, uniquely
// named children. Interfaces are additionally joined by undirected
// electrical connections, kept in a separate connectivity graph. Each node
// carries a closed set of capability trait slots.
package graph
