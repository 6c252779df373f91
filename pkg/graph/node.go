package graph

import "strconv"

// NodeID addresses a node in the graph arena.
type NodeID int32

// NoNode is the zero reference. It never addresses a live node.
const NoNode NodeID = -1

// Valid reports whether id could address a node.
func (id NodeID) Valid() bool { return id >= 0 }

// key is the vertex ID used in the connectivity graph.
func (id NodeID) key() string { return "n" + strconv.Itoa(int(id)) }

func parseKey(k string) (NodeID, bool) {
	if len(k) < 2 || k[0] != 'n' {
		return NoNode, false
	}
	n, err := strconv.Atoi(k[1:])
	if err != nil {
		return NoNode, false
	}
	return NodeID(n), true
}

// NodeKind enumerates the types of nodes in the design graph.
type NodeKind int

const (
	KindModule    NodeKind = iota // functional hardware block
	KindInterface                 // connection point
	KindParameter                 // constrained value slot
	KindNet                       // named equivalence class of interfaces
)

func (k NodeKind) String() string {
	switch k {
	case KindModule:
		return "module"
	case KindInterface:
		return "interface"
	case KindParameter:
		return "parameter"
	case KindNet:
		return "net"
	default:
		return "unknown"
	}
}

// Node is the fundamental element of the design graph.
type Node struct {
	ID   NodeID
	Kind NodeKind
	Name string

	// Type is the stable type tag used for layout and picker dispatch.
	// Lineage lists the tags this type specialises, nearest first.
	Type    string
	Lineage []string

	Parent NodeID
	Traits Traits

	children []NodeID
	index    map[string]NodeID
	param    Constraint
}

// Is reports whether the node's type or lineage carries tag.
func (n *Node) Is(tag string) bool {
	if n.Type == tag {
		return true
	}
	for _, t := range n.Lineage {
		if t == tag {
			return true
		}
	}
	return false
}
