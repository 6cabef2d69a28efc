package graph

// NodeKind enumerates the types of nodes in the design graph.
type NodeKind int

const (
	NodeBrush     NodeKind = iota // box brush
	NodeTransform                 // placement (translate, rotate)
	NodeCSG                       // union, intersect, subtract
	NodeHollow                    // walls of a solid
	NodeGroup                     // root assembly
)

func (k NodeKind) String() string {
	switch k {
	case NodeBrush:
		return "brush"
	case NodeTransform:
		return "transform"
	case NodeCSG:
		return "csg"
	case NodeHollow:
		return "hollow"
	case NodeGroup:
		return "group"
	default:
		return "unknown"
	}
}

// Node is the fundamental element of the design graph.
type Node struct {
	ID       NodeID    `json:"id"`
	Kind     NodeKind  `json:"kind"`
	Name     string    `json:"name,omitempty"`
	Source   SourceRef `json:"source"`
	Children []NodeID  `json:"children,omitempty"`
	Data     NodeData  `json:"data"`
}

// Label returns the node name, or its short ID when it has none.
func (n *Node) Label() string {
	if n.Name != "" {
		return n.Name
	}
	return n.ID.Short()
}

// NodeData is the interface for kind-specific node payloads.
type NodeData interface {
	nodeData() // marker method restricting implementations to this package
}
