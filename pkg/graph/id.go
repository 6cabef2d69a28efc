package graph

import (
	"crypto/sha256"
	"encoding/hex"
)

// NodeID is a content-addressed identifier for graph nodes: the SHA-256 of
// the path that created the node.
type NodeID [sha256.Size]byte

// ZeroID is the zero NodeID.
var ZeroID NodeID

// NewNodeID returns the ID of the node created at path.
func NewNodeID(path string) NodeID {
	return NodeID(sha256.Sum256([]byte(path)))
}

// IsZero reports whether id is the zero ID.
func (id NodeID) IsZero() bool {
	return id == ZeroID
}

func (id NodeID) String() string {
	return hex.EncodeToString(id[:])
}

// Short returns the first 8 hex digits.
func (id NodeID) Short() string {
	return id.String()[:8]
}

// SourceRef locates the script expression that produced a node.
type SourceRef struct {
	Line int `json:"line"`
	Col  int `json:"col"`
}
