package domain

// Node is a reference to a peer on the ring: its identifier and the
// address other peers dial to reach it. It is a plain value object —
// callers never embed a live connection in it, so it can be copied,
// stored in a finger table entry, and compared for equality freely. A
// client pool keyed by Addr is the only place a transport connection
// lives.
type Node struct {
	ID   ID     // position on the identifier ring
	Addr string // dial address, e.g. "10.0.0.4:7946"
}

// Equal reports whether two node references name the same peer.
func (n Node) Equal(other Node) bool {
	return n.ID.Equal(other.ID)
}
