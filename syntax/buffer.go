package syntax

// Buffer is the growable store a program is built in. Nodes are
// addressed by Offset; a *Node handed out by Buffer is only good until
// the next call that adds a node, since the backing array may move.
//
// Nodes are threaded in program order through their next links, which
// is also the order Nodes reports. Slots are never freed.
type Buffer struct {
	nodes []Node
	head  Offset
	last  Offset
}

// NewBuffer returns an empty buffer with room for size nodes.
func NewBuffer(size int) *Buffer {
	return &Buffer{
		nodes: make([]Node, 0, size),
		head:  NoOffset,
		last:  NoOffset,
	}
}

func (b *Buffer) alloc(t SyntaxType) Offset {
	off := Offset(len(b.nodes))
	b.nodes = append(b.nodes, Node{
		Type: t,
		self: off,
		next: NoOffset,
		prev: NoOffset,
		alt:  NoOffset,
	})
	return off
}

// Append adds a node of type t at the end of the program.
func (b *Buffer) Append(t SyntaxType) *Node {
	off := b.alloc(t)
	if b.last != NoOffset {
		b.nodes[b.last].next = off
		b.nodes[off].prev = b.last
	} else {
		b.head = off
	}
	b.last = off
	return &b.nodes[off]
}

// InsertAfter splices a node of type t in right after the node at
// after, or at the head of the program when after is NoOffset.
func (b *Buffer) InsertAfter(after Offset, t SyntaxType) *Node {
	off := b.alloc(t)
	n := &b.nodes[off]
	if after == NoOffset {
		n.next = b.head
		b.head = off
	} else {
		n.next = b.nodes[after].next
		n.prev = after
		b.nodes[after].next = off
	}
	if n.next != NoOffset {
		b.nodes[n.next].prev = off
	}
	if after == b.last {
		b.last = off
	}
	return n
}

// At returns the node at off, or nil for NoOffset.
func (b *Buffer) At(off Offset) *Node {
	if off == NoOffset {
		return nil
	}
	return &b.nodes[off]
}

// Len is the number of nodes in the buffer.
func (b *Buffer) Len() int {
	return len(b.nodes)
}

// Head is the first node of the program.
func (b *Buffer) Head() Offset {
	return b.head
}

// Last is the final node of the program.
func (b *Buffer) Last() Offset {
	return b.last
}

// following returns the node that currently comes after pred; a NoOffset
// pred stands for the position before the head.
func (b *Buffer) following(pred Offset) Offset {
	if pred == NoOffset {
		return b.head
	}
	return b.nodes[pred].next
}

// Nodes returns the nodes in program order.
func (b *Buffer) Nodes() []*Node {
	out := make([]*Node, 0, len(b.nodes))
	for off := b.head; off != NoOffset; off = b.nodes[off].next {
		out = append(out, &b.nodes[off])
	}
	return out
}
