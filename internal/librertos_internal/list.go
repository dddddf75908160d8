// Intrusive, sentinel-based doubly linked list.

package librertos_internal

// Node is an intrusive list link embedded (by pointer) inside the owning
// record. A node is on at most one list at a time; Next/Prev are nil iff the
// node is detached, and List is nil iff detached. Removing a node that is
// not actually linked into its recorded List is undefined behavior: this
// package does not scan for membership to verify it.
type Node[T any] struct {
	next, prev *Node[T]
	list       *List[T]
	owner      *T
}

// NewNode returns a detached node owned by owner.
func NewNode[T any](owner *T) *Node[T] {
	return &Node[T]{owner: owner}
}

// Owner returns the record this node is embedded in.
func (n *Node[T]) Owner() *T {
	return n.owner
}

// List is a circular doubly linked list with a sentinel head/tail node and a
// length counter. head == &list.sentinel && tail == &list.sentinel iff
// length == 0. None of these operations are safe for concurrent use with
// other list operations on the same list; callers must hold the critical
// section (see critical.go).
type List[T any] struct {
	sentinel Node[T]
	length   int
}

// NewList returns an empty, initialized list.
func NewList[T any]() *List[T] {
	l := &List[T]{}
	l.Init()
	return l
}

// Init (re)initializes list to the empty state.
func (l *List[T]) Init() {
	l.sentinel.next = &l.sentinel
	l.sentinel.prev = &l.sentinel
	l.sentinel.list = nil
	l.length = 0
}

// Len returns the number of linked nodes.
func (l *List[T]) Len() int {
	return l.length
}

// Empty reports whether the list has no linked nodes.
func (l *List[T]) Empty() bool {
	return l.length == 0
}

// First returns the head node, or nil if the list is empty.
func (l *List[T]) First() *Node[T] {
	if l.length == 0 {
		return nil
	}
	return l.sentinel.next
}

// Last returns the tail node, or nil if the list is empty.
func (l *List[T]) Last() *Node[T] {
	if l.length == 0 {
		return nil
	}
	return l.sentinel.prev
}

// InsertAfter links node immediately after pos, which must already be linked
// into list (or be list's own sentinel, for InsertFirst).
func (l *List[T]) InsertAfter(pos, node *Node[T]) {
	node.next = pos.next
	node.prev = pos
	pos.next.prev = node
	pos.next = node
	node.list = l
	l.length++
}

// InsertBefore links node immediately before pos.
func (l *List[T]) InsertBefore(pos, node *Node[T]) {
	l.InsertAfter(pos.prev, node)
}

// InsertFirst links node at the head of the list.
func (l *List[T]) InsertFirst(node *Node[T]) {
	l.InsertAfter(&l.sentinel, node)
}

// InsertLast links node at the tail of the list.
func (l *List[T]) InsertLast(node *Node[T]) {
	l.InsertAfter(l.sentinel.prev, node)
}

// Remove unlinks node from whatever list it is on. ListOf(node) after Remove
// is nil.
func Remove[T any](node *Node[T]) {
	list := node.list
	node.next.prev = node.prev
	node.prev.next = node.next
	node.next = nil
	node.prev = nil
	node.list = nil
	if list != nil {
		list.length--
	}
}

// OnList reports whether node is currently linked into list.
func (l *List[T]) OnList(node *Node[T]) bool {
	return node.list == l
}

// ListOf returns the list node is currently linked into, or nil if detached.
func ListOf[T any](node *Node[T]) *List[T] {
	return node.list
}
