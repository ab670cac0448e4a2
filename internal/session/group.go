package session

import "sync"

// Subscriber is one connection attached to a session's broadcast group.
type Subscriber interface {
	// Send queues an already-encoded event for delivery. Implementations
	// must not block: a subscriber that cannot accept the message is
	// responsible for its own teardown, never for stalling the group.
	Send(message []byte)
}

// Group is the set of connections attached to one session. Membership is
// mutated from different connection goroutines concurrently, so every
// operation locks; Broadcast snapshots the member list before fanning out.
type Group struct {
	mu      sync.Mutex
	members map[Subscriber]struct{}
}

func NewGroup() *Group {
	return &Group{members: make(map[Subscriber]struct{})}
}

func (that *Group) Attach(sub Subscriber) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.members[sub] = struct{}{}
}

// Detach removes sub from the group. Detaching a subscriber that was never
// attached is a no-op, which keeps double-cleanup on error paths harmless.
func (that *Group) Detach(sub Subscriber) {
	that.mu.Lock()
	defer that.mu.Unlock()

	delete(that.members, sub)
}

func (that *Group) Len() int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return len(that.members)
}

// Broadcast delivers message to every currently-attached subscriber.
// The member set is snapshotted under the lock, so a concurrent attach or
// detach never faults the iteration; delivery itself is a non-blocking
// enqueue per member.
func (that *Group) Broadcast(message []byte) {
	that.mu.Lock()
	members := make([]Subscriber, 0, len(that.members))
	for member := range that.members {
		members = append(members, member)
	}
	that.mu.Unlock()

	for _, member := range members {
		member.Send(message)
	}
}
