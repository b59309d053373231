package chat

import (
	"sync"

	"github.com/vendora/realtime/domain/model"
)

// Session is one live connection as the broker sees it. The transport layer
// implements it; tests can implement it without any network.
type Session interface {
	Identity() model.Identity

	// Deliver hands an event to this connection. It must not block: slow
	// consumers are the transport's problem, not the broker's.
	Deliver(event *Event)
}

// RoomRegistry is the process-local broadcast group index. Rooms have no
// persisted state; they are rebuilt from scratch on every connect.
type RoomRegistry struct {
	mu      sync.RWMutex
	members map[string]map[Session]struct{}
	joined  map[Session]map[string]struct{}
}

func NewRoomRegistry() *RoomRegistry {
	return &RoomRegistry{
		members: make(map[string]map[Session]struct{}),
		joined:  make(map[Session]map[string]struct{}),
	}
}

func (r *RoomRegistry) Join(room string, s Session) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.members[room]; !ok {
		r.members[room] = make(map[Session]struct{})
	}
	r.members[room][s] = struct{}{}

	if _, ok := r.joined[s]; !ok {
		r.joined[s] = make(map[string]struct{})
	}
	r.joined[s][room] = struct{}{}
}

func (r *RoomRegistry) Leave(room string, s Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.leaveLocked(room, s)
}

// Remove drops the session from every room it joined. Only the connection
// owning the session may call it.
func (r *RoomRegistry) Remove(s Session) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for room := range r.joined[s] {
		r.leaveLocked(room, s)
	}
}

func (r *RoomRegistry) leaveLocked(room string, s Session) {
	if members, ok := r.members[room]; ok {
		delete(members, s)
		if len(members) == 0 {
			delete(r.members, room)
		}
	}
	if rooms, ok := r.joined[s]; ok {
		delete(rooms, room)
		if len(rooms) == 0 {
			delete(r.joined, s)
		}
	}
}

func (r *RoomRegistry) IsMember(room string, s Session) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.members[room][s]
	return ok
}

func (r *RoomRegistry) MemberCount(room string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.members[room])
}

// Broadcast delivers the event to every member of the room.
func (r *RoomRegistry) Broadcast(room string, event *Event) {
	for _, s := range r.snapshot(room) {
		s.Deliver(event)
	}
}

// BroadcastExcept delivers the event to every member of the room other than
// the given session.
func (r *RoomRegistry) BroadcastExcept(room string, event *Event, except Session) {
	for _, s := range r.snapshot(room) {
		if s == except {
			continue
		}
		s.Deliver(event)
	}
}

// snapshot copies the member set so delivery happens without holding the lock.
func (r *RoomRegistry) snapshot(room string) []Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members := r.members[room]
	out := make([]Session, 0, len(members))
	for s := range members {
		out = append(out, s)
	}
	return out
}
