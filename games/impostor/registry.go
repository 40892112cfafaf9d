/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package impostor

import (
	"crypto/rand"
	"errors"
)

const (
	roomCodeLetters = "0123456789abcdefghijklmnopqrstuvwxyz"
	roomCodeLength  = 4
)

var ErrRoomNotFound = errors.New("room not found")

// Member is a connection's state within the room it has joined.
type Member struct {
	Name      string
	Ready     bool
	PlayAgain bool
}

// Round is one play of the game. ImpostorID never receives Word.
type Round struct {
	Word       string
	ImpostorID string
}

// Room groups members around a shared word pool. A room never exists
// without members, and OwnerID is always one of them.
type Room struct {
	ID      string
	Name    string
	OwnerID string
	Words   []string
	Round   *Round

	members map[string]*Member
	order   []string // connection ids in join order
}

func newRoom(id, name string) *Room {
	return &Room{
		ID:      id,
		Name:    name,
		Words:   []string{},
		members: make(map[string]*Member),
	}
}

// Member returns the member for a connection id.
func (r *Room) Member(connID string) (*Member, bool) {
	m, ok := r.members[connID]
	return m, ok
}

// MemberIDs returns connection ids in join order.
func (r *Room) MemberIDs() []string {
	ids := make([]string, len(r.order))
	copy(ids, r.order)
	return ids
}

func (r *Room) Len() int {
	return len(r.order)
}

// Active reports whether a round is in progress.
func (r *Room) Active() bool {
	return r.Round != nil
}

func (r *Room) add(connID, name string) {
	if _, ok := r.members[connID]; !ok {
		r.order = append(r.order, connID)
	}
	r.members[connID] = &Member{Name: name}
}

func (r *Room) remove(connID string) bool {
	if _, ok := r.members[connID]; !ok {
		return false
	}
	delete(r.members, connID)

	dst := r.order[:0]
	for _, id := range r.order {
		if id != connID {
			dst = append(dst, id)
		}
	}
	r.order = dst

	return true
}

// Registry owns every room, keyed by room code, plus a reverse index from
// connection id to the room that connection is in. It is not safe for
// concurrent use; callers serialize access.
type Registry struct {
	rooms  map[string]*Room
	order  []string          // room ids in creation order
	byConn map[string]string // connection id -> room id

	newCode func() string
}

func NewRegistry() *Registry {
	return &Registry{
		rooms:   make(map[string]*Room),
		byConn:  make(map[string]string),
		newCode: newRoomCode,
	}
}

// newRoomCode returns a short crypto-random room code.
func newRoomCode() string {
	buf := make([]byte, roomCodeLength)
	if _, err := rand.Read(buf); err != nil {
		panic("crypto/rand failure: " + err.Error())
	}

	out := make([]byte, roomCodeLength)
	for i := range out {
		out[i] = roomCodeLetters[int(buf[i])%len(roomCodeLetters)]
	}

	return string(out)
}

// CreateRoom inserts a room with the founder as sole member and owner.
// The founder must not currently belong to another room.
func (reg *Registry) CreateRoom(name, founderID, founderName string) *Room {
	id := reg.newCode()
	for {
		if _, exists := reg.rooms[id]; !exists {
			break
		}
		id = reg.newCode()
	}

	room := newRoom(id, name)
	room.add(founderID, founderName)
	room.OwnerID = founderID

	reg.rooms[id] = room
	reg.order = append(reg.order, id)
	reg.byConn[founderID] = id

	return room
}

// JoinRoom adds a member to an existing room, replacing any earlier entry
// for the same connection. The connection must not belong to a different
// room.
func (reg *Registry) JoinRoom(roomID, connID, name string) (*Room, error) {
	room, ok := reg.rooms[roomID]
	if !ok {
		return nil, ErrRoomNotFound
	}

	room.add(connID, name)
	reg.byConn[connID] = roomID

	return room, nil
}

// RemoveMember drops a connection from a room. An owner who leaves is
// replaced by the earliest-joined remaining member, and a room left with
// no members is deleted. It returns the room and whether it still exists.
func (reg *Registry) RemoveMember(roomID, connID string) (*Room, bool) {
	room, ok := reg.rooms[roomID]
	if !ok {
		return nil, false
	}

	if !room.remove(connID) {
		return room, true
	}
	if reg.byConn[connID] == roomID {
		delete(reg.byConn, connID)
	}

	if room.Len() == 0 {
		reg.delete(roomID)

		return room, false
	}

	if room.OwnerID == connID {
		room.OwnerID = room.order[0]
	}

	return room, true
}

func (reg *Registry) delete(roomID string) {
	delete(reg.rooms, roomID)

	dst := reg.order[:0]
	for _, id := range reg.order {
		if id != roomID {
			dst = append(dst, id)
		}
	}
	reg.order = dst
}

// FindRoomContaining resolves the room a connection currently belongs to.
func (reg *Registry) FindRoomContaining(connID string) (string, bool) {
	id, ok := reg.byConn[connID]
	return id, ok
}

func (reg *Registry) Room(roomID string) (*Room, bool) {
	room, ok := reg.rooms[roomID]
	return room, ok
}

func (reg *Registry) Len() int {
	return len(reg.rooms)
}

// Rooms returns every room in creation order.
func (reg *Registry) Rooms() []*Room {
	rooms := make([]*Room, 0, len(reg.order))
	for _, id := range reg.order {
		rooms = append(rooms, reg.rooms[id])
	}
	return rooms
}

// Summaries lists every room with its member count, in creation order.
func (reg *Registry) Summaries() []RoomSummary {
	list := make([]RoomSummary, 0, len(reg.order))
	for _, room := range reg.Rooms() {
		list = append(list, RoomSummary{
			ID:    room.ID,
			Name:  room.Name,
			Count: room.Len(),
		})
	}
	return list
}
