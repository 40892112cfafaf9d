/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package impostor

import (
	"strings"

	"github.com/rs/zerolog"
)

// Metrics receives lifecycle counts. Implementations must not block.
type Metrics interface {
	RoomCreated()
	RoundStarted()
	RoundEnded()
}

type nopMetrics struct{}

func (nopMetrics) RoomCreated()  {}
func (nopMetrics) RoundStarted() {}
func (nopMetrics) RoundEnded()   {}

// Stats is a point-in-time summary of the registry.
type Stats struct {
	Rooms        int
	Members      int
	ActiveRounds int
}

// Session maps inbound requests onto the registry and engine and emits the
// resulting notifications. Each call runs to completion before the next one
// may start; Session does no locking of its own.
type Session struct {
	rooms   *Registry
	engine  *Engine
	out     *Coordinator
	metrics Metrics
	log     zerolog.Logger
}

type Option func(*Session)

func WithMetrics(m Metrics) Option {
	return func(s *Session) {
		s.metrics = m
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(s *Session) {
		s.log = l
	}
}

// WithRand sets the source used to pick words and impostors.
func WithRand(intn func(n int) int) Option {
	return func(s *Session) {
		s.engine = NewEngine(intn)
	}
}

func NewSession(pub Publisher, opts ...Option) *Session {
	s := &Session{
		rooms:   NewRegistry(),
		engine:  NewEngine(nil),
		out:     NewCoordinator(pub),
		metrics: nopMetrics{},
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Registry exposes the room registry for inspection.
func (s *Session) Registry() *Registry {
	return s.rooms
}

func (s *Session) Stats() Stats {
	st := Stats{Rooms: s.rooms.Len()}
	for _, room := range s.rooms.Rooms() {
		st.Members += room.Len()
		if room.Active() {
			st.ActiveRounds++
		}
	}
	return st
}

// Handle dispatches one inbound message. Unknown types are ignored.
func (s *Session) Handle(connID string, msg ClientMessage) {
	switch msg.Type {
	case TypeRequestRoomList:
		s.out.RoomListTo(connID, s.rooms)
	case TypeCreateRoom:
		s.CreateRoom(connID, msg.RoomName, msg.PlayerName)
	case TypeJoinRoom:
		s.JoinRoom(connID, msg.RoomID, msg.PlayerName)
	case TypeLeaveRoom:
		s.LeaveRoom(connID)
	case TypeToggleReady:
		s.ToggleReady(connID)
	case TypePlayAgain:
		s.PlayAgain(connID)
	case TypeUpdateWords:
		// A missing words field is not a request to clear the pool.
		if msg.Words == nil {
			return
		}
		s.UpdateWords(connID, StringsOnly(msg.Words))
	default:
		s.log.Debug().Str("conn", connID).Str("type", msg.Type).Msg("ROOMS: Ignoring unknown message type")
	}
}

// Connect greets a new connection with its id and the current room list.
func (s *Session) Connect(connID string) {
	s.out.SessionInfo(connID)
	s.out.RoomListTo(connID, s.rooms)
}

// Disconnect removes the connection from whatever room it is in. It is safe
// to call for connections that never joined a room.
func (s *Session) Disconnect(connID string) {
	s.leave(connID)
}

// CreateRoom opens a new room owned by connID. It returns false, changing
// nothing, if either name is blank.
func (s *Session) CreateRoom(connID, roomName, playerName string) (string, bool) {
	roomName = strings.TrimSpace(roomName)
	playerName = strings.TrimSpace(playerName)
	if roomName == "" || playerName == "" {
		return "", false
	}

	s.leave(connID)

	room := s.rooms.CreateRoom(roomName, connID, playerName)
	s.metrics.RoomCreated()

	s.log.Info().Str("room", room.ID).Str("conn", connID).Msgf("ROOMS: Created %q", roomName)

	s.out.RoomList(s.rooms)
	s.out.RoomData(room)
	s.out.Joined(connID, room)

	return room.ID, true
}

// JoinRoom adds connID to an existing room. Joins are accepted while a
// round is active; the newcomer simply sits out until the next one.
func (s *Session) JoinRoom(connID, roomID, playerName string) bool {
	playerName = strings.TrimSpace(playerName)
	if playerName == "" {
		return false
	}
	if _, ok := s.rooms.Room(roomID); !ok {
		s.log.Debug().Err(ErrRoomNotFound).Str("room", roomID).Str("conn", connID).Msg("ROOMS: Dropping join")
		return false
	}

	if current, ok := s.rooms.FindRoomContaining(connID); ok && current != roomID {
		s.leave(connID)
	}

	// Leaving another room never removes roomID, so the lookup above holds.
	room, err := s.rooms.JoinRoom(roomID, connID, playerName)
	if err != nil {
		return false
	}

	s.log.Info().Str("room", room.ID).Str("conn", connID).Msgf("ROOMS: Player %q joined", playerName)

	s.out.RoomList(s.rooms)
	s.out.RoomData(room)
	s.out.Joined(connID, room)

	return true
}

// LeaveRoom removes connID from its room and acknowledges it.
func (s *Session) LeaveRoom(connID string) {
	if roomID, ok := s.leave(connID); ok {
		s.out.Left(connID, roomID)
	}
}

// leave removes connID from its room, handing off ownership or deleting the
// room as needed. Remaining members are re-checked against the smaller
// room: a departure can complete both the ready set and the play-again set.
func (s *Session) leave(connID string) (string, bool) {
	roomID, ok := s.rooms.FindRoomContaining(connID)
	if !ok {
		return "", false
	}

	previousOwner := ""
	if room, ok := s.rooms.Room(roomID); ok {
		previousOwner = room.OwnerID
	}

	room, exists := s.rooms.RemoveMember(roomID, connID)
	if !exists {
		s.log.Info().Str("room", roomID).Msg("ROOMS: Removed empty room")
		s.out.RoomList(s.rooms)
		return roomID, true
	}

	if room.OwnerID != previousOwner {
		s.log.Info().Str("room", roomID).Str("conn", room.OwnerID).Msg("ROOMS: Transferred ownership")
	}

	ended := s.endRound(room)
	started := !ended && s.startRound(room)

	s.out.RoomData(room)
	if started {
		s.out.RoundStart(room)
	}
	s.out.RoomList(s.rooms)

	return roomID, true
}

// ToggleReady flips the caller's ready flag and runs the start check.
func (s *Session) ToggleReady(connID string) {
	room, member, ok := s.memberOf(connID)
	if !ok {
		return
	}

	member.Ready = !member.Ready
	started := s.startRound(room)

	s.out.RoomData(room)
	if started {
		s.out.RoundStart(room)
	}
}

// PlayAgain records the caller's vote for another round and runs the end
// check. Votes outside an active round are ignored.
func (s *Session) PlayAgain(connID string) {
	room, member, ok := s.memberOf(connID)
	if !ok || !room.Active() || member.PlayAgain {
		return
	}

	member.PlayAgain = true
	s.endRound(room)

	s.out.RoomData(room)
}

// UpdateWords replaces the room's word pool. Only the owner may do this;
// anyone else is ignored.
func (s *Session) UpdateWords(connID string, words []string) {
	roomID, ok := s.rooms.FindRoomContaining(connID)
	if !ok {
		return
	}
	room, ok := s.rooms.Room(roomID)
	if !ok || room.OwnerID != connID {
		return
	}

	room.Words = NormalizeWords(words)

	s.log.Debug().Str("room", roomID).Int("words", len(room.Words)).Msg("ROOMS: Updated word pool")

	s.out.RoomData(room)
}

func (s *Session) memberOf(connID string) (*Room, *Member, bool) {
	roomID, ok := s.rooms.FindRoomContaining(connID)
	if !ok {
		return nil, nil, false
	}
	room, ok := s.rooms.Room(roomID)
	if !ok {
		return nil, nil, false
	}
	member, ok := room.Member(connID)
	if !ok {
		return nil, nil, false
	}
	return room, member, true
}

func (s *Session) startRound(room *Room) bool {
	if !s.engine.Start(room) {
		return false
	}
	s.metrics.RoundStarted()
	s.log.Info().Str("room", room.ID).Int("players", room.Len()).Msg("ROUND: Started")
	return true
}

func (s *Session) endRound(room *Room) bool {
	if !s.engine.End(room) {
		return false
	}
	s.metrics.RoundEnded()
	s.log.Info().Str("room", room.ID).Msg("ROUND: Ended")
	return true
}
