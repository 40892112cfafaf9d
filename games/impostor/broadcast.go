/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package impostor

// Publisher delivers outbound messages. Broadcast reaches every connected
// client; Send reaches a single connection and is a no-op for unknown ids.
type Publisher interface {
	Broadcast(msg any)
	Send(connID string, msg any)
}

// Coordinator turns registry and engine state into outbound messages and
// decides who receives each one.
type Coordinator struct {
	pub Publisher
}

func NewCoordinator(pub Publisher) *Coordinator {
	return &Coordinator{pub: pub}
}

func (c *Coordinator) SessionInfo(connID string) {
	c.pub.Send(connID, SessionInfoMessage{
		Type:         "session_info",
		ConnectionID: connID,
	})
}

func roomList(reg *Registry) RoomListMessage {
	return RoomListMessage{
		Type:  "room_list",
		Rooms: reg.Summaries(),
	}
}

// RoomList sends the room summaries to every connected client.
func (c *Coordinator) RoomList(reg *Registry) {
	c.pub.Broadcast(roomList(reg))
}

// RoomListTo sends the room summaries to one connection.
func (c *Coordinator) RoomListTo(connID string, reg *Registry) {
	c.pub.Send(connID, roomList(reg))
}

func roomData(room *Room) RoomDataMessage {
	players := make([]PlayerState, 0, room.Len())
	for _, id := range room.order {
		m := room.members[id]
		players = append(players, PlayerState{
			ID:        id,
			Name:      m.Name,
			Ready:     m.Ready,
			PlayAgain: m.PlayAgain,
		})
	}

	words := make([]string, len(room.Words))
	copy(words, room.Words)

	return RoomDataMessage{
		Type:        "room_data",
		Players:     players,
		Owner:       room.OwnerID,
		GameStarted: room.Active(),
		Words:       words,
	}
}

// RoomData sends the room snapshot to each of its members.
func (c *Coordinator) RoomData(room *Room) {
	msg := roomData(room)
	for _, id := range room.order {
		c.pub.Send(id, msg)
	}
}

// RoundStart sends each member its own copy of the round. The impostor's
// copy carries no word, so it is never broadcast to the room as a whole.
func (c *Coordinator) RoundStart(room *Room) {
	if room.Round == nil {
		return
	}

	for _, id := range room.order {
		if id == room.Round.ImpostorID {
			c.pub.Send(id, GameStartMessage{
				Type:       "game_start",
				IsImpostor: true,
			})
			continue
		}

		word := room.Round.Word
		c.pub.Send(id, GameStartMessage{
			Type: "game_start",
			Word: &word,
		})
	}
}

func (c *Coordinator) Joined(connID string, room *Room) {
	c.pub.Send(connID, JoinedRoomMessage{
		Type:     "joined_room",
		RoomID:   room.ID,
		RoomName: room.Name,
	})
}

func (c *Coordinator) Left(connID, roomID string) {
	c.pub.Send(connID, LeftRoomMessage{
		Type:   "left_room",
		RoomID: roomID,
	})
}
