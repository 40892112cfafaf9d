/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package impostor

// Messages coming from clients
const (
	TypeRequestRoomList = "request_room_list"
	TypeCreateRoom      = "create_room"
	TypeJoinRoom        = "join_room"
	TypeLeaveRoom       = "leave_room"
	TypeToggleReady     = "toggle_ready"
	TypePlayAgain       = "play_again"
	TypeUpdateWords     = "update_words"
)

// ClientMessage is any inbound frame; which fields are set depends on Type.
type ClientMessage struct {
	Type       string `json:"type"`
	RoomName   string `json:"room_name,omitempty"`   // create_room
	PlayerName string `json:"player_name,omitempty"` // create_room / join_room
	RoomID     string `json:"room_id,omitempty"`     // join_room
	Words      []any  `json:"words,omitempty"`       // update_words
}

// SessionInfoMessage is sent once on connect so the client can recognize
// itself in room snapshots.
type SessionInfoMessage struct {
	Type         string `json:"type"` // "session_info"
	ConnectionID string `json:"connection_id"`
}

type RoomSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// RoomListMessage goes to every connected client.
type RoomListMessage struct {
	Type  string        `json:"type"` // "room_list"
	Rooms []RoomSummary `json:"rooms"`
}

// JoinedRoomMessage acknowledges a create or join to the requester only.
type JoinedRoomMessage struct {
	Type     string `json:"type"` // "joined_room"
	RoomID   string `json:"room_id"`
	RoomName string `json:"room_name"`
}

type LeftRoomMessage struct {
	Type   string `json:"type"` // "left_room"
	RoomID string `json:"room_id"`
}

type PlayerState struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Ready     bool   `json:"ready"`
	PlayAgain bool   `json:"play_again"`
}

// RoomDataMessage is the room-detail snapshot sent to members of one room.
type RoomDataMessage struct {
	Type        string        `json:"type"` // "room_data"
	Players     []PlayerState `json:"players"`
	Owner       string        `json:"owner"`
	GameStarted bool          `json:"game_started"`
	Words       []string      `json:"words"`
}

// GameStartMessage is personalized per member; Word is null for the impostor.
type GameStartMessage struct {
	Type       string  `json:"type"` // "game_start"
	Word       *string `json:"word"`
	IsImpostor bool    `json:"is_impostor"`
}
