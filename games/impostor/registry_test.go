/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package impostor

import (
	"errors"
	"testing"
)

func checkOwner(t *testing.T, room *Room) {
	t.Helper()

	if room.Len() == 0 {
		t.Fatalf("room %s exists with no members", room.ID)
	}
	if _, ok := room.Member(room.OwnerID); !ok {
		t.Fatalf("owner %q is not a member of %s", room.OwnerID, room.ID)
	}
}

func TestCreateRoom(t *testing.T) {
	reg := NewRegistry()

	room := reg.CreateRoom("Desert", "c1", "Ali")

	if len(room.ID) != roomCodeLength {
		t.Errorf("wrong code length expected: %d got: %d", roomCodeLength, len(room.ID))
	}
	if room.OwnerID != "c1" {
		t.Errorf("wrong owner expected: %v got: %v", "c1", room.OwnerID)
	}
	if room.Active() {
		t.Errorf("new room should be idle")
	}
	if got, ok := reg.FindRoomContaining("c1"); !ok || got != room.ID {
		t.Errorf("reverse index expected: %v got: %v", room.ID, got)
	}
	checkOwner(t, room)
}

func TestCreateRoomRetriesOnCollision(t *testing.T) {
	reg := NewRegistry()

	codes := []string{"aaaa", "aaaa", "aaaa", "bbbb"}
	reg.newCode = func() string {
		code := codes[0]
		codes = codes[1:]
		return code
	}

	first := reg.CreateRoom("one", "c1", "Ali")
	second := reg.CreateRoom("two", "c2", "Sara")

	if first.ID != "aaaa" || second.ID != "bbbb" {
		t.Errorf("expected ids aaaa and bbbb, got %v and %v", first.ID, second.ID)
	}
	if reg.Len() != 2 {
		t.Errorf("wrong room count expected: %d got: %d", 2, reg.Len())
	}
}

func TestJoinRoom(t *testing.T) {
	t.Run("missing room", func(t *testing.T) {
		reg := NewRegistry()

		_, err := reg.JoinRoom("nope", "c1", "Ali")
		if !errors.Is(err, ErrRoomNotFound) {
			t.Errorf("expected ErrRoomNotFound, got %v", err)
		}
		if _, ok := reg.FindRoomContaining("c1"); ok {
			t.Errorf("failed join must not touch the reverse index")
		}
	})

	t.Run("overwrites stale entry", func(t *testing.T) {
		reg := NewRegistry()
		room := reg.CreateRoom("Desert", "c1", "Ali")

		if _, err := reg.JoinRoom(room.ID, "c2", "Sara"); err != nil {
			t.Fatal(err)
		}
		m, _ := room.Member("c2")
		m.Ready = true

		if _, err := reg.JoinRoom(room.ID, "c2", "Sarah"); err != nil {
			t.Fatal(err)
		}

		m, _ = room.Member("c2")
		if m.Name != "Sarah" || m.Ready {
			t.Errorf("expected fresh member, got %+v", m)
		}
		if room.Len() != 2 {
			t.Errorf("wrong member count expected: %d got: %d", 2, room.Len())
		}
	})
}

func TestRemoveMember(t *testing.T) {
	reg := NewRegistry()
	room := reg.CreateRoom("Desert", "c1", "Ali")
	for _, id := range []string{"c2", "c3"} {
		if _, err := reg.JoinRoom(room.ID, id, id); err != nil {
			t.Fatal(err)
		}
	}

	t.Run("non-owner", func(t *testing.T) {
		_, exists := reg.RemoveMember(room.ID, "c2")
		if !exists {
			t.Fatalf("room should still exist")
		}
		if room.OwnerID != "c1" {
			t.Errorf("owner should not change, got %v", room.OwnerID)
		}
		if _, ok := reg.FindRoomContaining("c2"); ok {
			t.Errorf("c2 still indexed")
		}
		checkOwner(t, room)
	})

	t.Run("owner hands off to earliest remaining", func(t *testing.T) {
		if _, err := reg.JoinRoom(room.ID, "c4", "c4"); err != nil {
			t.Fatal(err)
		}

		_, exists := reg.RemoveMember(room.ID, "c1")
		if !exists {
			t.Fatalf("room should still exist")
		}
		if room.OwnerID != "c3" {
			t.Errorf("wrong owner expected: %v got: %v", "c3", room.OwnerID)
		}
		checkOwner(t, room)
	})

	t.Run("last member deletes room", func(t *testing.T) {
		reg.RemoveMember(room.ID, "c3")
		_, exists := reg.RemoveMember(room.ID, "c4")
		if exists {
			t.Fatalf("room should be deleted")
		}
		if _, ok := reg.Room(room.ID); ok {
			t.Errorf("room still registered")
		}
		if len(reg.Summaries()) != 0 {
			t.Errorf("summaries should be empty, got %v", reg.Summaries())
		}
	})
}

func TestSummariesKeepCreationOrder(t *testing.T) {
	reg := NewRegistry()
	a := reg.CreateRoom("a", "c1", "Ali")
	b := reg.CreateRoom("b", "c2", "Sara")
	if _, err := reg.JoinRoom(b.ID, "c3", "Omar"); err != nil {
		t.Fatal(err)
	}

	got := reg.Summaries()
	want := []RoomSummary{
		{ID: a.ID, Name: "a", Count: 1},
		{ID: b.ID, Name: "b", Count: 2},
	}

	if len(got) != len(want) {
		t.Fatalf("wrong length expected: %d got: %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("summary %d expected: %+v got: %+v", i, want[i], got[i])
		}
	}
}
