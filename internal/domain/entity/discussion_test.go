package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func unseen(author string) Message { return Message{AuthorID: author} }
func seen(author string) Message   { return Message{AuthorID: author, Seen: true} }

func TestMarkSeenTail(t *testing.T) {
	tests := []struct {
		name        string
		messages    []Message
		viewer      string
		wantFlipped []int
	}{
		{
			name:        "flips trailing counterpart run",
			messages:    []Message{seen("a"), unseen("b"), unseen("b")},
			viewer:      "a",
			wantFlipped: []int{1, 2},
		},
		{
			name:        "skips viewer's own messages inside the run",
			messages:    []Message{unseen("b"), unseen("a"), unseen("b"), unseen("a"), unseen("b")},
			viewer:      "a",
			wantFlipped: []int{0, 2, 4},
		},
		{
			name:        "stops at first already-seen counterpart message",
			messages:    []Message{seen("b"), unseen("b"), unseen("b")},
			viewer:      "a",
			wantFlipped: []int{1, 2},
		},
		{
			name:        "seen boundary shields earlier unseen messages",
			messages:    []Message{unseen("b"), seen("b"), unseen("b")},
			viewer:      "a",
			wantFlipped: []int{2},
		},
		{
			name:        "nothing to flip when all seen",
			messages:    []Message{seen("b"), seen("b")},
			viewer:      "a",
			wantFlipped: nil,
		},
		{
			name:        "own messages never flip",
			messages:    []Message{unseen("a"), unseen("a")},
			viewer:      "a",
			wantFlipped: nil,
		},
		{
			name:        "empty log",
			messages:    nil,
			viewer:      "a",
			wantFlipped: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &Discussion{Messages: tt.messages}
			flipped := d.MarkSeenTail(tt.viewer)
			assert.Equal(t, tt.wantFlipped, flipped)
			for _, i := range flipped {
				assert.True(t, d.Messages[i].Seen)
			}
		})
	}
}

func TestMarkSeenTailIdempotent(t *testing.T) {
	d := &Discussion{Messages: []Message{unseen("b"), unseen("b")}}

	first := d.MarkSeenTail("a")
	second := d.MarkSeenTail("a")

	assert.Equal(t, []int{0, 1}, first)
	assert.Nil(t, second)
}

func TestCounterpart(t *testing.T) {
	d := &Discussion{BuyerID: "buyer", SellerID: "seller"}

	other, ok := d.Counterpart("buyer")
	assert.True(t, ok)
	assert.Equal(t, "seller", other)

	other, ok = d.Counterpart("seller")
	assert.True(t, ok)
	assert.Equal(t, "buyer", other)

	_, ok = d.Counterpart("stranger")
	assert.False(t, ok)
}

func TestCounterpartClearedSlot(t *testing.T) {
	d := &Discussion{BuyerID: "buyer"}

	_, ok := d.Counterpart("buyer")
	assert.False(t, ok, "a cleared seller slot has no counterpart")
}

func TestHasUnseenFor(t *testing.T) {
	d := &Discussion{Messages: []Message{seen("a"), unseen("b")}}

	assert.True(t, d.HasUnseenFor("a"))
	assert.False(t, d.HasUnseenFor("b"), "seen state is meaningless relative to the author")

	empty := &Discussion{}
	assert.False(t, empty.HasUnseenFor("a"))
}
