package feed

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/SevenSinz/warbler/internal/message"
)

// fakeStore assembles feeds in memory with the same contract as the SQL
// repository: own and followee messages, newest first, capped at limit
type fakeStore struct {
	follows  map[int64][]int64
	messages []*message.Message
}

func (f *fakeStore) Home(ctx context.Context, userID int64, limit int) ([]*message.Message, error) {
	owners := map[int64]bool{userID: true}
	for _, followee := range f.follows[userID] {
		owners[followee] = true
	}

	var out []*message.Message
	for _, m := range f.messages {
		if owners[m.UserID] {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func TestHomeFeedScope(t *testing.T) {
	base := time.Now()
	store := &fakeStore{
		follows: map[int64][]int64{1: {2}},
		messages: []*message.Message{
			{ID: 1, UserID: 1, Text: "own post", CreatedAt: base.Add(1 * time.Minute)},
			{ID: 2, UserID: 2, Text: "followee post", CreatedAt: base.Add(2 * time.Minute)},
			{ID: 3, UserID: 3, Text: "stranger post", CreatedAt: base.Add(3 * time.Minute)},
		},
	}
	s := NewService(store)

	feed, err := s.Home(context.Background(), 1)
	if err != nil {
		t.Fatalf("Home failed: %v", err)
	}

	if len(feed) != 2 {
		t.Fatalf("expected own + followee messages only, got %d", len(feed))
	}
	// newest first
	if feed[0].ID != 2 || feed[1].ID != 1 {
		t.Errorf("expected messages newest first, got [%d %d]", feed[0].ID, feed[1].ID)
	}
	for _, m := range feed {
		if m.UserID == 3 {
			t.Error("stranger's message leaked into the feed")
		}
	}
}

func TestHomeFeedCutoff(t *testing.T) {
	base := time.Now()
	store := &fakeStore{follows: map[int64][]int64{}}
	for i := 0; i < Limit+20; i++ {
		store.messages = append(store.messages, &message.Message{
			ID:        int64(i + 1),
			UserID:    1,
			Text:      fmt.Sprintf("post %d", i),
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		})
	}
	s := NewService(store)

	feed, err := s.Home(context.Background(), 1)
	if err != nil {
		t.Fatalf("Home failed: %v", err)
	}

	if len(feed) != Limit {
		t.Fatalf("expected feed truncated to %d, got %d", Limit, len(feed))
	}
	if feed[0].ID != int64(Limit+20) {
		t.Errorf("expected the newest message first, got id %d", feed[0].ID)
	}
}
