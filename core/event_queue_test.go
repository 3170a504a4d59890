package core

import (
	"math"
	"testing"
)

func TestScheduledUpdatesQueueOrdersByTime(t *testing.T) {
	q := NewScheduledUpdatesQueue()
	if !math.IsInf(q.NextEventsTime(), 1) {
		t.Fatalf("expected +Inf on an empty queue")
	}
	q.AddUpdate(5)
	q.AddUpdate(1)
	q.AddUpdate(3)

	var times []float64
	for {
		tm := q.NextEventsTime()
		if math.IsInf(tm, 1) {
			break
		}
		ev := q.NextEvent()
		times = append(times, ev.Time())
	}
	want := []float64{1, 3, 5}
	if len(times) != len(want) {
		t.Fatalf("expected %d events, got %d", len(want), len(times))
	}
	for i, w := range want {
		if times[i] != w {
			t.Fatalf("event %d: expected %v, got %v", i, w, times[i])
		}
	}
}

func TestScheduledUpdatesQueueStableOnTies(t *testing.T) {
	q := NewScheduledUpdatesQueue()
	q.AddUpdate(2)
	q.AddUpdate(2)
	q.AddUpdate(2)

	seqOf := make(map[ExternalEvent]int)
	for _, item := range q.h {
		seqOf[item.ev] = item.seq
	}

	first := q.NextEvent().(*updateEvent)
	second := q.NextEvent().(*updateEvent)
	third := q.NextEvent().(*updateEvent)
	if first.t != 2 || second.t != 2 || third.t != 2 {
		t.Fatalf("expected all three events at t=2")
	}
	if seqOf[first] != 0 || seqOf[second] != 1 || seqOf[third] != 2 {
		t.Fatalf("expected tied events in insertion order, got seqs %d %d %d", seqOf[first], seqOf[second], seqOf[third])
	}
}
