package panel

import "testing"

func TestRequestTracker_OnlyLatestApplies(t *testing.T) {
	tests := []struct {
		name  string
		order []int // indexes into issued requests, in arrival order
	}{
		{"in order", []int{0, 1}},
		{"older arrives last", []int{1, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var tracker RequestTracker
			var buf LogBuffer
			issued := []Request{
				tracker.Issue("web", 100),
				tracker.Issue("web", 500),
			}
			bodies := map[int]string{100: "hundred", 500: "five hundred"}

			applied := 0
			for _, i := range tt.order {
				req := issued[i]
				if tracker.Accept(req) {
					buf.Replace(bodies[req.Lines])
					applied++
				}
			}
			if applied != 1 {
				t.Fatalf("applied = %d, want 1", applied)
			}
			if buf.Text() != "five hundred" {
				t.Fatalf("buffer = %q, want lines=500 result", buf.Text())
			}
		})
	}
}

func TestRequestTracker_ClosedRejectsEverything(t *testing.T) {
	var tracker RequestTracker
	req := tracker.Issue("db", 100)
	tracker.Close()
	if tracker.Accept(req) {
		t.Fatalf("Accept after Close returned true")
	}
	if tracker.Alive() {
		t.Fatalf("Alive after Close")
	}
}

func TestRequestTracker_ZeroRequestRejected(t *testing.T) {
	var tracker RequestTracker
	if tracker.Accept(Request{}) {
		t.Fatalf("zero request accepted")
	}
}

func TestNextLineCount(t *testing.T) {
	tests := map[int]int{100: 500, 500: 1000, 1000: 5000, 5000: 100, 42: 100}
	for in, want := range tests {
		if got := NextLineCount(in); got != want {
			t.Errorf("NextLineCount(%d) = %d, want %d", in, got, want)
		}
	}
}
