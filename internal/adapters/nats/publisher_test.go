package natsadapter

import "testing"

func TestBoardSubject(t *testing.T) {
	tests := map[string]string{
		"NSR:StopPlace:58366": "trmnl.board.served.NSR:StopPlace:58366",
		"a.b":                 "trmnl.board.served.a_b",
		"*":                   "trmnl.board.served._",
		"stop >":              "trmnl.board.served.stop__",
		"":                    "trmnl.board.served._",
	}
	for in, want := range tests {
		if got := BoardSubject(in); got != want {
			t.Errorf("BoardSubject(%q) = %q, want %q", in, got, want)
		}
	}
}
