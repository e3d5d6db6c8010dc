package gpu

import "testing"

func TestParityOf(t *testing.T) {
	tests := []struct {
		n       uint32
		want    Parity
		history int
		target  int
	}{
		{0, BufferAIsHistory, 0, 1},
		{1, BufferBIsHistory, 1, 0},
		{2, BufferAIsHistory, 0, 1},
		{3, BufferBIsHistory, 1, 0},
		{1<<32 - 1, BufferBIsHistory, 1, 0},
	}
	for _, tt := range tests {
		p := ParityOf(tt.n)
		if p != tt.want {
			t.Errorf("ParityOf(%d) = %v, want %v", tt.n, p, tt.want)
		}
		if p.History() != tt.history || p.Target() != tt.target {
			t.Errorf("ParityOf(%d): history %d target %d, want %d %d",
				tt.n, p.History(), p.Target(), tt.history, tt.target)
		}
	}
}

func TestParityRolesNeverAlias(t *testing.T) {
	for _, p := range []Parity{BufferAIsHistory, BufferBIsHistory} {
		if p.History() == p.Target() {
			t.Errorf("%v: history and target are both %d", p, p.History())
		}
		if p.Next().History() != p.Target() {
			t.Errorf("%v: next frame must read the buffer written this frame", p)
		}
	}
}

func TestParityString(t *testing.T) {
	if got := BufferAIsHistory.String(); got != "A->B" {
		t.Errorf("BufferAIsHistory.String() = %q", got)
	}
	if got := BufferBIsHistory.String(); got != "B->A" {
		t.Errorf("BufferBIsHistory.String() = %q", got)
	}
	if got := Parity(7).String(); got != "invalid" {
		t.Errorf("Parity(7).String() = %q", got)
	}
}
