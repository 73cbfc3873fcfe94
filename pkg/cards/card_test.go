package cards

import "testing"

func TestRank_String(t *testing.T) {
	tests := []struct {
		rank Rank
		want string
	}{
		{Two, "2"},
		{Nine, "9"},
		{Ten, "T"},
		{Jack, "J"},
		{Queen, "Q"},
		{King, "K"},
		{Ace, "A"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.rank.String(); got != tt.want {
				t.Errorf("Rank(%d).String() = %v, want %v", tt.rank, got, tt.want)
			}
		})
	}
}

func TestRank_StringDistinctPerRank(t *testing.T) {
	seen := make(map[string]Rank)
	for r := Two; r <= Ace; r++ {
		s := r.String()
		if prior, ok := seen[s]; ok {
			t.Fatalf("Rank %d and %d both stringify to %q", prior, r, s)
		}
		seen[s] = r
	}
}
