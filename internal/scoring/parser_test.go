// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pdiddy/wordscore/pkg/types"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		want      []types.ScoreRecord
		wantStats ParseStats
	}{
		{
			name:      "plain lines",
			raw:       "elma:95\narmut:40",
			want:      []types.ScoreRecord{{Word: "elma", Score: 95}, {Word: "armut", Score: 40}},
			wantStats: ParseStats{Lines: 2, Accepted: 2},
		},
		{
			// "Here are the scores:" has a separator but no integer.
			name:      "commentary around payload",
			raw:       "Here are the scores:\n\nelma: 95\n  armut :40  \nHope this helps!",
			want:      []types.ScoreRecord{{Word: "elma", Score: 95}, {Word: "armut", Score: 40}},
			wantStats: ParseStats{Lines: 5, Accepted: 2, Ignored: 3},
		},
		{
			name:      "split on first separator only",
			raw:       "saat:dakika:5\nkedi:7",
			want:      []types.ScoreRecord{{Word: "kedi", Score: 7}},
			wantStats: ParseStats{Lines: 2, Accepted: 1, Ignored: 1},
		},
		{
			name:      "non-integer scores dropped",
			raw:       "elma:95.5\narmut:high\nkiraz:-3\nincir:+12",
			want:      []types.ScoreRecord{{Word: "kiraz", Score: -3}, {Word: "incir", Score: 12}},
			wantStats: ParseStats{Lines: 4, Accepted: 2, Ignored: 2},
		},
		{
			name:      "empty word dropped",
			raw:       ":50\n   :60\nçay:70",
			want:      []types.ScoreRecord{{Word: "çay", Score: 70}},
			wantStats: ParseStats{Lines: 3, Accepted: 1, Ignored: 2},
		},
		{
			name:      "duplicate keeps last score at first position",
			raw:       "elma:10\narmut:40\nelma:95",
			want:      []types.ScoreRecord{{Word: "elma", Score: 95}, {Word: "armut", Score: 40}},
			wantStats: ParseStats{Lines: 3, Accepted: 3, Duplicates: 1},
		},
		{
			name:      "duplicate with lower later score still overwrites",
			raw:       "elma:95\nelma:10",
			want:      []types.ScoreRecord{{Word: "elma", Score: 10}},
			wantStats: ParseStats{Lines: 2, Accepted: 2, Duplicates: 1},
		},
		{
			name:      "windows line endings",
			raw:       "elma:95\r\narmut:40\r\n",
			want:      []types.ScoreRecord{{Word: "elma", Score: 95}, {Word: "armut", Score: 40}},
			wantStats: ParseStats{Lines: 2, Accepted: 2},
		},
		{
			name:      "empty reply",
			raw:       "  \n ",
			want:      nil,
			wantStats: ParseStats{},
		},
		{
			name:      "no structured lines",
			raw:       "I cannot score these words.",
			want:      nil,
			wantStats: ParseStats{Lines: 1, Ignored: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, stats := ParseWithStats(tt.raw)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantStats, stats)
			assert.Equal(t, tt.want, Parse(tt.raw))
		})
	}
}
