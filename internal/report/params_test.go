package report

import (
	"testing"
	"time"

	"github.com/Veraticus/penance-hunter/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDay(t *testing.T) {
	tests := []struct {
		want    *time.Time
		name    string
		raw     string
		wantErr bool
	}{
		{name: "empty", raw: ""},
		{name: "blank", raw: "   "},
		{name: "date", raw: "2025-03-02", want: timePtr(time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC))},
		{name: "padded", raw: " 2025-03-02 ", want: timePtr(time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC))},
		{name: "wrong layout", raw: "02/03/2025", wantErr: true},
		{name: "invalid day", raw: "2025-02-30", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDay(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, common.ErrInvalidFilter)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSplitList(t *testing.T) {
	assert.Nil(t, SplitList(""))
	assert.Nil(t, SplitList(" , "))
	assert.Equal(t, []string{"Zealot", "Ogryn"}, SplitList("Zealot, Ogryn,"))
}

func timePtr(t time.Time) *time.Time { return &t }
