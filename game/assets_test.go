package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestAssetBalanceRoundTrip(t *testing.T) {
	pairs := []struct {
		a, b AssetBalance
	}{
		{AssetBalance{}, AssetBalance{}},
		{AssetBalance{Technical: 10, Capital: 20, Human: 30}, AssetBalance{Technical: 1, Capital: 2, Human: 3}},
		{AssetBalance{Capital: 1e6}, AssetBalance{Technical: 5.5, Human: 0.25}},
	}
	for _, pair := range pairs {
		got := pair.a.Add(pair.b).Subtract(pair.b)
		require.Equal(t, pair.a, got, "add then subtract should round-trip")
	}
}

func TestAssetBalanceCovers(t *testing.T) {
	have := AssetBalance{Technical: 10, Capital: 100, Human: 5}

	t.Run("sufficient", func(t *testing.T) {
		require.True(t, have.Covers(AssetBalance{Technical: 10, Capital: 50, Human: 5}))
	})

	t.Run("one component short", func(t *testing.T) {
		require.False(t, have.Covers(AssetBalance{Technical: 10, Capital: 50, Human: 6}))
	})
}

func TestBudget(t *testing.T) {
	t.Run("unknown period reads zero", func(t *testing.T) {
		b := Budget{}
		require.Zero(t, b.Get("2030"))
	})

	t.Run("credit creates period on demand", func(t *testing.T) {
		b := Budget{}
		b.Credit("2026", 500)
		require.Equal(t, 500.0, b.Get("2026"))
	})

	t.Run("debit is unvalidated", func(t *testing.T) {
		b := Budget{"2026": 100}
		b.Debit("2026", 300)
		require.Equal(t, -200.0, b.Get("2026"))
	})
}

func TestPeriodKey(t *testing.T) {
	date := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	require.Equal(t, "2026", PeriodKey(date))
}
