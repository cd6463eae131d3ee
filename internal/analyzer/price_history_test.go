package analyzer

import (
	"slices"
	"sync"
	"testing"
	"time"

	"detector-padroes/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriceHistoryGenerator_Generate(t *testing.T) {
	now := time.Date(2024, 3, 10, 23, 59, 0, 0, time.UTC)
	gen := NewSeededPriceHistoryGenerator(7, func() time.Time { return now })

	history := gen.Generate(30)

	require.NotEmpty(t, history)
	assert.LessOrEqual(t, len(history), 60)

	oldest := now.AddDate(0, 0, -29).Format(dateLayout)
	newest := now.Format(dateLayout)
	for _, p := range history {
		assert.GreaterOrEqual(t, p.Date, oldest)
		assert.LessOrEqual(t, p.Date, newest)

		switch p.Source {
		case models.SourceAmazon:
			assert.GreaterOrEqual(t, p.Price, 500.0)
			assert.LessOrEqual(t, p.Price, 5000.0)
		case models.SourceFlipkart:
			assert.GreaterOrEqual(t, p.Price, 450.0)
			assert.LessOrEqual(t, p.Price, 4800.0)
		default:
			t.Errorf("fonte inesperada: %q", p.Source)
		}
		assert.Equal(t, p.Price, float64(int(p.Price)), "preço deve ser inteiro")
	}

	assert.True(t, slices.IsSortedFunc(history, comparePricePoints))
}

func TestPriceHistoryGenerator_NoDuplicateSourcePerDay(t *testing.T) {
	gen := NewSeededPriceHistoryGenerator(99, time.Now)
	seen := make(map[string]bool)
	for _, p := range gen.Generate(60) {
		key := p.Date + "|" + p.Source
		assert.False(t, seen[key], "ponto repetido: %s", key)
		seen[key] = true
	}
}

func TestPriceHistoryGenerator_SameSeedSameHistory(t *testing.T) {
	now := func() time.Time { return time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC) }

	a := NewSeededPriceHistoryGenerator(123, now).Generate(14)
	b := NewSeededPriceHistoryGenerator(123, now).Generate(14)

	assert.Equal(t, a, b)
}

func TestPriceHistoryGenerator_NonPositiveDays(t *testing.T) {
	gen := NewPriceHistoryGenerator()

	for _, days := range []int{0, -5} {
		history := gen.Generate(days)
		assert.NotNil(t, history)
		assert.Empty(t, history)
	}
}

func TestPriceHistoryGenerator_Concurrent(t *testing.T) {
	gen := NewPriceHistoryGenerator()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			history := gen.Generate(10)
			assert.True(t, slices.IsSortedFunc(history, comparePricePoints))
		}()
	}
	wg.Wait()
}

func TestLowestPrices(t *testing.T) {
	history := []models.PricePoint{
		{Date: "2024-03-01", Price: 1200, Source: models.SourceFlipkart},
		{Date: "2024-03-01", Price: 1500, Source: models.SourceAmazon},
		{Date: "2024-03-02", Price: 900, Source: models.SourceAmazon},
		{Date: "2024-03-03", Price: 900, Source: models.SourceAmazon},
		{Date: "2024-03-03", Price: 1100, Source: models.SourceFlipkart},
	}

	assert.Equal(t, []models.PricePoint{
		{Date: "2024-03-02", Price: 900, Source: models.SourceAmazon},
		{Date: "2024-03-03", Price: 1100, Source: models.SourceFlipkart},
	}, LowestPrices(history))

	assert.Empty(t, LowestPrices(nil))
}
