package analyzer

import (
	"cmp"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"detector-padroes/internal/models"
)

const dateLayout = "2006-01-02"

// Faixas de preço simulado por fonte
type priceRange struct {
	source   string
	min, max int
}

var priceSources = []priceRange{
	{source: models.SourceAmazon, min: 500, max: 5000},
	{source: models.SourceFlipkart, min: 450, max: 4800},
}

// PriceHistoryGenerator gera um histórico de preços simulado.
// Seguro para uso concorrente.
type PriceHistoryGenerator struct {
	mu  sync.Mutex
	rng *rand.Rand
	now func() time.Time
}

// NewPriceHistoryGenerator cria um gerador com semente baseada no relógio
func NewPriceHistoryGenerator() *PriceHistoryGenerator {
	return NewSeededPriceHistoryGenerator(uint64(time.Now().UnixNano()), time.Now)
}

// NewSeededPriceHistoryGenerator permite fixar semente e relógio (testes)
func NewSeededPriceHistoryGenerator(seed uint64, now func() time.Time) *PriceHistoryGenerator {
	return &PriceHistoryGenerator{
		rng: rand.New(rand.NewPCG(seed, seed>>1|1)),
		now: now,
	}
}

// Generate cria pontos para os últimos `days` dias, hoje incluso.
// Cada fonte aparece num dia com 80% de chance. Ordenado por data e depois fonte.
func (g *PriceHistoryGenerator) Generate(days int) []models.PricePoint {
	history := []models.PricePoint{}
	if days <= 0 {
		return history
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	today := g.now()
	for i := days - 1; i >= 0; i-- {
		date := today.AddDate(0, 0, -i).Format(dateLayout)
		for _, src := range priceSources {
			if g.rng.Float64() <= 0.2 {
				continue
			}
			history = append(history, models.PricePoint{
				Date:   date,
				Price:  float64(src.min + g.rng.IntN(src.max-src.min+1)),
				Source: src.source,
			})
		}
	}

	slices.SortStableFunc(history, comparePricePoints)
	return history
}

func comparePricePoints(a, b models.PricePoint) int {
	if c := cmp.Compare(a.Date, b.Date); c != 0 {
		return c
	}
	return cmp.Compare(a.Source, b.Source)
}

// LowestPrices retorna o menor preço de cada fonte, ordenado pelo nome da fonte
func LowestPrices(history []models.PricePoint) []models.PricePoint {
	lowest := make(map[string]models.PricePoint)
	for _, p := range history {
		if current, ok := lowest[p.Source]; !ok || p.Price < current.Price {
			lowest[p.Source] = p
		}
	}

	result := make([]models.PricePoint, 0, len(lowest))
	for _, p := range lowest {
		result = append(result, p)
	}
	slices.SortFunc(result, func(a, b models.PricePoint) int {
		return cmp.Compare(a.Source, b.Source)
	})
	return result
}
