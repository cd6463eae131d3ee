package analyzer

import (
	"cmp"
	"slices"

	"detector-padroes/internal/models"
)

// SummarizePatterns conta os dark patterns por tipo, do mais frequente ao menos
func SummarizePatterns(patterns []models.DarkPattern) []models.PatternCount {
	counts := make(map[string]int)
	for _, p := range patterns {
		counts[p.PatternType]++
	}

	summary := make([]models.PatternCount, 0, len(counts))
	for name, total := range counts {
		summary = append(summary, models.PatternCount{Name: name, Total: total})
	}
	slices.SortFunc(summary, func(a, b models.PatternCount) int {
		if a.Total != b.Total {
			return cmp.Compare(b.Total, a.Total)
		}
		return cmp.Compare(a.Name, b.Name)
	})
	return summary
}
