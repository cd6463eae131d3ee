package scraper

import (
	"context"
	"errors"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// PlaceholderImage é usada quando nenhuma imagem é encontrada na página
const PlaceholderImage = "https://placehold.co/600x400.png"

// Origem da imagem escolhida (usada em logs e métricas)
const (
	SourceOpenGraph      = "opengraph"
	SourceStructuredData = "jsonld"
	SourcePlaceholder    = "placeholder"
)

// ErrUnavailable indica que a página não pôde ser obtida
var ErrUnavailable = errors.New("página indisponível")

// PageFetcher define a interface para buscar o HTML de uma página
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// ImageFinder define uma heurística para encontrar a imagem do produto.
// Cada heurística falha de forma independente e retorna false quando não encontra nada.
type ImageFinder interface {
	Name() string
	Find(doc *goquery.Document) (string, bool)
}

// ImageExtractor mantém as heurísticas em ordem de prioridade
type ImageExtractor struct {
	finders []ImageFinder
}

// NewImageExtractor cria o extrator. Sem heurísticas, usa a ordem padrão:
// meta tag og:image e depois blocos JSON-LD.
func NewImageExtractor(finders ...ImageFinder) *ImageExtractor {
	if len(finders) == 0 {
		finders = []ImageFinder{
			OpenGraphFinder{},
			StructuredDataFinder{},
		}
	}
	return &ImageExtractor{finders: finders}
}

// Extract retorna a URL da imagem e a heurística que a encontrou.
// HTML vazio significa que a busca da página falhou. Nunca retorna URL vazia.
func (e *ImageExtractor) Extract(html string) (string, string) {
	if strings.TrimSpace(html) == "" {
		return PlaceholderImage, SourcePlaceholder
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return PlaceholderImage, SourcePlaceholder
	}

	for _, finder := range e.finders {
		if image, ok := finder.Find(doc); ok && image != "" {
			return image, finder.Name()
		}
	}
	return PlaceholderImage, SourcePlaceholder
}
