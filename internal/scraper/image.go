package scraper

import (
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// OpenGraphFinder busca a meta tag og:image
type OpenGraphFinder struct{}

// Name identifica a heurística
func (OpenGraphFinder) Name() string { return SourceOpenGraph }

// Find retorna o atributo content da primeira og:image válida, sem alterações
func (OpenGraphFinder) Find(doc *goquery.Document) (string, bool) {
	var image string
	doc.Find("meta[property], meta[name]").EachWithBreak(func(i int, s *goquery.Selection) bool {
		if !isOpenGraphImage(s) {
			return true
		}
		content, ok := s.Attr("content")
		if ok && strings.TrimSpace(content) != "" {
			image = content
			return false
		}
		return true
	})
	return image, image != ""
}

// isOpenGraphImage compara property/name sem diferenciar maiúsculas (OG:Image)
func isOpenGraphImage(s *goquery.Selection) bool {
	for _, attr := range []string{"property", "name"} {
		if v, ok := s.Attr(attr); ok && strings.EqualFold(strings.TrimSpace(v), "og:image") {
			return true
		}
	}
	return false
}

// StructuredDataFinder percorre os blocos JSON-LD na ordem do documento
type StructuredDataFinder struct{}

// Name identifica a heurística
func (StructuredDataFinder) Name() string { return SourceStructuredData }

// Find para no primeiro bloco que fornecer uma imagem.
// Blocos com JSON inválido são ignorados.
func (StructuredDataFinder) Find(doc *goquery.Document) (string, bool) {
	var image string
	doc.Find("script[type='application/ld+json']").EachWithBreak(func(i int, s *goquery.Selection) bool {
		var data any
		if err := json.Unmarshal([]byte(s.Text()), &data); err != nil {
			return true
		}
		if found, ok := imageFromStructuredData(data); ok {
			image = found
			return false
		}
		return true
	})
	return image, image != ""
}

// imageFromStructuredData aceita um objeto, um array de objetos ou um @graph
func imageFromStructuredData(data any) (string, bool) {
	switch v := data.(type) {
	case []any:
		for _, item := range v {
			if image, ok := imageFromStructuredData(item); ok {
				return image, true
			}
		}
	case map[string]any:
		if image, ok := imageFromObject(v); ok {
			return image, true
		}
		if graph, ok := v["@graph"].([]any); ok {
			return imageFromStructuredData(graph)
		}
	}
	return "", false
}

// imageFromObject testa os campos convencionais em ordem fixa
func imageFromObject(obj map[string]any) (string, bool) {
	candidates := []any{
		obj["image"],
		firstElement(obj["image"]),
		field(field(obj, "mainEntity"), "image"),
		obj["logo"],
		field(field(obj, "offers"), "image"),
	}

	for _, candidate := range candidates {
		if image, ok := httpURL(candidate); ok {
			return image, true
		}
	}
	return "", false
}

// httpURL aceita uma string http(s) ou um objeto com campo url http(s)
func httpURL(v any) (string, bool) {
	switch c := v.(type) {
	case string:
		if strings.HasPrefix(c, "http") {
			return c, true
		}
	case map[string]any:
		if u, ok := c["url"].(string); ok && strings.HasPrefix(u, "http") {
			return u, true
		}
	}
	return "", false
}

func firstElement(v any) any {
	if items, ok := v.([]any); ok && len(items) > 0 {
		return items[0]
	}
	return nil
}

// field lê uma chave de um objeto; em arrays, usa o primeiro elemento
func field(v any, key string) any {
	if items, ok := v.([]any); ok {
		v = firstElement(items)
	}
	if obj, ok := v.(map[string]any); ok {
		return obj[key]
	}
	return nil
}
