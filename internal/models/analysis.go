package models

// AnalysisRequest representa o pedido de análise de uma página de produto
type AnalysisRequest struct {
	URL string `json:"url"`
}

// DarkPattern representa um elemento enganoso detectado na página
type DarkPattern struct {
	PatternType string `json:"patternType"`
	Element     string `json:"element"`
	Explanation string `json:"explanation"`
}

// TrickyOffer representa uma oferta com condições ocultas ou enganosas
type TrickyOffer struct {
	OfferText string `json:"offerText"`
	Concern   string `json:"concern"`
	Advice    string `json:"advice"`
}

// Fontes do histórico de preços simulado
const (
	SourceAmazon   = "Amazon.in"
	SourceFlipkart = "Flipkart"
)

// PricePoint é um ponto do histórico de preços (data no formato YYYY-MM-DD)
type PricePoint struct {
	Date   string  `json:"date"`
	Price  float64 `json:"price"`
	Source string  `json:"source"`
}

// PatternCount conta quantas vezes um tipo de dark pattern apareceu
type PatternCount struct {
	Name  string `json:"name"`
	Total int    `json:"total"`
}

// ProductAnalysisResult agrega o resultado completo de uma análise
type ProductAnalysisResult struct {
	URL            string         `json:"url"`
	ProductName    string         `json:"productName"`
	ProductImage   string         `json:"productImage"`
	DarkPatterns   []DarkPattern  `json:"darkPatterns"`
	TrickyOffers   []TrickyOffer  `json:"trickyOffers"`
	PriceHistory   []PricePoint   `json:"priceHistory"`
	PatternSummary []PatternCount `json:"patternSummary"`
}

// ActionResponse carrega ou o resultado ou uma mensagem de erro, nunca os dois
type ActionResponse struct {
	Data  *ProductAnalysisResult `json:"data,omitempty"`
	Error string                 `json:"error,omitempty"`
}

// OK indica se a resposta contém dados
func (r ActionResponse) OK() bool {
	return r.Data != nil && r.Error == ""
}

// ReviewSummaryRequest contém as avaliações fornecidas pelo usuário
type ReviewSummaryRequest struct {
	ProductName string `json:"productName"`
	Reviews     string `json:"reviews"`
}

// ReviewSummary é o resumo de prós e contras gerado a partir das avaliações
type ReviewSummary struct {
	Summary string `json:"summary"`
}
