package analyzer

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"detector-padroes/internal/metrics"
	"detector-padroes/internal/models"
	"detector-padroes/internal/scraper"

	"go.uber.org/zap"
)

// DefaultHistoryDays é o tamanho padrão do histórico de preços simulado
const DefaultHistoryDays = 30

// Resultados registrados nas métricas
const (
	outcomeSuccess      = "success"
	outcomeInvalidInput = "invalid_input"
	outcomeFailure      = "failure"
)

// Nomes das análises remotas (logs e métricas)
const (
	capabilityDarkPatterns = "dark_patterns"
	capabilityTrickyOffers = "tricky_offers"
)

// DarkPatternDetector detecta elementos enganosos numa página
type DarkPatternDetector interface {
	DetectDarkPatterns(ctx context.Context, url string) ([]models.DarkPattern, error)
}

// TrickyOfferDetector detecta ofertas enganosas numa página
type TrickyOfferDetector interface {
	DetectTrickyOffers(ctx context.Context, url string) ([]models.TrickyOffer, error)
}

// Analyzer coordena a análise de uma página de produto
type Analyzer struct {
	fetcher     scraper.PageFetcher
	images      *scraper.ImageExtractor
	patterns    DarkPatternDetector
	offers      TrickyOfferDetector
	history     *PriceHistoryGenerator
	historyDays int
	metrics     *metrics.Metrics
	logger      *zap.Logger
}

// Option configura o Analyzer
type Option func(*Analyzer)

// WithLogger define o logger
func WithLogger(logger *zap.Logger) Option {
	return func(a *Analyzer) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithMetrics define onde registrar as métricas
func WithMetrics(m *metrics.Metrics) Option {
	return func(a *Analyzer) {
		a.metrics = m
	}
}

// WithPriceHistory troca o gerador e a quantidade de dias do histórico
func WithPriceHistory(gen *PriceHistoryGenerator, days int) Option {
	return func(a *Analyzer) {
		if gen != nil {
			a.history = gen
		}
		a.historyDays = days
	}
}

// WithImageExtractor troca a cadeia de sondas de imagem
func WithImageExtractor(e *scraper.ImageExtractor) Option {
	return func(a *Analyzer) {
		if e != nil {
			a.images = e
		}
	}
}

// New cria o Analyzer. fetcher pode ser nil: nesse caso a página não é
// buscada e a imagem cai no placeholder.
func New(fetcher scraper.PageFetcher, patterns DarkPatternDetector, offers TrickyOfferDetector, opts ...Option) *Analyzer {
	a := &Analyzer{
		fetcher:     fetcher,
		images:      scraper.NewImageExtractor(),
		patterns:    patterns,
		offers:      offers,
		history:     NewPriceHistoryGenerator(),
		historyDays: DefaultHistoryDays,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze valida a URL, busca a página, extrai a imagem, roda as análises
// remotas em paralelo e monta o resultado. A resposta sempre tem exatamente
// um dos campos (data ou error) preenchido.
func (a *Analyzer) Analyze(ctx context.Context, rawURL string) (resp models.ActionResponse) {
	u, err := ValidateURL(rawURL)
	if err != nil {
		a.logger.Info("URL rejeitada", zap.String("url", rawURL), zap.Error(err))
		a.metrics.ObserveAnalysis(outcomeInvalidInput)
		return models.ActionResponse{Error: UserMessage(err)}
	}
	target := strings.TrimSpace(rawURL)

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("%w: panic: %v", ErrUnexpected, r)
			a.logger.Error("Erro inesperado ao analisar URL",
				zap.String("url", target),
				zap.Any("panic", r),
				zap.Stack("stack"),
			)
			a.metrics.ObserveAnalysis(outcomeFailure)
			resp = models.ActionResponse{Error: UserMessage(err)}
		}
	}()

	result, err := a.analyze(ctx, u, target)
	if err != nil {
		a.logger.Error("Erro ao analisar URL", zap.String("url", target), zap.Error(err))
		a.metrics.ObserveAnalysis(outcomeFailure)
		return models.ActionResponse{Error: UserMessage(err)}
	}

	a.metrics.ObserveAnalysis(outcomeSuccess)
	return models.ActionResponse{Data: result}
}

func (a *Analyzer) analyze(ctx context.Context, u *url.URL, target string) (*models.ProductAnalysisResult, error) {
	// A extração de imagem só começa depois que a busca terminar (com ou sem sucesso)
	html := a.fetchPage(ctx, target)
	image, source := a.images.Extract(html)
	a.metrics.ObserveImageSource(source)
	a.logger.Debug("Imagem do produto escolhida", zap.String("url", target), zap.String("source", source))

	// As duas análises rodam até o fim de forma independente: a falha de uma
	// não cancela a outra
	var (
		wg       sync.WaitGroup
		patterns []models.DarkPattern
		offers   []models.TrickyOffer
		patErr   error
		offerErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		patterns, patErr = settle(func() ([]models.DarkPattern, error) {
			return a.patterns.DetectDarkPatterns(ctx, target)
		})
	}()
	go func() {
		defer wg.Done()
		offers, offerErr = settle(func() ([]models.TrickyOffer, error) {
			return a.offers.DetectTrickyOffers(ctx, target)
		})
	}()

	name := scraper.DeriveProductName(u)
	history := a.history.Generate(a.historyDays)

	wg.Wait()

	// Só vira erro geral quando o prazo de quem chamou acabou e nenhuma
	// análise chegou a responder; qualquer resultado parcial é devolvido
	if patErr != nil && offerErr != nil {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrUnexpected, err)
		}
	}

	patterns = contain(a, capabilityDarkPatterns, target, patterns, patErr)
	offers = contain(a, capabilityTrickyOffers, target, offers, offerErr)

	return &models.ProductAnalysisResult{
		URL:            target,
		ProductName:    name,
		ProductImage:   image,
		DarkPatterns:   patterns,
		TrickyOffers:   offers,
		PriceHistory:   history,
		PatternSummary: SummarizePatterns(patterns),
	}, nil
}

// fetchPage nunca falha: qualquer erro vira página vazia
func (a *Analyzer) fetchPage(ctx context.Context, target string) string {
	if a.fetcher == nil {
		a.metrics.ObservePageFetch("skipped")
		return ""
	}

	html, err := a.fetcher.Fetch(ctx, target)
	if err != nil {
		a.logger.Warn("Falha ao buscar página para extrair imagem",
			zap.String("url", target),
			zap.Bool("unavailable", errors.Is(err, scraper.ErrUnavailable)),
			zap.Error(err),
		)
		a.metrics.ObservePageFetch("failed")
		return ""
	}
	a.metrics.ObservePageFetch("ok")
	return html
}

// settle executa uma análise remota convertendo panic em erro
func settle[T any](call func() ([]T, error)) (records []T, err error) {
	defer func() {
		if r := recover(); r != nil {
			records, err = nil, fmt.Errorf("panic: %v", r)
		}
	}()
	return call()
}

// contain registra a falha de uma análise e devolve lista vazia no lugar
func contain[T any](a *Analyzer, capability, target string, records []T, err error) []T {
	if err != nil {
		a.logger.Error("Erro na análise remota",
			zap.String("capability", capability),
			zap.String("url", target),
			zap.Error(fmt.Errorf("%w: %w", ErrCapabilityFailure, err)),
		)
		a.metrics.ObserveCapabilityFailure(capability)
		return []T{}
	}
	if records == nil {
		return []T{}
	}
	return records
}
