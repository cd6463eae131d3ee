package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"detector-padroes/internal/analyzer"
	"detector-padroes/internal/models"

	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

// Mensagens das rotas auxiliares
const (
	invalidBodyMessage     = "Invalid request body."
	missingReviewsMessage  = "Please provide the product name and at least one review."
	reviewSummaryFailedMsg = "Failed to summarize reviews. Please try again."
)

// Analyzer executa a análise de uma URL
type Analyzer interface {
	Analyze(ctx context.Context, rawURL string) models.ActionResponse
}

// ReviewSummarizer resume avaliações fornecidas pelo usuário
type ReviewSummarizer interface {
	SummarizeProductReviews(ctx context.Context, productName, reviews string) (*models.ReviewSummary, error)
}

// AnalysisHandler atende as rotas de análise
type AnalysisHandler struct {
	analyzer   Analyzer
	summarizer ReviewSummarizer
	timeout    time.Duration
	logger     *zap.Logger
}

// NewAnalysisHandler cria o handler. timeout igual a zero usa só o contexto da requisição.
func NewAnalysisHandler(a Analyzer, s ReviewSummarizer, timeout time.Duration, logger *zap.Logger) *AnalysisHandler {
	return &AnalysisHandler{analyzer: a, summarizer: s, timeout: timeout, logger: logger}
}

func (h *AnalysisHandler) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if h.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, h.timeout)
}

// Analyze trata POST /api/analyze
func (h *AnalysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req models.AnalysisRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.logger.Debug("Corpo inválido em /api/analyze", zap.Error(err))
		writeError(w, http.StatusBadRequest, invalidBodyMessage)
		return
	}

	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	resp := h.analyzer.Analyze(ctx, req.URL)
	writeJSON(w, statusFor(resp), resp)
}

// statusFor escolhe o código HTTP a partir da mensagem padronizada
func statusFor(resp models.ActionResponse) int {
	switch {
	case resp.OK():
		return http.StatusOK
	case resp.Error == analyzer.InvalidURLMessage:
		return http.StatusBadRequest
	case resp.Error == analyzer.TimeoutMessage:
		return http.StatusGatewayTimeout
	case resp.Error == analyzer.ConnectivityMessage:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// SummarizeReviews trata POST /api/reviews/summary
func (h *AnalysisHandler) SummarizeReviews(w http.ResponseWriter, r *http.Request) {
	var req models.ReviewSummaryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, invalidBodyMessage)
		return
	}
	if strings.TrimSpace(req.ProductName) == "" || strings.TrimSpace(req.Reviews) == "" {
		writeError(w, http.StatusBadRequest, missingReviewsMessage)
		return
	}

	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	summary, err := h.summarizer.SummarizeProductReviews(ctx, req.ProductName, req.Reviews)
	if err != nil {
		h.logger.Error("Erro ao resumir avaliações",
			zap.String("product", req.ProductName),
			zap.Error(err),
		)
		status := http.StatusBadGateway
		if errors.Is(err, context.DeadlineExceeded) {
			status = http.StatusGatewayTimeout
		}
		writeError(w, status, reviewSummaryFailedMsg)
		return
	}

	writeJSON(w, http.StatusOK, envelope{Data: summary})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	return dec.Decode(dst)
}
