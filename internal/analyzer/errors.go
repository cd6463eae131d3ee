package analyzer

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var (
	// ErrInvalidInput indica URL vazia ou malformada
	ErrInvalidInput = errors.New("URL inválida")
	// ErrCapabilityFailure indica falha de uma das análises remotas
	ErrCapabilityFailure = errors.New("falha na análise remota")
	// ErrUnexpected indica qualquer falha fora das contenções previstas
	ErrUnexpected = errors.New("falha inesperada na análise")
)

// Mensagens devolvidas ao usuário
const (
	InvalidURLMessage   = "Invalid URL provided. Please ensure it is a full and valid web address."
	ConnectivityMessage = "Failed to analyze URL. The web page might be inaccessible, blocking requests, or the URL may be incorrect."
	TimeoutMessage      = "Analysis timed out. The page might be too large or slow to respond."
	GenericMessage      = "An unexpected error occurred while analyzing the URL. Please try again."
)

var connectivityKeywords = []string{"fetch", "enotfound", "econnrefused", "no such host", "connection refused", "dial"}

var timeoutKeywords = []string{"timeout", "timed out", "deadline exceeded"}

var schemesWithHost = map[string]struct{}{"http": {}, "https": {}, "ftp": {}, "ws": {}, "wss": {}}

// ValidateURL rejeita entradas vazias e URLs que não sejam absolutas.
// Qualquer esquema é aceito; a busca da página é que pode falhar depois.
func ValidateURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: URL vazia", ErrInvalidInput)
	}

	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if !u.IsAbs() {
		return nil, fmt.Errorf("%w: URL não é absoluta: %q", ErrInvalidInput, trimmed)
	}
	// Esquemas hierárquicos como http e ftp exigem host; mailto: e afins não
	if _, needsHost := schemesWithHost[strings.ToLower(u.Scheme)]; needsHost && u.Opaque == "" && u.Host == "" {
		return nil, fmt.Errorf("%w: URL sem host: %q", ErrInvalidInput, trimmed)
	}
	return u, nil
}

// UserMessage converte um erro na mensagem exibida ao usuário.
// Falhas inesperadas são classificadas por palavras-chave da mensagem.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, ErrInvalidInput) {
		return InvalidURLMessage
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return TimeoutMessage
	}

	msg := strings.ToLower(err.Error())
	for _, keyword := range connectivityKeywords {
		if strings.Contains(msg, keyword) {
			return ConnectivityMessage
		}
	}
	for _, keyword := range timeoutKeywords {
		if strings.Contains(msg, keyword) {
			return TimeoutMessage
		}
	}
	return GenericMessage
}
