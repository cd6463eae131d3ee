package bot

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"detector-padroes/internal/analyzer"
	"detector-padroes/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Quantidade máxima de itens listados por seção (limite de 4096 caracteres do Telegram)
const maxListedItems = 8

// DefaultMaxConcurrent limita quantas mensagens são tratadas ao mesmo tempo
const DefaultMaxConcurrent = 4

// Analyzer executa a análise de uma URL
type Analyzer interface {
	Analyze(ctx context.Context, rawURL string) models.ActionResponse
}

// Handler trata as mensagens recebidas pelo bot
type Handler struct {
	sender           Sender
	analyzer         Analyzer
	authorizedChatID int64
	timeout          time.Duration
	logger           *zap.Logger
	maxConcurrent    int
}

// NewHandler cria o Handler. authorizedChatID igual a zero libera todos os chats;
// timeout igual a zero deixa a análise sem prazo próprio.
func NewHandler(sender Sender, a Analyzer, authorizedChatID int64, timeout time.Duration, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		sender:           sender,
		analyzer:         a,
		authorizedChatID: authorizedChatID,
		timeout:          timeout,
		logger:           logger,
		maxConcurrent:    DefaultMaxConcurrent,
	}
}

// SetMaxConcurrent troca o limite de mensagens tratadas em paralelo (mínimo 1)
func (h *Handler) SetMaxConcurrent(n int) {
	if n < 1 {
		n = 1
	}
	h.maxConcurrent = n
}

// Run consome as atualizações até o contexto terminar ou o canal fechar.
// No máximo maxConcurrent mensagens são tratadas ao mesmo tempo; quando o
// limite é atingido a leitura do canal espera. Run espera todas antes de
// retornar e devolve o erro do contexto quando foi cancelado.
func (h *Handler) Run(ctx context.Context, updates tgbotapi.UpdatesChannel) error {
	var g errgroup.Group
	g.SetLimit(h.maxConcurrent)

	for {
		select {
		case <-ctx.Done():
			_ = g.Wait()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return g.Wait()
			}
			if update.Message == nil || update.Message.Text == "" {
				continue
			}

			message := update.Message
			g.Go(func() error {
				// Mensagens que ficaram na fila depois do cancelamento são descartadas
				if err := ctx.Err(); err != nil {
					return err
				}
				h.HandleMessage(ctx, message)
				return nil
			})
		}
	}
}

// HandleMessage interpreta um comando ou uma URL solta
func (h *Handler) HandleMessage(ctx context.Context, message *tgbotapi.Message) {
	if message == nil || message.Chat == nil {
		return
	}
	chatID := message.Chat.ID

	parts := strings.Fields(message.Text)
	if len(parts) == 0 {
		return
	}

	command := strings.ToLower(parts[0])
	// Remover @botname se presente
	if idx := strings.Index(command, "@"); idx > 0 && strings.HasPrefix(command, "/") {
		command = command[:idx]
	}

	isPublicCommand := command == "/start" || command == "/help"

	if !isPublicCommand && h.authorizedChatID != 0 && chatID != h.authorizedChatID {
		h.logger.Warn("Mensagem de chat não autorizado", zap.Int64("chat_id", chatID))
		h.send(tgbotapi.NewMessage(chatID, "Você não está autorizado a usar este bot."))
		return
	}

	switch {
	case isPublicCommand:
		h.handleHelp(chatID)
	case command == "/analyze":
		if len(parts) < 2 {
			h.send(tgbotapi.NewMessage(chatID, "❌ Formato incorreto.\n\nUso: /analyze <URL>\n\nExemplo: /analyze https://www.example.com/dp/blue-wireless-mouse"))
			return
		}
		h.handleAnalyze(ctx, chatID, parts[1])
	case looksLikeURL(parts[0]):
		h.handleAnalyze(ctx, chatID, parts[0])
	default:
		h.send(tgbotapi.NewMessage(chatID, "Comando não reconhecido. Use /help para ver os comandos disponíveis."))
	}
}

func looksLikeURL(text string) bool {
	lower := strings.ToLower(text)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

func (h *Handler) handleHelp(chatID int64) {
	helpText := `🤖 <b>Detector de Dark Patterns</b>

Envie o link de uma página de produto e eu aponto padrões enganosos, ofertas suspeitas e um histórico de preços simulado.

<b>Comandos disponíveis:</b>

<b>/analyze &lt;URL&gt;</b> - Analisar uma página de produto
Exemplo: /analyze https://www.example.com/dp/blue-wireless-mouse

Também funciona mandando só a URL.

<b>/help</b> - Mostrar esta mensagem de ajuda
`

	msg := tgbotapi.NewMessage(chatID, helpText)
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := h.sender.Send(msg); err != nil {
		h.logger.Warn("Erro ao enviar mensagem de ajuda", zap.Error(err))
		// Tentar sem formatação se houver erro
		msg.ParseMode = ""
		h.send(msg)
	}
}

func (h *Handler) handleAnalyze(ctx context.Context, chatID int64, rawURL string) {
	// Enviar mensagem de "analisando"
	sentMessageID := 0
	if sent, err := h.sender.Send(tgbotapi.NewMessage(chatID, "⏳ Analisando página...")); err == nil {
		sentMessageID = sent.MessageID
	}

	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	resp := h.analyzer.Analyze(ctx, rawURL)

	var response string
	if resp.OK() {
		response = FormatResult(resp.Data)
	} else {
		response = "❌ " + html.EscapeString(resp.Error)
	}

	h.deliver(chatID, sentMessageID, response)
}

// deliver edita a mensagem de espera ou, se não der, envia uma nova.
// HTML inválido cai para texto sem formatação.
func (h *Handler) deliver(chatID int64, sentMessageID int, response string) {
	if sentMessageID != 0 {
		editMsg := tgbotapi.NewEditMessageText(chatID, sentMessageID, response)
		editMsg.ParseMode = tgbotapi.ModeHTML
		_, err := h.sender.Send(editMsg)
		if err == nil {
			return
		}
		h.logger.Warn("Erro ao editar mensagem (tentando enviar nova)", zap.Error(err))
	}

	newMsg := tgbotapi.NewMessage(chatID, response)
	newMsg.ParseMode = tgbotapi.ModeHTML
	if _, err := h.sender.Send(newMsg); err != nil {
		h.logger.Warn("Erro ao enviar resposta com HTML", zap.Error(err))
		newMsg.ParseMode = ""
		h.send(newMsg)
	}
}

func (h *Handler) send(c tgbotapi.Chattable) {
	if _, err := h.sender.Send(c); err != nil {
		h.logger.Error("Erro ao enviar mensagem", zap.Error(err))
	}
}

// FormatResult monta a resposta da análise em HTML do Telegram
func FormatResult(result *models.ProductAnalysisResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "🔎 <b>%s</b>\n", html.EscapeString(result.ProductName))
	fmt.Fprintf(&b, "🔗 %s\n", html.EscapeString(result.URL))
	fmt.Fprintf(&b, "🖼 %s\n", html.EscapeString(result.ProductImage))

	b.WriteString("\n")
	if len(result.DarkPatterns) == 0 {
		b.WriteString("✅ Nenhum dark pattern encontrado.\n")
	} else {
		fmt.Fprintf(&b, "⚠️ <b>Dark patterns (%d)</b>\n", len(result.DarkPatterns))
		for i, p := range result.DarkPatterns {
			if i == maxListedItems {
				fmt.Fprintf(&b, "… e mais %d\n", len(result.DarkPatterns)-i)
				break
			}
			fmt.Fprintf(&b, "• <b>%s</b>: %s\n", html.EscapeString(p.PatternType), html.EscapeString(p.Explanation))
			if p.Element != "" {
				fmt.Fprintf(&b, "  <i>%s</i>\n", html.EscapeString(p.Element))
			}
		}

		counts := make([]string, 0, len(result.PatternSummary))
		for _, c := range result.PatternSummary {
			counts = append(counts, fmt.Sprintf("%s ×%d", html.EscapeString(c.Name), c.Total))
		}
		if len(counts) > 0 {
			fmt.Fprintf(&b, "📊 %s\n", strings.Join(counts, ", "))
		}
	}

	b.WriteString("\n")
	if len(result.TrickyOffers) == 0 {
		b.WriteString("✅ Nenhuma oferta suspeita encontrada.\n")
	} else {
		fmt.Fprintf(&b, "🏷 <b>Ofertas suspeitas (%d)</b>\n", len(result.TrickyOffers))
		for i, o := range result.TrickyOffers {
			if i == maxListedItems {
				fmt.Fprintf(&b, "… e mais %d\n", len(result.TrickyOffers)-i)
				break
			}
			fmt.Fprintf(&b, "• <b>%s</b>: %s\n", html.EscapeString(o.OfferText), html.EscapeString(o.Concern))
			if o.Advice != "" {
				fmt.Fprintf(&b, "  💡 %s\n", html.EscapeString(o.Advice))
			}
		}
	}

	if lowest := analyzer.LowestPrices(result.PriceHistory); len(lowest) > 0 {
		b.WriteString("\n💰 <b>Menor preço (histórico simulado)</b>\n")
		for _, p := range lowest {
			fmt.Fprintf(&b, "%s: ₹ %.0f em %s\n", html.EscapeString(p.Source), p.Price, p.Date)
		}
	}

	return b.String()
}
