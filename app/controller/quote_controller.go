package controller

import (
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"

	"kv-rentals/service"
)

// QuoteController handles HTTP requests for rental quotes
type QuoteController struct {
	summaries service.SummaryServiceInterface
	quotes    service.QuoteServiceInterface
	sessions  *SessionResolver
}

// NewQuoteController creates a new QuoteController
func NewQuoteController(
	summaries service.SummaryServiceInterface,
	quotes service.QuoteServiceInterface,
	sessions *SessionResolver,
) *QuoteController {
	return &QuoteController{
		summaries: summaries,
		quotes:    quotes,
		sessions:  sessions,
	}
}

// GetQuote handles GET /api/cart/quote
// Query parameters:
//   - format: "html" (default) or "pdf"
//   - session: cart session, used by the headless browser that prints the PDF
func (c *QuoteController) GetQuote(w http.ResponseWriter, r *http.Request) {
	logrus.Infof("📥 GetQuote: Received %s request to %s", r.Method, r.URL.Path)

	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, "GetQuote")
		return
	}
	sessionID := c.sessions.Resolve(w, r)

	format := r.URL.Query().Get("format")
	switch format {
	case "", "html":
		c.renderHTML(w, r, sessionID)
	case "pdf":
		c.renderPDF(w, r, sessionID)
	default:
		logrus.Warnf("❌ GetQuote: Invalid format %q", format)
		writeError(w, http.StatusBadRequest, "format must be html or pdf")
	}
}

func (c *QuoteController) renderHTML(w http.ResponseWriter, r *http.Request, sessionID string) {
	summary, err := c.summaries.Summarize(r.Context(), sessionID)
	if err != nil {
		writeServiceError(w, "GetQuote", err, msgItemsFailed)
		return
	}

	html, err := c.quotes.RenderQuoteHTML(summary)
	if err != nil {
		writeServiceError(w, "GetQuote", err, "")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(html))
}

func (c *QuoteController) renderPDF(w http.ResponseWriter, r *http.Request, sessionID string) {
	pdf, err := c.quotes.GenerateQuotePDF(r.Context(), sessionID)
	if err != nil {
		writeServiceError(w, "GetQuote", err, "")
		return
	}

	logrus.WithField("bytes", len(pdf)).Info("✅ GetQuote: PDF generated")
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="rental-quote.pdf"`)
	w.Header().Set("Content-Length", fmt.Sprint(len(pdf)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}
