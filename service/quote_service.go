package service

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"kv-rentals/models"
	"kv-rentals/utils"
)

//go:embed templates/quote.html
var quoteTemplateFS embed.FS

var quoteTemplate = template.Must(
	template.New("quote.html").
		Funcs(template.FuncMap{"join": strings.Join}).
		ParseFS(quoteTemplateFS, "templates/quote.html"),
)

const pdfTimeout = 30 * time.Second

// QuoteServiceInterface defines the contract for rendering rental quotes
type QuoteServiceInterface interface {
	RenderQuoteHTML(summary *models.CartSummary) (string, error)
	GenerateQuotePDF(ctx context.Context, sessionID string) ([]byte, error)
}

// QuoteService renders a priced cart as an HTML page and prints it to PDF
type QuoteService struct {
	baseURL    string // Base URL this server is reachable on (e.g., "http://localhost:8080")
	chromePath string
	now        func() time.Time
}

// NewQuoteService creates a new QuoteService
func NewQuoteService(baseURL, chromePath string, now func() time.Time) *QuoteService {
	if now == nil {
		now = time.Now
	}
	return &QuoteService{
		baseURL:    strings.TrimRight(baseURL, "/"),
		chromePath: chromePath,
		now:        now,
	}
}

// Ensure QuoteService implements QuoteServiceInterface
var _ QuoteServiceInterface = (*QuoteService)(nil)

// detectChromePath returns the configured browser if it exists, else the first common install found
func detectChromePath(configured string) string {
	if configured != "" {
		if _, err := os.Stat(configured); err == nil {
			return configured
		}
	}

	paths := []string{
		"/usr/bin/chromium",
		"/usr/bin/chromium-browser",
		"/usr/bin/google-chrome",
		"/usr/bin/google-chrome-stable",
		"/snap/bin/chromium",
	}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// RenderQuoteHTML renders the quote template for a priced cart
func (s *QuoteService) RenderQuoteHTML(summary *models.CartSummary) (string, error) {
	if summary == nil {
		return "", errors.New("nil cart summary")
	}

	data := struct {
		Summary     *models.CartSummary
		GeneratedAt string
	}{
		Summary:     summary,
		GeneratedAt: utils.FormatDate(s.now()),
	}

	var buf bytes.Buffer
	if err := quoteTemplate.Execute(&buf, data); err != nil {
		return "", errors.Wrap(err, "execute quote template")
	}
	return buf.String(), nil
}

// QuoteRenderURL is the page headless Chrome prints for a session
func (s *QuoteService) QuoteRenderURL(sessionID string) string {
	q := url.Values{}
	q.Set("session", sessionID)
	return s.baseURL + "/api/cart/quote?" + q.Encode()
}

// GenerateQuotePDF loads the session's quote page in headless Chrome and prints it to A4
func (s *QuoteService) GenerateQuotePDF(ctx context.Context, sessionID string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, pdfTimeout)
	defer cancel()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox,
		chromedp.Flag("enable-print-preview", true),
	)
	if chromePath := detectChromePath(s.chromePath); chromePath != "" {
		opts = append(opts, chromedp.ExecPath(chromePath))
	} else {
		logrus.Warn("⚠️  GenerateQuotePDF: no Chrome binary found, letting chromedp search PATH")
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	defer allocCancel()
	chromedpCtx, chromedpCancel := chromedp.NewContext(allocCtx)
	defer chromedpCancel()

	renderURL := s.QuoteRenderURL(sessionID)
	logrus.WithField("url", renderURL).Info("🖨️  GenerateQuotePDF: rendering")

	var pdfBuf []byte
	err := chromedp.Run(chromedpCtx,
		chromedp.Navigate(renderURL),
		chromedp.WaitReady("body"),
		// Images are product URLs on the catalog host; give them a moment.
		chromedp.Evaluate(`
			Promise.all(Array.from(document.images).map(img => img.complete ? null :
				new Promise(resolve => { img.onload = img.onerror = resolve; setTimeout(resolve, 5000); })))
		`, nil, func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
			return p.WithAwaitPromise(true)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			// A4 = 210mm x 297mm = 8.27" x 11.69"
			pdfBuf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(8.27).
				WithPaperHeight(11.69).
				WithMarginTop(0).
				WithMarginBottom(0).
				WithMarginLeft(0).
				WithMarginRight(0).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, errors.Wrap(err, "generate quote PDF")
	}

	logrus.WithField("bytes", len(pdfBuf)).Info("✅ GenerateQuotePDF: done")
	return pdfBuf, nil
}
