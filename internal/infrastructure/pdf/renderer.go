package pdf

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

var documentTemplate = template.Must(template.New("document").Parse(`<!DOCTYPE html>
<html><head><meta charset="utf-8"><title>{{.Title}}</title>
<style>
body { font-family: Georgia, serif; font-size: 11pt; line-height: 1.5; margin: 0; }
h1 { font-size: 16pt; text-align: center; margin-bottom: 24px; }
p { margin: 0 0 10px; text-align: justify; }
</style></head>
<body><h1>{{.Title}}</h1>
{{range .Paragraphs}}<p>{{.}}</p>
{{end}}</body></html>`))

type documentData struct {
	Title      string
	Paragraphs []string
}

// Renderer prints HTML documents to PDF with headless Chrome.
type Renderer struct {
	timeout time.Duration
	logger  *zap.Logger
}

func NewRenderer(timeout time.Duration, logger *zap.Logger) *Renderer {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Renderer{timeout: timeout, logger: logger}
}

func (r *Renderer) RenderPDF(ctx context.Context, title, body string) ([]byte, error) {
	html, err := renderHTML(title, body)
	if err != nil {
		return nil, err
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)...,
	)
	defer allocCancel()

	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	defer browserCancel()

	reqCtx, reqCancel := context.WithTimeout(browserCtx, r.timeout)
	defer reqCancel()

	var out []byte
	err = chromedp.Run(reqCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, html).Do(ctx)
		}),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(8.27).
				WithPaperHeight(11.69).
				WithMarginTop(0.8).
				WithMarginBottom(0.8).
				WithMarginLeft(0.8).
				WithMarginRight(0.8).
				Do(ctx)
			if err != nil {
				return err
			}
			out = buf
			return nil
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("print pdf: %w", err)
	}

	r.logger.Debug("pdf rendered", zap.String("title", title), zap.Int("bytes", len(out)))
	return out, nil
}

func renderHTML(title, body string) (string, error) {
	var buf bytes.Buffer
	if err := documentTemplate.Execute(&buf, documentData{Title: title, Paragraphs: paragraphs(body)}); err != nil {
		return "", fmt.Errorf("render document html: %w", err)
	}
	return buf.String(), nil
}

func paragraphs(body string) []string {
	body = strings.ReplaceAll(body, "\r\n", "\n")
	var out []string
	for _, block := range strings.Split(body, "\n\n") {
		if p := strings.Join(strings.Fields(block), " "); p != "" {
			out = append(out, p)
		}
	}
	return out
}
