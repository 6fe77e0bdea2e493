package usecase

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"html/template"

	"hireflow/internal/domain/event"

	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFS embed.FS

var mailTemplates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

const (
	tmplApplicationSubmitted = "application_submitted"
	tmplApplicationReceived  = "application_received"
	tmplApplicationAccepted  = "application_accepted"
	tmplContractReady        = "contract_ready"
	tmplContractSigned       = "contract_signed"
)

type mailData struct {
	Heading       string
	RecipientName string
	CandidateName string
	JobTitle      string
	Score         *int
	Rationale     string
}

// notices delivers the side effects of a committed change. Failures are logged, never returned.
type notices struct {
	notifier  Notifier
	publisher EventPublisher
	logger    *zap.Logger
}

func newNotices(notifier Notifier, publisher EventPublisher, logger *zap.Logger) notices {
	if logger == nil {
		logger = zap.NewNop()
	}
	return notices{notifier: notifier, publisher: publisher, logger: logger}
}

func (n notices) email(ctx context.Context, to, subject, tmpl string, data mailData) {
	if n.notifier == nil || to == "" {
		return
	}
	if data.Heading == "" {
		data.Heading = subject
	}
	body, err := renderMail(tmpl, data)
	if err != nil {
		n.logger.Error("render notification", zap.String("template", tmpl), zap.Error(err))
		return
	}
	if err := n.notifier.Send(ctx, to, subject, body); err != nil {
		n.logger.Warn("send notification",
			zap.String("template", tmpl),
			zap.String("to", to),
			zap.Error(errors.Join(ErrNotificationFailed, err)),
		)
	}
}

func (n notices) publish(ctx context.Context, e event.Event) {
	if n.publisher == nil {
		return
	}
	if err := n.publisher.Publish(ctx, e); err != nil {
		n.logger.Warn("publish event",
			zap.String("type", string(e.Type)),
			zap.String("application_id", e.ApplicationID.String()),
			zap.Error(err),
		)
	}
}

func renderMail(name string, data mailData) (string, error) {
	var buf bytes.Buffer
	if err := mailTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
