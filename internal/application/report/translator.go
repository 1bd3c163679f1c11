package report

import (
	"context"
	"time"
)

// Translator translates user-facing labels into the language carried by ctx
type Translator interface {
	Translate(ctx context.Context, msg string) string
}

// IdentityTranslator returns labels unchanged
type IdentityTranslator struct{}

// Translate returns msg as is
func (IdentityTranslator) Translate(_ context.Context, msg string) string {
	return msg
}

type languageKey struct{}

// WithLanguage stores the preferred label language (a BCP 47 tag or an
// Accept-Language header value) in the context
func WithLanguage(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, languageKey{}, lang)
}

// LanguageFromContext returns the label language stored in ctx, or ""
func LanguageFromContext(ctx context.Context) string {
	lang, _ := ctx.Value(languageKey{}).(string)
	return lang
}

// Metrics records report executions
type Metrics interface {
	RecordExecution(ctx context.Context, reportName string, rows int, elapsed time.Duration, err error)
}

type noopMetrics struct{}

func (noopMetrics) RecordExecution(context.Context, string, int, time.Duration, error) {}
