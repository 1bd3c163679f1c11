// Package i18n translates report labels with a golang.org/x/text message
// catalog. English source strings double as message keys.
package i18n

import (
	"context"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// LanguageFunc extracts the requested language (a BCP 47 tag or an
// Accept-Language value) from ctx
type LanguageFunc func(ctx context.Context) string

// Translator resolves labels against the catalog in the language carried by
// the request context, falling back to the configured default.
type Translator struct {
	catalog   catalog.Catalog
	matcher   language.Matcher
	supported []language.Tag
	fallback  language.Tag
	langOf    LanguageFunc
}

// New builds a translator over the built-in catalog. An unparsable default
// language falls back to English.
func New(defaultLang string, langOf LanguageFunc) *Translator {
	cat, tags := buildCatalog()
	return NewWithCatalog(cat, tags, defaultLang, langOf)
}

// NewWithCatalog builds a translator over cat. supported lists the languages
// cat has messages for; the first one wins ties.
func NewWithCatalog(cat catalog.Catalog, supported []language.Tag, defaultLang string, langOf LanguageFunc) *Translator {
	fallback, err := language.Parse(defaultLang)
	if err != nil {
		fallback = language.English
	}
	if len(supported) == 0 {
		supported = []language.Tag{language.English}
	}
	if langOf == nil {
		langOf = func(context.Context) string { return "" }
	}
	return &Translator{
		catalog:   cat,
		matcher:   language.NewMatcher(supported),
		supported: supported,
		fallback:  fallback,
		langOf:    langOf,
	}
}

// Translate returns msg in the context language, or msg unchanged when the
// catalog has no entry for it.
func (t *Translator) Translate(ctx context.Context, msg string) string {
	// catalog keys never carry verbs; keep arbitrary names such as cost
	// centers from being read as format strings
	if msg == "" || strings.ContainsRune(msg, '%') {
		return msg
	}
	p := message.NewPrinter(t.Resolve(t.langOf(ctx)), message.Catalog(t.catalog))
	return p.Sprintf(msg)
}

// Resolve picks the best supported language for an Accept-Language value or
// tag. An empty or unmatched value resolves to the default language.
func (t *Translator) Resolve(accept string) language.Tag {
	if tags, _, err := language.ParseAcceptLanguage(accept); err == nil && len(tags) > 0 {
		if _, idx, confidence := t.matcher.Match(tags...); confidence != language.No {
			return t.supported[idx]
		}
	}
	_, idx, _ := t.matcher.Match(t.fallback)
	return t.supported[idx]
}

// Supported lists the languages with catalog entries.
func (t *Translator) Supported() []language.Tag {
	return append([]language.Tag(nil), t.supported...)
}
