package i18n

import (
	"embed"
	"path"
	"sort"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/unidl/pkg/utils/humanize"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

//go:embed locales/*.toml
var locales embed.FS

// rtlBases lists languages written right to left
var rtlBases = map[string]bool{"he": true, "ar": true, "fa": true}

// Bundle holds every embedded catalog and picks one per request
type Bundle struct {
	catalog   *catalog.Builder
	supported []language.Tag
	matcher   language.Matcher
	fallback  language.Tag
}

// NewBundle loads the embedded catalogs. defaultLang is used when nothing in
// Accept-Language matches and for messages missing from a catalog.
func NewBundle(defaultLang string) (*Bundle, error) {
	fallback, err := language.Parse(defaultLang)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid default language", goerr.V("lang", defaultLang))
	}

	builder := catalog.NewBuilder(catalog.Fallback(fallback))

	entries, err := locales.ReadDir("locales")
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list locales")
	}

	var tags []language.Tag
	for _, entry := range entries {
		name := entry.Name()
		tag, err := language.Parse(strings.TrimSuffix(name, path.Ext(name)))
		if err != nil {
			return nil, goerr.Wrap(err, "invalid locale file name", goerr.V("file", name))
		}

		raw, err := locales.ReadFile("locales/" + name)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to read locale", goerr.V("file", name))
		}

		var doc map[string]any
		if err := toml.Unmarshal(raw, &doc); err != nil {
			return nil, goerr.Wrap(err, "failed to parse locale", goerr.V("file", name))
		}

		for key, msg := range flatten("", doc) {
			if err := builder.SetString(tag, key, msg); err != nil {
				return nil, goerr.Wrap(err, "failed to register message", goerr.V("file", name), goerr.V("key", key))
			}
		}
		tags = append(tags, tag)
	}

	// the matcher prefers its first tag when nothing matches
	sort.SliceStable(tags, func(i, j int) bool {
		return tags[i] == fallback && tags[j] != fallback
	})
	if len(tags) == 0 || tags[0] != fallback {
		return nil, goerr.New("no catalog for default language", goerr.V("lang", defaultLang))
	}

	return &Bundle{
		catalog:   builder,
		supported: tags,
		matcher:   language.NewMatcher(tags),
		fallback:  fallback,
	}, nil
}

// Languages returns the tags with a catalog, default first
func (b *Bundle) Languages() []language.Tag {
	return append([]language.Tag(nil), b.supported...)
}

// Localizer picks the best catalog for an Accept-Language header value
func (b *Bundle) Localizer(acceptLanguage string) *Localizer {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return b.localizer(b.fallback)
	}
	_, idx, _ := b.matcher.Match(tags...)
	return b.localizer(b.supported[idx])
}

func (b *Bundle) localizer(tag language.Tag) *Localizer {
	return &Localizer{
		tag:     tag,
		printer: message.NewPrinter(tag, message.Catalog(b.catalog)),
	}
}

// Localizer renders messages for one language
type Localizer struct {
	tag     language.Tag
	printer *message.Printer
}

// Tag returns the selected language
func (l *Localizer) Tag() language.Tag {
	return l.tag
}

// Lang returns the BCP 47 code for the html lang attribute
func (l *Localizer) Lang() string {
	return l.tag.String()
}

// Dir returns "rtl" or "ltr" for the html dir attribute
func (l *Localizer) Dir() string {
	base, _ := l.tag.Base()
	if rtlBases[base.String()] {
		return "rtl"
	}
	return "ltr"
}

// T renders message id with args. Unknown ids are returned as is.
func (l *Localizer) T(id string, args ...any) string {
	return l.printer.Sprintf(id, args...)
}

// Number formats n with the language's digit grouping
func (l *Localizer) Number(n int64) string {
	return humanize.Count(n, l.tag)
}

func flatten(prefix string, doc map[string]any) map[string]string {
	out := make(map[string]string)
	for k, v := range doc {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch val := v.(type) {
		case string:
			out[key] = val
		case map[string]any:
			for kk, vv := range flatten(key, val) {
				out[kk] = vv
			}
		}
	}
	return out
}
