// Package i18n localizes the dashboard's presentation strings. Japanese
// and English message files are compiled into the binary.
package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"path"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"

	"github.com/AchilleasB/safety-check/dashboard-service/internal/core/domain"
)

//go:embed locales/*.json
var locales embed.FS

const (
	MsgLang                = "lang"
	MsgTitle               = "title"
	MsgSearchPlaceholder   = "search_placeholder"
	MsgSearchButton        = "search_button"
	MsgLoading             = "loading"
	MsgFetchFailed         = "fetch_failed"
	MsgEmptyNoMatches      = "empty_no_matches"
	MsgEmptyNoReports      = "empty_no_reports"
	MsgUnresolvedNotice    = "unresolved_notice"
	MsgStatusSafe          = "status_safe"
	MsgStatusNeedHelp      = "status_need_help"
	MsgStatusUnknown       = "status_unknown"
	MsgUnknownUser         = "unknown_user"
	MsgUnknownLocation     = "unknown_location"
	MsgColumnStatus        = "column_status"
	MsgColumnLocation      = "column_location"
	MsgColumnTimestamp     = "column_timestamp"
	MsgEarthquakeTitle     = "earthquake_title"
	MsgEarthquakeTrigger   = "earthquake_trigger"
	MsgEarthquakeTriggered = "earthquake_triggered"
	MsgEarthquakeFailed    = "earthquake_failed"
	MsgLocationTokyo       = "location_tokyo"
	MsgLocationNiigata     = "location_niigata"
)

type Translator struct {
	bundle    *i18n.Bundle
	supported []language.Tag
	matcher   language.Matcher
}

// NewTranslator loads the embedded locales. Messages missing in a language
// fall back to defaultLang.
func NewTranslator(defaultLang string) (*Translator, error) {
	tag, err := language.Parse(defaultLang)
	if err != nil {
		return nil, fmt.Errorf("parsing default language %q: %w", defaultLang, err)
	}

	bundle := i18n.NewBundle(tag)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	entries, err := locales.ReadDir("locales")
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		name := path.Join("locales", entry.Name())
		data, err := locales.ReadFile(name)
		if err != nil {
			return nil, err
		}
		if _, err := bundle.ParseMessageFileBytes(data, name); err != nil {
			return nil, fmt.Errorf("loading %s: %w", name, err)
		}
	}

	supported := bundle.LanguageTags()
	return &Translator{
		bundle:    bundle,
		supported: supported,
		matcher:   language.NewMatcher(supported),
	}, nil
}

// Languages lists the tags that have a message file.
func (t *Translator) Languages() []string {
	tags := t.bundle.LanguageTags()
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		out = append(out, tag.String())
	}
	return out
}

// Localizer picks the first supported language among langs; each entry may
// be a tag or a full Accept-Language header value. Languages without a close
// match among the message files are skipped, so the default applies.
func (t *Translator) Localizer(langs ...string) *Localizer {
	return &Localizer{l: i18n.NewLocalizer(t.bundle, t.supportedOf(langs)...)}
}

func (t *Translator) supportedOf(langs []string) []string {
	var out []string
	for _, lang := range langs {
		tags, _, err := language.ParseAcceptLanguage(lang)
		if err != nil {
			continue
		}
		for _, tag := range tags {
			_, index, conf := t.matcher.Match(tag)
			if conf < language.High {
				continue
			}
			out = append(out, t.supported[index].String())
		}
	}
	return out
}

type Localizer struct {
	l *i18n.Localizer
}

// T returns the message for id, or id itself when it is unknown.
func (l *Localizer) T(id string, data map[string]interface{}) string {
	msg, err := l.l.Localize(&i18n.LocalizeConfig{
		MessageID:    id,
		TemplateData: data,
	})
	if err != nil {
		return id
	}
	return msg
}

func (l *Localizer) StatusLabel(s domain.Status) string {
	switch s {
	case domain.StatusSafe:
		return l.T(MsgStatusSafe, nil)
	case domain.StatusNeedHelp:
		return l.T(MsgStatusNeedHelp, nil)
	default:
		return l.T(MsgStatusUnknown, nil)
	}
}

func (l *Localizer) LocationName(loc domain.Location) string {
	if loc == domain.LocationNiigata {
		return l.T(MsgLocationNiigata, nil)
	}
	return l.T(MsgLocationTokyo, nil)
}

func (l *Localizer) EmptyMessage(reason domain.EmptyReason) string {
	if reason == domain.EmptyNoReports {
		return l.T(MsgEmptyNoReports, nil)
	}
	return l.T(MsgEmptyNoMatches, nil)
}
