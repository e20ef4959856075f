package model

import (
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/text/unicode/norm"
)

// Query is a research request as entered by the user. Only Topic is
// required; Year, Country and Region narrow the webhook-generated search
// string when present.
type Query struct {
	Topic   string `json:"topic"`
	Year    string `json:"year,omitempty"`
	Country string `json:"country,omitempty"`
	Region  string `json:"region,omitempty"`
}

// NewQuery trims and NFC-normalizes every field and rejects an empty topic.
func NewQuery(topic, year, country, region string) (Query, error) {
	q := Query{
		Topic:   clean(topic),
		Year:    clean(year),
		Country: clean(country),
		Region:  clean(region),
	}
	if q.Topic == "" {
		return Query{}, eris.New("model: topic is required")
	}
	return q, nil
}

// NeedsResolution reports whether the search string has to be generated by
// the webhook rather than taken verbatim from the topic.
func (q Query) NeedsResolution() bool {
	return q.Year != "" || q.Country != "" || q.Region != ""
}

func clean(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}
