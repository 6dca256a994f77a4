// Package options stores the toolkit settings as one JSON record split into
// subkeys. Missing or empty subkeys always read back as their defaults.
package options

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"blog-toolkit/excerpt"
	"blog-toolkit/listing"
	"blog-toolkit/sitecode"
)

// OptionKey identifies the settings record.
const OptionKey = "ultimate-toolkit-options"

// Subkeys of the settings record.
const (
	KeyExcerpt     = "excerpt"
	KeyRelatedList = "related-posts-list"
	KeyCustomCode  = "customcode"
	KeyMetaInfo    = "metainfo"
)

var ErrUnknownKey = errors.New("unknown option key")

// ErrDecode wraps malformed subkey values.
var ErrDecode = errors.New("invalid option value")

// Keys lists every subkey.
var Keys = []string{KeyExcerpt, KeyRelatedList, KeyCustomCode, KeyMetaInfo}

// Options is the decoded settings record.
type Options struct {
	Excerpt     excerpt.Config         `json:"excerpt"`
	RelatedList listing.RelatedOptions `json:"related-posts-list"`
	CustomCode  []sitecode.Snippet     `json:"customcode"`
	MetaInfo    sitecode.MetaInfo      `json:"metainfo"`
}

// Defaults returns the settings of a fresh install.
func Defaults() Options {
	return Options{
		Excerpt: excerpt.DefaultConfig(),
		RelatedList: listing.RelatedOptions{
			Enabled:          false,
			Title:            "Related Posts",
			Number:           5,
			ShowCommentCount: true,
		},
		CustomCode: []sitecode.Snippet{},
		MetaInfo:   sitecode.MetaInfo{Enabled: true},
	}
}

// DefaultsFor returns the JSON defaults of one subkey.
func DefaultsFor(key string) (json.RawMessage, error) {
	return Defaults().Get(key)
}

// Get returns the JSON value of one subkey.
func (o Options) Get(key string) (json.RawMessage, error) {
	var v interface{}
	switch key {
	case KeyExcerpt:
		v = o.Excerpt
	case KeyRelatedList:
		v = o.RelatedList
	case KeyCustomCode:
		v = o.CustomCode
	case KeyMetaInfo:
		v = o.MetaInfo
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	return json.Marshal(v)
}

// Set decodes raw into one subkey. Fields absent from raw keep the values
// of the subkey's defaults.
func (o *Options) Set(key string, raw json.RawMessage) error {
	d := Defaults()
	var target interface{}
	switch key {
	case KeyExcerpt:
		target = &d.Excerpt
	case KeyRelatedList:
		target = &d.RelatedList
	case KeyCustomCode:
		target = &d.CustomCode
	case KeyMetaInfo:
		target = &d.MetaInfo
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}

	if !isEmpty(raw) {
		if err := json.Unmarshal(raw, target); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrDecode, key, err)
		}
	}

	switch key {
	case KeyExcerpt:
		o.Excerpt = d.Excerpt
	case KeyRelatedList:
		o.RelatedList = d.RelatedList
	case KeyCustomCode:
		if d.CustomCode == nil {
			d.CustomCode = []sitecode.Snippet{}
		}
		o.CustomCode = d.CustomCode
	case KeyMetaInfo:
		o.MetaInfo = d.MetaInfo
	}
	return nil
}

// Decode parses a stored record. Unknown subkeys are ignored.
func Decode(data []byte) (Options, error) {
	opts := Defaults()
	if isEmpty(data) {
		return opts, nil
	}

	var record map[string]json.RawMessage
	if err := json.Unmarshal(data, &record); err != nil {
		return opts, fmt.Errorf("decode options record: %w", err)
	}
	for _, key := range Keys {
		if err := opts.Set(key, record[key]); err != nil {
			return Defaults(), err
		}
	}
	return opts, nil
}

// Encode serializes the record.
func (o Options) Encode() ([]byte, error) {
	return json.Marshal(o)
}

func isEmpty(raw []byte) bool {
	trimmed := bytes.TrimSpace(raw)
	switch string(trimmed) {
	case "", "null", "{}", "[]", `""`, "false", "0":
		return true
	}
	return false
}
