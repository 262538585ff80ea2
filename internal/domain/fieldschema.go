package domain

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// FieldKind classifies how a correctable field is validated
type FieldKind string

const (
	FieldText FieldKind = "text"
	FieldDate FieldKind = "date"
	FieldList FieldKind = "list"
	FieldEnum FieldKind = "enum"
	FieldURL  FieldKind = "url"
)

// FieldSpec describes one correctable game field. The same table drives
// server-side validation and the client's per-field form rendering, so the
// type dispatch lives in exactly one place.
type FieldSpec struct {
	Kind     FieldKind
	Column   string
	Enum     []string
	Required bool // cannot be cleared to empty
}

// CorrectionFields is the allow-list of game fields a correction may target
var CorrectionFields = map[string]FieldSpec{
	"title":                    {Kind: FieldText, Column: "title", Required: true},
	"description":              {Kind: FieldText, Column: "description"},
	"releaseDate":              {Kind: FieldDate, Column: "release_date"},
	"developer":                {Kind: FieldText, Column: "developer"},
	"publisher":                {Kind: FieldText, Column: "publisher"},
	"genres":                   {Kind: FieldList, Column: "genres"},
	"platforms":                {Kind: FieldList, Column: "platforms"},
	"activationType":           {Kind: FieldEnum, Column: "activation_type", Enum: []string{ActivationLegacy5x5, ActivationLegacyPerTitle, ActivationSSA}},
	"status":                   {Kind: FieldEnum, Column: "status", Enum: []string{GameStatusSupported, GameStatusTesting, GameStatusUnsupported}},
	"instructions":             {Kind: FieldList, Column: "instructions"},
	"knownIssues":              {Kind: FieldList, Column: "known_issues"},
	"communityTips":            {Kind: FieldList, Column: "community_tips"},
	"storeUrl":                 {Kind: FieldURL, Column: "store_url"},
	"supportUrl":               {Kind: FieldURL, Column: "support_url"},
	"communityUrl":             {Kind: FieldURL, Column: "community_url"},
	"playabilityStatus":        {Kind: FieldEnum, Column: "playability_status", Enum: []string{PlayabilityPlayable, PlayabilityUnplayable, PlayabilityCommunityAlternative, PlayabilityRemasteredAvailable}},
	"communityAlternativeName": {Kind: FieldText, Column: "community_alternative_name"},
	"remasteredName":           {Kind: FieldText, Column: "remastered_name"},
	"remasteredPlatform":       {Kind: FieldText, Column: "remastered_platform"},
}

// RequiredGameFields must all be non-empty before a game can be published
var RequiredGameFields = []string{"title", "releaseDate", "developer", "publisher"}

// ValidateFieldValue checks a proposed raw JSON value against the field
// schema and returns the typed value ready to persist.
func ValidateFieldValue(field string, raw json.RawMessage) (interface{}, error) {
	spec, ok := CorrectionFields[field]
	if !ok {
		return nil, fmt.Errorf("field %q is not correctable", field)
	}

	switch spec.Kind {
	case FieldText:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("field %q expects a string", field)
		}
		s = strings.TrimSpace(s)
		if spec.Required && s == "" {
			return nil, fmt.Errorf("field %q cannot be empty", field)
		}
		return s, nil

	case FieldDate:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("field %q expects a date string", field)
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return "", nil
		}
		if _, err := time.Parse("2006-01-02", s); err != nil {
			return nil, fmt.Errorf("field %q expects YYYY-MM-DD", field)
		}
		return s, nil

	case FieldList:
		var list []string
		if err := json.Unmarshal(raw, &list); err != nil {
			return nil, fmt.Errorf("field %q expects a string array", field)
		}
		cleaned := make(StringArray, 0, len(list))
		for _, item := range list {
			if item = strings.TrimSpace(item); item != "" {
				cleaned = append(cleaned, item)
			}
		}
		return cleaned, nil

	case FieldEnum:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("field %q expects a string", field)
		}
		for _, allowed := range spec.Enum {
			if s == allowed {
				return s, nil
			}
		}
		return nil, fmt.Errorf("field %q must be one of %s", field, strings.Join(spec.Enum, ", "))

	case FieldURL:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("field %q expects a URL string", field)
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return "", nil // empty clears the link
		}
		u, err := url.ParseRequestURI(s)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return nil, fmt.Errorf("field %q expects a valid http(s) URL", field)
		}
		return s, nil
	}

	return nil, fmt.Errorf("field %q has unknown kind", field)
}
