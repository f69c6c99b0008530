package pipeline

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/MrSnakeDoc/tidymark/internal/domain"
)

var httpPrefix = regexp.MustCompile(`^http`)

// categorization is the validated answer to a categorize prompt.
type categorization struct {
	Category string   `json:"category"`
	Tags     []string `json:"tags"`
}

func (c *categorization) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Category, validation.Required.Error("category must be a non-empty string")),
		validation.Field(&c.Tags, validation.NotNil.Error("tags must be an array")),
	)
}

// decodeCategorization parses and validates an extracted object fragment.
func decodeCategorization(op, fragment string) (categorization, error) {
	if !json.Valid([]byte(fragment)) {
		return categorization{}, newError(KindParse, op, errors.New("invalid JSON in response"))
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(fragment), &raw); err != nil {
		return categorization{}, newError(KindValidation, op, fmt.Errorf("expected a JSON object: %w", err))
	}

	var c categorization
	if v, ok := raw["category"]; ok {
		if err := json.Unmarshal(v, &c.Category); err != nil {
			return categorization{}, newError(KindValidation, op, errors.New("category must be a string"))
		}
	}
	if v, ok := raw["tags"]; ok {
		if err := json.Unmarshal(v, &c.Tags); err != nil {
			return categorization{}, newError(KindValidation, op, errors.New("tags must be an array of strings"))
		}
	}
	if err := c.Validate(); err != nil {
		return categorization{}, newError(KindValidation, op, err)
	}
	return c, nil
}

type suggestionEntry struct {
	Title  string `json:"title"`
	URL    string `json:"url"`
	Reason string `json:"reason"`
}

func (s *suggestionEntry) Validate() error {
	return validation.ValidateStruct(s,
		validation.Field(&s.Title, validation.Required),
		validation.Field(&s.URL, validation.Required, validation.Match(httpPrefix)),
		validation.Field(&s.Reason, validation.Required),
	)
}

type categoryEntry struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (c *categoryEntry) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Name, validation.Required),
		validation.Field(&c.Description, validation.Required),
	)
}

// decodeArray parses an extracted array fragment into raw elements.
func decodeArray(op, fragment string) ([]json.RawMessage, error) {
	if !json.Valid([]byte(fragment)) {
		return nil, newError(KindParse, op, errors.New("invalid JSON in response"))
	}
	var items []json.RawMessage
	if err := json.Unmarshal([]byte(fragment), &items); err != nil {
		return nil, newError(KindValidation, op, fmt.Errorf("expected a JSON array: %w", err))
	}
	return items, nil
}

// decodeSuggestions keeps the well-formed entries, at most limit of them.
// Entries that are not objects, have wrong field types, or fail validation
// are dropped.
func decodeSuggestions(op, fragment string, limit int) ([]domain.Suggestion, error) {
	items, err := decodeArray(op, fragment)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Suggestion, 0, limit)
	for _, item := range items {
		if len(out) == limit {
			break
		}
		var s suggestionEntry
		if json.Unmarshal(item, &s) != nil || s.Validate() != nil {
			continue
		}
		out = append(out, domain.Suggestion{Title: s.Title, URL: s.URL, Reason: s.Reason})
	}
	return out, nil
}

// decodeCategories keeps entries carrying both a name and a description.
func decodeCategories(op, fragment string) ([]domain.Category, error) {
	items, err := decodeArray(op, fragment)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Category, 0, len(items))
	for _, item := range items {
		var c categoryEntry
		if json.Unmarshal(item, &c) != nil || c.Validate() != nil {
			continue
		}
		out = append(out, domain.Category{Name: c.Name, Description: c.Description})
	}
	return out, nil
}
