package category

import (
	"errors"
	"fmt"
	"strings"
)

// Category is the topic family a practice question belongs to.
type Category string

const (
	SoftSkills Category = "soft-skills"
	Technical  Category = "technical"
	General    Category = "general"
)

var ErrUnknown = errors.New("unknown category")

// All returns every known category in display order.
func All() []Category {
	return []Category{SoftSkills, Technical, General}
}

func (c Category) Valid() bool {
	switch c {
	case SoftSkills, Technical, General:
		return true
	}
	return false
}

func (c Category) String() string {
	return string(c)
}

// Parse accepts the canonical names, case-insensitively.
func Parse(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknown, s)
	}
	return c, nil
}

// ParseOptional returns nil for an empty string, which means
// "no category filter".
func ParseOptional(s string) (*Category, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	c, err := Parse(s)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
