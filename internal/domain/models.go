package domain

import (
	"fmt"
	"strings"
	"time"
)

// Kind is the type of lab item a list shows
type Kind string

const (
	KindDevice     Kind = "device"
	KindTemplate   Kind = "template"
	KindExperiment Kind = "experiment"
)

// Kinds lists every item kind
var Kinds = []Kind{KindDevice, KindTemplate, KindExperiment}

// ParseKind converts a raw string (singular or plural) into a Kind
func ParseKind(raw string) (Kind, error) {
	k := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(raw)), "s")
	for _, kind := range Kinds {
		if string(kind) == k {
			return kind, nil
		}
	}
	return "", fmt.Errorf("unknown item kind %q", raw)
}

// Noun returns the plural display noun for the kind
func (k Kind) Noun() string {
	return string(k) + "s"
}

// Item is a single lab entity shown in a list
type Item struct {
	ID         string    `json:"id" yaml:"id"`
	Kind       Kind      `json:"kind" yaml:"kind"`
	Name       string    `json:"name" yaml:"name"`
	Category   string    `json:"category,omitempty" yaml:"category,omitempty"`
	Tags       []string  `json:"tags,omitempty" yaml:"tags,omitempty"`
	Archived   bool      `json:"archived,omitempty" yaml:"archived,omitempty"`
	Deleted    bool      `json:"deleted,omitempty" yaml:"deleted,omitempty"`
	CopiedFrom string    `json:"copied_from,omitempty" yaml:"copied_from,omitempty"`
	CreatedAt  time.Time `json:"created_at" yaml:"created_at,omitempty"`
	UpdatedAt  time.Time `json:"updated_at" yaml:"updated_at,omitempty"`
}

// Clone returns a deep copy of the item
func (i *Item) Clone() *Item {
	if i == nil {
		return nil
	}
	c := *i
	c.Tags = append([]string(nil), i.Tags...)
	return &c
}

// Visible reports whether the item belongs in a list that may include archived items
func (i *Item) Visible(showArchived bool) bool {
	if i == nil || i.Deleted {
		return false
	}
	return showArchived || !i.Archived
}
