package models

import (
	"sort"
	"strings"
)

// TagCategory identifies a tag category on a trade.
type TagCategory string

const (
	TagStrategy   TagCategory = "strategy"
	TagTrigger    TagCategory = "trigger"
	TagSession    TagCategory = "session"
	TagMistakes   TagCategory = "mistakes"
	TagConfidence TagCategory = "confidence"
	TagEmotions   TagCategory = "emotions"
	TagCustom     TagCategory = "custom"
)

// Categories lists all tag categories in display order.
var Categories = []TagCategory{
	TagStrategy, TagTrigger, TagSession, TagMistakes,
	TagConfidence, TagEmotions, TagCustom,
}

// IsExclusive reports whether the category holds a single value per trade.
// Emotions and custom are multi-select; everything else is exclusive.
func (c TagCategory) IsExclusive() bool {
	switch c {
	case TagEmotions, TagCustom:
		return false
	}
	return true
}

// Valid reports whether c is a known category.
func (c TagCategory) Valid() bool {
	switch c {
	case TagStrategy, TagTrigger, TagSession, TagMistakes,
		TagConfidence, TagEmotions, TagCustom:
		return true
	}
	return false
}

// TagSet maps categories to their values. Exclusive categories carry exactly
// one entry in the slice; multi-select categories may carry several.
type TagSet map[TagCategory][]string

// Set assigns a value on an exclusive category, or appends on a multi-select
// one (ignoring duplicates).
func (s TagSet) Set(category TagCategory, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	if category.IsExclusive() {
		s[category] = []string{value}
		return
	}
	for _, v := range s[category] {
		if v == value {
			return
		}
	}
	s[category] = append(s[category], value)
}

// Get returns the single value of an exclusive category, or "" when unset.
func (s TagSet) Get(category TagCategory) string {
	if vs := s[category]; len(vs) > 0 {
		return vs[0]
	}
	return ""
}

// Flatten returns every tag as a category-qualified key ("strategy:Breakout"),
// sorted for deterministic output. This is the interchange encoding; internally
// tags stay structured.
func (s TagSet) Flatten() []string {
	var keys []string
	for category, values := range s {
		for _, v := range values {
			keys = append(keys, TagKey(category, v))
		}
	}
	sort.Strings(keys)
	return keys
}

// Clone returns a deep copy of the tag set.
func (s TagSet) Clone() TagSet {
	out := make(TagSet, len(s))
	for category, values := range s {
		out[category] = append([]string(nil), values...)
	}
	return out
}

// TagKey builds the category-qualified interchange key for a tag value.
func TagKey(category TagCategory, value string) string {
	return string(category) + ":" + value
}

// ParseTagKey splits a category-qualified key back into its parts. Keys without
// a recognized category prefix land in the custom category.
func ParseTagKey(key string) (TagCategory, string) {
	if i := strings.Index(key, ":"); i > 0 {
		category := TagCategory(key[:i])
		if category.Valid() {
			return category, key[i+1:]
		}
	}
	return TagCustom, key
}
