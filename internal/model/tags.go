package model

import "strings"

// Tags is the fixed vocabulary recipes can be labelled with.
var Tags = []string{
	"Doce",
	"Salgado",
	"Vegano",
	"Vegetariano",
	"Sem Lactose",
	"Sem Glúten",
	"Fit",
	"Bebida",
}

var tagSet = func() map[string]struct{} {
	m := make(map[string]struct{}, len(Tags))
	for _, t := range Tags {
		m[t] = struct{}{}
	}
	return m
}()

// IsKnownTag reports whether tag belongs to the vocabulary.
func IsKnownTag(tag string) bool {
	_, ok := tagSet[tag]
	return ok
}

// NormalizeList trims entries, drops empty ones and removes duplicates while
// keeping the first occurrence.
func NormalizeList(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// TrimList trims entries and drops empty ones, keeping order and repeats.
func TrimList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
