// Package categorizer maps a free-text transaction description to a spending
// category using an ordered keyword table.
package categorizer

import (
	"fmt"
	"os"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"
)

const DefaultCategory = "Outros"

type Rule struct {
	Category string   `yaml:"category"`
	Keywords []string `yaml:"keywords"`
}

type Categorizer struct {
	rules    []compiledRule
	fallback string
}

type compiledRule struct {
	category string
	keywords []string
}

// Order matters: the first rule with a matching keyword wins.
var defaultRules = []Rule{
	{Category: "Alimentação", Keywords: []string{"ifood", "restaurante"}},
	{Category: "Transporte", Keywords: []string{"uber", "99"}},
	{Category: "Assinaturas", Keywords: []string{"netflix", "spotify", "disney+"}},
	{Category: "Moradia", Keywords: []string{"aluguel", "condominio"}},
	{Category: "Supermercado", Keywords: []string{"mercado", "supermercado"}},
}

func Default() *Categorizer {
	return New(defaultRules, DefaultCategory)
}

// New builds a Categorizer. Blank keywords are ignored; an empty fallback
// becomes DefaultCategory.
func New(rules []Rule, fallback string) *Categorizer {
	if strings.TrimSpace(fallback) == "" {
		fallback = DefaultCategory
	}
	c := &Categorizer{fallback: fallback}
	for _, r := range rules {
		cr := compiledRule{category: r.Category}
		for _, kw := range r.Keywords {
			if kw = fold(kw); kw != "" {
				cr.keywords = append(cr.keywords, kw)
			}
		}
		if cr.category != "" && len(cr.keywords) > 0 {
			c.rules = append(c.rules, cr)
		}
	}
	return c
}

// Categorize returns the category of the first rule that has a keyword
// contained in description, ignoring case and accents.
func (c *Categorizer) Categorize(description string) string {
	d := fold(description)
	for _, r := range c.rules {
		for _, kw := range r.keywords {
			if strings.Contains(d, kw) {
				return r.category
			}
		}
	}
	return c.fallback
}

type ruleFile struct {
	Default string `yaml:"default"`
	Rules   []Rule `yaml:"rules"`
}

// Load reads a YAML rule table. An empty path yields Default().
func Load(path string) (*Categorizer, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("categorizer: read rules: %w", err)
	}
	var f ruleFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("categorizer: parse %s: %w", path, err)
	}
	if len(f.Rules) == 0 {
		return nil, fmt.Errorf("categorizer: %s has no rules", path)
	}
	return New(f.Rules, f.Default), nil
}

func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(strings.TrimSpace(out))
}
