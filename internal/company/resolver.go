package company

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/frahmantamala/payroll-bridge/internal"
	"github.com/frahmantamala/payroll-bridge/internal/alterdata"
)

type Strategy string

const (
	StrategyAlias     Strategy = "alias"
	StrategyExact     Strategy = "exact"
	StrategySubstring Strategy = "substring"
)

// LookupEntry is an AlterData company keyed by its normalized name.
type LookupEntry struct {
	ID             string `json:"id"`
	ExternalID     string `json:"externalId"`
	OriginalName   string `json:"originalName"`
	NormalizedName string `json:"normalizedName"`
}

type Match struct {
	LookupEntry
	Strategy   Strategy `json:"strategy"`
	Ambiguous  bool     `json:"ambiguous"`
	Candidates []string `json:"candidates,omitempty"`
}

// Lookup is rebuilt for every request; it is never cached.
type Lookup struct {
	byName map[string]LookupEntry
	names  []string
}

// NormalizeName trims, collapses inner whitespace and upper-cases with pt-BR rules.
func NormalizeName(name string) string {
	collapsed := strings.Join(strings.Fields(name), " ")
	return cases.Upper(language.BrazilianPortuguese).String(collapsed)
}

func NewLookup(companies []alterdata.CompanyResource) *Lookup {
	l := &Lookup{byName: make(map[string]LookupEntry, len(companies))}
	for _, c := range companies {
		normalized := NormalizeName(c.Attributes.Nome)
		if normalized == "" {
			continue
		}
		// first company wins when two normalize to the same name
		if _, exists := l.byName[normalized]; exists {
			continue
		}
		l.byName[normalized] = LookupEntry{
			ID:             c.ID,
			ExternalID:     c.Attributes.Codigo,
			OriginalName:   c.Attributes.Nome,
			NormalizedName: normalized,
		}
		l.names = append(l.names, normalized)
	}
	sort.Strings(l.names)
	return l
}

func (l *Lookup) Len() int {
	return len(l.names)
}

func (l *Lookup) Get(normalized string) (LookupEntry, bool) {
	e, ok := l.byName[normalized]
	return e, ok
}

// AvailableNames lists the original names, sorted, for not-found reports.
func (l *Lookup) AvailableNames() []string {
	names := make([]string, 0, len(l.names))
	for _, n := range l.names {
		names = append(names, l.byName[n].OriginalName)
	}
	sort.Strings(names)
	return names
}

// Resolve applies the alias table, then exact normalized match, then bidirectional substring
// containment. The first hit wins; several substring hits are reported as ambiguous.
func Resolve(name string, lookup *Lookup, aliases map[string]string) (*Match, error) {
	normalized := NormalizeName(name)
	if normalized == "" {
		return nil, internal.NewValidationError("company name is empty", internal.ErrCodeValidationFailed)
	}

	aliasKeys := make([]string, 0, len(aliases))
	for alias := range aliases {
		aliasKeys = append(aliasKeys, alias)
	}
	sort.Strings(aliasKeys)

	for _, alias := range aliasKeys {
		if NormalizeName(alias) != normalized {
			continue
		}
		if entry, ok := lookup.Get(NormalizeName(aliases[alias])); ok {
			return &Match{LookupEntry: entry, Strategy: StrategyAlias}, nil
		}
	}

	if entry, ok := lookup.Get(normalized); ok {
		return &Match{LookupEntry: entry, Strategy: StrategyExact}, nil
	}

	var candidates []string
	for _, known := range lookup.names {
		if strings.Contains(known, normalized) || strings.Contains(normalized, known) {
			candidates = append(candidates, known)
		}
	}
	if len(candidates) > 0 {
		entry, _ := lookup.Get(candidates[0])
		match := &Match{LookupEntry: entry, Strategy: StrategySubstring}
		if len(candidates) > 1 {
			match.Ambiguous = true
			match.Candidates = candidates
		}
		return match, nil
	}

	return nil, internal.NewNotFoundError(
		fmt.Sprintf("company %q not found in AlterData", name),
		internal.ErrCodeCompanyNotFound,
	).WithDetails(map[string]interface{}{
		"company":            name,
		"availableCompanies": lookup.AvailableNames(),
	})
}
