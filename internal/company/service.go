package company

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/frahmantamala/payroll-bridge/internal"
	"github.com/frahmantamala/payroll-bridge/internal/alterdata"
	companyaliasDatamodel "github.com/frahmantamala/payroll-bridge/internal/core/datamodel/companyalias"
	"github.com/frahmantamala/payroll-bridge/internal/flash"
)

type FlashAPI interface {
	ListCompanies(ctx context.Context) ([]flash.Company, error)
	GetCompany(ctx context.Context, companyID string) (*flash.Company, error)
}

type AlterDataAPI interface {
	ListCompanies(ctx context.Context) ([]alterdata.CompanyResource, error)
}

type AliasRepositoryAPI interface {
	GetAll() ([]*companyaliasDatamodel.CompanyAlias, error)
	Upsert(alias *companyaliasDatamodel.CompanyAlias) error
}

type Service struct {
	flash         FlashAPI
	alterdata     AlterDataAPI
	aliasRepo     AliasRepositoryAPI
	configAliases map[string]string
	logger        *slog.Logger
}

// NewService wires the company lookups. aliasRepo may be nil when no database is configured;
// the alias table then comes from configuration only.
func NewService(flashAPI FlashAPI, alterdataAPI AlterDataAPI, aliasRepo AliasRepositoryAPI, configAliases map[string]string, logger *slog.Logger) *Service {
	return &Service{
		flash:         flashAPI,
		alterdata:     alterdataAPI,
		aliasRepo:     aliasRepo,
		configAliases: configAliases,
		logger:        logger,
	}
}

func (s *Service) ListCompanies(ctx context.Context) ([]CompanyResponse, error) {
	companies, err := s.flash.ListCompanies(ctx)
	if err != nil {
		s.logger.Error("failed to list flash companies", "error", err)
		return nil, err
	}

	responses := make([]CompanyResponse, 0, len(companies))
	for _, c := range companies {
		responses = append(responses, CompanyResponse{
			ID:        c.ID,
			Name:      c.DisplayName(),
			LegalName: c.LegalName,
			Document:  c.Document,
		})
	}
	sort.Slice(responses, func(i, j int) bool { return responses[i].Name < responses[j].Name })
	return responses, nil
}

type aliasEntry struct {
	alias  string
	target string
	source string
}

// aliasEntries keys the alias table by NormalizeName so a database row replaces the configured
// entry it collides with even when the raw spellings differ.
func (s *Service) aliasEntries() (map[string]aliasEntry, error) {
	entries := make(map[string]aliasEntry, len(s.configAliases))
	for alias, target := range s.configAliases {
		entries[NormalizeName(alias)] = aliasEntry{alias: alias, target: target, source: "config"}
	}
	if s.aliasRepo == nil {
		return entries, nil
	}

	rows, err := s.aliasRepo.GetAll()
	if err != nil {
		s.logger.Error("failed to load company aliases", "error", err)
		return nil, err
	}
	for _, row := range rows {
		entries[NormalizeName(row.Alias)] = aliasEntry{alias: row.Alias, target: row.Target, source: "database"}
	}
	return entries, nil
}

// Aliases returns the effective alias table: database rows override configuration entries.
func (s *Service) Aliases() (map[string]string, error) {
	entries, err := s.aliasEntries()
	if err != nil {
		return nil, err
	}
	aliases := make(map[string]string, len(entries))
	for _, e := range entries {
		aliases[e.alias] = e.target
	}
	return aliases, nil
}

func (s *Service) ListAliases() ([]AliasResponse, error) {
	entries, err := s.aliasEntries()
	if err != nil {
		return nil, err
	}

	responses := make([]AliasResponse, 0, len(entries))
	for _, e := range entries {
		responses = append(responses, AliasResponse{Alias: e.alias, Target: e.target, Source: e.source})
	}
	sort.Slice(responses, func(i, j int) bool { return responses[i].Alias < responses[j].Alias })
	return responses, nil
}

// SeedAliases copies the configured alias table into the database.
func (s *Service) SeedAliases() (int, error) {
	if s.aliasRepo == nil {
		return 0, internal.NewConfigurationError("database is not configured", internal.ErrCodeAuditDisabled)
	}
	count := 0
	for alias, target := range s.configAliases {
		if err := s.aliasRepo.Upsert(&companyaliasDatamodel.CompanyAlias{Alias: alias, Target: target}); err != nil {
			return count, fmt.Errorf("failed to seed alias %q: %w", alias, err)
		}
		count++
	}
	s.logger.Info("company aliases seeded", "count", count)
	return count, nil
}

// ResolveAlterDataCompany maps a Flash company id to the matching AlterData company.
func (s *Service) ResolveAlterDataCompany(ctx context.Context, flashCompanyID string) (*Match, error) {
	companies, err := s.alterdata.ListCompanies(ctx)
	if err != nil {
		s.logger.Error("failed to list alterdata companies", "error", err)
		return nil, err
	}
	lookup := NewLookup(companies)

	flashCompany, err := s.flash.GetCompany(ctx, flashCompanyID)
	if err != nil {
		s.logger.Error("failed to get flash company", "company_id", flashCompanyID, "error", err)
		return nil, err
	}
	name := flashCompany.DisplayName()
	if name == "" {
		return nil, internal.NewNotFoundError(
			fmt.Sprintf("flash company %s has no name", flashCompanyID),
			internal.ErrCodeCompanyNotFound,
		)
	}

	aliases, err := s.Aliases()
	if err != nil {
		return nil, internal.NewInternalError("failed to load company aliases", err)
	}

	match, err := Resolve(name, lookup, aliases)
	if err != nil {
		s.logger.Warn("company not resolved", "flash_company_id", flashCompanyID, "name", name, "known", lookup.Len())
		return nil, err
	}
	if match.Ambiguous {
		s.logger.Warn("ambiguous company match, using first candidate",
			"name", name,
			"chosen", match.OriginalName,
			"candidates", match.Candidates)
	}

	s.logger.Info("company resolved",
		"flash_company_id", flashCompanyID,
		"name", name,
		"alterdata_company_id", match.ID,
		"strategy", match.Strategy)
	return match, nil
}
