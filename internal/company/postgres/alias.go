package postgres

import (
	"github.com/frahmantamala/payroll-bridge/internal/company"
	companyaliasDatamodel "github.com/frahmantamala/payroll-bridge/internal/core/datamodel/companyalias"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AliasRepository struct {
	db *gorm.DB
}

func NewAliasRepository(db *gorm.DB) company.AliasRepositoryAPI {
	return &AliasRepository{db: db}
}

func (r *AliasRepository) GetAll() ([]*companyaliasDatamodel.CompanyAlias, error) {
	var aliases []*companyaliasDatamodel.CompanyAlias
	err := r.db.Order("alias ASC").Find(&aliases).Error
	return aliases, err
}

// Upsert inserts the alias or updates the target of an existing one.
func (r *AliasRepository) Upsert(alias *companyaliasDatamodel.CompanyAlias) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "alias"}},
		DoUpdates: clause.AssignmentColumns([]string{"target", "updated_at"}),
	}).Create(alias).Error
}
