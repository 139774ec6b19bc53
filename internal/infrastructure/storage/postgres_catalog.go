package storage

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"MonetizationEngine/internal/domain"
	"MonetizationEngine/internal/ports"
)

// catalogBatchLimit bounds one candidate query. Final ordering and capping
// are the ranker's job; this just keeps result sets small.
const catalogBatchLimit = 50

// PostgresCatalog reads programs, institutions, and taxonomy reference data
// from Postgres.
type PostgresCatalog struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

var (
	_ ports.CatalogReader  = (*PostgresCatalog)(nil)
	_ ports.TaxonomyReader = (*PostgresCatalog)(nil)
)

// NewPostgresCatalog wires a sql.DB implementation.
func NewPostgresCatalog(db *sql.DB) *PostgresCatalog {
	return &PostgresCatalog{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// QueryPrograms returns active programs of active institutions matching the
// filter, pre-ordered by sponsorship, tier, and name. Storage failures are
// wrapped in domain.ErrCatalogUnavailable so callers can tell "no matches"
// from "couldn't ask".
func (c *PostgresCatalog) QueryPrograms(ctx context.Context, filter domain.CatalogFilter) ([]domain.Program, error) {
	if c.db == nil {
		return nil, fmt.Errorf("%w: no database handle", domain.ErrCatalogUnavailable)
	}

	query := c.builder.
		Select(
			"p.id", "p.name", "p.category_id", "p.concentration_id",
			"p.degree_level_code", "p.active", "p.sponsored", "p.sponsorship_tier",
			"i.id", "i.name", "i.slug", "i.site_url", "i.active", "i.sponsored",
		).
		From("programs p").
		Join("institutions i ON i.id = p.institution_id").
		Where(sq.Eq{"p.active": true, "i.active": true}).
		Where(sq.Eq{"p.category_id": filter.CategoryID})

	if filter.ConcentrationID != 0 {
		query = query.Where(sq.Eq{"p.concentration_id": filter.ConcentrationID})
	}
	if filter.DegreeLevelCode != 0 {
		query = query.Where(sq.Eq{"p.degree_level_code": filter.DegreeLevelCode})
	}
	if len(filter.ExcludeProgramIDs) > 0 {
		query = query.Where(sq.Expr("NOT (p.id = ANY(?))", pq.Array(filter.ExcludeProgramIDs)))
	}

	query = query.
		OrderBy("p.sponsored DESC", "p.sponsorship_tier DESC", "p.name ASC").
		Limit(catalogBatchLimit)

	sqlText, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: build query: %v", domain.ErrCatalogUnavailable, err)
	}

	rows, err := c.db.QueryContext(ctx, sqlText, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: query programs: %v", domain.ErrCatalogUnavailable, err)
	}
	defer rows.Close()

	var programs []domain.Program
	for rows.Next() {
		var p domain.Program
		err := rows.Scan(
			&p.ID, &p.Name, &p.CategoryID, &p.ConcentrationID,
			&p.DegreeLevelCode, &p.Active, &p.Sponsored, &p.SponsorshipTier,
			&p.Institution.ID, &p.Institution.Name, &p.Institution.Slug,
			&p.Institution.SiteURL, &p.Institution.Active, &p.Institution.Sponsored,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scan program: %v", domain.ErrCatalogUnavailable, err)
		}
		programs = append(programs, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: rows iteration: %v", domain.ErrCatalogUnavailable, err)
	}

	return programs, nil
}

// ListTaxonomy loads the full category/concentration taxonomy including
// inactive entries; callers filter on Active as needed.
func (c *PostgresCatalog) ListTaxonomy(ctx context.Context) ([]domain.TaxonomyEntry, error) {
	if c.db == nil {
		return nil, fmt.Errorf("%w: no database handle", domain.ErrCatalogUnavailable)
	}

	sqlText, args, err := c.builder.
		Select("category_id", "category_name", "concentration_id", "concentration_name", "active").
		From("category_taxonomy").
		OrderBy("category_id ASC", "concentration_id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: build taxonomy query: %v", domain.ErrCatalogUnavailable, err)
	}

	rows, err := c.db.QueryContext(ctx, sqlText, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: query taxonomy: %v", domain.ErrCatalogUnavailable, err)
	}
	defer rows.Close()

	var entries []domain.TaxonomyEntry
	for rows.Next() {
		var e domain.TaxonomyEntry
		if err := rows.Scan(&e.CategoryID, &e.CategoryName, &e.ConcentrationID, &e.ConcentrationName, &e.Active); err != nil {
			return nil, fmt.Errorf("%w: scan taxonomy: %v", domain.ErrCatalogUnavailable, err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: taxonomy rows: %v", domain.ErrCatalogUnavailable, err)
	}

	return entries, nil
}

// ListDegreeLevels loads all degree-level reference rows.
func (c *PostgresCatalog) ListDegreeLevels(ctx context.Context) ([]domain.DegreeLevel, error) {
	if c.db == nil {
		return nil, fmt.Errorf("%w: no database handle", domain.ErrCatalogUnavailable)
	}

	sqlText, args, err := c.builder.
		Select("code", "name", "active").
		From("degree_levels").
		OrderBy("code ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: build levels query: %v", domain.ErrCatalogUnavailable, err)
	}

	rows, err := c.db.QueryContext(ctx, sqlText, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: query levels: %v", domain.ErrCatalogUnavailable, err)
	}
	defer rows.Close()

	var levels []domain.DegreeLevel
	for rows.Next() {
		var l domain.DegreeLevel
		if err := rows.Scan(&l.Code, &l.Name, &l.Active); err != nil {
			return nil, fmt.Errorf("%w: scan level: %v", domain.ErrCatalogUnavailable, err)
		}
		levels = append(levels, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: level rows: %v", domain.ErrCatalogUnavailable, err)
	}

	return levels, nil
}
