package s3_persist

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/wonny/bluemf/backend/internal/contracts"
	"github.com/wonny/bluemf/backend/pkg/logger"
)

//go:embed schema.sql
var schemaSQL string

// analysisIDPrefixLen keeps {id}_{years} within the 50-char analysis key
const analysisIDPrefixLen = 45

// ErrCompanyNotFound is returned when no company row exists for an id
var ErrCompanyNotFound = errors.New("company not found")

// Pool is the subset of pgxpool.Pool used by the repository
type Pool interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository implements contracts.AnalysisRepository and contracts.CompanyReader
// ⭐ SSOT: S3 DB 저장은 여기서만
type Repository struct {
	pool   Pool
	logger *logger.Logger
}

// NewRepository creates a repository over a pgx pool
func NewRepository(pool Pool, log *logger.Logger) *Repository {
	return &Repository{
		pool:   pool,
		logger: log.WithComponent("s3_repository"),
	}
}

// Migrate applies the embedded schema. Statements are idempotent.
func (r *Repository) Migrate(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	r.logger.Info("Database schema applied")
	return nil
}

// SaveAnalyses stores every result in one transaction; any failure rolls the whole batch back
func (r *Repository) SaveAnalyses(ctx context.Context, results contracts.AnalysisCollection) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, id := range results.IDs() {
		result := results[id]

		if err := upsertCompanyRow(ctx, tx, result); err != nil {
			return fmt.Errorf("company %s: %w", id, err)
		}
		for _, years := range contracts.MetricWindows {
			if err := upsertAnalysisRow(ctx, tx, id, years, result.Analysis); err != nil {
				return fmt.Errorf("company %s: %w", id, err)
			}
		}
		if err := replaceProsConsRows(ctx, tx, id, result.Pros, result.Cons); err != nil {
			return fmt.Errorf("company %s: %w", id, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	r.logger.WithField("companies", len(results)).Info("Stored analysis results")
	return nil
}

func upsertCompanyRow(ctx context.Context, tx pgx.Tx, result contracts.AnalysisResult) error {
	query := `
		INSERT INTO companies (
			id, company_name, company_logo, chart_link, about_company, website,
			nse_profile, bse_profile, face_value, book_value, roce_percentage, roe_percentage
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO UPDATE SET
			company_name = EXCLUDED.company_name,
			company_logo = EXCLUDED.company_logo,
			chart_link = EXCLUDED.chart_link,
			about_company = EXCLUDED.about_company,
			website = EXCLUDED.website,
			nse_profile = EXCLUDED.nse_profile,
			bse_profile = EXCLUDED.bse_profile,
			face_value = EXCLUDED.face_value,
			book_value = EXCLUDED.book_value,
			roce_percentage = EXCLUDED.roce_percentage,
			roe_percentage = EXCLUDED.roe_percentage,
			updated_at = NOW()
	`

	info := contracts.CompanyInfoFrom(result.CompanyInfo)
	_, err := tx.Exec(ctx, query,
		result.CompanyID, result.CompanyName, info.Logo, info.ChartLink, info.About, info.Website,
		info.NSEProfile, info.BSEProfile, info.FaceValue, info.BookValue, info.ROCEPercentage, info.ROEPercentage,
	)
	if err != nil {
		return fmt.Errorf("upsert company: %w", err)
	}
	return nil
}

func upsertAnalysisRow(ctx context.Context, tx pgx.Tx, companyID string, years int, m contracts.Metrics) error {
	query := `
		INSERT INTO analysis (id, company_id, compounded_sales_growth, compounded_profit_growth, stock_price_cagr, roe)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			company_id = EXCLUDED.company_id,
			compounded_sales_growth = EXCLUDED.compounded_sales_growth,
			compounded_profit_growth = EXCLUDED.compounded_profit_growth,
			stock_price_cagr = EXCLUDED.stock_price_cagr,
			roe = EXCLUDED.roe
	`

	_, err := tx.Exec(ctx, query,
		AnalysisRowID(companyID, years),
		companyID,
		FormatWindow(years, m.CompoundedSalesGrowth.Get(years)),
		FormatWindow(years, m.CompoundedProfitGrowth.Get(years)),
		FormatWindow(years, nil),
		FormatWindow(years, m.ReturnOnEquity.Get(years)),
	)
	if err != nil {
		return fmt.Errorf("upsert analysis %d years: %w", years, err)
	}
	return nil
}

func replaceProsConsRows(ctx context.Context, tx pgx.Tx, companyID string, pros, cons []string) error {
	if _, err := tx.Exec(ctx, `DELETE FROM prosandcons WHERE company_id = $1`, companyID); err != nil {
		return fmt.Errorf("delete pros and cons: %w", err)
	}

	insert := `INSERT INTO prosandcons (company_id, pros, cons) VALUES ($1, $2, $3)`
	for _, pro := range limit(pros) {
		if _, err := tx.Exec(ctx, insert, companyID, pro, nil); err != nil {
			return fmt.Errorf("insert pro: %w", err)
		}
	}
	for _, con := range limit(cons) {
		if _, err := tx.Exec(ctx, insert, companyID, nil, con); err != nil {
			return fmt.Errorf("insert con: %w", err)
		}
	}
	return nil
}

// ListCompanies returns every stored company ordered by id
func (r *Repository) ListCompanies(ctx context.Context) ([]contracts.CompanySummary, error) {
	query := `
		SELECT id, COALESCE(company_name, ''), company_logo, about_company, website, roe_percentage::float8
		FROM companies
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	defer rows.Close()

	companies := []contracts.CompanySummary{}
	for rows.Next() {
		var c contracts.CompanySummary
		if err := rows.Scan(&c.ID, &c.CompanyName, &c.CompanyLogo, &c.AboutCompany, &c.Website, &c.ROEPercentage); err != nil {
			return nil, fmt.Errorf("scan company: %w", err)
		}
		companies = append(companies, c)
	}
	return companies, rows.Err()
}

// GetCompany returns one stored company or ErrCompanyNotFound
func (r *Repository) GetCompany(ctx context.Context, companyID string) (*contracts.CompanySummary, error) {
	query := `
		SELECT id, COALESCE(company_name, ''), company_logo, about_company, website, roe_percentage::float8
		FROM companies
		WHERE id = $1
	`

	var c contracts.CompanySummary
	err := r.pool.QueryRow(ctx, query, companyID).Scan(
		&c.ID, &c.CompanyName, &c.CompanyLogo, &c.AboutCompany, &c.Website, &c.ROEPercentage,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCompanyNotFound
		}
		return nil, fmt.Errorf("get company %s: %w", companyID, err)
	}
	return &c, nil
}

// AnalysisRowID is {companyId[:45]}_{years}, truncated by runes
func AnalysisRowID(companyID string, years int) string {
	runes := []rune(companyID)
	if len(runes) > analysisIDPrefixLen {
		runes = runes[:analysisIDPrefixLen]
	}
	return fmt.Sprintf("%s_%d", string(runes), years)
}

// FormatWindow renders "{years} Years: {value}%" or "{years} Years: N/A"
func FormatWindow(years int, v *float64) string {
	if v == nil {
		return fmt.Sprintf("%d Years: N/A", years)
	}
	s := strconv.FormatFloat(*v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return fmt.Sprintf("%d Years: %s%%", years, s)
}

const maxInsightRows = 3

func limit(messages []string) []string {
	if len(messages) > maxInsightRows {
		return messages[:maxInsightRows]
	}
	return messages
}
