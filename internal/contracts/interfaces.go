package contracts

import (
	"context"
	"encoding/json"
)

// IdentifierSource lists the companies to fetch (S0)
// ⭐ SSOT: S0 회사 ID 공급 인터페이스
type IdentifierSource interface {
	CompanyIDs(ctx context.Context) ([]string, error)
}

// CompanyFetcher retrieves one company's raw document from the provider (S0)
// ⭐ SSOT: S0 외부 데이터 조회 인터페이스
type CompanyFetcher interface {
	FetchCompany(ctx context.Context, companyID string) (json.RawMessage, error)
}

// AnalysisRepository persists analysis batches atomically (S3)
// ⭐ SSOT: S3 저장 인터페이스
type AnalysisRepository interface {
	SaveAnalyses(ctx context.Context, results AnalysisCollection) error
}

// CompanyReader reads stored company rows
type CompanyReader interface {
	ListCompanies(ctx context.Context) ([]CompanySummary, error)
	GetCompany(ctx context.Context, companyID string) (*CompanySummary, error)
}

// CompanySummary is the listing view of a stored company
type CompanySummary struct {
	ID            string   `json:"id"`
	CompanyName   string   `json:"company_name"`
	CompanyLogo   *string  `json:"company_logo"`
	AboutCompany  *string  `json:"about_company"`
	Website       *string  `json:"website"`
	ROEPercentage *float64 `json:"roe_percentage"`
}

// CompanyAnalysisView is the read-back shape of one company's analysis
type CompanyAnalysisView struct {
	Company  CompanySummary `json:"company"`
	Analysis Metrics        `json:"analysis"`
	Pros     []string       `json:"pros"`
	Cons     []string       `json:"cons"`
	Status   string         `json:"analysis_status"`
}
