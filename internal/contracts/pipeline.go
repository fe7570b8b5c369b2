package contracts

// Pipeline Stage 정의 (SSOT)
// 모든 로그와 상태 응답에서 이 상수를 사용해야 함
//
// 파이프라인 흐름:
//   S0 → S1 → S2 → S3
//   Fetch  Preprocess  Analyze  Store

// Stage represents a pipeline stage
type Stage string

const (
	// StageFetch S0: 회사 ID 목록 → 외부 API 조회 → 원본 아티팩트
	// 위치: internal/s0_data/
	StageFetch Stage = "S0_FETCH"

	// StagePreprocess S1: 필드명 정규화, 값 변환, 검증, 정제
	// 위치: internal/s1_preprocess/
	StagePreprocess Stage = "S1_PREPROCESS"

	// StageAnalyze S2: CAGR/ROE/부채/배당 지표와 장단점 생성
	// 위치: internal/s2_analysis/
	StageAnalyze Stage = "S2_ANALYZE"

	// StageStore S3: 분석 결과를 PostgreSQL에 트랜잭션으로 저장
	// 위치: internal/s3_persist/
	StageStore Stage = "S3_STORE"
)

// String returns the stage name
func (s Stage) String() string {
	return string(s)
}

// ShortName returns abbreviated stage name (e.g., "S0", "S1")
func (s Stage) ShortName() string {
	switch s {
	case StageFetch:
		return "S0"
	case StagePreprocess:
		return "S1"
	case StageAnalyze:
		return "S2"
	case StageStore:
		return "S3"
	default:
		return "UNKNOWN"
	}
}

// AllStages returns every stage in execution order
func AllStages() []Stage {
	return []Stage{StageFetch, StagePreprocess, StageAnalyze, StageStore}
}
