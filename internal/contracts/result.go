package contracts

// TestStatus tells whether a TestResult carries statistics
type TestStatus string

const (
	// TestOK both tests were computed
	TestOK TestStatus = "OK"
	// TestUndefined the window itself was not available (event not found / out of bounds)
	TestUndefined TestStatus = "UNDEFINED"
	// TestNotComputable the sample was empty or degenerate for at least one test
	TestNotComputable TestStatus = "NOT_COMPUTABLE"
)

// TestResult holds the t-test and signed-rank statistics for one window.
// Fields that could not be computed are Missing.
type TestResult struct {
	Status           TestStatus `json:"status"`
	N                int        `json:"n"` // returns used after dropping missing values
	TStat            NullFloat  `json:"t_stat"`
	TPValue          NullFloat  `json:"t_p_value"`
	SignedRankStat   NullFloat  `json:"signed_rank_stat"`
	SignedRankPValue NullFloat  `json:"signed_rank_p_value"`
}

// Undefined is the result for a window that could not be extracted
func Undefined() TestResult {
	return TestResult{Status: TestUndefined}
}

// IsDefined reports whether any statistic is present
func (r TestResult) IsDefined() bool {
	return r.TStat.Valid || r.SignedRankStat.Valid
}
