package stattest

import (
	"errors"

	"github.com/wonny/eventstudy/internal/contracts"
)

// Test runs both tests on the non-missing returns of a window.
//
// A nil window (the extractor reported a non-success outcome) yields
// contracts.Undefined() and no error. When either test cannot be computed the
// result is marked TestNotComputable, the computable half is still filled in
// and the error wraps contracts.ErrTestNotComputable.
// ⭐ SSOT: 윈도우 통계 검정은 여기서만
func Test(window *contracts.CARWindow) (contracts.TestResult, error) {
	if window == nil {
		return contracts.Undefined(), nil
	}

	x := window.Returns()
	res := contracts.TestResult{Status: contracts.TestOK, N: len(x)}

	var errs []error
	if tt, err := OneSampleT(x, 0); err != nil {
		errs = append(errs, err)
	} else {
		res.TStat = contracts.Some(tt.T)
		res.TPValue = contracts.Some(tt.PValue)
	}

	if sr, err := SignedRank(x); err != nil {
		errs = append(errs, err)
	} else {
		res.SignedRankStat = contracts.Some(sr.Statistic)
		res.SignedRankPValue = contracts.Some(sr.PValue)
	}

	if len(errs) > 0 {
		res.Status = contracts.TestNotComputable
		return res, errors.Join(errs...)
	}
	return res, nil
}
