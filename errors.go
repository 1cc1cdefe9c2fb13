package armakalman

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// FaultError reports a structural violation of the packed covariance
// routine's contract: inconsistent p, q, r, np or nrbar. It indicates a
// caller bug, never bad data, and is never recovered from.
type FaultError struct {
	Code int
}

func (e FaultError) Error() string {
	var what string
	switch e.Code {
	case 1:
		what = "p must not be negative"
	case 2:
		what = "q must not be negative"
	case 3:
		what = "p and q must not both be negative"
	case 4:
		what = "p and q must not both be zero"
	case 5:
		what = "r must equal max(p, q+1)"
	case 6:
		what = "np must equal r*(r+1)/2"
	case 7:
		what = "nrbar must equal np*(np-1)/2"
	default:
		what = "invalid model structure"
	}
	return fmt.Sprintf("armakalman: validation fault #%d: %s", e.Code, what)
}

// DimensionAgreement defines how two matrices' dimensions should agree.
type DimensionAgreement uint8

const (
	dimErrMsg                    = "dimensions must agree: "
	rows2cols DimensionAgreement = iota + 1
	cols2rows
	cols2cols
	rows2rows
	rowsAndcols
)

// checkMatDims checks the matrix dimensions match provided a DimensionAgreement. Returns an error if not.
func checkMatDims(m1, m2 mat.Matrix, name1, name2 string, method DimensionAgreement) error {
	r1, c1 := m1.Dims()
	r2, c2 := m2.Dims()
	switch method {
	case rows2cols:
		if r1 != c2 {
			return fmt.Errorf("%s%s(%dx...) %s(...x%d)", dimErrMsg, name1, r1, name2, c2)
		}
	case cols2rows:
		if c1 != r2 {
			return fmt.Errorf("%s%s(...x%d) %s(%dx...)", dimErrMsg, name1, c1, name2, r2)
		}
	case cols2cols:
		if c1 != c2 {
			return fmt.Errorf("%s%s(...x%d) %s(...x%d)", dimErrMsg, name1, c1, name2, c2)
		}
	case rows2rows:
		if r1 != r2 {
			return fmt.Errorf("%s%s(%dx...) %s(%dx...)", dimErrMsg, name1, r1, name2, r2)
		}
	case rowsAndcols:
		if c1 != c2 || r1 != r2 {
			return fmt.Errorf("%s%s(%dx%d) %s(%dx%d)", dimErrMsg, name1, r1, c1, name2, r2, c2)
		}
	}
	return nil
}
