package facade

import (
	"fmt"

	"github.com/hkreduce/greduce/pkg/errors"
)

// Method names one of the three reduction algorithms the facade can
// dispatch runReducing to, mirroring the original host binding's closed
// ReducingMethod enum.
type Method string

const (
	MethodDRG   Method = "DRG"
	MethodDRGEP Method = "DRGEP"
	MethodPFA   Method = "PFA"
)

// ParseMethod validates a host-supplied method string. Unlike the
// original, which silently falls through unrecognised strings to PFA,
// ParseMethod rejects anything other than the three named methods with
// InvalidArgument, resolved toward an explicit error rather than the
// original's silent fallthrough (see DESIGN.md).
func ParseMethod(s string) (Method, error) {
	switch Method(s) {
	case MethodDRG, MethodDRGEP, MethodPFA:
		return Method(s), nil
	default:
		return "", errors.InvalidArgument(fmt.Sprintf("unknown reduction method: %q", s))
	}
}

// String implements fmt.Stringer.
func (m Method) String() string { return string(m) }
