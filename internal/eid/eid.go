// Package eid allocates employee ids of the form PREFIX + six digits
// (TR000001). Allocation is transactional: a per-prefix counter row is
// locked before the greatest existing id is read, so concurrent callers
// never receive overlapping ranges.
package eid

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/frahmantamala/training-management/internal"
)

const (
	Width     = 6
	MaxNumber = 999999
)

var (
	ErrUnsupportedRole = internal.NewBadRequestError("Role has no employee id prefix", internal.ErrCodeUnsupportedRole)
	ErrInvalidCount    = errors.New("eid: count must be at least 1")
	ErrExhausted       = errors.New("eid: sequence exhausted")
)

var prefixes = map[string]string{
	"ADMINISTRATOR":   "AD",
	"DEPARTMENT_HEAD": "DH",
	"AUDITOR":         "QA",
	"TRAINER":         "TR",
	"TRAINEE":         "TE",
}

// NormalizeRoleName upper-cases a role name and folds '-' and ' ' into '_'.
func NormalizeRoleName(name string) string {
	name = strings.ToUpper(strings.TrimSpace(name))
	return strings.NewReplacer("-", "_", " ", "_").Replace(name)
}

// PrefixFor maps a role name to its two-letter prefix.
func PrefixFor(roleName string) (string, error) {
	prefix, ok := prefixes[NormalizeRoleName(roleName)]
	if !ok {
		return "", ErrUnsupportedRole
	}
	return prefix, nil
}

func Format(prefix string, n int64) string {
	return fmt.Sprintf("%s%0*d", prefix, Width, n)
}

// Parse returns the numeric suffix of id. ok is false for ids that do not
// carry prefix followed by exactly Width digits.
func Parse(prefix, id string) (n int64, ok bool) {
	suffix, found := strings.CutPrefix(id, prefix)
	if !found || len(suffix) != Width {
		return 0, false
	}
	n, err := strconv.ParseInt(suffix, 10, 64)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
