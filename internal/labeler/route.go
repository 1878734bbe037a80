package labeler

import "strings"

const (
	BranchBeta = "beta"
	BranchProd = "prod"

	betaPrefix = "rekognition-input/beta/"
	prodPrefix = "rekognition-input/prod/"
)

// routeForKey classifies an object key by literal, case-sensitive
// prefix match and selects the branch tag and destination table. Beta
// is checked first. Keys matching neither prefix route to beta: a
// misdropped object is more visible in the beta table than lost.
func (l *Labeler) routeForKey(key string) (branch, table string) {
	switch {
	case strings.HasPrefix(key, betaPrefix):
		return BranchBeta, l.cfg.BetaTable
	case strings.HasPrefix(key, prodPrefix):
		return BranchProd, l.cfg.ProdTable
	}
	return BranchBeta, l.cfg.BetaTable
}
