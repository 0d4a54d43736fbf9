package registry

import "github.com/toyz/splice/internal/models"

// RuleMatcher finds the rule that handles a glob request
type RuleMatcher interface {
	Match(req *models.GlobRequest) (*Rule, bool)
}

var _ RuleMatcher = (*RuleRegistry)(nil)
