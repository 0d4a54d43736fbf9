// Package registry holds the ordered rule table consulted by the glob
// import expander.
package registry

import (
	"github.com/toyz/splice/internal/jsast"
	"github.com/toyz/splice/internal/models"
	"github.com/toyz/splice/internal/utils"
)

// Transformer builds the replacement of a glob request from its matches.
// Returning nil statements and a nil error falls back to the default
// expansion. For require requests the replacement must be a single
// expression statement whose expression replaces the call.
type Transformer func(req *models.GlobRequest, files []models.FileMatch) ([]jsast.Stmt, error)

// Rule is one entry of the rule table.
type Rule struct {
	Name    string
	Test    func(req *models.GlobRequest) bool
	Replace Transformer
}

// RuleRegistry keeps rules in registration order. Rule names are unique.
type RuleRegistry struct {
	rules *utils.BaseRegistry[string, *Rule]
}

// NewRuleRegistry creates an empty rule table.
func NewRuleRegistry() *RuleRegistry {
	rules := utils.NewBaseRegistry[string, *Rule]("glob rule", "rule name", "rule")
	rules.SetValidator(utils.ChainValidators(
		utils.NotEmptyKeyValidator[*Rule]("rule name"),
		utils.NotNilValueValidator[string, Rule]("rule"),
		utils.NoDuplicateValidator[string, *Rule]("rule name"),
	))
	return &RuleRegistry{rules: rules}
}

// Register appends rule to the table.
func (r *RuleRegistry) Register(rule *Rule) error {
	name := ""
	if rule != nil {
		name = rule.Name
	}
	return r.rules.Register(name, rule)
}

// MustRegister is Register for rule tables built at start-up.
func (r *RuleRegistry) MustRegister(rules ...*Rule) *RuleRegistry {
	for _, rule := range rules {
		if err := r.Register(rule); err != nil {
			panic(err)
		}
	}
	return r
}

// Match returns the first rule whose test accepts req.
func (r *RuleRegistry) Match(req *models.GlobRequest) (*Rule, bool) {
	var found *Rule
	r.rules.ForEach(func(_ string, rule *Rule) bool {
		if rule.Test == nil || rule.Test(req) {
			found = rule
			return false
		}
		return true
	})
	return found, found != nil
}

// Names lists the registered rule names in order.
func (r *RuleRegistry) Names() []string {
	return r.rules.List()
}

// Len returns the number of rules.
func (r *RuleRegistry) Len() int {
	return r.rules.Size()
}
