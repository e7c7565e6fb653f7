package bracket

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// StapleLandEnv is the evaluation context for a staple-land predicate
// (spec.md §4.3.2: "Each entry is a predicate over (commander_tags, colors,
// commander_power)").
type StapleLandEnv struct {
	Tags     []string `expr:"tags"`
	Colors   []string `expr:"colors"`
	Power    int      `expr:"power"`
	NumColors int     `expr:"numColors"`
}

func hasTag(tags []string, needle string) bool {
	for _, t := range tags {
		if t == needle {
			return true
		}
	}
	return false
}

// StapleLand is one row of the conditional-staple-land table
// (spec.md §4.3.2).
type StapleLand struct {
	Name      string
	Condition string
	program   *vm.Program
}

// DefaultStapleLands returns the fixed staple-land table of spec.md §4.3.2,
// compiled once against StapleLandEnv.
func DefaultStapleLands() ([]*StapleLand, error) {
	rows := []*StapleLand{
		{Name: "Reliquary Tower", Condition: "true"},
		{Name: "Ash Barrens", Condition: `!hasTag(tags, "landfall")`},
		{Name: "Command Tower", Condition: "numColors >= 2"},
		{Name: "Exotic Orchard", Condition: "numColors >= 2"},
		{Name: "War Room", Condition: "numColors <= 2"},
		{Name: "Rogue's Passage", Condition: "power >= 5"},
	}
	for _, r := range rows {
		env := StapleLandEnv{}
		opts := []expr.Option{
			expr.Env(env),
			expr.Function("hasTag", func(params ...any) (any, error) {
				tags, _ := params[0].([]string)
				needle, _ := params[1].(string)
				return hasTag(tags, needle), nil
			}, new(func([]string, string) bool)),
		}
		program, err := expr.Compile(r.Condition, opts...)
		if err != nil {
			return nil, fmt.Errorf("compile staple-land predicate %q: %w", r.Name, err)
		}
		r.program = program
	}
	return rows, nil
}

// Eligible evaluates the staple land's predicate against a build context.
func (s *StapleLand) Eligible(env StapleLandEnv) (bool, error) {
	out, err := expr.Run(s.program, env)
	if err != nil {
		return false, fmt.Errorf("evaluate staple-land predicate %q: %w", s.Name, err)
	}
	ok, _ := out.(bool)
	return ok, nil
}
