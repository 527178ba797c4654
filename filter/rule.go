package filter

import (
	"context"

	"github.com/pitchside/drillkit/core"
	"github.com/pitchside/drillkit/pkg/dsl"
)

// RuleFilter 基于 CEL 表达式的通用过滤器：表达式是“保留条件”，
// 求值为 true 的训练项被保留，false 的被过滤。
//
// 示例：
//
//	&RuleFilter{Expr: `exercise.difficulty <= 3`}
//	&RuleFilter{Expr: `label.skill_type == "Dribbling" || item.score > 3.5`}
type RuleFilter struct {
	Expr string
}

func (f *RuleFilter) Name() string {
	return "filter.rule"
}

func (f *RuleFilter) ShouldFilter(_ context.Context, rctx *core.RecommendContext, item *core.Item) (bool, error) {
	if f.Expr == "" || item == nil {
		return false, nil
	}
	keep, err := dsl.NewEval(item, core.ExerciseOf(item), rctx).Evaluate(f.Expr)
	if err != nil {
		// 表达式错误时保守放行，由上层 Node 决定是否观测
		return false, err
	}
	return !keep, nil
}
