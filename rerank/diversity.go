package rerank

import (
	"context"

	"github.com/pitchside/drillkit/core"
	"github.com/pitchside/drillkit/pipeline"
)

// Diversity 是一个简单的多样性 ReRank：按技能类型去重（保留首个出现的类型），
// 避免一份训练计划里全是同一种练习。
// 类型来源优先级：
// - label["skill_type"].Value
// - 目录元数据 Exercise.SkillType
type Diversity struct {
	LabelKey string // 默认 "skill_type"
}

func (n *Diversity) Name() string {
	return "rerank.diversity"
}

func (n *Diversity) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *Diversity) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 {
		return items, nil
	}

	key := n.LabelKey
	if key == "" {
		key = "skill_type"
	}

	seen := make(map[string]bool, 16)
	out := make([]*core.Item, 0, len(items))

	for _, it := range items {
		if it == nil {
			continue
		}

		skill := ""
		if it.Labels != nil {
			if lbl, ok := it.Labels[key]; ok {
				skill = lbl.Value
			}
		}
		if skill == "" {
			if ex := core.ExerciseOf(it); ex != nil {
				skill = ex.SkillType
			}
		}

		if skill == "" {
			out = append(out, it)
			continue
		}
		if seen[skill] {
			continue
		}
		seen[skill] = true
		out = append(out, it)
	}

	return out, nil
}
