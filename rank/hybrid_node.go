// Package rank 提供排序 Node：把分解模型预测、内容评分与置信度
// 融合为候选的最终分，并将各分量写入 Label 供解释与下游策略使用。
package rank

import (
	"context"
	"sort"
	"strconv"

	"github.com/pitchside/drillkit/content"
	"github.com/pitchside/drillkit/core"
	"github.com/pitchside/drillkit/factor"
	"github.com/pitchside/drillkit/hybrid"
	"github.com/pitchside/drillkit/interaction"
	"github.com/pitchside/drillkit/pipeline"
	"github.com/pitchside/drillkit/pkg/utils"
)

// MetaHybridScore 是 Item.Meta 中携带完整融合评分的键（hybrid.Score）。
const MetaHybridScore = "hybrid_score"

// HybridNode 对候选训练项打混合分，并按匹配百分比降序排序。
//
// 算法流程:
//  1. 分解模型预测 Predict(user, exercise)（1-5）
//  2. 内容侧 Score(profile, exercise)（1-5）
//  3. 按交互证据量估计置信度（0-1）
//  4. hybrid.Scorer 融合并生成匹配百分比与推荐理由
//
// Model / Matrix 允许为 nil：预测回退到全局均值，置信度按无证据处理。
type HybridNode struct {
	Model   *factor.Model
	Matrix  *interaction.Matrix
	Content *content.Scorer
	Scorer  hybrid.Scorer
}

func (n *HybridNode) Name() string {
	return "rank.hybrid"
}

func (n *HybridNode) Kind() pipeline.Kind {
	return pipeline.KindRank
}

func (n *HybridNode) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 {
		return items, nil
	}

	userID := ""
	var profile *core.UserProfile
	if rctx != nil {
		userID = rctx.UserID
		profile = rctx.User
	}

	scorer := n.Content
	if scorer == nil {
		scorer = &content.Scorer{}
	}

	for _, item := range items {
		if item == nil {
			continue
		}
		ex := core.ExerciseOf(item)

		prediction := n.Model.Predict(userID, item.ID)
		contentScore := scorer.Score(profile, ex)

		userCount, exerciseCount := 0, 0
		if n.Matrix != nil {
			userCount = n.Matrix.UserCountByID(userID)
			exerciseCount = n.Matrix.ExerciseCountByID(item.ID)
		}
		confidence := hybrid.Confidence(userCount, exerciseCount)

		sc := n.Scorer.Combine(prediction, contentScore, confidence)
		item.Score = sc.Hybrid
		if item.Meta == nil {
			item.Meta = make(map[string]any)
		}
		item.Meta[MetaHybridScore] = sc
		putScoreLabel(item, "factorization", sc.Factorization)
		putScoreLabel(item, "content", sc.Content)
		putScoreLabel(item, "confidence", sc.Confidence)
		if ex != nil && ex.SkillType != "" {
			item.PutLabel("skill_type", utils.Label{Value: ex.SkillType, Source: n.Name()})
		}
	}

	// 按匹配百分比降序：百分比含置信度调整，是面向用户的最终排序键。
	// 同百分比退回原始混合分，再同分按 ID 保证可重复。
	sort.SliceStable(items, func(i, j int) bool {
		if items[i] == nil || items[j] == nil {
			return items[j] == nil && items[i] != nil
		}
		pi, pj := matchPercentage(items[i]), matchPercentage(items[j])
		if pi != pj {
			return pi > pj
		}
		if items[i].Score != items[j].Score {
			return items[i].Score > items[j].Score
		}
		return items[i].ID < items[j].ID
	})
	return items, nil
}

func matchPercentage(item *core.Item) int {
	if sc, ok := item.Meta[MetaHybridScore].(hybrid.Score); ok {
		return sc.MatchPercentage
	}
	return 0
}

func putScoreLabel(item *core.Item, key string, value float64) {
	item.PutLabel(key, utils.Label{Value: strconv.FormatFloat(value, 'f', 4, 64), Source: "rank.hybrid"})
}
