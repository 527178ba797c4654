package core

import "github.com/pitchside/drillkit/pkg/utils"

// RecommendContext 承载一次推荐请求的目标球员与场景信息，贯穿整个链路透传。
type RecommendContext struct {
	UserID string
	Scene  string // 例如 "daily_plan" / "post_session" / "explore"

	// User 是强类型球员画像；缺失时各评分器回退到中性分。
	User *UserProfile

	// Params 请求级上下文参数：limit、candidate_ids、deadline 相关等。
	Params map[string]any

	// Labels 是用户级标签，可驱动链路行为（新用户、冷启动、实验桶等）。
	Labels map[string]utils.Label
}

// PutLabel 写入用户级 Label。
func (rctx *RecommendContext) PutLabel(key string, lbl utils.Label) {
	if rctx.Labels == nil {
		rctx.Labels = make(map[string]utils.Label)
	}
	if old, ok := rctx.Labels[key]; ok {
		rctx.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	rctx.Labels[key] = lbl
}

// GetLabel 获取用户级 Label。
func (rctx *RecommendContext) GetLabel(key string) (utils.Label, bool) {
	if rctx.Labels == nil {
		return utils.Label{}, false
	}
	lbl, ok := rctx.Labels[key]
	return lbl, ok
}
