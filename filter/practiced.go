package filter

import (
	"context"

	"github.com/pitchside/drillkit/core"
)

// PracticedFilter 过滤目标用户已经练过的训练项：推荐的价值在于
// 没做过的内容，历史训练项由复习类场景单独处理。
//
// Practiced 是目标用户的已练集合（exerciseID → true），通常来自
// 交互矩阵的行或轻量引擎的画像键集。
type PracticedFilter struct {
	Practiced map[string]bool
}

func (f *PracticedFilter) Name() string {
	return "filter.practiced"
}

func (f *PracticedFilter) ShouldFilter(_ context.Context, _ *core.RecommendContext, item *core.Item) (bool, error) {
	if len(f.Practiced) == 0 || item == nil {
		return false, nil
	}
	return f.Practiced[item.ID], nil
}
