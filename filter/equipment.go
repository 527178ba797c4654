package filter

import (
	"context"

	"github.com/pitchside/drillkit/core"
)

// EquipmentFilter 过滤需要用户不具备器材的训练项。
// 画像缺失或画像未声明器材清单时视为全部可用，不做过滤。
type EquipmentFilter struct{}

func (f *EquipmentFilter) Name() string {
	return "filter.equipment"
}

func (f *EquipmentFilter) ShouldFilter(_ context.Context, rctx *core.RecommendContext, item *core.Item) (bool, error) {
	if rctx == nil || rctx.User == nil {
		return false, nil
	}
	ex := core.ExerciseOf(item)
	if ex == nil {
		return false, nil
	}
	for _, need := range ex.Equipment {
		if !rctx.User.HasEquipment(need) {
			return true, nil
		}
	}
	return false, nil
}
