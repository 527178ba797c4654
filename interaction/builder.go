package interaction

import (
	"math"
	"sort"
	"time"

	"github.com/pitchside/drillkit/core"
	"github.com/pitchside/drillkit/rating"
)

// Builder 把任意顺序、允许重复 (用户, 训练项) 的记录集合聚合为交互矩阵。
//
// 算法流程：
//  1. 收集携带有效标识的记录，缺 userID/exerciseID 的记录静默丢弃
//  2. 用户与训练项词表按字典序排序后分配索引（确定性）
//  3. 每条记录经 rating.EstimateImplicit 折算为 1-5 评分
//  4. 单条记录按观测时间做指数衰减：weight = exp(-days/DecayDays)，
//     无时间戳视为 weight = 1.0（不衰减），衰减直接作用于评分值
//  5. 同一 (用户, 训练项) 的多条评分按时间先后排序后做加权平均，
//     权重为 exp 映射到 [-1, 0] 的等差序列——越晚的重复观测权重越大。
//     两套时间权重并存且叠加：第 4 步折旧陈旧的单次观测，
//     本步额外偏向组内靠后的重复观测
//  6. 聚合值钳位回 [1.0, 5.0] 后写入稀疏矩阵
//
// 零条有效记录产出 0×0 空矩阵，下游对空矩阵不崩溃（拟合报告 Untrained）。
type Builder struct {
	// Now 是衰减计算的“当前时间”参考；零值表示取 time.Now()。
	Now time.Time

	// DecayDays 衰减常数（天），<= 0 时取默认 30。
	DecayDays float64
}

const defaultDecayDays = 30.0

type observation struct {
	value      float64
	observedAt time.Time
	order      int // 输入顺序，时间相同或缺失时保持稳定
}

// Build 构建交互矩阵。
func (b *Builder) Build(records []core.SessionRecord) *Matrix {
	now := b.Now
	if now.IsZero() {
		now = time.Now()
	}
	decayDays := b.DecayDays
	if decayDays <= 0 {
		decayDays = defaultDecayDays
	}

	// 1. 词表
	userSet := make(map[string]struct{})
	exerciseSet := make(map[string]struct{})
	for _, rec := range records {
		if !rec.Valid() {
			continue
		}
		userSet[rec.UserID] = struct{}{}
		exerciseSet[rec.ExerciseID] = struct{}{}
	}

	users := sortedKeys(userSet)
	exercises := sortedKeys(exerciseSet)
	m := NewMatrix(users, exercises)
	if len(users) == 0 || len(exercises) == 0 {
		return m
	}

	// 2. 逐条折算评分并按 (用户, 训练项) 分组
	type pairKey struct{ u, e int }
	groups := make(map[pairKey][]observation)

	for order := range records {
		rec := &records[order]
		if !rec.Valid() {
			continue
		}
		u := m.UserIndex[rec.UserID]
		e := m.ExerciseIndex[rec.ExerciseID]

		value := rating.EstimateImplicit(rec)
		if !rec.ObservedAt.IsZero() {
			days := now.Sub(rec.ObservedAt).Hours() / 24
			if days > 0 {
				value *= math.Exp(-days / decayDays)
			}
		}

		key := pairKey{u, e}
		groups[key] = append(groups[key], observation{
			value:      value,
			observedAt: rec.ObservedAt,
			order:      order,
		})
	}

	// 3. 组内按时间排序后做 recency 加权平均
	for key, obs := range groups {
		sort.SliceStable(obs, func(i, j int) bool {
			ti, tj := obs[i].observedAt, obs[j].observedAt
			if ti.Equal(tj) {
				return obs[i].order < obs[j].order
			}
			// 零时间（无时间戳）排在最前：视为最旧
			if ti.IsZero() {
				return true
			}
			if tj.IsZero() {
				return false
			}
			return ti.Before(tj)
		})

		m.Set(key.u, key.e, clampRating(recencyWeightedMean(obs)))
	}

	return m
}

// recencyWeightedMean 对按时间升序排列的观测做加权平均，
// 权重为 exp 作用在 [-1, 0] 等差序列上：最后一个观测权重 exp(0)=1 最大。
func recencyWeightedMean(obs []observation) float64 {
	n := len(obs)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return obs[0].value
	}

	var weightedSum, weightSum float64
	for j, o := range obs {
		w := math.Exp(-1 + float64(j)/float64(n-1))
		weightedSum += w * o.value
		weightSum += w
	}
	return weightedSum / weightSum
}

func clampRating(v float64) float64 {
	if v < 1.0 {
		return 1.0
	}
	if v > 5.0 {
		return 5.0
	}
	return v
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
