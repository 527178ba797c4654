// Package engine 是推荐编排层：装配交互矩阵、选择策略（分解模型 /
// 轻量近邻）、运行候选流水线，并输出带元信息的推荐结果。
//
// 两个入口：
//   - FitAndRecommend: 完整路径，训练数据充足时走分解模型，
//     不足或超时则自动降级到轻量引擎
//   - LightweightRecommend: 独立的低成本路径，不做矩阵分解
//
// 任何输入（包括零记录）都保证返回至少一条推荐，不返回错误。
package engine

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/pitchside/drillkit/candidate"
	"github.com/pitchside/drillkit/content"
	"github.com/pitchside/drillkit/core"
	"github.com/pitchside/drillkit/factor"
	"github.com/pitchside/drillkit/filter"
	"github.com/pitchside/drillkit/hybrid"
	"github.com/pitchside/drillkit/interaction"
	"github.com/pitchside/drillkit/lightweight"
	"github.com/pitchside/drillkit/pipeline"
	"github.com/pitchside/drillkit/rank"
	"github.com/pitchside/drillkit/rerank"
)

const (
	// DefaultLimit / MaxLimit 返回条数的默认值与上限。
	DefaultLimit = 5
	MaxLimit     = 10

	// 算法标识（写入 Result.Algorithm）。
	AlgorithmHybrid      = "hybrid_svd_collaborative_filtering"
	AlgorithmLightweight = "lightweight_collaborative_filtering"

	// ModelVersion 结果元信息中的模型版本号。
	ModelVersion = "2.0.0"
)

// Strategy 标识一次请求实际走的策略。
type Strategy string

const (
	StrategyTrained   Strategy = "trained"   // 分解模型成功拟合
	StrategyUntrained Strategy = "untrained" // 数据不足，降级到轻量引擎
)

// Result 是一次推荐请求的完整结果：推荐列表加响应元信息。
type Result struct {
	UserID          string                `json:"user_id"`
	Recommendations []core.Recommendation `json:"recommendations"`
	Algorithm       string                `json:"algorithm"`
	ModelVersion    string                `json:"model_version"`
	GeneratedAt     time.Time             `json:"generated_at"`

	// Fallback 为 true 表示完整路径降级到了轻量引擎。
	Fallback bool `json:"fallback,omitempty"`

	Stats DataStats `json:"data_stats"`
}

// DataStats 输入数据的规模统计（观测用）。
type DataStats struct {
	TrainingSessions int `json:"training_sessions"`
	UserProfiles     int `json:"user_profiles"`
	CatalogSize      int `json:"exercise_catalog"`
}

// Engine 推荐编排器。零值可用；字段均为可选配置。
type Engine struct {
	// Factors 分解的隐因子数上限，<=0 取 factor.DefaultFactors。
	Factors int

	// DecayDays 交互衰减的时间常数（天），<=0 取 30。
	DecayDays float64

	// Diversity 开启技能类型去重重排。
	Diversity bool

	// Logger 可选；nil 时使用 zap.NewNop()。
	Logger *zap.Logger
}

func (e *Engine) logger() *zap.Logger {
	if e == nil || e.Logger == nil {
		return zap.NewNop()
	}
	return e.Logger
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// FitAndRecommend 是完整推荐路径。
//
// 算法流程:
//  1. 用全部会话记录构建交互矩阵并拟合分解模型
//  2. 模型可训练 → 候选过滤 + 混合打分流水线
//  3. 数据不足（<2 用户或 <2 训练项）或 ctx 已超时 → 轻量引擎
//  4. 流水线产出为空 → 轻量引擎兜底（保证非空）
//
// candidates 为空时从目录按 ID 序取前 20 个作为候选。
func (e *Engine) FitAndRecommend(
	ctx context.Context,
	records []core.SessionRecord,
	profiles map[string]*core.UserProfile,
	catalog map[string]*core.Exercise,
	targetUser string,
	candidates []string,
	limit int,
) *Result {
	limit = clampLimit(limit)
	log := e.logger()
	stats := DataStats{
		TrainingSessions: len(records),
		UserProfiles:     len(profiles),
		CatalogSize:      len(catalog),
	}

	if err := ctx.Err(); err != nil {
		log.Warn("context expired before fit, falling back to lightweight",
			zap.String("user_id", targetUser), zap.Error(err))
		return e.lightweightResult(records, catalog, targetUser, candidates, limit, stats, true)
	}

	builder := interaction.Builder{DecayDays: e.DecayDays}
	mat := builder.Build(records)
	model := factor.Fit(mat, e.Factors)

	strategy := StrategyUntrained
	if model.Trained() {
		strategy = StrategyTrained
	}
	log.Info("interaction matrix built",
		zap.String("user_id", targetUser),
		zap.Int("users", mat.NumUsers()),
		zap.Int("exercises", mat.NumExercises()),
		zap.Int("cells", mat.NumCells()),
		zap.String("strategy", string(strategy)))

	if strategy == StrategyUntrained {
		return e.lightweightResult(records, catalog, targetUser, candidates, limit, stats, true)
	}

	rctx := &core.RecommendContext{UserID: targetUser}
	if profiles != nil {
		rctx.User = profiles[targetUser]
	}

	recs, err := e.runPipeline(ctx, rctx, mat, model, catalog, targetUser, candidates, limit)
	if err != nil || len(recs) == 0 {
		log.Warn("hybrid pipeline produced no results, falling back to lightweight",
			zap.String("user_id", targetUser), zap.Error(err))
		return e.lightweightResult(records, catalog, targetUser, candidates, limit, stats, true)
	}

	log.Info("recommendations generated",
		zap.String("user_id", targetUser),
		zap.String("algorithm", AlgorithmHybrid),
		zap.Int("count", len(recs)))
	return &Result{
		UserID:          targetUser,
		Recommendations: recs,
		Algorithm:       AlgorithmHybrid,
		ModelVersion:    ModelVersion,
		GeneratedAt:     time.Now(),
		Stats:           stats,
	}
}

// LightweightRecommend 是独立的轻量路径：近邻协同 + 技能偏好，
// 不构建交互矩阵，适合请求量大或数据稀疏的场景。
func (e *Engine) LightweightRecommend(
	_ context.Context,
	records []core.SessionRecord,
	catalog map[string]*core.Exercise,
	targetUser string,
	candidates []string,
	limit int,
) *Result {
	limit = clampLimit(limit)
	stats := DataStats{TrainingSessions: len(records), CatalogSize: len(catalog)}
	return e.lightweightResult(records, catalog, targetUser, candidates, limit, stats, false)
}

func (e *Engine) lightweightResult(
	records []core.SessionRecord,
	catalog map[string]*core.Exercise,
	targetUser string,
	candidates []string,
	limit int,
	stats DataStats,
	fallback bool,
) *Result {
	lw := lightweight.NewEngine()
	lw.Observe(records)

	ids := candidates
	if len(ids) == 0 {
		ids = catalogIDs(catalog, candidate.DefaultMaxCandidates)
	}

	recs := lw.Recommend(targetUser, ids, catalog, limit)
	e.logger().Info("recommendations generated",
		zap.String("user_id", targetUser),
		zap.String("algorithm", AlgorithmLightweight),
		zap.Int("count", len(recs)),
		zap.Bool("fallback", fallback))

	return &Result{
		UserID:          targetUser,
		Recommendations: recs,
		Algorithm:       AlgorithmLightweight,
		ModelVersion:    ModelVersion,
		GeneratedAt:     time.Now(),
		Fallback:        fallback,
		Stats:           stats,
	}
}

// runPipeline 组装并运行 候选→过滤→排序→重排 流水线，
// 将产出的 Item 转换为最终的 Recommendation。
func (e *Engine) runPipeline(
	ctx context.Context,
	rctx *core.RecommendContext,
	mat *interaction.Matrix,
	model *factor.Model,
	catalog map[string]*core.Exercise,
	targetUser string,
	candidates []string,
	limit int,
) ([]core.Recommendation, error) {
	// 显式候选列表视为调用方意图：已练过的也照常打分，
	// 只有引擎自选候选时才剔除已练习项。
	var source pipeline.Node
	filters := []filter.Filter{&filter.EquipmentFilter{}}
	if len(candidates) > 0 {
		source = &candidate.FixedSource{IDs: candidates, Catalog: catalog}
	} else {
		source = &candidate.CatalogSource{Catalog: catalog}
		filters = append(filters,
			&filter.PracticedFilter{Practiced: practicedSet(mat, targetUser)})
	}

	nodes := []pipeline.Node{
		source,
		&filter.FilterNode{Filters: filters},
		&rank.HybridNode{Model: model, Matrix: mat, Content: &content.Scorer{}},
	}
	if e.Diversity {
		nodes = append(nodes, &rerank.Diversity{})
	}
	nodes = append(nodes, &rerank.TopNNode{N: limit})

	p := &pipeline.Pipeline{Nodes: nodes}
	items, err := p.Run(ctx, rctx, nil)
	if err != nil {
		return nil, err
	}

	var scorer hybrid.Scorer
	recs := make([]core.Recommendation, 0, len(items))
	for _, it := range items {
		if it == nil {
			continue
		}
		sc, ok := it.Meta[rank.MetaHybridScore].(hybrid.Score)
		if !ok {
			continue
		}
		recs = append(recs, core.Recommendation{
			ExerciseID:      it.ID,
			MatchPercentage: sc.MatchPercentage,
			Scores: core.ComponentScores{
				Factorization: sc.Factorization,
				Content:       sc.Content,
				Confidence:    sc.Confidence,
				Hybrid:        sc.Hybrid,
			},
			Reason: scorer.Reason(sc),
		})
	}
	return recs, nil
}

// practicedSet 取某用户在矩阵中已有观测的训练项集合。
func practicedSet(mat *interaction.Matrix, userID string) map[string]bool {
	out := make(map[string]bool)
	idx, ok := mat.UserIndex[userID]
	if !ok {
		return out
	}
	for exerciseIdx := range mat.Row(idx) {
		out[mat.Exercises[exerciseIdx]] = true
	}
	return out
}

// catalogIDs 按 ID 升序取目录前 max 个训练项。
func catalogIDs(catalog map[string]*core.Exercise, max int) []string {
	ids := make([]string, 0, len(catalog))
	for id := range catalog {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	if len(ids) > max {
		ids = ids[:max]
	}
	return ids
}
