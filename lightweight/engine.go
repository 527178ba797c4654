// Package lightweight 是不依赖矩阵分解的降级推荐引擎：
// 基于余弦相似度的近邻协同过滤，叠加按技能类型的内容启发式。
// 训练数据不足以分解时由编排层切换到本包。
package lightweight

import (
	"math"
	"sort"

	"github.com/pitchside/drillkit/core"
	"github.com/pitchside/drillkit/rating"
)

// 近邻与融合参数。
const (
	// minCommonExercises 少于 2 个共同训练项时相似度无定义，按 0 处理。
	minCommonExercises = 2
	// similarityThreshold 低于该阈值的用户不进入近邻集合。
	similarityThreshold = 0.1
	// maxNeighbors 只取最相似的前 5 个用户。
	maxNeighbors = 5

	collaborativeWeight = 0.7
	contentWeight       = 0.3

	// nextStepBonus 给恰好比用户平均难度高一级的训练项加分。
	nextStepBonus = 0.1
	// unseenSkillPreference 用户没练过的技能类型的默认偏好。
	unseenSkillPreference = 0.5

	defaultLimit = 3
)

// ScoredExercise 是一条带分值的候选，分值量纲随来源而异：
// 协同路径约在 (0, 1]，融合后约在 (0, 1.5]。
type ScoredExercise struct {
	ExerciseID string
	Score      float64
}

// Engine 维护每用户的 训练项→得分 画像（0.1–1.0 量纲，来自
// rating.EstimateSessionScore），并在其上做近邻协同与内容推荐。
//
// 工程特征: Observe 之后画像只读，可并发调用各推荐方法。
type Engine struct {
	// scores: userID → exerciseID → 0.1–1.0 得分
	scores map[string]map[string]float64
}

func NewEngine() *Engine {
	return &Engine{scores: make(map[string]map[string]float64)}
}

// Observe 从会话记录构建用户画像。同一 (用户, 训练项) 的后续观测
// 与当前画像值做对半平均，不做时间加权。无用户标识的记录被跳过。
func (e *Engine) Observe(records []core.SessionRecord) {
	for _, rec := range records {
		if !rec.Valid() {
			continue
		}
		score := rating.EstimateSessionScore(&rec)
		profile, ok := e.scores[rec.UserID]
		if !ok {
			profile = make(map[string]float64)
			e.scores[rec.UserID] = profile
		}
		if current, seen := profile[rec.ExerciseID]; seen {
			profile[rec.ExerciseID] = (current + score) / 2
		} else {
			profile[rec.ExerciseID] = score
		}
	}
}

// Profile 返回某用户的画像，未知用户返回 nil。返回值不可修改。
func (e *Engine) Profile(userID string) map[string]float64 {
	return e.scores[userID]
}

// Similarity 计算两份画像在共同训练项交集上的余弦相似度。
// 共同项少于 2 个、或任一侧范数为 0 时返回 0。
func Similarity(a, b map[string]float64) float64 {
	var dot, normA, normB float64
	common := 0
	for exercise, scoreA := range a {
		scoreB, ok := b[exercise]
		if !ok {
			continue
		}
		common++
		dot += scoreA * scoreB
		normA += scoreA * scoreA
		normB += scoreB * scoreB
	}
	if common < minCommonExercises {
		return 0
	}
	normA = math.Sqrt(normA)
	normB = math.Sqrt(normB)
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (normA * normB)
}

type neighbor struct {
	userID     string
	similarity float64
}

// neighbors 返回与目标用户相似度超过阈值的前 maxNeighbors 个用户，
// 按相似度降序，同分时按用户 ID 升序保证确定性。
func (e *Engine) neighbors(userID string) []neighbor {
	target, ok := e.scores[userID]
	if !ok {
		return nil
	}
	var candidates []neighbor
	for other, profile := range e.scores {
		if other == userID {
			continue
		}
		sim := Similarity(target, profile)
		if sim > similarityThreshold {
			candidates = append(candidates, neighbor{userID: other, similarity: sim})
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].similarity != candidates[j].similarity {
			return candidates[i].similarity > candidates[j].similarity
		}
		return candidates[i].userID < candidates[j].userID
	})
	if len(candidates) > maxNeighbors {
		candidates = candidates[:maxNeighbors]
	}
	return candidates
}

// CollaborativeScores 对目标用户未练过、但近邻练过的训练项累计
// 相似度加权得分，最终取累计值的平均。catalog 之外的训练项被丢弃。
func (e *Engine) CollaborativeScores(userID string, catalog []string, limit int) []ScoredExercise {
	target, ok := e.scores[userID]
	if !ok {
		return nil
	}
	inCatalog := make(map[string]bool, len(catalog))
	for _, id := range catalog {
		inCatalog[id] = true
	}

	weighted := make(map[string][]float64)
	for _, nb := range e.neighbors(userID) {
		for exercise, score := range e.scores[nb.userID] {
			if _, done := target[exercise]; done {
				continue
			}
			weighted[exercise] = append(weighted[exercise], score*nb.similarity)
		}
	}

	var out []ScoredExercise
	for exercise, scores := range weighted {
		if !inCatalog[exercise] {
			continue
		}
		var sum float64
		for _, s := range scores {
			sum += s
		}
		out = append(out, ScoredExercise{ExerciseID: exercise, Score: sum / float64(len(scores))})
	}
	sortScored(out)
	return truncate(out, limit)
}

// ContentScores 按技能类型聚合目标用户自己的得分作为偏好，
// 为每个未练过的候选给出 偏好 + 难度加分 的内容得分。
// 难度恰好为 floor(用户平均难度)+1 的训练项获得 +0.1。
func (e *Engine) ContentScores(userID string, catalog []string, meta map[string]*core.Exercise, limit int) []ScoredExercise {
	target, ok := e.scores[userID]
	if !ok {
		return nil
	}

	skillSums := make(map[string]float64)
	skillCounts := make(map[string]int)
	var difficultySum float64
	for exercise, score := range target {
		ex, known := meta[exercise]
		if !known || ex == nil {
			continue
		}
		skillSums[ex.SkillType] += score
		skillCounts[ex.SkillType]++
		difficultySum += float64(ex.Difficulty)
	}
	avgDifficulty := difficultySum / math.Max(float64(len(target)), 1)
	nextStep := int(avgDifficulty) + 1

	var out []ScoredExercise
	for _, exercise := range catalog {
		if _, done := target[exercise]; done {
			continue
		}
		ex, known := meta[exercise]
		if !known || ex == nil {
			continue
		}
		score := unseenSkillPreference
		if n := skillCounts[ex.SkillType]; n > 0 {
			score = skillSums[ex.SkillType] / float64(n)
		}
		if ex.Difficulty == nextStep {
			score += nextStepBonus
		}
		out = append(out, ScoredExercise{ExerciseID: exercise, Score: score})
	}
	sortScored(out)
	return truncate(out, limit)
}

// Recommend 按 0.7/0.3 加性融合两路得分并格式化为推荐列表。
// 一路缺失的训练项该路贡献按 0 计。列表为空时回退到基础训练项，
// 保证任何用户至少得到一条推荐。
func (e *Engine) Recommend(userID string, catalog []string, meta map[string]*core.Exercise, limit int) []core.Recommendation {
	if limit <= 0 {
		limit = defaultLimit
	}

	collab := e.CollaborativeScores(userID, catalog, limit*2)
	content := e.ContentScores(userID, catalog, meta, limit*2)

	merged := make(map[string]float64)
	for _, se := range collab {
		merged[se.ExerciseID] = se.Score * collaborativeWeight
	}
	for _, se := range content {
		merged[se.ExerciseID] += se.Score * contentWeight
	}

	ranked := make([]ScoredExercise, 0, len(merged))
	for exercise, score := range merged {
		ranked = append(ranked, ScoredExercise{ExerciseID: exercise, Score: score})
	}
	sortScored(ranked)
	ranked = truncate(ranked, limit)

	if len(ranked) == 0 {
		return FoundationalDefaults()
	}

	collabTop := make(map[string]bool, 3)
	for i, se := range collab {
		if i >= 3 {
			break
		}
		collabTop[se.ExerciseID] = true
	}

	out := make([]core.Recommendation, 0, len(ranked))
	for i, se := range ranked {
		percentage := int(math.Min(95, math.Max(45, se.Score*100)) + positionVariation(i))
		reason := "Matches your skill development pattern"
		if collabTop[se.ExerciseID] {
			reason = "Similar players have improved with this drill"
		}
		out = append(out, core.Recommendation{
			ExerciseID:      se.ExerciseID,
			MatchPercentage: percentage,
			Scores:          core.ComponentScores{Hybrid: se.Score},
			Reason:          reason,
		})
	}
	return out
}

// positionVariation 给前三位加入 -5/-2/+1 的微小偏移，
// 避免相邻条目展示出一模一样的百分比。
func positionVariation(position int) float64 {
	if position < 3 {
		return float64(-5 + position*3)
	}
	return 0
}

func sortScored(s []ScoredExercise) {
	sort.Slice(s, func(i, j int) bool {
		if s[i].Score != s[j].Score {
			return s[i].Score > s[j].Score
		}
		return s[i].ExerciseID < s[j].ExerciseID
	})
}

func truncate(s []ScoredExercise, limit int) []ScoredExercise {
	if limit > 0 && len(s) > limit {
		return s[:limit]
	}
	return s
}
