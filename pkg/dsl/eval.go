package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/pitchside/drillkit/core"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvOnce sync.Once
)

// initCELEnv 初始化 CEL 环境，定义变量
func initCELEnv() (*cel.Env, error) {
	env, err := cel.NewEnv(
		cel.Variable("item", cel.DynType),
		cel.Variable("label", cel.DynType),
		cel.Variable("exercise", cel.DynType),
		cel.Variable("rctx", cel.DynType),
	)
	return env, err
}

// getCELEnv 获取或创建 CEL 环境
func getCELEnv() (*cel.Env, error) {
	var err error
	celEnvOnce.Do(func() {
		celEnv, err = initCELEnv()
	})
	return celEnv, err
}

// Eval 是候选规则的解释器，基于 CEL (Common Expression Language) 实现。
//
// 表达式可访问的变量：
//   - item: {id, score, meta, labels}
//   - label: item 的 Label value 的顶层访问（label.skill_type 等）
//   - exercise: 训练项目录元数据 {id, name, skill_type, difficulty, description, equipment}
//   - rctx: {user_id, scene, params}
//
// 示例：
//   - `exercise.difficulty <= 3` → 只保留难度不超过 3 的训练项
//   - `label.skill_type != null && label.skill_type == "Dribbling"`
//   - `rctx.scene == "daily_plan" && item.score > 3.5`
type Eval struct {
	item     *core.Item
	exercise *core.Exercise
	rctx     *core.RecommendContext
	env      *cel.Env
}

// NewEval 创建一个新的规则解释器。exercise 允许为 nil（目录缺失的候选）。
func NewEval(item *core.Item, exercise *core.Exercise, rctx *core.RecommendContext) *Eval {
	env, _ := getCELEnv()
	return &Eval{
		item:     item,
		exercise: exercise,
		rctx:     rctx,
		env:      env,
	}
}

// Evaluate 解析并执行 CEL 表达式，返回布尔结果。
// 空表达式恒为 true。访问不存在的 key 会报错，用 `x != null` 检查存在性。
func (e *Eval) Evaluate(expr string) (bool, error) {
	if expr == "" {
		return true, nil
	}
	if e.env == nil {
		return false, fmt.Errorf("cel env not initialized")
	}

	ast, issues := e.env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return false, fmt.Errorf("compile error: %v", issues.Err())
	}

	prg, err := e.env.Program(ast)
	if err != nil {
		return false, fmt.Errorf("program error: %v", err)
	}

	out, _, err := prg.Eval(e.buildInput())
	if err != nil {
		return false, fmt.Errorf("eval error: %v", err)
	}

	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression must return boolean, got %T", out.Value())
	}

	return result, nil
}

// buildInput 构建 CEL 表达式的输入数据
func (e *Eval) buildInput() map[string]interface{} {
	labels := make(map[string]interface{})
	labelAccessor := make(map[string]interface{})
	if e.item != nil {
		for k, v := range e.item.Labels {
			labels[k] = map[string]interface{}{
				"value":  v.Value,
				"source": v.Source,
			}
			labelAccessor[k] = v.Value
		}
	}

	item := map[string]interface{}{}
	if e.item != nil {
		item = map[string]interface{}{
			"id":     e.item.ID,
			"score":  e.item.Score,
			"meta":   e.item.Meta,
			"labels": labels,
		}
	}

	exercise := map[string]interface{}{}
	if e.exercise != nil {
		exercise = map[string]interface{}{
			"id":          e.exercise.ID,
			"name":        e.exercise.Name,
			"skill_type":  e.exercise.SkillType,
			"difficulty":  e.exercise.Difficulty,
			"description": e.exercise.Description,
			"equipment":   e.exercise.Equipment,
		}
	}

	rctx := map[string]interface{}{}
	if e.rctx != nil {
		rctx = map[string]interface{}{
			"user_id": e.rctx.UserID,
			"scene":   e.rctx.Scene,
			"params":  e.rctx.Params,
		}
	}

	return map[string]interface{}{
		"item":     item,
		"label":    labelAccessor,
		"exercise": exercise,
		"rctx":     rctx,
	}
}
