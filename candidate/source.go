// Package candidate 提供候选生成 Node：从训练项目录或固定清单
// 生成进入过滤/排序链路的候选集。
package candidate

import (
	"context"
	"sort"

	"github.com/pitchside/drillkit/core"
	"github.com/pitchside/drillkit/pipeline"
)

// DefaultMaxCandidates 是单次请求进入打分的候选上限。
// 目录通常只有几百个训练项，全量打分也可接受，截断只是兜底。
const DefaultMaxCandidates = 20

// CatalogSource 从目录生成候选：按 ID 升序输出全部训练项，
// 超过 MaxCandidates（<=0 时取默认 20）则截断。
// 已有输入 items 时在其后追加，不去重（由下游 Filter 处理）。
type CatalogSource struct {
	Catalog map[string]*core.Exercise

	// MaxCandidates 候选上限，<=0 取 DefaultMaxCandidates。
	MaxCandidates int
}

func (s *CatalogSource) Name() string {
	return "candidate.catalog"
}

func (s *CatalogSource) Kind() pipeline.Kind {
	return pipeline.KindCandidate
}

func (s *CatalogSource) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	max := s.MaxCandidates
	if max <= 0 {
		max = DefaultMaxCandidates
	}

	ids := make([]string, 0, len(s.Catalog))
	for id := range s.Catalog {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	if len(ids) > max {
		ids = ids[:max]
	}

	out := items
	for _, id := range ids {
		it := core.NewItem(id)
		if ex := s.Catalog[id]; ex != nil {
			it.Meta[core.MetaExercise] = ex
		}
		out = append(out, it)
	}
	return out, nil
}

// FixedSource 输出一个固定的候选清单（调用方已知候选集时使用，
// 例如教练指定的训练计划池）。目录元数据可选。
type FixedSource struct {
	IDs     []string
	Catalog map[string]*core.Exercise
}

func (s *FixedSource) Name() string {
	return "candidate.fixed"
}

func (s *FixedSource) Kind() pipeline.Kind {
	return pipeline.KindCandidate
}

func (s *FixedSource) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	out := items
	for _, id := range s.IDs {
		if id == "" {
			continue
		}
		it := core.NewItem(id)
		if ex, ok := s.Catalog[id]; ok && ex != nil {
			it.Meta[core.MetaExercise] = ex
		}
		out = append(out, it)
	}
	return out, nil
}
