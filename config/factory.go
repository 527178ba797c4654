// Package config 提供配置驱动的 Pipeline 装配：把 YAML/JSON 配置里的
// node type 映射到内置 Node 构建器。
//
// 带模型状态的节点（rank.hybrid）依赖拟合产物，不适合纯配置构建，
// 由 engine 在运行时注入；工厂只覆盖无状态节点。
package config

import (
	"fmt"

	"github.com/pitchside/drillkit/candidate"
	"github.com/pitchside/drillkit/filter"
	"github.com/pitchside/drillkit/pipeline"
	"github.com/pitchside/drillkit/pkg/conv"
	"github.com/pitchside/drillkit/rerank"
)

// DefaultFactory 返回一个包含所有内置无状态 Node 的默认工厂。
func DefaultFactory() *pipeline.NodeFactory {
	factory := pipeline.NewNodeFactory()

	// 注册 Candidate Nodes
	factory.Register("candidate.catalog", buildCatalogNode)
	factory.Register("candidate.fixed", buildFixedNode)

	// 注册 Filter Nodes
	factory.Register("filter", buildFilterNode)

	// 注册 ReRank Nodes
	factory.Register("rerank.topn", buildTopNNode)
	factory.Register("rerank.diversity", buildDiversityNode)

	return factory
}

func buildCatalogNode(config map[string]interface{}) (pipeline.Node, error) {
	node := &candidate.CatalogSource{}
	if n := conv.ConfigGetInt64(config, "max_candidates", 0); n > 0 {
		node.MaxCandidates = int(n)
	}
	return node, nil
}

func buildFixedNode(config map[string]interface{}) (pipeline.Node, error) {
	ids := conv.SliceAnyToString(config["ids"])
	if ids == nil {
		return nil, fmt.Errorf("ids not found or invalid")
	}
	return &candidate.FixedSource{IDs: ids}, nil
}

func buildFilterNode(config map[string]interface{}) (pipeline.Node, error) {
	filtersConfig, ok := config["filters"].([]interface{})
	if !ok {
		return nil, fmt.Errorf("filters not found or invalid")
	}

	filters := make([]filter.Filter, 0, len(filtersConfig))
	for _, fc := range filtersConfig {
		filterMap, ok := fc.(map[string]interface{})
		if !ok {
			continue
		}
		filterType := conv.ConfigGet[string](filterMap, "type", "")
		switch filterType {
		case "practiced":
			practiced := make(map[string]bool)
			for _, id := range conv.SliceAnyToString(filterMap["ids"]) {
				practiced[id] = true
			}
			filters = append(filters, &filter.PracticedFilter{Practiced: practiced})
		case "equipment":
			filters = append(filters, &filter.EquipmentFilter{})
		case "rule":
			expr := conv.ConfigGet[string](filterMap, "expr", "")
			if expr == "" {
				return nil, fmt.Errorf("rule filter: expr is required")
			}
			filters = append(filters, &filter.RuleFilter{Expr: expr})
		default:
			return nil, fmt.Errorf("unknown filter type: %s", filterType)
		}
	}

	return &filter.FilterNode{Filters: filters}, nil
}

func buildTopNNode(config map[string]interface{}) (pipeline.Node, error) {
	return &rerank.TopNNode{N: int(conv.ConfigGetInt64(config, "n", 0))}, nil
}

func buildDiversityNode(config map[string]interface{}) (pipeline.Node, error) {
	return &rerank.Diversity{
		LabelKey: conv.ConfigGet[string](config, "label_key", ""),
	}, nil
}
