package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/pitchside/drillkit/core"
)

type stubNode struct {
	name string
	kind Kind
	fn   func(items []*core.Item) ([]*core.Item, error)
}

func (n *stubNode) Name() string { return n.name }
func (n *stubNode) Kind() Kind   { return n.kind }
func (n *stubNode) Process(_ context.Context, _ *core.RecommendContext, items []*core.Item) ([]*core.Item, error) {
	return n.fn(items)
}

func TestPipelineRunChainsNodes(t *testing.T) {
	p := &Pipeline{Nodes: []Node{
		&stubNode{name: "gen", kind: KindCandidate, fn: func(items []*core.Item) ([]*core.Item, error) {
			return append(items, core.NewItem("a"), core.NewItem("b")), nil
		}},
		&stubNode{name: "cut", kind: KindReRank, fn: func(items []*core.Item) ([]*core.Item, error) {
			return items[:1], nil
		}},
	}}

	out, err := p.Run(context.Background(), &core.RecommendContext{UserID: "amy"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 1 || out[0].ID != "a" {
		t.Fatalf("Run = %+v, want single item a", out)
	}
}

func TestPipelineRunStopsOnError(t *testing.T) {
	boom := errors.New("boom")
	p := &Pipeline{Nodes: []Node{
		&stubNode{name: "bad", kind: KindRank, fn: func([]*core.Item) ([]*core.Item, error) {
			return nil, boom
		}},
		&stubNode{name: "never", kind: KindReRank, fn: func([]*core.Item) ([]*core.Item, error) {
			t.Fatal("node after failure must not run")
			return nil, nil
		}},
	}}

	if _, err := p.Run(context.Background(), nil, nil); !errors.Is(err, boom) {
		t.Fatalf("Run err = %v, want boom", err)
	}
}

func TestLoadFromYAMLAndBuild(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pipeline.yaml")
	content := `
pipeline:
  name: daily_plan
  nodes:
    - type: candidate.catalog
      config:
        max_candidates: 10
    - type: rerank.topn
      config:
        n: 3
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromYAML(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Pipeline.Name != "daily_plan" || len(cfg.Pipeline.Nodes) != 2 {
		t.Fatalf("unexpected config: %+v", cfg)
	}

	factory := NewNodeFactory()
	factory.Register("candidate.catalog", func(map[string]interface{}) (Node, error) {
		return &stubNode{name: "candidate.catalog", kind: KindCandidate, fn: func(items []*core.Item) ([]*core.Item, error) { return items, nil }}, nil
	})
	factory.Register("rerank.topn", func(map[string]interface{}) (Node, error) {
		return &stubNode{name: "rerank.topn", kind: KindReRank, fn: func(items []*core.Item) ([]*core.Item, error) { return items, nil }}, nil
	})

	p, err := cfg.BuildPipeline(factory)
	if err != nil {
		t.Fatal(err)
	}
	if len(p.Nodes) != 2 {
		t.Fatalf("pipeline has %d nodes, want 2", len(p.Nodes))
	}
}

func TestBuildPipelineUnknownNode(t *testing.T) {
	var cfg Config
	cfg.Pipeline.Nodes = []NodeConfig{{Type: "rank.mystery"}}
	if _, err := cfg.BuildPipeline(NewNodeFactory()); err == nil {
		t.Fatal("unknown node type should fail the build")
	}
}
