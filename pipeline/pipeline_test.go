package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rushteam/placekit/core"
)

// stubNode 把所有输入地点加一个标记，便于验证执行顺序。
type stubNode struct {
	name string
	err  error
}

func (n *stubNode) Name() string { return n.name }
func (n *stubNode) Kind() Kind   { return KindPostProcess }

func (n *stubNode) Process(_ context.Context, _ *core.QueryContext, places []*core.Place) ([]*core.Place, error) {
	if n.err != nil {
		return nil, n.err
	}
	p := core.NewPlace(n.name)
	return append(places, p), nil
}

func TestPipeline_RunSequential(t *testing.T) {
	p := &Pipeline{
		Nodes: []Node{
			&stubNode{name: "first"},
			&stubNode{name: "second"},
		},
	}

	out, err := p.Run(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(out) != 2 || out[0].ID != "first" || out[1].ID != "second" {
		t.Errorf("节点应按序执行: %v", out)
	}
}

func TestPipeline_RunAbortsOnError(t *testing.T) {
	boom := errors.New("boom")
	last := &stubNode{name: "last"}
	p := &Pipeline{
		Nodes: []Node{
			&stubNode{name: "first"},
			&stubNode{name: "fail", err: boom},
			last,
		},
	}

	_, err := p.Run(context.Background(), nil, nil)
	if !errors.Is(err, boom) {
		t.Errorf("Run() error = %v, want boom", err)
	}
}

func TestConfig_LoadFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pipeline.yaml")
	yaml := `
pipeline:
  name: test
  nodes:
    - type: rerank.topn
      config:
        n: 8
    - type: rank.preference
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg, err := LoadFromYAML(path)
	if err != nil {
		t.Fatalf("LoadFromYAML() error = %v", err)
	}
	if cfg.Pipeline.Name != "test" || len(cfg.Pipeline.Nodes) != 2 {
		t.Errorf("cfg = %+v", cfg.Pipeline)
	}
	if cfg.Pipeline.Nodes[0].Type != "rerank.topn" {
		t.Errorf("nodes[0].Type = %q", cfg.Pipeline.Nodes[0].Type)
	}
	if n, ok := cfg.Pipeline.Nodes[0].Config["n"].(int); !ok || n != 8 {
		t.Errorf("nodes[0].Config[n] = %v", cfg.Pipeline.Nodes[0].Config["n"])
	}
}

func TestConfig_BuildPipeline(t *testing.T) {
	factory := NewNodeFactory()
	factory.Register("stub", func(cfg map[string]interface{}) (Node, error) {
		return &stubNode{name: "stub"}, nil
	})

	cfg := &Config{}
	cfg.Pipeline.Nodes = []NodeConfig{{Type: "stub"}}

	p, err := cfg.BuildPipeline(factory)
	if err != nil {
		t.Fatalf("BuildPipeline() error = %v", err)
	}
	if len(p.Nodes) != 1 || p.Nodes[0].Name() != "stub" {
		t.Errorf("p.Nodes = %v", p.Nodes)
	}

	// 未注册的类型报错
	cfg.Pipeline.Nodes = []NodeConfig{{Type: "unknown"}}
	if _, err := cfg.BuildPipeline(factory); err == nil {
		t.Error("未知节点类型应报错")
	}
}
