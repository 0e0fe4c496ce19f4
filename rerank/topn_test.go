package rerank

import (
	"context"
	"testing"

	"github.com/rushteam/placekit/core"
)

func places(ids ...string) []*core.Place {
	out := make([]*core.Place, 0, len(ids))
	for _, id := range ids {
		out = append(out, core.NewPlace(id))
	}
	return out
}

func TestLimitNode_DedupKeepsFirst(t *testing.T) {
	n := &LimitNode{N: 10}

	in := places("a", "b", "a", "c", "b")
	in[0].Name = "first-a"
	in[2].Name = "second-a"

	out, err := n.Process(context.Background(), nil, in)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	if len(out) != 3 {
		t.Fatalf("len = %d, want 3", len(out))
	}
	// 重复 ID 保留首次出现，顺序不变
	if out[0].Name != "first-a" || out[1].ID != "b" || out[2].ID != "c" {
		t.Errorf("去重结果异常: %v %v %v", out[0].Name, out[1].ID, out[2].ID)
	}
}

func TestLimitNode_Truncate(t *testing.T) {
	tests := []struct {
		name string
		n    int
		in   int
		want int
	}{
		{"正常截断", 3, 5, 3},
		{"数量不足不截断", 8, 5, 5},
		{"刚好等于上限", 5, 5, 5},
		{"N为0只去重", 0, 5, 5},
		{"空输入", 3, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node := &LimitNode{N: tt.n}
			ids := make([]string, tt.in)
			for i := range ids {
				ids[i] = string(rune('a' + i))
			}
			out, err := node.Process(context.Background(), nil, places(ids...))
			if err != nil {
				t.Fatalf("Process() error = %v", err)
			}
			if len(out) != tt.want {
				t.Errorf("len = %d, want %d", len(out), tt.want)
			}
		})
	}
}

func TestLimitNode_NilPlacesSkipped(t *testing.T) {
	n := &LimitNode{N: 10}
	in := []*core.Place{core.NewPlace("a"), nil, core.NewPlace("b")}

	out, err := n.Process(context.Background(), nil, in)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if len(out) != 2 {
		t.Errorf("len = %d, want 2", len(out))
	}
}
