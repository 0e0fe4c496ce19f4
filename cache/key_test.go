package cache

import (
	"strings"
	"testing"

	"github.com/rushteam/placekit/core"
)

func TestKeyBuilder_Stable(t *testing.T) {
	b := KeyBuilder{}
	params := core.SearchParams{
		Query:      "best restaurant in Kyoto",
		Location:   core.Coordinates{Lat: 35.0116, Lng: 135.7681},
		Radius:     20000,
		TypeFilter: "restaurant",
	}

	k1 := b.Build(params)
	k2 := b.Build(params)
	if k1 != k2 {
		t.Errorf("同参数生成了不同的键: %s / %s", k1, k2)
	}
	if !strings.HasPrefix(k1, "search:") {
		t.Errorf("搜索键缺少前缀: %s", k1)
	}
	// md5 十六进制为 32 字符
	if len(k1) != len("search:")+32 {
		t.Errorf("键长度异常: %s", k1)
	}
}

func TestKeyBuilder_QueryNormalization(t *testing.T) {
	b := KeyBuilder{}

	tests := []struct {
		name string
		a, b string
		same bool
	}{
		{"大小写折叠", "Best Restaurant", "best restaurant", true},
		{"空白折叠", "  best \t restaurant  ", "best restaurant", true},
		{"不同文本", "best restaurant", "best museum", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ka := b.Build(core.SearchParams{Query: tt.a})
			kb := b.Build(core.SearchParams{Query: tt.b})
			if (ka == kb) != tt.same {
				t.Errorf("Build(%q) vs Build(%q): same=%v, want %v", tt.a, tt.b, ka == kb, tt.same)
			}
		})
	}
}

func TestKeyBuilder_CoordRounding(t *testing.T) {
	b := KeyBuilder{}

	base := core.SearchParams{
		Query:    "cafe",
		Location: core.Coordinates{Lat: 35.01161, Lng: 135.76809},
	}
	// 第 5 位小数的抖动折叠到同一个键
	jitter := base
	jitter.Location = core.Coordinates{Lat: 35.01159, Lng: 135.76811}
	if b.Build(base) != b.Build(jitter) {
		t.Error("近似坐标应折叠到同一个键")
	}

	// 第 4 位小数的差异是不同的键
	far := base
	far.Location = core.Coordinates{Lat: 35.0120, Lng: 135.7681}
	if b.Build(base) == b.Build(far) {
		t.Error("不同坐标不应共享键")
	}
}

func TestKeyBuilder_NegativeZero(t *testing.T) {
	b := KeyBuilder{}
	zero := b.Build(core.SearchParams{Location: core.Coordinates{Lat: 0, Lng: 0}})
	neg := b.Build(core.SearchParams{Location: core.Coordinates{Lat: -0.00001, Lng: -0.00001}})
	if zero != neg {
		t.Error("-0 应折叠为 0")
	}

	// 零点两侧的抖动折叠到同一个键
	negJitter := b.Build(core.SearchParams{Location: core.Coordinates{Lat: -0.00004, Lng: 0}})
	posJitter := b.Build(core.SearchParams{Location: core.Coordinates{Lat: 0.00004, Lng: 0}})
	if negJitter != posJitter || negJitter != zero {
		t.Error("±0.00004 应与 0 共享同一个键")
	}
}

func TestKeyBuilder_ParamsAffectKey(t *testing.T) {
	b := KeyBuilder{}
	base := core.SearchParams{Query: "cafe", Radius: 1000}

	radius := base
	radius.Radius = 2000
	if b.Build(base) == b.Build(radius) {
		t.Error("radius 改变结果集，应参与键")
	}

	typed := base
	typed.TypeFilter = "cafe"
	if b.Build(base) == b.Build(typed) {
		t.Error("type_filter 改变结果集，应参与键")
	}

	lang := base
	lang.Language = "ja"
	if b.Build(base) == b.Build(lang) {
		t.Error("language 改变结果内容，应参与键")
	}
}

func TestKeyBuilder_DetailKey(t *testing.T) {
	b := KeyBuilder{}
	if got := b.DetailKey("ChIJ123"); got != "details:ChIJ123" {
		t.Errorf("DetailKey() = %q", got)
	}
}
