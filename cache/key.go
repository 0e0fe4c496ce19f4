package cache

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/rushteam/placekit/core"
)

// 缓存键前缀：search 是类目搜索结果，details 是单地点明细。
const (
	searchKeyPrefix  = "search:"
	detailsKeyPrefix = "details:"
)

// KeyBuilder 把搜索参数归一化为稳定的缓存键。
//
// 归一化规则：
//   - query 小写、去首尾空白、内部空白折叠为单个空格
//   - 坐标四舍五入到固定精度（默认 4 位小数，约 11 米），
//     相邻的近似坐标折叠到同一个键
//   - radius 与 type_filter 原样参与（它们改变结果集）
//
// Build 是纯函数：逻辑相同的两组参数永远得到同一个键，
// 与可选参数的赋值顺序无关。
type KeyBuilder struct {
	// CoordPrecision 是坐标保留的小数位数，0 时取默认值 4。
	CoordPrecision int
}

// Build 生成类目搜索的缓存键。
func (b KeyBuilder) Build(params core.SearchParams) string {
	precision := b.CoordPrecision
	if precision <= 0 {
		precision = 4
	}

	// 排序后的 key-value 序列化保证参数顺序无关
	normalized := map[string]string{
		"query":    normalizeQuery(params.Query),
		"lat":      roundCoord(params.Location.Lat, precision),
		"lng":      roundCoord(params.Location.Lng, precision),
		"radius":   strconv.Itoa(params.Radius),
		"type":     params.TypeFilter,
		"language": params.Language,
	}
	data, _ := json.Marshal(normalized) // map 序列化按 key 排序

	sum := md5.Sum(data)
	return searchKeyPrefix + hex.EncodeToString(sum[:])
}

// DetailKey 生成单地点明细的缓存键。
func (b KeyBuilder) DetailKey(placeID string) string {
	return detailsKeyPrefix + placeID
}

func normalizeQuery(q string) string {
	return strings.Join(strings.Fields(strings.ToLower(q)), " ")
}

func roundCoord(v float64, precision int) string {
	factor := math.Pow10(precision)
	rounded := math.Round(v*factor) / factor
	if rounded == 0 {
		// math.Round 对负的微小值产出 -0，格式化成 "-0.0000"；
		// 零点两侧的抖动必须折叠到同一个键
		return strconv.FormatFloat(0, 'f', precision, 64)
	}
	return strconv.FormatFloat(rounded, 'f', precision, 64)
}
