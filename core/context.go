package core

import "github.com/rushteam/placekit/pkg/utils"

// QueryContext 承载用户/场景/查询信息，贯穿整个 Pipeline 透传。
type QueryContext struct {
	UserID   string
	City     string // 搜索目标城市（仅展示与导出用）
	Category string // 搜索类目桶（restaurants / hotels / attractions ...）

	// Profile 是强类型用户偏好画像，打分过程中只读。
	Profile *PreferenceProfile

	// Params 请求级上下文参数，例如 latitude / longitude / radius / query。
	Params map[string]any

	// Labels 是请求级标签，可驱动整个 Pipeline 行为。
	Labels map[string]utils.Label
}

// GetProfile 获取用户偏好画像；未设置时返回默认画像，避免节点逐一判空。
func (qctx *QueryContext) GetProfile() *PreferenceProfile {
	if qctx.Profile != nil {
		return qctx.Profile
	}
	return NewPreferenceProfile(qctx.UserID)
}

// PutLabel 写入请求级 Label。
func (qctx *QueryContext) PutLabel(key string, lbl utils.Label) {
	if qctx.Labels == nil {
		qctx.Labels = make(map[string]utils.Label)
	}
	if old, ok := qctx.Labels[key]; ok {
		qctx.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	qctx.Labels[key] = lbl
}

// GetLabel 获取请求级 Label。
func (qctx *QueryContext) GetLabel(key string) (utils.Label, bool) {
	if qctx.Labels == nil {
		return utils.Label{}, false
	}
	lbl, ok := qctx.Labels[key]
	return lbl, ok
}
