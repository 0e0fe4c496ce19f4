package core

import "errors"

// DomainError 是领域层的统一错误类型。
//
// 设计原则：
//   - 所有领域层错误都使用此类型
//   - 提供错误代码（Code）和消息（Message）
//   - 支持错误检查函数（IsXXX）
//
// 使用场景：
//   - Store 错误：NOT_FOUND, NOT_SUPPORTED
//   - Cache 错误：CORRUPTED（损坏条目按未命中处理，绝不向调用方抛出）
//   - Search 错误：QUOTA_EXCEEDED, UNAVAILABLE
type DomainError struct {
	Code    string // 错误代码（如 "NOT_FOUND", "QUOTA_EXCEEDED"）
	Message string // 错误消息
	Module  string // 模块名称（如 "store", "fetch"）
}

func (e *DomainError) Error() string {
	return e.Message
}

// IsDomainError 检查错误（或其包装链）是否为 DomainError 类型
func IsDomainError(err error) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr)
}

// GetDomainError 从错误链中提取 DomainError，如果不存在则返回 nil
func GetDomainError(err error) *DomainError {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return nil
}

// NewDomainError 创建新的领域错误
func NewDomainError(module, code, message string) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: message,
	}
}

// 错误代码常量
const (
	// 通用错误代码
	ErrorCodeNotFound      = "NOT_FOUND"      // 资源不存在
	ErrorCodeNotSupported  = "NOT_SUPPORTED"  // 操作不支持
	ErrorCodeUnavailable   = "UNAVAILABLE"    // 上游暂时不可用（可在有限次数内重试）
	ErrorCodeQuotaExceeded = "QUOTA_EXCEEDED" // 上游配额耗尽（本轮编排内不可重试）
	ErrorCodeCorrupted     = "CORRUPTED"      // 缓存条目损坏（静默降级为未命中）
	ErrorCodeInvalidInput  = "INVALID_INPUT"  // 输入无效
	ErrorCodeInternalError = "INTERNAL_ERROR" // 内部错误
)

// 模块名称常量
const (
	ModuleStore   = "store"   // 存储模块
	ModuleCache   = "cache"   // 结果缓存模块
	ModuleFetch   = "fetch"   // 批量抓取编排模块
	ModuleSearch  = "search"  // 外部搜索 API 模块
	ModuleProfile = "profile" // 用户偏好画像模块
)

// 通用错误检查函数

// IsNotFound 检查错误是否为 NOT_FOUND
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeNotFound
	}
	return false
}

// IsQuotaExceeded 检查错误是否为配额耗尽。
// 配额耗尽不在本次编排内重试，调用方应在更长的时间维度上退避。
func IsQuotaExceeded(err error) bool {
	if err == nil {
		return false
	}
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeQuotaExceeded
	}
	return false
}

// IsUnavailable 检查错误是否为上游暂时不可用（瞬时故障，可有限重试）。
func IsUnavailable(err error) bool {
	if err == nil {
		return false
	}
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeUnavailable
	}
	return false
}

// IsCorrupted 检查错误是否为缓存损坏。
func IsCorrupted(err error) bool {
	if err == nil {
		return false
	}
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeCorrupted
	}
	return false
}
