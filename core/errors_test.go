package core

import (
	"errors"
	"fmt"
	"testing"
)

func TestDomainError_WrappedDetection(t *testing.T) {
	// 领域错误经过 %w 包装后仍可识别
	wrapped := fmt.Errorf("text search %q: %w", "best cafe", ErrQuotaExceeded)

	if !IsQuotaExceeded(wrapped) {
		t.Error("包装后的配额错误应可识别")
	}
	if IsUnavailable(wrapped) {
		t.Error("配额错误不是不可用错误")
	}

	domainErr := GetDomainError(wrapped)
	if domainErr == nil || domainErr.Module != ModuleSearch {
		t.Errorf("GetDomainError() = %+v", domainErr)
	}
}

func TestDomainError_Predicates(t *testing.T) {
	tests := []struct {
		name string
		err  error
		pred func(error) bool
		want bool
	}{
		{"not found", ErrStoreNotFound, IsNotFound, true},
		{"quota", ErrQuotaExceeded, IsQuotaExceeded, true},
		{"unavailable", ErrUpstreamUnavailable, IsUnavailable, true},
		{"普通错误不匹配", errors.New("boom"), IsQuotaExceeded, false},
		{"nil 不匹配", nil, IsNotFound, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.pred(tt.err); got != tt.want {
				t.Errorf("pred(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestJobState_Transitions(t *testing.T) {
	job := NewFetchJob("museum", SearchParams{Query: "q"})
	if job.State != JobPending {
		t.Errorf("初始状态 = %v, want pending", job.State)
	}
	if job.State.Terminal() {
		t.Error("pending 不是终态")
	}
	for _, s := range []JobState{JobDone, JobFailed, JobCached} {
		if !s.Terminal() {
			t.Errorf("%v 应为终态", s)
		}
	}
	if JobFetching.Terminal() {
		t.Error("fetching 不是终态")
	}
}
