package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// ==================== 错误类型 ====================

// ErrValidation 参数校验失败
type ErrValidation struct {
	Message string
}

func (e *ErrValidation) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "参数校验失败"
}

// ErrDuplicateName 同店铺下模板名称重复
type ErrDuplicateName struct {
	Name string
}

func (e *ErrDuplicateName) Error() string {
	return fmt.Sprintf("模板名称已存在: %s", e.Name)
}

// ErrNotFound 资源不存在
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s不存在: %s", e.Resource, e.ID)
}

// ErrUnauthorized 未授权
type ErrUnauthorized struct {
	Message string
}

func (e *ErrUnauthorized) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "未授权"
}

// ErrSessionExpired 店铺授权已过期，需要重新安装授权
type ErrSessionExpired struct {
	Shop string
}

func (e *ErrSessionExpired) Error() string {
	return fmt.Sprintf("店铺授权已过期: %s", e.Shop)
}

// ErrShopNotInstalled 店铺未安装应用（没有任何授权记录）
type ErrShopNotInstalled struct {
	Shop string
}

func (e *ErrShopNotInstalled) Error() string {
	return fmt.Sprintf("店铺未安装应用: %s", e.Shop)
}

// ErrHasAssignments 模板仍有商品关联，禁止删除
type ErrHasAssignments struct {
	Count  int64    // 关联商品数
	Titles []string // 部分商品标题（最多 5 个）
}

func (e *ErrHasAssignments) Error() string {
	return fmt.Sprintf("模板已关联 %d 个商品，请先解除关联", e.Count)
}

// ErrPlanLimit 超出套餐限额
type ErrPlanLimit struct {
	Resource string
	Limit    int
}

func (e *ErrPlanLimit) Error() string {
	return fmt.Sprintf("已达到当前套餐的%s上限 (%d)，请升级套餐", e.Resource, e.Limit)
}

// ErrUpstream 平台 API 调用失败
type ErrUpstream struct {
	Operation  string
	StatusCode int
	Body       string
}

func (e *ErrUpstream) Error() string {
	return fmt.Sprintf("平台接口调用失败 [%s] 状态码 %d: %s", e.Operation, e.StatusCode, e.Body)
}

// ==================== HTTP 状态映射 ====================

// HTTPStatus 错误类型到 HTTP 状态码的统一映射
func HTTPStatus(err error) int {
	var (
		validation   *ErrValidation
		duplicate    *ErrDuplicateName
		notFound     *ErrNotFound
		unauthorized *ErrUnauthorized
		expired      *ErrSessionExpired
		notInstalled *ErrShopNotInstalled
		assignments  *ErrHasAssignments
		planLimit    *ErrPlanLimit
		upstream     *ErrUpstream
	)
	switch {
	case errors.As(err, &validation), errors.As(err, &duplicate):
		return http.StatusBadRequest
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &unauthorized), errors.As(err, &expired), errors.As(err, &notInstalled):
		return http.StatusUnauthorized
	case errors.As(err, &assignments):
		return http.StatusConflict
	case errors.As(err, &planLimit):
		return http.StatusForbidden
	case errors.As(err, &upstream):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
