package product

import (
	"fmt"

	apperrors "github.com/xiebiao/storefront/pkg/errors"
)

// 商品搜索错误定义
var (
	// ErrNetwork 网络层失败(连接失败、超时、熔断打开)
	ErrNetwork = apperrors.New(apperrors.ErrCodeNetworkError, "商品搜索服务网络异常")

	// ErrRequestFailed 搜索服务返回非2xx
	ErrRequestFailed = apperrors.New(apperrors.ErrCodeRequestFailed, "商品搜索请求失败")

	// ErrMalformedResponse 响应体不是合法JSON
	ErrMalformedResponse = apperrors.New(apperrors.ErrCodeMalformedResponse, "商品搜索响应格式错误")
)

// RequestFailedError 携带HTTP状态码
type RequestFailedError struct {
	StatusCode int
}

func (e *RequestFailedError) Error() string {
	return fmt.Sprintf("API request failed with status %d", e.StatusCode)
}

// NewNetworkError 包装网络错误
func NewNetworkError(err error) error {
	return apperrors.WithCode(apperrors.ErrCodeNetworkError, ErrNetwork.Message, err)
}

// NewRequestFailed 包装非2xx响应
// errors.As(err, &*RequestFailedError) 可取回状态码
func NewRequestFailed(status int) error {
	return apperrors.WithCode(apperrors.ErrCodeRequestFailed, ErrRequestFailed.Message, &RequestFailedError{StatusCode: status})
}

// NewMalformedResponse 包装解析错误
func NewMalformedResponse(err error) error {
	return apperrors.WithCode(apperrors.ErrCodeMalformedResponse, ErrMalformedResponse.Message, err)
}
