package pricing

import (
	"errors"
	"fmt"
)

// ErrInvalidOptionKind 表示期权类型不在 call/put 之内。
// 该错误对单个合约的计算是不可恢复的，必须中止而非静默取默认值。
var ErrInvalidOptionKind = errors.New("invalid option kind")

// Kind 是期权类型的封闭枚举，只接受 Call/Put 两个取值。
// 外部输入（配置文件）经 ParseKind 校验后才会进入核心路径。
type Kind string

const (
	Call Kind = "call"
	Put  Kind = "put"
)

// ParseKind 解析并校验配置中的期权类型字符串。
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case Call, Put:
		return Kind(s), nil
	default:
		return "", fmt.Errorf("%w: %q, expecting 'call' or 'put'", ErrInvalidOptionKind, s)
	}
}

// Valid 报告 Kind 是否为合法取值，用于防御非 ParseKind 路径构造的值。
func (k Kind) Valid() bool {
	return k == Call || k == Put
}
