package vector

import "fmt"

// LengthError 表示字节缓冲区长度不是元素大小的整数倍。
//
// Divisor 为要求的除数（实数为 W，复数为 2·W），Actual 为实际长度。
type LengthError struct {
	Divisor int
	Actual  int
}

func (e *LengthError) Error() string {
	return fmt.Sprintf("number of bytes must be divisible by %d, got %d", e.Divisor, e.Actual)
}

// checkLength 在解码前校验缓冲区长度，返回元素个数。
func checkLength(n, divisor int) (int, error) {
	if n%divisor != 0 {
		return 0, &LengthError{Divisor: divisor, Actual: n}
	}
	return n / divisor, nil
}
