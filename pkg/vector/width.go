package vector

import (
	"fmt"
	"strings"
	"unsafe"

	"golang.org/x/exp/constraints"
)

// Float 约束实数元素类型：底层类型为 float32（单精度）或 float64（双精度）。
type Float = constraints.Float

// Width 表示单个实数占用的字节数，仅有 Single 与 Double 两种取值。
type Width int

const (
	Single Width = 4 // IEEE-754 binary32
	Double Width = 8 // IEEE-754 binary64
)

// Size 返回单个实数的字节数。
func (w Width) Size() int {
	return int(w)
}

// ElementSize 返回单个向量元素的字节数：实数为 W，复数为 2·W。
func (w Width) ElementSize(complex bool) int {
	if complex {
		return 2 * int(w)
	}
	return int(w)
}

// Valid 判断 w 是否为受支持的宽度。
func (w Width) Valid() bool {
	return w == Single || w == Double
}

func (w Width) String() string {
	switch w {
	case Single:
		return "f32"
	case Double:
		return "f64"
	default:
		return fmt.Sprintf("width(%d)", int(w))
	}
}

// ParseWidth 解析宽度名称，支持 f32/single/4 与 f64/double/8。
func ParseWidth(s string) (Width, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "f32", "float32", "single", "4":
		return Single, nil
	case "f64", "float64", "double", "8":
		return Double, nil
	default:
		return 0, fmt.Errorf("vector: unknown width %q", s)
	}
}

// WidthOf 返回类型参数 T 对应的宽度。
func WidthOf[T Float]() Width {
	var zero T
	return Width(unsafe.Sizeof(zero))
}
