package codec

import "github.com/lk2023060901/vecconv-go/pkg/vector"

// Shape 由两个互相独立的开关组成：是否为复数、是否为双精度。
type Shape struct {
	Complex bool
	Double  bool
}

// Width 返回该形态下单个实数的字节宽度。
func (s Shape) Width() vector.Width {
	if s.Double {
		return vector.Double
	}
	return vector.Single
}

// ElementSize 返回单个向量元素占用的字节数。
func (s Shape) ElementSize() int {
	return s.Width().ElementSize(s.Complex)
}

func (s Shape) String() string {
	kind := "real"
	if s.Complex {
		kind = "complex"
	}
	return kind + "-" + s.Width().String()
}
