package vector

// Complex 是由实部与虚部组成的有序对，两者宽度一致。
//
// 二进制布局为实部字节紧跟虚部字节；文本形式为 [re, im]。
type Complex[T Float] struct {
	Re T
	Im T
}

// NewComplex 使用实部与虚部构造一个 Complex。
func NewComplex[T Float](re, im T) Complex[T] {
	return Complex[T]{Re: re, Im: im}
}

// Pair 以二元数组形式返回 (Re, Im)。
func (c Complex[T]) Pair() [2]T {
	return [2]T{c.Re, c.Im}
}

// FromPair 将二元数组 [re, im] 转换为 Complex。
func FromPair[T Float](p [2]T) Complex[T] {
	return Complex[T]{Re: p[0], Im: p[1]}
}

// Complex64 将单精度复数转换为 Go 原生 complex64。
func Complex64(c Complex[float32]) complex64 {
	return complex(c.Re, c.Im)
}

// Complex128 将双精度复数转换为 Go 原生 complex128。
func Complex128(c Complex[float64]) complex128 {
	return complex(c.Re, c.Im)
}

// FromComplex64 将 Go 原生 complex64 转换为 Complex[float32]。
func FromComplex64(v complex64) Complex[float32] {
	return Complex[float32]{Re: real(v), Im: imag(v)}
}

// FromComplex128 将 Go 原生 complex128 转换为 Complex[float64]。
func FromComplex128(v complex128) Complex[float64] {
	return Complex[float64]{Re: real(v), Im: imag(v)}
}

// Pairs 将复数向量转换为 [re, im] 二元数组序列，便于文本层直接编码。
func Pairs[T Float](values []Complex[T]) [][2]T {
	out := make([][2]T, len(values))
	for i, v := range values {
		out[i] = v.Pair()
	}
	return out
}

// FromPairs 是 Pairs 的逆操作。
func FromPairs[T Float](pairs [][2]T) []Complex[T] {
	out := make([]Complex[T], len(pairs))
	for i, p := range pairs {
		out[i] = FromPair(p)
	}
	return out
}
