// Package vector 实现数值向量与紧凑小端二进制之间的互相转换。
//
// 支持四种元素形态：real-f32、real-f64、complex-f32、complex-f64。
// 二进制格式没有头部、长度字段或填充，元素个数由缓冲区长度推导：
//
//	real:    | x0 (W) | x1 (W) | ... |
//	complex: | re0 (W) | im0 (W) | re1 (W) | im1 (W) | ... |
//
// 所有函数均为无状态纯函数，只读取输入并返回新分配的结果，可在多个 goroutine 中并发调用。
// 解码是按位重解释，NaN 载荷、±0、±Inf 的比特模式均原样保留。
package vector

import (
	"encoding/binary"
	"math"
)

// DecodeReal 将小端字节序列解码为实数向量，宽度由 T 决定（float32 为 4，float64 为 8）。
//
// 当 len(b) 不是宽度的整数倍时返回 *LengthError，且不产生任何部分结果。
func DecodeReal[T Float](b []byte) ([]T, error) {
	w := WidthOf[T]()
	n, err := checkLength(len(b), w.ElementSize(false))
	if err != nil {
		return nil, err
	}

	out := make([]T, n)
	size := w.Size()
	for i := range out {
		out[i] = getFloat[T](b[i*size:], w)
	}
	return out, nil
}

// DecodeComplex 将小端字节序列解码为复数向量。
// 每个元素占 2·W 字节，前 W 字节为实部，后 W 字节为虚部。
func DecodeComplex[T Float](b []byte) ([]Complex[T], error) {
	w := WidthOf[T]()
	n, err := checkLength(len(b), w.ElementSize(true))
	if err != nil {
		return nil, err
	}

	out := make([]Complex[T], n)
	size := w.Size()
	for i := range out {
		off := 2 * size * i
		out[i] = Complex[T]{
			Re: getFloat[T](b[off:], w),
			Im: getFloat[T](b[off+size:], w),
		}
	}
	return out, nil
}

// EncodeReal 将实数向量编码为小端字节序列，输出长度为 len(values)·W。
func EncodeReal[T Float](values []T) []byte {
	w := WidthOf[T]()
	size := w.Size()

	out := make([]byte, len(values)*size)
	for i, v := range values {
		putFloat(out[i*size:], v, w)
	}
	return out
}

// EncodeComplex 将复数向量编码为小端字节序列，输出长度为 len(values)·2·W。
func EncodeComplex[T Float](values []Complex[T]) []byte {
	w := WidthOf[T]()
	size := w.Size()

	out := make([]byte, len(values)*2*size)
	for i, v := range values {
		off := 2 * size * i
		putFloat(out[off:], v.Re, w)
		putFloat(out[off+size:], v.Im, w)
	}
	return out
}

func getFloat[T Float](b []byte, w Width) T {
	if w == Single {
		return T(math.Float32frombits(binary.LittleEndian.Uint32(b)))
	}
	return T(math.Float64frombits(binary.LittleEndian.Uint64(b)))
}

func putFloat[T Float](b []byte, v T, w Width) {
	if w == Single {
		binary.LittleEndian.PutUint32(b, math.Float32bits(float32(v)))
		return
	}
	binary.LittleEndian.PutUint64(b, math.Float64bits(float64(v)))
}
