package serializer

import (
	"bytes"
	"fmt"

	"github.com/lk2023060901/vecconv-go/pkg/vector"
)

// MarshalReal 将实数向量编码为数字数组。nil 向量编码为 []。
func MarshalReal[T vector.Float](s Serializer, values []T) ([]byte, error) {
	if values == nil {
		values = []T{}
	}
	return s.Marshal(values)
}

// MarshalComplex 将复数向量编码为 [[re, im], ...]。
func MarshalComplex[T vector.Float](s Serializer, values []vector.Complex[T]) ([]byte, error) {
	return s.Marshal(vector.Pairs(values))
}

// UnmarshalReal 将数字数组解码为实数向量，null 元素视为格式错误。
func UnmarshalReal[T vector.Float](s Serializer, data []byte) ([]T, error) {
	if err := checkArray(data); err != nil {
		return nil, err
	}
	// 引擎读到 null 时保持目标值不变，因此先解码为指针再逐个检查。
	var raw []*T
	if err := s.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	out := make([]T, len(raw))
	for i, v := range raw {
		if v == nil {
			return nil, fmt.Errorf("serializer: element %d is null, want number", i)
		}
		out[i] = *v
	}
	return out, nil
}

// UnmarshalComplex 将 [[re, im], ...] 解码为复数向量，每个元素必须恰好包含两个数字。
func UnmarshalComplex[T vector.Float](s Serializer, data []byte) ([]vector.Complex[T], error) {
	if err := checkArray(data); err != nil {
		return nil, err
	}
	var raw [][]*T
	if err := s.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	out := make([]vector.Complex[T], len(raw))
	for i, pair := range raw {
		if len(pair) != 2 {
			return nil, fmt.Errorf("serializer: complex element %d has %d components, want 2", i, len(pair))
		}
		if pair[0] == nil || pair[1] == nil {
			return nil, fmt.Errorf("serializer: complex element %d has a null component, want number", i)
		}
		out[i] = vector.NewComplex(*pair[0], *pair[1])
	}
	return out, nil
}

// checkArray 要求顶层值为数组，拒绝 null 等被引擎静默接受的输入。
func checkArray(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return fmt.Errorf("serializer: empty input, want JSON array")
	}
	if trimmed[0] != '[' {
		return fmt.Errorf("serializer: top-level JSON value must be an array")
	}
	return nil
}
