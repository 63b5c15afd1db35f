// Licensed to the LF AI & Data foundation under one
// or more contributor license agreements. See the NOTICE file
// distributed with this work for additional information
// regarding copyright ownership. The ASF licenses this file
// to you under the Apache License, Version 2.0 (the
// "License"); you may not use this file except in compliance
// with the License. You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package typeutil

import (
	"sort"

	"golang.org/x/exp/constraints"
)

// Set 是基于 map[T]struct{} 的集合类型，非并发安全。
// 可以像创建 map 一样使用 make(Set[T]) 创建实例。
type Set[T comparable] map[T]struct{}

func NewSet[T comparable](elements ...T) Set[T] {
	set := make(Set[T])
	set.Insert(elements...)
	return set
}

// Insert 插入若干元素。
func (set Set[T]) Insert(elements ...T) {
	for i := range elements {
		set[elements[i]] = struct{}{}
	}
}

// Contain 当且仅当所有元素都在集合中时返回 true。
func (set Set[T]) Contain(elements ...T) bool {
	for i := range elements {
		if _, ok := set[elements[i]]; !ok {
			return false
		}
	}
	return true
}

// Remove 删除若干元素。
func (set Set[T]) Remove(elements ...T) {
	for i := range elements {
		delete(set, elements[i])
	}
}

// Collect 以切片形式返回全部元素，顺序不确定。
func (set Set[T]) Collect() []T {
	elements := make([]T, 0, len(set))
	for elem := range set {
		elements = append(elements, elem)
	}
	return elements
}

func (set Set[T]) Len() int {
	return len(set)
}

// Sorted 返回升序排列的全部元素，便于稳定输出。
func Sorted[T constraints.Ordered](set Set[T]) []T {
	elements := set.Collect()
	sort.Slice(elements, func(i, j int) bool { return elements[i] < elements[j] })
	return elements
}
