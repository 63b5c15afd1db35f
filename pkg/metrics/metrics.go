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

package metrics

import (
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	// vecconvNamespace 是当前项目所有 Prometheus 指标使用的命名空间。
	vecconvNamespace = "vecconv"

	// 以下为当前使用的通用标签名。
	directionLabelName = "direction"
	shapeLabelName     = "shape"
	codeLabelName      = "code"
)

var (
	// buckets 为转换耗时直方图的桶划分，单位为毫秒。
	// 实际桶分布为：
	// [0.125 0.25 0.5 1 2 4 8 16 32 64 128 256 512 1024 2048 4096]
	buckets = prometheus.ExponentialBuckets(0.125, 2, 16)

	metricRegisterer prometheus.Registerer
	registerMu       sync.Mutex
)

// GetRegisterer 返回全局 Prometheus Registerer。
// 如果尚未通过 Register 显式设置，则返回 prometheus.DefaultRegisterer。
func GetRegisterer() prometheus.Registerer {
	registerMu.Lock()
	defer registerMu.Unlock()
	if metricRegisterer == nil {
		return prometheus.DefaultRegisterer
	}
	return metricRegisterer
}

// Register 注册当前定义的所有指标。
// 同一个 Registerer 重复注册时忽略 AlreadyRegisteredError。
func Register(r prometheus.Registerer) {
	for _, c := range collectors() {
		if err := r.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if !errors.As(err, &are) {
				panic(err)
			}
		}
	}
	registerMu.Lock()
	metricRegisterer = r
	registerMu.Unlock()
}

// WriteTextfile 将 g 中的全部指标以 node_exporter textfile 格式写入 path。
// 写入通过临时文件加重命名完成，读者不会看到半截文件。
func WriteTextfile(path string, g prometheus.Gatherer) error {
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return errors.Wrapf(err, "write metrics textfile %s", path)
	}
	return nil
}
