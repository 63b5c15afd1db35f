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
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	codecMetricSubsystem = "codec"

	DirectionEncode = "encode"
	DirectionDecode = "decode"
)

var (
	CodecBytes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: vecconvNamespace,
			Subsystem: codecMetricSubsystem,
			Name:      "bytes_total",
			Help:      "binary side bytes produced by encode or consumed by decode",
		}, []string{directionLabelName, shapeLabelName})

	CodecElements = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: vecconvNamespace,
			Subsystem: codecMetricSubsystem,
			Name:      "elements_total",
			Help:      "number of vector elements converted",
		}, []string{directionLabelName, shapeLabelName})

	CodecFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: vecconvNamespace,
			Subsystem: codecMetricSubsystem,
			Name:      "failures_total",
			Help:      "number of failed conversions labelled by error code",
		}, []string{directionLabelName, shapeLabelName, codeLabelName})

	CodecLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: vecconvNamespace,
			Subsystem: codecMetricSubsystem,
			Name:      "duration_milliseconds",
			Help:      "wall time of a single conversion",
			Buckets:   buckets,
		}, []string{directionLabelName, shapeLabelName})
)

func collectors() []prometheus.Collector {
	return []prometheus.Collector{CodecBytes, CodecElements, CodecFailures, CodecLatency}
}

// ObserveSuccess 记录一次成功的转换。
func ObserveSuccess(direction, shape string, bytes, elements int, cost time.Duration) {
	CodecBytes.WithLabelValues(direction, shape).Add(float64(bytes))
	CodecElements.WithLabelValues(direction, shape).Add(float64(elements))
	CodecLatency.WithLabelValues(direction, shape).Observe(float64(cost.Microseconds()) / 1000)
}

// ObserveFailure 记录一次失败的转换，code 为 merr 错误码。
func ObserveFailure(direction, shape string, code int32) {
	CodecFailures.WithLabelValues(direction, shape, strconv.FormatInt(int64(code), 10)).Inc()
}
