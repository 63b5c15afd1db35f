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

package log

import (
	"go.uber.org/atomic"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// MLogger 是 zap.Logger 的封装类型，With 系列方法返回的子 Logger 会延迟编码字段。
type MLogger struct {
	*zap.Logger
}

// With 封装 zap.Logger 的 With 方法，并返回新的 MLogger 实例。
// 新实例携带额外的字段，不影响原 Logger。
func (l *MLogger) With(fields ...zap.Field) *MLogger {
	nl := &MLogger{
		Logger: l.Logger.WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
			return NewLazyWith(core, fields)
		})),
	}
	return nl
}

// WithDirection 返回携带转换方向字段的子 Logger。
func (l *MLogger) WithDirection(direction string) *MLogger {
	return l.With(zap.String(FieldNameDirection, direction))
}

// Binder 嵌入到组件中，为组件保存一个可替换的 Logger。
// 未绑定时 Logger 返回基于全局 Logger 的 MLogger。
type Binder struct {
	logger atomic.Pointer[MLogger]
}

// WithLogger 由持有 Logger 的组件实现。
type WithLogger interface {
	Logger() *MLogger
}

// LoggerBinder 由可以替换 Logger 的组件实现。
type LoggerBinder interface {
	SetLogger(logger *MLogger)
}

var (
	_ WithLogger   = (*Binder)(nil)
	_ LoggerBinder = (*Binder)(nil)
)

func (b *Binder) SetLogger(logger *MLogger) {
	b.logger.Store(logger)
}

func (b *Binder) Logger() *MLogger {
	if l := b.logger.Load(); l != nil {
		return l
	}
	return With()
}
