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

package merr

import (
	"context"
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
)

// Code 返回给定错误对应的错误码。
func Code(err error) int32 {
	if err == nil {
		return 0
	}

	var specificErr convError
	if errors.As(err, &specificErr) {
		return specificErr.code()
	}
	if errors.Is(err, context.Canceled) {
		return CanceledCode
	} else if errors.Is(err, context.DeadlineExceeded) {
		return TimeoutCode
	}
	return errUnexpected.code()
}

func IsCanceledOrTimeout(err error) bool {
	return errors.IsAny(err, context.Canceled, context.DeadlineExceeded)
}

// WrapErrAsInputError 将错误标记为输入错误，保留错误码与底层原因。
// 非 merr 错误原样返回。
func WrapErrAsInputError(err error) error {
	switch e := err.(type) {
	case convError:
		e.errType = InputError
		return e
	case causeError:
		e.errType = InputError
		return e
	default:
		return err
	}
}

func GetErrorType(err error) ErrorType {
	var specificErr convError
	if errors.As(err, &specificErr) {
		return specificErr.errType
	}
	return SystemError
}

// IO related
func WrapErrIoFailed(key string, err error) error {
	if err == nil {
		return nil
	}
	return wrapCause(ErrIoFailed, err, value("key", key))
}

// Parameter related
func WrapErrParameterInvalid[T any](expected, actual T, msg ...string) error {
	err := wrapFields(ErrParameterInvalid,
		value("expected", expected),
		value("actual", actual),
	)
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

func WrapErrParameterInvalidMsg(fmt string, args ...any) error {
	return errors.Wrapf(ErrParameterInvalid, fmt, args...)
}

func WrapErrParameterMissing[T any](param T, msg ...string) error {
	err := wrapFields(ErrParameterMissing,
		value("missing_param", param),
	)
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

// Payload related

// WrapErrInvalidLength 包装二进制长度校验失败，cause 仍可通过 errors.As 取回。
func WrapErrInvalidLength(divisor, actual int, cause error) error {
	if cause == nil {
		return wrapFields(ErrInvalidLength, value("divisor", divisor), value("actual", actual))
	}
	return wrapCause(ErrInvalidLength, cause, value("divisor", divisor), value("actual", actual))
}

func WrapErrTextFormat(cause error, msg ...string) error {
	if cause == nil {
		return nil
	}
	err := wrapCause(ErrTextFormat, cause)
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

func WrapErrCompression(algorithm string, cause error) error {
	if cause == nil {
		return nil
	}
	return wrapCause(ErrCompression, cause, value("algorithm", algorithm))
}

// General
func WrapErrOperationNotSupported(operation string, msg ...string) error {
	err := wrapFields(ErrOperationNotSupported, value("operation", operation))
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

func wrapFields(err convError, fields ...errorField) error {
	for i := range fields {
		err.msg += fmt.Sprintf("[%s]", fields[i].String())
	}
	return err
}

// causeError 在 convError 的基础上保留底层错误，便于调用方通过 errors.As 取回原始类型。
type causeError struct {
	convError
	cause error
}

func wrapCause(err convError, cause error, fields ...errorField) error {
	for i := range fields {
		err.msg += fmt.Sprintf("[%s]", fields[i].String())
	}
	err.msg += ": " + cause.Error()
	return causeError{convError: err, cause: cause}
}

func (e causeError) Unwrap() error {
	return e.cause
}

func (e causeError) As(target any) bool {
	if t, ok := target.(*convError); ok {
		*t = e.convError
		return true
	}
	return false
}

type errorField interface {
	String() string
}

type valueField struct {
	name  string
	value any
}

func value(name string, value any) valueField {
	return valueField{
		name,
		value,
	}
}

func (f valueField) String() string {
	return fmt.Sprintf("%s=%v", f.name, f.value)
}
