package log

import "go.uber.org/zap"

const (
	FieldNameModule    = "module"
	FieldNameComponent = "component"
	FieldNameShape     = "shape"
	FieldNameDirection = "direction"
	FieldNameBytes     = "bytes"
)

// FieldModule 返回一个包含模块名的 zap 字段。
func FieldModule(module string) zap.Field {
	return zap.String(FieldNameModule, module)
}

// FieldComponent 返回一个包含组件名的 zap 字段。
func FieldComponent(component string) zap.Field {
	return zap.String(FieldNameComponent, component)
}

// FieldBytes 返回一个记录字节数的 zap 字段。
func FieldBytes(n int) zap.Field {
	return zap.Int(FieldNameBytes, n)
}
