package serializer

import (
	"github.com/lk2023060901/vecconv-go/internal/json"
)

// JSONSerializer 使用 internal/json（默认基于 bytedance/sonic）实现 JSON 编解码。
type JSONSerializer struct {
	engine json.Engine
	api    json.API
}

// 编译期断言：确保 JSONSerializer 实现了 Serializer 接口。
var _ Serializer = (*JSONSerializer)(nil)

// NewJSONSerializer 创建绑定到指定引擎的 JSONSerializer，engine 为空时使用 sonic。
func NewJSONSerializer(engine json.Engine) (*JSONSerializer, error) {
	api, err := json.Get(engine)
	if err != nil {
		return nil, err
	}
	if engine == "" {
		engine = json.EngineSonic
	}
	return &JSONSerializer{engine: engine, api: api}, nil
}

func (s *JSONSerializer) Marshal(v any) ([]byte, error) {
	if s == nil || s.api == nil {
		return json.Marshal(v)
	}
	return s.api.Marshal(v)
}

func (s *JSONSerializer) Unmarshal(data []byte, v any) error {
	if s == nil || s.api == nil {
		return json.Unmarshal(data, v)
	}
	return s.api.Unmarshal(data, v)
}

func (s *JSONSerializer) Name() string {
	if s == nil || s.engine == "" {
		return "json:" + string(json.EngineSonic)
	}
	return "json:" + string(s.engine)
}
