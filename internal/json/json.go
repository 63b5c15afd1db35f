// Package json 封装向量文本层使用的 JSON 编解码实现。
//
// 默认引擎为 bytedance/sonic（标准库兼容配置），可通过 SetEngine 切换为 jsoniter 或 encoding/json。
package json

import (
	stdjson "encoding/json"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/bytedance/sonic"
	jsoniter "github.com/json-iterator/go"
)

// Engine 表示 JSON 编解码引擎名称。
type Engine string

const (
	EngineSonic    Engine = "sonic"
	EngineJSONIter Engine = "jsoniter"
	EngineStd      Engine = "std"
)

// API 是各引擎共同提供的最小编解码能力。
type API interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

type stdAPI struct{}

func (stdAPI) Marshal(v any) ([]byte, error)      { return stdjson.Marshal(v) }
func (stdAPI) Unmarshal(data []byte, v any) error { return stdjson.Unmarshal(data, v) }

type holder struct {
	api API
}

var current atomic.Pointer[holder]

func init() {
	current.Store(&holder{api: sonic.ConfigStd})
}

// ParseEngine 解析引擎名称，空字符串视为 sonic。
func ParseEngine(name string) (Engine, error) {
	switch e := Engine(strings.ToLower(strings.TrimSpace(name))); e {
	case "", EngineSonic:
		return EngineSonic, nil
	case EngineJSONIter, EngineStd:
		return e, nil
	default:
		return "", fmt.Errorf("json: unknown engine %q", name)
	}
}

// Get 返回指定引擎的实现。
func Get(e Engine) (API, error) {
	switch e {
	case "", EngineSonic:
		return sonic.ConfigStd, nil
	case EngineJSONIter:
		return jsoniter.ConfigCompatibleWithStandardLibrary, nil
	case EngineStd:
		return stdAPI{}, nil
	default:
		return nil, fmt.Errorf("json: unknown engine %q", e)
	}
}

// SetEngine 替换包级默认引擎。
func SetEngine(e Engine) error {
	api, err := Get(e)
	if err != nil {
		return err
	}
	current.Store(&holder{api: api})
	return nil
}

// Default 返回包级默认引擎。
func Default() API {
	return current.Load().api
}

// Marshal 使用默认引擎编码。
func Marshal(v any) ([]byte, error) {
	return Default().Marshal(v)
}

// Unmarshal 使用默认引擎解码。
func Unmarshal(data []byte, v any) error {
	return Default().Unmarshal(data, v)
}
