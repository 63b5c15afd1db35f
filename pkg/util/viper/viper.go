package viper

import (
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	spfviper "github.com/spf13/viper"
)

// Config 封装 spf13/viper 实例，对外提供精简的 YAML/JSON 配置加载接口。
//
// 取值优先级：显式绑定的命令行参数 > 环境变量 > 配置文件 > 默认值。
type Config struct {
	v *spfviper.Viper
}

// New 创建一个空的 Config。
func New() *Config {
	return &Config{
		v: spfviper.New(),
	}
}

// NewWithEnv 创建一个 Config，并自动读取带 prefix 前缀的环境变量。
// 例如 prefix 为 VECCONV 时，codec.json_engine 对应 VECCONV_CODEC_JSON_ENGINE。
func NewWithEnv(prefix string) *Config {
	v := spfviper.New()
	v.SetEnvPrefix(prefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return &Config{v: v}
}

func (c *Config) viper() *spfviper.Viper {
	if c.v == nil {
		c.v = spfviper.New()
	}
	return c.v
}

// LoadFile 将 YAML 或 JSON 配置文件加载到 Config 中。
// 文件类型通过扩展名（.yaml/.yml/.json）推断。
func (c *Config) LoadFile(path string) error {
	v := c.viper()
	v.SetConfigFile(path)

	switch ext := filepath.Ext(path); ext {
	case ".yaml", ".yml":
		v.SetConfigType("yaml")
	case ".json":
		v.SetConfigType("json")
	default:
		// 让 viper 自行推断类型，或在读取时返回清晰的错误信息。
	}

	return v.ReadInConfig()
}

// SetDefault 为 key 设置默认值。
func (c *Config) SetDefault(key string, value interface{}) {
	c.viper().SetDefault(key, value)
}

// BindFlag 将命令行参数绑定到 key，仅在参数被显式设置时覆盖其它来源。
func (c *Config) BindFlag(key string, flag *pflag.Flag) error {
	if flag == nil {
		return nil
	}
	return c.viper().BindPFlag(key, flag)
}

// IsSet 判断 key 是否在任一来源中被设置。
func (c *Config) IsSet(key string) bool {
	return c.viper().IsSet(key)
}

func (c *Config) GetString(key string) string {
	return c.viper().GetString(key)
}

func (c *Config) GetInt(key string) int {
	return c.viper().GetInt(key)
}

func (c *Config) GetBool(key string) bool {
	return c.viper().GetBool(key)
}

// Unmarshal 将完整配置反序列化到 dst。
// dst 应为结构体或 map 的指针。
func (c *Config) Unmarshal(dst interface{}) error {
	if c.v == nil {
		return nil
	}
	return c.v.Unmarshal(dst)
}

// UnmarshalKey 将指定 key 对应的子配置反序列化到 dst。
// dst 应为结构体或 map 的指针。
func (c *Config) UnmarshalKey(key string, dst interface{}) error {
	if c.v == nil {
		return nil
	}
	return c.v.UnmarshalKey(key, dst)
}
