package compressor

import (
	"fmt"
	"strings"
)

// Compressor 抽象了“单次压缩/解压”能力。
//
// 设计目标：
//   - 面向二进制向量整块压缩：输入输出均为完整缓冲区，不做流式处理。
//   - 不做全局单例，调用方按需创建具体实现的实例。
type Compressor interface {
	// Compress 将 src 压缩到 dst。
	//
	// dst 一般可以传入一个可复用的缓冲区（长度可为 0），实现可选择复用其底层容量；
	// 返回值 packet 为压缩后的完整数据。
	Compress(dst, src []byte) (packet []byte, err error)

	// Decompress 将压缩数据 src 解压到 dst。
	//
	// 行为约定与 Compress 对称：src 必须是 Compress 的输出。
	Decompress(dst, src []byte) (plain []byte, err error)

	// Name 返回压缩算法名称。
	Name() string
}

// Kind 表示压缩算法。
type Kind string

const (
	KindNone Kind = "none"
	KindZstd Kind = "zstd"
)

// ParseKind 解析压缩算法名称，空字符串视为 none。
func ParseKind(name string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(name))); k {
	case "", KindNone:
		return KindNone, nil
	case KindZstd:
		return KindZstd, nil
	default:
		return "", fmt.Errorf("compressor: unknown compression %q", name)
	}
}

// Options 为 New 的构造参数。
type Options struct {
	Kind        Kind
	Concurrency int    // 仅 zstd 使用，<= 0 表示使用 CPU 核数
	Level       string // 仅 zstd 使用，为空表示 default
}

// New 根据 Options 创建 Compressor。
func New(opts Options) (Compressor, error) {
	switch opts.Kind {
	case "", KindNone:
		return NopCompressor{}, nil
	case KindZstd:
		return NewZstdCompressorWithOptions(opts.Concurrency, opts.Level)
	default:
		return nil, fmt.Errorf("compressor: unknown compression %q", opts.Kind)
	}
}

// Close 在 c 持有资源时将其释放。
func Close(c Compressor) {
	if closer, ok := c.(interface{ Close() }); ok {
		closer.Close()
	}
}

// NopCompressor 是一个空实现：不做任何压缩/解压，直接返回输入内容。
//
// 适用于：
//   - 默认值（未开启压缩功能时）
//   - 便于在调用侧通过接口注入，在不改业务逻辑的前提下关闭压缩
type NopCompressor struct{}

func (NopCompressor) Compress(_ []byte, src []byte) ([]byte, error) {
	return src, nil
}

func (NopCompressor) Decompress(_ []byte, src []byte) ([]byte, error) {
	return src, nil
}

func (NopCompressor) Name() string {
	return string(KindNone)
}

// 编译期断言：确保 NopCompressor 实现了 Compressor 接口。
var _ Compressor = NopCompressor{}
