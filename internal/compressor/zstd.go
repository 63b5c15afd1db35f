package compressor

import (
	"fmt"

	"github.com/klauspost/compress/zstd"

	"github.com/lk2023060901/vecconv-go/pkg/util/hardware"
)

// ZstdCompressor 基于 github.com/klauspost/compress/zstd 的压缩实现。
//
// 它持有独立的 encoder/decoder 实例：
//   - 不使用全局单例，避免不同调用方之间的隐式耦合。
//   - 由调用方自行决定实例的生命周期，用完后调用 Close。
type ZstdCompressor struct {
	enc *zstd.Encoder
	dec *zstd.Decoder
}

// 编译期断言：确保 ZstdCompressor 实现了 Compressor 接口。
var _ Compressor = (*ZstdCompressor)(nil)

// NewZstdCompressor 创建一个 ZstdCompressor，默认并发度为主机 CPU 核心数。
func NewZstdCompressor() (*ZstdCompressor, error) {
	return NewZstdCompressorWithOptions(0, "")
}

// NewZstdCompressorWithOptions 创建一个 ZstdCompressor，并允许显式指定并发数与压缩级别。
//
// 参数说明：
//   - concurrency <= 0：使用主机 CPU 核心数（hardware.GetCPUNum()）。
//   - level 为空时使用 default，可选 fastest/default/better/best。
func NewZstdCompressorWithOptions(concurrency int, level string) (*ZstdCompressor, error) {
	if concurrency <= 0 {
		concurrency = hardware.GetCPUNum()
	}

	opts := []zstd.EOption{
		zstd.WithZeroFrames(true),
		zstd.WithEncoderConcurrency(concurrency),
	}
	if level != "" {
		ok, lvl := zstd.EncoderLevelFromString(level)
		if !ok {
			return nil, fmt.Errorf("compressor: unknown zstd level %q", level)
		}
		opts = append(opts, zstd.WithEncoderLevel(lvl))
	}

	enc, err := zstd.NewWriter(nil, opts...)
	if err != nil {
		return nil, err
	}
	dec, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(concurrency))
	if err != nil {
		enc.Close()
		return nil, err
	}
	return &ZstdCompressor{
		enc: enc,
		dec: dec,
	}, nil
}

// Compress 实现 Compressor 接口。
func (c *ZstdCompressor) Compress(dst, src []byte) ([]byte, error) {
	if c == nil || c.enc == nil {
		return nil, zstd.ErrEncoderClosed
	}
	return c.enc.EncodeAll(src, dst[:0]), nil
}

// Decompress 实现 Compressor 接口。
func (c *ZstdCompressor) Decompress(dst, src []byte) ([]byte, error) {
	if c == nil || c.dec == nil {
		return nil, zstd.ErrDecoderClosed
	}
	out, err := c.dec.DecodeAll(src, dst[:0])
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ZstdCompressor) Name() string {
	return string(KindZstd)
}

// Close 释放内部 encoder/decoder 持有的资源。
//
// 再次使用已关闭实例将返回 ErrEncoderClosed/ErrDecoderClosed。
func (c *ZstdCompressor) Close() {
	if c == nil {
		return
	}
	if c.enc != nil {
		_ = c.enc.Close()
		c.enc = nil
	}
	if c.dec != nil {
		c.dec.Close()
		c.dec = nil
	}
}
