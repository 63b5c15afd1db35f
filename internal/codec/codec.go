package codec

import (
	"context"
	"io"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/lk2023060901/vecconv-go/internal/compressor"
	"github.com/lk2023060901/vecconv-go/internal/serializer"
	"github.com/lk2023060901/vecconv-go/pkg/log"
	"github.com/lk2023060901/vecconv-go/pkg/metrics"
	"github.com/lk2023060901/vecconv-go/pkg/util/merr"
	"github.com/lk2023060901/vecconv-go/pkg/vector"
)

// Converter 抽象了“文本向量与二进制向量互转”的完整流程。
//
// Pipeline（Encode）：
//
//	reader --> serializer.Unmarshal --> vector.Encode* --> [compress?] --> writer
//
// Pipeline（Decode）：
//
//	reader --> [decompress?] --> vector.Decode* --> serializer.Marshal --> writer
//
// 一次调用处理一个完整向量，输入读到 EOF 为止；出错时不向 writer 写入任何内容。
type Converter interface {
	log.WithLogger
	log.LoggerBinder

	// Encode 读取 JSON 文本，写出小端二进制。
	Encode(ctx context.Context, r io.Reader, w io.Writer) error

	// Decode 读取小端二进制，写出单行 JSON 文本（以换行结尾）。
	Decode(ctx context.Context, r io.Reader, w io.Writer) error

	// EncodeBytes 与 Encode 相同，但直接在内存缓冲区上操作。
	EncodeBytes(ctx context.Context, text []byte) ([]byte, error)

	// DecodeBytes 与 Decode 相同，但直接在内存缓冲区上操作，返回值不含结尾换行。
	DecodeBytes(ctx context.Context, data []byte) ([]byte, error)

	Shape() Shape
}

// Options 用于构造 Converter 的依赖注入参数。
type Options struct {
	Shape      Shape
	Serializer serializer.Serializer
	Compressor compressor.Compressor // 允许为 nil（内部会用 NopCompressor）
}

type converter struct {
	log.Binder

	shape      Shape
	serializer serializer.Serializer
	compressor compressor.Compressor
}

var _ Converter = (*converter)(nil)

// New 创建一个基于给定依赖的 Converter。
func New(opts Options) (Converter, error) {
	if opts.Serializer == nil {
		return nil, merr.WrapErrParameterMissing("serializer")
	}

	c := &converter{
		shape:      opts.Shape,
		serializer: opts.Serializer,
	}
	if opts.Compressor != nil {
		c.compressor = opts.Compressor
	} else {
		c.compressor = compressor.NopCompressor{}
	}
	return c, nil
}

func (c *converter) Shape() Shape {
	return c.shape
}

// Encode 实现 Converter.Encode。
func (c *converter) Encode(ctx context.Context, r io.Reader, w io.Writer) error {
	if r == nil || w == nil {
		return merr.WrapErrParameterMissing("reader/writer")
	}
	text, err := io.ReadAll(r)
	if err != nil {
		return c.fail(ctx, metrics.DirectionEncode, merr.WrapErrIoFailed("input", err))
	}
	out, err := c.EncodeBytes(ctx, text)
	if err != nil {
		return err
	}
	if _, err := w.Write(out); err != nil {
		return c.fail(ctx, metrics.DirectionEncode, merr.WrapErrIoFailed("output", err))
	}
	return nil
}

// Decode 实现 Converter.Decode。
func (c *converter) Decode(ctx context.Context, r io.Reader, w io.Writer) error {
	if r == nil || w == nil {
		return merr.WrapErrParameterMissing("reader/writer")
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return c.fail(ctx, metrics.DirectionDecode, merr.WrapErrIoFailed("input", err))
	}
	out, err := c.DecodeBytes(ctx, data)
	if err != nil {
		return err
	}
	out = append(out, '\n')
	if _, err := w.Write(out); err != nil {
		return c.fail(ctx, metrics.DirectionDecode, merr.WrapErrIoFailed("output", err))
	}
	return nil
}

// EncodeBytes 实现 Converter.EncodeBytes。
func (c *converter) EncodeBytes(ctx context.Context, text []byte) ([]byte, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()

	// 第一步：文本解析并按形态编码为原始二进制。
	var (
		raw []byte
		n   int
		err error
	)
	switch c.shape {
	case Shape{Complex: false, Double: false}:
		raw, n, err = encodeReal[float32](c.serializer, text)
	case Shape{Complex: false, Double: true}:
		raw, n, err = encodeReal[float64](c.serializer, text)
	case Shape{Complex: true, Double: false}:
		raw, n, err = encodeComplex[float32](c.serializer, text)
	default:
		raw, n, err = encodeComplex[float64](c.serializer, text)
	}
	if err != nil {
		return nil, c.fail(ctx, metrics.DirectionEncode, err)
	}

	// 第二步：可选压缩。
	out, err := c.compressor.Compress(nil, raw)
	if err != nil {
		return nil, c.fail(ctx, metrics.DirectionEncode, merr.WrapErrCompression(c.compressor.Name(), err))
	}

	c.done(ctx, metrics.DirectionEncode, len(raw), n, start)
	return out, nil
}

// DecodeBytes 实现 Converter.DecodeBytes。
func (c *converter) DecodeBytes(ctx context.Context, data []byte) ([]byte, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()

	// 第一阶段：可选解压。
	// 解压失败说明输入不是合法的压缩数据。
	raw, err := c.compressor.Decompress(nil, data)
	if err != nil {
		return nil, c.fail(ctx, metrics.DirectionDecode,
			merr.WrapErrAsInputError(merr.WrapErrCompression(c.compressor.Name(), err)))
	}

	// 第二阶段：按形态解码并渲染为文本。
	var (
		text []byte
		n    int
	)
	switch c.shape {
	case Shape{Complex: false, Double: false}:
		text, n, err = decodeReal[float32](c.serializer, raw)
	case Shape{Complex: false, Double: true}:
		text, n, err = decodeReal[float64](c.serializer, raw)
	case Shape{Complex: true, Double: false}:
		text, n, err = decodeComplex[float32](c.serializer, raw)
	default:
		text, n, err = decodeComplex[float64](c.serializer, raw)
	}
	if err != nil {
		return nil, c.fail(ctx, metrics.DirectionDecode, err)
	}

	c.done(ctx, metrics.DirectionDecode, len(raw), n, start)
	return text, nil
}

// logger 与 EncodeBytes/DecodeBytes 一样把 nil ctx 当作 context.Background()。
func (c *converter) logger(ctx context.Context) *log.MLogger {
	if ctx != nil {
		if l, ok := ctx.Value(log.CtxLogKey).(*log.MLogger); ok {
			return l
		}
	}
	return c.Logger()
}

func (c *converter) done(ctx context.Context, direction string, bytes, elements int, start time.Time) {
	cost := time.Since(start)
	metrics.ObserveSuccess(direction, c.shape.String(), bytes, elements, cost)
	c.logger(ctx).WithDirection(direction).Debug("vector converted",
		zap.String(log.FieldNameShape, c.shape.String()),
		log.FieldBytes(bytes),
		zap.Int("elements", elements),
		zap.Duration("cost", cost))
}

func (c *converter) fail(ctx context.Context, direction string, err error) error {
	metrics.ObserveFailure(direction, c.shape.String(), merr.Code(err))
	c.logger(ctx).WithDirection(direction).Warn("vector conversion failed",
		zap.String(log.FieldNameShape, c.shape.String()),
		zap.String("error_type", merr.GetErrorType(err).String()),
		zap.Error(err))
	return err
}

func encodeReal[T vector.Float](s serializer.Serializer, text []byte) ([]byte, int, error) {
	values, err := serializer.UnmarshalReal[T](s, text)
	if err != nil {
		return nil, 0, merr.WrapErrTextFormat(err, "parse real vector")
	}
	return vector.EncodeReal(values), len(values), nil
}

func encodeComplex[T vector.Float](s serializer.Serializer, text []byte) ([]byte, int, error) {
	values, err := serializer.UnmarshalComplex[T](s, text)
	if err != nil {
		return nil, 0, merr.WrapErrTextFormat(err, "parse complex vector")
	}
	return vector.EncodeComplex(values), len(values), nil
}

func decodeReal[T vector.Float](s serializer.Serializer, raw []byte) ([]byte, int, error) {
	values, err := vector.DecodeReal[T](raw)
	if err != nil {
		return nil, 0, wrapLength(err)
	}
	text, err := serializer.MarshalReal(s, values)
	if err != nil {
		return nil, 0, merr.WrapErrTextFormat(err, "render real vector")
	}
	return text, len(values), nil
}

func decodeComplex[T vector.Float](s serializer.Serializer, raw []byte) ([]byte, int, error) {
	values, err := vector.DecodeComplex[T](raw)
	if err != nil {
		return nil, 0, wrapLength(err)
	}
	text, err := serializer.MarshalComplex(s, values)
	if err != nil {
		return nil, 0, merr.WrapErrTextFormat(err, "render complex vector")
	}
	return text, len(values), nil
}

func wrapLength(err error) error {
	var lengthErr *vector.LengthError
	if errors.As(err, &lengthErr) {
		return merr.WrapErrInvalidLength(lengthErr.Divisor, lengthErr.Actual, err)
	}
	return err
}
