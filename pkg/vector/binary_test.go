package vector

import (
	"encoding/hex"
	"math"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/suite"
	"golang.org/x/sync/errgroup"
)

const (
	realF32Hex    = "145ade3d26f2d33e2e792c3e0589123f3e6e713f"
	realF64Hex    = "f230270bf04edd3f33d707e8c0bbea3feee00aa9a996e43f56b72894eb24e03fb458db566736de3f"
	complexF32Hex = "4d7d0b3f85c10d3ddbcd2e3e34eef73ec9c4063e59363d3faa137c3fd018583f75b0103fcb3c773f"
	complexF64Hex = "d039b932a5ace13f108f8e834e5db63faa6ebd58d6fdd93f4ec90d147884da3f584dc0dc90ddd23f889ad49ec18ed63fed0be97046f9e83f175adf5067d1ea3f8084d20064607d3f24a5fe9929a1cc3f"
)

var (
	realF32Values = []float32{0.10857025, 0.41395682, 0.16843101, 0.57240325, 0.9430884}
	realF64Values = []float64{
		0.4579429730336094,
		0.8354191333625977,
		0.643391447220919,
		0.5045068639499088,
		0.4720705364428668,
	}
	complexF32Values = []Complex[float32]{
		{0.5448807, 0.03460838},
		{0.17070715, 0.48423922},
		{0.13161005, 0.7391105},
		{0.98467505, 0.8441286},
		{0.5651925, 0.9657714},
	}
	complexF64Values = []Complex[float64]{
		{0.5523248663610563, 0.0873612471755758},
		{0.4061179987527149, 0.4143352695310981},
		{0.2947733073971981, 0.3524631548956809},
		{0.780429096725468, 0.8380619601765059},
		{0.0071720034003714, 0.2236682893683702},
	}
)

type BinarySuite struct {
	suite.Suite
}

func (s *BinarySuite) mustHex(str string) []byte {
	b, err := hex.DecodeString(str)
	s.Require().NoError(err)
	return b
}

func tolerance[T Float]() float64 {
	if WidthOf[T]() == Single {
		return 10 * float64(math.Nextafter32(1, 2)-1)
	}
	return 10 * (math.Nextafter(1, 2) - 1)
}

func (s *BinarySuite) TestRealF32() {
	b := s.mustHex(realF32Hex)

	decoded, err := DecodeReal[float32](b)
	s.Require().NoError(err)
	s.Require().Len(decoded, len(realF32Values))
	for i := range decoded {
		s.InDelta(float64(realF32Values[i]), float64(decoded[i]), tolerance[float32]())
	}
	s.Equal(b, EncodeReal(decoded))
}

func (s *BinarySuite) TestRealF64() {
	b := s.mustHex(realF64Hex)

	decoded, err := DecodeReal[float64](b)
	s.Require().NoError(err)
	s.Require().Len(decoded, len(realF64Values))
	for i := range decoded {
		s.InDelta(realF64Values[i], decoded[i], tolerance[float64]())
	}
	s.Equal(b, EncodeReal(decoded))
}

func (s *BinarySuite) TestComplexF32() {
	b := s.mustHex(complexF32Hex)

	decoded, err := DecodeComplex[float32](b)
	s.Require().NoError(err)
	s.Require().Len(decoded, len(complexF32Values))
	for i := range decoded {
		s.InDelta(float64(complexF32Values[i].Re), float64(decoded[i].Re), tolerance[float32]())
		s.InDelta(float64(complexF32Values[i].Im), float64(decoded[i].Im), tolerance[float32]())
	}
	s.Equal(b, EncodeComplex(decoded))
}

func (s *BinarySuite) TestComplexF64() {
	b := s.mustHex(complexF64Hex)
	s.Len(b, 80)

	decoded, err := DecodeComplex[float64](b)
	s.Require().NoError(err)
	s.Require().Len(decoded, len(complexF64Values))
	s.InDelta(0.5523248663610563, decoded[0].Re, tolerance[float64]())
	s.InDelta(0.0873612471755758, decoded[0].Im, tolerance[float64]())
	for i := range decoded {
		s.InDelta(complexF64Values[i].Re, decoded[i].Re, tolerance[float64]())
		s.InDelta(complexF64Values[i].Im, decoded[i].Im, tolerance[float64]())
	}
	s.Equal(b, EncodeComplex(decoded))
}

func (s *BinarySuite) TestEncodeThenDecode() {
	decodedReal, err := DecodeReal[float64](EncodeReal(realF64Values))
	s.Require().NoError(err)
	s.Equal(realF64Values, decodedReal)

	decodedComplex, err := DecodeComplex[float32](EncodeComplex(complexF32Values))
	s.Require().NoError(err)
	s.Equal(complexF32Values, decodedComplex)
}

func (s *BinarySuite) TestInvalidLength() {
	b := make([]byte, 7)

	_, err := DecodeReal[float32](b)
	var lengthErr *LengthError
	s.Require().True(errors.As(err, &lengthErr))
	s.Equal(4, lengthErr.Divisor)
	s.Equal(7, lengthErr.Actual)
	s.Equal("number of bytes must be divisible by 4, got 7", err.Error())

	values, err := DecodeComplex[float32](b)
	s.Nil(values)
	s.Require().True(errors.As(err, &lengthErr))
	s.Equal(8, lengthErr.Divisor)
	s.Equal(7, lengthErr.Actual)

	_, err = DecodeReal[float64](make([]byte, 12))
	s.Require().True(errors.As(err, &lengthErr))
	s.Equal(8, lengthErr.Divisor)
	s.Equal(12, lengthErr.Actual)

	_, err = DecodeComplex[float64](make([]byte, 24))
	s.Require().True(errors.As(err, &lengthErr))
	s.Equal(16, lengthErr.Divisor)
	s.Equal(24, lengthErr.Actual)
}

func (s *BinarySuite) TestLengthInvariant() {
	b := make([]byte, 48)

	r32, err := DecodeReal[float32](b)
	s.NoError(err)
	s.Len(r32, 12)

	r64, err := DecodeReal[float64](b)
	s.NoError(err)
	s.Len(r64, 6)

	c32, err := DecodeComplex[float32](b)
	s.NoError(err)
	s.Len(c32, 6)

	c64, err := DecodeComplex[float64](b)
	s.NoError(err)
	s.Len(c64, 3)

	s.Len(EncodeReal(make([]float32, 5)), 20)
	s.Len(EncodeReal(make([]float64, 5)), 40)
	s.Len(EncodeComplex(make([]Complex[float32], 5)), 40)
	s.Len(EncodeComplex(make([]Complex[float64], 5)), 80)
}

func (s *BinarySuite) TestEmpty() {
	r, err := DecodeReal[float32](nil)
	s.NoError(err)
	s.NotNil(r)
	s.Empty(r)

	c, err := DecodeComplex[float64]([]byte{})
	s.NoError(err)
	s.NotNil(c)
	s.Empty(c)

	s.Empty(EncodeReal[float64](nil))
	s.Empty(EncodeComplex[float32](nil))
}

func (s *BinarySuite) TestNonFiniteBitsPreserved() {
	// 依次为：signaling NaN、带载荷的 quiet NaN、-0、+Inf、-Inf。
	b32 := s.mustHex("0100807f" + "efbeffff" + "00000080" + "0000807f" + "000080ff")
	r32, err := DecodeReal[float32](b32)
	s.Require().NoError(err)
	s.True(math.IsNaN(float64(r32[0])))
	s.True(math.Signbit(float64(r32[2])))
	s.True(math.IsInf(float64(r32[3]), 1))
	s.True(math.IsInf(float64(r32[4]), -1))
	s.Equal(b32, EncodeReal(r32))

	b64 := s.mustHex("0100000000f0ff7f" + "0000000000000080" + "000000000000f07f" + "000000000000f0ff")
	c64, err := DecodeComplex[float64](b64)
	s.Require().NoError(err)
	s.Len(c64, 2)
	s.True(math.IsNaN(c64[0].Re))
	s.True(math.Signbit(c64[0].Im))
	s.Equal(b64, EncodeComplex(c64))
}

func (s *BinarySuite) TestLittleEndianLayout() {
	s.Equal([]byte{0x00, 0x00, 0x80, 0x3f}, EncodeReal([]float32{1}))
	s.Equal([]byte{0, 0, 0, 0, 0, 0, 0xf0, 0x3f}, EncodeReal([]float64{1}))
	s.Equal([]byte{0x00, 0x00, 0x80, 0x3f, 0x00, 0x00, 0x00, 0x40},
		EncodeComplex([]Complex[float32]{NewComplex[float32](1, 2)}))
}

func (s *BinarySuite) TestConcurrentUse() {
	inputs := [][]byte{s.mustHex(realF32Hex), s.mustHex(realF64Hex), s.mustHex(complexF32Hex), s.mustHex(complexF64Hex)}

	var g errgroup.Group
	for i := 0; i < 32; i++ {
		in := inputs[i%len(inputs)]
		g.Go(func() error {
			decoded, err := DecodeReal[float32](in)
			if err != nil {
				return err
			}
			if string(EncodeReal(decoded)) != string(in) {
				return errors.Newf("round trip mismatch for %x", in)
			}
			return nil
		})
	}
	s.NoError(g.Wait())
}

func TestBinary(t *testing.T) {
	suite.Run(t, new(BinarySuite))
}
