package application

import (
	"bytes"
	"context"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"
)

const (
	realF32Hex  = "145ade3d26f2d33e2e792c3e0589123f3e6e713f"
	realF32Text = "[0.10857025,0.41395682,0.16843101,0.57240325,0.9430884]"

	complexF64Hex  = "d039b932a5ace13f108f8e834e5db63faa6ebd58d6fdd93f4ec90d147884da3f584dc0dc90ddd23f889ad49ec18ed63fed0be97046f9e83f175adf5067d1ea3f8084d20064607d3f24a5fe9929a1cc3f"
	complexF64Text = "[[0.5523248663610563,0.0873612471755758],[0.4061179987527149,0.4143352695310981],[0.2947733073971981,0.3524631548956809],[0.780429096725468,0.8380619601765059],[0.007172003400371385,0.22366828936837024]]"
)

type ApplicationSuite struct {
	suite.Suite
	dir string
}

func (s *ApplicationSuite) SetupTest() {
	s.dir = s.T().TempDir()
	// 默认配置文件按当前目录查找，切到空目录避免读到外部文件。
	wd, err := os.Getwd()
	s.Require().NoError(err)
	s.Require().NoError(os.Chdir(s.dir))
	s.T().Cleanup(func() { _ = os.Chdir(wd) })
	s.T().Setenv(envConfigFilePath, "")
}

func (s *ApplicationSuite) run(stdin []byte, args ...string) (int, []byte, string) {
	var stdout, stderr bytes.Buffer
	code := New(bytes.NewReader(stdin), &stdout, &stderr).Run(context.Background(), args)
	return code, stdout.Bytes(), stderr.String()
}

func (s *ApplicationSuite) mustHex(str string) []byte {
	b, err := hex.DecodeString(str)
	s.Require().NoError(err)
	return b
}

func (s *ApplicationSuite) writeConfig(content string) string {
	path := filepath.Join(s.dir, "custom.yaml")
	s.Require().NoError(os.WriteFile(path, []byte(content), 0o644))
	return path
}

func (s *ApplicationSuite) TestDecodeRealF32() {
	code, out, errOut := s.run(s.mustHex(realF32Hex), "decode")
	s.Equal(ExitOK, code, errOut)
	s.Equal(realF32Text+"\n", string(out))
	s.Empty(errOut)
}

func (s *ApplicationSuite) TestEncodeComplexF64() {
	code, out, errOut := s.run([]byte(complexF64Text), "encode", "-c", "-d")
	s.Equal(ExitOK, code, errOut)
	s.Equal(s.mustHex(complexF64Hex), out)

	code, out, errOut = s.run([]byte(complexF64Text), "--complex", "--double", "encode")
	s.Equal(ExitOK, code, errOut)
	s.Equal(s.mustHex(complexF64Hex), out)
}

func (s *ApplicationSuite) TestInvalidLength() {
	code, out, errOut := s.run(make([]byte, 7), "decode", "-d")
	s.Equal(ExitError, code)
	s.Empty(out)
	s.True(strings.HasPrefix(errOut, "vecconv: "))
	s.Contains(errOut, "number of bytes must be divisible by 8, got 7")
}

func (s *ApplicationSuite) TestMalformedJSON() {
	code, out, errOut := s.run([]byte("[1, 2,"), "encode")
	s.Equal(ExitError, code)
	s.Empty(out)
	s.Contains(errOut, "invalid text format")

	code, out, errOut = s.run([]byte("[[1,null]]"), "-c", "encode")
	s.Equal(ExitError, code)
	s.Empty(out)
	s.Contains(errOut, "invalid text format")
}

func (s *ApplicationSuite) TestUsageErrors() {
	code, _, errOut := s.run(nil)
	s.Equal(ExitUsage, code)
	s.Contains(errOut, "Usage: vecconv")

	code, _, errOut = s.run(nil, "transcode")
	s.Equal(ExitUsage, code)
	s.Contains(errOut, "unknown subcommand: unsupported operation[operation=transcode]")

	code, _, _ = s.run(nil, "encode", "decode")
	s.Equal(ExitUsage, code)

	code, _, _ = s.run(nil, "--no-such-flag", "encode")
	s.Equal(ExitUsage, code)

	code, _, errOut = s.run([]byte("[]"), "--json-engine=gson", "encode")
	s.Equal(ExitUsage, code)
	s.Contains(errOut, "invalid parameter")

	code, _, _ = s.run([]byte("[]"), "--compression=lz4", "encode")
	s.Equal(ExitUsage, code)
}

func (s *ApplicationSuite) TestHelp() {
	code, out, errOut := s.run(nil, "--help")
	s.Equal(ExitOK, code)
	s.Empty(out)
	s.Contains(errOut, "--complex")
}

func (s *ApplicationSuite) TestVersion() {
	code, out, _ := s.run(nil, "version")
	s.Equal(ExitOK, code)
	s.Equal("vecconv "+Version+"\n", string(out))
}

func (s *ApplicationSuite) TestZstdRoundTrip() {
	code, packed, errOut := s.run([]byte(realF32Text), "--compression", "zstd", "--zstd-level", "best", "encode")
	s.Require().Equal(ExitOK, code, errOut)
	s.NotEqual(s.mustHex(realF32Hex), packed)

	code, out, errOut := s.run(packed, "--compression", "zstd", "decode")
	s.Require().Equal(ExitOK, code, errOut)
	s.Equal(realF32Text+"\n", string(out))
}

func (s *ApplicationSuite) TestConfigFile() {
	path := s.writeConfig("codec:\n  json_engine: std\n  compression: zstd\n  zstd_concurrency: 1\n")

	code, packed, errOut := s.run([]byte(realF32Text), "--config", path, "encode")
	s.Require().Equal(ExitOK, code, errOut)

	// 命令行参数优先于配置文件。
	code, raw, errOut := s.run([]byte("[1.5]"), "--config", path, "--compression=none", "encode")
	s.Require().Equal(ExitOK, code, errOut)
	s.Equal([]byte{0, 0, 0xc0, 0x3f}, raw)

	code, out, errOut := s.run(packed, "--config", path, "decode")
	s.Require().Equal(ExitOK, code, errOut)
	s.Equal(realF32Text+"\n", string(out))
}

func (s *ApplicationSuite) TestConfigFromEnv() {
	path := s.writeConfig("codec:\n  compression: zstd\n")
	s.T().Setenv(envConfigFilePath, path)

	code, packed, errOut := s.run([]byte("[1.5]"), "encode")
	s.Require().Equal(ExitOK, code, errOut)
	s.NotEqual([]byte{0, 0, 0xc0, 0x3f}, packed)
}

func (s *ApplicationSuite) TestDefaultConfigFile() {
	s.Require().NoError(os.WriteFile(filepath.Join(s.dir, "vecconv.yaml"), []byte("codec:\n  compression: zstd\n"), 0o644))

	code, packed, errOut := s.run([]byte("[1.5]"), "encode")
	s.Require().Equal(ExitOK, code, errOut)
	s.NotEqual([]byte{0, 0, 0xc0, 0x3f}, packed)
}

func (s *ApplicationSuite) TestMissingExplicitConfig() {
	code, _, errOut := s.run([]byte("[]"), "--config", filepath.Join(s.dir, "absent.yaml"), "encode")
	s.Equal(ExitError, code)
	s.Contains(errOut, "failed to load config file")
}

func (s *ApplicationSuite) TestMetricsTextfile() {
	path := filepath.Join(s.dir, "vecconv.prom")

	code, _, errOut := s.run(s.mustHex(realF32Hex), "--metrics-textfile", path, "decode")
	s.Require().Equal(ExitOK, code, errOut)

	data, err := os.ReadFile(path)
	s.Require().NoError(err)
	s.Contains(string(data), `vecconv_codec_elements_total{direction="decode",shape="real-f32"}`)

	code, _, _ = s.run(make([]byte, 3), "--metrics-textfile", path, "decode")
	s.Equal(ExitError, code)
	data, err = os.ReadFile(path)
	s.Require().NoError(err)
	s.Contains(string(data), `vecconv_codec_failures_total{code="1200",direction="decode",shape="real-f32"}`)
}

func (s *ApplicationSuite) TestMetricsTextfileFailure() {
	path := filepath.Join(s.dir, "absent", "vecconv.prom")

	code, out, errOut := s.run(s.mustHex(realF32Hex), "--metrics-textfile", path, "decode")
	s.Equal(ExitError, code)
	s.Equal(realF32Text+"\n", string(out))
	s.Contains(errOut, "IO failed[key="+path+"]")

	// 转换错误与指标写入错误同时出现时两者都要报告。
	code, _, errOut = s.run(make([]byte, 3), "--metrics-textfile", path, "decode")
	s.Equal(ExitError, code)
	s.Contains(errOut, "invalid binary length")
	s.Contains(errOut, "IO failed[key="+path+"]")
}

func (s *ApplicationSuite) TestInvalidCodecOptions() {
	cases := []struct {
		args []string
		want string
	}{
		{[]string{"--json-engine", "gson"}, "codec.json_engine: invalid parameter[expected=sonic|jsoniter|std][actual=gson]"},
		{[]string{"--compression", "lz4"}, "codec.compression: invalid parameter[expected=none|zstd][actual=lz4]"},
		{[]string{"--compression", "zstd", "--zstd-level", "max"}, "codec.zstd_level: invalid parameter[expected=fastest|default|better|best][actual=max]"},
	}
	for _, tc := range cases {
		code, out, errOut := s.run([]byte("[1]"), append(tc.args, "encode")...)
		s.Equal(ExitUsage, code, errOut)
		s.Empty(out)
		s.Contains(errOut, tc.want)
	}
}

func (s *ApplicationSuite) TestLogDisabledBySection() {
	path := s.writeConfig("log:\n  enable: false\n  file:\n    rootpath: " + s.dir + "\n    filename: vecconv.log\n")

	code, _, errOut := s.run([]byte("[1]"), "--config", path, "encode")
	s.Require().Equal(ExitOK, code, errOut)

	_, err := os.Stat(filepath.Join(s.dir, "vecconv.log"))
	s.True(os.IsNotExist(err), "log file must not be created: %v", err)
}

func (s *ApplicationSuite) TestLogFile() {
	path := s.writeConfig("log:\n  level: debug\n  format: json\n  file:\n    rootpath: " + s.dir + "\n    filename: vecconv.log\n")

	code, out, errOut := s.run([]byte("[1]"), "--config", path, "encode")
	s.Require().Equal(ExitOK, code, errOut)
	s.Equal([]byte{0, 0, 0x80, 0x3f}, out)
	s.Empty(errOut)

	data, err := os.ReadFile(filepath.Join(s.dir, "vecconv.log"))
	s.Require().NoError(err)
	s.Contains(string(data), "vector converted")
}

func (s *ApplicationSuite) TestVerboseLogsToStderrOnly() {
	// stderr 直接写入 os.Stderr，这里只校验 stdout 不被日志污染。
	code, out, _ := s.run(s.mustHex(realF32Hex), "-v", "decode")
	s.Equal(ExitOK, code)
	s.Equal(realF32Text+"\n", string(out))
}

func TestApplication(t *testing.T) {
	suite.Run(t, new(ApplicationSuite))
}
