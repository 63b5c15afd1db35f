package application

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/blang/semver/v4"
	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/lk2023060901/vecconv-go/internal/codec"
	"github.com/lk2023060901/vecconv-go/internal/compressor"
	"github.com/lk2023060901/vecconv-go/internal/json"
	"github.com/lk2023060901/vecconv-go/internal/serializer"
	zlog "github.com/lk2023060901/vecconv-go/pkg/log"
	"github.com/lk2023060901/vecconv-go/pkg/metrics"
	"github.com/lk2023060901/vecconv-go/pkg/util/merr"
	"github.com/lk2023060901/vecconv-go/pkg/util/typeutil"
	zviper "github.com/lk2023060901/vecconv-go/pkg/util/viper"
)

// Version is the semantic version reported by `vecconv version`.
var Version = "0.3.0"

const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

const (
	envPrefix         = "VECCONV"
	envConfigFilePath = "VECCONV_CONFIG_FILE_PATH"
	defaultConfigPath = "./vecconv.yaml"
)

const (
	cmdEncode  = "encode"
	cmdDecode  = "decode"
	cmdVersion = "version"
)

var subcommands = typeutil.NewSet(cmdEncode, cmdDecode, cmdVersion)

// 参数校验失败时在错误信息中列出的可选值。
const (
	jsonEngines      = "sonic|jsoniter|std"
	compressionKinds = "none|zstd"
	zstdLevels       = "fastest|default|better|best"
)

// Application is the runtime container of one vecconv invocation.
// It owns the standard streams, configuration and the metrics registry.
type Application struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	cfg      *zviper.Config
	flags    *pflag.FlagSet
	registry *prometheus.Registry

	complex    bool
	double     bool
	configPath string
	verbose    bool
}

// New creates a new Application bound to the given streams.
func New(stdin io.Reader, stdout, stderr io.Writer) *Application {
	a := &Application{
		stdin:    stdin,
		stdout:   stdout,
		stderr:   stderr,
		registry: prometheus.NewRegistry(),
	}
	a.flags = a.newFlagSet()
	return a
}

func (a *Application) newFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("vecconv", pflag.ContinueOnError)
	fs.SetOutput(a.stderr)
	fs.SortFlags = false
	fs.BoolVarP(&a.complex, "complex", "c", false, "treat elements as complex pairs [re, im]")
	fs.BoolVarP(&a.double, "double", "d", false, "use 8-byte double precision instead of 4-byte single precision")
	fs.StringVar(&a.configPath, "config", "", "config file path (default ./vecconv.yaml if present)")
	fs.String("compression", "none", "binary side compression: none or zstd")
	fs.String("zstd-level", "", "zstd level: fastest, default, better or best")
	fs.Int("zstd-concurrency", 0, "zstd concurrency, <= 0 means number of CPUs")
	fs.String("json-engine", string(json.EngineSonic), "JSON engine: sonic, jsoniter or std")
	fs.String("metrics-textfile", "", "write Prometheus metrics in textfile format to this path on exit")
	fs.BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging to stderr")
	fs.Usage = func() {
		fmt.Fprintf(a.stderr, "Usage: vecconv [flags] <%s>\n\n", strings.Join(typeutil.Sorted(subcommands), "|"))
		fmt.Fprintf(a.stderr, "encode reads a JSON array from stdin and writes little-endian binary to stdout.\n")
		fmt.Fprintf(a.stderr, "decode reads little-endian binary from stdin and writes a JSON array to stdout.\n\n")
		fs.PrintDefaults()
	}
	return fs
}

// Run parses args (without the program name), executes the subcommand and
// returns the process exit status.
//
// Configuration file lookup:
//  1. Default: ./vecconv.yaml (optional)
//  2. Env: VECCONV_CONFIG_FILE_PATH
//  3. CLI: --config <path>
func (a *Application) Run(ctx context.Context, args []string) int {
	if err := a.flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return ExitOK
		}
		return ExitUsage
	}
	if a.flags.NArg() != 1 {
		a.usageError("expected exactly one subcommand, got %d", a.flags.NArg())
		return ExitUsage
	}

	cmd := a.flags.Arg(0)
	if !subcommands.Contain(cmd) {
		a.usageError("%s", merr.WrapErrOperationNotSupported(cmd, "unknown subcommand"))
		return ExitUsage
	}
	if cmd == cmdVersion {
		return a.runVersion()
	}

	cfg, err := a.loadConfig()
	if err != nil {
		return a.exit(err)
	}
	a.cfg = cfg

	if err := a.initLogging(); err != nil {
		return a.exit(err)
	}
	defer zlog.Sync() //nolint:errcheck

	metrics.Register(a.registry)
	err = a.convert(ctx, cmd)
	if path := a.cfg.GetString("metrics.textfile"); path != "" {
		err = merr.Combine(err, merr.WrapErrIoFailed(path, metrics.WriteTextfile(path, a.registry)))
	}
	return a.exit(err)
}

// Config returns the loaded configuration, if any.
func (a *Application) Config() *zviper.Config {
	return a.cfg
}

func (a *Application) runVersion() int {
	v, err := semver.Parse(Version)
	if err != nil {
		return a.exit(merr.WrapErrParameterInvalidMsg("bad build version %q", Version))
	}
	fmt.Fprintf(a.stdout, "vecconv %s\n", v.String())
	return ExitOK
}

func (a *Application) convert(ctx context.Context, cmd string) error {
	shape := codec.Shape{Complex: a.complex, Double: a.double}
	ctx = zlog.WithShape(zlog.WithModule(ctx, "application"), shape.String())

	engineName := a.cfg.GetString("codec.json_engine")
	engine, err := json.ParseEngine(engineName)
	if err != nil {
		return merr.WrapErrParameterInvalid(jsonEngines, engineName, "codec.json_engine")
	}
	if err := json.SetEngine(engine); err != nil {
		return err
	}
	ser, err := serializer.NewJSONSerializer(engine)
	if err != nil {
		return err
	}

	kindName := a.cfg.GetString("codec.compression")
	kind, err := compressor.ParseKind(kindName)
	if err != nil {
		return merr.WrapErrParameterInvalid(compressionKinds, kindName, "codec.compression")
	}
	level := a.cfg.GetString("codec.zstd_level")
	comp, err := compressor.New(compressor.Options{
		Kind:        kind,
		Concurrency: a.cfg.GetInt("codec.zstd_concurrency"),
		Level:       level,
	})
	if err != nil {
		return merr.WrapErrParameterInvalid(zstdLevels, level, "codec.zstd_level")
	}
	defer compressor.Close(comp)

	conv, err := codec.New(codec.Options{Shape: shape, Serializer: ser, Compressor: comp})
	if err != nil {
		return err
	}
	conv.SetLogger(zlog.With(zlog.FieldModule("codec")))

	zlog.Ctx(ctx).Debug("start conversion",
		zap.String("command", cmd),
		zap.String("serializer", ser.Name()),
		zap.String("compressor", comp.Name()))

	if cmd == cmdEncode {
		return conv.Encode(ctx, a.stdin, a.stdout)
	}
	return conv.Decode(ctx, a.stdin, a.stdout)
}

// exit maps err to an exit status and reports it on stderr.
func (a *Application) exit(err error) int {
	if err == nil {
		return ExitOK
	}
	fields := []zap.Field{
		zap.Error(err),
		zap.Int32("code", merr.Code(err)),
		zap.String("error_type", merr.GetErrorType(err).String()),
	}
	if merr.IsCanceledOrTimeout(err) {
		zlog.Info("vecconv canceled", fields...)
	} else {
		zlog.Error("vecconv failed", fields...)
	}
	fmt.Fprintf(a.stderr, "vecconv: %s\n", err.Error())
	if errors.Is(err, merr.ErrParameterInvalid) || errors.Is(err, merr.ErrParameterMissing) {
		return ExitUsage
	}
	return ExitError
}

func (a *Application) usageError(format string, args ...any) {
	fmt.Fprintf(a.stderr, "vecconv: "+format+"\n", args...)
	a.flags.Usage()
}

// loadConfig resolves config file path and loads it via viper wrapper.
// A missing default file is not an error; an explicit path must exist.
func (a *Application) loadConfig() (*zviper.Config, error) {
	configPath := defaultConfigPath
	explicit := false

	if envPath := os.Getenv(envConfigFilePath); envPath != "" {
		configPath = envPath
		explicit = true
	}
	if a.configPath != "" {
		configPath = a.configPath
		explicit = true
	}

	cfg := zviper.NewWithEnv(envPrefix)
	cfg.SetDefault("codec.json_engine", string(json.EngineSonic))
	cfg.SetDefault("codec.compression", string(compressor.KindNone))
	cfg.SetDefault("codec.zstd_concurrency", 0)
	cfg.SetDefault("codec.zstd_level", "")
	cfg.SetDefault("metrics.textfile", "")

	if _, err := os.Stat(configPath); err == nil || explicit {
		if err := cfg.LoadFile(configPath); err != nil {
			return nil, merr.WrapErrIoFailed(configPath, errors.Wrap(err, "failed to load config file"))
		}
	}

	bindings := map[string]string{
		"codec.json_engine":      "json-engine",
		"codec.compression":      "compression",
		"codec.zstd_level":       "zstd-level",
		"codec.zstd_concurrency": "zstd-concurrency",
		"metrics.textfile":       "metrics-textfile",
	}
	for key, name := range bindings {
		if err := cfg.BindFlag(key, a.flags.Lookup(name)); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}
