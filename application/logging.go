package application

import (
	"github.com/cockroachdb/errors"

	zlog "github.com/lk2023060901/vecconv-go/pkg/log"
)

// initLogging configures the process-wide logger.
//
// Logging is off unless one of the following turns it on:
//   - VECCONV_LOG_ENABLE=true (or log.enable in the config file)
//   - a "log" section in the config file that does not set enable: false
//   - --verbose, which also forces debug level on stderr
//
// Other keys follow the same env/file mapping, e.g. VECCONV_LOG_LEVEL,
// VECCONV_LOG_FORMAT, VECCONV_LOG_FILE_FILENAME.
//
// Example:
//
//	log:
//	  level: debug
//	  format: json
//	  file:
//	    rootpath: ./logs
//	    filename: vecconv.log
func (a *Application) initLogging() error {
	cfg := &zlog.Config{}
	if err := a.cfg.UnmarshalKey("log", cfg); err != nil {
		return errors.Wrap(err, "decode log config")
	}

	// 显式配置 log.enable 时以其为准，否则出现 log 配置段即视为开启。
	enabled := a.cfg.IsSet("log")
	if a.cfg.IsSet("log.enable") {
		enabled = a.cfg.GetBool("log.enable")
	}
	enabled = enabled || a.verbose

	if v := a.cfg.GetString("log.level"); v != "" {
		cfg.Level = v
	}
	if v := a.cfg.GetString("log.format"); v != "" {
		cfg.Format = v
	}
	if v := a.cfg.GetString("log.file.rootpath"); v != "" {
		cfg.File.RootPath = v
	}
	if v := a.cfg.GetString("log.file.filename"); v != "" {
		cfg.File.Filename = v
	}
	cfg.Stderr = cfg.Stderr || a.cfg.GetBool("log.stderr")

	if cfg.Level == "" {
		cfg.Level = "info"
	}
	if a.verbose {
		cfg.Level = "debug"
		cfg.Stderr = true
	}

	if !enabled {
		// 未开启时所有输出都被丢弃。
		cfg.Stderr = false
		cfg.File.Filename = ""
	} else if cfg.File.Filename == "" {
		cfg.Stderr = true
	}

	logger, props, err := zlog.InitLogger(cfg)
	if err != nil {
		return errors.Wrap(err, "init global logger")
	}
	zlog.ReplaceGlobals(logger, props)
	return nil
}
