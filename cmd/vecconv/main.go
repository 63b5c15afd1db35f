package main

import (
	"context"
	"os"

	"go.uber.org/automaxprocs/maxprocs"

	"github.com/lk2023060901/vecconv-go/application"
	"github.com/lk2023060901/vecconv-go/pkg/log"
)

func main() {
	// maxprocs 默认打印到标准输出，这里改为走日志，避免污染转换结果。
	undo, _ := maxprocs.Set(maxprocs.Logger(log.S().Debugf))
	code := application.New(os.Stdin, os.Stdout, os.Stderr).Run(context.Background(), os.Args[1:])
	undo()
	os.Exit(code)
}
