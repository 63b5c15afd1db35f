package hardware

import (
	"runtime"

	"github.com/shirou/gopsutil/v3/cpu"
	"go.uber.org/zap"

	"github.com/lk2023060901/vecconv-go/pkg/log"
)

// GetCPUNum 返回主机逻辑 CPU 核数，并以 GOMAXPROCS 为上限。
// gopsutil 获取失败时退回 runtime.NumCPU。
func GetCPUNum() int {
	n, err := cpu.Counts(true)
	if err != nil || n <= 0 {
		log.Warn("failed to get cpu counts, fallback to runtime.NumCPU", zap.Error(err))
		n = runtime.NumCPU()
	}
	if procs := runtime.GOMAXPROCS(0); procs > 0 && procs < n {
		n = procs
	}
	return n
}
