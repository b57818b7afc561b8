package bench

import (
	"os"
	"sync"

	"github.com/shirou/gopsutil/v3/process"

	"github.com/benz9527/xtree/lib/infra"
)

var (
	selfOnce sync.Once
	self     *process.Process
	selfErr  error
)

// processRSS samples the resident set size of the benchmark process.
func processRSS() (uint64, error) {
	selfOnce.Do(func() {
		self, selfErr = process.NewProcess(int32(os.Getpid()))
	})
	if selfErr != nil {
		return 0, infra.WrapErrorStack(selfErr)
	}
	info, err := self.MemoryInfo()
	if err != nil {
		return 0, infra.WrapErrorStack(err)
	}
	return info.RSS, nil
}
