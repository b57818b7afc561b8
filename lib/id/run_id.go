package id

import (
	crand "crypto/rand"
	"strconv"
	"sync"
	"time"

	"github.com/benz9527/xtree/lib/infra"
)

// URL safe, 64 symbols so that a random byte masked by 0x3f picks one
// without bias.
const runIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"

// RunIDGen returns the identifiers of the benchmark runs.
type RunIDGen func() string

// NewRunIDGen builds a generator of "<unix seconds base36>-<random>" ids, the
// random part has the given length. The prefix keeps the ids of successive
// runs sortable.
func NewRunIDGen(length int, now func() time.Time) (RunIDGen, error) {
	if length < 4 || length > 64 {
		return nil, infra.NewErrorStack("[run-id] length must be in [4, 64]")
	}
	if now == nil {
		now = time.Now
	}

	buf := make([]byte, length*16)
	offset := len(buf)
	id := make([]byte, length)
	var mu sync.Mutex
	return func() string {
		mu.Lock()
		defer mu.Unlock()

		if offset+length > len(buf) {
			if _, err := crand.Read(buf); err != nil {
				panic(infra.WrapErrorStackWithMessage(err, "[run-id] random source exhausted"))
			}
			offset = 0
		}
		for i := 0; i < length; i++ {
			id[i] = runIDAlphabet[buf[offset+i]&0x3f]
		}
		offset += length
		return strconv.FormatInt(now().Unix(), 36) + "-" + string(id)
	}, nil
}
