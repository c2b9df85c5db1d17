package chop

import (
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"
)

var idCounter atomic.Uint64

// NextID returns the next process-wide model identifier: "m1", "m2", ...
func NextID() string {
	return "m" + strconv.FormatUint(idCounter.Add(1), 10)
}

// UUID returns a random identifier prefixed like the sequential ones.
func UUID() string {
	return "m" + uuid.NewString()
}
