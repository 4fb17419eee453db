package chunk

import (
	"sync"
	"sync/atomic"
)

// MemoryLimitExceededError is returned when a buffer request would push
// a pool's memory usage past its configured limit.
type MemoryLimitExceededError struct {
	Requested int64
	Current   int64
	Limit     int64
}

func (e *MemoryLimitExceededError) Error() string {
	return "chunk: memory limit exceeded"
}

// bufferSizes are the discrete pooled sizes, chosen to cover the packed
// bitstream a single default 64x64x64 chunk produces at typical bit
// budgets without over-allocating for smaller edge chunks.
var bufferSizes = []int{
	4 << 10,   // 4 KB
	16 << 10,  // 16 KB
	64 << 10,  // 64 KB
	256 << 10, // 256 KB
	1 << 20,   // 1 MB
	4 << 20,   // 4 MB
	16 << 20,  // 16 MB
}

// BufferPool manages reusable byte buffers for chunk payloads, with an
// optional memory ceiling shared across every size class.
type BufferPool struct {
	pools       []*sync.Pool
	memoryUsed  int64
	memoryLimit int64
}

// globalBufferPool is the default pool used when callers don't need
// their own memory ceiling.
var globalBufferPool = NewBufferPool()

// NewBufferPool creates a buffer pool with no memory limit.
func NewBufferPool() *BufferPool {
	return NewBufferPoolWithLimit(0)
}

// NewBufferPoolWithLimit creates a buffer pool that refuses allocations
// once memoryUsed would exceed limit. A limit of 0 means unlimited.
func NewBufferPoolWithLimit(limit int64) *BufferPool {
	p := &BufferPool{
		pools:       make([]*sync.Pool, len(bufferSizes)),
		memoryLimit: limit,
	}
	for i, size := range bufferSizes {
		size := size
		p.pools[i] = &sync.Pool{
			New: func() interface{} {
				return make([]byte, size)
			},
		}
	}
	return p
}

func poolIndex(size int) int {
	for i, s := range bufferSizes {
		if size <= s {
			return i
		}
	}
	return -1
}

// Get returns a buffer of at least size bytes, or nil if doing so would
// exceed the pool's memory limit.
func (p *BufferPool) Get(size int) []byte {
	idx := poolIndex(size)
	if idx < 0 {
		if !p.reserve(int64(size)) {
			return nil
		}
		return make([]byte, size)
	}

	pooledSize := bufferSizes[idx]
	if !p.reserve(int64(pooledSize)) {
		return nil
	}
	buf := p.pools[idx].Get().([]byte)
	return buf[:size]
}

// GetWithError is Get, but returns a *MemoryLimitExceededError instead
// of nil on failure.
func (p *BufferPool) GetWithError(size int) ([]byte, error) {
	buf := p.Get(size)
	if buf == nil {
		return nil, &MemoryLimitExceededError{
			Requested: int64(size),
			Current:   atomic.LoadInt64(&p.memoryUsed),
			Limit:     atomic.LoadInt64(&p.memoryLimit),
		}
	}
	return buf, nil
}

func (p *BufferPool) reserve(size int64) bool {
	limit := atomic.LoadInt64(&p.memoryLimit)
	if limit == 0 {
		atomic.AddInt64(&p.memoryUsed, size)
		return true
	}
	for {
		current := atomic.LoadInt64(&p.memoryUsed)
		if current+size > limit {
			return false
		}
		if atomic.CompareAndSwapInt64(&p.memoryUsed, current, current+size) {
			return true
		}
	}
}

// Put returns a buffer obtained from Get back to the pool.
func (p *BufferPool) Put(buf []byte) {
	if buf == nil {
		return
	}
	bufCap := cap(buf)
	idx := poolIndex(bufCap)
	atomic.AddInt64(&p.memoryUsed, -int64(bufCap))
	if idx < 0 || bufCap != bufferSizes[idx] {
		return
	}
	p.pools[idx].Put(buf[:bufCap])
}

// MemoryUsed returns the pool's current outstanding allocation total.
func (p *BufferPool) MemoryUsed() int64 {
	return atomic.LoadInt64(&p.memoryUsed)
}
