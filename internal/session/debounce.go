package session

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Debouncer 合并连续输入：只保留一个计时器，每次输入重置，静默 quiet 后以最后一次的值触发
type Debouncer struct {
	clock clockwork.Clock
	quiet time.Duration
	fire  func(string)

	mu      sync.Mutex
	timer   clockwork.Timer
	pending string
	gen     uint64
}

// NewDebouncer 创建防抖器
func NewDebouncer(clock clockwork.Clock, quiet time.Duration, fire func(string)) *Debouncer {
	return &Debouncer{clock: clock, quiet: quiet, fire: fire}
}

// Push 提交一次输入
func (d *Debouncer) Push(value string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pending = value
	d.gen++
	gen := d.gen

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = d.clock.AfterFunc(d.quiet, func() {
		d.mu.Lock()
		// 已被更新的输入取代
		if gen != d.gen {
			d.mu.Unlock()
			return
		}
		v := d.pending
		d.timer = nil
		d.mu.Unlock()

		d.fire(v)
	})
}

// Stop 丢弃未触发的输入
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
