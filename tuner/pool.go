package tuner

import "sync"

// Pool runs tasks on a fixed set of goroutines fed from one FIFO queue.
// Wait is a barrier over everything submitted so far, not a per-task
// future.
type Pool struct {
	mu     sync.Mutex
	work   *sync.Cond // queue non-empty or closing
	idle   *sync.Cond // queue empty and nothing running
	queue  []func()
	active int
	closed bool
	size   int
	wg     sync.WaitGroup
}

// NewPool starts n workers. n < 1 is treated as 1.
func NewPool(n int) *Pool {
	if n < 1 {
		n = 1
	}
	p := &Pool{size: n}
	p.work = sync.NewCond(&p.mu)
	p.idle = sync.NewCond(&p.mu)
	p.wg.Add(n)
	for i := 0; i < n; i++ {
		go p.worker()
	}
	return p
}

func (p *Pool) Size() int { return p.size }

// Submit queues task. It panics if the pool is closed.
func (p *Pool) Submit(task func()) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		panic("tuner: submit on closed pool")
	}
	p.queue = append(p.queue, task)
	p.mu.Unlock()
	p.work.Signal()
}

// Wait blocks until the queue is empty and no task is running.
func (p *Pool) Wait() {
	p.mu.Lock()
	for len(p.queue) > 0 || p.active > 0 {
		p.idle.Wait()
	}
	p.mu.Unlock()
}

// Close lets the workers drain the queue and exit, then returns.
func (p *Pool) Close() {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	p.work.Broadcast()
	p.wg.Wait()
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for {
		p.mu.Lock()
		for len(p.queue) == 0 && !p.closed {
			p.work.Wait()
		}
		if len(p.queue) == 0 {
			p.mu.Unlock()
			return
		}
		task := p.queue[0]
		p.queue[0] = nil
		p.queue = p.queue[1:]
		p.active++
		p.mu.Unlock()

		task()

		p.mu.Lock()
		p.active--
		if p.active == 0 && len(p.queue) == 0 {
			p.idle.Broadcast()
		}
		p.mu.Unlock()
	}
}
