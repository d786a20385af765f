package tuner

// shard is a contiguous run of positions with its own accumulators, so
// workers never write to shared memory during a pass.
type shard struct {
	begin, end int
	grad       []Pair
	err        float64
}

// Executor runs error and gradient passes over a dataset on a Pool and
// reduces the per-shard results in shard order.
type Executor struct {
	pool      *Pool
	ds        *Dataset
	numParams int
	shards    []*shard
}

// NewExecutor splits ds into one contiguous shard per pool worker.
func NewExecutor(pool *Pool, ds *Dataset, numParams int) *Executor {
	n := clamp(pool.Size(), 0, ds.Len())
	e := &Executor{pool: pool, ds: ds, numParams: numParams}
	for i := 0; i < n; i++ {
		e.shards = append(e.shards, &shard{
			begin: i * ds.Len() / n,
			end:   (i + 1) * ds.Len() / n,
		})
	}
	return e
}

// Error returns the mean squared error of params at scale k.
func (e *Executor) Error(params []Pair, k float64) float64 {
	for _, s := range e.shards {
		s := s
		e.pool.Submit(func() {
			s.err = shardError(e.ds, s.begin, s.end, params, k)
		})
	}
	e.pool.Wait()
	return e.reduceError()
}

// Gradient overwrites grad with the summed error gradient of params and
// returns the mean squared error. params must not change until it returns.
func (e *Executor) Gradient(params []Pair, k float64, grad []Pair) float64 {
	for _, s := range e.shards {
		s := s
		if s.grad == nil {
			s.grad = make([]Pair, e.numParams)
		}
		e.pool.Submit(func() {
			clear(s.grad)
			s.err = shardGradient(e.ds, s.begin, s.end, params, k, s.grad)
		})
	}
	e.pool.Wait()

	clear(grad)
	for _, s := range e.shards {
		for i, g := range s.grad {
			grad[i].MG += g.MG
			grad[i].EG += g.EG
		}
	}
	return e.reduceError()
}

func (e *Executor) reduceError() float64 {
	if e.ds.Len() == 0 {
		return 0
	}
	var sum float64
	for _, s := range e.shards {
		sum += s.err
	}
	return sum / float64(e.ds.Len())
}
