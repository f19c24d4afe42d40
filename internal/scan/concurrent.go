package scan

import (
	"context"
	"net/netip"
	"sync"
)

// portResult pairs a result with its position in the request.
type portResult struct {
	index  int
	result PortResult
}

// scanConcurrent probes ports with a bounded worker pool. Results are placed
// back at their request index, so the output matches scanSequential.
func (s *Scanner) scanConcurrent(ctx context.Context, addr netip.Addr, ports []int) ([]PortResult, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	concurrency := s.config.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	if concurrency > len(ports) {
		concurrency = len(ports)
	}

	jobs := make(chan int, len(ports))
	results := make(chan portResult, len(ports))

	var wg sync.WaitGroup
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.worker(ctx, addr, ports, jobs, results)
		}()
	}

	go func() {
		defer close(jobs)
		for i := range ports {
			select {
			case <-ctx.Done():
				return
			case jobs <- i:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	ordered := make([]PortResult, len(ports))
	for r := range results {
		ordered[r.index] = r.result
		s.notify(r.result)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return ordered, nil
}

// worker processes port indexes from the jobs channel.
func (s *Scanner) worker(ctx context.Context, addr netip.Addr, ports []int, jobs <-chan int, results chan<- portResult) {
	for i := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
		}

		results <- portResult{index: i, result: s.probePort(ctx, addr, ports[i])}
	}
}
