package lineprocessor

import (
	"context"
	"io"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/baditaflorin/go_number_words/internal/ports"
)

// MaxJobQueueSize limits the number of pending jobs
const MaxJobQueueSize = 32

type inputLine struct {
	index int
	text  string
}

// lineJob is a batch of lines handed to one worker
type lineJob struct {
	id    int
	lines []inputLine
}

// lineJobResult carries the results of a batch back to the writer
type lineJobResult struct {
	id      int
	results []ports.LineResult
}

// processParallel fans batches out to workers and writes their results in
// batch order.
func (p *Processor) processParallel(ctx context.Context, reader io.Reader, writer io.Writer) (ports.StreamResult, error) {
	workers := p.config.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	jobs := make(chan lineJob, MaxJobQueueSize)
	results := make(chan lineJobResult, workers)

	g.Go(func() error {
		defer close(jobs)
		return p.readBatches(gctx, reader, jobs)
	})

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		g.Go(func() error {
			defer wg.Done()
			return p.worker(gctx, jobs, results)
		})
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	var (
		result   ports.StreamResult
		writeErr error
		pending  = make(map[int]lineJobResult)
		next     int
	)
	for res := range results {
		pending[res.id] = res
		for {
			ready, ok := pending[next]
			if !ok {
				break
			}
			delete(pending, next)
			next++
			for _, line := range ready.results {
				if writeErr != nil {
					break
				}
				if writeErr = p.write(writer, line, &result); writeErr != nil {
					cancel()
				}
			}
		}
	}

	if err := g.Wait(); err != nil && writeErr == nil {
		return result, err
	}
	return result, writeErr
}

func (p *Processor) readBatches(ctx context.Context, reader io.Reader, jobs chan<- lineJob) error {
	var (
		id    int
		batch []inputLine
	)
	send := func() error {
		if len(batch) == 0 {
			return nil
		}
		select {
		case jobs <- lineJob{id: id, lines: batch}:
			id++
			batch = nil
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	err := p.scan(reader, func(index int, line string) error {
		batch = append(batch, inputLine{index: index, text: line})
		if len(batch) >= p.config.BatchSize {
			return send()
		}
		return nil
	})
	if err != nil {
		return err
	}
	return send()
}

func (p *Processor) worker(ctx context.Context, jobs <-chan lineJob, results chan<- lineJobResult) error {
	for job := range jobs {
		out := lineJobResult{id: job.id, results: make([]ports.LineResult, 0, len(job.lines))}
		for _, line := range job.lines {
			res, err := p.processLine(ctx, line.index, line.text)
			if err != nil {
				return err
			}
			out.results = append(out.results, res)
		}

		select {
		case results <- out:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}
