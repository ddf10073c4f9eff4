package heft

import "sync"

// task runs fn over data split in contiguous chunks, one goroutine per worker.
// fn must only touch the element it is given.
func task[T any](workersCount int, data []T, fn func(data T)) {
	workersCount = max(1, workersCount)
	dataSize := len(data)
	if dataSize == 0 {
		return
	}
	if workersCount == 1 {
		for _, d := range data {
			fn(d)
		}
		return
	}

	var wg sync.WaitGroup
	chunkSize := (dataSize + workersCount - 1) / workersCount

	for start := 0; start < dataSize; start += chunkSize {
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				fn(data[i])
			}
		}(start, min(start+chunkSize, dataSize))
	}
	wg.Wait()
}
