/*
Package workers sizes and runs small worker pools in containerized
environments.

Go 1.19+ sets GOMAXPROCS from the container CPU limit, while runtime.NumCPU
still reports the host. Count and its helpers derive pool sizes from
GOMAXPROCS:

	n := workers.ForCPU(8)  // thumbnail encoding, max 8 workers
	n := workers.ForIO(16)  // blob writes, max 16 workers

The UPLOAD_WORKERS environment variable pins the count for every helper,
still capped by the limit argument.

Each fans a fixed number of index-addressed jobs out to a pool and waits for
them to finish:

	results := make([]Result, len(files))
	err := workers.Each(ctx, len(files), workers.ForCPU(4), func(ctx context.Context, i int) {
		results[i] = process(ctx, files[i])
	})
*/
package workers
