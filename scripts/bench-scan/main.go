// bench-scan measures wall time and heap usage of temporal scans at varying
// worker counts against a real configuration repository.
//
// Usage:
//
//	go run ./scripts/bench-scan --repo ~/sources/cloud-config --old v1.0 --new v2.0 \
//	  --workers 1,2,4,8 --profile-dir docs/profiles/scan
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"
	"strconv"
	"strings"
	"time"

	"github.com/Sumatoshi-tech/confdrift/pkg/drift"
	"github.com/Sumatoshi-tech/confdrift/pkg/gitstore"
)

func main() {
	repoPath := flag.String("repo", "", "Path to configuration repository")
	oldRev := flag.String("old", "", "Old revision")
	newRev := flag.String("new", "HEAD", "New revision")
	configRoot := flag.String("config-root", "", "Directory holding the environment subdirectories")
	workerList := flag.String("workers", "1,2,4,8", "Comma-separated worker counts to benchmark")
	rounds := flag.Int("rounds", 3, "Scans per worker count")
	profileDir := flag.String("profile-dir", "", "Directory to write pprof profiles (optional)")
	cpuProfile := flag.Bool("cpu-profile", false, "Write CPU profile to profile-dir/cpu.prof")

	flag.Parse()

	if *repoPath == "" {
		log.Fatal("--repo is required")
	}

	if *oldRev == "" {
		log.Fatal("--old is required")
	}

	if *profileDir != "" {
		if err := os.MkdirAll(*profileDir, 0o755); err != nil {
			log.Fatalf("mkdir profile-dir: %v", err)
		}
	}

	if *cpuProfile {
		if *profileDir == "" {
			log.Fatal("--cpu-profile requires --profile-dir")
		}

		cpuPath := filepath.Join(*profileDir, "cpu.prof")

		cpuFile, cpuErr := os.Create(cpuPath)
		if cpuErr != nil {
			log.Fatalf("create cpu profile: %v", cpuErr)
		}
		defer cpuFile.Close()

		if startErr := pprof.StartCPUProfile(cpuFile); startErr != nil {
			log.Fatalf("start cpu profile: %v", startErr)
		}

		defer pprof.StopCPUProfile()

		log.Printf("CPU profiling enabled -> %s", cpuPath)
	}

	repo, err := gitstore.Open(*repoPath)
	if err != nil {
		log.Fatalf("open repo: %v", err)
	}
	defer repo.Close()

	type measurement struct {
		workers   int
		elapsed   time.Duration
		heapInUse uint64
		files     int
	}

	var results []measurement

	ctx := context.Background()

	for _, workers := range parseWorkerCounts(*workerList) {
		scanner := drift.NewScanner(repo, drift.NewNormalizer(), drift.ScannerOptions{
			ConfigRoot: *configRoot,
			Workers:    workers,
		})

		best := measurement{workers: workers}

		for round := range *rounds {
			runtime.GC()

			start := time.Now()

			result, scanErr := scanner.Temporal(ctx, *oldRev, *newRev)
			if scanErr != nil {
				log.Fatalf("scan (workers=%d): %v", workers, scanErr)
			}

			elapsed := time.Since(start)

			var m runtime.MemStats
			runtime.ReadMemStats(&m)

			files := 0
			for _, report := range result.Environments {
				files += len(report)
			}

			log.Printf("workers=%d round=%d elapsed=%s heap=%.1f MB files=%d",
				workers, round+1, elapsed, float64(m.HeapInuse)/1e6, files)

			if best.elapsed == 0 || elapsed < best.elapsed {
				best.elapsed = elapsed
				best.heapInUse = m.HeapInuse
				best.files = files
			}
		}

		results = append(results, best)

		if *profileDir != "" {
			writeHeapProfile(*profileDir, fmt.Sprintf("heap_workers_%d.prof", workers))
		}
	}

	fmt.Println()
	fmt.Println("=== Scan Timings (best of rounds) ===")
	fmt.Printf("%-10s %12s %12s %8s\n", "Workers", "Elapsed", "Heap(MB)", "Files")

	for _, r := range results {
		fmt.Printf("%-10d %12s %12.1f %8d\n",
			r.workers, r.elapsed.Round(time.Millisecond), float64(r.heapInUse)/1e6, r.files)
	}
}

func parseWorkerCounts(list string) []int {
	var counts []int

	for _, part := range strings.Split(list, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n <= 0 {
			log.Fatalf("invalid worker count %q", part)
		}

		counts = append(counts, n)
	}

	if len(counts) == 0 {
		log.Fatal("--workers must name at least one count")
	}

	return counts
}

func writeHeapProfile(dir, name string) {
	runtime.GC()
	runtime.GC()

	path := filepath.Join(dir, name)

	f, ferr := os.Create(path)
	if ferr != nil {
		log.Printf("warning: create heap profile %s: %v", path, ferr)

		return
	}
	defer f.Close()

	if perr := pprof.WriteHeapProfile(f); perr != nil {
		log.Printf("warning: write heap profile %s: %v", path, perr)
	}
}
