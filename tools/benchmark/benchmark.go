// Package main provides a simple HTTP benchmark tool for the classify endpoint
package main

import (
	"crypto/tls"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/muliwe/go-triangle-classifier/internal/server"
	"github.com/muliwe/go-triangle-classifier/internal/triangle"
)

func main() {
	base := flag.String("url", "http://localhost:8080/classify", "Target classify URL")
	duration := flag.Duration("duration", 10*time.Second, "Test duration")
	concurrency := flag.Int("c", 10, "Number of concurrent workers")
	insecure := flag.Bool("insecure", false, "Skip TLS certificate verification")
	flag.Parse()

	fmt.Printf("Benchmarking %s\n", *base)
	fmt.Printf("Duration: %v, Concurrency: %d\n\n", *duration, *concurrency)

	targets, err := buildTargets(*base, triangle.Samples())
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid url: %v\n", err)
		os.Exit(2)
	}

	// Create HTTP client
	tr := &http.Transport{
		MaxIdleConns:        *concurrency * 2,
		MaxIdleConnsPerHost: *concurrency * 2,
		IdleConnTimeout:     90 * time.Second,
	}
	if *insecure {
		tr.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec
	}
	client := &http.Client{
		Transport: tr,
		Timeout:   5 * time.Second,
	}

	var (
		totalRequests   int64
		totalErrors     int64
		totalMismatches int64
		totalLatency    int64 // in microseconds
		minLatency      int64 = 1<<63 - 1
		maxLatency      int64
		next            int64
		wg              sync.WaitGroup
		stop            = make(chan struct{})
	)

	// Start workers
	for i := 0; i < *concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
					t := targets[int(atomic.AddInt64(&next, 1))%len(targets)]

					start := time.Now()
					got, err := classify(client, t.url)
					latency := time.Since(start).Microseconds()

					if err != nil {
						atomic.AddInt64(&totalErrors, 1)
						continue
					}
					if got != t.want {
						atomic.AddInt64(&totalMismatches, 1)
					}

					atomic.AddInt64(&totalRequests, 1)
					atomic.AddInt64(&totalLatency, latency)

					// Update min/max (approximate, not perfectly thread-safe)
					for {
						old := atomic.LoadInt64(&minLatency)
						if latency >= old || atomic.CompareAndSwapInt64(&minLatency, old, latency) {
							break
						}
					}
					for {
						old := atomic.LoadInt64(&maxLatency)
						if latency <= old || atomic.CompareAndSwapInt64(&maxLatency, old, latency) {
							break
						}
					}
				}
			}
		}()
	}

	// Progress ticker
	ticker := time.NewTicker(time.Second)
	go func() {
		elapsed := 0
		for range ticker.C {
			elapsed++
			reqs := atomic.LoadInt64(&totalRequests)
			errs := atomic.LoadInt64(&totalErrors)
			fmt.Printf("[%ds] Requests: %d, Errors: %d, RPS: %.0f\n",
				elapsed, reqs, errs, float64(reqs)/float64(elapsed))
		}
	}()

	// Wait for duration
	time.Sleep(*duration)
	close(stop)
	ticker.Stop()
	wg.Wait()

	// Results
	reqs := atomic.LoadInt64(&totalRequests)
	errs := atomic.LoadInt64(&totalErrors)
	mismatches := atomic.LoadInt64(&totalMismatches)
	latencyTotal := atomic.LoadInt64(&totalLatency)
	minLat := atomic.LoadInt64(&minLatency)
	maxLat := atomic.LoadInt64(&maxLatency)

	avgLatency := float64(0)
	if reqs > 0 {
		avgLatency = float64(latencyTotal) / float64(reqs)
	} else {
		minLat = 0
	}

	rps := float64(reqs) / duration.Seconds()

	fmt.Println("\n========== RESULTS ==========")
	fmt.Printf("Total requests:  %d\n", reqs)
	fmt.Printf("Total errors:    %d\n", errs)
	fmt.Printf("Mismatches:      %d\n", mismatches)
	fmt.Printf("Duration:        %v\n", *duration)
	fmt.Printf("Concurrency:     %d\n", *concurrency)
	fmt.Println()
	fmt.Printf("RPS:             %.2f\n", rps)
	fmt.Printf("RPM:             %.0f\n", rps*60)
	fmt.Println()
	fmt.Printf("Latency avg:     %.2f µs (%.3f ms)\n", avgLatency, avgLatency/1000)
	fmt.Printf("Latency min:     %d µs (%.3f ms)\n", minLat, float64(minLat)/1000)
	fmt.Printf("Latency max:     %d µs (%.3f ms)\n", maxLat, float64(maxLat)/1000)

	if errs > 0 || mismatches > 0 {
		os.Exit(1)
	}
}

type target struct {
	url  string
	want triangle.Type
}

// buildTargets expands base into one GET URL per sample
func buildTargets(base string, samples []triangle.Sample) ([]target, error) {
	u, err := url.Parse(base)
	if err != nil {
		return nil, err
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%q must be absolute", base)
	}

	targets := make([]target, 0, len(samples))
	for _, s := range samples {
		q := u.Query()
		q.Set("a", strconv.Itoa(s.Sides.A))
		q.Set("b", strconv.Itoa(s.Sides.B))
		q.Set("c", strconv.Itoa(s.Sides.C))
		u.RawQuery = q.Encode()
		targets = append(targets, target{url: u.String(), want: s.Want})
	}
	return targets, nil
}

func classify(client *http.Client, u string) (triangle.Type, error) {
	resp, err := client.Get(u)
	if err != nil {
		return triangle.Invalid, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return triangle.Invalid, fmt.Errorf("status %s", strings.TrimSpace(resp.Status))
	}

	var r server.Response
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return triangle.Invalid, err
	}
	return r.Classification, nil
}
