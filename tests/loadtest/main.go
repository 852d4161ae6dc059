package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

const (
	baseURL      = "http://127.0.0.1:8080"
	numWorkers   = 20
	testDuration = 10 * time.Second
	numSessions  = 200
	numVariants  = 6
)

var departments = []string{"Engineering", "Design", "Marketing", "Sales", "Support"}

var names = []string{"Alex", "Sam", "Jordan", "Taylor", "Morgan", "Casey", "Riley", "Quinn"}

var httpClient = &http.Client{
	Timeout: 5 * time.Second,
	Transport: &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 100,
		IdleConnTimeout:     30 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   2 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
	},
}

type result struct {
	endpoint string
	status   int
	latency  time.Duration
	err      bool
}

type stats struct {
	count     int64
	errors    int64
	latencies []time.Duration
}

func main() {
	fmt.Println("=== Consentd Load Test ===")
	fmt.Printf("Workers: %d | Duration: %s\n", numWorkers, testDuration)
	fmt.Printf("Sessions: %d | Variants: %d | Departments: %d\n\n", numSessions, numVariants, len(departments))

	// Wait for server
	fmt.Print("Waiting for server... ")
	for i := 0; i < 30; i++ {
		resp, err := httpClient.Get(baseURL + "/api/health")
		if err == nil {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			break
		}
		if i == 29 {
			fmt.Println("FAILED: server not responding")
			return
		}
		time.Sleep(200 * time.Millisecond)
	}
	fmt.Println("OK")

	// Phase 1: Seed responses
	fmt.Println("\n--- Phase 1: Seeding responses (POST /api/responses) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		return doSubmit(rng)
	})

	// Phase 2: Mixed read/write load
	fmt.Println("\n--- Phase 2: Mixed load (50% POST, 50% GET) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		r := rng.Float64()
		switch {
		case r < 0.50:
			return doSubmit(rng)
		case r < 0.70:
			return doList(rng)
		case r < 0.90:
			return doStats()
		default:
			return doExportJSON()
		}
	})

	// Phase 3: Read-heavy load
	fmt.Println("\n--- Phase 3: Read-heavy load (10% POST, 90% GET) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		r := rng.Float64()
		switch {
		case r < 0.10:
			return doSubmit(rng)
		case r < 0.45:
			return doList(rng)
		case r < 0.80:
			return doStats()
		case r < 0.90:
			return doExportJSON()
		default:
			return doExportCSV()
		}
	})
}

func runPhase(duration time.Duration, workFn func(rng *rand.Rand) result) {
	results := make(chan result, 10000)
	var wg sync.WaitGroup
	var totalOps atomic.Int64
	stop := make(chan struct{})

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for {
				select {
				case <-stop:
					return
				default:
					r := workFn(rng)
					totalOps.Add(1)
					results <- r
				}
			}
		}(rand.Int63() + int64(i))
	}

	allResults := make(map[string]*stats)
	done := make(chan struct{})
	go func() {
		for r := range results {
			s, ok := allResults[r.endpoint]
			if !ok {
				s = &stats{}
				allResults[r.endpoint] = s
			}
			s.count++
			if r.err {
				s.errors++
			}
			s.latencies = append(s.latencies, r.latency)
		}
		close(done)
	}()

	time.Sleep(duration)
	close(stop)
	wg.Wait()
	close(results)
	<-done

	printResults(allResults, duration)
}

func printResults(allResults map[string]*stats, duration time.Duration) {
	var totalOps int64
	var totalErrors int64

	endpoints := make([]string, 0, len(allResults))
	for ep := range allResults {
		endpoints = append(endpoints, ep)
	}
	sort.Strings(endpoints)

	fmt.Printf("\n  %-30s %8s %6s %10s %10s %10s %10s\n",
		"Endpoint", "Reqs", "Errs", "Avg", "P50", "P95", "P99")
	fmt.Println("  " + repeat("-", 96))

	for _, ep := range endpoints {
		s := allResults[ep]
		totalOps += s.count
		totalErrors += s.errors

		sort.Slice(s.latencies, func(i, j int) bool {
			return s.latencies[i] < s.latencies[j]
		})

		avg := avgDuration(s.latencies)
		p50 := percentile(s.latencies, 0.50)
		p95 := percentile(s.latencies, 0.95)
		p99 := percentile(s.latencies, 0.99)

		fmt.Printf("  %-30s %8d %6d %10s %10s %10s %10s\n",
			ep, s.count, s.errors, fmtDur(avg), fmtDur(p50), fmtDur(p95), fmtDur(p99))
	}

	rps := float64(totalOps) / duration.Seconds()
	fmt.Println("  " + repeat("-", 96))
	fmt.Printf("  Total: %d reqs | Errors: %d (%.1f%%) | RPS: %.0f\n",
		totalOps, totalErrors, float64(totalErrors)/float64(totalOps)*100, rps)
}

func doSubmit(rng *rand.Rand) result {
	ratings := make(map[string]int, numVariants)
	for i := 1; i <= numVariants; i++ {
		ratings[fmt.Sprintf("variant-%d", i)] = rng.Intn(10) + 1
	}

	body := map[string]interface{}{
		"sessionId": fmt.Sprintf("session_%d", rng.Intn(numSessions)),
		"feedback": map[string]interface{}{
			"participantName": names[rng.Intn(len(names))],
			"department":      departments[rng.Intn(len(departments))],
			"favorite":        fmt.Sprintf("variant-%d", rng.Intn(numVariants)+1),
			"mostTrusted":     fmt.Sprintf("variant-%d", rng.Intn(numVariants)+1),
		},
		"ratings":      ratings,
		"timeSpent":    map[string]interface{}{"totalSeconds": rng.Intn(600) + 30},
		"interactions": []string{"view", "click"},
	}

	data, _ := json.Marshal(body)
	start := time.Now()
	resp, err := httpClient.Post(baseURL+"/api/responses", "application/json", bytes.NewReader(data))
	lat := time.Since(start)
	if err != nil {
		return result{"POST /api/responses", 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{"POST /api/responses", resp.StatusCode, lat, resp.StatusCode != 201}
}

func doList(rng *rand.Rand) result {
	url := baseURL + "/api/responses"
	if rng.Float64() < 0.5 {
		url += "?department=" + departments[rng.Intn(len(departments))]
	}
	start := time.Now()
	resp, err := httpClient.Get(url)
	lat := time.Since(start)
	if err != nil {
		return result{"GET /api/responses", 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{"GET /api/responses", resp.StatusCode, lat, resp.StatusCode != 200}
}

func doStats() result {
	start := time.Now()
	resp, err := httpClient.Get(baseURL + "/api/stats")
	lat := time.Since(start)
	if err != nil {
		return result{"GET /api/stats", 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{"GET /api/stats", resp.StatusCode, lat, resp.StatusCode != 200}
}

func doExportJSON() result {
	start := time.Now()
	resp, err := httpClient.Get(baseURL + "/api/responses/export/json")
	lat := time.Since(start)
	if err != nil {
		return result{"GET /api/responses/export/json", 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{"GET /api/responses/export/json", resp.StatusCode, lat, resp.StatusCode != 200}
}

func doExportCSV() result {
	start := time.Now()
	resp, err := httpClient.Get(baseURL + "/api/responses/export/csv")
	lat := time.Since(start)
	if err != nil {
		return result{"GET /api/responses/export/csv", 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{"GET /api/responses/export/csv", resp.StatusCode, lat, resp.StatusCode != 200}
}

func avgDuration(d []time.Duration) time.Duration {
	if len(d) == 0 {
		return 0
	}
	var sum time.Duration
	for _, v := range d {
		sum += v
	}
	return sum / time.Duration(len(d))
}

func percentile(d []time.Duration, p float64) time.Duration {
	if len(d) == 0 {
		return 0
	}
	idx := int(float64(len(d)) * p)
	if idx >= len(d) {
		idx = len(d) - 1
	}
	return d[idx]
}

func fmtDur(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	}
	return fmt.Sprintf("%.1fms", float64(d.Microseconds())/1000.0)
}

func repeat(s string, n int) string {
	out := ""
	for i := 0; i < n; i++ {
		out += s
	}
	return out
}
