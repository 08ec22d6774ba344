// Command bench runs synthetic workloads against the cache. The zipf
// scenario drives the sharded front with concurrent workers and exposes
// optional pprof and Prometheus endpoints. The hot, loop and shift
// scenarios replay a single-threaded access trace against every eviction
// engine and print per-engine hit rates side by side.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	_ "net/http/pprof" // registers /debug/pprof/* on DefaultServeMux
	"os"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/IvanBrykalov/polycache/cache"
	"github.com/IvanBrykalov/polycache/internal/util"
	pmet "github.com/IvanBrykalov/polycache/metrics/prom"
	"github.com/IvanBrykalov/polycache/policy"
	"github.com/IvanBrykalov/polycache/policy/arc"
	"github.com/IvanBrykalov/polycache/policy/lfu"
	"github.com/IvanBrykalov/polycache/policy/lru"
	"github.com/IvanBrykalov/polycache/policy/lruk"
	"github.com/IvanBrykalov/polycache/policy/twoq"
	flags "github.com/jessevdk/go-flags"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
)

type config struct {
	Scenario string `long:"scenario" choice:"zipf" choice:"hot" choice:"loop" choice:"shift" description:"zipf drives the sharded cache; hot, loop and shift compare eviction engines"`

	Capacity int           `long:"cap" description:"cache capacity (entries)"`
	Shards   int           `long:"shards" description:"number of shards (0 = auto)"`
	Workers  int           `long:"workers" description:"worker goroutines (0 = 2*GOMAXPROCS)"`
	Duration time.Duration `long:"duration" description:"zipf benchmark duration"`
	Reads    int           `long:"reads" description:"read percentage [0..100]"`

	Keys    int     `long:"keys" description:"keyspace size"`
	ZipfS   float64 `long:"zipf-s" description:"Zipf s > 1 (skew)"`
	ZipfV   float64 `long:"zipf-v" description:"Zipf v >= 1"`
	Seed    int64   `long:"seed" description:"random seed (0 = time-based)"`
	Preload int     `long:"preload" description:"preload entries (0 = cap/2)"`

	PprofAddr   string `long:"pprof" description:"serve pprof at addr (e.g. :6060); empty = disabled"`
	MetricsAddr string `long:"http" description:"serve Prometheus metrics at addr"`
}

func main() {
	cfg := config{
		Scenario:    "zipf",
		Capacity:    100_000,
		Duration:    10 * time.Second,
		Reads:       80,
		Keys:        1_000_000,
		ZipfS:       1.1,
		ZipfV:       1.0,
		MetricsAddr: ":8080",
	}
	if _, err := flags.Parse(&cfg); err != nil {
		var fe *flags.Error
		if errors.As(err, &fe) && fe.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if cfg.Shards == 0 {
		cfg.Shards = util.ReasonableShardCount()
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 2 * runtime.GOMAXPROCS(0)
	}
	if cfg.Keys < 1 {
		cfg.Keys = 1
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	switch cfg.Scenario {
	case "hot", "loop", "shift":
		comparePolicies(cfg.Scenario, cfg.Seed)
	default:
		runZipf(cfg)
	}
}

// ---- zipf: concurrent load against the sharded cache ----

func runZipf(cfg config) {
	if cfg.ZipfS <= 1 || cfg.ZipfV < 1 {
		log.Fatal("zipf requires s > 1 and v >= 1")
	}

	// ---- pprof server (on DefaultServeMux) ----
	if cfg.PprofAddr != "" {
		go func() {
			log.Printf("pprof: serving at %s", cfg.PprofAddr)
			log.Println(http.ListenAndServe(cfg.PprofAddr, nil))
		}()
	}

	// ---- Prometheus metrics (on DefaultServeMux) ----
	metrics := pmet.New(nil, "polycache", "bench", nil)
	http.Handle("/metrics", promhttp.Handler())
	go func() {
		log.Printf("metrics: serving at %s", cfg.MetricsAddr)
		log.Println(http.ListenAndServe(cfg.MetricsAddr, nil))
	}()

	c := cache.New[string, string](cache.Options[string, string]{
		Capacity: cfg.Capacity,
		Shards:   cfg.Shards,
		Metrics:  metrics,
	})
	defer func() { _ = c.Close() }()
	metrics.TrackLen(c.Len)

	// ---- Preload half capacity to get a realistic hit-rate ----
	pl := cfg.Preload
	if pl == 0 {
		pl = cfg.Capacity / 2
	}
	for i := 0; i < pl; i++ {
		c.Put("k:"+strconv.Itoa(i), "v"+strconv.Itoa(i))
	}

	keysMax := uint64(cfg.Keys - 1)
	var reads, writes, hits, misses, total uint64

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Duration)
	defer cancel()

	start := time.Now()
	var g errgroup.Group
	for w := 0; w < cfg.Workers; w++ {
		g.Go(func() error {
			// Each worker gets its own RNG + Zipf (rand.Rand is NOT goroutine-safe).
			r := rand.New(rand.NewSource(cfg.Seed + int64(w)*9973))
			zipf := rand.NewZipf(r, cfg.ZipfS, cfg.ZipfV, keysMax)

			keyByZipf := func() string {
				return "k:" + strconv.FormatUint(zipf.Uint64(), 10)
			}

			for ctx.Err() == nil {
				atomic.AddUint64(&total, 1)
				if int(r.Int31n(100)) < cfg.Reads {
					atomic.AddUint64(&reads, 1)
					if _, ok := c.Get(keyByZipf()); ok {
						atomic.AddUint64(&hits, 1)
					} else {
						atomic.AddUint64(&misses, 1)
					}
				} else {
					atomic.AddUint64(&writes, 1)
					c.Put(keyByZipf(), "v"+strconv.Itoa(r.Int()))
				}
			}
			return nil
		})
	}
	_ = g.Wait()
	elapsed := time.Since(start)

	// ---- Report ----
	ops := atomic.LoadUint64(&total)
	readsN := atomic.LoadUint64(&reads)
	writesN := atomic.LoadUint64(&writes)
	hitsN := atomic.LoadUint64(&hits)
	missesN := atomic.LoadUint64(&misses)

	hitRate := 0.0
	if readsN > 0 {
		hitRate = float64(hitsN) / float64(readsN) * 100
	}

	fmt.Printf("scenario=zipf cap=%d shards=%d workers=%d keys=%d dur=%v seed=%d\n",
		cfg.Capacity, cfg.Shards, cfg.Workers, cfg.Keys, elapsed, cfg.Seed)
	fmt.Printf("ops=%d (%.0f ops/s)  reads=%d  writes=%d\n",
		ops, float64(ops)/elapsed.Seconds(), readsN, writesN)
	fmt.Printf("hits=%d  misses=%d  hit-rate=%.2f%%\n", hitsN, missesN, hitRate)
	fmt.Printf("len=%d  stats=%+v\n", c.Len(), c.Stats())
}

// ---- hot/loop/shift: single-threaded engine comparison ----

type entrant struct {
	name string
	eng  policy.Policy[int, string]
}

// buildEngines constructs one instance of every eviction engine at the
// given capacity. histCap sizes the LRU-K history; agingMaxAvg sets the
// LFU aging threshold.
func buildEngines(capacity, histCap, agingMaxAvg int) []entrant {
	return []entrant{
		{"lru", lru.New[int, string](capacity)},
		{"lru-k", lruk.New[int, string](capacity, histCap, 2)},
		{"lfu", lfu.New[int, string](capacity)},
		{"lfu-aging", lfu.NewWithAging[int, string](capacity, agingMaxAvg)},
		{"arc", arc.New[int, string](capacity)},
		{"2q", twoq.New[int, string](capacity)},
	}
}

func comparePolicies(scenario string, seed int64) {
	var (
		capacity int
		engines  []entrant
		run      func(policy.Policy[int, string], *rand.Rand) (uint64, uint64)
	)
	switch scenario {
	case "hot":
		capacity = 20
		engines = buildEngines(capacity, 5_020, 20_000)
		run = runHot
	case "loop":
		capacity = 50
		engines = buildEngines(capacity, 1_000, 3_000)
		run = runLoop
	case "shift":
		capacity = 30
		engines = buildEngines(capacity, 500, 10_000)
		run = runShift
	}

	fmt.Printf("scenario=%s cap=%d seed=%d\n", scenario, capacity, seed)
	for _, e := range engines {
		// Identical seed per engine so every engine replays the same trace.
		gets, hits := run(e.eng, rand.New(rand.NewSource(seed)))
		rate := 0.0
		if gets > 0 {
			rate = 100 * float64(hits) / float64(gets)
		}
		fmt.Printf("%-10s hit-rate=%6.2f%%  (%d/%d)\n", e.name, rate, hits, gets)
	}
}

// runHot mixes a small always-hot key set with a long cold tail:
// 30% writes, and reads split 70/30 between 20 hot and 5000 cold keys.
func runHot(eng policy.Policy[int, string], r *rand.Rand) (gets, hits uint64) {
	const (
		operations = 500_000
		hotKeys    = 20
		coldKeys   = 5_000
	)

	for key := 0; key < hotKeys; key++ {
		eng.Put(key, "value"+strconv.Itoa(key))
	}

	for op := 0; op < operations; op++ {
		isPut := r.Intn(100) < 30

		var key int
		if r.Intn(100) < 70 {
			key = r.Intn(hotKeys)
		} else {
			key = hotKeys + r.Intn(coldKeys)
		}

		if isPut {
			eng.Put(key, "value"+strconv.Itoa(key)+"_v"+strconv.Itoa(op%100))
		} else {
			gets++
			if _, ok := eng.Get(key); ok {
				hits++
			}
		}
	}
	return gets, hits
}

// runLoop sweeps a loop of 500 keys sequentially with random jumps and
// occasional out-of-range touches. Sequential sweeps far wider than the
// cache are the classic LRU worst case.
func runLoop(eng policy.Policy[int, string], r *rand.Rand) (gets, hits uint64) {
	const (
		loopSize   = 500
		operations = 200_000
	)

	for key := 0; key < loopSize/5; key++ {
		eng.Put(key, "loop"+strconv.Itoa(key))
	}

	pos := 0
	for op := 0; op < operations; op++ {
		isPut := r.Intn(100) < 20

		var key int
		switch m := op % 100; {
		case m < 60: // sequential sweep
			key = pos
			pos = (pos + 1) % loopSize
		case m < 90: // random jump inside the loop
			key = r.Intn(loopSize)
		default: // out-of-range touch
			key = loopSize + r.Intn(loopSize)
		}

		if isPut {
			eng.Put(key, "loop"+strconv.Itoa(key)+"_v"+strconv.Itoa(op%100))
		} else {
			gets++
			if _, ok := eng.Get(key); ok {
				hits++
			}
		}
	}
	return gets, hits
}

// runShift drives five consecutive phases with distinct access patterns
// and write ratios, so engines are judged on how fast they re-learn the
// working set after each shift.
func runShift(eng policy.Policy[int, string], r *rand.Rand) (gets, hits uint64) {
	const (
		operations  = 80_000
		phaseLength = operations / 5
	)

	for key := 0; key < 30; key++ {
		eng.Put(key, "init"+strconv.Itoa(key))
	}

	putPct := [5]int{15, 30, 10, 25, 20}

	for op := 0; op < operations; op++ {
		phase := op / phaseLength
		isPut := r.Intn(100) < putPct[phase]

		var key int
		switch {
		case op < phaseLength: // five hot keys
			key = r.Intn(5)
		case op < phaseLength*2: // wide uniform range
			key = r.Intn(400)
		case op < phaseLength*3: // sequential sweep over 100
			key = (op - phaseLength*2) % 100
		case op < phaseLength*4: // drifting locality pockets of 15
			key = ((op/800)%5)*15 + r.Intn(15)
		default: // mixed tail
			switch q := r.Intn(100); {
			case q < 40:
				key = r.Intn(5)
			case q < 70:
				key = 5 + r.Intn(45)
			default:
				key = 50 + r.Intn(350)
			}
		}

		if isPut {
			eng.Put(key, "value"+strconv.Itoa(key)+"_p"+strconv.Itoa(phase))
		} else {
			gets++
			if _, ok := eng.Get(key); ok {
				hits++
			}
		}
	}
	return gets, hits
}
