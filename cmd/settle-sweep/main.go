package main

import (
	"flag"
	"fmt"
	"runtime"
	"sort"
	"sync"
	"time"

	"sandfall/internal/sims/sandbox"
)

type paramSet struct {
	friction    float64
	ejection    float64
	restitution float64
	settleSpeed float64
}

func (p paramSet) String() string {
	return fmt.Sprintf("friction=%.2f ejection=%.2f restitution=%.2f settle=%.3f",
		p.friction, p.ejection, p.restitution, p.settleSpeed)
}

type scenarioResult struct {
	params paramSet

	peakActive   int
	quiescedStep int
	finalActive  int
	movableDrift int
}

func main() {
	steps := flag.Int("steps", 600, "ticks to simulate per scenario")
	workers := flag.Int("workers", runtime.NumCPU(), "number of worker goroutines")
	flag.Parse()

	baseCfg := sandbox.DefaultConfig()
	baseCfg.Width = 128
	baseCfg.Height = 128
	baseCfg.Params.WallChance = 0
	baseCfg.Params.WaterPoolWidth = 0
	baseCfg.Params.SandPileCount = 4

	frictionOptions := []float64{0.6, 1.0, 1.6}
	ejectionOptions := []float64{0.35, 0.55, 0.75}
	restitutionOptions := []float64{0.25, 0.45, 0.65}
	settleOptions := []float64{0.04, 0.08, 0.16}

	var sets []paramSet
	for _, friction := range frictionOptions {
		for _, ejection := range ejectionOptions {
			for _, restitution := range restitutionOptions {
				for _, settle := range settleOptions {
					sets = append(sets, paramSet{
						friction:    friction,
						ejection:    ejection,
						restitution: restitution,
						settleSpeed: settle,
					})
				}
			}
		}
	}

	fmt.Printf("Sweeping %d parameter sets (%d workers, %d steps)\n", len(sets), *workers, *steps)

	jobs := make(chan paramSet)
	results := make(chan scenarioResult)
	var wg sync.WaitGroup

	for i := 0; i < *workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for params := range jobs {
				results <- runScenario(baseCfg, params, *steps)
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	go func() {
		for _, params := range sets {
			jobs <- params
		}
		close(jobs)
	}()

	start := time.Now()
	var all []scenarioResult
	for res := range results {
		all = append(all, res)
		if res.movableDrift != 0 {
			fmt.Printf("Mass drift %+d with %s\n", res.movableDrift, res.params)
		}
	}

	// Fastest full settle first, never-settled scenarios last.
	sort.Slice(all, func(i, j int) bool {
		qi, qj := all[i].quiescedStep, all[j].quiescedStep
		if (qi < 0) != (qj < 0) {
			return qj < 0
		}
		if qi != qj {
			return qi < qj
		}
		return all[i].finalActive < all[j].finalActive
	})
	elapsed := time.Since(start)

	fmt.Printf("\nTop 10 results (elapsed %s):\n", elapsed.Round(time.Millisecond))
	for i := 0; i < len(all) && i < 10; i++ {
		res := all[i]
		quiesced := "never"
		if res.quiescedStep >= 0 {
			quiesced = fmt.Sprintf("step %d", res.quiescedStep)
		}
		fmt.Printf("%2d) quiesced=%s peak=%d final=%d drift=%+d params=%s\n",
			i+1, quiesced, res.peakActive, res.finalActive, res.movableDrift, res.params)
	}
}

func runScenario(base sandbox.Config, params paramSet, steps int) scenarioResult {
	cfg := base
	cfg.Params.FrictionAmplifier = params.friction
	cfg.Params.EjectionThreshold = params.ejection
	cfg.Params.Restitution = params.restitution
	cfg.Params.SettleSpeed = params.settleSpeed

	world := sandbox.NewWithConfig(cfg)
	world.Reset(1337)

	before := countMovable(world)

	// A burst of upward force under the center kicks loose material into the
	// ballistic buffer; the sweep then watches how long it takes to settle.
	size := world.Size()
	cx := size.W / 2
	cy := size.H - 8
	for dy := -3; dy <= 3; dy++ {
		for dx := -3; dx <= 3; dx++ {
			if dx*dx+dy*dy > 9 {
				continue
			}
			world.SetForce(cx+dx, cy+dy, 0, -1)
		}
	}

	res := scenarioResult{params: params, quiescedStep: -1}
	burstTicks := 16
	for step := 0; step < steps; step++ {
		if step == burstTicks {
			for dy := -3; dy <= 3; dy++ {
				for dx := -3; dx <= 3; dx++ {
					world.SetForce(cx+dx, cy+dy, 0, 0)
				}
			}
		}
		world.Step()

		active := world.ActiveParticles()
		if active > res.peakActive {
			res.peakActive = active
		}
		if step > burstTicks && active == 0 && res.quiescedStep < 0 {
			res.quiescedStep = step
		}
	}

	res.finalActive = world.ActiveParticles()
	res.movableDrift = countMovable(world) + res.finalActive - before
	return res
}

func countMovable(world *sandbox.World) int {
	n := 0
	for _, c := range world.Grid() {
		if c.Type.Movable() {
			n++
		}
	}
	return n
}
