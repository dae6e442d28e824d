package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"sort"
	"strconv"
	"sync"
	"time"

	"regionmap/internal/cli"
	"regionmap/internal/sims/mapgen"

	"github.com/charmbracelet/lipgloss"
)

type seedResult struct {
	seed      int64
	regions   int
	rivers    int
	habitable int
	steps     int
	elapsed   time.Duration
	err       error
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	cellStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	failStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	frameStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("22")).Padding(0, 1)
)

var columns = []struct {
	title string
	width int
}{
	{"seed", 12},
	{"regions", 9},
	{"rivers", 8},
	{"habitable", 11},
	{"steps", 8},
	{"elapsed", 12},
}

func main() {
	mapCfg := mapgen.DefaultConfig()
	mapCfg.Bind(flag.CommandLine)
	count := flag.Int("count", 16, "number of consecutive seeds to generate")
	workers := flag.Int("workers", runtime.NumCPU(), "number of worker goroutines")
	verbose := flag.Bool("v", false, "log debug messages")
	var overrides cli.Overrides
	flag.Var(&overrides, "set", "map parameter override in key=value form (repeatable)")
	flag.Parse()

	mapCfg = overrides.Apply(mapCfg)
	if _, err := cli.Session(mapCfg); err != nil {
		log.Fatalf("mapgen-sweep: %v", err)
	}
	logger := cli.NewLogger(os.Stderr, *verbose)
	logger.Info("sweep started", "tiler", mapCfg.Tiler, "size", mapCfg.Size, "seeds", *count, "workers", *workers)

	jobs := make(chan int64)
	results := make(chan seedResult)
	var wg sync.WaitGroup

	for i := 0; i < max(*workers, 1); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for seed := range jobs {
				results <- runSeed(mapCfg, seed)
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	go func() {
		for i := 0; i < *count; i++ {
			jobs <- mapCfg.Seed + int64(i)
		}
		close(jobs)
	}()

	start := time.Now()
	var all []seedResult
	for res := range results {
		if res.err != nil {
			logger.Error("seed failed", "seed", res.seed, "err", res.err)
		} else {
			logger.Debug("seed done", "seed", res.seed, "regions", res.regions, "elapsed", res.elapsed)
		}
		all = append(all, res)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].seed < all[j].seed })

	fmt.Println(frameStyle.Render(table(all)))
	fmt.Printf("%d seeds in %s\n", len(all), time.Since(start).Round(time.Millisecond))
}

func runSeed(cfg mapgen.Config, seed int64) seedResult {
	cfg.Seed = seed
	res := seedResult{seed: seed}
	session, err := cli.Session(cfg)
	if err != nil {
		res.err = err
		return res
	}
	start := time.Now()
	res.steps = session.Run()
	res.elapsed = time.Since(start)
	res.regions = session.Regions()
	res.rivers = session.Rivers()
	res.habitable = session.Habitable()
	return res
}

func table(rows []seedResult) string {
	header := make([]string, len(columns))
	for i, col := range columns {
		header[i] = headerStyle.Width(col.width).Align(lipgloss.Right).Render(col.title)
	}
	lines := []string{lipgloss.JoinHorizontal(lipgloss.Top, header...)}
	for _, r := range rows {
		values := []string{
			strconv.FormatInt(r.seed, 10),
			strconv.Itoa(r.regions),
			strconv.Itoa(r.rivers),
			strconv.Itoa(r.habitable),
			strconv.Itoa(r.steps),
			r.elapsed.Round(time.Microsecond).String(),
		}
		style := cellStyle
		if r.err != nil {
			style = failStyle
			values = []string{strconv.FormatInt(r.seed, 10), "error", "", "", "", ""}
		}
		cells := make([]string, len(columns))
		for i, col := range columns {
			cells[i] = style.Width(col.width).Align(lipgloss.Right).Render(values[i])
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
