// Batch refresh CLI: re-fetch cached endpoint data for one symbol or for
// the whole portfolio, outside the API server.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"stock_research/pkg/core/fmpclient"
	"stock_research/pkg/core/portfolio"
	"stock_research/pkg/core/refresh"
	"stock_research/pkg/core/registry"
	"stock_research/pkg/core/snapcache"
	"stock_research/pkg/core/store"

	"github.com/joho/godotenv"
)

func main() {
	symbolFlag := flag.String("symbol", "", "single symbol to refresh (default: whole portfolio)")
	flag.Parse()

	godotenv.Load()
	ctx := context.Background()

	if err := store.InitDB(ctx); err != nil {
		fmt.Printf("[REFRESH] Database required for batch refresh: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()
	pool := store.GetPool()

	regStore := registry.NewPGStore(pool)
	cache := snapcache.NewCache(pool, "")
	routine := refresh.NewRoutine(regStore, cache, fmpclient.New(), os.Getenv("FMP_API_KEY"))

	var symbols []string
	if *symbolFlag != "" {
		symbols = []string{strings.ToUpper(*symbolFlag)}
	} else {
		var err error
		symbols, err = portfolio.NewPGStore(pool).Symbols(ctx)
		if err != nil {
			fmt.Printf("[REFRESH] Failed to list portfolio: %v\n", err)
			os.Exit(1)
		}
	}
	if len(symbols) == 0 {
		fmt.Println("[REFRESH] Nothing to refresh")
		return
	}

	failures := 0
	for _, symbol := range symbols {
		count, err := routine.Refresh(ctx, symbol)
		if err != nil {
			fmt.Printf("[REFRESH] %s failed: %v\n", symbol, err)
			failures++
			continue
		}
		fmt.Printf("[REFRESH] %s: %d endpoints cached\n", symbol, count)
	}

	fmt.Printf("[REFRESH] Done: %d symbols, %d failures\n", len(symbols), failures)
	if failures == len(symbols) {
		os.Exit(1)
	}
}
