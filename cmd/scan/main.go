// Command scan reads a SAL screenshot or a semester bulletin from disk, runs
// it through the vision model and prints what would be merged into an empty
// gradebook. It is meant for trying prompts and models without the server.
//
//	scan SAL ./sal.png
//	SEMESTER=3 scan Bulletin ./zeugnis.jpg
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"

	"github.com/redis/go-redis/v9"

	"bmgrades.app/tracker/common/id"
	"bmgrades.app/tracker/common/llm"
	"bmgrades.app/tracker/common/logger"
	"bmgrades.app/tracker/core/config"
	"bmgrades.app/tracker/internal/curriculum"
	"bmgrades.app/tracker/internal/extraction"
	"bmgrades.app/tracker/internal/gradebook"
	"bmgrades.app/tracker/internal/reconcile"
)

func main() {
	if len(os.Args) != 3 {
		fmt.Fprintln(os.Stderr, "usage: scan <SAL|Bulletin> <image>")
		os.Exit(2)
	}
	ctx := context.Background()

	cfg, err := config.Load(config.ServiceTypeScan)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logger.Setup(cfg)
	if err := id.Init(2); err != nil {
		fmt.Fprintf(os.Stderr, "id: %v\n", err)
		os.Exit(1)
	}
	if !cfg.VisionLLM.Enabled() {
		fmt.Fprintln(os.Stderr, "VISION_LLM_API_KEY is required")
		os.Exit(1)
	}

	mode, err := extraction.ParseMode(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(2)
	}
	img, err := readImage(os.Args[2], cfg.Scan.MaxImageBytes)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	catalog, err := curriculum.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "curricula: %v\n", err)
		os.Exit(1)
	}
	bmType, err := curriculum.ParseBMType(getEnv("BM_TYPE", string(cfg.DefaultBMType)))
	if err != nil {
		fmt.Fprintf(os.Stderr, "BM_TYPE: %v\n", err)
		os.Exit(2)
	}
	cur, err := catalog.Get(bmType)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	client, err := llm.NewVisionClient(llm.Config{
		Provider:  cfg.VisionLLM.Provider,
		APIKey:    cfg.VisionLLM.APIKey,
		BaseURL:   cfg.VisionLLM.BaseURL,
		Model:     cfg.VisionLLM.Model,
		MaxTokens: cfg.VisionLLM.MaxTokens,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create vision client: %v\n", err)
		os.Exit(1)
	}

	// Cache is optional here; a scan without Redis just always calls the model.
	var cache extraction.Cache
	if url := os.Getenv("REDIS_URL"); url != "" {
		opts, err := redis.ParseURL(url)
		if err != nil {
			fmt.Fprintf(os.Stderr, "REDIS_URL: %v\n", err)
			os.Exit(1)
		}
		rdb := redis.NewClient(opts)
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			fmt.Fprintf(os.Stderr, "Scan cache: disabled (%v)\n", err)
		} else {
			cache = extraction.NewRedisCache(rdb, cfg.Redis.KeyPrefix+"scan:", cfg.Redis.ScanCacheTTL)
			fmt.Fprintf(os.Stderr, "Scan cache: connected\n")
		}
	}

	extractor := extraction.NewExtractor(client, cache, cfg.Scan.Timeout)
	fmt.Fprintf(os.Stderr, "Reading %s as %s with %s (%s)\n", os.Args[2], mode, client.Model(), bmType)

	res, err := extractor.Extract(ctx, mode, img, cur.Names())
	if err != nil {
		fmt.Fprintf(os.Stderr, "extraction failed: %v\n", err)
		os.Exit(1)
	}

	state := gradebook.New(bmType)
	if sem, err := strconv.Atoi(getEnv("SEMESTER", "1")); err == nil && cur.ValidSemester(sem) {
		state.CurrentSemester = sem
	}

	var out any
	switch mode {
	case extraction.ModeSAL:
		outcome, err := reconcile.SAL(res, state.Subjects, cur, id.New)
		if err != nil {
			fmt.Fprintf(os.Stderr, "reconcile: %v\n", err)
			os.Exit(1)
		}
		out = map[string]any{
			"mode":      res.Mode,
			"cached":    res.Cached,
			"dropped":   res.Dropped,
			"unmatched": outcome.Unmatched,
			"added":     outcome.Added,
		}
	default:
		outcome, err := reconcile.Bulletin(res, state.SemesterGrades, cur, state.CurrentSemester)
		if err != nil {
			fmt.Fprintf(os.Stderr, "reconcile: %v\n", err)
			os.Exit(1)
		}
		out = map[string]any{
			"mode":      res.Mode,
			"cached":    res.Cached,
			"dropped":   res.Dropped,
			"unmatched": outcome.Unmatched,
			"semester":  outcome.Semester,
			"applied":   outcome.Applied,
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func readImage(path string, maxBytes int) (llm.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return llm.Image{}, err
	}
	if len(data) > maxBytes {
		return llm.Image{}, fmt.Errorf("%s is %d bytes, limit is %d", path, len(data), maxBytes)
	}
	mediaType := http.DetectContentType(data)
	switch mediaType {
	case "image/png", "image/jpeg", "image/webp", "image/gif":
	default:
		return llm.Image{}, fmt.Errorf("%s: unsupported file type %s", path, mediaType)
	}
	return llm.Image{MediaType: mediaType, Data: data}, nil
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
