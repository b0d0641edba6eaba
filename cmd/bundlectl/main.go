// Command bundlectl inspects and maintains an on-disk translation bundle
// cache. It operates on the same layout the library's Default manager uses,
// so it can be pointed at a live application cache.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lingopack/bundlecache"
	bundlehttp "github.com/lingopack/bundlecache/http"
	"github.com/lingopack/bundlecache/store/disk"
)

type config struct {
	dir      string
	prefix   string
	maxAge   time.Duration
	langs    string
	url      string
	language string
	version  string
	timeout  time.Duration
	verbose  bool
}

func main() {
	cfg, cmd := parseFlags()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.timeout)
	defer cancel()

	mgr, err := newManager(cfg)
	if err != nil {
		log.Fatal(err)
	}

	switch cmd {
	case "stats":
		stats, err := mgr.Stats(ctx)
		if err != nil {
			log.Fatal(err)
		}
		printJSON(stats)

	case "validate":
		report, err := mgr.ValidateIntegrity(ctx)
		if err != nil {
			log.Fatal(err)
		}
		printJSON(report)

	case "clear":
		if err := mgr.Clear(ctx); err != nil {
			log.Fatal(err)
		}
		fmt.Println("cache cleared")

	case "clear-expired":
		removed, err := mgr.ClearExpired(ctx)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("removed %d expired entries\n", removed)

	case "preload":
		languages := splitLangs(cfg.langs)
		if len(languages) == 0 {
			log.Fatal("preload requires -langs")
		}
		if cfg.url == "" {
			log.Fatal("preload requires -url")
		}
		src, err := bundlehttp.NewSource(cfg.url)
		if err != nil {
			log.Fatal(err)
		}
		if err := mgr.Preload(ctx, languages, src.FetchFunc()); err != nil {
			log.Fatal(err)
		}
		fmt.Printf("preloaded %d languages\n", len(languages))

	case "get":
		if cfg.language == "" {
			log.Fatal("get requires -lang")
		}
		entry, ok := mgr.Get(ctx, cfg.language, cfg.version)
		if !ok {
			log.Fatalf("no cached bundle for %q", cfg.language)
		}
		printJSON(entry)

	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", cmd)
		flag.Usage()
		os.Exit(2)
	}
}

func parseFlags() (config, string) {
	var cfg config
	flag.StringVar(&cfg.dir, "dir", "", "cache directory (default: user cache dir + /bundlecache)")
	flag.StringVar(&cfg.prefix, "prefix", "", "key prefix (default: "+bundlecache.DefaultKeyPrefix+")")
	flag.DurationVar(&cfg.maxAge, "max-age", 0, "freshness window (default: 24h)")
	flag.StringVar(&cfg.langs, "langs", "", "comma-separated language tags for preload (e.g. de,fr,ja)")
	flag.StringVar(&cfg.url, "url", "", "bundle URL template for preload, containing {language}")
	flag.StringVar(&cfg.language, "lang", "", "language tag for get")
	flag.StringVar(&cfg.version, "version", "", "bundle version for get")
	flag.DurationVar(&cfg.timeout, "timeout", 30*time.Second, "overall command timeout")
	flag.BoolVar(&cfg.verbose, "v", false, "log cache operations to stderr")
	flag.Usage = usage
	flag.Parse()

	cmd := flag.Arg(0)
	if cmd == "" {
		flag.Usage()
		os.Exit(2)
	}
	return cfg, cmd
}

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), `usage: bundlectl [flags] <command>

commands:
  stats          print hit/miss counters and persisted footprint
  validate       classify persisted entries as valid, corrupted, or expired
  clear          remove every entry under the key prefix
  clear-expired  remove entries older than the freshness window
  preload        fetch bundles for -langs from -url and cache them
  get            print the cached bundle for -lang

flags:
`)
	flag.PrintDefaults()
}

func newManager(cfg config) (*bundlecache.Manager, error) {
	dir := cfg.dir
	if dir == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			return nil, fmt.Errorf("no cache directory available, pass -dir: %w", err)
		}
		dir = filepath.Join(base, "bundlecache")
	}
	st, err := disk.New(dir)
	if err != nil {
		return nil, err
	}

	opts := []bundlecache.Option{bundlecache.WithStore(st)}
	if cfg.verbose {
		handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
		opts = append(opts, bundlecache.WithLogger(slog.New(handler)))
	}
	mgr := bundlecache.New(opts...)

	var tweaks []bundlecache.ConfigOption
	if cfg.prefix != "" {
		tweaks = append(tweaks, bundlecache.WithKeyPrefix(cfg.prefix))
	}
	if cfg.maxAge > 0 {
		tweaks = append(tweaks, bundlecache.WithMaxAge(cfg.maxAge))
	}
	if len(tweaks) > 0 {
		mgr.UpdateConfig(tweaks...)
	}
	return mgr, nil
}

func splitLangs(s string) []string {
	var langs []string
	for _, lang := range strings.Split(s, ",") {
		if lang = strings.TrimSpace(lang); lang != "" {
			langs = append(langs, lang)
		}
	}
	return langs
}

func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(string(out))
}
