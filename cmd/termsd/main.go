package main

import (
	"flag"
	"os"

	"github.com/oarkflow/micromap/logger"
	"github.com/oarkflow/micromap/server"
	"github.com/oarkflow/micromap/terms"
)

func main() {
	addr := flag.String("addr", envOr("TERMSD_ADDR", ":8080"), "REST listen address")
	opsAddr := flag.String("ops-addr", envOr("TERMSD_OPS_ADDR", ":9090"), "metrics and watch listen address")
	vocab := flag.String("vocabulary", envOr("TERMSD_VOCABULARY", "default"), "vocabulary name")
	ratePerSecond := flag.Float64("rate", 100, "per-client requests per second, 0 disables")
	rateBurst := flag.Int("burst", 20, "per-client burst size")
	flag.Parse()

	log := logger.NewDefaultLogger()

	srv, err := server.New(server.Config{
		Addr:          *addr,
		OpsAddr:       *opsAddr,
		RatePerSecond: *ratePerSecond,
		RateBurst:     *rateBurst,
	}, terms.NewTaxonomy(*vocab), log)
	if err != nil {
		log.Error("failed to build server", logger.F("error", err.Error()))
		os.Exit(1)
	}

	if err := srv.Listen(); err != nil {
		log.Error("server stopped", logger.F("error", err.Error()))
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
