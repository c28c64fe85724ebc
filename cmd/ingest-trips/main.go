package main

import (
	"flag"
	"log"
	"os"

	"github.com/UrbanAtlas/trip-backend/internal/config"
	"github.com/UrbanAtlas/trip-backend/internal/db"
	"github.com/UrbanAtlas/trip-backend/internal/trips"
	"github.com/UrbanAtlas/trip-backend/internal/zones"
	"github.com/joho/godotenv"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func main() {
	var (
		path    = flag.String("file", "", "path to the trip file (.csv or .parquet)")
		cfgPath = flag.String("config", "config.yaml", "path to the app config")
	)
	flag.Parse()

	if *path == "" {
		flag.Usage()
		os.Exit(2)
	}

	_ = godotenv.Load(".env.local")

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatal(err)
	}

	db.Connect()
	zones.Init()
	trips.Init()

	summary, err := trips.RunImport(cfg, *path)
	if err != nil {
		log.Fatal(err)
	}

	p := message.NewPrinter(language.English)
	p.Printf("run %s\n", summary.RunID)
	p.Printf("processed %d rows: %d valid, %d excluded\n",
		summary.Processed, summary.Valid, summary.Excluded)
	for reason, n := range summary.ByReason {
		p.Printf("  %s: %d\n", reason, n)
	}
}
