package main

import (
	"flag"
	"log"
	"os"

	"github.com/UrbanAtlas/trip-backend/internal/db"
	"github.com/UrbanAtlas/trip-backend/internal/zones"
	"github.com/joho/godotenv"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func main() {
	var (
		lookup   = flag.String("lookup", "", "path to the zone lookup CSV")
		geometry = flag.String("geometry", "", "optional path to the zone shapefile (.shp) for centroid backfill")
	)
	flag.Parse()

	if *lookup == "" {
		flag.Usage()
		os.Exit(2)
	}

	_ = godotenv.Load(".env.local")
	db.Connect()
	zones.Init()

	count, err := zones.LoadZones(db.DB, *lookup)
	if err != nil {
		log.Fatal(err)
	}

	p := message.NewPrinter(language.English)
	p.Printf("loaded %d zones\n", count)

	if *geometry != "" {
		updated, err := zones.BackfillCentroids(db.DB, *geometry)
		if err != nil {
			log.Fatal(err)
		}
		p.Printf("backfilled %d centroids\n", updated)
	}
}
