package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/UrbanAtlas/trip-backend/internal/cluster"
	"github.com/UrbanAtlas/trip-backend/internal/config"
	"github.com/UrbanAtlas/trip-backend/internal/db"
	"github.com/UrbanAtlas/trip-backend/internal/middleware"
	"github.com/UrbanAtlas/trip-backend/internal/trips"
	"github.com/UrbanAtlas/trip-backend/internal/zones"
	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
)

func RootHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintln(w, "Server is up!")
}

func main() {
	_ = godotenv.Load(".env.local")
	db.Connect()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatal("Failed to load config: ", err)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "5050"
	}

	zones.Init()
	trips.Init()

	r := chi.NewRouter()
	r.Use(middleware.CORSMiddleware)
	r.Get("/", RootHandler)

	r.Mount("/zones", zones.SetupRoutes())
	r.Mount("/trips", trips.SetupRoutes(cfg))

	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimitMiddleware(1, 3))
		r.Mount("/cluster", cluster.SetupRoutes(cfg))
	})

	fmt.Println("Server listening on port :" + port + "...")

	http.ListenAndServe("0.0.0.0:"+port, r)
}
