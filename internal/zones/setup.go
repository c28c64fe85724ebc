package zones

import (
	"log"

	"github.com/UrbanAtlas/trip-backend/internal/db"
)

func Init() {
	if err := db.EnsureSchema(db.DB, "taxi"); err != nil {
		log.Fatal("Failed to create taxi schema: ", err)
	}

	if err := db.DB.AutoMigrate(&Zone{}); err != nil {
		log.Fatal("Failed to auto-migrate zone table: ", err)
	}
}
