package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/oksasatya/pawpatrol/config"
	"github.com/oksasatya/pawpatrol/pkg/helpers"
)

const (
	demoPassword    = "password123"
	demoCivilian    = "demoCivilian"
	demoStaff       = "demoShelterStaff"
	demoShelterName = "Demo Shelter"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	hash, err := helpers.HashPassword(demoPassword)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var civilianID string
	err = db.QueryRow(`
		INSERT INTO users (name, password, type)
		VALUES ($1, $2, 'civilian')
		ON CONFLICT (name) DO UPDATE SET password = EXCLUDED.password
		RETURNING id::text
	`, demoCivilian, hash).Scan(&civilianID)
	if err != nil {
		log.Fatalf("failed to seed civilian: %v", err)
	}
	fmt.Printf("seeded civilian: id=%s name=%s password=%s\n", civilianID, demoCivilian, demoPassword)

	// shelters has no natural key, so reuse an existing row by name
	var shelterID string
	err = db.QueryRow(`SELECT id::text FROM shelters WHERE name = $1 LIMIT 1`, demoShelterName).Scan(&shelterID)
	if err == sql.ErrNoRows {
		err = db.QueryRow(`
			INSERT INTO shelters (name, location)
			VALUES ($1, ST_SetSRID(ST_MakePoint($2, $3), 4326))
			RETURNING id::text
		`, demoShelterName, 106.8456, -6.2088).Scan(&shelterID)
	}
	if err != nil {
		log.Fatalf("failed to seed shelter: %v", err)
	}
	fmt.Printf("seeded shelter: id=%s name=%s\n", shelterID, demoShelterName)

	var staffID string
	err = db.QueryRow(`
		INSERT INTO users (name, password, type, shelter_id)
		VALUES ($1, $2, 'shelter', $3)
		ON CONFLICT (name) DO UPDATE
		SET password = EXCLUDED.password, type = 'shelter', shelter_id = EXCLUDED.shelter_id
		RETURNING id::text
	`, demoStaff, hash, shelterID).Scan(&staffID)
	if err != nil {
		log.Fatalf("failed to seed shelter staff: %v", err)
	}
	fmt.Printf("seeded shelter staff: id=%s name=%s password=%s\n", staffID, demoStaff, demoPassword)
}
