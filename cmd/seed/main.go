package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/ghozali/disaster-incident-api/config"
)

// seed inserts sample incident rows when the tables are empty.
// Safe to run repeatedly.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	var fireCount int
	if err := db.QueryRow(`SELECT count(*) FROM fire_incidents`).Scan(&fireCount); err != nil {
		log.Fatalf("failed to count fire incidents: %v", err)
	}
	if fireCount == 0 {
		_, err := db.Exec(`
			INSERT INTO fire_incidents
			(province, district, fire_level, burned_area, affected_people, start_date, fire_type, description)
			VALUES
			('Kalimantan Timur', 'Kutai Kartanegara', 'Berat', 500.5, 1000, '2024-01-01', 'Hutan', 'Kebakaran hutan yang cukup parah'),
			('Riau', 'Pelalawan', 'Sedang', 300.2, 500, '2024-01-05', 'Lahan', 'Kebakaran lahan gambut'),
			('Sumatera Selatan', 'Ogan Ilir', 'Ringan', 150.0, 200, '2024-01-10', 'Pemukiman', 'Kebakaran di area pemukiman')
		`)
		if err != nil {
			log.Fatalf("failed to seed fire incidents: %v", err)
		}
		fmt.Println("sample fire incident data inserted")
	}

	var droughtCount int
	if err := db.QueryRow(`SELECT count(*) FROM drought_incidents`).Scan(&droughtCount); err != nil {
		log.Fatalf("failed to count drought incidents: %v", err)
	}
	if droughtCount == 0 {
		_, err := db.Exec(`
			INSERT INTO drought_incidents
			(province, district, drought_level, affected_area, affected_people, start_date, land_type, water_source_impact, mitigation_efforts, description)
			VALUES
			('Jawa Timur', 'Lamongan', 'Berat', 1200.5, 5000, '2024-01-01', 'Pertanian', 'Sumur mengering, sungai surut', 'Distribusi air bersih, pembuatan sumur bor', 'Kekeringan parah di area pertanian'),
			('Nusa Tenggara Timur', 'Kupang', 'Sedang', 800.2, 3000, '2024-01-05', 'Pemukiman', 'Krisis air bersih', 'Dropping air, pembangunan embung', 'Kekeringan di area pemukiman'),
			('Jawa Tengah', 'Grobogan', 'Ringan', 500.0, 1500, '2024-01-10', 'Perkebunan', 'Debit air berkurang', 'Pembagian jadwal pengairan', 'Kekeringan ringan area perkebunan')
		`)
		if err != nil {
			log.Fatalf("failed to seed drought incidents: %v", err)
		}
		fmt.Println("sample drought incident data inserted")
	}

	fmt.Println("seed completed")
}
