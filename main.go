package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	"roomstay/config"
	"roomstay/routes"
	"roomstay/utils"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: không load được file .env, sử dụng biến môi trường có sẵn: %v", err)
	}

	router, err := config.InitApp()
	if err != nil {
		log.Fatalf("Failed to initialize app: %v", err)
	}

	// Redis là best-effort, không có cache vẫn chạy được
	redisCli, err := config.ConnectRedis()
	if err != nil {
		log.Printf("Warning: không kết nối được Redis, chạy không cache: %v", err)
		redisCli = nil
	}

	// Nạp dữ liệu mẫu
	utils.PreloadRooms(config.DB)

	routes.SetupRoutes(router, config.DB, redisCli)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Println("Server starting on port " + port + "...")
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
