package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"roomstay/config"
	"roomstay/constants"
	"roomstay/controllers"
	"roomstay/services"
	"roomstay/services/logger"
)

func SetupRoutes(router *gin.Engine, db *gorm.DB, redisCli *redis.Client) {
	l := logger.NewDefaultLogger(logger.InfoLevel)

	imageArtifacts := services.NewArtifactService(config.ImageDirPath(), l)
	pdfService := services.NewPDFService(config.PDFDirPath(), config.ImageDirPath(), l)

	roomService := services.NewRoomService(services.RoomServiceOptions{
		DB:        db,
		Logger:    l,
		Artifacts: imageArtifacts,
		Renderer:  pdfService,
	})

	roomController := controllers.NewRoomController(roomService, redisCli, config.AppURL())

	router.GET("/", controllers.HealthCheck)

	v1 := router.Group("/api/v1")
	v1.GET("/rooms", roomController.GetRooms)
	v1.POST("/rooms", roomController.CreateRoom)
	v1.GET("/rooms/:id", roomController.GetRoomDetail)
	v1.PUT("/rooms/:id", roomController.UpdateRoom)
	v1.DELETE("/rooms/:id", roomController.DeleteRoom)
	v1.POST("/rooms/:id/pdf", roomController.CreateRoomPDF)

	// Mount thư mục ảnh và PDF dưới dạng file tĩnh chỉ đọc
	router.Static(constants.ImageURLPrefix, config.ImageDirPath())
	router.Static(constants.PDFURLPrefix, config.PDFDirPath())
}
