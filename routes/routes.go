package routes

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"lodge-backend/controllers"
	"lodge-backend/middleware"
)

func parseCorsOrigins() []string {
	raw := strings.TrimSpace(os.Getenv("CORS_ORIGINS"))
	if raw == "" {
		return []string{"*"}
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

func SetupRouter(
	pc *controllers.PropertyController,
	rc *controllers.RoomController,
	oc *controllers.OccupantController,
	ac *controllers.AssignmentController,
	hc *controllers.HistoryController,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Actor())
	r.Use(middleware.Logger())

	origins := parseCorsOrigins()
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With", "X-Actor-Id"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		properties := api.Group("/properties")
		{
			properties.GET("", pc.GetProperties)
			properties.POST("", pc.CreateProperty)
			properties.GET("/:id", pc.GetPropertyByID)
			properties.PATCH("/:id", pc.UpdateProperty)
			properties.PUT("/:id", pc.UpdateProperty)
			properties.DELETE("/:id", pc.DeleteProperty)
			properties.GET("/:id/stats", pc.GetPropertyStats)
		}

		rooms := api.Group("/rooms")
		{
			rooms.GET("", rc.GetRooms)

			// must come before /:id
			rooms.GET("/occupancy", rc.GetRoomsWithOccupancy)

			rooms.POST("", rc.CreateRoom)
			rooms.GET("/:id", rc.GetRoomByID)
			rooms.PATCH("/:id", rc.UpdateRoom)
			rooms.PUT("/:id", rc.UpdateRoom)
			rooms.DELETE("/:id", rc.DeleteRoom)
			rooms.GET("/:id/availability", rc.CheckRoomAvailability)
			rooms.GET("/:id/occupants", rc.GetRoomOccupants)
			rooms.PATCH("/:id/status", rc.UpdateRoomStatus)
		}

		occupants := api.Group("/occupants")
		{
			occupants.GET("", oc.GetOccupants)
			occupants.POST("", oc.CreateOccupant)
			occupants.GET("/:id", oc.GetOccupantByID)
			occupants.PATCH("/:id", oc.UpdateOccupant)
			occupants.PATCH("/:id/payment-status", oc.UpdatePaymentStatus)
		}

		assignments := api.Group("/assignments")
		{
			assignments.POST("/assign", ac.Assign)
			assignments.POST("/transfer", ac.Transfer)
			assignments.POST("/remove", ac.Remove)
		}

		api.GET("/assignment-history", hc.GetHistory)

		api.GET("/dashboard/stats", pc.GetDashboardStats)

		auth := api.Group("/auth")
		{
			auth.POST("/login", controllers.Login)
		}

		settings := api.Group("/settings")
		{
			settings.GET("/property", controllers.GetPropertySettings)
			settings.PUT("/property", controllers.UpdatePropertySettings)
		}
	}

	return r
}
