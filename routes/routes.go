package routes

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/k3053/GeoInsight.AI/controllers"
	"github.com/k3053/GeoInsight.AI/middlewares"
)

func SetupRouter(chat *controllers.ChatController, data *controllers.DataController, staticDir string) *gin.Engine {
	r := gin.Default()
	r.Use(middlewares.CORS())

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Main Page"})
	})

	// Health check for monitoring and deployment verification.
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "Location Intelligence",
		})
	})

	r.POST("/chat/query", chat.HandleChatQuery)
	r.GET("/data/buildings", data.HandleBuildings)

	// Static frontend for everything the API does not claim. Unknown paths
	// fall back to index.html so client-side routing works.
	if staticDir != "" {
		r.NoRoute(func(c *gin.Context) {
			if c.Request.Method != http.MethodGet {
				c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
				return
			}
			path := filepath.Join(staticDir, filepath.Clean("/"+c.Request.URL.Path))
			if info, err := os.Stat(path); err == nil && !info.IsDir() {
				c.File(path)
				return
			}
			c.File(filepath.Join(staticDir, "index.html"))
		})
	}

	return r
}
