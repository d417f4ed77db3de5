// Package router assembles the Gin engine serving the expense API, the
// browser page and the Swagger UI.
package router

import (
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"expensetracker/internal/config"
	_ "expensetracker/internal/docs" // Import swagger docs
	apperrors "expensetracker/internal/errors"
	"expensetracker/internal/handlers"
	"expensetracker/internal/middleware"
	"expensetracker/web"
)

const pageTitle = "Expense Tracker"

// New builds the HTTP router.
func New(cfg *config.Config, expenseHandler *handlers.ExpenseHandler) (*gin.Engine, error) {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// Registered globally so preflight requests, which match no route, still
	// get an answer.
	router.Use(apiOnly(middleware.CORS(cfg.CORSAllowedOrigin)))

	tmpl, err := template.ParseFS(web.TemplatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	router.SetHTMLTemplate(tmpl)

	static, err := fs.Sub(web.StaticFS, "static")
	if err != nil {
		return nil, fmt.Errorf("failed to open static assets: %w", err)
	}
	router.StaticFS("/static", http.FS(static))

	router.GET("/", func(c *gin.Context) {
		c.HTML(http.StatusOK, "index.html", gin.H{"Title": pageTitle})
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := router.Group("/api")
	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	expenses := api.Group("/expenses")
	expenses.GET("", expenseHandler.ListExpenses)
	expenses.POST("", expenseHandler.CreateExpense)
	expenses.PUT("/:id", expenseHandler.UpdateExpense)
	expenses.DELETE("/:id", expenseHandler.DeleteExpense)

	api.GET("/stats", expenseHandler.GetStats)

	router.NoRoute(func(c *gin.Context) {
		middleware.WriteError(c, apperrors.ErrNotFound)
	})

	return router, nil
}

func apiOnly(next gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.Next()
			return
		}
		next(c)
	}
}
