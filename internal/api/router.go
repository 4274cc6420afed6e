// Package api assembles the gin router. Auth endpoints are public; everything
// that can cause a print or mutate the catalog sits behind RequireAuth.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/covxx/paleta/internal/api/handlers"
	"github.com/covxx/paleta/internal/api/middleware"
	"github.com/covxx/paleta/internal/db"
	"github.com/covxx/paleta/internal/label"
	"github.com/covxx/paleta/internal/printer"
	"github.com/covxx/paleta/internal/printjob"
)

type RouterDeps struct {
	Store        *db.Store
	Engine       *label.Engine
	Client       *printer.Client
	Orchestrator *printjob.Orchestrator
}

func NewRouter(deps RouterDeps) (*gin.Engine, error) {
	auth, err := middleware.NewAuthMiddleware(deps.Store)
	if err != nil {
		return nil, err
	}

	printHandler := handlers.NewPrintHandler(deps.Orchestrator, deps.Engine, deps.Store)
	printerHandler := handlers.NewPrinterHandler(deps.Store, deps.Client)
	lotHandler := handlers.NewLotHandler(deps.Store)
	jobHandler := handlers.NewJobHandler(deps.Store)

	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authGroup := r.Group("/api/auth")
	{
		authGroup.POST("/setup", auth.SetupHandler)
		authGroup.POST("/login", auth.LoginHandler)
		authGroup.POST("/logout", auth.LogoutHandler)
		authGroup.GET("/status", auth.StatusHandler)
	}

	apiGroup := r.Group("/api", auth.RequireAuth())
	{
		apiGroup.POST("/auth/password", auth.ChangePasswordHandler)

		apiGroup.POST("/print", printHandler.Print)
		apiGroup.POST("/print/batch", printHandler.PrintBatch)
		apiGroup.POST("/labels/preview", printHandler.Preview)
		apiGroup.GET("/labels/sheet", printHandler.Sheet)

		apiGroup.GET("/printers", printerHandler.ListPrinters)
		apiGroup.POST("/printers", printerHandler.CreatePrinter)
		apiGroup.GET("/printers/:id", printerHandler.GetPrinter)
		apiGroup.PUT("/printers/:id", printerHandler.UpdatePrinter)
		apiGroup.DELETE("/printers/:id", printerHandler.DeletePrinter)
		apiGroup.POST("/printers/:id/test", printerHandler.TestPrinter)

		apiGroup.GET("/items", lotHandler.ListItems)
		apiGroup.POST("/items", lotHandler.CreateItem)
		apiGroup.GET("/lots", lotHandler.ListLots)
		apiGroup.POST("/lots", lotHandler.CreateLot)
		apiGroup.GET("/lots/:code", lotHandler.GetLot)

		apiGroup.GET("/jobs", jobHandler.ListJobs)
		apiGroup.GET("/jobs/:id", jobHandler.GetJob)
	}

	return r, nil
}
