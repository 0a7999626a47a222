package routes

import (
	"venueops-backend/config"
	"venueops-backend/controllers"
	"venueops-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Controllers bundles the stateful controllers the router wires up.
type Controllers struct {
	Servicio    *controllers.ServicioController
	Asistencia  *controllers.AsistenciaController
	Comprobante *controllers.ComprobanteController
	Dashboard   *controllers.DashboardController
	UploadDir   string
}

func SetupRouter(log zerolog.Logger, ctrl Controllers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(config.RequestLogger(log))

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	if ctrl.UploadDir != "" {
		r.Static("/uploads", ctrl.UploadDir)
	}

	auth := r.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)

		auth.Use(utils.AuthMiddleware())
		auth.GET("/me", controllers.Me)
	}

	api := r.Group("/api")
	api.Use(utils.AuthMiddleware())
	{
		// Roster routes
		modelos := api.Group("/modelos")
		{
			modelos.POST("", controllers.CreateModelo)
			modelos.GET("", controllers.GetModelos)
			modelos.GET("/:id", controllers.GetModelo)
			modelos.PUT("/:id", controllers.UpdateModelo)
			modelos.DELETE("/:id", utils.AdminOnly(), controllers.DeleteModelo)
		}

		// Boutique routes
		productos := api.Group("/productos")
		{
			productos.POST("", controllers.CreateProducto)
			productos.GET("", controllers.GetProductos)
			productos.GET("/:id", controllers.GetProducto)
			productos.PUT("/:id", controllers.UpdateProducto)
			productos.POST("/:id/stock", controllers.AjustarStock)
			productos.GET("/:id/movimientos", controllers.GetMovimientosStock)
			productos.DELETE("/:id", utils.AdminOnly(), controllers.DeleteProducto)
		}

		// Session ledger routes
		servicios := api.Group("/servicios")
		{
			servicios.POST("", ctrl.Servicio.StartServicio)
			servicios.GET("", ctrl.Servicio.GetServicios)
			servicios.GET("/activos", ctrl.Servicio.GetServiciosActivos)
			servicios.GET("/:id", ctrl.Servicio.GetServicio)
			servicios.GET("/:id/total", ctrl.Servicio.GetTotal)
			servicios.POST("/:id/extensiones", ctrl.Servicio.AddExtension)
			servicios.POST("/:id/adicionales", ctrl.Servicio.AddAdicional)
			servicios.POST("/:id/consumos", ctrl.Servicio.AddConsumoBoutique)
			servicios.POST("/:id/consumo-detalle", ctrl.Servicio.AddConsumoDetalle)
			servicios.POST("/:id/finalizar", ctrl.Servicio.FinalizarServicio)
		}

		// Attendance routes
		asistencias := api.Group("/asistencias")
		{
			asistencias.POST("", ctrl.Asistencia.CheckIn)
			asistencias.GET("", ctrl.Asistencia.GetAsistencias)
			asistencias.POST("/:id/aprobar", utils.AdminOnly(), ctrl.Asistencia.Aprobar)
			asistencias.POST("/:id/rechazar", utils.AdminOnly(), ctrl.Asistencia.Rechazar)
			asistencias.POST("/:id/salida", ctrl.Asistencia.CheckOut)
		}

		// Payment proofs
		api.POST("/comprobantes", ctrl.Comprobante.Upload)

		// Reports routes
		reportController := controllers.ReportController{}
		api.GET("/reports", reportController.GetReportAnalytics)
		api.GET("/reports/cierre", reportController.GetCierreDiario)

		// Dashboard routes
		api.GET("/dashboard", ctrl.Dashboard.GetDashboardOverview)
	}

	return r
}
