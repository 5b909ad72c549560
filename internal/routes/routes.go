package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-scheduler/internal/audit"
	"github.com/BruksfildServices01/salon-scheduler/internal/config"
	appointmentDomain "github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/salon-scheduler/internal/handlers"
	"github.com/BruksfildServices01/salon-scheduler/internal/infra/cache"
	"github.com/BruksfildServices01/salon-scheduler/internal/middleware"
	"github.com/BruksfildServices01/salon-scheduler/internal/timezone"
	ucAppointment "github.com/BruksfildServices01/salon-scheduler/internal/usecase/appointment"
	ucDayOff "github.com/BruksfildServices01/salon-scheduler/internal/usecase/dayoff"
	ucSchedule "github.com/BruksfildServices01/salon-scheduler/internal/usecase/schedule"
)

// Deps are the singletons built at startup. DB is nil when the service
// runs on the in-memory store; the account, catalog and audit-log
// endpoints are then not registered.
type Deps struct {
	DB        *gorm.DB
	Repo      schedule.Repository
	SlotCache cache.SlotCache
	Plans     cache.PlanStore
	Audit     *audit.Dispatcher
	Clock     timezone.Clock
}

func RegisterRoutes(r *gin.Engine, cfg *config.Config, deps Deps) {

	// ======================================================
	// 🌍 MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.RequestID())
	r.Use(middleware.AccessLog())
	r.Use(middleware.CORSMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "storage": cfg.StorageDriver})
	})

	repo := deps.Repo
	clock := deps.Clock
	if clock == nil {
		clock = timezone.SystemClock{}
	}

	// ======================================================
	// 🧠 USE CASES - APPOINTMENTS
	// ======================================================
	availabilityUC := ucAppointment.NewGetAvailability(repo, deps.SlotCache, clock)
	createPublicUC := ucAppointment.NewCreatePublicAppointment(repo, deps.SlotCache, deps.Audit, clock)
	createPrivateUC := ucAppointment.NewCreatePrivateAppointment(repo, deps.SlotCache, deps.Audit, clock)
	changeStatusUC := ucAppointment.NewChangeStatus(repo, deps.SlotCache, deps.Audit, clock)
	rescheduleUC := ucAppointment.NewReschedule(repo, deps.SlotCache, deps.Audit)
	startEarlyUC := ucAppointment.NewStartEarly(repo, deps.SlotCache, deps.Audit, clock)
	listByDateUC := ucAppointment.NewListAppointmentsByDate(repo)
	listByMonthUC := ucAppointment.NewListAppointmentsByMonth(repo)

	// ======================================================
	// 🧠 USE CASES - CALENDAR
	// ======================================================
	workingDays := handlers.WorkingDayUseCases{
		Create:      ucSchedule.NewCreateWorkingDay(repo, deps.SlotCache),
		Bulk:        ucSchedule.NewBulkCreateWorkingDays(repo, deps.SlotCache),
		Update:      ucSchedule.NewUpdateWorkingDay(repo, deps.SlotCache),
		Delete:      ucSchedule.NewDeleteWorkingDay(repo, deps.SlotCache, deps.Audit),
		List:        ucSchedule.NewListWorkingDays(repo),
		SaveBreak:   ucSchedule.NewSaveBreak(repo, deps.SlotCache),
		DeleteBreak: ucSchedule.NewDeleteBreak(repo, deps.SlotCache),
		ListBreaks:  ucSchedule.NewListBreaks(repo),
	}

	// ======================================================
	// 🧠 USE CASES - DAY OFF
	// ======================================================
	startPlanUC := ucDayOff.NewStartPlan(repo, deps.Plans, clock)
	getPlanUC := ucDayOff.NewGetPlan(deps.Plans)
	stageUC := ucDayOff.NewStageDecision(repo, deps.Plans)
	unstageUC := ucDayOff.NewUnstageDecision(deps.Plans)
	commitUC := ucDayOff.NewCommitPlan(repo, deps.Plans, deps.SlotCache, deps.Audit, clock)

	// ======================================================
	// 🧩 HANDLERS
	// ======================================================
	publicHandler := handlers.NewPublicHandler(repo, availabilityUC, createPublicUC)

	appointmentHandler := handlers.NewAppointmentHandler(
		createPrivateUC,
		changeStatusUC,
		rescheduleUC,
		startEarlyUC,
		listByDateUC,
		listByMonthUC,
	)
	workingDayHandler := handlers.NewWorkingDayHandler(workingDays)
	dayOffHandler := handlers.NewDayOffHandler(startPlanUC, getPlanUC, stageUC, unstageUC, commitUC)

	// ======================================================
	// 🌐 API (JSON)
	// ======================================================
	api := r.Group("/api")

	// ------------------------------
	// 🌐 API PÚBLICA
	// ------------------------------
	publicAPI := api.Group("/public")
	{
		publicAPI.GET("/:slug/services", publicHandler.ListServices)
		publicAPI.GET("/:slug/availability", publicHandler.Availability)
		publicAPI.POST("/:slug/appointments", publicHandler.CreateAppointment)
	}

	// ------------------------------
	// 🔐 AUTH
	// ------------------------------
	if deps.DB != nil {
		authHandler := handlers.NewAuthHandler(deps.DB, cfg)
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)
	}

	// ------------------------------
	// 🔐 API PRIVADA
	// ------------------------------
	secured := api.Group("/me")
	secured.Use(middleware.AuthMiddleware(cfg))
	{
		// APPOINTMENTS
		secured.POST("/appointments", appointmentHandler.Create)
		secured.GET("/appointments", appointmentHandler.ListByDate)
		secured.GET("/appointments/month", appointmentHandler.ListByMonth)
		secured.PATCH("/appointments/:id/status", appointmentHandler.ChangeStatus)
		secured.PATCH("/appointments/:id/confirm", appointmentHandler.StatusAction(appointmentDomain.StatusConfirmed))
		secured.PATCH("/appointments/:id/complete", appointmentHandler.StatusAction(appointmentDomain.StatusCompleted))
		secured.PATCH("/appointments/:id/cancel", appointmentHandler.StatusAction(appointmentDomain.StatusCancelled))
		secured.PATCH("/appointments/:id/no-show", appointmentHandler.StatusAction(appointmentDomain.StatusNoShow))
		secured.PATCH("/appointments/:id/reschedule", appointmentHandler.Reschedule)
		secured.PATCH("/appointments/:id/start-early", appointmentHandler.StartEarly)

		// WORKING DAYS
		secured.GET("/working-days", workingDayHandler.List)
		secured.POST("/working-days", workingDayHandler.Create)
		secured.POST("/working-days/bulk", workingDayHandler.Bulk)
		secured.PUT("/working-days/:id", workingDayHandler.Update)
		secured.DELETE("/working-days/:id", workingDayHandler.Delete)

		secured.GET("/working-days/:id/breaks", workingDayHandler.ListBreaks)
		secured.POST("/working-days/:id/breaks", workingDayHandler.CreateBreak)
		secured.PUT("/working-days/:id/breaks/:breakId", workingDayHandler.UpdateBreak)
		secured.DELETE("/working-days/:id/breaks/:breakId", workingDayHandler.DeleteBreak)

		// DAY OFF
		secured.POST("/day-off", dayOffHandler.Start)
		secured.GET("/day-off/:planId", dayOffHandler.Get)
		secured.PUT("/day-off/:planId/decisions/:appointmentId", dayOffHandler.Stage)
		secured.DELETE("/day-off/:planId/decisions/:appointmentId", dayOffHandler.Unstage)
		secured.POST("/day-off/:planId/commit", dayOffHandler.Commit)

		if deps.DB != nil {
			meHandler := handlers.NewMeHandler(deps.DB)
			providerHandler := handlers.NewProviderHandler(deps.DB)
			serviceHandler := handlers.NewServiceHandler(deps.DB)
			auditLogsHandler := handlers.NewAuditLogsHandler(deps.DB)

			secured.GET("", meHandler.GetMe)

			secured.GET("/provider", providerHandler.Get)
			secured.PATCH("/provider", providerHandler.Update)

			secured.GET("/services", serviceHandler.List)
			secured.POST("/services", serviceHandler.Create)
			secured.PATCH("/services/:id", serviceHandler.Update)

			secured.GET("/audit-logs", auditLogsHandler.List)
		}
	}
}
