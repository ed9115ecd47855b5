package routes

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/NovaClinicas/clinic-scheduler/internal/audit"
	"github.com/NovaClinicas/clinic-scheduler/internal/config"
	"github.com/NovaClinicas/clinic-scheduler/internal/coordination"
	"github.com/NovaClinicas/clinic-scheduler/internal/handlers"
	infraRepo "github.com/NovaClinicas/clinic-scheduler/internal/infra/repository"
	"github.com/NovaClinicas/clinic-scheduler/internal/middleware"
	"github.com/NovaClinicas/clinic-scheduler/internal/models"
	ucAppointment "github.com/NovaClinicas/clinic-scheduler/internal/usecase/appointment"
	ucSchedule "github.com/NovaClinicas/clinic-scheduler/internal/usecase/schedule"
)

func RegisterRoutes(
	r *gin.Engine,
	db *gorm.DB,
	cfg *config.Config,
	coord coordination.Store,
	logger *zap.Logger,
) {

	// ======================================================
	// GLOBAL MIDDLEWARE
	// ======================================================
	r.Use(middleware.CORSMiddleware())

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	appointmentRepo := infraRepo.NewAppointmentGormRepository(db)
	scheduleRepo := infraRepo.NewScheduleGormRepository(db)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger, logger)

	opts := ucAppointment.OptionsFromConfig(cfg)

	// ======================================================
	// USE CASES — SCHEDULE
	// ======================================================
	upsertScheduleUC := ucSchedule.NewUpsertSchedule(scheduleRepo, auditDispatcher)
	getScheduleUC := ucSchedule.NewGetSchedule(scheduleRepo)
	addExceptionUC := ucSchedule.NewAddException(scheduleRepo, auditDispatcher)
	removeExceptionUC := ucSchedule.NewRemoveException(scheduleRepo, auditDispatcher)
	addHolidayUC := ucSchedule.NewAddHoliday(scheduleRepo, auditDispatcher)
	removeHolidayUC := ucSchedule.NewRemoveHoliday(scheduleRepo, auditDispatcher)

	// ======================================================
	// USE CASES — APPOINTMENTS
	// ======================================================
	createAppointmentUC := ucAppointment.NewCreateAppointment(
		appointmentRepo,
		coord,
		auditDispatcher,
		opts,
	)

	cancelAppointmentUC := ucAppointment.NewCancelAppointment(
		appointmentRepo,
		auditDispatcher,
		opts,
	)

	rescheduleAppointmentUC := ucAppointment.NewRescheduleAppointment(
		appointmentRepo,
		coord,
		auditDispatcher,
		opts,
	)

	confirmAppointmentUC := ucAppointment.NewConfirmAppointment(
		appointmentRepo,
		auditDispatcher,
		opts,
	)

	rejectAppointmentUC := ucAppointment.NewRejectAppointment(
		appointmentRepo,
		auditDispatcher,
	)

	completeAppointmentUC := ucAppointment.NewCompleteAppointment(
		appointmentRepo,
		auditDispatcher,
	)

	markNoShowUC := ucAppointment.NewMarkNoShow(
		appointmentRepo,
		auditDispatcher,
	)

	availabilityUC := ucAppointment.NewGetAvailability(appointmentRepo, opts)

	listByDateUC := ucAppointment.NewListDoctorAppointmentsByDate(
		appointmentRepo,
		opts,
	)

	listPatientUC := ucAppointment.NewListPatientAppointments(appointmentRepo)

	markAsPaidUC := ucAppointment.NewMarkAsPaid(appointmentRepo, auditDispatcher)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg)
	serviceHandler := handlers.NewServiceHandler(db)
	auditLogsHandler := handlers.NewAuditLogsHandler(db)

	scheduleHandler := handlers.NewScheduleHandler(
		upsertScheduleUC,
		getScheduleUC,
		addExceptionUC,
		removeExceptionUC,
		addHolidayUC,
		removeHolidayUC,
	)

	appointmentHandler := handlers.NewAppointmentHandler(
		createAppointmentUC,
		cancelAppointmentUC,
		rescheduleAppointmentUC,
		confirmAppointmentUC,
		rejectAppointmentUC,
		completeAppointmentUC,
		markNoShowUC,
		availabilityUC,
		listByDateUC,
		listPatientUC,
		cfg.ClinicTimezone,
	)

	paymentHandler := handlers.NewPaymentHandler(markAsPaidUC, cfg)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// WEBHOOKS (token-authenticated, no JWT)
		// ------------------------------
		api.POST("/webhooks/payment", paymentHandler.Callback)

		// ------------------------------
		// PRIVATE API
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			// Catalog and availability are visible to any
			// authenticated user.
			secured.GET("/services", serviceHandler.List)
			secured.GET("/availability", appointmentHandler.Availability)
			secured.GET("/audit-logs", auditLogsHandler.List)

			// ------------------------------
			// PATIENT
			// ------------------------------
			patient := secured.Group("/appointments")
			patient.Use(middleware.RequireRole(models.RolePatient))
			{
				patient.POST("", appointmentHandler.Create)
				patient.GET("", appointmentHandler.ListMine)
				patient.POST("/:id/cancel", appointmentHandler.Cancel)
				patient.POST("/:id/reschedule", appointmentHandler.Reschedule)
			}

			// ------------------------------
			// DOCTOR
			// ------------------------------
			doctor := secured.Group("/doctor")
			doctor.Use(middleware.RequireRole(models.RoleDoctor))
			{
				doctor.GET("/schedule", scheduleHandler.Get)
				doctor.PUT("/schedule", scheduleHandler.Upsert)
				doctor.POST("/schedule/exceptions", scheduleHandler.AddException)
				doctor.DELETE("/schedule/exceptions/:date", scheduleHandler.RemoveException)
				doctor.POST("/schedule/holidays", scheduleHandler.AddHoliday)
				doctor.DELETE("/schedule/holidays/:id", scheduleHandler.RemoveHoliday)

				doctor.POST("/services", serviceHandler.Create)
				doctor.PUT("/services/:id", serviceHandler.Update)
				doctor.GET("/offerings", serviceHandler.ListMyOfferings)
				doctor.PUT("/offerings", serviceHandler.UpsertMyOffering)

				doctor.GET("/appointments", appointmentHandler.ListByDate)
				doctor.POST("/appointments/:id/confirm", appointmentHandler.Confirm)
				doctor.POST("/appointments/:id/reject", appointmentHandler.Reject)
				doctor.POST("/appointments/:id/complete", appointmentHandler.Complete)
				doctor.POST("/appointments/:id/no-show", appointmentHandler.NoShow)
			}
		}
	}
}
