package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	domain "github.com/NovaClinicas/clinic-scheduler/internal/domain/appointment"
	"github.com/NovaClinicas/clinic-scheduler/internal/dto"
	"github.com/NovaClinicas/clinic-scheduler/internal/httperr"
	"github.com/NovaClinicas/clinic-scheduler/internal/httpresp"
	"github.com/NovaClinicas/clinic-scheduler/internal/middleware"
	ucAppointment "github.com/NovaClinicas/clinic-scheduler/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	createUC       *ucAppointment.CreateAppointment
	cancelUC       *ucAppointment.CancelAppointment
	rescheduleUC   *ucAppointment.RescheduleAppointment
	confirmUC      *ucAppointment.ConfirmAppointment
	rejectUC       *ucAppointment.RejectAppointment
	completeUC     *ucAppointment.CompleteAppointment
	noShowUC       *ucAppointment.MarkNoShow
	availabilityUC *ucAppointment.GetAvailability
	listByDateUC   *ucAppointment.ListDoctorAppointmentsByDate
	listPatientUC  *ucAppointment.ListPatientAppointments

	clinicTimezone string
}

func NewAppointmentHandler(
	createUC *ucAppointment.CreateAppointment,
	cancelUC *ucAppointment.CancelAppointment,
	rescheduleUC *ucAppointment.RescheduleAppointment,
	confirmUC *ucAppointment.ConfirmAppointment,
	rejectUC *ucAppointment.RejectAppointment,
	completeUC *ucAppointment.CompleteAppointment,
	noShowUC *ucAppointment.MarkNoShow,
	availabilityUC *ucAppointment.GetAvailability,
	listByDateUC *ucAppointment.ListDoctorAppointmentsByDate,
	listPatientUC *ucAppointment.ListPatientAppointments,
	clinicTimezone string,
) *AppointmentHandler {
	return &AppointmentHandler{
		createUC:       createUC,
		cancelUC:       cancelUC,
		rescheduleUC:   rescheduleUC,
		confirmUC:      confirmUC,
		rejectUC:       rejectUC,
		completeUC:     completeUC,
		noShowUC:       noShowUC,
		availabilityUC: availabilityUC,
		listByDateUC:   listByDateUC,
		listPatientUC:  listPatientUC,
		clinicTimezone: clinicTimezone,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	DoctorID  uint   `json:"doctor_id" binding:"required"`
	ServiceID uint   `json:"service_id" binding:"required"`
	StartAt   string `json:"start_at" binding:"required"` // RFC 3339
	Type      string `json:"type" binding:"required,oneof=in_person video chat"`
	Notes     string `json:"notes"`
}

type CancelAppointmentRequest struct {
	Reason string `json:"reason"`
}

type RescheduleAppointmentRequest struct {
	StartAt string `json:"start_at" binding:"required"` // RFC 3339
}

type ConfirmAppointmentRequest struct {
	Notes string `json:"notes"`
}

type RejectAppointmentRequest struct {
	Reason string `json:"reason" binding:"required"`
}

func appointmentID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		httperr.BadRequest(c, "invalid_appointment_id", "Invalid appointment id.")
		return 0, false
	}
	return uint(id), true
}

// ======================================================
// PATIENT
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	patientID := c.MustGet(middleware.ContextUserID).(uint)

	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	startAt, err := parseStartAt(req.StartAt)
	if err != nil {
		httperr.BadRequest(c, "invalid_start_at", "start_at must be RFC 3339.")
		return
	}

	ap, err := h.createUC.Execute(c.Request.Context(), ucAppointment.CreateAppointmentInput{
		DoctorID:       req.DoctorID,
		ServiceID:      req.ServiceID,
		PatientID:      patientID,
		StartAt:        startAt,
		Type:           domain.Type(req.Type),
		IdempotencyKey: c.GetHeader("Idempotency-Key"),
		Notes:          req.Notes,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.Created(c, dto.FromAppointment(ap))
}

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	patientID := c.MustGet(middleware.ContextUserID).(uint)

	id, ok := appointmentID(c)
	if !ok {
		return
	}

	var req CancelAppointmentRequest
	_ = c.ShouldBindJSON(&req)

	ap, err := h.cancelUC.Execute(c.Request.Context(), patientID, id, req.Reason)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, dto.FromAppointment(ap))
}

func (h *AppointmentHandler) Reschedule(c *gin.Context) {
	patientID := c.MustGet(middleware.ContextUserID).(uint)

	id, ok := appointmentID(c)
	if !ok {
		return
	}

	var req RescheduleAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	startAt, err := parseStartAt(req.StartAt)
	if err != nil {
		httperr.BadRequest(c, "invalid_start_at", "start_at must be RFC 3339.")
		return
	}

	ap, err := h.rescheduleUC.Execute(c.Request.Context(), patientID, id, startAt)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, dto.FromAppointment(ap))
}

func (h *AppointmentHandler) ListMine(c *gin.Context) {
	patientID := c.MustGet(middleware.ContextUserID).(uint)

	aps, err := h.listPatientUC.Execute(c.Request.Context(), patientID)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.List(c, dto.FromAppointments(aps))
}

// ======================================================
// AVAILABILITY (any authenticated caller)
// ======================================================

func (h *AppointmentHandler) Availability(c *gin.Context) {
	doctorID, err := strconv.ParseUint(c.Query("doctor_id"), 10, 64)
	if err != nil || doctorID == 0 {
		httperr.BadRequest(c, "invalid_doctor_id", "doctor_id is required.")
		return
	}

	serviceID, err := strconv.ParseUint(c.Query("service_id"), 10, 64)
	if err != nil || serviceID == 0 {
		httperr.BadRequest(c, "invalid_service_id", "service_id is required.")
		return
	}

	date, err := parseDate(h.clinicTimezone, c.Query("date"))
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "date must be YYYY-MM-DD.")
		return
	}

	slots, err := h.availabilityUC.Execute(c.Request.Context(), ucAppointment.AvailabilityInput{
		DoctorID:  uint(doctorID),
		ServiceID: uint(serviceID),
		Date:      date,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.List(c, slots)
}

// ======================================================
// DOCTOR
// ======================================================

func (h *AppointmentHandler) Confirm(c *gin.Context) {
	doctorID := c.MustGet(middleware.ContextUserID).(uint)

	id, ok := appointmentID(c)
	if !ok {
		return
	}

	var req ConfirmAppointmentRequest
	_ = c.ShouldBindJSON(&req)

	ap, err := h.confirmUC.Execute(c.Request.Context(), doctorID, id, req.Notes)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, dto.FromAppointment(ap))
}

func (h *AppointmentHandler) Reject(c *gin.Context) {
	doctorID := c.MustGet(middleware.ContextUserID).(uint)

	id, ok := appointmentID(c)
	if !ok {
		return
	}

	var req RejectAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "A rejection reason is required.")
		return
	}

	ap, err := h.rejectUC.Execute(c.Request.Context(), doctorID, id, req.Reason)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, dto.FromAppointment(ap))
}

func (h *AppointmentHandler) Complete(c *gin.Context) {
	doctorID := c.MustGet(middleware.ContextUserID).(uint)

	id, ok := appointmentID(c)
	if !ok {
		return
	}

	ap, err := h.completeUC.Execute(c.Request.Context(), doctorID, id)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, dto.FromAppointment(ap))
}

func (h *AppointmentHandler) NoShow(c *gin.Context) {
	doctorID := c.MustGet(middleware.ContextUserID).(uint)

	id, ok := appointmentID(c)
	if !ok {
		return
	}

	ap, err := h.noShowUC.Execute(c.Request.Context(), doctorID, id)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, dto.FromAppointment(ap))
}

func (h *AppointmentHandler) ListByDate(c *gin.Context) {
	doctorID := c.MustGet(middleware.ContextUserID).(uint)

	date, err := parseDate(h.clinicTimezone, c.Query("date"))
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "date must be YYYY-MM-DD.")
		return
	}

	aps, err := h.listByDateUC.Execute(c.Request.Context(), doctorID, date)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.List(c, dto.FromAppointments(aps))
}
