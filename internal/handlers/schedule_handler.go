package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/NovaClinicas/clinic-scheduler/internal/httperr"
	"github.com/NovaClinicas/clinic-scheduler/internal/httpresp"
	"github.com/NovaClinicas/clinic-scheduler/internal/middleware"
	"github.com/NovaClinicas/clinic-scheduler/internal/models"
	ucSchedule "github.com/NovaClinicas/clinic-scheduler/internal/usecase/schedule"
)

// ======================================================
// HANDLER
// ======================================================

type ScheduleHandler struct {
	upsertUC          *ucSchedule.UpsertSchedule
	getUC             *ucSchedule.GetSchedule
	addExceptionUC    *ucSchedule.AddException
	removeExceptionUC *ucSchedule.RemoveException
	addHolidayUC      *ucSchedule.AddHoliday
	removeHolidayUC   *ucSchedule.RemoveHoliday
}

func NewScheduleHandler(
	upsertUC *ucSchedule.UpsertSchedule,
	getUC *ucSchedule.GetSchedule,
	addExceptionUC *ucSchedule.AddException,
	removeExceptionUC *ucSchedule.RemoveException,
	addHolidayUC *ucSchedule.AddHoliday,
	removeHolidayUC *ucSchedule.RemoveHoliday,
) *ScheduleHandler {
	return &ScheduleHandler{
		upsertUC:          upsertUC,
		getUC:             getUC,
		addExceptionUC:    addExceptionUC,
		removeExceptionUC: removeExceptionUC,
		addHolidayUC:      addHolidayUC,
		removeHolidayUC:   removeHolidayUC,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type daySlotPayload struct {
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
}

type weekdayPayload struct {
	DayOfWeek   int              `json:"day_of_week" binding:"min=0,max=6"`
	Slots       []daySlotPayload `json:"slots"`
	IsAvailable bool             `json:"is_available"`
}

type serviceBufferPayload struct {
	ServiceID       uint `json:"service_id" binding:"required"`
	BufferBeforeMin int  `json:"buffer_before_min"`
	BufferAfterMin  int  `json:"buffer_after_min"`
}

type UpsertScheduleRequest struct {
	WeeklyTemplate         []weekdayPayload       `json:"weekly_template" binding:"required"`
	DefaultBufferBeforeMin int                    `json:"default_buffer_before_min"`
	DefaultBufferAfterMin  int                    `json:"default_buffer_after_min"`
	ServiceBuffers         []serviceBufferPayload `json:"service_buffers"`
}

type AddExceptionRequest struct {
	Date        string           `json:"date" binding:"required"`
	Slots       []daySlotPayload `json:"slots"`
	IsAvailable bool             `json:"is_available"`
	Reason      string           `json:"reason"`
}

type AddHolidayRequest struct {
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
	Reason    string `json:"reason"`
}

func toDaySlots(in []daySlotPayload) []models.DaySlot {
	out := make([]models.DaySlot, 0, len(in))
	for _, s := range in {
		out = append(out, models.DaySlot{StartTime: s.StartTime, EndTime: s.EndTime})
	}
	return out
}

// ======================================================
// HANDLERS
// ======================================================

func (h *ScheduleHandler) Get(c *gin.Context) {
	doctorID := c.MustGet(middleware.ContextUserID).(uint)

	sched, err := h.getUC.Execute(c.Request.Context(), doctorID)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, sched)
}

func (h *ScheduleHandler) Upsert(c *gin.Context) {
	doctorID := c.MustGet(middleware.ContextUserID).(uint)

	var req UpsertScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	template := make([]models.WeekdayTemplate, 0, len(req.WeeklyTemplate))
	for _, d := range req.WeeklyTemplate {
		template = append(template, models.WeekdayTemplate{
			DayOfWeek:   d.DayOfWeek,
			Slots:       toDaySlots(d.Slots),
			IsAvailable: d.IsAvailable,
		})
	}

	buffers := make([]models.ServiceBuffer, 0, len(req.ServiceBuffers))
	for _, b := range req.ServiceBuffers {
		buffers = append(buffers, models.ServiceBuffer{
			ServiceID:       b.ServiceID,
			BufferBeforeMin: b.BufferBeforeMin,
			BufferAfterMin:  b.BufferAfterMin,
		})
	}

	sched, err := h.upsertUC.Execute(c.Request.Context(), ucSchedule.UpsertScheduleInput{
		DoctorID:               doctorID,
		WeeklyTemplate:         template,
		DefaultBufferBeforeMin: req.DefaultBufferBeforeMin,
		DefaultBufferAfterMin:  req.DefaultBufferAfterMin,
		ServiceBuffers:         buffers,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, sched)
}

func (h *ScheduleHandler) AddException(c *gin.Context) {
	doctorID := c.MustGet(middleware.ContextUserID).(uint)

	var req AddExceptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	sched, err := h.addExceptionUC.Execute(c.Request.Context(), ucSchedule.AddExceptionInput{
		DoctorID:    doctorID,
		Date:        req.Date,
		Slots:       toDaySlots(req.Slots),
		IsAvailable: req.IsAvailable,
		Reason:      req.Reason,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.Created(c, sched)
}

func (h *ScheduleHandler) RemoveException(c *gin.Context) {
	doctorID := c.MustGet(middleware.ContextUserID).(uint)
	date := c.Param("date")

	sched, err := h.removeExceptionUC.Execute(c.Request.Context(), doctorID, date)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, sched)
}

func (h *ScheduleHandler) AddHoliday(c *gin.Context) {
	doctorID := c.MustGet(middleware.ContextUserID).(uint)

	var req AddHolidayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	sched, err := h.addHolidayUC.Execute(c.Request.Context(), ucSchedule.AddHolidayInput{
		DoctorID:  doctorID,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Reason:    req.Reason,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.Created(c, sched)
}

func (h *ScheduleHandler) RemoveHoliday(c *gin.Context) {
	doctorID := c.MustGet(middleware.ContextUserID).(uint)
	holidayID := c.Param("id")

	sched, err := h.removeHolidayUC.Execute(c.Request.Context(), doctorID, holidayID)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, sched)
}
