package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ghozali/disaster-incident-api/internal/application"
	"github.com/ghozali/disaster-incident-api/internal/domain/entity"
	"github.com/ghozali/disaster-incident-api/internal/interface/middleware"
	"github.com/ghozali/disaster-incident-api/pkg/response"
	"github.com/ghozali/disaster-incident-api/pkg/validation"
)

const dateLayout = "2006-01-02"

// IncidentHandler serves one incident kind. The bind and present closures
// carry the kind-specific request/response field names; everything else is
// shared between fire and drought.
type IncidentHandler struct {
	Svc    *application.IncidentService
	Logger *logrus.Logger

	bind    func(c *gin.Context) (*entity.Incident, error)
	present func(inc *entity.Incident) gin.H
}

type fireIncidentRequest struct {
	Province       string  `json:"province" binding:"required"`
	District       string  `json:"district" binding:"required"`
	FireLevel      string  `json:"fire_level" binding:"required"`
	BurnedArea     float64 `json:"burned_area" binding:"gte=0"`
	AffectedPeople int     `json:"affected_people" binding:"gte=0"`
	StartDate      string  `json:"start_date" binding:"required,datetime=2006-01-02"`
	EndDate        string  `json:"end_date" binding:"omitempty,datetime=2006-01-02"`
	Status         string  `json:"status"`
	FireType       string  `json:"fire_type" binding:"required"`
	Description    string  `json:"description"`
}

type droughtIncidentRequest struct {
	Province          string  `json:"province" binding:"required"`
	District          string  `json:"district" binding:"required"`
	DroughtLevel      string  `json:"drought_level" binding:"required"`
	AffectedArea      float64 `json:"affected_area" binding:"gte=0"`
	AffectedPeople    int     `json:"affected_people" binding:"gte=0"`
	StartDate         string  `json:"start_date" binding:"required,datetime=2006-01-02"`
	EndDate           string  `json:"end_date" binding:"omitempty,datetime=2006-01-02"`
	Status            string  `json:"status"`
	LandType          string  `json:"land_type" binding:"required"`
	WaterSourceImpact string  `json:"water_source_impact"`
	MitigationEfforts string  `json:"mitigation_efforts"`
	Description       string  `json:"description"`
}

// checkEnums validates the closed value sets against the kind descriptor, so
// the allowed values live in exactly one place.
func checkEnums(kind entity.IncidentKind, level, status, category string) error {
	fe := validation.FieldErrors{}
	if !kind.ValidLevel(level) {
		fe[kind.LevelColumn] = validation.OneOf(kind.Levels)
	}
	if status != "" && !kind.ValidStatus(status) {
		fe["status"] = validation.OneOf(kind.Statuses)
	}
	if !kind.ValidCategory(category) {
		fe[kind.CategoryColumn] = validation.OneOf(kind.Categories)
	}
	if len(fe) > 0 {
		return fe
	}
	return nil
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func datePtr(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil
	}
	return &t
}

func fmtDate(t time.Time) string { return t.Format(dateLayout) }

func fmtDatePtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(dateLayout)
}

func strOrNil(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func NewFireHandler(svc *application.IncidentService, logger *logrus.Logger) *IncidentHandler {
	return &IncidentHandler{
		Svc:    svc,
		Logger: logger,
		bind: func(c *gin.Context) (*entity.Incident, error) {
			var req fireIncidentRequest
			if err := c.ShouldBindJSON(&req); err != nil {
				return nil, err
			}
			if err := checkEnums(entity.FireKind, req.FireLevel, req.Status, req.FireType); err != nil {
				return nil, err
			}
			start, _ := time.Parse(dateLayout, req.StartDate)
			return &entity.Incident{
				Province:       req.Province,
				District:       req.District,
				Level:          req.FireLevel,
				Area:           req.BurnedArea,
				AffectedPeople: req.AffectedPeople,
				StartDate:      start,
				EndDate:        datePtr(req.EndDate),
				Status:         req.Status,
				Category:       req.FireType,
				Description:    strPtr(req.Description),
			}, nil
		},
		present: func(inc *entity.Incident) gin.H {
			return gin.H{
				"id":              inc.ID,
				"province":        inc.Province,
				"district":        inc.District,
				"fire_level":      inc.Level,
				"burned_area":     inc.Area,
				"affected_people": inc.AffectedPeople,
				"start_date":      fmtDate(inc.StartDate),
				"end_date":        fmtDatePtr(inc.EndDate),
				"status":          inc.Status,
				"fire_type":       inc.Category,
				"description":     strOrNil(inc.Description),
				"created_at":      inc.CreatedAt.Format(time.RFC3339),
				"updated_at":      inc.UpdatedAt.Format(time.RFC3339),
			}
		},
	}
}

func NewDroughtHandler(svc *application.IncidentService, logger *logrus.Logger) *IncidentHandler {
	return &IncidentHandler{
		Svc:    svc,
		Logger: logger,
		bind: func(c *gin.Context) (*entity.Incident, error) {
			var req droughtIncidentRequest
			if err := c.ShouldBindJSON(&req); err != nil {
				return nil, err
			}
			if err := checkEnums(entity.DroughtKind, req.DroughtLevel, req.Status, req.LandType); err != nil {
				return nil, err
			}
			start, _ := time.Parse(dateLayout, req.StartDate)
			return &entity.Incident{
				Province:          req.Province,
				District:          req.District,
				Level:             req.DroughtLevel,
				Area:              req.AffectedArea,
				AffectedPeople:    req.AffectedPeople,
				StartDate:         start,
				EndDate:           datePtr(req.EndDate),
				Status:            req.Status,
				Category:          req.LandType,
				WaterSourceImpact: strPtr(req.WaterSourceImpact),
				MitigationEfforts: strPtr(req.MitigationEfforts),
				Description:       strPtr(req.Description),
			}, nil
		},
		present: func(inc *entity.Incident) gin.H {
			return gin.H{
				"id":                  inc.ID,
				"province":            inc.Province,
				"district":            inc.District,
				"drought_level":       inc.Level,
				"affected_area":       inc.Area,
				"affected_people":     inc.AffectedPeople,
				"start_date":          fmtDate(inc.StartDate),
				"end_date":            fmtDatePtr(inc.EndDate),
				"status":              inc.Status,
				"land_type":           inc.Category,
				"water_source_impact": strOrNil(inc.WaterSourceImpact),
				"mitigation_efforts":  strOrNil(inc.MitigationEfforts),
				"description":         strOrNil(inc.Description),
				"created_at":          inc.CreatedAt.Format(time.RFC3339),
				"updated_at":          inc.UpdatedAt.Format(time.RFC3339),
			}
		},
	}
}

func (h *IncidentHandler) label() string { return h.Svc.Kind().Label }

func (h *IncidentHandler) notFoundMsg() string { return h.label() + " incident not found" }

// List GET /api/<kind>
// Returns a bare JSON array, unlike every other endpoint.
func (h *IncidentHandler) List(c *gin.Context) {
	incidents, err := h.Svc.List()
	if err != nil {
		h.Logger.WithError(err).WithField("kind", h.Svc.Kind().Name).Error("list incidents failed")
		response.Error(c, http.StatusInternalServerError, "Server Error", err.Error())
		return
	}
	out := make([]gin.H, 0, len(incidents))
	for _, inc := range incidents {
		out = append(out, h.present(inc))
	}
	c.JSON(http.StatusOK, out)
}

// Get GET /api/<kind>/:id
func (h *IncidentHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusNotFound, h.notFoundMsg(), nil)
		return
	}
	inc, err := h.Svc.Get(id)
	if err != nil {
		if application.IsNotFound(err) {
			response.Error(c, http.StatusNotFound, h.notFoundMsg(), nil)
			return
		}
		h.Logger.WithError(err).Error("get incident failed")
		response.Error(c, http.StatusInternalServerError, "Server Error", err.Error())
		return
	}
	response.Success(c, http.StatusOK, "", h.present(inc))
}

// Create POST /api/<kind>
func (h *IncidentHandler) Create(c *gin.Context) {
	inc, err := h.bind(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	stored, err := h.Svc.Create(c.Request.Context(), inc, middleware.UserID(c))
	if err != nil {
		if application.IsNotFound(err) {
			// read-back raced with a concurrent delete
			response.Error(c, http.StatusNotFound, h.notFoundMsg(), nil)
			return
		}
		h.Logger.WithError(err).Error("create incident failed")
		response.Error(c, http.StatusInternalServerError, "Server Error", err.Error())
		return
	}
	response.Success(c, http.StatusCreated, h.label()+" incident added successfully", h.present(stored))
}

// Update PUT /api/<kind>/:id
// Full overwrite: omitted optional fields are cleared, not preserved.
func (h *IncidentHandler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusNotFound, h.notFoundMsg(), nil)
		return
	}
	inc, err := h.bind(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if inc.Status == "" {
		inc.Status = h.Svc.Kind().DefaultStatus
	}
	stored, err := h.Svc.Update(c.Request.Context(), id, inc, middleware.UserID(c))
	if err != nil {
		if application.IsNotFound(err) {
			response.Error(c, http.StatusNotFound, h.notFoundMsg(), nil)
			return
		}
		h.Logger.WithError(err).Error("update incident failed")
		response.Error(c, http.StatusInternalServerError, "Server Error", err.Error())
		return
	}
	response.Success(c, http.StatusOK, h.label()+" incident updated successfully", h.present(stored))
}

// Delete DELETE /api/<kind>/:id
func (h *IncidentHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusNotFound, h.notFoundMsg(), nil)
		return
	}
	if err := h.Svc.Delete(c.Request.Context(), id, middleware.UserID(c)); err != nil {
		if application.IsNotFound(err) {
			response.Error(c, http.StatusNotFound, h.notFoundMsg(), nil)
			return
		}
		h.Logger.WithError(err).Error("delete incident failed")
		response.Error(c, http.StatusInternalServerError, "Server Error", err.Error())
		return
	}
	response.Success(c, http.StatusOK, h.label()+" incident deleted successfully", nil)
}

// Search GET /api/<kind>/search?q=
func (h *IncidentHandler) Search(c *gin.Context) {
	q := c.Query("q")
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	results, err := h.Svc.Search(c.Request.Context(), q, size)
	if err != nil {
		h.Logger.WithError(err).Error("search incidents failed")
		response.Error(c, http.StatusInternalServerError, "Server Error", err.Error())
		return
	}
	response.Success(c, http.StatusOK, "", results)
}
