package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/SebastianInformatico/COTRAQ-sub000/internal/http/middleware"
	"github.com/SebastianInformatico/COTRAQ-sub000/internal/model"
	"github.com/SebastianInformatico/COTRAQ-sub000/internal/service"
)

type Handler struct {
	trips      *service.TripService
	checklists *service.ChecklistService
	fleet      *service.FleetService
	log        zerolog.Logger
}

func NewHandler(
	trips *service.TripService,
	checklists *service.ChecklistService,
	fleet *service.FleetService,
	log zerolog.Logger,
) *Handler {
	return &Handler{trips: trips, checklists: checklists, fleet: fleet, log: log}
}

func (h *Handler) Register(router *gin.Engine, authMiddleware gin.HandlerFunc) {
	protected := router.Group("/")
	protected.Use(authMiddleware)

	protected.GET("/vehicles", h.listVehicles)
	protected.POST("/vehicles", h.createVehicle)
	protected.GET("/vehicles/:id", h.getVehicle)
	protected.GET("/vehicles/:id/documents", h.listDocuments)
	protected.POST("/vehicles/:id/documents", h.addDocument)
	protected.GET("/vehicles/:id/maintenance", h.listMaintenance)
	protected.POST("/vehicles/:id/maintenance", h.addMaintenance)
	protected.GET("/documents/expiring", h.expiringDocuments)

	protected.GET("/trips", h.listTrips)
	protected.POST("/trips", h.createTrip)
	protected.GET("/trips/:id", h.getTrip)
	protected.POST("/trips/:id/start", h.startTrip)
	protected.POST("/trips/:id/complete", h.completeTrip)
	protected.POST("/trips/:id/cancel", h.cancelTrip)
	protected.POST("/trips/:id/delay", h.delayTrip)
	protected.GET("/trips/:id/events", h.listEvents)
	protected.POST("/trips/:id/events", h.addEvent)
	protected.GET("/trips/:id/fuel-loads", h.listFuelLoads)
	protected.POST("/trips/:id/fuel-loads", h.recordFuelLoad)
	protected.GET("/trips/:id/checklists", h.applicableChecklists)
	protected.POST("/trips/:id/responses", h.submitResponse)
	protected.GET("/trips/:id/compliance", h.tripCompliance)
	protected.GET("/trips/:id/compliance/export", h.exportCompliance)
	protected.GET("/trips/:id/timeline", h.tripTimeline)
	protected.GET("/trips/:id/timeline/export", h.exportTimeline)

	protected.POST("/checklists", h.createChecklist)
	protected.POST("/checklists/:id/versions", h.newChecklistVersion)
	protected.POST("/responses/:id/review", h.reviewResponse)
	protected.DELETE("/responses/:id", h.deleteResponse)
}

// --- fleet ---

func (h *Handler) listVehicles(c *gin.Context) {
	vehicles, err := h.fleet.ListVehicles(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"vehicles": vehicles})
}

type createVehicleRequest struct {
	Plate      string  `json:"plate" binding:"required"`
	Category   string  `json:"category" binding:"required"`
	Make       string  `json:"make"`
	Model      string  `json:"model"`
	Year       int     `json:"year"`
	OdometerKm float64 `json:"odometer_km"`
}

func (h *Handler) createVehicle(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	var req createVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	vehicle, err := h.fleet.CreateVehicle(c.Request.Context(), principal, model.Vehicle{
		Plate:      strings.TrimSpace(req.Plate),
		Category:   model.VehicleCategory(req.Category),
		Make:       req.Make,
		Model:      req.Model,
		Year:       req.Year,
		OdometerKm: req.OdometerKm,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, vehicle)
}

func (h *Handler) getVehicle(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	vehicle, err := h.fleet.GetVehicle(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, vehicle)
}

func (h *Handler) listDocuments(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	docs, err := h.fleet.ListDocuments(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"documents": docs})
}

type addDocumentRequest struct {
	Kind      string  `json:"kind" binding:"required"`
	Number    string  `json:"number"`
	IssuedAt  string  `json:"issued_at" binding:"required"`
	ExpiresAt string  `json:"expires_at" binding:"required"`
	FileRef   *string `json:"file_ref"`
}

func (h *Handler) addDocument(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	vehicleID, ok := h.pathID(c)
	if !ok {
		return
	}
	var req addDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	issuedAt, err := parseDate(req.IssuedAt)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid issued_at"})
		return
	}
	expiresAt, err := parseDate(req.ExpiresAt)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid expires_at"})
		return
	}
	doc, err := h.fleet.AddDocument(c.Request.Context(), principal, model.VehicleDocument{
		VehicleID: vehicleID,
		Kind:      req.Kind,
		Number:    req.Number,
		IssuedAt:  issuedAt,
		ExpiresAt: expiresAt,
		FileRef:   req.FileRef,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, doc)
}

func (h *Handler) expiringDocuments(c *gin.Context) {
	days := 0
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid days"})
			return
		}
		days = parsed
	}
	docs, err := h.fleet.ExpiringDocuments(c.Request.Context(), days)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"documents": docs})
}

func (h *Handler) listMaintenance(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	records, err := h.fleet.ListMaintenance(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"maintenance_records": records})
}

type addMaintenanceRequest struct {
	MechanicID  string  `json:"mechanic_id"`
	ServiceType string  `json:"service_type" binding:"required"`
	Description string  `json:"description"`
	Cost        float64 `json:"cost"`
	OdometerKm  float64 `json:"odometer_km"`
	PerformedAt string  `json:"performed_at"`
}

func (h *Handler) addMaintenance(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	vehicleID, ok := h.pathID(c)
	if !ok {
		return
	}
	var req addMaintenanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	record := model.MaintenanceRecord{
		VehicleID:   vehicleID,
		ServiceType: req.ServiceType,
		Description: req.Description,
		Cost:        req.Cost,
		OdometerKm:  req.OdometerKm,
	}
	if req.MechanicID != "" {
		mechanicID, err := uuid.Parse(req.MechanicID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid mechanic_id"})
			return
		}
		record.MechanicID = mechanicID
	}
	if req.PerformedAt != "" {
		performedAt, err := parseDate(req.PerformedAt)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid performed_at"})
			return
		}
		record.PerformedAt = performedAt
	}
	saved, err := h.fleet.AddMaintenance(c.Request.Context(), principal, record)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, saved)
}

// --- trips ---

func (h *Handler) listTrips(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	var status *model.TripStatus
	if raw := c.Query("status"); raw != "" {
		parsed, err := parseTripStatus(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
			return
		}
		status = &parsed
	}
	trips, err := h.trips.List(c.Request.Context(), principal, status)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"trips": trips})
}

type createTripRequest struct {
	DriverID       string `json:"driver_id" binding:"required"`
	VehicleID      string `json:"vehicle_id" binding:"required"`
	CargoCategory  string `json:"cargo_category" binding:"required"`
	Origin         string `json:"origin" binding:"required"`
	Destination    string `json:"destination" binding:"required"`
	ScheduledStart string `json:"scheduled_start" binding:"required"`
	ScheduledEnd   string `json:"scheduled_end" binding:"required"`
}

func (h *Handler) createTrip(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	var req createTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	driverID, err := uuid.Parse(req.DriverID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid driver_id"})
		return
	}
	vehicleID, err := uuid.Parse(req.VehicleID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid vehicle_id"})
		return
	}
	start, err := parseDate(req.ScheduledStart)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid scheduled_start"})
		return
	}
	end, err := parseDate(req.ScheduledEnd)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid scheduled_end"})
		return
	}
	trip, err := h.trips.Create(c.Request.Context(), principal, service.CreateTripInput{
		DriverID:       driverID,
		VehicleID:      vehicleID,
		CargoCategory:  model.CargoCategory(req.CargoCategory),
		Origin:         req.Origin,
		Destination:    req.Destination,
		ScheduledStart: start,
		ScheduledEnd:   end,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, trip)
}

func (h *Handler) getTrip(c *gin.Context) {
	h.withTrip(c, func(principal model.Principal, tripID uuid.UUID) {
		trip, err := h.trips.Get(c.Request.Context(), principal, tripID)
		if err != nil {
			h.handleError(c, err)
			return
		}
		c.JSON(http.StatusOK, trip)
	})
}

func (h *Handler) startTrip(c *gin.Context) {
	h.withTrip(c, func(principal model.Principal, tripID uuid.UUID) {
		trip, err := h.trips.Start(c.Request.Context(), principal, tripID)
		if err != nil {
			h.handleError(c, err)
			return
		}
		c.JSON(http.StatusOK, trip)
	})
}

func (h *Handler) completeTrip(c *gin.Context) {
	h.withTrip(c, func(principal model.Principal, tripID uuid.UUID) {
		trip, err := h.trips.Complete(c.Request.Context(), principal, tripID)
		if err != nil {
			h.handleError(c, err)
			return
		}
		c.JSON(http.StatusOK, trip)
	})
}

func (h *Handler) cancelTrip(c *gin.Context) {
	h.withTrip(c, func(principal model.Principal, tripID uuid.UUID) {
		trip, err := h.trips.Cancel(c.Request.Context(), principal, tripID)
		if err != nil {
			h.handleError(c, err)
			return
		}
		c.JSON(http.StatusOK, trip)
	})
}

func (h *Handler) delayTrip(c *gin.Context) {
	h.withTrip(c, func(principal model.Principal, tripID uuid.UUID) {
		trip, err := h.trips.Delay(c.Request.Context(), principal, tripID)
		if err != nil {
			h.handleError(c, err)
			return
		}
		c.JSON(http.StatusOK, trip)
	})
}

func (h *Handler) listEvents(c *gin.Context) {
	h.withTrip(c, func(principal model.Principal, tripID uuid.UUID) {
		events, err := h.trips.ListEvents(c.Request.Context(), principal, tripID)
		if err != nil {
			h.handleError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"events": events})
	})
}

type addEventRequest struct {
	Kind        string          `json:"kind" binding:"required"`
	Description string          `json:"description"`
	Location    string          `json:"location"`
	Timestamp   string          `json:"timestamp"`
	Metadata    json.RawMessage `json:"metadata"`
}

func (h *Handler) addEvent(c *gin.Context) {
	h.withTrip(c, func(principal model.Principal, tripID uuid.UUID) {
		var req addEventRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		input := service.AddEventInput{
			TripID:      tripID,
			Kind:        req.Kind,
			Description: req.Description,
			Location:    req.Location,
			Metadata:    req.Metadata,
		}
		if req.Timestamp != "" {
			timestamp, err := parseDate(req.Timestamp)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid timestamp"})
				return
			}
			input.Timestamp = timestamp
		}
		event, err := h.trips.AddEvent(c.Request.Context(), principal, input)
		if err != nil {
			h.handleError(c, err)
			return
		}
		c.JSON(http.StatusCreated, event)
	})
}

func (h *Handler) listFuelLoads(c *gin.Context) {
	h.withTrip(c, func(principal model.Principal, tripID uuid.UUID) {
		loads, err := h.trips.ListFuelLoads(c.Request.Context(), principal, tripID)
		if err != nil {
			h.handleError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"fuel_loads": loads})
	})
}

type recordFuelLoadRequest struct {
	Liters        float64 `json:"liters" binding:"required"`
	PricePerLiter float64 `json:"price_per_liter"`
	TotalCost     float64 `json:"total_cost"`
	OdometerKm    float64 `json:"odometer_km"`
	Station       string  `json:"station"`
	Timestamp     string  `json:"timestamp"`
}

func (h *Handler) recordFuelLoad(c *gin.Context) {
	h.withTrip(c, func(principal model.Principal, tripID uuid.UUID) {
		var req recordFuelLoadRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		input := service.RecordFuelLoadInput{
			TripID:        tripID,
			Liters:        req.Liters,
			PricePerLiter: req.PricePerLiter,
			TotalCost:     req.TotalCost,
			OdometerKm:    req.OdometerKm,
			Station:       req.Station,
		}
		if req.Timestamp != "" {
			timestamp, err := parseDate(req.Timestamp)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid timestamp"})
				return
			}
			input.Timestamp = timestamp
		}
		load, err := h.trips.RecordFuelLoad(c.Request.Context(), principal, input)
		if err != nil {
			h.handleError(c, err)
			return
		}
		c.JSON(http.StatusCreated, load)
	})
}

// --- checklists ---

func (h *Handler) applicableChecklists(c *gin.Context) {
	h.withTrip(c, func(principal model.Principal, tripID uuid.UUID) {
		phase, err := parsePhase(c.Query("phase"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid phase"})
			return
		}
		mandatoryOnly := c.Query("mandatory") == "true"
		defs, err := h.checklists.ApplicableForTrip(c.Request.Context(), tripID, phase, mandatoryOnly)
		if err != nil {
			h.handleError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"checklists": defs})
	})
}

type submitResponseRequest struct {
	ItemID    string   `json:"item_id" binding:"required"`
	Value     string   `json:"value"`
	PhotoRefs []string `json:"photo_refs"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Timestamp string   `json:"timestamp"`
}

func (h *Handler) submitResponse(c *gin.Context) {
	h.withTrip(c, func(principal model.Principal, tripID uuid.UUID) {
		var req submitResponseRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		itemID, err := uuid.Parse(req.ItemID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item_id"})
			return
		}
		input := service.SubmitResponseInput{
			TripID:    tripID,
			ItemID:    itemID,
			RawValue:  req.Value,
			PhotoRefs: req.PhotoRefs,
			Latitude:  req.Latitude,
			Longitude: req.Longitude,
			Principal: principal,
		}
		if req.Timestamp != "" {
			timestamp, err := parseDate(req.Timestamp)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid timestamp"})
				return
			}
			input.Timestamp = timestamp
		}
		resp, err := h.checklists.SubmitResponse(c.Request.Context(), input)
		if err != nil {
			h.handleError(c, err)
			return
		}
		c.JSON(http.StatusCreated, resp)
	})
}

type reviewResponseRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *Handler) reviewResponse(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	responseID, ok := h.pathID(c)
	if !ok {
		return
	}
	var req reviewResponseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	status, err := parseReviewStatus(req.Status)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
		return
	}
	if err := h.checklists.ReviewResponse(c.Request.Context(), principal, responseID, status); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": string(status)})
}

func (h *Handler) deleteResponse(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	responseID, ok := h.pathID(c)
	if !ok {
		return
	}
	if err := h.checklists.DeleteResponse(c.Request.Context(), principal, responseID); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type createChecklistRequest struct {
	Name            string                `json:"name" binding:"required"`
	Phase           string                `json:"phase" binding:"required"`
	CargoCategory   string                `json:"cargo_category"`
	VehicleCategory string                `json:"vehicle_category"`
	Mandatory       bool                  `json:"mandatory"`
	Items           []createChecklistItem `json:"items" binding:"required"`
}

type createChecklistItem struct {
	Question    string                  `json:"question" binding:"required"`
	Kind        string                  `json:"kind" binding:"required"`
	Required    bool                    `json:"required"`
	Critical    bool                    `json:"critical"`
	OrderIndex  int                     `json:"order_index"`
	Options     []string                `json:"options"`
	Rules       *model.ValidationRules  `json:"validation_rules"`
	Conditional *model.ConditionalLogic `json:"conditional_logic"`
}

func (h *Handler) createChecklist(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	var req createChecklistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	phase, err := parsePhase(req.Phase)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid phase"})
		return
	}

	def := model.ChecklistDefinition{
		Name:            req.Name,
		Phase:           phase,
		CargoCategory:   model.CargoGeneral,
		VehicleCategory: model.VehicleAll,
		Mandatory:       req.Mandatory,
		Active:          true,
	}
	if req.CargoCategory != "" {
		def.CargoCategory = model.CargoCategory(req.CargoCategory)
	}
	if req.VehicleCategory != "" {
		def.VehicleCategory = model.VehicleCategory(req.VehicleCategory)
	}
	for i, item := range req.Items {
		orderIndex := item.OrderIndex
		if orderIndex == 0 {
			orderIndex = i + 1
		}
		def.Items = append(def.Items, model.ChecklistItemDefinition{
			Question:    item.Question,
			Kind:        model.AnswerKind(item.Kind),
			Required:    item.Required,
			Critical:    item.Critical,
			OrderIndex:  orderIndex,
			Options:     item.Options,
			Rules:       item.Rules,
			Conditional: item.Conditional,
		})
	}

	saved, err := h.checklists.CreateDefinition(c.Request.Context(), principal, def)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, saved)
}

func (h *Handler) newChecklistVersion(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	definitionID, ok := h.pathID(c)
	if !ok {
		return
	}
	def, err := h.checklists.NewDefinitionVersion(c.Request.Context(), principal, definitionID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, def)
}

func (h *Handler) tripCompliance(c *gin.Context) {
	h.withTrip(c, func(principal model.Principal, tripID uuid.UUID) {
		if _, err := h.trips.Get(c.Request.Context(), principal, tripID); err != nil {
			h.handleError(c, err)
			return
		}
		rows, err := h.checklists.TripCompliance(c.Request.Context(), tripID)
		if err != nil {
			h.handleError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"compliance": rows})
	})
}

func (h *Handler) exportCompliance(c *gin.Context) {
	h.withTrip(c, func(principal model.Principal, tripID uuid.UUID) {
		fileName, content, err := h.checklists.ComplianceReport(c.Request.Context(), principal, tripID)
		if err != nil {
			h.handleError(c, err)
			return
		}
		const contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		c.Header("Content-Disposition", "attachment; filename=\""+fileName+"\"")
		c.Data(http.StatusOK, contentType, content)
	})
}

func (h *Handler) tripTimeline(c *gin.Context) {
	h.withTrip(c, func(principal model.Principal, tripID uuid.UUID) {
		entries, err := h.trips.Timeline(c.Request.Context(), principal, tripID)
		if err != nil {
			h.handleError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"timeline": entries})
	})
}

func (h *Handler) exportTimeline(c *gin.Context) {
	h.withTrip(c, func(principal model.Principal, tripID uuid.UUID) {
		fileName, content, err := h.trips.TimelinePDF(c.Request.Context(), principal, tripID)
		if err != nil {
			h.handleError(c, err)
			return
		}
		c.Header("Content-Disposition", "attachment; filename=\""+fileName+"\"")
		c.Data(http.StatusOK, "application/pdf", content)
	})
}

// --- helpers ---

func (h *Handler) withTrip(c *gin.Context, fn func(principal model.Principal, tripID uuid.UUID)) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	tripID, ok := h.pathID(c)
	if !ok {
		return
	}
	fn(principal, tripID)
}

func (h *Handler) pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) handleError(c *gin.Context, err error) {
	var validationErr *service.ValidationError
	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation failed",
			"details": strings.Join(validationErr.Errors, "; "),
		})
	case errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrConflict), errors.Is(err, service.ErrChecklistIncomplete):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		h.log.Error().Err(err).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func parseTripStatus(raw string) (model.TripStatus, error) {
	switch model.TripStatus(strings.ToLower(strings.TrimSpace(raw))) {
	case model.TripScheduled:
		return model.TripScheduled, nil
	case model.TripInProgress:
		return model.TripInProgress, nil
	case model.TripCompleted:
		return model.TripCompleted, nil
	case model.TripCancelled:
		return model.TripCancelled, nil
	case model.TripDelayed:
		return model.TripDelayed, nil
	default:
		return "", service.ErrInvalidInput
	}
}

func parsePhase(raw string) (model.ChecklistPhase, error) {
	switch model.ChecklistPhase(strings.ToLower(strings.TrimSpace(raw))) {
	case model.PhasePreTrip:
		return model.PhasePreTrip, nil
	case model.PhaseDuringTrip:
		return model.PhaseDuringTrip, nil
	case model.PhasePostTrip:
		return model.PhasePostTrip, nil
	case model.PhaseMaintenance:
		return model.PhaseMaintenance, nil
	case model.PhaseSafety:
		return model.PhaseSafety, nil
	default:
		return "", service.ErrInvalidInput
	}
}

func parseReviewStatus(raw string) (model.ReviewStatus, error) {
	switch model.ReviewStatus(strings.ToLower(strings.TrimSpace(raw))) {
	case model.ReviewPending:
		return model.ReviewPending, nil
	case model.ReviewApproved:
		return model.ReviewApproved, nil
	case model.ReviewRejected:
		return model.ReviewRejected, nil
	case model.ReviewNeedsClarification:
		return model.ReviewNeedsClarification, nil
	default:
		return "", service.ErrInvalidInput
	}
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, service.ErrInvalidInput
	}
	layouts := []string{
		time.RFC3339,
		"2006-01-02",
		"2006-01-02T15:04:05",
	}
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, service.ErrInvalidInput
}
