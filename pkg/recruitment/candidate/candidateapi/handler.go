package candidateapi

import (
	"github.com/Abraxas-365/careerpath/pkg/iam"
	"github.com/Abraxas-365/careerpath/pkg/iam/auth"
	"github.com/Abraxas-365/careerpath/pkg/iam/role"
	"github.com/Abraxas-365/careerpath/pkg/recruitment/candidate"
	"github.com/Abraxas-365/careerpath/pkg/recruitment/candidate/candidatesrv"
	"github.com/gofiber/fiber/v2"
)

// CandidateHandlers maneja las rutas de candidatos con Fiber
type CandidateHandlers struct {
	service *candidatesrv.CandidateService
}

// NewCandidateHandlers crea un nuevo handler de candidatos
func NewCandidateHandlers(service *candidatesrv.CandidateService) *CandidateHandlers {
	return &CandidateHandlers{
		service: service,
	}
}

// RegisterRoutes registra las rutas de candidatos en Fiber
func (h *CandidateHandlers) RegisterRoutes(router fiber.Router, authMiddleware *auth.TokenMiddleware) {
	authenticated := authMiddleware.Authenticate()
	manage := authMiddleware.RequireRole(role.CanManageCandidates)

	// Candidatos dentro de un proceso
	processes := router.Group("/processes", authenticated)
	processes.Get("/:processId/candidates", h.ListCandidates)
	processes.Post("/:processId/candidates", manage, h.AddCandidate)

	// Candidatos por id y vistas transversales
	candidates := router.Group("/candidates", authenticated)
	candidates.Get("/", h.ListAll)
	candidates.Get("/ready-for-offer", h.ReadyForOffer)
	candidates.Get("/offer-history", h.OfferHistory)
	candidates.Get("/:id", h.GetCandidate)
	candidates.Post("/:id/status", manage, h.UpdateStatus)
	candidates.Post("/:id/offer", manage, h.UpdateOffer)
	candidates.Delete("/:id", manage, h.DeleteCandidate)
}

// ListCandidates lista los candidatos de un proceso con su historial
func (h *CandidateHandlers) ListCandidates(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return iam.ErrUnauthorized()
	}

	response, err := h.service.ListCandidates(c.Context(), authContext, c.Params("processId"))
	if err != nil {
		return err
	}

	return c.JSON(response)
}

// AddCandidate agrega un candidato a un proceso
func (h *CandidateHandlers) AddCandidate(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return iam.ErrUnauthorized()
	}

	var req candidate.AddCandidateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	response, err := h.service.AddCandidate(c.Context(), authContext, c.Params("processId"), req)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(response)
}

// GetCandidate obtiene un candidato con su historial
func (h *CandidateHandlers) GetCandidate(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return iam.ErrUnauthorized()
	}

	response, err := h.service.GetCandidate(c.Context(), authContext, c.Params("id"))
	if err != nil {
		return err
	}

	return c.JSON(response)
}

// ListAll lista todos los candidatos de los procesos visibles
func (h *CandidateHandlers) ListAll(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return iam.ErrUnauthorized()
	}

	response, err := h.service.ListAll(c.Context(), authContext)
	if err != nil {
		return err
	}

	return c.JSON(response)
}

// ReadyForOffer lista candidatos aprobados con oferta pendiente o enviada
func (h *CandidateHandlers) ReadyForOffer(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return iam.ErrUnauthorized()
	}

	response, err := h.service.ReadyForOffer(c.Context(), authContext)
	if err != nil {
		return err
	}

	return c.JSON(response)
}

// OfferHistory lista candidatos aprobados, decisión más reciente primero
func (h *CandidateHandlers) OfferHistory(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return iam.ErrUnauthorized()
	}

	response, err := h.service.OfferHistory(c.Context(), authContext)
	if err != nil {
		return err
	}

	return c.JSON(response)
}

// UpdateStatus mueve al candidato a una etapa del pipeline
func (h *CandidateHandlers) UpdateStatus(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return iam.ErrUnauthorized()
	}

	var req candidate.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	response, err := h.service.UpdateStatus(c.Context(), authContext, c.Params("id"), req)
	if err != nil {
		return err
	}

	return c.JSON(response)
}

// UpdateOffer avanza el sub-flujo de oferta de un candidato
func (h *CandidateHandlers) UpdateOffer(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return iam.ErrUnauthorized()
	}

	var req candidate.UpdateOfferRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	response, err := h.service.UpdateOffer(c.Context(), authContext, c.Params("id"), req)
	if err != nil {
		return err
	}

	return c.JSON(response)
}

// DeleteCandidate elimina un candidato
func (h *CandidateHandlers) DeleteCandidate(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return iam.ErrUnauthorized()
	}

	if err := h.service.DeleteCandidate(c.Context(), authContext, c.Params("id")); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": "Candidate deleted successfully",
	})
}
