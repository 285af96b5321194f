package processapi

import (
	"strings"

	"github.com/Abraxas-365/careerpath/pkg/iam"
	"github.com/Abraxas-365/careerpath/pkg/iam/auth"
	"github.com/Abraxas-365/careerpath/pkg/iam/role"
	"github.com/Abraxas-365/careerpath/pkg/kernel"
	"github.com/Abraxas-365/careerpath/pkg/recruitment/process"
	"github.com/Abraxas-365/careerpath/pkg/recruitment/process/processsrv"
	"github.com/gofiber/fiber/v2"
)

// ProcessHandlers maneja las rutas de procesos de selección con Fiber
type ProcessHandlers struct {
	service *processsrv.ProcessService
}

// NewProcessHandlers crea un nuevo handler de procesos
func NewProcessHandlers(service *processsrv.ProcessService) *ProcessHandlers {
	return &ProcessHandlers{
		service: service,
	}
}

// RegisterRoutes registra las rutas de procesos en Fiber
func (h *ProcessHandlers) RegisterRoutes(router fiber.Router, authMiddleware *auth.TokenMiddleware) {
	processes := router.Group("/processes", authMiddleware.Authenticate())

	processes.Get("/", h.ListProcesses)
	processes.Get("/counts", h.CountCandidates)
	processes.Get("/:id", h.GetProcess)

	// Solo HR puede crear, editar y borrar procesos
	manage := authMiddleware.RequireRole(role.CanManageProcesses)
	processes.Post("/", manage, h.CreateProcess)
	processes.Put("/:id", manage, h.UpdateProcess)
	processes.Delete("/:id", manage, h.DeleteProcess)

	processes.Get("/:id/access", manage, h.ListAccess)
	processes.Post("/:id/access", manage, h.GrantAccess)
	processes.Delete("/:id/access/:userId", manage, h.RevokeAccess)
}

// ListProcesses lista los procesos visibles para el usuario
func (h *ProcessHandlers) ListProcesses(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return iam.ErrUnauthorized()
	}

	response, err := h.service.ListProcesses(c.Context(), authContext)
	if err != nil {
		return err
	}

	return c.JSON(response)
}

// CountCandidates retorna candidatos por proceso para los ids pedidos
// (query param ids, separados por coma)
func (h *ProcessHandlers) CountCandidates(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return iam.ErrUnauthorized()
	}

	idsParam := c.Query("ids")
	if idsParam == "" {
		return c.JSON(process.CandidateCountsResponse{Counts: map[string]int{}})
	}

	var ids []string
	for _, id := range strings.Split(idsParam, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}

	response, err := h.service.CountCandidates(c.Context(), authContext, ids)
	if err != nil {
		return err
	}

	return c.JSON(response)
}

// GetProcess obtiene un proceso por ID
func (h *ProcessHandlers) GetProcess(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return iam.ErrUnauthorized()
	}

	processID := c.Params("id")
	if processID == "" {
		return process.ErrMissingField("id")
	}

	response, err := h.service.GetProcess(c.Context(), authContext, processID)
	if err != nil {
		return err
	}

	return c.JSON(response)
}

// CreateProcess crea un nuevo proceso de selección
func (h *ProcessHandlers) CreateProcess(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return iam.ErrUnauthorized()
	}

	var req process.CreateProcessRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	response, err := h.service.CreateProcess(c.Context(), authContext, req)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(response)
}

// UpdateProcess actualiza los campos editables de un proceso
func (h *ProcessHandlers) UpdateProcess(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return iam.ErrUnauthorized()
	}

	processID := c.Params("id")

	var req process.UpdateProcessRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	response, err := h.service.UpdateProcess(c.Context(), authContext, processID, req)
	if err != nil {
		return err
	}

	return c.JSON(response)
}

// DeleteProcess elimina un proceso
func (h *ProcessHandlers) DeleteProcess(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return iam.ErrUnauthorized()
	}

	processID := c.Params("id")

	if err := h.service.DeleteProcess(c.Context(), authContext, processID); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": "Process deleted successfully",
	})
}

// ListAccess lista los usuarios con acceso a un proceso
func (h *ProcessHandlers) ListAccess(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return iam.ErrUnauthorized()
	}

	response, err := h.service.ListAccess(c.Context(), authContext, c.Params("id"))
	if err != nil {
		return err
	}

	return c.JSON(response)
}

// GrantAccess otorga acceso sobre un proceso a un usuario
func (h *ProcessHandlers) GrantAccess(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return iam.ErrUnauthorized()
	}

	var req process.GrantAccessRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := h.service.GrantAccess(c.Context(), authContext, c.Params("id"), req); err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Access granted successfully",
	})
}

// RevokeAccess retira el acceso de un usuario sobre un proceso
func (h *ProcessHandlers) RevokeAccess(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return iam.ErrUnauthorized()
	}

	userID := kernel.NewUserID(c.Params("userId"))

	if err := h.service.RevokeAccess(c.Context(), authContext, c.Params("id"), userID); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": "Access revoked successfully",
	})
}
