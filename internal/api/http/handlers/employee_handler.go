package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/employee-directory/internal/api/dto"
	"github.com/spec-kit/employee-directory/internal/service"
	apperrors "github.com/spec-kit/employee-directory/pkg/util/errorutil"
)

// EmployeeHandler exposes the employee directory endpoints.
type EmployeeHandler struct {
	service *service.EmployeeService
	logger  *zap.Logger
}

// NewEmployeeHandler constructs handler.
func NewEmployeeHandler(employeeService *service.EmployeeService, logger *zap.Logger) *EmployeeHandler {
	return &EmployeeHandler{service: employeeService, logger: logger}
}

// CreateEmployee POST /api/employee.
func (h *EmployeeHandler) CreateEmployee(c *fiber.Ctx) error {
	var req dto.EmployeeRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload(err)
	}
	h.logger.Debug("received employee create request",
		zap.String("first_name", req.FirstName),
		zap.String("last_name", req.LastName))

	emp, err := h.service.Create(c.UserContext(), req.ToDomain())
	if err != nil {
		return err
	}
	c.Location("/api/employee/" + emp.ID)
	return c.Status(fiber.StatusCreated).JSON(dto.NewEmployeeResponse(emp))
}

// GetEmployee GET /api/employee/:id.
func (h *EmployeeHandler) GetEmployee(c *fiber.Ctx) error {
	id := c.Params("id")
	h.logger.Debug("received employee get request", zap.String("employee_id", id))

	emp, err := h.service.GetByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewEmployeeResponse(emp))
}

// ReplaceEmployee PUT /api/employee/:id.
func (h *EmployeeHandler) ReplaceEmployee(c *fiber.Ctx) error {
	id := c.Params("id")
	h.logger.Debug("received employee replace request", zap.String("employee_id", id))

	existing, err := h.service.GetByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	var req dto.EmployeeRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload(err)
	}
	updated, err := h.service.Replace(c.UserContext(), existing, req.ToDomain())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewEmployeeResponse(updated))
}

// GetReportingStructure GET /api/employee/GetReportingStructure/:id.
func (h *EmployeeHandler) GetReportingStructure(c *fiber.Ctx) error {
	id := c.Params("id")
	h.logger.Debug("received reporting structure request", zap.String("employee_id", id))

	rs, err := h.service.GetReportingStructure(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewReportingStructureResponse(rs))
}

// CreateCompensation POST /api/employee/CreateCompensation.
func (h *EmployeeHandler) CreateCompensation(c *fiber.Ctx) error {
	var req dto.CompensationRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload(err)
	}
	if missing := missingCompensationFields(req); len(missing) > 0 {
		return apperrors.NewValidationError("invalid compensation", missing)
	}
	comp := req.ToDomain()
	h.logger.Debug("received compensation create request", zap.String("employee_id", comp.EmployeeID))

	created, err := h.service.CreateCompensation(c.UserContext(), comp)
	if err != nil {
		return err
	}
	c.Location("/api/employee/GetCompensation/" + created.EmployeeID)
	return c.Status(fiber.StatusCreated).JSON(dto.NewCompensationResponse(created))
}

// GetCompensation GET /api/employee/GetCompensation/:id.
func (h *EmployeeHandler) GetCompensation(c *fiber.Ctx) error {
	id := c.Params("id")
	h.logger.Debug("received compensation get request", zap.String("employee_id", id))

	comp, err := h.service.GetCompensationByEmployeeID(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewCompensationResponse(comp))
}

func missingCompensationFields(req dto.CompensationRequest) map[string]any {
	missing := map[string]any{}
	if req.Employee == nil {
		missing["employee"] = "required"
	}
	if req.Salary == nil {
		missing["salary"] = "required"
	}
	if req.EffectiveDate == nil {
		missing["effectiveDate"] = "required"
	}
	return missing
}

func invalidPayload(err error) error {
	return apperrors.NewValidationError("invalid payload", map[string]any{"reason": err.Error()})
}
