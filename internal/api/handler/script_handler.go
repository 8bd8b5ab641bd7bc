package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/unityscripts/script-library/internal/core/domain"
	"github.com/unityscripts/script-library/internal/core/ports"
)

// ScriptHandler handles HTTP requests for script operations.
type ScriptHandler struct {
	service ports.ScriptService
}

func NewScriptHandler(service ports.ScriptService) *ScriptHandler {
	return &ScriptHandler{service: service}
}

// List handles GET /api/scripts.
//
// @Summary      List all scripts
// @Tags         scripts
// @Produce      json
// @Success      200  {array}   scriptResponse
// @Failure      500  {object}  messageResponse
// @Router       /api/scripts [get]
func (h *ScriptHandler) List(c echo.Context) error {
	scripts, err := h.service.ListScripts(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toScriptListResponse(scripts))
}

// Get handles GET /api/scripts/:id.
//
// @Summary      Get a script by id
// @Tags         scripts
// @Produce      json
// @Param        id   path      int  true  "Script id"
// @Success      200  {object}  scriptResponse
// @Failure      400  {object}  messageResponse
// @Failure      404  {object}  messageResponse
// @Router       /api/scripts/{id} [get]
func (h *ScriptHandler) Get(c echo.Context) error {
	id, err := scriptID(c)
	if err != nil {
		return err
	}

	script, err := h.service.GetScript(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toScriptResponse(script))
}

// Create handles POST /api/scripts.
//
// @Summary      Create a script
// @Tags         scripts
// @Accept       json
// @Produce      json
// @Param        body  body      createScriptRequest  true  "Script"
// @Success      201   {object}  scriptResponse
// @Failure      400   {object}  messageResponse
// @Failure      401   {object}  messageResponse
// @Failure      500   {object}  messageResponse
// @Router       /api/scripts [post]
func (h *ScriptHandler) Create(c echo.Context) error {
	var req createScriptRequest
	if err := c.Bind(&req); err != nil {
		return domain.NewValidationError("invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	script, err := h.service.CreateScript(c.Request().Context(), ports.CreateScriptInput{
		Name:        req.Name,
		Description: req.Description,
		Code:        req.Code,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toScriptResponse(script))
}

// Delete handles DELETE /api/scripts/:id.
//
// @Summary      Delete a script
// @Tags         scripts
// @Produce      json
// @Param        id   path      int  true  "Script id"
// @Success      200  {object}  messageResponse
// @Failure      400  {object}  messageResponse
// @Failure      401  {object}  messageResponse
// @Failure      404  {object}  messageResponse
// @Failure      500  {object}  messageResponse
// @Router       /api/scripts/{id} [delete]
func (h *ScriptHandler) Delete(c echo.Context) error {
	id, err := scriptID(c)
	if err != nil {
		return err
	}

	if err := h.service.DeleteScript(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Script deleted successfully"})
}

// scriptID parses the :id path parameter. A non-numeric id is the caller's fault.
func scriptID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, domain.NewValidationError("Invalid script ID")
	}
	return id, nil
}
