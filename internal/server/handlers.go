package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v3"

	"gridmesh/internal/annotation"
	"gridmesh/internal/config"
	"gridmesh/internal/ctxlog"
	"gridmesh/internal/geom"
	"gridmesh/internal/grid"
)

// GridHandler serves the grids of a manager. Every manager call runs under
// the request context.
type GridHandler struct {
	cfg   *config.Config
	grids *annotation.Manager
}

func NewGridHandler(cfg *config.Config, grids *annotation.Manager) *GridHandler {
	return &GridHandler{cfg: cfg, grids: grids}
}

type gridResponse struct {
	ID         string `json:"id"`
	Refinement bool   `json:"refinement"`
	Lines      any    `json:"lines"`
}

type placeRequest struct {
	X         *float64 `json:"x"`
	Y         *float64 `json:"y"`
	Primary   int      `json:"primary"`
	Secondary int      `json:"secondary"`
}

type offsetRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// editRequest applies the set fields in the order refinement, primary,
// secondary, spacing, angle, rotate, offset.
type editRequest struct {
	Refinement *bool          `json:"refinement"`
	Primary    *int           `json:"primary"`
	Secondary  *int           `json:"secondary"`
	Spacing    *float64       `json:"spacing"`
	Angle      *float64       `json:"angle"`
	Rotate     *float64       `json:"rotate"`
	Offset     *offsetRequest `json:"offset"`
}

type setStateRequest struct {
	Lines      []grid.CompactLine `json:"lines"`
	IDs        []string           `json:"ids"`
	Refinement bool               `json:"refinement"`
}

type existsRequest struct {
	IDs []string `json:"ids"`
}

// statusFor maps engine and storage errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, grid.ErrEmptyGrid), errors.Is(err, annotation.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, grid.ErrNotNumeric), errors.Is(err, grid.ErrOutOfBounds),
		errors.Is(err, grid.ErrNotCommonPoint), errors.Is(err, grid.ErrInvalidTopology):
		return http.StatusBadRequest
	case errors.Is(err, grid.ErrSessionActive), errors.Is(err, grid.ErrNoSession),
		errors.Is(err, grid.ErrGridExists):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func (h *GridHandler) fail(c fiber.Ctx, op string, err error) error {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		ctxlog.FromContext(c.Context()).Error("grid request failed", "op", op, "err", err)
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

func decode(c fiber.Ctx, v any) error {
	if len(c.Body()) == 0 {
		return errors.New("empty body")
	}
	if err := json.Unmarshal(c.Body(), v); err != nil {
		return errors.New("invalid json")
	}
	return nil
}

func badRequest(c fiber.Ctx, msg string) error {
	return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": msg})
}

// respond writes the compact state of image id.
func (h *GridHandler) respond(c fiber.Ctx, status int, id string) error {
	lines, err := h.grids.CompactState(c.Context(), id)
	if err != nil {
		return h.fail(c, "state", err)
	}
	return c.Status(status).JSON(gridResponse{ID: id, Refinement: h.grids.Refinement(id), Lines: lines})
}

// Get returns the grid of an image, compact unless ?compact=false.
func (h *GridHandler) Get(c fiber.Ctx) error {
	id := c.Params("id")
	compact := true
	if q := c.Query("compact"); q != "" {
		v, err := strconv.ParseBool(q)
		if err != nil {
			return badRequest(c, "compact must be a boolean")
		}
		compact = v
	}
	if compact {
		return h.respond(c, http.StatusOK, id)
	}
	lines, err := h.grids.FullState(c.Context(), id)
	if err != nil {
		return h.fail(c, "state", err)
	}
	return c.JSON(gridResponse{ID: id, Refinement: h.grids.Refinement(id), Lines: lines})
}

// Place creates the grid of an image in one step.
func (h *GridHandler) Place(c fiber.Ctx) error {
	id := c.Params("id")
	var req placeRequest
	if err := decode(c, &req); err != nil {
		return badRequest(c, err.Error())
	}
	if req.X == nil || req.Y == nil {
		return badRequest(c, "x and y required")
	}
	if req.Primary == 0 {
		req.Primary = h.cfg.PrimaryLines
	}
	if req.Secondary == 0 {
		req.Secondary = h.cfg.SecondaryLines
	}
	err := h.grids.Do(c.Context(), id, func(g *grid.Grid) error {
		return g.Place(grid.Pt(*req.X, *req.Y), req.Primary, req.Secondary)
	})
	if err != nil {
		return h.fail(c, "place", err)
	}
	return h.respond(c, http.StatusCreated, id)
}

// Edit applies structural edits to an existing grid.
func (h *GridHandler) Edit(c fiber.Ctx) error {
	id := c.Params("id")
	var req editRequest
	if err := decode(c, &req); err != nil {
		return badRequest(c, err.Error())
	}
	has, err := h.grids.HasGridForImages(c.Context(), []string{id})
	if err != nil {
		return h.fail(c, "edit", err)
	}
	if !has {
		return h.fail(c, "edit", grid.ErrEmptyGrid)
	}
	if req.Refinement != nil {
		if err := h.grids.SetRefinement(c.Context(), id, *req.Refinement); err != nil {
			return h.fail(c, "refinement", err)
		}
	}
	err = h.grids.Do(c.Context(), id, func(g *grid.Grid) error {
		if req.Primary != nil {
			g.SetPrimaryLineCount(*req.Primary)
		}
		if req.Secondary != nil {
			g.SetSecondaryLineCount(*req.Secondary)
		}
		var errs []error
		if req.Spacing != nil {
			errs = append(errs, g.SetSpacing(*req.Spacing))
		}
		if req.Angle != nil {
			errs = append(errs, g.SetAngle(*req.Angle))
		}
		if req.Rotate != nil {
			errs = append(errs, g.Rotate(*req.Rotate))
		}
		if req.Offset != nil {
			errs = append(errs, g.SetOffset(grid.Pt(req.Offset.X, req.Offset.Y), false))
		}
		return errors.Join(errs...)
	})
	if err != nil {
		return h.fail(c, "edit", err)
	}
	return h.respond(c, http.StatusOK, id)
}

// Remove deletes the grid of an image.
func (h *GridHandler) Remove(c fiber.Ctx) error {
	id := c.Params("id")
	err := h.grids.Do(c.Context(), id, func(g *grid.Grid) error {
		if g.Empty() {
			return grid.ErrEmptyGrid
		}
		g.Remove()
		return nil
	})
	if err != nil {
		return h.fail(c, "remove", err)
	}
	return c.SendStatus(http.StatusNoContent)
}

// SetState copies a line list onto every listed image.
func (h *GridHandler) SetState(c fiber.Ctx) error {
	var req setStateRequest
	if err := decode(c, &req); err != nil {
		return badRequest(c, err.Error())
	}
	if len(req.IDs) == 0 {
		return badRequest(c, "ids required")
	}
	if err := h.grids.SetStateForImages(c.Context(), req.Lines, req.IDs, req.Refinement); err != nil {
		return h.fail(c, "set state", err)
	}
	return c.JSON(fiber.Map{"updated": req.IDs})
}

// Exists reports whether every listed image has a grid.
func (h *GridHandler) Exists(c fiber.Ctx) error {
	var req existsRequest
	if err := decode(c, &req); err != nil {
		return badRequest(c, err.Error())
	}
	ok, err := h.grids.HasGridForImages(c.Context(), req.IDs)
	if err != nil {
		return h.fail(c, "exists", err)
	}
	return c.JSON(fiber.Map{"exists": ok})
}

// Export renders the grid of an image in a geometry format.
func (h *GridHandler) Export(c fiber.Ctx) error {
	id := c.Params("id")
	f, err := geom.ParseFormat(c.Params("format"))
	if err != nil {
		return badRequest(c, err.Error())
	}
	lines, err := h.grids.CompactState(c.Context(), id)
	if err != nil {
		return h.fail(c, "export", err)
	}
	if len(lines) == 0 {
		return h.fail(c, "export", grid.ErrEmptyGrid)
	}
	b, err := geom.Encode(f, id, lines)
	if err != nil {
		return h.fail(c, "export", err)
	}
	c.Set(fiber.HeaderContentType, f.ContentType())
	return c.Send(b)
}

// List returns the images that have a grid.
func (h *GridHandler) List(c fiber.Ctx) error {
	ids, err := h.grids.Images(c.Context())
	if err != nil {
		return h.fail(c, "list", err)
	}
	if ids == nil {
		ids = []string{}
	}
	return c.JSON(fiber.Map{"images": ids})
}
