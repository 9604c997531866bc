package controller

import (
	"ei-coach-be/internal/dto"
	"ei-coach-be/internal/pkg/serverutils"
	"ei-coach-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ICoachController interface {
	RegisterRoutes(r fiber.Router)
	Recommend(ctx *fiber.Ctx) error
	Ingest(ctx *fiber.Ctx) error
	Status(ctx *fiber.Ctx) error
}

type coachController struct {
	coachService  service.ICoachService
	ingestService service.IIngestService
}

func NewCoachController(coachService service.ICoachService, ingestService service.IIngestService) ICoachController {
	return &coachController{
		coachService:  coachService,
		ingestService: ingestService,
	}
}

func (c *coachController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/coach/v1")
	h.Post("/recommend", c.Recommend)
	h.Post("/ingest", c.Ingest)
	h.Get("/status", c.Status)
}

func (c *coachController) Recommend(ctx *fiber.Ctx) error {
	var req dto.RecommendRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.coachService.Recommend(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success generate recommendation", res))
}

func (c *coachController) Ingest(ctx *fiber.Ctx) error {
	var req dto.IngestRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.ingestService.IngestFiles(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success ingest corpus", res))
}

func (c *coachController) Status(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Success get index status", c.ingestService.Status()))
}
