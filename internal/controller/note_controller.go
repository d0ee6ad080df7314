package controller

import (
	"notekeeper-be/internal/dto"
	"notekeeper-be/internal/pkg/serverutils"
	"notekeeper-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type INoteController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	SoftDelete(ctx *fiber.Ctx) error
	ListTrash(ctx *fiber.Ctx) error
	Restore(ctx *fiber.Ctx) error
	DeletePermanently(ctx *fiber.Ctx) error
	EmptyTrash(ctx *fiber.Ctx) error
	TogglePin(ctx *fiber.Ctx) error
	ToggleFavorite(ctx *fiber.Ctx) error
	ToggleBookmark(ctx *fiber.Ctx) error
	ListPinned(ctx *fiber.Ctx) error
	ListFavorites(ctx *fiber.Ctx) error
	ListBookmarks(ctx *fiber.Ctx) error
	Search(ctx *fiber.Ctx) error
	Stats(ctx *fiber.Ctx) error
}

type noteController struct {
	noteService  service.INoteService
	queryService service.INoteQueryService
}

func NewNoteController(noteService service.INoteService, queryService service.INoteQueryService) INoteController {
	return &noteController{
		noteService:  noteService,
		queryService: queryService,
	}
}

func (c *noteController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/notes")
	h.Use(serverutils.JwtMiddleware)

	// Static paths before :id so fiber doesn't swallow them as ids.
	h.Post("/create", c.Create)
	h.Get("", c.List)
	h.Get("/trash", c.ListTrash)
	h.Delete("/trash/empty", c.EmptyTrash)
	h.Get("/pinned", c.ListPinned)
	h.Get("/favorites", c.ListFavorites)
	h.Get("/bookmarks", c.ListBookmarks)
	h.Get("/search", c.Search)
	h.Get("/stats", c.Stats)

	h.Get("/:id", c.Show)
	h.Put("/:id", c.Update)
	h.Patch("/:id/soft-delete", c.SoftDelete)
	h.Post("/:id/restore", c.Restore)
	h.Delete("/:id", c.DeletePermanently)
	h.Patch("/:id/pin", c.TogglePin)
	h.Patch("/:id/favorite", c.ToggleFavorite)
	h.Patch("/:id/bookmark", c.ToggleBookmark)
}

func callerUserId(ctx *fiber.Ctx) uuid.UUID {
	userIdStr, _ := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)
	return userId
}

func noteIdParam(ctx *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return uuid.Nil, serverutils.NewValidationError("invalid note id")
	}
	return id, nil
}

func (c *noteController) Create(ctx *fiber.Ctx) error {
	userId := callerUserId(ctx)

	var req dto.CreateNoteRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.NewValidationError("invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.noteService.Create(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success create note", res))
}

func (c *noteController) List(ctx *fiber.Ctx) error {
	userId := callerUserId(ctx)

	req := dto.ListNotesRequest{
		Page:           ctx.QueryInt("page", 1),
		Limit:          ctx.QueryInt("limit", 10),
		Search:         ctx.Query("search"),
		IncludeDeleted: ctx.QueryBool("includeDeleted", false),
	}

	notes, pagination, err := c.queryService.List(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.PaginatedResponse("Success list notes", notes, pagination))
}

func (c *noteController) Show(ctx *fiber.Ctx) error {
	userId := callerUserId(ctx)
	id, err := noteIdParam(ctx)
	if err != nil {
		return err
	}

	res, err := c.noteService.Show(ctx.Context(), userId, id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show note", res))
}

func (c *noteController) Update(ctx *fiber.Ctx) error {
	userId := callerUserId(ctx)
	id, err := noteIdParam(ctx)
	if err != nil {
		return err
	}

	var req dto.UpdateNoteRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.NewValidationError("invalid request body")
	}
	req.Id = id

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.noteService.Update(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success update note", res))
}

func (c *noteController) SoftDelete(ctx *fiber.Ctx) error {
	userId := callerUserId(ctx)
	id, err := noteIdParam(ctx)
	if err != nil {
		return err
	}

	if err := c.noteService.SoftDelete(ctx.Context(), userId, id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success move note to trash", nil))
}

func (c *noteController) ListTrash(ctx *fiber.Ctx) error {
	userId := callerUserId(ctx)

	notes, pagination, err := c.queryService.ListTrash(ctx.Context(), userId,
		ctx.QueryInt("page", 1), ctx.QueryInt("limit", 10))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.PaginatedResponse("Success list trash", notes, pagination))
}

func (c *noteController) Restore(ctx *fiber.Ctx) error {
	userId := callerUserId(ctx)
	id, err := noteIdParam(ctx)
	if err != nil {
		return err
	}

	res, err := c.noteService.Restore(ctx.Context(), userId, id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success restore note", res))
}

func (c *noteController) DeletePermanently(ctx *fiber.Ctx) error {
	userId := callerUserId(ctx)
	id, err := noteIdParam(ctx)
	if err != nil {
		return err
	}

	if err := c.noteService.DeletePermanently(ctx.Context(), userId, id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete note permanently", nil))
}

func (c *noteController) EmptyTrash(ctx *fiber.Ctx) error {
	userId := callerUserId(ctx)

	res, err := c.noteService.EmptyTrash(ctx.Context(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success empty trash", res))
}

func (c *noteController) TogglePin(ctx *fiber.Ctx) error {
	userId := callerUserId(ctx)
	id, err := noteIdParam(ctx)
	if err != nil {
		return err
	}

	var body dto.TogglePinBody
	if err := ctx.BodyParser(&body); err != nil {
		return serverutils.NewValidationError("invalid request body")
	}
	if err := serverutils.ValidateRequest(body); err != nil {
		return err
	}

	res, err := c.noteService.TogglePin(ctx.Context(), userId, id, *body.IsPinned)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success toggle pin", res))
}

func (c *noteController) ToggleFavorite(ctx *fiber.Ctx) error {
	userId := callerUserId(ctx)
	id, err := noteIdParam(ctx)
	if err != nil {
		return err
	}

	var body dto.ToggleFavoriteBody
	if err := ctx.BodyParser(&body); err != nil {
		return serverutils.NewValidationError("invalid request body")
	}
	if err := serverutils.ValidateRequest(body); err != nil {
		return err
	}

	res, err := c.noteService.ToggleFavorite(ctx.Context(), userId, id, *body.IsFavorite)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success toggle favorite", res))
}

func (c *noteController) ToggleBookmark(ctx *fiber.Ctx) error {
	userId := callerUserId(ctx)
	id, err := noteIdParam(ctx)
	if err != nil {
		return err
	}

	var body dto.ToggleBookmarkBody
	if err := ctx.BodyParser(&body); err != nil {
		return serverutils.NewValidationError("invalid request body")
	}
	if err := serverutils.ValidateRequest(body); err != nil {
		return err
	}

	res, err := c.noteService.ToggleBookmark(ctx.Context(), userId, id, *body.Bookmarked)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success toggle bookmark", res))
}

func (c *noteController) ListPinned(ctx *fiber.Ctx) error {
	userId := callerUserId(ctx)

	notes, pagination, err := c.queryService.ListPinned(ctx.Context(), userId,
		ctx.QueryInt("page", 1), ctx.QueryInt("limit", 10))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.PaginatedResponse("Success list pinned notes", notes, pagination))
}

func (c *noteController) ListFavorites(ctx *fiber.Ctx) error {
	userId := callerUserId(ctx)

	notes, pagination, err := c.queryService.ListFavorites(ctx.Context(), userId,
		ctx.QueryInt("page", 1), ctx.QueryInt("limit", 10))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.PaginatedResponse("Success list favorite notes", notes, pagination))
}

func (c *noteController) ListBookmarks(ctx *fiber.Ctx) error {
	userId := callerUserId(ctx)

	notes, pagination, err := c.queryService.ListBookmarks(ctx.Context(), userId,
		ctx.QueryInt("page", 1), ctx.QueryInt("limit", 10))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.PaginatedResponse("Success list bookmarked notes", notes, pagination))
}

func (c *noteController) Search(ctx *fiber.Ctx) error {
	userId := callerUserId(ctx)

	res, err := c.queryService.Search(ctx.Context(), userId,
		ctx.Query("query"), ctx.QueryBool("includeDeleted", false))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success search notes", res))
}

func (c *noteController) Stats(ctx *fiber.Ctx) error {
	userId := callerUserId(ctx)

	res, err := c.queryService.Stats(ctx.Context(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get note stats", res))
}
