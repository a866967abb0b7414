package controllers

import (
	"errors"
	"strconv"
	"time"

	"stride/backend/config"
	"stride/backend/models"
	"stride/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// TasksController covers the thin productivity surface: to-do items and
// notes. Plain owner-scoped CRUD, no lifecycle rules.
type TasksController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewTasksController(db *gorm.DB, cfg *config.Config) *TasksController {
	return &TasksController{DB: db, Cfg: cfg}
}

type TaskRequest struct {
	Title   string     `json:"title" validate:"required,max=200"`
	IsDone  *bool      `json:"is_done"`
	DueDate *time.Time `json:"due_date"`
}

type NoteRequest struct {
	Title string `json:"title" validate:"required,max=200"`
	Body  string `json:"body"`
}

func (tc *TasksController) GetTasks(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, tc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var tasks []models.Task
	if err := tc.DB.Where("user_id = ?", userID).Order("id DESC").Find(&tasks).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}
	return utils.Success(c, fiber.StatusOK, tasks)
}

func (tc *TasksController) CreateTask(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, tc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var input TaskRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if details := utils.ValidateStruct(input); details != nil {
		return utils.ValidationError(c, details)
	}

	task := models.Task{UserID: userID, Title: input.Title, DueDate: input.DueDate}
	if input.IsDone != nil {
		task.IsDone = *input.IsDone
	}
	if err := tc.DB.Create(&task).Error; err != nil {
		return utils.InternalServerError(c, "Could not create task")
	}
	return utils.Created(c, task)
}

func (tc *TasksController) UpdateTask(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, tc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	taskID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid task ID")
	}

	var input TaskRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if details := utils.ValidateStruct(input); details != nil {
		return utils.ValidationError(c, details)
	}

	var task models.Task
	err = tc.DB.Where("id = ? AND user_id = ?", taskID, userID).First(&task).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.NotFound(c, "Task not found")
	}
	if err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	task.Title = input.Title
	task.DueDate = input.DueDate
	if input.IsDone != nil {
		task.IsDone = *input.IsDone
	}
	if err := tc.DB.Save(&task).Error; err != nil {
		return utils.InternalServerError(c, "Could not update task")
	}
	return utils.Success(c, fiber.StatusOK, task)
}

func (tc *TasksController) DeleteTask(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, tc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	taskID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid task ID")
	}

	result := tc.DB.Where("id = ? AND user_id = ?", taskID, userID).Delete(&models.Task{})
	if result.Error != nil {
		return utils.InternalServerError(c, "Could not delete task")
	}
	if result.RowsAffected == 0 {
		return utils.NotFound(c, "Task not found")
	}
	return utils.NoContent(c)
}

func (tc *TasksController) GetNotes(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, tc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var notes []models.Note
	if err := tc.DB.Where("user_id = ?", userID).Order("updated_at DESC").Find(&notes).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}
	return utils.Success(c, fiber.StatusOK, notes)
}

func (tc *TasksController) CreateNote(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, tc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var input NoteRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if details := utils.ValidateStruct(input); details != nil {
		return utils.ValidationError(c, details)
	}

	note := models.Note{UserID: userID, Title: input.Title, Body: input.Body}
	if err := tc.DB.Create(&note).Error; err != nil {
		return utils.InternalServerError(c, "Could not create note")
	}
	return utils.Created(c, note)
}

func (tc *TasksController) UpdateNote(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, tc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	noteID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid note ID")
	}

	var input NoteRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if details := utils.ValidateStruct(input); details != nil {
		return utils.ValidationError(c, details)
	}

	var note models.Note
	err = tc.DB.Where("id = ? AND user_id = ?", noteID, userID).First(&note).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.NotFound(c, "Note not found")
	}
	if err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	note.Title = input.Title
	note.Body = input.Body
	if err := tc.DB.Save(&note).Error; err != nil {
		return utils.InternalServerError(c, "Could not update note")
	}
	return utils.Success(c, fiber.StatusOK, note)
}

func (tc *TasksController) DeleteNote(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, tc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	noteID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid note ID")
	}

	result := tc.DB.Where("id = ? AND user_id = ?", noteID, userID).Delete(&models.Note{})
	if result.Error != nil {
		return utils.InternalServerError(c, "Could not delete note")
	}
	if result.RowsAffected == 0 {
		return utils.NotFound(c, "Note not found")
	}
	return utils.NoContent(c)
}
