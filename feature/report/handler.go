package report

import (
	"errors"
	"reflect"
	"strings"

	"report-sync/core/cache"
	"report-sync/core/logger"
	"report-sync/core/remote"
	"report-sync/feature/report/local"
	"report-sync/feature/report/models"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for reports and the remote session.
type Handler struct {
	repo     *Repository
	vm       *ViewModel
	logger   *zap.Logger
	validate *validator.Validate
}

// NewHandler creates a new HTTP handler.
func NewHandler(repo *Repository, vm *ViewModel, logger *zap.Logger) *Handler {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Handler{repo: repo, vm: vm, logger: logger, validate: v}
}

// RegisterRoutes registers the report and auth routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	reports := app.Group("/reports")
	reports.Get("/", h.HandleGetAllReports)
	reports.Get("/cached", h.HandleGetCachedReports)
	reports.Get("/state", h.HandleGetState)
	reports.Post("/refresh", h.HandleRefresh)
	reports.Get("/user/:userId", h.HandleGetUserReports)
	reports.Post("/", h.HandleSaveReport)
	reports.Patch("/:id", h.HandleUpdateReport)
	reports.Delete("/:id", h.HandleDeleteReport)

	auth := app.Group("/auth")
	auth.Post("/signup", h.HandleSignUp)
	auth.Post("/signin", h.HandleSignIn)
	auth.Post("/signout", h.HandleSignOut)
	auth.Put("/password", h.HandleUpdatePassword)
	auth.Get("/me", h.HandleCurrentUser)
}

// Credentials is the sign-in and sign-up body.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// PasswordChange is the password update body.
type PasswordChange struct {
	Password string `json:"password" validate:"required,min=6"`
}

// HandleGetAllReports refreshes every report from the remote.
// @Summary List reports
// @Description Fetch all reports from the remote and refresh the local cache.
// @Tags reports
// @Produce json
// @Success 200 {array} models.Report
// @Failure 502 {object} map[string]string "Remote failure"
// @Router /reports [get]
func (h *Handler) HandleGetAllReports(c *fiber.Ctx) error {
	reports, err := h.repo.GetAllReports(c.UserContext())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(reports)
}

// HandleGetUserReports refreshes the reports of one user.
// @Summary List user reports
// @Tags reports
// @Produce json
// @Param userId path string true "Owner id"
// @Success 200 {array} models.Report
// @Failure 502 {object} map[string]string "Remote failure"
// @Router /reports/user/{userId} [get]
func (h *Handler) HandleGetUserReports(c *fiber.Ctx) error {
	reports, err := h.repo.GetReportsForUser(c.UserContext(), c.Params("userId"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(reports)
}

// HandleGetCachedReports reads the local cache without contacting the remote.
// @Summary List cached reports
// @Tags reports
// @Produce json
// @Param user query string false "Owner id"
// @Success 200 {array} models.Report
// @Router /reports/cached [get]
func (h *Handler) HandleGetCachedReports(c *fiber.Ctx) error {
	reports, err := h.repo.CachedReports(c.UserContext(), c.Query("user"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(reports)
}

// HandleGetState returns the view-model state.
// @Summary Current sync state
// @Tags reports
// @Produce json
// @Success 200 {object} StateView
// @Router /reports/state [get]
func (h *Handler) HandleGetState(c *fiber.Ctx) error {
	return c.JSON(View(h.vm.State()))
}

// HandleRefresh queues a background refresh.
// @Summary Queue refresh
// @Tags reports
// @Produce json
// @Success 202 {object} StateView
// @Failure 503 {object} map[string]string "Worker pool closed"
// @Router /reports/refresh [post]
func (h *Handler) HandleRefresh(c *fiber.Ctx) error {
	if err := h.vm.LoadAllReports(); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusAccepted).JSON(View(h.vm.State()))
}

// HandleSaveReport creates a report.
// @Summary Create report
// @Tags reports
// @Accept json
// @Produce json
// @Param report body models.NewReport true "Report"
// @Success 201 {object} models.Report
// @Failure 400 {object} map[string]any "Validation error"
// @Failure 401 {object} map[string]string "Not signed in"
// @Router /reports [post]
func (h *Handler) HandleSaveReport(c *fiber.Ctx) error {
	var in models.NewReport
	if err := h.bind(c, &in); err != nil {
		return h.fail(c, err)
	}
	saved, err := h.repo.SaveReport(c.UserContext(), in)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(saved)
}

// HandleUpdateReport patches a report.
// @Summary Update report
// @Tags reports
// @Accept json
// @Param id path string true "Report id"
// @Param patch body models.ReportPatch true "Changed fields"
// @Success 204
// @Failure 404 {object} map[string]string "Not found"
// @Router /reports/{id} [patch]
func (h *Handler) HandleUpdateReport(c *fiber.Ctx) error {
	var patch models.ReportPatch
	if err := h.bind(c, &patch); err != nil {
		return h.fail(c, err)
	}
	if err := h.repo.UpdateReport(c.UserContext(), c.Params("id"), patch); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleDeleteReport deletes a report.
// @Summary Delete report
// @Tags reports
// @Param id path string true "Report id"
// @Success 204
// @Router /reports/{id} [delete]
func (h *Handler) HandleDeleteReport(c *fiber.Ctx) error {
	if err := h.repo.DeleteReport(c.UserContext(), c.Params("id")); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleSignUp creates an account.
// @Summary Sign up
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body Credentials true "Credentials"
// @Success 201 {object} User
// @Failure 409 {object} map[string]string "Email taken"
// @Router /auth/signup [post]
func (h *Handler) HandleSignUp(c *fiber.Ctx) error {
	var in Credentials
	if err := h.bind(c, &in); err != nil {
		return h.fail(c, err)
	}
	if err := h.repo.SignUp(c.UserContext(), in.Email, in.Password); err != nil {
		return h.fail(c, err)
	}
	user, _ := h.repo.CurrentUser()
	return c.Status(fiber.StatusCreated).JSON(user)
}

// HandleSignIn starts a session.
// @Summary Sign in
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body Credentials true "Credentials"
// @Success 200 {object} User
// @Failure 401 {object} map[string]string "Invalid credentials"
// @Router /auth/signin [post]
func (h *Handler) HandleSignIn(c *fiber.Ctx) error {
	var in Credentials
	if err := h.bind(c, &in); err != nil {
		return h.fail(c, err)
	}
	if err := h.repo.SignIn(c.UserContext(), in.Email, in.Password); err != nil {
		return h.fail(c, err)
	}
	user, _ := h.repo.CurrentUser()
	return c.JSON(user)
}

// HandleSignOut ends the session.
// @Summary Sign out
// @Tags auth
// @Success 204
// @Router /auth/signout [post]
func (h *Handler) HandleSignOut(c *fiber.Ctx) error {
	if err := h.repo.SignOut(c.UserContext()); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleUpdatePassword changes the signed-in user's password.
// @Summary Change password
// @Tags auth
// @Accept json
// @Param body body PasswordChange true "New password"
// @Success 204
// @Failure 401 {object} map[string]string "Not signed in"
// @Router /auth/password [put]
func (h *Handler) HandleUpdatePassword(c *fiber.Ctx) error {
	var in PasswordChange
	if err := h.bind(c, &in); err != nil {
		return h.fail(c, err)
	}
	if err := h.repo.UpdatePassword(c.UserContext(), in.Password); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleCurrentUser returns the signed-in user.
// @Summary Current user
// @Tags auth
// @Produce json
// @Success 200 {object} User
// @Failure 401 {object} map[string]string "Not signed in"
// @Router /auth/me [get]
func (h *Handler) HandleCurrentUser(c *fiber.Ctx) error {
	user, ok := h.repo.CurrentUser()
	if !ok {
		return h.fail(c, remote.ErrNotSignedIn)
	}
	return c.JSON(user)
}

// RequestError is an unreadable or invalid request body.
type RequestError struct {
	Message string
	Fields  map[string]string
}

func (e *RequestError) Error() string {
	return e.Message
}

// bind parses and validates the body into dst.
func (h *Handler) bind(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return &RequestError{Message: "invalid request body"}
	}
	if err := h.validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return &RequestError{Message: err.Error()}
		}
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = fe.Tag()
		}
		return &RequestError{Message: "validation failed", Fields: fields}
	}
	return nil
}

func (h *Handler) fail(c *fiber.Ctx, err error) error {
	status := StatusFor(err)
	l := logger.WithRayID(h.logger, c)
	if status >= fiber.StatusInternalServerError {
		l.Error("Request failed", zap.Int("status", status), zap.Error(err))
	} else {
		l.Debug("Request rejected", zap.Int("status", status), zap.Error(err))
	}
	body := fiber.Map{"error": err.Error()}
	var re *RequestError
	if errors.As(err, &re) && len(re.Fields) > 0 {
		body["fields"] = re.Fields
	}
	return c.Status(status).JSON(body)
}

// StatusFor maps an error to its HTTP status.
func StatusFor(err error) int {
	var (
		rf *remote.Failure
		re *RequestError
	)
	switch {
	case errors.As(err, &re):
		return fiber.StatusBadRequest
	case errors.Is(err, remote.ErrNotSignedIn), errors.Is(err, remote.ErrInvalidCredentials):
		return fiber.StatusUnauthorized
	case errors.Is(err, remote.ErrReportNotFound), errors.Is(err, cache.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, remote.ErrEmailTaken):
		return fiber.StatusConflict
	case errors.Is(err, remote.ErrCancelled):
		return fiber.StatusRequestTimeout
	case errors.As(err, &rf), errors.Is(err, local.ErrForeignOwner):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}
