// internal/server/handlers_clients.go
package server

import (
	"encoding/csv"
	"fmt"
	"sort"
	"strings"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"

	"francis-backend/internal/common/errors"
	"francis-backend/internal/extraction/suggestion"
	"francis-backend/internal/models"
)

type ClientHandler struct {
	container *Container
}

func NewClientHandler(c *Container) *ClientHandler {
	return &ClientHandler{container: c}
}

func (h *ClientHandler) List(ctx *fiber.Ctx) error {
	user, err := requestUser(ctx)
	if err != nil {
		return err
	}

	profiles, err := h.container.Clients.List(ctx.UserContext(), user.ID)
	if err != nil {
		return err
	}
	if profiles == nil {
		profiles = []*models.ClientProfile{}
	}
	return ctx.JSON(fiber.Map{"clients": profiles})
}

func (h *ClientHandler) Create(ctx *fiber.Ctx) error {
	user, err := requestUser(ctx)
	if err != nil {
		return err
	}

	var profile models.ClientProfile
	if err := ctx.BodyParser(&profile); err != nil {
		return errors.NewInvalidPayloadError(err.Error())
	}

	created, err := h.container.Clients.Create(ctx.UserContext(), user.ID, &profile)
	if err != nil {
		return err
	}
	h.mirrorToIndex(ctx, user.ID, created)

	return ctx.Status(fiber.StatusCreated).JSON(created)
}

func (h *ClientHandler) Get(ctx *fiber.Ctx) error {
	user, err := requestUser(ctx)
	if err != nil {
		return err
	}

	profile, err := h.container.Clients.Get(ctx.UserContext(), user.ID, ctx.Params("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(profile)
}

func (h *ClientHandler) Update(ctx *fiber.Ctx) error {
	user, err := requestUser(ctx)
	if err != nil {
		return err
	}

	var profile models.ClientProfile
	if err := ctx.BodyParser(&profile); err != nil {
		return errors.NewInvalidPayloadError(err.Error())
	}
	profile.ID = ctx.Params("id")
	profile.Finalize()

	if err := h.container.Clients.Update(ctx.UserContext(), user.ID, &profile); err != nil {
		return err
	}
	h.mirrorToIndex(ctx, user.ID, &profile)

	// A questionnaire that just reached completion wakes the advisor up.
	state := suggestion.Compute(&profile)
	if state.Stage == suggestion.StageComplete {
		h.container.Notifier.ProfileSubmitted(ctx.UserContext(), &profile, state.CompletionRate)
	}

	return ctx.JSON(&profile)
}

func (h *ClientHandler) Delete(ctx *fiber.Ctx) error {
	user, err := requestUser(ctx)
	if err != nil {
		return err
	}

	clientID := ctx.Params("id")
	if err := h.container.Clients.Delete(ctx.UserContext(), user.ID, clientID); err != nil {
		return err
	}
	if err := h.deleteFromIndex(ctx, clientID); err != nil {
		h.container.Logger.Warn("search index delete failed", map[string]interface{}{
			"clientId": clientID,
			"error":    err.Error(),
		})
	}
	return ctx.SendStatus(fiber.StatusNoContent)
}

// Search queries the Elasticsearch mirror. An unusable index degrades to an
// empty result set instead of an error: the dashboard list remains usable.
func (h *ClientHandler) Search(ctx *fiber.Ctx) error {
	user, err := requestUser(ctx)
	if err != nil {
		return err
	}
	query := strings.TrimSpace(ctx.Query("q"))
	if query == "" {
		return errors.NewValidationFailedError("paramètre q requis")
	}

	if h.container.ClientIndex == nil {
		return ctx.JSON(fiber.Map{"hits": []interface{}{}, "degraded": true})
	}

	hits, err := h.container.ClientIndex.Search(ctx.UserContext(), user.ID, query, ctx.QueryInt("size", 20))
	if err != nil {
		h.container.Logger.Warn("client search degraded", map[string]interface{}{
			"error": err.Error(),
		})
		return ctx.JSON(fiber.Map{"hits": []interface{}{}, "degraded": true})
	}
	return ctx.JSON(fiber.Map{"hits": hits})
}

// Analyze recomputes the suggestion state for one client from scratch.
func (h *ClientHandler) Analyze(ctx *fiber.Ctx) error {
	user, err := requestUser(ctx)
	if err != nil {
		return err
	}

	profile, err := h.container.Clients.Get(ctx.UserContext(), user.ID, ctx.Params("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(suggestion.Compute(profile))
}

type askFrancisRequest struct {
	Question            string               `json:"question"`
	ConversationHistory []models.ChatMessage `json:"conversation_history"`
}

// AskFrancis forwards an advisor question about one client, with the client
// profile attached as context.
func (h *ClientHandler) AskFrancis(ctx *fiber.Ctx) error {
	user, err := requestUser(ctx)
	if err != nil {
		return err
	}

	var req askFrancisRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errors.NewInvalidPayloadError(err.Error())
	}
	if strings.TrimSpace(req.Question) == "" {
		return errors.NewValidationFailedError("question est requise")
	}

	profile, err := h.container.Clients.Get(ctx.UserContext(), user.ID, ctx.Params("id"))
	if err != nil {
		return err
	}

	answer, err := h.container.Francis.Ask(ctx.UserContext(), req.Question, req.ConversationHistory, profile)
	if err != nil {
		return errors.NewAssistantFailedError(err)
	}
	return ctx.JSON(fiber.Map{"answer": answer.Text})
}

// AnalyzeProfile asks the assistant service for a full written review of the
// stored profile, complementing the local checklist returned by Analyze.
func (h *ClientHandler) AnalyzeProfile(ctx *fiber.Ctx) error {
	user, err := requestUser(ctx)
	if err != nil {
		return err
	}

	profile, err := h.container.Clients.Get(ctx.UserContext(), user.ID, ctx.Params("id"))
	if err != nil {
		return err
	}

	analysis, err := h.container.Francis.AnalyzeProfile(ctx.UserContext(), profile)
	if err != nil {
		return errors.NewAssistantFailedError(err)
	}
	return ctx.JSON(analysis)
}

// AnalyzeIRPP relays the income tax simulation for the client's profile to
// the assistant service. The tax math lives there, not here.
func (h *ClientHandler) AnalyzeIRPP(ctx *fiber.Ctx) error {
	user, err := requestUser(ctx)
	if err != nil {
		return err
	}

	profile, err := h.container.Clients.Get(ctx.UserContext(), user.ID, ctx.Params("id"))
	if err != nil {
		return err
	}

	estimate, err := h.container.Francis.EstimateIRPP(ctx.UserContext(), profile)
	if err != nil {
		return errors.NewAssistantFailedError(err)
	}
	return ctx.JSON(estimate)
}

// ExportCSV flattens the profile document into a two-column key/value CSV.
func (h *ClientHandler) ExportCSV(ctx *fiber.Ctx) error {
	user, err := requestUser(ctx)
	if err != nil {
		return err
	}

	profile, err := h.container.Clients.Get(ctx.UserContext(), user.ID, ctx.Params("id"))
	if err != nil {
		return err
	}

	doc, err := json.Marshal(profile)
	if err != nil {
		return errors.NewQueryExecutionFailedError("marshal client profile", err)
	}
	var fields map[string]interface{}
	if err := json.Unmarshal(doc, &fields); err != nil {
		return errors.NewQueryExecutionFailedError("unmarshal client profile", err)
	}

	var sb strings.Builder
	w := csv.NewWriter(&sb)
	w.Write([]string{"champ", "valeur"})
	for _, key := range sortedKeys(fields) {
		w.Write([]string{key, formatCSVValue(fields[key])})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}

	ctx.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	ctx.Set(fiber.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="client-%s.csv"`, profile.ID))
	return ctx.SendString(sb.String())
}

// ExportNotImplemented answers the PDF and Excel export routes.
func (h *ClientHandler) ExportNotImplemented(ctx *fiber.Ctx) error {
	format := ctx.Path()[strings.LastIndex(ctx.Path(), "-")+1:]
	return errors.NewNotImplementedError("export " + format)
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (h *ClientHandler) deleteFromIndex(ctx *fiber.Ctx, clientID string) error {
	if h.container.ClientIndex == nil {
		return nil
	}
	return h.container.ClientIndex.Delete(ctx.UserContext(), clientID)
}

func (h *ClientHandler) mirrorToIndex(ctx *fiber.Ctx, advisorID string, profile *models.ClientProfile) {
	if h.container.ClientIndex == nil {
		return
	}
	if err := h.container.ClientIndex.Index(ctx.UserContext(), advisorID, profile); err != nil {
		h.container.Logger.Warn("search index update failed", map[string]interface{}{
			"clientId": profile.ID,
			"error":    err.Error(),
		})
	}
}

func formatCSVValue(v interface{}) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return value
	case []interface{}:
		parts := make([]string, 0, len(value))
		for _, item := range value {
			parts = append(parts, fmt.Sprintf("%v", item))
		}
		return strings.Join(parts, "; ")
	default:
		return fmt.Sprintf("%v", value)
	}
}
