package schemaapi

import (
	"sort"

	"tablekeeper/core/cluster"
	"tablekeeper/core/logger"
	"tablekeeper/core/reconcile"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the schema API.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the schema API routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/schema")
	group.Get("/tables", h.HandleListTables)
	group.Get("/plan", h.HandlePlan)
	group.Post("/reconcile", h.HandleReconcile)
}

// tableEntry is the wire form of a remote table.
type tableEntry struct {
	Name     string   `json:"name"`
	Families []string `json:"families"`
}

// planEntry is the wire form of a computed diff.
type planEntry struct {
	Table  string   `json:"table"`
	Exists bool     `json:"exists"`
	Add    []string `json:"add"`
	Modify []string `json:"modify"`
	Delete []string `json:"delete"`
}

// resultEntry is the wire form of a reconciliation result.
type resultEntry struct {
	Table   string   `json:"table"`
	Outcome string   `json:"outcome"`
	Applied []string `json:"applied,omitempty"`
	Error   string   `json:"error,omitempty"`
}

// HandleListTables returns the remote table catalog.
func (h *Handler) HandleListTables(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	descriptors, err := h.service.ListRemote(c.Context())
	if err != nil {
		l.Error("Listing remote tables failed", zap.Error(err))
		return c.Status(errStatus(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	entries := make([]tableEntry, 0, len(descriptors))
	for _, desc := range descriptors {
		entry := tableEntry{Name: desc.Name, Families: make([]string, 0, len(desc.Families))}
		for name := range desc.Families {
			entry.Families = append(entry.Families, name)
		}
		sort.Strings(entry.Families)
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return c.JSON(entries)
}

// HandlePlan returns the diffs a reconciliation run would apply, without
// mutating anything.
func (h *Handler) HandlePlan(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	diffs, err := h.service.Plan(c.Context())
	if err != nil {
		l.Error("Plan computation failed", zap.Error(err))
		return c.Status(errStatus(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	entries := make([]planEntry, 0, len(diffs))
	for _, diff := range diffs {
		entry := planEntry{
			Table:  diff.Table,
			Exists: diff.Exists,
			Delete: diff.Delete,
		}
		for _, spec := range diff.Add {
			entry.Add = append(entry.Add, spec.Name)
		}
		for _, change := range diff.Modify {
			entry.Modify = append(entry.Modify, change.New.Name)
		}
		entries = append(entries, entry)
	}
	return c.JSON(entries)
}

// HandleReconcile runs a reconciliation and returns the per-table results.
// The no_create query parameter restricts the run to inspection of
// existing tables.
func (h *Handler) HandleReconcile(c *fiber.Ctx) error {
	opts := reconcile.Options{
		AllowCreateOrModify: !c.QueryBool("no_create"),
	}

	results := h.service.Reconcile(c.Context(), opts)

	entries := make([]resultEntry, 0, len(results))
	for _, r := range results {
		entry := resultEntry{
			Table:   r.Table,
			Outcome: string(r.Outcome),
			Applied: r.Applied,
		}
		if r.Err != nil {
			entry.Error = r.Err.Error()
		}
		entries = append(entries, entry)
	}

	summary := reconcile.Summarize(results)
	status := fiber.StatusOK
	if summary.Failed > 0 {
		status = fiber.StatusInternalServerError
	}
	return c.Status(status).JSON(fiber.Map{
		"results": entries,
		"summary": fiber.Map{
			"created":   summary.Created,
			"updated":   summary.Updated,
			"unchanged": summary.Unchanged,
			"skipped":   summary.Skipped,
			"failed":    summary.Failed,
		},
	})
}

// errStatus maps a failure to an HTTP status. Backend communication
// failures surface as a bad gateway, everything else as an internal error.
func errStatus(err error) int {
	if cluster.IsComm(err) {
		return fiber.StatusBadGateway
	}
	return fiber.StatusInternalServerError
}
