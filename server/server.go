// Package server exposes a terms lookup service over HTTP. The REST API runs
// on fiber; metrics and the websocket watch endpoint run on a plain net/http
// ops listener.
package server

import (
	stderrors "errors"

	"github.com/gofiber/fiber/v2"
	"github.com/oarkflow/errors"
	"github.com/oarkflow/json"
	"github.com/oarkflow/jsonschema"
	"github.com/oarkflow/jsonschema/request"

	"github.com/oarkflow/micromap"
	"github.com/oarkflow/micromap/logger"
	"github.com/oarkflow/micromap/metrics"
	"github.com/oarkflow/micromap/terms"
)

var (
	errUnknownChild  = errors.New("unknown child concept")
	errUnknownParent = errors.New("unknown parent concept")
)

// conceptSchema validates concept registration payloads.
const conceptSchema = `{
	"type": "object",
	"properties": {
		"uri": {"type": "string", "minLength": 1},
		"code": {"type": "string"},
		"displayName": {"type": "string"},
		"codeSystem": {"type": "string"},
		"codeSystemName": {"type": "string"}
	},
	"required": ["uri"]
}`

// Config carries the server's tunables.
type Config struct {
	Addr    string
	OpsAddr string
	// RatePerSecond limits each client IP; zero disables limiting.
	RatePerSecond float64
	RateBurst     int
}

// Server serves a Taxonomy over HTTP.
type Server struct {
	cfg    Config
	tax    *terms.Taxonomy
	log    logger.Logger
	hub    *Hub
	app    *fiber.App
	schema *jsonschema.Schema
}

// New builds a Server around the given taxonomy.
func New(cfg Config, tax *terms.Taxonomy, log logger.Logger) (*Server, error) {
	if log == nil {
		log = logger.NewNullLogger()
	}
	compiled, err := jsonschema.NewCompiler().Compile([]byte(conceptSchema))
	if err != nil {
		return nil, err
	}
	s := &Server{
		cfg:    cfg,
		tax:    tax,
		log:    log,
		hub:    NewHub(log),
		schema: compiled,
	}
	s.app = s.buildApp()
	return s, nil
}

// App returns the fiber application, exposed for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen starts the REST listener and, when configured, the ops listener.
// It blocks until the REST listener stops.
func (s *Server) Listen() error {
	if s.cfg.OpsAddr != "" {
		go func() {
			if err := s.listenOps(); err != nil {
				s.log.Error("ops listener stopped", logger.F("error", err.Error()))
			}
		}()
	}
	s.log.Info("terms service listening", logger.F("addr", s.cfg.Addr))
	return s.app.Listen(s.cfg.Addr)
}

func (s *Server) buildApp() *fiber.App {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})

	app.Use(requestID())
	if s.cfg.RatePerSecond > 0 {
		app.Use(rateLimit(s.cfg.RatePerSecond, s.cfg.RateBurst))
	}

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	app.Get("/concepts", s.handleListOrResolve)
	app.Post("/concepts", s.handleRegister)
	app.Delete("/concepts", s.handleRemove)
	app.Post("/concepts/annotations", s.handleAnnotate)
	app.Get("/concepts/annotations", s.handleAnnotation)

	app.Get("/systems/:system/concepts/:code", s.handleResolveCode)

	app.Post("/taxonomy/links", s.handleLink)
	app.Get("/taxonomy/broader", s.handleBroader)
	app.Get("/taxonomy/narrower", s.handleNarrower)

	return app
}

func (s *Server) handleListOrResolve(c *fiber.Ctx) error {
	uri := c.Query("uri")
	if uri == "" {
		return c.JSON(fiber.Map{
			"vocabulary": s.tax.Name(),
			"concepts":   s.tax.Concepts(),
		})
	}
	concept, ok := s.tax.Resolve(uri)
	if !ok {
		metrics.Lookups.WithLabelValues("miss").Inc()
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "concept not found"})
	}
	metrics.Lookups.WithLabelValues("hit").Inc()
	return c.JSON(concept)
}

func (s *Server) handleResolveCode(c *fiber.Ctx) error {
	concept, ok := s.tax.ResolveCode(c.Params("system"), c.Params("code"))
	if !ok {
		metrics.Lookups.WithLabelValues("miss").Inc()
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "concept not found"})
	}
	metrics.Lookups.WithLabelValues("hit").Inc()
	return c.JSON(concept)
}

func (s *Server) handleRegister(c *fiber.Ctx) error {
	var intermediate any
	if err := request.UnmarshalFiberCtx(s.schema, c, &intermediate); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	var concept terms.Concept
	if err := json.Unmarshal(c.Body(), &concept); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if err := s.tax.Register(&concept); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	metrics.RegisteredConcepts.Set(float64(s.tax.Len()))
	s.hub.Broadcast(Event{Kind: "registered", URI: concept.URI()})
	s.log.Info("concept registered",
		logger.F("uri", concept.URI()),
		logger.F("code", concept.Code()),
	)
	return c.Status(fiber.StatusCreated).JSON(&concept)
}

func (s *Server) handleRemove(c *fiber.Ctx) error {
	uri := c.Query("uri")
	if uri == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "uri query parameter required"})
	}
	concept, ok := s.tax.Remove(uri)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "concept not found"})
	}
	metrics.RegisteredConcepts.Set(float64(s.tax.Len()))
	s.hub.Broadcast(Event{Kind: "removed", URI: concept.URI()})
	return c.JSON(concept)
}

type annotateRequest struct {
	URI   string `json:"uri"`
	Key   string `json:"key"`
	Value string `json:"value"`
}

func (s *Server) handleAnnotate(c *fiber.Ctx) error {
	var req annotateRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	err := s.tax.Annotate(req.URI, req.Key, req.Value)
	switch {
	case stderrors.Is(err, terms.ErrUnknownConcept):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": err.Error()})
	case stderrors.Is(err, micromap.ErrCapacityExceeded):
		metrics.CapacityViolations.Inc()
		s.log.Warn("annotation slot full",
			logger.F("uri", req.URI),
			logger.F("key", req.Key),
		)
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": "annotation slot already occupied by a different key",
		})
	case err != nil:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) handleAnnotation(c *fiber.Ctx) error {
	uri, key := c.Query("uri"), c.Query("key")
	value, ok := s.tax.Annotation(uri, key)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "annotation not found"})
	}
	return c.JSON(fiber.Map{"uri": uri, "key": key, "value": value})
}

type linkRequest struct {
	Child  string `json:"child"`
	Parent string `json:"parent"`
}

func (s *Server) handleLink(c *fiber.Ctx) error {
	var req linkRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	child, ok := s.tax.Resolve(req.Child)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": errUnknownChild.Error()})
	}
	parent, ok := s.tax.Resolve(req.Parent)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": errUnknownParent.Error()})
	}
	if err := s.tax.AddSubConceptOf(child, parent); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) handleBroader(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"uris": s.tax.Broader(c.Query("uri"))})
}

func (s *Server) handleNarrower(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"uris": s.tax.Narrower(c.Query("uri"))})
}
