// Package opsserver is an optional HTTP surface over the same request/
// response document the CLI reads from stdin/stdout: POST /process accepts
// one input document and returns one response document; GET /healthz
// reports liveness. POST /process answers the posted document's
// stat_requests against the network built at startup; its base_requests,
// render_settings and routing_settings are not used. Dispatch is single-flight (mutex-guarded), consistent
// with spec.md §5's "no concurrent query execution" — this is an ops
// convenience, not a concurrent service.
//
// Adapted from the teacher's (passbi_core) cmd/api/main.go Fiber wiring
// (recover/logger/cors middleware, graceful shutdown, customErrorHandler),
// stripped of partner authentication and the HTTP route surface, which
// don't apply to a single-document batch processor.
package opsserver

import (
	"bytes"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"

	"github.com/passbi/routestat/internal/dispatch"
	"github.com/passbi/routestat/internal/docio"
)

// Server wraps a Fiber app exposing the dispatcher over HTTP.
type Server struct {
	app  *fiber.App
	mu   sync.Mutex
	disp *dispatch.Dispatcher
}

// New builds a Server backed by disp. Every /process request runs under
// Server's mutex, so only one request is ever dispatched at a time.
func New(disp *dispatch.Dispatcher) *Server {
	app := fiber.New(fiber.Config{
		AppName:      "routestat ops server",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorHandler: errorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "${time} | ${status} | ${latency} | ${method} ${path} | ${locals:request_id}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))
	app.Use(requestID)

	s := &Server{app: app, disp: disp}

	app.Get("/healthz", s.handleHealthz)
	app.Post("/process", s.handleProcess)

	return s
}

// ListenAndServe starts the HTTP server on addr and blocks until it is shut
// down via SIGINT/SIGTERM.
func (s *Server) ListenAndServe(addr string) error {
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan

		log.Println("opsserver: shutting down")
		if err := s.app.Shutdown(); err != nil {
			log.Printf("opsserver: shutdown error: %v", err)
		}
	}()

	return s.app.Listen(addr)
}

func (s *Server) handleHealthz(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (s *Server) handleProcess(c *fiber.Ctx) error {
	doc, err := docio.Decode(bytes.NewReader(c.Body()))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	s.mu.Lock()
	responses, err := s.disp.Dispatch(doc.StatRequests)
	s.mu.Unlock()
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return docio.Encode(c.Response().BodyWriter(), responses)
}

func requestID(c *fiber.Ctx) error {
	id := c.Get("X-Request-Id")
	if id == "" {
		id = uuid.NewString()
	}
	c.Locals("request_id", id)
	c.Set("X-Request-Id", id)
	return c.Next()
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}
	log.Printf("opsserver: error: %v", err)
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}
