package kiosk

import (
	"context"
	"log/slog"

	"github.com/cmt-technologies/otrmtv/internal/metrics"
	"github.com/cmt-technologies/otrmtv/internal/models"
	"github.com/cmt-technologies/otrmtv/internal/render"
	"github.com/cmt-technologies/otrmtv/internal/store"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	StatePath    = "/api/state"
	IdentityPath = "/api/identity"
	ActivatePath = "/api/activate"
	QRCodePath   = "/qr.png"
	MetricsPath  = "/metrics"

	defaultQRSize = 512
)

// Activator starts a new pairing activation.
type Activator interface {
	Activate(ctx context.Context) <-chan models.PairingState
}

// Server exposes the pairing board to on-screen and remote clients.
type Server struct {
	webServer *fiber.App
	board     *store.Board
	activator Activator
	qrSize    int
}

func NewWebServer() *fiber.App {
	return fiber.New(fiber.Config{
		DisableStartupMessage: true,
		AppName:               "otrmtv",
	})
}

func NewServer(board *store.Board, activator Activator, reg *prometheus.Registry) *Server {
	s := &Server{
		webServer: NewWebServer(),
		board:     board,
		activator: activator,
		qrSize:    defaultQRSize,
	}

	s.webServer.Get("/", s.screenHandler)
	s.webServer.Get(StatePath, s.stateHandler)
	s.webServer.Get(IdentityPath, s.identityHandler)
	s.webServer.Get(QRCodePath, s.qrHandler)
	s.webServer.Post(ActivatePath, s.activateHandler)
	if reg != nil {
		s.webServer.Get(MetricsPath, adaptor.HTTPHandler(metrics.Handler(reg)))
	}

	return s
}

func (s *Server) App() *fiber.App {
	return s.webServer
}

func (s *Server) screenHandler(c *fiber.Ctx) error {
	return c.SendString(render.Screen(s.board.State()))
}

func (s *Server) stateHandler(c *fiber.Ctx) error {
	return c.JSON(s.board.State())
}

func (s *Server) identityHandler(c *fiber.Ctx) error {
	return c.JSON(s.board.Identity())
}

func (s *Server) qrHandler(c *fiber.Ctx) error {
	payload, err := s.board.Payload()
	if err != nil {
		return c.SendStatus(fiber.StatusNotFound)
	}

	b, err := render.QRCodePNG(payload.QRConfig, s.qrSize)
	if err != nil {
		slog.Error("Fail to render QR code", "error", err)
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	c.Set(fiber.HeaderContentType, "image/png")
	c.Set(fiber.HeaderCacheControl, "no-store")
	return c.Send(b)
}

// activateHandler starts a fresh activation and returns before it settles;
// clients follow progress through StatePath.
func (s *Server) activateHandler(c *fiber.Ctx) error {
	states := s.activator.Activate(context.Background())
	loading := <-states
	go drain(states)

	slog.Info("Re-activation requested", "remote", c.IP(), "generation", loading.Generation)
	return c.Status(fiber.StatusAccepted).JSON(loading)
}

func drain(states <-chan models.PairingState) {
	for range states {
	}
}

func (s *Server) Listen(addr string) error {
	slog.Info("Kiosk server listening", "addr", addr)
	return s.webServer.Listen(addr)
}

func (s *Server) Shutdown() error {
	slog.Info("Stop kiosk server")
	return s.webServer.Shutdown()
}
