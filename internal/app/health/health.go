package health

import (
  "context"
  "errors"
  "net/http"
  "time"

  "github.com/gin-gonic/gin"
  log "github.com/sirupsen/logrus"
)

const shutdownTimeout = 5 * time.Second

// Responder answers liveness probes. Hosting platforms ping the root
// path, probes hit /health, both get the same payload.
type Responder struct {
  config Config
  router *gin.Engine
  server *http.Server
}

type Config struct {
  Addr string
}

type statusPayload struct {
  Status    string `json:"status"`
  Service   string `json:"service"`
  Timestamp string `json:"timestamp"`
}

func NewResponder(config Config) *Responder {
  gin.SetMode(gin.ReleaseMode)

  router := gin.New()
  router.Use(gin.Recovery())

  r := &Responder{
    config: config,
    router: router,
  }
  r.registerRoutes()

  return r
}

func (r *Responder) registerRoutes() {
  r.router.GET("/", r.handleStatus)
  r.router.GET("/health", r.handleStatus)
}

func (r *Responder) Start(ctx context.Context) {
  r.server = &http.Server{
    Addr:    r.config.Addr,
    Handler: r.router,
  }

  go func() {
    <-ctx.Done()

    shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
    defer cancel()

    if err := r.server.Shutdown(shutdownCtx); err != nil {
      log.Errorf("health: server shutdown: %v", err)
    }
  }()

  go func() {
    log.
      WithField("health.addr", r.config.Addr).
      Infof("health: responder started")

    err := r.server.ListenAndServe()
    if err != nil && !errors.Is(err, http.ErrServerClosed) {
      log.Errorf("health: server: %v", err)
    }
  }()
}

func (r *Responder) handleStatus(c *gin.Context) {
  c.JSON(http.StatusOK, statusPayload{
    Status:    "ok",
    Service:   "restockwatch",
    Timestamp: time.Now().UTC().Format(time.RFC3339),
  })
}
