// This is a http type of reporter.
// It exposes the federator state and metrics, and lets an external
// scheduler trigger a pass.

package reporter

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	logger "github.com/sirupsen/logrus"

	"github.com/TEENet-io/bridge-federator/federator"
)

const (
	ROUTE_HEALTH  = "/health"
	ROUTE_STATUS  = "/status"
	ROUTE_RUN     = "/run"
	ROUTE_METRICS = "/metrics"

	shutdownTimeout = 5 * time.Second
)

// Runner is the part of the federator the reporter drives.
type Runner interface {
	Run(ctx context.Context) (bool, error)
	State() federator.State
}

type HttpReporter struct {
	serverIP   string // listen ip
	serverPort string // listen port

	runner   Runner
	gatherer prometheus.Gatherer

	// called when a triggered pass ends with a fatal error
	onFatal func(error)
}

func NewHttpReporter(serverIP, serverPort string, runner Runner, gatherer prometheus.Gatherer, onFatal func(error)) *HttpReporter {
	if onFatal == nil {
		onFatal = func(error) {}
	}
	return &HttpReporter{
		serverIP:   serverIP,
		serverPort: serverPort,
		runner:     runner,
		gatherer:   gatherer,
		onFatal:    onFatal,
	}
}

// Hook up routes & handlers
func (h *HttpReporter) SetupRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET(ROUTE_HEALTH, Health)
	router.GET(ROUTE_STATUS, h.Status)
	router.POST(ROUTE_RUN, h.Run)
	if h.gatherer != nil {
		router.GET(ROUTE_METRICS, gin.WrapH(promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{})))
	}

	return router
}

// Serve listens on ip:port until ctx is done.
func (h *HttpReporter) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:              net.JoinHostPort(h.serverIP, h.serverPort),
		Handler:           h.SetupRouter(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.WithField("addr", srv.Addr).Info("http reporter listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *HttpReporter) Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"state": h.runner.State().String()})
}

// Run triggers a pass and answers once it is over.
func (h *HttpReporter) Run(c *gin.Context) {
	processed, err := h.runner.Run(c.Request.Context())
	if err == nil {
		c.JSON(http.StatusOK, gin.H{"processed": processed})
		return
	}

	if errors.Is(err, federator.ErrPassInProgress) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	var fatal *federator.FatalError
	if errors.As(err, &fatal) {
		h.onFatal(err)
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
