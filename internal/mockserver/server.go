// Package mockserver implements a fake Connect API for tests and local
// development. It issues client-credentials tokens, keeps designs, orders
// and feed jobs in memory, and serves fixture data for the catalogue and
// lookup endpoints.
package mockserver

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/labstack/echo/v4"

	"github.com/donaldgifford/connect-client/internal/notify"
	"github.com/donaldgifford/connect-client/pkg/connect"
)

// Credentials accepted unless WithCredentials is given.
const (
	DefaultClientID     = "mock-client"
	DefaultClientSecret = "mock-secret"
)

const (
	defaultTokenTTL = 3600
	defaultPerPage  = 15
)

// Server is an in-memory Connect API.
type Server struct {
	clientID     string
	clientSecret string
	tokenTTL     int
	status       string
	doneStatus   string
	notifier     notify.Notifier
	logger       *slog.Logger

	exchanges atomic.Int64

	mu      sync.Mutex
	nextID  int
	tokens  map[string]struct{}
	users   map[string]struct{}
	designs map[int]*connect.Design
	orders  map[int]*connect.Order
	exports map[int]*connect.ProductExport
	imports map[int]*connect.ProductImport
	files   map[string][]byte

	products  []connect.Product
	seo       []connect.Seo
	carriers  []connect.Carrier
	countries []connect.Country
	locales   []connect.Locale
	states    []connect.State
	timezones []connect.Timezone
}

// Option configures the Server.
type Option func(*Server)

// WithCredentials sets the accepted client id and secret.
func WithCredentials(id, secret string) Option {
	return func(s *Server) {
		s.clientID = id
		s.clientSecret = secret
	}
}

// WithTokenTTL sets the expires_in of issued tokens, in seconds.
func WithTokenTTL(seconds int) Option {
	return func(s *Server) {
		s.tokenTTL = seconds
	}
}

// WithStatusMessage sets the message returned by /status.
func WithStatusMessage(msg string) Option {
	return func(s *Server) {
		s.status = msg
	}
}

// WithDoneStatus sets the status a finished feed job reports. The default
// is "done".
func WithDoneStatus(status string) Option {
	return func(s *Server) {
		s.doneStatus = status
	}
}

// WithNotifier delivers feed job callbacks through n.
func WithNotifier(n notify.Notifier) Option {
	return func(s *Server) {
		s.notifier = n
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// WithFile serves data under /downloads/<key>.
func WithFile(key string, data []byte) Option {
	return func(s *Server) {
		s.files[key] = data
	}
}

// New creates a Server seeded with fixture data.
func New(opts ...Option) *Server {
	s := &Server{
		clientID:     DefaultClientID,
		clientSecret: DefaultClientSecret,
		tokenTTL:     defaultTokenTTL,
		status:       "OK",
		doneStatus:   connect.JobStatusDone,
		logger:       slog.New(slog.DiscardHandler),
		tokens:       make(map[string]struct{}),
		users:        make(map[string]struct{}),
		designs:      make(map[int]*connect.Design),
		orders:       make(map[int]*connect.Order),
		exports:      make(map[int]*connect.ProductExport),
		imports:      make(map[int]*connect.ProductImport),
		files:        make(map[string][]byte),
	}
	seed(s)
	for _, opt := range opts {
		opt(s)
	}
	if s.notifier == nil {
		s.notifier = notify.NewNoOpNotifier(s.logger)
	}
	return s
}

// Handler returns the echo instance serving the API routes.
func (s *Server) Handler() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(Recovery(s.logger))
	e.Use(RequestLog(s.logger))

	e.POST("/oauth/token", s.issueToken)

	api := e.Group("", s.requireBearer)
	api.GET("/status", s.apiStatus)
	api.GET("/downloads/:key", s.downloadFile)

	api.POST("/designs/create-user", s.createEditorUser)
	api.POST("/designs", s.createDesign)
	api.GET("/designs/:id", s.findDesign)
	api.PATCH("/designs/:id/submit", s.submitDesign)
	api.GET("/designs/:id/preview", s.designPreview)

	api.GET("/orders", s.listOrders)
	api.POST("/orders", s.createOrder)
	api.GET("/orders/:id", s.findOrder)
	api.PATCH("/orders/:id/submit", s.submitOrder)
	api.PATCH("/orders/:id/cancel", s.cancelOrder)
	api.POST("/orders/:id/items", s.addOrderItem)

	api.GET("/product-feeds/export", s.listExports)
	api.POST("/product-feeds/export", s.requestExport)
	api.GET("/product-feeds/export/:id", s.findExport)
	api.PATCH("/product-feeds/export/:id/cancel", s.cancelExport)
	api.DELETE("/product-feeds/export/:id", s.deleteExport)

	api.GET("/product-feeds/import", s.listImports)
	api.POST("/product-feeds/import", s.requestImport)
	api.GET("/product-feeds/import/:id", s.findImport)
	api.PATCH("/product-feeds/import/:id/validate", s.validateImport)
	api.PATCH("/product-feeds/import/:id/confirm", s.confirmImport)
	api.PATCH("/product-feeds/import/:id/cancel", s.cancelImport)
	api.DELETE("/product-feeds/import/:id", s.deleteImport)

	api.GET("/products", s.listProducts)
	api.GET("/products/seo", s.listSeo)
	api.GET("/carriers", s.listCarriers)
	api.GET("/countries", s.listCountries)
	api.GET("/locales", s.listLocales)
	api.GET("/states", s.listStates)
	api.GET("/timezones", s.listTimezones)

	return e
}

// TokenExchanges returns how many tokens the server has issued.
func (s *Server) TokenExchanges() int64 {
	return s.exchanges.Load()
}

// RevokeTokens invalidates every issued token, so the next API call gets
// a 401.
func (s *Server) RevokeTokens() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.tokens)
}

// SetStatusMessage changes the message returned by /status.
func (s *Server) SetStatusMessage(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = msg
}

func (s *Server) apiStatus(c echo.Context) error {
	s.mu.Lock()
	msg := s.status
	s.mu.Unlock()
	return c.JSON(http.StatusOK, connect.APIStatus{Message: msg})
}

func (s *Server) downloadFile(c echo.Context) error {
	s.mu.Lock()
	data, ok := s.files[c.Param("key")]
	s.mu.Unlock()
	if !ok {
		return notFound(c, "File")
	}
	return c.Blob(http.StatusOK, "application/octet-stream", data)
}

// newID returns the next resource id. Callers hold s.mu.
func (s *Server) newID() int {
	s.nextID++
	return s.nextID
}

func pathID(c echo.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	return id, err == nil && id > 0
}

// validationError writes a Laravel-style 422 body.
func validationError(c echo.Context, errs map[string][]string) error {
	return c.JSON(http.StatusUnprocessableEntity, map[string]any{
		"message": "The given data was invalid.",
		"errors":  errs,
	})
}

func notFound(c echo.Context, what string) error {
	return c.JSON(http.StatusNotFound, map[string]string{
		"message": fmt.Sprintf("%s not found.", what),
	})
}

func conflict(c echo.Context, msg string) error {
	return c.JSON(http.StatusUnprocessableEntity, map[string]string{"message": msg})
}

func baseURL(c echo.Context) string {
	return c.Scheme() + "://" + c.Request().Host
}
