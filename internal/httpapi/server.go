package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/AntonStoeckl/docquery-go/docquery"
)

const (
	messageQuerySucceeded = "query succeeded"
	messageEmptyQuery     = "query must not be empty"
	messageInvalidBody    = "invalid request body"
	messageQueryFailed    = "query failed: "

	logMsgQueryFailed = "query request failed"
	logAttrError      = "error"
	logAttrErrorKind  = "error_kind"
)

var ErrNilQuerier = errors.New("nil querier supplied")

// Querier answers raw statements; *queryservice.Service implements it.
type Querier interface {
	Query(ctx context.Context, raw string) (docquery.QueryResult, error)
}

// QueryRequest is the body of POST /api/mongo/query.
type QueryRequest struct {
	Query string `json:"query"`
}

// QueryResponse is returned by both query routes. Result is null unless Success is true.
type QueryResponse struct {
	Success bool                  `json:"success"`
	Message string                `json:"message"`
	Result  *docquery.QueryResult `json:"result"`
}

// HealthResponse is returned by GET /api/mongo/health.
type HealthResponse struct {
	Status string `json:"status"`
}

type Server struct {
	querier       Querier
	logger        docquery.Logger
	gatherer      prometheus.Gatherer
	allowedOrigin string
}

// NewRouter builds the gin engine serving querier.
func NewRouter(querier Querier, options ...Option) (*gin.Engine, error) {
	if querier == nil {
		return nil, ErrNilQuerier
	}

	s := &Server{querier: querier, allowedOrigin: "*"}

	for _, option := range options {
		if err := option(s); err != nil {
			return nil, err
		}
	}

	router := gin.New()
	router.Use(gin.Recovery(), requestID(), s.requestLogger(), cors(s.allowedOrigin))

	api := router.Group("/api/mongo")
	api.POST("/query", s.query)
	api.POST("/query/raw", s.queryRaw)
	api.GET("/health", s.health)

	if s.gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))
	}

	return router, nil
}

func (s *Server) query(c *gin.Context) {
	var req QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, QueryResponse{Message: messageInvalidBody})
		return
	}

	s.answer(c, req.Query)
}

func (s *Server) queryRaw(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, QueryResponse{Message: messageInvalidBody})
		return
	}

	s.answer(c, string(body))
}

func (s *Server) answer(c *gin.Context, raw string) {
	if strings.TrimSpace(raw) == "" {
		c.JSON(http.StatusBadRequest, QueryResponse{Message: messageEmptyQuery})
		return
	}

	result, err := s.querier.Query(c.Request.Context(), raw)
	if err != nil {
		s.logError(c, err)

		if errors.Is(err, docquery.ErrEmptyQuery) {
			c.JSON(http.StatusBadRequest, QueryResponse{Message: messageEmptyQuery})
			return
		}

		c.JSON(http.StatusInternalServerError, QueryResponse{Message: messageQueryFailed + err.Error()})

		return
	}

	c.JSON(http.StatusOK, QueryResponse{Success: true, Message: messageQuerySucceeded, Result: &result})
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

func (s *Server) logError(c *gin.Context, err error) {
	if s.logger != nil {
		s.logger.Error(
			logMsgQueryFailed,
			logAttrRequestID, c.GetString(ctxKeyRequestID),
			logAttrError, err.Error(),
			logAttrErrorKind, docquery.ErrorKind(err),
		)
	}
}
