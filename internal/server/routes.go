package server

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/berfenger/microgrid2mqtt/internal/core/domain"
	"github.com/berfenger/microgrid2mqtt/pkg/microgrid"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/samber/lo"
)

type metricView struct {
	Key  string `json:"key"`
	Unit string `json:"unit,omitempty"`
}

type componentDataView struct {
	Id        uint64             `json:"id"`
	Timestamp time.Time          `json:"timestamp"`
	Metrics   map[string]float64 `json:"metrics"`
}

type refreshView struct {
	Components int      `json:"components"`
	Problems   []string `json:"problems"`
}

type errorView struct {
	Error string `json:"error"`
}

func (s *Server) RegisterRoutes() http.Handler {
	e := echo.New()
	if s.httpLog {
		e.Use(middleware.Logger())
	}
	e.Use(middleware.Recover())

	e.GET("/healthcheck", s.HealthCheckHandler)
	e.GET("/components", s.ComponentsHandler)
	e.GET("/components/:id", s.ComponentHandler)
	e.GET("/components/:id/data", s.ComponentDataHandler)
	e.GET("/metrics", s.MetricsHandler)
	e.GET("/metrics/:key", s.MetricHandler)
	e.POST("/topology/refresh", s.RefreshTopologyHandler)

	return e
}

func (s *Server) HealthCheckHandler(c echo.Context) error {
	res, err := s.rootContext.RequestFuture(s.masterActor, domain.ActorHealthRequest{}, 10*time.Second).Result()
	if err != nil {
		return c.String(http.StatusServiceUnavailable, "health_check: FAIL")
	}
	if response, ok := res.(domain.ActorHealthResponse); ok && response.Healthy {
		return c.String(http.StatusOK, "health_check: OK")
	}
	return c.String(http.StatusServiceUnavailable, "health_check: FAIL")
}

func (s *Server) ComponentsHandler(c echo.Context) error {
	req := domain.GetComponentsRequest{}
	if name := c.QueryParam("category"); name != "" {
		category, err := microgrid.ParseComponentCategory(name)
		if err != nil {
			return c.JSON(http.StatusBadRequest, errorView{Error: err.Error()})
		}
		req.Category = &category
	}
	resp, err := request[domain.GetComponentsResponse](s, req)
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, errorView{Error: err.Error()})
	}
	idx, err := s.validIndex()
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, errorView{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, lo.Map(resp.Components, func(comp microgrid.Component, _ int) domain.ComponentView {
		return domain.NewComponentView(comp, idx[comp.Id])
	}))
}

func (s *Server) ComponentHandler(c echo.Context) error {
	id, err := componentId(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorView{Error: err.Error()})
	}
	resp, err := request[domain.GetComponentResponse](s, domain.GetComponentRequest{Id: id})
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, errorView{Error: err.Error()})
	}
	if !resp.Found {
		return c.JSON(http.StatusNotFound, errorView{Error: "component not found"})
	}
	return c.JSON(http.StatusOK, domain.NewComponentView(resp.Component, resp.Valid))
}

func (s *Server) ComponentDataHandler(c echo.Context) error {
	id, err := componentId(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorView{Error: err.Error()})
	}
	resp, err := request[domain.GetComponentDataResponse](s, domain.GetComponentDataRequest{Id: id})
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, errorView{Error: err.Error()})
	}
	if !resp.Found {
		return c.JSON(http.StatusNotFound, errorView{Error: "no data for component"})
	}
	metrics := map[string]float64{}
	for _, metric := range resp.Data.MetricIds() {
		if value, ok := resp.Data.Metric(metric); ok {
			metrics[metric.Key()] = value
		}
	}
	return c.JSON(http.StatusOK, componentDataView{
		Id:        uint64(resp.Data.ComponentId()),
		Timestamp: resp.Data.Timestamp(),
		Metrics:   metrics,
	})
}

func (s *Server) MetricsHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, lo.Map(microgrid.AllComponentMetricIds(), func(id microgrid.ComponentMetricId, _ int) metricView {
		return newMetricView(id)
	}))
}

func (s *Server) MetricHandler(c echo.Context) error {
	id, err := microgrid.ParseComponentMetricId(c.Param("key"))
	if errors.Is(err, microgrid.ErrUnknownMetric) {
		return c.JSON(http.StatusNotFound, errorView{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, newMetricView(id))
}

func (s *Server) RefreshTopologyHandler(c echo.Context) error {
	resp, err := request[domain.RefreshTopologyResponse](s, domain.RefreshTopologyRequest{})
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, errorView{Error: err.Error()})
	}
	return c.JSON(http.StatusAccepted, refreshView{
		Components: resp.Components,
		Problems: lo.Map(resp.Problems, func(err error, _ int) string {
			return err.Error()
		}),
	})
}

// validIndex tells which components pass the topology policy.
func (s *Server) validIndex() (map[microgrid.ComponentId]bool, error) {
	resp, err := request[domain.GetComponentsResponse](s, domain.GetComponentsRequest{ValidOnly: true})
	if err != nil {
		return nil, err
	}
	return lo.SliceToMap(resp.Components, func(c microgrid.Component) (microgrid.ComponentId, bool) {
		return c.Id, true
	}), nil
}

// request asks the master actor and unwraps the typed response, response
// errors included.
func request[T domain.ActorResponse](s *Server, msg any) (T, error) {
	var zero T
	res, err := s.rootContext.RequestFuture(s.masterActor, msg, s.requestTimeout).Result()
	if err != nil {
		return zero, err
	}
	resp, ok := res.(T)
	if !ok {
		return zero, errors.New("unexpected response")
	}
	if resp.HasResponseError() {
		return zero, resp.GetResponseError()
	}
	return resp, nil
}

func componentId(c echo.Context) (microgrid.ComponentId, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, errors.New("invalid component id")
	}
	return microgrid.ComponentId(id), nil
}

func newMetricView(id microgrid.ComponentMetricId) metricView {
	return metricView{Key: id.Key(), Unit: id.Unit()}
}
