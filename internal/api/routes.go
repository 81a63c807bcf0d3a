package api

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"saferoute/internal/api/handlers"
	"saferoute/internal/api/middleware"
)

type Router struct {
	routeHandler *handlers.RouteHandler
	log          logrus.FieldLogger
}

func NewRouter(routeHandler *handlers.RouteHandler, log logrus.FieldLogger) *Router {
	return &Router{
		routeHandler: routeHandler,
		log:          log,
	}
}

func (r *Router) Setup(engine *gin.Engine) {
	engine.Use(middleware.RequestID(), middleware.AccessLog(r.log), gin.Recovery())

	engine.GET("/health", r.routeHandler.Health)

	engine.POST("/get_safest_route", r.routeHandler.GetSafestRoute)

	routes := engine.Group("/routes")
	{
		routes.POST("/score", r.routeHandler.ScoreRoutes)
	}

	debug := engine.Group("/debug")
	{
		debug.GET("/nearest", r.routeHandler.NearestReference)
	}
}
