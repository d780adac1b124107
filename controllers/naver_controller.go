package controllers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/clinic-landing-api/mapscript"
	"github.com/kendall-kelly/clinic-landing-api/services"
)

// MapScriptLoader is the part of mapscript.Loader the routes use
type MapScriptLoader interface {
	Load(ctx context.Context) error
	State() (mapscript.State, error)
	Reset() bool
}

// ScriptStore returns a downloaded script bundle by id
type ScriptStore interface {
	Script(id string) ([]byte, bool)
}

// NaverController proxies the map provider so the secret key stays on the server
type NaverController struct {
	naver   *services.NaverService
	loader  MapScriptLoader
	scripts ScriptStore
}

func NewNaverController(naver *services.NaverService, loader MapScriptLoader, scripts ScriptStore) *NaverController {
	return &NaverController{naver: naver, loader: loader, scripts: scripts}
}

// ClientID handles GET /api/naver/client-id
func (nc *NaverController) ClientID(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"clientId": nc.naver.ClientID()})
}

// ReverseGeocode handles GET /api/naver/reverse-geocode?coords=lng,lat
func (nc *NaverController) ReverseGeocode(c *gin.Context) {
	coords := c.Query("coords")
	if coords == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "coords parameter is required"})
		return
	}

	resp, err := nc.naver.ReverseGeocode(c.Request.Context(), coords)
	if err != nil {
		errorMessage(c, http.StatusInternalServerError, err)
		return
	}

	c.Data(resp.StatusCode, resp.ContentType, resp.Body)
}

// Geocode handles GET /api/naver/geocoding?query=
func (nc *NaverController) Geocode(c *gin.Context) {
	query := c.Query("query")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "query parameter is required"})
		return
	}

	resp, err := nc.naver.Geocode(c.Request.Context(), query)
	if err != nil {
		errorMessage(c, http.StatusInternalServerError, err)
		return
	}

	c.Data(resp.StatusCode, resp.ContentType, resp.Body)
}

// MapsScript handles GET /api/naver/maps.js - serves the bundle once the loader has it
func (nc *NaverController) MapsScript(c *gin.Context) {
	if err := nc.loader.Load(c.Request.Context()); err != nil {
		errorMessage(c, http.StatusServiceUnavailable, err)
		return
	}

	body, ok := nc.scripts.Script(mapscript.ScriptID)
	if !ok {
		errorMessage(c, http.StatusServiceUnavailable, errors.New("map script is not available"))
		return
	}

	c.Data(http.StatusOK, "application/javascript; charset=utf-8", body)
}

// MapScriptStatus handles GET /api/admin/map-script
func (nc *NaverController) MapScriptStatus(c *gin.Context) {
	state, err := nc.loader.State()
	resp := gin.H{"state": state.String()}
	if err != nil {
		resp["error"] = err.Error()
	}
	c.JSON(http.StatusOK, resp)
}

// ResetMapScript handles POST /api/admin/map-script/reset - clears a cached failure so
// the next request retries the download
func (nc *NaverController) ResetMapScript(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "reset": nc.loader.Reset()})
}
