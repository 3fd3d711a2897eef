package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lenscraft/internal/service"
)

func (a *API) lookupCollection(c *gin.Context) (service.Collection, bool) {
	col, err := a.catalog.Lookup(c.Param("kind"))
	if err != nil {
		writeError(c, err)
		return nil, false
	}
	return col, true
}

func (a *API) lookupPublicCollection(c *gin.Context) (service.Collection, bool) {
	col, ok := a.lookupCollection(c)
	if !ok {
		return nil, false
	}
	if !col.Kind().PublicReadable() {
		respondError(c, http.StatusNotFound, msgNotFound)
		return nil, false
	}
	return col, true
}

// ListPublicResources returns published content of one kind.
func (a *API) ListPublicResources(c *gin.Context) {
	col, ok := a.lookupPublicCollection(c)
	if !ok {
		return
	}
	items, err := col.List(c.Request.Context(), service.ListFilter{})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// GetPublicResource returns one content record.
func (a *API) GetPublicResource(c *gin.Context) {
	col, ok := a.lookupPublicCollection(c)
	if !ok {
		return
	}
	item, err := col.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// ListResources returns every record of a kind, optionally filtered by ?status=.
func (a *API) ListResources(c *gin.Context) {
	col, ok := a.lookupCollection(c)
	if !ok {
		return
	}
	items, err := col.List(c.Request.Context(), service.ListFilter{Status: c.Query("status")})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// GetResource returns one record by id.
func (a *API) GetResource(c *gin.Context) {
	col, ok := a.lookupCollection(c)
	if !ok {
		return
	}
	item, err := col.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// CreateResource validates the body against the kind's create rules and stores it.
func (a *API) CreateResource(c *gin.Context) {
	col, ok := a.lookupCollection(c)
	if !ok {
		return
	}
	kind := col.Kind()
	if !kind.AdminCreatable() {
		respondError(c, http.StatusMethodNotAllowed, kind.Label+" are created by the public forms only")
		return
	}
	a.createFromBody(c, col)
}

// UpdateResource merges the validated fields into the stored record.
func (a *API) UpdateResource(c *gin.Context) {
	col, ok := a.lookupCollection(c)
	if !ok {
		return
	}
	body, err := readBody(c)
	if err != nil {
		writeError(c, err)
		return
	}
	patch, err := col.Kind().Update.Validate(c.Request.Context(), body)
	if err != nil {
		writeError(c, err)
		return
	}
	item, err := col.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// DeleteResource removes a record; a missing id answers 404.
func (a *API) DeleteResource(c *gin.Context) {
	col, ok := a.lookupCollection(c)
	if !ok {
		return
	}
	if err := col.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (a *API) createFromBody(c *gin.Context, col service.Collection) {
	body, err := readBody(c)
	if err != nil {
		writeError(c, err)
		return
	}
	fields, err := col.Kind().Create.Validate(c.Request.Context(), body)
	if err != nil {
		writeError(c, err)
		return
	}
	item, err := col.Create(c.Request.Context(), fields)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}
