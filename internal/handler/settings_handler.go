package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lenscraft/internal/service"
)

// GetSettings returns the hero, about and footer sections.
func (a *API) GetSettings(c *gin.Context) {
	settings, err := a.settings.Get(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

// UpdateSettings replaces one section with the validated body.
func (a *API) UpdateSettings(c *gin.Context) {
	key := c.Param("key")
	sectionSchema, err := service.SettingsSchema(key)
	if err != nil {
		writeError(c, err)
		return
	}
	body, err := readBody(c)
	if err != nil {
		writeError(c, err)
		return
	}
	fields, err := sectionSchema.Validate(c.Request.Context(), body)
	if err != nil {
		writeError(c, err)
		return
	}
	if err := a.settings.Update(c.Request.Context(), key, fields); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
