package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/lenscraft/internal/service"
)

// CreateBooking stores a public booking request. No session is required.
func (a *API) CreateBooking(c *gin.Context) {
	a.createSubmission(c, service.KindBookings.Name)
}

// CreateContact stores a public contact message. No session is required.
func (a *API) CreateContact(c *gin.Context) {
	a.createSubmission(c, service.KindContacts.Name)
}

func (a *API) createSubmission(c *gin.Context, kind string) {
	col, err := a.catalog.Lookup(kind)
	if err != nil {
		writeError(c, err)
		return
	}
	a.createFromBody(c, col)
}
