package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lenscraft/internal/db"
	"github.com/lenscraft/internal/schema"
	"github.com/lenscraft/internal/service"
)

// screen 描述一个资源类型在后台表格中的展示方式。
type screen struct {
	Columns   []column
	NameField string
	Details   []column
}

var screens = map[string]screen{
	service.KindPortfolio.Name: {
		NameField: "title",
		Columns: []column{
			{Field: "src", Label: "Image", Format: formatImage},
			{Field: "title", Label: "Title", Sortable: true},
			{Field: "category", Label: "Category", Sortable: true},
			{Field: "sort_order", Label: "Order", Sortable: true},
		},
	},
	service.KindPricing.Name: {
		NameField: "name",
		Columns: []column{
			{Field: "name", Label: "Name", Sortable: true},
			{Field: "price", Label: "Price", Sortable: true},
			{Field: "features", Label: "Features", Format: formatList},
			{Field: "popular", Label: "Popular", Format: formatBool, Sortable: true},
			{Field: "sort_order", Label: "Order", Sortable: true},
		},
	},
	service.KindTestimonials.Name: {
		NameField: "name",
		Columns: []column{
			{Field: "image", Label: "Photo", Format: formatImage},
			{Field: "name", Label: "Name", Sortable: true},
			{Field: "role", Label: "Role", Sortable: true},
			{Field: "rating", Label: "Rating", Format: formatStars, Sortable: true},
			{Field: "sort_order", Label: "Order", Sortable: true},
		},
	},
	service.KindSkills.Name: {
		NameField: "name",
		Columns: []column{
			{Field: "name", Label: "Name", Sortable: true},
			{Field: "level", Label: "Level", Format: formatPercent, Sortable: true},
			{Field: "sort_order", Label: "Order", Sortable: true},
		},
	},
	service.KindEquipment.Name: {
		NameField: "name",
		Columns: []column{
			{Field: "name", Label: "Name", Sortable: true},
			{Field: "description", Label: "Description", Format: formatExcerpt},
			{Field: "sort_order", Label: "Order", Sortable: true},
		},
	},
	service.KindAwards.Name: {
		NameField: "title",
		Columns: []column{
			{Field: "year", Label: "Year", Sortable: true},
			{Field: "title", Label: "Title", Sortable: true},
			{Field: "category", Label: "Category", Sortable: true},
			{Field: "sort_order", Label: "Order", Sortable: true},
		},
	},
	service.KindBookings.Name: {
		NameField: "name",
		Columns: []column{
			{Field: "created_at", Label: "Received", Format: formatDate, Sortable: true},
			{Field: "name", Label: "Name", Sortable: true},
			{Field: "email", Label: "Email", Sortable: true},
			{Field: "event_type", Label: "Event", Sortable: true},
			{Field: "preferred_date", Label: "Preferred date", Sortable: true},
			{Field: "status", Label: "Status", Format: formatStatus, Sortable: true},
		},
		Details: []column{
			{Field: "name", Label: "Name"},
			{Field: "email", Label: "Email"},
			{Field: "phone", Label: "Phone"},
			{Field: "event_type", Label: "Event type"},
			{Field: "preferred_date", Label: "Preferred date"},
			{Field: "message", Label: "Message"},
			{Field: "created_at", Label: "Received", Format: formatDate},
		},
	},
	service.KindContacts.Name: {
		NameField: "name",
		Columns: []column{
			{Field: "created_at", Label: "Received", Format: formatDate, Sortable: true},
			{Field: "name", Label: "Name", Sortable: true},
			{Field: "email", Label: "Email", Sortable: true},
			{Field: "subject", Label: "Subject", Sortable: true},
			{Field: "status", Label: "Status", Format: formatStatus, Sortable: true},
		},
		Details: []column{
			{Field: "name", Label: "Name"},
			{Field: "email", Label: "Email"},
			{Field: "subject", Label: "Subject"},
			{Field: "message", Label: "Message"},
			{Field: "created_at", Label: "Received", Format: formatDate},
		},
	},
}

type detailItem struct {
	Label string
	Text  string
}

type formView struct {
	Mode       string
	Title      string
	Action     string
	CancelHref string
	Fields     []formField
	Details    []detailItem
	FormErrors []string
}

type confirmView struct {
	Name       string
	Action     string
	CancelHref string
}

func (a *API) lookupScreen(c *gin.Context) (service.Collection, screen, bool) {
	col, err := a.catalog.Lookup(c.Param("kind"))
	sc, known := screens[c.Param("kind")]
	if err != nil || !known {
		a.renderAdmin(c, http.StatusNotFound, "admin_error.html", "", gin.H{
			"title":   "Not found",
			"message": "There is no admin screen for this address.",
		})
		return nil, screen{}, false
	}
	return col, sc, true
}

// listQuery 保留表格的排序与筛选参数，用于各种链接与提交后的跳转。
func listQuery(c *gin.Context) url.Values {
	q := url.Values{}
	for _, key := range []string{"sort", "dir", "status"} {
		if v := c.Query(key); v != "" {
			q.Set(key, v)
		}
	}
	return q
}

func listURL(kind string, q url.Values) string {
	if len(q) == 0 {
		return "/admin/" + kind
	}
	return "/admin/" + kind + "?" + q.Encode()
}

// recordURL 生成单条记录的表单提交地址，例如 /admin/skills/<id>/delete?sort=name。
func recordURL(kind, id, suffix string, q url.Values) string {
	target := "/admin/" + kind + "/" + url.PathEscape(id) + suffix
	if len(q) == 0 {
		return target
	}
	return target + "?" + q.Encode()
}

func withMode(q url.Values, mode, id string) string {
	out := cloneValues(q)
	out.Set("mode", mode)
	if id != "" {
		out.Set("id", id)
	}
	return out.Encode()
}

// renderScreen 加载列表并渲染表格，extra 中可以带上打开的表单或删除确认。
func (a *API) renderScreen(c *gin.Context, status int, col service.Collection, sc screen, extra gin.H) {
	kind := col.Kind()
	q := listQuery(c)
	filter := service.ListFilter{}
	if kind.Submission {
		filter.Status = q.Get("status")
	}

	data := gin.H{
		"title":     kind.Label,
		"kind":      kind,
		"query":     q.Encode(),
		"statuses":  db.SubmissionStatuses,
		"statusSel": filter.Status,
		"creatable": kind.AdminCreatable(),
		"newHref":   listURL(kind.Name, nil) + "?" + withMode(q, "new", ""),
	}

	rows, err := col.Rows(c.Request.Context(), filter)
	if err != nil {
		var verr *schema.ValidationError
		if errors.As(err, &verr) {
			// 非法的状态筛选回退为不筛选
			filter.Status = ""
			q.Del("status")
			data["statusSel"] = ""
			rows, err = col.Rows(c.Request.Context(), filter)
		}
	}
	if err != nil {
		logger.Error("load admin list failed", slog.String("kind", kind.Name), slog.Any("err", err))
		data["listError"] = "Could not load records. Please refresh to try again."
		if status < http.StatusInternalServerError {
			status = http.StatusInternalServerError
		}
	}

	sorting := parseSort(c, sc.Columns)
	sortRows(rows, sorting)
	data["table"] = buildTable(kind.Name, sc.Columns, rows, sorting, q)
	data["rowCount"] = len(rows)

	for key, value := range extra {
		data[key] = value
	}
	a.renderAdmin(c, status, "admin_resource.html", kind.Name, data)
}

// ShowResourceScreen 渲染通用表格，并根据 mode 打开新建、编辑或删除确认。
func (a *API) ShowResourceScreen(c *gin.Context) {
	col, sc, ok := a.lookupScreen(c)
	if !ok {
		return
	}
	kind := col.Kind()
	q := listQuery(c)
	id := c.Query("id")

	switch c.Query("mode") {
	case "new":
		if !kind.AdminCreatable() {
			c.Redirect(http.StatusFound, listURL(kind.Name, q))
			return
		}
		a.renderScreen(c, http.StatusOK, col, sc, gin.H{"form": a.newForm(kind, q, kind.Create.Defaults(), nil)})
	case "edit", "delete":
		row, err := col.Row(c.Request.Context(), id)
		if err != nil {
			a.renderScreen(c, statusFor(err), col, sc, gin.H{"error": rowErrorMessage(kind, err)})
			return
		}
		if c.Query("mode") == "edit" {
			a.renderScreen(c, http.StatusOK, col, sc, gin.H{"form": a.editForm(kind, sc, q, id, row, row, nil)})
			return
		}
		a.renderScreen(c, http.StatusOK, col, sc, gin.H{"confirm": confirmView{
			Name:       cellText(row[sc.NameField]),
			Action:     recordURL(kind.Name, id, "/delete", q),
			CancelHref: listURL(kind.Name, q),
		}})
	default:
		a.renderScreen(c, http.StatusOK, col, sc, nil)
	}
}

func (a *API) newForm(kind service.Kind, q url.Values, values map[string]any, verr *schema.ValidationError) formView {
	form := formView{
		Mode:       "new",
		Title:      "New " + kind.Singular,
		Action:     listURL(kind.Name, q),
		CancelHref: listURL(kind.Name, q),
	}
	errs := map[string][]string{}
	if verr != nil {
		errs = verr.FieldErrors
		form.FormErrors = verr.FormErrors
	}
	form.Fields = buildFormFields(kind.Create.Fields(), values, errs)
	return form
}

func (a *API) editForm(kind service.Kind, sc screen, q url.Values, id string, row, values map[string]any, verr *schema.ValidationError) formView {
	form := formView{
		Mode:       "edit",
		Title:      "Edit " + kind.Singular,
		Action:     recordURL(kind.Name, id, "", q),
		CancelHref: listURL(kind.Name, q),
	}
	errs := map[string][]string{}
	if verr != nil {
		errs = verr.FieldErrors
		form.FormErrors = verr.FormErrors
	}

	fields := kind.Create.Fields()
	if kind.Submission {
		form.Title = kind.Singular + " from " + cellText(row[sc.NameField])
		fields = kind.Update.Fields()
		for _, detail := range sc.Details {
			form.Details = append(form.Details, detailItem{Label: detail.Label, Text: formatCell(detail.Format, row[detail.Field])})
		}
	}
	form.Fields = buildFormFields(fields, values, errs)
	return form
}

// SubmitCreateForm 处理新建表单提交。
func (a *API) SubmitCreateForm(c *gin.Context) {
	col, sc, ok := a.lookupScreen(c)
	if !ok {
		return
	}
	kind := col.Kind()
	q := listQuery(c)
	if !kind.AdminCreatable() {
		respondError(c, http.StatusMethodNotAllowed, kind.Label+" are created by the public forms only")
		return
	}
	if err := c.Request.ParseForm(); err != nil {
		a.renderScreen(c, http.StatusBadRequest, col, sc, gin.H{"form": a.newForm(kind, q, kind.Create.Defaults(), nil), "error": "The form could not be read."})
		return
	}

	input := kind.Create.FromForm(c.Request.PostForm)
	fields, err := kind.Create.ValidateMap(c.Request.Context(), input)
	if err == nil {
		_, err = col.Create(c.Request.Context(), fields)
	}
	if err != nil {
		var verr *schema.ValidationError
		errors.As(err, &verr)
		form := a.newForm(kind, q, input, verr)
		a.renderScreen(c, statusFor(err), col, sc, gin.H{"form": form, "error": formErrorMessage(kind, err)})
		return
	}
	c.Redirect(http.StatusSeeOther, listURL(kind.Name, q))
}

// SubmitUpdateForm 处理编辑表单提交。提交记录只会更新状态与备注。
func (a *API) SubmitUpdateForm(c *gin.Context) {
	col, sc, ok := a.lookupScreen(c)
	if !ok {
		return
	}
	kind := col.Kind()
	q := listQuery(c)
	id := c.Param("id")

	row, err := col.Row(c.Request.Context(), id)
	if err != nil {
		a.renderScreen(c, statusFor(err), col, sc, gin.H{"error": rowErrorMessage(kind, err)})
		return
	}
	if err := c.Request.ParseForm(); err != nil {
		a.renderScreen(c, http.StatusBadRequest, col, sc, gin.H{"form": a.editForm(kind, sc, q, id, row, row, nil), "error": "The form could not be read."})
		return
	}

	input := kind.Update.FromForm(c.Request.PostForm)
	patch, err := kind.Update.ValidateMap(c.Request.Context(), input)
	if err == nil {
		_, err = col.Update(c.Request.Context(), id, patch)
	}
	if err != nil {
		var verr *schema.ValidationError
		errors.As(err, &verr)
		form := a.editForm(kind, sc, q, id, row, input, verr)
		a.renderScreen(c, statusFor(err), col, sc, gin.H{"form": form, "error": formErrorMessage(kind, err)})
		return
	}
	c.Redirect(http.StatusSeeOther, listURL(kind.Name, q))
}

// SubmitDeleteForm 在确认后删除记录。
func (a *API) SubmitDeleteForm(c *gin.Context) {
	col, sc, ok := a.lookupScreen(c)
	if !ok {
		return
	}
	kind := col.Kind()
	if err := col.Delete(c.Request.Context(), c.Param("id")); err != nil {
		a.renderScreen(c, statusFor(err), col, sc, gin.H{"error": rowErrorMessage(kind, err)})
		return
	}
	c.Redirect(http.StatusSeeOther, listURL(kind.Name, listQuery(c)))
}

func statusFor(err error) int {
	var verr *schema.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func rowErrorMessage(kind service.Kind, err error) string {
	if errors.Is(err, service.ErrNotFound) {
		return "This " + strings.ToLower(kind.Singular) + " no longer exists."
	}
	logger.Error("admin request failed", slog.String("kind", kind.Name), slog.Any("err", err))
	return "Something went wrong. Please try again."
}

func formErrorMessage(kind service.Kind, err error) string {
	var verr *schema.ValidationError
	if errors.As(err, &verr) {
		return "Please correct the highlighted fields."
	}
	return rowErrorMessage(kind, err)
}
