package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lenscraft/internal/db"
	"github.com/lenscraft/internal/schema"
	"github.com/lenscraft/internal/service"
)

var settingsTitles = map[string]string{
	db.SettingKeyHero:   "Hero",
	db.SettingKeyAbout:  "About",
	db.SettingKeyFooter: "Footer",
}

type settingsForm struct {
	Key        string
	Title      string
	Action     string
	Fields     []formField
	FormErrors []string
	Error      string
	Saved      bool
}

// ShowSettings 渲染三个设置区块的编辑表单。
func (a *API) ShowSettings(c *gin.Context) {
	a.renderSettings(c, http.StatusOK, "", nil, nil)
}

// renderSettings 渲染设置页；failedKey 对应的表单使用提交的值与错误信息。
func (a *API) renderSettings(c *gin.Context, status int, failedKey string, submitted map[string]any, failure error) {
	forms := make([]settingsForm, 0, len(db.SettingKeys))
	for _, key := range db.SettingKeys {
		sectionSchema, _ := service.SettingsSchema(key)
		form := settingsForm{
			Key:    key,
			Title:  settingsTitles[key],
			Action: "/admin/settings/" + key,
			Saved:  c.Query("saved") == key,
		}

		values := submitted
		errs := map[string][]string{}
		if key == failedKey {
			var verr *schema.ValidationError
			if errors.As(failure, &verr) {
				errs = verr.FieldErrors
				form.FormErrors = verr.FormErrors
				form.Error = "Please correct the highlighted fields."
			} else if failure != nil {
				form.Error = "Could not save. Please try again."
			}
		} else {
			section, err := a.settings.Section(c.Request.Context(), key)
			if err != nil {
				logger.Error("load settings failed", slog.String("key", key), slog.Any("err", err))
				form.Error = "Could not load this section."
				status = http.StatusInternalServerError
			}
			values = section
		}
		form.Fields = buildFormFields(sectionSchema.Fields(), values, errs)
		forms = append(forms, form)
	}

	a.renderAdmin(c, status, "admin_settings.html", "settings", gin.H{
		"title": "Site settings",
		"forms": forms,
	})
}

// SubmitSettingsForm 保存一个设置区块，成功后跳回设置页。
func (a *API) SubmitSettingsForm(c *gin.Context) {
	key := c.Param("key")
	sectionSchema, err := service.SettingsSchema(key)
	if err != nil {
		a.renderAdmin(c, http.StatusNotFound, "admin_error.html", "settings", gin.H{
			"title":   "Not found",
			"message": "Unknown settings section.",
		})
		return
	}
	if err := c.Request.ParseForm(); err != nil {
		a.renderSettings(c, http.StatusBadRequest, key, map[string]any{}, err)
		return
	}

	input := sectionSchema.FromForm(c.Request.PostForm)
	fields, err := sectionSchema.ValidateMap(c.Request.Context(), input)
	if err == nil {
		err = a.settings.Update(c.Request.Context(), key, fields)
	}
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			logger.Error("save settings failed", slog.String("key", key), slog.Any("err", err))
		}
		a.renderSettings(c, status, key, input, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/admin/settings?saved="+key)
}
