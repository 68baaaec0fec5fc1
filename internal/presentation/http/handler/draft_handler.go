package handler

import (
	"errors"
	"io"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/receipt-studio/internal/application/service"
	"github.com/sangkips/receipt-studio/internal/domain/entity"
	"github.com/sangkips/receipt-studio/internal/domain/enum"
	"github.com/sangkips/receipt-studio/internal/presentation/http/dto/request"
	"github.com/sangkips/receipt-studio/internal/presentation/http/dto/response"
	"github.com/sangkips/receipt-studio/internal/presentation/http/middleware"
	"github.com/sangkips/receipt-studio/pkg/apperror"
	"go.uber.org/zap"
)

// MaxLogoBytes caps logo uploads.
const MaxLogoBytes = 2 << 20

// DraftHandler edits and exports the session's draft receipt.
type DraftHandler struct {
	exportService *service.ExportService
	log           *zap.SugaredLogger
}

func NewDraftHandler(exportService *service.ExportService, log *zap.SugaredLogger) *DraftHandler {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &DraftHandler{exportService: exportService, log: log}
}

func respondDraft(c *gin.Context, status int, message string, sess *service.Session, totals entity.Totals) {
	body := response.NewDraftResponse(sess.ID.String(), sess.Model.Snapshot(), totals, sess.Model.View())
	response.Success(c, status, message, body)
}

// Get returns the draft, its totals and a text preview.
func (h *DraftHandler) Get(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	respondDraft(c, http.StatusOK, "Draft retrieved", sess, sess.Model.ComputeTotals())
}

// UpdateFields sets several fields at once. Nothing is applied when any
// name is unknown.
func (h *DraftHandler) UpdateFields(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}

	var req request.UpdateFieldsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	names := make([]string, 0, len(req.Fields))
	var unknown []apperror.FieldError
	for name := range req.Fields {
		if !enum.ReceiptField(name).IsValid() {
			unknown = append(unknown, apperror.FieldError{Field: name, Message: "not a receipt field"})
			continue
		}
		names = append(names, name)
	}
	if len(unknown) > 0 {
		sort.Slice(unknown, func(i, j int) bool { return unknown[i].Field < unknown[j].Field })
		err := apperror.NewUnknownFieldError(unknown[0].Field)
		err.Errors = unknown
		response.Error(c, err)
		return
	}
	sort.Strings(names)

	var totals entity.Totals
	for _, name := range names {
		t, err := sess.Model.SetField(name, req.Fields[name])
		if err != nil {
			response.Error(c, err)
			return
		}
		totals = t
	}
	respondDraft(c, http.StatusOK, "Draft updated", sess, totals)
}

// UploadLogo reads a multipart "logo" file. The type is sniffed from the
// content, not trusted from the client.
func (h *DraftHandler) UploadLogo(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}

	fh, err := c.FormFile("logo")
	if err != nil {
		response.BadRequest(c, "A logo file is required")
		return
	}
	if fh.Size > MaxLogoBytes {
		response.BadRequest(c, "Logo is too large")
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.Error(c, err)
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxLogoBytes+1))
	if err != nil {
		response.Error(c, err)
		return
	}
	if len(data) > MaxLogoBytes {
		response.BadRequest(c, "Logo is too large")
		return
	}

	totals, err := sess.Model.SetLogo(data, http.DetectContentType(data))
	if err != nil {
		response.Error(c, err)
		return
	}
	respondDraft(c, http.StatusOK, "Logo updated", sess, totals)
}

func (h *DraftHandler) ClearLogo(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	respondDraft(c, http.StatusOK, "Logo removed", sess, sess.Model.ClearLogo())
}

func (h *DraftHandler) AddItem(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	respondDraft(c, http.StatusCreated, "Item added", sess, sess.Model.AddLineItem())
}

func (h *DraftHandler) UpdateItem(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	index, ok := parseIndex(c)
	if !ok {
		return
	}

	var req request.LineItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	totals, err := sess.Model.UpdateLineItem(index, req.Name, req.Price)
	if err != nil {
		response.Error(c, err)
		return
	}
	respondDraft(c, http.StatusOK, "Item updated", sess, totals)
}

func (h *DraftHandler) RemoveItem(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	index, ok := parseIndex(c)
	if !ok {
		return
	}
	respondDraft(c, http.StatusOK, "Item removed", sess, sess.Model.RemoveLineItem(index))
}

// Reset clears the draft. Requires confirmation.
func (h *DraftHandler) Reset(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}

	totals, err := sess.Model.ResetToDefaults(c.Request.Context(), RequestConfirmer(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	respondDraft(c, http.StatusOK, "Receipt cleared", sess, totals)
}

// Download saves the draft to history and streams the rendered file.
func (h *DraftHandler) Download(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}

	var req request.DownloadRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			response.Error(c, apperror.ErrUnsupportedFormat)
			return
		}
	}
	if req.Format == "" {
		req.Format = c.Query("format")
	}

	status := func(ok bool, msg string) {
		if ok {
			h.log.Infow(msg, "session", sess.ID.String())
		} else {
			h.log.Warnw(msg, "session", sess.ID.String())
		}
	}

	res, err := h.exportService.Download(c.Request.Context(), sess, req.Format, status)
	if err != nil {
		response.Error(c, err)
		return
	}

	if res.Warning != "" {
		c.Header(middleware.HistoryWarningHeader, res.Warning)
	}
	c.Header("Content-Disposition", `attachment; filename="`+res.Filename+`"`)
	c.Data(http.StatusOK, res.ContentType, res.Data)
}
