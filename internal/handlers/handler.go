package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/csg33k/era-intake/internal/domain"
	"github.com/csg33k/era-intake/internal/intake"
	"github.com/csg33k/era-intake/internal/ports"
	"github.com/csg33k/era-intake/internal/templates"
)

const sessionCookie = "era_session"

// maxUploadBody caps an upload request. Anything between the attachment
// limit and this cap is still read far enough to report its size.
const maxUploadBody = 4 * domain.MaxAttachmentBytes

var errNoFile = errors.New("no file selected")

type Handler struct {
	sessions   ports.SessionStore[*intake.Controller]
	newSession func() *intake.Controller
	receipts   ports.ReceiptGenerator
	log        *slog.Logger
}

// New wires the HTTP surface. newSession builds the controller for every
// fresh page load.
func New(sessions ports.SessionStore[*intake.Controller], newSession func() *intake.Controller, receipts ports.ReceiptGenerator) *Handler {
	return &Handler{
		sessions:   sessions,
		newSession: newSession,
		receipts:   receipts,
		log:        slog.Default(),
	}
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger(h.log))
	r.Use(middleware.Recoverer)
	r.Use(securityHeaders)

	r.Get("/", h.index)
	r.Get("/healthz", h.healthz)
	r.Post("/draft", h.updateDraft)
	r.Post("/attachments/{side}", h.uploadAttachment)
	r.Delete("/attachments/{side}", h.removeAttachment)
	r.Post("/submit", h.submit)
	r.Post("/restart", h.restart)
	r.Get("/receipt.pdf", h.receipt)
	return r
}

// index always starts a new session; reloading the page is how an applicant
// abandons a draft.
func (h *Handler) index(w http.ResponseWriter, r *http.Request) {
	if ck, err := r.Cookie(sessionCookie); err == nil {
		h.sessions.Delete(ck.Value)
	}
	c := h.newSession()
	id := h.sessions.Create(c)
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	w.Header().Set("Cache-Control", "no-store")
	render(w, r, templates.Page(c))
}

func (h *Handler) healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "ok")
}

// updateDraft stores changed answers and re-renders the conditional
// sections so visibility and labels follow the draft.
func (h *Handler) updateDraft(w http.ResponseWriter, r *http.Request) {
	c, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := c.Apply(r.PostForm); err != nil {
		if errors.Is(err, intake.ErrAlreadySubmitted) {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	render(w, r, templ.Join(templates.Fields(c), templates.Toasts(c.Notifications())))
}

func (h *Handler) uploadAttachment(w http.ResponseWriter, r *http.Request) {
	side := domain.Side(chi.URLParam(r, "side"))
	if !side.Valid() {
		http.NotFound(w, r)
		return
	}
	c, ok := h.session(w, r)
	if !ok {
		return
	}
	f, err := readUpload(w, r)
	switch {
	case errors.Is(err, errNoFile):
		render(w, r, templ.Join(templates.Slot(c, side), templates.Toasts(c.Notifications())))
		return
	case err != nil:
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	done, err := c.Accept(side, f)
	switch {
	case errors.Is(err, intake.ErrNoUploads):
		http.NotFound(w, r)
		return
	case errors.Is(err, intake.ErrAlreadySubmitted):
		w.WriteHeader(http.StatusNoContent)
		return
	case err != nil:
		// rejected before decoding; the reason is already queued as a toast
		h.log.Debug("upload rejected", "side", side, "err", err)
	default:
		select {
		case err := <-done:
			if err != nil {
				h.log.Debug("upload not accepted", "side", side, "err", err)
			}
		case <-r.Context().Done():
			return
		}
	}
	render(w, r, templ.Join(templates.Slot(c, side), templates.Toasts(c.Notifications())))
}

func (h *Handler) removeAttachment(w http.ResponseWriter, r *http.Request) {
	side := domain.Side(chi.URLParam(r, "side"))
	if !side.Valid() {
		http.NotFound(w, r)
		return
	}
	c, ok := h.session(w, r)
	if !ok {
		return
	}
	if _, err := c.Remove(side); err != nil {
		http.NotFound(w, r)
		return
	}
	render(w, r, templ.Join(templates.Slot(c, side), templates.Toasts(c.Notifications())))
}

// submit applies the posted answers and runs one submission. The outbound
// request is not tied to the browser connection: once sent, it completes
// even if the applicant navigates away.
func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	c, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := c.Apply(r.PostForm); err != nil && !errors.Is(err, intake.ErrAlreadySubmitted) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	err := c.Submit(context.WithoutCancel(r.Context()))
	var verr *intake.ValidationError
	switch {
	case err == nil, errors.Is(err, intake.ErrAlreadySubmitted):
		conf, _ := c.Confirmation()
		render(w, r, templ.Join(templates.Confirmation(conf), templates.Toasts(c.Notifications())))
		return
	case errors.As(err, &verr):
		h.log.Debug("submission incomplete", "field", verr.Field)
	case errors.Is(err, intake.ErrInFlight):
		h.log.Debug("duplicate submit ignored")
	}
	render(w, r, templ.Join(templates.Form(c), templates.Toasts(c.Notifications())))
}

func (h *Handler) restart(w http.ResponseWriter, r *http.Request) {
	if ck, err := r.Cookie(sessionCookie); err == nil {
		h.sessions.Delete(ck.Value)
	}
	http.SetCookie(w, &http.Cookie{Name: sessionCookie, Path: "/", MaxAge: -1})
	redirectHome(w, r)
}

func (h *Handler) receipt(w http.ResponseWriter, r *http.Request) {
	c, ok := h.session(w, r)
	if !ok {
		return
	}
	conf, ok := c.Confirmation()
	if !ok {
		http.Error(w, "no submitted application in this session", http.StatusNotFound)
		return
	}
	var buf bytes.Buffer
	if err := h.receipts.Generate(&conf, &buf); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	filename := fmt.Sprintf("receipt-%s.pdf", conf.Tracking.ApplicationNumber)
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.Write(buf.Bytes())
}

// session resolves the caller's form session. When it is gone the browser
// is sent back to a fresh form and false is returned.
func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*intake.Controller, bool) {
	ck, err := r.Cookie(sessionCookie)
	if err == nil {
		if c, ok := h.sessions.Get(ck.Value); ok {
			return c, true
		}
	}
	redirectHome(w, r)
	return nil, false
}

func redirectHome(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", "/")
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// readUpload streams the "file" part of a multipart upload. Files over the
// attachment limit are drained rather than buffered so the rejection can
// still name their size.
func readUpload(w http.ResponseWriter, r *http.Request) (intake.File, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBody)
	mr, err := r.MultipartReader()
	if err != nil {
		return intake.File{}, err
	}
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return intake.File{}, errNoFile
		}
		if err != nil {
			return intake.File{}, err
		}
		if part.FormName() != "file" {
			part.Close()
			continue
		}
		f := intake.File{Name: part.FileName(), ContentType: part.Header.Get("Content-Type")}
		data, err := io.ReadAll(io.LimitReader(part, domain.MaxAttachmentBytes+1))
		if err != nil {
			return intake.File{}, err
		}
		if f.Name == "" && len(data) == 0 {
			return intake.File{}, errNoFile
		}
		f.Data = data
		f.Size = int64(len(data))
		if f.Size > domain.MaxAttachmentBytes {
			rest, _ := io.Copy(io.Discard, part)
			f.Size += rest
			f.Data = nil
		}
		return f, nil
	}
}

// render writes a templ component to the response.
func render(w http.ResponseWriter, r *http.Request, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := c.Render(r.Context(), w); err != nil {
		http.Error(w, err.Error(), 500)
	}
}
