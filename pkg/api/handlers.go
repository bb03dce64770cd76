package api

import (
	"encoding/json"
	"mime"
	"net/http"
	"net/url"
	"strconv"

	"github.com/matzehuels/topicsheet/pkg/drafts"
	"github.com/matzehuels/topicsheet/pkg/errors"
	"github.com/matzehuels/topicsheet/pkg/pipeline"
	"github.com/matzehuels/topicsheet/pkg/session"
	"github.com/matzehuels/topicsheet/pkg/sheet"
)

// Form actions.
const (
	ActionSave   = "save"
	ActionDelete = "delete"
	ActionSubmit = "submit"
)

// MsgMissingDraftName is flashed when save is pressed without a name.
const MsgMissingDraftName = "Please enter a name for your draft."

const flashCookie = "flash"

type formData struct {
	Organisation   string
	Title          string
	Flash          string
	Selected       string
	Drafts         []string
	Data           sheet.FieldMap
	TopFields      []sheet.FieldSpec
	OptionsHeading string
	Options        []int
	Aspects        []string
	DecisionKey    string
	DecisionLabel  string
	ActionsHeading string
	Actions        []int
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Server) handleForm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	owner := session.OwnerFromContext(ctx)
	selected := r.URL.Query().Get("draft")

	data := sheet.FieldMap{}
	if selected != "" {
		fields, err := drafts.Load(ctx, s.store, owner, selected)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		data = fields
	}
	names, err := drafts.Names(ctx, s.store, owner)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	page := formData{
		Organisation:   s.render.Branding.Organisation,
		Title:          s.render.Branding.Title,
		Flash:          popFlash(w, r),
		Selected:       selected,
		Drafts:         names,
		Data:           data,
		TopFields:      sheet.TopFields,
		OptionsHeading: sheet.OptionsHeading,
		Options:        seq(sheet.OptionCount),
		Aspects:        sheet.OptionAspects,
		DecisionKey:    sheet.KeyDecision,
		DecisionLabel:  sheet.DecisionLabel,
		ActionsHeading: sheet.ActionsHeading,
		Actions:        seq(sheet.ActionCount),
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.ExecuteTemplate(w, "form.html", page); err != nil {
		s.logger.Error("render form", "error", err)
	}
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxFormBytes)
	if err := r.ParseForm(); err != nil {
		s.fail(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse form"))
		return
	}

	ctx := r.Context()
	owner := session.OwnerFromContext(ctx)
	name := r.PostForm.Get("draft_name")
	fields := sheet.FieldMap{}
	for _, key := range sheet.Keys() {
		if v := r.PostForm.Get(key); v != "" {
			fields[key] = v
		}
	}

	switch r.PostForm.Get("action") {
	case ActionSave:
		if name == "" {
			redirectWithFlash(w, r, "/", MsgMissingDraftName)
			return
		}
		if _, err := drafts.Save(ctx, s.store, owner, name, fields); err != nil {
			if errors.HTTPStatus(err) == http.StatusBadRequest {
				redirectWithFlash(w, r, "/", errors.UserMessage(err))
				return
			}
			s.fail(w, r, err)
			return
		}
		s.logger.Info("draft saved", "owner", owner, "draft", name)
		redirectWithFlash(w, r, "/?draft="+url.QueryEscape(name), "Draft '"+name+"' saved successfully.")

	case ActionDelete:
		msg := ""
		if name != "" {
			if err := s.store.Delete(ctx, owner, name); err != nil {
				s.fail(w, r, err)
				return
			}
			s.logger.Info("draft deleted", "owner", owner, "draft", name)
			msg = "Draft '" + name + "' has been deleted."
		}
		redirectWithFlash(w, r, "/", msg)

	case ActionSubmit:
		s.sendPDF(w, r, name, fields)

	default:
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

func (s *Server) sendPDF(w http.ResponseWriter, r *http.Request, name string, fields sheet.FieldMap) {
	opts := s.render
	opts.Fields = fields
	opts.DraftName = name
	opts.Formats = []string{pipeline.FormatPDF}

	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	data := res.Artifacts[pipeline.FormatPDF]

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{
		"filename": opts.Filename(pipeline.FormatPDF),
	}))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	_, _ = w.Write(data)
}

func (s *Server) handleListDrafts(w http.ResponseWriter, r *http.Request) {
	list, err := s.store.List(r.Context(), session.OwnerFromContext(r.Context()))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"drafts": list})
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "error", err)
	}
	http.Error(w, errors.UserMessage(err), status)
}

func redirectWithFlash(w http.ResponseWriter, r *http.Request, to, msg string) {
	if msg != "" {
		http.SetCookie(w, &http.Cookie{
			Name:     flashCookie,
			Value:    url.QueryEscape(msg),
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	http.Redirect(w, r, to, http.StatusSeeOther)
}

// popFlash returns the pending flash message and clears it.
func popFlash(w http.ResponseWriter, r *http.Request) string {
	c, err := r.Cookie(flashCookie)
	if err != nil {
		return ""
	}
	http.SetCookie(w, &http.Cookie{Name: flashCookie, Path: "/", MaxAge: -1})
	msg, err := url.QueryUnescape(c.Value)
	if err != nil {
		return ""
	}
	return msg
}

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}
