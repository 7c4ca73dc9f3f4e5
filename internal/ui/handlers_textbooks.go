package ui

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"textbook-admin/pkg/client"
)

var textbookFields = []string{"isbn", "textbook_name", "author", "publisher_id", "type_id", "edition", "publication_date", "price", "description"}

func (h *Handler) TextbooksList(w http.ResponseWriter, r *http.Request) error {
	c := backendFromContext(r.Context())
	keyword := strings.TrimSpace(r.URL.Query().Get("keyword"))

	resp, err := c.ListTextbooks(r.Context(), client.TextbookFilter{
		ListOptions: client.ListOptions{Page: pageFromRequest(r), PerPage: defaultPerPage},
		Keyword:     keyword,
	})
	if err != nil {
		return err
	}
	page, err := resp.Page()
	if err != nil {
		return err
	}
	records, err := decodeItems(page.Items)
	if err != nil {
		return err
	}

	renderHTML(w, http.StatusOK, textbooksPage(r, textbooksView{
		Keyword:    keyword,
		Records:    records,
		Pagination: page.Pagination,
		ShowCreate: r.URL.Query().Get("new") == "1",
	}))
	return nil
}

func (h *Handler) TextbookCreate(w http.ResponseWriter, r *http.Request) error {
	if err := r.ParseForm(); err != nil {
		redirectWithMessage(w, r, "/ui/textbooks?new=1", "表单无效", MessageError)
		return nil
	}
	values := formValues(r, textbookFields...)
	if errs := ValidateForm(values, TextbookRules); len(errs) > 0 {
		redirectWithMessage(w, r, "/ui/textbooks?new=1", strings.Join(errs, "；"), MessageError)
		return nil
	}

	body := map[string]any{}
	for k, v := range values {
		if v == "" {
			continue
		}
		switch k {
		case "publisher_id", "type_id":
			n, _ := strconv.Atoi(v)
			body[k] = n
		case "price":
			f, _ := strconv.ParseFloat(v, 64)
			body[k] = f
		default:
			body[k] = v
		}
	}

	if _, err := backendFromContext(r.Context()).CreateTextbook(r.Context(), body); err != nil {
		if client.IsSessionExpired(err) {
			return err
		}
		redirectWithMessage(w, r, "/ui/textbooks?new=1", ErrorMessage(err, "创建失败"), MessageError)
		return nil
	}
	redirectWithMessage(w, r, "/ui/textbooks", "教材已创建", MessageSuccess)
	return nil
}

func (h *Handler) TextbookDelete(w http.ResponseWriter, r *http.Request) error {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		redirectWithMessage(w, r, "/ui/textbooks", "无效的教材编号", MessageError)
		return nil
	}
	if _, err := backendFromContext(r.Context()).DeleteTextbook(r.Context(), id); err != nil {
		if client.IsSessionExpired(err) {
			return err
		}
		redirectWithMessage(w, r, "/ui/textbooks", ErrorMessage(err, "删除失败"), MessageError)
		return nil
	}
	redirectWithMessage(w, r, "/ui/textbooks", "教材已删除", MessageSuccess)
	return nil
}
