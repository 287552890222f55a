package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

func pathID(r *http.Request) (int32, error) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 32)
	return int32(id), err
}

func paginationParams(r *http.Request) (page, pageSize int32) {
	page = 1
	pageSize = defaultPageSize

	if v, err := strconv.ParseInt(r.URL.Query().Get("page"), 10, 32); err == nil && v > 0 {
		page = int32(v)
	}
	if v, err := strconv.ParseInt(r.URL.Query().Get("page_size"), 10, 32); err == nil && v > 0 {
		pageSize = int32(v)
		if pageSize > maxPageSize {
			pageSize = maxPageSize
		}
	}
	return page, pageSize
}

func dateParam(r *http.Request, name string) (time.Time, bool) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return time.Time{}, false
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// listResponse wraps a paginated collection.
type listResponse struct {
	Items interface{} `json:"items"`
	Total int32       `json:"total"`
	Page  int32       `json:"page"`
}
